/*
 * Copyright 2026 The Yorkie Authors. All rights reserved.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package edits_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yorkie-team/revisor/api/types"
	"github.com/yorkie-team/revisor/pkg/errors"
	"github.com/yorkie-team/revisor/server/backend/database"
	"github.com/yorkie-team/revisor/server/edits"
)

func TestSendEdit(t *testing.T) {
	ctx := context.Background()

	t.Run("hello to hello world test", func(t *testing.T) {
		env := setup(t, newTestConfig())
		thread := env.createThread(t, "", false)
		msg := env.send(t, thread, &database.MessageInfo{Body: "hello"})
		assert.Equal(t, types.EditStateNone, msg.EditState)

		env.clock.Advance(time.Hour)
		out, err := env.manager.SendEdit(ctx, env.localEdit(msg, "hello world"))
		require.NoError(t, err)

		assert.Equal(t, msg.Timestamp, out.TargetSentTimestamp)
		assert.Equal(t, msg.ID, out.Message.ID)
		assert.Equal(t, msg.UniqueID, out.Message.UniqueID)
		assert.Equal(t, msg.SortID, out.Message.SortID)
		assert.Equal(t, "hello world", out.Message.Body)
		assert.Equal(t, types.EditStateLatestRevisionRead, out.Message.EditState)
		assert.Equal(t, baseTime.Add(time.Hour).UnixMilli(), out.Message.RevisionTimestamp)
		assert.Equal(t, types.DeliverySending, out.Message.RecipientStates["bob"])

		assert.Equal(t, msg.ID, out.Record.LatestRevisionID)
		assert.NotEqual(t, msg.ID, out.Record.PastRevisionID)
		assert.True(t, out.Record.Read)

		history, err := env.manager.EditHistory(ctx, msg.ID)
		require.NoError(t, err)
		assert.Equal(t, "hello world", history.Current.Body)
		require.Len(t, history.Revisions, 1)

		archived := history.Revisions[0].Message
		assert.Equal(t, out.Record.PastRevisionID, archived.ID)
		assert.Equal(t, "hello", archived.Body)
		assert.Equal(t, types.EditStatePastRevision, archived.EditState)
		assert.Equal(t, types.DeliveryDelivered, archived.RecipientStates["bob"])
		assert.NotEqual(t, msg.UniqueID, archived.UniqueID)
		assert.Equal(t, msg.Timestamp, archived.RevisionTimestamp)
	})

	t.Run("edit limit test", func(t *testing.T) {
		env := setup(t, newTestConfig())
		thread := env.createThread(t, "", false)
		msg := env.send(t, thread, &database.MessageInfo{Body: "v0"})

		for i := 1; i <= 10; i++ {
			_, err := env.manager.SendEdit(ctx, env.localEdit(msg, fmt.Sprintf("v%d", i)))
			require.NoError(t, err, "edit %d", i)
		}

		_, err := env.manager.SendEdit(ctx, env.localEdit(msg, "v11"))
		var tooMany *edits.TooManyEditsError
		require.True(t, errors.As(err, &tooMany))
		assert.Equal(t, 10, tooMany.Limit)
		assert.ErrorIs(t, err, edits.ErrTooManyEdits)
		assert.Equal(t, errors.ErrCodeResourceExhausted, errors.StatusOf(err))

		latest, err := env.manager.FindLatestRevision(ctx, msg.ID)
		require.NoError(t, err)
		assert.Equal(t, "v10", latest.Body)
		assert.Equal(t, 10, latest.EditCount)
	})

	t.Run("edit window test", func(t *testing.T) {
		env := setup(t, newTestConfig())
		thread := env.createThread(t, "", false)
		msg := env.send(t, thread, &database.MessageInfo{Body: "hello"})

		env.clock.Advance(24 * time.Hour)
		assert.NoError(t, env.manager.ValidateCanSendEdit(ctx, thread.ID, msg.Timestamp))

		env.clock.Advance(time.Millisecond)
		assert.ErrorIs(t, env.manager.ValidateCanSendEdit(ctx, thread.ID, msg.Timestamp), edits.ErrEditWindowClosed)

		_, err := env.manager.SendEdit(ctx, env.localEdit(msg, "too late"))
		assert.ErrorIs(t, err, edits.ErrEditWindowClosed)
	})

	t.Run("note to self test", func(t *testing.T) {
		env := setup(t, newTestConfig())
		thread := env.createThread(t, "", true)
		msg := env.send(t, thread, &database.MessageInfo{Body: "note"})

		env.clock.Advance(30 * 24 * time.Hour)
		for i := 1; i <= 12; i++ {
			_, err := env.manager.SendEdit(ctx, env.localEdit(msg, fmt.Sprintf("note %d", i)))
			require.NoError(t, err, "edit %d", i)
		}

		history, err := env.manager.EditHistory(ctx, msg.ID)
		require.NoError(t, err)
		assert.Len(t, history.Revisions, 12)
	})

	t.Run("edit disabled test", func(t *testing.T) {
		conf := newTestConfig()
		conf.SendEnabled = false
		env := setup(t, conf)
		thread := env.createThread(t, "", false)
		msg := env.send(t, thread, &database.MessageInfo{Body: "hello"})

		_, err := env.manager.SendEdit(ctx, env.localEdit(msg, "hello world"))
		assert.ErrorIs(t, err, edits.ErrEditDisabled)
		assert.Equal(t, errors.ErrCodeFailedPrecondition, errors.StatusOf(err))
	})

	t.Run("message not found test", func(t *testing.T) {
		env := setup(t, newTestConfig())
		thread := env.createThread(t, "", false)
		sent := env.send(t, thread, &database.MessageInfo{Body: "mine"})
		env.clock.Advance(time.Second)
		received := env.receive(t, thread, "alice", &database.MessageInfo{Body: "theirs"})

		assert.ErrorIs(t, env.manager.ValidateCanSendEdit(ctx, thread.ID, sent.Timestamp+1), edits.ErrMessageNotFound)
		assert.ErrorIs(t, env.manager.ValidateCanSendEdit(ctx, thread.ID, received.Timestamp), edits.ErrMessageNotFound)

		_, err := env.manager.SendEdit(ctx, env.localEdit(received, "not mine"))
		assert.ErrorIs(t, err, edits.ErrMessageNotFound)
		assert.True(t, errors.IsStatus(err, errors.ErrCodeNotFound))
	})

	t.Run("message type not supported test", func(t *testing.T) {
		env := setup(t, newTestConfig())
		thread := env.createThread(t, "", false)

		for name, msg := range map[string]*database.MessageInfo{
			"remotely deleted": {RemotelyDeleted: true},
			"view once":        {Body: "secret", ViewOnce: true},
			"contact share":    {ContactShare: &types.ContactShare{Name: "carol"}},
			"sticker":          {Sticker: &types.Sticker{PackID: "pack", StickerID: 1}},
		} {
			env.clock.Advance(time.Second)
			sent := env.send(t, thread, msg)

			err := env.manager.ValidateCanSendEdit(ctx, thread.ID, sent.Timestamp)
			assert.ErrorIs(t, err, edits.ErrMessageTypeNotSupported, name)

			_, err = env.manager.SendEdit(ctx, env.localEdit(sent, "edited"))
			assert.ErrorIs(t, err, edits.ErrMessageTypeNotSupported, name)
		}
	})

	t.Run("invalid edit test", func(t *testing.T) {
		env := setup(t, newTestConfig())
		thread := env.createThread(t, "", false)
		msg := env.send(t, thread, &database.MessageInfo{Body: "hello"})

		_, err := env.manager.SendEdit(ctx, env.localEdit(msg, ""))
		assert.ErrorIs(t, err, edits.ErrInvalidEdit)
		assert.True(t, errors.IsClientError(err))
	})

	t.Run("stable identity test", func(t *testing.T) {
		env := setup(t, newTestConfig())
		thread := env.createThread(t, "", false)
		msg := env.send(t, thread, &database.MessageInfo{Body: "v0"})

		for i := 1; i <= 3; i++ {
			env.clock.Advance(time.Minute)
			out, err := env.manager.SendEdit(ctx, env.localEdit(msg, fmt.Sprintf("v%d", i)))
			require.NoError(t, err)
			assert.Equal(t, msg.ID, out.Message.ID)
			assert.Equal(t, msg.UniqueID, out.Message.UniqueID)
			assert.Equal(t, msg.SortID, out.Message.SortID)
		}

		history, err := env.manager.EditHistory(ctx, msg.ID)
		require.NoError(t, err)
		require.Len(t, history.Revisions, 3)

		seen := map[int64]bool{}
		for i, rev := range history.Revisions {
			assert.Equal(t, msg.ID, rev.Record.LatestRevisionID)
			assert.False(t, seen[rev.Record.PastRevisionID])
			seen[rev.Record.PastRevisionID] = true
			if i > 0 {
				assert.Less(t, rev.Record.PastRevisionID, history.Revisions[i-1].Record.PastRevisionID)
			}
		}
		assert.Equal(t, "v2", history.Revisions[0].Message.Body)
		assert.Equal(t, "v0", history.Revisions[2].Message.Body)

		latest, err := env.manager.LatestMessage(ctx, thread.ID)
		require.NoError(t, err)
		assert.Equal(t, msg.ID, latest.ID)
		assert.Equal(t, "v3", latest.Body)
	})

	t.Run("quote test", func(t *testing.T) {
		env := setup(t, newTestConfig())
		thread := env.createThread(t, "", false)
		quote := &types.Quote{Timestamp: 1, AuthorID: "bob", Body: "quoted"}
		msg := env.send(t, thread, &database.MessageInfo{Body: "reply", Quote: quote})

		edit := env.localEdit(msg, "reply, kept quote")
		edit.Content.HasQuote = true
		out, err := env.manager.SendEdit(ctx, edit)
		require.NoError(t, err)
		assert.Equal(t, quote, out.Message.Quote)

		out, err = env.manager.SendEdit(ctx, env.localEdit(msg, "reply, no quote"))
		require.NoError(t, err)
		assert.Nil(t, out.Message.Quote)

		history, err := env.manager.EditHistory(ctx, msg.ID)
		require.NoError(t, err)
		require.Len(t, history.Revisions, 2)
		assert.Equal(t, quote, history.Revisions[0].Message.Quote)

		edit = env.localEdit(msg, "quote stays gone")
		edit.Content.HasQuote = true
		out, err = env.manager.SendEdit(ctx, edit)
		require.NoError(t, err)
		assert.Nil(t, out.Message.Quote)
	})

	t.Run("attachments test", func(t *testing.T) {
		env := setup(t, newTestConfig())
		thread := env.createThread(t, "", false)
		media := &types.Attachment{
			ID:          "000000000000000000000001",
			Kind:        types.AttachmentKindBody,
			ContentType: "image/png",
			ByteCount:   10,
		}
		longText := &types.Attachment{
			ID:          "000000000000000000000002",
			Kind:        types.AttachmentKindOversizeText,
			ContentType: "text/x-signal-plain",
			ByteCount:   4096,
		}
		msg := env.send(t, thread, &database.MessageInfo{
			Body:        "long",
			Attachments: []*types.Attachment{media, longText},
		})

		newText := &types.Attachment{
			ID:          "000000000000000000000003",
			Kind:        types.AttachmentKindOversizeText,
			ContentType: "text/x-signal-plain",
			ByteCount:   5000,
		}
		edit := env.localEdit(msg, "longer")
		edit.Content.OversizeText = newText
		out, err := env.manager.SendEdit(ctx, edit)
		require.NoError(t, err)
		assert.Equal(t, []*types.Attachment{media}, out.Message.BodyAttachments())
		assert.Equal(t, newText, out.Message.OversizeText())

		out, err = env.manager.SendEdit(ctx, env.localEdit(msg, "short"))
		require.NoError(t, err)
		assert.Equal(t, []*types.Attachment{media}, out.Message.Attachments)

		history, err := env.manager.EditHistory(ctx, msg.ID)
		require.NoError(t, err)
		assert.Equal(t, newText, history.Revisions[0].Message.OversizeText())
		assert.Equal(t, longText, history.Revisions[1].Message.OversizeText())
	})

	t.Run("link preview test", func(t *testing.T) {
		env := setup(t, newTestConfig())
		thread := env.createThread(t, "", false)
		msg := env.send(t, thread, &database.MessageInfo{
			Body:        "see https://example.com",
			LinkPreview: &types.LinkPreview{URL: "https://example.com", Title: "old"},
		})

		edit := env.localEdit(msg, "see https://yorkie.dev")
		edit.Content.LinkPreview = &types.LinkPreviewDraft{URL: "https://yorkie.dev", Title: "Yorkie"}
		out, err := env.manager.SendEdit(ctx, edit)
		require.NoError(t, err)
		require.NotNil(t, out.Message.LinkPreview)
		assert.Equal(t, "https://yorkie.dev", out.Message.LinkPreview.URL)
		assert.Equal(t, "Yorkie", out.Message.LinkPreview.Title)

		out, err = env.manager.SendEdit(ctx, env.localEdit(msg, "no link"))
		require.NoError(t, err)
		assert.Nil(t, out.Message.LinkPreview)
	})

	t.Run("link preview failure test", func(t *testing.T) {
		errFetch := errors.New("fetch failed")
		env := setup(t, newTestConfig(), edits.WithLinkPreviewBuilder(edits.LinkPreviewBuilderFunc(
			func(context.Context, *types.LinkPreviewDraft) (*types.LinkPreview, error) {
				return nil, errFetch
			},
		)))
		thread := env.createThread(t, "", false)
		msg := env.send(t, thread, &database.MessageInfo{Body: "hello"})

		edit := env.localEdit(msg, "see https://yorkie.dev")
		edit.Content.LinkPreview = &types.LinkPreviewDraft{URL: "https://yorkie.dev"}
		_, err := env.manager.SendEdit(ctx, edit)
		assert.ErrorIs(t, err, errFetch)

		latest, err := env.manager.FindLatestRevision(ctx, msg.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, latest.EditCount)
	})

	t.Run("concurrent edits test", func(t *testing.T) {
		env := setup(t, newTestConfig())
		thread := env.createThread(t, "", false)
		msg := env.send(t, thread, &database.MessageInfo{Body: "v0"})

		const attempts = 15
		var wg sync.WaitGroup
		results := make(chan error, attempts)
		for i := 0; i < attempts; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, err := env.manager.SendEdit(ctx, env.localEdit(msg, fmt.Sprintf("attempt %d", i)))
				results <- err
			}(i)
		}
		wg.Wait()
		close(results)

		succeeded, refused := 0, 0
		for err := range results {
			if err == nil {
				succeeded++
				continue
			}
			assert.ErrorIs(t, err, edits.ErrTooManyEdits)
			refused++
		}
		assert.Equal(t, 10, succeeded)
		assert.Equal(t, 5, refused)

		history, err := env.manager.EditHistory(ctx, msg.ID)
		require.NoError(t, err)
		assert.Len(t, history.Revisions, 10)
		assert.Equal(t, 10, history.Current.EditCount)
	})
}

func TestEditSendWarning(t *testing.T) {
	ctx := context.Background()
	env := setup(t, newTestConfig())

	show, err := env.manager.ShouldShowEditSendWarning(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, show)

	require.NoError(t, env.manager.SetShowedEditSendWarning(ctx, "alice"))

	show, err = env.manager.ShouldShowEditSendWarning(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, show)

	show, err = env.manager.ShouldShowEditSendWarning(ctx, "bob")
	require.NoError(t, err)
	assert.True(t, show)
}
