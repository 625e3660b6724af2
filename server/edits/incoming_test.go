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
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yorkie-team/revisor/api/types"
	"github.com/yorkie-team/revisor/server/backend/database"
	"github.com/yorkie-team/revisor/server/edits"
)

const (
	groupA types.ID = "0000000000000000000000aa"
	groupB types.ID = "0000000000000000000000bb"
)

func TestProcessIncomingEdit(t *testing.T) {
	ctx := context.Background()

	t.Run("apply incoming edit test", func(t *testing.T) {
		env := setup(t, newTestConfig())
		thread := env.createThread(t, "", false)
		msg := env.receive(t, thread, "alice", &database.MessageInfo{Body: "hi"})

		env.clock.Advance(time.Minute)
		result, err := env.manager.ProcessIncomingEdit(ctx, env.incomingEdit(msg, "hi there"))
		require.NoError(t, err)
		require.NotNil(t, result)

		assert.Equal(t, msg.ID, result.Current.ID)
		assert.Equal(t, msg.UniqueID, result.Current.UniqueID)
		assert.Equal(t, "hi there", result.Current.Body)
		assert.False(t, result.Current.Read)
		assert.Equal(t, types.EditStateLatestRevisionUnread, result.Current.EditState)
		assert.Equal(t, 1, result.Current.EditCount)
		assert.True(t, result.ShouldNotify)

		assert.Equal(t, "hi", result.Archived.Body)
		assert.Equal(t, types.EditStatePastRevision, result.Archived.EditState)
		assert.Equal(t, "alice", result.Archived.AuthorID)
		assert.False(t, result.Record.Read)
	})

	t.Run("edit window test", func(t *testing.T) {
		env := setup(t, newTestConfig())
		thread := env.createThread(t, "", false)
		msg := env.receive(t, thread, "alice", &database.MessageInfo{Body: "hi"})

		env.clock.Advance(48 * time.Hour)
		result, err := env.manager.ProcessIncomingEdit(ctx, env.incomingEdit(msg, "in time"))
		require.NoError(t, err)
		require.NotNil(t, result)

		env.clock.Advance(time.Millisecond)
		result, err = env.manager.ProcessIncomingEdit(ctx, env.incomingEdit(msg, "too late"))
		require.NoError(t, err)
		assert.Nil(t, result)
		assert.Equal(t, float64(1), env.rejected(t, edits.RejectWindowExpired))

		latest, err := env.manager.FindLatestRevision(ctx, msg.ID)
		require.NoError(t, err)
		assert.Equal(t, "in time", latest.Body)
	})

	t.Run("edit limit test", func(t *testing.T) {
		conf := newTestConfig()
		conf.IncomingLimit = 2
		env := setup(t, conf)
		thread := env.createThread(t, "", false)
		msg := env.receive(t, thread, "alice", &database.MessageInfo{Body: "v0"})

		for _, body := range []string{"v1", "v2"} {
			result, err := env.manager.ProcessIncomingEdit(ctx, env.incomingEdit(msg, body))
			require.NoError(t, err)
			require.NotNil(t, result)
		}

		result, err := env.manager.ProcessIncomingEdit(ctx, env.incomingEdit(msg, "v3"))
		require.NoError(t, err)
		assert.Nil(t, result)
		assert.Equal(t, float64(1), env.rejected(t, edits.RejectTooManyEdits))
	})

	t.Run("group mismatch test", func(t *testing.T) {
		env := setup(t, newTestConfig(), edits.WithGroupResolver(edits.GroupResolverFunc(
			func(_ context.Context, embedded types.ID) (types.ID, error) {
				if embedded == groupB {
					return groupA, nil
				}
				return embedded, nil
			},
		)))
		thread := env.createThread(t, groupA, false)
		msg := env.receive(t, thread, "alice", &database.MessageInfo{Body: "hi group"})

		edit := env.incomingEdit(msg, "from elsewhere")
		result, err := env.manager.ProcessIncomingEdit(ctx, edit)
		require.NoError(t, err)
		assert.Nil(t, result)
		assert.Equal(t, float64(1), env.rejected(t, edits.RejectGroupMismatch))

		edit = env.incomingEdit(msg, "other group")
		edit.GroupID = "0000000000000000000000cc"
		result, err = env.manager.ProcessIncomingEdit(ctx, edit)
		require.NoError(t, err)
		assert.Nil(t, result)
		assert.Equal(t, float64(2), env.rejected(t, edits.RejectGroupMismatch))

		edit = env.incomingEdit(msg, "resolved group")
		edit.GroupID = groupB
		result, err = env.manager.ProcessIncomingEdit(ctx, edit)
		require.NoError(t, err)
		require.NotNil(t, result)
		assert.Equal(t, "resolved group", result.Current.Body)
	})

	t.Run("unresolved group test", func(t *testing.T) {
		env := setup(t, newTestConfig(), edits.WithGroupResolver(edits.GroupResolverFunc(
			func(context.Context, types.ID) (types.ID, error) {
				return "", errors.New("unknown group")
			},
		)))
		thread := env.createThread(t, groupA, false)
		msg := env.receive(t, thread, "alice", &database.MessageInfo{Body: "hi group"})

		edit := env.incomingEdit(msg, "from an unknown group")
		edit.GroupID = groupB
		result, err := env.manager.ProcessIncomingEdit(ctx, edit)
		require.NoError(t, err)
		assert.Nil(t, result)
		assert.Equal(t, float64(1), env.rejected(t, edits.RejectGroupUnresolved))

		history, err := env.manager.EditHistory(ctx, msg.ID)
		require.NoError(t, err)
		assert.Empty(t, history.Revisions)
		assert.Equal(t, "hi group", history.Current.Body)
	})

	t.Run("message type not supported test", func(t *testing.T) {
		env := setup(t, newTestConfig())
		thread := env.createThread(t, "", false)
		msg := env.receive(t, thread, "alice", &database.MessageInfo{
			Sticker: &types.Sticker{PackID: "pack", StickerID: 7},
		})

		result, err := env.manager.ProcessIncomingEdit(ctx, env.incomingEdit(msg, "not a sticker"))
		require.NoError(t, err)
		assert.Nil(t, result)
		assert.Equal(t, float64(1), env.rejected(t, edits.RejectTypeNotSupported))
	})

	t.Run("voice message test", func(t *testing.T) {
		env := setup(t, newTestConfig())
		thread := env.createThread(t, "", false)
		voice := &types.Attachment{
			ID:             "000000000000000000000010",
			Kind:           types.AttachmentKindBody,
			ContentType:    "audio/aac",
			ByteCount:      512,
			IsVoiceMessage: true,
		}
		withVoice := env.receive(t, thread, "alice", &database.MessageInfo{
			Attachments: []*types.Attachment{voice},
		})

		result, err := env.manager.ProcessIncomingEdit(ctx, env.incomingEdit(withVoice, "caption"))
		require.NoError(t, err)
		assert.Nil(t, result)

		env.clock.Advance(time.Second)
		plain := env.receive(t, thread, "alice", &database.MessageInfo{Body: "plain"})
		edit := env.incomingEdit(plain, "now a voice message")
		edit.Attachments = []*types.Attachment{voice}
		result, err = env.manager.ProcessIncomingEdit(ctx, edit)
		require.NoError(t, err)
		assert.Nil(t, result)

		assert.Equal(t, float64(2), env.rejected(t, edits.RejectVoiceMessage))
	})

	t.Run("edit target not found test", func(t *testing.T) {
		env := setup(t, newTestConfig())
		thread := env.createThread(t, "", false)
		msg := env.receive(t, thread, "alice", &database.MessageInfo{Body: "hi"})

		edit := env.incomingEdit(msg, "early")
		edit.TargetTimestamp = msg.Timestamp + 1
		_, err := env.manager.ProcessIncomingEdit(ctx, edit)
		assert.ErrorIs(t, err, edits.ErrEditTargetNotFound)

		edit = env.incomingEdit(msg, "impostor")
		edit.AuthorID = "mallory"
		_, err = env.manager.ProcessIncomingEdit(ctx, edit)
		assert.ErrorIs(t, err, edits.ErrEditTargetNotFound)

		latest, err := env.manager.FindLatestRevision(ctx, msg.ID)
		require.NoError(t, err)
		assert.Equal(t, "hi", latest.Body)
	})

	t.Run("invalid edit test", func(t *testing.T) {
		env := setup(t, newTestConfig())
		thread := env.createThread(t, "", false)
		msg := env.receive(t, thread, "alice", &database.MessageInfo{Body: "hi"})

		edit := env.incomingEdit(msg, "hi")
		edit.ServerTimestamp = 0
		_, err := env.manager.ProcessIncomingEdit(ctx, edit)
		assert.ErrorIs(t, err, edits.ErrInvalidEdit)
	})

	t.Run("sync transcript test", func(t *testing.T) {
		env := setup(t, newTestConfig())
		thread := env.createThread(t, "", false)
		msg := env.send(t, thread, &database.MessageInfo{Body: "typo"})

		env.clock.Advance(time.Minute)
		edit := env.incomingEdit(msg, "fixed on laptop")
		require.True(t, edit.IsSyncTranscript())

		result, err := env.manager.ProcessIncomingEdit(ctx, edit)
		require.NoError(t, err)
		require.NotNil(t, result)
		assert.False(t, result.ShouldNotify)
		assert.True(t, result.Current.Read)
		assert.Equal(t, types.EditStateLatestRevisionRead, result.Current.EditState)
		assert.Equal(t, types.DeliverySent, result.Current.RecipientStates["bob"])
		assert.True(t, result.Record.Read)
	})

	t.Run("notify once read test", func(t *testing.T) {
		env := setup(t, newTestConfig())
		thread := env.createThread(t, "", false)
		msg := env.receive(t, thread, "alice", &database.MessageInfo{Body: "v0"})

		result, err := env.manager.ProcessIncomingEdit(ctx, env.incomingEdit(msg, "v1"))
		require.NoError(t, err)
		assert.True(t, result.ShouldNotify)

		result, err = env.manager.ProcessIncomingEdit(ctx, env.incomingEdit(msg, "v2"))
		require.NoError(t, err)
		assert.True(t, result.ShouldNotify)

		_, err = env.manager.MarkAsRead(ctx, msg.ID)
		require.NoError(t, err)

		result, err = env.manager.ProcessIncomingEdit(ctx, env.incomingEdit(msg, "v3"))
		require.NoError(t, err)
		assert.False(t, result.ShouldNotify)
		assert.Equal(t, types.EditStateLatestRevisionRead, result.Current.EditState)
		assert.True(t, result.Record.Read)
	})
}

func TestMarkEditRevisionsAsRead(t *testing.T) {
	ctx := context.Background()

	t.Run("mark revisions as read test", func(t *testing.T) {
		env := setup(t, newTestConfig())
		thread := env.createThread(t, "", false)
		msg := env.receive(t, thread, "alice", &database.MessageInfo{Body: "v0"})

		for _, body := range []string{"v1", "v2"} {
			env.clock.Advance(time.Minute)
			_, err := env.manager.ProcessIncomingEdit(ctx, env.incomingEdit(msg, body))
			require.NoError(t, err)
		}

		dispatched, err := env.manager.MarkEditRevisionsAsRead(ctx, msg.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, dispatched)

		history, err := env.manager.EditHistory(ctx, msg.ID)
		require.NoError(t, err)
		require.Len(t, history.Revisions, 2)
		for _, rev := range history.Revisions {
			assert.True(t, rev.Record.Read)
		}
		assert.False(t, history.Current.Read)

		sent := env.dispatcher.Dispatched()
		require.Len(t, sent, 2)
		assert.Equal(t, history.Revisions[0].Message.UniqueID, sent[0].MessageID)
		assert.Equal(t, history.Revisions[0].Message.RevisionTimestamp, sent[0].Timestamp)
		assert.Equal(t, "alice", sent[0].AuthorID)
		assert.Equal(t, thread.ID, sent[0].ThreadID)
		assert.Equal(t, baseTime.Add(2*time.Minute), sent[0].ReadAt)

		dispatched, err = env.manager.MarkEditRevisionsAsRead(ctx, msg.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, dispatched)
		assert.Len(t, env.dispatcher.Dispatched(), 2)
	})

	t.Run("outgoing revisions test", func(t *testing.T) {
		env := setup(t, newTestConfig())
		thread := env.createThread(t, "", false)
		msg := env.send(t, thread, &database.MessageInfo{Body: "v0"})

		_, err := env.manager.SendEdit(ctx, env.localEdit(msg, "v1"))
		require.NoError(t, err)

		dispatched, err := env.manager.MarkEditRevisionsAsRead(ctx, msg.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, dispatched)
		assert.Empty(t, env.dispatcher.Dispatched())
	})

	t.Run("mark as read test", func(t *testing.T) {
		env := setup(t, newTestConfig())
		thread := env.createThread(t, "", false)
		msg := env.receive(t, thread, "alice", &database.MessageInfo{Body: "v0"})

		env.clock.Advance(time.Minute)
		result, err := env.manager.ProcessIncomingEdit(ctx, env.incomingEdit(msg, "v1"))
		require.NoError(t, err)

		dispatched, err := env.manager.MarkAsRead(ctx, result.Archived.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, dispatched)

		latest, err := env.manager.FindLatestRevision(ctx, msg.ID)
		require.NoError(t, err)
		assert.True(t, latest.Read)
		assert.Equal(t, types.EditStateLatestRevisionRead, latest.EditState)
		assert.Equal(t, 1, latest.EditCount)

		sent := env.dispatcher.Dispatched()
		require.Len(t, sent, 2)
		assert.Equal(t, msg.UniqueID, sent[0].MessageID)
		assert.Equal(t, result.Current.RevisionTimestamp, sent[0].Timestamp)
		assert.Equal(t, result.Archived.UniqueID, sent[1].MessageID)

		dispatched, err = env.manager.MarkAsRead(ctx, msg.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, dispatched)
	})

	t.Run("failed dispatch test", func(t *testing.T) {
		env := setup(t, newTestConfig())
		thread := env.createThread(t, "", false)
		msg := env.receive(t, thread, "alice", &database.MessageInfo{Body: "v0"})

		env.clock.Advance(time.Minute)
		_, err := env.manager.ProcessIncomingEdit(ctx, env.incomingEdit(msg, "v1"))
		require.NoError(t, err)

		env.be.Receipts = &failingDispatcher{}
		_, err = env.manager.MarkEditRevisionsAsRead(ctx, msg.ID)
		assert.ErrorIs(t, err, errTransportDown)
		_, err = env.manager.MarkAsRead(ctx, msg.ID)
		assert.ErrorIs(t, err, errTransportDown)

		history, err := env.manager.EditHistory(ctx, msg.ID)
		require.NoError(t, err)
		require.Len(t, history.Revisions, 1)
		assert.False(t, history.Revisions[0].Record.Read)
		assert.False(t, history.Current.Read)

		env.be.Receipts = env.dispatcher
		dispatched, err := env.manager.MarkEditRevisionsAsRead(ctx, msg.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, dispatched)
		assert.Len(t, env.dispatcher.Dispatched(), 1)
	})
}

func TestRevisionLookup(t *testing.T) {
	ctx := context.Background()
	env := setup(t, newTestConfig())
	thread := env.createThread(t, "", false)
	msg := env.send(t, thread, &database.MessageInfo{Body: "v0"})

	var archived []int64
	for _, body := range []string{"v1", "v2"} {
		env.clock.Advance(time.Minute)
		out, err := env.manager.SendEdit(ctx, env.localEdit(msg, body))
		require.NoError(t, err)
		archived = append(archived, out.Record.PastRevisionID)
	}

	t.Run("find latest revision test", func(t *testing.T) {
		for _, id := range append([]int64{msg.ID}, archived...) {
			latest, err := env.manager.FindLatestRevision(ctx, id)
			require.NoError(t, err)
			assert.Equal(t, msg.ID, latest.ID)
			assert.Equal(t, "v2", latest.Body)
		}

		_, err := env.manager.FindLatestRevision(ctx, msg.ID+100)
		assert.ErrorIs(t, err, database.ErrMessageNotFound)
	})

	t.Run("related revisions test", func(t *testing.T) {
		revisions, err := env.manager.RelatedRevisions(ctx, archived[0])
		require.NoError(t, err)
		require.Len(t, revisions, 3)
		assert.Equal(t, "v0", revisions[0].Body)
		assert.Equal(t, "v1", revisions[1].Body)
		assert.Equal(t, "v2", revisions[2].Body)
		assert.Equal(t, msg.ID, revisions[2].ID)
	})

	t.Run("latest message test", func(t *testing.T) {
		latest, err := env.manager.LatestMessage(ctx, thread.ID)
		require.NoError(t, err)
		assert.Equal(t, msg.ID, latest.ID)
		assert.Equal(t, "v2", latest.Body)
	})

	t.Run("delete edit history test", func(t *testing.T) {
		deleted, err := env.manager.DeleteEditHistory(ctx, archived[1])
		require.NoError(t, err)
		assert.Equal(t, 2, deleted)

		history, err := env.manager.EditHistory(ctx, msg.ID)
		require.NoError(t, err)
		assert.Empty(t, history.Revisions)
		assert.Equal(t, "v2", history.Current.Body)

		for _, id := range archived {
			_, err := env.manager.FindLatestRevision(ctx, id)
			assert.ErrorIs(t, err, database.ErrMessageNotFound)
		}

		revisions, err := env.manager.RelatedRevisions(ctx, msg.ID)
		require.NoError(t, err)
		require.Len(t, revisions, 1)
		assert.Equal(t, msg.ID, revisions[0].ID)

		latest, err := env.manager.LatestMessage(ctx, thread.ID)
		require.NoError(t, err)
		assert.Equal(t, msg.ID, latest.ID)
	})
}
