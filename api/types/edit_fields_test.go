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

package types_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yorkie-team/revisor/api/types"
	"github.com/yorkie-team/revisor/internal/validation"
)

const threadID = types.ID("0123456789abcdef01234567")

func TestIncomingEdit(t *testing.T) {
	var structError *validation.StructError

	t.Run("valid edit test", func(t *testing.T) {
		edit := &types.IncomingEdit{
			ThreadID:        threadID,
			TargetTimestamp: 1000,
			AuthorID:        "alice",
			Content:         types.EditContent{Body: "hello world"},
			Timestamp:       2000,
			ServerTimestamp: 2001,
		}
		assert.NoError(t, edit.Validate())
		assert.False(t, edit.IsSyncTranscript())
		assert.False(t, edit.HasVoiceMessage())
	})

	t.Run("missing fields test", func(t *testing.T) {
		edit := &types.IncomingEdit{ThreadID: "thread"}
		assert.ErrorAs(t, edit.Validate(), &structError)
		assert.GreaterOrEqual(t, len(structError.Violations), 4)
	})

	t.Run("oversize body requires attachment test", func(t *testing.T) {
		edit := &types.IncomingEdit{
			ThreadID:        threadID,
			TargetTimestamp: 1000,
			Content:         types.EditContent{Body: strings.Repeat("a", types.MaxInlineBodyLength+1)},
			Timestamp:       2000,
			ServerTimestamp: 2001,
		}
		assert.ErrorAs(t, edit.Validate(), &structError)

		edit.Content = types.EditContent{OversizeText: &types.Attachment{
			ID:          "0123456789abcdef01234568",
			Kind:        types.AttachmentKindOversizeText,
			ContentType: "text/x-signal-plain",
			ByteCount:   4096,
		}}
		assert.NoError(t, edit.Validate())
	})

	t.Run("voice message test", func(t *testing.T) {
		edit := &types.IncomingEdit{Attachments: []*types.Attachment{
			{Kind: types.AttachmentKindBody, IsVoiceMessage: true},
		}}
		assert.True(t, edit.HasVoiceMessage())
	})
}

func TestLocalEdit(t *testing.T) {
	var structError *validation.StructError

	edit := &types.LocalEdit{
		ThreadID:        threadID,
		TargetTimestamp: 1000,
		Content: types.EditContent{
			Body:        "see https://example.com",
			LinkPreview: &types.LinkPreviewDraft{URL: "https://example.com"},
		},
	}
	assert.NoError(t, edit.Validate())

	edit.Content.LinkPreview = &types.LinkPreviewDraft{URL: "not a url"}
	assert.ErrorAs(t, edit.Validate(), &structError)
	assert.Equal(t, "URL", structError.Violations[0].Field)
}
