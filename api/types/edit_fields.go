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

package types

import (
	"github.com/yorkie-team/revisor/internal/validation"
)

// MaxInlineBodyLength is the largest body kept inline. Longer text travels as
// an oversize text attachment.
const MaxInlineBodyLength = 2048

// EditContent is the set of mutable fields an edit replaces. Every edit is a
// full replacement of these fields.
type EditContent struct {
	// Body is the new inline text of the message.
	Body string `validate:"required_without=OversizeText,max=2048"`

	// BodyRanges are the styles and mentions applied to Body.
	BodyRanges []BodyRange `validate:"dive"`

	// OversizeText is the attachment holding text beyond the inline limit.
	OversizeText *Attachment `validate:"omitempty"`

	// LinkPreview is the unbuilt preview, if the edit carries one.
	LinkPreview *LinkPreviewDraft `validate:"omitempty"`

	// HasQuote tells whether the edit includes the quote field. An edit that
	// omits it clears the quote of the message.
	HasQuote bool
}

// IncomingEdit is an edit received from the network.
type IncomingEdit struct {
	// ThreadID is the thread the edit arrived in.
	ThreadID ID `validate:"required,hexid"`

	// TargetTimestamp is the original sent timestamp of the edited message.
	TargetTimestamp int64 `validate:"gt=0"`

	// AuthorID is the remote author. It is empty when the edit is a sync
	// transcript of the local user's own edit from a linked device.
	AuthorID string

	// GroupID is the group context embedded in the edit, if any.
	GroupID ID `validate:"omitempty,hexid"`

	Content EditContent

	// Attachments are the body attachments carried by the edit. They never
	// replace the attachments of the message.
	Attachments []*Attachment `validate:"dive"`

	// Timestamp is the sent timestamp of the edit itself.
	Timestamp int64 `validate:"gt=0"`

	// ServerTimestamp is the server timestamp of the edit envelope.
	ServerTimestamp int64 `validate:"gt=0"`
}

// Validate validates the IncomingEdit.
func (e *IncomingEdit) Validate() error {
	return validation.ValidateStruct(e)
}

// IsSyncTranscript returns whether the edit was made by the local user on a
// linked device.
func (e *IncomingEdit) IsSyncTranscript() bool {
	return e.AuthorID == ""
}

// HasVoiceMessage returns whether the edit carries a voice message.
func (e *IncomingEdit) HasVoiceMessage() bool {
	for _, a := range e.Attachments {
		if a != nil && a.IsVoiceMessage {
			return true
		}
	}
	return false
}

// LocalEdit is an edit composed by the local user.
type LocalEdit struct {
	// ThreadID is the thread of the edited message.
	ThreadID ID `validate:"required,hexid"`

	// TargetTimestamp is the original sent timestamp of the edited message.
	TargetTimestamp int64 `validate:"gt=0"`

	Content EditContent

	// Timestamp is the sent timestamp of the edit. Zero means now.
	Timestamp int64 `validate:"gte=0"`
}

// Validate validates the LocalEdit.
func (e *LocalEdit) Validate() error {
	return validation.ValidateStruct(e)
}
