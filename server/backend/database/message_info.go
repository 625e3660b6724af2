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

package database

import (
	"time"

	"github.com/yorkie-team/revisor/api/types"
)

// MessageInfo is a row of the message relation. The same relation holds the
// current content of every message and the archived past revisions of edited
// messages.
type MessageInfo struct {
	// ID is the row id. It is the stable identifier of a message and survives
	// any number of edits.
	ID int64 `bson:"_id"`

	// UniqueID is the public unique id of the message. It moves together
	// with ID.
	UniqueID types.ID `bson:"unique_id"`

	// SortID is the position of the message in its thread.
	SortID int64 `bson:"sort_id"`

	// ThreadID is the thread the message belongs to.
	ThreadID types.ID `bson:"thread_id"`

	// Direction tells whether the message was received or sent.
	Direction types.Direction `bson:"direction"`

	// AuthorID is the remote author of an incoming message.
	AuthorID string `bson:"author_id,omitempty"`

	// RecipientStates is the delivery state per recipient of an outgoing
	// message.
	RecipientStates map[string]types.DeliveryStatus `bson:"recipient_states,omitempty"`

	// Timestamp is the original sent timestamp in milliseconds. Edits never
	// change it, so it keeps addressing the message.
	Timestamp int64 `bson:"timestamp"`

	// ServerTimestamp is the server timestamp of the original message in
	// milliseconds.
	ServerTimestamp int64 `bson:"server_timestamp"`

	// RevisionTimestamp is the sent timestamp of the content held by this row.
	RevisionTimestamp int64 `bson:"revision_timestamp"`

	Body         string              `bson:"body"`
	BodyRanges   []types.BodyRange   `bson:"body_ranges,omitempty"`
	Attachments  []*types.Attachment `bson:"attachments,omitempty"`
	LinkPreview  *types.LinkPreview  `bson:"link_preview,omitempty"`
	Quote        *types.Quote        `bson:"quote,omitempty"`
	ContactShare *types.ContactShare `bson:"contact_share,omitempty"`
	Sticker      *types.Sticker      `bson:"sticker,omitempty"`

	// ViewOnce marks a message that disappears after being viewed.
	ViewOnce bool `bson:"view_once"`

	// RemotelyDeleted marks a message its author deleted for everyone.
	RemotelyDeleted bool `bson:"remotely_deleted"`

	// Read tells whether the local user has read the content of this row.
	Read bool `bson:"read"`

	// EditState is where this row stands in the edit history.
	EditState types.EditState `bson:"edit_state"`

	// EditCount is the number of edits applied to the message. Writers use it
	// to detect concurrent edits.
	EditCount int `bson:"edit_count"`

	// CreatedAt is the time when the row was inserted.
	CreatedAt time.Time `bson:"created_at"`
}

// IsIncoming returns whether the message was received.
func (i *MessageInfo) IsIncoming() bool {
	return i.Direction == types.DirectionIncoming
}

// IsEditable returns whether the kind of the message supports edits.
// Remotely deleted, view-once, contact share and sticker messages do not.
func (i *MessageInfo) IsEditable() bool {
	return !i.RemotelyDeleted && !i.ViewOnce && i.ContactShare == nil && i.Sticker == nil
}

// ContentTimestamp returns the sent timestamp of the content held by the row.
// Rows never edited carry the original sent timestamp.
func (i *MessageInfo) ContentTimestamp() int64 {
	if i.RevisionTimestamp != 0 {
		return i.RevisionTimestamp
	}
	return i.Timestamp
}

// HasVoiceMessage returns whether the message carries a voice message.
func (i *MessageInfo) HasVoiceMessage() bool {
	for _, a := range i.Attachments {
		if a.IsVoiceMessage {
			return true
		}
	}
	return false
}

// OversizeText returns the attachment holding the text beyond the inline
// limit, if any.
func (i *MessageInfo) OversizeText() *types.Attachment {
	for _, a := range i.Attachments {
		if a.Kind == types.AttachmentKindOversizeText {
			return a
		}
	}
	return nil
}

// BodyAttachments returns the media attachments of the message.
func (i *MessageInfo) BodyAttachments() []*types.Attachment {
	var attachments []*types.Attachment
	for _, a := range i.Attachments {
		if a.Kind == types.AttachmentKindBody {
			attachments = append(attachments, a)
		}
	}
	return attachments
}

// DeepCopy returns a deep copy of the MessageInfo.
func (i *MessageInfo) DeepCopy() *MessageInfo {
	if i == nil {
		return nil
	}

	clone := *i

	if i.RecipientStates != nil {
		clone.RecipientStates = make(map[string]types.DeliveryStatus, len(i.RecipientStates))
		for k, v := range i.RecipientStates {
			clone.RecipientStates[k] = v
		}
	}
	if i.BodyRanges != nil {
		clone.BodyRanges = append([]types.BodyRange(nil), i.BodyRanges...)
	}
	if i.Attachments != nil {
		clone.Attachments = make([]*types.Attachment, len(i.Attachments))
		for idx, a := range i.Attachments {
			clone.Attachments[idx] = a.DeepCopy()
		}
	}
	clone.LinkPreview = i.LinkPreview.DeepCopy()
	clone.Quote = i.Quote.DeepCopy()
	clone.ContactShare = i.ContactShare.DeepCopy()
	clone.Sticker = i.Sticker.DeepCopy()

	return &clone
}
