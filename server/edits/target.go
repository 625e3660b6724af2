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

package edits

import (
	"github.com/yorkie-team/revisor/api/types"
	"github.com/yorkie-team/revisor/server/backend/database"
)

// Mutation is the content an edit installs on a message.
type Mutation struct {
	// Content replaces the mutable fields of the message.
	Content types.EditContent

	// LinkPreview is the preview built from the draft of Content before the
	// edit is applied. Nil clears the preview.
	LinkPreview *types.LinkPreview

	// Timestamp is the sent timestamp of the edit.
	Timestamp int64
}

// EditTarget is the message an edit applies to. Incoming and outgoing
// messages differ in how the edited row is built and in their read state.
type EditTarget interface {
	// Message returns the current row of the message.
	Message() *database.MessageInfo

	// WasReadBeforeEdit returns whether the local user had read the content
	// being replaced.
	WasReadBeforeEdit() bool

	// BuildCurrent returns the current row holding the content of m. The
	// identity of the row is bound by the caller.
	BuildCurrent(m *Mutation) *database.MessageInfo

	// BuildArchived returns a copy of the content being replaced, tagged as a
	// past revision.
	BuildArchived() *database.MessageInfo
}

// IncomingTarget is a message received from a remote author.
type IncomingTarget struct {
	msg *database.MessageInfo
}

// NewIncomingTarget creates a new instance of IncomingTarget.
func NewIncomingTarget(msg *database.MessageInfo) *IncomingTarget {
	return &IncomingTarget{msg: msg}
}

// Message returns the current row of the message.
func (t *IncomingTarget) Message() *database.MessageInfo {
	return t.msg
}

// WasReadBeforeEdit returns whether the user had read the message.
func (t *IncomingTarget) WasReadBeforeEdit() bool {
	return t.msg.Read
}

// BuildCurrent returns the edited row. New content from the author is unread.
func (t *IncomingTarget) BuildCurrent(m *Mutation) *database.MessageInfo {
	current := buildRevision(t.msg, m, t.WasReadBeforeEdit())
	current.Read = false
	return current
}

// BuildArchived returns the archived copy of the message.
func (t *IncomingTarget) BuildArchived() *database.MessageInfo {
	return buildArchive(t.msg)
}

// OutgoingTarget is a message the local user sent, from this device or from
// a linked one.
type OutgoingTarget struct {
	msg    *database.MessageInfo
	status types.DeliveryStatus
}

// NewOutgoingTarget creates a new instance of OutgoingTarget. Every recipient
// of the edited message starts from the given delivery status.
func NewOutgoingTarget(msg *database.MessageInfo, status types.DeliveryStatus) *OutgoingTarget {
	return &OutgoingTarget{msg: msg, status: status}
}

// Message returns the current row of the message.
func (t *OutgoingTarget) Message() *database.MessageInfo {
	return t.msg
}

// WasReadBeforeEdit returns true. The author has read their own content.
func (t *OutgoingTarget) WasReadBeforeEdit() bool {
	return true
}

// BuildCurrent returns the edited row with the delivery state of every
// recipient reset, since the edit is delivered anew.
func (t *OutgoingTarget) BuildCurrent(m *Mutation) *database.MessageInfo {
	current := buildRevision(t.msg, m, t.WasReadBeforeEdit())
	current.Read = true
	if len(t.msg.RecipientStates) > 0 {
		current.RecipientStates = make(map[string]types.DeliveryStatus, len(t.msg.RecipientStates))
		for recipient := range t.msg.RecipientStates {
			current.RecipientStates[recipient] = t.status
		}
	}
	return current
}

// BuildArchived returns the archived copy of the message. It keeps the
// delivery states reached by the prior content.
func (t *OutgoingTarget) BuildArchived() *database.MessageInfo {
	return buildArchive(t.msg)
}
