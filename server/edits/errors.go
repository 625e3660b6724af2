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
	"fmt"

	"github.com/yorkie-team/revisor/pkg/errors"
)

var (
	// ErrEditDisabled is returned when the local user may not edit messages.
	ErrEditDisabled = errors.FailedPrecond("editing is disabled").WithCode("ErrEditDisabled")

	// ErrMessageTypeNotSupported is returned when the kind of the target
	// message does not support edits.
	ErrMessageTypeNotSupported = errors.InvalidArgument(
		"message type does not support edits",
	).WithCode("ErrMessageTypeNotSupported")

	// ErrMessageNotFound is returned when no outgoing message was sent at the
	// given timestamp.
	ErrMessageNotFound = errors.NotFound("message not found").WithCode("ErrMessageNotFound")

	// ErrEditWindowClosed is returned when the message is too old to edit.
	ErrEditWindowClosed = errors.FailedPrecond("edit window closed").WithCode("ErrEditWindowClosed")

	// ErrTooManyEdits is matched by every TooManyEditsError.
	ErrTooManyEdits = errors.ResourceExhausted("too many edits").WithCode("ErrTooManyEdits")

	// ErrEditTargetNotFound is returned when an incoming edit arrives before
	// the message it edits. Callers may keep the edit and retry later.
	ErrEditTargetNotFound = errors.NotFound("edit target not found").WithCode("ErrEditTargetNotFound")

	// ErrInvalidEdit is returned when an edit fails validation.
	ErrInvalidEdit = errors.InvalidArgument("invalid edit").WithCode("ErrInvalidEdit")
)

// TooManyEditsError is returned when the message already reached the edit
// limit.
type TooManyEditsError struct {
	Limit int
}

// Error returns the message of the error.
func (e *TooManyEditsError) Error() string {
	return fmt.Sprintf("too many edits: limit %d", e.Limit)
}

// Unwrap returns ErrTooManyEdits.
func (e *TooManyEditsError) Unwrap() error {
	return ErrTooManyEdits
}

// RejectReason tells why an incoming edit was dropped.
type RejectReason string

const (
	// RejectWindowExpired means the edit arrived too long after the message.
	RejectWindowExpired RejectReason = "window_expired"

	// RejectTooManyEdits means the message reached the incoming edit limit.
	RejectTooManyEdits RejectReason = "too_many_edits"

	// RejectGroupMismatch means the group of the edit is not the group of
	// the thread.
	RejectGroupMismatch RejectReason = "group_mismatch"

	// RejectGroupUnresolved means the group embedded in the edit could not
	// be resolved.
	RejectGroupUnresolved RejectReason = "group_unresolved"

	// RejectTypeNotSupported means the kind of the message cannot be edited.
	RejectTypeNotSupported RejectReason = "type_not_supported"

	// RejectVoiceMessage means the message or the edit carries a voice
	// message.
	RejectVoiceMessage RejectReason = "voice_message"
)
