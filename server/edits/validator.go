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
	"context"
	"time"

	"github.com/yorkie-team/revisor/api/types"
	"github.com/yorkie-team/revisor/server/backend/database"
	"github.com/yorkie-team/revisor/server/logging"
	"github.com/yorkie-team/revisor/server/profiling/prometheus"
)

// validator gates edits by the edit policy.
type validator struct {
	conf    *Config
	now     func() time.Time
	metrics *prometheus.Metrics
}

// validateCanSendEdit returns nil if the local user may edit msg. msg is nil
// when no outgoing message was sent at the requested timestamp.
func (v *validator) validateCanSendEdit(
	tx database.ReadTxn,
	thread *database.ThreadInfo,
	msg *database.MessageInfo,
) error {
	if !v.conf.SendEnabled {
		return ErrEditDisabled
	}

	if msg == nil || msg.IsIncoming() {
		return ErrMessageNotFound
	}

	if !msg.IsEditable() {
		return ErrMessageTypeNotSupported
	}

	if thread.IsNoteToSelf {
		return nil
	}

	sentAt := time.UnixMilli(msg.Timestamp)
	if v.now().Sub(sentAt) > v.conf.ParseOutgoingWindow() {
		return ErrEditWindowClosed
	}

	count, err := CountEditsFor(tx, msg.ID)
	if err != nil {
		return err
	}
	if count >= v.conf.OutgoingLimit {
		return &TooManyEditsError{Limit: v.conf.OutgoingLimit}
	}

	return nil
}

// checkForValidEdit returns the reason to drop the incoming edit, or "" if it
// may be applied. groupID is the resolved group embedded in the edit.
func (v *validator) checkForValidEdit(
	tx database.ReadTxn,
	thread *database.ThreadInfo,
	msg *database.MessageInfo,
	edit *types.IncomingEdit,
	groupID types.ID,
) (RejectReason, error) {
	window := v.conf.ParseIncomingWindow().Milliseconds()
	if originalServerTimestamp(msg)+window < edit.ServerTimestamp {
		return RejectWindowExpired, nil
	}

	count, err := CountEditsFor(tx, msg.ID)
	if err != nil {
		return "", err
	}
	if count >= v.conf.IncomingLimit {
		return RejectTooManyEdits, nil
	}

	if groupID != thread.GroupID {
		return RejectGroupMismatch, nil
	}

	if !msg.IsEditable() {
		return RejectTypeNotSupported, nil
	}

	if msg.HasVoiceMessage() || edit.HasVoiceMessage() {
		return RejectVoiceMessage, nil
	}

	return "", nil
}

// reject logs and counts a dropped incoming edit.
func (v *validator) reject(ctx context.Context, edit *types.IncomingEdit, reason RejectReason) {
	v.metrics.AddEditRejected(string(reason))
	logging.From(ctx).Warnw(
		"drop incoming edit",
		"thread", edit.ThreadID,
		"timestamp", edit.TargetTimestamp,
		"reason", reason,
	)
}

// originalServerTimestamp returns the server timestamp of the original
// message. Messages sent from this device have none and fall back to their
// sent timestamp.
func originalServerTimestamp(msg *database.MessageInfo) int64 {
	if msg.ServerTimestamp != 0 {
		return msg.ServerTimestamp
	}
	return msg.Timestamp
}
