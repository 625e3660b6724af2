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

// Package edits lets sent and received messages be edited while keeping the
// history of their prior content.
package edits

import (
	"context"
	"fmt"
	"time"

	"github.com/yorkie-team/revisor/api/types"
	"github.com/yorkie-team/revisor/pkg/errors"
	"github.com/yorkie-team/revisor/server/backend"
	"github.com/yorkie-team/revisor/server/backend/database"
	"github.com/yorkie-team/revisor/server/backend/receipts"
	"github.com/yorkie-team/revisor/server/backend/settings"
	"github.com/yorkie-team/revisor/server/logging"
)

// OutgoingEditMessage is an applied local edit ready for the transport.
type OutgoingEditMessage struct {
	// TargetSentTimestamp addresses the edited message on other devices.
	TargetSentTimestamp int64

	// Message is the current row of the message after the edit.
	Message *database.MessageInfo

	// Record links the message to its archived prior content.
	Record *database.EditRecordInfo
}

// PastRevision is an archived revision of a message.
type PastRevision struct {
	Record  *database.EditRecordInfo
	Message *database.MessageInfo
}

// History is a message with its past revisions, newest first.
type History struct {
	Current   *database.MessageInfo
	Revisions []*PastRevision
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock sets the clock the edit windows are measured with.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// WithGroupResolver sets the resolver of group contexts embedded in incoming
// edits.
func WithGroupResolver(resolver GroupResolver) Option {
	return func(m *Manager) {
		m.groups = resolver
	}
}

// WithLinkPreviewBuilder sets the builder of link previews.
func WithLinkPreviewBuilder(builder LinkPreviewBuilder) Option {
	return func(m *Manager) {
		m.previews = builder
	}
}

// Manager applies incoming and local edits and serves the edit history.
type Manager struct {
	be        *backend.Backend
	validator *validator
	groups    GroupResolver
	previews  LinkPreviewBuilder
	now       func() time.Time
}

// New creates a new instance of Manager.
func New(conf *Config, be *backend.Backend, opts ...Option) *Manager {
	m := &Manager{
		be:       be,
		groups:   identityGroupResolver{},
		previews: draftLinkPreviewBuilder{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}

	m.validator = &validator{
		conf:    conf,
		now:     m.now,
		metrics: be.Metrics,
	}
	return m
}

// ProcessIncomingEdit applies an edit received from the network. It returns
// nil without an error when the edit is dropped by the edit policy, and
// ErrEditTargetNotFound when the edited message has not arrived yet.
func (m *Manager) ProcessIncomingEdit(ctx context.Context, edit *types.IncomingEdit) (_ *EditResult, err error) {
	start := time.Now()
	ctx = logging.WithFields(ctx, logging.NewField("thread", edit.ThreadID.String()))
	defer func() {
		logging.LogOperation(logging.From(ctx), "ProcessIncomingEdit", time.Since(start), err)
	}()

	if err := edit.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidEdit, err)
	}

	var groupID types.ID
	if edit.GroupID != "" {
		resolved, err := m.groups.ResolveGroupID(ctx, edit.GroupID)
		if err != nil {
			logging.From(ctx).Debugf("resolve group %s: %v", edit.GroupID, err)
			m.validator.reject(ctx, edit, RejectGroupUnresolved)
			return nil, nil
		}
		groupID = resolved
	}

	preview, err := m.buildLinkPreview(ctx, edit.Content.LinkPreview)
	if err != nil {
		logging.From(ctx).Warnf("drop link preview of edit %d: %v", edit.Timestamp, err)
		preview = nil
	}

	unlock, err := m.lockMessage(ctx, edit.ThreadID, edit.TargetTimestamp)
	if err != nil {
		return nil, err
	}
	defer unlock()

	var result *EditResult
	var reason RejectReason
	err = m.be.DB.Update(ctx, func(tx database.Txn) error {
		result, reason = nil, ""

		thread, err := tx.FindThreadInfoByID(edit.ThreadID)
		if err != nil {
			return err
		}

		msg, err := tx.FindEditTarget(edit.ThreadID, edit.TargetTimestamp, edit.AuthorID)
		if errors.Is(err, database.ErrMessageNotFound) {
			return fmt.Errorf("%s %d: %w", edit.ThreadID, edit.TargetTimestamp, ErrEditTargetNotFound)
		}
		if err != nil {
			return err
		}

		if reason, err = m.validator.checkForValidEdit(tx, thread, msg, edit, groupID); err != nil {
			return err
		}
		if reason != "" {
			return nil
		}

		var target EditTarget = NewIncomingTarget(msg)
		if edit.IsSyncTranscript() {
			target = NewOutgoingTarget(msg, types.DeliverySent)
		}

		result, err = ApplyEdit(tx, target, &Mutation{
			Content:     edit.Content,
			LinkPreview: preview,
			Timestamp:   edit.Timestamp,
		})
		if err != nil {
			return err
		}

		result.ShouldNotify = !edit.IsSyncTranscript() &&
			(msg.EditState == types.EditStateNone || msg.EditState == types.EditStateLatestRevisionUnread)
		return nil
	})
	if err != nil {
		m.observeFailure(err)
		return nil, err
	}

	if reason != "" {
		m.validator.reject(ctx, edit, reason)
		return nil, nil
	}

	direction := types.DirectionIncoming
	if edit.IsSyncTranscript() {
		direction = types.DirectionOutgoing
	}
	m.be.Metrics.AddEditApplied(direction)
	m.be.Metrics.ObserveEditApplySeconds(direction, time.Since(start).Seconds())
	logging.From(ctx).Debugf(
		"applied incoming edit: message %d, edit count %d",
		result.Current.ID,
		result.Current.EditCount,
	)

	return result, nil
}

// ValidateCanSendEdit returns nil if the local user may edit the message sent
// at targetTimestamp in the thread.
func (m *Manager) ValidateCanSendEdit(ctx context.Context, threadID types.ID, targetTimestamp int64) error {
	return m.be.DB.View(ctx, func(tx database.ReadTxn) error {
		thread, msg, err := findOutgoingTarget(tx, threadID, targetTimestamp)
		if err != nil {
			return err
		}

		return m.validator.validateCanSendEdit(tx, thread, msg)
	})
}

// SendEdit applies a local edit and returns the message to hand to the
// transport.
func (m *Manager) SendEdit(ctx context.Context, edit *types.LocalEdit) (_ *OutgoingEditMessage, err error) {
	start := time.Now()
	ctx = logging.WithFields(ctx, logging.NewField("thread", edit.ThreadID.String()))
	defer func() {
		logging.LogOperation(logging.From(ctx), "SendEdit", time.Since(start), err)
	}()

	if err := edit.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidEdit, err)
	}

	preview, err := m.buildLinkPreview(ctx, edit.Content.LinkPreview)
	if err != nil {
		return nil, fmt.Errorf("build link preview: %w", err)
	}

	timestamp := edit.Timestamp
	if timestamp == 0 {
		timestamp = m.now().UnixMilli()
	}

	unlock, err := m.lockMessage(ctx, edit.ThreadID, edit.TargetTimestamp)
	if err != nil {
		return nil, err
	}
	defer unlock()

	var result *EditResult
	err = m.be.DB.Update(ctx, func(tx database.Txn) error {
		thread, msg, err := findOutgoingTarget(tx, edit.ThreadID, edit.TargetTimestamp)
		if err != nil {
			return err
		}

		if err := m.validator.validateCanSendEdit(tx, thread, msg); err != nil {
			return err
		}

		result, err = ApplyEdit(tx, NewOutgoingTarget(msg, types.DeliverySending), &Mutation{
			Content:     edit.Content,
			LinkPreview: preview,
			Timestamp:   timestamp,
		})
		return err
	})
	if err != nil {
		m.observeFailure(err)
		return nil, err
	}

	m.be.Metrics.AddEditApplied(types.DirectionOutgoing)
	m.be.Metrics.ObserveEditApplySeconds(types.DirectionOutgoing, time.Since(start).Seconds())

	return &OutgoingEditMessage{
		TargetSentTimestamp: result.Current.Timestamp,
		Message:             result.Current,
		Record:              result.Record,
	}, nil
}

// EditHistory returns the message that id belongs to with its past
// revisions. id may be the current row or any past revision.
func (m *Manager) EditHistory(ctx context.Context, id int64) (*History, error) {
	var history *History
	err := m.be.DB.View(ctx, func(tx database.ReadTxn) error {
		latest, err := FindLatestRevision(tx, id)
		if err != nil {
			return err
		}

		records, err := HistoryFor(tx, latest.ID)
		if err != nil {
			return err
		}

		history = &History{Current: latest}
		for _, record := range records {
			past, err := tx.FindMessageInfoByID(record.PastRevisionID)
			if err != nil {
				return err
			}
			history.Revisions = append(history.Revisions, &PastRevision{
				Record:  record,
				Message: past,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return history, nil
}

// MarkEditRevisionsAsRead marks the past revisions of the message read once
// the user viewed its edit history. It dispatches one read receipt per
// received revision and returns the number dispatched. The revisions stay
// unread when the dispatch fails, so a later call dispatches them again.
func (m *Manager) MarkEditRevisionsAsRead(ctx context.Context, stableID int64) (int, error) {
	var dispatched int
	err := m.be.DB.Update(ctx, func(tx database.Txn) error {
		dispatched = 0
		pending, err := markEditRevisionsAsRead(tx, stableID, m.now())
		if err != nil {
			return err
		}

		dispatched, err = m.dispatchReceipts(ctx, pending)
		return err
	})
	if err != nil {
		return 0, err
	}

	return dispatched, nil
}

// MarkAsRead marks the message that id belongs to read, including its past
// revisions. It returns the number of read receipts dispatched. Nothing is
// marked read when the dispatch fails.
func (m *Manager) MarkAsRead(ctx context.Context, id int64) (int, error) {
	var dispatched int
	err := m.be.DB.Update(ctx, func(tx database.Txn) error {
		dispatched = 0
		latest, err := FindLatestRevision(tx, id)
		if err != nil {
			return err
		}

		pending, err := markMessageRead(tx, latest, m.now())
		if err != nil {
			return err
		}

		dispatched, err = m.dispatchReceipts(ctx, pending)
		return err
	})
	if err != nil {
		m.observeFailure(err)
		return 0, err
	}

	return dispatched, nil
}

// FindLatestRevision returns the current row of the message that id belongs
// to.
func (m *Manager) FindLatestRevision(ctx context.Context, id int64) (*database.MessageInfo, error) {
	var latest *database.MessageInfo
	err := m.be.DB.View(ctx, func(tx database.ReadTxn) error {
		var err error
		latest, err = FindLatestRevision(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	return latest, nil
}

// RelatedRevisions returns every revision of the message that id belongs to,
// oldest first and the current row last.
func (m *Manager) RelatedRevisions(ctx context.Context, id int64) ([]*database.MessageInfo, error) {
	var revisions []*database.MessageInfo
	err := m.be.DB.View(ctx, func(tx database.ReadTxn) error {
		var err error
		revisions, err = RelatedRevisions(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	return revisions, nil
}

// DeleteEditHistory deletes the edit records and the past revisions of the
// message that id belongs to. It returns the number of deleted records.
func (m *Manager) DeleteEditHistory(ctx context.Context, id int64) (int, error) {
	var deleted int
	err := m.be.DB.Update(ctx, func(tx database.Txn) error {
		var err error
		deleted, err = DeleteEditHistory(tx, id)
		return err
	})
	if err != nil {
		return 0, err
	}

	return deleted, nil
}

// LatestMessage returns the latest message of the thread. Past revisions are
// never returned.
func (m *Manager) LatestMessage(ctx context.Context, threadID types.ID) (*database.MessageInfo, error) {
	var latest *database.MessageInfo
	err := m.be.DB.View(ctx, func(tx database.ReadTxn) error {
		var err error
		latest, err = tx.FindLatestMessageInfo(threadID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return latest, nil
}

// ShouldShowEditSendWarning returns whether the user has yet to see the
// warning shown before their first edit.
func (m *Manager) ShouldShowEditSendWarning(ctx context.Context, userID string) (bool, error) {
	shown, err := m.be.Settings.Flag(ctx, userID, settings.KeyEditSendWarningShown)
	if err != nil {
		return false, err
	}

	return !shown, nil
}

// SetShowedEditSendWarning records that the user has seen the warning.
func (m *Manager) SetShowedEditSendWarning(ctx context.Context, userID string) error {
	return m.be.Settings.SetFlag(ctx, userID, settings.KeyEditSendWarningShown, true)
}

func (m *Manager) buildLinkPreview(ctx context.Context, draft *types.LinkPreviewDraft) (*types.LinkPreview, error) {
	if draft == nil {
		return nil, nil
	}

	return m.previews.BuildLinkPreview(ctx, draft)
}

// lockMessage serializes edits of one message within this process. Edits
// from other processes are caught by the edit count compare-and-swap.
func (m *Manager) lockMessage(ctx context.Context, threadID types.ID, timestamp int64) (func(), error) {
	key := threadID.MessageKey(timestamp)

	lockCtx, cancel := context.WithTimeout(ctx, m.be.Config.ParseMessageLockTimeout())
	defer cancel()

	if err := m.be.Lockers.Lock(lockCtx, key); err != nil {
		return nil, fmt.Errorf("lock message %s: %w", key, err)
	}

	return func() {
		if err := m.be.Lockers.Unlock(key); err != nil {
			logging.From(ctx).Error(err)
		}
	}, nil
}

func (m *Manager) dispatchReceipts(ctx context.Context, pending []receipts.ReadReceipt) (int, error) {
	if len(pending) == 0 {
		return 0, nil
	}

	dispatched, err := m.be.DispatchReceipts(ctx, pending)
	m.be.Metrics.AddReceiptsDispatched(dispatched)
	if err != nil {
		return dispatched, fmt.Errorf("dispatch read receipts: %w", err)
	}

	return dispatched, nil
}

func (m *Manager) observeFailure(err error) {
	if errors.Is(err, database.ErrConflictOnUpdate) {
		m.be.Metrics.AddEditConflict()
		return
	}

	if errors.IsClientError(err) {
		m.be.Metrics.AddEditRefused(errors.CodeOf(err))
	}
}

// findOutgoingTarget returns the thread and the outgoing message sent at
// timestamp in it. The message is nil when there is none.
func findOutgoingTarget(
	tx database.ReadTxn,
	threadID types.ID,
	timestamp int64,
) (*database.ThreadInfo, *database.MessageInfo, error) {
	thread, err := tx.FindThreadInfoByID(threadID)
	if err != nil {
		return nil, nil, err
	}

	msg, err := tx.FindEditTarget(threadID, timestamp, "")
	if errors.Is(err, database.ErrMessageNotFound) {
		return thread, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}

	return thread, msg, nil
}
