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

// Package database provides the database interface for the Revisor backend.
// Every read and write happens inside a transaction so that an edit can
// rewrite the current message, archive the prior content and link the two
// in one atomic unit.
package database

import (
	"context"

	"github.com/yorkie-team/revisor/api/types"
	"github.com/yorkie-team/revisor/pkg/errors"
)

var (
	// ErrThreadNotFound is returned when the thread could not be found.
	ErrThreadNotFound = errors.NotFound("thread not found").WithCode("ErrThreadNotFound")

	// ErrMessageNotFound is returned when the message could not be found.
	ErrMessageNotFound = errors.NotFound("message not found").WithCode("ErrMessageNotFound")

	// ErrEditRecordNotFound is returned when the edit record could not be found.
	ErrEditRecordNotFound = errors.NotFound("edit record not found").WithCode("ErrEditRecordNotFound")

	// ErrConflictOnUpdate is returned when the row changed since it was read.
	ErrConflictOnUpdate = errors.Aborted("conflict on update").WithCode("ErrConflictOnUpdate")

	// ErrInvalidRecord is returned when a record violates the shape of the
	// edit ledger, such as an edit record linking a row to itself.
	ErrInvalidRecord = errors.InvalidArgument("invalid record").WithCode("ErrInvalidRecord")
)

// Database represents database which reads or saves Revisor data.
type Database interface {
	// Close all resources of this database.
	Close() error

	// View runs fn inside a read-only transaction.
	View(ctx context.Context, fn func(tx ReadTxn) error) error

	// Update runs fn inside a read-write transaction. The transaction is
	// committed if fn returns nil and rolled back otherwise.
	Update(ctx context.Context, fn func(tx Txn) error) error
}

// ReadTxn is the read half of a transaction.
type ReadTxn interface {
	// FindThreadInfoByID returns the thread of the given id.
	FindThreadInfoByID(id types.ID) (*ThreadInfo, error)

	// FindMessageInfoByID returns the message row of the given row id. Past
	// revisions are returned as well.
	FindMessageInfoByID(id int64) (*MessageInfo, error)

	// FindEditTarget returns the current revision of the message sent at
	// timestamp in the thread. An empty authorID looks for an outgoing message,
	// otherwise for an incoming message of that author. Past revisions are
	// never returned.
	FindEditTarget(threadID types.ID, timestamp int64, authorID string) (*MessageInfo, error)

	// FindLatestMessageInfo returns the message with the greatest sort
	// position in the thread, ignoring past revisions.
	FindLatestMessageInfo(threadID types.ID) (*MessageInfo, error)

	// FindEditRecordInfos returns the edit records of the message whose
	// current row is latestID, newest past revision first.
	FindEditRecordInfos(latestID int64, unreadOnly bool) ([]*EditRecordInfo, error)

	// FindEditRecordInfosRelatedTo returns the edit records referencing id
	// either as the latest or as a past revision, oldest first.
	FindEditRecordInfosRelatedTo(id int64) ([]*EditRecordInfo, error)

	// CountEditRecordInfos returns the number of edit records of the message
	// whose current row is latestID.
	CountEditRecordInfos(latestID int64) (int, error)
}

// Txn is a read-write transaction.
type Txn interface {
	ReadTxn

	// CreateThreadInfo creates a new thread.
	CreateThreadInfo(groupID types.ID, isNoteToSelf bool) (*ThreadInfo, error)

	// InsertMessageInfo stores msg as a new row. The row id, unique id and
	// sort position are always allocated by the store.
	InsertMessageInfo(msg *MessageInfo) (*MessageInfo, error)

	// ReplaceMessageInfo overwrites the row of msg.ID with msg if its stored
	// edit count still equals expectedEditCount. Otherwise it returns
	// ErrConflictOnUpdate.
	ReplaceMessageInfo(msg *MessageInfo, expectedEditCount int) error

	// InsertEditRecordInfo stores a new edit record and allocates its id.
	InsertEditRecordInfo(record *EditRecordInfo) (*EditRecordInfo, error)

	// UpdateEditRecordInfoRead marks the edit record of the given id read.
	UpdateEditRecordInfoRead(id int64) error

	// DeleteEditRecordInfosRelatedTo deletes every edit record referencing
	// id and returns the number of deleted records.
	DeleteEditRecordInfosRelatedTo(id int64) (int, error)

	// DeleteMessageInfo deletes the message row of the given row id along
	// with the edit records referencing it.
	DeleteMessageInfo(id int64) error
}
