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

// Package memory implements the database interface using in-memory database.
package memory

import (
	"context"
	"fmt"
	"sort"
	gotime "time"

	"github.com/hashicorp/go-memdb"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/yorkie-team/revisor/api/types"
	"github.com/yorkie-team/revisor/server/backend/database"
)

// DB is an in-memory database for testing or temporarily.
type DB struct {
	db *memdb.MemDB
}

// New returns a new in-memory database.
func New() (*DB, error) {
	memDB, err := memdb.NewMemDB(schema)
	if err != nil {
		return nil, fmt.Errorf("new memdb: %w", err)
	}

	return &DB{
		db: memDB,
	}, nil
}

// Close closes the database.
func (d *DB) Close() error {
	return nil
}

// View runs fn inside a read-only transaction.
func (d *DB) View(ctx context.Context, fn func(tx database.ReadTxn) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	txn := d.db.Txn(false)
	defer txn.Abort()

	return fn(&readTxn{txn: txn})
}

// Update runs fn inside a read-write transaction. go-memdb allows a single
// writer at a time, so writes of concurrent callers are serialized here.
func (d *DB) Update(ctx context.Context, fn func(tx database.Txn) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	txn := d.db.Txn(true)
	defer txn.Abort()

	if err := fn(&writeTxn{readTxn: readTxn{txn: txn}}); err != nil {
		return err
	}

	txn.Commit()
	return nil
}

// sequence is a named counter stored next to the data it numbers, so that
// an aborted transaction gives its numbers back.
type sequence struct {
	Name  string
	Value int64
}

type readTxn struct {
	txn *memdb.Txn
}

// FindThreadInfoByID returns the thread of the given id.
func (r *readTxn) FindThreadInfoByID(id types.ID) (*database.ThreadInfo, error) {
	raw, err := r.txn.First(tblThreads, "id", id.String())
	if err != nil {
		return nil, fmt.Errorf("find thread by id: %w", err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%s: %w", id, database.ErrThreadNotFound)
	}

	return raw.(*database.ThreadInfo).DeepCopy(), nil
}

// FindMessageInfoByID returns the message row of the given row id.
func (r *readTxn) FindMessageInfoByID(id int64) (*database.MessageInfo, error) {
	raw, err := r.txn.First(tblMessages, "id", id)
	if err != nil {
		return nil, fmt.Errorf("find message by id: %w", err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%d: %w", id, database.ErrMessageNotFound)
	}

	return raw.(*database.MessageInfo).DeepCopy(), nil
}

func (r *readTxn) messagesOf(threadID types.ID) ([]*database.MessageInfo, error) {
	iter, err := r.txn.Get(tblMessages, "thread_id", threadID.String())
	if err != nil {
		return nil, fmt.Errorf("find messages of thread %s: %w", threadID, err)
	}

	var infos []*database.MessageInfo
	for raw := iter.Next(); raw != nil; raw = iter.Next() {
		infos = append(infos, raw.(*database.MessageInfo))
	}
	return infos, nil
}

// FindEditTarget returns the current revision of the message sent at
// timestamp in the thread.
func (r *readTxn) FindEditTarget(
	threadID types.ID,
	timestamp int64,
	authorID string,
) (*database.MessageInfo, error) {
	iter, err := r.txn.Get(tblMessages, "thread_id_timestamp", threadID.String(), timestamp)
	if err != nil {
		return nil, fmt.Errorf("find edit target: %w", err)
	}

	for raw := iter.Next(); raw != nil; raw = iter.Next() {
		info := raw.(*database.MessageInfo)
		if info.EditState.IsPastRevision() {
			continue
		}

		if authorID == "" {
			if info.Direction == types.DirectionOutgoing {
				return info.DeepCopy(), nil
			}
			continue
		}

		if info.Direction == types.DirectionIncoming && info.AuthorID == authorID {
			return info.DeepCopy(), nil
		}
	}

	return nil, fmt.Errorf("%s %d: %w", threadID, timestamp, database.ErrMessageNotFound)
}

// FindLatestMessageInfo returns the message with the greatest sort position
// in the thread, ignoring past revisions.
func (r *readTxn) FindLatestMessageInfo(threadID types.ID) (*database.MessageInfo, error) {
	infos, err := r.messagesOf(threadID)
	if err != nil {
		return nil, err
	}

	var latest *database.MessageInfo
	for _, info := range infos {
		if info.EditState.IsPastRevision() {
			continue
		}
		if latest == nil || info.SortID > latest.SortID {
			latest = info
		}
	}

	if latest == nil {
		return nil, fmt.Errorf("latest of %s: %w", threadID, database.ErrMessageNotFound)
	}
	return latest.DeepCopy(), nil
}

func (r *readTxn) recordsBy(index string, id int64) ([]*database.EditRecordInfo, error) {
	iter, err := r.txn.Get(tblEditRecords, index, id)
	if err != nil {
		return nil, fmt.Errorf("find edit records by %s: %w", index, err)
	}

	var infos []*database.EditRecordInfo
	for raw := iter.Next(); raw != nil; raw = iter.Next() {
		infos = append(infos, raw.(*database.EditRecordInfo).DeepCopy())
	}
	return infos, nil
}

// FindEditRecordInfos returns the edit records of the message whose current
// row is latestID, newest past revision first.
func (r *readTxn) FindEditRecordInfos(latestID int64, unreadOnly bool) ([]*database.EditRecordInfo, error) {
	records, err := r.recordsBy("latest_revision_id", latestID)
	if err != nil {
		return nil, err
	}

	var infos []*database.EditRecordInfo
	for _, record := range records {
		if unreadOnly && record.Read {
			continue
		}
		infos = append(infos, record)
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].PastRevisionID > infos[j].PastRevisionID
	})

	return infos, nil
}

// FindEditRecordInfosRelatedTo returns the edit records referencing id.
func (r *readTxn) FindEditRecordInfosRelatedTo(id int64) ([]*database.EditRecordInfo, error) {
	asLatest, err := r.recordsBy("latest_revision_id", id)
	if err != nil {
		return nil, err
	}
	asPast, err := r.recordsBy("past_revision_id", id)
	if err != nil {
		return nil, err
	}

	infos := append(asLatest, asPast...)
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].ID < infos[j].ID
	})

	return infos, nil
}

// CountEditRecordInfos returns the number of edit records of the message.
func (r *readTxn) CountEditRecordInfos(latestID int64) (int, error) {
	iter, err := r.txn.Get(tblEditRecords, "latest_revision_id", latestID)
	if err != nil {
		return 0, fmt.Errorf("count edit records: %w", err)
	}

	count := 0
	for raw := iter.Next(); raw != nil; raw = iter.Next() {
		count++
	}
	return count, nil
}

type writeTxn struct {
	readTxn
}

// next returns the next value of the named sequence.
func (w *writeTxn) next(name string) (int64, error) {
	raw, err := w.txn.First(tblSequences, "id", name)
	if err != nil {
		return 0, fmt.Errorf("find sequence %s: %w", name, err)
	}

	seq := &sequence{Name: name, Value: 1}
	if raw != nil {
		seq.Value = raw.(*sequence).Value + 1
	}

	if err := w.txn.Insert(tblSequences, seq); err != nil {
		return 0, fmt.Errorf("update sequence %s: %w", name, err)
	}
	return seq.Value, nil
}

// CreateThreadInfo creates a new thread.
func (w *writeTxn) CreateThreadInfo(groupID types.ID, isNoteToSelf bool) (*database.ThreadInfo, error) {
	info := &database.ThreadInfo{
		ID:           newID(),
		GroupID:      groupID,
		IsNoteToSelf: isNoteToSelf,
		CreatedAt:    gotime.Now(),
	}

	if err := w.txn.Insert(tblThreads, info); err != nil {
		return nil, fmt.Errorf("insert thread: %w", err)
	}
	return info.DeepCopy(), nil
}

// InsertMessageInfo stores msg as a new row.
func (w *writeTxn) InsertMessageInfo(msg *database.MessageInfo) (*database.MessageInfo, error) {
	if _, err := w.FindThreadInfoByID(msg.ThreadID); err != nil {
		return nil, err
	}

	id, err := w.next(tblMessages)
	if err != nil {
		return nil, err
	}

	info := msg.DeepCopy()
	info.ID = id
	info.SortID = id
	info.UniqueID = newID()
	info.CreatedAt = gotime.Now()

	if err := w.txn.Insert(tblMessages, info); err != nil {
		return nil, fmt.Errorf("insert message: %w", err)
	}
	return info.DeepCopy(), nil
}

// ReplaceMessageInfo overwrites the row of msg.ID if its edit count still
// equals expectedEditCount.
func (w *writeTxn) ReplaceMessageInfo(msg *database.MessageInfo, expectedEditCount int) error {
	raw, err := w.txn.First(tblMessages, "id", msg.ID)
	if err != nil {
		return fmt.Errorf("find message by id: %w", err)
	}
	if raw == nil {
		return fmt.Errorf("%d: %w", msg.ID, database.ErrMessageNotFound)
	}

	stored := raw.(*database.MessageInfo)
	if stored.EditCount != expectedEditCount {
		return fmt.Errorf("%d: %w", msg.ID, database.ErrConflictOnUpdate)
	}

	info := msg.DeepCopy()
	info.CreatedAt = stored.CreatedAt
	if err := w.txn.Insert(tblMessages, info); err != nil {
		return fmt.Errorf("replace message: %w", err)
	}
	return nil
}

// InsertEditRecordInfo stores a new edit record.
func (w *writeTxn) InsertEditRecordInfo(record *database.EditRecordInfo) (*database.EditRecordInfo, error) {
	if err := record.Validate(); err != nil {
		return nil, err
	}

	for _, revisionID := range []int64{record.LatestRevisionID, record.PastRevisionID} {
		if _, err := w.FindMessageInfoByID(revisionID); err != nil {
			return nil, err
		}
	}

	id, err := w.next(tblEditRecords)
	if err != nil {
		return nil, err
	}

	info := record.DeepCopy()
	info.ID = id
	info.CreatedAt = gotime.Now()

	if err := w.txn.Insert(tblEditRecords, info); err != nil {
		return nil, fmt.Errorf("insert edit record: %w", err)
	}
	return info.DeepCopy(), nil
}

// UpdateEditRecordInfoRead marks the edit record of the given id read.
func (w *writeTxn) UpdateEditRecordInfoRead(id int64) error {
	raw, err := w.txn.First(tblEditRecords, "id", id)
	if err != nil {
		return fmt.Errorf("find edit record by id: %w", err)
	}
	if raw == nil {
		return fmt.Errorf("%d: %w", id, database.ErrEditRecordNotFound)
	}

	info := raw.(*database.EditRecordInfo).DeepCopy()
	info.Read = true
	if err := w.txn.Insert(tblEditRecords, info); err != nil {
		return fmt.Errorf("update edit record: %w", err)
	}
	return nil
}

// DeleteEditRecordInfosRelatedTo deletes every edit record referencing id.
func (w *writeTxn) DeleteEditRecordInfosRelatedTo(id int64) (int, error) {
	infos, err := w.FindEditRecordInfosRelatedTo(id)
	if err != nil {
		return 0, err
	}

	for _, info := range infos {
		if _, err := w.txn.DeleteAll(tblEditRecords, "id", info.ID); err != nil {
			return 0, fmt.Errorf("delete edit record %d: %w", info.ID, err)
		}
	}
	return len(infos), nil
}

// DeleteMessageInfo deletes the message row of the given row id and the edit
// records referencing it.
func (w *writeTxn) DeleteMessageInfo(id int64) error {
	if _, err := w.DeleteEditRecordInfosRelatedTo(id); err != nil {
		return err
	}

	deleted, err := w.txn.DeleteAll(tblMessages, "id", id)
	if err != nil {
		return fmt.Errorf("delete message %d: %w", id, err)
	}
	if deleted == 0 {
		return fmt.Errorf("%d: %w", id, database.ErrMessageNotFound)
	}
	return nil
}

func newID() types.ID {
	return types.ID(bson.NewObjectID().Hex())
}
