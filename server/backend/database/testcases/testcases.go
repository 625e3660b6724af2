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

// Package testcases contains testcases for database. It is used by database
// implementations to test their own implementations with the same testcases.
package testcases

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yorkie-team/revisor/api/types"
	"github.com/yorkie-team/revisor/server/backend/database"
)

const (
	dummyGroupID = types.ID("000000000000000000000abc")
	authorID     = "alice"
)

var errRollback = errors.New("rollback")

// CreateThread creates a thread for a test.
func CreateThread(t *testing.T, db database.Database, groupID types.ID) *database.ThreadInfo {
	var thread *database.ThreadInfo
	err := db.Update(context.Background(), func(tx database.Txn) error {
		var err error
		thread, err = tx.CreateThreadInfo(groupID, false)
		return err
	})
	require.NoError(t, err)
	return thread
}

// InsertMessage inserts msg into the database for a test.
func InsertMessage(t *testing.T, db database.Database, msg *database.MessageInfo) *database.MessageInfo {
	var info *database.MessageInfo
	err := db.Update(context.Background(), func(tx database.Txn) error {
		var err error
		info, err = tx.InsertMessageInfo(msg)
		return err
	})
	require.NoError(t, err)
	return info
}

// RunThreadInfoTest runs the thread tests for the given db.
func RunThreadInfoTest(t *testing.T, db database.Database) {
	t.Run("create and find thread test", func(t *testing.T) {
		ctx := context.Background()
		group := CreateThread(t, db, dummyGroupID)
		assert.NoError(t, group.ID.Validate())
		assert.True(t, group.IsGroup())

		err := db.View(ctx, func(tx database.ReadTxn) error {
			found, err := tx.FindThreadInfoByID(group.ID)
			if err != nil {
				return err
			}
			assert.Equal(t, dummyGroupID, found.GroupID)
			assert.False(t, found.IsNoteToSelf)
			return nil
		})
		assert.NoError(t, err)

		err = db.View(ctx, func(tx database.ReadTxn) error {
			_, err := tx.FindThreadInfoByID("000000000000000000000000")
			return err
		})
		assert.ErrorIs(t, err, database.ErrThreadNotFound)
	})
}

// RunInsertMessageInfoTest runs the message insertion tests for the given db.
func RunInsertMessageInfoTest(t *testing.T, db database.Database) {
	t.Run("allocate identity test", func(t *testing.T) {
		thread := CreateThread(t, db, "")

		first := InsertMessage(t, db, &database.MessageInfo{
			ID:        12345,
			ThreadID:  thread.ID,
			Direction: types.DirectionOutgoing,
			Timestamp: 1000,
			Body:      "first",
		})
		second := InsertMessage(t, db, &database.MessageInfo{
			ThreadID:  thread.ID,
			Direction: types.DirectionOutgoing,
			Timestamp: 2000,
			Body:      "second",
		})

		assert.NotEqual(t, int64(12345), first.ID)
		assert.Greater(t, second.ID, first.ID)
		assert.Greater(t, second.SortID, first.SortID)
		assert.NotEqual(t, first.UniqueID, second.UniqueID)
		assert.NoError(t, first.UniqueID.Validate())
		assert.False(t, first.CreatedAt.IsZero())

		err := db.View(context.Background(), func(tx database.ReadTxn) error {
			found, err := tx.FindMessageInfoByID(first.ID)
			if err != nil {
				return err
			}
			assert.Equal(t, "first", found.Body)
			assert.Equal(t, first.UniqueID, found.UniqueID)
			return nil
		})
		assert.NoError(t, err)
	})

	t.Run("insert into missing thread test", func(t *testing.T) {
		err := db.Update(context.Background(), func(tx database.Txn) error {
			_, err := tx.InsertMessageInfo(&database.MessageInfo{ThreadID: "000000000000000000000000"})
			return err
		})
		assert.ErrorIs(t, err, database.ErrThreadNotFound)
	})

	t.Run("rollback test", func(t *testing.T) {
		thread := CreateThread(t, db, "")

		var inserted *database.MessageInfo
		err := db.Update(context.Background(), func(tx database.Txn) error {
			var err error
			inserted, err = tx.InsertMessageInfo(&database.MessageInfo{
				ThreadID:  thread.ID,
				Direction: types.DirectionOutgoing,
				Timestamp: 1000,
			})
			if err != nil {
				return err
			}
			return errRollback
		})
		assert.ErrorIs(t, err, errRollback)

		err = db.View(context.Background(), func(tx database.ReadTxn) error {
			_, err := tx.FindMessageInfoByID(inserted.ID)
			return err
		})
		assert.ErrorIs(t, err, database.ErrMessageNotFound)
	})

	t.Run("delete message test", func(t *testing.T) {
		ctx := context.Background()
		thread := CreateThread(t, db, "")
		latest := InsertMessage(t, db, &database.MessageInfo{
			ThreadID:  thread.ID,
			Direction: types.DirectionOutgoing,
			Timestamp: 3000,
		})
		past := InsertMessage(t, db, &database.MessageInfo{
			ThreadID:  thread.ID,
			Direction: types.DirectionOutgoing,
			Timestamp: 3000,
			EditState: types.EditStatePastRevision,
		})
		assert.NoError(t, db.Update(ctx, func(tx database.Txn) error {
			_, err := tx.InsertEditRecordInfo(&database.EditRecordInfo{
				LatestRevisionID: latest.ID,
				PastRevisionID:   past.ID,
			})
			return err
		}))

		assert.NoError(t, db.Update(ctx, func(tx database.Txn) error {
			return tx.DeleteMessageInfo(past.ID)
		}))

		assert.NoError(t, db.View(ctx, func(tx database.ReadTxn) error {
			_, err := tx.FindMessageInfoByID(past.ID)
			assert.ErrorIs(t, err, database.ErrMessageNotFound)

			count, err := tx.CountEditRecordInfos(latest.ID)
			assert.NoError(t, err)
			assert.Zero(t, count)

			found, err := tx.FindMessageInfoByID(latest.ID)
			assert.NoError(t, err)
			assert.Equal(t, latest.UniqueID, found.UniqueID)
			return nil
		}))

		err := db.Update(ctx, func(tx database.Txn) error {
			return tx.DeleteMessageInfo(past.ID)
		})
		assert.ErrorIs(t, err, database.ErrMessageNotFound)
	})
}

// RunFindEditTargetTest runs the edit target lookup tests for the given db.
func RunFindEditTargetTest(t *testing.T, db database.Database) {
	t.Run("find by direction and author test", func(t *testing.T) {
		thread := CreateThread(t, db, dummyGroupID)
		outgoing := InsertMessage(t, db, &database.MessageInfo{
			ThreadID:  thread.ID,
			Direction: types.DirectionOutgoing,
			Timestamp: 1000,
		})
		incoming := InsertMessage(t, db, &database.MessageInfo{
			ThreadID:  thread.ID,
			Direction: types.DirectionIncoming,
			AuthorID:  authorID,
			Timestamp: 1000,
		})

		err := db.View(context.Background(), func(tx database.ReadTxn) error {
			found, err := tx.FindEditTarget(thread.ID, 1000, "")
			assert.NoError(t, err)
			assert.Equal(t, outgoing.ID, found.ID)

			found, err = tx.FindEditTarget(thread.ID, 1000, authorID)
			assert.NoError(t, err)
			assert.Equal(t, incoming.ID, found.ID)

			_, err = tx.FindEditTarget(thread.ID, 1000, "mallory")
			assert.ErrorIs(t, err, database.ErrMessageNotFound)

			_, err = tx.FindEditTarget(thread.ID, 999, "")
			assert.ErrorIs(t, err, database.ErrMessageNotFound)
			return nil
		})
		assert.NoError(t, err)
	})

	t.Run("skip past revisions test", func(t *testing.T) {
		thread := CreateThread(t, db, "")
		InsertMessage(t, db, &database.MessageInfo{
			ThreadID:  thread.ID,
			Direction: types.DirectionOutgoing,
			Timestamp: 1000,
			EditState: types.EditStatePastRevision,
		})

		err := db.View(context.Background(), func(tx database.ReadTxn) error {
			_, err := tx.FindEditTarget(thread.ID, 1000, "")
			return err
		})
		assert.ErrorIs(t, err, database.ErrMessageNotFound)
	})

	t.Run("scope by thread test", func(t *testing.T) {
		thread := CreateThread(t, db, "")
		other := CreateThread(t, db, "")
		InsertMessage(t, db, &database.MessageInfo{
			ThreadID:  other.ID,
			Direction: types.DirectionOutgoing,
			Timestamp: 2000,
		})

		err := db.View(context.Background(), func(tx database.ReadTxn) error {
			_, err := tx.FindEditTarget(thread.ID, 2000, "")
			return err
		})
		assert.ErrorIs(t, err, database.ErrMessageNotFound)
	})
}

// RunFindLatestMessageInfoTest runs the latest message tests for the given db.
func RunFindLatestMessageInfoTest(t *testing.T, db database.Database) {
	t.Run("ignore past revisions test", func(t *testing.T) {
		thread := CreateThread(t, db, "")

		err := db.View(context.Background(), func(tx database.ReadTxn) error {
			_, err := tx.FindLatestMessageInfo(thread.ID)
			return err
		})
		assert.ErrorIs(t, err, database.ErrMessageNotFound)

		current := InsertMessage(t, db, &database.MessageInfo{
			ThreadID:  thread.ID,
			Direction: types.DirectionIncoming,
			AuthorID:  authorID,
			Timestamp: 1000,
			EditState: types.EditStateLatestRevisionRead,
		})
		InsertMessage(t, db, &database.MessageInfo{
			ThreadID:  thread.ID,
			Direction: types.DirectionIncoming,
			AuthorID:  authorID,
			Timestamp: 1000,
			EditState: types.EditStatePastRevision,
		})

		err = db.View(context.Background(), func(tx database.ReadTxn) error {
			latest, err := tx.FindLatestMessageInfo(thread.ID)
			if err != nil {
				return err
			}
			assert.Equal(t, current.ID, latest.ID)
			return nil
		})
		assert.NoError(t, err)
	})
}

// RunReplaceMessageInfoTest runs the compare-and-swap tests for the given db.
func RunReplaceMessageInfoTest(t *testing.T, db database.Database) {
	t.Run("compare and swap test", func(t *testing.T) {
		ctx := context.Background()
		thread := CreateThread(t, db, "")
		msg := InsertMessage(t, db, &database.MessageInfo{
			ThreadID:  thread.ID,
			Direction: types.DirectionOutgoing,
			Timestamp: 1000,
			Body:      "hello",
		})

		edited := msg.DeepCopy()
		edited.Body = "hello world"
		edited.EditCount = 1
		edited.EditState = types.EditStateLatestRevisionRead
		assert.NoError(t, db.Update(ctx, func(tx database.Txn) error {
			return tx.ReplaceMessageInfo(edited, 0)
		}))

		stale := msg.DeepCopy()
		stale.Body = "stale"
		stale.EditCount = 1
		err := db.Update(ctx, func(tx database.Txn) error {
			return tx.ReplaceMessageInfo(stale, 0)
		})
		assert.ErrorIs(t, err, database.ErrConflictOnUpdate)

		assert.NoError(t, db.View(ctx, func(tx database.ReadTxn) error {
			found, err := tx.FindMessageInfoByID(msg.ID)
			if err != nil {
				return err
			}
			assert.Equal(t, "hello world", found.Body)
			assert.Equal(t, 1, found.EditCount)
			assert.Equal(t, msg.UniqueID, found.UniqueID)
			assert.Equal(t, msg.SortID, found.SortID)
			return nil
		}))

		missing := msg.DeepCopy()
		missing.ID = msg.ID + 1000000
		err = db.Update(ctx, func(tx database.Txn) error {
			return tx.ReplaceMessageInfo(missing, 0)
		})
		assert.ErrorIs(t, err, database.ErrMessageNotFound)
	})
}

// RunEditRecordInfoTest runs the edit record tests for the given db.
func RunEditRecordInfoTest(t *testing.T, db database.Database) {
	t.Run("edit record ledger test", func(t *testing.T) {
		ctx := context.Background()
		thread := CreateThread(t, db, "")
		latest := InsertMessage(t, db, &database.MessageInfo{
			ThreadID:  thread.ID,
			Direction: types.DirectionIncoming,
			AuthorID:  authorID,
			Timestamp: 1000,
		})

		var pastIDs []int64
		for i := 0; i < 3; i++ {
			past := InsertMessage(t, db, &database.MessageInfo{
				ThreadID:  thread.ID,
				Direction: types.DirectionIncoming,
				AuthorID:  authorID,
				Timestamp: 1000,
				EditState: types.EditStatePastRevision,
			})
			pastIDs = append(pastIDs, past.ID)

			assert.NoError(t, db.Update(ctx, func(tx database.Txn) error {
				_, err := tx.InsertEditRecordInfo(&database.EditRecordInfo{
					LatestRevisionID: latest.ID,
					PastRevisionID:   past.ID,
					Read:             i == 0,
				})
				return err
			}))
		}

		assert.NoError(t, db.View(ctx, func(tx database.ReadTxn) error {
			records, err := tx.FindEditRecordInfos(latest.ID, false)
			assert.NoError(t, err)
			assert.Len(t, records, 3)
			assert.Equal(t, pastIDs[2], records[0].PastRevisionID)
			assert.Equal(t, pastIDs[0], records[2].PastRevisionID)
			for _, record := range records {
				assert.Equal(t, latest.ID, record.LatestRevisionID)
			}

			unread, err := tx.FindEditRecordInfos(latest.ID, true)
			assert.NoError(t, err)
			assert.Len(t, unread, 2)

			count, err := tx.CountEditRecordInfos(latest.ID)
			assert.NoError(t, err)
			assert.Equal(t, 3, count)

			related, err := tx.FindEditRecordInfosRelatedTo(pastIDs[1])
			assert.NoError(t, err)
			assert.Len(t, related, 1)
			assert.Equal(t, latest.ID, related[0].LatestRevisionID)

			related, err = tx.FindEditRecordInfosRelatedTo(latest.ID)
			assert.NoError(t, err)
			assert.Len(t, related, 3)
			assert.Less(t, related[0].ID, related[1].ID)
			return nil
		}))

		var unread []*database.EditRecordInfo
		assert.NoError(t, db.Update(ctx, func(tx database.Txn) error {
			var err error
			unread, err = tx.FindEditRecordInfos(latest.ID, true)
			if err != nil {
				return err
			}
			for _, record := range unread {
				if err := tx.UpdateEditRecordInfoRead(record.ID); err != nil {
					return err
				}
			}
			return nil
		}))

		assert.NoError(t, db.View(ctx, func(tx database.ReadTxn) error {
			records, err := tx.FindEditRecordInfos(latest.ID, true)
			assert.NoError(t, err)
			assert.Empty(t, records)
			return nil
		}))

		err := db.Update(ctx, func(tx database.Txn) error {
			return tx.UpdateEditRecordInfoRead(unread[0].ID + 1000000)
		})
		assert.ErrorIs(t, err, database.ErrEditRecordNotFound)

		var deleted int
		assert.NoError(t, db.Update(ctx, func(tx database.Txn) error {
			var err error
			deleted, err = tx.DeleteEditRecordInfosRelatedTo(pastIDs[0])
			return err
		}))
		assert.Equal(t, 1, deleted)

		assert.NoError(t, db.Update(ctx, func(tx database.Txn) error {
			var err error
			deleted, err = tx.DeleteEditRecordInfosRelatedTo(latest.ID)
			return err
		}))
		assert.Equal(t, 2, deleted)

		assert.NoError(t, db.View(ctx, func(tx database.ReadTxn) error {
			count, err := tx.CountEditRecordInfos(latest.ID)
			assert.NoError(t, err)
			assert.Zero(t, count)
			return nil
		}))
	})

	t.Run("invalid edit record test", func(t *testing.T) {
		ctx := context.Background()
		thread := CreateThread(t, db, "")
		msg := InsertMessage(t, db, &database.MessageInfo{
			ThreadID:  thread.ID,
			Direction: types.DirectionOutgoing,
			Timestamp: 1000,
		})

		err := db.Update(ctx, func(tx database.Txn) error {
			_, err := tx.InsertEditRecordInfo(&database.EditRecordInfo{
				LatestRevisionID: msg.ID,
				PastRevisionID:   msg.ID,
			})
			return err
		})
		assert.ErrorIs(t, err, database.ErrInvalidRecord)

		err = db.Update(ctx, func(tx database.Txn) error {
			_, err := tx.InsertEditRecordInfo(&database.EditRecordInfo{
				LatestRevisionID: msg.ID,
				PastRevisionID:   msg.ID + 1000000,
			})
			return err
		})
		assert.ErrorIs(t, err, database.ErrMessageNotFound)
	})
}
