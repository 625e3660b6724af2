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

	"github.com/yorkie-team/revisor/server/backend/database"
)

// EditResult is the outcome of an applied edit.
type EditResult struct {
	// Current is the row of the message after the edit. It keeps the row id,
	// unique id and sort position of the message.
	Current *database.MessageInfo

	// Archived is the new row holding the content the edit replaced.
	Archived *database.MessageInfo

	// Record links Current and Archived.
	Record *database.EditRecordInfo

	// ShouldNotify tells whether the user should be notified of an incoming
	// edit. Edits of messages the user already read after an earlier edit
	// stay quiet.
	ShouldNotify bool
}

// ApplyEdit replaces the content of the message of target with m and archives
// the prior content. All writes run in tx, so they land together or not at
// all. The replace fails with database.ErrConflictOnUpdate when another edit
// of the message committed after target was read.
func ApplyEdit(tx database.Txn, target EditTarget, m *Mutation) (*EditResult, error) {
	original := target.Message()

	current := createEditedMessage(target, m)
	archived := archivePriorContent(target)

	if err := tx.ReplaceMessageInfo(current, original.EditCount); err != nil {
		return nil, fmt.Errorf("replace message %d: %w", original.ID, err)
	}

	archivedInfo, err := tx.InsertMessageInfo(archived)
	if err != nil {
		return nil, fmt.Errorf("archive message %d: %w", original.ID, err)
	}

	record, err := tx.InsertEditRecordInfo(&database.EditRecordInfo{
		LatestRevisionID: original.ID,
		PastRevisionID:   archivedInfo.ID,
		Read:             target.WasReadBeforeEdit(),
	})
	if err != nil {
		return nil, fmt.Errorf("record edit of message %d: %w", original.ID, err)
	}

	return &EditResult{
		Current:  current,
		Archived: archivedInfo,
		Record:   record,
	}, nil
}

// HistoryFor returns the edit records of the message, newest past revision
// first.
func HistoryFor(tx database.ReadTxn, stableID int64) ([]*database.EditRecordInfo, error) {
	return tx.FindEditRecordInfos(stableID, false)
}

// CountEditsFor returns the number of edits applied to the message.
func CountEditsFor(tx database.ReadTxn, stableID int64) (int, error) {
	return tx.CountEditRecordInfos(stableID)
}

// DeleteAllRecordsReferencing deletes the edit records referencing id as
// either the current or a past revision. It returns the number of deleted
// records.
func DeleteAllRecordsReferencing(tx database.Txn, id int64) (int, error) {
	return tx.DeleteEditRecordInfosRelatedTo(id)
}

// DeleteEditHistory deletes every edit record of the message that id belongs
// to and the rows of its past revisions. The current row is kept. It returns
// the number of deleted records.
func DeleteEditHistory(tx database.Txn, id int64) (int, error) {
	revisions, err := RelatedRevisions(tx, id)
	if err != nil {
		return 0, err
	}
	latest := revisions[len(revisions)-1]

	deleted, err := DeleteAllRecordsReferencing(tx, latest.ID)
	if err != nil {
		return 0, err
	}

	for _, past := range revisions[:len(revisions)-1] {
		if err := tx.DeleteMessageInfo(past.ID); err != nil {
			return 0, fmt.Errorf("delete past revision %d: %w", past.ID, err)
		}
	}

	return deleted, nil
}

// FindLatestRevision returns the current row of the message that id belongs
// to. id may be the current row itself or one of its past revisions.
func FindLatestRevision(tx database.ReadTxn, id int64) (*database.MessageInfo, error) {
	msg, err := tx.FindMessageInfoByID(id)
	if err != nil {
		return nil, err
	}
	if !msg.EditState.IsPastRevision() {
		return msg, nil
	}

	records, err := tx.FindEditRecordInfosRelatedTo(id)
	if err != nil {
		return nil, err
	}
	for _, record := range records {
		if record.PastRevisionID == id {
			return tx.FindMessageInfoByID(record.LatestRevisionID)
		}
	}

	return nil, fmt.Errorf("latest revision of %d: %w", id, database.ErrEditRecordNotFound)
}

// RelatedRevisions returns every revision of the message that id belongs to:
// the past revisions from oldest to newest, then the current row.
func RelatedRevisions(tx database.ReadTxn, id int64) ([]*database.MessageInfo, error) {
	latest, err := FindLatestRevision(tx, id)
	if err != nil {
		return nil, err
	}

	records, err := HistoryFor(tx, latest.ID)
	if err != nil {
		return nil, err
	}

	revisions := make([]*database.MessageInfo, 0, len(records)+1)
	for i := len(records) - 1; i >= 0; i-- {
		past, err := tx.FindMessageInfoByID(records[i].PastRevisionID)
		if err != nil {
			return nil, err
		}
		revisions = append(revisions, past)
	}

	return append(revisions, latest), nil
}
