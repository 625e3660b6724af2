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
	"time"

	"github.com/yorkie-team/revisor/api/types"
	"github.com/yorkie-team/revisor/server/backend/database"
	"github.com/yorkie-team/revisor/server/backend/receipts"
)

// markEditRevisionsAsRead marks every unread edit record of the message read.
// It returns one receipt for each past revision that was received. The
// receipts must be dispatched before tx commits: a committed record is never
// returned again.
func markEditRevisionsAsRead(
	tx database.Txn,
	stableID int64,
	readAt time.Time,
) ([]receipts.ReadReceipt, error) {
	records, err := tx.FindEditRecordInfos(stableID, true)
	if err != nil {
		return nil, err
	}

	var pending []receipts.ReadReceipt
	for _, record := range records {
		if err := tx.UpdateEditRecordInfoRead(record.ID); err != nil {
			return nil, err
		}

		past, err := tx.FindMessageInfoByID(record.PastRevisionID)
		if err != nil {
			return nil, err
		}
		if past.IsIncoming() {
			pending = append(pending, receiptFor(past, readAt))
		}
	}

	return pending, nil
}

// markMessageRead marks the current row of the message read along with its
// unread past revisions.
func markMessageRead(
	tx database.Txn,
	msg *database.MessageInfo,
	readAt time.Time,
) ([]receipts.ReadReceipt, error) {
	var pending []receipts.ReadReceipt

	if !msg.Read {
		updated := msg.DeepCopy()
		updated.Read = true
		if updated.EditState == types.EditStateLatestRevisionUnread {
			updated.EditState = types.EditStateLatestRevisionRead
		}
		if err := tx.ReplaceMessageInfo(updated, msg.EditCount); err != nil {
			return nil, err
		}

		if msg.IsIncoming() {
			pending = append(pending, receiptFor(msg, readAt))
		}
	}

	past, err := markEditRevisionsAsRead(tx, msg.ID, readAt)
	if err != nil {
		return nil, err
	}

	return append(pending, past...), nil
}

func receiptFor(msg *database.MessageInfo, readAt time.Time) receipts.ReadReceipt {
	return receipts.NewReadReceipt(
		msg.ThreadID,
		msg.AuthorID,
		msg.UniqueID,
		msg.ContentTimestamp(),
		readAt,
	)
}
