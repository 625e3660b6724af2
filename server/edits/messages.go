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

	"github.com/yorkie-team/revisor/api/types"
	"github.com/yorkie-team/revisor/server/backend/database"
)

// CreateThread creates a thread. groupID is empty for one-to-one threads.
func (m *Manager) CreateThread(ctx context.Context, groupID types.ID, isNoteToSelf bool) (*database.ThreadInfo, error) {
	var thread *database.ThreadInfo
	err := m.be.DB.Update(ctx, func(tx database.Txn) error {
		var err error
		thread, err = tx.CreateThreadInfo(groupID, isNoteToSelf)
		return err
	})
	if err != nil {
		return nil, err
	}

	return thread, nil
}

// InsertMessage stores a new message that has not been edited yet. The store
// allocates its row id, unique id and sort position.
func (m *Manager) InsertMessage(ctx context.Context, msg *database.MessageInfo) (*database.MessageInfo, error) {
	fresh := msg.DeepCopy()
	fresh.EditState = types.EditStateNone
	fresh.EditCount = 0
	if fresh.RevisionTimestamp == 0 {
		fresh.RevisionTimestamp = fresh.Timestamp
	}

	var info *database.MessageInfo
	err := m.be.DB.Update(ctx, func(tx database.Txn) error {
		var err error
		info, err = tx.InsertMessageInfo(fresh)
		return err
	})
	if err != nil {
		return nil, err
	}

	return info, nil
}
