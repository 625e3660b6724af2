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

package database

import (
	"time"

	"github.com/yorkie-team/revisor/api/types"
)

// ThreadInfo is a conversation that messages belong to.
type ThreadInfo struct {
	// ID is the unique ID of the thread.
	ID types.ID `bson:"_id"`

	// GroupID is the ID of the group of a group thread. It is empty for a
	// thread with a single participant.
	GroupID types.ID `bson:"group_id"`

	// IsNoteToSelf marks the thread the local user holds with themselves.
	IsNoteToSelf bool `bson:"is_note_to_self"`

	// CreatedAt is the time when the thread was created.
	CreatedAt time.Time `bson:"created_at"`
}

// IsGroup returns whether the thread is a group thread.
func (i *ThreadInfo) IsGroup() bool {
	return i.GroupID != ""
}

// DeepCopy returns a deep copy of the ThreadInfo.
func (i *ThreadInfo) DeepCopy() *ThreadInfo {
	if i == nil {
		return nil
	}

	clone := *i
	return &clone
}
