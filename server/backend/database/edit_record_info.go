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
	"fmt"
	"time"
)

// EditRecordInfo links the current row of an edited message to one archived
// revision of it. Records are appended once per edit and only their read
// flag ever changes.
type EditRecordInfo struct {
	// ID is allocated from a monotonic sequence.
	ID int64 `bson:"_id"`

	// LatestRevisionID is the row id of the current content. It is the
	// stable row id of the message and is shared by all of its records.
	LatestRevisionID int64 `bson:"latest_revision_id"`

	// PastRevisionID is the row id of the archived content.
	PastRevisionID int64 `bson:"past_revision_id"`

	// Read tells whether the archived content had been read when it was
	// superseded, or was marked read later.
	Read bool `bson:"read"`

	// CreatedAt is the time when the edit was applied.
	CreatedAt time.Time `bson:"created_at"`
}

// Validate returns an error if the record cannot be stored.
func (i *EditRecordInfo) Validate() error {
	if i.LatestRevisionID <= 0 || i.PastRevisionID <= 0 {
		return fmt.Errorf("revision ids %d, %d: %w", i.LatestRevisionID, i.PastRevisionID, ErrInvalidRecord)
	}
	if i.LatestRevisionID == i.PastRevisionID {
		return fmt.Errorf("self reference %d: %w", i.LatestRevisionID, ErrInvalidRecord)
	}
	return nil
}

// References returns whether the record points at the given row.
func (i *EditRecordInfo) References(id int64) bool {
	return i.LatestRevisionID == id || i.PastRevisionID == id
}

// DeepCopy returns a deep copy of the EditRecordInfo.
func (i *EditRecordInfo) DeepCopy() *EditRecordInfo {
	if i == nil {
		return nil
	}

	clone := *i
	return &clone
}
