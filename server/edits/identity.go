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

	"github.com/yorkie-team/revisor/server/backend/database"
)

// rebindIdentity gives msg the identity of original: its row id, unique id
// and sort position, plus the fields that address the message. References
// held elsewhere keep resolving to the same row, which now carries the new
// content.
func rebindIdentity(msg, original *database.MessageInfo) {
	msg.ID = original.ID
	msg.UniqueID = original.UniqueID
	msg.SortID = original.SortID
	msg.ThreadID = original.ThreadID
	msg.Timestamp = original.Timestamp
	msg.ServerTimestamp = original.ServerTimestamp
	msg.CreatedAt = original.CreatedAt
}

// detachIdentity clears the identity of msg so the store allocates a fresh
// row id, unique id and sort position on insert.
func detachIdentity(msg *database.MessageInfo) {
	msg.ID = 0
	msg.UniqueID = ""
	msg.SortID = 0
	msg.CreatedAt = time.Time{}
}
