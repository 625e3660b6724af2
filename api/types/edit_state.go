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

package types

import "fmt"

// EditState describes where a message row stands in its edit history.
type EditState int

const (
	// EditStateNone is the state of a message that was never edited.
	EditStateNone EditState = iota

	// EditStateLatestRevisionRead is the current content of an edited message
	// whose content before the last edit had been read.
	EditStateLatestRevisionRead

	// EditStateLatestRevisionUnread is the current content of an edited
	// message whose content before the last edit had not been read.
	EditStateLatestRevisionUnread

	// EditStatePastRevision is an archived, superseded revision.
	EditStatePastRevision
)

// String returns the string representation of the state.
func (s EditState) String() string {
	switch s {
	case EditStateNone:
		return "none"
	case EditStateLatestRevisionRead:
		return "latestRevisionRead"
	case EditStateLatestRevisionUnread:
		return "latestRevisionUnread"
	case EditStatePastRevision:
		return "pastRevision"
	default:
		return fmt.Sprintf("EditState(%d)", int(s))
	}
}

// IsPastRevision returns whether the row is an archived revision.
func (s EditState) IsPastRevision() bool {
	return s == EditStatePastRevision
}

// HasBeenEdited returns whether the row holds the current content of an
// edited message.
func (s EditState) HasBeenEdited() bool {
	return s == EditStateLatestRevisionRead || s == EditStateLatestRevisionUnread
}

// EditStateAfterEdit returns the state the current row takes after an edit,
// given whether the pre-edit content had been read.
func EditStateAfterEdit(wasRead bool) EditState {
	if wasRead {
		return EditStateLatestRevisionRead
	}
	return EditStateLatestRevisionUnread
}
