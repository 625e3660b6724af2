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
	"github.com/yorkie-team/revisor/api/types"
	"github.com/yorkie-team/revisor/server/backend/database"
)

// createEditedMessage builds the new current row of the message of target.
// The row is not persisted.
func createEditedMessage(target EditTarget, m *Mutation) *database.MessageInfo {
	current := target.BuildCurrent(m)
	rebindIdentity(current, target.Message())
	return current
}

// archivePriorContent builds the past revision row holding the content the
// edit replaces. The row is not persisted.
func archivePriorContent(target EditTarget) *database.MessageInfo {
	archived := target.BuildArchived()
	detachIdentity(archived)
	return archived
}

// buildRevision copies the fields of original that edits never change and
// applies m to the rest.
func buildRevision(original *database.MessageInfo, m *Mutation, wasRead bool) *database.MessageInfo {
	msg := &database.MessageInfo{
		Direction:         original.Direction,
		AuthorID:          original.AuthorID,
		RevisionTimestamp: m.Timestamp,
		Body:              m.Content.Body,
		Attachments:       reconcileAttachments(original, m.Content.OversizeText),
		LinkPreview:       m.LinkPreview.DeepCopy(),
		Quote:             reconcileQuote(original.Quote, m.Content.HasQuote),
		ContactShare:      original.ContactShare.DeepCopy(),
		Sticker:           original.Sticker.DeepCopy(),
		ViewOnce:          original.ViewOnce,
		RemotelyDeleted:   original.RemotelyDeleted,
		Read:              original.Read,
		EditState:         types.EditStateAfterEdit(wasRead),
		EditCount:         original.EditCount + 1,
	}

	if m.Content.BodyRanges != nil {
		msg.BodyRanges = append([]types.BodyRange(nil), m.Content.BodyRanges...)
	}
	if original.RecipientStates != nil {
		msg.RecipientStates = make(map[string]types.DeliveryStatus, len(original.RecipientStates))
		for recipient, status := range original.RecipientStates {
			msg.RecipientStates[recipient] = status
		}
	}

	return msg
}

// buildArchive returns a faithful copy of the content of original tagged as
// a past revision.
func buildArchive(original *database.MessageInfo) *database.MessageInfo {
	archived := original.DeepCopy()
	archived.RevisionTimestamp = original.ContentTimestamp()
	archived.EditState = types.EditStatePastRevision
	return archived
}
