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

package postgres

import (
	"encoding/json"
	"fmt"

	"github.com/yorkie-team/revisor/server/backend/database"
)

const messageWriteColumns = `id, unique_id, sort_id, thread_id, direction, author_id,
	recipient_states, sent_timestamp, server_timestamp, revision_timestamp, body,
	body_ranges, attachments, link_preview, quote, contact_share, sticker,
	view_once, remotely_deleted, read, edit_state, edit_count`

const messageColumns = messageWriteColumns + `, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

// scanMessage reads a row selected with messageColumns.
func scanMessage(row rowScanner) (*database.MessageInfo, error) {
	info := &database.MessageInfo{}
	var recipientStates, bodyRanges, attachments, linkPreview, quote, contactShare, sticker []byte

	if err := row.Scan(
		&info.ID,
		&info.UniqueID,
		&info.SortID,
		&info.ThreadID,
		&info.Direction,
		&info.AuthorID,
		&recipientStates,
		&info.Timestamp,
		&info.ServerTimestamp,
		&info.RevisionTimestamp,
		&info.Body,
		&bodyRanges,
		&attachments,
		&linkPreview,
		&quote,
		&contactShare,
		&sticker,
		&info.ViewOnce,
		&info.RemotelyDeleted,
		&info.Read,
		&info.EditState,
		&info.EditCount,
		&info.CreatedAt,
	); err != nil {
		return nil, err
	}

	for _, col := range []struct {
		name string
		raw  []byte
		dest any
	}{
		{"recipient_states", recipientStates, &info.RecipientStates},
		{"body_ranges", bodyRanges, &info.BodyRanges},
		{"attachments", attachments, &info.Attachments},
		{"link_preview", linkPreview, &info.LinkPreview},
		{"quote", quote, &info.Quote},
		{"contact_share", contactShare, &info.ContactShare},
		{"sticker", sticker, &info.Sticker},
	} {
		if err := json.Unmarshal(col.raw, col.dest); err != nil {
			return nil, fmt.Errorf("decode %s: %w", col.name, err)
		}
	}

	return info, nil
}

// encodeMessage returns the values of messageWriteColumns for info. JSONB
// columns hold the JSON 'null' for absent values.
func encodeMessage(info *database.MessageInfo) ([]any, error) {
	docs := make([]string, 0, 7)
	for _, v := range []any{
		info.RecipientStates,
		info.BodyRanges,
		info.Attachments,
		info.LinkPreview,
		info.Quote,
		info.ContactShare,
		info.Sticker,
	} {
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode message %d: %w", info.ID, err)
		}
		docs = append(docs, string(raw))
	}

	return []any{
		info.ID,
		info.UniqueID.String(),
		info.SortID,
		info.ThreadID.String(),
		string(info.Direction),
		info.AuthorID,
		docs[0],
		info.Timestamp,
		info.ServerTimestamp,
		info.RevisionTimestamp,
		info.Body,
		docs[1],
		docs[2],
		docs[3],
		docs[4],
		docs[5],
		docs[6],
		info.ViewOnce,
		info.RemotelyDeleted,
		info.Read,
		int(info.EditState),
		info.EditCount,
	}, nil
}
