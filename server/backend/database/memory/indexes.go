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

package memory

import "github.com/hashicorp/go-memdb"

var (
	tblThreads     = "threads"
	tblMessages    = "messages"
	tblEditRecords = "edit_records"
	tblSequences   = "sequences"
)

var schema = &memdb.DBSchema{
	Tables: map[string]*memdb.TableSchema{
		tblThreads: {
			Name: tblThreads,
			Indexes: map[string]*memdb.IndexSchema{
				"id": {
					Name:    "id",
					Unique:  true,
					Indexer: &memdb.StringFieldIndex{Field: "ID"},
				},
			},
		},
		tblMessages: {
			Name: tblMessages,
			Indexes: map[string]*memdb.IndexSchema{
				"id": {
					Name:    "id",
					Unique:  true,
					Indexer: &memdb.IntFieldIndex{Field: "ID"},
				},
				"unique_id": {
					Name:    "unique_id",
					Unique:  true,
					Indexer: &memdb.StringFieldIndex{Field: "UniqueID"},
				},
				"thread_id": {
					Name:    "thread_id",
					Indexer: &memdb.StringFieldIndex{Field: "ThreadID"},
				},
				"thread_id_timestamp": {
					Name: "thread_id_timestamp",
					Indexer: &memdb.CompoundIndex{
						Indexes: []memdb.Indexer{
							&memdb.StringFieldIndex{Field: "ThreadID"},
							&memdb.IntFieldIndex{Field: "Timestamp"},
						},
					},
				},
			},
		},
		tblEditRecords: {
			Name: tblEditRecords,
			Indexes: map[string]*memdb.IndexSchema{
				"id": {
					Name:    "id",
					Unique:  true,
					Indexer: &memdb.IntFieldIndex{Field: "ID"},
				},
				"latest_revision_id": {
					Name:    "latest_revision_id",
					Indexer: &memdb.IntFieldIndex{Field: "LatestRevisionID"},
				},
				"past_revision_id": {
					Name:    "past_revision_id",
					Indexer: &memdb.IntFieldIndex{Field: "PastRevisionID"},
				},
			},
		},
		tblSequences: {
			Name: tblSequences,
			Indexes: map[string]*memdb.IndexSchema{
				"id": {
					Name:    "id",
					Unique:  true,
					Indexer: &memdb.StringFieldIndex{Field: "Name"},
				},
			},
		},
	},
}
