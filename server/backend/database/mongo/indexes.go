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

package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const (
	// ColThreads represents the threads collection in the database.
	ColThreads = "threads"
	// ColMessages represents the messages collection in the database. It
	// holds current messages and past revisions alike.
	ColMessages = "messages"
	// ColEditRecords represents the edit records collection in the database.
	ColEditRecords = "edit_records"
	// ColCounters represents the collection of sequence counters.
	ColCounters = "counters"
)

// Collections represents the list of all collections in the database.
var Collections = []string{
	ColThreads,
	ColMessages,
	ColEditRecords,
	ColCounters,
}

type collectionInfo struct {
	name    string
	indexes []mongo.IndexModel
}

// Below are names and indexes information of Collections that stores Revisor data.
var collectionInfos = []collectionInfo{
	{
		name: ColMessages,
		indexes: []mongo.IndexModel{{
			Keys:    bson.D{{Key: "unique_id", Value: int32(1)}},
			Options: options.Index().SetUnique(true),
		}, {
			Keys: bson.D{
				{Key: "thread_id", Value: int32(1)},
				{Key: "timestamp", Value: int32(1)},
				{Key: "edit_state", Value: int32(1)},
			},
		}, {
			Keys: bson.D{
				{Key: "thread_id", Value: int32(1)},
				{Key: "sort_id", Value: int32(-1)},
			},
		}},
	},
	{
		name: ColEditRecords,
		indexes: []mongo.IndexModel{{
			Keys: bson.D{{Key: "latest_revision_id", Value: int32(1)}},
		}, {
			Keys: bson.D{{Key: "past_revision_id", Value: int32(1)}},
		}},
	},
}

func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	for _, info := range collectionInfos {
		_, err := db.Collection(info.name).Indexes().CreateMany(ctx, info.indexes)
		if err != nil {
			return fmt.Errorf("create indexes: %w", err)
		}
	}
	return nil
}
