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

// Package mongo implements database interfaces using MongoDB. Writes run in
// multi-document transactions, so the server must be a replica set member.
package mongo

import (
	"context"
	"errors"
	"fmt"
	gotime "time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/yorkie-team/revisor/api/types"
	"github.com/yorkie-team/revisor/server/backend/database"
	"github.com/yorkie-team/revisor/server/logging"
)

// Client is a client that connects to Mongo DB and reads or saves Revisor data.
type Client struct {
	config *Config
	client *mongo.Client

	// threadCache holds threads, which never change once created.
	threadCache *lru.Cache[types.ID, *database.ThreadInfo]
}

// Dial creates an instance of Client and dials the given MongoDB.
func Dial(conf *Config) (*Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), conf.ParseConnectionTimeout())
	defer cancel()

	client, err := mongo.Connect(options.Client().ApplyURI(conf.ConnectionURI))
	if err != nil {
		return nil, fmt.Errorf("connect to mongo: %w", err)
	}

	ctxPing, cancelPing := context.WithTimeout(ctx, conf.ParsePingTimeout())
	defer cancelPing()

	if err := client.Ping(ctxPing, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	if err := ensureIndexes(ctx, client.Database(conf.RevisorDatabase)); err != nil {
		return nil, err
	}

	threadCache, err := lru.New[types.ID, *database.ThreadInfo](conf.ThreadCacheSize)
	if err != nil {
		return nil, fmt.Errorf("initialize thread cache: %w", err)
	}

	logging.DefaultLogger().Infof("MongoDB connected, URI: %s, DB: %s", conf.ConnectionURI, conf.RevisorDatabase)

	return &Client{
		config:      conf,
		client:      client,
		threadCache: threadCache,
	}, nil
}

// Close all resources of this client.
func (c *Client) Close() error {
	if err := c.client.Disconnect(context.Background()); err != nil {
		return fmt.Errorf("close mongo client: %w", err)
	}

	c.threadCache.Purge()
	return nil
}

// DropDatabase drops the database of this client. It is used by tests.
func (c *Client) DropDatabase(ctx context.Context) error {
	if err := c.client.Database(c.config.RevisorDatabase).Drop(ctx); err != nil {
		return fmt.Errorf("drop database: %w", err)
	}
	c.threadCache.Purge()
	return nil
}

// View runs fn with plain reads outside of a transaction. They see committed
// data only.
func (c *Client) View(ctx context.Context, fn func(tx database.ReadTxn) error) error {
	return fn(&readTxn{ctx: ctx, client: c})
}

// Update runs fn inside a multi-document transaction. The driver retries fn
// on transient transaction errors, so fn must not keep state across calls.
func (c *Client) Update(ctx context.Context, fn func(tx database.Txn) error) error {
	session, err := c.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(ctx context.Context) (interface{}, error) {
		return nil, fn(&writeTxn{readTxn: readTxn{ctx: ctx, client: c}})
	})
	return err
}

func (c *Client) collection(name string) *mongo.Collection {
	return c.client.Database(c.config.RevisorDatabase).Collection(name)
}

type readTxn struct {
	ctx    context.Context
	client *Client
}

// FindThreadInfoByID returns the thread of the given id.
func (r *readTxn) FindThreadInfoByID(id types.ID) (*database.ThreadInfo, error) {
	if info, ok := r.client.threadCache.Get(id); ok {
		return info.DeepCopy(), nil
	}

	info := &database.ThreadInfo{}
	result := r.client.collection(ColThreads).FindOne(r.ctx, bson.M{"_id": id})
	if err := result.Decode(info); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", id, database.ErrThreadNotFound)
		}
		return nil, fmt.Errorf("find thread by id: %w", err)
	}

	r.client.threadCache.Add(id, info.DeepCopy())
	return info, nil
}

// FindMessageInfoByID returns the message row of the given row id.
func (r *readTxn) FindMessageInfoByID(id int64) (*database.MessageInfo, error) {
	info := &database.MessageInfo{}
	result := r.client.collection(ColMessages).FindOne(r.ctx, bson.M{"_id": id})
	if err := result.Decode(info); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%d: %w", id, database.ErrMessageNotFound)
		}
		return nil, fmt.Errorf("find message by id: %w", err)
	}
	return info, nil
}

// FindEditTarget returns the current revision of the message sent at
// timestamp in the thread.
func (r *readTxn) FindEditTarget(
	threadID types.ID,
	timestamp int64,
	authorID string,
) (*database.MessageInfo, error) {
	filter := bson.M{
		"thread_id":  threadID,
		"timestamp":  timestamp,
		"edit_state": bson.M{"$ne": types.EditStatePastRevision},
	}
	if authorID == "" {
		filter["direction"] = types.DirectionOutgoing
	} else {
		filter["direction"] = types.DirectionIncoming
		filter["author_id"] = authorID
	}

	info := &database.MessageInfo{}
	result := r.client.collection(ColMessages).FindOne(r.ctx, filter)
	if err := result.Decode(info); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%s %d: %w", threadID, timestamp, database.ErrMessageNotFound)
		}
		return nil, fmt.Errorf("find edit target: %w", err)
	}
	return info, nil
}

// FindLatestMessageInfo returns the message with the greatest sort position
// in the thread, ignoring past revisions.
func (r *readTxn) FindLatestMessageInfo(threadID types.ID) (*database.MessageInfo, error) {
	info := &database.MessageInfo{}
	result := r.client.collection(ColMessages).FindOne(r.ctx, bson.M{
		"thread_id":  threadID,
		"edit_state": bson.M{"$ne": types.EditStatePastRevision},
	}, options.FindOne().SetSort(bson.D{{Key: "sort_id", Value: -1}}))
	if err := result.Decode(info); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("latest of %s: %w", threadID, database.ErrMessageNotFound)
		}
		return nil, fmt.Errorf("find latest message: %w", err)
	}
	return info, nil
}

func (r *readTxn) findEditRecords(filter bson.M, sort bson.D) ([]*database.EditRecordInfo, error) {
	cursor, err := r.client.collection(ColEditRecords).Find(r.ctx, filter, options.Find().SetSort(sort))
	if err != nil {
		return nil, fmt.Errorf("find edit records: %w", err)
	}

	var infos []*database.EditRecordInfo
	if err := cursor.All(r.ctx, &infos); err != nil {
		return nil, fmt.Errorf("fetch edit records: %w", err)
	}
	return infos, nil
}

// FindEditRecordInfos returns the edit records of the message whose current
// row is latestID, newest past revision first.
func (r *readTxn) FindEditRecordInfos(latestID int64, unreadOnly bool) ([]*database.EditRecordInfo, error) {
	filter := bson.M{"latest_revision_id": latestID}
	if unreadOnly {
		filter["read"] = false
	}
	return r.findEditRecords(filter, bson.D{{Key: "past_revision_id", Value: -1}})
}

// FindEditRecordInfosRelatedTo returns the edit records referencing id.
func (r *readTxn) FindEditRecordInfosRelatedTo(id int64) ([]*database.EditRecordInfo, error) {
	return r.findEditRecords(bson.M{"$or": bson.A{
		bson.M{"latest_revision_id": id},
		bson.M{"past_revision_id": id},
	}}, bson.D{{Key: "_id", Value: 1}})
}

// CountEditRecordInfos returns the number of edit records of the message.
func (r *readTxn) CountEditRecordInfos(latestID int64) (int, error) {
	count, err := r.client.collection(ColEditRecords).CountDocuments(r.ctx, bson.M{
		"latest_revision_id": latestID,
	})
	if err != nil {
		return 0, fmt.Errorf("count edit records: %w", err)
	}
	return int(count), nil
}

type writeTxn struct {
	readTxn
}

// next returns the next value of the named counter.
func (w *writeTxn) next(name string) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}

	result := w.client.collection(ColCounters).FindOneAndUpdate(
		w.ctx,
		bson.M{"_id": name},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	)
	if err := result.Decode(&counter); err != nil {
		return 0, fmt.Errorf("increase counter %s: %w", name, err)
	}
	return counter.Seq, nil
}

// CreateThreadInfo creates a new thread.
func (w *writeTxn) CreateThreadInfo(groupID types.ID, isNoteToSelf bool) (*database.ThreadInfo, error) {
	info := &database.ThreadInfo{
		ID:           types.ID(bson.NewObjectID().Hex()),
		GroupID:      groupID,
		IsNoteToSelf: isNoteToSelf,
		CreatedAt:    gotime.Now(),
	}

	if _, err := w.client.collection(ColThreads).InsertOne(w.ctx, info); err != nil {
		return nil, fmt.Errorf("insert thread: %w", err)
	}
	return info, nil
}

// InsertMessageInfo stores msg as a new row.
func (w *writeTxn) InsertMessageInfo(msg *database.MessageInfo) (*database.MessageInfo, error) {
	if _, err := w.FindThreadInfoByID(msg.ThreadID); err != nil {
		return nil, err
	}

	id, err := w.next(ColMessages)
	if err != nil {
		return nil, err
	}

	info := msg.DeepCopy()
	info.ID = id
	info.SortID = id
	info.UniqueID = types.ID(bson.NewObjectID().Hex())
	info.CreatedAt = gotime.Now()

	if _, err := w.client.collection(ColMessages).InsertOne(w.ctx, info); err != nil {
		return nil, fmt.Errorf("insert message: %w", err)
	}
	return info, nil
}

// ReplaceMessageInfo overwrites the row of msg.ID if its edit count still
// equals expectedEditCount.
func (w *writeTxn) ReplaceMessageInfo(msg *database.MessageInfo, expectedEditCount int) error {
	stored, err := w.FindMessageInfoByID(msg.ID)
	if err != nil {
		return err
	}

	info := msg.DeepCopy()
	info.CreatedAt = stored.CreatedAt

	result, err := w.client.collection(ColMessages).ReplaceOne(w.ctx, bson.M{
		"_id":        msg.ID,
		"edit_count": expectedEditCount,
	}, info)
	if err != nil {
		return fmt.Errorf("replace message: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%d: %w", msg.ID, database.ErrConflictOnUpdate)
	}
	return nil
}

// InsertEditRecordInfo stores a new edit record.
func (w *writeTxn) InsertEditRecordInfo(record *database.EditRecordInfo) (*database.EditRecordInfo, error) {
	if err := record.Validate(); err != nil {
		return nil, err
	}

	for _, revisionID := range []int64{record.LatestRevisionID, record.PastRevisionID} {
		if _, err := w.FindMessageInfoByID(revisionID); err != nil {
			return nil, err
		}
	}

	id, err := w.next(ColEditRecords)
	if err != nil {
		return nil, err
	}

	info := record.DeepCopy()
	info.ID = id
	info.CreatedAt = gotime.Now()

	if _, err := w.client.collection(ColEditRecords).InsertOne(w.ctx, info); err != nil {
		return nil, fmt.Errorf("insert edit record: %w", err)
	}
	return info, nil
}

// UpdateEditRecordInfoRead marks the edit record of the given id read.
func (w *writeTxn) UpdateEditRecordInfoRead(id int64) error {
	result, err := w.client.collection(ColEditRecords).UpdateOne(w.ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"read": true}},
	)
	if err != nil {
		return fmt.Errorf("update edit record: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%d: %w", id, database.ErrEditRecordNotFound)
	}
	return nil
}

// DeleteEditRecordInfosRelatedTo deletes every edit record referencing id.
func (w *writeTxn) DeleteEditRecordInfosRelatedTo(id int64) (int, error) {
	result, err := w.client.collection(ColEditRecords).DeleteMany(w.ctx, bson.M{"$or": bson.A{
		bson.M{"latest_revision_id": id},
		bson.M{"past_revision_id": id},
	}})
	if err != nil {
		return 0, fmt.Errorf("delete edit records: %w", err)
	}
	return int(result.DeletedCount), nil
}

// DeleteMessageInfo deletes the message row of the given row id and the edit
// records referencing it.
func (w *writeTxn) DeleteMessageInfo(id int64) error {
	if _, err := w.DeleteEditRecordInfosRelatedTo(id); err != nil {
		return err
	}

	result, err := w.client.collection(ColMessages).DeleteOne(w.ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete message %d: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("%d: %w", id, database.ErrMessageNotFound)
	}
	return nil
}
