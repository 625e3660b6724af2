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

// Package postgres implements database interfaces using PostgreSQL through
// the pgx driver.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	"github.com/rs/xid"

	"github.com/yorkie-team/revisor/api/types"
	"github.com/yorkie-team/revisor/server/backend/database"
	"github.com/yorkie-team/revisor/server/logging"
)

// Client is a client that connects to PostgreSQL and reads or saves Revisor
// data.
type Client struct {
	config *Config
	db     *sql.DB

	threadCache *lru.Cache[types.ID, *database.ThreadInfo]
}

// Dial opens a connection pool to the given PostgreSQL and applies pending
// migrations.
func Dial(conf *Config) (*Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), conf.ParseConnectionTimeout())
	defer cancel()

	db, err := sql.Open("pgx", conf.ConnectionURI)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(conf.ParseConnMaxLifetime())
	db.SetMaxIdleConns(conf.MaxOpenConns / 2)
	db.SetMaxOpenConns(conf.MaxOpenConns)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if err := ApplyMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	threadCache, err := lru.New[types.ID, *database.ThreadInfo](conf.ThreadCacheSize)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize thread cache: %w", err)
	}

	logging.DefaultLogger().Infof("PostgreSQL connected")

	return &Client{
		config:      conf,
		db:          db,
		threadCache: threadCache,
	}, nil
}

// Close all resources of this client.
func (c *Client) Close() error {
	c.threadCache.Purge()
	if err := c.db.Close(); err != nil {
		return fmt.Errorf("close postgres: %w", err)
	}
	return nil
}

// View runs fn inside a read-only transaction.
func (c *Client) View(ctx context.Context, fn func(tx database.ReadTxn) error) error {
	tx, err := c.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return fmt.Errorf("begin read tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(&readTxn{ctx: ctx, tx: tx, client: c}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit read tx: %w", err)
	}
	return nil
}

// Update runs fn inside a read-write transaction.
func (c *Client) Update(ctx context.Context, fn func(tx database.Txn) error) error {
	tx, err := c.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(&writeTxn{readTxn: readTxn{ctx: ctx, tx: tx, client: c}}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

type readTxn struct {
	ctx    context.Context
	tx     *sql.Tx
	client *Client
}

// FindThreadInfoByID returns the thread of the given id.
func (r *readTxn) FindThreadInfoByID(id types.ID) (*database.ThreadInfo, error) {
	if info, ok := r.client.threadCache.Get(id); ok {
		return info.DeepCopy(), nil
	}

	info := &database.ThreadInfo{}
	err := r.tx.QueryRowContext(r.ctx, `
		SELECT id, group_id, is_note_to_self, created_at FROM threads WHERE id = $1
	`, id.String()).Scan(&info.ID, &info.GroupID, &info.IsNoteToSelf, &info.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", id, database.ErrThreadNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find thread by id: %w", err)
	}

	r.client.threadCache.Add(id, info.DeepCopy())
	return info, nil
}

// FindMessageInfoByID returns the message row of the given row id.
func (r *readTxn) FindMessageInfoByID(id int64) (*database.MessageInfo, error) {
	info, err := scanMessage(r.tx.QueryRowContext(r.ctx,
		`SELECT `+messageColumns+` FROM messages WHERE id = $1`, id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%d: %w", id, database.ErrMessageNotFound)
	}
	if err != nil {
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
	direction := types.DirectionIncoming
	if authorID == "" {
		direction = types.DirectionOutgoing
	}

	info, err := scanMessage(r.tx.QueryRowContext(r.ctx, `
		SELECT `+messageColumns+` FROM messages
		WHERE thread_id = $1 AND sent_timestamp = $2 AND edit_state <> $3
			AND direction = $4 AND author_id = $5
		ORDER BY id
		LIMIT 1
	`, threadID.String(), timestamp, int(types.EditStatePastRevision), string(direction), authorID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s %d: %w", threadID, timestamp, database.ErrMessageNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find edit target: %w", err)
	}
	return info, nil
}

// FindLatestMessageInfo returns the message with the greatest sort position
// in the thread, ignoring past revisions.
func (r *readTxn) FindLatestMessageInfo(threadID types.ID) (*database.MessageInfo, error) {
	info, err := scanMessage(r.tx.QueryRowContext(r.ctx, `
		SELECT `+messageColumns+` FROM messages
		WHERE thread_id = $1 AND edit_state <> $2
		ORDER BY sort_id DESC
		LIMIT 1
	`, threadID.String(), int(types.EditStatePastRevision)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("latest of %s: %w", threadID, database.ErrMessageNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find latest message: %w", err)
	}
	return info, nil
}

func (r *readTxn) queryEditRecords(query string, args ...any) ([]*database.EditRecordInfo, error) {
	rows, err := r.tx.QueryContext(r.ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("find edit records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var infos []*database.EditRecordInfo
	for rows.Next() {
		info := &database.EditRecordInfo{}
		if err := rows.Scan(
			&info.ID,
			&info.LatestRevisionID,
			&info.PastRevisionID,
			&info.Read,
			&info.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan edit record: %w", err)
		}
		infos = append(infos, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate edit records: %w", err)
	}
	return infos, nil
}

// FindEditRecordInfos returns the edit records of the message whose current
// row is latestID, newest past revision first.
func (r *readTxn) FindEditRecordInfos(latestID int64, unreadOnly bool) ([]*database.EditRecordInfo, error) {
	return r.queryEditRecords(`
		SELECT id, latest_revision_id, past_revision_id, read, created_at FROM edit_records
		WHERE latest_revision_id = $1 AND (NOT $2 OR read = FALSE)
		ORDER BY past_revision_id DESC
	`, latestID, unreadOnly)
}

// FindEditRecordInfosRelatedTo returns the edit records referencing id.
func (r *readTxn) FindEditRecordInfosRelatedTo(id int64) ([]*database.EditRecordInfo, error) {
	return r.queryEditRecords(`
		SELECT id, latest_revision_id, past_revision_id, read, created_at FROM edit_records
		WHERE latest_revision_id = $1 OR past_revision_id = $1
		ORDER BY id
	`, id)
}

// CountEditRecordInfos returns the number of edit records of the message.
func (r *readTxn) CountEditRecordInfos(latestID int64) (int, error) {
	var count int
	if err := r.tx.QueryRowContext(r.ctx,
		`SELECT COUNT(*) FROM edit_records WHERE latest_revision_id = $1`, latestID,
	).Scan(&count); err != nil {
		return 0, fmt.Errorf("count edit records: %w", err)
	}
	return count, nil
}

type writeTxn struct {
	readTxn
}

// CreateThreadInfo creates a new thread.
func (w *writeTxn) CreateThreadInfo(groupID types.ID, isNoteToSelf bool) (*database.ThreadInfo, error) {
	info := &database.ThreadInfo{
		ID:           newID(),
		GroupID:      groupID,
		IsNoteToSelf: isNoteToSelf,
	}

	if err := w.tx.QueryRowContext(w.ctx, `
		INSERT INTO threads (id, group_id, is_note_to_self) VALUES ($1, $2, $3)
		RETURNING created_at
	`, info.ID.String(), info.GroupID.String(), info.IsNoteToSelf).Scan(&info.CreatedAt); err != nil {
		return nil, fmt.Errorf("insert thread: %w", err)
	}
	return info, nil
}

// InsertMessageInfo stores msg as a new row.
func (w *writeTxn) InsertMessageInfo(msg *database.MessageInfo) (*database.MessageInfo, error) {
	if _, err := w.FindThreadInfoByID(msg.ThreadID); err != nil {
		return nil, err
	}

	info := msg.DeepCopy()
	if err := w.tx.QueryRowContext(w.ctx, `SELECT nextval('messages_id_seq')`).Scan(&info.ID); err != nil {
		return nil, fmt.Errorf("allocate message id: %w", err)
	}
	info.SortID = info.ID
	info.UniqueID = newID()

	cols, err := encodeMessage(info)
	if err != nil {
		return nil, err
	}

	if err := w.tx.QueryRowContext(w.ctx, `
		INSERT INTO messages (`+messageWriteColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16,
			$17, $18, $19, $20, $21, $22)
		RETURNING created_at
	`, cols...).Scan(&info.CreatedAt); err != nil {
		return nil, fmt.Errorf("insert message: %w", err)
	}
	return info, nil
}

// ReplaceMessageInfo overwrites the row of msg.ID if its edit count still
// equals expectedEditCount.
func (w *writeTxn) ReplaceMessageInfo(msg *database.MessageInfo, expectedEditCount int) error {
	cols, err := encodeMessage(msg)
	if err != nil {
		return err
	}

	result, err := w.tx.ExecContext(w.ctx, `
		UPDATE messages SET
			unique_id = $2, sort_id = $3, thread_id = $4, direction = $5, author_id = $6,
			recipient_states = $7, sent_timestamp = $8, server_timestamp = $9,
			revision_timestamp = $10, body = $11, body_ranges = $12, attachments = $13,
			link_preview = $14, quote = $15, contact_share = $16, sticker = $17,
			view_once = $18, remotely_deleted = $19, read = $20, edit_state = $21,
			edit_count = $22
		WHERE id = $1 AND edit_count = $23
	`, append(cols, expectedEditCount)...)
	if err != nil {
		return fmt.Errorf("replace message: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("replace message: %w", err)
	}
	if affected == 1 {
		return nil
	}

	if _, err := w.FindMessageInfoByID(msg.ID); err != nil {
		return err
	}
	return fmt.Errorf("%d: %w", msg.ID, database.ErrConflictOnUpdate)
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

	info := record.DeepCopy()
	if err := w.tx.QueryRowContext(w.ctx, `
		INSERT INTO edit_records (latest_revision_id, past_revision_id, read)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, info.LatestRevisionID, info.PastRevisionID, info.Read).Scan(&info.ID, &info.CreatedAt); err != nil {
		return nil, fmt.Errorf("insert edit record: %w", err)
	}
	return info, nil
}

// UpdateEditRecordInfoRead marks the edit record of the given id read.
func (w *writeTxn) UpdateEditRecordInfoRead(id int64) error {
	result, err := w.tx.ExecContext(w.ctx, `UPDATE edit_records SET read = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("update edit record: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update edit record: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%d: %w", id, database.ErrEditRecordNotFound)
	}
	return nil
}

// DeleteEditRecordInfosRelatedTo deletes every edit record referencing id.
func (w *writeTxn) DeleteEditRecordInfosRelatedTo(id int64) (int, error) {
	result, err := w.tx.ExecContext(w.ctx,
		`DELETE FROM edit_records WHERE latest_revision_id = $1 OR past_revision_id = $1`, id,
	)
	if err != nil {
		return 0, fmt.Errorf("delete edit records: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete edit records: %w", err)
	}
	return int(affected), nil
}

// DeleteMessageInfo deletes the message row of the given row id. Edit records
// referencing it are deleted by the ON DELETE CASCADE of edit_records.
func (w *writeTxn) DeleteMessageInfo(id int64) error {
	result, err := w.tx.ExecContext(w.ctx, `DELETE FROM messages WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete message %d: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete message %d: %w", id, err)
	}
	if affected == 0 {
		return fmt.Errorf("%d: %w", id, database.ErrMessageNotFound)
	}
	return nil
}

// newID returns a new 12 byte id in the hex form shared by every backend.
func newID() types.ID {
	return types.IDFromBytes(xid.New().Bytes())
}
