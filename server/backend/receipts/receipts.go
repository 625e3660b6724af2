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

// Package receipts delivers read receipts for edited messages the local user
// has read.
package receipts

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/yorkie-team/revisor/api/types"
	"github.com/yorkie-team/revisor/server/logging"
)

// ReadReceipt tells the author of a message that the local user read one of
// its revisions. Timestamp is the sent timestamp of the read revision.
type ReadReceipt struct {
	EventID   string    `json:"event_id"`
	ThreadID  types.ID  `json:"thread_id"`
	AuthorID  string    `json:"author_id"`
	MessageID types.ID  `json:"message_id"`
	Timestamp int64     `json:"timestamp"`
	ReadAt    time.Time `json:"read_at"`
}

// NewReadReceipt creates a receipt with a fresh event id.
func NewReadReceipt(threadID types.ID, authorID string, messageID types.ID, timestamp int64, readAt time.Time) ReadReceipt {
	return ReadReceipt{
		EventID:   uuid.NewString(),
		ThreadID:  threadID,
		AuthorID:  authorID,
		MessageID: messageID,
		Timestamp: timestamp,
		ReadAt:    readAt,
	}
}

// Marshal marshals the receipt to JSON.
func (r ReadReceipt) Marshal() ([]byte, error) {
	encoded, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}

	return encoded, nil
}

// Dispatcher is an interface for delivering read receipts.
type Dispatcher interface {
	Dispatch(ctx context.Context, receipts ...ReadReceipt) error
	Close() error
}

// Ensure creates a dispatcher based on the given configuration. If the
// configuration is nil or invalid, it returns a LoggingDispatcher so callers
// can dispatch without nil checks.
func Ensure(kafkaConf *Config) Dispatcher {
	if kafkaConf == nil {
		return NewLoggingDispatcher()
	}

	if err := kafkaConf.Validate(); err != nil {
		logging.DefaultLogger().Warnf("invalid kafka configuration: %v", err)
		return NewLoggingDispatcher()
	}

	logging.DefaultLogger().Infof(
		"connecting to kafka: %s, topic: %s",
		kafkaConf.Addresses,
		kafkaConf.Topic,
	)

	return newKafkaDispatcher(kafkaConf)
}
