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

package receipts

import (
	"context"
	"sync"

	"github.com/yorkie-team/revisor/server/logging"
)

// LoggingDispatcher is used when no transport is configured. It logs receipts
// and keeps the most recent ones in memory.
type LoggingDispatcher struct {
	mu         sync.Mutex
	dispatched []ReadReceipt
}

// NewLoggingDispatcher creates a new instance of LoggingDispatcher.
func NewLoggingDispatcher() *LoggingDispatcher {
	return &LoggingDispatcher{}
}

// Dispatch logs the receipts.
func (d *LoggingDispatcher) Dispatch(ctx context.Context, receipts ...ReadReceipt) error {
	logger := logging.From(ctx)
	for _, receipt := range receipts {
		logger.Debugf(
			"read receipt: thread %s, author %q, timestamp %d",
			receipt.ThreadID,
			receipt.AuthorID,
			receipt.Timestamp,
		)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.dispatched = append(d.dispatched, receipts...)
	if len(d.dispatched) > maxRetainedReceipts {
		d.dispatched = append([]ReadReceipt(nil), d.dispatched[len(d.dispatched)-maxRetainedReceipts:]...)
	}

	return nil
}

// Dispatched returns the retained receipts in dispatch order.
func (d *LoggingDispatcher) Dispatched() []ReadReceipt {
	d.mu.Lock()
	defer d.mu.Unlock()

	return append([]ReadReceipt(nil), d.dispatched...)
}

// Close does nothing.
func (d *LoggingDispatcher) Close() error {
	return nil
}

const maxRetainedReceipts = 1024
