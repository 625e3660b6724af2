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

package edits_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yorkie-team/revisor/api/types"
	"github.com/yorkie-team/revisor/server/backend"
	"github.com/yorkie-team/revisor/server/backend/database"
	"github.com/yorkie-team/revisor/server/backend/receipts"
	"github.com/yorkie-team/revisor/server/edits"
	"github.com/yorkie-team/revisor/server/profiling/prometheus"
)

var baseTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

var errTransportDown = errors.New("transport down")

// failingDispatcher refuses every receipt.
type failingDispatcher struct{}

func (failingDispatcher) Dispatch(context.Context, ...receipts.ReadReceipt) error {
	return errTransportDown
}

func (failingDispatcher) Close() error { return nil }

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type testEnv struct {
	manager    *edits.Manager
	be         *backend.Backend
	clock      *testClock
	dispatcher *receipts.LoggingDispatcher
}

func newTestConfig() *edits.Config {
	return &edits.Config{
		SendEnabled:    true,
		IncomingWindow: "48h",
		IncomingLimit:  100,
		OutgoingWindow: "24h",
		OutgoingLimit:  10,
	}
}

func setup(t *testing.T, conf *edits.Config, opts ...edits.Option) *testEnv {
	metrics, err := prometheus.NewMetrics()
	require.NoError(t, err)

	be, err := backend.New(&backend.Config{
		MessageLockTimeout: "5s",
		Hostname:           "revisor-test",
	}, nil, nil, nil, nil, metrics)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, be.Shutdown())
	})

	dispatcher, ok := be.Receipts.(*receipts.LoggingDispatcher)
	require.True(t, ok)

	clock := &testClock{now: baseTime}
	return &testEnv{
		manager:    edits.New(conf, be, append([]edits.Option{edits.WithClock(clock.Now)}, opts...)...),
		be:         be,
		clock:      clock,
		dispatcher: dispatcher,
	}
}

func (e *testEnv) createThread(t *testing.T, groupID types.ID, isNoteToSelf bool) *database.ThreadInfo {
	thread, err := e.manager.CreateThread(context.Background(), groupID, isNoteToSelf)
	require.NoError(t, err)
	return thread
}

// send stores a message sent by the local user at the current time.
func (e *testEnv) send(t *testing.T, thread *database.ThreadInfo, msg *database.MessageInfo) *database.MessageInfo {
	msg.ThreadID = thread.ID
	msg.Direction = types.DirectionOutgoing
	msg.Timestamp = e.clock.Now().UnixMilli()
	msg.Read = true
	if msg.RecipientStates == nil {
		msg.RecipientStates = map[string]types.DeliveryStatus{"bob": types.DeliveryDelivered}
	}

	info, err := e.manager.InsertMessage(context.Background(), msg)
	require.NoError(t, err)
	return info
}

// receive stores an unread message from author sent at the current time.
func (e *testEnv) receive(
	t *testing.T,
	thread *database.ThreadInfo,
	author string,
	msg *database.MessageInfo,
) *database.MessageInfo {
	msg.ThreadID = thread.ID
	msg.Direction = types.DirectionIncoming
	msg.AuthorID = author
	msg.Timestamp = e.clock.Now().UnixMilli()
	msg.ServerTimestamp = msg.Timestamp + 100

	info, err := e.manager.InsertMessage(context.Background(), msg)
	require.NoError(t, err)
	return info
}

// localEdit returns an edit of msg sent at the current time.
func (e *testEnv) localEdit(msg *database.MessageInfo, body string) *types.LocalEdit {
	return &types.LocalEdit{
		ThreadID:        msg.ThreadID,
		TargetTimestamp: msg.Timestamp,
		Content:         types.EditContent{Body: body},
		Timestamp:       e.clock.Now().UnixMilli(),
	}
}

// incomingEdit returns an edit of msg from its author arriving at the
// current time.
func (e *testEnv) incomingEdit(msg *database.MessageInfo, body string) *types.IncomingEdit {
	now := e.clock.Now().UnixMilli()
	return &types.IncomingEdit{
		ThreadID:        msg.ThreadID,
		TargetTimestamp: msg.Timestamp,
		AuthorID:        msg.AuthorID,
		Content:         types.EditContent{Body: body},
		Timestamp:       now,
		ServerTimestamp: now + 100,
	}
}

func (e *testEnv) rejected(t *testing.T, reason edits.RejectReason) float64 {
	families, err := e.be.Metrics.Registry().Gather()
	require.NoError(t, err)

	for _, family := range families {
		if family.GetName() != "revisor_edits_rejected_total" {
			continue
		}
		for _, metric := range family.GetMetric() {
			for _, label := range metric.GetLabel() {
				if label.GetName() == "reason" && label.GetValue() == string(reason) {
					return metric.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}
