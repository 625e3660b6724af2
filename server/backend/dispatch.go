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

package backend

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/yorkie-team/revisor/api/types"
	"github.com/yorkie-team/revisor/server/backend/receipts"
)

// maxDispatchConcurrency bounds the receipt batches in flight across the
// server.
const maxDispatchConcurrency = 8

// batchLimiter runs batches concurrently under a server-wide limit.
type batchLimiter struct {
	sem *semaphore.Weighted
}

func newBatchLimiter(limit int64) *batchLimiter {
	return &batchLimiter{sem: semaphore.NewWeighted(limit)}
}

// run calls fn for every index in [0, n) and waits for all calls. The
// returned slice holds the error of each call at its index.
func (l *batchLimiter) run(ctx context.Context, n int, fn func(ctx context.Context, i int) error) []error {
	errs := make([]error, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		if err := l.sem.Acquire(ctx, 1); err != nil {
			for j := i; j < n; j++ {
				errs[j] = err
			}
			break
		}

		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			defer l.sem.Release(1)
			errs[i] = fn(ctx, i)
		}(i)
	}
	wg.Wait()

	return errs
}

// receiptBatch is the receipts of one thread in dispatch order.
type receiptBatch struct {
	threadID types.ID
	receipts []receipts.ReadReceipt
}

// groupByThread splits pending into one batch per thread. Batches follow the
// order in which their thread first appears.
func groupByThread(pending []receipts.ReadReceipt) []receiptBatch {
	index := make(map[types.ID]int)
	var batches []receiptBatch
	for _, receipt := range pending {
		i, ok := index[receipt.ThreadID]
		if !ok {
			i = len(batches)
			index[receipt.ThreadID] = i
			batches = append(batches, receiptBatch{threadID: receipt.ThreadID})
		}
		batches[i].receipts = append(batches[i].receipts, receipt)
	}
	return batches
}

// DispatchReceipts hands the receipts to the dispatcher in one batch per
// thread, batches of different threads concurrently. Receipts of a thread
// keep their order. It returns the number of receipts dispatched, which is
// less than len(pending) when a batch failed, and the first failure.
func (b *Backend) DispatchReceipts(ctx context.Context, pending []receipts.ReadReceipt) (int, error) {
	batches := groupByThread(pending)
	errs := b.batches.run(ctx, len(batches), func(ctx context.Context, i int) error {
		return b.Receipts.Dispatch(ctx, batches[i].receipts...)
	})

	dispatched := 0
	var firstErr error
	for i, err := range errs {
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("thread %s: %w", batches[i].threadID, err)
			}
			continue
		}
		dispatched += len(batches[i].receipts)
	}

	return dispatched, firstErr
}
