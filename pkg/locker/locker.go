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
 *
 * This file was written with reference to moby/locker.
 *   https://github.com/moby/locker
 */

/*
Package locker provides per-key mutual exclusion. Revisor takes one lock per
edited message so that validating an edit and applying it happen without
another local edit of the same message in between.

A lock entry is created on first use and removed when its last holder or
waiter leaves, so the set of entries stays proportional to the number of
messages being edited right now.
*/
package locker

import (
	"context"
	"errors"
	"sync"
)

// ErrNoSuchLock is returned when unlocking a key that is not locked.
var ErrNoSuchLock = errors.New("no such lock")

// Locker hands out a mutex per key.
type Locker[K comparable] struct {
	mu    sync.Mutex
	locks map[K]*entry
}

// entry is a mutex implemented with a one-slot channel so that waiting for
// it can be abandoned when a context is done.
type entry struct {
	ch chan struct{}

	// refs counts the holder and waiters. It is guarded by Locker.mu.
	refs int
}

// New creates a new Locker.
func New[K comparable]() *Locker[K] {
	return &Locker[K]{
		locks: make(map[K]*entry),
	}
}

// acquire registers the caller as a user of the key's entry.
func (l *Locker[K]) acquire(key K) *entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.locks[key]
	if !ok {
		e = &entry{ch: make(chan struct{}, 1)}
		l.locks[key] = e
	}
	e.refs++
	return e
}

// release unregisters a user and drops the entry once nobody uses it.
func (l *Locker[K]) release(key K, e *entry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e.refs--
	if e.refs == 0 {
		delete(l.locks, key)
	}
}

// Lock locks the key, blocking until it is available or ctx is done.
func (l *Locker[K]) Lock(ctx context.Context, key K) error {
	e := l.acquire(key)

	select {
	case e.ch <- struct{}{}:
		return nil
	case <-ctx.Done():
		l.release(key, e)
		return ctx.Err()
	}
}

// TryLock locks the key if it is not held and reports whether it did.
func (l *Locker[K]) TryLock(key K) bool {
	e := l.acquire(key)

	select {
	case e.ch <- struct{}{}:
		return true
	default:
		l.release(key, e)
		return false
	}
}

// Unlock unlocks the key.
func (l *Locker[K]) Unlock(key K) error {
	l.mu.Lock()
	e, ok := l.locks[key]
	l.mu.Unlock()
	if !ok {
		return ErrNoSuchLock
	}

	select {
	case <-e.ch:
	default:
		return ErrNoSuchLock
	}

	l.release(key, e)
	return nil
}

// Len returns the number of keys that are locked or waited on.
func (l *Locker[K]) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
