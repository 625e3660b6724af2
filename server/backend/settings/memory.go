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

package settings

import (
	"context"
	"sync"
)

// MemoryStore is a Store held in process memory.
type MemoryStore struct {
	mu    sync.RWMutex
	flags map[string]bool
}

// NewMemoryStore creates a new instance of MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{flags: make(map[string]bool)}
}

// Flag returns the flag of the user.
func (s *MemoryStore) Flag(_ context.Context, userID string, key Key) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.flags[flagKey(userID, key)], nil
}

// SetFlag sets the flag of the user.
func (s *MemoryStore) SetFlag(_ context.Context, userID string, key Key, value bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if value {
		s.flags[flagKey(userID, key)] = true
	} else {
		delete(s.flags, flagKey(userID, key))
	}
	return nil
}

// Close does nothing.
func (s *MemoryStore) Close() error {
	return nil
}

func flagKey(userID string, key Key) string {
	return userID + ":" + string(key)
}
