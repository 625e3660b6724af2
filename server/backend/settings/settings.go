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

// Package settings stores per-user flags such as one-shot UI warnings.
package settings

import (
	"context"
)

// Key identifies a flag.
type Key string

const (
	// KeyEditSendWarningShown is set once the user has seen the warning shown
	// before their first outgoing edit.
	KeyEditSendWarningShown Key = "edit_send_warning_shown"
)

// Store keeps boolean flags per user. Unset flags read as false.
type Store interface {
	// Flag returns the flag of the user.
	Flag(ctx context.Context, userID string, key Key) (bool, error)

	// SetFlag sets the flag of the user.
	SetFlag(ctx context.Context, userID string, key Key, value bool) error

	// Close closes the store.
	Close() error
}
