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

// Package types provides the types shared by the Revisor server, its storage
// backends and its command line tools.
package types

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
)

// idLength is the decoded length of thread and unique message ids. Both
// ObjectIDs and xids are 12 bytes long.
const idLength = 12

var (
	// ErrInvalidID is returned when the given ID is not a 12 byte hex string.
	ErrInvalidID = errors.New("invalid ID")
)

// ID identifies a thread or a message across every storage backend. It is
// the hex encoding of a 12 byte id.
type ID string

// IDFromBytes encodes the given raw id.
func IDFromBytes(raw []byte) ID {
	return ID(hex.EncodeToString(raw))
}

func (id ID) String() string {
	return string(id)
}

// IsEmpty reports whether the id was never assigned.
func (id ID) IsEmpty() bool {
	return id == ""
}

// Validate returns ErrInvalidID unless the id decodes to 12 bytes.
func (id ID) Validate() error {
	raw, err := hex.DecodeString(string(id))
	if err != nil {
		return fmt.Errorf("%q is not hex: %w", id, ErrInvalidID)
	}
	if len(raw) != idLength {
		return fmt.Errorf("%q has %d bytes: %w", id, len(raw), ErrInvalidID)
	}

	return nil
}

// MessageKey returns the key of the message sent at timestamp in this
// thread. Edits reference their target by this pair.
func (id ID) MessageKey(timestamp int64) string {
	return string(id) + "/" + strconv.FormatInt(timestamp, 10)
}
