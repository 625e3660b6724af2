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

// Package errors provides errors that carry a status and a stable string
// code, so callers of Revisor can tell rejected edits apart without matching
// on messages.
package errors

import "fmt"

// StatusCode classifies an error. The values follow the canonical RPC codes
// so a transport collaborator can map them one to one.
type StatusCode int

const (
	// ErrCodeInvalidArgument means the request is malformed or asks for an
	// operation on content that does not support it.
	ErrCodeInvalidArgument StatusCode = 3

	// ErrCodeNotFound means the referenced entity does not exist.
	ErrCodeNotFound StatusCode = 5

	// ErrCodeAlreadyExists means the entity to be created already exists.
	ErrCodeAlreadyExists StatusCode = 6

	// ErrCodeResourceExhausted means a count limit was reached.
	ErrCodeResourceExhausted StatusCode = 8

	// ErrCodeFailedPrecondition means the system is not in a state that
	// allows the operation, such as a closed edit window.
	ErrCodeFailedPrecondition StatusCode = 9

	// ErrCodeAborted means the operation lost a race with a concurrent writer
	// and may be retried.
	ErrCodeAborted StatusCode = 10

	// ErrCodeInternal means an invariant of the store was broken.
	ErrCodeInternal StatusCode = 13

	// ErrCodeUnavailable means a dependency is temporarily unreachable.
	ErrCodeUnavailable StatusCode = 14
)

var statusNames = map[StatusCode]string{
	ErrCodeInvalidArgument:    "invalid_argument",
	ErrCodeNotFound:           "not_found",
	ErrCodeAlreadyExists:      "already_exists",
	ErrCodeResourceExhausted:  "resource_exhausted",
	ErrCodeFailedPrecondition: "failed_precondition",
	ErrCodeAborted:            "aborted",
	ErrCodeInternal:           "internal",
	ErrCodeUnavailable:        "unavailable",
}

// String returns the string representation of the status.
func (c StatusCode) String() string {
	if name, ok := statusNames[c]; ok {
		return name
	}
	return fmt.Sprintf("code_%d", int(c))
}

// IsClientError returns true if the status blames the request.
func (c StatusCode) IsClientError() bool {
	switch c {
	case ErrCodeInvalidArgument, ErrCodeNotFound, ErrCodeAlreadyExists,
		ErrCodeResourceExhausted, ErrCodeFailedPrecondition:
		return true
	default:
		return false
	}
}

// IsRetryable returns true if repeating the same request may succeed.
func (c StatusCode) IsRetryable() bool {
	return c == ErrCodeAborted || c == ErrCodeUnavailable
}
