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

package errors

import (
	"errors"
)

// StatusError is an error that carries a status and a string code.
type StatusError interface {
	error
	Status() StatusCode
	Code() string
	WithCode(code string) StatusError
}

type statusError struct {
	err    error
	status StatusCode
	code   string
}

func (e statusError) Error() string {
	return e.err.Error()
}

func (e statusError) Status() StatusCode {
	return e.status
}

func (e statusError) Code() string {
	return e.code
}

func (e statusError) Unwrap() error {
	return e.err
}

// WithCode returns a copy of the error with the given string code. The copy
// keeps the identity of the underlying error, so errors.Is matches both.
func (e statusError) WithCode(code string) StatusError {
	e.code = code
	return e
}

func newStatusError(message string, status StatusCode) StatusError {
	return statusError{err: errors.New(message), status: status}
}

// NotFound creates a new "not found" error.
func NotFound(message string) StatusError {
	return newStatusError(message, ErrCodeNotFound)
}

// InvalidArgument creates a new "invalid argument" error.
func InvalidArgument(message string) StatusError {
	return newStatusError(message, ErrCodeInvalidArgument)
}

// AlreadyExists creates a new "already exists" error.
func AlreadyExists(message string) StatusError {
	return newStatusError(message, ErrCodeAlreadyExists)
}

// ResourceExhausted creates a new "resource exhausted" error.
func ResourceExhausted(message string) StatusError {
	return newStatusError(message, ErrCodeResourceExhausted)
}

// FailedPrecond creates a new "failed precondition" error.
func FailedPrecond(message string) StatusError {
	return newStatusError(message, ErrCodeFailedPrecondition)
}

// Aborted creates a new "aborted" error.
func Aborted(message string) StatusError {
	return newStatusError(message, ErrCodeAborted)
}

// Internal creates a new "internal" error.
func Internal(message string) StatusError {
	return newStatusError(message, ErrCodeInternal)
}

// Unavailable creates a new "unavailable" error.
func Unavailable(message string) StatusError {
	return newStatusError(message, ErrCodeUnavailable)
}

// StatusOf returns the status of the first StatusError in the chain of err,
// or 0 if there is none.
func StatusOf(err error) StatusCode {
	var statusErr StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Status()
	}
	return 0
}

// CodeOf returns the string code of the first StatusError in the chain of
// err, or "" if there is none.
func CodeOf(err error) string {
	var statusErr StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code()
	}
	return ""
}

// IsStatus checks if the given error has the specified status.
func IsStatus(err error, code StatusCode) bool {
	return StatusOf(err) == code
}

// IsClientError checks if the error blames the request.
func IsClientError(err error) bool {
	return StatusOf(err).IsClientError()
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// New returns an error without status.
func New(message string) error {
	return errors.New(message)
}
