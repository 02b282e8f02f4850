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

// Package errors provides status-coded errors shared by the ODM packages. Each
// package declares its sentinel errors with one of the constructors below and
// wraps them with fmt.Errorf so callers can classify failures with errors.Is
// or StatusOf.
package errors

import (
	"errors"
)

// StatusError is an error that carries a status and an optional string code.
type StatusError interface {
	error
	Status() StatusCode
	Code() string
	WithCode(code string) StatusError
}

type errorWithStatus struct {
	err    error
	status StatusCode
	code   string
}

// Error returns the error message.
func (e errorWithStatus) Error() string {
	return e.err.Error()
}

// Status returns the status of the error.
func (e errorWithStatus) Status() StatusCode {
	return e.status
}

// Code returns the string code of the error, e.g. "ErrDuplicateKey".
func (e errorWithStatus) Code() string {
	return e.code
}

// Unwrap returns the underlying error.
func (e errorWithStatus) Unwrap() error {
	return e.err
}

// WithCode returns a copy of the error with the given code.
func (e errorWithStatus) WithCode(code string) StatusError {
	return errorWithStatus{
		err:    e.err,
		status: e.status,
		code:   code,
	}
}

func newErrorWithStatus(message string, status StatusCode) StatusError {
	return errorWithStatus{
		err:    errors.New(message),
		status: status,
	}
}

// InvalidArgument creates an error for malformed input: bad schema options,
// values that cannot be coerced or documents that fail validation.
func InvalidArgument(message string) StatusError {
	return newErrorWithStatus(message, ErrCodeInvalidArgument)
}

// NotFound creates an error for a document or collection that does not exist.
func NotFound(message string) StatusError {
	return newErrorWithStatus(message, ErrCodeNotFound)
}

// AlreadyExists creates an error for a write that collides with existing data.
func AlreadyExists(message string) StatusError {
	return newErrorWithStatus(message, ErrCodeAlreadyExists)
}

// FailedPrecond creates an error for an operation issued in the wrong state.
func FailedPrecond(message string) StatusError {
	return newErrorWithStatus(message, ErrCodeFailedPrecondition)
}

// DeadlineExceeded creates an error for an operation that ran out of time.
func DeadlineExceeded(message string) StatusError {
	return newErrorWithStatus(message, ErrCodeDeadlineExceeded)
}

// Internal creates an error for broken invariants.
func Internal(message string) StatusError {
	return newErrorWithStatus(message, ErrCodeInternal)
}

// Unavailable creates an error for a storage backend that cannot be reached.
func Unavailable(message string) StatusError {
	return newErrorWithStatus(message, ErrCodeUnavailable)
}

// StatusOf returns the status of the first StatusError in the chain of err,
// or 0 if there is none.
func StatusOf(err error) StatusCode {
	if err == nil {
		return 0
	}

	var statusErr StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Status()
	}

	return 0
}

// CodeOf returns the code of the first StatusError in the chain of err.
func CodeOf(err error) string {
	var statusErr StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code()
	}

	return ""
}

// IsStatus reports whether err carries the given status.
func IsStatus(err error, status StatusCode) bool {
	return StatusOf(err) == status
}

// Is is a shortcut of the standard errors.Is.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As is a shortcut of the standard errors.As.
func As(err error, target any) bool {
	return errors.As(err, target)
}
