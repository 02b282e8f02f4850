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

import "fmt"

// StatusCode classifies errors. The values follow the gRPC status codes so
// they can be mapped onto transports without translation.
type StatusCode int

const (
	// ErrCodeInvalidArgument indicates that the caller supplied invalid input.
	ErrCodeInvalidArgument StatusCode = 3

	// ErrCodeDeadlineExceeded indicates that an operation did not finish in time.
	ErrCodeDeadlineExceeded StatusCode = 4

	// ErrCodeNotFound indicates that a requested entity was not found.
	ErrCodeNotFound StatusCode = 5

	// ErrCodeAlreadyExists indicates that an entity the caller attempted to
	// create already exists.
	ErrCodeAlreadyExists StatusCode = 6

	// ErrCodeFailedPrecondition indicates that the operation was rejected
	// because the system is not in a state required for its execution.
	ErrCodeFailedPrecondition StatusCode = 9

	// ErrCodeInternal indicates that an invariant of the system is broken.
	ErrCodeInternal StatusCode = 13

	// ErrCodeUnavailable indicates that the storage backend is unavailable.
	ErrCodeUnavailable StatusCode = 14
)

// String returns the string representation of the status.
func (c StatusCode) String() string {
	switch c {
	case ErrCodeInvalidArgument:
		return "invalid_argument"
	case ErrCodeDeadlineExceeded:
		return "deadline_exceeded"
	case ErrCodeNotFound:
		return "not_found"
	case ErrCodeAlreadyExists:
		return "already_exists"
	case ErrCodeFailedPrecondition:
		return "failed_precondition"
	case ErrCodeInternal:
		return "internal"
	case ErrCodeUnavailable:
		return "unavailable"
	default:
		return fmt.Sprintf("code_%d", int(c))
	}
}

// IsClientError returns true if the status is caused by the caller.
func (c StatusCode) IsClientError() bool {
	switch c {
	case ErrCodeInvalidArgument, ErrCodeNotFound, ErrCodeAlreadyExists, ErrCodeFailedPrecondition:
		return true
	default:
		return false
	}
}
