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
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCode_String(t *testing.T) {
	tests := []struct {
		name string
		code StatusCode
		want string
	}{
		{"InvalidArgument", ErrCodeInvalidArgument, "invalid_argument"},
		{"DeadlineExceeded", ErrCodeDeadlineExceeded, "deadline_exceeded"},
		{"NotFound", ErrCodeNotFound, "not_found"},
		{"AlreadyExists", ErrCodeAlreadyExists, "already_exists"},
		{"FailedPrecondition", ErrCodeFailedPrecondition, "failed_precondition"},
		{"Internal", ErrCodeInternal, "internal"},
		{"Unavailable", ErrCodeUnavailable, "unavailable"},
		{"Unknown", StatusCode(999), "code_999"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.code.String())
		})
	}
}

func TestStatusOf(t *testing.T) {
	t.Run("direct", func(t *testing.T) {
		err := NotFound("document not found").WithCode("ErrDocumentNotFound")
		assert.Equal(t, ErrCodeNotFound, StatusOf(err))
		assert.Equal(t, "ErrDocumentNotFound", CodeOf(err))
		assert.True(t, err.Status().IsClientError())
	})

	t.Run("wrapped", func(t *testing.T) {
		base := AlreadyExists("duplicate key")
		wrapped := fmt.Errorf("insert: %w", base)
		assert.True(t, IsStatus(wrapped, ErrCodeAlreadyExists))
		assert.True(t, errors.Is(wrapped, base))
	})

	t.Run("standard and nil", func(t *testing.T) {
		assert.Equal(t, StatusCode(0), StatusOf(errors.New("plain")))
		assert.Equal(t, StatusCode(0), StatusOf(nil))
		assert.Equal(t, "", CodeOf(errors.New("plain")))
	})

	t.Run("server side statuses", func(t *testing.T) {
		assert.False(t, Internal("boom").Status().IsClientError())
		assert.False(t, Unavailable("down").Status().IsClientError())
		assert.False(t, DeadlineExceeded("slow").Status().IsClientError())
	})
}

func TestMetadata(t *testing.T) {
	t.Run("attach and read", func(t *testing.T) {
		base := Unavailable("storage unavailable")
		err := WithMetadata(base, map[string]string{"collection": "users"})

		assert.Equal(t, "storage unavailable [collection=users]", err.Error())
		assert.Equal(t, map[string]string{"collection": "users"}, Metadata(err))
		assert.True(t, errors.Is(err, base))
		assert.Equal(t, ErrCodeUnavailable, StatusOf(err))
	})

	t.Run("merge", func(t *testing.T) {
		err := WithMetadata(errors.New("e"), map[string]string{"collection": "users"})
		err = WithMetadata(err, map[string]string{"field": "email"})

		assert.Equal(t, "e [collection=users,field=email]", err.Error())
	})

	t.Run("nil and empty", func(t *testing.T) {
		assert.Nil(t, WithMetadata(nil, map[string]string{"a": "b"}))

		plain := errors.New("plain")
		assert.Equal(t, plain, WithMetadata(plain, nil))
		assert.Nil(t, Metadata(plain))
	})
}
