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
	"sort"
	"strings"
)

// MetadataError attaches key-value metadata, such as the collection or field
// involved, to an error.
type MetadataError struct {
	err      error
	metadata map[string]string
}

// Error returns the message of the wrapped error followed by the metadata.
func (e MetadataError) Error() string {
	keys := make([]string, 0, len(e.metadata))
	for key := range e.metadata {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	sb := strings.Builder{}
	for _, key := range keys {
		if sb.Len() > 0 {
			sb.WriteString(",")
		}
		sb.WriteString(key)
		sb.WriteString("=")
		sb.WriteString(e.metadata[key])
	}

	return e.err.Error() + " [" + sb.String() + "]"
}

// Unwrap returns the wrapped error.
func (e MetadataError) Unwrap() error {
	return e.err
}

// WithMetadata wraps err with the given metadata. Metadata already attached
// to err is merged, with the new values taking precedence.
func WithMetadata(err error, metadata map[string]string) error {
	if err == nil {
		return nil
	}
	if len(metadata) == 0 {
		return err
	}

	merged := make(map[string]string)
	if metaErr, ok := err.(MetadataError); ok {
		for k, v := range metaErr.metadata {
			merged[k] = v
		}
		err = metaErr.err
	}
	for k, v := range metadata {
		merged[k] = v
	}

	return MetadataError{err: err, metadata: merged}
}

// Metadata returns a copy of the metadata attached to err, or nil.
func Metadata(err error) map[string]string {
	var metaErr MetadataError
	if !errors.As(err, &metaErr) {
		return nil
	}

	result := make(map[string]string, len(metaErr.metadata))
	for k, v := range metaErr.metadata {
		result[k] = v
	}
	return result
}
