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

package model

import (
	"fmt"
	"sort"
	"strings"

	"github.com/yorkie-team/odm/pkg/errors"
)

var (
	// ErrValidation is returned when a save is rejected because fields have
	// error messages.
	ErrValidation = errors.InvalidArgument("validation failed").WithCode("ErrValidation")

	// ErrErrorsNotInspected is returned when errors are written before the
	// first inspection.
	ErrErrorsNotInspected = errors.FailedPrecond("errors are not inspected yet").WithCode("ErrErrorsNotInspected")

	// ErrNoPrimaryPath is returned when an operation needs the primary path
	// of a schema that has none.
	ErrNoPrimaryPath = errors.FailedPrecond("schema has no primary path").WithCode("ErrNoPrimaryPath")

	// ErrNotPersisted is returned when a model without an id is deleted.
	ErrNotPersisted = errors.FailedPrecond("model is not persisted").WithCode("ErrNotPersisted")

	// ErrModelInvalidated is returned when an invalidated model is written,
	// saved or deleted. A model is invalidated when a listener outlives its
	// timeout.
	ErrModelInvalidated = errors.FailedPrecond("model is invalidated").WithCode("ErrModelInvalidated")

	// ErrPrimaryNotGenerated is returned when a model without a primary value
	// is inserted and no value can be generated for the type of the path.
	ErrPrimaryNotGenerated = errors.FailedPrecond("primary value can't be generated").WithCode("ErrPrimaryNotGenerated")
)

// ValidationError holds the messages of every field that failed. Fields
// without messages are left out.
type ValidationError struct {
	Fields map[string][]string
}

// Error returns the messages sorted by field.
func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", name, strings.Join(e.Fields[name], " ")))
	}
	return fmt.Sprintf("%s: %s", ErrValidation.Error(), strings.Join(parts, "; "))
}

// Unwrap returns ErrValidation.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// failedFields returns the fields with at least one message, or nil if
// there is none.
func failedFields(errs map[string][]string) map[string][]string {
	var fields map[string][]string
	for name, messages := range errs {
		if len(messages) == 0 {
			continue
		}
		if fields == nil {
			fields = make(map[string][]string)
		}
		fields[name] = append([]string(nil), messages...)
	}
	return fields
}
