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

package types

import (
	"fmt"

	"github.com/yorkie-team/odm/pkg/errors"
)

// ErrConversion is returned when a value cannot be coerced to a type.
var ErrConversion = errors.InvalidArgument("type conversion failed").WithCode("ErrTypeConversion")

// ConversionError describes a value that could not be coerced to a type.
type ConversionError struct {
	Value interface{}
	Type  Descriptor
}

// Error returns the error message.
func (e *ConversionError) Error() string {
	return fmt.Sprintf(`"%v" couldn't be converted to %s.`, e.Value, descriptorString(e.Type))
}

// Unwrap returns ErrConversion.
func (e *ConversionError) Unwrap() error {
	return ErrConversion
}

func conversionError(value interface{}, d Descriptor) error {
	return &ConversionError{Value: value, Type: d}
}
