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

package schema

import (
	"fmt"

	"github.com/yorkie-team/odm/pkg/errors"
)

var (
	// ErrInvalidOption is returned when a schema or a path is built with
	// malformed options.
	ErrInvalidOption = errors.InvalidArgument("invalid schema option").WithCode("ErrInvalidOption")
)

// ConfigurationError names the offending option and path of a malformed
// schema definition.
type ConfigurationError struct {
	Path    string
	Option  string
	Message string
}

// Error returns the message of the error.
func (e *ConfigurationError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("invalid option %q: %s", e.Option, e.Message)
	}
	return fmt.Sprintf("path %q: invalid option %q: %s", e.Path, e.Option, e.Message)
}

// Unwrap returns ErrInvalidOption.
func (e *ConfigurationError) Unwrap() error {
	return ErrInvalidOption
}

func optionError(path, option, format string, args ...interface{}) error {
	return &ConfigurationError{
		Path:    path,
		Option:  option,
		Message: fmt.Sprintf(format, args...),
	}
}
