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
	"github.com/yorkie-team/odm/pkg/types"
)

// IsEmpty returns whether the value counts as missing: absent or the empty
// string.
func IsEmpty(value interface{}) bool {
	if value == nil {
		return true
	}
	s, ok := value.(string)
	return ok && s == ""
}

// InspectErrors returns the messages of the given raw value of the path in
// the given phase. The rules are applied in order and the first one that
// fires decides the result:
//
//  1. an empty value required in the phase yields the required message.
//  2. any other empty value is valid.
//  3. a value that can't be converted yields the type message.
//  4. otherwise the messages of the validator on the sanitized value.
func InspectErrors(p *Path, raw interface{}, phase Phase) []string {
	if IsEmpty(raw) {
		if phase == PhaseCreate && p.IsRequiredWhenCreated() {
			return []string{p.RequiredMessage(phase, raw)}
		}
		if phase == PhaseUpdate && p.IsRequiredWhenUpdated() {
			return []string{p.RequiredMessage(phase, raw)}
		}
		return []string{}
	}

	value, err := types.ConvertTo(raw, p.Type())
	if err != nil {
		return []string{p.TypeMessage(raw)}
	}

	messages := p.Validate(p.Sanitize(value))
	if messages == nil {
		return []string{}
	}
	return messages
}

// FormattedValue returns the value of the path as it is persisted: the raw
// value converted to the type and sanitized. A conversion failure means the
// field must be left out of the payload.
func FormattedValue(p *Path, raw interface{}) (interface{}, error) {
	value, err := types.ConvertTo(raw, p.Type())
	if err != nil {
		return nil, err
	}
	return p.Sanitize(value), nil
}
