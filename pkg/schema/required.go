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
)

// Phase selects which required rule applies when a value is inspected.
type Phase string

// Below are the phases of a save.
const (
	PhaseCreate Phase = "create"
	PhaseUpdate Phase = "update"
)

const (
	tagCreated = "created"
	tagUpdated = "updated"
)

// MessageFunc builds the message of a broken rule of the given path.
type MessageFunc func(p *Path, value interface{}) string

// Required tells in which phases a path must carry a value. The zero value
// is Never.
type Required struct {
	created        bool
	updated        bool
	createdMessage MessageFunc
	updatedMessage MessageFunc
}

// RequiredRule is the per-phase form of the required option. Created and
// Updated are each a bool, a message string or a MessageFunc.
type RequiredRule struct {
	Created interface{}
	Updated interface{}
}

// Never returns a rule that requires nothing.
func Never() Required {
	return Required{}
}

// Always returns a rule that requires a value in both phases. A nil fn uses
// the default message.
func Always(fn MessageFunc) Required {
	return Required{created: true, updated: true, createdMessage: fn, updatedMessage: fn}
}

// OnCreate returns a rule that requires a value when the document is created.
func OnCreate(fn MessageFunc) Required {
	return Required{created: true, createdMessage: fn}
}

// OnUpdate returns a rule that requires a value when the document is updated.
func OnUpdate(fn MessageFunc) Required {
	return Required{updated: true, updatedMessage: fn}
}

// Both returns a rule that requires a value in both phases with a message
// per phase.
func Both(created, updated MessageFunc) Required {
	return Required{created: true, updated: true, createdMessage: created, updatedMessage: updated}
}

// Fixed returns a MessageFunc that always returns msg.
func Fixed(msg string) MessageFunc {
	return func(*Path, interface{}) string {
		return msg
	}
}

// asMessageFunc returns the MessageFunc form of v if v is a message
// function or a fixed message.
func asMessageFunc(v interface{}) (MessageFunc, bool) {
	switch fn := v.(type) {
	case MessageFunc:
		return fn, fn != nil
	case func(*Path, interface{}) string:
		return fn, fn != nil
	case string:
		return Fixed(fn), true
	}
	return nil, false
}

// resolveRequired turns every accepted shape of the required option into a
// Required.
func resolveRequired(path string, v interface{}) (Required, error) {
	if v == nil {
		return Never(), nil
	}

	switch r := v.(type) {
	case Required:
		return r, nil
	case bool:
		if r {
			return Always(nil), nil
		}
		return Never(), nil
	case []string:
		return requiredFromTags(path, r)
	case []interface{}:
		tags := make([]string, 0, len(r))
		for _, tag := range r {
			s, ok := tag.(string)
			if !ok {
				return Required{}, optionError(path, "required", "phase %v is not a string", tag)
			}
			tags = append(tags, s)
		}
		return requiredFromTags(path, tags)
	case RequiredRule:
		return requiredFromRule(path, r.Created, r.Updated)
	case map[string]interface{}:
		for key := range r {
			if key != tagCreated && key != tagUpdated {
				return Required{}, optionError(path, "required", "unknown phase %q", key)
			}
		}
		return requiredFromRule(path, r[tagCreated], r[tagUpdated])
	}

	if fn, ok := asMessageFunc(v); ok {
		return Always(fn), nil
	}

	return Required{}, optionError(
		path, "required",
		"must be a bool, a message, a list of phases or a rule per phase, got %T", v,
	)
}

func requiredFromTags(path string, tags []string) (Required, error) {
	var r Required
	for _, tag := range tags {
		switch tag {
		case tagCreated:
			r.created = true
		case tagUpdated:
			r.updated = true
		default:
			return Required{}, optionError(path, "required", "unknown phase %q", tag)
		}
	}
	return r, nil
}

func requiredFromRule(path string, created, updated interface{}) (Required, error) {
	var r Required
	var err error

	if r.created, r.createdMessage, err = resolveFlag(path, "required."+tagCreated, created); err != nil {
		return Required{}, err
	}
	if r.updated, r.updatedMessage, err = resolveFlag(path, "required."+tagUpdated, updated); err != nil {
		return Required{}, err
	}
	return r, nil
}

// resolveFlag resolves an option that is either a bool or a message. A
// message turns the flag on.
func resolveFlag(path, option string, v interface{}) (bool, MessageFunc, error) {
	if v == nil {
		return false, nil, nil
	}
	if b, ok := v.(bool); ok {
		return b, nil, nil
	}
	if fn, ok := asMessageFunc(v); ok {
		return true, fn, nil
	}
	return false, nil, optionError(path, option, "must be a bool or a message, got %T", v)
}

// String returns the phases the rule applies to, e.g. "created,updated".
func (r Required) String() string {
	switch {
	case r.created && r.updated:
		return fmt.Sprintf("%s,%s", tagCreated, tagUpdated)
	case r.created:
		return tagCreated
	case r.updated:
		return tagUpdated
	default:
		return "never"
	}
}
