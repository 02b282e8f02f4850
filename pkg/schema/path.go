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

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yorkie-team/odm/internal/validation"
	"github.com/yorkie-team/odm/pkg/types"
)

// SanitizeFunc rewrites a coerced value before it is validated and stored.
type SanitizeFunc func(value interface{}) interface{}

// ValidateFunc returns the messages of the rules the value breaks. A nil or
// empty result means the value is valid.
type ValidateFunc func(value interface{}) []string

// Options configures a path.
type Options struct {
	// DisplayName is used in messages. It defaults to the name of the path.
	DisplayName string

	// Type defaults to types.String.
	Type types.Descriptor

	// DefaultValue fills the insert payload when the value is empty. It must
	// be valid under Type.
	DefaultValue interface{}

	// Unique is a bool, a message string or a MessageFunc.
	Unique interface{}

	// Projected defaults to true.
	Projected *bool

	// Required is a bool, a message string, a MessageFunc, a list of phases
	// ("created", "updated"), a RequiredRule or a Required.
	Required interface{}

	// Sanitize is a SanitizeFunc.
	Sanitize interface{}

	// Validate is a ValidateFunc, or a function of the value returning a
	// single message or an error.
	Validate interface{}

	// Rules are validator tags such as "email,max=64".
	Rules string
}

// Bool returns a pointer to b.
func Bool(b bool) *bool {
	return &b
}

// Path describes one field of a schema.
type Path struct {
	name        string
	displayName string
	typ         types.Descriptor

	defaultValue interface{}
	hasDefault   bool

	unique        bool
	uniqueMessage MessageFunc

	projected bool
	required  Required

	sanitize SanitizeFunc
	validate ValidateFunc
	rules    string
}

// NewPath creates a new instance of Path. Every option is checked for its
// shape, so a malformed option fails here rather than when a value is
// inspected.
func NewPath(name string, opts Options) (*Path, error) {
	if !validation.IsIdentifier(name) {
		return nil, optionError(name, "name", "%q is not a valid path name", name)
	}

	p := &Path{
		name:        name,
		displayName: name,
		typ:         types.String,
		projected:   true,
		sanitize:    identity,
	}

	if opts.DisplayName != "" {
		p.displayName = opts.DisplayName
	}

	if opts.Type != nil {
		if !types.IsValidType(opts.Type) {
			return nil, optionError(name, "type", "%s is not a valid type", opts.Type)
		}
		p.typ = opts.Type
	}

	if opts.DefaultValue != nil {
		if !types.IsValidValueAs(opts.DefaultValue, p.typ) {
			return nil, optionError(name, "default_value", "%v is not a valid %s", opts.DefaultValue, p.typ)
		}
		p.defaultValue = opts.DefaultValue
		p.hasDefault = true
	}

	var err error
	if p.unique, p.uniqueMessage, err = resolveFlag(name, "unique", opts.Unique); err != nil {
		return nil, err
	}

	if opts.Projected != nil {
		p.projected = *opts.Projected
	}

	if p.required, err = resolveRequired(name, opts.Required); err != nil {
		return nil, err
	}

	if p.sanitize, err = resolveSanitize(name, opts.Sanitize); err != nil {
		return nil, err
	}

	if p.validate, err = resolveValidate(name, opts.Validate); err != nil {
		return nil, err
	}

	if opts.Rules != "" {
		sample, ok := ruleSample(p.typ)
		if !ok {
			return nil, optionError(name, "rules", "rules are not supported for type %s", p.typ)
		}
		if err := validation.CheckRules(sample, opts.Rules); err != nil {
			return nil, optionError(name, "rules", "%s", err.Error())
		}
		p.rules = opts.Rules
	}

	return p, nil
}

// ruleSample returns a value of the Go type the rules of a path of the given
// type are evaluated on. Tag rules read booleans, dates and records in ways
// that don't match their types, so those types take no rules.
func ruleSample(d types.Descriptor) (interface{}, bool) {
	switch t := d.(type) {
	case types.Atomic:
		switch t.Kind {
		case types.KindString, types.KindUUID:
			return "", true
		case types.KindInteger:
			return int64(0), true
		case types.KindObjectID:
			return primitive.ObjectID{}, true
		}
	case types.ListOf:
		return []interface{}{}, true
	}
	return nil, false
}

func identity(value interface{}) interface{} {
	return value
}

func resolveSanitize(path string, v interface{}) (SanitizeFunc, error) {
	switch fn := v.(type) {
	case nil:
		return identity, nil
	case SanitizeFunc:
		if fn != nil {
			return fn, nil
		}
		return identity, nil
	case func(interface{}) interface{}:
		if fn != nil {
			return fn, nil
		}
		return identity, nil
	}
	return nil, optionError(path, "sanitize", "must be a function of the value, got %T", v)
}

func resolveValidate(path string, v interface{}) (ValidateFunc, error) {
	switch fn := v.(type) {
	case nil:
		return nil, nil
	case ValidateFunc:
		return fn, nil
	case func(interface{}) []string:
		return fn, nil
	case func(interface{}) string:
		return func(value interface{}) []string {
			if msg := fn(value); msg != "" {
				return []string{msg}
			}
			return nil
		}, nil
	case func(interface{}) error:
		return func(value interface{}) []string {
			if err := fn(value); err != nil {
				return []string{err.Error()}
			}
			return nil
		}, nil
	}
	return nil, optionError(path, "validate", "must be a function of the value returning messages, got %T", v)
}

// Name returns the name of the path.
func (p *Path) Name() string {
	return p.name
}

// DisplayName returns the name used in messages.
func (p *Path) DisplayName() string {
	return p.displayName
}

// Type returns the type of the path.
func (p *Path) Type() types.Descriptor {
	return p.typ
}

// DefaultValue returns the default value and whether the path has one.
func (p *Path) DefaultValue() (interface{}, bool) {
	return p.defaultValue, p.hasDefault
}

// IsUnique returns whether the value must be unique in the collection.
func (p *Path) IsUnique() bool {
	return p.unique
}

// IsProjected returns whether the value is exposed by projections.
func (p *Path) IsProjected() bool {
	return p.projected
}

// Required returns the required rule of the path.
func (p *Path) Required() Required {
	return p.required
}

// IsRequiredWhenCreated returns whether a value is needed on create.
func (p *Path) IsRequiredWhenCreated() bool {
	return p.required.created
}

// IsRequiredWhenUpdated returns whether a value is needed on update.
func (p *Path) IsRequiredWhenUpdated() bool {
	return p.required.updated
}

// RequiredMessage returns the message of a missing value in the given phase.
func (p *Path) RequiredMessage(phase Phase, value interface{}) string {
	fn := p.required.createdMessage
	if phase == PhaseUpdate {
		fn = p.required.updatedMessage
	}
	if fn != nil {
		return fn(p, value)
	}
	return fmt.Sprintf("The %s is required.", p.displayName)
}

// UniqueMessage returns the message of a value that is already taken.
func (p *Path) UniqueMessage(value interface{}) string {
	if p.uniqueMessage != nil {
		return p.uniqueMessage(p, value)
	}
	return fmt.Sprintf("The %s, \"%v\", has already been taken.", p.displayName, value)
}

// TypeMessage returns the message of a value that can't be converted to the
// type of the path.
func (p *Path) TypeMessage(value interface{}) string {
	return fmt.Sprintf("The %s, \"%v\", is invalid.", p.displayName, value)
}

// Sanitize applies the sanitizer of the path.
func (p *Path) Sanitize(value interface{}) interface{} {
	return p.sanitize(value)
}

// Validate returns the messages of every rule the value breaks: tag rules
// first, then the custom validator. Each call builds a new slice.
func (p *Path) Validate(value interface{}) []string {
	var messages []string

	if p.rules != "" {
		if err := validation.ValidateValue(value, p.rules); err != nil {
			messages = append(messages, p.ruleMessage(err))
		}
	}

	if p.validate != nil {
		messages = append(messages, p.validate(value)...)
	}

	return messages
}

func (p *Path) ruleMessage(err error) string {
	if violation, ok := err.(validation.Violation); ok && violation.Description != "" {
		return fmt.Sprintf("The %s %s.", p.displayName, violation.Description)
	}
	return err.Error()
}
