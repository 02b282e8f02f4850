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

// Package schema describes documents: a Schema is a named, ordered set of
// Paths, each carrying the type, default, required and unique rules of one
// field.
package schema

import (
	"github.com/yorkie-team/odm/internal/validation"
	"github.com/yorkie-team/odm/pkg/types"
)

// DocumentIDPath is the name of the path holding the document id.
const DocumentIDPath = "_id"

// Field is the definition of a path: its name and options.
type Field struct {
	Name    string
	Options Options
}

// Schema is a named, ordered set of paths.
type Schema struct {
	name            string
	paths           []*Path
	pathsByName     map[string]*Path
	primaryPathName string
}

type config struct {
	documentID      bool
	primaryPathName string
}

// Option configures a Schema.
type Option func(*config)

// WithDocumentID adds the "_id" path of ObjectID type, required when the
// document is updated, and makes it the primary path.
func WithDocumentID() Option {
	return func(c *config) {
		c.documentID = true
	}
}

// WithPrimaryPath makes the given path hold the persisted identity of the
// document.
func WithPrimaryPath(name string) Option {
	return func(c *config) {
		c.primaryPathName = name
	}
}

// New creates a new instance of Schema. Paths are built eagerly, so any
// malformed option is reported here.
func New(name string, fields []Field, opts ...Option) (*Schema, error) {
	if !validation.IsIdentifier(name) {
		return nil, optionError("", "name", "%q is not a valid schema name", name)
	}

	c := &config{}
	for _, opt := range opts {
		opt(c)
	}

	s := &Schema{
		name:        name,
		pathsByName: make(map[string]*Path),
	}

	if c.documentID {
		if !hasField(fields, DocumentIDPath) {
			fields = append([]Field{{
				Name: DocumentIDPath,
				Options: Options{
					Type:     types.ObjectID,
					Required: OnUpdate(nil),
				},
			}}, fields...)
		}
		s.primaryPathName = DocumentIDPath
	}

	for _, field := range fields {
		if _, ok := s.pathsByName[field.Name]; ok {
			return nil, optionError(field.Name, "name", "duplicate path in schema %q", name)
		}

		p, err := NewPath(field.Name, field.Options)
		if err != nil {
			return nil, err
		}
		s.paths = append(s.paths, p)
		s.pathsByName[p.Name()] = p
	}

	if c.primaryPathName != "" {
		if _, ok := s.pathsByName[c.primaryPathName]; !ok {
			return nil, optionError(c.primaryPathName, "primary", "no such path in schema %q", name)
		}
		s.primaryPathName = c.primaryPathName
	}

	return s, nil
}

// MustNew is like New but panics on malformed options. It simplifies the
// declaration of schemas in package variables.
func MustNew(name string, fields []Field, opts ...Option) *Schema {
	s, err := New(name, fields, opts...)
	if err != nil {
		panic(err)
	}
	return s
}

func hasField(fields []Field, name string) bool {
	for _, field := range fields {
		if field.Name == name {
			return true
		}
	}
	return false
}

// Name returns the name of the schema. It is also the collection name.
func (s *Schema) Name() string {
	return s.name
}

// Paths returns the paths in declaration order.
func (s *Schema) Paths() []*Path {
	paths := make([]*Path, len(s.paths))
	copy(paths, s.paths)
	return paths
}

// Path returns the path of the given name.
func (s *Schema) Path(name string) (*Path, bool) {
	p, ok := s.pathsByName[name]
	return p, ok
}

// PrimaryPathName returns the name of the path holding the persisted
// identity of documents. It is empty if the schema has none.
func (s *Schema) PrimaryPathName() string {
	return s.primaryPathName
}

// HasPrimaryPath returns whether the schema has a primary path.
func (s *Schema) HasPrimaryPath() bool {
	return s.primaryPathName != ""
}

// UniquePaths returns the paths whose values must be unique.
func (s *Schema) UniquePaths() []*Path {
	var paths []*Path
	for _, p := range s.paths {
		if p.IsUnique() {
			paths = append(paths, p)
		}
	}
	return paths
}
