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
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/yorkie-team/odm/pkg/types"
)

// Definition is the YAML form of a schema.
//
//	name: user
//	document_id: true
//	paths:
//	  - name: email
//	    display_name: E-mail
//	    required: [created]
//	    unique: true
//	    rules: email
//	  - name: tags
//	    type: [String]
type Definition struct {
	Name       string           `yaml:"name"`
	DocumentID bool             `yaml:"document_id"`
	Primary    string           `yaml:"primary"`
	Paths      []PathDefinition `yaml:"paths"`
}

// PathDefinition is the YAML form of a path. Functions can't be written in
// YAML, so messages are given as strings.
type PathDefinition struct {
	Name         string      `yaml:"name"`
	DisplayName  string      `yaml:"display_name"`
	Type         interface{} `yaml:"type"`
	DefaultValue interface{} `yaml:"default_value"`
	Unique       interface{} `yaml:"unique"`
	Projected    *bool       `yaml:"projected"`
	Required     interface{} `yaml:"required"`
	Rules        string      `yaml:"rules"`
}

// ParseDefinition builds a Schema from its YAML definition.
func ParseDefinition(data []byte) (*Schema, error) {
	def := &Definition{}
	if err := yaml.Unmarshal(data, def); err != nil {
		return nil, fmt.Errorf("unmarshal schema definition: %w", err)
	}
	return def.Build()
}

// LoadDefinition reads the YAML definition at the given path and builds a
// Schema from it.
func LoadDefinition(path string) (*Schema, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read schema definition: %w", err)
	}
	return ParseDefinition(data)
}

// Build creates the Schema of the definition.
func (d *Definition) Build() (*Schema, error) {
	var opts []Option
	if d.DocumentID {
		opts = append(opts, WithDocumentID())
	}
	if d.Primary != "" {
		opts = append(opts, WithPrimaryPath(d.Primary))
	}

	fields := make([]Field, 0, len(d.Paths))
	for _, p := range d.Paths {
		options, err := p.options()
		if err != nil {
			return nil, err
		}
		fields = append(fields, Field{Name: p.Name, Options: options})
	}

	return New(d.Name, fields, opts...)
}

func (p *PathDefinition) options() (Options, error) {
	typ, err := descriptorOf(p.Type)
	if err != nil {
		return Options{}, optionError(p.Name, "type", "%s", err.Error())
	}

	defaultValue := p.DefaultValue
	if defaultValue != nil && typ != nil {
		if defaultValue, err = decodeDefault(defaultValue, typ); err != nil {
			return Options{}, optionError(p.Name, "default_value", "%s", err.Error())
		}
	}

	return Options{
		DisplayName:  p.DisplayName,
		Type:         typ,
		DefaultValue: defaultValue,
		Unique:       p.Unique,
		Projected:    p.Projected,
		Required:     p.Required,
		Rules:        p.Rules,
	}, nil
}

// decodeDefault turns the date literals of a default into dates, since YAML
// has no syntax for them. Every other value is kept as decoded and checked
// against the type as it is.
func decodeDefault(v interface{}, d types.Descriptor) (interface{}, error) {
	switch t := d.(type) {
	case types.Atomic:
		if _, ok := v.(string); ok && t.Kind == types.KindDate {
			return types.ConvertTo(v, t)
		}
	case types.ListOf:
		elems, ok := types.AsSequence(v)
		if !ok {
			return v, nil
		}

		decoded := make([]interface{}, len(elems))
		for i, elem := range elems {
			e, err := decodeDefault(elem, t.Elem)
			if err != nil {
				return nil, err
			}
			decoded[i] = e
		}
		return decoded, nil
	case types.RecordOf:
		entries, ok := types.AsMapping(v)
		if !ok {
			return v, nil
		}

		decoded := make(map[string]interface{}, len(entries))
		for key, entry := range entries {
			field, ok := t.Fields[key]
			if !ok {
				decoded[key] = entry
				continue
			}

			e, err := decodeDefault(entry, field)
			if err != nil {
				return nil, err
			}
			decoded[key] = e
		}
		return decoded, nil
	}
	return v, nil
}

// descriptorOf reads a type written either as text, "[Integer]", or as YAML
// structure, a one-element sequence or a mapping.
func descriptorOf(v interface{}) (types.Descriptor, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case string:
		return types.Parse(t)
	case []interface{}:
		if len(t) != 1 {
			return nil, fmt.Errorf("a list type needs exactly one element type, got %d", len(t))
		}
		elem, err := descriptorOf(t[0])
		if err != nil {
			return nil, err
		}
		if elem == nil {
			return nil, fmt.Errorf("missing element type")
		}
		return types.List(elem), nil
	case map[string]interface{}:
		fields := make(map[string]types.Descriptor, len(t))
		for key, value := range t {
			field, err := descriptorOf(value)
			if err != nil {
				return nil, fmt.Errorf("field %s: %w", key, err)
			}
			if field == nil {
				return nil, fmt.Errorf("field %s: missing type", key)
			}
			fields[key] = field
		}
		return types.Record(fields), nil
	}
	return nil, fmt.Errorf("unexpected type definition %v", v)
}
