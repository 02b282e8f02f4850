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

package schema_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yorkie-team/odm/pkg/errors"
	"github.com/yorkie-team/odm/pkg/schema"
	"github.com/yorkie-team/odm/pkg/types"
)

func assertOptionError(t *testing.T, err error, option string) {
	t.Helper()

	assert.ErrorIs(t, err, schema.ErrInvalidOption)
	var cfgErr *schema.ConfigurationError
	if assert.True(t, errors.As(err, &cfgErr)) {
		assert.Equal(t, option, cfgErr.Option)
	}
}

func TestNewPath(t *testing.T) {
	t.Run("default options test", func(t *testing.T) {
		p, err := schema.NewPath("email", schema.Options{})
		require.NoError(t, err)

		assert.Equal(t, "email", p.Name())
		assert.Equal(t, "email", p.DisplayName())
		assert.Equal(t, types.String, p.Type())
		assert.True(t, p.IsProjected())
		assert.False(t, p.IsUnique())
		assert.False(t, p.IsRequiredWhenCreated())
		assert.False(t, p.IsRequiredWhenUpdated())
		_, ok := p.DefaultValue()
		assert.False(t, ok)
		assert.Equal(t, "value", p.Sanitize("value"))
		assert.Empty(t, p.Validate("value"))
	})

	t.Run("required shapes test", func(t *testing.T) {
		msg := schema.MessageFunc(func(p *schema.Path, v interface{}) string {
			return "need " + p.Name()
		})

		tests := []struct {
			name     string
			required interface{}
			created  bool
			updated  bool
		}{
			{"nil", nil, false, false},
			{"true", true, true, true},
			{"false", false, false, false},
			{"message func", msg, true, true},
			{"plain func", func(*schema.Path, interface{}) string { return "x" }, true, true},
			{"message", "need it", true, true},
			{"created tag", []string{"created"}, true, false},
			{"both tags", []interface{}{"created", "updated"}, true, true},
			{"rule", schema.RequiredRule{Updated: msg}, false, true},
			{"map", map[string]interface{}{"created": true, "updated": false}, true, false},
			{"variant", schema.OnUpdate(nil), false, true},
			{"both variant", schema.Both(msg, nil), true, true},
		}

		for _, test := range tests {
			t.Run(test.name, func(t *testing.T) {
				p, err := schema.NewPath("email", schema.Options{Required: test.required})
				require.NoError(t, err)
				assert.Equal(t, test.created, p.IsRequiredWhenCreated())
				assert.Equal(t, test.updated, p.IsRequiredWhenUpdated())
			})
		}
	})

	t.Run("per phase message test", func(t *testing.T) {
		p, err := schema.NewPath("email", schema.Options{
			DisplayName: "E-mail",
			Required: schema.RequiredRule{
				Created: true,
				Updated: schema.MessageFunc(func(p *schema.Path, v interface{}) string {
					return p.DisplayName() + " can't be removed."
				}),
			},
		})
		require.NoError(t, err)

		assert.Equal(t, "The E-mail is required.", p.RequiredMessage(schema.PhaseCreate, nil))
		assert.Equal(t, "E-mail can't be removed.", p.RequiredMessage(schema.PhaseUpdate, nil))
	})

	t.Run("malformed options test", func(t *testing.T) {
		tests := []struct {
			name   string
			opts   schema.Options
			option string
		}{
			{"required number", schema.Options{Required: 1}, "required"},
			{"required tag", schema.Options{Required: []string{"deleted"}}, "required"},
			{"required tag type", schema.Options{Required: []interface{}{1}}, "required"},
			{"required map key", schema.Options{Required: map[string]interface{}{"removed": true}}, "required"},
			{"required rule", schema.Options{Required: schema.RequiredRule{Created: 3}}, "required.created"},
			{"unique", schema.Options{Unique: 1.5}, "unique"},
			{"type", schema.Options{Type: types.List(nil)}, "type"},
			{"default", schema.Options{Type: types.Integer, DefaultValue: "ten"}, "default_value"},
			{"sanitize", schema.Options{Sanitize: "trim"}, "sanitize"},
			{"validate", schema.Options{Validate: func(int) bool { return true }}, "validate"},
			{"rules", schema.Options{Rules: "no_such_rule"}, "rules"},
			{"boolean rules", schema.Options{Type: types.Boolean, Rules: "max=1"}, "rules"},
			{"date rules", schema.Options{Type: types.Date, Rules: "min=1"}, "rules"},
			{"record rules", schema.Options{
				Type:  types.Record(map[string]types.Descriptor{"city": types.String}),
				Rules: "min=1",
			}, "rules"},
		}

		for _, test := range tests {
			t.Run(test.name, func(t *testing.T) {
				_, err := schema.NewPath("field", test.opts)
				assertOptionError(t, err, test.option)
				assert.Contains(t, err.Error(), `path "field"`)
			})
		}
	})

	t.Run("invalid name test", func(t *testing.T) {
		_, err := schema.NewPath("", schema.Options{})
		assertOptionError(t, err, "name")
	})
}

func TestInspectErrors(t *testing.T) {
	t.Run("required test", func(t *testing.T) {
		p, err := schema.NewPath("email", schema.Options{Required: true})
		require.NoError(t, err)

		for _, v := range []interface{}{nil, ""} {
			assert.Equal(t, []string{"The email is required."}, schema.InspectErrors(p, v, schema.PhaseCreate))
			assert.Equal(t, []string{"The email is required."}, schema.InspectErrors(p, v, schema.PhaseUpdate))
		}
	})

	t.Run("phase selective test", func(t *testing.T) {
		p, err := schema.NewPath("_id", schema.Options{Type: types.ObjectID, Required: []string{"updated"}})
		require.NoError(t, err)

		assert.Empty(t, schema.InspectErrors(p, nil, schema.PhaseCreate))
		assert.Equal(t, []string{"The _id is required."}, schema.InspectErrors(p, nil, schema.PhaseUpdate))
	})

	t.Run("empty value test", func(t *testing.T) {
		p, err := schema.NewPath("age", schema.Options{
			Type: types.Integer,
			Validate: func(interface{}) string {
				return "never called"
			},
		})
		require.NoError(t, err)

		messages := schema.InspectErrors(p, "", schema.PhaseCreate)
		assert.NotNil(t, messages)
		assert.Empty(t, messages)
	})

	t.Run("type mismatch test", func(t *testing.T) {
		p, err := schema.NewPath("age", schema.Options{
			Type:     types.Integer,
			Required: true,
			Validate: func(interface{}) string {
				return "never called"
			},
		})
		require.NoError(t, err)

		assert.Equal(t, []string{`The age, "old", is invalid.`}, schema.InspectErrors(p, "old", schema.PhaseCreate))
	})

	t.Run("validator test", func(t *testing.T) {
		var seen interface{}
		p, err := schema.NewPath("name", schema.Options{
			Sanitize: func(v interface{}) interface{} {
				return strings.TrimSpace(v.(string))
			},
			Validate: schema.ValidateFunc(func(v interface{}) []string {
				seen = v
				var messages []string
				if len(v.(string)) < 3 {
					messages = append(messages, "too short")
				}
				if strings.ToLower(v.(string)) != v.(string) {
					messages = append(messages, "must be lower case")
				}
				return messages
			}),
		})
		require.NoError(t, err)

		assert.Equal(t, []string{"too short", "must be lower case"}, schema.InspectErrors(p, "  Ab ", schema.PhaseCreate))
		assert.Equal(t, "Ab", seen)

		// The validator is restartable: each inspection drains a new sequence.
		assert.Equal(t, []string{"too short", "must be lower case"}, schema.InspectErrors(p, "Ab", schema.PhaseUpdate))
		assert.Empty(t, schema.InspectErrors(p, "kim", schema.PhaseCreate))
	})

	t.Run("single message and error validator test", func(t *testing.T) {
		p, err := schema.NewPath("name", schema.Options{
			Validate: func(v interface{}) error {
				return fmt.Errorf("%v is reserved", v)
			},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"admin is reserved"}, schema.InspectErrors(p, "admin", schema.PhaseCreate))
	})

	t.Run("rules test", func(t *testing.T) {
		p, err := schema.NewPath("email", schema.Options{
			DisplayName: "E-mail",
			Rules:       "email",
			Validate: func(interface{}) string {
				return "custom"
			},
		})
		require.NoError(t, err)

		assert.Equal(t,
			[]string{"The E-mail must be a valid email address.", "custom"},
			schema.InspectErrors(p, "kim", schema.PhaseCreate),
		)
		assert.Equal(t, []string{"custom"}, schema.InspectErrors(p, "kim@example.com", schema.PhaseCreate))
	})

	t.Run("numeric rules test", func(t *testing.T) {
		p, err := schema.NewPath("age", schema.Options{Type: types.Integer, Rules: "min=18"})
		require.NoError(t, err)

		assert.Len(t, schema.InspectErrors(p, "12", schema.PhaseCreate), 1)
		assert.Empty(t, schema.InspectErrors(p, "21", schema.PhaseCreate))
	})

	t.Run("list rules test", func(t *testing.T) {
		p, err := schema.NewPath("tags", schema.Options{Type: types.List(types.String), Rules: "max=2"})
		require.NoError(t, err)

		assert.Empty(t, schema.InspectErrors(p, []interface{}{"a", "b"}, schema.PhaseCreate))
		assert.Len(t, schema.InspectErrors(p, []interface{}{"a", "b", "c"}, schema.PhaseCreate), 1)
	})

	t.Run("rules not applying to sanitized value test", func(t *testing.T) {
		p, err := schema.NewPath("age", schema.Options{
			Type:     types.Integer,
			Rules:    "min=18",
			Sanitize: schema.SanitizeFunc(func(interface{}) interface{} { return true }),
		})
		require.NoError(t, err)

		assert.NotPanics(t, func() {
			assert.Len(t, schema.InspectErrors(p, "21", schema.PhaseCreate), 1)
		})
	})
}

func TestFormattedValue(t *testing.T) {
	p, err := schema.NewPath("age", schema.Options{
		Type: types.Integer,
		Sanitize: schema.SanitizeFunc(func(v interface{}) interface{} {
			return v.(int64) * 2
		}),
	})
	require.NoError(t, err)

	value, err := schema.FormattedValue(p, "5.6")
	assert.NoError(t, err)
	assert.Equal(t, int64(10), value)

	_, err = schema.FormattedValue(p, "old")
	assert.ErrorIs(t, err, types.ErrConversion)
}
