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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yorkie-team/odm/pkg/schema"
	"github.com/yorkie-team/odm/pkg/types"
)

func TestSchema(t *testing.T) {
	t.Run("ordered paths test", func(t *testing.T) {
		s, err := schema.New("user", []schema.Field{
			{Name: "name"},
			{Name: "email", Options: schema.Options{Unique: true}},
			{Name: "age", Options: schema.Options{Type: types.Integer}},
		})
		require.NoError(t, err)

		var names []string
		for _, p := range s.Paths() {
			names = append(names, p.Name())
		}
		assert.Equal(t, []string{"name", "email", "age"}, names)
		assert.Equal(t, "user", s.Name())
		assert.False(t, s.HasPrimaryPath())
		assert.Equal(t, "", s.PrimaryPathName())

		p, ok := s.Path("age")
		assert.True(t, ok)
		assert.Equal(t, types.Integer, p.Type())
		_, ok = s.Path("nickname")
		assert.False(t, ok)

		unique := s.UniquePaths()
		require.Len(t, unique, 1)
		assert.Equal(t, "email", unique[0].Name())
	})

	t.Run("email required scenario test", func(t *testing.T) {
		s, err := schema.New("user", []schema.Field{
			{Name: "email", Options: schema.Options{Required: true}},
		})
		require.NoError(t, err)

		values := map[string]interface{}{"email": ""}
		errs := map[string][]string{}
		for _, p := range s.Paths() {
			errs[p.Name()] = schema.InspectErrors(p, values[p.Name()], schema.PhaseCreate)
		}
		assert.Equal(t, map[string][]string{"email": {"The email is required."}}, errs)
	})

	t.Run("document id test", func(t *testing.T) {
		s, err := schema.New("user", []schema.Field{{Name: "email"}}, schema.WithDocumentID())
		require.NoError(t, err)

		assert.Equal(t, schema.DocumentIDPath, s.PrimaryPathName())
		paths := s.Paths()
		require.Len(t, paths, 2)
		assert.Equal(t, "_id", paths[0].Name())
		assert.Equal(t, types.ObjectID, paths[0].Type())
		assert.False(t, paths[0].IsRequiredWhenCreated())
		assert.True(t, paths[0].IsRequiredWhenUpdated())

		id := primitive.NewObjectID()
		assert.Empty(t, schema.InspectErrors(paths[0], id.Hex(), schema.PhaseUpdate))
	})

	t.Run("primary path test", func(t *testing.T) {
		s, err := schema.New("account", []schema.Field{
			{Name: "key", Options: schema.Options{Type: types.UUID}},
		}, schema.WithPrimaryPath("key"))
		require.NoError(t, err)
		assert.Equal(t, "key", s.PrimaryPathName())

		_, err = schema.New("account", nil, schema.WithPrimaryPath("key"))
		assertOptionError(t, err, "primary")
	})

	t.Run("malformed schema test", func(t *testing.T) {
		_, err := schema.New("user", []schema.Field{{Name: "email"}, {Name: "email"}})
		assertOptionError(t, err, "name")

		_, err = schema.New("", nil)
		assertOptionError(t, err, "name")

		// A malformed path fails the whole schema.
		_, err = schema.New("user", []schema.Field{
			{Name: "email", Options: schema.Options{Required: []string{"sometimes"}}},
		})
		assertOptionError(t, err, "required")

		assert.Panics(t, func() {
			schema.MustNew("user", []schema.Field{{Name: "email", Options: schema.Options{Unique: 3}}})
		})
	})
}

func TestParseDefinition(t *testing.T) {
	t.Run("definition test", func(t *testing.T) {
		s, err := schema.ParseDefinition([]byte(`
name: user
document_id: true
paths:
  - name: email
    display_name: E-mail
    required: [created]
    unique: "The e-mail is already registered."
    rules: email
  - name: age
    type: Integer
    default_value: 20
  - name: joined
    type: Date
    default_value: "2020-01-02T00:00:00Z"
  - name: tags
    type: [String]
  - name: profile
    type: {city: String, visits: "[Date]"}
    projected: false
  - name: nickname
    required:
      updated: "Nickname can't be removed."
`))
		require.NoError(t, err)

		assert.Equal(t, "user", s.Name())
		assert.Equal(t, "_id", s.PrimaryPathName())
		assert.Len(t, s.Paths(), 7)

		email, _ := s.Path("email")
		assert.Equal(t, "E-mail", email.DisplayName())
		assert.True(t, email.IsRequiredWhenCreated())
		assert.False(t, email.IsRequiredWhenUpdated())
		assert.True(t, email.IsUnique())
		assert.Equal(t, "The e-mail is already registered.", email.UniqueMessage("kim@example.com"))

		age, _ := s.Path("age")
		defaultValue, ok := age.DefaultValue()
		assert.True(t, ok)
		assert.Equal(t, 20, defaultValue)

		joined, _ := s.Path("joined")
		defaultValue, ok = joined.DefaultValue()
		assert.True(t, ok)
		assert.Equal(t, time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC), defaultValue)

		tags, _ := s.Path("tags")
		assert.Equal(t, types.List(types.String), tags.Type())

		profile, _ := s.Path("profile")
		assert.Equal(t, "{city: String, visits: [Date]}", profile.Type().String())
		assert.False(t, profile.IsProjected())

		nickname, _ := s.Path("nickname")
		assert.False(t, nickname.IsRequiredWhenCreated())
		assert.Equal(t, "Nickname can't be removed.", nickname.RequiredMessage(schema.PhaseUpdate, nil))
	})

	t.Run("malformed definition test", func(t *testing.T) {
		_, err := schema.ParseDefinition([]byte("name: [user"))
		assert.Error(t, err)

		_, err = schema.ParseDefinition([]byte(`
name: user
paths:
  - name: age
    type: Float
`))
		assertOptionError(t, err, "type")

		_, err = schema.ParseDefinition([]byte(`
name: user
paths:
  - name: age
    type: Integer
    default_value: old
`))
		assertOptionError(t, err, "default_value")

		for _, def := range []string{
			"type: Integer\n    default_value: \"12px\"",
			"type: Integer\n    default_value: \"20\"",
			"type: Boolean\n    default_value: \"nope\"",
			"type: \"[Integer]\"\n    default_value: [1, \"2\"]",
		} {
			_, err = schema.ParseDefinition([]byte("name: user\npaths:\n  - name: field\n    " + def + "\n"))
			assertOptionError(t, err, "default_value")
		}
	})
}
