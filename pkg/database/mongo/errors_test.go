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

package mongo

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/yorkie-team/odm/pkg/database"
)

func TestDuplicateKeyError(t *testing.T) {
	t.Run("write exception test", func(t *testing.T) {
		err := mongo.WriteException{WriteErrors: []mongo.WriteError{{
			Code:    11000,
			Message: `E11000 duplicate key error collection: odm.user index: email_1 dup key: { email: "kim@example.com" }`,
		}}}

		dupErr, ok := toDuplicateKeyError("user", err, database.Document{"email": "kim@example.com"})
		assert.True(t, ok)
		assert.Equal(t, "email", dupErr.Field)
		assert.Equal(t, "kim@example.com", dupErr.Value)
		assert.ErrorIs(t, dupErr, database.ErrDuplicateKey)
	})

	t.Run("id index test", func(t *testing.T) {
		id := primitive.NewObjectID()
		err := mongo.WriteException{WriteErrors: []mongo.WriteError{{
			Code:    11000,
			Message: fmt.Sprintf(`E11000 duplicate key error collection: odm.user index: _id_ dup key: { _id: ObjectId('%s') }`, id.Hex()),
		}}}

		dupErr, ok := toDuplicateKeyError("user", err, database.Document{"_id": id})
		assert.True(t, ok)
		assert.Equal(t, "_id", dupErr.Field)
		assert.Equal(t, id, dupErr.Value)
	})

	t.Run("command error test", func(t *testing.T) {
		err := mongo.CommandError{
			Code:    11000,
			Message: `E11000 duplicate key error collection: odm.user index: nickname_1 dup key: { nickname: "han" }`,
		}

		dupErr, ok := toDuplicateKeyError("user", err, nil)
		assert.True(t, ok)
		assert.Equal(t, "nickname", dupErr.Field)
		assert.Nil(t, dupErr.Value)
	})

	t.Run("other error test", func(t *testing.T) {
		_, ok := toDuplicateKeyError("user", errors.New("connection refused"), nil)
		assert.False(t, ok)
	})
}

func TestNormalize(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	doc := toDocument(primitive.M{
		"count": int32(3),
		"at":    primitive.NewDateTimeFromTime(now),
		"tags":  primitive.A{"a", int32(1)},
		"profile": primitive.D{
			{Key: "city", Value: "Seoul"},
			{Key: "visits", Value: primitive.A{primitive.M{"n": int32(2)}}},
		},
	})

	assert.Equal(t, database.Document{
		"count": int64(3),
		"at":    now,
		"tags":  []interface{}{"a", int64(1)},
		"profile": map[string]interface{}{
			"city":   "Seoul",
			"visits": []interface{}{map[string]interface{}{"n": int64(2)}},
		},
	}, doc)

	assert.Equal(t, primitive.D{{Key: "age", Value: -1}, {Key: "name", Value: 1}}, sortOf([]database.SortField{
		{Field: "age", Order: database.Descending},
		{Field: "name", Order: database.Ascending},
	}))
	assert.Equal(t, []string{"name", "age"}, keysOf(primitive.D{{Key: "name", Value: 1}, {Key: "age", Value: 1}}))
}
