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

// Package testcases contains testcases shared by the database
// implementations.
package testcases

import (
	"context"
	"testing"

	"github.com/rs/xid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yorkie-team/odm/pkg/database"
	"github.com/yorkie-team/odm/pkg/errors"
)

// newCollectionName returns a collection name that no other run uses.
func newCollectionName(prefix string) string {
	return prefix + "_" + xid.New().String()
}

// RunCRUDTest runs the insert, find, update and delete tests.
func RunCRUDTest(t *testing.T, db database.Database) {
	ctx := context.Background()
	col := db.Collection(newCollectionName("crud"))

	id, err := col.InsertOne(ctx, database.Document{"name": "kim", "age": int64(20)})
	require.NoError(t, err)
	assert.IsType(t, primitive.ObjectID{}, id)

	doc, err := col.FindOne(ctx, database.Query{database.IDField: id})
	require.NoError(t, err)
	assert.Equal(t, "kim", doc["name"])
	assert.Equal(t, int64(20), doc["age"])
	assert.Equal(t, id, doc[database.IDField])

	doc, err = col.FindOne(ctx, database.Query{"name": "lee"})
	assert.NoError(t, err)
	assert.Nil(t, doc)

	result, err := col.UpdateOne(ctx, database.Query{database.IDField: id}, database.Document{"age": int64(21)})
	require.NoError(t, err)
	assert.Equal(t, &database.UpdateResult{Matched: 1, Modified: 1}, result)

	result, err = col.UpdateOne(ctx, database.Query{database.IDField: id}, database.Document{"age": int64(21)})
	require.NoError(t, err)
	assert.Equal(t, &database.UpdateResult{Matched: 1, Modified: 0}, result)

	result, err = col.UpdateOne(ctx, database.Query{database.IDField: primitive.NewObjectID()}, database.Document{"age": int64(1)})
	require.NoError(t, err)
	assert.Equal(t, int64(0), result.Matched)

	doc, err = col.FindOne(ctx, database.Query{"name": "kim"})
	require.NoError(t, err)
	assert.Equal(t, int64(21), doc["age"])

	deleted, err := col.DeleteOne(ctx, database.Query{database.IDField: id})
	assert.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	deleted, err = col.DeleteOne(ctx, database.Query{database.IDField: id})
	assert.NoError(t, err)
	assert.Equal(t, int64(0), deleted)
}

// RunUniqueIndexTest runs the unique index tests.
func RunUniqueIndexTest(t *testing.T, db database.Database) {
	ctx := context.Background()
	col := db.Collection(newCollectionName("unique"))

	t.Run("create unique index test", func(t *testing.T) {
		assert.NoError(t, col.CreateUniqueIndex(ctx, "email"))
		assert.NoError(t, col.CreateUniqueIndex(ctx, "email"))

		infos, err := col.IndexInfo(ctx)
		require.NoError(t, err)
		assert.True(t, database.HasUniqueIndex(infos, "email"))
		assert.False(t, database.HasUniqueIndex(infos, "name"))
	})

	t.Run("duplicate insert test", func(t *testing.T) {
		_, err := col.InsertOne(ctx, database.Document{"email": "kim@example.com"})
		require.NoError(t, err)

		_, err = col.InsertOne(ctx, database.Document{"email": "kim@example.com"})
		assert.ErrorIs(t, err, database.ErrDuplicateKey)
		assert.Equal(t, errors.ErrCodeAlreadyExists, errors.StatusOf(err))

		var dupErr *database.DuplicateKeyError
		require.True(t, errors.As(err, &dupErr))
		assert.Equal(t, "email", dupErr.Field)
		assert.Equal(t, "kim@example.com", dupErr.Value)
	})

	t.Run("duplicate update test", func(t *testing.T) {
		id, err := col.InsertOne(ctx, database.Document{"email": "lee@example.com"})
		require.NoError(t, err)

		_, err = col.UpdateOne(ctx, database.Query{database.IDField: id}, database.Document{"email": "kim@example.com"})
		var dupErr *database.DuplicateKeyError
		require.True(t, errors.As(err, &dupErr))
		assert.Equal(t, "email", dupErr.Field)

		result, err := col.UpdateOne(ctx, database.Query{database.IDField: id}, database.Document{"email": "park@example.com"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), result.Modified)
	})

	t.Run("duplicate id test", func(t *testing.T) {
		id := primitive.NewObjectID()
		_, err := col.InsertOne(ctx, database.Document{database.IDField: id, "email": "choi@example.com"})
		require.NoError(t, err)

		_, err = col.InsertOne(ctx, database.Document{database.IDField: id, "email": "jung@example.com"})
		assert.ErrorIs(t, err, database.ErrDuplicateKey)
	})

	t.Run("index over duplicates test", func(t *testing.T) {
		_, err := col.InsertOne(ctx, database.Document{"email": "han@example.com", "nickname": "han"})
		require.NoError(t, err)
		_, err = col.InsertOne(ctx, database.Document{"email": "seo@example.com", "nickname": "han"})
		require.NoError(t, err)

		assert.ErrorIs(t, col.CreateUniqueIndex(ctx, "nickname"), database.ErrDuplicateKey)
	})
}

// RunFindManyTest runs the FindMany tests.
func RunFindManyTest(t *testing.T, db database.Database) {
	ctx := context.Background()
	col := db.Collection(newCollectionName("find"))

	for i, name := range []string{"kim", "lee", "park", "choi", "jung"} {
		team := "a"
		if i%2 == 1 {
			team = "b"
		}
		_, err := col.InsertOne(ctx, database.Document{"name": name, "age": int64(20 + i), "team": team})
		require.NoError(t, err)
	}

	names := func(docs []database.Document) []string {
		var result []string
		for _, doc := range docs {
			result = append(result, doc["name"].(string))
		}
		return result
	}

	docs, err := col.FindMany(ctx, database.Query{}, database.FindOptions{
		Sort: []database.SortField{{Field: "age", Order: database.Descending}},
		Skip:  1,
		Limit: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"choi", "park"}, names(docs))

	docs, err = col.FindMany(ctx, database.Query{"team": "a"}, database.FindOptions{
		Sort: []database.SortField{{Field: "name", Order: database.Ascending}},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"jung", "kim", "park"}, names(docs))

	docs, err = col.FindMany(ctx, database.Query{"team": "c"}, database.FindOptions{})
	require.NoError(t, err)
	assert.Len(t, docs, 0)
}

// RunAggregateTest runs the Aggregate tests.
func RunAggregateTest(t *testing.T, db database.Database) {
	ctx := context.Background()
	col := db.Collection(newCollectionName("aggregate"))

	for i, name := range []string{"kim", "lee", "park", "choi"} {
		_, err := col.InsertOne(ctx, database.Document{"name": name, "age": int64(30 - i), "active": i != 2})
		require.NoError(t, err)
	}

	docs, err := col.Aggregate(ctx, []database.Stage{
		{"$match": map[string]interface{}{"active": true}},
		{"$sort": primitive.D{{Key: "age", Value: 1}}},
		{"$skip": 1},
		{"$limit": 1},
		{"$project": map[string]interface{}{"name": 1, database.IDField: 0}},
	})
	require.NoError(t, err)
	assert.Equal(t, []database.Document{{"name": "lee"}}, docs)

	docs, err = col.Aggregate(ctx, []database.Stage{
		{"$match": map[string]interface{}{"active": true}},
		{"$count": "total"},
	})
	require.NoError(t, err)
	assert.Equal(t, []database.Document{{"total": int64(3)}}, docs)
}
