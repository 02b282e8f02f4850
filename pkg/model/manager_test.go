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

package model_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yorkie-team/odm/pkg/database"
	"github.com/yorkie-team/odm/pkg/model"
	"github.com/yorkie-team/odm/pkg/schema"
)

func TestManager(t *testing.T) {
	ctx := context.Background()
	manager := newManager(t)
	assert.Equal(t, "user", manager.Schema().Name())
	assert.Equal(t, "user", manager.Collection().Name())

	for _, email := range []string{"a@yorkie.dev", "b@yorkie.dev", "c@yorkie.dev"} {
		require.NoError(t, manager.New(map[string]interface{}{"email": email, "age": 30}).Save(ctx))
	}

	t.Run("find many test", func(t *testing.T) {
		models, err := manager.FindMany(ctx, database.Query{"age": int64(30)}, database.FindOptions{
			Sort:  []database.SortField{{Field: "email", Order: database.Descending}},
			Limit: 2,
		})
		require.NoError(t, err)
		require.Len(t, models, 2)
		assert.Equal(t, "c@yorkie.dev", models[0].Values()["email"])
		assert.Equal(t, "b@yorkie.dev", models[1].Values()["email"])
		assert.Equal(t, model.StateConstructed, models[0].State())
		assert.Equal(t, schema.PhaseUpdate, models[0].Phase())
	})

	t.Run("find one and save test", func(t *testing.T) {
		m, err := manager.FindOne(ctx, database.Query{"email": "a@yorkie.dev"})
		require.NoError(t, err)
		require.NotNil(t, m)

		m.AddValues(map[string]interface{}{"age": 31})
		require.NoError(t, m.Save(ctx))

		found, err := manager.FindOne(ctx, database.Query{"age": int64(31)})
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, m.ID(), found.ID())

		missing, err := manager.FindOne(ctx, database.Query{"email": "z@yorkie.dev"})
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("duplicate on update test", func(t *testing.T) {
		m, err := manager.FindOne(ctx, database.Query{"email": "b@yorkie.dev"})
		require.NoError(t, err)
		require.NotNil(t, m)

		m.AddValues(map[string]interface{}{"email": "c@yorkie.dev"})
		assert.ErrorIs(t, m.Save(ctx), model.ErrValidation)
		assert.Equal(t, []string{
			"The email address, \"c@yorkie.dev\", has already been taken.",
		}, m.Errors()["email"])
	})

	t.Run("aggregate test", func(t *testing.T) {
		docs, err := manager.Aggregate(ctx, []database.Stage{
			{"$match": database.Query{"age": int64(30)}},
			{"$count": "total"},
		})
		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.EqualValues(t, 2, docs[0]["total"])
	})
}

func TestManagerConcurrentSaves(t *testing.T) {
	ctx := context.Background()
	manager := newManager(t)

	var wg sync.WaitGroup
	errs := make([]error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			m := manager.New(map[string]interface{}{"email": fmt.Sprintf("user%d@yorkie.dev", i%5)})
			errs[i] = m.Save(ctx)
		}(i)
	}
	wg.Wait()

	rejected := 0
	for _, err := range errs {
		if err != nil {
			assert.ErrorIs(t, err, model.ErrValidation)
			rejected++
		}
	}
	assert.Equal(t, 5, rejected)

	docs, err := manager.Collection().FindMany(ctx, database.Query{}, database.FindOptions{})
	require.NoError(t, err)
	assert.Len(t, docs, 5)
}
