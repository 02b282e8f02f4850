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

package engine_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yorkie-team/odm/engine"
	"github.com/yorkie-team/odm/pkg/database/mongo"
	"github.com/yorkie-team/odm/pkg/schema"
)

func TestNewConfigFromFile(t *testing.T) {
	t.Run("fail read config file test", func(t *testing.T) {
		conf := engine.NewConfig()
		_, err := engine.NewConfigFromFile("nowhere.yml")
		assert.Error(t, err)

		assert.Equal(t, engine.DefaultDatabase, conf.Database)
		assert.Equal(t, engine.DefaultHookTimeout, conf.ParseHookTimeout())
		assert.Equal(t, engine.DefaultLogLevel, conf.Log.Level)
		assert.Nil(t, conf.Mongo)
		assert.NoError(t, conf.Validate())
	})

	t.Run("read config file test", func(t *testing.T) {
		conf, err := engine.NewConfigFromFile("config.sample.yml")
		require.NoError(t, err)

		assert.Equal(t, engine.DatabaseMongo, conf.Database)
		require.NotNil(t, conf.Mongo)
		assert.Equal(t, mongo.DefaultConnectionURI, conf.Mongo.ConnectionURI)
		assert.Equal(t, mongo.DefaultDatabase, conf.Mongo.Database)
		assert.Equal(t, 5*time.Second, conf.Mongo.ParseConnectionTimeout())
		assert.Equal(t, 5*time.Second, conf.Mongo.ParsePingTimeout())
		assert.Equal(t, 5*time.Second, conf.ParseHookTimeout())
		assert.NoError(t, conf.Validate())
	})
}

func TestConfig(t *testing.T) {
	t.Run("validate test", func(t *testing.T) {
		conf := engine.NewConfig()
		conf.Database = "sqlite"
		assert.Error(t, conf.Validate())

		conf = engine.NewConfig()
		conf.Hook.Timeout = "soon"
		assert.Error(t, conf.Validate())

		conf = engine.NewConfig()
		conf.Log.Level = "verbose"
		assert.Error(t, conf.Validate())

		conf = engine.NewConfig()
		conf.Database = engine.DatabaseMongo
		assert.Error(t, conf.Validate())

		conf.Mongo = mongo.NewConfig()
		conf.Mongo.PingTimeout = "1 hour"
		assert.Error(t, conf.Validate())
	})

	t.Run("apply env test", func(t *testing.T) {
		t.Setenv("ODM_DATABASE", "mongo")
		t.Setenv("ODM_MONGO_URI", "mongodb://db:27017")
		t.Setenv("ODM_HOOK_TIMEOUT", "150ms")
		t.Setenv("ODM_LOG_LEVEL", "debug")

		conf := engine.NewConfig()
		require.NoError(t, conf.ApplyEnv())

		assert.Equal(t, engine.DatabaseMongo, conf.Database)
		require.NotNil(t, conf.Mongo)
		assert.Equal(t, "mongodb://db:27017", conf.Mongo.ConnectionURI)
		assert.Equal(t, mongo.DefaultDatabase, conf.Mongo.Database)
		assert.Equal(t, 150*time.Millisecond, conf.ParseHookTimeout())
		assert.Equal(t, "debug", conf.Log.Level)
		assert.NoError(t, conf.Validate())
	})

	t.Run("apply empty env test", func(t *testing.T) {
		conf := engine.NewConfig()
		require.NoError(t, conf.ApplyEnv())
		assert.Equal(t, engine.DefaultDatabase, conf.Database)
	})
}

func TestEngine(t *testing.T) {
	ctx := context.Background()

	e, err := engine.New(engine.NewConfig())
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, e.Close())
		assert.NoError(t, e.Close())
	}()

	s, err := schema.New("account", []schema.Field{
		{Name: "email", Options: schema.Options{Required: true, Unique: true}},
	}, schema.WithDocumentID())
	require.NoError(t, err)

	manager := e.Manager(s)
	assert.Same(t, manager, e.Manager(s))
	assert.Equal(t, []string{"account"}, e.Schemas())

	require.NoError(t, manager.New(map[string]interface{}{"email": "hi@yorkie.dev"}).Save(ctx))
	assert.Error(t, manager.New(map[string]interface{}{"email": "hi@yorkie.dev"}).Save(ctx))

	families, err := e.Metrics().Registry().Gather()
	require.NoError(t, err)

	saves := map[string]float64{}
	for _, family := range families {
		if family.GetName() != "odm_model_saves_total" {
			continue
		}
		for _, metric := range family.GetMetric() {
			for _, label := range metric.GetLabel() {
				if label.GetName() == "outcome" {
					saves[label.GetValue()] = metric.GetCounter().GetValue()
				}
			}
		}
	}
	assert.Equal(t, map[string]float64{"persisted": 1, "rejected": 1}, saves)

	_, err = engine.New(&engine.Config{Database: "sqlite"})
	assert.Error(t, err)
}
