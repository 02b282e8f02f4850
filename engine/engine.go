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

// Package engine wires the database, the loggers, the metrics and the hook
// timeout into the managers of schemas.
package engine

import (
	"fmt"
	"sort"
	gosync "sync"

	"github.com/yorkie-team/odm/pkg/cmap"
	"github.com/yorkie-team/odm/pkg/database"
	"github.com/yorkie-team/odm/pkg/database/memory"
	"github.com/yorkie-team/odm/pkg/database/mongo"
	"github.com/yorkie-team/odm/pkg/log"
	"github.com/yorkie-team/odm/pkg/metrics/prometheus"
	"github.com/yorkie-team/odm/pkg/model"
	"github.com/yorkie-team/odm/pkg/schema"
)

// Engine holds the managers of the schemas it was asked for. Managers share
// the database and the metrics of the engine.
type Engine struct {
	lock gosync.Mutex

	conf     *Config
	db       database.Database
	metrics  *prometheus.Metrics
	logger   log.Logger
	managers *cmap.Map[string, *model.Manager]

	closed bool
}

// New creates a new instance of Engine.
func New(conf *Config) (*Engine, error) {
	if err := conf.Validate(); err != nil {
		return nil, err
	}

	if err := log.SetLogLevel(conf.Log.Level); err != nil {
		return nil, err
	}

	metrics, err := prometheus.NewMetrics()
	if err != nil {
		return nil, err
	}

	db, err := dial(conf)
	if err != nil {
		return nil, err
	}

	logger := log.New("engine")
	logger.Infof("engine started, database: %s, hook timeout: %s", conf.Database, conf.Hook.Timeout)

	return &Engine{
		conf:     conf,
		db:       db,
		metrics:  metrics,
		logger:   logger,
		managers: cmap.New[string, *model.Manager](),
	}, nil
}

func dial(conf *Config) (database.Database, error) {
	switch conf.Database {
	case DatabaseMemory:
		db, err := memory.New()
		if err != nil {
			return nil, fmt.Errorf("open memory database: %w", err)
		}
		return db, nil
	case DatabaseMongo:
		client, err := mongo.Dial(conf.Mongo)
		if err != nil {
			return nil, err
		}
		return client, nil
	}

	return nil, fmt.Errorf("unknown database: %s", conf.Database)
}

// Manager returns the manager of the given schema. The same manager is
// returned for schemas of the same name.
func (e *Engine) Manager(s *schema.Schema) *model.Manager {
	manager, created := e.managers.GetOrCreate(s.Name(), func() *model.Manager {
		return model.NewManager(
			s,
			e.db,
			model.WithHookTimeout(e.conf.ParseHookTimeout()),
			model.WithMetrics(e.metrics),
		)
	})
	if created {
		e.logger.Debugf("manager of %s created", s.Name())
	}
	return manager
}

// Schemas returns the names of the schemas that have a manager, sorted.
func (e *Engine) Schemas() []string {
	names := e.managers.Keys()
	sort.Strings(names)
	return names
}

// Database returns the database of the engine.
func (e *Engine) Database() database.Database {
	return e.db
}

// Metrics returns the metrics of the engine.
func (e *Engine) Metrics() *prometheus.Metrics {
	return e.metrics
}

// Close closes the database of the engine. Closing twice is a no-op.
func (e *Engine) Close() error {
	e.lock.Lock()
	defer e.lock.Unlock()

	if e.closed {
		return nil
	}
	e.closed = true

	if err := e.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}

	e.logger.Infof("engine closed")
	return nil
}
