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

package model

import (
	"time"

	"github.com/yorkie-team/odm/pkg/hooks"
	"github.com/yorkie-team/odm/pkg/locker"
	"github.com/yorkie-team/odm/pkg/log"
)

// Metrics records the outcomes of model operations.
type Metrics interface {
	ObserveSave(schema, outcome string, duration time.Duration)
	AddDelete(schema string)
}

type nopMetrics struct{}

func (nopMetrics) ObserveSave(string, string, time.Duration) {}
func (nopMetrics) AddDelete(string)                          {}

// defaultIndexLocks is shared by every Manager and Model so that unique
// index checks of one collection never run concurrently.
var defaultIndexLocks = locker.New()

type config struct {
	dispatcher  *hooks.Dispatcher[*Model]
	hookTimeout time.Duration
	metrics     Metrics
	logger      log.Logger

	// indexLocks serializes the unique index checks per collection.
	indexLocks *locker.Locker
}

// Option configures a Manager or a Model.
type Option func(*config)

// WithDispatcher sets the dispatcher the lifecycle events are emitted to.
func WithDispatcher(dispatcher *hooks.Dispatcher[*Model]) Option {
	return func(c *config) {
		c.dispatcher = dispatcher
	}
}

// WithHookTimeout bounds the time each hook listener may take. It applies
// when the dispatcher is created by the Manager or the Model.
func WithHookTimeout(timeout time.Duration) Option {
	return func(c *config) {
		c.hookTimeout = timeout
	}
}

// WithMetrics sets the metrics of saves and deletes.
func WithMetrics(metrics Metrics) Option {
	return func(c *config) {
		c.metrics = metrics
	}
}

// WithLogger sets the logger.
func WithLogger(logger log.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

func newConfig(opts []Option, defaultLogger func() log.Logger) *config {
	c := &config{indexLocks: defaultIndexLocks}
	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = defaultLogger()
	}
	if c.metrics == nil {
		c.metrics = nopMetrics{}
	}
	if c.dispatcher == nil {
		c.dispatcher = hooks.New[*Model](
			hooks.WithTimeout(c.hookTimeout),
			hooks.WithLogger(c.logger),
		)
	}
	return c
}
