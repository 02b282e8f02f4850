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
	"context"
	"fmt"

	"github.com/yorkie-team/odm/pkg/database"
	"github.com/yorkie-team/odm/pkg/hooks"
	"github.com/yorkie-team/odm/pkg/log"
	"github.com/yorkie-team/odm/pkg/schema"
)

// Manager creates and finds the models of a schema. Models created by a
// Manager share its listeners.
type Manager struct {
	schema     *schema.Schema
	collection database.Collection
	config     *config
}

// NewManager creates a new instance of Manager. The models of the schema
// are stored in the collection named after the schema.
func NewManager(s *schema.Schema, db database.Database, opts ...Option) *Manager {
	return &Manager{
		schema:     s,
		collection: db.Collection(s.Name()),
		config: newConfig(opts, func() log.Logger {
			return log.New("model", log.NewField("schema", s.Name()))
		}),
	}
}

// Schema returns the schema of the models.
func (m *Manager) Schema() *schema.Schema {
	return m.schema
}

// Collection returns the collection the models are stored in.
func (m *Manager) Collection() database.Collection {
	return m.collection
}

// New creates a new model with the given raw values.
func (m *Manager) New(values map[string]interface{}) *Model {
	return newModel(m.schema, m.collection, values, m.config)
}

// On registers a listener of the given event and returns its id.
func (m *Manager) On(event string, listener hooks.Listener[*Model]) string {
	return m.config.dispatcher.On(event, listener)
}

// Off removes the listener of the given id.
func (m *Manager) Off(id string) bool {
	return m.config.dispatcher.Off(id)
}

// FindMany returns the models whose documents match the query.
func (m *Manager) FindMany(
	ctx context.Context,
	query database.Query,
	opts database.FindOptions,
) ([]*Model, error) {
	docs, err := m.collection.FindMany(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", m.schema.Name(), err)
	}

	models := make([]*Model, 0, len(docs))
	for _, doc := range docs {
		models = append(models, m.New(doc))
	}
	return models, nil
}

// FindOne returns the model of the first document matching the query, or
// nil if there is none.
func (m *Manager) FindOne(ctx context.Context, query database.Query) (*Model, error) {
	doc, err := m.collection.FindOne(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", m.schema.Name(), err)
	}
	if doc == nil {
		return nil, nil
	}
	return m.New(doc), nil
}

// Aggregate runs the pipeline over the collection of the schema.
func (m *Manager) Aggregate(ctx context.Context, pipeline []database.Stage) ([]database.Document, error) {
	docs, err := m.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate %s: %w", m.schema.Name(), err)
	}
	return docs, nil
}
