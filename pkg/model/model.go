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

// Package model binds raw values to a schema and carries them through
// inspection, hooks and persistence.
package model

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yorkie-team/odm/pkg/database"
	"github.com/yorkie-team/odm/pkg/errors"
	"github.com/yorkie-team/odm/pkg/hooks"
	"github.com/yorkie-team/odm/pkg/locker"
	"github.com/yorkie-team/odm/pkg/log"
	"github.com/yorkie-team/odm/pkg/schema"
	"github.com/yorkie-team/odm/pkg/store"
	"github.com/yorkie-team/odm/pkg/types"
)

// BeforeSave is emitted after the values are inspected and before the
// error gate. Listeners receive the model and may change its values and
// errors.
const BeforeSave = "beforeSave"

// Below are the outcomes of a save recorded by the metrics.
const (
	outcomePersisted = "persisted"
	outcomeRejected  = "rejected"
	outcomeFailed    = "failed"
)

// State is the lifecycle state of a Model.
type State int

// Below are the states of a Model. A save moves a model from Constructed,
// or from the outcome of a previous save, to Inspected and then to Rejected
// or Persisted. A model whose listener timed out is Invalidated for good.
const (
	StateConstructed State = iota
	StateInspected
	StateRejected
	StatePersisted
	StateInvalidated
)

// String returns the name of the state.
func (s State) String() string {
	switch s {
	case StateConstructed:
		return "constructed"
	case StateInspected:
		return "inspected"
	case StateRejected:
		return "rejected"
	case StatePersisted:
		return "persisted"
	case StateInvalidated:
		return "invalidated"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Model is an instance of a schema. It keeps the history of its values and
// the history of its error messages.
//
// A save runs on one goroutine, but a listener that outlives its timeout may
// still hold the model, so the histories are guarded by a mutex.
type Model struct {
	schema     *schema.Schema
	collection database.Collection
	dispatcher *hooks.Dispatcher[*Model]
	metrics    Metrics
	logger     log.Logger
	indexLocks *locker.Locker

	mu     sync.RWMutex
	values *store.Store[interface{}]
	errors *store.Store[[]string]
	state  State
}

// New creates a new instance of Model with the given raw values. The model
// is persisted to the given collection.
func New(
	s *schema.Schema,
	collection database.Collection,
	values map[string]interface{},
	opts ...Option,
) *Model {
	return newModel(s, collection, values, newConfig(opts, log.DefaultLogger))
}

func newModel(
	s *schema.Schema,
	collection database.Collection,
	values map[string]interface{},
	c *config,
) *Model {
	if values == nil {
		values = map[string]interface{}{}
	}

	return &Model{
		schema:     s,
		collection: collection,
		dispatcher: c.dispatcher,
		metrics:    c.metrics,
		logger:     c.logger,
		indexLocks: c.indexLocks,
		values:     store.NewWith(values),
		errors:     store.New[[]string](),
		state:      StateConstructed,
	}
}

// Schema returns the schema of the model.
func (m *Model) Schema() *schema.Schema {
	return m.schema
}

// State returns the lifecycle state of the model.
func (m *Model) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.state
}

func (m *Model) setState(state State) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateInvalidated {
		m.state = state
	}
}

// invalidate stops every later write to the model.
func (m *Model) invalidate() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state = StateInvalidated
}

// Values returns a copy of the current values.
func (m *Model) Values() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.currentValues()
}

func (m *Model) currentValues() map[string]interface{} {
	values := m.values.Get()
	if values == nil {
		return map[string]interface{}{}
	}
	return values
}

// InitialValues returns a copy of the values the model was created with.
func (m *Model) InitialValues() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	values := m.values.GetInitial()
	if values == nil {
		return map[string]interface{}{}
	}
	return values
}

// SetValues replaces the values with a new revision. Writes to an
// invalidated model are dropped.
func (m *Model) SetValues(values map[string]interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == StateInvalidated {
		m.logger.Warnf("values of invalidated %s dropped", m.schema.Name())
		return
	}
	m.values.Set(values)
}

// AddValues appends a revision of the values in which the given values
// override the current ones. Writes to an invalidated model are dropped.
func (m *Model) AddValues(values map[string]interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == StateInvalidated {
		m.logger.Warnf("values of invalidated %s dropped", m.schema.Name())
		return
	}
	m.values.Add(values)
}

// Errors returns a copy of the current error messages per field. It is nil
// until the model is inspected.
func (m *Model) Errors() map[string][]string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.errors.Get()
}

// SetErrors replaces the error messages. It fails until the model has been
// inspected once, and once the model is invalidated.
func (m *Model) SetErrors(errs map[string][]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkErrorsWritable(); err != nil {
		return err
	}
	m.errors.Set(errs)
	return nil
}

// AddErrors overrides the error messages of the given fields. It fails
// until the model has been inspected once, and once the model is
// invalidated.
func (m *Model) AddErrors(errs map[string][]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkErrorsWritable(); err != nil {
		return err
	}
	m.errors.Add(errs)
	return nil
}

func (m *Model) checkErrorsWritable() error {
	if m.state == StateInvalidated {
		return ErrModelInvalidated
	}
	if m.errors.Len() == 0 {
		return ErrErrorsNotInspected
	}
	return nil
}

// HasErrors returns whether any field has an error message.
func (m *Model) HasErrors() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.errors.Len() > 0 && !store.IsEmpty(m.errors)
}

// IsUpdated returns whether the values have been revised since the model
// was created.
func (m *Model) IsUpdated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.values.IsUpdated()
}

// ID returns the value of the primary path, or nil if the schema has no
// primary path or the value is empty.
func (m *Model) ID() interface{} {
	return m.idOf(m.Values())
}

func (m *Model) idOf(values map[string]interface{}) interface{} {
	if !m.schema.HasPrimaryPath() {
		return nil
	}

	id := values[m.schema.PrimaryPathName()]
	if schema.IsEmpty(id) {
		return nil
	}
	return id
}

// Phase returns the phase the next save runs in: update if the model
// carries an id, create otherwise.
func (m *Model) Phase() schema.Phase {
	return phaseOf(m.ID())
}

func phaseOf(id interface{}) schema.Phase {
	if id != nil {
		return schema.PhaseUpdate
	}
	return schema.PhaseCreate
}

// inspect returns the messages of every path for the given values.
func (m *Model) inspect(values map[string]interface{}, phase schema.Phase) map[string][]string {
	errs := make(map[string][]string)
	for _, p := range m.schema.Paths() {
		errs[p.Name()] = schema.InspectErrors(p, values[p.Name()], phase)
	}
	return errs
}

// Save inspects the values, runs the BeforeSave listeners and persists the
// values if no field has an error. It inserts the document if the model has
// no id and updates it otherwise. A rejected save returns a
// *ValidationError. A listener timeout invalidates the model.
func (m *Model) Save(ctx context.Context) (err error) {
	start := time.Now()
	defer func() {
		outcome := outcomePersisted
		if err != nil {
			outcome = outcomeFailed
			if errors.Is(err, ErrValidation) {
				outcome = outcomeRejected
			}
		}
		m.metrics.ObserveSave(m.schema.Name(), outcome, time.Since(start))
	}()

	m.mu.Lock()
	if m.state == StateInvalidated {
		m.mu.Unlock()
		return fmt.Errorf("save %s: %w", m.schema.Name(), ErrModelInvalidated)
	}
	values := m.currentValues()
	m.errors.Set(m.inspect(values, phaseOf(m.idOf(values))))
	m.state = StateInspected
	m.mu.Unlock()

	if err := m.dispatcher.Emit(ctx, BeforeSave, m); err != nil {
		if errors.Is(err, hooks.ErrListenerTimeout) {
			m.invalidate()
		}
		return fmt.Errorf("save %s: %w", m.schema.Name(), err)
	}

	if fields := failedFields(m.Errors()); fields != nil {
		m.setState(StateRejected)
		m.logger.Debugf("save %s rejected: %v", m.schema.Name(), fields)
		return &ValidationError{Fields: fields}
	}

	if err := m.ensureUniqueIndexes(ctx); err != nil {
		return err
	}

	if m.ID() == nil {
		err = m.insert(ctx)
	} else {
		err = m.update(ctx)
	}
	if err != nil {
		return m.translateDuplicateKey(err)
	}

	m.setState(StatePersisted)
	return nil
}

// ensureUniqueIndexes creates the missing unique indexes of the schema.
// A failure to read the index metadata is treated as no metadata.
func (m *Model) ensureUniqueIndexes(ctx context.Context) error {
	paths := m.schema.UniquePaths()
	if len(paths) == 0 {
		return nil
	}

	unlock := m.indexLocks.Lock(m.collection.Name())
	defer unlock()

	infos, err := m.collection.IndexInfo(ctx)
	if err != nil {
		m.logger.Warnf("read indexes of %s: %v", m.collection.Name(), err)
		infos = nil
	}

	for _, p := range paths {
		if database.HasUniqueIndex(infos, p.Name()) {
			continue
		}

		if err := m.collection.CreateUniqueIndex(ctx, p.Name()); err != nil {
			return fmt.Errorf("ensure unique index of %s.%s: %w", m.collection.Name(), p.Name(), err)
		}
		m.logger.Infof("unique index of %s.%s created", m.collection.Name(), p.Name())
	}

	return nil
}

// insertPayload returns the formatted values of every path. Empty values
// are replaced by the default of the path or left out, and so are values
// that can't be converted.
func (m *Model) insertPayload(values map[string]interface{}) database.Document {
	payload := database.Document{}
	for _, p := range m.schema.Paths() {
		raw := values[p.Name()]
		if schema.IsEmpty(raw) {
			defaultValue, ok := p.DefaultValue()
			if !ok {
				continue
			}
			raw = defaultValue
		}

		value, err := schema.FormattedValue(p, raw)
		if err != nil {
			continue
		}
		payload[p.Name()] = value
	}
	return payload
}

// generateID returns a new value for a primary path other than the document
// id. The collaborator only generates document ids.
func generateID(p *schema.Path) (interface{}, error) {
	if atomic, ok := p.Type().(types.Atomic); ok {
		switch atomic.Kind {
		case types.KindObjectID:
			return primitive.NewObjectID(), nil
		case types.KindUUID:
			return uuid.NewString(), nil
		case types.KindString:
			return primitive.NewObjectID().Hex(), nil
		}
	}
	return nil, fmt.Errorf("primary path %s of type %s: %w", p.Name(), p.Type(), ErrPrimaryNotGenerated)
}

func (m *Model) insert(ctx context.Context) error {
	payload := m.insertPayload(m.Values())

	primaryName := m.schema.PrimaryPathName()
	generated := m.schema.HasPrimaryPath() && primaryName != database.IDField
	if generated {
		if _, ok := payload[primaryName]; !ok {
			primary, _ := m.schema.Path(primaryName)
			id, err := generateID(primary)
			if err != nil {
				return fmt.Errorf("insert %s: %w", m.schema.Name(), err)
			}
			payload[primaryName] = id
		}
	}

	id, err := m.collection.InsertOne(ctx, payload)
	if err != nil {
		return fmt.Errorf("insert %s: %w", m.schema.Name(), err)
	}

	if !m.schema.HasPrimaryPath() {
		return nil
	}
	if generated {
		id = payload[primaryName]
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateInvalidated {
		m.values.Add(map[string]interface{}{primaryName: id})
	}
	return nil
}

// idQuery returns the query selecting the persisted document of the model.
func (m *Model) idQuery(id interface{}) (database.Query, error) {
	primary, _ := m.schema.Path(m.schema.PrimaryPathName())
	formatted, err := schema.FormattedValue(primary, id)
	if err != nil {
		return nil, fmt.Errorf("format id of %s: %w", m.schema.Name(), err)
	}
	return database.Query{primary.Name(): formatted}, nil
}

func (m *Model) update(ctx context.Context) error {
	values := m.Values()
	id := m.idOf(values)
	query, err := m.idQuery(id)
	if err != nil {
		return err
	}

	payload := database.Document{}
	for _, p := range m.schema.Paths() {
		if p.Name() == m.schema.PrimaryPathName() {
			continue
		}

		raw := values[p.Name()]
		if schema.IsEmpty(raw) {
			continue
		}
		value, err := schema.FormattedValue(p, raw)
		if err != nil {
			continue
		}
		payload[p.Name()] = value
	}

	if len(payload) == 0 {
		doc, err := m.collection.FindOne(ctx, query)
		if err != nil {
			return fmt.Errorf("update %s: %w", m.schema.Name(), err)
		}
		if doc == nil {
			return fmt.Errorf("update %s %v: %w", m.schema.Name(), id, database.ErrDocumentNotFound)
		}
		return nil
	}

	result, err := m.collection.UpdateOne(ctx, query, payload)
	if err != nil {
		return fmt.Errorf("update %s: %w", m.schema.Name(), err)
	}
	if result.Matched == 0 {
		return fmt.Errorf("update %s %v: %w", m.schema.Name(), id, database.ErrDocumentNotFound)
	}
	return nil
}

// translateDuplicateKey turns a duplicate key failure on a path into the
// unique message of the path and rejects the save. Other failures are
// returned as they are.
func (m *Model) translateDuplicateKey(err error) error {
	var dupErr *database.DuplicateKeyError
	if !errors.As(err, &dupErr) {
		return err
	}

	p, ok := m.schema.Path(dupErr.Field)
	if !ok {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	value, ok := m.currentValues()[p.Name()]
	if !ok || value == nil {
		value = dupErr.Value
	}

	if m.state != StateInvalidated {
		m.errors.Add(map[string][]string{p.Name(): {p.UniqueMessage(value)}})
		m.state = StateRejected
	}
	m.logger.Debugf("save %s rejected: duplicate %s", m.schema.Name(), p.Name())

	return &ValidationError{Fields: failedFields(m.errors.Get())}
}

// Delete removes the persisted document of the model and clears its id, so
// that a later save inserts it again.
func (m *Model) Delete(ctx context.Context) error {
	if !m.schema.HasPrimaryPath() {
		return fmt.Errorf("delete %s: %w", m.schema.Name(), ErrNoPrimaryPath)
	}
	if m.State() == StateInvalidated {
		return fmt.Errorf("delete %s: %w", m.schema.Name(), ErrModelInvalidated)
	}

	id := m.ID()
	if id == nil {
		return fmt.Errorf("delete %s: %w", m.schema.Name(), ErrNotPersisted)
	}

	query, err := m.idQuery(id)
	if err != nil {
		return err
	}

	deleted, err := m.collection.DeleteOne(ctx, query)
	if err != nil {
		return fmt.Errorf("delete %s: %w", m.schema.Name(), err)
	}
	if deleted == 0 {
		return fmt.Errorf("delete %s %v: %w", m.schema.Name(), id, database.ErrDocumentNotFound)
	}

	m.mu.Lock()
	m.values.Add(map[string]interface{}{m.schema.PrimaryPathName(): nil})
	m.mu.Unlock()

	m.metrics.AddDelete(m.schema.Name())
	return nil
}

// ProjectedValues returns the values of the projected paths, converted to
// their types. Values that can't be converted are left out.
func (m *Model) ProjectedValues() map[string]interface{} {
	values := m.Values()
	projected := make(map[string]interface{})

	for _, p := range m.schema.Paths() {
		if !p.IsProjected() {
			continue
		}

		raw, ok := values[p.Name()]
		if !ok {
			continue
		}
		if schema.IsEmpty(raw) {
			projected[p.Name()] = raw
			continue
		}

		value, err := schema.FormattedValue(p, raw)
		if err != nil {
			continue
		}
		projected[p.Name()] = value
	}

	return projected
}

// MarshalJSON returns the JSON encoding of the projected values.
func (m *Model) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.ProjectedValues())
}
