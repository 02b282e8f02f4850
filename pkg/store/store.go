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

// Package store provides an append-only history of snapshots. A Model keeps
// one Store for its values and another for its error messages.
package store

import (
	"reflect"
)

// Snapshot is one immutable entry of a Store, keyed by field name.
type Snapshot[V any] map[string]V

// Store is an append-only ordered list of snapshots. Snapshots are copied on
// the way in and on the way out, so callers can never change the history.
// A Store is owned by a single Model and is not safe for concurrent use.
type Store[V any] struct {
	snapshots []Snapshot[V]
}

// New creates an empty Store.
func New[V any]() *Store[V] {
	return &Store[V]{}
}

// NewWith creates a Store whose first snapshot is the given data.
func NewWith[V any](data map[string]V) *Store[V] {
	s := New[V]()
	s.Set(data)
	return s
}

// Set appends the given data verbatim as a new snapshot.
func (s *Store[V]) Set(data map[string]V) {
	s.snapshots = append(s.snapshots, clone(data))
}

// Add appends a new snapshot made of the last snapshot overridden by the
// fields of partial. On an empty Store it behaves like Set.
func (s *Store[V]) Add(partial map[string]V) {
	merged := s.Get()
	if merged == nil {
		merged = make(map[string]V, len(partial))
	}
	for key, value := range clone(partial) {
		merged[key] = value
	}
	s.snapshots = append(s.snapshots, merged)
}

// Get returns a copy of the last snapshot, or nil if the Store is empty.
func (s *Store[V]) Get() map[string]V {
	if len(s.snapshots) == 0 {
		return nil
	}
	return clone(s.snapshots[len(s.snapshots)-1])
}

// GetInitial returns a copy of the first snapshot, or nil if the Store is
// empty.
func (s *Store[V]) GetInitial() map[string]V {
	if len(s.snapshots) == 0 {
		return nil
	}
	return clone(s.snapshots[0])
}

// Len returns the number of snapshots.
func (s *Store[V]) Len() int {
	return len(s.snapshots)
}

// IsUpdated returns whether at least one snapshot was appended after the
// first one.
func (s *Store[V]) IsUpdated() bool {
	return len(s.snapshots) > 1
}

// IsEmpty returns whether every field of the last snapshot has a zero
// length. It is meant for stores of message lists: a Store without
// snapshots, or whose last snapshot holds only empty lists, is empty.
func IsEmpty[E any](s *Store[[]E]) bool {
	if len(s.snapshots) == 0 {
		return true
	}
	for _, messages := range s.snapshots[len(s.snapshots)-1] {
		if len(messages) > 0 {
			return false
		}
	}
	return true
}

func clone[V any](data map[string]V) Snapshot[V] {
	if data == nil {
		return Snapshot[V]{}
	}

	copied := make(Snapshot[V], len(data))
	for key, value := range data {
		copied[key] = deepCopy(value)
	}
	return copied
}

// deepCopy copies maps and slices recursively. Other values, including
// arrays such as object ids, are copied by assignment.
func deepCopy[V any](value V) V {
	rv := reflect.ValueOf(&value).Elem()
	copied, ok := copyValue(rv).Interface().(V)
	if !ok {
		return value
	}
	return copied
}

func copyValue(rv reflect.Value) reflect.Value {
	switch rv.Kind() {
	case reflect.Interface:
		if rv.IsNil() {
			return rv
		}
		inner := copyValue(rv.Elem())
		wrapped := reflect.New(rv.Type()).Elem()
		wrapped.Set(inner)
		return wrapped
	case reflect.Map:
		if rv.IsNil() {
			return rv
		}
		copied := reflect.MakeMapWithSize(rv.Type(), rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			copied.SetMapIndex(iter.Key(), copyValue(iter.Value()))
		}
		return copied
	case reflect.Slice:
		if rv.IsNil() {
			return rv
		}
		copied := reflect.MakeSlice(rv.Type(), rv.Len(), rv.Len())
		for i := 0; i < rv.Len(); i++ {
			copied.Index(i).Set(copyValue(rv.Index(i)))
		}
		return copied
	default:
		return rv
	}
}
