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

// Package cmap provides a map that is safe for multiple goroutines.
package cmap

import (
	"sync"
)

// Map is a map guarded by a read-write mutex.
type Map[K comparable, V any] struct {
	mu    sync.RWMutex
	items map[K]V
}

// New creates a new Map.
func New[K comparable, V any]() *Map[K, V] {
	return &Map[K, V]{
		items: make(map[K]V),
	}
}

// Get retrieves the value of the key.
func (m *Map[K, V]) Get(key K) (V, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.items[key]
	return value, ok
}

// GetOrCreate returns the value of the key, creating it with the given
// function if the key is absent. The function runs under the lock, so it is
// called at most once per key. The second result reports whether the value
// was created.
func (m *Map[K, V]) GetOrCreate(key K, create func() V) (V, bool) {
	if value, ok := m.Get(key); ok {
		return value, false
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if value, ok := m.items[key]; ok {
		return value, false
	}
	value := create()
	m.items[key] = value
	return value, true
}

// Delete removes the key and reports whether it was present.
func (m *Map[K, V]) Delete(key K) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.items[key]
	delete(m.items, key)
	return ok
}

// Len returns the number of keys.
func (m *Map[K, V]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.items)
}

// Keys returns the keys in no particular order.
func (m *Map[K, V]) Keys() []K {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]K, 0, len(m.items))
	for key := range m.items {
		keys = append(keys, key)
	}
	return keys
}
