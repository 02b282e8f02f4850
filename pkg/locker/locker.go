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

// Package locker provides mutexes keyed by name. A mutex lives only while
// someone holds or waits for it.
package locker

import (
	"sync"
)

type entry struct {
	mu   sync.Mutex
	refs int
}

// Locker is a set of mutexes keyed by name.
type Locker struct {
	mu      sync.Mutex
	entries map[string]*entry
}

// New creates a new instance of Locker.
func New() *Locker {
	return &Locker{
		entries: make(map[string]*entry),
	}
}

// Lock locks the mutex of the given name and returns the function that
// unlocks it. The returned function must be called exactly once.
func (l *Locker) Lock(name string) func() {
	l.mu.Lock()
	e, ok := l.entries[name]
	if !ok {
		e = &entry{}
		l.entries[name] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()

	var once sync.Once
	return func() {
		once.Do(func() {
			e.mu.Unlock()

			l.mu.Lock()
			defer l.mu.Unlock()
			e.refs--
			if e.refs == 0 {
				delete(l.entries, name)
			}
		})
	}
}

// Len returns the number of mutexes held or waited for.
func (l *Locker) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.entries)
}
