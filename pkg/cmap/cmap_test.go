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

package cmap_test

import (
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yorkie-team/odm/pkg/cmap"
)

func TestMap(t *testing.T) {
	t.Run("get or create test", func(t *testing.T) {
		m := cmap.New[string, int]()

		value, created := m.GetOrCreate("a", func() int { return 1 })
		assert.True(t, created)
		assert.Equal(t, 1, value)

		value, created = m.GetOrCreate("a", func() int { return 2 })
		assert.False(t, created)
		assert.Equal(t, 1, value)

		got, ok := m.Get("a")
		assert.True(t, ok)
		assert.Equal(t, 1, got)
		assert.Equal(t, []string{"a"}, m.Keys())
	})

	t.Run("delete test", func(t *testing.T) {
		m := cmap.New[string, int]()
		m.GetOrCreate("a", func() int { return 1 })

		assert.True(t, m.Delete("a"))
		assert.False(t, m.Delete("a"))
		assert.Equal(t, 0, m.Len())
	})

	t.Run("concurrent get or create test", func(t *testing.T) {
		m := cmap.New[string, int]()
		var wg sync.WaitGroup
		var mu sync.Mutex
		calls := 0

		for i := 0; i < 100; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				m.GetOrCreate(strconv.Itoa(i%10), func() int {
					mu.Lock()
					defer mu.Unlock()
					calls++
					return i
				})
			}(i)
		}
		wg.Wait()

		assert.Equal(t, 10, m.Len())
		assert.Equal(t, 10, calls)
	})
}
