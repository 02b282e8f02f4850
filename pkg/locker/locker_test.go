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

package locker_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/yorkie-team/odm/pkg/locker"
)

func TestLocker(t *testing.T) {
	t.Run("lock and unlock test", func(t *testing.T) {
		l := locker.New()
		unlock := l.Lock("user")
		assert.Equal(t, 1, l.Len())

		unlock()
		unlock()
		assert.Equal(t, 0, l.Len())
	})

	t.Run("independent names test", func(t *testing.T) {
		l := locker.New()
		unlockUser := l.Lock("user")
		defer unlockUser()

		done := make(chan struct{})
		go func() {
			unlock := l.Lock("post")
			unlock()
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("lock of another name is blocked")
		}
	})

	t.Run("mutual exclusion test", func(t *testing.T) {
		l := locker.New()
		var wg sync.WaitGroup
		counter := 0

		for i := 0; i < 100; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				unlock := l.Lock("user")
				defer unlock()
				counter++
			}()
		}
		wg.Wait()

		assert.Equal(t, 100, counter)
		assert.Equal(t, 0, l.Len())
	})
}
