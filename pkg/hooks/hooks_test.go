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

package hooks_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/yorkie-team/odm/pkg/hooks"
)

type payload struct {
	mu    sync.Mutex
	calls []string
}

func (p *payload) record(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, name)
}

func TestDispatcher(t *testing.T) {
	ctx := context.Background()

	t.Run("sequential order test", func(t *testing.T) {
		d := hooks.New[*payload]()

		d.On("beforeSave", func(ctx context.Context, p *payload) error {
			time.Sleep(20 * time.Millisecond)
			p.record("first")
			return nil
		})
		d.On("beforeSave", func(ctx context.Context, p *payload) error {
			// The first listener has finished before this one starts.
			assert.Equal(t, []string{"first"}, p.calls)
			p.record("second")
			return nil
		})
		d.On("afterSave", func(ctx context.Context, p *payload) error {
			p.record("other event")
			return nil
		})

		p := &payload{}
		assert.NoError(t, d.Emit(ctx, "beforeSave", p))
		assert.Equal(t, []string{"first", "second"}, p.calls)
		assert.Equal(t, 2, d.Len("beforeSave"))
	})

	t.Run("listener error test", func(t *testing.T) {
		d := hooks.New[*payload]()
		errBoom := errors.New("boom")

		d.On("beforeSave", func(ctx context.Context, p *payload) error {
			return errBoom
		})
		d.On("beforeSave", func(ctx context.Context, p *payload) error {
			p.record("never")
			return nil
		})

		p := &payload{}
		err := d.Emit(ctx, "beforeSave", p)
		assert.ErrorIs(t, err, errBoom)
		assert.Empty(t, p.calls)
	})

	t.Run("off test", func(t *testing.T) {
		d := hooks.New[*payload]()
		id := d.On("beforeSave", func(ctx context.Context, p *payload) error {
			p.record("removed")
			return nil
		})
		d.On("beforeSave", func(ctx context.Context, p *payload) error {
			p.record("kept")
			return nil
		})

		assert.True(t, d.Off(id))
		assert.False(t, d.Off(id))

		p := &payload{}
		assert.NoError(t, d.Emit(ctx, "beforeSave", p))
		assert.Equal(t, []string{"kept"}, p.calls)
	})

	t.Run("no listener test", func(t *testing.T) {
		d := hooks.New[*payload]()
		assert.NoError(t, d.Emit(ctx, "beforeSave", &payload{}))
		assert.Equal(t, 0, d.Len("beforeSave"))
	})

	t.Run("timeout test", func(t *testing.T) {
		d := hooks.New[*payload](hooks.WithTimeout(20 * time.Millisecond))
		d.On("beforeSave", func(ctx context.Context, p *payload) error {
			time.Sleep(200 * time.Millisecond)
			return nil
		})

		err := d.Emit(ctx, "beforeSave", &payload{})
		assert.ErrorIs(t, err, hooks.ErrListenerTimeout)
	})

	t.Run("within timeout test", func(t *testing.T) {
		d := hooks.New[*payload](hooks.WithTimeout(time.Second))
		d.On("beforeSave", func(ctx context.Context, p *payload) error {
			p.record("fast")
			return nil
		})

		p := &payload{}
		assert.NoError(t, d.Emit(ctx, "beforeSave", p))
		assert.Equal(t, []string{"fast"}, p.calls)
	})

	t.Run("cancelled context test", func(t *testing.T) {
		d := hooks.New[*payload]()
		d.On("beforeSave", func(ctx context.Context, p *payload) error {
			p.record("never")
			return nil
		})

		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		p := &payload{}
		assert.ErrorIs(t, d.Emit(cancelled, "beforeSave", p), context.Canceled)
		assert.Empty(t, p.calls)
	})
}
