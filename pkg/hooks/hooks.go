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

// Package hooks dispatches lifecycle events to listeners. Listeners of an
// event run one at a time in registration order, so each listener observes
// the effects of the ones before it.
package hooks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/xid"

	"github.com/yorkie-team/odm/pkg/errors"
	"github.com/yorkie-team/odm/pkg/log"
)

var (
	// ErrListenerTimeout is returned when a listener does not return within
	// the timeout of the dispatcher.
	ErrListenerTimeout = errors.DeadlineExceeded("hook listener timed out").WithCode("ErrListenerTimeout")
)

// Listener handles an event. A returned error aborts the dispatch.
type Listener[T any] func(ctx context.Context, payload T) error

type subscription[T any] struct {
	id       string
	listener Listener[T]
}

type options struct {
	timeout time.Duration
	logger  log.Logger
}

// Option configures a Dispatcher.
type Option func(*options)

// WithTimeout bounds the time each listener may take. Zero means no bound.
// The context passed to a listener is cancelled when its time is up.
func WithTimeout(timeout time.Duration) Option {
	return func(o *options) {
		o.timeout = timeout
	}
}

// WithLogger sets the logger of the dispatcher.
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// Dispatcher is a registry of listeners per event.
type Dispatcher[T any] struct {
	mu        sync.RWMutex
	listeners map[string][]subscription[T]

	timeout time.Duration
	logger  log.Logger
}

// New creates a new instance of Dispatcher.
func New[T any](opts ...Option) *Dispatcher[T] {
	o := &options{logger: log.Nop()}
	for _, opt := range opts {
		opt(o)
	}

	return &Dispatcher[T]{
		listeners: make(map[string][]subscription[T]),
		timeout:   o.timeout,
		logger:    o.logger,
	}
}

// On registers the listener to the event and returns the id of the
// registration.
func (d *Dispatcher[T]) On(event string, listener Listener[T]) string {
	d.mu.Lock()
	defer d.mu.Unlock()

	id := xid.New().String()
	d.listeners[event] = append(d.listeners[event], subscription[T]{
		id:       id,
		listener: listener,
	})
	return id
}

// Off removes the registration of the given id. It returns false if there
// is no such registration.
func (d *Dispatcher[T]) Off(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	for event, subs := range d.listeners {
		for i, sub := range subs {
			if sub.id != id {
				continue
			}

			rest := make([]subscription[T], 0, len(subs)-1)
			rest = append(rest, subs[:i]...)
			rest = append(rest, subs[i+1:]...)
			if len(rest) == 0 {
				delete(d.listeners, event)
			} else {
				d.listeners[event] = rest
			}
			return true
		}
	}
	return false
}

// Len returns the number of listeners of the event.
func (d *Dispatcher[T]) Len(event string) int {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return len(d.listeners[event])
}

// Emit runs the listeners of the event with the payload in registration
// order. It stops at the first listener that fails.
func (d *Dispatcher[T]) Emit(ctx context.Context, event string, payload T) error {
	// NOTE: listeners registered while emitting are not called until the
	// next emit.
	d.mu.RLock()
	subs := d.listeners[event]
	d.mu.RUnlock()

	d.logger.Debugf("emit %s to %d listeners", event, len(subs))

	for _, sub := range subs {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := d.call(ctx, sub, payload); err != nil {
			return fmt.Errorf("emit %s: %w", event, err)
		}
	}

	return nil
}

func (d *Dispatcher[T]) call(ctx context.Context, sub subscription[T], payload T) error {
	if d.timeout <= 0 {
		return sub.listener(ctx, payload)
	}

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- sub.listener(ctx, payload)
	}()

	var err error
	select {
	case err = <-done:
	case <-ctx.Done():
		err = ctx.Err()
	}

	if err != nil && ctx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("listener %s after %s: %w", sub.id, d.timeout, ErrListenerTimeout)
	}
	return err
}
