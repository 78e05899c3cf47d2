// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package signalbroker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

// ErrInterrupted is the cancellation cause recorded when the user interrupts an invocation.
var ErrInterrupted = errors.New("interrupted by signal")

// Terminator is anything the controller can ask to stop, typically a running child process.
type Terminator interface {
	Terminate() error
}

// TerminatorFunc adapts a function to the Terminator interface.
type TerminatorFunc func() error

// Terminate calls f.
func (f TerminatorFunc) Terminate() error {
	return f()
}

// Controller records the processes spawned during one invocation and stops them all on cancellation.
// It is safe for concurrent use. A nil *Controller tracks nothing and is never cancelled.
type Controller struct {
	mu        sync.Mutex
	running   map[uint64]Terminator
	nextID    uint64
	cancelled atomic.Bool
	once      sync.Once
	cancel    context.CancelCauseFunc
}

type controllerKey struct{}

// NewController returns a controller and a context that is cancelled, with cause ErrInterrupted,
// when the controller is.
func NewController(ctx context.Context) (context.Context, *Controller) {
	ctx, cancel := context.WithCancelCause(ctx)
	c := &Controller{
		running: make(map[uint64]Terminator),
		cancel:  cancel,
	}

	return NewContext(ctx, c), c
}

// NewContext returns a context carrying c.
func NewContext(ctx context.Context, c *Controller) context.Context {
	return context.WithValue(ctx, controllerKey{}, c)
}

// FromContext returns the controller in ctx, or nil.
func FromContext(ctx context.Context) *Controller {
	c, _ := ctx.Value(controllerKey{}).(*Controller)
	return c
}

// Track registers t as running. The returned func removes it again and must be called
// once the process has exited. If the controller is already cancelled, t is terminated immediately.
func (c *Controller) Track(t Terminator) (untrack func()) {
	if c == nil || t == nil {
		return func() {}
	}

	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.running[id] = t
	c.mu.Unlock()

	if c.cancelled.Load() {
		terminate(t)
	}

	return func() {
		c.mu.Lock()
		delete(c.running, id)
		c.mu.Unlock()
	}
}

// Cancelled reports whether Cancel has been called.
func (c *Controller) Cancelled() bool {
	if c == nil {
		return false
	}

	return c.cancelled.Load()
}

// Cancel marks the invocation as cancelled and terminates every tracked process.
// Only the first call has any effect.
func (c *Controller) Cancel() {
	if c == nil {
		return
	}

	c.once.Do(func() {
		c.cancelled.Store(true)

		if c.cancel != nil {
			c.cancel(ErrInterrupted)
		}

		c.mu.Lock()
		snapshot := make([]Terminator, 0, len(c.running))

		for _, t := range c.running {
			snapshot = append(snapshot, t)
		}
		c.mu.Unlock()

		for _, t := range snapshot {
			terminate(t)
		}
	})
}

// Running returns the number of processes currently tracked.
func (c *Controller) Running() int {
	if c == nil {
		return 0
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.running)
}

// terminate ignores errors: a process that already exited reports os.ErrProcessDone
// and there is nothing more to do for one that cannot be signalled.
func terminate(t Terminator) {
	_ = t.Terminate()
}
