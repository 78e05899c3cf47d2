// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package signalbroker provides a way to listen for OS signals and handle them gracefully.
// By default it listens for os.Interrupt, syscall.SIGINT, syscall.SIGTERM, and syscall.SIGQUIT signals.
//
// The first signal received cancels the invocation through a Controller,
// which terminates every process it is tracking exactly once.
package signalbroker

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/matt-FFFFFF/mfer/internal/ctxlog"
)

var termSignals = []os.Signal{
	syscall.SIGINT,
	syscall.SIGTERM,
	syscall.SIGQUIT,
	os.Interrupt,
}

var (
	installOnce sync.Once
	current     atomic.Pointer[Controller]
)

// New creates a new signal broker that listens for OS signals that should terminate the process.
func New(ctx context.Context, sigs ...os.Signal) chan os.Signal {
	ch := make(chan os.Signal, 1)

	if len(sigs) == 0 {
		sigs = termSignals
	}

	ctxlog.Debug(ctx, "signalbroker", "detail", "creating signal broker", "signals", sigs)
	signal.Notify(ch, sigs...)

	return ch
}

// Install routes process termination signals to c.
// The OS handler is registered once per process; later calls only swap the controller
// that receives the next signal, so repeated invocations never stack handlers.
func Install(ctx context.Context, c *Controller) {
	current.Store(c)

	installOnce.Do(func() {
		ch := New(ctx)

		go func() {
			for sig := range ch {
				dispatch(ctx, sig, current.Load())
			}
		}()
	})
}
