// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package signalbroker

import (
	"context"
	"os"

	"github.com/matt-FFFFFF/mfer/internal/ctxlog"
)

// Watch monitors the signal channel and cancels c on the first signal received.
// Later signals are no-ops. It returns when sigCh is closed or ctx is done.
func Watch(ctx context.Context, sigCh <-chan os.Signal, c *Controller) {
	for {
		select {
		case <-ctx.Done():
			return
		case sig, ok := <-sigCh:
			if !ok {
				return
			}

			dispatch(ctx, sig, c)
		}
	}
}

// dispatch cancels c unless an earlier signal already did.
func dispatch(ctx context.Context, sig os.Signal, c *Controller) {
	if c == nil {
		return
	}

	if c.Cancelled() {
		ctxlog.Info(ctx, "watchdog", "detail", "already cancelled, ignoring signal", "signal", sig.String())
		return
	}

	ctxlog.Info(ctx, "watchdog", "detail", "received signal, cancelling", "signal", sig.String())
	c.Cancel()
}
