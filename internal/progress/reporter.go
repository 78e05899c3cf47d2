// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package progress

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/matt-FFFFFF/mfer/internal/color"
	"github.com/matt-FFFFFF/mfer/internal/ctxlog"
)

// Console prints a banner when a target starts and, optionally, a line when it fails.
//
//	[mfe1] Running 'npm install' in /src/mfe1
type Console struct {
	W io.Writer
	// Action describes what runs, e.g. "Running 'npm install'". No banner is printed when empty.
	Action string
	// Failed is printed after a failing target's name, e.g. "failed to install".
	// No failure line is printed when empty.
	Failed string
	// Completed is printed after a successful target's name, e.g. "installed successfully".
	Completed string

	mu sync.Mutex
}

// Report implements Reporter.
func (c *Console) Report(event Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch event.Type {
	case EventStarted:
		if c.Action == "" {
			return
		}

		fmt.Fprintf(c.W, "%s %s in %s\n", color.Blue("["+event.Target+"]"), c.Action, event.Cwd) //nolint:errcheck
	case EventCompleted:
		if c.Completed == "" {
			return
		}

		fmt.Fprintf(c.W, "  %s %s (cwd: %s)\n\n", color.Green(event.Target), c.Completed, event.Cwd) //nolint:errcheck
	case EventFailed:
		if c.Failed == "" {
			return
		}

		if event.ExitCode >= 0 {
			fmt.Fprintf(c.W, "  %s %s (cwd: %s) with exit code %d\n", //nolint:errcheck
				color.Red(event.Target), c.Failed, event.Cwd, event.ExitCode)

			return
		}

		fmt.Fprintf(c.W, "  %s %s (cwd: %s): %v\n", color.Red(event.Target), c.Failed, event.Cwd, event.Err) //nolint:errcheck
	}
}

// Log writes every event to the context logger at debug level.
type Log struct {
	Ctx context.Context //nolint:containedctx
}

// Report implements Reporter.
func (l Log) Report(event Event) {
	args := []any{
		"target", event.Target,
		"cwd", event.Cwd,
		"event", event.Type.String(),
	}

	if event.Type.Terminal() {
		args = append(args, "exit_code", event.ExitCode, "duration", event.Duration.String())
	}

	if event.Err != nil {
		args = append(args, "error", event.Err.Error())
	}

	ctxlog.Debug(l.Ctx, "progress", args...)
}
