// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"context"

	"github.com/matt-FFFFFF/mfer/internal/ctxlog"
	"github.com/matt-FFFFFF/mfer/internal/progress"
	"github.com/matt-FFFFFF/mfer/internal/signalbroker"
)

var _ Batch = (*SerialBatch)(nil)

// SerialBatch runs its commands one after another, in order.
// A failing command does not stop the batch. Once the controller is cancelled
// no further command is started.
type SerialBatch struct {
	Label      string
	Commands   []Runnable
	Controller *signalbroker.Controller
	Reporter   progress.Reporter
}

// Run implements the Batch interface for SerialBatch.
func (b *SerialBatch) Run(ctx context.Context) *RunReport {
	logger := ctxlog.Logger(ctx).With("runnableType", "SerialBatch", "label", b.Label)
	report := NewRunReport()

	for i, cmd := range b.Commands {
		if b.Controller.Cancelled() || ctx.Err() != nil {
			logger.Debug("cancelled, not starting remaining commands", "remaining", len(b.Commands)-i)

			for _, skipped := range b.Commands[i:] {
				reportSkipped(b.Reporter, skipped)
			}

			report.Cancelled = true

			break
		}

		reportStarted(b.Reporter, cmd)

		res := cmd.Run(ctx)
		res.index = i

		reportFinished(b.Reporter, res)

		_ = report.Append(res)
	}

	if b.Controller.Cancelled() {
		report.Cancelled = true
	}

	report.Freeze()

	return report
}
