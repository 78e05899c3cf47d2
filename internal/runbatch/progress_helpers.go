// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"time"

	"github.com/matt-FFFFFF/mfer/internal/progress"
)

func reportStarted(r progress.Reporter, cmd Runnable) {
	if r == nil {
		return
	}

	r.Report(progress.Event{
		Target:    cmd.GetLabel(),
		Cwd:       cmd.GetCwd(),
		Type:      progress.EventStarted,
		Timestamp: time.Now(),
	})
}

func reportSkipped(r progress.Reporter, cmd Runnable) {
	if r == nil {
		return
	}

	r.Report(progress.Event{
		Target:    cmd.GetLabel(),
		Cwd:       cmd.GetCwd(),
		Type:      progress.EventSkipped,
		ExitCode:  -1,
		Timestamp: time.Now(),
	})
}

func reportFinished(r progress.Reporter, res *Result) {
	if r == nil {
		return
	}

	typ := progress.EventCompleted
	if !res.Succeeded() {
		typ = progress.EventFailed
	}

	r.Report(progress.Event{
		Target:    res.Label,
		Cwd:       res.Cwd,
		Type:      typ,
		ExitCode:  res.ExitCode,
		Err:       res.Error,
		Timestamp: time.Now(),
		Duration:  res.Duration,
	})
}
