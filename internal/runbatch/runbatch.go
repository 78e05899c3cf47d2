// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"errors"
)

var (
	// ErrEmptyCommand is returned when the command line is empty or only whitespace.
	ErrEmptyCommand = errors.New("custom command cannot be empty")
	// ErrAsyncWithoutCommand is returned when concurrency is requested without an explicit command.
	ErrAsyncWithoutCommand = errors.New("--async can only be used with --command option")
	// ErrInvalidMode is returned for an unknown execution mode.
	ErrInvalidMode = errors.New("invalid execution mode")
	// ErrInvalidKillTrigger is returned for an unknown kill-others trigger.
	ErrInvalidKillTrigger = errors.New("invalid kill-others trigger, must be one of: never, failure, exit")
	// ErrCouldNotStartProcess is returned when the process could not be started.
	ErrCouldNotStartProcess = errors.New("could not start process")
	// ErrFailedToCreatePipe is returned when the operating system pipe could not be created.
	ErrFailedToCreatePipe = errors.New("failed to create pipe")
	// ErrTerminated is recorded for a process that was stopped before it exited by itself.
	ErrTerminated = errors.New("process terminated")
	// ErrSiblingExited is the cancellation cause when another target in a concurrent batch
	// hit the kill-others trigger.
	ErrSiblingExited = errors.New("sibling process exited")
	// ErrNotStarted is recorded for a target whose context was done before it could be spawned.
	ErrNotStarted = errors.New("not started")
	// ErrReportFrozen is returned when appending to a frozen report.
	ErrReportFrozen = errors.New("report is frozen")
)

// IsUsage reports whether err is an invalid invocation, detected before anything is spawned.
func IsUsage(err error) bool {
	return errors.Is(err, ErrEmptyCommand) ||
		errors.Is(err, ErrAsyncWithoutCommand) ||
		errors.Is(err, ErrInvalidMode) ||
		errors.Is(err, ErrInvalidKillTrigger)
}
