// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"context"
)

// Runnable is a single unit of work that produces exactly one Result.
type Runnable interface {
	// Run executes the command and returns its result. It must never return nil.
	// It should stop the spawned process when ctx is done.
	Run(context.Context) *Result
	// GetLabel returns the label of the command.
	GetLabel() string
	// GetCwd returns the working directory of the command.
	GetCwd() string
}

// Batch runs a collection of Runnables.
type Batch interface {
	Run(context.Context) *RunReport
}
