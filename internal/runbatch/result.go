// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"errors"
	"slices"
	"sync"
	"time"
)

// ResultStatus represents the status of a command result.
type ResultStatus int

const (
	// ResultStatusUnknown indicates no outcome was recorded.
	ResultStatusUnknown ResultStatus = iota
	// ResultStatusSuccess indicates the process exited with code zero.
	ResultStatusSuccess
	// ResultStatusError indicates the process failed to spawn, exited non-zero or was terminated.
	ResultStatusError
	// ResultStatusSkipped indicates the process was never started.
	ResultStatusSkipped
)

// String implements the Stringer interface for ResultStatus.
func (s ResultStatus) String() string {
	switch s {
	case ResultStatusSuccess:
		return "success"
	case ResultStatusError:
		return "error"
	case ResultStatusSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// Result represents the outcome of running one target.
type Result struct {
	Label      string        // Target name
	Cwd        string        // Working directory the process ran in
	ExitCode   int           // Exit code, -1 if the process never exited normally
	Error      error         // Error, if any
	Status     ResultStatus  // Overall status
	Spawned    bool          // Whether a process was started
	Duration   time.Duration // Wall time from spawn to exit
	LastOutput string        // Last line of output, when output was captured
	index      int           // Position in the target list
}

// Succeeded reports whether the target ran and exited with code zero.
func (r *Result) Succeeded() bool {
	return r.Status == ResultStatusSuccess && r.ExitCode == 0 && r.Error == nil
}

// ErrorDetail returns the error text, or an empty string.
func (r *Result) ErrorDetail() string {
	if r.Error == nil {
		return ""
	}

	return r.Error.Error()
}

// RunReport is the ordered collection of results for one invocation.
// Results are appended as targets finish and sorted back into target order by Freeze.
type RunReport struct {
	Results   []*Result
	Cancelled bool // The invocation was interrupted before every target finished

	mu     sync.Mutex
	frozen bool
}

// NewRunReport creates an empty report.
func NewRunReport() *RunReport {
	return &RunReport{Results: make([]*Result, 0)}
}

// Append records a finished target.
func (r *RunReport) Append(res *Result) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return ErrReportFrozen
	}

	r.Results = append(r.Results, res)

	return nil
}

// Freeze sorts the results into target order. No further results can be appended.
func (r *RunReport) Freeze() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return
	}

	r.frozen = true
	slices.SortStableFunc(r.Results, func(a, b *Result) int {
		return a.index - b.index
	})
}

// AllSucceeded reports whether every recorded target succeeded.
func (r *RunReport) AllSucceeded() bool {
	return r.FailureCount() == 0
}

// FailureCount returns the number of targets that did not succeed.
func (r *RunReport) FailureCount() int {
	return len(r.Failures())
}

// Failures returns the results that did not succeed, in report order.
func (r *RunReport) Failures() []*Result {
	r.mu.Lock()
	defer r.mu.Unlock()

	res := make([]*Result, 0)

	for _, v := range r.Results {
		if !v.Succeeded() {
			res = append(res, v)
		}
	}

	return res
}

// Terminated reports whether res was stopped by a signal rather than exiting by itself.
func Terminated(res *Result) bool {
	return errors.Is(res.Error, ErrTerminated)
}
