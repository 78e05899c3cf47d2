// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package progress

import (
	"time"
)

// Event represents a lifecycle update for one target.
type Event struct {
	Target    string        // Target name
	Cwd       string        // Working directory of the process
	Type      EventType     // Event type indicating what happened
	ExitCode  int           // Exit code, for EventCompleted and EventFailed. -1 if the process never exited normally
	Err       error         // Error if the target failed
	Timestamp time.Time     // When the event occurred
	Duration  time.Duration // Time since start, for terminal events
}

// EventType represents the type of progress event.
type EventType int

const (
	// EventStarted indicates the target's process was spawned.
	EventStarted EventType = iota
	// EventCompleted indicates successful completion.
	EventCompleted
	// EventFailed indicates the target failed to spawn or exited unsuccessfully.
	EventFailed
	// EventSkipped indicates the target was never started because the run was cancelled.
	EventSkipped
)

// String implements the Stringer interface for EventType.
func (et EventType) String() string {
	switch et {
	case EventStarted:
		return "started"
	case EventCompleted:
		return "completed"
	case EventFailed:
		return "failed"
	case EventSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further events follow for the target.
func (et EventType) Terminal() bool {
	return et != EventStarted
}

// Reporter is the interface for sending progress events.
// Report is called from the goroutine running the target and must be safe for concurrent use.
type Reporter interface {
	Report(event Event)
}

// ReporterFunc adapts a function to the Reporter interface.
type ReporterFunc func(Event)

// Report calls f.
func (f ReporterFunc) Report(event Event) {
	f(event)
}

// NullReporter is a no-op implementation of Reporter.
type NullReporter struct{}

// Report implements Reporter by doing nothing.
func (NullReporter) Report(Event) {}

// Multi fans an event out to several reporters in order.
type Multi []Reporter

// Report implements Reporter.
func (m Multi) Report(event Event) {
	for _, r := range m {
		if r != nil {
			r.Report(event)
		}
	}
}
