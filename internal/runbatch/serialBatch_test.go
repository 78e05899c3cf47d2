// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"context"
	"testing"

	"github.com/matt-FFFFFF/mfer/internal/progress"
	"github.com/matt-FFFFFF/mfer/internal/signalbroker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerialBatch_RunsInOrderAndWaits(t *testing.T) {
	log := &spawnLog{}
	b := &SerialBatch{
		Commands: []Runnable{
			exitWith(log, "mfe1", 0),
			exitWith(log, "mfe2", 1),
			exitWith(log, "mfe3", 0),
		},
	}

	report := b.Run(context.Background())

	assert.Equal(t, []string{
		"start mfe1", "end mfe1",
		"start mfe2", "end mfe2",
		"start mfe3", "end mfe3",
	}, log.get())
	require.Len(t, report.Results, 3)
	assert.False(t, report.Cancelled)
	assert.Equal(t, 1, report.FailureCount())
	assert.Equal(t, "mfe2", report.Failures()[0].Label)
}

func TestSerialBatch_StopsSchedulingWhenCancelled(t *testing.T) {
	_, c := signalbroker.NewController(context.Background())
	log := &spawnLog{}

	var events []progress.Event

	first := &fakeCmd{label: "mfe1", cwd: "/src/mfe1", fn: func(context.Context) (int, error) {
		log.add("start mfe1")
		c.Cancel()

		return -1, ErrTerminated
	}}

	b := &SerialBatch{
		Commands:   []Runnable{first, exitWith(log, "mfe2", 0), exitWith(log, "mfe3", 0)},
		Controller: c,
		Reporter:   progress.ReporterFunc(func(e progress.Event) { events = append(events, e) }),
	}

	report := b.Run(context.Background())

	assert.Equal(t, []string{"start mfe1"}, log.get())
	assert.True(t, report.Cancelled)
	require.Len(t, report.Results, 1)
	assert.Equal(t, "mfe1", report.Results[0].Label)

	types := make([]string, 0, len(events))
	for _, e := range events {
		types = append(types, e.Target+":"+e.Type.String())
	}

	assert.Equal(t, []string{"mfe1:started", "mfe1:failed", "mfe2:skipped", "mfe3:skipped"}, types)
}

func TestSerialBatch_ContextDone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	log := &spawnLog{}
	report := (&SerialBatch{Commands: []Runnable{exitWith(log, "mfe1", 0)}}).Run(ctx)

	assert.Empty(t, log.get())
	assert.True(t, report.Cancelled)
	assert.Empty(t, report.Results)
}
