// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package report

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/matt-FFFFFF/mfer/internal/color"
	"github.com/matt-FFFFFF/mfer/internal/runbatch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var installSummary = Summary{
	Noun:    "MFE",
	Verb:    "install",
	Success: "All installs completed successfully.",
	Failure: "One or more installs failed.",
}

func newReport(t *testing.T, results ...*runbatch.Result) *runbatch.RunReport {
	t.Helper()

	r := runbatch.NewRunReport()
	for _, res := range results {
		require.NoError(t, r.Append(res))
	}

	r.Freeze()

	return r
}

func ok(name string) *runbatch.Result {
	return &runbatch.Result{Label: name, Cwd: "/src/" + name, Status: runbatch.ResultStatusSuccess, Spawned: true}
}

func exited(name string, code int) *runbatch.Result {
	return &runbatch.Result{Label: name, Cwd: "/src/" + name, Status: runbatch.ResultStatusError, Spawned: true, ExitCode: code}
}

func TestRender_AllSucceeded(t *testing.T) {
	color.SetEnabled(false)

	buf := &bytes.Buffer{}
	code := Render(buf, newReport(t, ok("mfe1"), ok("mfe2")), installSummary)

	assert.Equal(t, ExitOK, code)
	assert.Equal(t, "All installs completed successfully.\n", buf.String())
}

func TestRender_Failures(t *testing.T) {
	color.SetEnabled(false)

	spawnFail := &runbatch.Result{
		Label:    "mfe3",
		Cwd:      "/src/mfe3",
		Status:   runbatch.ResultStatusError,
		ExitCode: -1,
		Error:    errors.Join(runbatch.ErrCouldNotStartProcess, errors.New("chdir /src/mfe3: no such file or directory")),
	}

	buf := &bytes.Buffer{}
	code := Render(buf, newReport(t, ok("mfe1"), exited("mfe2", 1), spawnFail), installSummary)

	assert.Equal(t, ExitFailure, code)
	assert.Equal(t, "One or more installs failed.\n"+
		"  MFE mfe2 failed to install (cwd: /src/mfe2) with exit code 1\n"+
		"  MFE mfe3 failed to install (cwd: /src/mfe3): could not start process: chdir /src/mfe3: no such file or directory\n",
		buf.String())
}

func TestRender_Terminated(t *testing.T) {
	color.SetEnabled(false)

	killed := &runbatch.Result{
		Label:    "mfe1",
		Cwd:      "/src/mfe1",
		Status:   runbatch.ResultStatusError,
		Spawned:  true,
		ExitCode: -1,
		Error:    errors.Join(runbatch.ErrTerminated, runbatch.ErrSiblingExited),
	}

	line := FailureLine(killed, Summary{Verb: "run"})
	assert.Equal(t, "  mfe1 failed to run (cwd: /src/mfe1): process terminated: sibling process exited", line)
}

func TestRender_ShowOutput(t *testing.T) {
	color.SetEnabled(false)

	r := exited("mfe1", 2)
	r.LastOutput = "npm ERR! missing script: start"

	buf := &bytes.Buffer{}
	s := installSummary
	s.ShowOutput = true
	Render(buf, newReport(t, r), s)

	assert.Contains(t, buf.String(), "    last output: npm ERR! missing script: start\n")
}

func TestRender_CancelledPrintsNothing(t *testing.T) {
	rep := newReport(t, exited("mfe1", 1))
	rep.Cancelled = true

	buf := &bytes.Buffer{}
	assert.Equal(t, ExitInterrupted, Render(buf, rep, installSummary))
	assert.Empty(t, buf.String())
	assert.Equal(t, ExitInterrupted, Render(buf, nil, installSummary))
}

func TestRender_DefaultsAndOrder(t *testing.T) {
	color.SetEnabled(false)

	buf := &bytes.Buffer{}
	code := Render(buf, newReport(t, exited("b", 3), exited("a", 4)), Summary{})
	assert.Equal(t, ExitFailure, code)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "One or more commands failed.", lines[0])
	assert.Contains(t, lines[1], "b failed to run")
	assert.Contains(t, lines[2], "a failed to run")
}

func TestParseFailures_RoundTrip(t *testing.T) {
	color.SetEnabled(true)
	defer color.SetEnabled(false)

	spawnFail := &runbatch.Result{
		Label:    "mfe4",
		Cwd:      "/path with spaces/mfe4",
		Status:   runbatch.ResultStatusError,
		ExitCode: -1,
		Error:    runbatch.ErrCouldNotStartProcess,
	}

	rep := newReport(t, exited("mfe1", 1), ok("mfe2"), exited("mfe3", 127), spawnFail)

	buf := &bytes.Buffer{}
	Render(buf, rep, installSummary)

	got, err := ParseFailures(buf)
	require.NoError(t, err)

	want := make([]Failure, 0)
	for _, f := range rep.Failures() {
		want = append(want, Failure{Target: f.Label, Cwd: f.Cwd, ExitCode: f.ExitCode})
	}

	require.Len(t, got, len(want))

	for i := range want {
		assert.Equal(t, want[i].Target, got[i].Target)
		assert.Equal(t, want[i].Cwd, got[i].Cwd)
		assert.Equal(t, want[i].ExitCode, got[i].ExitCode)
	}

	assert.Equal(t, "could not start process", got[2].Detail)
}
