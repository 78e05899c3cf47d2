// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunReport_FreezeSortsByIndex(t *testing.T) {
	r := NewRunReport()
	require.NoError(t, r.Append(&Result{Label: "c", index: 2, Status: ResultStatusSuccess}))
	require.NoError(t, r.Append(&Result{Label: "a", index: 0, Status: ResultStatusError, ExitCode: 1}))
	require.NoError(t, r.Append(&Result{Label: "b", index: 1, Status: ResultStatusSuccess}))

	r.Freeze()

	labels := make([]string, 0, 3)
	for _, res := range r.Results {
		labels = append(labels, res.Label)
	}

	assert.Equal(t, []string{"a", "b", "c"}, labels)
	require.ErrorIs(t, r.Append(&Result{}), ErrReportFrozen)
	assert.Len(t, r.Results, 3)
}

func TestRunReport_Failures(t *testing.T) {
	r := NewRunReport()
	_ = r.Append(&Result{Label: "ok", Status: ResultStatusSuccess})
	_ = r.Append(&Result{Label: "exit", Status: ResultStatusError, ExitCode: 1, index: 1})
	_ = r.Append(&Result{Label: "spawn", Status: ResultStatusError, ExitCode: -1, Error: ErrCouldNotStartProcess, index: 2})
	r.Freeze()

	assert.False(t, r.AllSucceeded())
	assert.Equal(t, 2, r.FailureCount())
	assert.Equal(t, "exit", r.Failures()[0].Label)
	assert.Equal(t, "spawn", r.Failures()[1].Label)
}

func TestRunReport_EmptySucceeds(t *testing.T) {
	r := NewRunReport()
	r.Freeze()
	assert.True(t, r.AllSucceeded())
	assert.Equal(t, 0, r.FailureCount())
}

func TestResult_Succeeded(t *testing.T) {
	assert.True(t, (&Result{Status: ResultStatusSuccess}).Succeeded())
	assert.False(t, (&Result{Status: ResultStatusSuccess, ExitCode: 1}).Succeeded())
	assert.False(t, (&Result{Status: ResultStatusSuccess, Error: errors.New("x")}).Succeeded())
	assert.False(t, (&Result{Status: ResultStatusSkipped}).Succeeded())
}

func TestResult_ErrorDetail(t *testing.T) {
	assert.Empty(t, (&Result{}).ErrorDetail())
	assert.Equal(t, "process terminated", (&Result{Error: ErrTerminated}).ErrorDetail())
	assert.True(t, Terminated(&Result{Error: errors.Join(ErrTerminated, ErrSiblingExited)}))
}

func TestResultStatus_String(t *testing.T) {
	assert.Equal(t, "success", ResultStatusSuccess.String())
	assert.Equal(t, "error", ResultStatusError.String())
	assert.Equal(t, "skipped", ResultStatusSkipped.String())
	assert.Equal(t, "unknown", ResultStatusUnknown.String())
}
