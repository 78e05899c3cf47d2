// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matt-FFFFFF/mfer/internal/color"
	"github.com/matt-FFFFFF/mfer/internal/signalbroker"
	"github.com/matt-FFFFFF/mfer/internal/target"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvocation_Spec(t *testing.T) {
	runDefaults := Invocation{
		DefaultCommand:      "npm start",
		DefaultMode:         ModeConcurrent,
		DefaultKillOthersOn: KillOthersOnExit,
	}

	tests := []struct {
		name    string
		mod     func(i *Invocation)
		want    ExecutionSpec
		wantErr error
	}{
		{
			name: "defaults",
			mod:  func(*Invocation) {},
			want: ExecutionSpec{CommandLine: "npm start", Mode: ModeConcurrent, KillOthersOn: KillOthersOnExit},
		},
		{
			name: "custom command runs sequentially",
			mod: func(i *Invocation) {
				i.Command, i.CommandSet = "  npm run lint ", true
			},
			want: ExecutionSpec{CommandLine: "npm run lint", Mode: ModeSequential, KillOthersOn: KillOthersOnFailure},
		},
		{
			name: "custom command async",
			mod: func(i *Invocation) {
				i.Command, i.CommandSet, i.Async = "npm test", true, true
			},
			want: ExecutionSpec{CommandLine: "npm test", Mode: ModeConcurrent, KillOthersOn: KillOthersOnFailure},
		},
		{
			name: "explicit kill trigger",
			mod: func(i *Invocation) {
				i.Command, i.CommandSet, i.Async, i.KillOthersOn = "npm test", true, true, "never"
			},
			want: ExecutionSpec{CommandLine: "npm test", Mode: ModeConcurrent, KillOthersOn: KillOthersNever},
		},
		{
			name:    "whitespace command",
			mod:     func(i *Invocation) { i.Command, i.CommandSet = "   ", true },
			wantErr: ErrEmptyCommand,
		},
		{
			name:    "async without command",
			mod:     func(i *Invocation) { i.Async = true },
			wantErr: ErrAsyncWithoutCommand,
		},
		{
			name:    "bad kill trigger",
			mod:     func(i *Invocation) { i.KillOthersOn = "sometimes" },
			wantErr: ErrInvalidKillTrigger,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := runDefaults
			tt.mod(&inv)

			got, err := inv.Spec()
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.True(t, IsUsage(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExecutionSpec_Validate(t *testing.T) {
	require.NoError(t, ExecutionSpec{CommandLine: "true"}.Validate())
	require.ErrorIs(t, ExecutionSpec{CommandLine: " \t"}.Validate(), ErrEmptyCommand)
	require.ErrorIs(t, ExecutionSpec{CommandLine: "true", Mode: Mode(7)}.Validate(), ErrInvalidMode)
}

func TestKillTrigger(t *testing.T) {
	for _, s := range []string{"never", "failure", "exit"} {
		kt, err := ParseKillTrigger(s)
		require.NoError(t, err)
		assert.Equal(t, s, kt.String())
	}

	ok := &Result{Status: ResultStatusSuccess}
	bad := &Result{Status: ResultStatusError, ExitCode: 1}

	assert.False(t, KillOthersNever.Triggered(bad))
	assert.False(t, KillOthersOnFailure.Triggered(ok))
	assert.True(t, KillOthersOnFailure.Triggered(bad))
	assert.True(t, KillOthersOnExit.Triggered(ok))
	assert.Equal(t, "sequential", ModeSequential.String())
	assert.Equal(t, "concurrent", ModeConcurrent.String())
}

func TestExpandCommand(t *testing.T) {
	got := ExpandCommand("echo {name} in {dir}", target.Target{Name: "mfe1", Dir: "/src/mfe1"})
	assert.Equal(t, "echo mfe1 in /src/mfe1", got)
}

func countingEngine(spawns *atomic.Int32, codes map[string]int) *Engine {
	e := NewEngine(nil)
	e.Stdout = io.Discard
	e.Stderr = io.Discard
	e.NewCommand = func(tg target.Target, _ string, _ io.Writer) Runnable {
		return &fakeCmd{label: tg.Name, cwd: tg.Dir, fn: func(context.Context) (int, error) {
			spawns.Add(1)
			return codes[tg.Name], nil
		}}
	}

	return e
}

func TestEngine_HomeGroupSequential(t *testing.T) {
	groups := map[string][]string{"home": {"mfe1", "mfe2"}}
	names, err := target.Resolve(groups, "home")
	require.NoError(t, err)

	var spawns atomic.Int32

	e := countingEngine(&spawns, map[string]int{"mfe1": 0, "mfe2": 1})

	report, err := e.Run(context.Background(), target.Targets("/src", names),
		ExecutionSpec{CommandLine: "npm install", Mode: ModeSequential})
	require.NoError(t, err)

	assert.Equal(t, int32(2), spawns.Load())
	assert.False(t, report.AllSucceeded())
	assert.Equal(t, 1, report.FailureCount())
	assert.Equal(t, "mfe2", report.Failures()[0].Label)
	assert.Equal(t, 1, report.Failures()[0].ExitCode)
}

func TestEngine_InvalidSpecSpawnsNothing(t *testing.T) {
	var spawns atomic.Int32

	e := countingEngine(&spawns, nil)

	report, err := e.Run(context.Background(), target.Targets("/src", []string{"a", "b"}),
		ExecutionSpec{CommandLine: "   ", Mode: ModeConcurrent})
	require.ErrorIs(t, err, ErrEmptyCommand)
	assert.Nil(t, report)
	assert.Equal(t, int32(0), spawns.Load())
}

func makeTargets(t *testing.T, names ...string) []target.Target {
	t.Helper()

	base := t.TempDir()
	for _, n := range names {
		require.NoError(t, os.Mkdir(filepath.Join(base, n), 0o755))
	}

	return target.Targets(base, names)
}

func TestEngine_SequentialShell(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses /bin/sh")
	}

	targets := makeTargets(t, "mfe1", "mfe2", "mfe3")
	out := &bytes.Buffer{}

	e := NewEngine(nil)
	e.Stdin = nil
	e.Stdout = out
	e.Stderr = out

	report, err := e.Run(context.Background(), targets,
		ExecutionSpec{CommandLine: `echo "{name} $(basename "$PWD")"`, Mode: ModeSequential})
	require.NoError(t, err)

	assert.True(t, report.AllSucceeded())
	assert.Equal(t, "mfe1 mfe1\nmfe2 mfe2\nmfe3 mfe3\n", out.String())
}

func TestEngine_ConcurrentShellPrefixesOutput(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses /bin/sh")
	}

	color.SetEnabled(false)

	targets := makeTargets(t, "mfe1", "mfe2")
	out := &syncBuffer{}

	e := NewEngine(nil)
	e.Stdout = out

	report, err := e.Run(context.Background(), targets,
		ExecutionSpec{CommandLine: "echo one; echo two 1>&2", Mode: ModeConcurrent, KillOthersOn: KillOthersNever})
	require.NoError(t, err)
	require.True(t, report.AllSucceeded())

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.ElementsMatch(t, []string{
		"[mfe1] one", "[mfe1] two",
		"[mfe2] one", "[mfe2] two",
	}, lines)
	assert.Equal(t, "two", report.Results[0].LastOutput)
}

func TestEngine_ConcurrentKillsSiblingsOnFailure(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses /bin/sh")
	}

	targets := makeTargets(t, "slow1", "broken", "slow2")

	e := NewEngine(nil)
	e.Stdout = io.Discard
	e.GracePeriod = 500 * time.Millisecond

	start := time.Now()
	report, err := e.Run(context.Background(), targets, ExecutionSpec{
		CommandLine:  `if [ "{name}" = broken ]; then sleep 0.2; exit 4; fi; sleep 30`,
		Mode:         ModeConcurrent,
		KillOthersOn: KillOthersOnFailure,
	})
	require.NoError(t, err)

	assert.Less(t, time.Since(start), 10*time.Second)
	assert.False(t, report.Cancelled)
	require.Len(t, report.Results, 3)

	assert.Equal(t, []string{"slow1", "broken", "slow2"}, labels(report))
	assert.Equal(t, 4, report.Results[1].ExitCode)
	assert.True(t, Terminated(report.Results[0]))
	assert.True(t, Terminated(report.Results[2]))
	require.ErrorIs(t, report.Results[0].Error, ErrSiblingExited)
}

func TestEngine_ConcurrentSpawnFailureCountsAsFailure(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses /bin/sh")
	}

	targets := makeTargets(t, "ok")
	targets = append(targets, target.Target{Name: "missing", Dir: filepath.Join(t.TempDir(), "missing")})

	e := NewEngine(nil)
	e.Stdout = io.Discard

	report, err := e.Run(context.Background(), targets,
		ExecutionSpec{CommandLine: "true", Mode: ModeConcurrent, KillOthersOn: KillOthersNever})
	require.NoError(t, err)

	assert.Equal(t, 1, report.FailureCount())
	f := report.Failures()[0]
	assert.Equal(t, "missing", f.Label)
	assert.False(t, f.Spawned)
	assert.Equal(t, -1, f.ExitCode)
	require.ErrorIs(t, f.Error, ErrCouldNotStartProcess)
}

func TestEngine_ConcurrentSpawnFailureStopsSpawnedSiblings(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses /bin/sh")
	}

	names := make([]string, 0, 12)
	for i := range 12 {
		names = append(names, fmt.Sprintf("mfe%d", i))
	}

	for _, trigger := range []KillTrigger{KillOthersOnFailure, KillOthersOnExit} {
		t.Run(trigger.String(), func(t *testing.T) {
			targets := []target.Target{{Name: "missing", Dir: filepath.Join(t.TempDir(), "missing")}}
			targets = append(targets, makeTargets(t, names...)...)

			e := NewEngine(nil)
			e.Stdout = io.Discard
			e.GracePeriod = 500 * time.Millisecond

			report, err := e.Run(context.Background(), targets,
				ExecutionSpec{CommandLine: "sleep 30", Mode: ModeConcurrent, KillOthersOn: trigger})
			require.NoError(t, err)

			require.Len(t, report.Results, len(targets))
			assert.False(t, report.Results[0].Spawned)
			require.ErrorIs(t, report.Results[0].Error, ErrCouldNotStartProcess)

			for _, r := range report.Results[1:] {
				assert.True(t, r.Spawned, r.Label)
				assert.NotErrorIs(t, r.Error, ErrNotStarted, r.Label)
				require.ErrorIs(t, r.Error, ErrTerminated, r.Label)
				require.ErrorIs(t, r.Error, ErrSiblingExited, r.Label)
			}
		})
	}
}

func TestEngine_CancelMidBatchTerminatesAll(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses /bin/sh")
	}

	ctx, c := signalbroker.NewController(context.Background())
	targets := makeTargets(t, "a", "b", "c")

	e := NewEngine(c)
	e.Stdout = io.Discard
	e.GracePeriod = 500 * time.Millisecond

	go func() {
		assert.Eventually(t, func() bool { return c.Running() == 3 }, 5*time.Second, 10*time.Millisecond)
		c.Cancel()
	}()

	report, err := e.Run(ctx, targets,
		ExecutionSpec{CommandLine: "sleep 30", Mode: ModeConcurrent, KillOthersOn: KillOthersNever})
	require.NoError(t, err)

	assert.True(t, report.Cancelled)
	require.Len(t, report.Results, 3)

	for _, r := range report.Results {
		assert.True(t, Terminated(r), r.Label)
	}

	assert.Equal(t, 0, c.Running())
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.String()
}
