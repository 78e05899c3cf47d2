// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/matt-FFFFFF/mfer/internal/color"
	"github.com/matt-FFFFFF/mfer/internal/ctxlog"
	"github.com/matt-FFFFFF/mfer/internal/prefixwriter"
	"github.com/matt-FFFFFF/mfer/internal/progress"
	"github.com/matt-FFFFFF/mfer/internal/signalbroker"
	"github.com/matt-FFFFFF/mfer/internal/target"
)

const lastOutputMaxLength = 160

// Mode is the execution discipline of a run.
type Mode int

const (
	// ModeSequential runs one target at a time, in order.
	ModeSequential Mode = iota
	// ModeConcurrent runs every target at once.
	ModeConcurrent
)

// String implements the Stringer interface for Mode.
func (m Mode) String() string {
	switch m {
	case ModeSequential:
		return "sequential"
	case ModeConcurrent:
		return "concurrent"
	default:
		return "unknown"
	}
}

// KillTrigger decides which results stop the remaining processes of a concurrent run.
type KillTrigger int

const (
	// KillOthersNever lets every process run to completion.
	KillOthersNever KillTrigger = iota
	// KillOthersOnFailure stops the others when one fails.
	KillOthersOnFailure
	// KillOthersOnExit stops the others when any one exits, successfully or not.
	KillOthersOnExit
)

// String implements the Stringer interface for KillTrigger.
func (k KillTrigger) String() string {
	switch k {
	case KillOthersNever:
		return "never"
	case KillOthersOnFailure:
		return "failure"
	case KillOthersOnExit:
		return "exit"
	default:
		return "unknown"
	}
}

// ParseKillTrigger parses "never", "failure" or "exit".
func ParseKillTrigger(s string) (KillTrigger, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "never":
		return KillOthersNever, nil
	case "failure":
		return KillOthersOnFailure, nil
	case "exit":
		return KillOthersOnExit, nil
	default:
		return KillOthersNever, fmt.Errorf("%w: %q", ErrInvalidKillTrigger, s)
	}
}

// Triggered reports whether res should stop the other processes.
func (k KillTrigger) Triggered(res *Result) bool {
	switch k {
	case KillOthersOnFailure:
		return !res.Succeeded()
	case KillOthersOnExit:
		return true
	default:
		return false
	}
}

// ExecutionSpec is the command to run on every target and how.
type ExecutionSpec struct {
	CommandLine  string
	Mode         Mode
	KillOthersOn KillTrigger // Only used in ModeConcurrent
}

// Validate rejects an empty command line or unknown mode before anything is spawned.
func (s ExecutionSpec) Validate() error {
	if strings.TrimSpace(s.CommandLine) == "" {
		return ErrEmptyCommand
	}

	if s.Mode != ModeSequential && s.Mode != ModeConcurrent {
		return fmt.Errorf("%w: %d", ErrInvalidMode, s.Mode)
	}

	return nil
}

// Invocation is the user's choice of command and mode, applied on top of a verb's defaults.
type Invocation struct {
	DefaultCommand      string
	DefaultMode         Mode
	DefaultKillOthersOn KillTrigger
	Command             string // Value of --command
	CommandSet          bool   // Whether --command was given at all
	Async               bool   // --async
	KillOthersOn        string // --kill-others-on, empty for the default
}

// Spec builds the ExecutionSpec. An explicit command runs sequentially unless
// Async is set, and a concurrent explicit command stops its siblings on failure.
func (i Invocation) Spec() (ExecutionSpec, error) {
	spec := ExecutionSpec{
		CommandLine:  i.DefaultCommand,
		Mode:         i.DefaultMode,
		KillOthersOn: i.DefaultKillOthersOn,
	}

	if i.CommandSet {
		spec.CommandLine = strings.TrimSpace(i.Command)
		if spec.CommandLine == "" {
			return spec, ErrEmptyCommand
		}

		spec.Mode = ModeSequential
		spec.KillOthersOn = KillOthersOnFailure

		if i.Async {
			spec.Mode = ModeConcurrent
		}
	} else if i.Async {
		return spec, ErrAsyncWithoutCommand
	}

	if i.KillOthersOn != "" {
		kt, err := ParseKillTrigger(i.KillOthersOn)
		if err != nil {
			return spec, err
		}

		spec.KillOthersOn = kt
	}

	return spec, spec.Validate()
}

// ExpandCommand substitutes {name} and {dir} in the command line for t.
func ExpandCommand(commandLine string, t target.Target) string {
	return strings.NewReplacer("{name}", t.Name, "{dir}", t.Dir).Replace(commandLine)
}

// CommandFactory builds the Runnable for one target. out is where the process output
// should go; it is nil in sequential mode, meaning the engine's own streams.
type CommandFactory func(t target.Target, commandLine string, out io.Writer) Runnable

// Engine runs an ExecutionSpec over a list of targets.
type Engine struct {
	Controller  *signalbroker.Controller
	Stdin       *os.File
	Stdout      io.Writer
	Stderr      io.Writer
	Reporter    progress.Reporter
	Shell       []string
	GracePeriod time.Duration
	Env         map[string]string
	// NewCommand overrides how commands are built, mostly for tests.
	NewCommand CommandFactory
}

// NewEngine returns an engine wired to the process's standard streams.
func NewEngine(c *signalbroker.Controller) *Engine {
	return &Engine{
		Controller:  c,
		Stdin:       os.Stdin,
		Stdout:      os.Stdout,
		Stderr:      os.Stderr,
		Reporter:    progress.NullReporter{},
		GracePeriod: DefaultGracePeriod,
	}
}

// Run executes spec on every target and returns the frozen report.
// The only error is an invalid spec, in which case nothing is spawned.
func (e *Engine) Run(ctx context.Context, targets []target.Target, spec ExecutionSpec) (*RunReport, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	ctxlog.Debug(ctx, "engine run",
		"mode", spec.Mode.String(),
		"killOthersOn", spec.KillOthersOn.String(),
		"targets", target.Names(targets),
	)

	var report *RunReport

	switch spec.Mode {
	case ModeSequential:
		report = e.sequential(targets, spec).Run(ctx)
	case ModeConcurrent:
		report = e.concurrent(targets, spec).Run(ctx)
	}

	if e.Controller.Cancelled() || ctx.Err() != nil {
		report.Cancelled = true
	}

	return report, nil
}

func (e *Engine) sequential(targets []target.Target, spec ExecutionSpec) *SerialBatch {
	cmds := make([]Runnable, 0, len(targets))
	for _, t := range targets {
		cmds = append(cmds, e.command(t, ExpandCommand(spec.CommandLine, t), nil))
	}

	return &SerialBatch{
		Label:      "sequential",
		Commands:   cmds,
		Controller: e.Controller,
		Reporter:   e.Reporter,
	}
}

var prefixColours = []color.Code{
	color.FgCyan,
	color.FgMagenta,
	color.FgYellow,
	color.FgGreen,
	color.FgBlue,
}

func (e *Engine) concurrent(targets []target.Target, spec ExecutionSpec) *ParallelBatch {
	sink := prefixwriter.NewSink(e.Stdout)
	cmds := make([]Runnable, 0, len(targets))

	for i, t := range targets {
		prefix := color.Colorize("["+t.Name+"]", prefixColours[i%len(prefixColours)])
		w := sink.Writer(prefix)

		cmds = append(cmds, &prefixed{
			Runnable: e.command(t, ExpandCommand(spec.CommandLine, t), w),
			w:        w,
		})
	}

	return &ParallelBatch{
		Label:        "concurrent",
		Commands:     cmds,
		KillOthersOn: spec.KillOthersOn,
		Controller:   e.Controller,
		Reporter:     e.Reporter,
	}
}

func (e *Engine) command(t target.Target, commandLine string, out io.Writer) Runnable {
	if e.NewCommand != nil {
		return e.NewCommand(t, commandLine, out)
	}

	cmd := &OSCommand{
		BaseCommand: NewBaseCommand(t.Name, t.Dir, nil),
		CommandLine: commandLine,
		Shell:       e.Shell,
		GracePeriod: e.GracePeriod,
		Controller:  e.Controller,
	}
	cmd.InheritEnv(e.Env)

	if out == nil {
		cmd.Stdin = e.Stdin
		cmd.Stdout = e.Stdout
		cmd.Stderr = e.Stderr

		return cmd
	}

	cmd.Output = out
	cmd.Isolate = true

	return cmd
}

// prefixed flushes a target's line writer after its command finishes and records the last line.
type prefixed struct {
	Runnable
	w *prefixwriter.Writer
}

func (p *prefixed) signalsSpawn() bool { return signalsSpawn(p.Runnable) }

func (p *prefixed) Run(ctx context.Context) *Result {
	res := p.Runnable.Run(ctx)
	_ = p.w.Close()
	res.LastOutput = p.w.LastLine(lastOutputMaxLength)

	return res
}
