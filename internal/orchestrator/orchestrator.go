// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package orchestrator runs one batch: validate the targets, optionally let the
// user narrow them down, execute the command on each and render the report.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/matt-FFFFFF/mfer/internal/color"
	"github.com/matt-FFFFFF/mfer/internal/ctxlog"
	"github.com/matt-FFFFFF/mfer/internal/progress"
	"github.com/matt-FFFFFF/mfer/internal/report"
	"github.com/matt-FFFFFF/mfer/internal/runbatch"
	"github.com/matt-FFFFFF/mfer/internal/selector"
	"github.com/matt-FFFFFF/mfer/internal/target"
	"github.com/spf13/afero"
)

const (
	// InterruptedMessage is printed when the run ends because of the user.
	InterruptedMessage = "Received SIGINT. Stopping..."
	// NoValidMessage is printed when validation leaves nothing to run.
	NoValidMessage = "No valid git repositories found to pull from."
	// CloneTip is printed after NoValidMessage when some repositories are missing.
	CloneTip = "Tip: run 'mfer clone' to clone missing repositories."
)

// ErrNothingToRun is returned when validation rejected every target.
var ErrNothingToRun = errors.New("no valid targets")

// Plan describes one batch.
type Plan struct {
	Names   []string // Resolved target names, in group order
	BaseDir string   // Targets live in BaseDir/<name>
	// Cwd, if set, is the working directory of every command instead of the target's own.
	Cwd string

	// Validate requires each target to be a git working copy. Invalid targets
	// are listed and skipped.
	Validate   bool
	MissingTip string // Printed when nothing is valid and something was missing

	Select      bool   // Ask the user to narrow the targets down
	SelectTitle string // Heading of the selection prompt

	// Banner returns the line printed just before the engine starts, given the
	// targets that will run. May be nil.
	Banner func(names []string) string
	Spec   runbatch.ExecutionSpec

	Summary  report.Summary
	Reporter progress.Reporter // Receives per-target events, may be nil
}

// Orchestrator holds the collaborators a Plan runs against.
type Orchestrator struct {
	Out      io.Writer
	Fs       afero.Fs
	Probe    target.GitProbe
	Selector selector.Selector
	Engine   *runbatch.Engine
}

// New returns an orchestrator using the real filesystem, git and terminal.
func New(engine *runbatch.Engine) *Orchestrator {
	return &Orchestrator{
		Out:      os.Stdout,
		Fs:       afero.NewOsFs(),
		Probe:    target.GitCheckout,
		Selector: selector.NewPrompt(),
		Engine:   engine,
	}
}

// Execute runs p and returns the report (nil if nothing ran) and the process exit code.
// An error is returned for usage problems and anything that stopped the batch
// before it started; the exit code is still meaningful in that case.
func (o *Orchestrator) Execute(ctx context.Context, p Plan) (*runbatch.RunReport, int, error) {
	if err := p.Spec.Validate(); err != nil {
		return nil, report.ExitUsage, err
	}

	names := p.Names

	if p.Validate {
		v := target.Validate(ctx, o.Fs, names, p.BaseDir, o.Probe)
		o.printInvalid(v.Invalid)

		if len(v.Valid) == 0 {
			o.println(color.Red(NoValidMessage))

			if v.AnyMissing() && p.MissingTip != "" {
				o.println(color.Yellow(p.MissingTip))
			}

			return nil, report.ExitFailure, ErrNothingToRun
		}

		names = v.Valid
	}

	if p.Select {
		chosen, err := selector.Filter(ctx, o.Selector, p.SelectTitle, names)

		switch {
		case errors.Is(err, selector.ErrCancelled):
			o.println(color.Yellow(InterruptedMessage))
			return nil, report.ExitInterrupted, nil
		case err != nil:
			return nil, report.ExitFailure, err
		}

		names = chosen
	}

	if ctx.Err() != nil || o.Engine.Controller.Cancelled() {
		o.println(color.Yellow(InterruptedMessage))
		return nil, report.ExitInterrupted, nil
	}

	if p.Banner != nil {
		if b := p.Banner(names); b != "" {
			o.println(color.Green(b))
		}
	}

	engine := *o.Engine
	if p.Reporter != nil {
		engine.Reporter = progress.Multi{p.Reporter, progress.Log{Ctx: ctx}}
	}

	targets := target.Targets(p.BaseDir, names)
	if p.Cwd != "" {
		for i := range targets {
			targets[i].Dir = p.Cwd
		}
	}

	rep, err := engine.Run(ctx, targets, p.Spec)
	if err != nil {
		return nil, report.ExitUsage, err
	}

	if rep.Cancelled {
		ctxlog.Info(ctx, "run cancelled", "completed", len(rep.Results))
		o.println(color.Yellow(InterruptedMessage))

		return rep, report.ExitInterrupted, nil
	}

	return rep, report.Render(o.Out, rep, p.Summary), nil
}

func (o *Orchestrator) printInvalid(invalid []target.Invalid) {
	if len(invalid) == 0 {
		return
	}

	o.println(color.Yellow("Skipping invalid repositories:"))

	for _, i := range invalid {
		o.println(color.Yellow(fmt.Sprintf("  %s: %s: %s", i.Name, i.Reason, i.Path)))
	}

	o.println("")
}

func (o *Orchestrator) println(s string) {
	fmt.Fprintln(o.Out, s) //nolint:errcheck
}
