// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package lib

import (
	"context"
	"errors"
	"fmt"

	"github.com/matt-FFFFFF/mfer/cmd/cmdstate"
	"github.com/matt-FFFFFF/mfer/cmd/pull"
	"github.com/matt-FFFFFF/mfer/internal/color"
	"github.com/matt-FFFFFF/mfer/internal/orchestrator"
	"github.com/matt-FFFFFF/mfer/internal/progress"
	"github.com/matt-FFFFFF/mfer/internal/report"
	"github.com/matt-FFFFFF/mfer/internal/runbatch"
	"github.com/matt-FFFFFF/mfer/internal/selector"
	"github.com/urfave/cli/v3"
)

const (
	buildCommand   = "npm run build"
	installCommand = "npm install --no-fund"
	selectTitle    = "Select libraries to operate on:"
)

func buildCmd() *cli.Command {
	return &cli.Command{
		Name:      "build",
		Usage:     "build internal npm packages",
		Arguments: []cli.Argument{libArgument()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, names, err := setup(cmd)
			if err != nil {
				return err
			}

			plan := buildPlan(cmd, names, cfg.LibDirectory)
			plan.Banner = func(names []string) string {
				return fmt.Sprintf("Building %d %s...", len(names), plural(len(names)))
			}

			_, code, err := cmdstate.NewOrchestrator(ctx).Execute(ctx, plan)

			return cmdstate.Exit(cmd, code, err)
		},
	}
}

func buildPlan(cmd *cli.Command, names []string, libDir string) orchestrator.Plan {
	return orchestrator.Plan{
		Names:   names,
		BaseDir: libDir,
		Spec:    runbatch.ExecutionSpec{CommandLine: buildCommand, Mode: runbatch.ModeSequential},
		Summary: report.Summary{
			Noun:    "Library",
			Verb:    "build",
			Success: "Build process completed!",
			Failure: "One or more libraries failed to build.",
		},
		Reporter: &progress.Console{
			W:         cmdstate.Out(cmd),
			Action:    "Building",
			Completed: "built successfully",
		},
	}
}

func installCmd() *cli.Command {
	return &cli.Command{
		Name:      "install",
		Usage:     "run 'npm install' in library directories",
		Arguments: []cli.Argument{libArgument()},
		Flags: []cli.Flag{
			cmdstate.SelectFlagDef("Prompt to select which libraries to install"),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, names, err := setup(cmd)
			if err != nil {
				return err
			}

			plan := orchestrator.Plan{
				Names:       names,
				BaseDir:     cfg.LibDirectory,
				Select:      cmd.Bool(cmdstate.SelectFlag),
				SelectTitle: selectTitle,
				Banner: func([]string) string {
					return fmt.Sprintf("Running '%s' in libraries", installCommand)
				},
				Spec: runbatch.ExecutionSpec{CommandLine: installCommand, Mode: runbatch.ModeSequential},
				Summary: report.Summary{
					Noun:    "Library",
					Verb:    "install",
					Success: "All installs completed successfully.",
					Failure: "One or more installs failed.",
				},
				Reporter: &progress.Console{
					W:         cmdstate.Out(cmd),
					Action:    fmt.Sprintf("Running '%s'", installCommand),
					Completed: "installed successfully",
				},
			}

			_, code, err := cmdstate.NewOrchestrator(ctx).Execute(ctx, plan)

			return cmdstate.Exit(cmd, code, err)
		},
	}
}

func pullCmd() *cli.Command {
	return &cli.Command{
		Name:      "pull",
		Usage:     "pull latest changes from library git repositories",
		Arguments: []cli.Argument{libArgument()},
		Flags: []cli.Flag{
			cmdstate.SelectFlagDef("Prompt to select which libraries to pull"),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, names, err := setup(cmd)
			if err != nil {
				return err
			}

			cmdstate.Println(cmd, color.Blue("Validating library repositories..."))

			plan := pull.Plan(names, cfg.LibDirectory, "libraries", cmd.Bool(cmdstate.SelectFlag))
			plan.SelectTitle = selectTitle
			plan.Summary.Noun = "Library"

			_, code, err := cmdstate.NewOrchestrator(ctx).Execute(ctx, plan)

			return cmdstate.Exit(cmd, code, err)
		},
	}
}

func publishCmd() *cli.Command {
	return &cli.Command{
		Name:      "publish",
		Usage:     "build and deploy libraries to micro frontends",
		Arguments: []cli.Argument{libArgument()},
		Flags: []cli.Flag{
			cmdstate.SelectFlagDef("Prompt to select which libraries to publish"),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, names, err := setup(cmd)
			if err != nil {
				return err
			}

			o := cmdstate.NewOrchestrator(ctx)
			text := fmt.Sprintf("all libraries (%d)", len(names))

			switch {
			case cmd.Bool(cmdstate.SelectFlag):
				names, err = selector.Filter(ctx, o.Selector, "Choose which libraries to publish:", names)
				if errors.Is(err, selector.ErrCancelled) {
					cmdstate.Println(cmd, color.Yellow(orchestrator.InterruptedMessage))
					return cli.Exit(cliExitStr, report.ExitInterrupted)
				}

				if err != nil {
					return cmdstate.Exit(cmd, report.ExitFailure, err)
				}

				text = fmt.Sprintf("selected libraries (%d)", len(names))
			case cmd.StringArg(libArg) != "":
				text = fmt.Sprintf("library '%s'", names[0])
			}

			cmdstate.Println(cmd, color.Blue(fmt.Sprintf("Publishing %s...", text)))

			failed := false

			for _, name := range names {
				if ctx.Err() != nil {
					break
				}

				cmdstate.Println(cmd, color.Blue(fmt.Sprintf("\nPublishing %s...", color.Bold(name))))

				plan := buildPlan(cmd, []string{name}, cfg.LibDirectory)
				plan.Summary.Success = ""

				_, code, err := o.Execute(ctx, plan)
				if code == report.ExitInterrupted {
					break
				}

				if code != report.ExitOK || err != nil {
					cmdstate.Println(cmd, color.Red(fmt.Sprintf("  ✗ Failed to build %s, not deploying it", name)))

					failed = true

					continue
				}

				if !deploy(ctx, cmd, cfg, name, "  ") {
					failed = true
				}
			}

			return finish(ctx, cmd, "Publish", failed)
		},
	}
}
