// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package run implements `mfer run`, which starts the micro frontends of a group.
package run

import (
	"context"
	"fmt"

	"github.com/matt-FFFFFF/mfer/cmd/cmdstate"
	"github.com/matt-FFFFFF/mfer/internal/color"
	"github.com/matt-FFFFFF/mfer/internal/ctxlog"
	"github.com/matt-FFFFFF/mfer/internal/orchestrator"
	"github.com/matt-FFFFFF/mfer/internal/report"
	"github.com/matt-FFFFFF/mfer/internal/runbatch"
	"github.com/urfave/cli/v3"
)

const (
	commandFlag      = "command"
	asyncFlag        = "async"
	killOthersOnFlag = "kill-others-on"

	defaultCommand = "npm start"
	cliExitStr     = ""
)

// NewCommand returns the run command.
func NewCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "run micro-frontend applications",
		Description: `Run 'npm start' in every micro frontend of a group, all at once.
When one of them exits, the others are stopped.

With --command, run a custom command instead, one micro frontend at a time.
Add --async to run the custom command everywhere at once.
The command may use {name} and {dir}, which are replaced per micro frontend.`,
		Arguments: []cli.Argument{cmdstate.GroupArgument()},
		Flags: []cli.Flag{
			cmdstate.SelectFlagDef("Prompt to select which micro frontends to run"),
			&cli.StringFlag{
				Name:     commandFlag,
				Aliases:  []string{"c"},
				Usage:    "Run a custom command instead of 'npm start'",
				OnlyOnce: true,
			},
			&cli.BoolFlag{
				Name:    asyncFlag,
				Aliases: []string{"a"},
				Usage:   "Run the custom command in every micro frontend at once (requires --command)",
			},
			&cli.StringFlag{
				Name: killOthersOnFlag,
				Usage: "When to stop the other processes of a concurrent run: never, failure or exit. " +
					"Defaults to exit for 'npm start' and failure for --async",
				OnlyOnce: true,
			},
		},
		Action: actionFunc,
	}
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	logger := ctxlog.Logger(ctx).With("command", cmd.Name)
	logger.Debug("Running run command")

	inv := runbatch.Invocation{
		DefaultCommand:      defaultCommand,
		DefaultMode:         runbatch.ModeConcurrent,
		DefaultKillOthersOn: runbatch.KillOthersOnExit,
		Command:             cmd.String(commandFlag),
		CommandSet:          cmd.IsSet(commandFlag),
		Async:               cmd.Bool(asyncFlag),
		KillOthersOn:        cmd.String(killOthersOnFlag),
	}

	spec, err := inv.Spec()
	if err != nil {
		cmdstate.Println(cmd, color.Red("Error")+": "+err.Error())
		return cli.Exit(cliExitStr, report.ExitUsage)
	}

	if spec.Mode == runbatch.ModeSequential && cmd.IsSet(killOthersOnFlag) {
		logger.Warn("--kill-others-on has no effect without --async")
	}

	cfg, err := cmdstate.RequireConfig(cmd)
	if err != nil {
		return err
	}

	group := cmdstate.GroupName(cmd)

	names, err := cmdstate.ResolveGroup(cmd, cfg, group)
	if err != nil {
		return err
	}

	plan := orchestrator.Plan{
		Names:       names,
		BaseDir:     cfg.MfeDirectory,
		Select:      cmd.Bool(cmdstate.SelectFlag),
		SelectTitle: fmt.Sprintf("Select micro frontends to operate on from group '%s':", group),
		Spec:        spec,
	}

	if inv.CommandSet {
		plan.Banner = func([]string) string {
			return fmt.Sprintf("Running custom command '%s' on micro frontends in group '%s'...", spec.CommandLine, group)
		}
		plan.Summary = report.Summary{
			Noun:       "MFE",
			Verb:       "run",
			Success:    "All commands completed successfully.",
			Failure:    "One or more commands failed.",
			ShowOutput: spec.Mode == runbatch.ModeConcurrent,
		}
	} else {
		plan.Banner = func([]string) string {
			return fmt.Sprintf("Running micro frontends in group: %s...", group)
		}
		plan.Summary = report.Summary{
			Noun:       "MFE",
			Verb:       "start",
			Failure:    "One or more micro frontends failed to start.",
			ShowOutput: true,
		}
	}

	_, code, err := cmdstate.NewOrchestrator(ctx).Execute(ctx, plan)

	return cmdstate.Exit(cmd, code, err)
}
