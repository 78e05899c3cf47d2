// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package install implements `mfer install`.
package install

import (
	"context"
	"fmt"

	"github.com/matt-FFFFFF/mfer/cmd/cmdstate"
	"github.com/matt-FFFFFF/mfer/internal/ctxlog"
	"github.com/matt-FFFFFF/mfer/internal/orchestrator"
	"github.com/matt-FFFFFF/mfer/internal/progress"
	"github.com/matt-FFFFFF/mfer/internal/report"
	"github.com/matt-FFFFFF/mfer/internal/runbatch"
	"github.com/urfave/cli/v3"
)

const installCommand = "npm install"

// NewCommand returns the install command.
func NewCommand() *cli.Command {
	return &cli.Command{
		Name:        "install",
		Usage:       "install dependencies for micro-frontend applications",
		Description: "Run 'npm install' in each micro frontend of a group, one at a time.",
		Arguments:   []cli.Argument{cmdstate.GroupArgument()},
		Flags: []cli.Flag{
			cmdstate.SelectFlagDef("Prompt to select which micro frontends to install"),
		},
		Action: actionFunc,
	}
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	ctxlog.Debug(ctx, "Running install command")

	cfg, err := cmdstate.RequireConfig(cmd)
	if err != nil {
		return err
	}

	group := cmdstate.GroupName(cmd)

	names, err := cmdstate.ResolveGroup(cmd, cfg, group)
	if err != nil {
		return err
	}

	sel := cmd.Bool(cmdstate.SelectFlag)

	plan := orchestrator.Plan{
		Names:       names,
		BaseDir:     cfg.MfeDirectory,
		Select:      sel,
		SelectTitle: fmt.Sprintf("Select micro frontends to operate on from group '%s':", group),
		Banner: func([]string) string {
			if sel {
				return fmt.Sprintf("Running '%s' in selected items from group: %s", installCommand, group)
			}

			return fmt.Sprintf("Running '%s' in group: %s", installCommand, group)
		},
		Spec: runbatch.ExecutionSpec{CommandLine: installCommand, Mode: runbatch.ModeSequential},
		Summary: report.Summary{
			Noun:    "MFE",
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
}
