// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package pull implements `mfer pull`. The plan it builds is shared with `mfer lib pull`.
package pull

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
	pullCommand = "git pull"
	// MissingTip is printed when repositories could not be pulled because they are not there.
	MissingTip = "Tip: Run 'mfer clone' to clone repositories that don't exist yet."
)

// NewCommand returns the pull command.
func NewCommand() *cli.Command {
	return &cli.Command{
		Name:  "pull",
		Usage: "pull latest changes from git repositories",
		Description: `Run 'git pull' in every repository of a group, all at once.
Directories that are missing or are not git repositories are skipped.`,
		Arguments: []cli.Argument{cmdstate.GroupArgument()},
		Flags: []cli.Flag{
			cmdstate.SelectFlagDef("Prompt to select which repositories to pull"),
		},
		Action: actionFunc,
	}
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	ctxlog.Debug(ctx, "Running pull command")

	cfg, err := cmdstate.RequireConfig(cmd)
	if err != nil {
		return err
	}

	group := cmdstate.GroupName(cmd)

	names, err := cmdstate.ResolveGroup(cmd, cfg, group)
	if err != nil {
		return err
	}

	cmdstate.Println(cmd, color.Blue(fmt.Sprintf("Validating repositories in group: %s...", group)))

	plan := Plan(names, cfg.MfeDirectory, "group: "+group, cmd.Bool(cmdstate.SelectFlag))
	plan.SelectTitle = fmt.Sprintf("Select micro frontends to operate on from group '%s':", group)

	_, code, err := cmdstate.NewOrchestrator(ctx).Execute(ctx, plan)

	return cmdstate.Exit(cmd, code, err)
}

// Plan validates the repositories under baseDir and pulls the valid ones concurrently,
// stopping the rest when one fails. contextName describes the set, e.g. "group: all".
func Plan(names []string, baseDir, contextName string, sel bool) orchestrator.Plan {
	return orchestrator.Plan{
		Names:       names,
		BaseDir:     baseDir,
		Validate:    true,
		MissingTip:  MissingTip,
		Select:      sel,
		SelectTitle: "Select repositories to operate on:",
		Banner: func(valid []string) string {
			if sel {
				return fmt.Sprintf("Pulling latest changes for selected repositories from %s...", contextName)
			}

			return fmt.Sprintf("Pulling latest changes for %d repositories in %s...", len(valid), contextName)
		},
		Spec: runbatch.ExecutionSpec{
			CommandLine:  pullCommand,
			Mode:         runbatch.ModeConcurrent,
			KillOthersOn: runbatch.KillOthersOnFailure,
		},
		Summary: report.Summary{
			Noun:       "Repository",
			Verb:       "pull",
			Success:    "Successfully pulled latest changes for " + successText(sel, contextName),
			Failure:    "One or more repositories failed to pull.",
			ShowOutput: true,
		},
	}
}

func successText(sel bool, contextName string) string {
	if sel {
		return "selected repositories from " + contextName
	}

	return "all repositories in " + contextName
}
