// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package clone implements `mfer clone`.
package clone

import (
	"context"
	"fmt"
	"strings"

	"github.com/matt-FFFFFF/mfer/cmd/cmdstate"
	"github.com/matt-FFFFFF/mfer/internal/color"
	"github.com/matt-FFFFFF/mfer/internal/ctxlog"
	"github.com/matt-FFFFFF/mfer/internal/orchestrator"
	"github.com/matt-FFFFFF/mfer/internal/report"
	"github.com/matt-FFFFFF/mfer/internal/runbatch"
	"github.com/matt-FFFFFF/mfer/internal/target"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v3"
)

const cliExitStr = ""

// NewCommand returns the clone command.
func NewCommand() *cli.Command {
	return &cli.Command{
		Name:  "clone",
		Usage: "clone repositories from the specified group",
		Description: `Clone the repositories of a group that are not yet in mfe_directory,
from <base_github_url>/<name>.git. Repositories that already exist are left alone.`,
		Arguments: []cli.Argument{cmdstate.GroupArgument()},
		Action:    actionFunc,
	}
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	ctxlog.Debug(ctx, "Running clone command")

	cfg, err := cmdstate.RequireConfig(cmd)
	if err != nil {
		return err
	}

	group := cmdstate.GroupName(cmd)

	names, err := cmdstate.ResolveGroup(cmd, cfg, group)
	if err != nil {
		return err
	}

	if strings.TrimSpace(cfg.BaseGithubURL) == "" {
		cmdstate.Println(cmd, color.Red("Error")+": base_github_url is not set in the configuration.")
		return cli.Exit(cliExitStr, report.ExitFailure)
	}

	o := cmdstate.NewOrchestrator(ctx)

	cmdstate.Println(cmd, color.Blue(fmt.Sprintf("Checking repositories in group: %s...", group)))

	toClone := partition(cmd, target.Validate(ctx, o.Fs, names, cfg.MfeDirectory, o.Probe))
	if len(toClone) == 0 {
		cmdstate.Println(cmd, color.Blue("All repositories in the group already exist."))
		return nil
	}

	if ok, _ := afero.DirExists(o.Fs, cfg.MfeDirectory); !ok {
		if err := o.Fs.MkdirAll(cfg.MfeDirectory, 0o755); err != nil { //nolint:mnd
			cmdstate.Println(cmd, color.Red(fmt.Sprintf("Error creating directory %s: %v", cfg.MfeDirectory, err)))
			return cli.Exit(cliExitStr, report.ExitFailure)
		}

		cmdstate.Println(cmd, color.Blue("Created directory: "+cfg.MfeDirectory))
	}

	baseURL := strings.TrimSuffix(cfg.BaseGithubURL, "/")

	plan := orchestrator.Plan{
		Names:   toClone,
		BaseDir: cfg.MfeDirectory,
		Cwd:     cfg.MfeDirectory,
		Banner: func(names []string) string {
			return fmt.Sprintf("Cloning %d repositories in group: %s...", len(names), group)
		},
		Spec: runbatch.ExecutionSpec{
			CommandLine:  "git clone " + baseURL + "/{name}.git",
			Mode:         runbatch.ModeConcurrent,
			KillOthersOn: runbatch.KillOthersOnFailure,
		},
		Summary: report.Summary{
			Noun:       "Repository",
			Verb:       "clone",
			Success:    "Successfully cloned all repositories in group: " + group,
			Failure:    "One or more repositories failed to clone.",
			ShowOutput: true,
		},
	}

	_, code, err := o.Execute(ctx, plan)
	if code == report.ExitOK && err == nil {
		cmdstate.Println(cmd, color.Blue("Repositories are located in: "+cfg.MfeDirectory))
	}

	return cmdstate.Exit(cmd, code, err)
}

// partition prints what already exists and returns the repositories still to clone.
func partition(cmd *cli.Command, v *target.Validation) []string {
	var toClone []string

	for _, inv := range v.Invalid {
		if inv.Reason == target.ReasonMissing {
			toClone = append(toClone, inv.Name)
			continue
		}

		cmdstate.Println(cmd, color.Yellow(fmt.Sprintf("  %s: Directory exists but is not a git repository. Skipping.", inv.Name)))
	}

	if len(v.Valid) > 0 {
		cmdstate.Println(cmd, color.Green(fmt.Sprintf("\nRepositories already exist (%d):", len(v.Valid))))

		for _, name := range v.Valid {
			cmdstate.Println(cmd, color.Green("  ✓ "+name))
		}

		cmdstate.Println(cmd, "")
	}

	return toClone
}
