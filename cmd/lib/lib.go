// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package lib implements `mfer lib`, which manages shared npm libraries and
// their distribution to the micro frontends.
package lib

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/matt-FFFFFF/mfer/cmd/cmdstate"
	"github.com/matt-FFFFFF/mfer/internal/color"
	"github.com/matt-FFFFFF/mfer/internal/config"
	"github.com/matt-FFFFFF/mfer/internal/libs"
	"github.com/matt-FFFFFF/mfer/internal/orchestrator"
	"github.com/matt-FFFFFF/mfer/internal/report"
	"github.com/matt-FFFFFF/mfer/internal/target"
	"github.com/urfave/cli/v3"
)

const (
	libArg     = "lib"
	cliExitStr = ""
)

// NewCommand returns the lib command.
func NewCommand() *cli.Command {
	return &cli.Command{
		Name:  "lib",
		Usage: "manage internal npm packages and their distribution to micro frontends",
		Commands: []*cli.Command{
			buildCmd(),
			installCmd(),
			pullCmd(),
			deployCmd(),
			publishCmd(),
			listCmd(),
		},
	}
}

func libArgument() cli.Argument {
	return &cli.StringArg{
		Name:      libArg,
		UsageText: "[LIB]",
		Config: cli.StringConfig{
			TrimSpace: true,
		},
	}
}

// setup loads the configuration and the libraries the command operates on.
func setup(cmd *cli.Command) (*config.Config, []string, error) {
	cfg, err := cmdstate.RequireConfig(cmd)
	if err != nil {
		return nil, nil, err
	}

	names, err := cmdstate.ResolveLibs(cmd, cfg, cmd.StringArg(libArg))
	if err != nil {
		return nil, nil, err
	}

	return cfg, names, nil
}

func plural(n int) string {
	if n == 1 {
		return "library"
	}

	return "libraries"
}

func listCmd() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "list configured libraries and their build status",
		Action: func(_ context.Context, cmd *cli.Command) error {
			cfg, names, err := setup(cmd)
			if err != nil {
				return err
			}

			cmdstate.Println(cmd, color.Blue("Configured libraries:\n"))

			for _, info := range libs.Inspect(config.FsFactory(), cfg.LibDirectory, names) {
				cmdstate.Println(cmd, color.Bold(info.Name))
				cmdstate.Println(cmd, "  Path: "+info.Path)
				cmdstate.Println(cmd, "  Status: "+statusText(info.Status))
				cmdstate.Println(cmd, "")
			}

			cmdstate.Println(cmd, color.Gray(strings.Repeat("─", 50))) //nolint:mnd
			cmdstate.Println(cmd, color.Blue("Library Directory: "+cfg.LibDirectory))
			cmdstate.Println(cmd, color.Blue(fmt.Sprintf("Total Libraries: %d", len(cfg.Libs))))

			return nil
		},
	}
}

func statusText(s libs.Status) string {
	switch s {
	case libs.StatusMissing:
		return color.Red("✗ " + s.String())
	case libs.StatusNotBuilt:
		return color.Yellow("⚠ " + s.String())
	default:
		return color.Green("✓ " + s.String())
	}
}

func deployCmd() *cli.Command {
	return &cli.Command{
		Name:      "deploy",
		Usage:     "copy built libraries to micro frontends",
		Arguments: []cli.Argument{libArgument()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, names, err := setup(cmd)
			if err != nil {
				return err
			}

			cmdstate.Println(cmd, color.Blue(fmt.Sprintf("Deploying %d %s...", len(names), plural(len(names)))))

			failed := false

			for _, name := range names {
				if ctx.Err() != nil {
					break
				}

				if !deploy(ctx, cmd, cfg, name, "") {
					failed = true
				}
			}

			return finish(ctx, cmd, "Deploy", failed)
		},
	}
}

// deploy copies one library into the micro frontends of the all group and prints the outcome.
func deploy(ctx context.Context, cmd *cli.Command, cfg *config.Config, name, indent string) bool {
	res := libs.Deploy(ctx, config.FsFactory(), cfg.LibDirectory, name, cfg.MfeDirectory, cfg.Groups[target.AllGroup])

	if res.Err != nil && len(res.Deployed)+len(res.NotInstalled)+len(res.MissingMfes) == 0 {
		cmdstate.Println(cmd, color.Red(fmt.Sprintf("%sError: %v", indent, res.Err)))
		cmdstate.Println(cmd, color.Yellow(fmt.Sprintf("%sPlease run 'mfer lib build %s' first.", indent, name)))

		return false
	}

	cmdstate.Println(cmd, color.Blue(fmt.Sprintf("\n%sDeploying %s...", indent, color.Bold(name))))

	for _, mfe := range res.MissingMfes {
		cmdstate.Println(cmd, color.Yellow(fmt.Sprintf("%s  Warning: MFE directory not found: %s",
			indent, filepath.Join(cfg.MfeDirectory, mfe))))
	}

	for _, mfe := range res.Deployed {
		cmdstate.Println(cmd, color.Green(fmt.Sprintf("%s  ✓ Deployed to %s", indent, mfe)))
	}

	for _, mfe := range res.NotInstalled {
		cmdstate.Println(cmd, color.Gray(fmt.Sprintf("%s  - Skipped %s (not installed)", indent, mfe)))
	}

	if res.Err != nil {
		cmdstate.Println(cmd, color.Red(fmt.Sprintf("%s  ✗ Failed: %v", indent, res.Err)))
	}

	switch n := len(res.Deployed); {
	case n == 1:
		cmdstate.Println(cmd, color.Green(fmt.Sprintf("%s✓ %s deployed to 1 MFE", indent, name)))
	case n > 1:
		cmdstate.Println(cmd, color.Green(fmt.Sprintf("%s✓ %s deployed to %d MFEs", indent, name, n)))
	default:
		cmdstate.Println(cmd, color.Yellow(fmt.Sprintf("%s⚠ %s not deployed (not found in any MFE's node_modules)", indent, name)))
	}

	return res.Err == nil
}

// finish prints the closing line of a multi-library process and returns its exit error.
func finish(ctx context.Context, cmd *cli.Command, process string, failed bool) error {
	switch {
	case ctx.Err() != nil:
		cmdstate.Println(cmd, color.Yellow(orchestrator.InterruptedMessage))
		return cli.Exit(cliExitStr, report.ExitInterrupted)
	case failed:
		cmdstate.Println(cmd, color.Red(fmt.Sprintf("\n%s process completed with errors.", process)))
		return cli.Exit(cliExitStr, report.ExitFailure)
	}

	cmdstate.Println(cmd, color.Green(fmt.Sprintf("\n%s process completed!", process)))

	return nil
}
