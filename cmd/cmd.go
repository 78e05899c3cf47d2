// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package cmd contains the command-line interface (CLI) for the module.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/matt-FFFFFF/mfer"
	"github.com/matt-FFFFFF/mfer/cmd/clone"
	"github.com/matt-FFFFFF/mfer/cmd/cmdstate"
	"github.com/matt-FFFFFF/mfer/cmd/config"
	"github.com/matt-FFFFFF/mfer/cmd/initcmd"
	"github.com/matt-FFFFFF/mfer/cmd/install"
	"github.com/matt-FFFFFF/mfer/cmd/lib"
	"github.com/matt-FFFFFF/mfer/cmd/pull"
	"github.com/matt-FFFFFF/mfer/cmd/run"
	"github.com/matt-FFFFFF/mfer/cmd/update"
	internalconfig "github.com/matt-FFFFFF/mfer/internal/config"
	"github.com/urfave/cli/v3"
)

// NewRootCmd returns the root command for the CLI.
func NewRootCmd() *cli.Command {
	return &cli.Command{
		Commands: []*cli.Command{
			run.NewCommand(),
			install.NewCommand(),
			pull.NewCommand(),
			clone.NewCommand(),
			initcmd.NewCommand(),
			config.NewCommand(),
			lib.NewCommand(),
			update.NewCommand(),
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:      cmdstate.ConfigFlag,
				Usage:     "Path to the configuration file (YAML, or HCL with a .hcl extension)",
				TakesFile: true,
				Sources:   cli.EnvVars(internalconfig.EnvConfigPath),
			},
		},
		Writer:    os.Stdout,
		ErrWriter: os.Stderr,
		Name:      "mfer",
		Usage:     "micro frontend runner",
		Description: `mfer runs commands across a group of micro frontend repositories,
one at a time or all at once, and reports which of them failed.
Groups and libraries are defined in ~/.mfer/config.yaml, see 'mfer init'.`,
		Version:   fmt.Sprintf("%s (commit: %s)", mfer.Version, mfer.Commit),
		Copyright: "Copyright (c) matt-FFFFFF 2025. All rights reserved.",
		Authors: []any{
			"Matt White (matt-FFFFFF)",
		},
		EnableShellCompletion: true,
		// Exit codes are handled in main, after the update check.
		ExitErrHandler: func(context.Context, *cli.Command, error) {},
	}
}
