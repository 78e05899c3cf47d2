// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package config implements `mfer config` and its sub-commands.
package config

import (
	"context"
	"fmt"

	"github.com/matt-FFFFFF/mfer/cmd/cmdstate"
	"github.com/matt-FFFFFF/mfer/internal/color"
	"github.com/matt-FFFFFF/mfer/internal/config"
	"github.com/matt-FFFFFF/mfer/internal/report"
	"github.com/urfave/cli/v3"
)

const cliExitStr = ""

// NewCommand returns the config command.
func NewCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "configuration settings",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "print the current configuration",
				Action: listAction,
			},
			{
				Name:   "edit",
				Usage:  "edit the current configuration in your editor",
				Action: editAction,
			},
		},
	}
}

func listAction(_ context.Context, cmd *cli.Command) error {
	cfg, err := cmdstate.RequireConfig(cmd)
	if err != nil {
		return err
	}

	path := cmdstate.ConfigPath(cmd)

	b, err := config.Marshal(path, cfg)
	if err != nil {
		cmdstate.Println(cmd, color.Red("Error")+": "+err.Error())
		return cli.Exit(cliExitStr, report.ExitFailure)
	}

	cmdstate.Println(cmd, color.Gray("# "+path))
	fmt.Fprint(cmdstate.Out(cmd), string(b)) //nolint:errcheck

	return nil
}

func editAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := cmdstate.RequireConfig(cmd)
	if err != nil {
		return err
	}

	edited, err := cmdstate.EditConfig(ctx, cfg)
	if err != nil {
		cmdstate.Println(cmd, color.Red("Error")+": "+err.Error())
		cmdstate.Println(cmd, color.Yellow("The configuration was not changed."))

		return cli.Exit(cliExitStr, report.ExitFailure)
	}

	path := cmdstate.ConfigPath(cmd)
	if err := config.Save(path, edited); err != nil {
		cmdstate.Println(cmd, fmt.Sprintf("Error writing config file!\n\n%v", err))
		return cli.Exit(cliExitStr, report.ExitFailure)
	}

	cmdstate.Println(cmd, color.Green("Configuration saved to "+path))

	return nil
}
