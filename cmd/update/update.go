// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package update implements `mfer update`.
package update

import (
	"context"
	"fmt"
	"os"

	"github.com/matt-FFFFFF/mfer"
	"github.com/matt-FFFFFF/mfer/cmd/cmdstate"
	"github.com/matt-FFFFFF/mfer/internal/color"
	"github.com/matt-FFFFFF/mfer/internal/report"
	"github.com/matt-FFFFFF/mfer/internal/runbatch"
	"github.com/matt-FFFFFF/mfer/internal/signalbroker"
	"github.com/matt-FFFFFF/mfer/internal/version"
	"github.com/urfave/cli/v3"
)

const cliExitStr = ""

var (
	// Latest returns the latest published version.
	Latest version.LatestFunc = version.LatestFromNpm
	// Install installs the latest version and returns the result.
	Install = func(ctx context.Context) *runbatch.Result {
		cmd := &runbatch.OSCommand{
			BaseCommand: runbatch.NewBaseCommand("npm install", "", nil),
			CommandLine: version.UpdateCommand,
			Stdin:       os.Stdin,
			Stdout:      os.Stdout,
			Stderr:      os.Stderr,
			Controller:  signalbroker.FromContext(ctx),
		}

		return cmd.Run(ctx)
	}
)

// NewCommand returns the update command.
func NewCommand() *cli.Command {
	return &cli.Command{
		Name:   "update",
		Usage:  "update mfer to the latest version",
		Action: actionFunc,
	}
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	cmdstate.Println(cmd, color.Blue("Current version: "+mfer.Version))
	cmdstate.Println(cmd, color.Blue("Checking for updates..."))

	latest, err := Latest(ctx)
	if err != nil {
		cmdstate.Println(cmd, color.Red("Error: Could not fetch the latest version from npm."))
		return cli.Exit(cliExitStr, report.ExitFailure)
	}

	if !version.IsNewer(mfer.Version, latest) {
		cmdstate.Println(cmd, color.Green("You are already on the latest version."))
		return nil
	}

	cmdstate.Println(cmd, color.Yellow("New version available: "+latest))
	cmdstate.Println(cmd, color.Blue("Updating mfer..."))

	res := Install(ctx)
	if !res.Succeeded() {
		cmdstate.Println(cmd, color.Red(fmt.Sprintf("Error: Update failed with exit code %d. Try running: %s",
			res.ExitCode, version.UpdateCommand)))

		return cli.Exit(cliExitStr, report.ExitFailure)
	}

	cmdstate.Println(cmd, color.Green(fmt.Sprintf("Successfully updated mfer to %s.", latest)))

	return nil
}
