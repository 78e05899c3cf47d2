// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package main is the entry point for the mfer command-line application.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/matt-FFFFFF/mfer"
	"github.com/matt-FFFFFF/mfer/cmd"
	"github.com/matt-FFFFFF/mfer/internal/config"
	"github.com/matt-FFFFFF/mfer/internal/ctxlog"
	"github.com/matt-FFFFFF/mfer/internal/report"
	"github.com/matt-FFFFFF/mfer/internal/signalbroker"
	"github.com/matt-FFFFFF/mfer/internal/version"
	"github.com/urfave/cli/v3"
)

func main() {
	ctx := ctxlog.New(context.Background(), ctxlog.DefaultLogger)
	ctx, controller := signalbroker.NewController(ctx)

	signalbroker.Install(ctx, controller)

	err := cmd.NewRootCmd().Run(ctx, os.Args)
	code := exitCode(err, controller.Cancelled())

	if code != report.ExitInterrupted && version.Enabled() {
		version.NewChecker(config.FsFactory(), config.StateDir(), mfer.Version).Notify(ctx, os.Stdout)
	}

	ctxlog.Debug(ctx, "command completed", "exit_code", code)
	os.Exit(code)
}

// exitCode maps the result of the root command to the process exit status.
func exitCode(err error, cancelled bool) int {
	if cancelled {
		return report.ExitInterrupted
	}

	if err == nil {
		return report.ExitOK
	}

	var ec cli.ExitCoder
	if errors.As(err, &ec) {
		if msg := ec.Error(); msg != "" {
			fmt.Fprintln(os.Stderr, msg) //nolint:errcheck
		}

		return ec.ExitCode()
	}

	// Flag parsing and unknown commands.
	fmt.Fprintln(os.Stderr, err) //nolint:errcheck

	return report.ExitUsage
}
