// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package cmdstate holds what the verbs share: loading the configuration,
// resolving groups and libraries, and the factories tests replace with stubs.
// The factories are package variables because the commands are built once, at startup.
package cmdstate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/matt-FFFFFF/mfer/internal/color"
	"github.com/matt-FFFFFF/mfer/internal/config"
	"github.com/matt-FFFFFF/mfer/internal/libs"
	"github.com/matt-FFFFFF/mfer/internal/orchestrator"
	"github.com/matt-FFFFFF/mfer/internal/report"
	"github.com/matt-FFFFFF/mfer/internal/runbatch"
	"github.com/matt-FFFFFF/mfer/internal/signalbroker"
	"github.com/matt-FFFFFF/mfer/internal/target"
	"github.com/urfave/cli/v3"
)

const (
	// ConfigFlag is the root flag selecting the configuration file.
	ConfigFlag = "config"
	// SelectFlag asks the user to choose targets interactively.
	SelectFlag = "select"

	cliExitStr = ""
)

var (
	// LoadConfig reads the configuration file.
	LoadConfig = config.Load
	// NewOrchestrator returns the orchestrator a verb runs its batch with.
	NewOrchestrator = func(ctx context.Context) *orchestrator.Orchestrator {
		return orchestrator.New(runbatch.NewEngine(signalbroker.FromContext(ctx)))
	}
)

// Out returns where operator messages go.
func Out(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}

	return os.Stdout
}

// Println writes s and a newline to the command's output.
func Println(cmd *cli.Command, s string) {
	fmt.Fprintln(Out(cmd), s) //nolint:errcheck
}

// ConfigPath returns the configuration file the command should use.
func ConfigPath(cmd *cli.Command) string {
	return config.Path(cmd.String(ConfigFlag))
}

// RequireConfig loads the configuration, printing a hint when there is none.
func RequireConfig(cmd *cli.Command) (*config.Config, error) {
	cfg, err := LoadConfig(ConfigPath(cmd))

	switch {
	case errors.Is(err, config.ErrNotFound):
		Println(cmd, color.Red("Error")+": No configuration file detected")
		Println(cmd, "       Please run "+color.Bold(color.Blue("mfer init"))+" to create one")

		return nil, cli.Exit(cliExitStr, report.ExitFailure)
	case err != nil:
		Println(cmd, color.Red("Error")+": "+err.Error())
		return nil, cli.Exit(cliExitStr, report.ExitFailure)
	}

	return cfg, nil
}

// ResolveGroup returns the target names of group, printing the reason when it cannot.
func ResolveGroup(cmd *cli.Command, cfg *config.Config, group string) ([]string, error) {
	names, err := target.Resolve(cfg.Groups, group)
	if err == nil {
		return names, nil
	}

	var unknown *target.UnknownGroupError
	if errors.As(err, &unknown) {
		Println(cmd, fmt.Sprintf("%s: no group found with name '%s'", color.Red("Error"), unknown.Name))
		Println(cmd, "Available groups: "+color.Green(unknown.KnownList()))

		return nil, cli.Exit(cliExitStr, report.ExitUsage)
	}

	Println(cmd, color.Red("Error")+": "+err.Error()+".")

	return nil, cli.Exit(cliExitStr, report.ExitUsage)
}

// ResolveLibs returns the libraries a lib command operates on: all of them, or just name.
func ResolveLibs(cmd *cli.Command, cfg *config.Config, name string) ([]string, error) {
	if !cfg.HasLibs() {
		Println(cmd, color.Red("Error: Library configuration not found in config file."))
		Println(cmd, color.Yellow("Please run 'mfer init' to configure library settings."))

		return nil, cli.Exit(cliExitStr, report.ExitFailure)
	}

	selected, err := libs.Select(cfg.Libs, name)
	if err == nil {
		return selected, nil
	}

	var unknown *libs.UnknownLibraryError
	if errors.As(err, &unknown) {
		Println(cmd, color.Red("Error: "+unknown.Error()))
		Println(cmd, color.Yellow("Available libraries: "+unknown.KnownList()))

		return nil, cli.Exit(cliExitStr, report.ExitUsage)
	}

	Println(cmd, color.Red("Error: "+err.Error()))

	return nil, cli.Exit(cliExitStr, report.ExitFailure)
}

// Exit converts an orchestrator outcome into the error the cli framework expects.
// Errors that were already explained to the user are not printed again.
func Exit(cmd *cli.Command, code int, err error) error {
	if err != nil && !errors.Is(err, orchestrator.ErrNothingToRun) {
		Println(cmd, color.Red("Error")+": "+err.Error())
	}

	if code == report.ExitOK && err != nil {
		code = report.ExitFailure
	}

	if code == report.ExitOK {
		return nil
	}

	return cli.Exit(cliExitStr, code)
}

const groupArg = "group"

// GroupArgument is the optional positional group name taken by most verbs.
func GroupArgument() cli.Argument {
	return &cli.StringArg{
		Name:      groupArg,
		UsageText: "[GROUP]",
		Config: cli.StringConfig{
			TrimSpace: true,
		},
	}
}

// GroupName returns the group argument, defaulting to all.
func GroupName(cmd *cli.Command) string {
	if g := cmd.StringArg(groupArg); g != "" {
		return g
	}

	return target.AllGroup
}

// SelectFlagDef returns the --select flag with the given usage text.
func SelectFlagDef(usage string) cli.Flag {
	return &cli.BoolFlag{
		Name:    SelectFlag,
		Aliases: []string{"s"},
		Usage:   usage,
	}
}
