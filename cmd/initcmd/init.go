// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package initcmd implements `mfer init`, which creates the configuration file.
package initcmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/matt-FFFFFF/mfer/cmd/cmdstate"
	"github.com/matt-FFFFFF/mfer/internal/color"
	"github.com/matt-FFFFFF/mfer/internal/config"
	"github.com/matt-FFFFFF/mfer/internal/ctxlog"
	"github.com/matt-FFFFFF/mfer/internal/report"
	"github.com/matt-FFFFFF/mfer/internal/target"
	"github.com/peterh/liner"
	"github.com/urfave/cli/v3"
)

const (
	fromFlag   = "from"
	guidedFlag = "guided"
	forceFlag  = "force"
	cliExitStr = ""
)

// ErrAborted is returned when the user aborts the guided setup.
var ErrAborted = errors.New("setup aborted")

// Prompter asks the user for one line of input.
type Prompter interface {
	Prompt(prompt string) (string, error)
	Close() error
}

// NewPrompter returns the line editor used by --guided.
var NewPrompter = func() Prompter {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	return line
}

// NewCommand returns the init command.
func NewCommand() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "setup a new configuration",
		Description: `Create the configuration file. By default an editor is opened on a template.

--from imports an existing file using Hashicorp's go-getter syntax,
e.g. a local path, an https URL or git::https://github.com/org/repo//mfer.yaml?ref=main.
See https://github.com/hashicorp/go-getter.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     fromFlag,
				Usage:    "Import the configuration from a go-getter URL",
				OnlyOnce: true,
			},
			&cli.BoolFlag{
				Name:    guidedFlag,
				Aliases: []string{"g"},
				Usage:   "Answer a few questions instead of editing a template",
			},
			&cli.BoolFlag{
				Name:    forceFlag,
				Aliases: []string{"f"},
				Usage:   "Overwrite an existing configuration",
			},
		},
		Action: actionFunc,
	}
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	path := cmdstate.ConfigPath(cmd)
	logger := ctxlog.Logger(ctx).With("command", cmd.Name, "path", path)

	if config.Exists(path) && !cmd.Bool(forceFlag) {
		cmdstate.Println(cmd, fmt.Sprintf("%s: config already exists, you can edit it with %s",
			color.Red("Error"), color.Blue("mfer config edit")))

		return cli.Exit(cliExitStr, report.ExitFailure)
	}

	var (
		cfg *config.Config
		err error
	)

	switch {
	case cmd.String(fromFlag) != "":
		cfg, err = fromURL(ctx, cmd.String(fromFlag))
	case cmd.Bool(guidedFlag):
		cfg, err = guided(cmd)
	default:
		cfg, err = cmdstate.EditConfig(ctx, config.Template())
	}

	if errors.Is(err, ErrAborted) {
		cmdstate.Println(cmd, color.Yellow("Aborted"))
		return cli.Exit(cliExitStr, report.ExitInterrupted)
	}

	if err != nil {
		logger.Debug("configuration not created", "error", err)
		cmdstate.Println(cmd, color.Red("Error")+": "+err.Error())

		return cli.Exit(cliExitStr, report.ExitFailure)
	}

	if err := config.Save(path, cfg); err != nil {
		cmdstate.Println(cmd, fmt.Sprintf("Error writing config file!\n\n%v", err))
		return cli.Exit(cliExitStr, report.ExitFailure)
	}

	cmdstate.Println(cmd, color.Green("Configuration saved to "+path))

	return nil
}

func fromURL(ctx context.Context, url string) (*config.Config, error) {
	data, err := config.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	cfg, err := config.Parse(url, data)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func guided(cmd *cli.Command) (*config.Config, error) {
	p := NewPrompter()

	defer func() {
		_ = p.Close()
	}()

	ask := func(q string) (string, error) {
		s, err := p.Prompt(q)
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", ErrAborted
		}

		return strings.TrimSpace(s), err
	}

	cmdstate.Println(cmd, "Answer the questions below, press Ctrl+C to abort.")

	cfg := &config.Config{Groups: map[string][]string{}}

	var err error

	if cfg.MfeDirectory, err = ask("Directory containing your micro frontends: "); err != nil {
		return nil, err
	}

	if cfg.BaseGithubURL, err = ask("Base GitHub URL for cloning (optional): "); err != nil {
		return nil, err
	}

	repos, err := ask("Micro frontend repositories, separated by spaces: ")
	if err != nil {
		return nil, err
	}

	cfg.Groups[target.AllGroup] = strings.Fields(repos)

	if cfg.LibDirectory, err = ask("Directory containing your shared libraries (optional): "); err != nil {
		return nil, err
	}

	if cfg.LibDirectory != "" {
		libs, err := ask("Libraries, separated by spaces: ")
		if err != nil {
			return nil, err
		}

		cfg.Libs = strings.Fields(libs)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}
