// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package cmdstate

import (
	"context"
	"errors"
	"os"
	"runtime"

	"github.com/matt-FFFFFF/mfer/internal/config"
	"github.com/matt-FFFFFF/mfer/internal/runbatch"
	"github.com/matt-FFFFFF/mfer/internal/signalbroker"
	"github.com/spf13/afero"
)

const editorHeader = "# This file is whitespace sensitive. Tabs are two spaces, and file must be valid YAML.\n"

// ErrEditor is returned when the editor exits unsuccessfully.
var ErrEditor = errors.New("editor failed")

// Editor opens path in the user's editor and waits for it to close.
var Editor = func(ctx context.Context, path string) error {
	cmd := &runbatch.OSCommand{
		BaseCommand: runbatch.NewBaseCommand("editor", "", nil),
		CommandLine: editorCommand() + ` "` + path + `"`,
		Stdin:       os.Stdin,
		Stdout:      os.Stdout,
		Stderr:      os.Stderr,
		Controller:  signalbroker.FromContext(ctx),
	}

	if res := cmd.Run(ctx); !res.Succeeded() {
		return errors.Join(ErrEditor, res.Error)
	}

	return nil
}

func editorCommand() string {
	if e := os.Getenv("VISUAL"); e != "" {
		return e
	}

	if e := os.Getenv("EDITOR"); e != "" {
		return e
	}

	if runtime.GOOS == "windows" {
		return "notepad"
	}

	return "vi"
}

// EditConfig lets the user edit cfg as YAML and returns the validated result.
func EditConfig(ctx context.Context, cfg *config.Config) (*config.Config, error) {
	fs := config.FsFactory()

	data, err := config.Marshal("config.yaml", cfg)
	if err != nil {
		return nil, err
	}

	f, err := afero.TempFile(fs, "", "mfer-*.yaml")
	if err != nil {
		return nil, err
	}

	path := f.Name()
	defer fs.Remove(path) //nolint:errcheck

	if _, err := f.WriteString(editorHeader + string(data)); err != nil {
		_ = f.Close()
		return nil, err
	}

	if err := f.Close(); err != nil {
		return nil, err
	}

	if err := Editor(ctx, path); err != nil {
		return nil, err
	}

	edited, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, err
	}

	res, err := config.Parse(path, edited)
	if err != nil {
		return nil, err
	}

	if err := res.Validate(); err != nil {
		return nil, err
	}

	return res, nil
}
