// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package version checks the npm registry for newer releases of mfer.
package version

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	goversion "github.com/hashicorp/go-version"
	"github.com/matt-FFFFFF/mfer/internal/color"
	"github.com/matt-FFFFFF/mfer/internal/ctxlog"
	"github.com/matt-FFFFFF/mfer/internal/runbatch"
	"github.com/spf13/afero"
)

const (
	// EnvNoUpdateCheck disables the update notification when set to any value.
	EnvNoUpdateCheck = "MFER_NO_UPDATE_CHECK"
	// Package is the npm package mfer is published as.
	Package = "mfer"
	// UpdateCommand installs the latest release.
	UpdateCommand = "npm install -g " + Package + "@latest"

	stateFile    = ".last-notified-version"
	queryTimeout = 10 * time.Second
)

// ErrNoVersion is returned when the registry query produced no version.
var ErrNoVersion = errors.New("could not fetch the latest version from npm")

// LatestFunc returns the latest published version.
type LatestFunc func(ctx context.Context) (string, error)

// IsNewer reports whether latest is a higher version than current.
// Versions that do not parse are compared as strings, and only inequality counts.
func IsNewer(current, latest string) bool {
	if latest == "" || current == latest {
		return false
	}

	cv, err := goversion.NewVersion(current)
	if err != nil {
		return true
	}

	lv, err := goversion.NewVersion(latest)
	if err != nil {
		return true
	}

	return lv.GreaterThan(cv)
}

// LatestFromNpm runs `npm view mfer version` and returns its output.
func LatestFromNpm(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var out bytes.Buffer

	cmd := &runbatch.OSCommand{
		BaseCommand: runbatch.NewBaseCommand("npm view", "", nil),
		CommandLine: "npm view " + Package + " version",
		Stdout:      &out,
	}

	res := cmd.Run(ctx)
	if !res.Succeeded() {
		return "", errors.Join(ErrNoVersion, res.Error)
	}

	v := strings.TrimSpace(out.String())
	if v == "" {
		return "", ErrNoVersion
	}

	return v, nil
}

// Checker prints an update notice at most once per published version.
type Checker struct {
	Fs        afero.Fs
	StatePath string
	Current   string
	Latest    LatestFunc
}

// NewChecker returns a checker for the running version that records state in stateDir.
func NewChecker(fs afero.Fs, stateDir, current string) *Checker {
	return &Checker{
		Fs:        fs,
		StatePath: filepath.Join(stateDir, stateFile),
		Current:   current,
		Latest:    LatestFromNpm,
	}
}

// Enabled reports whether the notification has not been switched off.
func Enabled() bool {
	_, set := os.LookupEnv(EnvNoUpdateCheck)
	return !set
}

// Notify writes an update notice to w if a newer version exists that the user
// has not been told about yet. Every failure is logged and swallowed.
func (c *Checker) Notify(ctx context.Context, w io.Writer) bool {
	if c.Current == "" || c.Current == "dev" || c.Current == "unknown" {
		return false
	}

	latest, err := c.Latest(ctx)
	if err != nil {
		ctxlog.Debug(ctx, "update check failed", "error", err)
		return false
	}

	if !IsNewer(c.Current, latest) {
		return false
	}

	if c.lastNotified() == latest {
		return false
	}

	_, _ = fmt.Fprintln(w, color.Yellow(fmt.Sprintf("\n  Update available: %s → %s", c.Current, latest)))
	_, _ = fmt.Fprintln(w, color.Yellow(fmt.Sprintf("  Run %s to update.\n", color.Bold("mfer update"))))

	if err := c.save(latest); err != nil {
		ctxlog.Debug(ctx, "could not record notified version", "error", err)
	}

	return true
}

func (c *Checker) lastNotified() string {
	data, err := afero.ReadFile(c.Fs, c.StatePath)
	if err != nil {
		return ""
	}

	return strings.TrimSpace(string(data))
}

func (c *Checker) save(v string) error {
	if err := c.Fs.MkdirAll(filepath.Dir(c.StatePath), 0o755); err != nil { //nolint:mnd
		return err
	}

	return afero.WriteFile(c.Fs, c.StatePath, []byte(v), 0o644) //nolint:mnd
}
