// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package target

import (
	"context"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/matt-FFFFFF/mfer/internal/ctxlog"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
)

const (
	// ReasonMissing is given for a target whose directory does not exist.
	ReasonMissing = "directory does not exist"
	// ReasonNotGit is given for a directory that is not a git working copy.
	ReasonNotGit = "not a git repository"
)

// Invalid is a target that failed validation.
type Invalid struct {
	Name   string
	Path   string
	Reason string
}

// Validation partitions targets into valid and invalid, each in input order.
type Validation struct {
	Valid   []string
	Invalid []Invalid
}

// AnyMissing reports whether any invalid target was missing entirely.
func (v *Validation) AnyMissing() bool {
	for _, i := range v.Invalid {
		if i.Reason == ReasonMissing {
			return true
		}
	}

	return false
}

// GitProbe reports whether path is a git working copy.
type GitProbe func(ctx context.Context, path string) bool

// GitCheckout asks git itself whether path is inside a working copy.
func GitCheckout(ctx context.Context, path string) bool {
	cmd := exec.CommandContext(ctx, "git", "rev-parse", "--git-dir")
	cmd.Dir = path

	if err := cmd.Run(); err != nil {
		ctxlog.Debug(ctx, "git probe failed", "path", path, "error", err)
		return false
	}

	return true
}

// Validate checks each name's directory under baseDir. Probes run in parallel
// but the result lists keep the order of names. Each target is probed once.
func Validate(ctx context.Context, fs afero.Fs, names []string, baseDir string, probe GitProbe) *Validation {
	if probe == nil {
		probe = GitCheckout
	}

	reasons := make([]string, len(names))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, name := range names {
		g.Go(func() error {
			path := filepath.Join(baseDir, name)

			if ok, err := afero.Exists(fs, path); err != nil || !ok {
				reasons[i] = ReasonMissing
				return nil
			}

			if !probe(gctx, path) {
				reasons[i] = ReasonNotGit
			}

			return nil
		})
	}

	_ = g.Wait()

	res := &Validation{}

	for i, name := range names {
		if reasons[i] == "" {
			res.Valid = append(res.Valid, name)
			continue
		}

		res.Invalid = append(res.Invalid, Invalid{
			Name:   name,
			Path:   filepath.Join(baseDir, name),
			Reason: reasons[i],
		})
	}

	return res
}
