// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package libs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/matt-FFFFFF/mfer/internal/ctxlog"
	"github.com/spf13/afero"
)

const (
	// DistDir is the build output directory of a library.
	DistDir     = "dist"
	packageJSON = "package.json"
)

var (
	// ErrUnknownLibrary is wrapped by UnknownLibraryError.
	ErrUnknownLibrary = errors.New("library not found in configuration")
	// ErrNoLibraries is returned when the configuration lists no libraries.
	ErrNoLibraries = errors.New("no libraries configured")
	// ErrNotBuilt is returned when a library has no build output to deploy.
	ErrNotBuilt = errors.New("build directory not found")
)

// Status is the build state of a library checkout.
type Status int

const (
	// StatusMissing means the library directory does not exist.
	StatusMissing Status = iota
	// StatusNotBuilt means the directory exists without a dist folder.
	StatusNotBuilt
	// StatusBuilt means the dist folder exists.
	StatusBuilt
)

func (s Status) String() string {
	switch s {
	case StatusMissing:
		return "Directory not found"
	case StatusNotBuilt:
		return "Not built"
	case StatusBuilt:
		return "Built"
	}

	return "Unknown"
}

// Info describes one configured library.
type Info struct {
	Name   string
	Path   string
	Status Status
}

// Inspect returns the status of each library in names, in order.
func Inspect(fs afero.Fs, libDir string, names []string) []Info {
	res := make([]Info, 0, len(names))

	for _, name := range names {
		path := filepath.Join(libDir, name)
		info := Info{Name: name, Path: path, Status: StatusMissing}

		if ok, _ := afero.DirExists(fs, path); ok {
			info.Status = StatusNotBuilt
			if ok, _ := afero.DirExists(fs, filepath.Join(path, DistDir)); ok {
				info.Status = StatusBuilt
			}
		}

		res = append(res, info)
	}

	return res
}

// UnknownLibraryError is returned when a library name is not configured.
type UnknownLibraryError struct {
	Name  string
	Known []string
}

func (e *UnknownLibraryError) Error() string {
	return fmt.Sprintf("Library '%s' not found in configuration.", e.Name)
}

func (e *UnknownLibraryError) Unwrap() error {
	return ErrUnknownLibrary
}

// KnownList returns the configured libraries as a comma separated list.
func (e *UnknownLibraryError) KnownList() string {
	return strings.Join(e.Known, ", ")
}

// Select returns the libraries a command operates on: all of them when name
// is empty, otherwise just name.
func Select(libs []string, name string) ([]string, error) {
	if len(libs) == 0 {
		return nil, ErrNoLibraries
	}

	if name == "" {
		return slices.Clone(libs), nil
	}

	if !slices.Contains(libs, name) {
		return nil, &UnknownLibraryError{Name: name, Known: slices.Clone(libs)}
	}

	return []string{name}, nil
}

// PackageName returns the npm package name of a library, which may be scoped.
// It falls back to the directory name when package.json is absent or unnamed.
func PackageName(ctx context.Context, fs afero.Fs, libDir, name string) string {
	path := filepath.Join(libDir, name, packageJSON)

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		ctxlog.Warn(ctx, "package.json not found, using directory name", "lib", name, "path", path)
		return name
	}

	var pkg struct {
		Name string `json:"name"`
	}

	if err := json.Unmarshal(data, &pkg); err != nil {
		ctxlog.Warn(ctx, "could not parse package.json", "lib", name, "error", err)
		return name
	}

	if pkg.Name == "" {
		return name
	}

	return pkg.Name
}
