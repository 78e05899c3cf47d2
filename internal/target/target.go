// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package target

import (
	"errors"
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"strings"
)

// AllGroup is the group name used when none is requested. By convention it lists every target.
const AllGroup = "all"

var (
	// ErrUnknownGroup is returned when the requested group is not configured.
	ErrUnknownGroup = errors.New("unknown group")
	// ErrEmptyGroup is returned when the requested group has no targets.
	ErrEmptyGroup = errors.New("empty group")
)

// Target is a named directory that a command runs in.
type Target struct {
	Name string // Unique name, e.g. the repository name
	Dir  string // Absolute working directory
}

// Targets joins each name onto baseDir.
func Targets(baseDir string, names []string) []Target {
	res := make([]Target, 0, len(names))
	for _, n := range names {
		res = append(res, Target{Name: n, Dir: filepath.Join(baseDir, n)})
	}

	return res
}

// Names returns the names of ts in order.
func Names(ts []Target) []string {
	res := make([]string, 0, len(ts))
	for _, t := range ts {
		res = append(res, t.Name)
	}

	return res
}

// UnknownGroupError carries the configured group names for display.
type UnknownGroupError struct {
	Name  string
	Known []string // Sorted
}

func (e *UnknownGroupError) Error() string {
	return fmt.Sprintf("no group found with name '%s'", e.Name)
}

// Unwrap allows errors.Is(err, ErrUnknownGroup).
func (e *UnknownGroupError) Unwrap() error {
	return ErrUnknownGroup
}

// KnownList returns the known groups as a comma separated list.
func (e *UnknownGroupError) KnownList() string {
	return strings.Join(e.Known, ", ")
}

// EmptyGroupError is returned for a group with no targets.
type EmptyGroupError struct {
	Name string
}

func (e *EmptyGroupError) Error() string {
	return fmt.Sprintf("group '%s' has no micro frontends defined", e.Name)
}

// Unwrap allows errors.Is(err, ErrEmptyGroup).
func (e *EmptyGroupError) Unwrap() error {
	return ErrEmptyGroup
}

// Resolve returns the target names of the named group.
// An empty name means AllGroup. Order and duplicates are kept as configured,
// and the result is a copy so callers may modify it freely.
func Resolve(groups map[string][]string, name string) ([]string, error) {
	if name == "" {
		name = AllGroup
	}

	names, ok := groups[name]
	if !ok {
		return nil, &UnknownGroupError{
			Name:  name,
			Known: slices.Sorted(maps.Keys(groups)),
		}
	}

	if len(names) == 0 {
		return nil, &EmptyGroupError{Name: name}
	}

	return slices.Clone(names), nil
}
