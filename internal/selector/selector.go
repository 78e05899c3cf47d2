// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package selector narrows a list of targets with an interactive multi-select.
// Cancelling the prompt, or a selector returning nothing, ends the invocation.
package selector

import (
	"context"
	"errors"
	"slices"
)

var (
	// ErrCancelled is returned when the user aborts the selection.
	ErrCancelled = errors.New("selection cancelled")
	// ErrNotInteractive is returned when there is no terminal to prompt on.
	ErrNotInteractive = errors.New("interactive selection requires a terminal")
)

// Selector presents candidates and returns the chosen subset.
type Selector interface {
	Select(ctx context.Context, title string, candidates []string) ([]string, error)
}

// Func adapts a function to the Selector interface.
type Func func(ctx context.Context, title string, candidates []string) ([]string, error)

// Select calls f.
func (f Func) Select(ctx context.Context, title string, candidates []string) ([]string, error) {
	return f(ctx, title, candidates)
}

// Filter runs s over candidates. An empty choice is treated as a cancellation.
// The result keeps candidate order and multiplicity and only contains candidates.
func Filter(ctx context.Context, s Selector, title string, candidates []string) ([]string, error) {
	chosen, err := s.Select(ctx, title, candidates)
	if err != nil {
		return nil, err
	}

	res := make([]string, 0, len(chosen))

	for _, c := range candidates {
		if slices.Contains(chosen, c) {
			res = append(res, c)
		}
	}

	if len(res) == 0 {
		return nil, ErrCancelled
	}

	return res, nil
}
