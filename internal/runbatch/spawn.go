// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"context"
)

type spawnHookKey struct{}

// spawnSignaller is implemented by Runnables that call the spawn hook in their
// context once the process has started or has failed to start.
type spawnSignaller interface {
	signalsSpawn() bool
}

func signalsSpawn(r Runnable) bool {
	s, ok := r.(spawnSignaller)
	return ok && s.signalsSpawn()
}

// withSpawnHook returns a context carrying fn, called when the process has started or failed to.
// fn may be called more than once.
func withSpawnHook(ctx context.Context, fn func()) context.Context {
	return context.WithValue(ctx, spawnHookKey{}, fn)
}

// spawnHook returns the hook in ctx, or a no-op.
func spawnHook(ctx context.Context) func() {
	if fn, ok := ctx.Value(spawnHookKey{}).(func()); ok && fn != nil {
		return fn
	}

	return func() {}
}
