// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"context"
	"fmt"
	"sync"

	"github.com/matt-FFFFFF/mfer/internal/ctxlog"
	"github.com/matt-FFFFFF/mfer/internal/progress"
	"github.com/matt-FFFFFF/mfer/internal/signalbroker"
)

var _ Batch = (*ParallelBatch)(nil)

// ParallelBatch starts all of its commands at once and waits for every one of them.
// When a command's result matches KillOthersOn, the remaining commands are stopped,
// but only after every command has spawned or failed to spawn.
type ParallelBatch struct {
	Label        string
	Commands     []Runnable
	KillOthersOn KillTrigger
	Controller   *signalbroker.Controller
	Reporter     progress.Reporter
}

// Run implements the Batch interface for ParallelBatch.
func (b *ParallelBatch) Run(ctx context.Context) *RunReport {
	logger := ctxlog.Logger(ctx).With("runnableType", "ParallelBatch", "label", b.Label)

	bctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	report := NewRunReport()
	wg := &sync.WaitGroup{}
	resChan := make(chan *Result, len(b.Commands))

	// released once every command has spawned or failed to
	spawned := &sync.WaitGroup{}
	spawned.Add(len(b.Commands))

	for i, cmd := range b.Commands {
		wg.Add(1)

		go func() {
			defer wg.Done()

			var once sync.Once

			markSpawned := func() { once.Do(spawned.Done) }

			cctx := bctx
			if signalsSpawn(cmd) {
				cctx = withSpawnHook(bctx, markSpawned)
			} else {
				markSpawned()
			}

			reportStarted(b.Reporter, cmd)

			res := cmd.Run(cctx)
			res.index = i

			markSpawned()
			reportFinished(b.Reporter, res)

			if b.KillOthersOn.Triggered(res) {
				// siblings that have not spawned yet must not be skipped
				spawned.Wait()

				if bctx.Err() == nil {
					logger.Info("stopping other commands", "trigger", b.KillOthersOn.String(), "cause", res.Label)
					cancel(fmt.Errorf("%w: %s", ErrSiblingExited, res.Label))
				}
			}

			resChan <- res
		}()
	}

	wg.Wait()
	close(resChan)

	// results arrive in completion order
	for r := range resChan {
		_ = report.Append(r)
	}

	report.Cancelled = b.Controller.Cancelled()
	report.Freeze()

	return report
}
