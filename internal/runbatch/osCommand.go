// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/matt-FFFFFF/mfer/internal/ctxlog"
	"github.com/matt-FFFFFF/mfer/internal/signalbroker"
)

const (
	// DefaultGracePeriod is how long a terminated process has before it is killed.
	DefaultGracePeriod = 3 * time.Second
	// outputWaitDelay bounds how long output is drained after the process exits,
	// in case a background grandchild still holds the pipe open.
	outputWaitDelay = 2 * time.Second
)

var (
	_ Runnable       = (*OSCommand)(nil)
	_ spawnSignaller = (*OSCommand)(nil)
)

// OSCommand runs a command line through a shell in the command's working directory.
type OSCommand struct {
	*BaseCommand
	CommandLine string                   // Passed verbatim to the shell
	Shell       []string                 // Shell and flags, defaults to DefaultShell()
	Stdin       *os.File                 // Nil means the null device
	Stdout      io.Writer                // Nil means the null device
	Stderr      io.Writer                // Nil means the null device
	Output      io.Writer                // If set, receives both stdout and stderr
	Isolate     bool                     // Start the process in its own process group and signal the whole group
	GracePeriod time.Duration            // Time between terminate and kill, defaults to DefaultGracePeriod
	Controller  *signalbroker.Controller // Tracks the running process, may be nil
}

func (c *OSCommand) signalsSpawn() bool { return true }

// Run implements the Runnable interface for OSCommand.
func (c *OSCommand) Run(ctx context.Context) *Result {
	logger := ctxlog.Logger(ctx).With("runnableType", "OSCommand", "label", c.GetLabel())

	spawned := spawnHook(ctx)
	defer spawned()

	res := &Result{
		Label:    c.GetLabel(),
		Cwd:      c.Cwd,
		ExitCode: -1,
		Status:   ResultStatusError,
	}

	if strings.TrimSpace(c.CommandLine) == "" {
		res.Error = ErrEmptyCommand
		return res
	}

	if ctx.Err() != nil {
		res.Error = errors.Join(ErrNotStarted, context.Cause(ctx))
		res.Status = ResultStatusSkipped

		return res
	}

	shell := c.Shell
	if len(shell) == 0 {
		shell = DefaultShell()
	}

	path, err := exec.LookPath(shell[0])
	if err != nil {
		res.Error = errors.Join(ErrCouldNotStartProcess, err)
		return res
	}

	std, err := c.openStdio()
	if err != nil {
		res.Error = err
		return res
	}
	defer std.close()

	argv := append(slices.Clone(shell), c.CommandLine)

	logger.Debug("starting process", "path", path, "cwd", c.Cwd, "command", c.CommandLine)

	start := time.Now()
	ps, err := os.StartProcess(path, argv, &os.ProcAttr{
		Dir:   c.Cwd,
		Env:   c.environ(os.Environ()),
		Files: std.files,
		Sys:   sysProcAttr(c.Isolate),
	})

	// the child has its own copies now
	std.closeChildEnds()
	spawned()

	if err != nil {
		logger.Debug("could not start process", "error", err)
		res.Error = errors.Join(ErrCouldNotStartProcess, err)

		return res
	}

	res.Spawned = true
	logger.Debug("process started", "pid", ps.Pid)

	proc := &process{ps: ps, group: c.Isolate}
	untrack := c.Controller.Track(proc)

	grace := c.GracePeriod
	if grace <= 0 {
		grace = DefaultGracePeriod
	}

	done := make(chan struct{})

	var (
		wg      sync.WaitGroup
		killErr error
	)

	// watchdog, stops the process when the context is done
	wg.Add(1)

	go func() {
		defer wg.Done()

		select {
		case <-done:
			return
		case <-ctx.Done():
		}

		select {
		case <-done:
			return
		default:
		}

		killErr = context.Cause(ctx)
		logger.Info("context done, terminating process", "pid", ps.Pid, "cause", killErr)

		if err := proc.Terminate(); err != nil && !errors.Is(err, os.ErrProcessDone) {
			logger.Debug("terminate failed", "pid", ps.Pid, "error", err)
		}

		t := time.NewTimer(grace)
		defer t.Stop()

		select {
		case <-done:
		case <-t.C:
			logger.Info("grace period exceeded, killing process", "pid", ps.Pid)

			if err := proc.kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
				logger.Error("process kill error", "pid", ps.Pid, "error", err)
			}
		}
	}()

	state, waitErr := ps.Wait()
	res.Duration = time.Since(start)

	close(done)
	wg.Wait()
	untrack()

	if c.Isolate {
		// reap anything left in the group
		_ = proc.kill()
	}

	std.drain(outputWaitDelay)

	if state != nil {
		res.ExitCode = state.ExitCode()
	}

	switch {
	case killErr != nil:
		res.Error = errors.Join(ErrTerminated, killErr)
		res.Status = ResultStatusError
	case waitErr != nil:
		res.Error = waitErr
		res.Status = ResultStatusError
	case res.ExitCode == 0:
		res.Status = ResultStatusSuccess
	default:
		res.Status = ResultStatusError
	}

	logger.Debug("process finished", "exitCode", res.ExitCode, "status", res.Status.String(), "duration", res.Duration)

	return res
}

// process adapts *os.Process to signalbroker.Terminator.
type process struct {
	ps    *os.Process
	group bool
}

// Terminate asks the process to stop.
func (p *process) Terminate() error {
	return terminateProcess(p.ps, p.group)
}

func (p *process) kill() error {
	return killProcess(p.ps, p.group)
}

// stdio holds the files handed to the child and the goroutines copying its output.
type stdio struct {
	files      []*os.File // stdin, stdout, stderr for the child
	childEnds  []*os.File // closed in the parent once the child is started
	parentEnds []*os.File // read ends of pipes, closed after draining
	copies     sync.WaitGroup
}

func (c *OSCommand) openStdio() (*stdio, error) {
	s := &stdio{files: make([]*os.File, 3)} //nolint:mnd

	in := c.Stdin
	if in == nil {
		f, err := os.Open(os.DevNull)
		if err != nil {
			return nil, errors.Join(ErrCouldNotStartProcess, err)
		}

		s.childEnds = append(s.childEnds, f)
		in = f
	}

	s.files[0] = in

	if c.Output != nil {
		f, err := s.writerFile(c.Output)
		if err != nil {
			s.close()
			return nil, err
		}

		s.files[1], s.files[2] = f, f

		return s, nil
	}

	for i, w := range []io.Writer{c.Stdout, c.Stderr} {
		f, err := s.writerFile(w)
		if err != nil {
			s.close()
			return nil, err
		}

		s.files[i+1] = f
	}

	return s, nil
}

// writerFile returns a file the child can write to that ends up in w.
func (s *stdio) writerFile(w io.Writer) (*os.File, error) {
	if f, ok := w.(*os.File); ok {
		return f, nil
	}

	if w == nil {
		f, err := os.OpenFile(os.DevNull, os.O_WRONLY, 0)
		if err != nil {
			return nil, errors.Join(ErrCouldNotStartProcess, err)
		}

		s.childEnds = append(s.childEnds, f)

		return f, nil
	}

	r, pw, err := os.Pipe()
	if err != nil {
		return nil, errors.Join(ErrFailedToCreatePipe, err)
	}

	s.childEnds = append(s.childEnds, pw)
	s.parentEnds = append(s.parentEnds, r)
	s.copies.Add(1)

	go func() {
		defer s.copies.Done()
		_, _ = io.Copy(w, r)
	}()

	return pw, nil
}

func (s *stdio) closeChildEnds() {
	for _, f := range s.childEnds {
		_ = f.Close()
	}

	s.childEnds = nil
}

// drain waits for the output copies to finish, giving up after d.
func (s *stdio) drain(d time.Duration) {
	done := make(chan struct{})

	go func() {
		s.copies.Wait()
		close(done)
	}()

	select {
	case <-done:
		return
	case <-time.After(d):
	}

	// unblock the copies by closing the read ends
	for _, f := range s.parentEnds {
		_ = f.Close()
	}

	<-done
}

func (s *stdio) close() {
	s.closeChildEnds()

	for _, f := range s.parentEnds {
		_ = f.Close()
	}

	s.copies.Wait()
}
