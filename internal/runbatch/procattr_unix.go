// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

//go:build !windows

package runbatch

import (
	"errors"
	"os"
	"syscall"
)

// DefaultShell returns the shell used to interpret command lines.
func DefaultShell() []string {
	return []string{"/bin/sh", "-c"}
}

func sysProcAttr(isolate bool) *syscall.SysProcAttr {
	if !isolate {
		return nil
	}

	return &syscall.SysProcAttr{Setpgid: true}
}

func terminateProcess(p *os.Process, group bool) error {
	return signalProcess(p, group, syscall.SIGTERM)
}

func killProcess(p *os.Process, group bool) error {
	return signalProcess(p, group, syscall.SIGKILL)
}

func signalProcess(p *os.Process, group bool, sig syscall.Signal) error {
	if group {
		err := syscall.Kill(-p.Pid, sig)
		if errors.Is(err, syscall.ESRCH) {
			return os.ErrProcessDone
		}

		return err //nolint:wrapcheck
	}

	return p.Signal(sig) //nolint:wrapcheck
}
