// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

//go:build windows

package runbatch

import (
	"os"
	"syscall"
)

// DefaultShell returns the shell used to interpret command lines.
func DefaultShell() []string {
	return []string{"cmd.exe", "/d", "/s", "/c"}
}

func sysProcAttr(bool) *syscall.SysProcAttr {
	return nil
}

// Windows has no SIGTERM, so terminate and kill are the same.
func terminateProcess(p *os.Process, _ bool) error {
	return p.Kill() //nolint:wrapcheck
}

func killProcess(p *os.Process, _ bool) error {
	return p.Kill() //nolint:wrapcheck
}
