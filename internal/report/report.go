// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package report renders a RunReport for the operator and maps it to a process exit code.
package report

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/matt-FFFFFF/mfer/internal/color"
	"github.com/matt-FFFFFF/mfer/internal/runbatch"
)

// Process exit codes.
const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitUsage       = 2
	ExitInterrupted = 130
)

// Summary holds the wording for one verb, e.g. Noun "MFE" and Verb "install".
type Summary struct {
	Noun       string // Prefix for each failure line, e.g. "MFE"
	Verb       string // What each target was doing, e.g. "install"
	Success    string // Printed when every target succeeded, may be empty
	Failure    string // Header printed before the failure list
	ShowOutput bool   // Print the last line of output under each failure
}

// DefaultSummary is used when the caller does not provide one.
var DefaultSummary = Summary{
	Noun:    "MFE",
	Verb:    "run",
	Success: "All commands completed successfully.",
	Failure: "One or more commands failed.",
}

// Render prints the report and returns the exit code.
// A cancelled report prints nothing and returns ExitInterrupted.
func Render(w io.Writer, rep *runbatch.RunReport, s Summary) int {
	if rep == nil || rep.Cancelled {
		return ExitInterrupted
	}

	if s.Verb == "" {
		s.Verb = DefaultSummary.Verb
	}

	if s.Failure == "" {
		s.Failure = DefaultSummary.Failure
	}

	if rep.AllSucceeded() {
		if s.Success != "" {
			fmt.Fprintln(w, color.Green(s.Success)) //nolint:errcheck
		}

		return ExitOK
	}

	fmt.Fprintln(w, color.Red(s.Failure)) //nolint:errcheck

	for _, f := range rep.Failures() {
		fmt.Fprintln(w, FailureLine(f, s)) //nolint:errcheck

		if s.ShowOutput && f.LastOutput != "" {
			fmt.Fprintf(w, "    last output: %s\n", f.LastOutput) //nolint:errcheck
		}
	}

	return ExitFailure
}

// FailureLine formats one failed result.
//
//	MFE mfe1 failed to install (cwd: /src/mfe1) with exit code 1
//	MFE mfe2 failed to install (cwd: /src/mfe2): could not start process
func FailureLine(r *runbatch.Result, s Summary) string {
	subject := r.Label
	if s.Noun != "" {
		subject = s.Noun + " " + r.Label
	}

	if r.Spawned && r.ExitCode >= 0 && !runbatch.Terminated(r) {
		return fmt.Sprintf("  %s failed to %s (cwd: %s) with exit code %d", subject, s.Verb, r.Cwd, r.ExitCode)
	}

	detail := oneLine(r.ErrorDetail())
	if detail == "" {
		detail = "unknown error"
	}

	return fmt.Sprintf("  %s failed to %s (cwd: %s): %s", subject, s.Verb, r.Cwd, detail)
}

// Failure is one failure line parsed back from rendered output.
type Failure struct {
	Target   string
	Cwd      string
	ExitCode int // -1 when the line carried an error instead of an exit code
	Detail   string
}

var failureRe = regexp.MustCompile(`^  (?:(\S+) )?(\S+) failed to (\S+) \(cwd: (.*?)\)(?: with exit code (-?\d+)|: (.*))$`)

// ParseFailures reads the failure lines back from rendered output.
// It assumes target names contain no whitespace.
func ParseFailures(r io.Reader) ([]Failure, error) {
	var res []Failure

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		m := failureRe.FindStringSubmatch(color.Strip(sc.Text()))
		if m == nil {
			continue
		}

		f := Failure{Target: m[2], Cwd: m[4], ExitCode: -1, Detail: m[6]}

		if m[5] != "" {
			code, err := strconv.Atoi(m[5])
			if err != nil {
				return nil, fmt.Errorf("parsing exit code %q: %w", m[5], err)
			}

			f.ExitCode = code
		}

		res = append(res, f)
	}

	return res, sc.Err() //nolint:wrapcheck
}

// oneLine flattens joined errors onto a single line.
func oneLine(s string) string {
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == '\n' })
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	return strings.Join(parts, ": ")
}
