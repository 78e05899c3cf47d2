// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package color

import (
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

const (
	// NoColor is the environment variable that disables color output.
	NoColor = "NO_COLOR"
	// ForceColor is the environment variable that forces color output.
	ForceColor = "FORCE_COLOR"
)

// Code is a terminal foreground colour.
type Code int

// Foreground colours, mapped onto the 16 colour ANSI palette.
const (
	FgDefault Code = iota
	FgRed
	FgGreen
	FgYellow
	FgBlue
	FgMagenta
	FgCyan
	FgWhite
	FgGray
	FgHiRed
	FgHiWhite
)

var palette = map[Code]lipgloss.Color{
	FgRed:     lipgloss.Color("1"),
	FgGreen:   lipgloss.Color("2"),
	FgYellow:  lipgloss.Color("3"),
	FgBlue:    lipgloss.Color("4"),
	FgMagenta: lipgloss.Color("5"),
	FgCyan:    lipgloss.Color("6"),
	FgWhite:   lipgloss.Color("7"),
	FgGray:    lipgloss.Color("8"),
	FgHiRed:   lipgloss.Color("9"),
	FgHiWhite: lipgloss.Color("15"),
}

var (
	mu       sync.RWMutex
	enabled  bool
	renderer *lipgloss.Renderer
)

func init() {
	SetEnabled(isColorEnabled())
}

// SetEnabled overrides terminal detection. It is mostly useful in tests.
func SetEnabled(v bool) {
	mu.Lock()
	defer mu.Unlock()

	enabled = v
	renderer = lipgloss.NewRenderer(os.Stdout)

	if v {
		renderer.SetColorProfile(termenv.ANSI)
		return
	}

	renderer.SetColorProfile(termenv.Ascii)
}

// Enabled reports whether color output is enabled.
func Enabled() bool {
	mu.RLock()
	defer mu.RUnlock()

	return enabled
}

// Style returns a lipgloss style in the given colour, bound to the package renderer.
func Style(c Code) lipgloss.Style {
	mu.RLock()
	defer mu.RUnlock()

	s := renderer.NewStyle()
	if col, ok := palette[c]; ok {
		s = s.Foreground(col)
	}

	return s
}

// Colorize renders str in the given colour. Colour is skipped entirely when disabled.
func Colorize(str string, c Code) string {
	if !Enabled() || c == FgDefault {
		return str
	}

	return Style(c).Render(str)
}

// Bold renders str in bold.
func Bold(str string) string {
	if !Enabled() {
		return str
	}

	return Style(FgDefault).Bold(true).Render(str)
}

// Red renders str in red.
func Red(str string) string { return Colorize(str, FgRed) }

// Green renders str in green.
func Green(str string) string { return Colorize(str, FgGreen) }

// Yellow renders str in yellow.
func Yellow(str string) string { return Colorize(str, FgYellow) }

// Blue renders str in blue.
func Blue(str string) string { return Colorize(str, FgBlue) }

// Gray renders str in gray.
func Gray(str string) string { return Colorize(str, FgGray) }

// Strip removes any ANSI escape sequences from str.
func Strip(str string) string {
	return ansi.Strip(str)
}

func isColorEnabled() bool {
	if nc := os.Getenv(NoColor); nc != "" {
		return false
	}

	if fc := os.Getenv(ForceColor); fc != "" {
		return true
	}

	return term.IsTerminal(int(os.Stdout.Fd()))
}
