// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package selector

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Prompt is a terminal multi-select built on bubbletea.
type Prompt struct {
	In  *os.File
	Out io.Writer
}

// NewPrompt returns a prompt on the process's terminal.
func NewPrompt() *Prompt {
	return &Prompt{In: os.Stdin, Out: os.Stdout}
}

// Select implements Selector.
func (p *Prompt) Select(ctx context.Context, title string, candidates []string) ([]string, error) {
	if p.In == nil || !term.IsTerminal(int(p.In.Fd())) {
		return nil, ErrNotInteractive
	}

	m := newModel(title, candidates)
	prog := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithInput(p.In),
		tea.WithOutput(p.Out),
	)

	final, err := prog.Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, tea.ErrInterrupted) {
			return nil, ErrCancelled
		}

		return nil, fmt.Errorf("running selection prompt: %w", err)
	}

	fm, ok := final.(*model)
	if !ok || fm.cancelled {
		return nil, ErrCancelled
	}

	return fm.chosen(), nil
}

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Toggle key.Binding
	All    key.Binding
	Submit key.Binding
	Quit   key.Binding
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.All, k.Submit, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down}, k.ShortHelp()}
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Toggle: key.NewBinding(
		key.WithKeys(" ", "x"),
		key.WithHelp("space", "toggle"),
	),
	All: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "all"),
	),
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "confirm"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c", "esc", "q"),
		key.WithHelp("q", "cancel"),
	),
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	cursorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	checkedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

type model struct {
	title      string
	candidates []string
	selected   []bool
	cursor     int
	warning    string
	cancelled  bool
	done       bool
	help       help.Model
}

func newModel(title string, candidates []string) *model {
	return &model{
		title:      title,
		candidates: candidates,
		selected:   make([]bool, len(candidates)),
		help:       help.New(),
	}
}

// Init implements tea.Model.
func (m *model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(km, keys.Quit):
		m.cancelled = true
		return m, tea.Quit
	case key.Matches(km, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(km, keys.Down):
		if m.cursor < len(m.candidates)-1 {
			m.cursor++
		}
	case key.Matches(km, keys.Toggle):
		if len(m.selected) > 0 {
			m.selected[m.cursor] = !m.selected[m.cursor]
			m.warning = ""
		}
	case key.Matches(km, keys.All):
		all := !m.allSelected()
		for i := range m.selected {
			m.selected[i] = all
		}

		m.warning = ""
	case key.Matches(km, keys.Submit):
		if len(m.chosen()) == 0 {
			m.warning = "Select at least one item, or press q to cancel."
			return m, nil
		}

		m.done = true

		return m, tea.Quit
	}

	return m, nil
}

// View implements tea.Model.
func (m *model) View() string {
	if m.done || m.cancelled {
		return ""
	}

	b := &strings.Builder{}
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n\n")

	for i, c := range m.candidates {
		cursor := "  "
		if i == m.cursor {
			cursor = cursorStyle.Render("> ")
		}

		box := "[ ]"
		if m.selected[i] {
			box = checkedStyle.Render("[x]")
		}

		fmt.Fprintf(b, "%s%s %s\n", cursor, box, c)
	}

	if m.warning != "" {
		b.WriteString("\n" + warnStyle.Render(m.warning) + "\n")
	}

	b.WriteString("\n" + m.help.View(keys) + "\n")

	return b.String()
}

func (m *model) allSelected() bool {
	for _, s := range m.selected {
		if !s {
			return false
		}
	}

	return len(m.selected) > 0
}

func (m *model) chosen() []string {
	res := make([]string, 0, len(m.candidates))

	for i, c := range m.candidates {
		if m.selected[i] {
			res = append(res, c)
		}
	}

	return res
}
