// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package selector

import (
	"context"
	"errors"
	"os"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixed(res []string, err error) Selector {
	return Func(func(context.Context, string, []string) ([]string, error) {
		return res, err
	})
}

func TestFilter(t *testing.T) {
	got, err := Filter(context.Background(), fixed([]string{"c", "a", "zzz", "a"}, nil), "pick", []string{"a", "b", "c"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, got)
}

func TestFilter_KeepsDuplicateCandidates(t *testing.T) {
	got, err := Filter(context.Background(), fixed([]string{"a"}, nil), "pick", []string{"a", "b", "a"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "a"}, got)
}

func TestFilter_EmptyIsCancelled(t *testing.T) {
	_, err := Filter(context.Background(), fixed(nil, nil), "pick", []string{"a"})
	require.ErrorIs(t, err, ErrCancelled)

	_, err = Filter(context.Background(), fixed([]string{"unknown"}, nil), "pick", []string{"a"})
	require.ErrorIs(t, err, ErrCancelled)
}

func TestFilter_PropagatesError(t *testing.T) {
	boom := errors.New("boom")
	_, err := Filter(context.Background(), fixed(nil, boom), "pick", []string{"a"})
	require.ErrorIs(t, err, boom)
}

func TestPrompt_NotInteractive(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "stdin")
	require.NoError(t, err)

	defer f.Close()

	_, err = (&Prompt{In: f, Out: os.Stdout}).Select(context.Background(), "pick", []string{"a"})
	require.ErrorIs(t, err, ErrNotInteractive)

	_, err = (&Prompt{}).Select(context.Background(), "pick", []string{"a"})
	require.ErrorIs(t, err, ErrNotInteractive)
}

func press(m *model, keys ...string) tea.Cmd {
	var cmd tea.Cmd

	for _, k := range keys {
		var msg tea.KeyMsg

		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		case "space":
			msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
		case "ctrl+c":
			msg = tea.KeyMsg{Type: tea.KeyCtrlC}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}

		_, cmd = m.Update(msg)
	}

	return cmd
}

func TestModel_SelectAndSubmit(t *testing.T) {
	m := newModel("pick", []string{"mfe1", "mfe2", "mfe3"})

	cmd := press(m, "space", "down", "down", "x", "enter")
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
	assert.True(t, m.done)
	assert.False(t, m.cancelled)
	assert.Equal(t, []string{"mfe1", "mfe3"}, m.chosen())
	assert.Empty(t, m.View())
}

func TestModel_EmptySubmitWarns(t *testing.T) {
	m := newModel("pick", []string{"mfe1"})

	cmd := press(m, "enter")
	assert.Nil(t, cmd)
	assert.False(t, m.done)
	assert.Contains(t, m.View(), "Select at least one item")

	press(m, "space")
	assert.NotContains(t, m.View(), "Select at least one item")
}

func TestModel_ToggleAll(t *testing.T) {
	m := newModel("pick", []string{"a", "b"})

	press(m, "a")
	assert.Equal(t, []string{"a", "b"}, m.chosen())

	press(m, "a")
	assert.Empty(t, m.chosen())
}

func TestModel_Cancel(t *testing.T) {
	for _, k := range []string{"ctrl+c", "q"} {
		t.Run(k, func(t *testing.T) {
			m := newModel("pick", []string{"a"})
			cmd := press(m, "space", k)
			require.NotNil(t, cmd)
			assert.True(t, m.cancelled)
		})
	}
}

func TestModel_CursorBounds(t *testing.T) {
	m := newModel("pick", []string{"a", "b"})
	press(m, "up", "up")
	assert.Equal(t, 0, m.cursor)
	press(m, "down", "down", "down")
	assert.Equal(t, 1, m.cursor)

	view := m.View()
	assert.Contains(t, view, "pick")
	assert.Contains(t, view, "[ ] a")
	assert.Contains(t, view, "> ")
}
