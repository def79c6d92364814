package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubRunProgram(t *testing.T, fn func(m tea.Model) (tea.Model, error)) {
	t.Helper()
	orig := runProgram
	runProgram = fn
	t.Cleanup(func() { runProgram = orig })
}

func drive(t *testing.T, m tea.Model, keys ...string) tea.Model {
	t.Helper()
	for _, key := range keys {
		var msg tea.KeyMsg
		switch key {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "ctrl+c":
			msg = tea.KeyMsg{Type: tea.KeyCtrlC}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
		}
		m, _ = m.Update(msg)
	}
	return m
}

func TestPauseDefaultsToContinue(t *testing.T) {
	m := newPauseModel("book 12345 done")
	final := drive(t, m, "enter")

	pm, ok := final.(*pauseModel)
	require.True(t, ok)
	assert.Equal(t, ActionContinue, pm.action)
}

func TestPauseSelectAbort(t *testing.T) {
	m := newPauseModel("book 12345 done")
	final := drive(t, m, "down", "enter")

	pm, ok := final.(*pauseModel)
	require.True(t, ok)
	assert.Equal(t, ActionAbort, pm.action)
}

func TestPauseQuitKeysAbort(t *testing.T) {
	for _, key := range []string{"q", "ctrl+c"} {
		m := newPauseModel("book 12345 done")
		final := drive(t, m, key)

		pm, ok := final.(*pauseModel)
		require.True(t, ok)
		assert.Equal(t, ActionAbort, pm.action, "key %q", key)
	}
}

func TestPauseViewShowsMessage(t *testing.T) {
	m := newPauseModel("book 12345 done")
	view := m.View()

	assert.Contains(t, view, "book 12345 done")
	assert.Contains(t, view, "Continue")
	assert.Contains(t, view, "Abort")
}

func TestPauseUsesProgramResult(t *testing.T) {
	origTerminal := stdinIsTerminal
	stdinIsTerminal = func() bool { return true }
	t.Cleanup(func() { stdinIsTerminal = origTerminal })

	stubRunProgram(t, func(m tea.Model) (tea.Model, error) {
		pm, ok := m.(*pauseModel)
		require.True(t, ok)
		pm.action = ActionAbort
		return pm, nil
	})

	action, err := Pause("paused")
	require.NoError(t, err)
	assert.Equal(t, ActionAbort, action)
}
