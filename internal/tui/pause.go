// Package tui provides interactive terminal UI components.
package tui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	defaultListWidth  = 48
	defaultListHeight = 6
)

var runProgram = func(m tea.Model) (tea.Model, error) {
	return tea.NewProgram(m).Run()
}

// PauseAction represents the user's choice at a debug pause.
type PauseAction int

const (
	// ActionContinue resumes processing with the next book.
	ActionContinue PauseAction = iota
	// ActionAbort stops the run, leaving the browser open for inspection.
	ActionAbort
)

type pauseItem struct {
	label  string
	detail string
	action PauseAction
}

func (i pauseItem) Title() string       { return i.label }
func (i pauseItem) Description() string { return i.detail }
func (i pauseItem) FilterValue() string { return i.label }

type pauseStyles struct {
	normal   lipgloss.Style
	selected lipgloss.Style
	label    lipgloss.Style
	detail   lipgloss.Style
}

func newPauseStyles() pauseStyles {
	normal := lipgloss.NewStyle().
		Padding(0, 2).
		Foreground(lipgloss.Color("252"))
	selected := normal.Copy().
		Foreground(lipgloss.Color("230")).
		Background(lipgloss.Color("237")).
		Bold(true)
	return pauseStyles{
		normal:   normal,
		selected: selected,
		label: lipgloss.NewStyle().
			Bold(true),
		detail: lipgloss.NewStyle().
			Faint(true),
	}
}

type pauseDelegate struct {
	styles pauseStyles
}

func (d pauseDelegate) Height() int                         { return 1 }
func (d pauseDelegate) Spacing() int                        { return 0 }
func (d pauseDelegate) Update(tea.Msg, *list.Model) tea.Cmd { return nil }

func (d pauseDelegate) Render(w io.Writer, m list.Model, idx int, item list.Item) {
	choice, ok := item.(pauseItem)
	if !ok {
		return
	}
	line := d.styles.label.Render(choice.label) + " " + d.styles.detail.Render(choice.detail)
	container := d.styles.normal
	if idx == m.Index() {
		container = d.styles.selected
	}
	_, _ = fmt.Fprint(w, container.Render(line))
}

type pauseModel struct {
	list    list.Model
	message string
	action  PauseAction
}

func newPauseModel(message string) *pauseModel {
	items := []list.Item{
		pauseItem{label: "Continue", detail: "process the next book", action: ActionContinue},
		pauseItem{label: "Abort", detail: "stop the run", action: ActionAbort},
	}

	l := list.New(items, pauseDelegate{styles: newPauseStyles()}, defaultListWidth, defaultListHeight)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.SetShowTitle(false)
	l.SetShowPagination(false)
	l.DisableQuitKeybindings()
	l.Styles.NoItems = lipgloss.NewStyle()

	return &pauseModel{
		list:    l,
		message: message,
		action:  ActionContinue,
	}
}

func (m *pauseModel) Init() tea.Cmd { return nil }

func (m *pauseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			if choice, ok := m.list.SelectedItem().(pauseItem); ok {
				m.action = choice.action
			}
			return m, tea.Quit
		case "ctrl+c", "q", "esc":
			m.action = ActionAbort
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		width := clamp(defaultListWidth, msg.Width-4, 24)
		m.list.SetSize(width, defaultListHeight)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *pauseModel) View() string {
	header := pauseHeaderStyle.Render(m.message)
	help := pauseHelpStyle.Render("Up/Down navigate | Enter confirm | q abort")
	return lipgloss.JoinVertical(lipgloss.Left, header, m.list.View(), help)
}

var (
	pauseHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("214")).
				MarginBottom(1)

	pauseHelpStyle = lipgloss.NewStyle().
			MarginTop(1).
			Foreground(lipgloss.Color("244"))
)

// Pause blocks until the user decides whether to keep going. Used between
// books in debug mode so the page state can be inspected in the browser.
// Without a terminal it falls back to a plain line read from stdin.
func Pause(message string) (PauseAction, error) {
	if !stdinIsTerminal() {
		return pausePlain(message)
	}

	final, err := runProgram(newPauseModel(message))
	if err != nil {
		return ActionAbort, fmt.Errorf("failed to run pause prompt: %w", err)
	}
	m, ok := final.(*pauseModel)
	if !ok {
		return ActionAbort, fmt.Errorf("unexpected model type %T", final)
	}
	return m.action, nil
}

func pausePlain(message string) (PauseAction, error) {
	fmt.Fprintf(os.Stderr, "%s [enter to continue, a to abort]: ", message)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return ActionAbort, nil
	}
	if strings.HasPrefix(strings.ToLower(strings.TrimSpace(line)), "a") {
		return ActionAbort, nil
	}
	return ActionContinue, nil
}

var stdinIsTerminal = func() bool {
	info, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

func clamp(preferred, max, min int) int {
	if max < min {
		max = min
	}
	if preferred > max {
		return max
	}
	if preferred < min {
		return min
	}
	return preferred
}
