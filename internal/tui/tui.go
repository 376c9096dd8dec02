// Package tui provides the interactive menus the workflows run on: a
// single-choice select list and a yes/no confirmation.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/errors"
)

// ErrAborted reports that the user backed out of a prompt.
var ErrAborted = errors.New("tui: aborted")

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	cursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")) // orange
	faintStyle  = lipgloss.NewStyle().Faint(true)
)

type selectModel struct {
	title   string
	options []string
	cursor  int
	chosen  bool
	aborted bool
}

func (m selectModel) Init() tea.Cmd { return nil }

func (m selectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.options)-1 {
			m.cursor++
		}
	case "enter":
		m.chosen = true
		return m, tea.Quit
	case "q", "esc", "ctrl+c":
		m.aborted = true
		return m, tea.Quit
	}
	return m, nil
}

func (m selectModel) View() string {
	if m.chosen || m.aborted {
		return ""
	}
	s := titleStyle.Render(m.title) + "\n\n"
	for i, option := range m.options {
		if i == m.cursor {
			s += cursorStyle.Render("> "+option) + "\n"
		} else {
			s += "  " + option + "\n"
		}
	}
	s += "\n" + faintStyle.Render("up/down to move, enter to choose, q to abort") + "\n"
	return s
}

// Select shows a single-choice menu and returns the chosen index.
// Quitting the menu yields ErrAborted.
func Select(title string, options []string) (int, error) {
	if len(options) == 0 {
		return 0, errors.New("tui: no options to select")
	}
	final, err := tea.NewProgram(selectModel{title: title, options: options}).Run()
	if err != nil {
		return 0, errors.Wrap(err, "tui: select")
	}
	m := final.(selectModel)
	if m.aborted {
		return 0, ErrAborted
	}
	return m.cursor, nil
}

type confirmModel struct {
	prompt  string
	answer  bool
	done    bool
	aborted bool
}

func (m confirmModel) Init() tea.Cmd { return nil }

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "y", "Y", "enter":
		m.answer = true
		m.done = true
		return m, tea.Quit
	case "n", "N":
		m.done = true
		return m, tea.Quit
	case "q", "esc", "ctrl+c":
		m.aborted = true
		return m, tea.Quit
	}
	return m, nil
}

func (m confirmModel) View() string {
	if m.done || m.aborted {
		return ""
	}
	return titleStyle.Render(m.prompt) + " " + cursorStyle.Render("[Y/n]") + "\n"
}

// Confirm asks a yes/no question. Enter counts as yes; quitting yields
// ErrAborted.
func Confirm(prompt string) (bool, error) {
	final, err := tea.NewProgram(confirmModel{prompt: prompt}).Run()
	if err != nil {
		return false, errors.Wrap(err, "tui: confirm")
	}
	m := final.(confirmModel)
	if m.aborted {
		return false, ErrAborted
	}
	return m.answer, nil
}
