// Package prompt asks for the report date range on the terminal.
package prompt

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ginjaninja78/tally-kannada-pnl/internal/period"
)

// ErrCancelled is returned when the user leaves the prompt with esc or
// ctrl+c.
var ErrCancelled = errors.New("date prompt cancelled")

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#89b4fa"))
	labelStyle = lipgloss.NewStyle().Width(6).Foreground(lipgloss.Color("#a6adc8"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#f38ba8"))
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6c7086"))
)

const (
	fromField = iota
	toField
)

type model struct {
	inputs    [2]textinput.Model
	focus     int
	err       string
	done      bool
	cancelled bool
}

func newModel(from, to string) model {
	var m model
	for i, label := range []string{"From", "To"} {
		inp := textinput.New()
		inp.Placeholder = "DD-MM-YYYY"
		inp.Prompt = labelStyle.Render(label) + " "
		inp.CharLimit = len(period.InputLayout)
		inp.Width = len(period.InputLayout) + 1
		m.inputs[i] = inp
	}
	m.inputs[fromField].SetValue(from)
	m.inputs[toField].SetValue(to)
	m.inputs[fromField].Focus()
	return m
}

func (m model) Init() tea.Cmd { return textinput.Blink }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "ctrl+c", "esc":
			m.cancelled = true
			return m, tea.Quit
		case "tab", "down":
			return m.setFocus(m.focus + 1), nil
		case "shift+tab", "up":
			return m.setFocus(m.focus - 1), nil
		case "enter":
			if m.focus == fromField {
				return m.setFocus(toField), nil
			}
			if _, err := period.ParseRange(m.value(fromField), m.value(toField)); err != nil {
				m.err = err.Error()
				return m, nil
			}
			m.done = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m model) setFocus(i int) model {
	i = (i + len(m.inputs)) % len(m.inputs)
	m.inputs[m.focus].Blur()
	m.focus = i
	m.inputs[m.focus].Focus()
	return m
}

func (m model) value(i int) string {
	return strings.TrimSpace(m.inputs[i].Value())
}

func (m model) View() string {
	if m.done || m.cancelled {
		return ""
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render("Profit & Loss period") + "\n\n")
	for _, inp := range m.inputs {
		b.WriteString(inp.View() + "\n")
	}
	if m.err != "" {
		b.WriteString("\n" + errorStyle.Render(m.err) + "\n")
	}
	b.WriteString("\n" + helpStyle.Render("tab: next field • enter: confirm • esc: cancel") + "\n")
	return b.String()
}

// Dates shows the two-field form pre-filled with from and to and returns
// what the user confirmed. The range is validated before the form closes.
func Dates(from, to string) (string, string, error) {
	final, err := tea.NewProgram(newModel(from, to)).Run()
	if err != nil {
		return "", "", fmt.Errorf("failed to run date prompt: %w", err)
	}
	m := final.(model)
	if m.cancelled || !m.done {
		return "", "", ErrCancelled
	}
	return m.value(fromField), m.value(toField), nil
}
