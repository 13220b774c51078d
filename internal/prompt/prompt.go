// Package prompt asks for a function and an interval in a small Bubble Tea form.
package prompt

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/njchilds90/weierstrass"
)

// Defaults used when a field is left empty.
const (
	DefaultFormula = "x**2*sin(x)"
	DefaultA       = "0"
	DefaultB       = "5"
)

// ErrCancelled is returned by Run when the user quits the form.
var ErrCancelled = errors.New("prompt cancelled")

const (
	fieldFormula = iota
	fieldA
	fieldB
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#C89A3A"))
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
)

// Input is a validated answer.
type Input struct {
	Formula string
	A, B    float64
}

// Model implements the Bubble Tea form.
type Model struct {
	inputs    []textinput.Model
	focus     int
	errMsg    string
	done      bool
	cancelled bool
	result    Input
}

// New constructs the form with the formula field focused.
func New() *Model {
	m := &Model{
		inputs: []textinput.Model{
			newInput("f(x) = ", DefaultFormula),
			newInput("a    = ", DefaultA),
			newInput("b    = ", DefaultB),
		},
	}
	m.inputs[fieldFormula].Focus()
	return m
}

func newInput(prompt, placeholder string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.Placeholder = placeholder
	input.CharLimit = 0
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.cancelled = true
			return m, tea.Quit
		case tea.KeyTab, tea.KeyDown:
			return m, m.setFocus(m.focus + 1)
		case tea.KeyShiftTab, tea.KeyUp:
			return m, m.setFocus(m.focus - 1)
		case tea.KeyEnter:
			if m.focus < len(m.inputs)-1 {
				return m, m.setFocus(m.focus + 1)
			}
			in, err := m.validate()
			if err != nil {
				m.errMsg = err.Error()
				return m, nil
			}
			m.result = in
			m.done = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *Model) setFocus(i int) tea.Cmd {
	n := len(m.inputs)
	m.focus = ((i % n) + n) % n
	var cmd tea.Cmd
	for j := range m.inputs {
		if j == m.focus {
			cmd = m.inputs[j].Focus()
			continue
		}
		m.inputs[j].Blur()
	}
	return cmd
}

func (m *Model) value(i int) string {
	if v := strings.TrimSpace(m.inputs[i].Value()); v != "" {
		return v
	}
	return m.inputs[i].Placeholder
}

func (m *Model) validate() (Input, error) {
	formula := m.value(fieldFormula)
	if _, err := weierstrass.Parse(formula); err != nil {
		m.setFocus(fieldFormula)
		return Input{}, err
	}
	a, err := weierstrass.ParseBound(m.value(fieldA))
	if err != nil {
		m.setFocus(fieldA)
		return Input{}, err
	}
	b, err := weierstrass.ParseBound(m.value(fieldB))
	if err != nil {
		m.setFocus(fieldB)
		return Input{}, err
	}
	if !(a < b) {
		m.setFocus(fieldA)
		return Input{}, fmt.Errorf("need a < b, got [%g, %g]", a, b)
	}
	return Input{Formula: formula, A: a, B: b}, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Weierstrass extreme value theorem explorer"))
	b.WriteString("\n\n")
	for _, in := range m.inputs {
		b.WriteString(in.View())
		b.WriteByte('\n')
	}
	if m.errMsg != "" {
		b.WriteByte('\n')
		b.WriteString(errorStyle.Render(m.errMsg))
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	b.WriteString(helpStyle.Render("tab/↓ next · shift+tab/↑ previous · enter confirm · esc quit"))
	b.WriteByte('\n')
	return b.String()
}

// Result returns the validated input once the form was submitted.
func (m *Model) Result() (Input, bool) {
	return m.result, m.done
}

// Run shows the form and blocks until it is submitted or cancelled.
func Run(opts ...tea.ProgramOption) (Input, error) {
	m := New()
	if _, err := tea.NewProgram(m, opts...).Run(); err != nil {
		return Input{}, fmt.Errorf("failed to run prompt: %w", err)
	}
	if m.cancelled {
		return Input{}, ErrCancelled
	}
	in, ok := m.Result()
	if !ok {
		return Input{}, ErrCancelled
	}
	return in, nil
}
