package prompt

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func key(t tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: t} }

func typeText(m *Model, s string) {
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func TestModel_Defaults(t *testing.T) {
	m := New()
	m.Update(key(tea.KeyEnter))
	m.Update(key(tea.KeyEnter))
	_, cmd := m.Update(key(tea.KeyEnter))
	require.NotNil(t, cmd)

	in, ok := m.Result()
	require.True(t, ok)
	assert.Equal(t, Input{Formula: DefaultFormula, A: 0, B: 5}, in)
}

func TestModel_TypedValues(t *testing.T) {
	m := New()
	typeText(m, "x**3")
	m.Update(key(tea.KeyTab))
	typeText(m, "-1")
	m.Update(key(tea.KeyTab))
	typeText(m, "pi")
	m.Update(key(tea.KeyEnter))

	in, ok := m.Result()
	require.True(t, ok)
	assert.Equal(t, "x**3", in.Formula)
	assert.Equal(t, -1.0, in.A)
	assert.InDelta(t, 3.141592653589793, in.B, 1e-15)
}

func TestModel_ValidationError(t *testing.T) {
	m := New()
	typeText(m, "sin(")
	m.Update(key(tea.KeyDown))
	m.Update(key(tea.KeyDown))
	_, cmd := m.Update(key(tea.KeyEnter))
	assert.Nil(t, cmd)

	_, ok := m.Result()
	assert.False(t, ok)
	assert.Equal(t, fieldFormula, m.focus)
	assert.Contains(t, m.View(), "cannot parse")
}

func TestModel_IntervalOrder(t *testing.T) {
	m := New()
	m.Update(key(tea.KeyTab))
	typeText(m, "6")
	m.Update(key(tea.KeyTab))
	m.Update(key(tea.KeyEnter))

	_, ok := m.Result()
	assert.False(t, ok)
	assert.Equal(t, fieldA, m.focus)
	assert.Contains(t, m.errMsg, "need a < b")
}

func TestModel_FocusWraps(t *testing.T) {
	m := New()
	m.Update(key(tea.KeyShiftTab))
	assert.Equal(t, fieldB, m.focus)
	m.Update(key(tea.KeyTab))
	assert.Equal(t, fieldFormula, m.focus)
	assert.True(t, m.inputs[fieldFormula].Focused())
	assert.False(t, m.inputs[fieldB].Focused())
}

func TestModel_Cancel(t *testing.T) {
	m := New()
	_, cmd := m.Update(key(tea.KeyEsc))
	require.NotNil(t, cmd)
	assert.True(t, m.cancelled)
	_, ok := m.Result()
	assert.False(t, ok)
}
