package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskmaster/desk/internal/application/services"
	"github.com/taskmaster/desk/internal/infrastructure/config"
	"github.com/taskmaster/desk/internal/infrastructure/logger"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func feed(t *testing.T, m KeypadModel, msgs ...tea.Msg) KeypadModel {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		m, ok = next.(KeypadModel)
		require.True(t, ok)
	}
	return m
}

func newModel() (KeypadModel, *services.CalculatorService) {
	calc := services.NewCalculatorService(config.CalcConfig{DefaultRate: 18, HistoryLimit: 10}, logger.NewNop())
	return NewKeypadModel(calc), calc
}

func TestKeypadModel_Evaluate(t *testing.T) {
	m, calc := newModel()

	m = feed(t, m, runes("1"), runes("2"), runes("+"), runes("3"), tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, "12+3", m.State().Input)
	assert.Equal(t, "= 15", m.State().Result)
	assert.Equal(t, []string{"12+3 = 15"}, calc.History())
	assert.Contains(t, m.View(), "= 15")
}

func TestKeypadModel_Shortcuts(t *testing.T) {
	m, _ := newModel()

	m = feed(t, m, runes("9"), runes("s"))
	assert.Equal(t, "sqrt(9)", m.State().Input)

	m = feed(t, m, tea.KeyMsg{Type: tea.KeyBackspace})
	assert.Equal(t, "sqrt(9", m.State().Input)

	m = feed(t, m, runes("c"), runes("4"), runes("!"))
	assert.Equal(t, "factorial(int(4))", m.State().Input)

	m = feed(t, m, runes("c"), runes("3"), runes("^"), runes("="))
	assert.Equal(t, "= 9", m.State().Result)
}

func TestKeypadModel_IgnoresUnknownKeys(t *testing.T) {
	m, _ := newModel()
	m = feed(t, m, runes("x"), runes("a"), tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, "", m.State().Input)
}

func TestKeypadModel_ErrorShown(t *testing.T) {
	m, _ := newModel()
	m = feed(t, m, runes("1"), runes("/"), runes("0"), tea.KeyMsg{Type: tea.KeyEnter})
	assert.Contains(t, m.State().Result, "division by zero")
	assert.Contains(t, m.View(), "division by zero")
}

func TestKeypadModel_HistoryToggleAndQuit(t *testing.T) {
	m, _ := newModel()
	m = feed(t, m, runes("2"), runes("="), runes("h"))
	assert.Contains(t, m.View(), "History")
	assert.Contains(t, m.View(), "2 = 2")

	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
