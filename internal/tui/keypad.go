// Package tui holds the terminal front end of the calculator keypad.
package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/taskmaster/desk/internal/ports"
)

// historyRows is how many history lines the keypad screen shows
const historyRows = 5

var keypadRows = [][]string{
	{"7", "8", "9", "/", "C"},
	{"4", "5", "6", "*", "⌫"},
	{"1", "2", "3", "-", "("},
	{"0", ".", "%", "+", ")"},
	{"√", "x²", "x!", "**", "="},
}

// keyBindings maps terminal keys onto keypad labels
var keyBindings = map[string]string{
	"enter":     "=",
	"=":         "=",
	"backspace": "⌫",
	"c":         "C",
	"C":         "C",
	"s":         "√",
	"^":         "x²",
	"!":         "x!",
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	keyStyle    = lipgloss.NewStyle().Width(5).Align(lipgloss.Center).Border(lipgloss.RoundedBorder())
	inputStyle  = lipgloss.NewStyle().Bold(true)
	resultStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// KeypadModel is a bubbletea model driving a CalculatorService keypad
type KeypadModel struct {
	calc        ports.CalculatorService
	state       ports.KeypadState
	showHistory bool
}

// NewKeypadModel creates the keypad screen
func NewKeypadModel(calc ports.CalculatorService) KeypadModel {
	return KeypadModel{calc: calc}
}

func (m KeypadModel) Init() tea.Cmd {
	return nil
}

func (m KeypadModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "ctrl+c", "esc", "q":
		return m, tea.Quit
	case "h":
		m.showHistory = !m.showHistory
		return m, nil
	}

	label, ok := translateKey(keyMsg)
	if !ok {
		return m, nil
	}

	// Evaluation errors are already rendered into the result line.
	state, _ := m.calc.Press(label)
	if state != nil {
		m.state = *state
	}
	return m, nil
}

func translateKey(msg tea.KeyMsg) (string, bool) {
	s := msg.String()
	if label, ok := keyBindings[s]; ok {
		return label, true
	}
	if msg.Type == tea.KeyRunes && len(msg.Runes) == 1 && strings.ContainsRune("0123456789.+-*/%()", msg.Runes[0]) {
		return string(msg.Runes), true
	}
	return "", false
}

func (m KeypadModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("desk calculator"))
	b.WriteString("\n\n")
	b.WriteString(inputStyle.Render("> " + m.state.Input))
	b.WriteString("\n")
	switch {
	case strings.HasPrefix(m.state.Result, "Error"):
		b.WriteString(errorStyle.Render(m.state.Result))
	default:
		b.WriteString(resultStyle.Render(m.state.Result))
	}
	b.WriteString("\n\n")

	for _, row := range keypadRows {
		keys := make([]string, len(row))
		for i, k := range row {
			keys[i] = keyStyle.Render(k)
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, keys...))
		b.WriteString("\n")
	}

	if m.showHistory {
		b.WriteString("\n")
		b.WriteString(titleStyle.Render("History"))
		b.WriteString("\n")
		history := m.calc.History()
		if len(history) > historyRows {
			history = history[len(history)-historyRows:]
		}
		for _, line := range history {
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("enter = evaluate · s √ · ^ x² · ! x! · c clear · h history · q quit"))
	b.WriteString("\n")

	return b.String()
}

// State returns the current display
func (m KeypadModel) State() ports.KeypadState {
	return m.state
}

// RunKeypad starts the interactive keypad on the terminal
func RunKeypad(calc ports.CalculatorService, opts ...tea.ProgramOption) error {
	_, err := tea.NewProgram(NewKeypadModel(calc), opts...).Run()
	return err
}
