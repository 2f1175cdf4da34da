package calc

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Keypad holds the calculator display and applies key presses to it.
type Keypad struct {
	input  string
	result string

	// OnEvaluate is called after every successful "=" press.
	OnEvaluate func(expr, display string)
}

type keyAction func(k *Keypad) error

var keyActions = map[string]keyAction{
	"clear":     (*Keypad).clear,
	"backspace": (*Keypad).backspace,
	"evaluate":  (*Keypad).evaluate,
	"sqrt":      wrap("sqrt(%s)"),
	"square":    wrap("(%s)**2"),
	"factorial": wrap("factorial(int(%s))"),
}

var keyAliases = map[string]string{
	"C":         "clear",
	"c":         "clear",
	"⌫":         "backspace",
	"backspace": "backspace",
	"=":         "evaluate",
	"√":         "sqrt",
	"x²":        "square",
	"x!":        "factorial",
}

// Input returns the expression currently typed
func (k *Keypad) Input() string { return k.input }

// Result returns the last evaluation display, "= <value>" or "Error: <msg>"
func (k *Keypad) Result() string { return k.result }

// SetInput replaces the typed expression
func (k *Keypad) SetInput(s string) { k.input = s }

// Press applies a single key. Keys without a named action are appended to the
// input as typed.
func (k *Keypad) Press(key string) error {
	if action, ok := keyActions[keyAliases[key]]; ok {
		return action(k)
	}
	if key == "" {
		return nil
	}
	k.input += key
	return nil
}

func (k *Keypad) clear() error {
	k.input = ""
	k.result = ""
	return nil
}

func (k *Keypad) backspace() error {
	if k.input == "" {
		return nil
	}
	_, size := utf8.DecodeLastRuneInString(k.input)
	k.input = k.input[:len(k.input)-size]
	return nil
}

func (k *Keypad) evaluate() error {
	expr := strings.TrimSpace(k.input)
	v, err := Eval(expr)
	if err != nil {
		k.result = "Error: " + err.Error()
		return err
	}

	display := Format(v)
	k.result = "= " + display
	if k.OnEvaluate != nil {
		k.OnEvaluate(expr, display)
	}
	return nil
}

func wrap(format string) keyAction {
	return func(k *Keypad) error {
		if strings.TrimSpace(k.input) == "" {
			return nil
		}
		k.input = fmt.Sprintf(format, k.input)
		return nil
	}
}
