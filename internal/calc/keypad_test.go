package calc

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func press(t *testing.T, k *Keypad, keys ...string) {
	t.Helper()
	for _, key := range keys {
		require.NoError(t, k.Press(key))
	}
}

func TestKeypad_AppendAndEvaluate(t *testing.T) {
	var evaluated []string
	k := &Keypad{OnEvaluate: func(expr, display string) {
		evaluated = append(evaluated, expr+" = "+display)
	}}

	press(t, k, "1", "2", "+", "3", "=")

	assert.Equal(t, "12+3", k.Input())
	assert.Equal(t, "= 15", k.Result())
	assert.Equal(t, []string{"12+3 = 15"}, evaluated)
}

func TestKeypad_Transformations(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"√", "sqrt(9)"},
		{"x²", "(9)**2"},
		{"x!", "factorial(int(9))"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			k := &Keypad{}
			press(t, k, "9", tt.key)
			assert.Equal(t, tt.want, k.Input())
		})
	}
}

func TestKeypad_FactorialTruncatesInput(t *testing.T) {
	k := &Keypad{}
	press(t, k, "4", ".", "7", "x!", "=")
	assert.Equal(t, "factorial(int(4.7))", k.Input())
	assert.Equal(t, "= 24", k.Result())
}

func TestKeypad_WrapIgnoresEmptyInput(t *testing.T) {
	k := &Keypad{}
	press(t, k, "√")
	assert.Equal(t, "", k.Input())
}

func TestKeypad_ClearAndBackspace(t *testing.T) {
	k := &Keypad{}
	press(t, k, "4", "2", "⌫")
	assert.Equal(t, "4", k.Input())

	press(t, k, "backspace", "backspace")
	assert.Equal(t, "", k.Input())

	press(t, k, "7", "=")
	assert.Equal(t, "= 7", k.Result())

	press(t, k, "C")
	assert.Equal(t, "", k.Input())
	assert.Equal(t, "", k.Result())
}

func TestKeypad_BackspaceRemovesWholeRune(t *testing.T) {
	k := &Keypad{}
	k.SetInput("2√")
	press(t, k, "⌫")
	assert.Equal(t, "2", k.Input())
}

func TestKeypad_EvaluateError(t *testing.T) {
	called := false
	k := &Keypad{OnEvaluate: func(string, string) { called = true }}
	press(t, k, "1", "/", "0")

	err := k.Press("=")
	require.Error(t, err)
	assert.Contains(t, k.Result(), "Error: division by zero")
	assert.Equal(t, "1/0", k.Input())
	assert.False(t, called)
}

func TestKeypad_SquareThenEvaluate(t *testing.T) {
	k := &Keypad{}
	press(t, k, "-", "3", "x²", "=")
	assert.Equal(t, "= 9", k.Result())
}

func TestHistory_Bounded(t *testing.T) {
	h := NewHistory(3)
	for i := 1; i <= 5; i++ {
		h.Add(fmt.Sprintf("%d = %d", i, i))
	}

	assert.Equal(t, 3, h.Len())
	assert.Equal(t, []string{"3 = 3", "4 = 4", "5 = 5"}, h.Entries())
}

func TestHistory_Unbounded(t *testing.T) {
	h := NewHistory(0)
	for i := 0; i < 250; i++ {
		h.Add("x")
	}
	assert.Equal(t, 250, h.Len())
}
