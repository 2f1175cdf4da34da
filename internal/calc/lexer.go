// Package calc evaluates calculator input with a fixed arithmetic grammar:
// numbers, + - * / // % **, parentheses and the functions sqrt, factorial and
// square. Nothing outside that grammar is accepted.
package calc

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Error reports a rejected or failed expression. Pos is a byte offset into
// the input.
type Error struct {
	Pos int
	Msg string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s (at position %d)", e.Msg, e.Pos)
}

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokIdent
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokFloorDiv
	tokPercent
	tokPow
	tokLParen
	tokRParen
)

var tokenNames = map[tokenKind]string{
	tokEOF:      "end of input",
	tokNumber:   "number",
	tokIdent:    "name",
	tokPlus:     "'+'",
	tokMinus:    "'-'",
	tokStar:     "'*'",
	tokSlash:    "'/'",
	tokFloorDiv: "'//'",
	tokPercent:  "'%'",
	tokPow:      "'**'",
	tokLParen:   "'('",
	tokRParen:   "')'",
}

type token struct {
	kind tokenKind
	pos  int
	text string
	num  float64
}

func tokenize(src string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(src) {
		c := src[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case isDigit(c) || (c == '.' && i+1 < len(src) && isDigit(src[i+1])):
			start := i
			for i < len(src) && (isDigit(src[i]) || src[i] == '.') {
				i++
			}
			if i < len(src) && (src[i] == 'e' || src[i] == 'E') {
				j := i + 1
				if j < len(src) && (src[j] == '+' || src[j] == '-') {
					j++
				}
				if j < len(src) && isDigit(src[j]) {
					for j < len(src) && isDigit(src[j]) {
						j++
					}
					i = j
				}
			}
			text := src[start:i]
			v, err := strconv.ParseFloat(text, 64)
			if err != nil {
				return nil, &Error{Pos: start, Msg: fmt.Sprintf("invalid number %q", text)}
			}
			toks = append(toks, token{kind: tokNumber, pos: start, text: text, num: v})
		case isIdentStart(rune(c)):
			start := i
			for i < len(src) && (isIdentStart(rune(src[i])) || isDigit(src[i]) || src[i] == '.') {
				i++
			}
			toks = append(toks, token{kind: tokIdent, pos: start, text: src[start:i]})
		case c == '*':
			if strings.HasPrefix(src[i:], "**") {
				toks = append(toks, token{kind: tokPow, pos: i, text: "**"})
				i += 2
			} else {
				toks = append(toks, token{kind: tokStar, pos: i, text: "*"})
				i++
			}
		case c == '/':
			if strings.HasPrefix(src[i:], "//") {
				toks = append(toks, token{kind: tokFloorDiv, pos: i, text: "//"})
				i += 2
			} else {
				toks = append(toks, token{kind: tokSlash, pos: i, text: "/"})
				i++
			}
		case c == '+':
			toks = append(toks, token{kind: tokPlus, pos: i, text: "+"})
			i++
		case c == '-':
			toks = append(toks, token{kind: tokMinus, pos: i, text: "-"})
			i++
		case c == '%':
			toks = append(toks, token{kind: tokPercent, pos: i, text: "%"})
			i++
		case c == '(':
			toks = append(toks, token{kind: tokLParen, pos: i, text: "("})
			i++
		case c == ')':
			toks = append(toks, token{kind: tokRParen, pos: i, text: ")"})
			i++
		default:
			r := []rune(src[i:])[0]
			return nil, &Error{Pos: i, Msg: fmt.Sprintf("unexpected character %q", r)}
		}
	}
	toks = append(toks, token{kind: tokEOF, pos: len(src)})
	return toks, nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isIdentStart(r rune) bool {
	return r == '_' || (r < unicode.MaxASCII && unicode.IsLetter(r))
}
