package calc

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// maxFactorial is the largest n whose factorial fits in a float64
const maxFactorial = 170

// maxDepth bounds how deeply an expression may nest
const maxDepth = 256

type function func(arg float64, pos int) (float64, error)

var functions = map[string]function{
	"sqrt": func(x float64, pos int) (float64, error) {
		if x < 0 {
			return 0, &Error{Pos: pos, Msg: "math domain error: sqrt of a negative number"}
		}
		return math.Sqrt(x), nil
	},
	"square": func(x float64, pos int) (float64, error) {
		return x * x, nil
	},
	"int": func(x float64, pos int) (float64, error) {
		return math.Trunc(x), nil
	},
	"factorial": func(x float64, pos int) (float64, error) {
		if x != math.Trunc(x) {
			return 0, &Error{Pos: pos, Msg: "factorial() only accepts integral values"}
		}
		if x < 0 {
			return 0, &Error{Pos: pos, Msg: "factorial() not defined for negative values"}
		}
		if x > maxFactorial {
			return 0, &Error{Pos: pos, Msg: "factorial() result too large"}
		}
		r := 1.0
		for i := 2.0; i <= x; i++ {
			r *= i
		}
		return r, nil
	},
}

type parser struct {
	toks  []token
	pos   int
	depth int
}

// Eval parses and evaluates expr.
//
// Precedence from loosest to tightest: + - ; * / // % ; unary + - ; **.
// ** is right-associative and its right operand may carry a sign, so
// -2**2 is -4 and 2**-1 is 0.5. // floors the quotient and % takes the sign of
// the divisor.
func Eval(expr string) (float64, error) {
	if strings.TrimSpace(expr) == "" {
		return 0, &Error{Pos: 0, Msg: "empty expression"}
	}

	toks, err := tokenize(expr)
	if err != nil {
		return 0, err
	}

	p := &parser{toks: toks}
	v, err := p.expr()
	if err != nil {
		return 0, err
	}
	if t := p.peek(); t.kind != tokEOF {
		return 0, &Error{Pos: t.pos, Msg: fmt.Sprintf("unexpected %s", describe(t))}
	}
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, &Error{Pos: 0, Msg: "result is not a finite number"}
	}
	return v, nil
}

// Format renders a result the way the display shows it: integral values
// without a fraction, everything else in the shortest exact form.
func Format(v float64) string {
	if v == 0 {
		return "0"
	}
	abs := math.Abs(v)
	if abs >= 1e16 || abs < 1e-6 {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func (p *parser) peek() token {
	return p.toks[p.pos]
}

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) expect(kind tokenKind) (token, error) {
	t := p.next()
	if t.kind != kind {
		return t, &Error{Pos: t.pos, Msg: fmt.Sprintf("expected %s, found %s", tokenNames[kind], describe(t))}
	}
	return t, nil
}

func (p *parser) expr() (float64, error) {
	left, err := p.term()
	if err != nil {
		return 0, err
	}
	for {
		t := p.peek()
		if t.kind != tokPlus && t.kind != tokMinus {
			return left, nil
		}
		p.next()
		right, err := p.term()
		if err != nil {
			return 0, err
		}
		if t.kind == tokPlus {
			left += right
		} else {
			left -= right
		}
	}
}

func (p *parser) term() (float64, error) {
	left, err := p.unary()
	if err != nil {
		return 0, err
	}
	for {
		t := p.peek()
		switch t.kind {
		case tokStar, tokSlash, tokFloorDiv, tokPercent:
		default:
			return left, nil
		}
		p.next()
		right, err := p.unary()
		if err != nil {
			return 0, err
		}
		if left, err = applyMul(t, left, right); err != nil {
			return 0, err
		}
	}
}

func applyMul(op token, a, b float64) (float64, error) {
	switch op.kind {
	case tokStar:
		return a * b, nil
	case tokSlash:
		if b == 0 {
			return 0, &Error{Pos: op.pos, Msg: "division by zero"}
		}
		return a / b, nil
	case tokFloorDiv:
		if b == 0 {
			return 0, &Error{Pos: op.pos, Msg: "integer division or modulo by zero"}
		}
		return math.Floor(a / b), nil
	default:
		if b == 0 {
			return 0, &Error{Pos: op.pos, Msg: "integer division or modulo by zero"}
		}
		r := math.Mod(a, b)
		if r != 0 && (r < 0) != (b < 0) {
			r += b
		}
		return r, nil
	}
}

func (p *parser) unary() (float64, error) {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > maxDepth {
		return 0, &Error{Pos: p.peek().pos, Msg: "expression nested too deeply"}
	}

	switch p.peek().kind {
	case tokMinus:
		p.next()
		v, err := p.unary()
		return -v, err
	case tokPlus:
		p.next()
		return p.unary()
	}
	return p.power()
}

func (p *parser) power() (float64, error) {
	base, err := p.primary()
	if err != nil {
		return 0, err
	}
	if p.peek().kind != tokPow {
		return base, nil
	}
	op := p.next()
	exp, err := p.unary()
	if err != nil {
		return 0, err
	}
	if base == 0 && exp < 0 {
		return 0, &Error{Pos: op.pos, Msg: "0.0 cannot be raised to a negative power"}
	}
	if base < 0 && exp != math.Trunc(exp) {
		return 0, &Error{Pos: op.pos, Msg: "result is not a real number"}
	}
	r := math.Pow(base, exp)
	if math.IsInf(r, 0) {
		return 0, &Error{Pos: op.pos, Msg: "result too large"}
	}
	return r, nil
}

func (p *parser) primary() (float64, error) {
	t := p.next()
	switch t.kind {
	case tokNumber:
		return t.num, nil
	case tokLParen:
		v, err := p.expr()
		if err != nil {
			return 0, err
		}
		if _, err := p.expect(tokRParen); err != nil {
			return 0, err
		}
		return v, nil
	case tokIdent:
		name := strings.TrimPrefix(strings.ToLower(t.text), "math.")
		fn, ok := functions[name]
		if !ok {
			return 0, &Error{Pos: t.pos, Msg: fmt.Sprintf("unknown name %q", t.text)}
		}
		if _, err := p.expect(tokLParen); err != nil {
			return 0, err
		}
		arg, err := p.expr()
		if err != nil {
			return 0, err
		}
		if _, err := p.expect(tokRParen); err != nil {
			return 0, err
		}
		return fn(arg, t.pos)
	default:
		return 0, &Error{Pos: t.pos, Msg: fmt.Sprintf("unexpected %s", describe(t))}
	}
}

func describe(t token) string {
	if t.kind == tokNumber || t.kind == tokIdent {
		return fmt.Sprintf("%s %q", tokenNames[t.kind], t.text)
	}
	return tokenNames[t.kind]
}
