// Package calc evaluates the small arithmetic expressions used to transform
// raw monitor readings before display (for example "x/255*100" to turn a fan
// speed byte into a percentage).
//
// The grammar is deliberately narrow: float literals, the substitution
// variable x, the operators + - * /, unary minus, and parentheses. Expressions
// are parsed once into an AST and evaluated without any interpreter, so user
// input can never execute anything.
package calc

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/printwatch/topbar/internal/errors"
)

// Expr is a compiled post-calc expression. Safe for reuse across evaluations.
type Expr struct {
	root node
	src  string
}

// Source returns the original expression text.
func (e *Expr) Source() string {
	return e.src
}

type node interface {
	eval(x float64) (float64, error)
}

type literal float64

func (l literal) eval(float64) (float64, error) {
	return float64(l), nil
}

type variable struct{}

func (variable) eval(x float64) (float64, error) {
	return x, nil
}

type binary struct {
	op          byte
	left, right node
}

func (b binary) eval(x float64) (float64, error) {
	lv, err := b.left.eval(x)
	if err != nil {
		return 0, err
	}
	rv, err := b.right.eval(x)
	if err != nil {
		return 0, err
	}
	switch b.op {
	case '+':
		return lv + rv, nil
	case '-':
		return lv - rv, nil
	case '*':
		return lv * rv, nil
	case '/':
		if rv == 0 {
			return 0, errors.New(errors.ErrEval,
				"Division by zero in post-calc expression",
				"Adjust the expression so the divisor can never be zero")
		}
		return lv / rv, nil
	}
	return 0, errors.New(errors.ErrEval, fmt.Sprintf("Unknown operator %q", b.op), "")
}

type negate struct {
	inner node
}

func (n negate) eval(x float64) (float64, error) {
	v, err := n.inner.eval(x)
	if err != nil {
		return 0, err
	}
	return -v, nil
}

// Compile parses an expression into an Expr. An empty or blank expression is
// rejected; callers treat an unset post-calc as "no transform" before getting here.
func Compile(src string) (*Expr, error) {
	trimmed := strings.TrimSpace(src)
	if trimmed == "" {
		return nil, errors.New(errors.ErrEval,
			"Post-calc expression is empty",
			"Leave post-calc unset to display the raw value")
	}

	p := &parser{input: trimmed}
	root, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos < len(p.input) {
		return nil, p.errorAt("unexpected trailing input")
	}
	return &Expr{root: root, src: trimmed}, nil
}

// Eval evaluates the compiled expression with the given value bound to x.
func (e *Expr) Eval(x float64) (float64, error) {
	return e.root.eval(x)
}

// Run compiles and evaluates in one step. Convenient for callers that do not
// cache compiled expressions.
func Run(src string, x float64) (float64, error) {
	expr, err := Compile(src)
	if err != nil {
		return 0, err
	}
	return expr.Eval(x)
}

// parser is a tiny recursive-descent parser over the expression grammar:
//
//	expr    = term (('+' | '-') term)*
//	term    = unary (('*' | '/') unary)*
//	unary   = '-'? primary
//	primary = number | 'x' | '(' expr ')'
type parser struct {
	input string
	pos   int
}

func (p *parser) errorAt(msg string) error {
	return errors.New(errors.ErrEval,
		fmt.Sprintf("Invalid post-calc expression at offset %d: %s", p.pos, msg),
		"Only numbers, x, + - * / and parentheses are allowed")
}

func (p *parser) skipSpace() {
	for p.pos < len(p.input) && (p.input[p.pos] == ' ' || p.input[p.pos] == '\t') {
		p.pos++
	}
}

func (p *parser) peek() byte {
	if p.pos >= len(p.input) {
		return 0
	}
	return p.input[p.pos]
}

func (p *parser) parseExpr() (node, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		p.skipSpace()
		op := p.peek()
		if op != '+' && op != '-' {
			return left, nil
		}
		p.pos++
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = binary{op: op, left: left, right: right}
	}
}

func (p *parser) parseTerm() (node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		p.skipSpace()
		op := p.peek()
		if op != '*' && op != '/' {
			return left, nil
		}
		p.pos++
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = binary{op: op, left: left, right: right}
	}
}

func (p *parser) parseUnary() (node, error) {
	p.skipSpace()
	if p.peek() == '-' {
		p.pos++
		inner, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return negate{inner: inner}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (node, error) {
	p.skipSpace()
	c := p.peek()
	switch {
	case c == '(':
		p.pos++
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		p.skipSpace()
		if p.peek() != ')' {
			return nil, p.errorAt("expected closing parenthesis")
		}
		p.pos++
		return inner, nil

	case c == 'x' || c == 'X':
		p.pos++
		return variable{}, nil

	case c >= '0' && c <= '9' || c == '.':
		return p.parseNumber()

	case c == 0:
		return nil, p.errorAt("unexpected end of expression")

	default:
		return nil, p.errorAt(fmt.Sprintf("unexpected character %q", c))
	}
}

func (p *parser) parseNumber() (node, error) {
	start := p.pos
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		if (c >= '0' && c <= '9') || c == '.' {
			p.pos++
			continue
		}
		break
	}
	val, err := strconv.ParseFloat(p.input[start:p.pos], 64)
	if err != nil {
		return nil, p.errorAt(fmt.Sprintf("malformed number %q", p.input[start:p.pos]))
	}
	return literal(val), nil
}
