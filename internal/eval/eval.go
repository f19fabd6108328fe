// Package eval implements the arithmetic expression evaluator used for
// free-text numeric input fields.
//
// Input is untrusted text typed into currency and quantity fields, so the
// grammar is parsed with a hand-written recursive descent parser that rejects
// malformed input deterministically instead of coercing it:
//
//	expr   := term (('+' | '-') term)*
//	term   := factor (('*' | '/') factor)*
//	factor := ('+' | '-') factor | '(' expr ')' | number
package eval

import (
	"errors"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrEmptyExpression   = errors.New("the expression is empty")
	ErrInvalidExpression = errors.New("the expression is not a valid calculation")
	ErrDivisionByZero    = errors.New("the expression divides by zero")
	ErrIntegerExpression = errors.New("the expression must only contain whole numbers")
)

// integerInput is the character class gate for EvaluateInteger. Decimal
// separators are rejected outright, even where Evaluate could parse them.
var integerInput = regexp.MustCompile(`^[0-9+\-*/()\s]*$`)

// Evaluate parses and evaluates an arithmetic expression with the usual
// precedence and left associativity. The comma is accepted as a decimal
// separator alias. The whole input must reduce to exactly one expression.
func Evaluate(input string) (decimal.Decimal, error) {
	tokens, err := lex(input)
	if err != nil {
		return decimal.Zero, err
	}

	if len(tokens) == 0 {
		return decimal.Zero, ErrEmptyExpression
	}

	p := parser{tokens: tokens}
	result, err := p.expr()
	if err != nil {
		return decimal.Zero, err
	}

	// Unconsumed input after a full parse means the input was not a single
	// expression, e.g. "(1)2" or "(1)(2)"
	if p.pos != len(p.tokens) {
		return decimal.Zero, ErrInvalidExpression
	}

	// Normalize negative zero
	if result.IsZero() {
		return decimal.Zero, nil
	}

	return result, nil
}

// EvaluateInteger evaluates an expression restricted to whole numbers. The
// result is floored and clamped to a minimum of 0, so a negative result is
// not a failure.
func EvaluateInteger(input string) (int64, error) {
	if !integerInput.MatchString(input) {
		return 0, ErrIntegerExpression
	}

	result, err := Evaluate(input)
	if err != nil {
		return 0, err
	}

	floored := result.Floor()
	if floored.IsNegative() {
		return 0, nil
	}

	return floored.IntPart(), nil
}

type tokenKind int

const (
	tokenNumber tokenKind = iota
	tokenPlus
	tokenMinus
	tokenStar
	tokenSlash
	tokenLeftParen
	tokenRightParen
)

type token struct {
	kind  tokenKind
	value decimal.Decimal
}

// lex tokenizes the input. All whitespace is stripped and "," is treated as
// an alias for the decimal point before lexing. A numeric token is a greedy
// run of digits and decimal points; a run that is only "." or contains more
// than one decimal point fails, as does any other character.
func lex(input string) ([]token, error) {
	stripped := strings.NewReplacer(" ", "", "\t", "", "\n", "", "\r", "", ",", ".").Replace(input)

	var tokens []token
	for i := 0; i < len(stripped); {
		c := stripped[i]

		switch c {
		case '+':
			tokens = append(tokens, token{kind: tokenPlus})
			i++
		case '-':
			tokens = append(tokens, token{kind: tokenMinus})
			i++
		case '*':
			tokens = append(tokens, token{kind: tokenStar})
			i++
		case '/':
			tokens = append(tokens, token{kind: tokenSlash})
			i++
		case '(':
			tokens = append(tokens, token{kind: tokenLeftParen})
			i++
		case ')':
			tokens = append(tokens, token{kind: tokenRightParen})
			i++
		default:
			if !isNumberChar(c) {
				return nil, ErrInvalidExpression
			}

			start := i
			for i < len(stripped) && isNumberChar(stripped[i]) {
				i++
			}

			value, err := parseNumber(stripped[start:i])
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, token{kind: tokenNumber, value: value})
		}
	}

	return tokens, nil
}

func isNumberChar(c byte) bool {
	return (c >= '0' && c <= '9') || c == '.'
}

// parseNumber validates a numeric token. "1..2" and a bare "." are lex
// failures, "5." and ".5" are valid.
func parseNumber(s string) (decimal.Decimal, error) {
	if s == "." || strings.Count(s, ".") > 1 {
		return decimal.Zero, ErrInvalidExpression
	}

	// decimal does not accept a bare leading or trailing separator
	if strings.HasPrefix(s, ".") {
		s = "0" + s
	}
	if strings.HasSuffix(s, ".") {
		s += "0"
	}

	value, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidExpression
	}

	return value, nil
}

type parser struct {
	tokens []token
	pos    int
}

func (p *parser) peek() (token, bool) {
	if p.pos >= len(p.tokens) {
		return token{}, false
	}
	return p.tokens[p.pos], true
}

func (p *parser) expr() (decimal.Decimal, error) {
	result, err := p.term()
	if err != nil {
		return decimal.Zero, err
	}

	for {
		t, ok := p.peek()
		if !ok || (t.kind != tokenPlus && t.kind != tokenMinus) {
			return result, nil
		}
		p.pos++

		right, err := p.term()
		if err != nil {
			return decimal.Zero, err
		}

		if t.kind == tokenPlus {
			result = result.Add(right)
		} else {
			result = result.Sub(right)
		}
	}
}

func (p *parser) term() (decimal.Decimal, error) {
	result, err := p.factor()
	if err != nil {
		return decimal.Zero, err
	}

	for {
		t, ok := p.peek()
		if !ok || (t.kind != tokenStar && t.kind != tokenSlash) {
			return result, nil
		}
		p.pos++

		right, err := p.factor()
		if err != nil {
			return decimal.Zero, err
		}

		if t.kind == tokenStar {
			result = result.Mul(right)
		} else {
			if right.IsZero() {
				return decimal.Zero, ErrDivisionByZero
			}
			result = result.Div(right)
		}
	}
}

func (p *parser) factor() (decimal.Decimal, error) {
	t, ok := p.peek()
	if !ok {
		return decimal.Zero, ErrInvalidExpression
	}

	switch t.kind {
	case tokenPlus:
		p.pos++
		return p.factor()

	case tokenMinus:
		p.pos++
		value, err := p.factor()
		if err != nil {
			return decimal.Zero, err
		}
		return value.Neg(), nil

	case tokenLeftParen:
		p.pos++
		value, err := p.expr()
		if err != nil {
			return decimal.Zero, err
		}

		closing, ok := p.peek()
		if !ok || closing.kind != tokenRightParen {
			return decimal.Zero, ErrInvalidExpression
		}
		p.pos++
		return value, nil

	case tokenNumber:
		p.pos++
		return t.value, nil

	default:
		return decimal.Zero, ErrInvalidExpression
	}
}
