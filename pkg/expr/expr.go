// Package expr evaluates the arithmetic expressions typed on the calculator keypad.
//
// Expressions arrive in display notation ("1.234,5+10%200"). Sanitize converts them
// to plain notation and rewrites "A % B" into "((A)/100*(B))" before Evaluate parses
// them with the usual precedence rules. Evaluation is pure.
package expr

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
)

// ErrEvaluation is returned for any expression that cannot be evaluated to a finite number.
var ErrEvaluation = errors.New("evaluation error")

var percentOf = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*%\s*(\d+(?:\.\d+)?)`)

// Sanitize strips thousands separators, switches the decimal separator to "." and
// rewrites every "A % B" between numeric literals into "((A)/100*(B))".
func Sanitize(display string) string {
	s := strings.ReplaceAll(display, ".", "")
	s = strings.ReplaceAll(s, ",", ".")
	return percentOf.ReplaceAllString(s, "((${1})/100*(${2}))")
}

// EvaluateDisplay sanitizes and evaluates an expression written in display notation.
func EvaluateDisplay(display string) (float64, error) {
	return Evaluate(Sanitize(display))
}

// Evaluate computes a sanitized expression.
//
//	expr    := term { ("+"|"-") term }
//	term    := unary { ("*"|"/"|"%") unary }
//	unary   := ("+"|"-") unary | postfix
//	postfix := primary { "%" }
//	primary := number | "(" expr ")"
//
// A "%" followed by a number or "(" is a modulo; any other "%" is a percent (x/100).
func Evaluate(sanitized string) (float64, error) {
	tokens, err := Tokenize(sanitized)
	if err != nil {
		return 0, err
	}
	if len(tokens) == 0 {
		return 0, fmt.Errorf("%w: empty expression", ErrEvaluation)
	}

	p := &parser{tokens: tokens}
	v, err := p.expr()
	if err != nil {
		return 0, err
	}
	if tok, ok := p.peek(); ok {
		return 0, fmt.Errorf("%w: unexpected %q at %d", ErrEvaluation, tok.Text, tok.Pos)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: result is not finite", ErrEvaluation)
	}
	return v, nil
}

type parser struct {
	tokens []Token
	pos    int
}

func (p *parser) peek() (Token, bool) {
	if p.pos >= len(p.tokens) {
		return Token{}, false
	}
	return p.tokens[p.pos], true
}

func (p *parser) peekKind(offset int) (Kind, bool) {
	i := p.pos + offset
	if i >= len(p.tokens) {
		return 0, false
	}
	return p.tokens[i].Kind, true
}

func (p *parser) next() Token {
	tok := p.tokens[p.pos]
	p.pos++
	return tok
}

func (p *parser) expr() (float64, error) {
	left, err := p.term()
	if err != nil {
		return 0, err
	}
	for {
		kind, ok := p.peekKind(0)
		if !ok || (kind != Plus && kind != Minus) {
			return left, nil
		}
		p.next()
		right, err := p.term()
		if err != nil {
			return 0, err
		}
		if kind == Plus {
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
		kind, ok := p.peekKind(0)
		if !ok || (kind != Star && kind != Slash && kind != Percent) {
			return left, nil
		}
		op := p.next()
		right, err := p.unary()
		if err != nil {
			return 0, err
		}
		switch kind {
		case Star:
			left *= right
		case Slash:
			if right == 0 {
				return 0, fmt.Errorf("%w: division by zero at %d", ErrEvaluation, op.Pos)
			}
			left /= right
		case Percent:
			if right == 0 {
				return 0, fmt.Errorf("%w: modulo by zero at %d", ErrEvaluation, op.Pos)
			}
			left = left - right*math.Floor(left/right)
		}
	}
}

func (p *parser) unary() (float64, error) {
	kind, ok := p.peekKind(0)
	if ok && (kind == Plus || kind == Minus) {
		p.next()
		v, err := p.unary()
		if err != nil {
			return 0, err
		}
		if kind == Minus {
			return -v, nil
		}
		return v, nil
	}
	return p.postfix()
}

func (p *parser) postfix() (float64, error) {
	v, err := p.primary()
	if err != nil {
		return 0, err
	}
	for {
		kind, ok := p.peekKind(0)
		if !ok || kind != Percent {
			return v, nil
		}
		// "%" followed by an operand is a binary modulo, handled by term.
		if after, ok := p.peekKind(1); ok && (after == Number || after == LParen) {
			return v, nil
		}
		p.next()
		v /= 100
	}
}

func (p *parser) primary() (float64, error) {
	tok, ok := p.peek()
	if !ok {
		return 0, fmt.Errorf("%w: unexpected end of expression", ErrEvaluation)
	}
	switch tok.Kind {
	case Number:
		p.next()
		return tok.Value, nil
	case LParen:
		p.next()
		v, err := p.expr()
		if err != nil {
			return 0, err
		}
		closing, ok := p.peek()
		if !ok || closing.Kind != RParen {
			return 0, fmt.Errorf("%w: unbalanced parentheses at %d", ErrEvaluation, tok.Pos)
		}
		p.next()
		return v, nil
	default:
		return 0, fmt.Errorf("%w: unexpected %q at %d", ErrEvaluation, tok.Text, tok.Pos)
	}
}
