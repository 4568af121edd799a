package expr

import (
	"fmt"
	"strconv"
)

// Kind identifies a lexical token.
type Kind int

const (
	Number Kind = iota
	Plus
	Minus
	Star
	Slash
	Percent
	LParen
	RParen
)

func (k Kind) String() string {
	switch k {
	case Number:
		return "number"
	case Plus:
		return "+"
	case Minus:
		return "-"
	case Star:
		return "*"
	case Slash:
		return "/"
	case Percent:
		return "%"
	case LParen:
		return "("
	case RParen:
		return ")"
	default:
		return "unknown"
	}
}

// Token is a lexical unit of a sanitized expression.
type Token struct {
	Kind  Kind
	Text  string
	Value float64
	Pos   int
}

var operatorKinds = map[byte]Kind{
	'+': Plus,
	'-': Minus,
	'*': Star,
	'/': Slash,
	'%': Percent,
	'(': LParen,
	')': RParen,
}

// Tokenize splits a sanitized expression (decimal point ".", no grouping) into tokens.
// Whitespace is skipped.
func Tokenize(s string) ([]Token, error) {
	tokens := make([]Token, 0, len(s))
	for i := 0; i < len(s); {
		c := s[i]
		switch {
		case c == ' ' || c == '\t':
			i++
		case isDigit(c) || c == '.':
			start := i
			dots := 0
			for i < len(s) && (isDigit(s[i]) || s[i] == '.') {
				if s[i] == '.' {
					dots++
				}
				i++
			}
			text := s[start:i]
			if dots > 1 || text == "." {
				return nil, fmt.Errorf("%w: malformed number %q at %d", ErrEvaluation, text, start)
			}
			v, err := strconv.ParseFloat(text, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: malformed number %q at %d", ErrEvaluation, text, start)
			}
			tokens = append(tokens, Token{Kind: Number, Text: text, Value: v, Pos: start})
		default:
			kind, ok := operatorKinds[c]
			if !ok {
				return nil, fmt.Errorf("%w: unexpected character %q at %d", ErrEvaluation, c, i)
			}
			tokens = append(tokens, Token{Kind: kind, Text: string(c), Pos: i})
			i++
		}
	}
	return tokens, nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
