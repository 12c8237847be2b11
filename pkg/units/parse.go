/*
Copyright 2026 The scmrun Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package units

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

type tokenKind int

const (
	tokName tokenKind = iota
	tokMul
	tokDiv
	tokPow
	tokInt
	tokLParen
	tokRParen
)

type token struct {
	kind tokenKind
	text string
}

// Parse resolves a unit expression such as "Gt C / yr", "W/m^2" or "GtCO2/a"
// into a resolved unit. The empty string is dimensionless. Whitespace between
// two unit names means multiplication.
func (r *Registry) Parse(expr string) (unit, error) {
	if strings.TrimSpace(expr) == "" {
		return unit{factor: 1, d: dims{}}, nil
	}

	tokens, err := tokenize(expr)
	if err != nil {
		return unit{}, err
	}

	p := &parser{registry: r, tokens: tokens}
	u, err := p.parseExpr()
	if err != nil {
		return unit{}, err
	}
	if p.pos != len(p.tokens) {
		return unit{}, fmt.Errorf("%w: unexpected %q in %q",
			ErrMalformedUnit, p.tokens[p.pos].text, expr)
	}
	// Offsets (absolute temperatures) only make sense for a lone unit.
	if p.atoms > 1 {
		u.offset = 0
	}
	return u, nil
}

func tokenize(expr string) ([]token, error) {
	expr = strings.ReplaceAll(expr, "**", "^")
	var tokens []token
	i := 0
	runes := []rune(expr)
	for i < len(runes) {
		c := runes[i]
		switch {
		case unicode.IsSpace(c):
			i++
		case c == '*':
			tokens = append(tokens, token{tokMul, "*"})
			i++
		case c == '/':
			tokens = append(tokens, token{tokDiv, "/"})
			i++
		case c == '^':
			tokens = append(tokens, token{tokPow, "^"})
			i++
		case c == '(':
			tokens = append(tokens, token{tokLParen, "("})
			i++
		case c == ')':
			tokens = append(tokens, token{tokRParen, ")"})
			i++
		case c == '-' || unicode.IsDigit(c):
			j := i + 1
			for j < len(runes) && unicode.IsDigit(runes[j]) {
				j++
			}
			tokens = append(tokens, token{tokInt, string(runes[i:j])})
			i = j
		case unicode.IsLetter(c):
			j := i
			for j < len(runes) && (unicode.IsLetter(runes[j]) ||
				unicode.IsDigit(runes[j]) || runes[j] == '_' || runes[j] == '-') {
				// A '-' inside a name is only kept when followed by an
				// alphanumeric rune (e.g. "HFC-134a"); otherwise it is an
				// exponent sign.
				if runes[j] == '-' &&
					(j+1 >= len(runes) || !(unicode.IsLetter(runes[j+1]) || unicode.IsDigit(runes[j+1]))) {
					break
				}
				j++
			}
			tokens = append(tokens, token{tokName, string(runes[i:j])})
			i = j
		default:
			return nil, fmt.Errorf("%w: unexpected character %q in %q",
				ErrMalformedUnit, string(c), expr)
		}
	}
	return tokens, nil
}

type parser struct {
	registry *Registry
	tokens   []token
	pos      int
	atoms    int
}

func (p *parser) peek() (token, bool) {
	if p.pos >= len(p.tokens) {
		return token{}, false
	}
	return p.tokens[p.pos], true
}

// parseExpr handles left-associative multiplication and division, with
// adjacency treated as multiplication.
func (p *parser) parseExpr() (unit, error) {
	u, err := p.parseTerm()
	if err != nil {
		return unit{}, err
	}
	for {
		tok, ok := p.peek()
		if !ok {
			return u, nil
		}
		switch tok.kind {
		case tokMul:
			p.pos++
			rhs, err := p.parseTerm()
			if err != nil {
				return unit{}, err
			}
			u = u.mul(rhs)
		case tokDiv:
			p.pos++
			rhs, err := p.parseTerm()
			if err != nil {
				return unit{}, err
			}
			u = u.div(rhs)
		case tokName, tokLParen:
			rhs, err := p.parseTerm()
			if err != nil {
				return unit{}, err
			}
			u = u.mul(rhs)
		default:
			return u, nil
		}
	}
}

func (p *parser) parseTerm() (unit, error) {
	u, err := p.parseFactor()
	if err != nil {
		return unit{}, err
	}
	if tok, ok := p.peek(); ok && tok.kind == tokPow {
		p.pos++
		exp, ok := p.peek()
		if !ok || exp.kind != tokInt {
			return unit{}, fmt.Errorf("%w: missing exponent", ErrMalformedUnit)
		}
		p.pos++
		n, err := strconv.Atoi(exp.text)
		if err != nil {
			return unit{}, fmt.Errorf("%w: bad exponent %q", ErrMalformedUnit, exp.text)
		}
		if n != 1 {
			u = u.pow(n) // offsets do not survive exponentiation
		}
	}
	return u, nil
}

func (p *parser) parseFactor() (unit, error) {
	tok, ok := p.peek()
	if !ok {
		return unit{}, fmt.Errorf("%w: unexpected end of expression", ErrMalformedUnit)
	}
	switch tok.kind {
	case tokName:
		p.pos++
		p.atoms++
		return p.registry.lookup(tok.text)
	case tokLParen:
		p.pos++
		u, err := p.parseExpr()
		if err != nil {
			return unit{}, err
		}
		closing, ok := p.peek()
		if !ok || closing.kind != tokRParen {
			return unit{}, fmt.Errorf("%w: missing closing parenthesis", ErrMalformedUnit)
		}
		p.pos++
		return u, nil
	default:
		return unit{}, fmt.Errorf("%w: unexpected %q", ErrMalformedUnit, tok.text)
	}
}
