// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package relation

import (
	"fmt"
	"strconv"
	"unicode"
)

// Parse parses a relation expression.
//
// The grammar is:
//
//	expr   = term { ("+" | "-") term }
//	term   = factor { "/" factor }
//	factor = number | key | function | "(" expr ")"
//
// where a key is a letter or underscore
// followed by letters,
// digits,
// underscores,
// or dots,
// and a function is a known function name
// followed by a parenthesized,
// comma separated,
// argument list.
func Parse(s string) (Expr, error) {
	p := &parser{src: s}
	e, err := p.expr()
	if err != nil {
		return nil, fmt.Errorf("invalid expression %q: %v", s, err)
	}
	p.skipSpaces()
	if p.pos < len(p.src) {
		return nil, fmt.Errorf("invalid expression %q: unexpected %q at position %d", s, p.src[p.pos], p.pos)
	}
	return e, nil
}

type parser struct {
	src string
	pos int
}

func (p *parser) expr() (Expr, error) {
	e, err := p.term()
	if err != nil {
		return nil, err
	}
	for {
		p.skipSpaces()
		if p.pos >= len(p.src) {
			return e, nil
		}
		op := p.src[p.pos]
		if op != '+' && op != '-' {
			return e, nil
		}
		p.pos++
		r, err := p.term()
		if err != nil {
			return nil, err
		}
		e = Binary{Op: op, Left: e, Right: r}
	}
}

func (p *parser) term() (Expr, error) {
	e, err := p.factor()
	if err != nil {
		return nil, err
	}
	for {
		p.skipSpaces()
		if p.pos >= len(p.src) || p.src[p.pos] != '/' {
			return e, nil
		}
		p.pos++
		r, err := p.factor()
		if err != nil {
			return nil, err
		}
		e = Binary{Op: '/', Left: e, Right: r}
	}
}

func (p *parser) factor() (Expr, error) {
	p.skipSpaces()
	if p.pos >= len(p.src) {
		return nil, fmt.Errorf("unexpected end of expression")
	}

	c := p.src[p.pos]
	switch {
	case c == '(':
		p.pos++
		e, err := p.expr()
		if err != nil {
			return nil, err
		}
		if err := p.expect(')'); err != nil {
			return nil, err
		}
		return e, nil
	case c >= '0' && c <= '9':
		return p.number()
	case c == '_' || unicode.IsLetter(rune(c)):
		name := p.ident()
		p.skipSpaces()
		if p.pos < len(p.src) && p.src[p.pos] == '(' {
			return p.call(name)
		}
		return Key(name), nil
	}
	return nil, fmt.Errorf("unexpected %q at position %d", c, p.pos)
}

func (p *parser) call(fn string) (Expr, error) {
	switch fn {
	case "min", "max", "ceil":
	default:
		return nil, fmt.Errorf("unknown function %q", fn)
	}

	// at the opening parenthesis
	p.pos++
	var args []Expr
	for {
		e, err := p.expr()
		if err != nil {
			return nil, err
		}
		args = append(args, e)

		p.skipSpaces()
		if p.pos < len(p.src) && p.src[p.pos] == ',' {
			p.pos++
			continue
		}
		break
	}
	if err := p.expect(')'); err != nil {
		return nil, err
	}

	if fn == "ceil" && len(args) != 1 {
		return nil, fmt.Errorf("function %q: expecting a single argument", fn)
	}
	return Call{Fn: fn, Args: args}, nil
}

func (p *parser) number() (Expr, error) {
	start := p.pos
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if (c >= '0' && c <= '9') || c == '.' {
			p.pos++
			continue
		}
		break
	}
	v, err := strconv.ParseFloat(p.src[start:p.pos], 64)
	if err != nil {
		return nil, fmt.Errorf("invalid number %q", p.src[start:p.pos])
	}
	return Lit(v), nil
}

func (p *parser) ident() string {
	start := p.pos
	for p.pos < len(p.src) {
		c := rune(p.src[p.pos])
		if c == '_' || c == '.' || unicode.IsLetter(c) || unicode.IsDigit(c) {
			p.pos++
			continue
		}
		break
	}
	return p.src[start:p.pos]
}

func (p *parser) expect(c byte) error {
	p.skipSpaces()
	if p.pos >= len(p.src) || p.src[p.pos] != c {
		return fmt.Errorf("expecting %q at position %d", c, p.pos)
	}
	p.pos++
	return nil
}

func (p *parser) skipSpaces() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
}
