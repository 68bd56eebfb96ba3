// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package relation implements the small expression language
// used to store derived parameters
// in a persisted model file.
//
// An expression is built from numeric literals,
// references to prior keys
// (for example "Tdiv_root"),
// the binary operators '+',
// '-',
// and '/',
// and the functions min,
// max,
// and ceil.
// For example:
//
//	min(Tdiv_east, Tdiv_west)/2
//	(Tdiv_root - Tdiv_west)/2 + Tdiv_west
//
// An expression written by the model writer
// is guaranteed to be parseable by this package.
package relation

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// An Expr is a node
// of a parsed relation expression.
type Expr interface {
	// Eval evaluates the expression
	// using the indicated key values.
	// It returns an error
	// if a referenced key is undefined.
	Eval(vals map[string]float64) (float64, error)

	// String returns the expression
	// in its canonical written form.
	String() string
}

// A Lit is a numeric literal.
type Lit float64

// Eval returns the literal value.
func (l Lit) Eval(vals map[string]float64) (float64, error) {
	return float64(l), nil
}

func (l Lit) String() string {
	return strconv.FormatFloat(float64(l), 'g', -1, 64)
}

// A Key is a reference
// to a named parameter.
type Key string

// Eval returns the value of the referenced key.
func (k Key) Eval(vals map[string]float64) (float64, error) {
	v, ok := vals[string(k)]
	if !ok {
		return 0, fmt.Errorf("undefined key %q", string(k))
	}
	return v, nil
}

func (k Key) String() string {
	return string(k)
}

// A Binary is a binary operation:
// '+',
// '-',
// or '/'.
type Binary struct {
	Op    byte
	Left  Expr
	Right Expr
}

// Eval evaluates both operands
// and applies the operator.
func (b Binary) Eval(vals map[string]float64) (float64, error) {
	l, err := b.Left.Eval(vals)
	if err != nil {
		return 0, err
	}
	r, err := b.Right.Eval(vals)
	if err != nil {
		return 0, err
	}
	switch b.Op {
	case '+':
		return l + r, nil
	case '-':
		return l - r, nil
	case '/':
		if r == 0 {
			return 0, fmt.Errorf("division by zero in %q", b.String())
		}
		return l / r, nil
	}
	return 0, fmt.Errorf("unknown operator %q", string(b.Op))
}

func (b Binary) String() string {
	return b.render()
}

func (b Binary) prec() int {
	if b.Op == '/' {
		return 2
	}
	return 1
}

func (b Binary) render() string {
	l := b.Left.String()
	if x, ok := b.Left.(Binary); ok && x.prec() < b.prec() {
		l = "(" + l + ")"
	}
	r := b.Right.String()
	if x, ok := b.Right.(Binary); ok && x.prec() <= b.prec() {
		r = "(" + r + ")"
	}
	return fmt.Sprintf("%s %c %s", l, b.Op, r)
}

// A Call is a function application.
// The defined functions are min and max,
// over one or more arguments,
// and ceil,
// over a single argument.
type Call struct {
	Fn   string
	Args []Expr
}

// Eval evaluates the arguments
// and applies the function.
func (c Call) Eval(vals map[string]float64) (float64, error) {
	args := make([]float64, 0, len(c.Args))
	for _, a := range c.Args {
		v, err := a.Eval(vals)
		if err != nil {
			return 0, err
		}
		args = append(args, v)
	}

	switch c.Fn {
	case "min":
		if len(args) == 0 {
			return 0, fmt.Errorf("function %q: without arguments", c.Fn)
		}
		v := args[0]
		for _, a := range args[1:] {
			v = math.Min(v, a)
		}
		return v, nil
	case "max":
		if len(args) == 0 {
			return 0, fmt.Errorf("function %q: without arguments", c.Fn)
		}
		v := args[0]
		for _, a := range args[1:] {
			v = math.Max(v, a)
		}
		return v, nil
	case "ceil":
		if len(args) != 1 {
			return 0, fmt.Errorf("function %q: expecting a single argument", c.Fn)
		}
		return math.Ceil(args[0]), nil
	}
	return 0, fmt.Errorf("unknown function %q", c.Fn)
}

func (c Call) String() string {
	args := make([]string, 0, len(c.Args))
	for _, a := range c.Args {
		args = append(args, a.String())
	}
	return c.Fn + "(" + strings.Join(args, ", ") + ")"
}

// Min returns a min call
// over the indicated expressions.
func Min(args ...Expr) Expr {
	return Call{Fn: "min", Args: args}
}

// Max returns a max call
// over the indicated expressions.
func Max(args ...Expr) Expr {
	return Call{Fn: "max", Args: args}
}

// Ceil returns a ceil call
// over the indicated expression.
func Ceil(arg Expr) Expr {
	return Call{Fn: "ceil", Args: []Expr{arg}}
}
