// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package relation_test

import (
	"testing"

	"github.com/js-arias/delimit/relation"
)

var vals = map[string]float64{
	"Tdiv_root": 1000,
	"Tdiv_west": 400,
	"Tdiv_east": 250,
}

func TestEval(t *testing.T) {
	tests := map[string]struct {
		expr string
		want float64
	}{
		"literal":    {expr: "42", want: 42},
		"key":        {expr: "Tdiv_west", want: 400},
		"sum":        {expr: "Tdiv_west + Tdiv_east", want: 650},
		"difference": {expr: "Tdiv_root - Tdiv_west", want: 600},
		"division":   {expr: "Tdiv_root / 2", want: 500},
		"min":        {expr: "min(Tdiv_root, Tdiv_west, Tdiv_east)", want: 250},
		"max":        {expr: "max(Tdiv_west, Tdiv_east)", want: 400},
		"ceil":       {expr: "ceil(Tdiv_east / 100)", want: 3},
		"sc stop":    {expr: "ceil(min(Tdiv_west, Tdiv_east) / 2)", want: 125},
		"gf start": {
			expr: "(Tdiv_root - Tdiv_west) / 2 + Tdiv_west",
			want: 700,
		},
		"grouping": {expr: "(Tdiv_root - Tdiv_west) / (2 + 2)", want: 150},
	}
	for name, test := range tests {
		e, err := relation.Parse(test.expr)
		if err != nil {
			t.Errorf("%s: unexpected error: %v", name, err)
			continue
		}
		got, err := e.Eval(vals)
		if err != nil {
			t.Errorf("%s: unexpected error: %v", name, err)
			continue
		}
		if got != test.want {
			t.Errorf("%s: got %g, want %g", name, got, test.want)
		}
	}
}

// TestGeneFlowStart checks the start time
// of a gene flow event
// on an ancestor at 1000 generations
// with two terminal daughters:
// the daughters never diverge,
// so the start time is half the ancestor time.
func TestGeneFlowStart(t *testing.T) {
	e, err := relation.Parse("Tdiv_root / 2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := e.Eval(vals)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 500 {
		t.Errorf("got %g, want %g", got, 500.0)
	}
}

func TestString(t *testing.T) {
	// the written form must parse back
	// to an expression with the same value
	exprs := []string{
		"ceil(min(Tdiv_west, Tdiv_east) / 2)",
		"(Tdiv_root - Tdiv_west) / 2 + Tdiv_west",
		"max(Tdiv_west, Tdiv_east)",
		"Tdiv_root / 2",
	}
	for _, x := range exprs {
		e, err := relation.Parse(x)
		if err != nil {
			t.Errorf("%q: unexpected error: %v", x, err)
			continue
		}
		if s := e.String(); s != x {
			t.Errorf("%q: got written form %q", x, s)
		}
	}
}

func TestBuild(t *testing.T) {
	e := relation.Ceil(relation.Binary{
		Op:    '/',
		Left:  relation.Min(relation.Key("Tdiv_west"), relation.Key("Tdiv_east")),
		Right: relation.Lit(2),
	})
	want := "ceil(min(Tdiv_west, Tdiv_east) / 2)"
	if s := e.String(); s != want {
		t.Errorf("got %q, want %q", s, want)
	}
	v, err := e.Eval(vals)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 125 {
		t.Errorf("got %g, want %g", v, 125.0)
	}
}

func TestParseError(t *testing.T) {
	exprs := []string{
		"",
		"Tdiv_root +",
		"min()",
		"ceil(1, 2)",
		"foo(1)",
		"(Tdiv_root",
		"1..2",
		"Tdiv_root $ 2",
	}
	for _, x := range exprs {
		if _, err := relation.Parse(x); err == nil {
			t.Errorf("%q: expecting error", x)
		}
	}
}

func TestEvalError(t *testing.T) {
	e, err := relation.Parse("Tdiv_north / 2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := e.Eval(vals); err == nil {
		t.Errorf("expecting error on an undefined key")
	}

	e, err = relation.Parse("Tdiv_root / (Tdiv_west - Tdiv_west)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := e.Eval(vals); err == nil {
		t.Errorf("expecting error on a division by zero")
	}
}
