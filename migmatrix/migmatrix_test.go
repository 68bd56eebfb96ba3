// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package migmatrix_test

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/js-arias/delimit/migmatrix"
)

type pair struct {
	source string
	dest   string
}

var pairs = []pair{
	{"alpine", "coastal"},
	{"coastal", "alpine"},
	{"coastal", "eastern"},
}

func TestMatrix(t *testing.T) {
	m := migmatrix.New()
	for _, p := range pairs {
		m.Add(p.source, p.dest)
	}
	testMatrix(t, m)

	// invalid pairs are ignored
	m.Add("alpine", "alpine")
	m.Add("", "coastal")
	if m.Allows("alpine", "alpine") {
		t.Errorf("pair alpine-alpine: self migration must not be allowed")
	}
	if m.Allows("", "coastal") {
		t.Errorf("pair with an empty population must not be allowed")
	}
}

func testMatrix(t testing.TB, m *migmatrix.Matrix) {
	t.Helper()

	for _, p := range pairs {
		if !m.Allows(p.source, p.dest) {
			t.Errorf("pair %s-%s: expecting an allowed pair", p.source, p.dest)
		}
	}
	if m.Allows("eastern", "coastal") {
		t.Errorf("pair eastern-coastal: migration is directional")
	}
	if m.Allows("alpine", "eastern") {
		t.Errorf("pair alpine-eastern: unexpected allowed pair")
	}

	src := []string{"alpine", "coastal"}
	if s := m.Sources(); !reflect.DeepEqual(s, src) {
		t.Errorf("sources: got %v, want %v", s, src)
	}
}

func TestNilMatrix(t *testing.T) {
	var m *migmatrix.Matrix

	if !m.Allows("alpine", "coastal") {
		t.Errorf("nil matrix: every pair must be allowed")
	}
	if m.Allows("alpine", "alpine") {
		t.Errorf("nil matrix: self migration must not be allowed")
	}
}

func TestTSV(t *testing.T) {
	m := migmatrix.New()
	for _, p := range pairs {
		m.Add(p.source, p.dest)
	}

	var buf bytes.Buffer
	if err := m.TSV(&buf); err != nil {
		t.Fatalf("error when writing data: %v", err)
	}

	nm, err := migmatrix.ReadTSV(&buf)
	if err != nil {
		t.Fatalf("error when reading data: %v", err)
	}
	testMatrix(t, nm)
}

func TestReadTSVError(t *testing.T) {
	blob := "source\twrong\nalpine\tcoastal\n"
	if _, err := migmatrix.ReadTSV(strings.NewReader(blob)); err == nil {
		t.Errorf("expecting error on a bad header")
	}
}
