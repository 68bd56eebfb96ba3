// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package migmatrix implements a matrix
// with the population pairs
// that are candidates for migration events.
//
// The matrix is an optional constraint:
// a nil matrix allows migration
// between any pair of populations.
package migmatrix

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
)

// A Matrix is a set of directional population pairs
// allowed to migrate.
type Matrix struct {
	pairs map[string]map[string]bool
}

// New creates a new empty matrix.
func New() *Matrix {
	return &Matrix{
		pairs: make(map[string]map[string]bool),
	}
}

// Add adds a directional population pair
// to the matrix.
// To allow migration in both directions
// add both orderings of the pair.
func (m *Matrix) Add(source, dest string) {
	source = strings.TrimSpace(source)
	dest = strings.TrimSpace(dest)
	if source == "" || dest == "" || source == dest {
		return
	}

	p, ok := m.pairs[source]
	if !ok {
		p = make(map[string]bool)
		m.pairs[source] = p
	}
	p[dest] = true
}

// Allows returns true if migration from source to dest
// is a candidate for migration events.
// A nil matrix allows every pair.
func (m *Matrix) Allows(source, dest string) bool {
	if m == nil {
		return source != dest
	}
	return m.pairs[source][dest]
}

// Sources returns the source populations of the matrix,
// sorted alphabetically.
func (m *Matrix) Sources() []string {
	src := make([]string, 0, len(m.pairs))
	for s := range m.pairs {
		src = append(src, s)
	}
	slices.Sort(src)
	return src
}

var header = []string{
	"source",
	"dest",
}

// ReadTSV reads a migration matrix from a TSV file.
//
// The TSV file must contain the following fields:
//
//   - source, the source population of a pair
//   - dest, the destination population of a pair
//
// Each row is an allowed directional pair.
//
// Here is an example file:
//
//	# candidate migration pairs
//	source	dest
//	alpine	coastal
//	coastal	alpine
//	coastal	eastern
func ReadTSV(r io.Reader) (*Matrix, error) {
	tab := csv.NewReader(r)
	tab.Comma = '\t'
	tab.Comment = '#'

	head, err := tab.Read()
	if err != nil {
		return nil, fmt.Errorf("while reading header: %v", err)
	}
	fields := make(map[string]int, len(head))
	for i, h := range head {
		h = strings.ToLower(h)
		fields[h] = i
	}
	for _, h := range header {
		if _, ok := fields[h]; !ok {
			return nil, fmt.Errorf("expecting field %q", h)
		}
	}

	m := New()
	for {
		row, err := tab.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		ln, _ := tab.FieldPos(0)
		if err != nil {
			return nil, fmt.Errorf("on row %d: %v", ln, err)
		}

		m.Add(row[fields["source"]], row[fields["dest"]])
	}
	return m, nil
}

// TSV writes a migration matrix into a TSV file.
func (m *Matrix) TSV(w io.Writer) error {
	tab := csv.NewWriter(w)
	tab.Comma = '\t'
	tab.UseCRLF = true

	if err := tab.Write(header); err != nil {
		return fmt.Errorf("while writing header: %v", err)
	}

	for _, s := range m.Sources() {
		dests := make([]string, 0, len(m.pairs[s]))
		for d := range m.pairs[s] {
			dests = append(dests, d)
		}
		slices.Sort(dests)
		for _, d := range dests {
			if err := tab.Write([]string{s, d}); err != nil {
				return fmt.Errorf("when writing pair %s-%s: %v", s, d, err)
			}
		}
	}

	tab.Flush()
	if err := tab.Error(); err != nil {
		return fmt.Errorf("while writing data: %v", err)
	}
	return nil
}
