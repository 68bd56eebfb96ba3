// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package sptree

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var header = []string{
	"tree",
	"node",
	"parent",
	"label",
	"min-size",
	"max-size",
	"min-div",
	"max-div",
}

// ReadTSV reads an annotated species tree
// from a TSV file.
//
// The TSV file must contain the following fields:
//
//   - tree, the name of the tree
//   - node, the ID of the node
//   - parent, the ID of the parent node
//     (-1 for the root)
//   - label, the name of the population
//   - min-size and max-size,
//     the population size prior range
//   - min-div and max-div,
//     the divergence time prior range
//     (empty for terminal nodes)
//
// Parent nodes must be defined before their children,
// and the root node must be the first node of the tree.
//
// Here is an example file:
//
//	# species tree with priors
//	tree	node	parent	label	min-size	max-size	min-div	max-div
//	frogs	0	-1	root	1000	100000	50000	100000
//	frogs	1	0	west	1000	100000	10000	50000
//	frogs	2	1	alpine	1000	100000
//	frogs	3	1	coastal	1000	100000
//	frogs	4	0	eastern	1000	100000
func ReadTSV(r io.Reader) (*Tree, error) {
	tab := csv.NewReader(r)
	tab.Comma = '\t'
	tab.Comment = '#'
	tab.FieldsPerRecord = -1

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

	var t *Tree
	ids := make(map[int]int)
	for {
		row, err := tab.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		ln, _ := tab.FieldPos(0)
		if err != nil {
			return nil, fmt.Errorf("on row %d: %v", ln, err)
		}

		f := "tree"
		name := strings.TrimSpace(row[fields[f]])

		f = "node"
		id, err := strconv.Atoi(row[fields[f]])
		if err != nil {
			return nil, fmt.Errorf("on row %d, field %q: %v", ln, f, err)
		}

		f = "parent"
		parent, err := strconv.Atoi(row[fields[f]])
		if err != nil {
			return nil, fmt.Errorf("on row %d, field %q: %v", ln, f, err)
		}

		f = "label"
		label := strings.TrimSpace(row[fields[f]])

		nd := -1
		if t == nil {
			if parent != -1 {
				return nil, fmt.Errorf("on row %d: tree %q: root must be the first node", ln, name)
			}
			t, err = New(name, label)
			if err != nil {
				return nil, fmt.Errorf("on row %d: %v", ln, err)
			}
			nd = t.Root()
		} else {
			p, ok := ids[parent]
			if !ok {
				return nil, fmt.Errorf("on row %d: tree %q: parent node %d not defined", ln, name, parent)
			}
			nd, err = t.Add(p, label)
			if err != nil {
				return nil, fmt.Errorf("on row %d: %v", ln, err)
			}
		}
		ids[id] = nd

		sz, err := readRange(row, fields, "min-size", "max-size")
		if err != nil {
			return nil, fmt.Errorf("on row %d: %v", ln, err)
		}
		if sz != nil {
			if err := t.SetSizePrior(nd, *sz); err != nil {
				return nil, fmt.Errorf("on row %d: %v", ln, err)
			}
		}

		div, err := readRange(row, fields, "min-div", "max-div")
		if err != nil {
			return nil, fmt.Errorf("on row %d: %v", ln, err)
		}
		if div != nil {
			if err := t.SetDivPrior(nd, *div); err != nil {
				return nil, fmt.Errorf("on row %d: %v", ln, err)
			}
		}
	}
	if t == nil {
		return nil, fmt.Errorf("while reading data: %v", io.ErrUnexpectedEOF)
	}

	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

func readRange(row []string, fields map[string]int, min, max string) (*Range, error) {
	iMin, iMax := fields[min], fields[max]
	if iMin >= len(row) || iMax >= len(row) {
		return nil, nil
	}
	sMin := strings.TrimSpace(row[iMin])
	sMax := strings.TrimSpace(row[iMax])
	if sMin == "" && sMax == "" {
		return nil, nil
	}

	vMin, err := strconv.ParseFloat(sMin, 64)
	if err != nil {
		return nil, fmt.Errorf("field %q: %v", min, err)
	}
	vMax, err := strconv.ParseFloat(sMax, 64)
	if err != nil {
		return nil, fmt.Errorf("field %q: %v", max, err)
	}
	r := Range{Min: vMin, Max: vMax}
	if !r.IsValid() {
		return nil, fmt.Errorf("field %q: invalid range [%g, %g]", min, vMin, vMax)
	}
	return &r, nil
}

// TSV writes a species tree into a TSV file.
func (t *Tree) TSV(w io.Writer) error {
	tab := csv.NewWriter(w)
	tab.Comma = '\t'
	tab.UseCRLF = true

	if err := tab.Write(header); err != nil {
		return fmt.Errorf("while writing header: %v", err)
	}

	var pre func(id int) error
	pre = func(id int) error {
		n := t.nodes[id]
		row := []string{
			t.name,
			strconv.Itoa(id),
			strconv.Itoa(n.parent),
			n.label,
			strconv.FormatFloat(n.size.Min, 'f', -1, 64),
			strconv.FormatFloat(n.size.Max, 'f', -1, 64),
			"",
			"",
		}
		if n.hasDiv {
			row[6] = strconv.FormatFloat(n.div.Min, 'f', -1, 64)
			row[7] = strconv.FormatFloat(n.div.Max, 'f', -1, 64)
		}
		if err := tab.Write(row); err != nil {
			return fmt.Errorf("when writing node %d: %v", id, err)
		}
		for _, c := range n.children {
			if err := pre(c); err != nil {
				return err
			}
		}
		return nil
	}
	if err := pre(t.Root()); err != nil {
		return err
	}

	tab.Flush()
	if err := tab.Error(); err != nil {
		return fmt.Errorf("while writing data: %v", err)
	}
	return nil
}
