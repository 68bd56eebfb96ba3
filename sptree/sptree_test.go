// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package sptree_test

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/js-arias/delimit/sptree"
)

// newTree returns the tree "frogs":
// ((alpine,coastal)west,eastern)root,
// with priors on every node.
func newTree(t testing.TB) *sptree.Tree {
	t.Helper()

	tr, err := sptree.New("frogs", "root")
	if err != nil {
		t.Fatalf("unable to create tree: %v", err)
	}
	west, err := tr.Add(tr.Root(), "west")
	if err != nil {
		t.Fatalf("unable to add node: %v", err)
	}
	if _, err := tr.Add(west, "alpine"); err != nil {
		t.Fatalf("unable to add node: %v", err)
	}
	if _, err := tr.Add(west, "coastal"); err != nil {
		t.Fatalf("unable to add node: %v", err)
	}
	if _, err := tr.Add(tr.Root(), "eastern"); err != nil {
		t.Fatalf("unable to add node: %v", err)
	}

	for _, id := range tr.Nodes() {
		if err := tr.SetSizePrior(id, sptree.Range{Min: 1000, Max: 100000}); err != nil {
			t.Fatalf("unable to set size prior: %v", err)
		}
	}
	if err := tr.SetDivPrior(west, sptree.Range{Min: 10000, Max: 50000}); err != nil {
		t.Fatalf("unable to set divergence prior: %v", err)
	}
	if err := tr.SetDivPrior(tr.Root(), sptree.Range{Min: 50000, Max: 100000}); err != nil {
		t.Fatalf("unable to set divergence prior: %v", err)
	}
	return tr
}

func TestTree(t *testing.T) {
	tr := newTree(t)
	testTree(t, tr)
}

func testTree(t testing.TB, tr *sptree.Tree) {
	t.Helper()

	if tr.Name() != "frogs" {
		t.Errorf("name: got %q, want %q", tr.Name(), "frogs")
	}
	if tr.Len() != 5 {
		t.Errorf("nodes: got %d, want %d", tr.Len(), 5)
	}
	if err := tr.Validate(); err != nil {
		t.Errorf("validate: unexpected error: %v", err)
	}

	terms := []string{"alpine", "coastal", "eastern"}
	if tms := tr.Terms(); !reflect.DeepEqual(tms, terms) {
		t.Errorf("terminals: got %v, want %v", tms, terms)
	}

	west, ok := tr.ID("west")
	if !ok {
		t.Fatalf("population %q not in tree", "west")
	}
	internal := []int{west, tr.Root()}
	if in := tr.Internal(); !reflect.DeepEqual(in, internal) {
		t.Errorf("internal nodes: got %v, want %v", in, internal)
	}
	if tr.IsTerm(west) {
		t.Errorf("node %d [west]: unexpected terminal", west)
	}
	if !tr.IsRoot(tr.Root()) {
		t.Errorf("node %d: expecting root", tr.Root())
	}
	if p := tr.Parent(west); p != tr.Root() {
		t.Errorf("node %d [west]: got parent %d, want %d", west, p, tr.Root())
	}

	div, ok := tr.DivPrior(west)
	if !ok {
		t.Fatalf("node %d [west]: expecting divergence prior", west)
	}
	if want := (sptree.Range{Min: 10000, Max: 50000}); div != want {
		t.Errorf("node %d [west]: got divergence prior %v, want %v", west, div, want)
	}
	if _, ok := tr.DivPrior(tr.Root()); !ok {
		t.Errorf("node %d [root]: expecting divergence prior", tr.Root())
	}
	for _, id := range tr.Nodes() {
		sz, ok := tr.SizePrior(id)
		if !ok {
			t.Errorf("node %d [%s]: expecting size prior", id, tr.Label(id))
			continue
		}
		if want := (sptree.Range{Min: 1000, Max: 100000}); sz != want {
			t.Errorf("node %d [%s]: got size prior %v, want %v", id, tr.Label(id), sz, want)
		}
	}
}

func TestTreeErrors(t *testing.T) {
	tr := newTree(t)

	if _, err := tr.Add(tr.Root(), "extra"); err == nil {
		t.Errorf("add: expecting bifurcation error")
	}
	west, _ := tr.ID("west")
	alpine, _ := tr.ID("alpine")
	if _, err := tr.Add(west, "alpine"); err == nil {
		t.Errorf("add: expecting duplicate label error")
	}
	if err := tr.SetDivPrior(alpine, sptree.Range{Min: 1, Max: 2}); err == nil {
		t.Errorf("set divergence prior: expecting terminal node error")
	}
	if err := tr.SetSizePrior(west, sptree.Range{Min: 10, Max: 1}); err == nil {
		t.Errorf("set size prior: expecting invalid range error")
	}

	// a tree without priors is not valid
	nv, err := sptree.New("empty", "root")
	if err != nil {
		t.Fatalf("unable to create tree: %v", err)
	}
	if err := nv.Validate(); err == nil {
		t.Errorf("validate: expecting error on tree without priors")
	}
}

func TestPriors(t *testing.T) {
	tr := newTree(t)

	sizes, divs, err := tr.Priors()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sizes) != tr.Len() {
		t.Errorf("size priors: got %d, want %d", len(sizes), tr.Len())
	}
	for _, id := range tr.Nodes() {
		want, _ := tr.SizePrior(id)
		if got := sizes[tr.Label(id)]; got != want {
			t.Errorf("population %q: got size prior %v, want %v", tr.Label(id), got, want)
		}
	}

	if len(divs) != 2 {
		t.Errorf("divergence priors: got %d, want %d", len(divs), 2)
	}
	if got, want := divs["west"], (sptree.Range{Min: 10000, Max: 50000}); got != want {
		t.Errorf("population %q: got divergence prior %v, want %v", "west", got, want)
	}
	if got, want := divs["root"], (sptree.Range{Min: 50000, Max: 100000}); got != want {
		t.Errorf("population %q: got divergence prior %v, want %v", "root", got, want)
	}
}

func TestTSV(t *testing.T) {
	tr := newTree(t)

	var buf bytes.Buffer
	if err := tr.TSV(&buf); err != nil {
		t.Fatalf("error when writing data: %v", err)
	}

	nt, err := sptree.ReadTSV(&buf)
	if err != nil {
		t.Fatalf("error when reading data: %v", err)
	}
	testTree(t, nt)
}

var treeBlob = `# species tree with priors
tree	node	parent	label	min-size	max-size	min-div	max-div
frogs	0	-1	root	1000	100000	50000	100000
frogs	1	0	west	1000	100000	10000	50000
frogs	2	1	alpine	1000	100000
frogs	3	1	coastal	1000	100000
frogs	4	0	eastern	1000	100000
`

func TestReadTSV(t *testing.T) {
	tr, err := sptree.ReadTSV(strings.NewReader(treeBlob))
	if err != nil {
		t.Fatalf("error when reading data: %v", err)
	}
	testTree(t, tr)
}

func TestReadTSVErrors(t *testing.T) {
	blobs := map[string]string{
		"bad header": "tree\tnode\tparent\n",
		"root not first": `tree	node	parent	label	min-size	max-size	min-div	max-div
frogs	1	0	west	1000	100000	10000	50000
`,
		"undefined parent": `tree	node	parent	label	min-size	max-size	min-div	max-div
frogs	0	-1	root	1000	100000	50000	100000
frogs	1	5	west	1000	100000	10000	50000
`,
		"invalid range": `tree	node	parent	label	min-size	max-size	min-div	max-div
frogs	0	-1	root	100000	1000	50000	100000
`,
		"missing priors": `tree	node	parent	label	min-size	max-size	min-div	max-div
frogs	0	-1	root	1000	100000	50000	100000
frogs	1	0	west	1000	100000
frogs	2	0	eastern	1000	100000
frogs	3	1	alpine	1000	100000
frogs	4	1	coastal	1000	100000
`,
		"empty file": "",
	}
	for name, b := range blobs {
		if _, err := sptree.ReadTSV(strings.NewReader(b)); err == nil {
			t.Errorf("%s: expecting error", name)
		}
	}
}
