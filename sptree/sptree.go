// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package sptree implements a rooted,
// strictly bifurcating species tree
// in which each node is a named population
// annotated with a prior range for its size,
// and each internal node
// with a prior range for its divergence time.
//
// The tree is the input of a model-set generation;
// how it is produced
// (from a guide tree, a user file, or by hand)
// is up to the caller.
package sptree

import (
	"fmt"
	"slices"
)

// A Range is a uniform prior range
// over a model parameter.
type Range struct {
	Min float64
	Max float64
}

// IsValid returns true if a range is well formed.
func (r Range) IsValid() bool {
	return r.Min >= 0 && r.Max >= r.Min
}

// A Tree is a rooted bifurcating species tree.
// Nodes are identified by IDs,
// with the root node always with ID 0.
type Tree struct {
	name string

	nodes  map[int]*node
	labels map[string]int
}

type node struct {
	id       int
	parent   int
	children []int
	label    string

	size   Range // population size prior
	hasSz  bool
	div    Range // divergence time prior
	hasDiv bool
}

// New creates a new tree with a root node
// labeled with the indicated population name.
func New(name, root string) (*Tree, error) {
	if root == "" {
		return nil, fmt.Errorf("tree %q: root population without label", name)
	}

	t := &Tree{
		name:   name,
		nodes:  make(map[int]*node),
		labels: make(map[string]int),
	}
	t.nodes[0] = &node{
		id:     0,
		parent: -1,
		label:  root,
	}
	t.labels[root] = 0
	return t, nil
}

// Add adds a new node
// as a child of the indicated node,
// labeled with the indicated population name,
// and returns the ID of the added node.
func (t *Tree) Add(parent int, label string) (int, error) {
	p, ok := t.nodes[parent]
	if !ok {
		return -1, fmt.Errorf("tree %q: parent node %d not in tree", t.name, parent)
	}
	if label == "" {
		return -1, fmt.Errorf("tree %q: population without label", t.name)
	}
	if _, dup := t.labels[label]; dup {
		return -1, fmt.Errorf("tree %q: population %q already in tree", t.name, label)
	}
	if len(p.children) >= 2 {
		return -1, fmt.Errorf("tree %q: node %d [%s]: tree must be bifurcating", t.name, parent, p.label)
	}

	id := len(t.nodes)
	n := &node{
		id:     id,
		parent: parent,
		label:  label,
	}
	t.nodes[id] = n
	t.labels[label] = id
	p.children = append(p.children, id)
	return id, nil
}

// Children returns the IDs of the children
// of the indicated node.
func (t *Tree) Children(id int) []int {
	n, ok := t.nodes[id]
	if !ok {
		return nil
	}
	return slices.Clone(n.children)
}

// DivPrior returns the divergence time prior
// of the indicated node.
func (t *Tree) DivPrior(id int) (Range, bool) {
	n, ok := t.nodes[id]
	if !ok {
		return Range{}, false
	}
	return n.div, n.hasDiv
}

// ID returns the ID of the population
// with the indicated label.
// It returns false if the label is not in the tree.
func (t *Tree) ID(label string) (int, bool) {
	id, ok := t.labels[label]
	return id, ok
}

// Internal returns the IDs of the internal nodes
// of the tree in post order.
func (t *Tree) Internal() []int {
	var ns []int
	for _, id := range t.Postorder() {
		if !t.IsTerm(id) {
			ns = append(ns, id)
		}
	}
	return ns
}

// IsRoot returns true if the indicated node
// is the root of the tree.
func (t *Tree) IsRoot(id int) bool {
	n, ok := t.nodes[id]
	if !ok {
		return false
	}
	return n.parent < 0
}

// IsTerm returns true if the indicated node
// is a terminal
// (i.e. a sampled population).
func (t *Tree) IsTerm(id int) bool {
	n, ok := t.nodes[id]
	if !ok {
		return false
	}
	return len(n.children) == 0
}

// Label returns the population label
// of the indicated node.
func (t *Tree) Label(id int) string {
	n, ok := t.nodes[id]
	if !ok {
		return ""
	}
	return n.label
}

// Len returns the number of nodes of the tree.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Name returns the name of the tree.
func (t *Tree) Name() string {
	return t.name
}

// Nodes returns the IDs of the tree nodes
// in post order.
func (t *Tree) Nodes() []int {
	return t.Postorder()
}

// Parent returns the ID of the parent
// of the indicated node.
// The root has a parent of -1.
func (t *Tree) Parent(id int) int {
	n, ok := t.nodes[id]
	if !ok {
		return -1
	}
	return n.parent
}

// Postorder returns the IDs of the tree nodes
// in post order:
// children first,
// and first children before second children.
// The order is stable for a given tree.
func (t *Tree) Postorder() []int {
	ns := make([]int, 0, len(t.nodes))
	var post func(id int)
	post = func(id int) {
		for _, c := range t.nodes[id].children {
			post(c)
		}
		ns = append(ns, id)
	}
	post(0)
	return ns
}

// Root returns the ID of the root node.
func (t *Tree) Root() int {
	return 0
}

// SetDivPrior sets the divergence time prior
// of an internal node.
func (t *Tree) SetDivPrior(id int, r Range) error {
	n, ok := t.nodes[id]
	if !ok {
		return fmt.Errorf("tree %q: node %d not in tree", t.name, id)
	}
	if len(n.children) == 0 {
		return fmt.Errorf("tree %q: node %d [%s]: divergence prior on a terminal", t.name, id, n.label)
	}
	if !r.IsValid() {
		return fmt.Errorf("tree %q: node %d [%s]: invalid divergence prior [%g, %g]", t.name, id, n.label, r.Min, r.Max)
	}
	n.div = r
	n.hasDiv = true
	return nil
}

// SetSizePrior sets the population size prior
// of a node.
func (t *Tree) SetSizePrior(id int, r Range) error {
	n, ok := t.nodes[id]
	if !ok {
		return fmt.Errorf("tree %q: node %d not in tree", t.name, id)
	}
	if !r.IsValid() {
		return fmt.Errorf("tree %q: node %d [%s]: invalid size prior [%g, %g]", t.name, id, n.label, r.Min, r.Max)
	}
	n.size = r
	n.hasSz = true
	return nil
}

// SizePrior returns the population size prior
// of the indicated node.
func (t *Tree) SizePrior(id int) (Range, bool) {
	n, ok := t.nodes[id]
	if !ok {
		return Range{}, false
	}
	return n.size, n.hasSz
}

// Terms returns the labels of the terminal nodes,
// in post order.
func (t *Tree) Terms() []string {
	var terms []string
	for _, id := range t.Postorder() {
		if t.IsTerm(id) {
			terms = append(terms, t.nodes[id].label)
		}
	}
	return terms
}

// Validate returns an error
// if the tree is not a valid input
// for model generation:
// every internal node must have exactly two children,
// every node a size prior,
// and every internal node a divergence time prior.
func (t *Tree) Validate() error {
	for _, id := range t.Postorder() {
		n := t.nodes[id]
		if len(n.children) == 1 {
			return fmt.Errorf("tree %q: node %d [%s]: tree must be bifurcating", t.name, id, n.label)
		}
		if !n.hasSz {
			return fmt.Errorf("tree %q: node %d [%s]: without population size prior", t.name, id, n.label)
		}
		if len(n.children) == 0 {
			continue
		}
		if !n.hasDiv {
			return fmt.Errorf("tree %q: node %d [%s]: without divergence time prior", t.name, id, n.label)
		}
	}
	return nil
}
