// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package modelset

import (
	"github.com/js-arias/delimit/demography"
	"gonum.org/v1/gonum/stat/combin"
)

// DivergenceModels builds the divergence-only templates of a tree:
// one demography for each valid combination
// of collapsed internal nodes.
//
// Combinations are enumerated by size,
// from single collapses
// to the full collapse,
// with the empty combination
// (the fully resolved tree)
// at the end,
// and nodes taken in post order within each size.
func (s *Set) divergenceModels() []*demography.Demography {
	internal := s.tree.Internal()

	var combos [][]int
	for r := 1; r <= len(internal); r++ {
		for _, idx := range combin.Combinations(len(internal), r) {
			combo := make([]int, 0, len(idx))
			for _, i := range idx {
				combo = append(combo, internal[i])
			}
			if !s.validCombo(combo) {
				continue
			}
			combos = append(combos, combo)
		}
	}
	combos = append(combos, nil)

	models := make([]*demography.Demography, 0, len(combos))
	for _, combo := range combos {
		models = append(models, s.collapse(combo))
	}
	return models
}

// ValidCombo returns true if a combination
// of collapsed nodes is consistent:
// if a node is collapsed,
// all the internal nodes descending from it
// must also be collapsed.
// Otherwise an uncollapsed divergence
// would be orphaned below a polytomy.
func (s *Set) validCombo(combo []int) bool {
	in := make(map[int]bool, len(combo))
	for _, id := range combo {
		in[id] = true
	}

	for _, id := range combo {
		for _, dc := range s.internalDescendants(id) {
			if !in[dc] {
				return false
			}
		}
	}
	return true
}

// InternalDescendants returns the internal nodes
// descending from the indicated node,
// not including the node itself.
func (s *Set) internalDescendants(id int) []int {
	var ds []int
	var walk func(id int)
	walk = func(id int) {
		for _, c := range s.tree.Children(id) {
			if s.tree.IsTerm(c) {
				continue
			}
			ds = append(ds, c)
			walk(c)
		}
	}
	walk(id)
	return ds
}

// Collapse builds the demography template
// for a combination of collapsed nodes.
//
// Every internal node not in the combination
// contributes its two children as populations
// and a divergence event at a placeholder time;
// the root population is always present.
// Populations that exist only below collapsed nodes
// are absorbed into the collapse
// and do not appear in the model.
func (s *Set) collapse(combo []int) *demography.Demography {
	in := make(map[int]bool, len(combo))
	for _, id := range combo {
		in[id] = true
	}

	d := &demography.Demography{}
	for _, id := range s.tree.Internal() {
		if in[id] {
			continue
		}
		for _, c := range s.tree.Children(id) {
			d.Populations = append(d.Populations, demography.Population{
				Name: s.tree.Label(c),
				Size: holderSize,
			})
		}
	}
	d.Populations = append(d.Populations, demography.Population{
		Name: s.tree.Label(s.tree.Root()),
		Size: holderSize,
	})

	for _, id := range s.tree.Internal() {
		if in[id] {
			continue
		}
		children := s.tree.Children(id)
		d.Events = append(d.Events, demography.Divergence{
			T:         holderTime,
			Derived:   [2]string{s.tree.Label(children[0]), s.tree.Label(children[1])},
			Ancestral: s.tree.Label(id),
		})
	}
	return d
}
