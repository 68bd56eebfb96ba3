// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package modelset

import (
	"slices"

	"github.com/js-arias/delimit/demography"
	"gonum.org/v1/gonum/stat/combin"
)

// A pair is a directional pair of populations
// candidate for a migration event.
type pair struct {
	source string
	dest   string
}

// MigrationModels builds the migration templates
// of the indicated kind
// for a divergence-only template:
// one demography per combination
// of up to MaxMigration eligible pairs.
func (s *Set) migrationModels(base *demography.Demography, kind demography.Kind) []*demography.Demography {
	var pairs []pair
	switch kind {
	case demography.SecContact:
		pairs = s.scPairs(base)
	case demography.GeneFlow:
		pairs = s.gfPairs(base)
	}
	if s.param.Symmetric {
		pairs = symmetricPairs(pairs)
	}
	if len(pairs) == 0 {
		return nil
	}

	max := s.param.MaxMigration
	if max > len(pairs) {
		max = len(pairs)
	}

	var models []*demography.Demography
	for r := 1; r <= max; r++ {
		for _, idx := range combin.Combinations(len(pairs), r) {
			m := base.Copy()
			for _, i := range idx {
				m.Events = append(m.Events, demography.Migration{
					T:         holderMig,
					Kind:      kind,
					Source:    pairs[i].source,
					Dest:      pairs[i].dest,
					Rate:      holderRate,
					Symmetric: s.param.Symmetric,
				})
			}
			m.SortEvents()
			models = append(models, m)
		}
	}
	return models
}

// ScPairs returns the population pairs
// eligible for a secondary contact event
// in a divergence-only template,
// sorted by source and then destination.
//
// A population can take part in a secondary contact
// only if it is extant at the present:
// it must be a derived population
// of a divergence with a non-zero time,
// and must not be the ancestral population
// of any non-zero divergence.
func (s *Set) scPairs(base *demography.Demography) []pair {
	var pairs []pair
	for _, src := range base.Populations {
		if !s.extant(base, src.Name) {
			continue
		}
		for _, dst := range base.Populations {
			if src.Name == dst.Name {
				continue
			}
			if !s.param.Matrix.Allows(src.Name, dst.Name) {
				continue
			}
			if !s.extant(base, dst.Name) {
				continue
			}
			pairs = append(pairs, pair{source: src.Name, dest: dst.Name})
		}
	}
	sortPairs(pairs)
	return pairs
}

// Extant returns true if the population
// is a currently sampled population
// of the model:
// it diverged from its ancestor at a non-zero time
// and has not yet been collapsed to an ancestor.
func (s *Set) extant(base *demography.Demography, name string) bool {
	derived := false
	for _, e := range base.Events {
		d, ok := e.(demography.Divergence)
		if !ok || d.T == 0 {
			continue
		}
		if d.Derived[0] == name || d.Derived[1] == name {
			derived = true
		}
		if d.Ancestral == name {
			return false
		}
	}
	return derived
}

// GfPairs returns the population pairs
// eligible for a gene flow event
// in a divergence-only template:
// the two derived populations
// of the same non-zero divergence,
// sorted by source and then destination.
func (s *Set) gfPairs(base *demography.Demography) []pair {
	var pairs []pair
	for _, e := range base.Events {
		d, ok := e.(demography.Divergence)
		if !ok || d.T == 0 {
			continue
		}
		for _, p := range []pair{
			{source: d.Derived[0], dest: d.Derived[1]},
			{source: d.Derived[1], dest: d.Derived[0]},
		} {
			if !s.param.Matrix.Allows(p.source, p.dest) {
				continue
			}
			pairs = append(pairs, p)
		}
	}
	sortPairs(pairs)
	return pairs
}

// SymmetricPairs deduplicates a pair list
// by unordered identity,
// keeping each pair
// with its members in alphabetical order.
func symmetricPairs(pairs []pair) []pair {
	seen := make(map[pair]bool, len(pairs))
	var sym []pair
	for _, p := range pairs {
		if p.dest < p.source {
			p.source, p.dest = p.dest, p.source
		}
		if seen[p] {
			continue
		}
		seen[p] = true
		sym = append(sym, p)
	}
	sortPairs(sym)
	return sym
}

func sortPairs(pairs []pair) {
	slices.SortFunc(pairs, func(a, b pair) int {
		if a.source != b.source {
			if a.source < b.source {
				return -1
			}
			return 1
		}
		switch {
		case a.dest < b.dest:
			return -1
		case a.dest > b.dest:
			return 1
		}
		return 0
	})
}
