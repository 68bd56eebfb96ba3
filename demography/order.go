// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package demography

import "fmt"

// DivergenceOrder sorts a list of divergences
// into dependency order:
// if a derived population of a divergence
// is itself the ancestral population of another divergence,
// that divergence is placed first.
//
// The divergence times of a model
// must be sampled in this order,
// as the time of an ancestor
// is bounded below
// by the times of its descendants.
// The order is deterministic:
// ties are broken by the input order.
//
// It returns an error
// if the dependencies cannot be resolved
// (for example a divergence cycle),
// which indicates a malformed model.
func DivergenceOrder(divs []Divergence) ([]Divergence, error) {
	ancestral := make(map[string]bool, len(divs))
	for _, d := range divs {
		if ancestral[d.Ancestral] {
			return nil, fmt.Errorf("population %q: ancestral in multiple divergences", d.Ancestral)
		}
		ancestral[d.Ancestral] = true
	}

	ordered := make([]Divergence, 0, len(divs))
	placed := make(map[string]bool, len(divs))
	for len(ordered) < len(divs) {
		prev := len(ordered)
		for _, d := range divs {
			if placed[d.Ancestral] {
				continue
			}
			ready := true
			for _, dv := range d.Derived {
				if ancestral[dv] && !placed[dv] {
					ready = false
					break
				}
			}
			if !ready {
				continue
			}
			ordered = append(ordered, d)
			placed[d.Ancestral] = true
		}
		if len(ordered) == prev {
			return nil, fmt.Errorf("unresolvable divergence dependencies: %d of %d divergences placed", len(ordered), len(divs))
		}
	}
	return ordered, nil
}
