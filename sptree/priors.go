// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package sptree

import "fmt"

// Priors extracts the prior ranges of a tree
// into flat maps keyed by population name:
// population size priors for every population,
// and divergence time priors
// for the ancestral populations.
func (t *Tree) Priors() (sizes, divs map[string]Range, err error) {
	sizes = make(map[string]Range, len(t.nodes))
	divs = make(map[string]Range)

	for _, id := range t.Postorder() {
		n := t.nodes[id]
		if !n.hasSz {
			return nil, nil, fmt.Errorf("tree %q: population %q: without population size prior", t.name, n.label)
		}
		sizes[n.label] = n.size
		if len(n.children) == 0 {
			continue
		}
		if !n.hasDiv {
			return nil, nil, fmt.Errorf("tree %q: population %q: without divergence time prior", t.name, n.label)
		}
		divs[n.label] = n.div
	}
	return sizes, divs, nil
}
