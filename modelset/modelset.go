// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package modelset implements the generation
// of a set of candidate demographic models
// from an annotated species tree.
//
// The model set contains a model
// for every valid collapsed history of the tree
// (divergence models),
// and optionally models with migration events
// added to those histories:
// secondary contact models
// and divergence with gene flow models.
// Models are symbolic templates
// with placeholder parameter values;
// numeric replicates are drawn from the tree priors
// with the Sample method.
package modelset

import (
	"fmt"

	"github.com/js-arias/delimit/demography"
	"github.com/js-arias/delimit/migmatrix"
	"github.com/js-arias/delimit/sptree"
	"golang.org/x/exp/rand"
)

// Category is a keyword to identify
// the kind of demographic history
// of a model.
type Category string

// Valid model categories.
const (
	// Divergence without migration.
	Divergence Category = "divergence"

	// Divergence with migration after divergence
	// that ceases before the present.
	SecContact Category = "secondary contact"

	// Divergence with migration during divergence.
	GeneFlow Category = "gene flow"
)

// Placeholder values used in symbolic model templates.
// They are not biologically meaningful;
// real values are drawn by the parameter sampler.
const (
	holderSize = 1000
	holderTime = 1000
	holderMig  = 100
	holderRate = 1e-3
)

// Param is a collection of parameters
// for the generation of a model set.
type Param struct {
	// Number of replicates per model
	Replicates int

	// Maximum number of simultaneous migration events
	MaxMigration int

	// If true,
	// migration rates are symmetric
	// and unordered pairs define a single event
	Symmetric bool

	// Enabled migration model categories
	SecContact bool
	GeneFlow   bool

	// Prior range for migration rates
	MigRate sptree.Range

	// Candidate pairs for migration events.
	// A nil matrix allows every pair.
	Matrix *migmatrix.Matrix

	// Seed for the random number generator
	Seed uint64
}

// A Model is a symbolic demographic model:
// a template demography
// with placeholder parameter values.
type Model struct {
	// Sequential index of the model in its set
	Index int

	// Kind of demographic history
	Category Category

	// Template demography
	Base *demography.Demography
}

// A Set is a set of candidate demographic models
// built from a species tree.
type Set struct {
	tree  *sptree.Tree
	param Param

	sizes map[string]sptree.Range
	divs  map[string]sptree.Range

	models []*Model
	src    rand.Source
}

// New creates the set of candidate models
// for a species tree.
//
// Divergence models are created first,
// in collapse enumeration order,
// then secondary contact models,
// and then gene flow models,
// so model indices are stable
// for a given tree and parameters.
func New(t *sptree.Tree, p Param) (*Set, error) {
	if p.Replicates <= 0 {
		return nil, fmt.Errorf("model set %q: invalid replicates: %d", t.Name(), p.Replicates)
	}
	if p.MaxMigration < 0 {
		return nil, fmt.Errorf("model set %q: invalid max migration events: %d", t.Name(), p.MaxMigration)
	}
	if (p.SecContact || p.GeneFlow) && !p.MigRate.IsValid() {
		return nil, fmt.Errorf("model set %q: invalid migration rate prior [%g, %g]", t.Name(), p.MigRate.Min, p.MigRate.Max)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}

	sizes, divs, err := t.Priors()
	if err != nil {
		return nil, err
	}

	s := &Set{
		tree:  t,
		param: p,
		sizes: sizes,
		divs:  divs,
		src:   rand.NewSource(p.Seed),
	}

	base := s.divergenceModels()
	for _, d := range base {
		s.addModel(Divergence, d)
	}
	if p.SecContact && p.MaxMigration > 0 {
		for _, d := range base {
			for _, m := range s.migrationModels(d, demography.SecContact) {
				s.addModel(SecContact, m)
			}
		}
	}
	if p.GeneFlow && p.MaxMigration > 0 {
		for _, d := range base {
			for _, m := range s.migrationModels(d, demography.GeneFlow) {
				s.addModel(GeneFlow, m)
			}
		}
	}

	return s, nil
}

func (s *Set) addModel(c Category, d *demography.Demography) {
	s.models = append(s.models, &Model{
		Index:    len(s.models),
		Category: c,
		Base:     d,
	})
}

// DivPrior returns the divergence time prior
// of a named ancestral population.
func (s *Set) DivPrior(name string) (sptree.Range, bool) {
	r, ok := s.divs[name]
	return r, ok
}

// MigRatePrior returns the migration rate prior
// of the set.
func (s *Set) MigRatePrior() sptree.Range {
	return s.param.MigRate
}

// Models returns the models of the set,
// in generation order:
// divergence models,
// then secondary contact models,
// then gene flow models.
func (s *Set) Models() []*Model {
	return s.models
}

// Name returns the name of the species tree
// used to build the set.
func (s *Set) Name() string {
	return s.tree.Name()
}

// Replicates returns the number of replicates
// to be sampled per model.
func (s *Set) Replicates() int {
	return s.param.Replicates
}

// SizePrior returns the population size prior
// of a named population.
func (s *Set) SizePrior(name string) (sptree.Range, bool) {
	r, ok := s.sizes[name]
	return r, ok
}
