// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package modelfile

import (
	"fmt"
	"math"
	"strconv"

	"github.com/js-arias/delimit/demography"
	"github.com/js-arias/delimit/relation"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Sample draws n numeric replicates
// from a persisted model,
// using its own seeded random source,
// independent of any other read
// or of the run that wrote the file.
//
// Divergence times are drawn in dependency order,
// reconstructed from the derived-ancestral records,
// with the same semantics used
// when the model was generated.
// Migration times are resolved
// by evaluating the relation expressions of the file
// on the divergence times of each replicate.
func (m *Model) Sample(n int, seed uint64) ([]*demography.Demography, error) {
	if n <= 0 {
		return nil, fmt.Errorf("invalid replicates: %d", n)
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	src := rand.NewSource(seed)

	sizes := make(map[string][]float64, len(m.Populations))
	for _, p := range m.Populations {
		sizes[p.Name] = draw(m.Priors[p.Size], n, 0, src)
	}

	times, err := m.divTimes(n, src)
	if err != nil {
		return nil, err
	}

	rates := make([][]float64, len(m.Migrations))
	migT := make([][]float64, len(m.Migrations))
	for i, mg := range m.Migrations {
		rates[i] = draw(m.Priors[mg.Rate], n, 10, src)

		bound := mg.EndTime
		if bound == "" {
			bound = mg.StartTime
		}
		ts, err := m.resolveTime(bound, times, n)
		if err != nil {
			return nil, fmt.Errorf("migration %s-%s: %v", mg.Source, mg.Dest, err)
		}
		migT[i] = ts
	}

	reps := make([]*demography.Demography, 0, n)
	for r := 0; r < n; r++ {
		d := &demography.Demography{
			Populations: make([]demography.Population, 0, len(m.Populations)),
		}
		for _, p := range m.Populations {
			d.Populations = append(d.Populations, demography.Population{
				Name: p.Name,
				Size: sizes[p.Name][r],
			})
		}
		for _, dv := range m.Divergences {
			d.Events = append(d.Events, demography.Divergence{
				T:         times[dv.Ancestral][r],
				Derived:   [2]string{dv.Derived[0], dv.Derived[1]},
				Ancestral: dv.Ancestral,
			})
		}
		for i, mg := range m.Migrations {
			kind := demography.GeneFlow
			if mg.EndTime != "" {
				kind = demography.SecContact
			}
			d.Events = append(d.Events, demography.Migration{
				T:         migT[i][r],
				Kind:      kind,
				Source:    mg.Source,
				Dest:      mg.Dest,
				Rate:      rates[i][r],
				Symmetric: mg.Type == "symmetric",
			})
		}
		d.SortEvents()
		reps = append(reps, d)
	}
	return reps, nil
}

// DivTimes draws the divergence time replicates
// of a persisted model.
// The file stores divergences unordered,
// so the dependency order is rebuilt first.
func (m *Model) divTimes(n int, src rand.Source) (map[string][]float64, error) {
	divs := make([]demography.Divergence, 0, len(m.Divergences))
	for _, d := range m.Divergences {
		divs = append(divs, demography.Divergence{
			Derived:   [2]string{d.Derived[0], d.Derived[1]},
			Ancestral: d.Ancestral,
		})
	}
	ordered, err := demography.DivergenceOrder(divs)
	if err != nil {
		return nil, err
	}

	keys := make(map[string]string, len(m.Divergences))
	ancestral := make(map[string]bool, len(m.Divergences))
	for _, d := range m.Divergences {
		keys[d.Ancestral] = d.Time
		ancestral[d.Ancestral] = true
	}

	times := make(map[string][]float64, len(m.Populations))
	for _, p := range m.Populations {
		if ancestral[p.Name] {
			continue
		}
		times[p.Name] = make([]float64, n)
	}

	for _, d := range ordered {
		prior := m.Priors[keys[d.Ancestral]]
		ts := make([]float64, n)
		for r := 0; r < n; r++ {
			low := prior[0]
			for _, dv := range d.Derived {
				dt, ok := times[dv]
				if !ok {
					return nil, fmt.Errorf("divergence %q: unresolved time for derived %q", d.Ancestral, dv)
				}
				if dt[r] > low {
					low = dt[r]
				}
			}
			high := prior[1]
			if high < low {
				high = low
			}
			ts[r] = math.Round(uniform(low, high, src))
		}
		times[d.Ancestral] = ts
	}
	return times, nil
}

// ResolveTime resolves a migration time bound
// into one value per replicate:
// a numeric literal is used as is,
// and a relation key is evaluated
// on the divergence times of each replicate.
func (m *Model) resolveTime(bound string, times map[string][]float64, n int) ([]float64, error) {
	ts := make([]float64, n)
	if v, err := strconv.ParseFloat(bound, 64); err == nil {
		for r := range ts {
			ts[r] = v
		}
		return ts, nil
	}

	x, ok := m.Relations[bound]
	if !ok {
		return nil, fmt.Errorf("undefined relation %q", bound)
	}
	e, err := relation.Parse(x)
	if err != nil {
		return nil, err
	}

	for r := 0; r < n; r++ {
		vals := make(map[string]float64, len(m.Divergences))
		for _, d := range m.Divergences {
			vals[d.Time] = times[d.Ancestral][r]
		}
		v, err := e.Eval(vals)
		if err != nil {
			return nil, fmt.Errorf("relation %q: %v", bound, err)
		}
		ts[r] = v
	}
	return ts, nil
}

// Draw draws n values uniformly from a prior range,
// rounded to the indicated number of decimals.
func draw(prior []float64, n, decimals int, src rand.Source) []float64 {
	pow := math.Pow(10, float64(decimals))
	vs := make([]float64, n)
	for i := range vs {
		vs[i] = math.Round(uniform(prior[0], prior[1], src)*pow) / pow
	}
	return vs
}

func uniform(min, max float64, src rand.Source) float64 {
	if max <= min {
		return min
	}
	u := distuv.Uniform{Min: min, Max: max, Src: src}
	return u.Rand()
}
