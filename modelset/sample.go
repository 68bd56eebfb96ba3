// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package modelset

import (
	"errors"
	"fmt"
	"math"

	"github.com/js-arias/delimit/demography"
	"github.com/js-arias/delimit/sptree"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Sample draws numeric replicates
// for every model of the set.
// The result is aligned with Models:
// the i-th element contains the replicates
// of the i-th model.
//
// Sampling failures are deterministic,
// so a failed model is reported
// and left with nil replicates,
// without affecting its siblings.
func (s *Set) Sample() ([][]*demography.Demography, error) {
	reps := make([][]*demography.Demography, len(s.models))
	var errs []error
	for i, m := range s.models {
		r, err := s.SampleModel(m)
		if err != nil {
			errs = append(errs, fmt.Errorf("model %d [%s]: %v", m.Index, m.Category, err))
			continue
		}
		reps[i] = r
	}
	return reps, errors.Join(errs...)
}

// SampleModel draws the replicates of a single model:
// population sizes,
// divergence times,
// migration rates,
// and migration times,
// in that order.
// Each replicate is an independent demography
// with a time-sorted event list.
func (s *Set) SampleModel(m *Model) ([]*demography.Demography, error) {
	n := s.param.Replicates
	base := m.Base

	sizes, err := s.drawSizes(base, n)
	if err != nil {
		return nil, err
	}
	times, err := s.drawDivTimes(base, n)
	if err != nil {
		return nil, err
	}
	rates, err := s.drawMigRates(base, n)
	if err != nil {
		return nil, err
	}

	var stops []float64
	starts := make(map[pair][]float64)
	for _, e := range base.Events {
		mg, ok := e.(demography.Migration)
		if !ok {
			continue
		}
		switch mg.Kind {
		case demography.SecContact:
			if stops == nil {
				stops, err = migrationStops(times, n)
				if err != nil {
					return nil, err
				}
			}
		case demography.GeneFlow:
			st, err := migrationStarts(base, mg, times, n)
			if err != nil {
				return nil, err
			}
			starts[pair{source: mg.Source, dest: mg.Dest}] = st
		}
	}

	reps := make([]*demography.Demography, 0, n)
	for r := 0; r < n; r++ {
		d := &demography.Demography{
			Populations: make([]demography.Population, 0, len(base.Populations)),
			Events:      make([]demography.Event, 0, len(base.Events)),
		}
		for _, p := range base.Populations {
			d.Populations = append(d.Populations, demography.Population{
				Name: p.Name,
				Size: sizes[p.Name][r],
			})
		}
		for _, e := range base.Events {
			switch ev := e.(type) {
			case demography.Divergence:
				ev.T = times[ev.Ancestral][r]
				d.Events = append(d.Events, ev)
			case demography.Migration:
				ev.Rate = rates[pair{source: ev.Source, dest: ev.Dest}][r]
				switch ev.Kind {
				case demography.SecContact:
					ev.T = stops[r]
				case demography.GeneFlow:
					ev.T = starts[pair{source: ev.Source, dest: ev.Dest}][r]
				}
				d.Events = append(d.Events, ev)
			}
		}
		d.SortEvents()
		reps = append(reps, d)
	}
	return reps, nil
}

// DrawSizes draws the population size replicates
// for every population of a model,
// in population order,
// rounded to the nearest integer.
func (s *Set) drawSizes(base *demography.Demography, n int) (map[string][]float64, error) {
	sizes := make(map[string][]float64, len(base.Populations))
	for _, p := range base.Populations {
		prior, ok := s.sizes[p.Name]
		if !ok {
			return nil, fmt.Errorf("population %q: without size prior", p.Name)
		}
		sizes[p.Name] = s.draw(prior, n, 0)
	}
	return sizes, nil
}

// DrawDivTimes draws the divergence time replicates
// of a model,
// in dependency order:
// the time of an ancestor is drawn
// from its prior range
// bounded below by the times
// already drawn for its derived populations.
//
// Populations that are never ancestral,
// and divergences with a zero placeholder time,
// are pinned to zero for every replicate.
func (s *Set) drawDivTimes(base *demography.Demography, n int) (map[string][]float64, error) {
	divs := base.Divergences()
	ordered, err := demography.DivergenceOrder(divs)
	if err != nil {
		return nil, err
	}

	ancestral := make(map[string]bool, len(divs))
	for _, d := range divs {
		ancestral[d.Ancestral] = true
	}

	times := make(map[string][]float64, len(base.Populations))
	for _, p := range base.Populations {
		if ancestral[p.Name] {
			continue
		}
		times[p.Name] = make([]float64, n)
	}

	for _, d := range ordered {
		if d.T == 0 {
			// a collapsed divergence is pinned to the present
			times[d.Ancestral] = make([]float64, n)
			continue
		}
		prior, ok := s.divs[d.Ancestral]
		if !ok {
			return nil, fmt.Errorf("population %q: without divergence time prior", d.Ancestral)
		}

		ts := make([]float64, n)
		for r := 0; r < n; r++ {
			low := prior.Min
			for _, dv := range d.Derived {
				dt, ok := times[dv]
				if !ok {
					return nil, fmt.Errorf("population %q: unresolved divergence time for derived %q", d.Ancestral, dv)
				}
				if dt[r] > low {
					low = dt[r]
				}
			}
			high := prior.Max
			if high < low {
				high = low
			}
			ts[r] = math.Round(uniform(sptree.Range{Min: low, Max: high}, s.src))
		}
		times[d.Ancestral] = ts
	}
	return times, nil
}

// DrawMigRates draws the migration rate replicates
// for every migration event of a model,
// in event order,
// rounded to 10 decimal places.
// In symmetric mode each unordered pair
// is stored as a single event,
// so both directions share the same draw.
func (s *Set) drawMigRates(base *demography.Demography, n int) (map[pair][]float64, error) {
	rates := make(map[pair][]float64)
	for _, e := range base.Events {
		mg, ok := e.(demography.Migration)
		if !ok {
			continue
		}
		rates[pair{source: mg.Source, dest: mg.Dest}] = s.draw(s.param.MigRate, n, 10)
	}
	return rates, nil
}

// MigrationStops returns the secondary contact stop times
// of a model:
// for each replicate,
// migration ceases at half the shallowest
// non-zero divergence time,
// rounded up.
// The stop time is shared
// by every migration event of the replicate.
func migrationStops(times map[string][]float64, n int) ([]float64, error) {
	stops := make([]float64, n)
	for r := 0; r < n; r++ {
		min := math.Inf(1)
		for _, ts := range times {
			if ts[r] > 0 && ts[r] < min {
				min = ts[r]
			}
		}
		if math.IsInf(min, 1) {
			return nil, fmt.Errorf("secondary contact without a non-zero divergence")
		}
		stops[r] = math.Ceil(min / 2)
	}
	return stops, nil
}

// MigrationStarts returns the gene flow start times
// of a migration event:
// for each replicate,
// the midpoint between the divergence
// of the deepest daughter
// and the divergence of the shared ancestor.
func migrationStarts(base *demography.Demography, mg demography.Migration, times map[string][]float64, n int) ([]float64, error) {
	var anc string
	for _, e := range base.Events {
		d, ok := e.(demography.Divergence)
		if !ok {
			continue
		}
		in := func(name string) bool {
			return d.Derived[0] == name || d.Derived[1] == name
		}
		if in(mg.Source) && in(mg.Dest) {
			anc = d.Ancestral
			break
		}
	}
	if anc == "" {
		return nil, fmt.Errorf("gene flow pair %s-%s: without a shared divergence", mg.Source, mg.Dest)
	}

	tAnc, ok := times[anc]
	if !ok {
		return nil, fmt.Errorf("gene flow pair %s-%s: unresolved time for ancestor %q", mg.Source, mg.Dest, anc)
	}
	tSrc := times[mg.Source]
	tDst := times[mg.Dest]

	starts := make([]float64, n)
	for r := 0; r < n; r++ {
		deep := tSrc[r]
		if tDst[r] > deep {
			deep = tDst[r]
		}
		starts[r] = (tAnc[r]-deep)/2 + deep
	}
	return starts, nil
}

// Draw draws n values uniformly from a prior range,
// rounded to the indicated number of decimals.
func (s *Set) draw(prior sptree.Range, n, decimals int) []float64 {
	pow := math.Pow(10, float64(decimals))
	vs := make([]float64, n)
	for i := range vs {
		vs[i] = math.Round(uniform(prior, s.src)*pow) / pow
	}
	return vs
}

func uniform(prior sptree.Range, src rand.Source) float64 {
	if prior.Max <= prior.Min {
		return prior.Min
	}
	u := distuv.Uniform{Min: prior.Min, Max: prior.Max, Src: src}
	return u.Rand()
}
