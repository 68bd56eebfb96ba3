// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package demography implements the value types
// of a population demographic model:
// a set of named populations
// and a time-ordered list of demographic events.
//
// Model times are in generations before present,
// so an event with a larger time
// is deeper in the past.
package demography

import "slices"

// A Population is a named population
// with an initial size.
type Population struct {
	Name string
	Size float64
}

// An Event is a demographic event.
// There are two kinds of events:
// a Divergence,
// in which two derived populations
// merge into an ancestral population,
// and a Migration,
// a change in the migration rate
// between two populations.
type Event interface {
	// Time returns the time of the event,
	// in generations before present.
	Time() float64

	isEvent()
}

// A Divergence is the divergence of two derived populations
// from an ancestral population.
// Viewed backwards in time,
// at the event time
// the derived populations merge
// into the ancestral population.
type Divergence struct {
	T         float64
	Derived   [2]string
	Ancestral string
}

// Time returns the divergence time.
func (d Divergence) Time() float64 { return d.T }

func (d Divergence) isEvent() {}

// Kind is a keyword to identify
// the kind of a migration event.
type Kind string

// Valid migration kinds.
const (
	// Migration after divergence
	// that ceases before the present.
	SecContact Kind = "secondary contact"

	// Migration concurrent with a divergence
	// that persists to the present.
	GeneFlow Kind = "gene flow"
)

// A Migration is a change of the migration rate
// between two populations.
//
// For a secondary contact event,
// migration is active from the present
// (time 0)
// and ceases at the event time.
// For a gene flow event,
// migration becomes active at the event time
// and persists to the present.
//
// If Symmetric is true,
// the rate applies in both directions
// between Source and Dest.
type Migration struct {
	T         float64
	Kind      Kind
	Source    string
	Dest      string
	Rate      float64
	Symmetric bool
}

// Time returns the time of the rate change.
func (m Migration) Time() float64 { return m.T }

func (m Migration) isEvent() {}

// A Demography is a demographic model:
// a set of populations
// and its demographic events.
//
// A demography is built as a symbolic template
// with placeholder sizes,
// times,
// and rates,
// and then materialized into numeric replicates
// by a parameter sampler.
type Demography struct {
	Populations []Population
	Events      []Event
}

// Copy returns a deep copy of a demography.
func (d *Demography) Copy() *Demography {
	return &Demography{
		Populations: slices.Clone(d.Populations),
		Events:      slices.Clone(d.Events),
	}
}

// Divergences returns the divergence events
// of a demography,
// in event order.
func (d *Demography) Divergences() []Divergence {
	var divs []Divergence
	for _, e := range d.Events {
		if dv, ok := e.(Divergence); ok {
			divs = append(divs, dv)
		}
	}
	return divs
}

// Migrations returns the migration events
// of a demography,
// in event order.
func (d *Demography) Migrations() []Migration {
	var migs []Migration
	for _, e := range d.Events {
		if m, ok := e.(Migration); ok {
			migs = append(migs, m)
		}
	}
	return migs
}

// Population returns the index of a named population.
func (d *Demography) Population(name string) (int, bool) {
	for i, p := range d.Populations {
		if p.Name == name {
			return i, true
		}
	}
	return -1, false
}

// SortEvents sorts the events of a demography
// by event time.
// The sort is stable,
// so events with the same time
// keep their relative order.
//
// A time-sorted event list is the consumption contract
// of downstream simulators,
// and must be restored
// every time event times are assigned.
func (d *Demography) SortEvents() {
	slices.SortStableFunc(d.Events, func(a, b Event) int {
		switch {
		case a.Time() < b.Time():
			return -1
		case a.Time() > b.Time():
			return 1
		}
		return 0
	})
}
