// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package modelfile implements reading and writing
// of persisted demographic models.
//
// A model file is a YAML document
// that stores a single model
// in symbolic form:
// parameters are references to prior ranges
// and derived time relations,
// never sampled numbers,
// so a file written once
// can be re-sampled many times
// with independent random draws.
package modelfile

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/js-arias/delimit/relation"
	"gopkg.in/yaml.v3"
)

// A Model is a persisted demographic model.
type Model struct {
	// Human readable description of the model
	Description string `yaml:"description"`

	// Populations of the model
	Populations []Population `yaml:"populations"`

	// Prior ranges keyed by parameter name
	Priors map[string][]float64 `yaml:"priors"`

	// Divergence events of the model,
	// stored unordered
	Divergences []Divergence `yaml:"divergences"`

	// Migration events of the model,
	// if any
	Migrations []Migration `yaml:"migration,omitempty"`

	// Expressions for derived parameters
	// keyed by parameter name
	Relations map[string]string `yaml:"relations,omitempty"`
}

// A Population is a population record
// of a persisted model.
type Population struct {
	Name string `yaml:"name"`

	// Key of the size prior
	Size string `yaml:"size"`
}

// A Divergence is a divergence record
// of a persisted model.
type Divergence struct {
	// Names of the two derived populations
	Derived []string `yaml:"derived"`

	// Name of the ancestral population
	Ancestral string `yaml:"ancestral"`

	// Key of the divergence time prior
	Time string `yaml:"time"`
}

// A Migration is a migration record
// of a persisted model.
// Its time bounds are either numeric literals
// or keys into the relations table.
type Migration struct {
	// Either "symmetric" or "asymmetric"
	Type string `yaml:"type"`

	Source string `yaml:"source"`
	Dest   string `yaml:"dest"`

	// Key of the migration rate prior
	Rate string `yaml:"rate"`

	StartTime string `yaml:"start_time"`
	EndTime   string `yaml:"end_time,omitempty"`
}

// Read reads a persisted model from a YAML file.
// It returns an error
// if the model is malformed:
// a missing prior key,
// an unknown relation,
// or an invalid relation expression.
func Read(name string) (*Model, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m := &Model{}
	d := yaml.NewDecoder(f)
	if err := d.Decode(m); err != nil {
		return nil, fmt.Errorf("on file %q: %v", name, err)
	}
	if err := m.validate(); err != nil {
		return nil, fmt.Errorf("on file %q: %v", name, err)
	}
	return m, nil
}

// Files returns the model files of a directory,
// sorted by name.
func Files(dir string) ([]string, error) {
	ls, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, e := range ls {
		if e.IsDir() {
			continue
		}
		if !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	slices.Sort(files)
	return files, nil
}

func (m *Model) validate() error {
	if len(m.Populations) == 0 {
		return fmt.Errorf("model without populations")
	}
	for _, p := range m.Populations {
		if _, ok := m.Priors[p.Size]; !ok {
			return fmt.Errorf("population %q: undefined prior %q", p.Name, p.Size)
		}
	}
	for _, r := range m.Priors {
		if len(r) != 2 {
			return fmt.Errorf("invalid prior range %v", r)
		}
		if r[0] < 0 || r[1] < r[0] {
			return fmt.Errorf("invalid prior range [%g, %g]", r[0], r[1])
		}
	}

	pops := make(map[string]bool, len(m.Populations))
	for _, p := range m.Populations {
		pops[p.Name] = true
	}
	for _, d := range m.Divergences {
		if len(d.Derived) != 2 {
			return fmt.Errorf("divergence %q: expecting two derived populations", d.Ancestral)
		}
		if !pops[d.Ancestral] {
			return fmt.Errorf("divergence %q: undefined population", d.Ancestral)
		}
		for _, dv := range d.Derived {
			if !pops[dv] {
				return fmt.Errorf("divergence %q: undefined derived population %q", d.Ancestral, dv)
			}
		}
		if _, ok := m.Priors[d.Time]; !ok {
			return fmt.Errorf("divergence %q: undefined prior %q", d.Ancestral, d.Time)
		}
	}

	for _, mg := range m.Migrations {
		if mg.Type != "symmetric" && mg.Type != "asymmetric" {
			return fmt.Errorf("migration %s-%s: unknown type %q", mg.Source, mg.Dest, mg.Type)
		}
		if !pops[mg.Source] || !pops[mg.Dest] {
			return fmt.Errorf("migration %s-%s: undefined population", mg.Source, mg.Dest)
		}
		if _, ok := m.Priors[mg.Rate]; !ok {
			return fmt.Errorf("migration %s-%s: undefined prior %q", mg.Source, mg.Dest, mg.Rate)
		}
		if err := m.validTime(mg.StartTime); err != nil {
			return fmt.Errorf("migration %s-%s: start time: %v", mg.Source, mg.Dest, err)
		}
		if mg.EndTime == "" {
			continue
		}
		if err := m.validTime(mg.EndTime); err != nil {
			return fmt.Errorf("migration %s-%s: end time: %v", mg.Source, mg.Dest, err)
		}
	}

	for k, x := range m.Relations {
		if _, err := relation.Parse(x); err != nil {
			return fmt.Errorf("relation %q: %v", k, err)
		}
	}
	return nil
}

// ValidTime checks a migration time bound:
// it must be a numeric literal
// or a key into the relations table.
func (m *Model) validTime(t string) error {
	if t == "" {
		return fmt.Errorf("undefined time bound")
	}
	if _, err := strconv.ParseFloat(t, 64); err == nil {
		return nil
	}
	if _, ok := m.Relations[t]; !ok {
		return fmt.Errorf("undefined relation %q", t)
	}
	return nil
}
