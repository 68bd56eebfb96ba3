// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package modelfile

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/js-arias/delimit/demography"
	"github.com/js-arias/delimit/modelset"
	"github.com/js-arias/delimit/relation"
	"gopkg.in/yaml.v3"
)

// Encode converts a model of a set
// into its persisted form.
// Only the symbolic structure of the model is stored:
// parameter values are replaced
// by prior keys and relation expressions.
func Encode(s *modelset.Set, m *modelset.Model) (*Model, error) {
	base := m.Base
	numPresent := (len(base.Populations) + 1) / 2
	f := &Model{
		Description: fmt.Sprintf("Model %d: %s with %d populations.", m.Index, m.Category, numPresent),
		Priors:      make(map[string][]float64),
	}

	for _, p := range base.Populations {
		prior, ok := s.SizePrior(p.Name)
		if !ok {
			return nil, fmt.Errorf("population %q: without size prior", p.Name)
		}
		key := "Ne_" + p.Name
		f.Populations = append(f.Populations, Population{
			Name: p.Name,
			Size: key,
		})
		f.Priors[key] = []float64{prior.Min, prior.Max}
	}

	var timeKeys []relation.Expr
	for _, d := range base.Divergences() {
		prior, ok := s.DivPrior(d.Ancestral)
		if !ok {
			return nil, fmt.Errorf("population %q: without divergence time prior", d.Ancestral)
		}
		key := "Tdiv_" + d.Ancestral
		f.Divergences = append(f.Divergences, Divergence{
			Derived:   []string{d.Derived[0], d.Derived[1]},
			Ancestral: d.Ancestral,
			Time:      key,
		})
		f.Priors[key] = []float64{prior.Min, prior.Max}
		timeKeys = append(timeKeys, relation.Key(key))
	}

	migs := base.Migrations()
	if len(migs) > 0 {
		f.Relations = make(map[string]string)
	}
	for _, mg := range migs {
		rate := s.MigRatePrior()
		rateKey := fmt.Sprintf("Mig_%s_%s", mg.Source, mg.Dest)
		rec := Migration{
			Type:   "asymmetric",
			Source: mg.Source,
			Dest:   mg.Dest,
			Rate:   rateKey,
		}
		if mg.Symmetric {
			rec.Type = "symmetric"
		}
		f.Priors[rateKey] = []float64{rate.Min, rate.Max}

		switch mg.Kind {
		case demography.SecContact:
			key := fmt.Sprintf("Tmigend_%s_%s", mg.Source, mg.Dest)
			rec.StartTime = "0"
			rec.EndTime = key
			end := relation.Ceil(relation.Binary{
				Op:    '/',
				Left:  relation.Min(timeKeys...),
				Right: relation.Lit(2),
			})
			f.Relations[key] = end.String()
		case demography.GeneFlow:
			key := fmt.Sprintf("Tmigstart_%s_%s", mg.Source, mg.Dest)
			rec.StartTime = key
			start, err := gfStart(base, mg)
			if err != nil {
				return nil, err
			}
			f.Relations[key] = start.String()
		default:
			return nil, fmt.Errorf("migration %s-%s: unknown kind %q", mg.Source, mg.Dest, mg.Kind)
		}
		f.Migrations = append(f.Migrations, rec)
	}

	return f, nil
}

// GfStart builds the start time expression
// of a gene flow event:
// the midpoint between the divergence
// of the deepest daughter
// and the divergence of the shared ancestor.
func gfStart(base *demography.Demography, mg demography.Migration) (relation.Expr, error) {
	var anc string
	srcDiv := false
	dstDiv := false
	for _, d := range base.Divergences() {
		in := func(name string) bool {
			return d.Derived[0] == name || d.Derived[1] == name
		}
		if in(mg.Source) && in(mg.Dest) {
			anc = d.Ancestral
		}
		if d.Ancestral == mg.Source {
			srcDiv = true
		}
		if d.Ancestral == mg.Dest {
			dstDiv = true
		}
	}
	if anc == "" {
		return nil, fmt.Errorf("gene flow pair %s-%s: without a shared divergence", mg.Source, mg.Dest)
	}
	tAnc := relation.Key("Tdiv_" + anc)

	// the divergence time of a daughter
	// that never diverges itself
	// is zero by definition
	var deep relation.Expr
	switch {
	case srcDiv && dstDiv:
		deep = relation.Max(relation.Key("Tdiv_"+mg.Source), relation.Key("Tdiv_"+mg.Dest))
	case srcDiv:
		deep = relation.Key("Tdiv_" + mg.Source)
	case dstDiv:
		deep = relation.Key("Tdiv_" + mg.Dest)
	default:
		return relation.Binary{Op: '/', Left: tAnc, Right: relation.Lit(2)}, nil
	}

	half := relation.Binary{
		Op:    '/',
		Left:  relation.Binary{Op: '-', Left: tAnc, Right: deep},
		Right: relation.Lit(2),
	}
	return relation.Binary{Op: '+', Left: half, Right: deep}, nil
}

// Write writes every model of a set
// into a directory,
// one YAML file per model,
// named by the model index.
func Write(dir string, s *modelset.Set) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	for _, m := range s.Models() {
		f, err := Encode(s, m)
		if err != nil {
			return fmt.Errorf("model %d: %v", m.Index, err)
		}
		name := filepath.Join(dir, fmt.Sprintf("model-%d.yaml", m.Index))
		if err := writeFile(name, f); err != nil {
			return fmt.Errorf("model %d: %v", m.Index, err)
		}
	}
	return nil
}

func writeFile(name string, m *Model) (err error) {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer func() {
		e := f.Close()
		if e != nil && err == nil {
			err = e
		}
	}()

	e := yaml.NewEncoder(f)
	if err := e.Encode(m); err != nil {
		return fmt.Errorf("on file %q: %v", name, err)
	}
	if err := e.Close(); err != nil {
		return fmt.Errorf("on file %q: %v", name, err)
	}
	return nil
}
