// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package genparam implements reading and writing
// of the parameters for a model set generation.
package genparam

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/js-arias/delimit/sptree"
)

// Param is a keyword to identify
// the type of parameter in a genParam file.
type Param string

// Valid parameters.
const (
	// Replicates is the number of replicates
	// sampled per model.
	Replicates Param = "replicates"

	// MaxEvents is the maximum number
	// of simultaneous migration events.
	MaxEvents Param = "maxevents"

	// Symmetric indicates that migration rates
	// are symmetric.
	Symmetric Param = "symmetric"

	// SecContact enables secondary contact models.
	SecContact Param = "seccontact"

	// GeneFlow enables divergence
	// with gene flow models.
	GeneFlow Param = "geneflow"

	// MinRate and MaxRate define the prior range
	// for migration rates.
	MinRate Param = "minrate"
	MaxRate Param = "maxrate"
)

// GP represents a collection of parameters
// for a model set generation.
type GP struct {
	name string // file name

	reps   int
	events int
	sym    bool

	// enabled migration categories
	sc  bool
	gf  bool
	mig sptree.Range
}

// New creates a new parameter collection
// with default values.
func New(name string) *GP {
	return &GP{
		name:   name,
		reps:   100,
		events: 1,
		sc:     true,
		gf:     true,
		mig:    sptree.Range{Min: 1e-5, Max: 1e-4},
	}
}

var header = []string{
	"parameter",
	"value",
}

// Read reads a genParam file from a TSV file.
//
// The TSV must contain the following fields:
//
//   - parameter, the name of the parameter
//   - value, the value of the parameter
//
// Here is an example file:
//
//	# delimit model generation parameters
//	parameter	value
//	replicates	1000
//	maxevents	2
//	symmetric	false
//	seccontact	true
//	geneflow	false
//	minrate	0.00001
//	maxrate	0.0001
func Read(name string) (*GP, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tsv := csv.NewReader(f)
	tsv.Comma = '\t'
	tsv.Comment = '#'

	head, err := tsv.Read()
	if err != nil {
		return nil, fmt.Errorf("on file %q: header: %v", name, err)
	}
	fields := make(map[string]int, len(head))
	for i, h := range head {
		h = strings.ToLower(h)
		fields[h] = i
	}
	for _, h := range header {
		if _, ok := fields[h]; !ok {
			return nil, fmt.Errorf("on file %q: expecting field %q", name, h)
		}
	}

	gp := New(name)
	for {
		row, err := tsv.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		ln, _ := tsv.FieldPos(0)
		if err != nil {
			return nil, fmt.Errorf("on file %q: on row %d: %v", name, ln, err)
		}

		f := "parameter"
		p := Param(strings.ToLower(row[fields[f]]))

		f = "value"
		v := row[fields[f]]
		switch p {
		case Replicates:
			r, err := strconv.Atoi(v)
			if err != nil {
				return nil, fmt.Errorf("on file %q: on row %d, field %q: %v", name, ln, f, err)
			}
			if err := gp.SetReplicates(r); err != nil {
				return nil, fmt.Errorf("on file %q: on row %d: %v", name, ln, err)
			}
		case MaxEvents:
			e, err := strconv.Atoi(v)
			if err != nil {
				return nil, fmt.Errorf("on file %q: on row %d, field %q: %v", name, ln, f, err)
			}
			if err := gp.SetMaxEvents(e); err != nil {
				return nil, fmt.Errorf("on file %q: on row %d: %v", name, ln, err)
			}
		case Symmetric:
			b, err := strconv.ParseBool(v)
			if err != nil {
				return nil, fmt.Errorf("on file %q: on row %d, field %q: %v", name, ln, f, err)
			}
			gp.sym = b
		case SecContact:
			b, err := strconv.ParseBool(v)
			if err != nil {
				return nil, fmt.Errorf("on file %q: on row %d, field %q: %v", name, ln, f, err)
			}
			gp.sc = b
		case GeneFlow:
			b, err := strconv.ParseBool(v)
			if err != nil {
				return nil, fmt.Errorf("on file %q: on row %d, field %q: %v", name, ln, f, err)
			}
			gp.gf = b
		case MinRate:
			r, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, fmt.Errorf("on file %q: on row %d, field %q: %v", name, ln, f, err)
			}
			gp.mig.Min = r
		case MaxRate:
			r, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, fmt.Errorf("on file %q: on row %d, field %q: %v", name, ln, f, err)
			}
			gp.mig.Max = r
		}
	}
	if !gp.mig.IsValid() {
		return nil, fmt.Errorf("on file %q: invalid migration rate prior [%g, %g]", name, gp.mig.Min, gp.mig.Max)
	}
	return gp, nil
}

// GeneFlow returns true
// if divergence with gene flow models
// are enabled.
func (gp *GP) GeneFlow() bool {
	return gp.gf
}

// MaxEvents returns the maximum number
// of simultaneous migration events.
func (gp *GP) MaxEvents() int {
	return gp.events
}

// MigRate returns the prior range
// for migration rates.
func (gp *GP) MigRate() sptree.Range {
	return gp.mig
}

// Name returns the name used
// for a parameter collection.
func (gp *GP) Name() string {
	return gp.name
}

// Replicates returns the number of replicates
// sampled per model.
func (gp *GP) Replicates() int {
	return gp.reps
}

// SecContact returns true
// if secondary contact models are enabled.
func (gp *GP) SecContact() bool {
	return gp.sc
}

// SetGeneFlow enables or disables
// divergence with gene flow models.
func (gp *GP) SetGeneFlow(b bool) {
	gp.gf = b
}

// SetMaxEvents sets the maximum number
// of simultaneous migration events.
func (gp *GP) SetMaxEvents(e int) error {
	if e < 0 {
		return fmt.Errorf("invalid maxevents value: %d", e)
	}
	gp.events = e
	return nil
}

// SetMigRate sets the prior range
// for migration rates.
func (gp *GP) SetMigRate(r sptree.Range) error {
	if !r.IsValid() {
		return fmt.Errorf("invalid migration rate prior [%g, %g]", r.Min, r.Max)
	}
	gp.mig = r
	return nil
}

// SetName sets the name of a parameter collection.
func (gp *GP) SetName(name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	gp.name = name
}

// SetReplicates sets the number of replicates
// sampled per model.
func (gp *GP) SetReplicates(r int) error {
	if r < 1 {
		return fmt.Errorf("invalid replicates value: %d", r)
	}
	gp.reps = r
	return nil
}

// SetSecContact enables or disables
// secondary contact models.
func (gp *GP) SetSecContact(b bool) {
	gp.sc = b
}

// SetSymmetric sets the symmetry
// of migration rates.
func (gp *GP) SetSymmetric(b bool) {
	gp.sym = b
}

// Symmetric returns true
// if migration rates are symmetric.
func (gp *GP) Symmetric() bool {
	return gp.sym
}

// Write writes a parameter collection into a file.
func (gp *GP) Write() (err error) {
	f, err := os.Create(gp.name)
	if err != nil {
		return err
	}
	defer func() {
		e := f.Close()
		if e != nil && err == nil {
			err = e
		}
	}()

	bw := bufio.NewWriter(f)
	fmt.Fprintf(bw, "# delimit model generation parameters\n")
	fmt.Fprintf(bw, "# data save on: %s\n", time.Now().Format(time.RFC3339))
	tsv := csv.NewWriter(bw)
	tsv.Comma = '\t'
	tsv.UseCRLF = true

	if err := tsv.Write(header); err != nil {
		return fmt.Errorf("on file %q: while writing header: %v", gp.name, err)
	}

	rows := [][]string{
		{string(Replicates), strconv.Itoa(gp.reps)},
		{string(MaxEvents), strconv.Itoa(gp.events)},
		{string(Symmetric), strconv.FormatBool(gp.sym)},
		{string(SecContact), strconv.FormatBool(gp.sc)},
		{string(GeneFlow), strconv.FormatBool(gp.gf)},
		{string(MinRate), strconv.FormatFloat(gp.mig.Min, 'g', -1, 64)},
		{string(MaxRate), strconv.FormatFloat(gp.mig.Max, 'g', -1, 64)},
	}
	for _, row := range rows {
		if err := tsv.Write(row); err != nil {
			return fmt.Errorf("on file %q: %v", gp.name, err)
		}
	}

	tsv.Flush()
	if err := tsv.Error(); err != nil {
		return fmt.Errorf("on file %q: while writing data: %v", gp.name, err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("on file %q: while writing data: %v", gp.name, err)
	}
	return nil
}
