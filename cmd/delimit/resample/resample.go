// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package resample implements a command
// to sample parameter values
// from the model files of a project.
package resample

import (
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/js-arias/command"
	"github.com/js-arias/delimit/demography"
	"github.com/js-arias/delimit/modelfile"
	"github.com/js-arias/delimit/project"
)

var Command = &command.Command{
	Usage: `resample [--seed <value>] [--reps <number>]
	<project-file>`,
	Short: "sample parameter values from the models of a project",
	Long: `
Command resample reads the model files of a project, draws fresh parameter
values from the priors stored in each file, and prints the sampled values as
a tab-delimited table to the standard output.

The argument of the command is the name of the project file. The project must
define a model directory.

Values are drawn again on every run: samples are independent of the run that
generated the model files, and of any previous resample run. Use the flag
--seed to set the seed of the random number generator, and the flag --reps to
set the number of replicates per model (by default the number defined in the
generation parameters of the project, or 100 if the project has no
parameters).

The output table has the following columns:

	model      name of the model file
	replicate  replicate number
	parameter  sampled parameter
	value      sampled value

Model files that cannot be read, or that cannot be sampled, are reported to
the standard error, and the sampling continues with the next file.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var seed uint64
var reps int

func setFlags(c *command.Command) {
	c.Flags().Uint64Var(&seed, "seed", 0, "")
	c.Flags().IntVar(&reps, "reps", 0, "")
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting project file")
	}

	p, err := project.Read(args[0])
	if err != nil {
		return err
	}
	dir := p.Path(project.Models)
	if dir == "" {
		return fmt.Errorf("model directory not defined in project %q", args[0])
	}

	n := reps
	if n <= 0 {
		n = 100
		if gp, err := p.Params(); err == nil {
			n = gp.Replicates()
		}
	}

	files, err := modelfile.Files(dir)
	if err != nil {
		return err
	}

	tsv := csv.NewWriter(c.Stdout())
	tsv.Comma = '\t'
	if err := tsv.Write([]string{"model", "replicate", "parameter", "value"}); err != nil {
		return err
	}

	for _, name := range files {
		m, err := modelfile.Read(name)
		if err != nil {
			fmt.Fprintf(c.Stderr(), "%v\n", err)
			continue
		}
		dems, err := m.Sample(n, seed)
		if err != nil {
			fmt.Fprintf(c.Stderr(), "on file %q: %v\n", name, err)
			continue
		}
		for r, d := range dems {
			if err := writeReplicate(tsv, name, r, d); err != nil {
				return err
			}
		}
	}

	tsv.Flush()
	if err := tsv.Error(); err != nil {
		return err
	}
	return nil
}

func writeReplicate(tsv *csv.Writer, name string, r int, d *demography.Demography) error {
	row := func(param string, v float64) error {
		return tsv.Write([]string{
			name,
			strconv.Itoa(r),
			param,
			strconv.FormatFloat(v, 'g', -1, 64),
		})
	}

	for _, p := range d.Populations {
		if err := row("Ne_"+p.Name, p.Size); err != nil {
			return err
		}
	}
	for _, dv := range d.Divergences() {
		if err := row("Tdiv_"+dv.Ancestral, dv.T); err != nil {
			return err
		}
	}
	for _, mg := range d.Migrations() {
		if err := row(fmt.Sprintf("Mig_%s_%s", mg.Source, mg.Dest), mg.Rate); err != nil {
			return err
		}
		t := fmt.Sprintf("Tmigstart_%s_%s", mg.Source, mg.Dest)
		if mg.Kind == demography.SecContact {
			t = fmt.Sprintf("Tmigend_%s_%s", mg.Source, mg.Dest)
		}
		if err := row(t, mg.T); err != nil {
			return err
		}
	}
	return nil
}
