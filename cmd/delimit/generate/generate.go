// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package generate implements a command
// to generate the candidate model set of a project.
package generate

import (
	"fmt"

	"github.com/js-arias/command"
	"github.com/js-arias/delimit/modelfile"
	"github.com/js-arias/delimit/modelset"
	"github.com/js-arias/delimit/project"
)

var Command = &command.Command{
	Usage: `generate [--seed <value>] [-o|--output <dir>]
	<project-file>`,
	Short: "generate the candidate model set of a project",
	Long: `
Command generate builds the set of candidate demographic models defined by
the species tree and the generation parameters of a project, and writes each
model as a YAML file into the output directory.

The argument of the command is the name of the project file. The project must
define a species tree and the generation parameters.

The set contains a model for each valid collapsed history of the species
tree, and, if enabled in the parameters, models with secondary contact and
divergence with gene flow events added to those histories. Model files store
the symbolic structure of each model; parameter values are sampled when a
model file is read.

By default, model files are written to the directory "models"; use the flag
--output, or -o, to set a different directory. The output directory will be
stored in the project.

By default, the seed of the random number generator is zero; use the flag
--seed to set a different seed. The seed is used to check that each model of
the set can be sampled before writing it.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var seed uint64
var output string

func setFlags(c *command.Command) {
	c.Flags().Uint64Var(&seed, "seed", 0, "")
	c.Flags().StringVar(&output, "output", "models", "")
	c.Flags().StringVar(&output, "o", "models", "")
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting project file")
	}

	p, err := project.Read(args[0])
	if err != nil {
		return err
	}
	t, err := p.Tree()
	if err != nil {
		return err
	}
	gp, err := p.Params()
	if err != nil {
		return err
	}
	mm, err := p.Matrix()
	if err != nil {
		return err
	}

	s, err := modelset.New(t, modelset.Param{
		Replicates:   gp.Replicates(),
		MaxMigration: gp.MaxEvents(),
		Symmetric:    gp.Symmetric(),
		SecContact:   gp.SecContact(),
		GeneFlow:     gp.GeneFlow(),
		MigRate:      gp.MigRate(),
		Matrix:       mm,
		Seed:         seed,
	})
	if err != nil {
		return err
	}

	// check that every model can be sampled
	// before anything is written
	if _, err := s.Sample(); err != nil {
		return err
	}

	if err := modelfile.Write(output, s); err != nil {
		return err
	}
	p.Add(project.Models, output)
	if err := p.Write(); err != nil {
		return err
	}

	count := make(map[modelset.Category]int)
	for _, m := range s.Models() {
		count[m.Category]++
	}
	fmt.Fprintf(c.Stdout(), "%d models written to %q\n", len(s.Models()), output)
	for _, cat := range []modelset.Category{modelset.Divergence, modelset.SecContact, modelset.GeneFlow} {
		if count[cat] == 0 {
			continue
		}
		fmt.Fprintf(c.Stdout(), "\t%s: %d\n", cat, count[cat])
	}
	return nil
}
