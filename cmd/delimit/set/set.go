// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package set implements a command
// to set the data files of a project.
package set

import (
	"fmt"
	"os"

	"github.com/js-arias/command"
	"github.com/js-arias/delimit/genparam"
	"github.com/js-arias/delimit/migmatrix"
	"github.com/js-arias/delimit/project"
	"github.com/js-arias/delimit/sptree"
)

var Command = &command.Command{
	Usage: `set
	[--tree <file>] [--param <file>] [--matrix <file>]
	<project-file>`,
	Short: "set the data files of a project",
	Long: `
Command set adds one or more data files to a project. If the project file does
not exist, a new project will be created.

The argument of the command is the name of the project file.

The flag --tree sets the file with the annotated species tree. The file must
be a tab-delimited file with the tree topology, and the population size and
divergence time priors of each node.

The flag --param sets the file with the parameters used to generate the model
set, such as the number of replicates, or the migration categories to be
added.

The flag --matrix sets the file with the candidate population pairs for
migration events. This file is optional; if no matrix is defined, any pair of
populations can be connected by a migration event.

Each file is read and validated before being added to the project.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var treeFile string
var paramFile string
var matrixFile string

func setFlags(c *command.Command) {
	c.Flags().StringVar(&treeFile, "tree", "", "")
	c.Flags().StringVar(&paramFile, "param", "", "")
	c.Flags().StringVar(&matrixFile, "matrix", "", "")
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting project file")
	}
	if treeFile == "" && paramFile == "" && matrixFile == "" {
		return c.UsageError("expecting at least one data file")
	}

	pFile := args[0]
	p, err := project.Read(pFile)
	if err != nil {
		p = project.New()
		p.SetName(pFile)
	}

	if treeFile != "" {
		if err := readTree(treeFile); err != nil {
			return err
		}
		p.Add(project.SpTree, treeFile)
	}
	if paramFile != "" {
		if _, err := genparam.Read(paramFile); err != nil {
			return err
		}
		p.Add(project.GenParam, paramFile)
	}
	if matrixFile != "" {
		if err := readMatrix(matrixFile); err != nil {
			return err
		}
		p.Add(project.MigMatrix, matrixFile)
	}

	if err := p.Write(); err != nil {
		return err
	}
	return nil
}

func readTree(name string) error {
	f, err := os.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := sptree.ReadTSV(f); err != nil {
		return fmt.Errorf("while reading file %q: %v", name, err)
	}
	return nil
}

func readMatrix(name string) error {
	f, err := os.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := migmatrix.ReadTSV(f); err != nil {
		return fmt.Errorf("while reading file %q: %v", name, err)
	}
	return nil
}
