// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package list implements a command
// to print the models of a project.
package list

import (
	"fmt"

	"github.com/js-arias/command"
	"github.com/js-arias/delimit/modelfile"
	"github.com/js-arias/delimit/project"
)

var Command = &command.Command{
	Usage: "list <project-file>",
	Short: "print a list of the models of a project",
	Long: `
Command list reads the model files of a project and prints the name and the
description of each model to the standard output.

The argument of the command is the name of the project file. The project must
define a model directory.

Model files that cannot be read, or that are not valid, are reported to the
standard error, and the listing continues with the next file.
	`,
	Run: run,
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

	files, err := modelfile.Files(dir)
	if err != nil {
		return err
	}
	for _, name := range files {
		m, err := modelfile.Read(name)
		if err != nil {
			fmt.Fprintf(c.Stderr(), "%v\n", err)
			continue
		}
		fmt.Fprintf(c.Stdout(), "%s\t%s\n", name, m.Description)
	}
	return nil
}
