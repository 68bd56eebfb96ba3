// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package project

import (
	"fmt"
	"os"

	"github.com/js-arias/delimit/genparam"
	"github.com/js-arias/delimit/migmatrix"
	"github.com/js-arias/delimit/sptree"
)

// Matrix reads the candidate migration pairs
// as defined in a project.
// The matrix is optional:
// if it is not defined,
// a nil matrix is returned,
// which allows migration between any pair.
func (p *Project) Matrix() (*migmatrix.Matrix, error) {
	name := p.Path(MigMatrix)
	if name == "" {
		return nil, nil
	}

	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := migmatrix.ReadTSV(f)
	if err != nil {
		return nil, fmt.Errorf("when reading %q: %v", name, err)
	}
	return m, nil
}

// Params reads the model generation parameters
// as defined in a project.
func (p *Project) Params() (*genparam.GP, error) {
	name := p.Path(GenParam)
	if name == "" {
		return nil, fmt.Errorf("generation parameters not defined in project %q", p.name)
	}

	gp, err := genparam.Read(name)
	if err != nil {
		return nil, err
	}
	return gp, nil
}

// Tree reads the annotated species tree
// as defined in a project.
func (p *Project) Tree() (*sptree.Tree, error) {
	name := p.Path(SpTree)
	if name == "" {
		return nil, fmt.Errorf("species tree not defined in project %q", p.name)
	}

	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	t, err := sptree.ReadTSV(f)
	if err != nil {
		return nil, fmt.Errorf("while reading file %q: %v", name, err)
	}
	return t, nil
}
