// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package project_test

import (
	"os"
	"reflect"
	"slices"
	"testing"

	"github.com/js-arias/delimit/project"
)

type setPath struct {
	set  project.Dataset
	path string
}

func TestProject(t *testing.T) {
	p := project.New()

	sets := []setPath{
		{project.SpTree, "species-tree.tab"},
		{project.GenParam, "gen-params.tab"},
		{project.MigMatrix, "mig-pairs.tab"},
		{project.Models, "models"},
	}

	for _, s := range sets {
		p.Add(s.set, s.path)
	}
	testProject(t, p, sets)

	name := "tmp-project-for-test.tab"
	defer os.Remove(name)

	p.SetName(name)
	if err := p.Write(); err != nil {
		t.Fatalf("error when writing data: %v", err)
	}

	np, err := project.Read(name)
	if err != nil {
		t.Fatalf("error when reading data: %v", err)
	}
	testProject(t, np, sets)
	if np.Name() != name {
		t.Errorf("name: got %q, want %q", np.Name(), name)
	}
}

func testProject(t testing.TB, p *project.Project, sets []setPath) {
	t.Helper()

	for _, s := range sets {
		if path := p.Path(s.set); path != s.path {
			t.Errorf("set %s: got path %q, want %q", s.set, path, s.path)
		}
	}
	datasets := make([]project.Dataset, 0, len(sets))
	for _, v := range sets {
		datasets = append(datasets, v.set)
	}
	slices.Sort(datasets)

	if ls := p.Sets(); !reflect.DeepEqual(ls, datasets) {
		t.Errorf("sets: got %v, want %v", ls, datasets)
	}
}

func TestProjectRemove(t *testing.T) {
	p := project.New()
	p.Add(project.SpTree, "species-tree.tab")

	if prev := p.Add(project.SpTree, ""); prev != "species-tree.tab" {
		t.Errorf("remove: got previous path %q, want %q", prev, "species-tree.tab")
	}
	if path := p.Path(project.SpTree); path != "" {
		t.Errorf("remove: got path %q, want an empty path", path)
	}
}
