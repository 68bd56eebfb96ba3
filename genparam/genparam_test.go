// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package genparam_test

import (
	"os"
	"testing"

	"github.com/js-arias/delimit/genparam"
	"github.com/js-arias/delimit/sptree"
)

func TestDefaults(t *testing.T) {
	gp := genparam.New("params.tab")

	if gp.Name() != "params.tab" {
		t.Errorf("name: got %q, want %q", gp.Name(), "params.tab")
	}
	if gp.Replicates() != 100 {
		t.Errorf("replicates: got %d, want %d", gp.Replicates(), 100)
	}
	if gp.MaxEvents() != 1 {
		t.Errorf("maxevents: got %d, want %d", gp.MaxEvents(), 1)
	}
	if gp.Symmetric() {
		t.Errorf("symmetric: got %v, want %v", gp.Symmetric(), false)
	}
	if !gp.SecContact() {
		t.Errorf("seccontact: got %v, want %v", gp.SecContact(), true)
	}
	if !gp.GeneFlow() {
		t.Errorf("geneflow: got %v, want %v", gp.GeneFlow(), true)
	}
	if want := (sptree.Range{Min: 1e-5, Max: 1e-4}); gp.MigRate() != want {
		t.Errorf("migration rate: got %v, want %v", gp.MigRate(), want)
	}
}

func TestSetters(t *testing.T) {
	gp := genparam.New("params.tab")

	if err := gp.SetReplicates(0); err == nil {
		t.Errorf("set replicates: expecting error on a non-positive value")
	}
	if err := gp.SetMaxEvents(-1); err == nil {
		t.Errorf("set maxevents: expecting error on a negative value")
	}
	if err := gp.SetMigRate(sptree.Range{Min: 1e-3, Max: 1e-5}); err == nil {
		t.Errorf("set migration rate: expecting error on an inverted range")
	}

	if err := gp.SetReplicates(500); err != nil {
		t.Fatalf("set replicates: unexpected error: %v", err)
	}
	if err := gp.SetMaxEvents(2); err != nil {
		t.Fatalf("set maxevents: unexpected error: %v", err)
	}
	gp.SetSymmetric(true)
	gp.SetSecContact(false)
	gp.SetGeneFlow(false)

	if gp.Replicates() != 500 {
		t.Errorf("replicates: got %d, want %d", gp.Replicates(), 500)
	}
	if gp.MaxEvents() != 2 {
		t.Errorf("maxevents: got %d, want %d", gp.MaxEvents(), 2)
	}
	if !gp.Symmetric() || gp.SecContact() || gp.GeneFlow() {
		t.Errorf("unexpected migration category values")
	}
}

func TestReadWrite(t *testing.T) {
	name := "tmp-params-for-test.tab"
	defer os.Remove(name)

	gp := genparam.New(name)
	if err := gp.SetReplicates(1000); err != nil {
		t.Fatalf("set replicates: unexpected error: %v", err)
	}
	if err := gp.SetMaxEvents(2); err != nil {
		t.Fatalf("set maxevents: unexpected error: %v", err)
	}
	gp.SetSymmetric(true)
	gp.SetGeneFlow(false)
	if err := gp.SetMigRate(sptree.Range{Min: 1e-6, Max: 1e-3}); err != nil {
		t.Fatalf("set migration rate: unexpected error: %v", err)
	}

	if err := gp.Write(); err != nil {
		t.Fatalf("error when writing data: %v", err)
	}

	np, err := genparam.Read(name)
	if err != nil {
		t.Fatalf("error when reading data: %v", err)
	}
	if np.Replicates() != 1000 {
		t.Errorf("replicates: got %d, want %d", np.Replicates(), 1000)
	}
	if np.MaxEvents() != 2 {
		t.Errorf("maxevents: got %d, want %d", np.MaxEvents(), 2)
	}
	if !np.Symmetric() {
		t.Errorf("symmetric: got %v, want %v", np.Symmetric(), true)
	}
	if !np.SecContact() {
		t.Errorf("seccontact: got %v, want %v", np.SecContact(), true)
	}
	if np.GeneFlow() {
		t.Errorf("geneflow: got %v, want %v", np.GeneFlow(), false)
	}
	if want := (sptree.Range{Min: 1e-6, Max: 1e-3}); np.MigRate() != want {
		t.Errorf("migration rate: got %v, want %v", np.MigRate(), want)
	}
}
