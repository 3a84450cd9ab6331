// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package build

import (
	"testing"

	"github.com/godoctor/cfgreach/diag"
	"github.com/godoctor/cfgreach/graph"
	"github.com/godoctor/cfgreach/ir"
)

// TestStraightLine covers S1: a label followed by a single no-op falls
// straight through to Exit with no impossible edges required.
func TestStraightLine(t *testing.T) {
	g := graph.New()
	log := diag.NewLog()

	stmts := []ir.Statement{
		ir.Label{Name: "L"},
		ir.NoOp{},
	}
	res := BuildFunction(g, log, "f", "t.c", stmts)

	if log.ContainsErrors() {
		t.Fatalf("unexpected errors: %s", log)
	}
	if len(res.Unreachable) != 0 {
		t.Fatalf("expected no unreachable code, got %v", res.Unreachable)
	}

	label := ir.VertexID(2) // Entry=0, Exit=1, Label=2, NoOp=3
	if g.FilteredInDegree(label) != 1 {
		t.Errorf("expected Label to have one predecessor")
	}
}

// TestInfiniteLoop covers S3: a bare "goto L" loop with no escape still
// leaves Exit reachable via an Impossible edge, and the back edge is
// marked.
func TestInfiniteLoop(t *testing.T) {
	g := graph.New()
	log := diag.NewLog()

	stmts := []ir.Statement{
		ir.Label{Name: "L"},
		ir.NoOp{},
		ir.GotoUnlinked{Target: "L"},
	}
	res := BuildFunction(g, log, "f", "t.c", stmts)

	fn := res.Function
	foundBack := false
	for _, v := range g.VerticesOf(fn) {
		for _, eid := range g.OutEdges(v) {
			if g.Edge(eid).IsBackEdge && g.Edge(eid).From != g.Edge(eid).To {
				foundBack = true
			}
		}
	}
	if !foundBack {
		t.Errorf("expected a back edge in the loop")
	}

	if g.FilteredInDegree(fn.Exit) == 0 {
		t.Errorf("expected an Impossible edge into Exit for a bare infinite loop")
	}
}

// TestUnresolvedLabel covers the diagnostic path for a Goto whose target
// label never appears.
func TestUnresolvedLabel(t *testing.T) {
	g := graph.New()
	log := diag.NewLog()

	stmts := []ir.Statement{
		ir.GotoUnlinked{Target: "nowhere"},
	}
	BuildFunction(g, log, "f", "t.c", stmts)

	if !log.ContainsErrors() {
		t.Fatalf("expected an error for the unresolved label")
	}
}

// TestDuplicateLabel covers the duplicate-label warning path.
func TestDuplicateLabel(t *testing.T) {
	g := graph.New()
	log := diag.NewLog()

	stmts := []ir.Statement{
		ir.Label{Name: "L"},
		ir.Label{Name: "L"},
	}
	BuildFunction(g, log, "f", "t.c", stmts)

	found := false
	for _, e := range log.Entries {
		if e.Severity == diag.Warning {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a duplicate-label warning, got: %s", log)
	}
}
