// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package graph

import (
	"testing"

	"github.com/godoctor/cfgreach/ir"
)

func TestAddVertexAndSetStatement(t *testing.T) {
	g := New()
	fn := &ir.Function{Name: "f"}
	loc := ir.Location{File: "a.c", Line: 1}

	v := g.AddVertex(fn, ir.NewGotoUnlinked(loc, "L"))
	if g.Function(v) != fn {
		t.Fatalf("Function(v) = %v, want %v", g.Function(v), fn)
	}
	if _, ok := g.Statement(v).(ir.GotoUnlinked); !ok {
		t.Fatalf("Statement(v) = %T, want GotoUnlinked", g.Statement(v))
	}

	g.SetStatement(v, ir.NewGoto(loc))
	if _, ok := g.Statement(v).(ir.GotoStmt); !ok {
		t.Fatalf("Statement(v) after SetStatement = %T, want GotoStmt", g.Statement(v))
	}
}

func TestAddEdgeWiresOutAndIn(t *testing.T) {
	g := New()
	fn := &ir.Function{Name: "f"}
	loc := ir.Location{File: "a.c", Line: 1}
	a := g.AddVertex(fn, ir.NewNoOp(loc))
	b := g.AddVertex(fn, ir.NewNoOp(loc))

	id := g.AddEdge(ir.Fallthrough, a, b, NoCallSite)
	if got := g.OutEdges(a); len(got) != 1 || got[0] != id {
		t.Fatalf("OutEdges(a) = %v, want [%v]", got, id)
	}
	if got := g.InEdges(b); len(got) != 1 || got[0] != id {
		t.Fatalf("InEdges(b) = %v, want [%v]", got, id)
	}
	if e := g.Edge(id); e.From != a || e.To != b || e.Kind != ir.Fallthrough {
		t.Fatalf("Edge(id) = %+v, unexpected", e)
	}
}

func TestConvertToBypassPreservesBackEdgeBit(t *testing.T) {
	g := New()
	fn := &ir.Function{Name: "f"}
	loc := ir.Location{File: "a.c", Line: 1}
	a := g.AddVertex(fn, ir.NewNoOp(loc))
	b := g.AddVertex(fn, ir.NewNoOp(loc))
	callSite := g.AddVertex(fn, ir.NewFunctionCallResolved(loc, &ir.Function{Name: "g"}, nil))

	id := g.AddEdge(ir.Fallthrough, a, b, NoCallSite)
	g.Edge(id).IsBackEdge = true

	g.ConvertToBypass(id, callSite)

	e := g.Edge(id)
	if e.Kind != ir.FunctionCallBypass {
		t.Errorf("Kind = %v, want FunctionCallBypass", e.Kind)
	}
	if e.CallSite != callSite {
		t.Errorf("CallSite = %v, want %v", e.CallSite, callSite)
	}
	if !e.IsBackEdge {
		t.Error("IsBackEdge should survive ConvertToBypass")
	}
	if e.From != a || e.To != b {
		t.Errorf("From/To changed: got %v->%v, want %v->%v", e.From, e.To, a, b)
	}
}

func TestVerticesOfFiltersByOwner(t *testing.T) {
	g := New()
	fnA := &ir.Function{Name: "a"}
	fnB := &ir.Function{Name: "b"}
	loc := ir.Location{File: "x.c", Line: 1}

	a1 := g.AddVertex(fnA, ir.NewNoOp(loc))
	_ = g.AddVertex(fnB, ir.NewNoOp(loc))
	a2 := g.AddVertex(fnA, ir.NewNoOp(loc))

	got := g.VerticesOf(fnA)
	want := []ir.VertexID{a1, a2}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("VerticesOf(fnA) = %v, want %v", got, want)
	}
}

func TestFilteredInDegreeIgnoresBackEdgesAndSelfLoops(t *testing.T) {
	g := New()
	fn := &ir.Function{Name: "f"}
	loc := ir.Location{File: "a.c", Line: 1}
	v := g.AddVertex(fn, ir.NewNoOp(loc))
	pred := g.AddVertex(fn, ir.NewNoOp(loc))

	selfLoop := g.AddEdge(ir.Impossible, v, v, NoCallSite)
	_ = selfLoop
	normal := g.AddEdge(ir.Fallthrough, pred, v, NoCallSite)
	back := g.AddEdge(ir.Goto, v, v, NoCallSite)
	g.Edge(back).IsBackEdge = true

	if got := g.FilteredInDegree(v); got != 1 {
		t.Fatalf("FilteredInDegree(v) = %d, want 1 (only %v should count)", got, normal)
	}
}

func TestFilteredInDegreeCollapsesMultipleCallsIntoEntry(t *testing.T) {
	g := New()
	callee := &ir.Function{Name: "callee"}
	entry := g.AddVertex(callee, ir.Entry{})
	callee.Entry = entry

	caller := &ir.Function{Name: "caller"}
	loc := ir.Location{File: "a.c", Line: 1}
	site1 := g.AddVertex(caller, ir.NewFunctionCallResolved(loc, callee, nil))
	site2 := g.AddVertex(caller, ir.NewFunctionCallResolved(loc, callee, nil))

	g.AddEdge(ir.FunctionCall, site1, entry, site1)
	g.AddEdge(ir.FunctionCall, site2, entry, site2)

	if got := g.FilteredInDegree(entry); got != 1 {
		t.Errorf("FilteredInDegree(entry) = %d, want 1 (collapsed)", got)
	}
}

func TestFilteredInDegreeSkipsReturnEdges(t *testing.T) {
	g := New()
	fn := &ir.Function{Name: "f"}
	loc := ir.Location{File: "a.c", Line: 1}
	next := g.AddVertex(fn, ir.NewNoOp(loc))
	callSite := g.AddVertex(fn, ir.NewFunctionCallResolved(loc, &ir.Function{Name: "g"}, nil))
	calleeExit := g.AddVertex(&ir.Function{Name: "g"}, ir.Exit{})

	g.AddEdge(ir.Return, calleeExit, next, callSite)
	g.AddEdge(ir.FunctionCallBypass, callSite, next, callSite)

	if got := g.FilteredInDegree(next); got != 1 {
		t.Errorf("FilteredInDegree(next) = %d, want 1 (Return not counted, Bypass is)", got)
	}
}
