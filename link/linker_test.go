// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package link

import (
	"testing"

	"github.com/godoctor/cfgreach/build"
	"github.com/godoctor/cfgreach/diag"
	"github.com/godoctor/cfgreach/graph"
	"github.com/godoctor/cfgreach/ir"
)

func buildProgram(t *testing.T, g *graph.Graph, log *diag.Log) (caller, callee *ir.Function, site ir.VertexID) {
	t.Helper()

	calleeStmts := []ir.Statement{ir.NoOp{}}
	calleeRes := build.BuildFunction(g, log, "g", "t.c", calleeStmts)

	callerStmts := []ir.Statement{
		ir.FunctionCallUnresolved{Callee: "g"},
		ir.NoOp{},
	}
	callerRes := build.BuildFunction(g, log, "f", "t.c", callerStmts)

	for _, v := range g.VerticesOf(callerRes.Function) {
		if _, ok := g.Statement(v).(ir.FunctionCallUnresolved); ok {
			site = v
		}
	}
	return callerRes.Function, calleeRes.Function, site
}

func TestLinkResolvesCall(t *testing.T) {
	g := graph.New()
	log := diag.NewLog()

	caller, callee, site := buildProgram(t, g, log)

	functions := map[string]*ir.Function{"g": callee, "f": caller}
	res := Link(g, log, functions, []ir.VertexID{site})

	if len(res.Unresolved) != 0 {
		t.Fatalf("expected no unresolved calls, got %v", res.Unresolved)
	}

	resolved, ok := g.Statement(site).(ir.FunctionCallResolved)
	if !ok {
		t.Fatalf("expected call site to be resolved, got %T", g.Statement(site))
	}
	if resolved.Callee != callee {
		t.Fatalf("resolved call points at wrong callee")
	}

	var sawCall, sawReturn, sawBypass bool
	for _, eid := range g.OutEdges(site) {
		switch g.Edge(eid).Kind {
		case ir.FunctionCall:
			sawCall = true
			if g.Edge(eid).To != callee.Entry {
				t.Errorf("FunctionCall edge should target callee entry")
			}
		case ir.FunctionCallBypass:
			sawBypass = true
		}
	}
	for _, eid := range g.OutEdges(callee.Exit) {
		if g.Edge(eid).Kind == ir.Return {
			sawReturn = true
		}
	}
	if !sawCall || !sawReturn || !sawBypass {
		t.Fatalf("expected call/return/bypass edges, got call=%v return=%v bypass=%v", sawCall, sawReturn, sawBypass)
	}
}

func TestLinkReportsUnresolvedCallee(t *testing.T) {
	g := graph.New()
	log := diag.NewLog()

	stmts := []ir.Statement{ir.FunctionCallUnresolved{Callee: "missing"}}
	res := build.BuildFunction(g, log, "f", "t.c", stmts)

	var site ir.VertexID
	for _, v := range g.VerticesOf(res.Function) {
		if _, ok := g.Statement(v).(ir.FunctionCallUnresolved); ok {
			site = v
		}
	}

	linkRes := Link(g, log, map[string]*ir.Function{"f": res.Function}, []ir.VertexID{site})
	if len(linkRes.Unresolved["missing"]) != 1 {
		t.Fatalf("expected one unresolved call to %q, got %v", "missing", linkRes.Unresolved)
	}
	if !log.ContainsErrors() && len(log.Entries) == 0 {
		t.Fatalf("expected a diagnostic entry for the unresolved call")
	}
}
