// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package build turns one function's ordered statement list into a
// linked control flow graph: basic-block discovery, label resolution,
// impossible-edge insertion, and back-edge fixup. It is the Go-native
// reworking of the teacher's go/ast-driven extras/cfg builder — instead
// of recursing over *ast.BlockStmt nesting, it walks a flat,
// already-flattened statement stream and resolves jumps through a label
// map, because the front-end has already flattened control structures
// into explicit Goto/If/Switch targets (spec §4.1).
package build

import (
	"github.com/godoctor/cfgreach/diag"
	"github.com/godoctor/cfgreach/graph"
	"github.com/godoctor/cfgreach/ir"
)

// Result is everything BuildFunction produces besides its diagnostic
// log entries.
type Result struct {
	Function *ir.Function

	// Unreachable lists every basic-block leader that still had zero
	// in-degree after link resolution, before impossible-edge
	// insertion patched it for invariant I5. Such vertices are left in
	// the graph (spec §4.1, §7).
	Unreachable []ir.VertexID
}

// leader pairs a basic-block leader with its recorded immediate
// predecessor, so an Impossible edge can later be synthesized between
// them if the leader turns out to have no other way in.
type leader struct {
	vertex ir.VertexID
	pred   ir.VertexID
}

// BuildFunction assembles the CFG for one function named name, defined
// in file, from its ordered statement list, adding vertices and edges
// to g. Diagnostics for duplicate/unresolved labels, leaked
// CaseUnlinked statements, and unreachable leaders are logged to log
// rather than returned, so that construction can continue per spec §7.
func BuildFunction(g *graph.Graph, log *diag.Log, name, file string, stmts []ir.Statement) *Result {
	fn := &ir.Function{Name: name, File: file}
	fn.Entry = g.AddVertex(fn, ir.Entry{})
	fn.Exit = g.AddVertex(fn, ir.Exit{})

	labels := map[string]ir.VertexID{"EXIT": fn.Exit}

	var leaders []leader
	var unlinked []ir.VertexID

	prevVertex := fn.Entry
	prevEndedBlock := false

	for _, stmt := range stmts {
		v := g.AddVertex(fn, stmt)

		if lbl, ok := stmt.(ir.Label); ok {
			if _, exists := labels[lbl.Name]; exists {
				log.Warnf(stmt.Loc(), "duplicate label %q in function %s; ignoring redefinition", lbl.Name, name)
			} else {
				labels[lbl.Name] = v
			}
		}

		if !prevEndedBlock {
			g.AddEdge(ir.Fallthrough, prevVertex, v, graph.NoCallSite)
		} else {
			leaders = append(leaders, leader{vertex: v, pred: prevVertex})
		}

		switch stmt.(type) {
		case ir.IfUnlinked, ir.SwitchUnlinked, ir.GotoUnlinked, ir.ReturnUnlinked:
			prevEndedBlock = true
			unlinked = append(unlinked, v)
		case ir.CaseUnlinked:
			log.Errorf(stmt.Loc(), "case label outside of a switch in function %s", name)
			prevEndedBlock = false
		default:
			prevEndedBlock = false
		}

		prevVertex = v
	}

	if !prevEndedBlock {
		g.AddEdge(ir.Fallthrough, prevVertex, fn.Exit, graph.NoCallSite)
	}

	resolveUnlinked(g, log, name, labels, unlinked)

	var unreachable []ir.VertexID
	for _, l := range leaders {
		if len(g.InEdges(l.vertex)) == 0 {
			log.Warnf(g.Statement(l.vertex).Loc(), "unreachable code in function %s", name)
			unreachable = append(unreachable, l.vertex)
			g.AddEdge(ir.Impossible, l.pred, l.vertex, graph.NoCallSite)
		}
	}

	fn.EntrySelfLoop = g.AddEdge(ir.Impossible, fn.Entry, fn.Entry, graph.NoCallSite)
	fn.ExitSelfLoop = g.AddEdge(ir.Impossible, fn.Exit, fn.Exit, graph.NoCallSite)

	FixBackEdges(g, fn)

	return &Result{Function: fn, Unreachable: unreachable}
}

// resolveUnlinked is the second pass over §4.1: every *Unlinked vertex
// recorded during the walk gets its target(s) looked up in labels and
// is replaced with its linked counterpart.
func resolveUnlinked(g *graph.Graph, log *diag.Log, fnName string, labels map[string]ir.VertexID, unlinked []ir.VertexID) {
	for _, v := range unlinked {
		switch s := g.Statement(v).(type) {
		case ir.GotoUnlinked:
			if target, ok := labels[s.Target]; ok {
				g.AddEdge(ir.Fallthrough, v, target, graph.NoCallSite)
			} else {
				log.Errorf(s.Loc(), "unresolved label %q in function %s", s.Target, fnName)
			}
			g.SetStatement(v, ir.NewGoto(s.Loc()))

		case ir.ReturnUnlinked:
			g.AddEdge(ir.Fallthrough, v, labels["EXIT"], graph.NoCallSite)
			g.SetStatement(v, ir.NewGoto(s.Loc()))

		case ir.IfUnlinked:
			if target, ok := labels[s.TrueTarget]; ok {
				g.AddEdge(ir.IfTrue, v, target, graph.NoCallSite)
			} else {
				log.Errorf(s.Loc(), "unresolved label %q in function %s", s.TrueTarget, fnName)
			}
			if target, ok := labels[s.FalseTarget]; ok {
				g.AddEdge(ir.IfFalse, v, target, graph.NoCallSite)
			} else {
				log.Errorf(s.Loc(), "unresolved label %q in function %s", s.FalseTarget, fnName)
			}
			g.SetStatement(v, ir.NewIf(s.Loc(), s.Cond))

		case ir.SwitchUnlinked:
			resolvedAny := false
			for _, c := range s.Cases {
				if target, ok := labels[c.Target]; ok {
					g.AddEdge(ir.Fallthrough, v, target, graph.NoCallSite)
					resolvedAny = true
				} else {
					log.Warnf(s.Loc(), "unresolved switch case target %q in function %s", c.Target, fnName)
				}
			}
			if resolvedAny {
				g.SetStatement(v, ir.NewSwitch(s.Loc()))
			}
		}
	}
}
