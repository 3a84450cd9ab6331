// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package analyze

import (
	"fmt"

	"github.com/godoctor/cfgreach/diag"
	"github.com/godoctor/cfgreach/graph"
	"github.com/godoctor/cfgreach/ir"
	"github.com/godoctor/cfgreach/traverse"
)

// A Violation is the witness for one constraint found to not hold: a
// tree-edge chain from source.Entry to sink.Entry, in traversal order.
type Violation struct {
	Constraint Constraint
	Chain      []ir.EdgeID
}

// Evaluate resolves c's source/sink names against functions and runs a
// depth-first search from source.Entry, recording the tree-edge
// predecessor chain. It returns a non-nil *Violation if sink.Entry is
// reached, or nil if no such path exists (spec §4.5).
func Evaluate(g *graph.Graph, log *diag.Log, functions map[string]*ir.Function, c Constraint) *Violation {
	src, ok := functions[c.Source]
	if !ok {
		log.Warnf(ir.Location{}, "constraint references undefined function %q", c.Source)
		return nil
	}
	sink, ok := functions[c.Sink]
	if !ok {
		log.Warnf(ir.Location{}, "constraint references undefined function %q", c.Sink)
		return nil
	}

	w := &witnessVisitor{g: g, sink: sink.Entry}
	traverse.DFS(g, src.Entry, w)

	if !w.found {
		return nil
	}
	return &Violation{Constraint: c, Chain: w.chain}
}

// witnessVisitor records the tree-edge predecessor deque used to
// reconstruct a witness path, per spec §4.5 step 2: push on TreeEdge,
// pop on FinishVertex, skip Impossible edges (back edges are already
// skipped by the driver), terminate the search on reaching sink.
type witnessVisitor struct {
	traverse.BaseVisitor

	g     *graph.Graph
	sink  ir.VertexID
	deque []ir.EdgeID

	found bool
	chain []ir.EdgeID
}

func (w *witnessVisitor) ExamineEdge(e ir.EdgeID) traverse.Decision {
	if w.g.Edge(e).Kind == ir.Impossible {
		return traverse.TerminateBranch
	}
	return traverse.Ok
}

func (w *witnessVisitor) TreeEdge(e ir.EdgeID) traverse.Decision {
	w.deque = append(w.deque, e)
	return traverse.Ok
}

func (w *witnessVisitor) FinishVertex(ir.VertexID) traverse.Decision {
	if len(w.deque) > 0 {
		w.deque = w.deque[:len(w.deque)-1]
	}
	return traverse.Ok
}

func (w *witnessVisitor) DiscoverVertex(v ir.VertexID, _ ir.EdgeID) traverse.Decision {
	if v == w.sink {
		w.found = true
		w.chain = append([]ir.EdgeID(nil), w.deque...)
		return traverse.TerminateSearch
	}
	return traverse.Ok
}

// FormatWitness renders a Violation's chain per spec §4.5 step 3/§4.6:
// the function where the call happens, then every predecessor edge in
// order, printing each FunctionCall (with its callee) and each decision
// statement (with the branch label taken). Unresolved calls never
// appear in a chain (a chain only exists once a call has been linked).
func FormatWitness(g *graph.Graph, v *Violation) []string {
	lines := []string{fmt.Sprintf("%s() transitively reaches %s():", v.Constraint.Source, v.Constraint.Sink)}
	for i, eid := range v.Chain {
		e := g.Edge(eid)
		stmt := g.Statement(e.To)
		switch s := stmt.(type) {
		case ir.Entry:
			lines = append(lines, fmt.Sprintf("  enter %s", g.Function(e.To).Name))
		case ir.Exit:
			lines = append(lines, fmt.Sprintf("  leave %s", g.Function(e.To).Name))
		case ir.FunctionCallResolved:
			lines = append(lines, fmt.Sprintf("  %s: call %s()", s.Loc(), s.Callee.Name))
		case ir.If:
			branch := "?"
			if i+1 < len(v.Chain) {
				branch = g.Edge(v.Chain[i+1]).Kind.String()
			}
			lines = append(lines, fmt.Sprintf("  %s: if (%s) -> %s", s.Loc(), s.Cond, branch))
		case ir.Switch:
			lines = append(lines, fmt.Sprintf("  %s: switch -> case", s.Loc()))
		}
	}
	return lines
}

// NoViolation renders the "no violation found" diagnostic line for a
// constraint that held.
func NoViolation(c Constraint) string {
	return fmt.Sprintf("%s() -x %s(): no violation found", c.Source, c.Sink)
}
