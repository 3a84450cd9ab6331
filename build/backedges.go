// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package build

import (
	"github.com/godoctor/cfgreach/graph"
	"github.com/godoctor/cfgreach/ir"
)

type color int

const (
	white color = iota
	gray
	black
)

// frame is one level of the explicit DFS stack: the vertex being
// visited and the index of the next out-edge to examine.
type frame struct {
	v   ir.VertexID
	idx int
}

// FixBackEdges runs a depth-first search over fn's own vertices,
// classifying every edge discovered a second time while its target is
// still on the search stack as a back edge (spec §4.1). For each
// non-self back edge u->v it additionally walks the predecessor chain
// from u toward v looking for the nearest decision statement w, and —
// only if u has no other forward way out — adds an Impossible edge from
// u to one of w's other out-edge targets, so that the Kahn traversal
// driver always has some zero-remaining-predecessor vertex to make
// progress on even when a loop body dead-ends back on itself. When the
// chain holds no decision (a bare infinite loop), the Impossible edge
// goes from u to the function's Exit instead, under the same condition.
func FixBackEdges(g *graph.Graph, fn *ir.Function) {
	vertices := g.VerticesOf(fn)
	colors := make(map[ir.VertexID]color, len(vertices))
	pred := make(map[ir.VertexID]ir.EdgeID, len(vertices))
	for _, v := range vertices {
		colors[v] = white
	}

	var stack []frame
	start := fn.Entry
	colors[start] = gray
	stack = append(stack, frame{v: start})

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		out := g.OutEdges(top.v)
		if top.idx >= len(out) {
			colors[top.v] = black
			stack = stack[:len(stack)-1]
			continue
		}

		eid := out[top.idx]
		top.idx++
		e := g.Edge(eid)

		if e.From == e.To {
			e.IsBackEdge = true
			continue
		}

		switch colors[e.To] {
		case white:
			colors[e.To] = gray
			pred[e.To] = eid
			stack = append(stack, frame{v: e.To})
		case gray:
			e.IsBackEdge = true
			insertImpossibleReplacement(g, pred, e)
		case black:
			// forward or cross edge; not a back edge.
		}
	}
}

// insertImpossibleReplacement implements the "nearest decision
// statement" rule for a confirmed non-self back edge e (From=u, To=v).
func insertImpossibleReplacement(g *graph.Graph, pred map[ir.VertexID]ir.EdgeID, e *ir.Edge) {
	u, v := e.From, e.To

	var w ir.VertexID
	found := false
	for cur := u; ; {
		if g.Statement(cur).IsDecision() {
			w = cur
			found = true
			break
		}
		if cur == v {
			break
		}
		predID, ok := pred[cur]
		if !ok {
			break
		}
		cur = g.Edge(predID).From
	}
	if !found {
		if remainingForwardOutDegree(g, u, e.ID) == 0 {
			g.AddEdge(ir.Impossible, u, g.Function(u).Exit, graph.NoCallSite)
		}
		return
	}

	var target ir.VertexID
	haveTarget := false
	for _, oid := range g.OutEdges(w) {
		if oid == e.ID {
			continue
		}
		target = g.Edge(oid).To
		haveTarget = true
		break
	}
	if !haveTarget {
		return
	}

	if remainingForwardOutDegree(g, u, e.ID) == 0 {
		g.AddEdge(ir.Impossible, u, target, graph.NoCallSite)
	}
}

// remainingForwardOutDegree counts u's out-edges other than excluding
// (the back edge just classified) and any other edge already marked as
// a back edge.
func remainingForwardOutDegree(g *graph.Graph, u ir.VertexID, excluding ir.EdgeID) int {
	count := 0
	for _, oid := range g.OutEdges(u) {
		if oid == excluding {
			continue
		}
		if g.Edge(oid).IsBackEdge {
			continue
		}
		count++
	}
	return count
}
