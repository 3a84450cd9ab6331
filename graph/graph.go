// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package graph implements the program-wide directed multigraph that
// backs every function's control flow graph: stable vertex/edge handles,
// per-vertex and per-edge attached properties, and the filtered
// in-degree notion of "convergence" that the renderer and the Kahn
// traversal driver both depend on.
//
// The store is additive after construction — vertices are never
// deleted — and is accessed from exactly one goroutine at a time (see
// spec §5), so it carries no locking, unlike a general-purpose graph
// library built for concurrent mutation.
package graph

import (
	"sort"

	"github.com/godoctor/cfgreach/ir"
)

// Graph is the single program-wide vertex/edge store. Every function's
// CFG lives inside it; ContainingFunction records which function a
// vertex belongs to (invariant I1).
type Graph struct {
	nextVertex ir.VertexID
	nextEdge   ir.EdgeID

	statements map[ir.VertexID]ir.Statement
	owner      map[ir.VertexID]*ir.Function

	edges map[ir.EdgeID]*ir.Edge
	out   map[ir.VertexID][]ir.EdgeID
	in    map[ir.VertexID][]ir.EdgeID
}

// New returns an empty Graph.
func New() *Graph {
	return &Graph{
		statements: make(map[ir.VertexID]ir.Statement),
		owner:      make(map[ir.VertexID]*ir.Function),
		edges:      make(map[ir.EdgeID]*ir.Edge),
		out:        make(map[ir.VertexID][]ir.EdgeID),
		in:         make(map[ir.VertexID][]ir.EdgeID),
	}
}

// AddVertex adds stmt as a new vertex belonging to fn and returns its
// handle.
func (g *Graph) AddVertex(fn *ir.Function, stmt ir.Statement) ir.VertexID {
	v := g.nextVertex
	g.nextVertex++
	g.statements[v] = stmt
	g.owner[v] = fn
	return v
}

// SetStatement replaces the statement stored at v. This is how the
// builder's link-resolution pass turns an *Unlinked statement into its
// linked counterpart, and how the linker turns a
// FunctionCallUnresolved into a FunctionCallResolved (invariant I3).
func (g *Graph) SetStatement(v ir.VertexID, stmt ir.Statement) {
	g.statements[v] = stmt
}

// Statement returns the statement currently stored at v.
func (g *Graph) Statement(v ir.VertexID) ir.Statement {
	return g.statements[v]
}

// Function returns the function that owns v.
func (g *Graph) Function(v ir.VertexID) *ir.Function {
	return g.owner[v]
}

// NumVertices returns the total number of vertices added so far; it is
// the upper bound a caller should size a dense bitset to.
func (g *Graph) NumVertices() int {
	return int(g.nextVertex)
}

// AddEdge adds a new edge of the given kind between from and to and
// returns its handle. callSite is the FunctionCallResolved vertex this
// edge is associated with (FunctionCall, Return, FunctionCallBypass); it
// is ir.VertexID(-1) for every other kind to make "none" explicit and
// distinct from a valid handle.
func (g *Graph) AddEdge(kind ir.EdgeKind, from, to, callSite ir.VertexID) ir.EdgeID {
	id := g.nextEdge
	g.nextEdge++
	e := &ir.Edge{ID: id, Kind: kind, From: from, To: to, CallSite: callSite}
	g.edges[id] = e
	g.out[from] = append(g.out[from], id)
	g.in[to] = append(g.in[to], id)
	return id
}

// NoCallSite is the sentinel CallSite value for edges not associated
// with a resolved call (every kind except FunctionCall/Return/Bypass).
const NoCallSite ir.VertexID = -1

// Edge returns the edge stored at id.
func (g *Graph) Edge(id ir.EdgeID) *ir.Edge {
	return g.edges[id]
}

// OutEdges returns the handles of every edge leaving v, in the order
// they were added.
func (g *Graph) OutEdges(v ir.VertexID) []ir.EdgeID {
	return g.out[v]
}

// InEdges returns the handles of every edge entering v, in the order
// they were added.
func (g *Graph) InEdges(v ir.VertexID) []ir.EdgeID {
	return g.in[v]
}

// ConvertToBypass turns the Fallthrough edge id into a
// FunctionCallBypass edge associated with callSite, in place — same
// source, same target, same IsBackEdge bit (invariant I4). Used by the
// linker when it links a resolved call site.
func (g *Graph) ConvertToBypass(id ir.EdgeID, callSite ir.VertexID) {
	e := g.edges[id]
	e.Kind = ir.FunctionCallBypass
	e.CallSite = callSite
}

// VerticesOf returns, in ascending handle order, every vertex belonging
// to fn. This is the "filtered subgraph" view used by back-edge fixup
// and by the text renderer.
func (g *Graph) VerticesOf(fn *ir.Function) []ir.VertexID {
	var out []ir.VertexID
	for v, f := range g.owner {
		if f == fn {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// FilteredInDegree is the "convergence" count used by the indentation
// logic in render and by the Kahn driver's remaining-predecessor map
// (spec §4.3, §4.4): it ignores back edges and self-loops, never counts
// a Return edge (its matched Bypass is counted instead), and — when v is
// a function Entry — collapses any number of incoming FunctionCall edges
// down to at most one, since a resolved call frame only needs one path
// into its callee to be traversable, not all of them.
func (g *Graph) FilteredInDegree(v ir.VertexID) int {
	_, isEntry := g.Statement(v).(ir.Entry)

	count := 0
	sawCall := false
	for _, id := range g.in[v] {
		e := g.edges[id]
		if e.IsBackEdge || e.From == e.To {
			continue
		}
		switch {
		case e.Kind == ir.Return:
			continue
		case isEntry && e.Kind == ir.FunctionCall:
			if sawCall {
				continue
			}
			sawCall = true
			count++
		default:
			count++
		}
	}
	return count
}
