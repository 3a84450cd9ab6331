// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package traverse implements the two drivers shared by the analyzer and
// the renderer: an iterative depth-first search and a Kahn-style
// topological walk, both built around one visitor contract and one
// call-stack discipline for inter-procedural calls (spec §4.4). This is
// the Go-native analogue of the teacher's worklist-driven dataflow
// solver, reworked from "propagate facts until fixpoint" to "walk the
// call-linked CFG, skipping back edges and matching Return edges to
// their originating call frame."
package traverse

import "github.com/godoctor/cfgreach/ir"

// A Decision is the result of a visitor hook: whether the driver should
// keep going, abandon the current branch, or stop the whole traversal.
type Decision int

const (
	// Ok continues the traversal normally.
	Ok Decision = iota
	// TerminateBranch stops descending through the vertex/edge just
	// examined, without affecting any other branch.
	TerminateBranch
	// TerminateSearch ends the entire traversal immediately.
	TerminateSearch
)

// NoCall is the sentinel call-site vertex for the root (outermost) call
// frame, which was not pushed by any FunctionCallResolved.
const NoCall ir.VertexID = -1

// NoEdge is the sentinel edge handle passed to StartVertex/DiscoverVertex
// when there is no real edge to report (the very first vertex of a
// traversal has no incoming edge).
const NoEdge ir.EdgeID = -1

// A Visitor observes a traversal. Every hook returns a Decision; drivers
// honor TerminateBranch/TerminateSearch immediately. Embed BaseVisitor to
// get Ok-returning defaults for hooks you don't care about.
type Visitor interface {
	// StartVertex is called once, before the first vertex is
	// discovered, with the seed edge the driver was given (an Entry
	// self-loop for Kahn; NoEdge for DFS, which is given a start vertex
	// rather than an edge).
	StartVertex(seed ir.EdgeID) Decision

	// DiscoverVertex is called the first time v is reached (for DFS, the
	// first time within the current call frame), via incoming: NoEdge for
	// DFS's start vertex, the seed self-loop for Kahn's seed vertex.
	DiscoverVertex(v ir.VertexID, incoming ir.EdgeID) Decision

	// ExamineEdge is called for every out-edge considered, before it is
	// classified.
	ExamineEdge(e ir.EdgeID) Decision

	// TreeEdge, BackEdge, ForwardOrCrossEdge classify an edge during
	// DFS; the Kahn driver never calls them.
	TreeEdge(e ir.EdgeID) Decision
	BackEdge(e ir.EdgeID) Decision
	ForwardOrCrossEdge(e ir.EdgeID) Decision

	// VertexVisitComplete is called once per vertex by the Kahn driver
	// after every out-edge has been examined, reporting how many
	// successors were newly pushed and the last edge pushed (zero value
	// -1 if none).
	VertexVisitComplete(v ir.VertexID, childrenPushed int, lastPushed ir.EdgeID) Decision

	// FinishVertex is called by the DFS driver when a vertex's entire
	// subtree has been explored (the analogue of popping it off the
	// work stack for good).
	FinishVertex(v ir.VertexID) Decision
}

// BaseVisitor implements Visitor with Ok-returning defaults for every
// hook, so concrete visitors can embed it and override only what they
// need — the same "embed a no-op base" shape the teacher uses for its
// refactoring default implementations.
type BaseVisitor struct{}

func (BaseVisitor) StartVertex(ir.EdgeID) Decision                          { return Ok }
func (BaseVisitor) DiscoverVertex(ir.VertexID, ir.EdgeID) Decision           { return Ok }
func (BaseVisitor) ExamineEdge(ir.EdgeID) Decision                          { return Ok }
func (BaseVisitor) TreeEdge(ir.EdgeID) Decision                             { return Ok }
func (BaseVisitor) BackEdge(ir.EdgeID) Decision                             { return Ok }
func (BaseVisitor) ForwardOrCrossEdge(ir.EdgeID) Decision                   { return Ok }
func (BaseVisitor) VertexVisitComplete(ir.VertexID, int, ir.EdgeID) Decision { return Ok }
func (BaseVisitor) FinishVertex(ir.VertexID) Decision                       { return Ok }
