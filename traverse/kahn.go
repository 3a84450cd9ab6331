// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package traverse

import (
	"github.com/bits-and-blooms/bitset"

	"github.com/godoctor/cfgreach/graph"
	"github.com/godoctor/cfgreach/ir"
)

// Kahn runs the lazy topological driver seeded from seed (an Entry
// self-loop edge, giving StartVertex something to report), reporting
// decisions to visitor. remaining in-degree is the graph's filtered
// in-degree (graph.Graph.FilteredInDegree), which already discounts
// back edges, matched-bypass returns, and all-but-one call edge into an
// Entry, so any well-formed program terminates even across loops and
// recursion (spec §4.4).
func Kahn(g *graph.Graph, seed ir.EdgeID, visitor Visitor) Decision {
	remaining := make(map[ir.VertexID]int)
	pushed := bitset.New(uint(g.NumVertices()))

	touch := func(v ir.VertexID) int {
		if deg, ok := remaining[v]; ok {
			return deg
		}
		deg := g.FilteredInDegree(v)
		remaining[v] = deg
		return deg
	}

	seedVertex := g.Edge(seed).To
	stack := newCallStack(g.Function(seedVertex))

	if d := visitor.StartVertex(seed); d == TerminateSearch {
		return TerminateSearch
	}

	touch(seedVertex)
	pushed.Set(uint(seedVertex))
	workEdges := []ir.EdgeID{seed}

	for len(workEdges) > 0 {
		eid := workEdges[len(workEdges)-1]
		workEdges = workEdges[:len(workEdges)-1]
		e := g.Edge(eid)
		v := e.To

		switch e.Kind {
		case ir.FunctionCall:
			if callee := g.Function(v); !stack.recursive(callee) {
				stack.push(e.CallSite, callee)
			}
		case ir.Return:
			if stack.matchesTop(e.CallSite) {
				stack.pop()
			}
		}

		if d := visitor.DiscoverVertex(v, eid); d == TerminateSearch {
			return TerminateSearch
		} else if d == TerminateBranch {
			continue
		}

		childrenPushed := 0
		lastPushed := NoEdge

		for _, oeid := range g.OutEdges(v) {
			oe := g.Edge(oeid)
			if oe.IsBackEdge || oe.From == oe.To {
				continue
			}

			if d := visitor.ExamineEdge(oeid); d == TerminateSearch {
				return TerminateSearch
			} else if d == TerminateBranch {
				continue
			}

			switch oe.Kind {
			case ir.FunctionCall:
				if callee := g.Function(oe.To); stack.recursive(callee) {
					continue
				}
			case ir.FunctionCallBypass:
				if fc, ok := g.Statement(oe.CallSite).(ir.FunctionCallResolved); ok {
					if !stack.recursive(fc.Callee) {
						continue
					}
				}
			case ir.Return:
				if !stack.matchesTop(oe.CallSite) {
					continue
				}
			}

			target := oe.To
			deg := touch(target) - 1
			remaining[target] = deg
			if deg == 0 && !pushed.Test(uint(target)) {
				pushed.Set(uint(target))
				workEdges = append(workEdges, oeid)
				childrenPushed++
				lastPushed = oeid
			}
		}

		if d := visitor.VertexVisitComplete(v, childrenPushed, lastPushed); d == TerminateSearch {
			return TerminateSearch
		}
	}

	return Ok
}
