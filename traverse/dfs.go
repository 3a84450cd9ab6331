// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package traverse

import (
	"github.com/godoctor/cfgreach/graph"
	"github.com/godoctor/cfgreach/ir"
)

type dfsColor int

const (
	white dfsColor = iota
	gray
	black
)

type dfsWorkItem struct {
	v   ir.VertexID
	idx int
}

// DFS runs an iterative depth-first search from start (assumed to be an
// Entry vertex), reporting decisions to visitor. Edges marked
// IsBackEdge and self-loops are skipped per the shared driver rules;
// call/return edges are followed according to the call-stack discipline
// in callstack.go, with a fresh color map allocated per call frame so
// that a callee reached again from another call site is explored as if
// for the first time. A call to a function already on the call stack is
// not entered; its Bypass edge is taken instead.
func DFS(g *graph.Graph, start ir.VertexID, visitor Visitor) Decision {
	stack := newCallStack(g.Function(start))
	frame := stack.top()
	frame.color = map[ir.VertexID]dfsColor{}

	if d := visitor.StartVertex(NoEdge); d == TerminateSearch {
		return TerminateSearch
	}

	frame.color[start] = gray
	if d := visitor.DiscoverVertex(start, NoEdge); d == TerminateSearch {
		return TerminateSearch
	} else if d == TerminateBranch {
		return Ok
	}

	work := []dfsWorkItem{{v: start}}

	for len(work) > 0 {
		top := &work[len(work)-1]
		frame = stack.top()
		outs := g.OutEdges(top.v)

		if top.idx >= len(outs) {
			if d := visitor.FinishVertex(top.v); d == TerminateSearch {
				return TerminateSearch
			}
			frame.color[top.v] = black
			work = work[:len(work)-1]
			continue
		}

		eid := outs[top.idx]
		top.idx++
		e := g.Edge(eid)

		if e.IsBackEdge || e.From == e.To {
			continue
		}

		if d := visitor.ExamineEdge(eid); d == TerminateSearch {
			return TerminateSearch
		} else if d == TerminateBranch {
			continue
		}

		var pushedCallee *ir.Function
		switch e.Kind {
		case ir.FunctionCall:
			callee := g.Function(e.To)
			if stack.recursive(callee) {
				continue
			}
			pushedCallee = callee

		case ir.FunctionCallBypass:
			if fc, ok := g.Statement(e.CallSite).(ir.FunctionCallResolved); ok {
				if !stack.recursive(fc.Callee) {
					continue
				}
			}

		case ir.Return:
			if !stack.matchesTop(e.CallSite) {
				continue
			}
			stack.pop()
			frame = stack.top()
		}

		if pushedCallee != nil {
			frame = stack.push(e.CallSite, pushedCallee)
			frame.color = map[ir.VertexID]dfsColor{}
		}

		switch frame.color[e.To] {
		case white:
			if d := visitor.TreeEdge(eid); d == TerminateSearch {
				return TerminateSearch
			} else if d == TerminateBranch {
				continue
			}
			frame.color[e.To] = gray
			if d := visitor.DiscoverVertex(e.To, eid); d == TerminateSearch {
				return TerminateSearch
			} else if d == TerminateBranch {
				frame.color[e.To] = black
				continue
			}
			work = append(work, dfsWorkItem{v: e.To})

		case gray:
			if d := visitor.BackEdge(eid); d == TerminateSearch {
				return TerminateSearch
			}

		case black:
			if d := visitor.ForwardOrCrossEdge(eid); d == TerminateSearch {
				return TerminateSearch
			}
		}
	}

	return Ok
}
