// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package render renders a built, linked function as a nested text CFG
// or as GraphViz source, per spec §4.6.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/godoctor/cfgreach/graph"
	"github.com/godoctor/cfgreach/ir"
	"github.com/godoctor/cfgreach/traverse"
)

// Options controls the two verbosity flags spec.md §4.6 gates printing
// on: Verbose prints every statement, not just calls and decisions.
type Options struct {
	Verbose   bool
	ShowIDs   bool
}

// WriteText renders fn's CFG as an indented nested block, walking it in
// Kahn order starting from fn's Entry self-loop.
func WriteText(w io.Writer, g *graph.Graph, fn *ir.Function, opts Options) {
	tv := &textVisitor{
		w:      w,
		g:      g,
		opts:   opts,
		stack:  []callFrame{{call: traverse.NoCall, callee: fn}},
		active: map[*ir.Function]int{fn: 1},
	}
	tv.emit("[")
	tv.indent++
	traverse.Kahn(g, fn.EntrySelfLoop, tv)
	tv.indent--
	tv.emit("]")
}

// callFrame mirrors traverse's (unexported) call-frame bookkeeping: the
// call site that entered this frame and the function it entered. The
// renderer keeps its own shadow copy because traverse.Kahn's internal
// call stack isn't exposed to visitors — only the edge kind and call
// site threaded through DiscoverVertex's incoming edge are, which is
// enough to replay the same push/pop discipline (spec §4.4).
type callFrame struct {
	call   ir.VertexID
	callee *ir.Function
}

type textVisitor struct {
	traverse.BaseVisitor

	w    io.Writer
	g    *graph.Graph
	opts Options

	indent int

	// stack and active replay traverse.Kahn's call-stack discipline so
	// that "RECURSION DETECTED" fires for any callee already active on
	// the call path reaching this call site — direct or indirect/mutual
	// — not just a call back into the one function WriteText was asked
	// to render.
	stack  []callFrame
	active map[*ir.Function]int
}

func (t *textVisitor) pushCall(call ir.VertexID, callee *ir.Function) {
	t.stack = append(t.stack, callFrame{call: call, callee: callee})
	t.active[callee]++
}

func (t *textVisitor) popCall(callSite ir.VertexID) {
	if len(t.stack) <= 1 {
		return
	}
	top := t.stack[len(t.stack)-1]
	if top.call != callSite {
		return
	}
	t.active[top.callee]--
	if t.active[top.callee] == 0 {
		delete(t.active, top.callee)
	}
	t.stack = t.stack[:len(t.stack)-1]
}

func (t *textVisitor) emit(s string) {
	fmt.Fprintf(t.w, "%s%s\n", strings.Repeat("    ", t.indent), s)
}

func (t *textVisitor) DiscoverVertex(v ir.VertexID, incoming ir.EdgeID) traverse.Decision {
	if incoming != traverse.NoEdge {
		switch in := t.g.Edge(incoming); in.Kind {
		case ir.FunctionCall:
			t.pushCall(in.CallSite, t.g.Function(v))
		case ir.Return:
			t.popCall(in.CallSite)
		}
	}

	stmt := t.g.Statement(v)

	deg := t.g.FilteredInDegree(v)
	if deg == 1 {
		for _, eid := range t.g.InEdges(v) {
			e := t.g.Edge(eid)
			if e.IsBackEdge || e.From == e.To {
				continue
			}
			if t.g.Statement(e.From).IsDecision() {
				t.emit("{")
				t.indent++
			}
			break
		}
	} else if deg > 2 {
		for i := 0; i < deg-2; i++ {
			t.indent--
			t.emit("}")
		}
	}

	switch s := stmt.(type) {
	case ir.Entry:
		// handled by WriteText's bracketing; nothing to print here.
	case ir.Exit:
		// handled by WriteText's bracketing; nothing to print here.
	case ir.FunctionCallResolved:
		if t.active[s.Callee] > 0 {
			t.emit(fmt.Sprintf("RECURSION DETECTED: %s", s.ID()))
		} else {
			t.printStatement(v, stmt)
		}
	default:
		if t.opts.Verbose || stmt.IsDecision() || stmt.IsFunctionCall() {
			t.printStatement(v, stmt)
		}
	}

	return traverse.Ok
}

func (t *textVisitor) printStatement(v ir.VertexID, stmt ir.Statement) {
	id := stmt.ID()
	if t.opts.ShowIDs {
		id = fmt.Sprintf("%s [%d]", id, v)
	}
	t.emit(fmt.Sprintf("%s <%s>", id, stmt.Loc()))
}

func (t *textVisitor) VertexVisitComplete(v ir.VertexID, childrenPushed int, lastPushed ir.EdgeID) traverse.Decision {
	if childrenPushed == 0 {
		t.indent--
		t.emit("}")
		t.indent++
	} else if childrenPushed == 1 && lastPushed != traverse.NoEdge {
		target := t.g.Edge(lastPushed).To
		if t.g.FilteredInDegree(target) > 1 {
			t.indent--
			t.emit("}")
			t.indent++
		}
	}
	return traverse.Ok
}
