// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package link resolves call sites against a name→Function table, wiring
// FunctionCall/Return/FunctionCallBypass edges into the single
// program-wide graph and replacing each resolved FunctionCallUnresolved
// statement with its FunctionCallResolved counterpart (spec §4.2). It
// plays the role the teacher's engine package plays for refactorings — a
// name→implementation registry — except the "implementations" here are
// Functions and the registry is consulted once per call site rather than
// once per CLI invocation.
package link

import (
	"fmt"

	"github.com/godoctor/cfgreach/diag"
	"github.com/godoctor/cfgreach/graph"
	"github.com/godoctor/cfgreach/ir"
)

// UnresolvedCall pairs a call-site vertex with the function it appears
// in, for reporting purposes.
type UnresolvedCall struct {
	Site     ir.VertexID
	Callee   string
	Function *ir.Function
}

// Result is the outcome of a Link run: every call site whose callee name
// never matched a Function, grouped by callee name (multimap; spec §4.2
// "multimap duplicates... are preserved").
type Result struct {
	Unresolved map[string][]UnresolvedCall
}

// Link resolves every FunctionCallUnresolved vertex among sites against
// functions, mutating g in place per spec §4.2. sites need not be
// restricted to any one function; the caller typically passes every call
// site discovered across every function built so far.
func Link(g *graph.Graph, log *diag.Log, functions map[string]*ir.Function, sites []ir.VertexID) *Result {
	res := &Result{Unresolved: make(map[string][]UnresolvedCall)}

	for _, v := range sites {
		call, ok := g.Statement(v).(ir.FunctionCallUnresolved)
		if !ok {
			continue
		}

		callerFn := g.Function(v)
		target, ok := functions[call.Callee]
		if !ok {
			res.Unresolved[call.Callee] = append(res.Unresolved[call.Callee], UnresolvedCall{
				Site:     v,
				Callee:   call.Callee,
				Function: callerFn,
			})
			log.Warnf(call.Loc(), "call to undefined function %q", call.Callee)
			continue
		}

		if err := linkCall(g, v, call, target); err != nil {
			log.Errorf(call.Loc(), "%s", err)
			continue
		}
	}

	return res
}

// linkCall wires the call/return/bypass edges for one resolved call site
// v, whose statement is call, targeting callee.
func linkCall(g *graph.Graph, v ir.VertexID, call ir.FunctionCallUnresolved, callee *ir.Function) error {
	fallthroughID, err := uniqueFallthrough(g, v)
	if err != nil {
		return err
	}
	fte := g.Edge(fallthroughID)
	next := fte.To
	wasBackEdge := fte.IsBackEdge

	resolved := ir.NewFunctionCallResolved(call.Loc(), callee, call.Params)
	g.SetStatement(v, resolved)

	g.AddEdge(ir.FunctionCall, v, callee.Entry, v)

	returnID := g.AddEdge(ir.Return, callee.Exit, next, v)
	g.Edge(returnID).IsBackEdge = wasBackEdge

	g.ConvertToBypass(fallthroughID, v)

	return nil
}

// uniqueFallthrough returns the single Fallthrough out-edge of v,
// erroring if there isn't exactly one (spec §4.2 step 2: "error if
// absent").
func uniqueFallthrough(g *graph.Graph, v ir.VertexID) (ir.EdgeID, error) {
	var found ir.EdgeID
	count := 0
	for _, eid := range g.OutEdges(v) {
		if g.Edge(eid).Kind == ir.Fallthrough {
			found = eid
			count++
		}
	}
	if count != 1 {
		return 0, fmt.Errorf("call site has %d fallthrough out-edges, want exactly 1", count)
	}
	return found, nil
}
