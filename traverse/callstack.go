// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package traverse

import "github.com/godoctor/cfgreach/ir"

// callFrame is one level of the inter-procedural call stack: the
// FunctionCallResolved vertex that pushed it (NoCall for the root frame)
// and the callee it entered. color is populated only by the DFS driver,
// giving each call frame a fresh, independent visited map (spec §4.4).
type callFrame struct {
	call   ir.VertexID
	callee *ir.Function
	color  map[ir.VertexID]dfsColor
}

// callStack implements the call-stack discipline shared by both
// drivers: push/pop of call frames plus O(1) recursion detection via a
// refcounted set of callee functions currently active on the stack.
type callStack struct {
	frames []*callFrame
	active map[*ir.Function]int
}

func newCallStack(root *ir.Function) *callStack {
	s := &callStack{active: make(map[*ir.Function]int)}
	s.frames = append(s.frames, &callFrame{call: NoCall, callee: root})
	s.active[root] = 1
	return s
}

func (s *callStack) top() *callFrame { return s.frames[len(s.frames)-1] }

// recursive reports whether callee is already active on the stack —
// the condition under which a driver must take the Bypass edge instead
// of the FunctionCall edge (spec §4.4).
func (s *callStack) recursive(callee *ir.Function) bool {
	return s.active[callee] > 0
}

// push enters a new call frame for callee, originated by call.
func (s *callStack) push(call ir.VertexID, callee *ir.Function) *callFrame {
	f := &callFrame{call: call, callee: callee}
	s.frames = append(s.frames, f)
	s.active[callee]++
	return f
}

// pop leaves the current call frame. It is the caller's responsibility
// to have verified (via matchesTop) that the Return edge being followed
// originated from this frame.
func (s *callStack) pop() {
	f := s.top()
	s.active[f.callee]--
	if s.active[f.callee] == 0 {
		delete(s.active, f.callee)
	}
	s.frames = s.frames[:len(s.frames)-1]
}

// matchesTop reports whether callSite, the recorded originating call of
// a Return edge, equals the call that pushed the current top frame —
// the condition under which that Return edge may be followed (spec
// §4.4: "non-matching Return edges are skipped as if absent").
func (s *callStack) matchesTop(callSite ir.VertexID) bool {
	return len(s.frames) > 1 && s.top().call == callSite
}
