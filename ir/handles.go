// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ir

// VertexID is a stable handle identifying one vertex (Statement) in the
// program graph. Handles are assigned sequentially starting at zero and
// never reused, so a dense bitset can be indexed directly by VertexID.
type VertexID int

// EdgeID is a stable handle identifying one edge in the program graph.
type EdgeID int

// Function owns a name, the file it was defined in, and the two
// distinguished vertices (entry, exit) that every built CFG has. The
// self-loop edges are construction artifacts consumed by the Kahn
// traversal's seed (see the traverse package).
type Function struct {
	Name string
	File string

	Entry VertexID
	Exit  VertexID

	EntrySelfLoop EdgeID
	ExitSelfLoop  EdgeID
}
