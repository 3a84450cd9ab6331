// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package render

import (
	"fmt"
	"io"
	"sort"

	"github.com/godoctor/cfgreach/graph"
	"github.com/godoctor/cfgreach/ir"
)

// WriteDot emits a single function's CFG as a digraph, named after the
// function, with vertices and edges carrying their Statement/Edge dot
// attributes and back edges rendered dashed (spec §4.6). Per spec.md
// §6, each rendered function gets its own "<name>.dot" file — callers
// render one function per call rather than passing a whole program.
func WriteDot(w io.Writer, g *graph.Graph, fn *ir.Function) {
	fmt.Fprintf(w, "digraph %q {\n", fn.Name)

	for _, v := range g.VerticesOf(fn) {
		stmt := g.Statement(v)
		fmt.Fprintf(w, "  v%d [label=%q shape=%s color=%s];\n",
			v, stmt.DotLabel(), stmt.DotShape(), stmt.DotColor())
	}
	for _, v := range g.VerticesOf(fn) {
		for _, eid := range g.OutEdges(v) {
			e := g.Edge(eid)
			fmt.Fprintf(w, "  v%d -> v%d [label=%q color=%s style=%s];\n",
				e.From, e.To, e.Kind.String(), e.Kind.DotColor(), e.DotStyle())
		}
	}
	fmt.Fprintln(w, "}")
}

// WriteIndex emits a minimal index.html linking each rendered function's
// image, listed in sorted name order whatever the order given.
func WriteIndex(w io.Writer, names []string) {
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)

	fmt.Fprintln(w, "<!DOCTYPE html><html><body><ul>")
	for _, name := range sorted {
		fmt.Fprintf(w, "<li><a href=%q>%s</a></li>\n", name+".png", name)
	}
	fmt.Fprintln(w, "</ul></body></html>")
}
