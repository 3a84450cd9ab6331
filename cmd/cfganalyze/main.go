// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// The cfganalyze command builds and analyzes inter-procedural control
// flow graphs for a C/C++ translation unit, evaluating reachability
// constraints and rendering the result as text and GraphViz.
package main

import (
	"os"

	"github.com/godoctor/cfgreach/cli"
)

func main() {
	os.Exit(cli.Run(os.Stdin, os.Stdout, os.Stderr, os.Args))
}
