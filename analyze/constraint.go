// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package analyze evaluates "A must never transitively reach B"
// reachability constraints over a linked program graph and reports
// witness chains for any violation found (spec §4.5).
package analyze

import (
	"regexp"

	"github.com/godoctor/cfgreach/diag"
	"github.com/godoctor/cfgreach/ir"
)

// A Constraint is one parsed "name1() -x name2()" rule: Source must
// never transitively reach Sink.
type Constraint struct {
	Source string
	Sink   string
}

var constraintRE = regexp.MustCompile(`^\s*(\w+)\(\)\s*-x\s*(\w+)\(\)\s*$`)

// ParseConstraints parses one constraint per non-blank line of lines.
// Unparseable lines are logged and skipped (spec §4.5, §7).
func ParseConstraints(log *diag.Log, lines []string) []Constraint {
	var out []Constraint
	for i, line := range lines {
		if line == "" {
			continue
		}
		m := constraintRE.FindStringSubmatch(line)
		if m == nil {
			log.Warnf(ir.Location{Line: i + 1}, "unparseable constraint: %q", line)
			continue
		}
		out = append(out, Constraint{Source: m[1], Sink: m[2]})
	}
	return out
}
