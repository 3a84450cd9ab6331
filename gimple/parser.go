// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gimple scans the ".coflo.gimple" dump produced by the
// reference front-end (spec §6) into per-function statement lists. The
// grammar is line-oriented and table-driven: one parse function per
// statement keyword, dispatched from a map — the same shape as the
// teacher's per-statement-kind switch in extras/cfg's buildStmt, just
// keyed by a textual keyword instead of an *ast.Stmt's dynamic type.
package gimple

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/godoctor/cfgreach/diag"
	"github.com/godoctor/cfgreach/ir"
)

// A Function is one parsed function: its name, the location of its
// "FUNCTION" header record, and its ordered statement list.
type Function struct {
	Name string
	Loc  ir.Location
	Body []ir.Statement
}

type stmtParser func(file string, fields []string) (ir.Statement, error)

var dispatch = map[string]stmtParser{
	"NOOP":     parseNoOp,
	"LABEL":    parseLabel,
	"GOTO":     parseGoto,
	"IF":       parseIf,
	"SWITCH":   parseSwitch,
	"CASE":     parseCase,
	"RETURN":   parseReturn,
	"CALL":     parseCall,
}

// Parse scans r, a full ".coflo.gimple" dump, returning every function
// it could parse. Malformed records are logged and the function they
// belong to is dropped (an input error per spec §7, non-fatal to the
// overall run).
func Parse(r io.Reader, filename string, log *diag.Log) []Function {
	scanner := bufio.NewScanner(r)

	var functions []Function
	var current *Function
	var bad bool
	line := 0

	flush := func() {
		if current != nil && !bad {
			functions = append(functions, *current)
		}
		current = nil
		bad = false
	}

	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, ";") {
			continue
		}
		fields := strings.Fields(text)
		keyword := fields[0]

		if keyword == "FUNCTION" {
			flush()
			if len(fields) < 3 {
				log.Errorf(ir.Location{File: filename, Line: line}, "malformed FUNCTION record: %q", text)
				bad = true
				continue
			}
			loc := parseLoc(filename, fields[2])
			current = &Function{Name: fields[1], Loc: loc}
			continue
		}
		if keyword == "ENDFUNCTION" {
			flush()
			continue
		}
		if current == nil {
			log.Errorf(ir.Location{File: filename, Line: line}, "statement record outside of any FUNCTION: %q", text)
			continue
		}
		if bad {
			continue
		}

		parse, ok := dispatch[keyword]
		if !ok {
			log.Errorf(ir.Location{File: filename, Line: line}, "unrecognized statement keyword %q", keyword)
			bad = true
			continue
		}
		stmt, err := parse(filename, fields)
		if err != nil {
			log.Errorf(ir.Location{File: filename, Line: line}, "malformed %s record: %v", keyword, err)
			bad = true
			continue
		}
		current.Body = append(current.Body, stmt)
	}
	flush()

	return functions
}

// parseLoc parses a "path:line" or "path:line:col" token, falling back
// to filename/0 if it can't be parsed (diagnostics still need to point
// somewhere).
func parseLoc(filename, tok string) ir.Location {
	parts := strings.Split(tok, ":")
	loc := ir.Location{File: filename}
	if len(parts) >= 1 && parts[0] != "" {
		loc.File = parts[0]
	}
	if len(parts) >= 2 {
		if n, err := strconv.Atoi(parts[1]); err == nil {
			loc.Line = n
		}
	}
	if len(parts) >= 3 {
		if n, err := strconv.Atoi(parts[2]); err == nil {
			loc.Column = n
		}
	}
	return loc
}

func requireFields(fields []string, n int) error {
	if len(fields) < n {
		return fmt.Errorf("expected at least %d fields, got %d", n, len(fields))
	}
	return nil
}

func parseNoOp(file string, f []string) (ir.Statement, error) {
	if err := requireFields(f, 2); err != nil {
		return nil, err
	}
	return ir.NewNoOp(parseLoc(file, f[len(f)-1])), nil
}

func parseLabel(file string, f []string) (ir.Statement, error) {
	if err := requireFields(f, 3); err != nil {
		return nil, err
	}
	return ir.NewLabel(parseLoc(file, f[len(f)-1]), f[1]), nil
}

func parseGoto(file string, f []string) (ir.Statement, error) {
	if err := requireFields(f, 3); err != nil {
		return nil, err
	}
	return ir.NewGotoUnlinked(parseLoc(file, f[len(f)-1]), f[1]), nil
}

// IF <cond> true=<label> false=<label> <loc>
func parseIf(file string, f []string) (ir.Statement, error) {
	if err := requireFields(f, 4); err != nil {
		return nil, err
	}
	var trueT, falseT string
	for _, field := range f[2 : len(f)-1] {
		if v, ok := strings.CutPrefix(field, "true="); ok {
			trueT = v
		} else if v, ok := strings.CutPrefix(field, "false="); ok {
			falseT = v
		}
	}
	if trueT == "" || falseT == "" {
		return nil, fmt.Errorf("missing true=/false= target")
	}
	return ir.NewIfUnlinked(parseLoc(file, f[len(f)-1]), f[1], trueT, falseT), nil
}

// SWITCH <case1>=<label1> <case2>=<label2> ... <loc>
func parseSwitch(file string, f []string) (ir.Statement, error) {
	if err := requireFields(f, 2); err != nil {
		return nil, err
	}
	var cases []ir.SwitchCase
	for _, field := range f[1 : len(f)-1] {
		parts := strings.SplitN(field, "=", 2)
		if len(parts) != 2 {
			continue
		}
		label := parts[0]
		if label == "default" {
			label = ""
		}
		cases = append(cases, ir.SwitchCase{Label: label, Target: parts[1]})
	}
	return ir.NewSwitchUnlinked(parseLoc(file, f[len(f)-1]), cases), nil
}

func parseCase(file string, f []string) (ir.Statement, error) {
	if err := requireFields(f, 3); err != nil {
		return nil, err
	}
	return ir.NewCaseUnlinked(parseLoc(file, f[len(f)-1]), f[1]), nil
}

func parseReturn(file string, f []string) (ir.Statement, error) {
	if err := requireFields(f, 2); err != nil {
		return nil, err
	}
	return ir.NewReturnUnlinked(parseLoc(file, f[len(f)-1])), nil
}

// CALL <callee> [param...] <loc>
func parseCall(file string, f []string) (ir.Statement, error) {
	if err := requireFields(f, 3); err != nil {
		return nil, err
	}
	callee := f[1]
	params := append([]string(nil), f[2:len(f)-1]...)
	return ir.NewFunctionCallUnresolved(parseLoc(file, f[len(f)-1]), callee, params), nil
}
