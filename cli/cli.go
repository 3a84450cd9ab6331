// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cli is the command-line driver: flag parsing, response-file
// expansion, and orchestration of parse -> build -> link -> analyze ->
// render (spec §6).
package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/godoctor/cfgreach/analyze"
	"github.com/godoctor/cfgreach/build"
	"github.com/godoctor/cfgreach/diag"
	"github.com/godoctor/cfgreach/gimple"
	"github.com/godoctor/cfgreach/graph"
	"github.com/godoctor/cfgreach/ir"
	"github.com/godoctor/cfgreach/link"
	"github.com/godoctor/cfgreach/procrun"
	"github.com/godoctor/cfgreach/render"
)

const useHelp = "Run 'cfganalyze -help' for more information.\n"

// Run runs the cfganalyze command-line interface. Typical usage is
//
//	os.Exit(cli.Run(os.Stdin, os.Stdout, os.Stderr, os.Args))
//
// All arguments must be non-nil, and args[0] is required.
func Run(stdin io.Reader, stdout, stderr io.Writer, args []string) int {
	expanded, err := expandResponseFiles(args[1:])
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	var passthrough, rest []string
	for _, a := range expanded {
		if strings.HasPrefix(a, "-D") || strings.HasPrefix(a, "-I") {
			passthrough = append(passthrough, a)
		} else {
			rest = append(rest, a)
		}
	}

	flags := flag.NewFlagSet("cfganalyze", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.Usage = func() { fmt.Fprint(stderr, useHelp) }

	outDir := flags.String("o", ".", "output directory for rendered CFGs")
	frontend := flags.String("frontend", "cfg-frontend", "front-end binary producing the gimple dump")
	dotBin := flags.String("dot", "dot", "GraphViz renderer binary")
	verbose := flags.Bool("v", false, "verbose text rendering (print every statement, not just calls and decisions)")
	showIDs := flags.Bool("ids", false, "show vertex ids in text rendering")

	var constraints []string
	flags.Func("c", `reachability constraint "name1() -x name2()" (repeatable)`, func(v string) error {
		constraints = append(constraints, v)
		return nil
	})

	if err := flags.Parse(rest); err != nil {
		if err == flag.ErrHelp {
			return 2
		}
		return 1
	}

	sources := flags.Args()
	if len(sources) == 0 {
		fmt.Fprintln(stderr, "no source files given")
		flags.Usage()
		return 1
	}

	ctx := context.Background()
	log := diag.NewLog()
	g := graph.New()
	functions := make(map[string]*ir.Function)
	var callSites []ir.VertexID

	for _, src := range sources {
		dumpPath, err := runFrontend(ctx, *frontend, passthrough, src)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}

		f, err := os.Open(dumpPath)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		fns := gimple.Parse(f, dumpPath, log)
		f.Close()

		for _, fn := range fns {
			res := build.BuildFunction(g, log, fn.Name, dumpPath, fn.Body)
			functions[fn.Name] = res.Function
			for _, v := range g.VerticesOf(res.Function) {
				if _, ok := g.Statement(v).(ir.FunctionCallUnresolved); ok {
					callSites = append(callSites, v)
				}
			}
		}
	}

	linkRes := link.Link(g, log, functions, callSites)
	for callee, sites := range linkRes.Unresolved {
		fmt.Fprintf(stderr, "unresolved call to %s (%d call site(s))\n", callee, len(sites))
	}

	for _, c := range analyze.ParseConstraints(log, constraints) {
		if v := analyze.Evaluate(g, log, functions, c); v != nil {
			for _, line := range analyze.FormatWitness(g, v) {
				fmt.Fprintln(stdout, line)
			}
		} else {
			fmt.Fprintln(stdout, analyze.NoViolation(c))
		}
	}

	opts := render.Options{Verbose: *verbose, ShowIDs: *showIDs}
	var names []string
	var fnList []*ir.Function
	for name, fn := range functions {
		names = append(names, name)
		fnList = append(fnList, fn)
	}
	sort.Strings(names)
	sort.Slice(fnList, func(i, j int) bool { return fnList[i].Name < fnList[j].Name })
	for _, name := range names {
		render.WriteText(stdout, g, functions[name], opts)
	}

	if err := writeRenderedOutput(ctx, *outDir, *dotBin, g, fnList, names); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	for _, entry := range log.Entries {
		fmt.Fprintln(stderr, entry.String())
	}

	if log.ContainsErrors() {
		return 1
	}
	return 0
}

func runFrontend(ctx context.Context, frontend string, passthrough []string, src string) (string, error) {
	args := append(append([]string(nil), passthrough...), "--dump-gimple", src)
	if _, err := procrun.Run(ctx, frontend, args); err != nil {
		return "", fmt.Errorf("front-end failed on %s: %w", src, err)
	}
	base := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	return base + ".coflo.gimple", nil
}

// writeRenderedOutput writes one "<name>.dot"/"<name>.png" pair per
// function into outDir, plus an index.html linking them all, per spec.md
// §6: "GraphViz files to <out_dir>/<function>.dot, compiled to .png; an
// index.html linking each rendered function."
func writeRenderedOutput(ctx context.Context, outDir, dotBin string, g *graph.Graph, fns []*ir.Function, names []string) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}

	for _, fn := range fns {
		dotPath := filepath.Join(outDir, fn.Name+".dot")
		dotFile, err := os.Create(dotPath)
		if err != nil {
			return err
		}
		render.WriteDot(dotFile, g, fn)
		dotFile.Close()

		pngPath := filepath.Join(outDir, fn.Name+".png")
		if _, err := procrun.Run(ctx, dotBin, []string{"-o", pngPath, "-Tpng", dotPath}); err != nil {
			return fmt.Errorf("rendering %s: %w", pngPath, err)
		}
	}

	indexFile, err := os.Create(filepath.Join(outDir, "index.html"))
	if err != nil {
		return err
	}
	render.WriteIndex(indexFile, names)
	indexFile.Close()

	return nil
}
