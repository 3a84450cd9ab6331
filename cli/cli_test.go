// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/godoctor/cfgreach/build"
	"github.com/godoctor/cfgreach/diag"
	"github.com/godoctor/cfgreach/graph"
	"github.com/godoctor/cfgreach/ir"
)

func TestExpandResponseFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "args.rsp")
	if err := os.WriteFile(path, []byte("; a comment\n-Ifoo \"bar baz\"\n\nqux\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := expandResponseFiles([]string{"@" + path, "trailing"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"-Ifoo", "bar baz", "qux", "trailing"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestRunNoSources(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := Run(bytes.NewReader(nil), &stdout, &stderr, []string{"cfganalyze"})
	if code != 1 {
		t.Fatalf("expected exit code 1 with no sources, got %d", code)
	}
}

func TestRunMissingFrontend(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := Run(bytes.NewReader(nil), &stdout, &stderr, []string{
		"cfganalyze", "-frontend", "no-such-frontend-binary-xyz", "t.c",
	})
	if code != 1 {
		t.Fatalf("expected exit code 1 when the front-end binary is missing, got %d", code)
	}
}

// fakeDot writes a stand-in "dot" binary that just touches whatever path
// follows its -o flag, so writeRenderedOutput can be exercised without a
// real GraphViz install.
func fakeDot(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "dot")
	script := "#!/bin/sh\nwhile [ $# -gt 0 ]; do\n  if [ \"$1\" = \"-o\" ]; then shift; touch \"$1\"; fi\n  shift\ndone\n"
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestWriteRenderedOutputWritesPerFunctionDotAndPNG(t *testing.T) {
	g := graph.New()
	log := diag.NewLog()
	resMain := build.BuildFunction(g, log, "main", "t.c", []ir.Statement{ir.NewNoOp(ir.Location{File: "t.c", Line: 1})})
	resHelper := build.BuildFunction(g, log, "helper", "t.c", []ir.Statement{ir.NewNoOp(ir.Location{File: "t.c", Line: 2})})

	outDir := t.TempDir()
	fns := []*ir.Function{resMain.Function, resHelper.Function}
	names := []string{"main", "helper"}

	if err := writeRenderedOutput(context.Background(), outDir, fakeDot(t), g, fns, names); err != nil {
		t.Fatalf("writeRenderedOutput: %v", err)
	}

	for _, name := range names {
		for _, ext := range []string{".dot", ".png"} {
			path := filepath.Join(outDir, name+ext)
			if _, err := os.Stat(path); err != nil {
				t.Errorf("expected %s to exist: %v", path, err)
			}
		}
	}

	index, err := os.ReadFile(filepath.Join(outDir, "index.html"))
	if err != nil {
		t.Fatalf("reading index.html: %v", err)
	}
	for _, name := range names {
		if !strings.Contains(string(index), `href="`+name+`.png"`) {
			t.Errorf("expected index.html to link %s.png, got:\n%s", name, index)
		}
	}
}
