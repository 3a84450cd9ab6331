// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package procrun provides scoped subprocess invocation with guaranteed
// reap, used for both the front-end parser and the GraphViz renderer
// (spec §4.9, §5).
package procrun

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
)

// Run invokes name with args, capturing its standard output into memory
// and returning it. cmd.Wait is called on every return path — including
// context cancellation — so the child process is always reaped, the
// "scoped acquisition of a child process handle" spec.md §5 and §9 call
// for.
func Run(ctx context.Context, name string, args []string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("starting %s: %w", name, err)
	}

	err := cmd.Wait()
	if err != nil {
		return stdout.Bytes(), fmt.Errorf("running %s: %w: %s", name, err, stderr.String())
	}
	return stdout.Bytes(), nil
}
