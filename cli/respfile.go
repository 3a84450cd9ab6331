// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/kballard/go-shellquote"
)

// expandResponseFiles walks args, replacing any "@file" argument with
// the whitespace-separated, quote-aware tokens of that file's non-blank,
// non-comment (";"-prefixed) lines (spec §6). Expansion is recursive: a
// response file may itself contain "@other" arguments.
func expandResponseFiles(args []string) ([]string, error) {
	var out []string
	for _, arg := range args {
		path, ok := strings.CutPrefix(arg, "@")
		if !ok {
			out = append(out, arg)
			continue
		}

		tokens, err := readResponseFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading response file %s: %w", path, err)
		}
		expanded, err := expandResponseFiles(tokens)
		if err != nil {
			return nil, err
		}
		out = append(out, expanded...)
	}
	return out, nil
}

func readResponseFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var tokens []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, ";") {
			continue
		}
		fields, err := shellquote.Split(line)
		if err != nil {
			return nil, fmt.Errorf("tokenizing line %q: %w", line, err)
		}
		tokens = append(tokens, fields...)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return tokens, nil
}
