// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// This file defines the Log struct and associated methods. Every stage of
// analysis — parsing, building, linking, analyzing — appends to a single
// Log, which collects informational messages, warnings, and errors raised
// along the way. If the log is nonempty, it should be displayed to the
// user once the run completes; an Error entry does not by itself abort
// the run (§7 — construction proceeds on a best-effort basis).
package diag

import (
	"bytes"
	"fmt"

	"github.com/godoctor/cfgreach/ir"
)

// A Severity indicates whether a log entry describes an informational
// message, a warning, or an error.
type Severity int

const (
	Info    Severity = iota // informational message
	Warning                 // something to be cautious of
	Error                   // the graph is, or might be, malformed at this point
)

func (s Severity) String() string {
	switch s {
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return "info"
	}
}

// An Entry is a single entry in a Log: a severity, a message, and the
// source location it pertains to, if any. A zero Location (empty File)
// means the entry isn't associated with a particular point in the input.
type Entry struct {
	Severity Severity
	Message  string
	Loc      ir.Location
}

// String renders the entry as "path:line[:col]: <level>: <message>", or
// just "<level>: <message>" when Loc has no associated file.
func (e *Entry) String() string {
	var buf bytes.Buffer
	if e.Loc.File != "" {
		buf.WriteString(e.Loc.String())
		buf.WriteString(": ")
	}
	buf.WriteString(e.Severity.String())
	buf.WriteString(": ")
	buf.WriteString(e.Message)
	return buf.String()
}

// A Log accumulates Entries in the order they were logged.
type Log struct {
	Entries []*Entry
}

// NewLog returns a new Log with no entries.
func NewLog() *Log {
	return &Log{}
}

// Clear removes all Entries from the log.
func (log *Log) Clear() {
	log.Entries = nil
}

// Infof appends an informational entry associated with loc.
func (log *Log) Infof(loc ir.Location, format string, v ...interface{}) {
	log.log(Info, loc, format, v...)
}

// Warnf appends a warning entry associated with loc.
func (log *Log) Warnf(loc ir.Location, format string, v ...interface{}) {
	log.log(Warning, loc, format, v...)
}

// Errorf appends an error entry associated with loc.
func (log *Log) Errorf(loc ir.Location, format string, v ...interface{}) {
	log.log(Error, loc, format, v...)
}

func (log *Log) log(severity Severity, loc ir.Location, format string, v ...interface{}) {
	log.Entries = append(log.Entries, &Entry{
		Severity: severity,
		Message:  fmt.Sprintf(format, v...),
		Loc:      loc,
	})
}

// ContainsErrors returns true if the log contains at least one Error entry.
func (log *Log) ContainsErrors() bool {
	for _, e := range log.Entries {
		if e.Severity == Error {
			return true
		}
	}
	return false
}

func (log *Log) String() string {
	var buf bytes.Buffer
	for _, e := range log.Entries {
		buf.WriteString(e.String())
		buf.WriteString("\n")
	}
	return buf.String()
}
