// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package chunkedfile reads the golden files of Golo tests, which check
// that errors are reported in the appropriate places.
//
// A chunked file holds several Golo modules separated by "---" lines.
// Each chunk is an input to the program under test: the resolver, or
// the evaluator. Text after "###" on a line is a Go string literal
// holding a regular expression that an error reported at that line must
// match. A line may expect several errors:
//
//	module m
//	function f = { return x + y } ### "undeclared reference x" ### "undeclared reference y"
//	---
//	# option:noshadow
//	module m
//	function f = { let x = 1 x = 2 } ### "cannot reassign constant x"
//
// A "# option:NAME" comment sets the option NAME of its chunk, such
// as a dialect flag of the resolver.
//
// A client test feeds each chunk into the program under test, calls
// GotError for each error that occurred, then Done. Discrepancies are
// reported to the client's Reporter, typically a *testing.T.
package chunkedfile // import "go.golo.dev/internal/chunkedfile"

import (
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// A Chunk is one module of a chunked file, with its expected errors.
type Chunk struct {
	// Source is the text of the chunk, preceded by enough newlines
	// that its line numbers are those of the file.
	Source  string
	Options map[string]bool

	filename string
	report   Reporter
	want     map[int][]*regexp.Regexp // by line, in order of appearance
}

// Reporter is implemented by *testing.T.
type Reporter interface {
	Errorf(format string, args ...interface{})
}

var optionRx = regexp.MustCompile(`^\s*#\s*option:(\w+)\s*$`)

// Read parses a chunked file and returns its chunks.
// It reports malformed expectations using the reporter.
//
// Messages start with a newline, so that the "file.golo:line:" prefix
// does not follow the Go position added by (*testing.T).Errorf.
func Read(filename string, report Reporter) []Chunk {
	data, err := os.ReadFile(filename)
	if err != nil {
		report.Errorf("%s", err)
		return nil
	}
	return readBytes(filename, data, report)
}

func readBytes(filename string, data []byte, report Reporter) []Chunk {
	text := strings.ReplaceAll(string(data), "\r\n", "\n")

	var chunks []Chunk
	linenum := 1
	for _, src := range strings.Split(text, "\n---\n") {
		chunk := Chunk{
			Source:   strings.Repeat("\n", linenum-1) + src,
			Options:  make(map[string]bool),
			filename: filename,
			report:   report,
			want:     make(map[int][]*regexp.Regexp),
		}
		for _, line := range strings.Split(src, "\n") {
			if m := optionRx.FindStringSubmatch(line); m != nil {
				chunk.Options[m[1]] = true
			}
			for _, rx := range expectations(filename, linenum, line, report) {
				chunk.want[linenum] = append(chunk.want[linenum], rx)
			}
			linenum++
		}
		linenum++ // the "---" line
		chunks = append(chunks, chunk)
	}
	return chunks
}

// expectations returns the patterns following "###" markers on a line.
func expectations(filename string, linenum int, line string, report Reporter) []*regexp.Regexp {
	var res []*regexp.Regexp
	parts := strings.Split(line, "###")
	for _, part := range parts[1:] {
		lit := strings.TrimSpace(part)
		pattern, err := strconv.Unquote(lit)
		if err != nil {
			report.Errorf("\n%s:%d: not a quoted regexp: %s", filename, linenum, lit)
			continue
		}
		rx, err := regexp.Compile(pattern)
		if err != nil {
			report.Errorf("\n%s:%d: %v", filename, linenum, err)
			continue
		}
		res = append(res, rx)
	}
	return res
}

// GotError records an error reported at a line of the chunk. It
// consumes the first expectation of that line that msg matches, and
// reports an error that the line does not expect.
func (chunk *Chunk) GotError(linenum int, msg string) {
	want := chunk.want[linenum]
	if len(want) == 0 {
		chunk.report.Errorf("\n%s:%d: unexpected error: %v", chunk.filename, linenum, msg)
		return
	}
	i := 0
	for i < len(want) && !want[i].MatchString(msg) {
		i++
	}
	if i == len(want) {
		i = 0
		chunk.report.Errorf("\n%s:%d: error %q does not match pattern %q", chunk.filename, linenum, msg, want[0])
	}
	chunk.want[linenum] = append(want[:i:i], want[i+1:]...)
	if len(chunk.want[linenum]) == 0 {
		delete(chunk.want, linenum)
	}
}

// Done reports the expected errors that did not occur, by line.
func (chunk *Chunk) Done() {
	lines := make([]int, 0, len(chunk.want))
	for linenum := range chunk.want {
		lines = append(lines, linenum)
	}
	sort.Ints(lines)
	for _, linenum := range lines {
		for _, rx := range chunk.want[linenum] {
			chunk.report.Errorf("\n%s:%d: expected error matching %q", chunk.filename, linenum, rx)
		}
	}
}
