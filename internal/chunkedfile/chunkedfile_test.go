// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chunkedfile

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

type testReporter struct {
	reported []string
}

func (r *testReporter) Errorf(format string, args ...interface{}) {
	r.reported = append(r.reported, fmt.Sprintf(format, args...))
}

func (r *testReporter) take() []string {
	res := r.reported
	r.reported = nil
	return res
}

const data = `module m
function f = { return x + y } ### "undeclared reference x" ### "undeclared reference y"
---
# option:noshadow
module m
function f = { return 1 }
`

func TestChunkedFile(t *testing.T) {
	reporter := new(testReporter)
	chunks := readBytes("test.golo", []byte(data), reporter)
	require.Empty(t, reporter.take())
	require.Len(t, chunks, 2)

	chunk := chunks[0]
	require.Equal(t, "module m\nfunction f = { return x + y } ### \"undeclared reference x\" ### \"undeclared reference y\"", chunk.Source)
	require.Empty(t, chunk.Options)
	require.Len(t, chunk.want[2], 2)

	// Expectations of a line match in any order.
	chunk.GotError(2, "undeclared reference y")
	chunk.GotError(2, "undeclared reference x")
	require.Empty(t, reporter.take())
	require.Empty(t, chunk.want)

	chunk.GotError(2, "undeclared reference x")
	require.Equal(t, []string{"\ntest.golo:2: unexpected error: undeclared reference x"}, reporter.take())
	chunk.Done()
	require.Empty(t, reporter.take())

	// The second chunk keeps the line numbers of the file.
	chunk = chunks[1]
	require.Equal(t, "\n\n\n# option:noshadow\nmodule m\nfunction f = { return 1 }\n", chunk.Source)
	require.Equal(t, map[string]bool{"noshadow": true}, chunk.Options)
	require.Empty(t, chunk.want)
	chunk.GotError(6, "foobar")
	require.Equal(t, []string{"\ntest.golo:6: unexpected error: foobar"}, reporter.take())
}

func TestMismatchAndMissing(t *testing.T) {
	reporter := new(testReporter)
	chunks := readBytes("test.golo", []byte("a ### \"x\"\r\nb ### \"y\"\r\nc ### \"z\"\r\n"), reporter)
	require.Len(t, chunks, 1)
	chunk := chunks[0]

	chunk.GotError(2, "w")
	require.Equal(t, []string{"\ntest.golo:2: error \"w\" does not match pattern \"y\""}, reporter.take())

	chunk.Done()
	require.Equal(t, []string{
		"\ntest.golo:1: expected error matching \"x\"",
		"\ntest.golo:3: expected error matching \"z\"",
	}, reporter.take())
}

func TestMalformedExpectations(t *testing.T) {
	reporter := new(testReporter)
	readBytes("test.golo", []byte("a ### x\nb ### \"(\"\n"), reporter)
	got := reporter.take()
	require.Len(t, got, 2)
	require.Equal(t, "\ntest.golo:1: not a quoted regexp: x", got[0])
	require.Contains(t, got[1], "test.golo:2: error parsing regexp")
}
