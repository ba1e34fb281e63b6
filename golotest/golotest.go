// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package golotest defines utilities for testing Golo programs.
//
// It registers the gololang.Testing module, which defines several
// functions useful for testing. Its error function, which reports
// errors to the current Go testing.T, requires that clients call
// SetReporter(thread, t) before use.
//
//	module golotest.Example
//	import gololang.Testing
//
//	function test_division = {
//	  if 7 / 2 != 3 { error("bad division") }
//	  let msg = catch(|| -> 1 / 0)
//	  if not matches("division by zero", msg) { error(msg) }
//	}
package golotest // import "go.golo.dev/golotest"

import (
	"bytes"
	"fmt"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"testing"

	"go.golo.dev/golo"
	"go.golo.dev/internal/chunkedfile"
	_ "go.golo.dev/lib/truth" // gololang.Truth
	"go.golo.dev/resolve"
	"go.golo.dev/syntax"
)

const localKey = "Reporter"

// A Reporter is a value to which errors may be reported.
// It is satisfied by *testing.T.
type Reporter interface {
	Error(args ...interface{})
}

// SetReporter associates an error reporter (such as a testing.T in
// a Go test) with the Golo thread so that Golo programs may
// report errors to it.
func SetReporter(thread *golo.Thread, r Reporter) {
	thread.SetLocal(localKey, r)
}

// GetReporter returns the Golo thread's error reporter.
// It must be preceded by a call to SetReporter.
func GetReporter(thread *golo.Thread) Reporter {
	r, ok := thread.Local(localKey).(Reporter)
	if !ok {
		panic("internal error: golotest.SetReporter was not called")
	}
	return r
}

// Module is the gololang.Testing module.
var Module = golo.NewGoModule("gololang.Testing",
	golo.NewBuiltin("error", 1, false, error_),
	golo.NewBuiltin("catch", 1, false, catch),
	golo.NewBuiltin("matches", 2, false, matches),
)

func init() {
	golo.RegisterModule(Module)
}

// catch(f) evaluates f() and returns its evaluation error message
// if it failed or null if it succeeded.
func catch(thread *golo.Thread, b *golo.Builtin, args []golo.Value) (golo.Value, error) {
	var fn golo.Callable
	if err := golo.UnpackArgs(b.Name(), args, &fn); err != nil {
		return nil, err
	}
	if _, err := golo.Call(thread, fn, nil); err != nil {
		return golo.String(err.Error()), nil
	}
	return golo.None, nil
}

// matches(pattern, str) reports whether string str matches the regular expression pattern.
func matches(thread *golo.Thread, b *golo.Builtin, args []golo.Value) (golo.Value, error) {
	var pattern, str string
	if err := golo.UnpackArgs(b.Name(), args, &pattern, &str); err != nil {
		return nil, err
	}
	ok, err := regexp.MatchString(pattern, str)
	if err != nil {
		return nil, fmt.Errorf("matches: %s", err)
	}
	return golo.Bool(ok), nil
}

// error(x) reports an error to the Go test framework.
func error_(thread *golo.Thread, _ *golo.Builtin, args []golo.Value) (golo.Value, error) {
	var buf bytes.Buffer
	thread.Caller().WriteBacktrace(&buf)
	buf.WriteString("Error: ")
	buf.WriteString(args[0].String())
	GetReporter(thread).Error(buf.String())
	return golo.None, nil
}

// DataFile returns the effective filename of the specified
// test data resource, relative to the root of this module.
var DataFile = func(pkgdir, filename string) string {
	_, file, _, _ := runtime.Caller(0)
	root := filepath.Dir(filepath.Dir(file))
	return filepath.Join(root, pkgdir, filename)
}

// RunTestFile executes each chunk of a chunked file as a module, then
// calls each of its functions whose name starts with "test" and that
// takes no arguments. Evaluation errors are matched against the
// chunk's expectations, by the line of the innermost frame in the
// file.
func RunTestFile(t *testing.T, filename string, newThread func() *golo.Thread) {
	t.Helper()
	for _, chunk := range chunkedfile.Read(filename, t) {
		thread := newThread()
		SetReporter(thread, t)
		m, err := golo.ExecFile(thread, filename, chunk.Source)
		report(t, &chunk, filename, err)
		if m != nil {
			for _, fn := range m.Functions() {
				if strings.HasPrefix(fn.Name, "test") && fn.Arity == 0 && !fn.Varargs {
					_, err := m.Call(thread, fn.Name)
					report(t, &chunk, filename, err)
				}
			}
		}
		chunk.Done()
	}
}

func report(t *testing.T, chunk *chunkedfile.Chunk, filename string, err error) {
	switch err := err.(type) {
	case nil:
		// success
	case *golo.EvalError:
		for _, fr := range err.Stack() {
			posn := fr.Position()
			if posn.Filename() == filename {
				chunk.GotError(int(posn.Line), err.Error())
				return
			}
		}
		t.Error(err.Backtrace())
	case syntax.Error:
		chunk.GotError(int(err.Pos.Line), err.Msg)
	case resolve.ErrorList:
		for _, p := range err {
			chunk.GotError(int(p.Pos.Line), p.Msg)
		}
	default:
		t.Error(err)
	}
}
