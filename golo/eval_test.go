// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package golo_test

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"go.golo.dev/golo"
	"go.golo.dev/golotest"
	"go.golo.dev/ir"
	"go.golo.dev/resolve"
)

func TestExecFile(t *testing.T) {
	testdata := golotest.DataFile("golo", ".")
	for _, file := range []string{
		"testdata/control.golo",
		"testdata/errors.golo",
		"testdata/functions.golo",
		"testdata/operators.golo",
		"testdata/values.golo",
	} {
		filename := filepath.Join(testdata, file)
		golotest.RunTestFile(t, filename, func() *golo.Thread {
			return &golo.Thread{
				Name:  file,
				Print: func(*golo.Thread, string) {},
			}
		})
	}
}

// exec compiles and initializes a module, failing the test on error.
func exec(t *testing.T, thread *golo.Thread, src string) *golo.Module {
	t.Helper()
	m, err := golo.ExecFile(thread, "test.golo", src)
	if err != nil {
		reportEvalError(t, err)
	}
	return m
}

func reportEvalError(tb testing.TB, err error) {
	tb.Helper()
	if err, ok := err.(*golo.EvalError); ok {
		tb.Fatal(err.Backtrace())
	}
	tb.Fatal(err)
}

const fibSrc = `
module golotest.Fib

function fib = |n| {
  if n <= 1 {
    return n
  }
  return fib(n - 1) + fib(n - 2)
}
`

func TestFib(t *testing.T) {
	thread := new(golo.Thread)
	m := exec(t, thread, fibSrc)
	for n, want := range map[int]golo.Value{
		0: golo.Int(0),
		1: golo.Int(1),
		5: golo.Int(5),
		7: golo.Int(13),
	} {
		got, err := m.Call(thread, "fib", golo.Int(n))
		require.NoError(t, err)
		require.Equal(t, want, got, "fib(%d)", n)
	}

	got, err := m.Call(thread, "fib", golo.Long(30))
	require.NoError(t, err)
	require.Equal(t, golo.Long(832040), got)
}

// Functions whose operand stack never holds more than one value.
func TestShallowFunctions(t *testing.T) {
	thread := new(golo.Thread)
	m := exec(t, thread, `module golotest.Shallow

function identity = |x| -> x

function nothing = {
}
`)
	got, err := m.Call(thread, "identity", golo.String("x"))
	require.NoError(t, err)
	require.Equal(t, golo.String("x"), got)

	got, err = m.Call(thread, "nothing")
	require.NoError(t, err)
	require.Equal(t, golo.None, got)
}

func classNames(classes []*golo.Class) []string {
	var names []string
	for _, c := range classes {
		names = append(names, c.Name)
	}
	return names
}

func cacheSignatures(site *golo.CallSite) [][]string {
	var sigs [][]string
	for _, e := range site.Entries() {
		sigs = append(sigs, classNames(e.Classes))
	}
	return sigs
}

const addSrc = `
module golotest.Add

function add = |a, b| -> a + b
`

func TestInlineCache(t *testing.T) {
	thread := new(golo.Thread)
	m := exec(t, thread, addSrc)
	require.Len(t, m.CallSites(), 1)
	site := m.CallSites()[0]
	require.Equal(t, ir.Operator, site.Kind)
	require.Equal(t, "plus", site.Name)
	require.Zero(t, site.Lookups())
	require.Empty(t, site.Entries())

	for _, test := range []struct {
		x, y    golo.Value
		want    golo.Value
		lookups int64
	}{
		{golo.Int(1), golo.Int(2), golo.Int(3), 1},
		{golo.Int(3), golo.Int(4), golo.Int(7), 1}, // cache hit
		{golo.String("a"), golo.String("b"), golo.String("ab"), 2},
		{golo.Int(1), golo.Float(0.5), golo.Float(1.5), 3},
		{golo.String("c"), golo.String("d"), golo.String("cd"), 3},
		{golo.Int(-1), golo.Int(1), golo.Int(0), 3},
	} {
		got, err := m.Call(thread, "add", test.x, test.y)
		require.NoError(t, err)
		require.Equal(t, test.want, got, "add(%s, %s)", test.x, test.y)
		require.Equal(t, test.lookups, site.Lookups(), "lookups after add(%s, %s)", test.x, test.y)
	}

	want := [][]string{
		{"Integer", "Integer"},
		{"String", "String"},
		{"Integer", "Double"},
	}
	if diff := cmp.Diff(want, cacheSignatures(site)); diff != "" {
		t.Errorf("cache entries mismatch (-want +got):\n%s", diff)
	}
	require.False(t, site.Megamorphic())
}

const equalsSrc = `
module golotest.Equals

function eq = |a, b| -> a == b
`

func TestMegamorphicCallSite(t *testing.T) {
	thread := new(golo.Thread)
	m := exec(t, thread, equalsSrc)
	site := m.CallSites()[0]

	arr := golo.NewArray(nil)
	pairs := [][2]golo.Value{
		{golo.Int(1), golo.Int(1)},
		{golo.Long(1), golo.Long(1)},
		{golo.Float(1), golo.Float(1)},
		{golo.String("a"), golo.String("a")},
		{golo.True, golo.True},
		{arr, arr},
		{golo.None, golo.None},
		{golo.Int(1), golo.Long(1)},
		{golo.Int(1), golo.Float(1)}, // one signature too many
	}
	for i, pair := range pairs {
		got, err := m.Call(thread, "eq", pair[0], pair[1])
		require.NoError(t, err)
		require.Equal(t, golo.True, got, "eq(%s, %s)", pair[0], pair[1])
		require.Equal(t, int64(i+1), site.Lookups())
	}
	require.True(t, site.Megamorphic())
	require.Len(t, site.Entries(), golo.MaxPolymorphism)

	// Signatures that missed the full cache are looked up on every call.
	_, err := m.Call(thread, "eq", golo.Int(1), golo.Float(1))
	require.NoError(t, err)
	require.Equal(t, int64(len(pairs)+1), site.Lookups())

	// Cached signatures still hit.
	_, err = m.Call(thread, "eq", golo.Int(2), golo.Int(3))
	require.NoError(t, err)
	require.Equal(t, int64(len(pairs)+1), site.Lookups())
}

const spreadSrc = `
module golotest.Spread

function count = |args...| -> args: size()

function countAll = |xs| -> count(xs...)

function pick = |a| -> "one"

function pick = |a, rest...| -> "many"

function pickAll = |xs| -> pick(xs...)
`

func findSite(t *testing.T, m *golo.Module, name string) *golo.CallSite {
	t.Helper()
	for _, s := range m.CallSites() {
		if s.Name == name {
			return s
		}
	}
	t.Fatalf("no call site %s", name)
	return nil
}

func TestSpreadCallSite(t *testing.T) {
	thread := new(golo.Thread)
	m := exec(t, thread, spreadSrc)
	site := findSite(t, m, "count")
	require.True(t, site.Spread)

	for n := 0; n < 20; n++ {
		elems := make([]golo.Value, n)
		for i := range elems {
			elems[i] = golo.Int(i)
		}
		got, err := m.Call(thread, "countAll", golo.NewArray(elems))
		require.NoError(t, err)
		require.Equal(t, golo.Int(n), got)
	}
	// count is the only candidate, so one entry serves every length.
	require.Equal(t, int64(1), site.Lookups())
	require.False(t, site.Megamorphic())
	entries := site.Entries()
	require.Len(t, entries, 1)
	require.Equal(t, 0, entries[0].SpreadLen)
	require.True(t, entries[0].OrLonger)

	_, err := m.Call(thread, "countAll", golo.Int(1))
	require.EqualError(t, err, "function count: spread argument is Integer, want Array")
}

func TestSpreadCallSiteOverloads(t *testing.T) {
	thread := new(golo.Thread)
	m := exec(t, thread, spreadSrc)
	site := findSite(t, m, "pick")

	for _, test := range []struct {
		n    int
		want string
	}{{1, "one"}, {2, "many"}, {3, "many"}, {2, "many"}, {1, "one"}} {
		elems := make([]golo.Value, test.n)
		for i := range elems {
			elems[i] = golo.Int(i)
		}
		got, err := m.Call(thread, "pickAll", golo.NewArray(elems))
		require.NoError(t, err)
		require.Equal(t, golo.String(test.want), got, "length %d", test.n)
	}
	// pick/1 precedes the varargs pick, so the guard includes the length.
	require.Equal(t, int64(3), site.Lookups())
	var lens []int
	for _, e := range site.Entries() {
		require.False(t, e.OrLonger)
		lens = append(lens, e.SpreadLen)
	}
	require.Equal(t, []int{1, 2, 3}, lens)
}

func TestConcurrentCallSites(t *testing.T) {
	m := exec(t, new(golo.Thread), addSrc)

	const n = 16
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			thread := &golo.Thread{Name: fmt.Sprintf("worker %d", i)}
			for j := 0; j < 100; j++ {
				var x, y, want golo.Value = golo.Int(i), golo.Int(j), golo.Int(i + j)
				if (i+j)%2 == 0 {
					x, y, want = golo.String("x"), golo.String("y"), golo.String("xy")
				}
				got, err := m.Call(thread, "add", x, y)
				if err != nil {
					errs[i] = err
					return
				}
				if got != want {
					errs[i] = fmt.Errorf("add(%s, %s) = %s, want %s", x, y, got, want)
					return
				}
			}
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		require.NoError(t, err)
	}

	site := m.CallSites()[0]
	require.Len(t, site.Entries(), 2)
	require.LessOrEqual(t, site.Lookups(), int64(2*n))
}

func TestDispatchError(t *testing.T) {
	const src = `
module golotest.Dispatch

function fib = |n| -> n

function call = |kind| {
  if kind == "function" {
    return fibb(1)
  } else if kind == "arity" {
    return fib(1, 2)
  } else if kind == "method" {
    return array[1]: sise()
  } else if kind == "constructor" {
    return Strin("x")
  } else if kind == "unimported" {
    return Subject()
  } else if kind == "constructor arity" {
    return String(1, 2)
  }
  return "a" - 1
}
`
	thread := new(golo.Thread)
	m := exec(t, thread, src)
	for _, test := range []struct {
		kind string
		want golo.DispatchError
		msg  string
	}{
		{
			"function",
			golo.DispatchError{Kind: ir.PlainFunction, Name: "fibb", Types: []string{"Integer"}, Hint: "fib"},
			"no function fibb matching argument types (Integer) (did you mean fib?)",
		},
		{
			"arity",
			golo.DispatchError{Kind: ir.PlainFunction, Name: "fib", Types: []string{"Integer", "Integer"}},
			"no function fib matching argument types (Integer, Integer)",
		},
		{
			"method",
			golo.DispatchError{Kind: ir.InstanceMethod, Name: "sise", Types: []string{"Array"}, Hint: "size"},
			"no method sise matching argument types (Array) (did you mean size?)",
		},
		{
			"constructor",
			golo.DispatchError{Kind: ir.Constructor, Name: "Strin", Types: []string{"String"}, Hint: "String"},
			"no constructor Strin matching argument types (String) (did you mean String?)",
		},
		{
			"unimported",
			golo.DispatchError{Kind: ir.Constructor, Name: "Subject", Hint: "gololang.truth.Subject"},
			"no constructor Subject matching argument types () (did you mean gololang.truth.Subject?)",
		},
		{
			"constructor arity",
			golo.DispatchError{Kind: ir.Constructor, Name: "String", Types: []string{"Integer", "Integer"}},
			"no constructor String matching argument types (Integer, Integer)",
		},
		{
			"operator",
			golo.DispatchError{Kind: ir.Operator, Name: "minus", Types: []string{"String", "Integer"}},
			"no operator minus matching argument types (String, Integer)",
		},
	} {
		_, err := m.Call(thread, "call", golo.String(test.kind))
		require.Error(t, err, test.kind)
		require.Equal(t, test.msg, err.Error())

		var derr *golo.DispatchError
		require.True(t, errors.As(err, &derr), "%s: %T is not a DispatchError", test.kind, err)
		if diff := cmp.Diff(test.want, *derr); diff != "" {
			t.Errorf("%s: DispatchError mismatch (-want +got):\n%s", test.kind, diff)
		}
	}
}

func TestBacktrace(t *testing.T) {
	// The stack of active functions continues through built-ins
	// such as the invoke method of closures.
	const src = `
module golotest.Crash

function f = |x| { return 1 / x }
function g = |x| { return f(x) }
function h = {
  let k = |x| -> g(x)
  return k(0)
}
`
	thread := new(golo.Thread)
	m := exec(t, thread, src)
	_, err := m.Call(thread, "h")
	require.Error(t, err)

	const want = `Traceback \(most recent call last\):
  test.golo:8:\d+: in h
  <builtin>: in invoke
  test.golo:7:\d+: in <closure>
  test.golo:5:\d+: in g
  test.golo:4:\d+: in f
  <builtin>: in divide\(Integer, Integer\)
Error: division by zero`
	var evalErr *golo.EvalError
	require.True(t, errors.As(err, &evalErr))
	require.Regexp(t, regexp.MustCompile("^"+want+"$"), evalErr.Backtrace())

	// The innermost frame is that of the built-in operator, and
	// Unwrap yields the error it returned.
	require.Equal(t, "divide(Integer, Integer)", evalErr.Frame.Callable().Name())
	require.Equal(t, "division by zero", errors.Unwrap(err).Error())
	require.Len(t, evalErr.Stack(), 6)
}

func TestRaise(t *testing.T) {
	const src = `
module golotest.Raise

function check = |n| {
  require(n oftype Integer, "n must be an Integer")
  if n < 0 {
    raise("negative: " + n)
  }
  return n
}
`
	thread := new(golo.Thread)
	m := exec(t, thread, src)

	_, err := m.Call(thread, "check", golo.Int(-2))
	var raised *golo.RaisedError
	require.True(t, errors.As(err, &raised))
	require.Equal(t, "negative: -2", raised.Msg)

	_, err = m.Call(thread, "check", golo.String("x"))
	require.ErrorIs(t, err, golo.ErrRequirement)
	require.EqualError(t, err, "requirement failed: n must be an Integer")

	got, err := m.Call(thread, "check", golo.Int(3))
	require.NoError(t, err)
	require.Equal(t, golo.Int(3), got)
}

func TestPrint(t *testing.T) {
	const src = `
module golotest.Print

let _ = println("hello", "world")

function f = {
  print("a", 1, null, array[2.0])
  println()
}
`
	buf := new(bytes.Buffer)
	print := func(thread *golo.Thread, text string) {
		fmt.Fprintf(buf, "%s: %q\n", thread.Caller().Callable().Name(), text)
	}
	thread := &golo.Thread{Print: print}
	m := exec(t, thread, src)
	_, err := m.Call(thread, "f")
	require.NoError(t, err)

	want := `<toplevel>: "hello world\n"
f: "a 1 null array[2.0]"
f: "\n"
`
	require.Equal(t, want, buf.String())
}

func TestCancel(t *testing.T) {
	// A thread cancelled before it begins executes no code.
	{
		thread := new(golo.Thread)
		thread.Cancel("nope")
		_, err := golo.ExecFile(thread, "precancel.golo", "module precancel\nlet x = 1 / 0")
		if fmt.Sprint(err) != "Golo computation cancelled: nope" {
			t.Errorf("execution returned error %q, want cancellation", err)
		}

		// cancellation is sticky
		_, err = golo.ExecFile(thread, "precancel.golo", "module precancel\nlet x = 1 / 0")
		if fmt.Sprint(err) != "Golo computation cancelled: nope" {
			t.Errorf("execution returned error %q, want cancellation", err)
		}
	}
	// A thread cancelled during a built-in executes no more code.
	{
		stop := golo.NewGoModule("golotest.Stop",
			golo.NewBuiltin("stopit", 1, false, func(thread *golo.Thread, b *golo.Builtin, args []golo.Value) (golo.Value, error) {
				thread.Cancel(args[0].String())
				return golo.None, nil
			}))
		thread := &golo.Thread{
			Load: func(thread *golo.Thread, name string) (*golo.Module, error) {
				if name == stop.Name {
					return stop, nil
				}
				return golo.LoadModule(thread, name)
			},
		}
		const src = `
module stopit

import golotest.Stop

let msg = "nope"
let _ = stopit(msg)
let x = 1 / 0
`
		_, err := golo.ExecFile(thread, "stopit.golo", src)
		if fmt.Sprint(err) != "Golo computation cancelled: nope" {
			t.Errorf("execution returned error %q, want cancellation", err)
		}
	}
}

func TestSteps(t *testing.T) {
	const src = `
module golotest.Steps

function run = |n| {
  var total = 0
  for (var i = 0, i < n, i = i + 1) {
    total = total + i
  }
  return total
}
`
	// A Thread records the number of instructions executed.
	thread := new(golo.Thread)
	m := exec(t, thread, src)
	countSteps := func(n int) (uint64, error) {
		steps0 := thread.Steps()
		_, err := m.Call(thread, "run", golo.Int(n))
		return thread.Steps() - steps0, err
	}
	steps100, err := countSteps(1000)
	if err != nil {
		t.Errorf("execution failed: %v", err)
	}
	steps10000, err := countSteps(100000)
	if err != nil {
		t.Errorf("execution failed: %v", err)
	}
	if ratio := float64(steps10000) / float64(steps100); ratio < 99 || ratio > 101 {
		t.Errorf("steps did not increase linearly: f(1000)=%d, f(100000)=%d, ratio=%g, want ~100", steps100, steps10000, ratio)
	}

	// Exceeding the step limit causes cancellation.
	thread = new(golo.Thread)
	thread.SetMaxSteps(1000)
	_, err = m.Call(thread, "run", golo.Int(1000))
	if fmt.Sprint(err) != "Golo computation cancelled: too many steps" {
		t.Errorf("execution returned error %q, want cancellation", err)
	}
}

func TestThreadLocal(t *testing.T) {
	thread := new(golo.Thread)
	thread.SetLocal("name", "alice")
	thread.SetLocal("answer", 42)
	require.Equal(t, "alice", thread.Local("name"))
	require.Equal(t, 42, thread.Local("answer"))
	require.Nil(t, thread.Local("missing"))
}

func TestModuleState(t *testing.T) {
	const src = `
module golotest.State

let greeting = "hello"
var count = 0

function bump = {
  count = count + 1
  return count
}
`
	prog, err := golo.Compile("state.golo", src)
	require.NoError(t, err)
	require.Equal(t, "golotest.State", prog.Name())
	require.Equal(t, "state.golo", prog.Filename())

	// Each initialization of a program has its own state.
	thread := new(golo.Thread)
	m1, err := prog.Init(thread)
	require.NoError(t, err)
	m2, err := prog.Init(thread)
	require.NoError(t, err)
	for i := 1; i <= 3; i++ {
		_, err := m1.Call(thread, "bump")
		require.NoError(t, err)
	}
	count, ok := m1.Global("count")
	require.True(t, ok)
	require.Equal(t, golo.Int(3), count)
	count, ok = m2.Global("count")
	require.True(t, ok)
	require.Equal(t, golo.Int(0), count)

	require.Equal(t, []string{"greeting", "count"}, m1.Globals())
	_, ok = m1.Global("missing")
	require.False(t, ok)
}

func TestModuleMetadata(t *testing.T) {
	const src = `
module golotest.Info

import java.util.LinkedList
import gololang.Testing
import java.util.LinkedList

function pub = |a| -> a
local function priv = |a, b...| -> b
function pub = { return null }
`
	thread := new(golo.Thread)
	m := exec(t, thread, src)

	want := []string{"gololang.Predefined", "java.util.LinkedList", "gololang.Testing", "java.util.LinkedList"}
	require.Equal(t, want, m.Imports())

	wantFns := []golo.FunctionInfo{
		{Name: "pub", Arity: 1, Public: true, Static: true},
		{Name: "priv", Arity: 2, Varargs: true, Static: true},
		{Name: "pub", Arity: 0, Public: true, Static: true},
	}
	if diff := cmp.Diff(wantFns, m.Functions()); diff != "" {
		t.Errorf("Functions mismatch (-want +got):\n%s", diff)
	}

	require.Nil(t, golo.Predefined.Imports())
	require.Equal(t, "<module golotest.Info>", m.String())
}

// A loader of Golo modules held in memory.
type memLoader struct {
	sources map[string]string
	loads   []string
}

func (l *memLoader) load(thread *golo.Thread, name string) (*golo.Module, error) {
	src, ok := l.sources[name]
	if !ok {
		return golo.LoadModule(thread, name)
	}
	l.loads = append(l.loads, name)
	return golo.ExecFile(thread, name+".golo", src)
}

func TestLoad(t *testing.T) {
	loader := &memLoader{sources: map[string]string{
		"util": `
module util

function double = |x| -> x * 2
local function hidden = { return 0 }
`,
		"golotest.Strings": `
module golotest.Strings

function shout = |s| -> s: toUpperCase() + "!"
`,
	}}
	const src = `
module main

import util
import golotest.Strings

function test = {
  return array[double(21), util.double(1), shout("hey"), Strings.shout("ho")]
}

function hidden = |x| -> x

function callHidden = {
  return util.hidden()
}
`
	thread := &golo.Thread{Load: loader.load}
	m, err := golo.ExecFile(thread, "main.golo", src)
	require.NoError(t, err)
	require.Equal(t, []string{"util", "golotest.Strings"}, loader.loads)

	got, err := m.Call(thread, "test")
	require.NoError(t, err)
	require.Equal(t, "array[42, 2, HEY!, HO!]", got.String())

	// Local functions of other modules are not visible.
	_, err = m.Call(thread, "callHidden")
	require.EqualError(t, err, "no function util.hidden matching argument types ()")

	// Each module is loaded at most once per thread.
	_, err = golo.ExecFile(thread, "main.golo", src)
	require.NoError(t, err)
	require.Len(t, loader.loads, 2)
}

func TestLoadCycle(t *testing.T) {
	loader := &memLoader{sources: map[string]string{
		"a": "module a\nimport b\nfunction fa = { return 1 }\n",
		"b": "module b\nimport a\nfunction fb = { return 2 }\n",
	}}
	thread := &golo.Thread{Load: loader.load}
	_, err := golo.ExecFile(thread, "main.golo", "module main\nimport a\n")
	require.Error(t, err)
	require.Contains(t, err.Error(), "cycle in import graph at a")
	require.Equal(t, "main: cannot load a: a: cannot load b: b: cannot load a: cycle in import graph at a", err.Error())
}

func TestCompileErrors(t *testing.T) {
	const src = `
module golotest.Broken

function f = |a| {
  let b = a + c
  b = 2
  return d
}
`
	_, err := golo.Compile("broken.golo", src)
	var errs resolve.ErrorList
	require.True(t, errors.As(err, &errs), "got %T, want resolve.ErrorList", err)
	var msgs []string
	for _, e := range errs {
		msgs = append(msgs, fmt.Sprintf("%d: %s", e.Pos.Line, e.Msg))
	}
	require.Len(t, msgs, 3)
	require.Contains(t, msgs[0], "5: undeclared reference c")
	require.Contains(t, msgs[1], "6: cannot reassign constant b")
	require.Contains(t, msgs[2], "7: undeclared reference d")
}

// point is a host type exposed to Golo as golotest.geometry.Point.
type point struct{ x, y int }

var pointClass = golo.NewClass("golotest.geometry.Point", golo.ObjectClass)

func (p *point) String() string     { return fmt.Sprintf("Point(%d, %d)", p.x, p.y) }
func (p *point) Class() *golo.Class { return pointClass }

func init() {
	pointClass.AddConstructor(golo.NewBuiltin("Point", 2, false, func(_ *golo.Thread, b *golo.Builtin, args []golo.Value) (golo.Value, error) {
		p := new(point)
		if err := golo.UnpackArgs(b.Name(), args, &p.x, &p.y); err != nil {
			return nil, err
		}
		return p, nil
	}))
	pointClass.AddMethod(golo.NewBuiltin("x", 1, false, func(_ *golo.Thread, _ *golo.Builtin, args []golo.Value) (golo.Value, error) {
		return golo.Int(args[0].(*point).x), nil
	}))
	// plus is the method the + operator falls back to.
	pointClass.AddMethod(golo.NewBuiltin("plus", 2, false, func(_ *golo.Thread, b *golo.Builtin, args []golo.Value) (golo.Value, error) {
		q, ok := args[1].(*point)
		if !ok {
			return nil, fmt.Errorf("%s: got %s, want Point", b.Name(), args[1].Class())
		}
		p := args[0].(*point)
		return &point{p.x + q.x, p.y + q.y}, nil
	}))
	golo.RegisterClass(pointClass)
}

func TestHostClass(t *testing.T) {
	const src = `
module golotest.Geometry

import golotest.geometry

function test = {
  let p = Point(1, 2)
  let q = golotest.geometry.Point(3, 4)
  return array[p: x(), (p + q): toString(), p oftype Point, p oftype Object, str(p)]
}

function bad = { return Point(1, "2") }
function wrongOperand = { return Point(1, 2) + 1 }
`
	thread := new(golo.Thread)
	m := exec(t, thread, src)
	got, err := m.Call(thread, "test")
	require.NoError(t, err)
	require.Equal(t, "array[1, Point(4, 6), true, true, Point(1, 2)]", got.String())

	_, err = m.Call(thread, "bad")
	require.EqualError(t, err, "Point: for parameter 2: got String, want Integer")

	_, err = m.Call(thread, "wrongOperand")
	require.EqualError(t, err, "plus: got Integer, want Point")
}
