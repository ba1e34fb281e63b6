package ir_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"go.golo.dev/ir"
	"go.golo.dev/resolve"
	"go.golo.dev/syntax"
)

func build(t *testing.T, src string) *ir.Module {
	t.Helper()
	f, err := syntax.Parse("test.golo", src)
	require.NoError(t, err)
	require.NoError(t, resolve.File(f))
	m, err := ir.Build(f)
	require.NoError(t, err)
	return m
}

const dumpSrc = `module golotest.Dump

import java.util.LinkedList

let K = 2

function fib = |n| {
  if n <= 1 {
    return n
  }
  return fib(n - 1) + fib(n - 2)
}

local function adder = |a| -> |b| -> a + b

function va = |x, rest...| {
  var acc = array[x, LinkedList()]
  for (var i = 0, i < rest: size(), i = i + 1) {
    if not (rest[i] oftype String) and true {
      acc = f(acc, rest...)
    }
  }
  return acc
}
`

func TestDump(t *testing.T) {
	m := build(t, dumpSrc)
	want := `
module golotest.Dump
import gololang.Predefined
import java.util.LinkedList
state 0 K (module constant)
function <toplevel>/0 public
  let global:K = 2
function fib/1 public
  if #0 (local:n lessorequals 1) {
    return local:n
  }
  return #1 (#2 fib(#3 (local:n minus 1)) plus #4 fib(#5 (local:n minus 2)))
function adder/1 local
  return closure <closure>/1
  function <closure>/1 public free(a)
    return #6 (free:a plus local:b)
function va/2... public
  var local:acc = array[local:x, #7 new LinkedList()]
  for (var local:i = 0, #8 (local:i less #9 local:rest: size()), local:i = #10 (local:i plus 1)) {
    if (#11 (not #12 (#13 local:rest: get(local:i) oftype "String")) and true) {
      local:acc = #14 f(local:acc, local:rest...)
    }
  }
  return local:acc
`
	if diff := cmp.Diff(strings.TrimPrefix(want, "\n"), ir.Dump(m)); diff != "" {
		t.Errorf("Dump mismatch (-want +got):\n%s", diff)
	}
}

func TestCallSites(t *testing.T) {
	m := build(t, dumpSrc)
	type site struct {
		Kind   ir.CallKind
		Name   string
		Argc   int
		Spread bool
	}
	var got []site
	for i, s := range m.CallSites {
		require.Equal(t, i, s.Index)
		got = append(got, site{s.Kind, s.Name, s.Argc, s.Spread})
	}
	want := []site{
		{ir.Operator, "lessorequals", 2, false},
		{ir.Operator, "plus", 2, false},
		{ir.PlainFunction, "fib", 1, false},
		{ir.Operator, "minus", 2, false},
		{ir.PlainFunction, "fib", 1, false},
		{ir.Operator, "minus", 2, false},
		{ir.Operator, "plus", 2, false},
		{ir.Constructor, "LinkedList", 0, false},
		{ir.Operator, "less", 2, false},
		{ir.InstanceMethod, "size", 1, false},
		{ir.Operator, "plus", 2, false},
		{ir.Operator, "not", 1, false},
		{ir.Operator, "oftype", 2, false},
		{ir.InstanceMethod, "get", 2, false},
		{ir.PlainFunction, "f", 2, true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("call sites mismatch (-want +got):\n%s", diff)
	}
}

func TestClosureInvocation(t *testing.T) {
	m := build(t, `module golotest.Closures

function run = {
  let twice = |f, x| -> f(f(x))
  return twice(|y| -> y * 2, 3)
}
`)
	var sites []string
	for _, s := range m.CallSites {
		sites = append(sites, s.String())
	}
	want := []string{
		"#0 method invoke/2",
		"#1 method invoke/2",
		"#2 method invoke/3",
		"#3 operator times/2",
	}
	if diff := cmp.Diff(want, sites); diff != "" {
		t.Errorf("call sites mismatch (-want +got):\n%s", diff)
	}
	run := m.Functions[0]
	require.Len(t, run.Closures, 2)
	require.Equal(t, run, run.Closures[0].Parent)
	require.True(t, run.Closures[0].IsClosure())
}

func TestImportsAndFlags(t *testing.T) {
	m := build(t, `module golotest.execution.ImportsMetaData

import java.util.List
import java.util.LinkedList
import java.util.List

function public_fun = -> 1
local function ignore_me = -> 2
function var_arg_ed = |index, args...| -> args: get(index)
`)
	want := []string{"gololang.Predefined", "java.util.List", "java.util.LinkedList", "java.util.List"}
	if diff := cmp.Diff(want, m.Imports()); diff != "" {
		t.Errorf("imports mismatch (-want +got):\n%s", diff)
	}
	// Imports returns a fresh slice.
	m.Imports()[0] = "mutated"
	require.Equal(t, ir.Predefined, m.Imports()[0])

	type flags struct {
		Name           string
		Public, Static bool
		Arity          int
		Varargs        bool
	}
	var got []flags
	for _, fn := range m.Functions {
		got = append(got, flags{fn.Name, fn.Public(), fn.Static(), fn.Arity(), fn.Varargs})
	}
	wantFlags := []flags{
		{"public_fun", true, true, 0, false},
		{"ignore_me", false, true, 0, false},
		{"var_arg_ed", true, true, 2, true},
	}
	if diff := cmp.Diff(wantFlags, got); diff != "" {
		t.Errorf("function flags mismatch (-want +got):\n%s", diff)
	}
}

func TestBlockScopes(t *testing.T) {
	m := build(t, `module golotest.Scopes

function f = |a| {
  if a {
    let x = 1
  } else {
    let x = 2
  }
  while a {
    a = false
  }
}
`)
	f := m.Functions[0]
	require.Equal(t, resolve.FunctionScope, f.Body.Scope.Kind)
	cond := f.Body.Statements[0].(*ir.ConditionalBranching)
	require.NotSame(t, cond.True.Scope, cond.False.Scope)
	require.Same(t, f.Body.Scope, cond.True.Scope.Parent)
	require.True(t, cond.True.Scope.Closed())
	loop := f.Body.Statements[1].(*ir.LoopStatement)
	require.Nil(t, loop.Init)
	require.Equal(t, resolve.BlockScope, loop.Body.Scope.Kind)
}

func TestBuildUnresolved(t *testing.T) {
	f, err := syntax.Parse("test.golo", "module m\nfunction f = { return x }\n")
	require.NoError(t, err)
	_, err = ir.Build(f)
	require.Error(t, err)

	require.Error(t, resolve.File(f))
	_, err = ir.Build(f)
	require.ErrorContains(t, err, "unresolved reference x")
}

func TestIsConstructorName(t *testing.T) {
	for name, want := range map[string]bool{
		"LinkedList":                  true,
		"java.util.LinkedList":        true,
		"fib":                         false,
		"java.lang.Math.abs":          false,
		"gololang.Predefined.println": false,
	} {
		if got := ir.IsConstructorName(name); got != want {
			t.Errorf("IsConstructorName(%q) = %t, want %t", name, got, want)
		}
	}
}
