// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resolve_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"go.golo.dev/golotest"
	"go.golo.dev/internal/chunkedfile"
	"go.golo.dev/resolve"
	"go.golo.dev/syntax"
)

func setOptions(options map[string]bool) {
	resolve.AllowParamAssign = !options["noparamassign"]
	resolve.AllowShadowing = !options["noshadow"]
}

func TestResolve(t *testing.T) {
	defer setOptions(nil)
	filename := golotest.DataFile("resolve", "testdata/resolve.golo")
	for _, chunk := range chunkedfile.Read(filename, t) {
		f, err := syntax.Parse(filename, chunk.Source)
		if err != nil {
			t.Error(err)
			continue
		}

		// A chunk may set options with e.g. "# option:noshadow".
		setOptions(chunk.Options)

		if err := resolve.File(f); err != nil {
			for _, p := range err.(resolve.ErrorList) {
				chunk.GotError(int(p.Pos.Line), p.Msg)
			}
		}
		chunk.Done()
	}
}

func resolveSource(t *testing.T, src string) (*syntax.File, resolve.ErrorList) {
	t.Helper()
	f, err := syntax.Parse("test.golo", src)
	require.NoError(t, err)
	if err := resolve.File(f); err != nil {
		return f, err.(resolve.ErrorList)
	}
	return f, nil
}

func TestUndeclaredRead(t *testing.T) {
	_, errs := resolveSource(t, `module golotest.UndeclaredReference

function main = {
  let x = 1 + bar
  return x
}
`)
	require.Len(t, errs, 1)
	p := errs[0]
	require.Equal(t, resolve.UndeclaredReference, p.Type)
	id, ok := p.Source.(*syntax.Ident)
	require.True(t, ok, "source is %T, want *syntax.Ident", p.Source)
	require.Equal(t, "bar", id.Name)
	require.Equal(t, int32(4), p.Pos.Line)
	require.Equal(t, int32(15), p.Pos.Col)
}

func TestUndeclaredAssignment(t *testing.T) {
	_, errs := resolveSource(t, `module golotest.UndeclaredAssignment

function main = {
  let x = 1
  y = x
}
`)
	require.Len(t, errs, 1)
	p := errs[0]
	require.Equal(t, resolve.UndeclaredReference, p.Type)
	require.IsType(t, (*syntax.AssignStmt)(nil), p.Source)
	require.Equal(t, int32(5), p.Pos.Line)
	require.Equal(t, int32(3), p.Pos.Col)
}

func TestAssignConstant(t *testing.T) {
	_, errs := resolveSource(t, `module golotest.AssignToConstant

function main = {
  var bar = 1
  let foo = 2
  bar = 3
  foo = 4
}
`)
	require.Len(t, errs, 1)
	p := errs[0]
	require.Equal(t, resolve.AssignConstant, p.Type)
	stmt, ok := p.Source.(*syntax.AssignStmt)
	require.True(t, ok, "source is %T, want *syntax.AssignStmt", p.Source)
	require.Equal(t, "foo", stmt.Name.Name)
	require.Equal(t, int32(7), p.Pos.Line)
	require.Equal(t, int32(3), p.Pos.Col)
	require.NotNil(t, p.Ref)
	require.Equal(t, "foo", p.Ref.Name)
	require.Equal(t, int32(5), p.Ref.Pos.Line)
}

func TestInvalidScope(t *testing.T) {
	_, errs := resolveSource(t, `module golotest.WrongScope

function main = |args| {
  if true {
    let a = 1
  }
  return a
}
`)
	require.Len(t, errs, 1)
	require.Equal(t, resolve.InvalidScope, errs[0].Type)
}

// All problems are reported, in order of position.
func TestProblemsAccumulate(t *testing.T) {
	_, errs := resolveSource(t, `module golotest.Many

let K = 1

function f = |a| {
  K = 2
  b = a
  if a { let c = 1 }
  return c + d
}

function f = |x| -> x
`)
	type summary struct {
		Type resolve.ProblemType
		Line int32
	}
	var got []summary
	for _, p := range errs {
		got = append(got, summary{p.Type, p.Pos.Line})
	}
	want := []summary{
		{resolve.AssignConstant, 6},
		{resolve.UndeclaredReference, 7},
		{resolve.InvalidScope, 9},
		{resolve.UndeclaredReference, 9},
		{resolve.DuplicateDeclaration, 12},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("problems mismatch (-want +got):\n%s", diff)
	}
	if got := errs.Error(); !strings.HasSuffix(got, "(and 4 more errors)") {
		t.Errorf("ErrorList.Error() = %q", got)
	}
	if n := len(errs.Filter(resolve.UndeclaredReference)); n != 2 {
		t.Errorf("got %d undeclared references, want 2", n)
	}
}

func TestBindings(t *testing.T) {
	f, errs := resolveSource(t, `module golotest.Closures

var g = 0

function adder = |a| {
  let b = 1
  return |c| -> |d| -> a + b + c + d + g
}
`)
	require.Nil(t, errs)

	mod := f.Toplevel.(*resolve.Module)
	require.Len(t, mod.Globals, 1)
	require.Equal(t, resolve.ModuleState, mod.Globals[0].Kind)

	decl := f.Decls[1].(*syntax.FunctionDecl)
	adder := decl.Function.(*resolve.Function)
	outerExpr := decl.Body[1].(*syntax.ReturnStmt).Result.(*syntax.FuncExpr)
	outer := outerExpr.Function.(*resolve.Function)
	innerExpr := outer.Body[0].(*syntax.ReturnStmt).Result.(*syntax.FuncExpr)
	inner := innerExpr.Function.(*resolve.Function)

	names := func(refs []*resolve.Reference) []string {
		var res []string
		for _, ref := range refs {
			res = append(res, ref.Name)
		}
		return res
	}
	for _, test := range []struct {
		fn            *resolve.Function
		locals, frees []string
		parent        *resolve.Function
	}{
		{adder, []string{"a", "b"}, nil, nil},
		{outer, []string{"c"}, []string{"a", "b"}, adder},
		{inner, []string{"d"}, []string{"a", "b", "c"}, outer},
	} {
		if diff := cmp.Diff(test.locals, names(test.fn.Locals)); diff != "" {
			t.Errorf("%s locals (-want +got):\n%s", test.fn.Name, diff)
		}
		if diff := cmp.Diff(test.frees, names(test.fn.FreeVars)); diff != "" {
			t.Errorf("%s free vars (-want +got):\n%s", test.fn.Name, diff)
		}
		if test.fn.Parent != test.parent {
			t.Errorf("%s: wrong parent", test.fn.Name)
		}
	}
	require.True(t, adder.Locals[0].Captured)
	require.Equal(t, resolve.Parameter, adder.Locals[0].Kind)
	require.Equal(t, resolve.Constant, adder.Locals[1].Kind)
	require.False(t, inner.Locals[0].Captured)

	// a + b + c + d + g
	var storage []string
	syntax.Walk(innerExpr.Body[0], func(n syntax.Node) bool {
		if id, ok := n.(*syntax.Ident); ok {
			b := id.Binding.(*resolve.Binding)
			storage = append(storage, id.Name+":"+b.Storage.String())
		}
		return true
	})
	want := []string{"a:free", "b:free", "c:free", "d:local", "g:global"}
	if diff := cmp.Diff(want, storage); diff != "" {
		t.Errorf("bindings (-want +got):\n%s", diff)
	}
	if i, ok := outer.FreeIndex(adder.Locals[1]); !ok || i != 1 {
		t.Errorf("FreeIndex(b) = %d, %t; want 1, true", i, ok)
	}
}

func TestFunctionFlags(t *testing.T) {
	f, errs := resolveSource(t, `module golotest.Visibility

function public_fun = -> 1
local function ignore_me = -> 2
function var_arg_ed = |index, args...| -> args: get(index)
`)
	require.Nil(t, errs)
	pub := f.Decls[0].(*syntax.FunctionDecl).Function.(*resolve.Function)
	priv := f.Decls[1].(*syntax.FunctionDecl).Function.(*resolve.Function)
	va := f.Decls[2].(*syntax.FunctionDecl).Function.(*resolve.Function)
	require.False(t, pub.Local)
	require.True(t, priv.Local)
	require.True(t, va.Varargs)
	require.False(t, va.IsClosure())
	require.Len(t, va.Locals, 2)
}
