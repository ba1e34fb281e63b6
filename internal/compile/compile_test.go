// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compile_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.golo.dev/internal/compile"
	"go.golo.dev/ir"
)

const loopSrc = `module m
function f = |n| {
  var i = 0
  while i < n {
    i = i + 1
  }
  return i
}`

func TestPosition(t *testing.T) {
	prog := compileSrc(t, loopSrc)
	fn := prog.Functions[0]
	require.Equal(t, "test.golo", prog.Filename)
	require.Equal(t, "test.golo:3:11", fn.Position(0).String())

	// Each CALL maps back to the position of its call site.
	for pc := uint32(0); pc < uint32(len(fn.Code)); {
		op, arg, next := compile.DecodeOp(fn.Code, pc)
		if op == compile.CALL {
			site := prog.CallSites[arg]
			require.Equal(t, site.Pos.String(), fn.Position(pc).String(), "pc %d", pc)
		}
		pc = next
	}
	require.Equal(t, "test.golo:4:11", fn.Position(8).String())
	require.Equal(t, "test.golo:7:10", fn.Position(22).String())
}

func TestInvariants(t *testing.T) {
	for _, test := range []struct {
		name   string
		src    string
		mutate func(m *ir.Module)
	}{
		{
			name:   "spread operator",
			src:    "module m\nfunction f = |a, b| -> a + b",
			mutate: func(m *ir.Module) { m.CallSites[0].Spread = true },
		},
		{
			name:   "argc mismatch",
			src:    "module m\nfunction f = |a| -> g(a)",
			mutate: func(m *ir.Module) { m.CallSites[0].Argc = 2 },
		},
		{
			name: "spread without arguments",
			src:  "module m\nfunction f = { return g() }",
			mutate: func(m *ir.Module) {
				m.CallSites[0].Spread = true
			},
		},
		{
			name: "unresolved lookup",
			src:  "module m\nfunction f = |a| -> a",
			mutate: func(m *ir.Module) {
				ret := m.Functions[0].Body.Statements[0].(*ir.ReturnStatement)
				ret.Value.(*ir.ReferenceLookup).Binding.Storage = 0
			},
		},
	} {
		t.Run(test.name, func(t *testing.T) {
			m := buildIR(t, test.src)
			test.mutate(m)
			require.Panics(t, func() { compile.Module(m) })
		})
	}
}

func TestUnreachableCode(t *testing.T) {
	prog := compileSrc(t, `module m
function f = |a| {
  if a {
    return 1
  } else {
    return 2
  }
  return 3
}`)
	code := disassemble(prog.Functions[0])
	require.NotContains(t, code, "constant\t3")
	require.NotContains(t, code, "none")
}
