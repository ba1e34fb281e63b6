// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compile_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"go.golo.dev/internal/compile"
	"go.golo.dev/ir"
	"go.golo.dev/resolve"
	"go.golo.dev/syntax"
)

func buildIR(t *testing.T, src string) *ir.Module {
	t.Helper()
	f, err := syntax.Parse("test.golo", src)
	require.NoError(t, err)
	require.NoError(t, resolve.File(f))
	m, err := ir.Build(f)
	require.NoError(t, err)
	return m
}

func compileSrc(t *testing.T, src string) *compile.Program {
	t.Helper()
	return compile.Module(buildIR(t, src))
}

// disassemble returns the instructions of fn without the heading line.
func disassemble(fn *compile.Funcode) string {
	text := fn.Disassembly()
	return text[strings.IndexByte(text, '\n')+1:]
}

func TestCodegen(t *testing.T) {
	for _, test := range []struct {
		name string
		src  string
		want string
	}{
		{
			name: "if",
			src: `module m
function f = |a, b| {
  if a < b {
    return a
  }
  return b
}`,
			want: `
	0	local	a
	2	local	b
	4	call	#0 operator less/2
	6	njmp	11
	8	local	a
	10	return
	11	local	b
	13	return
`,
		},
		{
			name: "and",
			src: `module m
function f = |a, b| -> a and b`,
			want: `
	0	local	a
	2	dup
	3	njmp	8
	5	pop
	6	local	b
	8	return
`,
		},
		{
			name: "or",
			src: `module m
function f = |a, b| -> a or b`,
			want: `
	0	local	a
	2	dup
	3	njmp	6
	5	return
	6	pop
	7	local	b
	9	jmp	5
`,
		},
		{
			name: "while",
			src: `module m
function f = |n| {
  var i = 0
  while i < n {
    i = i + 1
  }
  return i
}`,
			want: `
	0	constant	0
	2	setlocal	i
	4	local	i
	6	local	n
	8	call	#0 operator less/2
	10	njmp	22
	12	local	i
	14	constant	1
	16	call	#1 operator plus/2
	18	setlocal	i
	20	jmp	4
	22	local	i
	24	return
`,
		},
		{
			name: "implicit return",
			src: `module m
function f = { println("hi") }`,
			want: `
	0	constant	"hi"
	2	call	#0 function println/1
	4	pop
	5	none
	6	return
`,
		},
		{
			name: "array",
			src: `module m
function f = |x| -> array[x, 2_L, null, true]`,
			want: `
	0	local	x
	2	constant	2_L
	4	none
	5	true
	6	makearray	4
	8	return
`,
		},
	} {
		t.Run(test.name, func(t *testing.T) {
			prog := compileSrc(t, test.src)
			require.Len(t, prog.Functions, 1)
			got := disassemble(prog.Functions[0])
			if diff := cmp.Diff(strings.TrimPrefix(test.want, "\n"), got); diff != "" {
				t.Errorf("code mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestClosureCode(t *testing.T) {
	prog := compileSrc(t, `module m
local function adder = |a| -> |b| -> a + b`)

	require.Len(t, prog.Closures, 1)
	adder := prog.Functions[0]
	require.False(t, adder.Public)
	want := "\t0\tlocal\ta\n\t2\tmakefunc\t<closure>\n\t4\treturn\n"
	require.Equal(t, want, disassemble(adder))

	closure := prog.Closures[0]
	require.Equal(t, []compile.Binding{{Name: "a", Pos: closure.FreeVars[0].Pos}}, closure.FreeVars)
	require.Equal(t, 1, closure.NumParams)
	want = "\t0\tfree\ta\n\t2\tlocal\tb\n\t4\tcall\t#0 operator plus/2\n\t6\treturn\n"
	require.Equal(t, want, disassemble(closure))
}

func TestNestedCapture(t *testing.T) {
	// The middle closure reads x only to pass it on.
	prog := compileSrc(t, `module m
function f = |x| -> |y| -> |z| -> x + y + z`)

	require.Len(t, prog.Closures, 2)
	var names [][]string
	for _, fn := range prog.Closures {
		var free []string
		for _, b := range fn.FreeVars {
			free = append(free, b.Name)
		}
		names = append(names, free)
	}
	// Closures are numbered as their creation is compiled: outer first.
	require.Equal(t, [][]string{{"x"}, {"x", "y"}}, names)
	require.Contains(t, disassemble(prog.Closures[0]), "\tfree\tx\n\t2\tlocal\ty\n\t4\tmakefunc")
}

func TestToplevel(t *testing.T) {
	prog := compileSrc(t, `module m
let K = 2
var s = K + 1
function get = { return s }`)

	require.Equal(t, "m", prog.Name)
	require.Equal(t, []string{ir.Predefined}, prog.Imports)
	require.Len(t, prog.Globals, 2)
	want := `	0	constant	2
	2	setglobal	K
	4	global	K
	6	constant	1
	8	call	#0 operator plus/2
	10	setglobal	s
	12	none
	13	return
`
	require.Equal(t, want, disassemble(prog.Toplevel))
	require.Equal(t, "\t0\tglobal\ts\n\t2\treturn\n", disassemble(prog.Functions[0]))
}

func TestConstantPool(t *testing.T) {
	prog := compileSrc(t, `module m
function f = |x| -> x + 1 + 1 + "1" + 1.0 + 1_L`)
	require.Equal(t, []interface{}{int32(1), "1", 1.0, int64(1)}, prog.Constants)
}

func TestMaxStack(t *testing.T) {
	prog := compileSrc(t, `module m
function f = |a, b, c| -> g(a, b, h(c, a and b))
function g = |x...| -> x
function h = |x, y| -> y`)
	// a b c a DUP
	require.Equal(t, 5, prog.Functions[0].MaxStack)
	require.True(t, prog.Functions[1].HasVarargs)
	require.Equal(t, 1, prog.Functions[1].NumParams)
	// x
	require.Equal(t, 1, prog.Functions[2].MaxStack)
	// NONE
	require.Equal(t, 1, prog.Toplevel.MaxStack)
}

func TestDecodeOp(t *testing.T) {
	// A large operand needs a multi-byte varint.
	var elems []string
	for i := 0; i < 200; i++ {
		elems = append(elems, "x")
	}
	prog := compileSrc(t, "module m\nfunction f = |x| -> array["+strings.Join(elems, ", ")+"]")
	code := prog.Functions[0].Code
	pc := uint32(0)
	for i := 0; i < 200; i++ {
		var op compile.Opcode
		op, _, pc = compile.DecodeOp(code, pc)
		require.Equal(t, compile.LOCAL, op)
	}
	op, arg, next := compile.DecodeOp(code, pc)
	require.Equal(t, compile.MAKEARRAY, op)
	require.Equal(t, uint32(200), arg)
	require.Equal(t, pc+3, next)
}

func TestOpcodeString(t *testing.T) {
	require.Equal(t, "call", compile.CALL.String())
	require.Equal(t, "illegal op (200)", compile.Opcode(200).String())
}
