// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package golo

// This file defines the bytecode interpreter.

import (
	"fmt"
	"os"

	"go.golo.dev/internal/compile"
)

func (fn *Function) CallInternal(thread *Thread, args []Value) (Value, error) {
	fr := thread.frame
	f := fn.funcode
	m := fn.module
	constants := m.program.constants

	nlocals := len(f.Locals)
	space := make([]Value, nlocals+f.MaxStack)
	locals := space[:nlocals:nlocals] // local variables, starting with parameters
	stack := space[nlocals:]          // operand stack
	copy(locals, args)

	var sp int
	var pc uint32
	var result Value
	var inFlightErr error
	code := f.Code
loop:
	for {
		thread.steps++
		if thread.maxSteps != 0 && thread.steps >= thread.maxSteps {
			thread.Cancel("too many steps")
		}
		if reason := thread.cancelReason.Load(); reason != nil {
			inFlightErr = fmt.Errorf("Golo computation cancelled: %s", *reason)
			break loop
		}
		fr.pc = pc

		op := compile.Opcode(code[pc])
		pc++
		var arg uint32
		if op >= compile.OpcodeArgMin {
			// TODO(adonovan): opt: profile this.
			// Perhaps compiling big endian would be less work to decode?
			for s := uint(0); ; s += 7 {
				b := code[pc]
				pc++
				arg |= uint32(b&0x7f) << s
				if b < 0x80 {
					break
				}
			}
		}
		if debug {
			fmt.Fprintln(os.Stderr, stack[:sp]) // very verbose!
			compile.PrintOp(f, fr.pc, op, arg)
		}

		switch op {
		case compile.NOP:
			// nop

		case compile.DUP:
			stack[sp] = stack[sp-1]
			sp++

		case compile.POP:
			sp--

		case compile.NONE:
			stack[sp] = None
			sp++

		case compile.TRUE:
			stack[sp] = True
			sp++

		case compile.FALSE:
			stack[sp] = False
			sp++

		case compile.RETURN:
			result = stack[sp-1]
			break loop

		case compile.CONSTANT:
			stack[sp] = constants[arg]
			sp++

		case compile.LOCAL:
			x := locals[arg]
			if x == nil {
				inFlightErr = fmt.Errorf("local variable %s referenced before assignment", f.Locals[arg].Name)
				break loop
			}
			stack[sp] = x
			sp++

		case compile.SETLOCAL:
			locals[arg] = stack[sp-1]
			sp--

		case compile.FREE:
			stack[sp] = fn.freevars[arg]
			sp++

		case compile.GLOBAL:
			x := m.globals[arg]
			if x == nil {
				inFlightErr = fmt.Errorf("module state %s used before its initialization", f.Prog.Globals[arg].Name)
				break loop
			}
			stack[sp] = x
			sp++

		case compile.SETGLOBAL:
			m.globals[arg] = stack[sp-1]
			sp--

		case compile.JMP:
			pc = arg

		case compile.CJMP, compile.NJMP:
			sp--
			cond, ok := stack[sp].(Bool)
			if !ok {
				inFlightErr = fmt.Errorf("condition must be a Boolean, got %s", stack[sp].Class())
				break loop
			}
			if bool(cond) == (op == compile.CJMP) {
				pc = arg
			}

		case compile.MAKEARRAY:
			n := int(arg)
			elems := make([]Value, n)
			sp -= n
			copy(elems, stack[sp:])
			stack[sp] = NewArray(elems)
			sp++

		case compile.MAKEFUNC:
			funcode := f.Prog.Closures[arg]
			n := len(funcode.FreeVars)
			freevars := make([]Value, n)
			sp -= n
			copy(freevars, stack[sp:])
			stack[sp] = &Function{funcode: funcode, module: m, freevars: freevars}
			sp++

		case compile.CALL:
			site := m.sites[arg]
			n := site.Argc
			z, err := site.Call(thread, stack[sp-n:sp])
			if err != nil {
				inFlightErr = err
				break loop
			}
			sp -= n
			stack[sp] = z
			sp++

		default:
			inFlightErr = fmt.Errorf("unimplemented: %s", op)
			break loop
		}
	}

	if inFlightErr != nil {
		return nil, wrapError(fr, inFlightErr)
	}
	return result, nil
}
