// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package golo

// This file defines gololang.Predefined, the module implicitly
// imported by every Golo module.

import (
	"errors"
	"fmt"
	"strings"

	"go.golo.dev/ir"
)

// Predefined is the gololang.Predefined module.
var Predefined = NewGoModule(ir.Predefined,
	NewBuiltin("println", 1, true, predefined_println),
	NewBuiltin("print", 1, true, predefined_print),
	NewBuiltin("raise", 1, false, predefined_raise),
	NewBuiltin("require", 2, false, predefined_require),
	NewBuiltin("isClosure", 1, false, predefined_isClosure),
	NewBuiltin("str", 1, false, predefined_str),
)

func init() {
	RegisterModule(Predefined)
}

func join(args []Value) string {
	elems := args[0].(*Array).elems
	var buf strings.Builder
	for i, x := range elems {
		if i > 0 {
			buf.WriteByte(' ')
		}
		buf.WriteString(x.String())
	}
	return buf.String()
}

// println(args...) prints its arguments separated by spaces, and a newline.
func predefined_println(thread *Thread, _ *Builtin, args []Value) (Value, error) {
	thread.print(join(args) + "\n")
	return None, nil
}

// print(args...) prints its arguments separated by spaces.
func predefined_print(thread *Thread, _ *Builtin, args []Value) (Value, error) {
	thread.print(join(args))
	return None, nil
}

// A RaisedError is the error raised by the raise function.
type RaisedError struct {
	Msg string
}

func (e *RaisedError) Error() string { return e.Msg }

func predefined_raise(_ *Thread, b *Builtin, args []Value) (Value, error) {
	var msg string
	if err := UnpackArgs(b.Name(), args, &msg); err != nil {
		return nil, err
	}
	return nil, &RaisedError{Msg: msg}
}

// ErrRequirement is wrapped by the error of a failed require call.
var ErrRequirement = errors.New("requirement failed")

func predefined_require(_ *Thread, b *Builtin, args []Value) (Value, error) {
	var cond bool
	var msg string
	if err := UnpackArgs(b.Name(), args, &cond, &msg); err != nil {
		return nil, err
	}
	if !cond {
		return nil, fmt.Errorf("%w: %s", ErrRequirement, msg)
	}
	return None, nil
}

func predefined_isClosure(_ *Thread, _ *Builtin, args []Value) (Value, error) {
	fn, ok := args[0].(*Function)
	return Bool(ok && fn.IsClosure()), nil
}

func predefined_str(_ *Thread, _ *Builtin, args []Value) (Value, error) {
	return String(args[0].String()), nil
}
