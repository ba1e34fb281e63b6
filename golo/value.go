// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package golo provides a Golo interpreter.
//
// Golo values are represented by the Value interface.
// The following built-in Value types are known to the evaluator:
//
//	NoneType        -- NoneType
//	Bool            -- Boolean
//	Int             -- Integer (32 bits, wrapping)
//	Long            -- Long (64 bits)
//	Float           -- Double
//	String          -- String
//	*Array          -- Array
//	*Function       -- Function (compiled Golo function or closure)
//	*Builtin        -- Function (function or method implemented in Go)
//	*Class          -- Class
//
// Client applications may define new data types that satisfy the
// Value interface by returning a registered *Class from their Class
// method. The methods of that class, and of its superclasses, are
// found by the dynamic call sites of Golo programs.
//
// Every call, method call, constructor call and operator of a Golo
// program is a CallSite whose target is selected on first execution
// from the classes of its arguments, then cached. See CallSite.
//
// Use Compile to compile a module, Program.Init to run its
// initializer, and Module.Call to invoke one of its functions.
package golo // import "go.golo.dev/golo"

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"go.golo.dev/internal/compile"
	"go.golo.dev/syntax"
)

// Value is a value in the Golo interpreter.
type Value interface {
	// String returns the string representation of the value, as
	// produced by string concatenation and println.
	String() string

	// Class returns the runtime class of the value.
	// Call sites dispatch on it.
	Class() *Class
}

// A Callable value f may be the target of a call site.
//
// Arguments are packaged before CallInternal is invoked: a function
// with varargs receives exactly NumParams arguments, the last being an
// *Array of the trailing values. Methods receive their receiver as the
// first argument.
//
// Clients should use the Call function, never the CallInternal method.
type Callable interface {
	Value
	Name() string
	NumParams() int
	HasVarargs() bool
	CallInternal(thread *Thread, args []Value) (Value, error)
}

var (
	_ Callable = (*Function)(nil)
	_ Callable = (*Builtin)(nil)
)

// anyArity is an argument count accepted by every function.
// Looking it up finds the first candidate of a name.
const anyArity = -1

// accepts reports whether fn may be called with argc arguments.
func accepts(fn Callable, argc int) bool {
	if argc == anyArity {
		return true
	}
	if fn.HasVarargs() {
		return argc >= fn.NumParams()-1
	}
	return argc == fn.NumParams()
}

// An Indexable is a sequence of known length that supports efficient
// random access. Array is Indexable, as are host collections that
// choose to be.
type Indexable interface {
	Value
	Len() int
	Index(i int) Value // requires 0 <= i < Len()
}

var _ Indexable = (*Array)(nil)

// NoneType is the type of None. Its only legal value is None.
// (We represent it as a number, not struct{}, so that None may be constant.)
type NoneType byte

const None = NoneType(0)

func (NoneType) String() string { return "null" }
func (NoneType) Class() *Class  { return NullClass }

// Bool is the type of a Golo bool.
type Bool bool

const (
	False Bool = false
	True  Bool = true
)

func (b Bool) String() string {
	if b {
		return "true"
	} else {
		return "false"
	}
}
func (Bool) Class() *Class { return BooleanClass }

// Int is the type of a Golo integer. Arithmetic wraps on overflow.
type Int int32

func (i Int) String() string { return strconv.FormatInt(int64(i), 10) }
func (Int) Class() *Class    { return IntegerClass }

// Long is the type of a Golo long integer.
type Long int64

func (i Long) String() string { return strconv.FormatInt(int64(i), 10) }
func (Long) Class() *Class    { return LongClass }

// Float is the type of a Golo floating-point number.
type Float float64

func (f Float) String() string {
	switch {
	case math.IsInf(float64(f), +1):
		return "Infinity"
	case math.IsInf(float64(f), -1):
		return "-Infinity"
	case math.IsNaN(float64(f)):
		return "NaN"
	}
	s := strconv.FormatFloat(float64(f), 'g', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}
func (Float) Class() *Class { return DoubleClass }

// String is the type of a Golo string.
type String string

func (s String) String() string { return string(s) }
func (String) Class() *Class    { return StringClass }

// An Array is a fixed-length sequence of values.
type Array struct {
	elems []Value
}

// NewArray returns an array containing the specified elements.
// Callers should not subsequently modify elems.
func NewArray(elems []Value) *Array { return &Array{elems: elems} }

func (a *Array) Len() int          { return len(a.elems) }
func (a *Array) Index(i int) Value { return a.elems[i] }
func (a *Array) Class() *Class     { return ArrayClass }

// Elems returns a copy of the array's elements.
func (a *Array) Elems() []Value { return append([]Value(nil), a.elems...) }

func (a *Array) String() string {
	var buf strings.Builder
	buf.WriteString("array[")
	for i, elem := range a.elems {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(elem.String())
	}
	buf.WriteByte(']')
	return buf.String()
}

// A Function is a function defined by a Golo module function or
// closure expression.
type Function struct {
	funcode  *compile.Funcode
	module   *Module
	freevars []Value // captured at creation
}

func (fn *Function) Name() string              { return fn.funcode.Name }
func (fn *Function) Position() syntax.Position { return fn.funcode.Pos }
func (fn *Function) NumParams() int            { return fn.funcode.NumParams }
func (fn *Function) HasVarargs() bool          { return fn.funcode.HasVarargs }
func (fn *Function) Class() *Class             { return FunctionClass }

// Module returns the module that defines fn.
func (fn *Function) Module() *Module { return fn.module }

// Public reports whether fn may be called from other modules.
// Closures are always public.
func (fn *Function) Public() bool { return fn.funcode.Public }

// IsClosure reports whether fn was created by a closure expression.
func (fn *Function) IsClosure() bool { return fn.funcode.Name == "<closure>" }

func (fn *Function) String() string {
	return fmt.Sprintf("<function %s/%d>", fn.Name(), fn.NumParams())
}

// A Builtin is a function or method implemented in Go.
type Builtin struct {
	name    string
	arity   int
	varargs bool
	fn      func(thread *Thread, fn *Builtin, args []Value) (Value, error)
}

// NewBuiltin returns a new Builtin with the specified name, number of
// parameters and implementation. If varargs is set, the last parameter
// receives the trailing arguments as an *Array.
// The implementation must not retain args.
func NewBuiltin(name string, arity int, varargs bool, fn func(thread *Thread, fn *Builtin, args []Value) (Value, error)) *Builtin {
	return &Builtin{name: name, arity: arity, varargs: varargs, fn: fn}
}

func (b *Builtin) Name() string     { return b.name }
func (b *Builtin) NumParams() int   { return b.arity }
func (b *Builtin) HasVarargs() bool { return b.varargs }
func (b *Builtin) Class() *Class    { return FunctionClass }
func (b *Builtin) String() string   { return fmt.Sprintf("<built-in function %s/%d>", b.name, b.arity) }

func (b *Builtin) CallInternal(thread *Thread, args []Value) (Value, error) {
	return b.fn(thread, b, args)
}

// Same reports whether x and y are the same value:
// the same object, or equal values of the same scalar type.
func Same(x, y Value) bool {
	tx, ty := reflect.TypeOf(x), reflect.TypeOf(y)
	if tx != ty {
		return false
	}
	if !tx.Comparable() {
		switch tx.Kind() {
		case reflect.Slice, reflect.Map, reflect.Func:
			return reflect.ValueOf(x).Pointer() == reflect.ValueOf(y).Pointer()
		}
		return false
	}
	return x == y
}

// Equal reports whether x and y are equal by value.
// Numbers are compared after promotion to the wider kind;
// arrays are equal if their elements are pairwise equal.
// Other values are equal if they are the same.
func Equal(x, y Value) bool {
	if kx, ky := numKind(x), numKind(y); kx != notNumber && ky != notNumber {
		return compareNumbers(x, y, max(kx, ky)) == 0
	}
	switch x := x.(type) {
	case *Array:
		y, ok := y.(*Array)
		if !ok || x.Len() != y.Len() {
			return false
		}
		for i := range x.elems {
			if !Equal(x.elems[i], y.elems[i]) {
				return false
			}
		}
		return true
	}
	return Same(x, y)
}
