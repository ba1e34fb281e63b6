// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resolve

import "go.golo.dev/syntax"

// This file defines resolver data types saved in the syntax tree.
// We cannot guarantee API stability for these types
// as they are closely tied to the implementation.

// A Binding contains resolver information about an identifier.
// The resolver populates the Binding field of each syntax.Ident.
type Binding struct {
	Storage Storage

	// Index records the index into the enclosing
	// - Function.Locals,   if Storage==Local
	// - Function.FreeVars, if Storage==Free
	// - Module.Globals,    if Storage==Global.
	// It is zero if Storage is Undefined.
	Index int

	// Depth is the number of scopes between the use and the
	// declaring scope.
	Depth int

	Ref *Reference // nil if Storage is Undefined
}

// The Storage of a Binding indicates where the value lives.
type Storage uint8

const (
	Undefined Storage = iota // name is not declared
	Local                    // slot in the current function's locals
	Free                     // value captured from an enclosing function
	Global                   // module state
)

var storageNames = [...]string{
	Undefined: "undefined",
	Local:     "local",
	Free:      "free",
	Global:    "global",
}

func (s Storage) String() string { return storageNames[s] }

// A Function contains resolver information about a named function
// or an anonymous closure. The resolver populates the Function field
// of each syntax.FunctionDecl and syntax.FuncExpr, and the module
// initializer of each syntax.File.
type Function struct {
	Pos     syntax.Position // of FUNCTION token or opening PIPE
	Name    string          // name of a module function, or "<closure>" or "<toplevel>"
	Params  []*syntax.Ident
	Varargs bool // last parameter collects trailing arguments
	Local   bool // module-private
	Body    []syntax.Stmt
	Parent  *Function // enclosing function of a closure, nil otherwise
	Scope   *Scope    // holds the parameters and the top-level body declarations

	// Locals holds all the function's references, parameters first.
	// FreeVars holds the references of enclosing functions that this
	// function reads, directly or through its own closures.
	Locals   []*Reference
	FreeVars []*Reference

	freeIndex map[*Reference]int
	retired   map[string]*Reference // names whose block has closed
}

// IsClosure reports whether fn is nested inside another function.
func (fn *Function) IsClosure() bool { return fn.Parent != nil }

// FreeIndex returns the index of ref in fn.FreeVars.
func (fn *Function) FreeIndex(ref *Reference) (int, bool) {
	i, ok := fn.freeIndex[ref]
	return i, ok
}

// capture makes ref, declared by an enclosing function, available to
// fn and to every function between fn and the declaring one.
func (fn *Function) capture(ref *Reference) int {
	for f := fn; f != nil && f != ref.Function; f = f.Parent {
		if _, ok := f.freeIndex[ref]; ok {
			continue
		}
		if f.freeIndex == nil {
			f.freeIndex = make(map[*Reference]int)
		}
		f.freeIndex[ref] = len(f.FreeVars)
		f.FreeVars = append(f.FreeVars, ref)
	}
	ref.Captured = true
	return fn.freeIndex[ref]
}

// A Module contains resolver information about a file.
// The resolver populates the Toplevel field of each syntax.File.
type Module struct {
	Scope   *Scope
	Globals []*Reference // module state, in declaration order
	Init    *Function    // evaluates the module state initializers
}
