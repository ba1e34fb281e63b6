// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resolve

// This file defines the scope and reference table.

import (
	"fmt"

	"go.golo.dev/syntax"
)

// A Kind classifies a declared name.
type Kind uint8

const (
	Variable       Kind = iota // var x = ... inside a function
	Constant                   // let x = ... inside a function
	Parameter                  // function or closure parameter
	ModuleState                // module-level var
	ModuleConstant             // module-level let
)

var kindNames = [...]string{
	Variable:       "variable",
	Constant:       "constant",
	Parameter:      "parameter",
	ModuleState:    "module state",
	ModuleConstant: "module constant",
}

func (k Kind) String() string { return kindNames[k] }

// IsConstant reports whether a reference of this kind may only be
// assigned by its declaration.
func (k Kind) IsConstant() bool { return k == Constant || k == ModuleConstant }

// IsModuleLevel reports whether a reference of this kind lives in
// module state rather than in a function's locals.
func (k Kind) IsModuleLevel() bool { return k == ModuleState || k == ModuleConstant }

// A ScopeKind says what introduced a scope.
type ScopeKind uint8

const (
	ModuleScope   ScopeKind = iota // module state
	FunctionScope                  // parameters and body of a function or closure
	BlockScope                     // if/else branch, loop body, for header
)

var scopeKindNames = [...]string{
	ModuleScope:   "module",
	FunctionScope: "function",
	BlockScope:    "block",
}

func (k ScopeKind) String() string { return scopeKindNames[k] }

// A Scope is a lexical block: a table from names to References,
// linked to its enclosing scope.
type Scope struct {
	ID       int // sequential within one scope tree
	Kind     ScopeKind
	Parent   *Scope    // enclosing scope, used only for lookup
	Function *Function // function that owns this scope; nil for the module scope

	names  map[string]*Reference
	refs   []*Reference // in declaration order
	closed bool
	nextID *int // shared by all scopes of one tree
}

// NewScope returns a new scope enclosed by parent.
// A nil parent starts a new scope tree whose root is a module scope.
func NewScope(parent *Scope) *Scope {
	s := &Scope{Parent: parent, Kind: BlockScope}
	if parent == nil {
		s.Kind = ModuleScope
		s.nextID = new(int)
	} else {
		s.nextID = parent.nextID
		s.Function = parent.Function
	}
	s.ID = *s.nextID
	*s.nextID++
	return s
}

// Declare adds a new reference for name to this scope.
// It fails if the scope already declares name; names in enclosing
// scopes are shadowed, not redeclared.
func (s *Scope) Declare(name string, kind Kind, pos syntax.Position) (*Reference, error) {
	if prev, ok := s.names[name]; ok {
		return nil, &DuplicateDeclarationError{Name: name, Pos: pos, Prev: prev}
	}
	if s.closed {
		panic(fmt.Sprintf("declaration of %s in closed scope %d", name, s.ID))
	}
	ref := &Reference{Name: name, Kind: kind, Pos: pos, Scope: s, Function: s.Function, Index: -1}
	if s.names == nil {
		s.names = make(map[string]*Reference)
	}
	s.names[name] = ref
	s.refs = append(s.refs, ref)
	return ref, nil
}

// Lookup returns the innermost reference for name visible from s, and
// the number of scopes between s and the declaring scope.
// It returns nil if no scope in the chain declares name.
func (s *Scope) Lookup(name string) (ref *Reference, depth int) {
	for ; s != nil; s, depth = s.Parent, depth+1 {
		if ref, ok := s.names[name]; ok {
			return ref, depth
		}
	}
	return nil, -1
}

// References returns the references declared directly in s, in
// declaration order.
func (s *Scope) References() []*Reference { return s.refs }

// Close marks the end of the scope's lexical extent.
func (s *Scope) Close() { s.closed = true }

// Closed reports whether the scope's block has ended.
func (s *Scope) Closed() bool { return s.closed }

func (s *Scope) String() string { return fmt.Sprintf("%s scope %d", s.Kind, s.ID) }

// A Reference is a declared name.
type Reference struct {
	Name     string
	Kind     Kind
	Pos      syntax.Position // declaration
	Scope    *Scope          // declaring scope
	Function *Function       // declaring function; nil for module-level references

	// Index is the slot of the reference in Function.Locals,
	// or in Module.Globals for module-level references.
	Index int

	// Captured is set when a nested closure reads the reference.
	Captured bool
}

func (ref *Reference) String() string {
	return fmt.Sprintf("%s %s", ref.Kind, ref.Name)
}

// A DuplicateDeclarationError is returned by Declare when a name is
// declared twice in the same scope.
type DuplicateDeclarationError struct {
	Name string
	Pos  syntax.Position
	Prev *Reference
}

func (e *DuplicateDeclarationError) Error() string {
	return fmt.Sprintf("%s already declared at %s", e.Name, e.Prev.Pos)
}
