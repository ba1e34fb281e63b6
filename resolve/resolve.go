// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package resolve defines a name-resolution pass for Golo abstract
// syntax trees.
//
// The resolver sets the Binding field of each identifier, and the
// Function field of each function and closure, and reports
// semantic problems. It never stops at the first problem: a single
// call to File reports all of them, in order of position.
//
// Every name must be declared before use, with 'let' (a constant),
// 'var' (a variable), or as a parameter. A declaration is visible
// from the point after it to the end of its enclosing block. Module
// state is visible to all functions, and to the initializers that
// follow its declaration. Module functions are not references: a
// call f(x) where f is not a visible reference names a function
// that is looked up dynamically, when the call is first executed.
//
// A closure may read the references of its enclosing functions.
// It receives their values when it is created, so later writes in
// the enclosing function are not observed, and it may not assign to
// them.
package resolve // import "go.golo.dev/resolve"

import (
	"fmt"
	"sort"

	"go.golo.dev/syntax"
)

const debug = false

// Dialect options. These may become per-file options in future.
var (
	AllowParamAssign = true // allow assignment to parameters
	AllowShadowing   = true // allow a block declaration to shadow a local of an enclosing block
)

// A ProblemType identifies a class of semantic problem.
type ProblemType uint8

const (
	UndeclaredReference ProblemType = iota
	AssignConstant
	InvalidScope
	DuplicateDeclaration
	AssignCaptured
)

var problemTypeNames = [...]string{
	UndeclaredReference:  "UNDECLARED_REFERENCE",
	AssignConstant:       "ASSIGN_CONSTANT",
	InvalidScope:         "INVALID_SCOPE",
	DuplicateDeclaration: "DUPLICATE_DECLARATION",
	AssignCaptured:       "ASSIGN_CAPTURED",
}

func (t ProblemType) String() string { return problemTypeNames[t] }

// A Problem describes one semantic error.
type Problem struct {
	Type   ProblemType
	Source syntax.Node // *syntax.Ident for reads, *syntax.AssignStmt for writes
	Pos    syntax.Position
	Msg    string
	Ref    *Reference // the reference involved, if any
}

func (p Problem) Error() string { return p.Pos.String() + ": " + p.Msg }

// An ErrorList is a non-empty list of resolver problems,
// ordered by position.
type ErrorList []Problem

func (e ErrorList) Error() string {
	if len(e) == 0 {
		panic("empty ErrorList")
	}
	if len(e) > 1 {
		return fmt.Sprintf("%s (and %d more errors)", e[0], len(e)-1)
	}
	return e[0].Error()
}

// Filter returns the problems of type t.
func (e ErrorList) Filter(t ProblemType) []Problem {
	var res []Problem
	for _, p := range e {
		if p.Type == t {
			res = append(res, p)
		}
	}
	return res
}

func (e ErrorList) sort() {
	sort.SliceStable(e, func(i, j int) bool {
		x, y := e[i].Pos, e[j].Pos
		return x.Line < y.Line || x.Line == y.Line && x.Col < y.Col
	})
}

// File resolves the specified file.
//
// On success, File returns nil and sets the Toplevel field of the file
// to a *Module. On failure it returns an ErrorList. Either way, the
// syntax tree is fully annotated.
func File(file *syntax.File) error {
	r := newResolver(file)
	r.file(file)
	if len(r.errors) > 0 {
		r.errors.sort()
		return r.errors
	}
	return nil
}

type resolver struct {
	module *Module
	scope  *Scope    // innermost open scope
	fn     *Function // innermost function
	errors ErrorList

	// deferred module function bodies, resolved once all module
	// state has been declared.
	deferred []*Function
}

func newResolver(file *syntax.File) *resolver {
	scope := NewScope(nil)
	init := &Function{Pos: file.Module, Name: "<toplevel>", Scope: scope}
	scope.Function = init
	return &resolver{
		module: &Module{Scope: scope, Init: init},
		scope:  scope,
		fn:     init,
	}
}

func (r *resolver) errorf(t ProblemType, src syntax.Node, ref *Reference, format string, args ...interface{}) {
	r.errors = append(r.errors, Problem{
		Type:   t,
		Source: src,
		Pos:    syntax.Start(src),
		Msg:    fmt.Sprintf(format, args...),
		Ref:    ref,
	})
}

func (r *resolver) file(file *syntax.File) {
	file.Toplevel = r.module

	type signature struct {
		name    string
		arity   int
		varargs bool
	}
	functions := make(map[signature]*syntax.FunctionDecl)

	for _, decl := range file.Decls {
		switch decl := decl.(type) {
		case *syntax.DeclStmt:
			// The initializer sees only the state declared before it.
			r.expr(decl.Value)
			kind := ModuleState
			if decl.IsConstant() {
				kind = ModuleConstant
			}
			if ref := r.declare(decl, decl.Name, kind); ref != nil {
				ref.Index = len(r.module.Globals)
				r.module.Globals = append(r.module.Globals, ref)
				decl.Name.Binding = &Binding{Storage: Global, Index: ref.Index, Ref: ref}
			}

		case *syntax.FunctionDecl:
			sig := signature{decl.Name.Name, len(decl.Params), decl.Varargs}
			if prev, ok := functions[sig]; ok {
				r.errorf(DuplicateDeclaration, decl, nil, "function %s/%d already declared at %s",
					sig.name, sig.arity, syntax.Start(prev))
			} else {
				functions[sig] = decl
			}
			fn := &Function{
				Pos:     decl.Func,
				Name:    decl.Name.Name,
				Params:  decl.Params,
				Varargs: decl.Varargs,
				Local:   decl.IsLocal(),
				Body:    decl.Body,
			}
			decl.Function = fn
			r.deferred = append(r.deferred, fn)

		default:
			panic(fmt.Sprintf("%s: unexpected declaration %T", syntax.Start(decl), decl))
		}
	}

	for _, fn := range r.deferred {
		r.function(fn, r.module.Scope)
	}
}

// function resolves the parameters and body of fn, whose scope is
// nested within outer.
func (r *resolver) function(fn *Function, outer *Scope) {
	if debug {
		fmt.Printf("resolving %s at %s\n", fn.Name, fn.Pos)
	}
	savedFn, savedScope := r.fn, r.scope

	fn.Scope = NewScope(outer)
	fn.Scope.Kind = FunctionScope
	fn.Scope.Function = fn
	r.fn, r.scope = fn, fn.Scope

	for _, param := range fn.Params {
		if ref := r.declare(param, param, Parameter); ref != nil {
			param.Binding = &Binding{Storage: Local, Index: ref.Index, Ref: ref}
		}
	}
	r.stmts(fn.Body)
	fn.Scope.Close()

	r.fn, r.scope = savedFn, savedScope
}

// declare declares id in the current scope and, inside a function,
// allocates it a local slot. It reports duplicates and returns nil
// in that case.
func (r *resolver) declare(src syntax.Node, id *syntax.Ident, kind Kind) *Reference {
	if !AllowShadowing && !kind.IsModuleLevel() {
		if prev, _ := r.scope.Lookup(id.Name); prev != nil && prev.Function == r.fn && prev.Scope != r.scope {
			r.errorf(DuplicateDeclaration, src, prev, "%s shadows %s declared at %s", id.Name, prev, prev.Pos)
			id.Binding = &Binding{Storage: Undefined}
			return nil
		}
	}
	ref, err := r.scope.Declare(id.Name, kind, id.NamePos)
	if err != nil {
		dup := err.(*DuplicateDeclarationError)
		r.errorf(DuplicateDeclaration, src, dup.Prev, "%s", dup)
		id.Binding = &Binding{Storage: Undefined}
		return nil
	}
	if !kind.IsModuleLevel() {
		ref.Index = len(r.fn.Locals)
		r.fn.Locals = append(r.fn.Locals, ref)
	}
	return ref
}

// push opens a block scope.
func (r *resolver) push() {
	r.scope = NewScope(r.scope)
}

// pop closes the current block scope, retiring its names.
func (r *resolver) pop() {
	s := r.scope
	s.Close()
	for _, ref := range s.refs {
		if r.fn.retired == nil {
			r.fn.retired = make(map[string]*Reference)
		}
		r.fn.retired[ref.Name] = ref
	}
	r.scope = s.Parent
}

func (r *resolver) block(stmts []syntax.Stmt) *Scope {
	r.push()
	s := r.scope
	r.stmts(stmts)
	r.pop()
	return s
}

func (r *resolver) stmts(stmts []syntax.Stmt) {
	for _, stmt := range stmts {
		r.stmt(stmt)
	}
}

func (r *resolver) stmt(stmt syntax.Stmt) {
	switch stmt := stmt.(type) {
	case *syntax.DeclStmt:
		r.expr(stmt.Value)
		kind := Variable
		if stmt.IsConstant() {
			kind = Constant
		}
		if ref := r.declare(stmt, stmt.Name, kind); ref != nil {
			stmt.Name.Binding = &Binding{Storage: Local, Index: ref.Index, Ref: ref}
		}

	case *syntax.AssignStmt:
		r.expr(stmt.Value)
		r.assign(stmt)

	case *syntax.ExprStmt:
		r.expr(stmt.X)

	case *syntax.IfStmt:
		r.expr(stmt.Cond)
		stmt.TrueScope = r.block(stmt.True)
		if stmt.False != nil {
			stmt.FalseScope = r.block(stmt.False)
		}

	case *syntax.WhileStmt:
		r.expr(stmt.Cond)
		stmt.Scope = r.block(stmt.Body)

	case *syntax.ForStmt:
		r.push() // loop variable
		stmt.Scope = r.scope
		r.stmt(stmt.Init)
		r.expr(stmt.Cond)
		r.stmt(stmt.Post)
		stmt.BodyScope = r.block(stmt.Body)
		r.pop()

	case *syntax.ReturnStmt:
		if stmt.Result != nil {
			r.expr(stmt.Result)
		}

	default:
		panic(fmt.Sprintf("%s: unexpected statement %T", syntax.Start(stmt), stmt))
	}
}

// assign resolves the target of an assignment.
func (r *resolver) assign(stmt *syntax.AssignStmt) {
	id := stmt.Name
	id.Binding = &Binding{Storage: Undefined}
	ref, depth := r.scope.Lookup(id.Name)
	switch {
	case ref == nil:
		if prev := r.retired(id.Name); prev != nil {
			r.errorf(InvalidScope, stmt, prev, "assignment to %s outside its block (declared at %s)", id.Name, prev.Pos)
		} else {
			r.errorf(UndeclaredReference, stmt, nil, "assignment to undeclared reference %s", id.Name)
		}
	case ref.Kind.IsConstant():
		r.errorf(AssignConstant, stmt, ref, "cannot reassign constant %s declared at %s", id.Name, ref.Pos)
	case ref.Kind == Parameter && !AllowParamAssign:
		r.errorf(AssignConstant, stmt, ref, "cannot reassign parameter %s", id.Name)
	case !ref.Kind.IsModuleLevel() && ref.Function != r.fn:
		r.errorf(AssignCaptured, stmt, ref, "cannot assign %s captured from an enclosing function", id.Name)
	default:
		id.Binding = r.bind(ref, depth)
	}
}

// retired returns the most recent reference named name whose block
// has closed, in the current function or an enclosing one.
func (r *resolver) retired(name string) *Reference {
	for fn := r.fn; fn != nil; fn = fn.Parent {
		if ref := fn.retired[name]; ref != nil {
			return ref
		}
	}
	return nil
}

// use resolves a read of id.
func (r *resolver) use(id *syntax.Ident) {
	ref, depth := r.scope.Lookup(id.Name)
	if ref == nil {
		id.Binding = &Binding{Storage: Undefined}
		if prev := r.retired(id.Name); prev != nil {
			r.errorf(InvalidScope, id, prev, "%s is used outside its block (declared at %s)", id.Name, prev.Pos)
		} else {
			r.errorf(UndeclaredReference, id, nil, "undeclared reference %s", id.Name)
		}
		return
	}
	id.Binding = r.bind(ref, depth)
}

func (r *resolver) bind(ref *Reference, depth int) *Binding {
	switch {
	case ref.Kind.IsModuleLevel():
		return &Binding{Storage: Global, Index: ref.Index, Depth: depth, Ref: ref}
	case ref.Function == r.fn:
		return &Binding{Storage: Local, Index: ref.Index, Depth: depth, Ref: ref}
	default:
		return &Binding{Storage: Free, Index: r.fn.capture(ref), Depth: depth, Ref: ref}
	}
}

func (r *resolver) expr(e syntax.Expr) {
	switch e := e.(type) {
	case *syntax.Ident:
		r.use(e)

	case *syntax.Literal, *syntax.TypeName:
		// no-op

	case *syntax.CallExpr:
		// A simple name bound to a reference is a closure invocation;
		// anything else names a function found at run time.
		if ref, _ := r.scope.Lookup(e.Fn.Name); ref != nil {
			r.use(e.Fn)
		}
		r.exprs(e.Args)

	case *syntax.MethodCallExpr:
		r.expr(e.Recv)
		r.exprs(e.Args)

	case *syntax.IndexExpr:
		r.expr(e.X)
		r.expr(e.Index)

	case *syntax.SpreadExpr:
		r.expr(e.X)

	case *syntax.ArrayExpr:
		r.exprs(e.List)

	case *syntax.FuncExpr:
		fn := &Function{
			Pos:     e.Pipe,
			Name:    "<closure>",
			Params:  e.Params,
			Varargs: e.Varargs,
			Body:    e.Body,
			Parent:  r.fn,
		}
		e.Function = fn
		r.function(fn, r.scope)

	case *syntax.ParenExpr:
		r.expr(e.X)

	case *syntax.UnaryExpr:
		r.expr(e.X)

	case *syntax.BinaryExpr:
		r.expr(e.X)
		r.expr(e.Y)

	default:
		panic(fmt.Sprintf("%s: unexpected expression %T", syntax.Start(e), e))
	}
}

func (r *resolver) exprs(exprs []syntax.Expr) {
	for _, e := range exprs {
		r.expr(e)
	}
}
