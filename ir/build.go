// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ir

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"go.golo.dev/resolve"
	"go.golo.dev/syntax"
)

// Build constructs the IR of a file that has been successfully
// resolved by resolve.File.
func Build(file *syntax.File) (*Module, error) {
	rm, ok := file.Toplevel.(*resolve.Module)
	if !ok {
		return nil, fmt.Errorf("%s: module %s has not been resolved", file.Module, file.Name.Name)
	}
	b := &builder{mod: &Module{
		Name:  file.Name.Name,
		Pos:   file.Module,
		State: rm.Globals,
	}}
	for _, imp := range file.Imports {
		b.mod.imports = append(b.mod.imports, imp.Name.Name)
	}

	init := b.newFunction(rm.Init, nil)
	init.Body = &Block{Scope: rm.Scope}
	b.mod.Init = init

	for _, decl := range file.Decls {
		switch decl := decl.(type) {
		case *syntax.DeclStmt:
			b.fn = init
			init.Body.Statements = append(init.Body.Statements, b.stmt(decl))
		case *syntax.FunctionDecl:
			b.mod.Functions = append(b.mod.Functions, b.function(decl.Function.(*resolve.Function), nil))
		}
	}
	if b.err != nil {
		return nil, b.err
	}
	return b.mod, nil
}

type builder struct {
	mod *Module
	fn  *Function // current function
	err error     // first error
}

func (b *builder) errorf(pos syntax.Position, format string, args ...interface{}) {
	if b.err == nil {
		b.err = fmt.Errorf("%s: %s", pos, fmt.Sprintf(format, args...))
	}
}

func (b *builder) newFunction(rf *resolve.Function, parent *Function) *Function {
	fn := &Function{
		Name:     rf.Name,
		Pos:      rf.Pos,
		Varargs:  rf.Varargs,
		Scope:    rf.Scope,
		Locals:   rf.Locals,
		FreeVars: rf.FreeVars,
		Parent:   parent,
		resolved: rf,
	}
	if rf.Local {
		fn.Visibility = Private
	}
	if len(rf.Params) <= len(rf.Locals) {
		fn.Params = rf.Locals[:len(rf.Params)]
	}
	return fn
}

func (b *builder) function(rf *resolve.Function, parent *Function) *Function {
	fn := b.newFunction(rf, parent)
	saved := b.fn
	b.fn = fn
	fn.Body = b.block(rf.Scope, rf.Body)
	b.fn = saved
	return fn
}

func (b *builder) block(scope interface{}, stmts []syntax.Stmt) *Block {
	block := &Block{}
	block.Scope, _ = scope.(*resolve.Scope)
	for _, stmt := range stmts {
		block.Statements = append(block.Statements, b.stmt(stmt))
	}
	return block
}

func (b *builder) binding(id *syntax.Ident) *resolve.Binding {
	bind, _ := id.Binding.(*resolve.Binding)
	if bind == nil || bind.Storage == resolve.Undefined {
		b.errorf(id.NamePos, "unresolved reference %s", id.Name)
		return &resolve.Binding{}
	}
	return bind
}

func (b *builder) stmt(stmt syntax.Stmt) Statement {
	switch stmt := stmt.(type) {
	case *syntax.DeclStmt:
		bind := b.binding(stmt.Name)
		return &AssignmentStatement{
			Ref:       bind.Ref,
			Binding:   bind,
			Value:     b.expr(stmt.Value),
			Declaring: true,
			Pos:       stmt.TokPos,
		}

	case *syntax.AssignStmt:
		bind := b.binding(stmt.Name)
		return &AssignmentStatement{
			Ref:     bind.Ref,
			Binding: bind,
			Value:   b.expr(stmt.Value),
			Pos:     stmt.Name.NamePos,
		}

	case *syntax.ExprStmt:
		return &ExpressionStatement{X: b.expr(stmt.X)}

	case *syntax.IfStmt:
		s := &ConditionalBranching{
			Cond: b.expr(stmt.Cond),
			True: b.block(stmt.TrueScope, stmt.True),
			Pos:  stmt.If,
		}
		if stmt.False != nil {
			s.False = b.block(stmt.FalseScope, stmt.False)
		}
		return s

	case *syntax.WhileStmt:
		return &LoopStatement{
			Cond: b.expr(stmt.Cond),
			Body: b.block(stmt.Scope, stmt.Body),
			Pos:  stmt.While,
		}

	case *syntax.ForStmt:
		s := &LoopStatement{Pos: stmt.For}
		s.Scope, _ = stmt.Scope.(*resolve.Scope)
		s.Init = b.stmt(stmt.Init).(*AssignmentStatement)
		s.Cond = b.expr(stmt.Cond)
		s.Post = b.stmt(stmt.Post)
		s.Body = b.block(stmt.BodyScope, stmt.Body)
		return s

	case *syntax.ReturnStmt:
		s := &ReturnStatement{Pos: stmt.Return}
		if stmt.Result != nil {
			s.Value = b.expr(stmt.Result)
		}
		return s
	}
	panic(fmt.Sprintf("%s: unexpected statement %T", syntax.Start(stmt), stmt))
}

// site allocates the next call site of the module.
func (b *builder) site(kind CallKind, name string, argc int, spread bool, pos syntax.Position) *CallSite {
	s := &CallSite{
		Index:  len(b.mod.CallSites),
		Kind:   kind,
		Name:   name,
		Argc:   argc,
		Spread: spread,
		Pos:    pos,
	}
	b.mod.CallSites = append(b.mod.CallSites, s)
	return s
}

// args builds call arguments, unwrapping a trailing spread marker.
func (b *builder) args(args []syntax.Expr) (res []Expression, spread bool) {
	for _, arg := range args {
		if sp, ok := arg.(*syntax.SpreadExpr); ok {
			arg = sp.X
			spread = true
		}
		res = append(res, b.expr(arg))
	}
	return res, spread
}

func hasSpread(args []syntax.Expr) bool {
	if n := len(args); n > 0 {
		_, ok := args[n-1].(*syntax.SpreadExpr)
		return ok
	}
	return false
}

// IsConstructorName reports whether a call of the named function
// invokes a constructor: its last name component is capitalized.
func IsConstructorName(name string) bool {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	r, _ := utf8.DecodeRuneInString(name)
	return unicode.IsUpper(r)
}

func (b *builder) expr(e syntax.Expr) Expression {
	switch e := e.(type) {
	case *syntax.Ident:
		return b.lookup(e)

	case *syntax.Literal:
		return &ConstantLoad{Value: e.Value, Pos: e.TokenPos}

	case *syntax.ParenExpr:
		return b.expr(e.X)

	case *syntax.CallExpr:
		spread := hasSpread(e.Args)
		if e.Fn.Binding != nil {
			// closure held by a reference: fn(args) is fn: invoke(args)
			site := b.site(InstanceMethod, "invoke", 1+len(e.Args), spread, e.Fn.NamePos)
			closure := b.lookup(e.Fn)
			args, _ := b.args(e.Args)
			return &ClosureInvocation{Site: site, Closure: closure, Args: args, Pos: e.Fn.NamePos}
		}
		kind := PlainFunction
		if IsConstructorName(e.Fn.Name) {
			kind = Constructor
		}
		site := b.site(kind, e.Fn.Name, len(e.Args), spread, e.Fn.NamePos)
		args, _ := b.args(e.Args)
		return &FunctionInvocation{Site: site, Args: args, Pos: e.Fn.NamePos}

	case *syntax.MethodCallExpr:
		site := b.site(InstanceMethod, e.Name.Name, 1+len(e.Args), hasSpread(e.Args), e.Name.NamePos)
		recv := b.expr(e.Recv)
		args, _ := b.args(e.Args)
		return &MethodInvocation{Site: site, Receiver: recv, Args: args, Pos: e.Name.NamePos}

	case *syntax.IndexExpr:
		// x[i] is x: get(i)
		site := b.site(InstanceMethod, "get", 2, false, e.Lbrack)
		recv := b.expr(e.X)
		index := b.expr(e.Index)
		return &MethodInvocation{Site: site, Receiver: recv, Args: []Expression{index}, Pos: e.Lbrack}

	case *syntax.ArrayExpr:
		arr := &ArrayLiteral{Pos: e.Array}
		for _, elem := range e.List {
			arr.Elems = append(arr.Elems, b.expr(elem))
		}
		return arr

	case *syntax.FuncExpr:
		rf := e.Function.(*resolve.Function)
		fn := b.function(rf, b.fn)
		b.fn.Closures = append(b.fn.Closures, fn)
		return &ClosureCreation{Function: fn, Pos: e.Pipe}

	case *syntax.UnaryExpr:
		site := b.site(Operator, OperatorName(e.Op, true), 1, false, e.OpPos)
		return &UnaryOperation{Site: site, Op: e.Op, X: b.expr(e.X), Pos: e.OpPos}

	case *syntax.BinaryExpr:
		switch e.Op {
		case syntax.AND, syntax.OR:
			return &LogicalOperation{Op: e.Op, X: b.expr(e.X), Y: b.expr(e.Y), Pos: e.OpPos}
		case syntax.OFTYPE:
			site := b.site(Operator, OperatorName(e.Op, false), 2, false, e.OpPos)
			t := e.Y.(*syntax.TypeName)
			y := &ConstantLoad{Value: t.Name, Pos: t.NamePos}
			return &BinaryOperation{Site: site, Op: e.Op, X: b.expr(e.X), Y: y, Pos: e.OpPos}
		}
		site := b.site(Operator, OperatorName(e.Op, false), 2, false, e.OpPos)
		x := b.expr(e.X)
		y := b.expr(e.Y)
		return &BinaryOperation{Site: site, Op: e.Op, X: x, Y: y, Pos: e.OpPos}
	}
	panic(fmt.Sprintf("%s: unexpected expression %T", syntax.Start(e), e))
}

func (b *builder) lookup(id *syntax.Ident) *ReferenceLookup {
	bind := b.binding(id)
	return &ReferenceLookup{Name: id.Name, Ref: bind.Ref, Binding: bind, Pos: id.NamePos}
}
