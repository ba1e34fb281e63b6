// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package syntax provides a Golo parser and abstract syntax tree.
package syntax

// A Node is a node in a Golo syntax tree.
type Node interface {
	// Span returns the start and end position of the node.
	Span() (start, end Position)
}

// Start returns the start position of the node.
func Start(n Node) Position {
	start, _ := n.Span()
	return start
}

// End returns the end position of the node.
func End(n Node) Position {
	_, end := n.Span()
	return end
}

// A File represents a Golo module source file.
type File struct {
	Path    string
	Module  Position // position of MODULE token
	Name    *Ident   // dotted module name
	Imports []*ImportDecl
	Decls   []Decl // *FunctionDecl or module-level *DeclStmt, in source order

	Toplevel interface{} // a *resolve.Module, set by resolver
}

func (x *File) Span() (start, end Position) {
	end = x.Name.NamePos.add(x.Name.Name)
	if n := len(x.Decls); n > 0 {
		_, end = x.Decls[n-1].Span()
	} else if n := len(x.Imports); n > 0 {
		_, end = x.Imports[n-1].Span()
	}
	return x.Module, end
}

// A Decl is a top-level declaration: a function or module state.
type Decl interface {
	Node
	decl()
}

func (*FunctionDecl) decl() {}
func (*DeclStmt) decl()     {}

// An ImportDecl represents an import: import java.util.List.
type ImportDecl struct {
	Import Position
	Name   *Ident // dotted name; never resolved
}

func (x *ImportDecl) Span() (start, end Position) {
	return x.Import, x.Name.NamePos.add(x.Name.Name)
}

// A FunctionDecl represents a module function:
//
//	[local] function name = |params| { body }
//	[local] function name = |params| -> expr
type FunctionDecl struct {
	Local    Position // position of LOCAL token, if any
	Func     Position // position of FUNCTION token
	Name     *Ident   // never resolved
	Params   []*Ident
	Varargs  bool // last parameter is followed by '...'
	Body     []Stmt
	Rbrace   Position    // end of body
	Function interface{} // a *resolve.Function, set by resolver
}

// IsLocal reports whether the function is private to its module.
func (x *FunctionDecl) IsLocal() bool { return x.Local.IsValid() }

func (x *FunctionDecl) Span() (start, end Position) {
	start = x.Func
	if x.Local.IsValid() {
		start = x.Local
	}
	return start, x.Rbrace
}

// A Stmt is a Golo statement.
type Stmt interface {
	Node
	stmt()
}

func (*AssignStmt) stmt() {}
func (*DeclStmt) stmt()   {}
func (*ExprStmt) stmt()   {}
func (*ForStmt) stmt()    {}
func (*IfStmt) stmt()     {}
func (*ReturnStmt) stmt() {}
func (*WhileStmt) stmt()  {}

// A DeclStmt declares a reference:
//
//	let x = 0
//	var y = 1
type DeclStmt struct {
	Tok    Token // = LET | VAR
	TokPos Position
	Name   *Ident
	Value  Expr
}

// IsConstant reports whether the declaration is a 'let'.
func (x *DeclStmt) IsConstant() bool { return x.Tok == LET }

func (x *DeclStmt) Span() (start, end Position) {
	_, end = x.Value.Span()
	return x.TokPos, end
}

// An AssignStmt assigns to a previously declared reference: x = e.
type AssignStmt struct {
	Name  *Ident
	EqPos Position
	Value Expr
}

func (x *AssignStmt) Span() (start, end Position) {
	_, end = x.Value.Span()
	return x.Name.NamePos, end
}

// An ExprStmt is an expression evaluated for side effects.
type ExprStmt struct {
	X Expr
}

func (x *ExprStmt) Span() (start, end Position) {
	return x.X.Span()
}

// An IfStmt is a conditional: if Cond { True } else { False }.
// 'else if' is desugared into a chain of IfStmts.
type IfStmt struct {
	If      Position
	Cond    Expr
	True    []Stmt
	ElsePos Position // ELSE, if any
	False   []Stmt   // optional
	Rbrace  Position

	TrueScope, FalseScope interface{} // *resolve.Scope of each branch, set by resolver
}

func (x *IfStmt) Span() (start, end Position) {
	return x.If, x.Rbrace
}

// A WhileStmt is a loop: while Cond { Body }.
type WhileStmt struct {
	While  Position
	Cond   Expr
	Body   []Stmt
	Rbrace Position

	Scope interface{} // *resolve.Scope of the body, set by resolver
}

func (x *WhileStmt) Span() (start, end Position) {
	return x.While, x.Rbrace
}

// A ForStmt is a loop: for (Init, Cond, Post) { Body }.
// The scope of the Init declaration is the loop.
type ForStmt struct {
	For    Position
	Init   *DeclStmt
	Cond   Expr
	Post   Stmt // *AssignStmt or *ExprStmt
	Body   []Stmt
	Rbrace Position

	Scope     interface{} // *resolve.Scope of the loop variable, set by resolver
	BodyScope interface{} // *resolve.Scope of the body, set by resolver
}

func (x *ForStmt) Span() (start, end Position) {
	return x.For, x.Rbrace
}

// A ReturnStmt returns from a function.
type ReturnStmt struct {
	Return Position
	Result Expr // may be nil
}

func (x *ReturnStmt) Span() (start, end Position) {
	if x.Result == nil {
		return x.Return, x.Return.add("return")
	}
	_, end = x.Result.Span()
	return x.Return, end
}

// An Expr is a Golo expression.
type Expr interface {
	Node
	expr()
}

func (*ArrayExpr) expr()      {}
func (*BinaryExpr) expr()     {}
func (*CallExpr) expr()       {}
func (*FuncExpr) expr()       {}
func (*Ident) expr()          {}
func (*IndexExpr) expr()      {}
func (*Literal) expr()        {}
func (*MethodCallExpr) expr() {}
func (*ParenExpr) expr()      {}
func (*SpreadExpr) expr()     {}
func (*TypeName) expr()       {}
func (*UnaryExpr) expr()      {}

// An Ident represents an identifier.
// Identifiers used as call targets may be dotted (pkg.fn).
type Ident struct {
	NamePos Position
	Name    string

	Binding interface{} // a *resolve.Binding, set by resolver
}

func (x *Ident) Span() (start, end Position) {
	return x.NamePos, x.NamePos.add(x.Name)
}

// A Literal represents a literal value.
type Literal struct {
	Token    Token // = STRING | INT | LONG | FLOAT | TRUE | FALSE | NULL
	TokenPos Position
	Raw      string      // uninterpreted text
	Value    interface{} // = string | int32 | int64 | float64 | bool | nil
}

func (x *Literal) Span() (start, end Position) {
	return x.TokenPos, x.TokenPos.add(x.Raw)
}

// A TypeName is the right operand of 'oftype'. It is never resolved.
type TypeName struct {
	NamePos Position
	Name    string
}

func (x *TypeName) Span() (start, end Position) {
	return x.NamePos, x.NamePos.add(x.Name)
}

// A CallExpr represents a function call expression: Fn(Args).
type CallExpr struct {
	Fn     *Ident
	Lparen Position
	Args   []Expr // the last may be a *SpreadExpr
	Rparen Position
}

func (x *CallExpr) Span() (start, end Position) {
	return x.Fn.NamePos, x.Rparen.add(")")
}

// A MethodCallExpr represents a method invocation: Recv: Name(Args).
type MethodCallExpr struct {
	Recv   Expr
	Colon  Position
	Name   *Ident // never resolved
	Lparen Position
	Args   []Expr // the last may be a *SpreadExpr
	Rparen Position
}

func (x *MethodCallExpr) Span() (start, end Position) {
	start, _ = x.Recv.Span()
	return start, x.Rparen.add(")")
}

// An IndexExpr represents an array access: X[Index].
type IndexExpr struct {
	X      Expr
	Lbrack Position
	Index  Expr
	Rbrack Position
}

func (x *IndexExpr) Span() (start, end Position) {
	start, _ = x.X.Span()
	return start, x.Rbrack.add("]")
}

// A SpreadExpr marks the last argument of a call as a pre-built
// varargs collection: f(a, rest...).
type SpreadExpr struct {
	X        Expr
	Ellipsis Position
}

func (x *SpreadExpr) Span() (start, end Position) {
	start, _ = x.X.Span()
	return start, x.Ellipsis.add("...")
}

// An ArrayExpr represents an array literal: array[List].
type ArrayExpr struct {
	Array  Position
	List   []Expr
	Rbrack Position
}

func (x *ArrayExpr) Span() (start, end Position) {
	return x.Array, x.Rbrack.add("]")
}

// A FuncExpr represents a closure: |Params| -> Expr or |Params| { Body }.
// An expression body is desugared into a single ReturnStmt.
type FuncExpr struct {
	Pipe     Position
	Params   []*Ident
	Varargs  bool
	Body     []Stmt
	End      Position
	Function interface{} // a *resolve.Function, set by resolver
}

func (x *FuncExpr) Span() (start, end Position) {
	return x.Pipe, x.End
}

// A ParenExpr represents a parenthesized expression: (X).
type ParenExpr struct {
	Lparen Position
	X      Expr
	Rparen Position
}

func (x *ParenExpr) Span() (start, end Position) {
	return x.Lparen, x.Rparen.add(")")
}

// A UnaryExpr represents a unary expression: Op X.
type UnaryExpr struct {
	OpPos Position
	Op    Token // = NOT | MINUS
	X     Expr
}

func (x *UnaryExpr) Span() (start, end Position) {
	_, end = x.X.Span()
	return x.OpPos, end
}

// A BinaryExpr represents a binary expression: X Op Y.
type BinaryExpr struct {
	X     Expr
	OpPos Position
	Op    Token
	Y     Expr
}

func (x *BinaryExpr) Span() (start, end Position) {
	start, _ = x.X.Span()
	_, end = x.Y.Span()
	return start, end
}
