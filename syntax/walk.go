// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

// Walk traverses a syntax tree in depth-first order.
// It starts by calling f(n); n must not be nil.
// If f returns true, Walk calls itself
// recursively for each non-nil child of n.
// Walk then calls f(nil).
func Walk(n Node, f func(Node) bool) {
	if n == nil {
		panic("nil")
	}
	if !f(n) {
		return
	}

	switch n := n.(type) {
	case *File:
		Walk(n.Name, f)
		for _, imp := range n.Imports {
			Walk(imp, f)
		}
		for _, decl := range n.Decls {
			Walk(decl, f)
		}

	case *ImportDecl:
		Walk(n.Name, f)

	case *FunctionDecl:
		Walk(n.Name, f)
		walkIdents(n.Params, f)
		walkStmts(n.Body, f)

	case *DeclStmt:
		Walk(n.Name, f)
		Walk(n.Value, f)

	case *AssignStmt:
		Walk(n.Name, f)
		Walk(n.Value, f)

	case *ExprStmt:
		Walk(n.X, f)

	case *IfStmt:
		Walk(n.Cond, f)
		walkStmts(n.True, f)
		walkStmts(n.False, f)

	case *WhileStmt:
		Walk(n.Cond, f)
		walkStmts(n.Body, f)

	case *ForStmt:
		Walk(n.Init, f)
		Walk(n.Cond, f)
		Walk(n.Post, f)
		walkStmts(n.Body, f)

	case *ReturnStmt:
		if n.Result != nil {
			Walk(n.Result, f)
		}

	case *Ident, *Literal, *TypeName:
		// no-op

	case *CallExpr:
		Walk(n.Fn, f)
		walkExprs(n.Args, f)

	case *MethodCallExpr:
		Walk(n.Recv, f)
		Walk(n.Name, f)
		walkExprs(n.Args, f)

	case *IndexExpr:
		Walk(n.X, f)
		Walk(n.Index, f)

	case *SpreadExpr:
		Walk(n.X, f)

	case *ArrayExpr:
		walkExprs(n.List, f)

	case *FuncExpr:
		walkIdents(n.Params, f)
		walkStmts(n.Body, f)

	case *ParenExpr:
		Walk(n.X, f)

	case *UnaryExpr:
		Walk(n.X, f)

	case *BinaryExpr:
		Walk(n.X, f)
		Walk(n.Y, f)

	default:
		panic(n)
	}

	f(nil)
}

func walkStmts(stmts []Stmt, f func(Node) bool) {
	for _, stmt := range stmts {
		Walk(stmt, f)
	}
}

func walkExprs(exprs []Expr, f func(Node) bool) {
	for _, expr := range exprs {
		Walk(expr, f)
	}
}

func walkIdents(idents []*Ident, f func(Node) bool) {
	for _, id := range idents {
		Walk(id, f)
	}
}
