// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ir

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// Dump returns a deterministic textual form of the module.
// Call sites are written as #index before the call they describe.
func Dump(m *Module) string {
	d := &dumper{}
	fmt.Fprintf(&d.buf, "module %s\n", m.Name)
	for _, imp := range m.Imports() {
		fmt.Fprintf(&d.buf, "import %s\n", imp)
	}
	for _, ref := range m.State {
		fmt.Fprintf(&d.buf, "state %d %s (%s)\n", ref.Index, ref.Name, ref.Kind)
	}
	if len(m.Init.Body.Statements) > 0 {
		d.function(m.Init, 0)
	}
	for _, fn := range m.Functions {
		d.function(fn, 0)
	}
	return d.buf.String()
}

type dumper struct {
	buf bytes.Buffer
}

func (d *dumper) indent(depth int) {
	d.buf.WriteString(strings.Repeat("  ", depth))
}

func (d *dumper) function(fn *Function, depth int) {
	d.indent(depth)
	fmt.Fprintf(&d.buf, "function %s %s", fn, fn.Visibility)
	if len(fn.FreeVars) > 0 {
		d.buf.WriteString(" free(")
		for i, ref := range fn.FreeVars {
			if i > 0 {
				d.buf.WriteString(", ")
			}
			d.buf.WriteString(ref.Name)
		}
		d.buf.WriteString(")")
	}
	d.buf.WriteString("\n")
	d.block(fn.Body, depth+1)
	for _, cl := range fn.Closures {
		d.function(cl, depth+1)
	}
}

func (d *dumper) block(b *Block, depth int) {
	for _, stmt := range b.Statements {
		d.stmt(stmt, depth)
	}
}

func (d *dumper) stmt(stmt Statement, depth int) {
	d.indent(depth)
	switch stmt := stmt.(type) {
	case *AssignmentStatement:
		d.assign(stmt)
		d.buf.WriteString("\n")

	case *ReturnStatement:
		d.buf.WriteString("return")
		if stmt.Value != nil {
			d.buf.WriteString(" ")
			d.expr(stmt.Value)
		}
		d.buf.WriteString("\n")

	case *ConditionalBranching:
		d.buf.WriteString("if ")
		d.expr(stmt.Cond)
		d.buf.WriteString(" {\n")
		d.block(stmt.True, depth+1)
		if stmt.False != nil {
			d.indent(depth)
			d.buf.WriteString("} else {\n")
			d.block(stmt.False, depth+1)
		}
		d.indent(depth)
		d.buf.WriteString("}\n")

	case *LoopStatement:
		if stmt.Init != nil {
			d.buf.WriteString("for (")
			d.assign(stmt.Init)
			d.buf.WriteString(", ")
			d.expr(stmt.Cond)
			d.buf.WriteString(", ")
			switch post := stmt.Post.(type) {
			case *AssignmentStatement:
				d.assign(post)
			case *ExpressionStatement:
				d.expr(post.X)
			}
			d.buf.WriteString(") {\n")
		} else {
			d.buf.WriteString("while ")
			d.expr(stmt.Cond)
			d.buf.WriteString(" {\n")
		}
		d.block(stmt.Body, depth+1)
		d.indent(depth)
		d.buf.WriteString("}\n")

	case *ExpressionStatement:
		d.expr(stmt.X)
		d.buf.WriteString("\n")
	}
}

func (d *dumper) assign(s *AssignmentStatement) {
	if s.Declaring {
		if s.Ref.Kind.IsConstant() {
			d.buf.WriteString("let ")
		} else {
			d.buf.WriteString("var ")
		}
	}
	fmt.Fprintf(&d.buf, "%s:%s = ", s.Binding.Storage, s.Ref.Name)
	d.expr(s.Value)
}

func (d *dumper) args(args []Expression, spread bool) {
	d.buf.WriteString("(")
	for i, arg := range args {
		if i > 0 {
			d.buf.WriteString(", ")
		}
		d.expr(arg)
	}
	if spread {
		d.buf.WriteString("...")
	}
	d.buf.WriteString(")")
}

func (d *dumper) expr(e Expression) {
	switch e := e.(type) {
	case *ConstantLoad:
		switch v := e.Value.(type) {
		case nil:
			d.buf.WriteString("null")
		case string:
			d.buf.WriteString(strconv.Quote(v))
		case int64:
			fmt.Fprintf(&d.buf, "%d_L", v)
		default:
			fmt.Fprint(&d.buf, v)
		}

	case *ReferenceLookup:
		fmt.Fprintf(&d.buf, "%s:%s", e.Binding.Storage, e.Name)

	case *FunctionInvocation:
		fmt.Fprintf(&d.buf, "#%d ", e.Site.Index)
		if e.Site.Kind == Constructor {
			d.buf.WriteString("new ")
		}
		d.buf.WriteString(e.Site.Name)
		d.args(e.Args, e.Site.Spread)

	case *MethodInvocation:
		fmt.Fprintf(&d.buf, "#%d ", e.Site.Index)
		d.expr(e.Receiver)
		fmt.Fprintf(&d.buf, ": %s", e.Site.Name)
		d.args(e.Args, e.Site.Spread)

	case *ClosureInvocation:
		fmt.Fprintf(&d.buf, "#%d ", e.Site.Index)
		d.expr(e.Closure)
		d.buf.WriteString(": invoke")
		d.args(e.Args, e.Site.Spread)

	case *BinaryOperation:
		fmt.Fprintf(&d.buf, "#%d (", e.Site.Index)
		d.expr(e.X)
		fmt.Fprintf(&d.buf, " %s ", e.Site.Name)
		d.expr(e.Y)
		d.buf.WriteString(")")

	case *UnaryOperation:
		fmt.Fprintf(&d.buf, "#%d (%s ", e.Site.Index, e.Site.Name)
		d.expr(e.X)
		d.buf.WriteString(")")

	case *LogicalOperation:
		d.buf.WriteString("(")
		d.expr(e.X)
		fmt.Fprintf(&d.buf, " %s ", e.Op)
		d.expr(e.Y)
		d.buf.WriteString(")")

	case *ArrayLiteral:
		d.buf.WriteString("array")
		d.buf.WriteString("[")
		for i, elem := range e.Elems {
			if i > 0 {
				d.buf.WriteString(", ")
			}
			d.expr(elem)
		}
		d.buf.WriteString("]")

	case *ClosureCreation:
		fmt.Fprintf(&d.buf, "closure %s", e.Function)
	}
}
