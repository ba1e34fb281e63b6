// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ir defines the intermediate representation of a resolved
// Golo module.
//
// The IR is position-tagged and scope-annotated: every reference
// carries its resolved Reference and Binding, every block its Scope.
// Every call, method call, index, constructor call, closure invocation
// and operator becomes a CallSite, numbered in IR order. Call sites
// are bound to their targets only at run time.
package ir // import "go.golo.dev/ir"

import (
	"fmt"

	"go.golo.dev/resolve"
	"go.golo.dev/syntax"
)

// Predefined is the module implicitly imported by every module.
const Predefined = "gololang.Predefined"

// A Module is a compiled source file.
type Module struct {
	Name      string
	Pos       syntax.Position
	Functions []*Function          // module functions, in declaration order
	State     []*resolve.Reference // module state, in declaration order
	Init      *Function            // initializes State
	CallSites []*CallSite          // indexed by CallSite.Index

	imports []string
}

// Imports returns the module's imports, in order, starting with the
// implicit Predefined import. Duplicates are preserved.
func (m *Module) Imports() []string {
	return append([]string{Predefined}, m.imports...)
}

// A Visibility says who may call a module function.
type Visibility uint8

const (
	Public  Visibility = iota // callable from any module
	Private                   // 'local': callable from its own module only
)

func (v Visibility) String() string {
	if v == Private {
		return "local"
	}
	return "public"
}

// A Function is a module function, a closure, or the module initializer.
type Function struct {
	Name       string
	Pos        syntax.Position
	Visibility Visibility
	Params     []*resolve.Reference
	Varargs    bool
	Scope      *resolve.Scope
	Body       *Block
	Locals     []*resolve.Reference // parameters first
	FreeVars   []*resolve.Reference
	Parent     *Function   // enclosing function of a closure
	Closures   []*Function // closures created directly by this function

	resolved *resolve.Function
}

// Public reports whether the function may be called from other modules.
func (fn *Function) Public() bool { return fn.Visibility == Public }

// Static reports whether the function can be invoked without an
// instance. Golo functions always can.
func (fn *Function) Static() bool { return true }

// Arity returns the number of declared parameters, including a
// varargs parameter.
func (fn *Function) Arity() int { return len(fn.Params) }

// IsClosure reports whether fn is nested inside another function.
func (fn *Function) IsClosure() bool { return fn.Parent != nil }

// FreeIndex returns the index of ref in fn.FreeVars.
func (fn *Function) FreeIndex(ref *resolve.Reference) (int, bool) {
	return fn.resolved.FreeIndex(ref)
}

// Declares reports whether ref is one of fn's own locals.
func (fn *Function) Declares(ref *resolve.Reference) bool {
	return ref.Function != nil && ref.Function == fn.resolved
}

func (fn *Function) String() string {
	if fn.Varargs {
		return fmt.Sprintf("%s/%d...", fn.Name, fn.Arity())
	}
	return fmt.Sprintf("%s/%d", fn.Name, fn.Arity())
}

// A Block is a sequence of statements with its own scope.
type Block struct {
	Scope      *resolve.Scope
	Statements []Statement
}

// A Node is an IR statement or expression.
type Node interface {
	Start() syntax.Position
}

// A Statement is an IR statement.
type Statement interface {
	Node
	stmt()
}

func (*AssignmentStatement) stmt()  {}
func (*ReturnStatement) stmt()      {}
func (*ConditionalBranching) stmt() {}
func (*LoopStatement) stmt()        {}
func (*ExpressionStatement) stmt()  {}

// An AssignmentStatement binds a value to a reference.
// Declaring is set for the initialization of a let or var.
type AssignmentStatement struct {
	Ref       *resolve.Reference
	Binding   *resolve.Binding
	Value     Expression
	Declaring bool
	Pos       syntax.Position
}

// A ReturnStatement returns Value, or null if Value is nil.
type ReturnStatement struct {
	Value Expression
	Pos   syntax.Position
}

// A ConditionalBranching is an if statement.
// False is nil if there is no else branch.
type ConditionalBranching struct {
	Cond  Expression
	True  *Block
	False *Block
	Pos   syntax.Position
}

// A LoopStatement is a while loop, or a for loop if Init is non-nil.
type LoopStatement struct {
	Scope *resolve.Scope // of the loop variable; nil for while loops
	Init  *AssignmentStatement
	Cond  Expression
	Post  Statement // may be nil
	Body  *Block
	Pos   syntax.Position
}

// An ExpressionStatement evaluates X and discards the result.
type ExpressionStatement struct {
	X Expression
}

func (s *AssignmentStatement) Start() syntax.Position  { return s.Pos }
func (s *ReturnStatement) Start() syntax.Position      { return s.Pos }
func (s *ConditionalBranching) Start() syntax.Position { return s.Pos }
func (s *LoopStatement) Start() syntax.Position        { return s.Pos }
func (s *ExpressionStatement) Start() syntax.Position  { return s.X.Start() }

// An Expression is an IR expression.
type Expression interface {
	Node
	expr()
}

func (*ConstantLoad) expr()       {}
func (*ReferenceLookup) expr()    {}
func (*FunctionInvocation) expr() {}
func (*MethodInvocation) expr()   {}
func (*ClosureInvocation) expr()  {}
func (*BinaryOperation) expr()    {}
func (*UnaryOperation) expr()     {}
func (*LogicalOperation) expr()   {}
func (*ArrayLiteral) expr()       {}
func (*ClosureCreation) expr()    {}

// A ConstantLoad is a literal.
// Value is a string, int32, int64, float64, bool, or nil.
type ConstantLoad struct {
	Value interface{}
	Pos   syntax.Position
}

// A ReferenceLookup reads a resolved reference.
type ReferenceLookup struct {
	Name    string
	Ref     *resolve.Reference
	Binding *resolve.Binding
	Pos     syntax.Position
}

// A FunctionInvocation calls a module function or a constructor.
// If Site.Spread, the last argument is a pre-built array of the
// trailing arguments.
type FunctionInvocation struct {
	Site *CallSite
	Args []Expression
	Pos  syntax.Position
}

// A MethodInvocation calls a method of Receiver.
type MethodInvocation struct {
	Site     *CallSite
	Receiver Expression
	Args     []Expression
	Pos      syntax.Position
}

// A ClosureInvocation calls the closure held by a reference.
// It dispatches like a call of the closure's "invoke" method.
type ClosureInvocation struct {
	Site    *CallSite
	Closure *ReferenceLookup
	Args    []Expression
	Pos     syntax.Position
}

// A BinaryOperation applies a dispatched binary operator.
// For 'oftype', Y is a ConstantLoad of the type name.
type BinaryOperation struct {
	Site *CallSite
	Op   syntax.Token
	X, Y Expression
	Pos  syntax.Position
}

// A UnaryOperation applies a dispatched unary operator: not, -.
type UnaryOperation struct {
	Site *CallSite
	Op   syntax.Token
	X    Expression
	Pos  syntax.Position
}

// A LogicalOperation is a short-circuit 'and' or 'or'.
// It has no call site.
type LogicalOperation struct {
	Op   syntax.Token // = AND | OR
	X, Y Expression
	Pos  syntax.Position
}

// An ArrayLiteral creates an array.
type ArrayLiteral struct {
	Elems []Expression
	Pos   syntax.Position
}

// A ClosureCreation captures the current values of Function.FreeVars.
type ClosureCreation struct {
	Function *Function
	Pos      syntax.Position
}

func (e *ConstantLoad) Start() syntax.Position       { return e.Pos }
func (e *ReferenceLookup) Start() syntax.Position    { return e.Pos }
func (e *FunctionInvocation) Start() syntax.Position { return e.Pos }
func (e *MethodInvocation) Start() syntax.Position   { return e.Pos }
func (e *ClosureInvocation) Start() syntax.Position  { return e.Pos }
func (e *BinaryOperation) Start() syntax.Position    { return e.Pos }
func (e *UnaryOperation) Start() syntax.Position     { return e.Pos }
func (e *LogicalOperation) Start() syntax.Position   { return e.Pos }
func (e *ArrayLiteral) Start() syntax.Position       { return e.Pos }
func (e *ClosureCreation) Start() syntax.Position    { return e.Pos }

// A CallKind says how a call site finds its target.
type CallKind uint8

const (
	PlainFunction  CallKind = iota // module function, by name and arity
	InstanceMethod                 // method of the receiver's class
	Constructor                    // constructor of a named class
	Operator                       // operator implementation selected by operand classes
)

var callKindNames = [...]string{
	PlainFunction:  "function",
	InstanceMethod: "method",
	Constructor:    "constructor",
	Operator:       "operator",
}

func (k CallKind) String() string { return callKindNames[k] }

// A CallSite describes one dynamic call.
//
// Argc is the number of operands the call consumes, including the
// receiver of a method. If Spread is set, the last operand is a
// pre-built array passed through as the callee's trailing arguments;
// otherwise trailing arguments are collected by the callee.
type CallSite struct {
	Index  int
	Kind   CallKind
	Name   string
	Argc   int
	Spread bool
	Pos    syntax.Position
}

func (s *CallSite) String() string {
	spread := ""
	if s.Spread {
		spread = "..."
	}
	return fmt.Sprintf("#%d %s %s/%d%s", s.Index, s.Kind, s.Name, s.Argc, spread)
}

// Operator call site names.
var operatorNames = map[syntax.Token]string{
	syntax.PLUS:    "plus",
	syntax.MINUS:   "minus",
	syntax.STAR:    "times",
	syntax.SLASH:   "divide",
	syntax.PERCENT: "modulo",
	syntax.EQL:     "equals",
	syntax.NEQ:     "notequals",
	syntax.LT:      "less",
	syntax.LE:      "lessorequals",
	syntax.GT:      "more",
	syntax.GE:      "moreorequals",
	syntax.IS:      "is",
	syntax.ISNT:    "isnt",
	syntax.OFTYPE:  "oftype",
}

// OperatorName returns the call site name of a binary operator, or of
// the unary operators 'not' and '-' if unary is set.
func OperatorName(op syntax.Token, unary bool) string {
	if unary {
		switch op {
		case syntax.MINUS:
			return "neg"
		case syntax.NOT:
			return "not"
		}
		return ""
	}
	return operatorNames[op]
}
