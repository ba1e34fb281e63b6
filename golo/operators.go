// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package golo

// This file defines the operators. An operator call site selects one
// of the specialized implementations below from the classes of its
// operands, and caches it for those classes.

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// numeric kinds, in promotion order
type numericKind int

const (
	notNumber numericKind = iota - 1
	kindInt
	kindLong
	kindFloat
)

func numKind(v Value) numericKind {
	switch v.(type) {
	case Int:
		return kindInt
	case Long:
		return kindLong
	case Float:
		return kindFloat
	}
	return notNumber
}

func classKind(c *Class) numericKind {
	switch c {
	case IntegerClass:
		return kindInt
	case LongClass:
		return kindLong
	case DoubleClass:
		return kindFloat
	}
	return notNumber
}

func asLong(v Value) int64 {
	switch x := v.(type) {
	case Int:
		return int64(x)
	case Long:
		return int64(x)
	}
	panic(v)
}

func asDouble(v Value) float64 {
	f, _ := AsFloat(v)
	return f
}

// compareNumbers returns the three-way comparison of two numbers after
// promotion to kind k.
func compareNumbers(x, y Value, k numericKind) int {
	switch k {
	case kindInt, kindLong:
		a, b := asLong(x), asLong(y)
		switch {
		case a < b:
			return -1
		case a > b:
			return +1
		}
		return 0
	}
	a, b := asDouble(x), asDouble(y)
	switch {
	case a < b:
		return -1
	case a > b:
		return +1
	case a == b:
		return 0
	}
	return +2 // NaN: unordered
}

var errDivisionByZero = errors.New("division by zero")

// arith applies an arithmetic operator to two numbers of kind k or
// narrower.
func arith(op string, x, y Value, k numericKind) (Value, error) {
	switch k {
	case kindInt:
		a, b := int32(x.(Int)), int32(y.(Int))
		switch op {
		case "plus":
			return Int(a + b), nil
		case "minus":
			return Int(a - b), nil
		case "times":
			return Int(a * b), nil
		case "divide":
			if b == 0 {
				return nil, errDivisionByZero
			}
			return Int(a / b), nil
		case "modulo":
			if b == 0 {
				return nil, errDivisionByZero
			}
			return Int(a % b), nil
		}
	case kindLong:
		a, b := asLong(x), asLong(y)
		switch op {
		case "plus":
			return Long(a + b), nil
		case "minus":
			return Long(a - b), nil
		case "times":
			return Long(a * b), nil
		case "divide":
			if b == 0 {
				return nil, errDivisionByZero
			}
			return Long(a / b), nil
		case "modulo":
			if b == 0 {
				return nil, errDivisionByZero
			}
			return Long(a % b), nil
		}
	case kindFloat:
		a, b := asDouble(x), asDouble(y)
		switch op {
		case "plus":
			return Float(a + b), nil
		case "minus":
			return Float(a - b), nil
		case "times":
			return Float(a * b), nil
		case "divide":
			return Float(a / b), nil
		case "modulo":
			return Float(math.Mod(a, b)), nil
		}
	}
	panic(op)
}

// comparison returns whether the three-way comparison result c
// satisfies the comparison operator op.
func comparison(op string, c int) bool {
	switch op {
	case "less":
		return c == -1
	case "lessorequals":
		return c == -1 || c == 0
	case "more":
		return c == +1
	case "moreorequals":
		return c == +1 || c == 0
	}
	panic(op)
}

func isArith(op string) bool {
	switch op {
	case "plus", "minus", "times", "divide", "modulo":
		return true
	}
	return false
}

func isComparison(op string) bool {
	switch op {
	case "less", "lessorequals", "more", "moreorequals":
		return true
	}
	return false
}

// fallbackMethods names the method a binary operator calls on its
// left operand when the operands are not both numbers.
var fallbackMethods = map[string]string{
	"plus":         "plus",
	"minus":        "minus",
	"times":        "times",
	"divide":       "divide",
	"modulo":       "modulo",
	"less":         "compareTo",
	"lessorequals": "compareTo",
	"more":         "compareTo",
	"moreorequals": "compareTo",
	"equals":       "equals",
	"notequals":    "equals",
}

// lookupOperator returns the implementation of the named operator for
// operands of the specified classes, or nil if there is none.
func lookupOperator(name string, classes []*Class) Callable {
	if len(classes) == 1 {
		return lookupUnary(name, classes[0])
	}
	x, y := classes[0], classes[1]
	kx, ky := classKind(x), classKind(y)
	numeric := kx != notNumber && ky != notNumber
	k := max(kx, ky)
	label := fmt.Sprintf("%s(%s, %s)", name, x, y)

	switch name {
	case "is", "isnt":
		want := name == "is"
		return NewBuiltin(label, 2, false, func(_ *Thread, _ *Builtin, args []Value) (Value, error) {
			return Bool(Same(args[0], args[1]) == want), nil
		})

	case "oftype":
		if y != StringClass {
			return nil
		}
		return NewBuiltin(label, 2, false, func(_ *Thread, _ *Builtin, args []Value) (Value, error) {
			return Bool(args[0].Class().Is(string(args[1].(String)))), nil
		})

	case "plus":
		if x == StringClass || y == StringClass {
			return NewBuiltin(label, 2, false, concat)
		}
	}

	switch {
	case numeric && isArith(name):
		return NewBuiltin(label, 2, false, func(_ *Thread, _ *Builtin, args []Value) (Value, error) {
			return arith(name, args[0], args[1], k)
		})

	case numeric && isComparison(name):
		return NewBuiltin(label, 2, false, func(_ *Thread, _ *Builtin, args []Value) (Value, error) {
			return Bool(comparison(name, compareNumbers(args[0], args[1], k))), nil
		})

	case numeric && (name == "equals" || name == "notequals"):
		want := name == "equals"
		return NewBuiltin(label, 2, false, func(_ *Thread, _ *Builtin, args []Value) (Value, error) {
			return Bool((compareNumbers(args[0], args[1], k) == 0) == want), nil
		})

	case x == StringClass && y == StringClass && isComparison(name):
		return NewBuiltin(label, 2, false, func(_ *Thread, _ *Builtin, args []Value) (Value, error) {
			c := strings.Compare(string(args[0].(String)), string(args[1].(String)))
			return Bool(comparison(name, c)), nil
		})
	}

	// Fall back to a method of the left operand.
	m := x.LookupMethod(fallbackMethods[name], 2)
	if m == nil {
		if name != "equals" && name != "notequals" {
			return nil
		}
		m = ObjectClass.LookupMethod("equals", 2) // Null has no methods
	}
	switch {
	case isArith(name):
		return m
	case isComparison(name):
		return NewBuiltin(label, 2, false, func(thread *Thread, _ *Builtin, args []Value) (Value, error) {
			res, err := Call(thread, m, args)
			if err != nil {
				return nil, err
			}
			c, ok := res.(Int)
			if !ok {
				return nil, fmt.Errorf("%s returned %s, want Integer", m.Name(), res.Class())
			}
			return Bool(comparison(name, sign(int(c)))), nil
		})
	default: // equals, notequals
		want := name == "equals"
		return NewBuiltin(label, 2, false, func(thread *Thread, _ *Builtin, args []Value) (Value, error) {
			res, err := Call(thread, m, args)
			if err != nil {
				return nil, err
			}
			b, ok := res.(Bool)
			if !ok {
				return nil, fmt.Errorf("%s returned %s, want Boolean", m.Name(), res.Class())
			}
			return Bool(bool(b) == want), nil
		})
	}
}

func lookupUnary(name string, x *Class) Callable {
	label := fmt.Sprintf("%s(%s)", name, x)
	switch name {
	case "not":
		if x != BooleanClass {
			return nil
		}
		return NewBuiltin(label, 1, false, func(_ *Thread, _ *Builtin, args []Value) (Value, error) {
			return !args[0].(Bool), nil
		})
	case "neg":
		switch x {
		case IntegerClass:
			return NewBuiltin(label, 1, false, func(_ *Thread, _ *Builtin, args []Value) (Value, error) {
				return -args[0].(Int), nil
			})
		case LongClass:
			return NewBuiltin(label, 1, false, func(_ *Thread, _ *Builtin, args []Value) (Value, error) {
				return -args[0].(Long), nil
			})
		case DoubleClass:
			return NewBuiltin(label, 1, false, func(_ *Thread, _ *Builtin, args []Value) (Value, error) {
				return -args[0].(Float), nil
			})
		}
		return x.LookupMethod("negate", 1)
	}
	return nil
}

// concat concatenates the string representations of its operands.
func concat(_ *Thread, _ *Builtin, args []Value) (Value, error) {
	return String(args[0].String() + args[1].String()), nil
}

func sign(x int) int {
	switch {
	case x < 0:
		return -1
	case x > 0:
		return +1
	}
	return 0
}

// Compare returns the three-way comparison of two numbers, or of two
// strings. It fails for other operands, and for unordered numbers.
func Compare(x, y Value) (int, error) {
	if kx, ky := numKind(x), numKind(y); kx != notNumber && ky != notNumber {
		if c := compareNumbers(x, y, max(kx, ky)); c != +2 {
			return c, nil
		}
		return 0, fmt.Errorf("cannot compare %s with %s", x, y)
	}
	if x, ok := x.(String); ok {
		if y, ok := y.(String); ok {
			return strings.Compare(string(x), string(y)), nil
		}
	}
	return 0, fmt.Errorf("cannot compare %s with %s", x.Class(), y.Class())
}
