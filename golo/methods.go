// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package golo

// This file defines the methods of the builtin classes.

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// method returns a Builtin method taking a receiver and arity more
// arguments.
func method(name string, arity int, fn func(thread *Thread, b *Builtin, args []Value) (Value, error)) *Builtin {
	return NewBuiltin(name, 1+arity, false, fn)
}

func defineBuiltinMethods() {
	ObjectClass.AddMethod(method("toString", 0, object_toString))
	ObjectClass.AddMethod(method("equals", 1, object_equals))

	NumberClass.AddMethod(method("intValue", 0, number_intValue))
	NumberClass.AddMethod(method("longValue", 0, number_longValue))
	NumberClass.AddMethod(method("doubleValue", 0, number_doubleValue))
	NumberClass.AddMethod(method("compareTo", 1, number_compareTo))

	StringClass.AddMethod(method("length", 0, string_length))
	StringClass.AddMethod(method("size", 0, string_length))
	StringClass.AddMethod(method("isEmpty", 0, string_isEmpty))
	StringClass.AddMethod(method("get", 1, string_get))
	StringClass.AddMethod(method("toUpperCase", 0, string_toUpperCase))
	StringClass.AddMethod(method("toLowerCase", 0, string_toLowerCase))
	StringClass.AddMethod(method("trim", 0, string_trim))
	StringClass.AddMethod(method("contains", 1, string_contains))
	StringClass.AddMethod(method("startsWith", 1, string_startsWith))
	StringClass.AddMethod(method("endsWith", 1, string_endsWith))
	StringClass.AddMethod(method("indexOf", 1, string_indexOf))
	StringClass.AddMethod(method("substring", 2, string_substring))
	StringClass.AddMethod(method("compareTo", 1, string_compareTo))

	ArrayClass.AddMethod(method("get", 1, array_get))
	ArrayClass.AddMethod(method("set", 2, array_set))
	ArrayClass.AddMethod(method("size", 0, array_size))
	ArrayClass.AddMethod(method("length", 0, array_size))
	ArrayClass.AddMethod(method("isEmpty", 0, array_isEmpty))
	ArrayClass.AddMethod(method("contains", 1, array_contains))

	FunctionClass.AddMethod(NewBuiltin("invoke", 2, true, function_invoke))
	FunctionClass.AddMethod(method("arity", 0, function_arity))
	FunctionClass.AddMethod(method("isVarargs", 0, function_isVarargs))
	FunctionClass.AddMethod(method("name", 0, function_name))

	ClassClass.AddMethod(method("name", 0, class_name))
	ClassClass.AddMethod(method("simpleName", 0, class_simpleName))
}

// ---- Object ----

func object_toString(_ *Thread, _ *Builtin, args []Value) (Value, error) {
	return String(args[0].String()), nil
}

func object_equals(_ *Thread, _ *Builtin, args []Value) (Value, error) {
	return Bool(Equal(args[0], args[1])), nil
}

// ---- Number ----

func number_intValue(_ *Thread, _ *Builtin, args []Value) (Value, error) {
	switch x := args[0].(type) {
	case Int:
		return x, nil
	case Long:
		return Int(x), nil
	case Float:
		return Int(int64(x)), nil
	}
	return nil, fmt.Errorf("intValue: not a number: %s", args[0].Class())
}

func number_longValue(_ *Thread, _ *Builtin, args []Value) (Value, error) {
	switch x := args[0].(type) {
	case Int:
		return Long(x), nil
	case Long:
		return x, nil
	case Float:
		return Long(x), nil
	}
	return nil, fmt.Errorf("longValue: not a number: %s", args[0].Class())
}

func number_doubleValue(_ *Thread, b *Builtin, args []Value) (Value, error) {
	f, ok := AsFloat(args[0])
	if !ok {
		return nil, fmt.Errorf("%s: not a number: %s", b.Name(), args[0].Class())
	}
	return Float(f), nil
}

func number_compareTo(_ *Thread, b *Builtin, args []Value) (Value, error) {
	kx, ky := numKind(args[0]), numKind(args[1])
	if kx == notNumber || ky == notNumber {
		return nil, fmt.Errorf("%s: cannot compare %s with %s", b.Name(), args[0].Class(), args[1].Class())
	}
	return Int(compareNumbers(args[0], args[1], max(kx, ky))), nil
}

// ---- String ----

func string_length(_ *Thread, _ *Builtin, args []Value) (Value, error) {
	return Int(utf8.RuneCountInString(string(args[0].(String)))), nil
}

func string_isEmpty(_ *Thread, _ *Builtin, args []Value) (Value, error) {
	return Bool(args[0].(String) == ""), nil
}

func string_get(_ *Thread, b *Builtin, args []Value) (Value, error) {
	var i int
	if err := UnpackArgs(b.Name(), args[1:], &i); err != nil {
		return nil, err
	}
	runes := []rune(string(args[0].(String)))
	if i < 0 || i >= len(runes) {
		return nil, fmt.Errorf("%s: index %d out of range [0:%d]", b.Name(), i, len(runes))
	}
	return String(runes[i]), nil
}

func string_toUpperCase(_ *Thread, _ *Builtin, args []Value) (Value, error) {
	return String(strings.ToUpper(string(args[0].(String)))), nil
}

func string_toLowerCase(_ *Thread, _ *Builtin, args []Value) (Value, error) {
	return String(strings.ToLower(string(args[0].(String)))), nil
}

func string_trim(_ *Thread, _ *Builtin, args []Value) (Value, error) {
	return String(strings.TrimSpace(string(args[0].(String)))), nil
}

// stringArgs returns the receiver and the String argument of a
// one-argument string method.
func stringArgs(b *Builtin, args []Value) (recv, arg string, err error) {
	err = UnpackArgs(b.Name(), args, &recv, &arg)
	return
}

func string_contains(_ *Thread, b *Builtin, args []Value) (Value, error) {
	s, sub, err := stringArgs(b, args)
	if err != nil {
		return nil, err
	}
	return Bool(strings.Contains(s, sub)), nil
}

func string_startsWith(_ *Thread, b *Builtin, args []Value) (Value, error) {
	s, prefix, err := stringArgs(b, args)
	if err != nil {
		return nil, err
	}
	return Bool(strings.HasPrefix(s, prefix)), nil
}

func string_endsWith(_ *Thread, b *Builtin, args []Value) (Value, error) {
	s, suffix, err := stringArgs(b, args)
	if err != nil {
		return nil, err
	}
	return Bool(strings.HasSuffix(s, suffix)), nil
}

func string_indexOf(_ *Thread, b *Builtin, args []Value) (Value, error) {
	s, sub, err := stringArgs(b, args)
	if err != nil {
		return nil, err
	}
	i := strings.Index(s, sub)
	if i < 0 {
		return Int(-1), nil
	}
	return Int(utf8.RuneCountInString(s[:i])), nil
}

func string_substring(_ *Thread, b *Builtin, args []Value) (Value, error) {
	var s string
	var start, end int
	if err := UnpackArgs(b.Name(), args, &s, &start, &end); err != nil {
		return nil, err
	}
	runes := []rune(s)
	if start < 0 || end > len(runes) || start > end {
		return nil, fmt.Errorf("%s: range [%d:%d] out of bounds [0:%d]", b.Name(), start, end, len(runes))
	}
	return String(runes[start:end]), nil
}

func string_compareTo(_ *Thread, b *Builtin, args []Value) (Value, error) {
	x, y, err := stringArgs(b, args)
	if err != nil {
		return nil, err
	}
	return Int(strings.Compare(x, y)), nil
}

// ---- Array ----

func arrayIndex(b *Builtin, a *Array, v Value) (int, error) {
	var i int
	if err := unpackOneArg(v, &i); err != nil {
		return 0, fmt.Errorf("%s: %s", b.Name(), err)
	}
	if i < 0 || i >= a.Len() {
		return 0, fmt.Errorf("%s: index %d out of range [0:%d]", b.Name(), i, a.Len())
	}
	return i, nil
}

func array_get(_ *Thread, b *Builtin, args []Value) (Value, error) {
	a := args[0].(*Array)
	i, err := arrayIndex(b, a, args[1])
	if err != nil {
		return nil, err
	}
	return a.elems[i], nil
}

func array_set(_ *Thread, b *Builtin, args []Value) (Value, error) {
	a := args[0].(*Array)
	i, err := arrayIndex(b, a, args[1])
	if err != nil {
		return nil, err
	}
	a.elems[i] = args[2]
	return None, nil
}

func array_size(_ *Thread, _ *Builtin, args []Value) (Value, error) {
	return Int(args[0].(*Array).Len()), nil
}

func array_isEmpty(_ *Thread, _ *Builtin, args []Value) (Value, error) {
	return Bool(args[0].(*Array).Len() == 0), nil
}

func array_contains(_ *Thread, _ *Builtin, args []Value) (Value, error) {
	for _, elem := range args[0].(*Array).elems {
		if Equal(elem, args[1]) {
			return True, nil
		}
	}
	return False, nil
}

// ---- Function ----

// function_invoke calls the receiver with the trailing arguments.
// Calls of closures held in references dispatch to it.
func function_invoke(thread *Thread, _ *Builtin, args []Value) (Value, error) {
	return Call(thread, args[0], args[1].(*Array).elems)
}

func function_arity(_ *Thread, _ *Builtin, args []Value) (Value, error) {
	return Int(args[0].(Callable).NumParams()), nil
}

func function_isVarargs(_ *Thread, _ *Builtin, args []Value) (Value, error) {
	return Bool(args[0].(Callable).HasVarargs()), nil
}

func function_name(_ *Thread, _ *Builtin, args []Value) (Value, error) {
	return String(args[0].(Callable).Name()), nil
}

// ---- Class ----

func class_name(_ *Thread, _ *Builtin, args []Value) (Value, error) {
	return String(args[0].(*Class).Name), nil
}

func class_simpleName(_ *Thread, _ *Builtin, args []Value) (Value, error) {
	return String(args[0].(*Class).SimpleName()), nil
}
