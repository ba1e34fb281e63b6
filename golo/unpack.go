// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package golo

import (
	"fmt"
	"math"
)

// UnpackArgs unpacks the positional arguments into corresponding
// variables. Each element of vars is a pointer; the argument is
// converted according to the pointer's type:
//
//	*Value          any value
//	*string         String
//	*bool           Boolean
//	*int            Integer, or Long within the range of int
//	*int64          Integer or Long
//	*float64        any number
//	**Array         Array
//	*Callable       Function
//
// A nil pointer skips the corresponding argument.
func UnpackArgs(fnname string, args []Value, vars ...interface{}) error {
	if len(args) != len(vars) {
		return fmt.Errorf("%s: got %d arguments, want %d", fnname, len(args), len(vars))
	}
	for i, arg := range args {
		if vars[i] == nil {
			continue
		}
		if err := unpackOneArg(arg, vars[i]); err != nil {
			return fmt.Errorf("%s: for parameter %d: %s", fnname, i+1, err)
		}
	}
	return nil
}

func unpackOneArg(v Value, ptr interface{}) error {
	switch ptr := ptr.(type) {
	case *Value:
		*ptr = v
	case *string:
		s, ok := v.(String)
		if !ok {
			return fmt.Errorf("got %s, want String", v.Class())
		}
		*ptr = string(s)
	case *bool:
		b, ok := v.(Bool)
		if !ok {
			return fmt.Errorf("got %s, want Boolean", v.Class())
		}
		*ptr = bool(b)
	case *int:
		switch x := v.(type) {
		case Int:
			*ptr = int(x)
		case Long:
			if x < math.MinInt || x > math.MaxInt {
				return fmt.Errorf("long %d out of range", x)
			}
			*ptr = int(x)
		default:
			return fmt.Errorf("got %s, want Integer", v.Class())
		}
	case *int64:
		switch x := v.(type) {
		case Int:
			*ptr = int64(x)
		case Long:
			*ptr = int64(x)
		default:
			return fmt.Errorf("got %s, want Long", v.Class())
		}
	case *float64:
		f, ok := AsFloat(v)
		if !ok {
			return fmt.Errorf("got %s, want Number", v.Class())
		}
		*ptr = f
	case **Array:
		a, ok := v.(*Array)
		if !ok {
			return fmt.Errorf("got %s, want Array", v.Class())
		}
		*ptr = a
	case *Callable:
		c, ok := v.(Callable)
		if !ok {
			return fmt.Errorf("got %s, want Function", v.Class())
		}
		*ptr = c
	default:
		panic(fmt.Sprintf("cannot unpack %s into %T", v.Class(), ptr))
	}
	return nil
}

// AsFloat returns the value of a number as a float64.
func AsFloat(v Value) (float64, bool) {
	switch x := v.(type) {
	case Int:
		return float64(x), true
	case Long:
		return float64(x), true
	case Float:
		return float64(x), true
	}
	return 0, false
}
