// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package golo_test

// This file defines tests of the Value API.

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"go.golo.dev/golo"
)

func TestFloatString(t *testing.T) {
	for _, test := range []struct {
		x    float64
		want string
	}{
		{0, "0.0"},
		{1, "1.0"},
		{-2, "-2.0"},
		{1.5, "1.5"},
		{0.1, "0.1"},
		{1e21, "1e+21"},
		{math.Inf(+1), "Infinity"},
		{math.Inf(-1), "-Infinity"},
		{math.NaN(), "NaN"},
	} {
		if got := golo.Float(test.x).String(); got != test.want {
			t.Errorf("Float(%v).String() = %q, want %q", test.x, got, test.want)
		}
	}
}

func TestEqual(t *testing.T) {
	arr := golo.NewArray([]golo.Value{golo.Int(1), golo.String("a")})
	for _, test := range []struct {
		x, y golo.Value
		want bool
	}{
		{golo.Int(1), golo.Int(1), true},
		{golo.Int(1), golo.Long(1), true},
		{golo.Long(2), golo.Float(2), true},
		{golo.Int(1), golo.Float(1.5), false},
		{golo.Float(math.NaN()), golo.Float(math.NaN()), false},
		{golo.String("a"), golo.String("a"), true},
		{golo.String("1"), golo.Int(1), false},
		{golo.None, golo.None, true},
		{golo.None, golo.False, false},
		{arr, arr, true},
		{arr, golo.NewArray([]golo.Value{golo.Long(1), golo.String("a")}), true},
		{arr, golo.NewArray([]golo.Value{golo.Int(1)}), false},
		{arr, golo.NewArray([]golo.Value{golo.String("a"), golo.Int(1)}), false},
	} {
		if got := golo.Equal(test.x, test.y); got != test.want {
			t.Errorf("Equal(%s, %s) = %t, want %t", test.x, test.y, got, test.want)
		}
	}
}

func TestSame(t *testing.T) {
	a := golo.NewArray(nil)
	b := golo.NewArray(nil)
	require.True(t, golo.Same(a, a))
	require.False(t, golo.Same(a, b))
	require.True(t, golo.Equal(a, b))
	require.True(t, golo.Same(golo.Int(1), golo.Int(1)))
	require.False(t, golo.Same(golo.Int(1), golo.Long(1)))
	require.True(t, golo.Same(golo.None, golo.None))
}

func TestCompare(t *testing.T) {
	for _, test := range []struct {
		x, y golo.Value
		want int
		err  string
	}{
		{x: golo.Int(1), y: golo.Int(2), want: -1},
		{x: golo.Long(3), y: golo.Float(2.5), want: +1},
		{x: golo.Float(2), y: golo.Int(2), want: 0},
		{x: golo.String("b"), y: golo.String("a"), want: +1},
		{x: golo.Float(math.NaN()), y: golo.Int(1), err: "cannot compare NaN with 1"},
		{x: golo.String("a"), y: golo.Int(1), err: "cannot compare String with Integer"},
		{x: golo.True, y: golo.False, err: "cannot compare Boolean with Boolean"},
	} {
		got, err := golo.Compare(test.x, test.y)
		if test.err != "" {
			require.EqualError(t, err, test.err)
			continue
		}
		require.NoError(t, err)
		require.Equal(t, test.want, got, "Compare(%s, %s)", test.x, test.y)
	}
}

func TestClassHierarchy(t *testing.T) {
	require.True(t, golo.IntegerClass.IsSubclassOf(golo.NumberClass))
	require.True(t, golo.IntegerClass.IsSubclassOf(golo.ObjectClass))
	require.False(t, golo.NullClass.IsSubclassOf(golo.ObjectClass))
	require.True(t, golo.DoubleClass.Is("Number"))
	require.False(t, golo.StringClass.Is("Number"))

	c, ok := golo.LookupClass("Array")
	require.True(t, ok)
	require.Same(t, golo.ArrayClass, c)

	// Methods are inherited.
	m := golo.IntegerClass.LookupMethod("toString", 1)
	require.NotNil(t, m)
	require.Nil(t, golo.IntegerClass.LookupMethod("toString", 2))
	require.Contains(t, golo.IntegerClass.MethodNames(), "compareTo")
	require.Contains(t, golo.IntegerClass.MethodNames(), "equals")
	require.Empty(t, golo.NullClass.MethodNames())
}

func TestUnpackArgs(t *testing.T) {
	var (
		s  string
		i  int
		l  int64
		f  float64
		b  bool
		a  *golo.Array
		fn golo.Callable
		v  golo.Value
	)
	arr := golo.NewArray(nil)
	printer := golo.Predefined.Function("println", 1)
	require.NotNil(t, printer)
	args := []golo.Value{golo.String("s"), golo.Int(1), golo.Long(2), golo.Int(3), golo.True, arr, printer, golo.None}
	require.NoError(t, golo.UnpackArgs("f", args, &s, &i, &l, &f, &b, &a, &fn, &v))
	require.Equal(t, "s", s)
	require.Equal(t, 1, i)
	require.Equal(t, int64(2), l)
	require.Equal(t, 3.0, f)
	require.True(t, b)
	require.Same(t, arr, a)
	require.Equal(t, "println", fn.Name())
	require.Equal(t, golo.None, v)

	err := golo.UnpackArgs("f", []golo.Value{golo.Int(1)}, &s)
	require.EqualError(t, err, "f: for parameter 1: got Integer, want String")

	err = golo.UnpackArgs("f", nil, &s)
	require.EqualError(t, err, "f: got 0 arguments, want 1")

	// A nil pointer skips its argument.
	require.NoError(t, golo.UnpackArgs("f", []golo.Value{golo.Int(1), golo.String("x")}, nil, &s))
	require.Equal(t, "x", s)
}

func ExampleCall() {
	const src = `
module golotest.Example

function greet = |name, others...| {
  var s = "hello " + name
  for (var i = 0, i < others: size(), i = i + 1) {
    s = s + " and " + others[i]
  }
  return s
}
`
	thread := &golo.Thread{Name: "example"}
	m, err := golo.ExecFile(thread, "example.golo", src)
	if err != nil {
		fmt.Println(err)
		return
	}
	greet := m.Function("greet", 3)
	for _, args := range [][]golo.Value{
		{golo.String("Alice")},
		{golo.String("Alice"), golo.String("Bob"), golo.String("Carol")},
	} {
		res, err := golo.Call(thread, greet, args)
		if err != nil {
			fmt.Println(err)
			return
		}
		fmt.Println(res)
	}

	// Output:
	// hello Alice
	// hello Alice and Bob and Carol
}
