// Copyright 2021 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package math provides the gololang.Math module of basic
// mathematical functions.
//
// Most functions accept any number and return a Double. The abs, max
// and min functions preserve the kind of their operands, with the
// usual numeric promotion.
package math // import "go.golo.dev/lib/math"

import (
	"fmt"
	"math"

	"go.golo.dev/golo"
)

const (
	tau    = math.Pi * 2
	oneRad = tau / 360
)

var (
	toDeg = func(x float64) float64 { return x / oneRad }
	toRad = func(x float64) float64 { return x * oneRad }
)

// Module is the gololang.Math module.
var Module = golo.NewGoModule("gololang.Math",
	golo.NewBuiltin("abs", 1, false, abs),
	golo.NewBuiltin("max", 2, false, minmax),
	golo.NewBuiltin("min", 2, false, minmax),
	golo.NewBuiltin("max", 1, true, minmaxArray),
	golo.NewBuiltin("min", 1, true, minmaxArray),
	golo.NewBuiltin("ceil", 1, false, floatFunc(math.Ceil)),
	golo.NewBuiltin("floor", 1, false, floatFunc(math.Floor)),
	golo.NewBuiltin("round", 1, false, round),

	golo.NewBuiltin("exp", 1, false, floatFunc(math.Exp)),
	golo.NewBuiltin("log", 1, false, floatFunc(math.Log)),
	golo.NewBuiltin("log10", 1, false, floatFunc(math.Log10)),
	golo.NewBuiltin("pow", 2, false, floatFunc2(math.Pow)),
	golo.NewBuiltin("sqrt", 1, false, floatFunc(math.Sqrt)),

	golo.NewBuiltin("acos", 1, false, floatFunc(math.Acos)),
	golo.NewBuiltin("asin", 1, false, floatFunc(math.Asin)),
	golo.NewBuiltin("atan", 1, false, floatFunc(math.Atan)),
	golo.NewBuiltin("atan2", 2, false, floatFunc2(math.Atan2)),
	golo.NewBuiltin("cos", 1, false, floatFunc(math.Cos)),
	golo.NewBuiltin("hypot", 2, false, floatFunc2(math.Hypot)),
	golo.NewBuiltin("sin", 1, false, floatFunc(math.Sin)),
	golo.NewBuiltin("tan", 1, false, floatFunc(math.Tan)),

	golo.NewBuiltin("degrees", 1, false, floatFunc(toDeg)),
	golo.NewBuiltin("radians", 1, false, floatFunc(toRad)),

	golo.NewBuiltin("acosh", 1, false, floatFunc(math.Acosh)),
	golo.NewBuiltin("asinh", 1, false, floatFunc(math.Asinh)),
	golo.NewBuiltin("atanh", 1, false, floatFunc(math.Atanh)),
	golo.NewBuiltin("cosh", 1, false, floatFunc(math.Cosh)),
	golo.NewBuiltin("sinh", 1, false, floatFunc(math.Sinh)),
	golo.NewBuiltin("tanh", 1, false, floatFunc(math.Tanh)),

	constant("e", math.E),
	constant("phi", math.Phi),
	constant("pi", math.Pi),
)

func init() {
	golo.RegisterModule(Module)
}

type builtinFunc = func(*golo.Thread, *golo.Builtin, []golo.Value) (golo.Value, error)

// floatFunc returns a builtin that unpacks one number and applies fn to it.
func floatFunc(fn func(float64) float64) builtinFunc {
	return func(_ *golo.Thread, b *golo.Builtin, args []golo.Value) (golo.Value, error) {
		var x float64
		if err := golo.UnpackArgs(b.Name(), args, &x); err != nil {
			return nil, err
		}
		return golo.Float(fn(x)), nil
	}
}

func floatFunc2(fn func(float64, float64) float64) builtinFunc {
	return func(_ *golo.Thread, b *golo.Builtin, args []golo.Value) (golo.Value, error) {
		var x, y float64
		if err := golo.UnpackArgs(b.Name(), args, &x, &y); err != nil {
			return nil, err
		}
		return golo.Float(fn(x, y)), nil
	}
}

// constant returns a function of no arguments that returns x.
func constant(name string, x float64) *golo.Builtin {
	return golo.NewBuiltin(name, 0, false, func(*golo.Thread, *golo.Builtin, []golo.Value) (golo.Value, error) {
		return golo.Float(x), nil
	})
}

// abs(x) returns the absolute value of x, of the same kind as x.
// The absolute value of the least Integer or Long wraps around.
func abs(_ *golo.Thread, b *golo.Builtin, args []golo.Value) (golo.Value, error) {
	switch x := args[0].(type) {
	case golo.Int:
		if x < 0 {
			return -x, nil
		}
		return x, nil
	case golo.Long:
		if x < 0 {
			return -x, nil
		}
		return x, nil
	case golo.Float:
		return golo.Float(math.Abs(float64(x))), nil
	}
	return nil, fmt.Errorf("%s: got %s, want Number", b.Name(), args[0].Class())
}

// round(x) returns the nearest integer to x as a Long, rounding half
// away from zero.
func round(_ *golo.Thread, b *golo.Builtin, args []golo.Value) (golo.Value, error) {
	var x float64
	if err := golo.UnpackArgs(b.Name(), args, &x); err != nil {
		return nil, err
	}
	r := math.Round(x)
	if math.IsNaN(r) || math.IsInf(r, 0) || r < math.MinInt64 || r >= math.MaxInt64 {
		return nil, fmt.Errorf("%s: cannot round %s to a Long", b.Name(), args[0])
	}
	return golo.Long(r), nil
}

// max(x, y) and min(x, y) return the greater or lesser of two
// comparable values. Numbers are promoted to their common kind.
func minmax(_ *golo.Thread, b *golo.Builtin, args []golo.Value) (golo.Value, error) {
	return extremum(b.Name(), args)
}

// max(xs...) and min(xs...) return the greatest or least element.
func minmaxArray(_ *golo.Thread, b *golo.Builtin, args []golo.Value) (golo.Value, error) {
	xs := args[0].(*golo.Array)
	if xs.Len() == 0 {
		return nil, fmt.Errorf("%s: empty array", b.Name())
	}
	return extremum(b.Name(), xs.Elems())
}

func extremum(name string, xs []golo.Value) (golo.Value, error) {
	want := +1
	if name == "min" {
		want = -1
	}
	best := xs[0]
	for _, x := range xs[1:] {
		c, err := golo.Compare(x, best)
		if err != nil {
			return nil, fmt.Errorf("%s: %v", name, err)
		}
		if c == want {
			best = x
		}
	}
	return promote(best, xs), nil
}

// promote converts a number to the widest kind among xs.
func promote(x golo.Value, xs []golo.Value) golo.Value {
	var long, float bool
	for _, y := range xs {
		switch y.(type) {
		case golo.Long:
			long = true
		case golo.Float:
			float = true
		}
	}
	switch x := x.(type) {
	case golo.Int:
		if float {
			return golo.Float(x)
		} else if long {
			return golo.Long(x)
		}
	case golo.Long:
		if float {
			return golo.Float(x)
		}
	}
	return x
}
