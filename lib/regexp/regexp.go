// Copyright 2021 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package regexp provides the gololang.Regexp module of functions
// related to regular expressions.
package regexp // import "go.golo.dev/lib/regexp"

import (
	"fmt"
	"regexp"

	"go.golo.dev/golo"
)

// Module is the gololang.Regexp module. It defines the following
// functions:
//
//	compile(pattern) - Compiles a pattern in RE2 syntax to a Pattern.
//	                   Each call to compile returns a distinct Pattern.
//
//	matches(pattern, src) - Reports whether src contains a match of pattern.
//
// A Pattern, also created by the Pattern(pattern) constructor, has these methods:
//
//	find(src) - Returns the text of the leftmost match in src, or null
//	            if there is no match.
//
//	findAll(src[, max]) - Returns an array of all successive matches. If
//	                      max >= 0, at most max strings are returned.
//
//	findSubmatches(src) - Returns an array holding the text of the leftmost
//	                      match and the matches of its subexpressions. An
//	                      empty array indicates no match.
//
//	matches(src) - Reports whether src contains any match.
//
//	replaceAll(src, repl) - Returns a copy of src with every match replaced.
//	                        If repl is a String, $1 or ${name} in it denote
//	                        the text of the corresponding group. If repl is
//	                        a function, it is called with each matched
//	                        substring and must return a String.
//
//	split(src[, max]) - Returns an array of the substrings between matches.
//	                    If max >= 0, at most max strings are returned, the
//	                    last being the unsplit remainder.
var Module = golo.NewGoModule("gololang.Regexp",
	golo.NewBuiltin("compile", 1, false, compile),
	golo.NewBuiltin("matches", 2, false, matchString),
)

// PatternClass is the class of compiled regular expressions.
var PatternClass = golo.NewClass("gololang.regexp.Pattern", golo.ObjectClass)

func init() {
	golo.RegisterModule(Module)

	PatternClass.AddConstructor(golo.NewBuiltin("Pattern", 1, false, compile))
	for _, m := range []*golo.Builtin{
		golo.NewBuiltin("find", 2, false, find),
		golo.NewBuiltin("findAll", 2, false, findAll),
		golo.NewBuiltin("findAll", 3, false, findAll),
		golo.NewBuiltin("findSubmatches", 2, false, findSubmatches),
		golo.NewBuiltin("matches", 2, false, matches),
		golo.NewBuiltin("replaceAll", 3, false, replaceAll),
		golo.NewBuiltin("split", 2, false, split),
		golo.NewBuiltin("split", 3, false, split),
		golo.NewBuiltin("equals", 2, false, equals),
	} {
		PatternClass.AddMethod(m)
	}
	golo.RegisterClass(PatternClass)
}

// The regular expression used to identify the forbidden patterns.
var forbiddenPatternRe = regexp.MustCompile(`([^\\]|^)(\\\\)*\\C`)

func compilePattern(pattern string) (*Pattern, error) {
	if forbiddenPatternRe.MatchString(pattern) {
		return nil, fmt.Errorf(`the byte-oriented pattern \C is not supported`)
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	return &Pattern{re: re}, nil
}

func compile(_ *golo.Thread, b *golo.Builtin, args []golo.Value) (golo.Value, error) {
	var pattern string
	if err := golo.UnpackArgs(b.Name(), args, &pattern); err != nil {
		return nil, err
	}
	return compilePattern(pattern)
}

func matchString(_ *golo.Thread, b *golo.Builtin, args []golo.Value) (golo.Value, error) {
	var pattern, src string
	if err := golo.UnpackArgs(b.Name(), args, &pattern, &src); err != nil {
		return nil, err
	}
	p, err := compilePattern(pattern)
	if err != nil {
		return nil, err
	}
	return golo.Bool(p.re.MatchString(src)), nil
}

func toArray(strs []string) *golo.Array {
	elems := make([]golo.Value, len(strs))
	for i, s := range strs {
		elems[i] = golo.String(s)
	}
	return golo.NewArray(elems)
}

// A Pattern represents a compiled RE2 regular expression.
type Pattern struct {
	re *regexp.Regexp
}

// String implements the Stringer interface.
func (p *Pattern) String() string { return p.re.String() }

// Class returns gololang.regexp.Pattern.
func (p *Pattern) Class() *golo.Class { return PatternClass }

// Regexp returns the underlying Go regular expression.
func (p *Pattern) Regexp() *regexp.Regexp { return p.re }

// unpack unpacks the arguments that follow the receiver.
func unpack(b *golo.Builtin, args []golo.Value, vars ...interface{}) (*regexp.Regexp, error) {
	if err := golo.UnpackArgs(b.Name(), args[1:], vars...); err != nil {
		return nil, err
	}
	return args[0].(*Pattern).re, nil
}

func matches(_ *golo.Thread, b *golo.Builtin, args []golo.Value) (golo.Value, error) {
	var src string
	re, err := unpack(b, args, &src)
	if err != nil {
		return nil, err
	}
	return golo.Bool(re.MatchString(src)), nil
}

func find(_ *golo.Thread, b *golo.Builtin, args []golo.Value) (golo.Value, error) {
	var src string
	re, err := unpack(b, args, &src)
	if err != nil {
		return nil, err
	}
	loc := re.FindStringIndex(src)
	if loc == nil {
		return golo.None, nil
	}
	return golo.String(src[loc[0]:loc[1]]), nil
}

// optionalMax returns the vars for (src[, max]) methods.
func optionalMax(args []golo.Value, src *string, max *int) []interface{} {
	if len(args) == 3 {
		return []interface{}{src, max}
	}
	return []interface{}{src}
}

func findAll(_ *golo.Thread, b *golo.Builtin, args []golo.Value) (golo.Value, error) {
	var (
		src string
		max int = -1
	)
	re, err := unpack(b, args, optionalMax(args, &src, &max)...)
	if err != nil {
		return nil, err
	}
	return toArray(re.FindAllString(src, max)), nil
}

func findSubmatches(_ *golo.Thread, b *golo.Builtin, args []golo.Value) (golo.Value, error) {
	var src string
	re, err := unpack(b, args, &src)
	if err != nil {
		return nil, err
	}
	return toArray(re.FindStringSubmatch(src)), nil
}

func replaceAll(thread *golo.Thread, b *golo.Builtin, args []golo.Value) (golo.Value, error) {
	var (
		src  string
		repl golo.Value
	)
	re, err := unpack(b, args, &src, &repl)
	if err != nil {
		return nil, err
	}
	switch x := repl.(type) {
	case golo.Callable:
		var fnErr error
		fn := func(matched string) string {
			if fnErr != nil {
				return ""
			}
			res, err := golo.Call(thread, x, []golo.Value{golo.String(matched)})
			if err != nil {
				fnErr = err
				return ""
			}
			s, ok := res.(golo.String)
			if !ok {
				fnErr = fmt.Errorf("%s: replacement function returned %s, want String", b.Name(), res.Class())
				return ""
			}
			return string(s)
		}
		result := re.ReplaceAllStringFunc(src, fn)
		if fnErr != nil {
			return nil, fnErr
		}
		return golo.String(result), nil
	case golo.String:
		return golo.String(re.ReplaceAllString(src, string(x))), nil
	}
	return nil, fmt.Errorf("%s: got %s, want String or Function", b.Name(), repl.Class())
}

func split(_ *golo.Thread, b *golo.Builtin, args []golo.Value) (golo.Value, error) {
	var (
		src string
		max int = -1
	)
	re, err := unpack(b, args, optionalMax(args, &src, &max)...)
	if err != nil {
		return nil, err
	}
	return toArray(re.Split(src, max)), nil
}

// Two patterns are equal if their sources are.
func equals(_ *golo.Thread, _ *golo.Builtin, args []golo.Value) (golo.Value, error) {
	y, ok := args[1].(*Pattern)
	return golo.Bool(ok && args[0].(*Pattern).re.String() == y.re.String()), nil
}
