// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package golo

// This file finds the hints of dispatch errors
// ("no method sise matching argument types (Array) (did you mean size?)").

import (
	"strings"
	"unicode"
)

// suggest returns the candidate whose simple name is nearest to the
// simple name of name, or "" if none is close enough. Candidates may
// be qualified, like class names: a candidate whose simple name equals
// that of name is returned when it is spelled differently in full, so
// that Subject suggests gololang.truth.Subject.
func suggest(name string, candidates []string) string {
	x := foldName(simpleName(name))

	var best string
	bestD := (len(x) + 1) / 2 // up to one edit per two runes
	for _, c := range candidates {
		if c == name {
			continue
		}
		d := editDistance(x, foldName(simpleName(c)), bestD)
		if d < bestD || d == bestD && best != "" && len(c) < len(best) {
			bestD, best = d, c
		}
	}
	return best
}

// simpleName strips the package of a qualified name.
func simpleName(name string) string {
	return name[strings.LastIndexByte(name, '.')+1:]
}

// foldName ignores case and underscores: fooBar matches foo_bar.
func foldName(s string) []rune {
	var res []rune
	for _, r := range s {
		if r != '_' {
			res = append(res, unicode.ToLower(r))
		}
	}
	return res
}

// editDistance returns the Levenshtein distance between x and y in
// runes. Once every alignment exceeds limit it stops early and
// returns some value above limit.
func editDistance(x, y []rune, limit int) int {
	if len(x) > len(y) {
		x, y = y, x
	}
	row := make([]int, len(x)+1)
	for i := range row {
		row[i] = i
	}
	for j := 1; j <= len(y); j++ {
		diag := row[0]
		row[0] = j
		lowest := j
		for i := 1; i <= len(x); i++ {
			subst := diag
			if x[i-1] != y[j-1] {
				subst++
			}
			diag = row[i]
			row[i] = min(subst, row[i]+1, row[i-1]+1)
			lowest = min(lowest, row[i])
		}
		if lowest > limit {
			return lowest
		}
	}
	return row[len(x)]
}
