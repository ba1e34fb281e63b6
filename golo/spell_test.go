// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package golo

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSuggest(t *testing.T) {
	classes := []string{"Array", "String", "gololang.time.Duration", "gololang.time.Time", "gololang.truth.Subject"}
	for _, test := range []struct {
		name       string
		candidates []string
		want       string
	}{
		{"sise", []string{"get", "set", "size"}, "size"},
		{"to_upper_case", []string{"toUpperCase", "toLowerCase"}, "toUpperCase"},
		{"fib", []string{"fib", "fob"}, "fob"},
		{"zzz", []string{"size"}, ""},
		{"Strin", classes, "String"},
		{"Time", classes, "gololang.time.Time"},
		{"Tme", classes, "gololang.time.Time"},
		{"gololang.time.Duratin", classes, "gololang.time.Duration"},
		{"gololang.time.Time", classes, ""},
		{"", []string{"x"}, ""},
	} {
		require.Equal(t, test.want, suggest(test.name, test.candidates), "suggest(%q)", test.name)
	}
}

func TestEditDistance(t *testing.T) {
	for _, test := range []struct {
		x, y string
		want int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"kitten", "sitting", 3},
		{"flaw", "lawn", 2},
		{"größe", "grosse", 3},
	} {
		require.Equal(t, test.want, editDistance([]rune(test.x), []rune(test.y), 10), "%q %q", test.x, test.y)
	}
	require.Greater(t, editDistance([]rune("abcdef"), []rune("uvwxyz"), 2), 2)
}
