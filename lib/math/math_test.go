// Copyright 2021 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package math_test

import (
	"testing"

	"go.golo.dev/golo"
	"go.golo.dev/golotest"
	_ "go.golo.dev/lib/math"
)

func TestExecFile(t *testing.T) {
	filename := golotest.DataFile("lib/math", "testdata/math.golo")
	golotest.RunTestFile(t, filename, func() *golo.Thread {
		return &golo.Thread{Name: "math"}
	})
}
