// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !(linux || darwin || dragonfly || freebsd || netbsd || openbsd || solaris)

package main

import (
	"fmt"
	"os"

	"go.golo.dev/golo"
)

func printStats(thread *golo.Thread) {
	fmt.Fprintf(os.Stderr, "steps: %d\n", thread.Steps())
}
