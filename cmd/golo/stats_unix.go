// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build linux || darwin || dragonfly || freebsd || netbsd || openbsd || solaris

package main

import (
	"fmt"
	"os"
	"time"

	"golang.org/x/sys/unix"

	"go.golo.dev/golo"
)

// printStats reports the instructions executed by the thread and the
// resources used by the process.
func printStats(thread *golo.Thread) {
	fmt.Fprintf(os.Stderr, "steps: %d\n", thread.Steps())
	var ru unix.Rusage
	if err := unix.Getrusage(unix.RUSAGE_SELF, &ru); err != nil {
		fmt.Fprintf(os.Stderr, "getrusage: %v\n", err)
		return
	}
	fmt.Fprintf(os.Stderr, "user: %s\n", time.Duration(ru.Utime.Nano()))
	fmt.Fprintf(os.Stderr, "system: %s\n", time.Duration(ru.Stime.Nano()))
	fmt.Fprintf(os.Stderr, "maxrss: %d\n", ru.Maxrss)
}
