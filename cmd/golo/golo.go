// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// The golo command runs a Golo module.
//
// The module's main function, if any, is called with an array of the
// remaining command-line arguments. Imported Golo modules are loaded
// from files under the -path directory: module a.b.C from a/b/C.golo.
//
// With no arguments, it reads a module from standard input, or starts
// a read-eval-print loop (REPL) if standard input is a terminal.
package main // import "go.golo.dev/cmd/golo"

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"

	"golang.org/x/term"

	"go.golo.dev/golo"
	"go.golo.dev/internal/compile"
	"go.golo.dev/ir"
	_ "go.golo.dev/lib/math"
	"go.golo.dev/lib/proto"
	_ "go.golo.dev/lib/regexp"
	_ "go.golo.dev/lib/time"
	"go.golo.dev/repl"
	"go.golo.dev/resolve"
)

// flags
var (
	cpuprofile = flag.String("cpuprofile", "", "gather Go CPU profile in this file")
	memprofile = flag.String("memprofile", "", "gather Go memory profile in this file")
	execprog   = flag.String("c", "", "execute program `prog`")
	path       = flag.String("path", "", "load imported modules from files under `dir` (default: the directory of the file)")
	dumpIR     = flag.Bool("ir", false, "print the intermediate representation of the module instead of running it")
	describe   = flag.String("describe", "", "on success, print a description of the module in `format` text or json")
	stats      = flag.Bool("stats", false, "on exit, print execution statistics")
	maxSteps   = flag.Uint64("maxsteps", 0, "fail after executing `n` instructions (0 means no limit)")
)

func init() {
	flag.BoolVar(&compile.Disassemble, "disassemble", compile.Disassemble, "show disassembly during compilation of each function")
	flag.IntVar(&golo.MaxPolymorphism, "maxpoly", golo.MaxPolymorphism, "maximum number of entries in the inline cache of a call site")

	// dialect flags
	flag.BoolVar(&resolve.AllowParamAssign, "paramassign", resolve.AllowParamAssign, "allow assignment to function parameters")
	flag.BoolVar(&resolve.AllowShadowing, "shadowing", resolve.AllowShadowing, "allow a block declaration to shadow a reference of an enclosing block")
}

func main() {
	os.Exit(doMain())
}

func doMain() int {
	log.SetPrefix("golo: ")
	log.SetFlags(0)
	flag.Parse()

	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		check(err)
		err = pprof.StartCPUProfile(f)
		check(err)
		defer func() {
			pprof.StopCPUProfile()
			err := f.Close()
			check(err)
		}()
	}
	if *memprofile != "" {
		f, err := os.Create(*memprofile)
		check(err)
		defer func() {
			runtime.GC()
			err := pprof.Lookup("heap").WriteTo(f, 0)
			check(err)
			err = f.Close()
			check(err)
		}()
	}
	if *describe != "" && *describe != "text" && *describe != "json" {
		log.Printf("invalid -describe format %q, want text or json", *describe)
		return 2
	}

	var (
		filename string
		src      interface{}
		args     []string
	)
	switch {
	case *execprog != "":
		filename, src, args = "cmdline", *execprog, flag.Args()
	case flag.NArg() > 0:
		filename, args = flag.Arg(0), flag.Args()[1:]
	case term.IsTerminal(int(os.Stdin.Fd())):
		fmt.Println("Welcome to Golo (go.golo.dev)")
		repl.REPL(&golo.Thread{Name: "REPL", Load: repl.MakeLoad(dir(""))})
		return 0
	default:
		data, err := io.ReadAll(os.Stdin)
		check(err)
		filename, src = "<stdin>", data
	}

	prog, err := golo.Compile(filename, src)
	if err != nil {
		repl.PrintError(err)
		return 1
	}
	if *dumpIR {
		fmt.Print(ir.Dump(prog.IR()))
		return 0
	}

	thread := &golo.Thread{Name: "main", Load: repl.MakeLoad(dir(filename))}
	thread.SetMaxSteps(*maxSteps)
	if *stats {
		defer printStats(thread)
	}

	m, err := prog.Init(thread)
	if err != nil {
		repl.PrintError(err)
		return 1
	}
	if fn := m.Function("main", 1); fn != nil {
		argv := make([]golo.Value, len(args))
		for i, arg := range args {
			argv[i] = golo.String(arg)
		}
		if _, err := golo.Call(thread, fn, []golo.Value{golo.NewArray(argv)}); err != nil {
			repl.PrintError(err)
			return 1
		}
	}

	if *describe != "" {
		desc, err := proto.Describe(m)
		check(err)
		if *describe == "json" {
			fmt.Println(proto.MarshalJSON(desc))
		} else {
			fmt.Print(proto.MarshalText(desc))
		}
	}
	return 0
}

// dir returns the directory from which to load the imports of the
// specified file.
func dir(filename string) string {
	if *path != "" {
		return *path
	}
	if filename == "" || filename == "cmdline" || filename == "<stdin>" {
		return "."
	}
	return filepath.Dir(filename)
}

func check(err error) {
	if err != nil {
		log.Fatal(err)
	}
}
