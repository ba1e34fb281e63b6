// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package golo

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sync/atomic"

	"go.golo.dev/syntax"
)

const debug = false

// A Thread contains the state of a Golo thread,
// such as its call stack and thread-local storage.
// The Thread is threaded throughout the evaluator.
//
// A Thread must not be used by more than one goroutine at a time.
// Distinct threads may execute the same modules concurrently.
type Thread struct {
	// Name is an optional name that describes the thread, for debugging.
	Name string

	// Print is the client-supplied implementation of the Golo
	// 'print' and 'println' functions. If nil, the text is written
	// to os.Stdout.
	Print func(thread *Thread, text string)

	// Load is the client-supplied implementation of module loading.
	// It returns an error wrapping ErrModuleNotFound for a name it
	// does not know. If nil, LoadModule is used.
	//
	// The thread remembers the outcome of each load, so Load is
	// called at most once per module name.
	Load func(thread *Thread, module string) (*Module, error)

	// frame is the innermost frame of the call stack.
	frame *Frame

	// steps counts the instructions executed by the thread;
	// maxSteps is the limit, or zero if there is none.
	steps, maxSteps uint64

	// cancelReason records the reason from the first call to Cancel.
	cancelReason atomic.Pointer[string]

	// loaded caches the outcome of each module load.
	loaded map[string]*loadEntry

	// locals holds arbitrary "thread-local" Go values belonging to the client.
	locals map[string]interface{}
}

type loadEntry struct {
	module *Module
	err    error
}

// SetLocal sets the thread-local value associated with the specified key.
// It must not be called after execution begins.
func (thread *Thread) SetLocal(key string, value interface{}) {
	if thread.locals == nil {
		thread.locals = make(map[string]interface{})
	}
	thread.locals[key] = value
}

// Local returns the thread-local value associated with the specified key.
func (thread *Thread) Local(key string) interface{} {
	return thread.locals[key]
}

// Caller returns the frame of the innermost enclosing function.
// It should only be used in built-ins called from Golo code.
func (thread *Thread) Caller() *Frame { return thread.frame.parent }

// Steps returns the number of instructions executed by the thread.
func (thread *Thread) Steps() uint64 { return thread.steps }

// SetMaxSteps sets a limit on the number of instructions that may be
// executed by this thread. If the thread's step counter exceeds this
// limit, the interpreter calls thread.Cancel("too many steps").
// A limit of zero means no limit.
func (thread *Thread) SetMaxSteps(max uint64) { thread.maxSteps = max }

// Cancel causes execution of Golo code in the specified thread to
// promptly fail with an EvalError that includes the specified reason.
// There may be a delay before the interpreter observes the cancellation
// if the thread is currently in a call to a built-in function.
//
// Unlike most methods of Thread, it is safe to call Cancel from any
// goroutine, even if the thread is actively executing.
func (thread *Thread) Cancel(reason string) {
	// Preserve the earlier reason, if any.
	thread.cancelReason.CompareAndSwap(nil, &reason)
}

func (thread *Thread) print(text string) {
	if thread.Print != nil {
		thread.Print(thread, text)
	} else {
		io.WriteString(os.Stdout, text)
	}
}

// load returns the module of the specified name, loading it at most
// once per thread. It reports an import cycle if the module is being
// loaded by the thread.
func (thread *Thread) load(name string) (*Module, error) {
	if e, ok := thread.loaded[name]; ok {
		if e == nil {
			return nil, fmt.Errorf("cycle in import graph at %s", name)
		}
		return e.module, e.err
	}
	if thread.loaded == nil {
		thread.loaded = make(map[string]*loadEntry)
	}
	thread.loaded[name] = nil // loading in progress

	load := thread.Load
	if load == nil {
		load = LoadModule
	}
	m, err := load(thread, name)
	thread.loaded[name] = &loadEntry{m, err}
	return m, err
}

// A Frame records a call to a Golo or built-in function.
type Frame struct {
	thread   *Thread
	parent   *Frame   // caller's frame (or nil)
	callable Callable // current function
	pc       uint32   // program counter (Golo functions only)
}

// Callable returns the frame's function.
func (fr *Frame) Callable() Callable { return fr.callable }

// Parent returns the frame of the enclosing function call, if any.
func (fr *Frame) Parent() *Frame { return fr.parent }

// Position returns the source position of the current point of
// execution in this frame.
func (fr *Frame) Position() syntax.Position {
	if fn, ok := fr.callable.(*Function); ok {
		return fn.funcode.Position(fr.pc)
	}
	return syntax.MakePosition(&builtinFilename, 0, 0)
}

var builtinFilename = "<builtin>"

// An EvalError is a Golo evaluation error and its associated call stack.
type EvalError struct {
	Msg   string
	Frame *Frame
	cause error
}

func (e *EvalError) Error() string { return e.Msg }

// Unwrap returns the error that caused the evaluation error.
func (e *EvalError) Unwrap() error { return e.cause }

// Backtrace returns a user-friendly error message describing the stack
// of calls that led to this error.
func (e *EvalError) Backtrace() string {
	var buf bytes.Buffer
	e.Frame.WriteBacktrace(&buf)
	fmt.Fprintf(&buf, "Error: %s", e.Msg)
	return buf.String()
}

// WriteBacktrace writes a user-friendly description of the stack to buf.
func (fr *Frame) WriteBacktrace(out *bytes.Buffer) {
	fmt.Fprintf(out, "Traceback (most recent call last):\n")
	var print func(fr *Frame)
	print = func(fr *Frame) {
		if fr != nil {
			print(fr.parent)
			fmt.Fprintf(out, "  %s: in %s\n", fr.Position(), fr.callable.Name())
		}
	}
	print(fr)
}

// Stack returns the stack of frames, innermost first.
func (e *EvalError) Stack() []*Frame {
	var stack []*Frame
	for fr := e.Frame; fr != nil; fr = fr.parent {
		stack = append(stack, fr)
	}
	return stack
}

// ExecFile compiles a module and initializes it.
//
// The filename and src parameters are as for syntax.Parse.
//
// If ExecFile fails during evaluation, it returns an *EvalError
// containing a backtrace.
func ExecFile(thread *Thread, filename string, src interface{}) (*Module, error) {
	prog, err := Compile(filename, src)
	if err != nil {
		return nil, err
	}
	return prog.Init(thread)
}

// Call calls the function fn with the specified arguments. If fn has
// varargs, the arguments beyond its fixed parameters are collected
// into an array.
func Call(thread *Thread, fn Value, args []Value) (Value, error) {
	c, ok := fn.(Callable)
	if !ok {
		return nil, fmt.Errorf("invalid call of non-function (%s)", fn.Class())
	}
	if !accepts(c, len(args)) {
		return nil, fmt.Errorf("%s: got %d arguments, want %s", c.Name(), len(args), arityString(c))
	}
	if c.HasVarargs() {
		args = collect(args, c.NumParams()-1)
	}
	return call(thread, c, args)
}

func arityString(c Callable) string {
	if c.HasVarargs() {
		return fmt.Sprintf("at least %d", c.NumParams()-1)
	}
	return fmt.Sprint(c.NumParams())
}

// call calls c with packaged arguments in a new frame.
func call(thread *Thread, c Callable, args []Value) (Value, error) {
	fr := &Frame{thread: thread, parent: thread.frame, callable: c}
	thread.frame = fr
	result, err := c.CallInternal(thread, args)
	thread.frame = fr.parent

	// Sanity check: nil is not a valid Golo value.
	if result == nil && err == nil {
		err = fmt.Errorf("internal error: nil (not null) returned from %s", c.Name())
	}

	// Attribute the error to the frame of the callee.
	if err != nil {
		if _, ok := err.(*EvalError); !ok {
			err = &EvalError{Msg: err.Error(), Frame: fr, cause: err}
		}
	}
	return result, err
}

// wrapError wraps an error raised by the code of a Golo function in
// an EvalError located at the current instruction of fr.
func wrapError(fr *Frame, err error) error {
	if _, ok := err.(*EvalError); ok {
		return err
	}
	return &EvalError{Msg: err.Error(), Frame: fr, cause: err}
}
