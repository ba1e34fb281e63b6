// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package golo

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"go.golo.dev/ir"
)

// MaxPolymorphism is the maximum number of entries in the inline cache
// of a call site. A call site that has seen more argument signatures
// is megamorphic: it looks up the target of every call with an unseen
// signature, without caching it.
//
// It must not be changed while programs are running.
var MaxPolymorphism = 8

// A CallSite is the runtime form of an ir.CallSite: its descriptor,
// plus a polymorphic inline cache mapping the argument classes
// observed at the site to the targets they resolved to.
//
// Any number of threads may execute a call site concurrently. Readers
// never block: the cache is an immutable list of entries, replaced as
// a whole when an entry is added. Writers of one site are serialized;
// unrelated sites never contend.
type CallSite struct {
	*ir.CallSite
	module *Module // declaring module

	mu      sync.Mutex // held while installing an entry
	cache   atomic.Pointer[inlineCache]
	lookups atomic.Int64
}

type inlineCache struct {
	entries     []*cacheEntry
	megamorphic bool
}

// A cacheEntry is a guarded target. The guard holds when each
// argument has the recorded class and, at a spread site, when the
// spread array has the recorded length, or at least that length if
// orLonger is set.
type cacheEntry struct {
	classes     []*Class
	spread      int // length of the spread array; -1 if not a spread site
	orLonger    bool
	target      Callable
	passThrough bool // hand the spread array to the target's varargs parameter
}

func newCallSite(desc *ir.CallSite, module *Module) *CallSite {
	return &CallSite{CallSite: desc, module: module}
}

// Lookups returns the number of target lookups the site has
// performed, that is, the number of calls that missed the cache.
func (s *CallSite) Lookups() int64 { return s.lookups.Load() }

// Megamorphic reports whether the site's cache is full.
func (s *CallSite) Megamorphic() bool {
	c := s.cache.Load()
	return c != nil && c.megamorphic
}

// A CacheEntry describes one entry of an inline cache.
type CacheEntry struct {
	Classes   []*Class // of the arguments, excluding the elements of a spread array
	SpreadLen int      // length of the spread array, or -1
	OrLonger  bool     // SpreadLen is a minimum
	Target    Callable
}

// Entries returns the entries of the site's inline cache, oldest first.
func (s *CallSite) Entries() []CacheEntry {
	c := s.cache.Load()
	if c == nil {
		return nil
	}
	res := make([]CacheEntry, len(c.entries))
	for i, e := range c.entries {
		res[i] = CacheEntry{Classes: e.classes, SpreadLen: e.spread, OrLonger: e.orLonger, Target: e.target}
	}
	return res
}

// Call invokes the target of the site for the specified operands.
// The operands include the receiver of a method and, at a spread
// site, end with the spread array.
func (s *CallSite) Call(thread *Thread, args []Value) (Value, error) {
	spread := -1
	if s.Spread {
		a, ok := args[len(args)-1].(*Array)
		if !ok {
			return nil, fmt.Errorf("%s %s: spread argument is %s, want Array",
				s.Kind, s.Name, args[len(args)-1].Class())
		}
		spread = a.Len()
	}

	if c := s.cache.Load(); c != nil {
		for _, e := range c.entries {
			if e.matches(args, spread) {
				return e.invoke(thread, args)
			}
		}
	}

	e, err := s.bootstrap(thread, args, spread)
	if err != nil {
		return nil, err
	}
	return e.invoke(thread, args)
}

func (e *cacheEntry) matches(args []Value, spread int) bool {
	switch {
	case e.orLonger:
		if spread < e.spread {
			return false
		}
	case e.spread != spread:
		return false
	}
	for i, c := range e.classes {
		if args[i].Class() != c {
			return false
		}
	}
	return true
}

func (e *cacheEntry) invoke(thread *Thread, args []Value) (Value, error) {
	if !e.passThrough {
		if e.spread >= 0 {
			args = expand(args)
		}
		if e.target.HasVarargs() {
			args = collect(args, e.target.NumParams()-1)
		}
	}
	return call(thread, e.target, args)
}

// expand replaces the trailing spread array by its elements.
func expand(args []Value) []Value {
	n := len(args) - 1
	a := args[n].(*Array)
	res := make([]Value, n, n+a.Len())
	copy(res, args[:n])
	return append(res, a.elems...)
}

// collect gathers the arguments after the fixed ones into an array.
func collect(args []Value, fixed int) []Value {
	res := make([]Value, fixed+1)
	copy(res, args[:fixed])
	res[fixed] = NewArray(append([]Value(nil), args[fixed:]...))
	return res
}

// bootstrap looks up the target for the classes of args and installs
// it in the cache.
func (s *CallSite) bootstrap(thread *Thread, args []Value, spread int) (*cacheEntry, error) {
	s.lookups.Add(1)

	n := len(args)
	argc := n
	if spread >= 0 {
		n--
		argc = n + spread
	}
	classes := make([]*Class, n)
	for i := range classes {
		classes[i] = args[i].Class()
	}

	target, err := s.lookup(thread, classes, argc)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, s.dispatchError(thread, args, spread, classes)
	}
	if debug {
		fmt.Printf("%s: %s bound to %s\n", s.Pos, s.CallSite, target.Name())
	}

	e := &cacheEntry{
		classes:     classes,
		spread:      spread,
		target:      target,
		passThrough: spread >= 0 && target.HasVarargs() && len(args) == target.NumParams(),
	}
	if spread >= 0 && target.HasVarargs() {
		// The first candidate of the name accepts any longer array, so
		// the length only matters up to the target's fixed parameters.
		first, err := s.lookup(thread, classes, anyArity)
		if err != nil {
			return nil, err
		}
		if first == target {
			e.spread = max(0, target.NumParams()-1-n)
			e.orLonger = true
		}
	}
	s.install(e)
	return e, nil
}

// install appends e to the cache, unless the cache is full or another
// thread installed an entry with the same guard first.
func (s *CallSite) install(e *cacheEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var entries []*cacheEntry
	if old := s.cache.Load(); old != nil {
		if old.megamorphic {
			return
		}
		for _, x := range old.entries {
			if x.spread == e.spread && x.orLonger == e.orLonger && sameClasses(x.classes, e.classes) {
				return
			}
		}
		entries = old.entries
	}
	if len(entries) >= MaxPolymorphism {
		s.cache.Store(&inlineCache{entries: entries, megamorphic: true})
		return
	}
	next := make([]*cacheEntry, len(entries)+1)
	copy(next, entries)
	next[len(entries)] = e
	s.cache.Store(&inlineCache{entries: next})
}

func sameClasses(x, y []*Class) bool {
	if len(x) != len(y) {
		return false
	}
	for i := range x {
		if x[i] != y[i] {
			return false
		}
	}
	return true
}

// lookup applies the resolution rule of the site's kind.
// It returns nil if no target matches.
func (s *CallSite) lookup(thread *Thread, classes []*Class, argc int) (Callable, error) {
	switch s.Kind {
	case ir.PlainFunction:
		return s.module.lookupFunction(thread, s.Name, argc)

	case ir.InstanceMethod:
		return classes[0].LookupMethod(s.Name, argc), nil

	case ir.Constructor:
		class, err := s.module.lookupClass(thread, s.Name)
		if class == nil || err != nil {
			return nil, err
		}
		return class.LookupConstructor(argc), nil

	case ir.Operator:
		return lookupOperator(s.Name, classes), nil
	}
	panic(s.Kind)
}

// A DispatchError reports that a call site found no target for the
// classes of its arguments.
type DispatchError struct {
	Kind  ir.CallKind
	Name  string
	Types []string // argument classes, including the receiver of a method
	Hint  string   // a similar name that exists, or ""
}

func (e *DispatchError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "no %s %s matching argument types (%s)", e.Kind, e.Name, strings.Join(e.Types, ", "))
	if e.Hint != "" {
		fmt.Fprintf(&buf, " (did you mean %s?)", e.Hint)
	}
	return buf.String()
}

func (s *CallSite) dispatchError(thread *Thread, args []Value, spread int, classes []*Class) *DispatchError {
	err := &DispatchError{Kind: s.Kind, Name: s.Name}
	for _, c := range classes {
		err.Types = append(err.Types, c.Name)
	}
	if spread >= 0 {
		for _, elem := range args[len(args)-1].(*Array).elems {
			err.Types = append(err.Types, elem.Class().Name)
		}
	}

	var candidates []string
	switch s.Kind {
	case ir.PlainFunction:
		candidates = s.module.visibleFunctionNames()
	case ir.InstanceMethod:
		candidates = classes[0].MethodNames()
	case ir.Constructor:
		// A known class has no constructor of that arity; its name is fine.
		if class, _ := s.module.lookupClass(thread, s.Name); class == nil {
			candidates = classNames()
		}
	}
	err.Hint = suggest(s.Name, candidates)
	return err
}
