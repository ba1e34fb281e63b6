// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package golo

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.golo.dev/internal/compile"
	"go.golo.dev/ir"
	"go.golo.dev/resolve"
	"go.golo.dev/syntax"
)

// A Program is a compiled Golo module.
//
// Programs are immutable, and contain no Values.
// A Program may be initialized many times, by different threads.
type Program struct {
	ir        *ir.Module
	compiled  *compile.Program
	constants []Value // compiled.Constants, as Values
}

// Compile parses, resolves and compiles a Golo module.
//
// The filename and src parameters are as for syntax.Parse.
//
// If the module contains semantic errors, Compile returns a
// resolve.ErrorList holding all of them.
func Compile(filename string, src interface{}) (*Program, error) {
	f, err := syntax.Parse(filename, src)
	if err != nil {
		return nil, err
	}
	if err := resolve.File(f); err != nil {
		return nil, err
	}
	m, err := ir.Build(f)
	if err != nil {
		return nil, err
	}
	compiled := compile.Module(m)
	prog := &Program{ir: m, compiled: compiled}
	for _, c := range compiled.Constants {
		var v Value
		switch c := c.(type) {
		case int32:
			v = Int(c)
		case int64:
			v = Long(c)
		case float64:
			v = Float(c)
		case string:
			v = String(c)
		default:
			panic(c)
		}
		prog.constants = append(prog.constants, v)
	}
	return prog, nil
}

// Name returns the name of the compiled module.
func (prog *Program) Name() string { return prog.compiled.Name }

// Filename returns the name of the file from which the program was compiled.
func (prog *Program) Filename() string { return prog.compiled.Filename }

// Imports returns the imports of the module, in order, starting with
// the implicit gololang.Predefined. Duplicates are preserved.
func (prog *Program) Imports() []string {
	return append([]string(nil), prog.compiled.Imports...)
}

// IR returns the intermediate representation of the program.
func (prog *Program) IR() *ir.Module { return prog.ir }

// Functions returns the compiled code of the module functions, in
// declaration order, followed by the module initializer and the
// closures.
func (prog *Program) Functions() []*compile.Funcode {
	var res []*compile.Funcode
	res = append(res, prog.compiled.Functions...)
	res = append(res, prog.compiled.Toplevel)
	return append(res, prog.compiled.Closures...)
}

// Init creates a module from the program, loads its imports, and
// executes its initializer, which evaluates the module state.
func (prog *Program) Init(thread *Thread) (*Module, error) {
	m := &Module{
		Name:    prog.compiled.Name,
		program: prog,
		globals: make([]Value, len(prog.compiled.Globals)),
	}
	for _, site := range prog.compiled.CallSites {
		m.sites = append(m.sites, newCallSite(site, m))
	}
	for _, fc := range prog.compiled.Functions {
		m.addFunction(&Function{funcode: fc, module: m})
	}

	for _, name := range prog.compiled.Imports {
		imp, err := thread.load(name)
		if errors.Is(err, ErrModuleNotFound) {
			continue // it may name a class, or a package
		}
		if err != nil {
			return nil, fmt.Errorf("%s: cannot load %s: %w", m.Name, name, err)
		}
		m.imports = append(m.imports, imp)
	}

	toplevel := &Function{funcode: prog.compiled.Toplevel, module: m}
	if _, err := Call(thread, toplevel, nil); err != nil {
		return nil, err
	}
	return m, nil
}

// A Module is an initialized Golo module, or a module of functions
// implemented in Go.
type Module struct {
	Name string

	program   *Program // nil for Go modules
	globals   []Value
	functions []Callable
	byName    map[string][]Callable
	imports   []*Module // loaded imports, in order
	sites     []*CallSite
}

// NewGoModule returns a module of functions implemented in Go.
// All its functions are public.
func NewGoModule(name string, functions ...*Builtin) *Module {
	m := &Module{Name: name}
	for _, fn := range functions {
		m.addFunction(fn)
	}
	return m
}

func (m *Module) addFunction(fn Callable) {
	if m.byName == nil {
		m.byName = make(map[string][]Callable)
	}
	m.functions = append(m.functions, fn)
	m.byName[fn.Name()] = append(m.byName[fn.Name()], fn)
}

func (m *Module) String() string { return fmt.Sprintf("<module %s>", m.Name) }

// Imports returns the imports of the module, in order, starting with
// the implicit gololang.Predefined. Duplicates are preserved. It
// returns nil for a Go module.
func (m *Module) Imports() []string {
	if m.program == nil {
		return nil
	}
	return m.program.Imports()
}

// CallSites returns the module's call sites, indexed by ir.CallSite.Index.
func (m *Module) CallSites() []*CallSite { return m.sites }

// FunctionInfo describes a module function.
type FunctionInfo struct {
	Name    string
	Arity   int // number of parameters, including a varargs parameter
	Varargs bool
	Public  bool // callable from other modules
	Static  bool // callable without an instance; always true
}

// Functions describes the functions of the module, in declaration order.
func (m *Module) Functions() []FunctionInfo {
	res := make([]FunctionInfo, len(m.functions))
	for i, fn := range m.functions {
		res[i] = FunctionInfo{
			Name:    fn.Name(),
			Arity:   fn.NumParams(),
			Varargs: fn.HasVarargs(),
			Public:  isPublic(fn),
			Static:  true,
		}
	}
	return res
}

func isPublic(fn Callable) bool {
	if fn, ok := fn.(*Function); ok {
		return fn.Public()
	}
	return true
}

// Function returns the module function of the specified name that
// accepts argc arguments, or nil.
func (m *Module) Function(name string, argc int) Callable {
	return m.function(name, argc, false)
}

// function returns the first function of the specified name accepting
// argc arguments. If external, local functions are skipped.
func (m *Module) function(name string, argc int, external bool) Callable {
	for _, fn := range m.byName[name] {
		if external && !isPublic(fn) {
			continue
		}
		if accepts(fn, argc) {
			return fn
		}
	}
	return nil
}

// Call calls the module function of the specified name that accepts
// len(args) arguments.
func (m *Module) Call(thread *Thread, name string, args ...Value) (Value, error) {
	fn := m.Function(name, len(args))
	if fn == nil {
		return nil, fmt.Errorf("module %s has no function %s/%d", m.Name, name, len(args))
	}
	return Call(thread, fn, args)
}

// Global returns the value of the named module state.
func (m *Module) Global(name string) (Value, bool) {
	if m.program == nil {
		return nil, false
	}
	for i, b := range m.program.compiled.Globals {
		if b.Name == name && m.globals[i] != nil {
			return m.globals[i], true
		}
	}
	return nil, false
}

// SetGlobal sets the value of the named module state, regardless of
// whether it was declared with let or var.
func (m *Module) SetGlobal(name string, v Value) error {
	if m.program != nil {
		for i, b := range m.program.compiled.Globals {
			if b.Name == name {
				m.globals[i] = v
				return nil
			}
		}
	}
	return fmt.Errorf("module %s has no state %s", m.Name, name)
}

// Globals returns the names of the module state, in declaration order.
func (m *Module) Globals() []string {
	if m.program == nil {
		return nil
	}
	names := make([]string, len(m.program.compiled.Globals))
	for i, b := range m.program.compiled.Globals {
		names[i] = b.Name
	}
	return names
}

// lookupFunction finds the target of a plain function call: a
// function of this module, then a public function of its imports, in
// import order. A qualified name designates a function of the module
// named by its prefix.
func (m *Module) lookupFunction(thread *Thread, name string, argc int) (Callable, error) {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		prefix, simple := name[:i], name[i+1:]
		if prefix == m.Name {
			return m.function(simple, argc, false), nil
		}
		for _, imp := range m.imports {
			if imp.Name == prefix || strings.HasSuffix(imp.Name, "."+prefix) {
				if fn := imp.function(simple, argc, true); fn != nil {
					return fn, nil
				}
			}
		}
		mod, err := thread.load(prefix)
		if errors.Is(err, ErrModuleNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return mod.function(simple, argc, true), nil
	}

	if fn := m.function(name, argc, false); fn != nil {
		return fn, nil
	}
	for _, imp := range m.imports {
		if fn := imp.function(name, argc, true); fn != nil {
			return fn, nil
		}
	}
	return nil, nil
}

// lookupClass finds the class named by a constructor call: a class
// registered under that name, or one designated by an import.
func (m *Module) lookupClass(thread *Thread, name string) (*Class, error) {
	if c, ok := LookupClass(name); ok {
		return c, nil
	}
	for _, imp := range m.Imports() {
		if imp == name || strings.HasSuffix(imp, "."+name) {
			if c, ok := LookupClass(imp); ok {
				return c, nil
			}
		}
		if c, ok := LookupClass(imp + "." + name); ok {
			return c, nil
		}
	}
	return nil, nil
}

// visibleFunctionNames returns the names of the functions a plain
// call in m may reach.
func (m *Module) visibleFunctionNames() []string {
	seen := make(map[string]bool)
	var names []string
	add := func(mod *Module, external bool) {
		for _, fn := range mod.functions {
			if (!external || isPublic(fn)) && !seen[fn.Name()] {
				seen[fn.Name()] = true
				names = append(names, fn.Name())
			}
		}
	}
	add(m, false)
	for _, imp := range m.imports {
		add(imp, true)
	}
	sort.Strings(names)
	return names
}

// ErrModuleNotFound is returned, possibly wrapped, by a loader asked
// for a module it does not know.
var ErrModuleNotFound = errors.New("module not found")

var modules struct {
	sync.RWMutex
	byName map[string]*Module
}

// RegisterModule makes a Go module available to the default loader.
// It panics if a module of the same name is already registered.
func RegisterModule(m *Module) {
	modules.Lock()
	defer modules.Unlock()
	if modules.byName == nil {
		modules.byName = make(map[string]*Module)
	}
	if _, ok := modules.byName[m.Name]; ok {
		panic(fmt.Sprintf("golo: module %s registered twice", m.Name))
	}
	modules.byName[m.Name] = m
}

// LoadModule is the default loader. It returns a registered Go
// module, or an error wrapping ErrModuleNotFound.
func LoadModule(_ *Thread, name string) (*Module, error) {
	modules.RLock()
	defer modules.RUnlock()
	if m, ok := modules.byName[name]; ok {
		return m, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrModuleNotFound, name)
}
