// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package golo

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// A Class is the runtime type of a value. Instance method call sites
// look up methods in the receiver's class and then in its
// superclasses; constructor call sites look up constructors of the
// class whose name they give.
//
// Methods and constructors must be added before the class is used by
// any running program.
type Class struct {
	Name  string // qualified name, e.g. "java.util.LinkedList"
	Super *Class // nil for Object and Null

	methods      map[string][]Callable
	constructors []Callable
}

// The builtin classes.
//
//	Object
//	  Number
//	    Integer, Long, Double
//	  String, Boolean, Array, Function, Class
//	Null
var (
	ObjectClass   = NewClass("Object", nil)
	NumberClass   = NewClass("Number", ObjectClass)
	IntegerClass  = NewClass("Integer", NumberClass)
	LongClass     = NewClass("Long", NumberClass)
	DoubleClass   = NewClass("Double", NumberClass)
	StringClass   = NewClass("String", ObjectClass)
	BooleanClass  = NewClass("Boolean", ObjectClass)
	ArrayClass    = NewClass("Array", ObjectClass)
	FunctionClass = NewClass("Function", ObjectClass)
	ClassClass    = NewClass("Class", ObjectClass)
	NullClass     = NewClass("Null", nil)
)

// NewClass returns a new class with no methods.
func NewClass(name string, super *Class) *Class {
	return &Class{Name: name, Super: super, methods: make(map[string][]Callable)}
}

func (c *Class) String() string { return c.Name }
func (c *Class) Class() *Class  { return ClassClass }

// SimpleName returns the last component of the class name.
func (c *Class) SimpleName() string {
	return c.Name[strings.LastIndexByte(c.Name, '.')+1:]
}

// AddMethod adds a method to the class. The method receives its
// receiver as its first argument, which NumParams includes.
// Several methods may share a name if they differ in arity.
func (c *Class) AddMethod(m Callable) {
	c.methods[m.Name()] = append(c.methods[m.Name()], m)
}

// AddConstructor adds a constructor to the class.
func (c *Class) AddConstructor(ctor Callable) {
	c.constructors = append(c.constructors, ctor)
}

// LookupMethod returns the method that a call with argc arguments,
// including the receiver, invokes on an instance of c: the first
// method of that name accepting argc arguments, walking from c
// towards Object. It returns nil if there is none.
func (c *Class) LookupMethod(name string, argc int) Callable {
	for k := c; k != nil; k = k.Super {
		for _, m := range k.methods[name] {
			if accepts(m, argc) {
				return m
			}
		}
	}
	return nil
}

// LookupConstructor returns the constructor of c accepting argc
// arguments, or nil.
func (c *Class) LookupConstructor(argc int) Callable {
	for _, ctor := range c.constructors {
		if accepts(ctor, argc) {
			return ctor
		}
	}
	return nil
}

// MethodNames returns the sorted names of the methods of c and its
// superclasses.
func (c *Class) MethodNames() []string {
	seen := make(map[string]bool)
	var names []string
	for k := c; k != nil; k = k.Super {
		for name := range k.methods {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)
	return names
}

// IsSubclassOf reports whether c is d or a descendant of d.
func (c *Class) IsSubclassOf(d *Class) bool {
	for k := c; k != nil; k = k.Super {
		if k == d {
			return true
		}
	}
	return false
}

// Is reports whether c or one of its superclasses is named name,
// either by its qualified or by its simple name.
func (c *Class) Is(name string) bool {
	for k := c; k != nil; k = k.Super {
		if k.Name == name || k.SimpleName() == name {
			return true
		}
	}
	return false
}

var registry struct {
	sync.RWMutex
	classes map[string]*Class
}

// RegisterClass makes a class available to constructor call sites
// under its qualified name. It panics if a class of the same name is
// already registered.
func RegisterClass(c *Class) {
	registry.Lock()
	defer registry.Unlock()
	if registry.classes == nil {
		registry.classes = make(map[string]*Class)
	}
	if _, ok := registry.classes[c.Name]; ok {
		panic(fmt.Sprintf("golo: class %s registered twice", c.Name))
	}
	registry.classes[c.Name] = c
}

// LookupClass returns the registered class of the specified
// qualified name.
func LookupClass(name string) (*Class, bool) {
	registry.RLock()
	defer registry.RUnlock()
	c, ok := registry.classes[name]
	return c, ok
}

// classNames returns the sorted names of all registered classes.
func classNames() []string {
	registry.RLock()
	defer registry.RUnlock()
	names := make([]string, 0, len(registry.classes))
	for _, c := range registry.classes {
		names = append(names, c.Name)
	}
	sort.Strings(names)
	return names
}

func init() {
	for _, c := range []*Class{
		ObjectClass, NumberClass, IntegerClass, LongClass, DoubleClass, StringClass,
		BooleanClass, ArrayClass, FunctionClass, ClassClass, NullClass,
	} {
		RegisterClass(c)
	}
	defineBuiltinMethods()
}
