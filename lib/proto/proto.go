// Copyright 2020 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package proto describes Golo modules and values using the protocol
// buffer well-known types.
//
// Describe returns the metadata of an initialized module (its
// imports, functions, module state and call sites, including the state
// of each inline cache) as a google.protobuf.Struct, which the golo
// command prints in text or JSON form.
//
// The package also defines the gololang.Proto module, which converts
// between Golo values and their JSON encoding:
//
//	toJSON(x)    -- encodes null, Boolean, number, String or Array x as JSON
//	toText(x)    -- encodes x in the protocol buffer text format
//	fromJSON(s)  -- decodes JSON, which must not contain objects
//	describe()   -- returns the description of the calling module, as JSON
//
// THIS PACKAGE IS EXPERIMENTAL AND ITS INTERFACE MAY CHANGE.
package proto // import "go.golo.dev/lib/proto"

import (
	"fmt"
	"math"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/encoding/prototext"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"go.golo.dev/golo"
)

// Module is the gololang.Proto module.
var Module = golo.NewGoModule("gololang.Proto",
	golo.NewBuiltin("toJSON", 1, false, toJSON),
	golo.NewBuiltin("toText", 1, false, toText),
	golo.NewBuiltin("fromJSON", 1, false, fromJSON),
	golo.NewBuiltin("describe", 0, false, describe),
)

func init() {
	golo.RegisterModule(Module)
}

// Describe returns a description of the module m.
func Describe(m *golo.Module) (*structpb.Struct, error) {
	imports := []interface{}{}
	for _, imp := range m.Imports() {
		imports = append(imports, imp)
	}

	functions := []interface{}{}
	for _, fn := range m.Functions() {
		functions = append(functions, map[string]interface{}{
			"name":    fn.Name,
			"arity":   fn.Arity,
			"varargs": fn.Varargs,
			"public":  fn.Public,
			"static":  fn.Static,
		})
	}

	globals := []interface{}{}
	for _, name := range m.Globals() {
		g := map[string]interface{}{"name": name}
		if v, ok := m.Global(name); ok {
			g["value"] = v.String()
		}
		globals = append(globals, g)
	}

	sites := []interface{}{}
	for _, site := range m.CallSites() {
		entries := []interface{}{}
		for _, e := range site.Entries() {
			classes := []interface{}{}
			for _, c := range e.Classes {
				classes = append(classes, c.Name)
			}
			entry := map[string]interface{}{
				"classes": classes,
				"target":  e.Target.Name(),
			}
			if e.SpreadLen >= 0 {
				entry["spreadLen"] = e.SpreadLen
				entry["orLonger"] = e.OrLonger
			}
			entries = append(entries, entry)
		}
		sites = append(sites, map[string]interface{}{
			"index":       site.Index,
			"kind":        site.Kind.String(),
			"name":        site.Name,
			"argc":        site.Argc,
			"spread":      site.Spread,
			"line":        int(site.Pos.Line),
			"lookups":     site.Lookups(),
			"megamorphic": site.Megamorphic(),
			"entries":     entries,
		})
	}

	return structpb.NewStruct(map[string]interface{}{
		"name":      m.Name,
		"imports":   imports,
		"functions": functions,
		"globals":   globals,
		"callSites": sites,
	})
}

// MarshalText returns the multi-line text form of a message.
func MarshalText(msg proto.Message) string {
	return prototext.MarshalOptions{Multiline: true, Indent: "  "}.Format(msg)
}

// MarshalJSON returns the indented JSON form of a message.
// Its whitespace is not stable across releases of the protobuf module.
func MarshalJSON(msg proto.Message) string {
	return protojson.MarshalOptions{Multiline: true, Indent: "  "}.Format(msg)
}

// ToValue converts a Golo value to a structpb.Value.
func ToValue(v golo.Value) (*structpb.Value, error) {
	switch v := v.(type) {
	case golo.NoneType:
		return structpb.NewNullValue(), nil
	case golo.Bool:
		return structpb.NewBoolValue(bool(v)), nil
	case golo.Int:
		return structpb.NewNumberValue(float64(v)), nil
	case golo.Long:
		return structpb.NewNumberValue(float64(v)), nil
	case golo.Float:
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			return nil, fmt.Errorf("cannot encode %s as JSON", v)
		}
		return structpb.NewNumberValue(float64(v)), nil
	case golo.String:
		return structpb.NewStringValue(string(v)), nil
	case *golo.Array:
		list := &structpb.ListValue{}
		for i := 0; i < v.Len(); i++ {
			elem, err := ToValue(v.Index(i))
			if err != nil {
				return nil, err
			}
			list.Values = append(list.Values, elem)
		}
		return structpb.NewListValue(list), nil
	}
	return nil, fmt.Errorf("cannot encode %s as JSON", v.Class())
}

// FromValue converts a structpb.Value to a Golo value. Integral numbers
// become an Integer if they fit, else a Long if they are exact.
func FromValue(v *structpb.Value) (golo.Value, error) {
	switch k := v.GetKind().(type) {
	case nil, *structpb.Value_NullValue:
		return golo.None, nil
	case *structpb.Value_BoolValue:
		return golo.Bool(k.BoolValue), nil
	case *structpb.Value_NumberValue:
		x := k.NumberValue
		switch {
		case x == math.Trunc(x) && x >= math.MinInt32 && x <= math.MaxInt32:
			return golo.Int(x), nil
		case x == math.Trunc(x) && math.Abs(x) <= 1<<53:
			return golo.Long(x), nil
		}
		return golo.Float(x), nil
	case *structpb.Value_StringValue:
		return golo.String(k.StringValue), nil
	case *structpb.Value_ListValue:
		elems := make([]golo.Value, len(k.ListValue.GetValues()))
		for i, e := range k.ListValue.GetValues() {
			x, err := FromValue(e)
			if err != nil {
				return nil, err
			}
			elems[i] = x
		}
		return golo.NewArray(elems), nil
	case *structpb.Value_StructValue:
		return nil, fmt.Errorf("JSON objects have no Golo representation")
	}
	return nil, fmt.Errorf("unexpected value kind %T", v.GetKind())
}

func toJSON(_ *golo.Thread, b *golo.Builtin, args []golo.Value) (golo.Value, error) {
	v, err := ToValue(args[0])
	if err != nil {
		return nil, fmt.Errorf("%s: %v", b.Name(), err)
	}
	data, err := protojson.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%s: %v", b.Name(), err)
	}
	return golo.String(data), nil
}

func toText(_ *golo.Thread, b *golo.Builtin, args []golo.Value) (golo.Value, error) {
	v, err := ToValue(args[0])
	if err != nil {
		return nil, fmt.Errorf("%s: %v", b.Name(), err)
	}
	return golo.String(prototext.Format(v)), nil
}

func fromJSON(_ *golo.Thread, b *golo.Builtin, args []golo.Value) (golo.Value, error) {
	var s string
	if err := golo.UnpackArgs(b.Name(), args, &s); err != nil {
		return nil, err
	}
	v := new(structpb.Value)
	if err := protojson.Unmarshal([]byte(s), v); err != nil {
		return nil, fmt.Errorf("%s: %v", b.Name(), err)
	}
	x, err := FromValue(v)
	if err != nil {
		return nil, fmt.Errorf("%s: %v", b.Name(), err)
	}
	return x, nil
}

// describe returns the description of the module of the calling function.
func describe(thread *golo.Thread, b *golo.Builtin, _ []golo.Value) (golo.Value, error) {
	caller := thread.Caller()
	fn, ok := caller.Callable().(*golo.Function)
	if !ok {
		return nil, fmt.Errorf("%s: not called from a Golo function", b.Name())
	}
	desc, err := Describe(fn.Module())
	if err != nil {
		return nil, fmt.Errorf("%s: %v", b.Name(), err)
	}
	data, err := protojson.Marshal(desc)
	if err != nil {
		return nil, fmt.Errorf("%s: %v", b.Name(), err)
	}
	return golo.String(data), nil
}
