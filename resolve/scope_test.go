package resolve_test

import (
	"errors"
	"testing"

	"go.golo.dev/resolve"
	"go.golo.dev/syntax"
)

func TestScopeLookup(t *testing.T) {
	var pos syntax.Position
	module := resolve.NewScope(nil)
	fn := resolve.NewScope(module)
	block := resolve.NewScope(fn)

	if module.ID != 0 || fn.ID != 1 || block.ID != 2 {
		t.Errorf("scope ids = %d %d %d, want 0 1 2", module.ID, fn.ID, block.ID)
	}
	if module.Kind != resolve.ModuleScope || block.Kind != resolve.BlockScope {
		t.Errorf("scope kinds = %s %s", module.Kind, block.Kind)
	}

	g, _ := module.Declare("x", resolve.ModuleState, pos)
	p, _ := fn.Declare("p", resolve.Parameter, pos)
	inner, _ := block.Declare("x", resolve.Constant, pos)

	for _, test := range []struct {
		scope *resolve.Scope
		name  string
		want  *resolve.Reference
		depth int
	}{
		{block, "x", inner, 0},
		{fn, "x", g, 1},
		{block, "p", p, 1},
		{module, "p", nil, -1},
		{block, "nope", nil, -1},
	} {
		ref, depth := test.scope.Lookup(test.name)
		if ref != test.want || depth != test.depth {
			t.Errorf("%s.Lookup(%s) = %v, %d; want %v, %d", test.scope, test.name, ref, depth, test.want, test.depth)
		}
	}
}

func TestScopeDeclare(t *testing.T) {
	var pos syntax.Position
	s := resolve.NewScope(nil)
	if _, err := s.Declare("x", resolve.Variable, pos); err != nil {
		t.Fatal(err)
	}
	_, err := s.Declare("x", resolve.Constant, pos)
	var dup *resolve.DuplicateDeclarationError
	if !errors.As(err, &dup) {
		t.Fatalf("got %v, want DuplicateDeclarationError", err)
	}
	if dup.Name != "x" || dup.Prev.Kind != resolve.Variable {
		t.Errorf("got %+v", dup)
	}

	// Shadowing in a nested scope is not a redeclaration.
	child := resolve.NewScope(s)
	if _, err := child.Declare("x", resolve.Constant, pos); err != nil {
		t.Errorf("shadowing declaration failed: %v", err)
	}
	child.Close()
	if !child.Closed() || s.Closed() {
		t.Errorf("Closed: child=%t parent=%t", child.Closed(), s.Closed())
	}
	if got := len(s.References()); got != 1 {
		t.Errorf("parent has %d references, want 1", got)
	}
}

func TestKinds(t *testing.T) {
	for _, test := range []struct {
		kind                  resolve.Kind
		constant, moduleLevel bool
	}{
		{resolve.Variable, false, false},
		{resolve.Constant, true, false},
		{resolve.Parameter, false, false},
		{resolve.ModuleState, false, true},
		{resolve.ModuleConstant, true, true},
	} {
		if got := test.kind.IsConstant(); got != test.constant {
			t.Errorf("%s.IsConstant() = %t", test.kind, got)
		}
		if got := test.kind.IsModuleLevel(); got != test.moduleLevel {
			t.Errorf("%s.IsModuleLevel() = %t", test.kind, got)
		}
	}
}
