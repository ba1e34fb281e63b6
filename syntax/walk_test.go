package syntax_test

import (
	"bytes"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"go.golo.dev/syntax"
)

func TestWalk(t *testing.T) {
	const src = `module hello

function f = |xs, rest...| {
  for (var i = 0, i < 3, i = i + 1) {
    if xs[i] oftype String {
      return rest: get(0)
    }
  }
  return |y| -> g(y, rest...)
}
`
	f, err := syntax.Parse("hello.golo", src)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	var depth int
	syntax.Walk(f, func(n syntax.Node) bool {
		if n == nil {
			depth--
			return true
		}
		fmt.Fprintf(&buf, "%s%s\n",
			strings.Repeat("  ", depth),
			strings.TrimPrefix(reflect.TypeOf(n).String(), "*syntax."))
		depth++
		return true
	})
	got := buf.String()
	want := `
File
  Ident
  FunctionDecl
    Ident
    Ident
    Ident
    ForStmt
      DeclStmt
        Ident
        Literal
      BinaryExpr
        Ident
        Literal
      AssignStmt
        Ident
        BinaryExpr
          Ident
          Literal
      IfStmt
        BinaryExpr
          IndexExpr
            Ident
            Ident
          TypeName
        ReturnStmt
          MethodCallExpr
            Ident
            Ident
            Literal
    ReturnStmt
      FuncExpr
        Ident
        ReturnStmt
          CallExpr
            Ident
            Ident
            SpreadExpr
              Ident`
	got = strings.TrimSpace(got)
	want = strings.TrimSpace(want)
	if got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestWalkPrune(t *testing.T) {
	f, err := syntax.Parse("prune.golo", "module m\nfunction f = |a| -> |b| -> a + b\n")
	if err != nil {
		t.Fatal(err)
	}
	var idents []string
	syntax.Walk(f, func(n syntax.Node) bool {
		switch n := n.(type) {
		case *syntax.FuncExpr:
			return false // don't descend into closures
		case *syntax.Ident:
			idents = append(idents, n.Name)
		}
		return true
	})
	if got, want := strings.Join(idents, " "), "m f a"; got != want {
		t.Errorf("got idents %q, want %q", got, want)
	}
}

// ExampleWalk demonstrates the use of Walk to
// enumerate the references in a Golo source file.
func ExampleWalk() {
	const src = `module example

import java.util.LinkedList

let a = 1

function b = |c, d...| {
  var e = c + a
  e = f(e, d...)
  return array[e, g: h(), i[j]]
}
`
	f, err := syntax.Parse("example.golo", src)
	if err != nil {
		panic(err)
	}

	var idents []string
	syntax.Walk(f, func(n syntax.Node) bool {
		if id, ok := n.(*syntax.Ident); ok {
			idents = append(idents, id.Name)
		}
		return true
	})
	fmt.Println(strings.Join(idents, " "))

	// Output:
	// example java.util.LinkedList a b c d e c a e f e d e g h i j
}
