// Package repl provides a read/eval/print loop for Golo.
//
// It supports readline-style command editing,
// and interrupts through Control-C.
//
// Golo code lives in modules, so the REPL maintains a session: the
// imports, function declarations and module state entered so far.
// Each input is compiled as a fresh module made of the session plus
// the input, whose module state is restored from the previous input.
//
// An input line that is an import or a function declaration extends
// the session. A let or var declaration adds module state. Any other
// statements are executed, and the value of a sole expression is
// printed unless it is null. The REPL reads more lines while the input
// is incomplete, or until a blank line.
package repl // import "go.golo.dev/repl"

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/chzyer/readline"

	"go.golo.dev/golo"
	"go.golo.dev/syntax"
)

var interrupted = make(chan os.Signal, 1)

// REPL executes a read, eval, print loop.
//
// Each input is evaluated by a new thread with the Name, Load and
// Print of the specified thread. A SIGINT (Control-C) cancels it.
func REPL(thread *golo.Thread) {
	signal.Notify(interrupted, os.Interrupt)
	defer signal.Stop(interrupted)

	rl, err := readline.New("golo> ")
	if err != nil {
		PrintError(err)
		return
	}
	defer rl.Close()

	session := NewSession(thread)
	for {
		if err := rep(rl, session); err != nil {
			if err == readline.ErrInterrupt {
				fmt.Println(err)
				continue
			}
			break
		}
	}
	fmt.Println()
}

// rep reads, evaluates, and prints one item.
//
// It returns an error (possibly readline.ErrInterrupt)
// only if readline failed. Golo errors are printed.
func rep(rl *readline.Instance, session *Session) error {
	// Each item gets its own context,
	// which is cancelled by a SIGINT.
	//
	// Note: during Readline calls, Control-C causes Readline to return
	// ErrInterrupt but does not generate a SIGINT.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	session.cancel = func(thread *golo.Thread) {
		go func() {
			select {
			case <-interrupted:
				thread.Cancel("interrupted")
			case <-ctx.Done():
			}
		}()
	}

	rl.SetPrompt("golo> ")
	var buf strings.Builder
	for {
		line, err := rl.Readline()
		if err != nil {
			if err == io.EOF && buf.Len() > 0 {
				break
			}
			return err
		}
		rl.SetPrompt("  ... ")
		buf.WriteString(line)
		buf.WriteByte('\n')
		if strings.TrimSpace(line) == "" || !incomplete(buf.String()) {
			break
		}
	}
	if strings.TrimSpace(buf.String()) == "" {
		return nil
	}

	v, err := session.Eval(buf.String())
	if err != nil {
		PrintError(err)
		return nil
	}
	if v != golo.None {
		fmt.Println(v)
	}
	return nil
}

// incomplete reports whether src is a prefix of some valid input.
func incomplete(src string) bool {
	if isImport(src) {
		return false
	}
	_, _, err := syntax.ParseStmts("<stdin>", src)
	var serr syntax.Error
	return errors.As(err, &serr) && serr.EOF
}

func isImport(src string) bool {
	return strings.HasPrefix(strings.TrimSpace(src), "import ")
}

// PrintError prints the error to stderr,
// or its backtrace if it is a Golo evaluation error.
func PrintError(err error) {
	if evalErr, ok := err.(*golo.EvalError); ok {
		fmt.Fprintln(os.Stderr, evalErr.Backtrace())
	} else {
		fmt.Fprintln(os.Stderr, err)
	}
}

// A Session accumulates the inputs of a REPL.
type Session struct {
	thread  *golo.Thread
	imports []string
	decls   []string // sources of function declarations
	state   []*stateVar
	cancel  func(*golo.Thread) // arranges cancellation of the thread, if set
}

type stateVar struct {
	tok   string // "let" or "var"
	name  string
	value golo.Value
}

// NewSession returns an empty session whose inputs are evaluated by
// threads with the Name, Load and Print of the specified thread.
func NewSession(thread *golo.Thread) *Session {
	return &Session{thread: thread}
}

const (
	sessionModule = "repl.Session"
	entryFunction = "repl_entry"
)

// Eval evaluates one input and returns the value of its sole
// expression, or null.
func (s *Session) Eval(src string) (golo.Value, error) {
	if isImport(src) {
		return golo.None, s.addImports(src)
	}

	decls, stmts, err := syntax.ParseStmts("<stdin>", src)
	if err != nil {
		return nil, err
	}
	switch {
	case len(decls) > 0 && len(stmts) > 0:
		return nil, fmt.Errorf("cannot mix function declarations and statements")
	case len(decls) > 0:
		decls := append(s.decls[:len(s.decls):len(s.decls)], src)
		if _, err := golo.Compile("<stdin>", s.source(s.state, decls, "", "")); err != nil {
			return nil, err
		}
		s.decls = decls
		return golo.None, nil
	}

	state, body, assigned := s.state, src, ""
	if len(stmts) == 1 {
		switch stmt := stmts[0].(type) {
		case *syntax.DeclStmt:
			// Declare the reference as module state, and assign it
			// its initial value in the entry function.
			name := stmt.Name.Name
			assigned = name
			state = nil
			for _, v := range s.state {
				if v.name != name {
					state = append(state, v)
				}
			}
			state = append(state, &stateVar{tok: stmt.Tok.String(), name: name, value: golo.None})
			start, _ := stmt.Value.Span()
			body = name + " = " + src[offset(src, start):]
		case *syntax.ExprStmt:
			body = "return " + strings.TrimSpace(src)
		}
	}

	prog, err := golo.Compile("<stdin>", s.source(state, s.decls, body, assigned))
	if err != nil {
		return nil, err
	}
	thread := &golo.Thread{Name: s.thread.Name, Load: s.thread.Load, Print: s.thread.Print}
	if s.cancel != nil {
		s.cancel(thread)
	}
	m, err := prog.Init(thread)
	if err != nil {
		return nil, err
	}
	for _, v := range state {
		if err := m.SetGlobal(v.name, v.value); err != nil {
			return nil, err
		}
	}
	res, err := m.Call(thread, entryFunction)
	if err != nil {
		return nil, err
	}
	for _, v := range state {
		if x, ok := m.Global(v.name); ok {
			v.value = x
		}
	}
	s.state = state
	return res, nil
}

// source returns the text of a session module. The assigned module
// state is declared with var so that the entry function may initialize it.
func (s *Session) source(state []*stateVar, decls []string, body, assigned string) string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "module %s\n", sessionModule)
	for _, imp := range s.imports {
		fmt.Fprintf(&buf, "import %s\n", imp)
	}
	for _, v := range state {
		tok := v.tok
		if v.name == assigned {
			tok = "var"
		}
		fmt.Fprintf(&buf, "%s %s = null\n", tok, v.name)
	}
	for _, d := range decls {
		buf.WriteString(d)
		buf.WriteByte('\n')
	}
	fmt.Fprintf(&buf, "local function %s = {\n%s\n}\n", entryFunction, body)
	return buf.String()
}

func (s *Session) addImports(src string) error {
	var names []string
	for _, line := range strings.Split(src, "\n") {
		fields := strings.Fields(line)
		switch {
		case len(fields) == 0:
		case len(fields) == 2 && fields[0] == "import":
			names = append(names, fields[1])
		default:
			return fmt.Errorf("invalid import: %s", strings.TrimSpace(line))
		}
	}
	imports := append(s.imports[:len(s.imports):len(s.imports)], names...)
	prev := s.imports
	s.imports = imports
	if _, err := golo.Compile("<stdin>", s.source(s.state, s.decls, "", "")); err != nil {
		s.imports = prev
		return err
	}
	return nil
}

// offset returns the byte offset in src of a position.
func offset(src string, pos syntax.Position) int {
	i := 0
	for line := int32(1); line < pos.Line; line++ {
		j := strings.IndexByte(src[i:], '\n')
		if j < 0 {
			return len(src)
		}
		i += j + 1
	}
	for col := int32(1); col < pos.Col && i < len(src); col++ {
		_, size := utf8.DecodeRuneInString(src[i:])
		i += size
	}
	return i
}

// MakeLoad returns a loader that finds registered Go modules, and Golo
// modules in files under dir: module a.b.C is read from a/b/C.golo.
// Each function returned by MakeLoad accesses a distinct private cache.
func MakeLoad(dir string) func(thread *golo.Thread, module string) (*golo.Module, error) {
	type entry struct {
		module *golo.Module
		err    error
	}

	var cache = make(map[string]*entry)

	return func(thread *golo.Thread, module string) (*golo.Module, error) {
		if m, err := golo.LoadModule(thread, module); !errors.Is(err, golo.ErrModuleNotFound) {
			return m, err
		}

		e, ok := cache[module]
		if e == nil {
			if ok {
				// request for module whose loading is in progress
				return nil, fmt.Errorf("cycle in import graph at %s", module)
			}

			filename := filepath.Join(dir, filepath.FromSlash(strings.ReplaceAll(module, ".", "/"))+".golo")
			if _, err := os.Stat(filename); err != nil {
				return nil, fmt.Errorf("%w: %s", golo.ErrModuleNotFound, module)
			}

			// Add a placeholder to indicate "load in progress".
			cache[module] = nil

			// Load it.
			m, err := golo.ExecFile(thread, filename, nil)
			if err == nil && m.Name != module {
				m, err = nil, fmt.Errorf("%s declares module %s, want %s", filename, m.Name, module)
			}
			e = &entry{m, err}

			// Update the cache.
			cache[module] = e
		}
		return e.module, e.err
	}
}
