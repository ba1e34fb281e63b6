// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package compile defines the Golo bytecode compiler.
// It is an internal package of the Golo interpreter and is not directly accessible to clients.
//
// The compiler generates byte code with optional uint32 operands for a
// virtual machine with the following components:
//   - a program counter, which is an index into the byte code array.
//   - an operand stack, whose maximum size is computed for each function by the compiler.
//   - an stack of local variables, each a slot in the function's Locals.
//   - an array of free variables, for nested functions.
//     Free variables are captured by value when the closure is created.
//   - an array of global variables, shared among all functions of a module.
//
// Every call, method call, constructor call and operator of the source
// is compiled to a single CALL instruction whose operand is the index
// of its dispatch descriptor in Program.CallSites. The targets of
// these call sites are resolved at run time.
//
// Operands, logically uint32s, are encoded using little-endian 7-bit
// varints, the top bit indicating that more bytes follow.
package compile // import "go.golo.dev/internal/compile"

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"log"
	"os"

	"go.golo.dev/ir"
	"go.golo.dev/resolve"
	"go.golo.dev/syntax"
)

const debug = false // make code generation verbose, for debugging the compiler

// Disassemble causes the assembly code for each function
// to be printed to stderr as it is generated.
var Disassemble = false

type Opcode uint8

// "x DUP x x" is a "stack picture" that describes the state of the
// stack before and after execution of the instruction.
//
// OP<index> indicates an immediate operand that is an index into the
// specified table: locals, freevars, globals, constants, closures,
// call sites.
const (
	NOP Opcode = iota // - NOP -

	// stack operations
	DUP //   x DUP x x
	POP //   x POP -

	NONE  // - NONE null
	TRUE  // - TRUE true
	FALSE // - FALSE false

	RETURN // value RETURN -

	// --- opcodes with an argument must go below this line ---

	CONSTANT  //           - CONSTANT<constant> value
	LOCAL     //           - LOCAL<local>       value
	SETLOCAL  //       value SETLOCAL<local>    -
	FREE      //           - FREE<freevar>      value
	GLOBAL    //           - GLOBAL<global>     value
	SETGLOBAL //       value SETGLOBAL<global>  -
	JMP       //           - JMP<addr>          -
	CJMP      //        cond CJMP<addr>         -   (jump if true)
	NJMP      //        cond NJMP<addr>         -   (jump if false)
	MAKEARRAY //   x1 ... xn MAKEARRAY<n>       array
	MAKEFUNC  //  f1 ... fn MAKEFUNC<closure>  fn  (captures the closure's free variables)
	CALL      // a1 ... argc CALL<site>         result

	OpcodeArgMin = CONSTANT
	OpcodeMax    = CALL
)

var opcodeNames = [...]string{
	CALL:      "call",
	CJMP:      "cjmp",
	CONSTANT:  "constant",
	DUP:       "dup",
	FALSE:     "false",
	FREE:      "free",
	GLOBAL:    "global",
	JMP:       "jmp",
	LOCAL:     "local",
	MAKEARRAY: "makearray",
	MAKEFUNC:  "makefunc",
	NJMP:      "njmp",
	NONE:      "none",
	NOP:       "nop",
	POP:       "pop",
	RETURN:    "return",
	SETGLOBAL: "setglobal",
	SETLOCAL:  "setlocal",
	TRUE:      "true",
}

const variableStackEffect = 0x7f

// stackEffect records the effect on the size of the operand stack of
// each kind of instruction. For some instructions this requires computation.
var stackEffect = [...]int8{
	CALL:      variableStackEffect,
	CJMP:      -1,
	CONSTANT:  +1,
	DUP:       +1,
	FALSE:     +1,
	FREE:      +1,
	GLOBAL:    +1,
	JMP:       0,
	LOCAL:     +1,
	MAKEARRAY: variableStackEffect,
	MAKEFUNC:  variableStackEffect,
	NJMP:      -1,
	NONE:      +1,
	NOP:       0,
	POP:       -1,
	RETURN:    -1,
	SETGLOBAL: -1,
	SETLOCAL:  -1,
	TRUE:      +1,
}

func (op Opcode) String() string {
	if op <= OpcodeMax {
		if name := opcodeNames[op]; name != "" {
			return name
		}
	}
	return fmt.Sprintf("illegal op (%d)", op)
}

// A Program is a Golo file in executable form.
type Program struct {
	Filename  string
	Name      string         // module name
	Imports   []string       // including the implicit gololang.Predefined
	Functions []*Funcode     // module functions, in declaration order
	Closures  []*Funcode     // closure bodies, indexed by MAKEFUNC
	Toplevel  *Funcode       // module initializer
	Constants []interface{}  // = string | int32 | int64 | float64
	Globals   []Binding      // module state
	CallSites []*ir.CallSite // indexed by CALL
}

// A Funcode is the code of a compiled Golo function.
type Funcode struct {
	Prog       *Program
	Pos        syntax.Position // position of FUNCTION token
	Name       string          // name of this function
	Code       []byte          // the byte code
	pclinetab  []byte          // mapping from pc to linenum
	Locals     []Binding       // locals, parameters first
	FreeVars   []Binding       // for tracing
	MaxStack   int
	NumParams  int
	HasVarargs bool
	Public     bool
}

// A Binding is the name and position of a binding identifier.
type Binding struct {
	Name string
	Pos  syntax.Position
}

// Position returns the source position for program counter pc.
func (fn *Funcode) Position(pc uint32) syntax.Position {
	// The pclinetab is a sequence of (pc delta, line delta, col)
	// varint triples, one per change of position.
	tab := fn.pclinetab
	line, col := fn.Pos.Line, fn.Pos.Col
	var addr uint64
	for len(tab) > 0 {
		dpc, n := binary.Uvarint(tab)
		dline, m := binary.Varint(tab[n:])
		c, k := binary.Uvarint(tab[n+m:])
		if addr+dpc > uint64(pc) {
			break
		}
		addr += dpc
		line += int32(dline)
		col = int32(c)
		tab = tab[n+m+k:]
	}
	return syntax.MakePosition(&fn.Prog.Filename, line, col)
}

// Module compiles a module to a Program.
// Invariant violations in the IR, which cannot arise from a
// resolved file, cause a panic.
func Module(m *ir.Module) *Program {
	pcomp := &pcomp{
		prog: &Program{
			Filename:  m.Pos.Filename(),
			Name:      m.Name,
			Imports:   m.Imports(),
			CallSites: m.CallSites,
		},
		constants: make(map[interface{}]uint32),
		closures:  make(map[*ir.Function]uint32),
	}
	pcomp.prog.Globals = bindings(m.State)
	pcomp.prog.Toplevel = pcomp.function(m.Init)
	for _, fn := range m.Functions {
		pcomp.prog.Functions = append(pcomp.prog.Functions, pcomp.function(fn))
	}
	return pcomp.prog
}

func bindings(refs []*resolve.Reference) []Binding {
	res := make([]Binding, len(refs))
	for i, ref := range refs {
		res[i] = Binding{ref.Name, ref.Pos}
	}
	return res
}

// pcomp holds the compiler state for a Program.
type pcomp struct {
	prog      *Program
	constants map[interface{}]uint32
	closures  map[*ir.Function]uint32
}

// fcomp holds the compiler state for a Funcode.
type fcomp struct {
	fn    *Funcode
	irfn  *ir.Function
	pcomp *pcomp
	pos   syntax.Position // current position of generated code
	block *block
	stack int // current stack depth
}

type block struct {
	insns []insn

	// If the last insn is a RETURN, jmp and cjmp are nil.
	// If the last insn is a CJMP or NJMP,
	//  cjmp and jmp are the "true" and "false" successors.
	// Otherwise, jmp is the sole successor.
	jmp, cjmp *block

	initialstack int // for stack depth computation

	// Used during encoding
	index int // -1 => not encoded yet
	addr  uint32
}

type insn struct {
	op        Opcode
	arg       uint32
	line, col int32
}

func (pcomp *pcomp) function(irfn *ir.Function) *Funcode {
	fcomp := &fcomp{
		pcomp: pcomp,
		irfn:  irfn,
		pos:   irfn.Pos,
		fn: &Funcode{
			Prog:       pcomp.prog,
			Pos:        irfn.Pos,
			Name:       irfn.Name,
			Locals:     bindings(irfn.Locals),
			FreeVars:   bindings(irfn.FreeVars),
			NumParams:  len(irfn.Params),
			HasVarargs: irfn.Varargs,
			Public:     irfn.Public(),
		},
	}

	if debug {
		fmt.Fprintf(os.Stderr, "start function(%s @ %s)\n", irfn.Name, irfn.Pos)
	}

	// Convert AST to a CFG of instructions.
	entry := fcomp.newBlock()
	entry.initialstack = 0
	fcomp.setBlock(entry)
	fcomp.stmts(irfn.Body.Statements)
	if fcomp.block != nil {
		fcomp.emit(NONE)
		fcomp.emit(RETURN)
	}

	fcomp.generate(entry)

	if Disassemble {
		fmt.Fprint(os.Stderr, fcomp.fn.Disassembly())
	}

	if debug {
		fmt.Fprintf(os.Stderr, "end function(%s @ %s)\n", irfn.Name, irfn.Pos)
	}

	return fcomp.fn
}

// generate linearizes the CFG starting at entry and encodes it.
func (fcomp *fcomp) generate(entry *block) {
	// Order blocks, placing the false successor after a conditional
	// jump so that it falls through.
	var blocks []*block
	var visit func(b *block)
	visit = func(b *block) {
		if b.index >= 0 {
			return
		}
		b.index = len(blocks)
		blocks = append(blocks, b)
		if b.cjmp != nil {
			visit(b.cjmp)
		}
		if b.jmp != nil {
			visit(b.jmp)
		}
	}
	visit(entry)

	next := func(b *block) *block {
		if i := b.index + 1; i < len(blocks) {
			return blocks[i]
		}
		return nil
	}

	// Compute block addresses. Each jump operand may grow as
	// addresses increase, so iterate until they are stable.
	for changed := true; changed; {
		changed = false
		var addr uint32
		for _, b := range blocks {
			if b.addr != addr {
				b.addr = addr
				changed = true
			}
			for _, insn := range b.insns {
				addr += uint32(encodedSize(insn.op, insn.arg))
			}
			addr += uint32(terminatorSize(b, next(b)))
		}
	}

	// Emit code.
	var code []byte
	var pclinetab []byte
	line, col := fcomp.fn.Pos.Line, fcomp.fn.Pos.Col
	var lastpc int
	maxstack := 0
	for _, b := range blocks {
		stack := b.initialstack
		for _, insn := range b.insns {
			if insn.line != line || insn.col != col {
				pclinetab = binary.AppendUvarint(pclinetab, uint64(len(code)-lastpc))
				pclinetab = binary.AppendVarint(pclinetab, int64(insn.line-line))
				pclinetab = binary.AppendUvarint(pclinetab, uint64(insn.col))
				lastpc = len(code)
				line, col = insn.line, insn.col
			}
			code = encodeInsn(code, insn.op, insn.arg)
			stack += fcomp.effect(insn)
			if stack > maxstack {
				maxstack = stack
			}
		}
		succ := next(b)
		switch {
		case b.cjmp != nil:
			if b.cjmp == succ {
				code = encodeInsn(code, NJMP, b.jmp.addr)
			} else {
				code = encodeInsn(code, CJMP, b.cjmp.addr)
				if b.jmp != succ {
					code = encodeInsn(code, JMP, b.jmp.addr)
				}
			}
		case b.jmp != nil && b.jmp != succ:
			code = encodeInsn(code, JMP, b.jmp.addr)
		}
	}

	fcomp.fn.Code = code
	fcomp.fn.pclinetab = pclinetab
	fcomp.fn.MaxStack = maxstack
}

// terminatorSize returns the size of the jumps that end block b,
// given the block that follows it.
func terminatorSize(b, succ *block) int {
	switch {
	case b.cjmp != nil:
		if b.cjmp == succ {
			return encodedSize(NJMP, b.jmp.addr)
		}
		n := encodedSize(CJMP, b.cjmp.addr)
		if b.jmp != succ {
			n += encodedSize(JMP, b.jmp.addr)
		}
		return n
	case b.jmp != nil && b.jmp != succ:
		return encodedSize(JMP, b.jmp.addr)
	}
	return 0
}

func encodedSize(op Opcode, arg uint32) int {
	n := 1
	if op >= OpcodeArgMin {
		for ; arg >= 0x80; arg >>= 7 {
			n++
		}
		n++
	}
	return n
}

func encodeInsn(code []byte, op Opcode, arg uint32) []byte {
	code = append(code, byte(op))
	if op >= OpcodeArgMin {
		for ; arg >= 0x80; arg >>= 7 {
			code = append(code, byte(arg)|0x80)
		}
		code = append(code, byte(arg))
	}
	return code
}

// DecodeOp decodes the instruction at pc, returning the opcode, its
// argument, and the pc of the next instruction.
func DecodeOp(code []byte, pc uint32) (op Opcode, arg uint32, next uint32) {
	op = Opcode(code[pc])
	pc++
	if op >= OpcodeArgMin {
		for s := uint(0); ; s += 7 {
			b := code[pc]
			pc++
			arg |= uint32(b&0x7f) << s
			if b < 0x80 {
				break
			}
		}
	}
	return op, arg, pc
}

// effect returns the stack effect of an instruction.
func (fcomp *fcomp) effect(insn insn) int {
	se := int(stackEffect[insn.op])
	if se != variableStackEffect {
		return se
	}
	switch insn.op {
	case CALL:
		return 1 - fcomp.pcomp.prog.CallSites[insn.arg].Argc
	case MAKEARRAY:
		return 1 - int(insn.arg)
	case MAKEFUNC:
		return 1 - len(fcomp.pcomp.prog.Closures[insn.arg].FreeVars)
	}
	panic(insn.op)
}

func (fcomp *fcomp) newBlock() *block {
	return &block{index: -1, initialstack: -1}
}

func (fcomp *fcomp) emit(op Opcode) {
	if op >= OpcodeArgMin {
		panic("missing arg: " + op.String())
	}
	fcomp.append(insn{op: op, line: fcomp.pos.Line, col: fcomp.pos.Col})
}

func (fcomp *fcomp) emit1(op Opcode, arg uint32) {
	if op < OpcodeArgMin {
		panic("unwanted arg: " + op.String())
	}
	fcomp.append(insn{op: op, arg: arg, line: fcomp.pos.Line, col: fcomp.pos.Col})
}

func (fcomp *fcomp) append(insn insn) {
	fcomp.block.insns = append(fcomp.block.insns, insn)
	fcomp.stack += fcomp.effect(insn)
}

// jump emits a jump to the specified block.
// On return, the current block is unset.
func (fcomp *fcomp) jump(b *block) {
	fcomp.block.jmp = b
	fcomp.setInitialStack(b)
	fcomp.block = nil
}

// condjump emits a conditional jump (CJMP or NJMP) to t if the
// operand on the stack is true, and to f otherwise.
// On return, the current block is unset.
func (fcomp *fcomp) condjump(t, f *block) {
	fcomp.stack-- // consume the condition
	fcomp.block.cjmp = t
	fcomp.block.jmp = f
	fcomp.setInitialStack(t)
	fcomp.setInitialStack(f)
	fcomp.block = nil
}

func (fcomp *fcomp) setInitialStack(b *block) {
	if b.initialstack == -1 {
		b.initialstack = fcomp.stack
	} else if b.initialstack != fcomp.stack {
		log.Panicf("%s: %s: inconsistent stack depth at block entry: %d, want %d",
			fcomp.pos, fcomp.fn.Name, fcomp.stack, b.initialstack)
	}
}

// setBlock makes b the current block.
func (fcomp *fcomp) setBlock(b *block) {
	fcomp.block = b
	fcomp.stack = b.initialstack
}

func (fcomp *fcomp) setPos(pos syntax.Position) {
	fcomp.pos = pos
}

// constantIndex returns the index of the specified constant
// within the constant pool, adding it if necessary.
func (pcomp *pcomp) constantIndex(v interface{}) uint32 {
	index, ok := pcomp.constants[v]
	if !ok {
		index = uint32(len(pcomp.prog.Constants))
		pcomp.prog.Constants = append(pcomp.prog.Constants, v)
		pcomp.constants[v] = index
	}
	return index
}

// closureIndex returns the index of the specified closure,
// compiling it if necessary.
func (pcomp *pcomp) closureIndex(fn *ir.Function) uint32 {
	index, ok := pcomp.closures[fn]
	if !ok {
		index = uint32(len(pcomp.prog.Closures))
		pcomp.closures[fn] = index
		pcomp.prog.Closures = append(pcomp.prog.Closures, nil)
		pcomp.prog.Closures[index] = pcomp.function(fn)
	}
	return index
}

func (fcomp *fcomp) stmts(stmts []ir.Statement) {
	for _, stmt := range stmts {
		fcomp.stmt(stmt)
	}
}

func (fcomp *fcomp) stmt(stmt ir.Statement) {
	if fcomp.block == nil {
		// unreachable code, e.g. after a return
		fcomp.block = fcomp.newBlock()
		fcomp.block.initialstack = 0
		fcomp.stack = 0
	}
	switch stmt := stmt.(type) {
	case *ir.AssignmentStatement:
		fcomp.expr(stmt.Value)
		fcomp.setPos(stmt.Pos)
		fcomp.set(stmt.Binding, stmt.Ref)

	case *ir.ExpressionStatement:
		fcomp.expr(stmt.X)
		fcomp.emit(POP)

	case *ir.ReturnStatement:
		if stmt.Value != nil {
			fcomp.expr(stmt.Value)
		} else {
			fcomp.emit(NONE)
		}
		fcomp.setPos(stmt.Pos)
		fcomp.emit(RETURN)
		fcomp.block = nil

	case *ir.ConditionalBranching:
		t := fcomp.newBlock()
		f := fcomp.newBlock()
		done := fcomp.newBlock()

		fcomp.setPos(stmt.Pos)
		fcomp.expr(stmt.Cond)
		fcomp.condjump(t, f)

		fcomp.setBlock(t)
		fcomp.stmts(stmt.True.Statements)
		if fcomp.block != nil {
			fcomp.jump(done)
		}

		fcomp.setBlock(f)
		if stmt.False != nil {
			fcomp.stmts(stmt.False.Statements)
		}
		if fcomp.block != nil {
			fcomp.jump(done)
		}

		if done.initialstack == -1 {
			// both branches return
			fcomp.block = nil
			return
		}
		fcomp.setBlock(done)

	case *ir.LoopStatement:
		if stmt.Init != nil {
			fcomp.stmt(stmt.Init)
		}
		head := fcomp.newBlock()
		body := fcomp.newBlock()
		done := fcomp.newBlock()

		fcomp.jump(head)
		fcomp.setBlock(head)
		fcomp.setPos(stmt.Pos)
		fcomp.expr(stmt.Cond)
		fcomp.condjump(body, done)

		fcomp.setBlock(body)
		fcomp.stmts(stmt.Body.Statements)
		if stmt.Post != nil {
			fcomp.stmt(stmt.Post)
		}
		if fcomp.block != nil {
			fcomp.jump(head)
		}

		fcomp.setBlock(done)

	default:
		log.Panicf("%s: unexpected statement %T", stmt.Start(), stmt)
	}
}

// set emits code to store the top-of-stack value to the specified reference.
func (fcomp *fcomp) set(bind *resolve.Binding, ref *resolve.Reference) {
	switch bind.Storage {
	case resolve.Local:
		fcomp.emit1(SETLOCAL, uint32(bind.Index))
	case resolve.Global:
		fcomp.emit1(SETGLOBAL, uint32(bind.Index))
	default:
		log.Panicf("%s: set(%s): not global or local (%s)", fcomp.pos, ref.Name, bind.Storage)
	}
}

// lookup emits code to push the value of the specified reference.
func (fcomp *fcomp) lookup(e *ir.ReferenceLookup) {
	fcomp.setPos(e.Pos)
	switch e.Binding.Storage {
	case resolve.Local:
		fcomp.emit1(LOCAL, uint32(e.Binding.Index))
	case resolve.Free:
		fcomp.emit1(FREE, uint32(e.Binding.Index))
	case resolve.Global:
		fcomp.emit1(GLOBAL, uint32(e.Binding.Index))
	default:
		log.Panicf("%s: compiler.lookup(%s): unresolved reference", e.Pos, e.Name)
	}
}

// checkSite enforces the invariants of a call site with nargs operands.
// A violation is a defect in IR construction, never a user error.
func checkSite(site *ir.CallSite, nargs int) {
	if site.Argc != nargs {
		log.Panicf("%s: call site %s has %d operands", site.Pos, site, nargs)
	}
	if site.Spread {
		if site.Kind == ir.Operator {
			log.Panicf("%s: spread arguments on operator call site %s", site.Pos, site)
		}
		min := 1
		if site.Kind == ir.InstanceMethod {
			min = 2 // receiver and array
		}
		if nargs < min {
			log.Panicf("%s: spread call site %s has no arguments", site.Pos, site)
		}
	}
}

func (fcomp *fcomp) call(site *ir.CallSite) {
	fcomp.setPos(site.Pos)
	fcomp.emit1(CALL, uint32(site.Index))
}

func (fcomp *fcomp) exprs(exprs []ir.Expression) {
	for _, e := range exprs {
		fcomp.expr(e)
	}
}

func (fcomp *fcomp) expr(e ir.Expression) {
	switch e := e.(type) {
	case *ir.ConstantLoad:
		fcomp.setPos(e.Pos)
		switch v := e.Value.(type) {
		case nil:
			fcomp.emit(NONE)
		case bool:
			if v {
				fcomp.emit(TRUE)
			} else {
				fcomp.emit(FALSE)
			}
		case string, int32, int64, float64:
			fcomp.emit1(CONSTANT, fcomp.pcomp.constantIndex(v))
		default:
			log.Panicf("%s: unexpected constant %T", e.Pos, v)
		}

	case *ir.ReferenceLookup:
		fcomp.lookup(e)

	case *ir.FunctionInvocation:
		checkSite(e.Site, len(e.Args))
		fcomp.exprs(e.Args)
		fcomp.call(e.Site)

	case *ir.MethodInvocation:
		checkSite(e.Site, 1+len(e.Args))
		fcomp.expr(e.Receiver)
		fcomp.exprs(e.Args)
		fcomp.call(e.Site)

	case *ir.ClosureInvocation:
		checkSite(e.Site, 1+len(e.Args))
		fcomp.lookup(e.Closure)
		fcomp.exprs(e.Args)
		fcomp.call(e.Site)

	case *ir.BinaryOperation:
		checkSite(e.Site, 2)
		fcomp.expr(e.X)
		fcomp.expr(e.Y)
		fcomp.call(e.Site)

	case *ir.UnaryOperation:
		checkSite(e.Site, 1)
		fcomp.expr(e.X)
		fcomp.call(e.Site)

	case *ir.LogicalOperation:
		// x and y  =>  x DUP CJMP<y> ... y: POP y
		// x or y   =>  x DUP CJMP<done> ... y: POP y
		y := fcomp.newBlock()
		done := fcomp.newBlock()

		fcomp.expr(e.X)
		fcomp.setPos(e.Pos)
		fcomp.emit(DUP)
		if e.Op == syntax.AND {
			fcomp.condjump(y, done)
		} else {
			fcomp.condjump(done, y)
		}

		fcomp.setBlock(y)
		fcomp.emit(POP)
		fcomp.expr(e.Y)
		fcomp.jump(done)

		fcomp.setBlock(done)

	case *ir.ArrayLiteral:
		fcomp.exprs(e.Elems)
		fcomp.setPos(e.Pos)
		fcomp.emit1(MAKEARRAY, uint32(len(e.Elems)))

	case *ir.ClosureCreation:
		// Push the current values of the closure's free variables.
		for _, ref := range e.Function.FreeVars {
			if fcomp.irfn.Declares(ref) {
				fcomp.emit1(LOCAL, uint32(ref.Index))
			} else if i, ok := fcomp.irfn.FreeIndex(ref); ok {
				fcomp.emit1(FREE, uint32(i))
			} else {
				log.Panicf("%s: closure captures %s, which is not visible", e.Pos, ref.Name)
			}
		}
		fcomp.setPos(e.Pos)
		fcomp.emit1(MAKEFUNC, fcomp.pcomp.closureIndex(e.Function))

	default:
		log.Panicf("%s: unexpected expr %T", e.Start(), e)
	}
}

// Disassembly returns a listing of the function's code,
// one instruction per line.
func (fn *Funcode) Disassembly() string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "function %s @ %s:\n", fn.Name, fn.Pos)
	for pc := uint32(0); pc < uint32(len(fn.Code)); {
		op, arg, next := DecodeOp(fn.Code, pc)
		fn.writeOp(&buf, pc, op, arg)
		pc = next
	}
	return buf.String()
}

// PrintOp prints one instruction of fn to stderr.
func PrintOp(fn *Funcode, pc uint32, op Opcode, arg uint32) {
	var buf bytes.Buffer
	fn.writeOp(&buf, pc, op, arg)
	os.Stderr.Write(buf.Bytes())
}

func (fn *Funcode) writeOp(buf *bytes.Buffer, pc uint32, op Opcode, arg uint32) {
	fmt.Fprintf(buf, "\t%d\t%s", pc, op)
	if op >= OpcodeArgMin {
		fmt.Fprintf(buf, "\t%s", fn.operand(op, arg))
	}
	buf.WriteByte('\n')
}

// operand describes the argument of an instruction.
func (fn *Funcode) operand(op Opcode, arg uint32) string {
	switch op {
	case CONSTANT:
		switch x := fn.Prog.Constants[arg].(type) {
		case string:
			return fmt.Sprintf("%q", x)
		case int64:
			return fmt.Sprintf("%d_L", x)
		default:
			return fmt.Sprint(x)
		}
	case LOCAL, SETLOCAL:
		return fn.Locals[arg].Name
	case FREE:
		return fn.FreeVars[arg].Name
	case GLOBAL, SETGLOBAL:
		return fn.Prog.Globals[arg].Name
	case MAKEFUNC:
		return fn.Prog.Closures[arg].Name
	case CALL:
		return fn.Prog.CallSites[arg].String()
	}
	return fmt.Sprint(arg)
}
