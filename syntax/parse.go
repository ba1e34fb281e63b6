// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

// This file defines a recursive-descent parser for Golo.
// The parser reports the first syntax error it encounters.

import "fmt"

// Parse parses the input data and returns the corresponding parse tree.
//
// If src != nil, Parse parses the source from src and the filename
// is only used when recording position information.
// The type of the argument for the src parameter must be string or []byte.
// If src == nil, Parse parses the file specified by filename.
func Parse(filename string, src interface{}) (f *File, err error) {
	in, err := newScanner(filename, src)
	if err != nil {
		return nil, err
	}
	p := parser{in: in}
	defer p.in.recover(&err)

	p.nextToken() // read first lookahead token
	f = p.parseFile()
	if f != nil {
		f.Path = filename
	}
	return f, nil
}

// ParseExpr parses a Golo expression.
func ParseExpr(filename string, src interface{}) (expr Expr, err error) {
	in, err := newScanner(filename, src)
	if err != nil {
		return nil, err
	}
	p := parser{in: in}
	defer p.in.recover(&err)

	p.nextToken()
	expr = p.parseExpr()
	if p.tok != EOF {
		p.in.errorf(p.in.pos, "got %#v after expression, want EOF", p.tok)
	}
	return expr, nil
}

// ParseStmts parses a sequence of statements and function
// declarations, as typed at the REPL. Top-level functions are
// returned separately from statements.
func ParseStmts(filename string, src interface{}) (decls []*FunctionDecl, stmts []Stmt, err error) {
	in, err := newScanner(filename, src)
	if err != nil {
		return nil, nil, err
	}
	p := parser{in: in}
	defer p.in.recover(&err)

	p.nextToken()
	for p.tok != EOF {
		if p.tok == FUNCTION || p.tok == LOCAL {
			decls = append(decls, p.parseFunctionDecl())
			continue
		}
		stmts = append(stmts, p.parseStmt())
	}
	return decls, stmts, nil
}

type parser struct {
	in     *scanner
	tok    Token
	tokval tokenValue
}

// nextToken advances the scanner and returns the position of the
// previous token.
func (p *parser) nextToken() Position {
	oldpos := p.tokval.pos
	p.tok = p.in.nextToken(&p.tokval)
	return oldpos
}

// peek returns the token after the current one.
func (p *parser) peek() Token {
	tok, _ := p.in.peekToken()
	return tok
}

// consume consumes the current token, which must be t,
// and returns its position.
// errorf reports an error at the current token.
func (p *parser) errorf(format string, args ...interface{}) {
	panic(Error{Pos: p.tokval.pos, Msg: fmt.Sprintf(format, args...), EOF: p.tok == EOF})
}

func (p *parser) consume(t Token) Position {
	if p.tok != t {
		p.errorf("got %#v, want %#v", p.tok, t)
	}
	return p.nextToken()
}

// file = 'module' dotted_name import* decl*
func (p *parser) parseFile() *File {
	f := new(File)
	f.Module = p.consume(MODULE)
	f.Name = p.parseDottedName()
	for p.tok == IMPORT {
		pos := p.nextToken()
		f.Imports = append(f.Imports, &ImportDecl{Import: pos, Name: p.parseDottedName()})
	}
	for p.tok != EOF {
		switch p.tok {
		case FUNCTION, LOCAL:
			f.Decls = append(f.Decls, p.parseFunctionDecl())
		case LET, VAR:
			f.Decls = append(f.Decls, p.parseDeclStmt())
		case IMPORT:
			p.errorf("imports must precede declarations")
		default:
			p.errorf("got %#v, want function or state declaration", p.tok)
		}
	}
	return f
}

// dotted_name = IDENT ('.' IDENT)*
func (p *parser) parseDottedName() *Ident {
	id := p.parseIdent()
	for p.tok == DOT {
		p.nextToken()
		next := p.parseIdent()
		id.Name += "." + next.Name
	}
	return id
}

func (p *parser) parseIdent() *Ident {
	if p.tok != IDENT {
		p.errorf("got %#v, want identifier", p.tok)
	}
	id := &Ident{NamePos: p.tokval.pos, Name: p.tokval.raw}
	p.nextToken()
	return id
}

// function_decl = ['local'] 'function' IDENT '=' [params] function_body
func (p *parser) parseFunctionDecl() *FunctionDecl {
	decl := new(FunctionDecl)
	if p.tok == LOCAL {
		decl.Local = p.nextToken()
	}
	decl.Func = p.consume(FUNCTION)
	decl.Name = p.parseIdent()
	p.consume(EQ)
	if p.tok == LBRACE || p.tok == ARROW {
		// parameterless: function f = { ... } or function f = -> x
		decl.Body, decl.Rbrace = p.parseFunctionBody()
		return decl
	}
	decl.Params, decl.Varargs = p.parseParams()
	decl.Body, decl.Rbrace = p.parseFunctionBody()
	return decl
}

// params = '|' [IDENT (',' IDENT)* ['...']] '|'
func (p *parser) parseParams() (params []*Ident, varargs bool) {
	p.consume(PIPE)
	for p.tok != PIPE {
		if varargs {
			p.errorf("varargs parameter must be last")
		}
		params = append(params, p.parseIdent())
		if p.tok == ELLIPSIS {
			p.nextToken()
			varargs = true
		}
		if p.tok != COMMA {
			break
		}
		p.nextToken()
	}
	p.consume(PIPE)
	return params, varargs
}

// function_body = '->' expr | block
func (p *parser) parseFunctionBody() (body []Stmt, end Position) {
	if p.tok == ARROW {
		arrow := p.nextToken()
		x := p.parseExpr()
		return []Stmt{&ReturnStmt{Return: arrow, Result: x}}, End(x)
	}
	return p.parseBlock()
}

// block = '{' stmt* '}'
func (p *parser) parseBlock() (body []Stmt, rbrace Position) {
	p.consume(LBRACE)
	for p.tok != RBRACE {
		if p.tok == EOF {
			p.errorf("unexpected end of file, want '}'")
		}
		body = append(body, p.parseStmt())
	}
	rbrace = p.nextToken()
	return body, rbrace
}

func (p *parser) parseStmt() Stmt {
	switch p.tok {
	case LET, VAR:
		return p.parseDeclStmt()
	case RETURN:
		pos := p.nextToken()
		var result Expr
		if p.tok != RBRACE && p.tok != EOF {
			result = p.parseExpr()
		}
		return &ReturnStmt{Return: pos, Result: result}
	case IF:
		return p.parseIfStmt()
	case WHILE:
		pos := p.nextToken()
		cond := p.parseExpr()
		body, rbrace := p.parseBlock()
		return &WhileStmt{While: pos, Cond: cond, Body: body, Rbrace: rbrace}
	case FOR:
		return p.parseForStmt()
	}
	return p.parseSimpleStmt()
}

// simple_stmt = IDENT '=' expr | expr
func (p *parser) parseSimpleStmt() Stmt {
	if p.tok == IDENT && p.peek() == EQ {
		name := p.parseIdent()
		eq := p.nextToken()
		return &AssignStmt{Name: name, EqPos: eq, Value: p.parseExpr()}
	}
	return &ExprStmt{X: p.parseExpr()}
}

// decl_stmt = ('let' | 'var') IDENT '=' expr
func (p *parser) parseDeclStmt() *DeclStmt {
	tok := p.tok
	pos := p.nextToken()
	name := p.parseIdent()
	p.consume(EQ)
	return &DeclStmt{Tok: tok, TokPos: pos, Name: name, Value: p.parseExpr()}
}

// if_stmt = 'if' expr block ['else' (if_stmt | block)]
func (p *parser) parseIfStmt() Stmt {
	ifpos := p.consume(IF)
	cond := p.parseExpr()
	body, rbrace := p.parseBlock()
	stmt := &IfStmt{If: ifpos, Cond: cond, True: body, Rbrace: rbrace}
	if p.tok == ELSE {
		stmt.ElsePos = p.nextToken()
		if p.tok == IF {
			elif := p.parseIfStmt()
			stmt.False = []Stmt{elif}
			stmt.Rbrace = End(elif)
		} else {
			stmt.False, stmt.Rbrace = p.parseBlock()
		}
	}
	return stmt
}

// for_stmt = 'for' '(' decl_stmt ',' expr ',' simple_stmt ')' block
func (p *parser) parseForStmt() Stmt {
	pos := p.consume(FOR)
	p.consume(LPAREN)
	if p.tok != VAR && p.tok != LET {
		p.errorf("got %#v, want loop variable declaration", p.tok)
	}
	init := p.parseDeclStmt()
	p.consume(COMMA)
	cond := p.parseExpr()
	p.consume(COMMA)
	post := p.parseSimpleStmt()
	p.consume(RPAREN)
	body, rbrace := p.parseBlock()
	return &ForStmt{For: pos, Init: init, Cond: cond, Post: post, Body: body, Rbrace: rbrace}
}

// Binary operator precedence, lowest first.
// Operators of equal precedence associate to the left.
var precedence [maxToken]int8

const maxToken = WHILE + 1

func init() {
	for i := range precedence {
		precedence[i] = -1
	}
	levels := [...][]Token{
		{OR},
		{AND},
		{EQL, NEQ, IS, ISNT, OFTYPE},
		{LT, GT, LE, GE},
		{PLUS, MINUS},
		{STAR, SLASH, PERCENT},
	}
	for prec, tokens := range levels {
		for _, tok := range tokens {
			precedence[tok] = int8(prec)
		}
	}
}

func (p *parser) parseExpr() Expr {
	return p.parseBinopExpr(0)
}

func (p *parser) parseBinopExpr(prec int) Expr {
	x := p.parseUnaryExpr()
	for {
		opprec := int(precedence[p.tok])
		if opprec < prec {
			return x
		}
		op := p.tok
		pos := p.nextToken()
		var y Expr
		if op == OFTYPE {
			name := p.parseDottedName()
			y = &TypeName{NamePos: name.NamePos, Name: name.Name}
		} else {
			y = p.parseBinopExpr(opprec + 1)
		}
		x = &BinaryExpr{X: x, OpPos: pos, Op: op, Y: y}
	}
}

// unary_expr = 'not' unary_expr | '-' unary_expr | primary_with_suffix
func (p *parser) parseUnaryExpr() Expr {
	if p.tok == NOT || p.tok == MINUS {
		op := p.tok
		pos := p.nextToken()
		x := p.parseUnaryExpr()
		// Fold negative numeric literals.
		if lit, ok := x.(*Literal); ok && op == MINUS {
			switch v := lit.Value.(type) {
			case int32:
				return &Literal{Token: lit.Token, TokenPos: pos, Raw: "-" + lit.Raw, Value: -v}
			case int64:
				return &Literal{Token: lit.Token, TokenPos: pos, Raw: "-" + lit.Raw, Value: -v}
			case float64:
				return &Literal{Token: lit.Token, TokenPos: pos, Raw: "-" + lit.Raw, Value: -v}
			}
		}
		return &UnaryExpr{OpPos: pos, Op: op, X: x}
	}
	return p.parsePrimaryWithSuffix()
}

// primary_with_suffix = primary (':' IDENT args | '[' expr ']')*
func (p *parser) parsePrimaryWithSuffix() Expr {
	x := p.parsePrimary()
	for {
		switch p.tok {
		case COLON:
			colon := p.nextToken()
			name := p.parseIdent()
			lparen, args, rparen := p.parseArgs()
			x = &MethodCallExpr{Recv: x, Colon: colon, Name: name, Lparen: lparen, Args: args, Rparen: rparen}
		case LBRACK:
			lbrack := p.nextToken()
			index := p.parseExpr()
			rbrack := p.consume(RBRACK)
			x = &IndexExpr{X: x, Lbrack: lbrack, Index: index, Rbrack: rbrack}
		default:
			return x
		}
	}
}

// primary = IDENT [args] | dotted_name args | literal | '(' expr ')' | 'array' '[' exprs ']' | closure
func (p *parser) parsePrimary() Expr {
	switch p.tok {
	case IDENT:
		id := p.parseDottedName()
		if p.tok == LPAREN {
			lparen, args, rparen := p.parseArgs()
			return &CallExpr{Fn: id, Lparen: lparen, Args: args, Rparen: rparen}
		}
		if isDotted(id.Name) {
			p.in.errorf(id.NamePos, "qualified name %s must be called", id.Name)
		}
		return id

	case INT, LONG, FLOAT, STRING, TRUE, FALSE, NULL:
		return p.parseLiteral()

	case LPAREN:
		lparen := p.nextToken()
		x := p.parseExpr()
		rparen := p.consume(RPAREN)
		return &ParenExpr{Lparen: lparen, X: x, Rparen: rparen}

	case ARRAY:
		pos := p.nextToken()
		p.consume(LBRACK)
		var list []Expr
		for p.tok != RBRACK {
			list = append(list, p.parseExpr())
			if p.tok != COMMA {
				break
			}
			p.nextToken()
		}
		rbrack := p.consume(RBRACK)
		return &ArrayExpr{Array: pos, List: list, Rbrack: rbrack}

	case PIPE:
		pos := p.tokval.pos
		params, varargs := p.parseParams()
		body, end := p.parseFunctionBody()
		return &FuncExpr{Pipe: pos, Params: params, Varargs: varargs, Body: body, End: end}
	}
	p.errorf("got %#v, want primary expression", p.tok)
	panic("unreachable")
}

func (p *parser) parseLiteral() *Literal {
	lit := &Literal{Token: p.tok, TokenPos: p.tokval.pos, Raw: p.tokval.raw}
	switch p.tok {
	case INT:
		lit.Value = int32(p.tokval.int)
	case LONG:
		lit.Value = p.tokval.int
	case FLOAT:
		lit.Value = p.tokval.float
	case STRING:
		lit.Value = p.tokval.string
	case TRUE:
		lit.Value = true
	case FALSE:
		lit.Value = false
	case NULL:
		lit.Value = nil
	default:
		panic(fmt.Sprintf("parseLiteral: %s", p.tok))
	}
	p.nextToken()
	return lit
}

// args = '(' [arg (',' arg)*] ')'
// arg = expr | expr '...'  (the latter only in last position)
func (p *parser) parseArgs() (lparen Position, args []Expr, rparen Position) {
	lparen = p.consume(LPAREN)
	for p.tok != RPAREN {
		x := p.parseExpr()
		if p.tok == ELLIPSIS {
			x = &SpreadExpr{X: x, Ellipsis: p.nextToken()}
			args = append(args, x)
			if p.tok != RPAREN {
				p.errorf("spread argument must be last")
			}
			break
		}
		args = append(args, x)
		if p.tok != COMMA {
			break
		}
		p.nextToken()
	}
	rparen = p.consume(RPAREN)
	return lparen, args, rparen
}

func isDotted(name string) bool {
	for i := 0; i < len(name); i++ {
		if name[i] == '.' {
			return true
		}
	}
	return false
}
