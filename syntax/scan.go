// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

// A lexical scanner for Golo.

import (
	"fmt"
	"io/ioutil"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// A Token represents a Golo lexical token.
type Token int8

const (
	ILLEGAL Token = iota
	EOF

	// Tokens with values
	IDENT  // x
	INT    // 123
	LONG   // 123_L
	FLOAT  // 1.23
	STRING // "foo"

	// Punctuation
	PLUS     // +
	MINUS    // -
	STAR     // *
	SLASH    // /
	PERCENT  // %
	DOT      // .
	COMMA    // ,
	EQ       // =
	COLON    // :
	LPAREN   // (
	RPAREN   // )
	LBRACK   // [
	RBRACK   // ]
	LBRACE   // {
	RBRACE   // }
	LT       // <
	GT       // >
	GE       // >=
	LE       // <=
	EQL      // ==
	NEQ      // !=
	PIPE     // |
	ARROW    // ->
	ELLIPSIS // ...

	// Keywords
	AND
	ARRAY
	ELSE
	FALSE
	FOR
	FUNCTION
	IF
	IMPORT
	IS
	ISNT
	LET
	LOCAL
	MODULE
	NOT
	NULL
	OFTYPE
	OR
	RETURN
	TRUE
	VAR
	WHILE
)

func (tok Token) String() string { return tokenNames[tok] }

// GoString is like String but quotes punctuation tokens.
// Use Sprintf("%#v", tok) when constructing error messages.
func (tok Token) GoString() string {
	if tok >= PLUS && tok <= ELLIPSIS {
		return "'" + tokenNames[tok] + "'"
	}
	return tokenNames[tok]
}

var tokenNames = [...]string{
	ILLEGAL:  "illegal token",
	EOF:      "end of file",
	IDENT:    "identifier",
	INT:      "int literal",
	LONG:     "long literal",
	FLOAT:    "float literal",
	STRING:   "string literal",
	PLUS:     "+",
	MINUS:    "-",
	STAR:     "*",
	SLASH:    "/",
	PERCENT:  "%",
	DOT:      ".",
	COMMA:    ",",
	EQ:       "=",
	COLON:    ":",
	LPAREN:   "(",
	RPAREN:   ")",
	LBRACK:   "[",
	RBRACK:   "]",
	LBRACE:   "{",
	RBRACE:   "}",
	LT:       "<",
	GT:       ">",
	GE:       ">=",
	LE:       "<=",
	EQL:      "==",
	NEQ:      "!=",
	PIPE:     "|",
	ARROW:    "->",
	ELLIPSIS: "...",
	AND:      "and",
	ARRAY:    "array",
	ELSE:     "else",
	FALSE:    "false",
	FOR:      "for",
	FUNCTION: "function",
	IF:       "if",
	IMPORT:   "import",
	IS:       "is",
	ISNT:     "isnt",
	LET:      "let",
	LOCAL:    "local",
	MODULE:   "module",
	NOT:      "not",
	NULL:     "null",
	OFTYPE:   "oftype",
	OR:       "or",
	RETURN:   "return",
	TRUE:     "true",
	VAR:      "var",
	WHILE:    "while",
}

var keywordToken = map[string]Token{
	"and":      AND,
	"array":    ARRAY,
	"else":     ELSE,
	"false":    FALSE,
	"for":      FOR,
	"function": FUNCTION,
	"if":       IF,
	"import":   IMPORT,
	"is":       IS,
	"isnt":     ISNT,
	"let":      LET,
	"local":    LOCAL,
	"module":   MODULE,
	"not":      NOT,
	"null":     NULL,
	"oftype":   OFTYPE,
	"or":       OR,
	"return":   RETURN,
	"true":     TRUE,
	"var":      VAR,
	"while":    WHILE,
}

// A Position describes the location of a rune of input.
type Position struct {
	file *string // filename (indirect for compactness)
	Line int32   // 1-based line number; 0 if line unknown
	Col  int32   // 1-based column (rune) number; 0 if column unknown
}

// IsValid reports whether the position is valid.
func (p Position) IsValid() bool { return p.file != nil }

// Filename returns the name of the file containing this position.
func (p Position) Filename() string {
	if p.file != nil {
		return *p.file
	}
	return "<invalid>"
}

// MakePosition returns position with the specified components.
func MakePosition(file *string, line, col int32) Position { return Position{file, line, col} }

// add returns the position at the end of s, assuming it starts at p.
func (p Position) add(s string) Position {
	if n := strings.Count(s, "\n"); n > 0 {
		p.Line += int32(n)
		s = s[strings.LastIndex(s, "\n")+1:]
		p.Col = 1
	}
	p.Col += int32(utf8.RuneCountInString(s))
	return p
}

func (p Position) String() string {
	file := p.Filename()
	if p.Line > 0 {
		if p.Col > 0 {
			return fmt.Sprintf("%s:%d:%d", file, p.Line, p.Col)
		}
		return fmt.Sprintf("%s:%d", file, p.Line)
	}
	return file
}

func (p Position) isBefore(q Position) bool {
	if p.Line != q.Line {
		return p.Line < q.Line
	}
	return p.Col < q.Col
}

// An Error describes the nature and position of a scanner or parser error.
type Error struct {
	Pos Position
	Msg string
	EOF bool // the input ended before the parser expected it to
}

func (e Error) Error() string { return e.Pos.String() + ": " + e.Msg }

// A tokenValue holds the value of the current token.
type tokenValue struct {
	raw    string   // raw text of token
	int    int64    // decoded int or long
	float  float64  // decoded float
	string string   // decoded string
	pos    Position // start position of token
}

// A scanner represents a single input file being parsed.
type scanner struct {
	rest   []byte   // rest of input
	token  []byte   // token being scanned
	pos    Position // current input position
	depth  int      // nesting of [ ( {
	peeked *peek    // one token of lookahead, for the parser
}

type peek struct {
	tok Token
	val tokenValue
}

func newScanner(filename string, src interface{}) (*scanner, error) {
	data, err := readSource(filename, src)
	if err != nil {
		return nil, err
	}
	return &scanner{
		rest: data,
		pos:  MakePosition(&filename, 1, 1),
	}, nil
}

func readSource(filename string, src interface{}) ([]byte, error) {
	switch src := src.(type) {
	case string:
		return []byte(src), nil
	case []byte:
		return src, nil
	case nil:
		return ioutil.ReadFile(filename)
	default:
		return nil, fmt.Errorf("invalid source: %T", src)
	}
}

// error is called to report an error.
// The position is that of the current token.
func (sc *scanner) error(pos Position, s string) {
	panic(Error{Pos: pos, Msg: s})
}

func (sc *scanner) errorf(pos Position, format string, args ...interface{}) {
	sc.error(pos, fmt.Sprintf(format, args...))
}

func (sc *scanner) recover(err *error) {
	switch e := recover().(type) {
	case nil:
		// no panic
	case Error:
		*err = e
	default:
		panic(e)
	}
}

// peekRune returns the next rune in the input without consuming it.
func (sc *scanner) peekRune() rune {
	if len(sc.rest) == 0 {
		return 0
	}
	if b := sc.rest[0]; b < utf8.RuneSelf {
		if b == '\r' {
			return '\n'
		}
		return rune(b)
	}
	r, _ := utf8.DecodeRune(sc.rest)
	return r
}

// readRune consumes and returns the next rune in the input.
// Newlines in Unix, DOS, or Mac format are treated as one rune, '\n'.
func (sc *scanner) readRune() rune {
	if len(sc.rest) == 0 {
		sc.error(sc.pos, "internal scanner error: readRune at EOF")
	}
	var r rune
	if b := sc.rest[0]; b < utf8.RuneSelf {
		r = rune(b)
		sc.rest = sc.rest[1:]
		if r == '\r' {
			if len(sc.rest) > 0 && sc.rest[0] == '\n' {
				sc.rest = sc.rest[1:]
			}
			r = '\n'
		}
	} else {
		var size int
		r, size = utf8.DecodeRune(sc.rest)
		sc.rest = sc.rest[size:]
	}
	if r == '\n' {
		sc.pos.Line++
		sc.pos.Col = 1
	} else {
		sc.pos.Col++
	}
	return r
}

// startToken marks the beginning of the next input token.
// It must be followed by a call to endToken once the token has
// been consumed using readRune.
func (sc *scanner) startToken(val *tokenValue) {
	sc.token = sc.rest
	val.raw = ""
	val.pos = sc.pos
}

func (sc *scanner) endToken(val *tokenValue) {
	if val.raw == "" {
		val.raw = string(sc.token[:len(sc.token)-len(sc.rest)])
	}
}

// peekToken returns the next token without consuming it.
func (sc *scanner) peekToken() (Token, tokenValue) {
	if sc.peeked == nil {
		p := new(peek)
		p.tok = sc.scan(&p.val)
		sc.peeked = p
	}
	return sc.peeked.tok, sc.peeked.val
}

// nextToken is called by the parser to obtain the next input token.
// It returns the token value and sets val to the data associated with
// the token.
func (sc *scanner) nextToken(val *tokenValue) Token {
	if p := sc.peeked; p != nil {
		sc.peeked = nil
		*val = p.val
		return p.tok
	}
	return sc.scan(val)
}

func (sc *scanner) scan(val *tokenValue) Token {
	// Skip spaces and comments.
	for {
		c := sc.peekRune()
		if c == ' ' || c == '\t' || c == '\n' {
			sc.readRune()
			continue
		}
		if c == '#' {
			for c := sc.peekRune(); c != '\n' && c != 0; c = sc.peekRune() {
				sc.readRune()
			}
			continue
		}
		break
	}

	sc.startToken(val)
	defer sc.endToken(val)

	c := sc.peekRune()
	if c == 0 {
		if len(sc.rest) != 0 {
			sc.error(sc.pos, "unexpected NUL byte")
		}
		return EOF
	}

	if c == '"' {
		return sc.scanString(val)
	}

	if isdigit(c) {
		return sc.scanNumber(val)
	}

	if isIdentStart(c) {
		for isIdent(sc.peekRune()) {
			sc.readRune()
		}
		sc.endToken(val)
		if k, ok := keywordToken[val.raw]; ok {
			return k
		}
		return IDENT
	}

	pos := sc.pos
	sc.readRune()
	switch c {
	case '(':
		sc.depth++
		return LPAREN
	case '[':
		sc.depth++
		return LBRACK
	case '{':
		sc.depth++
		return LBRACE
	case ')', ']', '}':
		if sc.depth == 0 {
			sc.errorf(pos, "unexpected %q", c)
		}
		sc.depth--
		switch c {
		case ')':
			return RPAREN
		case ']':
			return RBRACK
		}
		return RBRACE
	case ',':
		return COMMA
	case ':':
		return COLON
	case '+':
		return PLUS
	case '*':
		return STAR
	case '/':
		return SLASH
	case '%':
		return PERCENT
	case '|':
		return PIPE
	case '-':
		if sc.peekRune() == '>' {
			sc.readRune()
			return ARROW
		}
		return MINUS
	case '.':
		if sc.peekRune() == '.' {
			sc.readRune()
			if sc.peekRune() != '.' {
				sc.error(pos, "invalid token '..'")
			}
			sc.readRune()
			return ELLIPSIS
		}
		return DOT
	case '=':
		if sc.peekRune() == '=' {
			sc.readRune()
			return EQL
		}
		return EQ
	case '!':
		if sc.peekRune() == '=' {
			sc.readRune()
			return NEQ
		}
		sc.error(pos, "unexpected '!' (use 'not')")
	case '<':
		if sc.peekRune() == '=' {
			sc.readRune()
			return LE
		}
		return LT
	case '>':
		if sc.peekRune() == '=' {
			sc.readRune()
			return GE
		}
		return GT
	}
	sc.errorf(pos, "unexpected input character %q", c)
	panic("unreachable")
}

func (sc *scanner) scanString(val *tokenValue) Token {
	start := sc.pos
	sc.readRune() // opening quote
	for {
		c := sc.peekRune()
		if c == 0 || c == '\n' {
			sc.error(start, "unexpected newline in string")
		}
		sc.readRune()
		if c == '"' {
			break
		}
		if c == '\\' {
			if sc.peekRune() == 0 {
				sc.error(start, "unexpected EOF in string")
			}
			sc.readRune()
		}
	}
	sc.endToken(val)
	s, err := strconv.Unquote(val.raw)
	if err != nil {
		sc.errorf(start, "invalid string literal %s: %v", val.raw, err)
	}
	val.string = s
	return STRING
}

func (sc *scanner) scanNumber(val *tokenValue) Token {
	start := sc.pos
	for isdigit(sc.peekRune()) || sc.peekRune() == '_' && sc.digitFollows() {
		sc.readRune()
	}
	tok := INT
	if sc.peekRune() == '.' && len(sc.rest) > 1 && isdigit(rune(sc.rest[1])) {
		tok = FLOAT
		sc.readRune()
		for isdigit(sc.peekRune()) {
			sc.readRune()
		}
		if c := sc.peekRune(); c == 'e' || c == 'E' {
			sc.readRune()
			if c := sc.peekRune(); c == '+' || c == '-' {
				sc.readRune()
			}
			if !isdigit(sc.peekRune()) {
				sc.error(start, "invalid float literal")
			}
			for isdigit(sc.peekRune()) {
				sc.readRune()
			}
		}
	} else if sc.peekRune() == '_' && len(sc.rest) > 1 && sc.rest[1] == 'L' {
		tok = LONG
		sc.readRune()
		sc.readRune()
	}
	sc.endToken(val)

	digits := strings.ReplaceAll(strings.TrimSuffix(val.raw, "_L"), "_", "")
	switch tok {
	case FLOAT:
		f, err := strconv.ParseFloat(digits, 64)
		if err != nil {
			sc.errorf(start, "invalid float literal %s", val.raw)
		}
		val.float = f
	case INT:
		i, err := strconv.ParseInt(digits, 10, 32)
		if err != nil {
			sc.errorf(start, "int literal %s out of range (use the _L suffix for longs)", val.raw)
		}
		val.int = i
	case LONG:
		i, err := strconv.ParseInt(digits, 10, 64)
		if err != nil {
			sc.errorf(start, "long literal %s out of range", val.raw)
		}
		val.int = i
	}
	return tok
}

// digitFollows reports whether the byte after the current '_' is a digit.
func (sc *scanner) digitFollows() bool {
	return len(sc.rest) > 1 && sc.rest[1] >= '0' && sc.rest[1] <= '9'
}

func isdigit(c rune) bool { return '0' <= c && c <= '9' }

func isIdentStart(c rune) bool {
	return 'a' <= c && c <= 'z' ||
		'A' <= c && c <= 'Z' ||
		c == '_' || c == '$' ||
		unicode.IsLetter(c)
}

func isIdent(c rune) bool {
	return isdigit(c) || isIdentStart(c)
}
