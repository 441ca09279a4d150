// Package lang implements a lexer and recursive-descent parser for the
// GraphQL query language (executable documents: operations and fragments).
// It does not parse the type-system definition language; schemas are built
// through the schemabuilder package instead.
package lang

import (
	"fmt"
	"strings"

	"graphloom.dev/graphql/ast"
)

type lexer struct {
	input string
	pos   ast.Pos
}

func lex(input string) []token {
	l := &lexer{input: input}
	var toks []token
	for {
		tok := l.next()
		if tok.source == "" {
			break
		}
		toks = append(toks, tok)
	}
	return toks
}

func (l *lexer) next() token {
	l.skipIgnored()
	start := l.pos
	if len(l.input) == 0 {
		return token{start: start}
	}
	if kind, width := matchPunctuator(l.input); width > 0 {
		return token{kind: kind, source: l.consume(width), start: start}
	}
	switch c := l.input[0]; {
	case isNameStart(c):
		n := 1
		for n < len(l.input) && isNameChar(l.input[n]) {
			n++
		}
		return token{kind: tokName, source: l.consume(n), start: start}
	case c == '"':
		if strings.HasPrefix(l.input, `"""`) {
			return l.blockString()
		}
		return l.simpleString()
	case c == '-' || isDigit(c):
		return l.number()
	default:
		return token{kind: tokUnknown, source: l.consume(1), start: start}
	}
}

// matchPunctuator reports the punctuator at the front of s, if any. Longer
// punctuators are checked first so "..." isn't mistaken for nothing.
func matchPunctuator(s string) (kind tokenKind, width int) {
	if strings.HasPrefix(s, "...") {
		return tokEllipsis, 3
	}
	if len(s) == 0 {
		return tokUnknown, 0
	}
	switch s[0] {
	case '!':
		return tokBang, 1
	case '$':
		return tokDollar, 1
	case '(':
		return tokLParen, 1
	case ')':
		return tokRParen, 1
	case ':':
		return tokColon, 1
	case '=':
		return tokEquals, 1
	case '@':
		return tokAt, 1
	case '[':
		return tokLBracket, 1
	case ']':
		return tokRBracket, 1
	case '{':
		return tokLBrace, 1
	case '}':
		return tokRBrace, 1
	case '|':
		return tokPipe, 1
	case '&':
		return tokAmp, 1
	default:
		return tokUnknown, 0
	}
}

func (l *lexer) simpleString() token {
	start := l.pos
	for n := 1; n < len(l.input); n++ {
		switch l.input[n] {
		case '\\':
			n++
		case '\n':
			return token{kind: tokString, source: l.consume(n), start: start}
		case '"':
			return token{kind: tokString, source: l.consume(n + 1), start: start}
		}
	}
	return token{kind: tokString, source: l.consume(len(l.input)), start: start}
}

func (l *lexer) blockString() token {
	const marker = `"""`
	start := l.pos
	for i := len(marker); ; {
		j := strings.Index(l.input[i:], marker)
		if j == -1 {
			return token{kind: tokString, source: l.consume(len(l.input)), start: start}
		}
		if l.input[i+j-1] != '\\' {
			return token{kind: tokString, source: l.consume(i + j + len(marker)), start: start}
		}
		i += j + len(marker)
	}
}

func (l *lexer) number() token {
	start := l.pos
	n := 0
	if l.input[0] == '-' {
		n++
	}
	if n >= len(l.input) || !isDigit(l.input[n]) {
		return token{kind: tokUnknown, source: l.consume(n), start: start}
	}
	n++
	if l.input[n-1] != '0' {
		for n < len(l.input) && isDigit(l.input[n]) {
			n++
		}
	}
	if n >= len(l.input) {
		return token{kind: tokInt, source: l.consume(n), start: start}
	}
	isFloat := false
	if l.input[n] == '.' && n+1 < len(l.input) && isDigit(l.input[n+1]) {
		isFloat = true
		n += 2
		for n < len(l.input) && isDigit(l.input[n]) {
			n++
		}
	}
	if n < len(l.input) && (l.input[n] == 'e' || l.input[n] == 'E') {
		if end := l.scanExponent(n); end != -1 {
			n = end
			isFloat = true
		}
	}
	if isFloat {
		return token{kind: tokFloat, source: l.consume(n), start: start}
	}
	return token{kind: tokInt, source: l.consume(n), start: start}
}

func (l *lexer) scanExponent(start int) int {
	n := 1
	if start+n >= len(l.input) {
		return -1
	}
	if c := l.input[start+n]; c == '+' || c == '-' {
		n++
		if start+n >= len(l.input) {
			return -1
		}
	}
	if !isDigit(l.input[start+n]) {
		return -1
	}
	n++
	for start+n < len(l.input) && isDigit(l.input[start+n]) {
		n++
	}
	return start + n
}

func (l *lexer) skipIgnored() {
	for len(l.input) > 0 {
		switch l.input[0] {
		case ' ', '\t', '\r', '\n', ',':
			l.consume(1)
		case '\xef':
			if !strings.HasPrefix(l.input, bom) {
				return
			}
			l.consume(len(bom))
		case '#':
			i := strings.IndexAny(l.input, "\n\r")
			if i == -1 {
				l.pos += ast.Pos(len(l.input))
				l.input = ""
				return
			}
			l.consume(i + 1)
		default:
			return
		}
	}
}

func (l *lexer) consume(n int) string {
	s := l.input[:n]
	l.input = l.input[n:]
	l.pos += ast.Pos(n)
	return s
}

const bom = "﻿"

type token struct {
	kind   tokenKind
	source string
	start  ast.Pos
}

func (tok token) String() string {
	if tok.kind == tokUnknown {
		return "<unknown>"
	}
	return tok.source
}

func (tok token) end() ast.Pos {
	return tok.start + ast.Pos(len(tok.source))
}

type tokenKind int

const (
	tokUnknown tokenKind = iota
	tokBang              // !
	tokDollar            // $
	tokLParen            // (
	tokRParen            // )
	tokEllipsis          // ...
	tokColon             // :
	tokEquals            // =
	tokAt                // @
	tokLBracket          // [
	tokRBracket          // ]
	tokLBrace            // {
	tokRBrace            // }
	tokPipe              // |
	tokAmp               // &
	tokName
	tokInt
	tokFloat
	tokString
)

var punctuatorStrings = map[tokenKind]string{
	tokBang: "!", tokDollar: "$", tokLParen: "(", tokRParen: ")",
	tokEllipsis: "...", tokColon: ":", tokEquals: "=", tokAt: "@",
	tokLBracket: "[", tokRBracket: "]", tokLBrace: "{", tokRBrace: "}",
	tokPipe: "|", tokAmp: "&",
}

func (k tokenKind) String() string {
	if s, ok := punctuatorStrings[k]; ok {
		return s
	}
	switch k {
	case tokName:
		return "name"
	case tokInt:
		return "int"
	case tokFloat:
		return "float"
	case tokString:
		return "string"
	default:
		return fmt.Sprintf("tokenKind(%d)", int(k))
	}
}

func isNameStart(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || c == '_'
}

func isNameChar(c byte) bool {
	return isNameStart(c) || isDigit(c)
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

// ToPosition converts a byte offset into input to a 1-based line/column.
func ToPosition(input string, pos ast.Pos) ast.Position {
	line, col := 1, 1
	for i := 0; i < int(pos) && i < len(input); i++ {
		switch input[i] {
		case '\n':
			line++
			col = 1
		case '\t':
			const tabWidth = 8
			col++
			for (col-1)%tabWidth != 0 {
				col++
			}
		default:
			col++
		}
	}
	return ast.Position{Line: line, Column: col}
}
