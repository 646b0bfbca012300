// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package hdl implements parsing of pin specifications and connection strings.
package hdl

import (
	"strconv"
	"unicode"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// Type is a token type.
type Type int

// Tokens
const (
	EOF Type = iota
	Raw
	Ident
	BracketOpen
	BracketClose
	Comma
	Int
	Equal
)

var typeNames = [...]string{
	EOF:          "end of input",
	Raw:          "character",
	Ident:        "identifier",
	BracketOpen:  "'['",
	BracketClose: "']'",
	Comma:        "','",
	Int:          "integer",
	Equal:        "'='",
}

func (t Type) String() string { return typeNames[t] }

// Item is a lexed token.
type Item struct {
	Type  Type
	Pos   int
	Value string
}

func (i Item) String() string {
	switch i.Type {
	case Ident, Int, Raw:
		return i.Type.String() + " " + strconv.Quote(i.Value)
	}
	return i.Type.String()
}

// lexer is a simplistic lexer for pin specs and connection strings.
type lexer struct {
	input string
	pos   int
}

func isIdent(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '.'
}

// Lex returns the next token in the input stream.
func (l *lexer) Lex() Item {
	for l.pos < len(l.input) {
		r, sz := utf8.DecodeRuneInString(l.input[l.pos:])
		if !unicode.IsSpace(r) {
			break
		}
		l.pos += sz
	}
	if l.pos >= len(l.input) {
		return Item{Type: EOF, Pos: l.pos}
	}
	start := l.pos
	r, sz := utf8.DecodeRuneInString(l.input[l.pos:])
	l.pos += sz
	switch {
	case r == '[':
		return Item{BracketOpen, start, "["}
	case r == ']':
		return Item{BracketClose, start, "]"}
	case r == ',':
		return Item{Comma, start, ","}
	case r == '=':
		return Item{Equal, start, "="}
	case '0' <= r && r <= '9':
		for l.pos < len(l.input) && '0' <= l.input[l.pos] && l.input[l.pos] <= '9' {
			l.pos++
		}
		return Item{Int, start, l.input[start:l.pos]}
	case unicode.IsLetter(r) || r == '_':
		for l.pos < len(l.input) {
			r, sz := utf8.DecodeRuneInString(l.input[l.pos:])
			if !isIdent(r) {
				break
			}
			l.pos += sz
		}
		return Item{Ident, start, l.input[start:l.pos]}
	}
	return Item{Raw, start, string(r)}
}

func parseError(in string, pos int, msg string) error {
	return errors.Errorf("in %q at pos %d: %s", in, pos+1, msg)
}
