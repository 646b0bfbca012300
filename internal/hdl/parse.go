// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hdl

import (
	"strconv"
)

// Pin is a pin declaration: name or name[width].
type Pin struct {
	Name  string
	Width int
	Pos   int
}

// Conn is a part pin to chip wire assignment: pin=wire.
type Conn struct {
	Pin  string
	Wire string
	Pos  int
}

// ParsePins parses a comma separated list of pin declarations. Pins declared
// without a width are 1 bit wide. For example:
//
//	ParsePins("a[16], b[16], sel") // returns [{a 16} {b 16} {sel 1}]
func ParsePins(input string) ([]Pin, error) {
	var out []Pin
	l := &lexer{input: input}
	i := l.Lex()
	if i.Type == EOF {
		return nil, nil
	}
	for {
		if i.Type != Ident {
			return nil, parseError(input, i.Pos, "expected pin name, got "+i.String())
		}
		p := Pin{Name: i.Value, Width: 1, Pos: i.Pos}
		i = l.Lex()
		if i.Type == BracketOpen {
			i = l.Lex()
			if i.Type != Int {
				return nil, parseError(input, i.Pos, "integer value expected after '['")
			}
			w, err := strconv.Atoi(i.Value)
			if err != nil || w <= 0 {
				return nil, parseError(input, i.Pos, "invalid bus width "+i.Value)
			}
			p.Width = w
			if i = l.Lex(); i.Type != BracketClose {
				return nil, parseError(input, i.Pos, "closing ']' expected after bus width")
			}
			i = l.Lex()
		}
		out = append(out, p)
		switch i.Type {
		case EOF:
			return out, nil
		case Comma:
			i = l.Lex()
		default:
			return nil, parseError(input, i.Pos, "expected comma or end of input, got "+i.String())
		}
	}
}

// ParseConns parses a connection string of the form "pin=wire, pin=wire".
func ParseConns(input string) ([]Conn, error) {
	var out []Conn
	l := &lexer{input: input}
	i := l.Lex()
	if i.Type == EOF {
		return nil, nil
	}
	for {
		if i.Type != Ident {
			return nil, parseError(input, i.Pos, "expected pin name, got "+i.String())
		}
		c := Conn{Pin: i.Value, Pos: i.Pos}
		if i = l.Lex(); i.Type != Equal {
			return nil, parseError(input, i.Pos, "'=' expected after pin name")
		}
		if i = l.Lex(); i.Type != Ident {
			return nil, parseError(input, i.Pos, "expected wire name, got "+i.String())
		}
		c.Wire = i.Value
		out = append(out, c)
		switch i = l.Lex(); i.Type {
		case EOF:
			return out, nil
		case Comma:
			i = l.Lex()
		default:
			return nil, parseError(input, i.Pos, "expected comma or end of input, got "+i.String())
		}
	}
}
