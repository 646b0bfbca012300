// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package hwlib provides a library of reusable parts for hwsim: logic gates,
// multiplexers, adders, sequential elements and the building blocks of the
// MIPS16 datapath.
package hwlib

import (
	"strconv"

	"github.com/db47h/mips16/bitvec"
	"github.com/db47h/mips16/hwsim"
)

// common pin names
const (
	pA   = "a"
	pB   = "b"
	pIn  = "in"
	pSel = "sel"
	pOut = "out"
)

// bus returns a pin spec string for a bus or single pin.
func bus(name string, bits int) string {
	if bits == 1 {
		return name
	}
	return name + "[" + strconv.Itoa(bits) + "]"
}

func notN(bits int) *hwsim.PartSpec {
	name := "NOT"
	if bits > 1 {
		name += strconv.Itoa(bits)
	}
	return &hwsim.PartSpec{
		Name:    name,
		Inputs:  hwsim.IO(bus(pIn, bits)),
		Outputs: hwsim.IO(bus(pOut, bits)),
		Mount: func(s *hwsim.Socket) []hwsim.Component {
			in, out := s.Pin(pIn), s.Pin(pOut)
			return []hwsim.Component{
				func(c *hwsim.Circuit) { c.Set(out, c.Get(in).Not()) },
			}
		}}
}

var notGate = notN(1)

// Not returns a NOT gate.
//
//	Inputs: in
//	Outputs: out
//	Function: out = !in
func Not(w string) hwsim.Part { return notGate.NewPart(w) }

// NotN returns a N-bits NOT gate.
//
//	Inputs: in[bits]
//	Outputs: out[bits]
//	Function: out = ^in
func NotN(bits int) hwsim.NewPartFn {
	return notN(bits).NewPart
}

// other gates
type gate func(a, b bitvec.Vector) bitvec.Vector

func (g gate) mount(s *hwsim.Socket) []hwsim.Component {
	a, b, out := s.Pin(pA), s.Pin(pB), s.Pin(pOut)
	return []hwsim.Component{
		func(c *hwsim.Circuit) { c.Set(out, g(c.Get(a), c.Get(b))) },
	}
}

func newGate(name string, bits int, fn gate) *hwsim.PartSpec {
	if bits > 1 {
		name += strconv.Itoa(bits)
	}
	return &hwsim.PartSpec{
		Name:    name,
		Inputs:  hwsim.IO(bus(pA, bits) + ", " + bus(pB, bits)),
		Outputs: hwsim.IO(bus(pOut, bits)),
		Mount:   fn.mount,
	}
}

func and(a, b bitvec.Vector) bitvec.Vector  { return a.And(b) }
func nand(a, b bitvec.Vector) bitvec.Vector { return a.And(b).Not() }
func or(a, b bitvec.Vector) bitvec.Vector   { return a.Or(b) }
func nor(a, b bitvec.Vector) bitvec.Vector  { return a.Or(b).Not() }
func xor(a, b bitvec.Vector) bitvec.Vector  { return a.Xor(b) }
func xnor(a, b bitvec.Vector) bitvec.Vector { return a.Xor(b).Not() }

var (
	andGate  = newGate("AND", 1, and)
	nandGate = newGate("NAND", 1, nand)
	orGate   = newGate("OR", 1, or)
	norGate  = newGate("NOR", 1, nor)
	xorGate  = newGate("XOR", 1, xor)
	xnorGate = newGate("XNOR", 1, xnor)
)

// And returns a AND gate.
//
//	Inputs: a, b
//	Outputs: out
//	Function: out = a && b
func And(w string) hwsim.Part { return andGate.NewPart(w) }

// Nand returns a NAND gate.
//
//	Inputs: a, b
//	Outputs: out
//	Function: out = !(a && b)
func Nand(w string) hwsim.Part { return nandGate.NewPart(w) }

// Or returns a OR gate.
//
//	Inputs: a, b
//	Outputs: out
//	Function: out = a || b
func Or(w string) hwsim.Part { return orGate.NewPart(w) }

// Nor returns a NOR gate.
//
//	Inputs: a, b
//	Outputs: out
//	Function: out = !(a || b)
func Nor(w string) hwsim.Part { return norGate.NewPart(w) }

// Xor returns a XOR gate.
//
//	Inputs: a, b
//	Outputs: out
//	Function: out = (a && !b) || (!a && b)
func Xor(w string) hwsim.Part { return xorGate.NewPart(w) }

// Xnor returns a XNOR gate.
//
//	Inputs: a, b
//	Outputs: out
//	Function: out = a && b || !a && !b
func Xnor(w string) hwsim.Part { return xnorGate.NewPart(w) }

// AndN returns a N-bits AND gate.
//
//	Inputs: a[bits], b[bits]
//	Outputs: out[bits]
//	Function: out = a & b
func AndN(bits int) hwsim.NewPartFn { return newGate("AND", bits, and).NewPart }

// NandN returns a N-bits NAND gate.
//
//	Inputs: a[bits], b[bits]
//	Outputs: out[bits]
//	Function: out = ^(a & b)
func NandN(bits int) hwsim.NewPartFn { return newGate("NAND", bits, nand).NewPart }

// OrN returns a N-bits OR gate.
//
//	Inputs: a[bits], b[bits]
//	Outputs: out[bits]
//	Function: out = a | b
func OrN(bits int) hwsim.NewPartFn { return newGate("OR", bits, or).NewPart }

// NorN returns a N-bits NOR gate.
//
//	Inputs: a[bits], b[bits]
//	Outputs: out[bits]
//	Function: out = ^(a | b)
func NorN(bits int) hwsim.NewPartFn { return newGate("NOR", bits, nor).NewPart }

// XorN returns a N-bits XOR gate.
//
//	Inputs: a[bits], b[bits]
//	Outputs: out[bits]
//	Function: out = a ^ b
func XorN(bits int) hwsim.NewPartFn { return newGate("XOR", bits, xor).NewPart }
