// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import (
	"strconv"

	"github.com/db47h/mips16/bitvec"
	"github.com/db47h/mips16/hwsim"
)

var hAdder = &hwsim.PartSpec{
	Name:    "HalfAdder",
	Inputs:  hwsim.IO("a, b"),
	Outputs: hwsim.IO("s, c"),
	Mount: func(s *hwsim.Socket) []hwsim.Component {
		a, b := s.Pin(pA), s.Pin(pB)
		sum, cout := s.Pin("s"), s.Pin("c")
		return []hwsim.Component{
			func(c *hwsim.Circuit) {
				va, vb := c.GetBool(a), c.GetBool(b)
				c.SetBool(sum, va != vb)
				c.SetBool(cout, va && vb)
			}}
	}}

// HalfAdder returns a half adder.
//
//	Inputs: a, b
//	Outputs: s, c
//	Function: s = lsb(a + b)
//	          c = msb(a + b)
func HalfAdder(c string) hwsim.Part {
	return hAdder.NewPart(c)
}

var fAdder = &hwsim.PartSpec{
	Name:    "FullAdder",
	Inputs:  hwsim.IO("a, b, cin"),
	Outputs: hwsim.IO("s, cout"),
	Mount: func(s *hwsim.Socket) []hwsim.Component {
		a, b, cin := s.Pin(pA), s.Pin(pB), s.Pin("cin")
		sum, cout := s.Pin("s"), s.Pin("cout")
		return []hwsim.Component{
			func(c *hwsim.Circuit) {
				va, vb, vc := c.GetBool(a), c.GetBool(b), c.GetBool(cin)
				s := va != vb
				c.SetBool(sum, s != vc)
				c.SetBool(cout, s && vc || va && vb)
			}}
	}}

// FullAdder returns a 3 bit adder.
//
//	Inputs: a, b, cin
//	Outputs: s, cout
//	Function: s = lsb(a + b + cin)
//	          cout = msb(a + b + cin)
func FullAdder(c string) hwsim.Part {
	return fAdder.NewPart(c)
}

// AdderN returns a N-bits adder. The carry output is set when the sum
// overflows.
//
//	Inputs: a[bits], b[bits]
//	Outputs: out[bits], c
//	Function: out = (a + b) mod 2^bits
//	          c = a + b >= 2^bits
func AdderN(bits int) hwsim.NewPartFn {
	adderN := &hwsim.PartSpec{
		Name:    "Adder" + strconv.Itoa(bits),
		Inputs:  hwsim.IO(bus(pA, bits) + ", " + bus(pB, bits)),
		Outputs: hwsim.IO(bus(pOut, bits) + ", c"),
		Mount: func(s *hwsim.Socket) []hwsim.Component {
			a, b := s.Pin(pA), s.Pin(pB)
			out, cout := s.Pin(pOut), s.Pin("c")
			return []hwsim.Component{
				func(c *hwsim.Circuit) {
					va, vb := c.Get(a), c.Get(b)
					sum := va.Add(vb)
					c.Set(out, sum)
					c.SetBool(cout, sum.Less(va))
				}}
		}}
	return adderN.NewPart
}

var adder16 = AdderN(16)

// Adder16 returns a 16 bits adder.
//
//	Inputs: a[16], b[16]
//	Outputs: out[16], c
//	Function: out = (a + b) mod 2^16
func Adder16(c string) hwsim.Part { return adder16(c) }

// ShiftLeft returns a part that shifts its input left by n bits. Bits shifted
// out are lost.
//
//	Inputs: in[bits]
//	Outputs: out[bits]
//	Function: out = in << n
func ShiftLeft(bits int, n uint) hwsim.NewPartFn {
	return (&hwsim.PartSpec{
		Name:    "ShiftLeft" + strconv.Itoa(bits),
		Inputs:  hwsim.IO(bus(pIn, bits)),
		Outputs: hwsim.IO(bus(pOut, bits)),
		Mount: func(s *hwsim.Socket) []hwsim.Component {
			in, out := s.Pin(pIn), s.Pin(pOut)
			return []hwsim.Component{func(c *hwsim.Circuit) {
				c.Set(out, c.Get(in).Shl(n))
			}}
		}}).NewPart
}

// SignExtend returns a sign extension unit.
//
//	Inputs: in[from]
//	Outputs: out[to]
//	Function: out = in with bit from-1 replicated to the left
func SignExtend(from, to int) hwsim.NewPartFn {
	return extend("SignExtend", from, to, bitvec.Vector.SignExtend)
}

// ZeroExtend returns a zero extension unit.
//
//	Inputs: in[from]
//	Outputs: out[to]
//	Function: out = in
func ZeroExtend(from, to int) hwsim.NewPartFn {
	return extend("ZeroExtend", from, to, bitvec.Vector.ZeroExtend)
}

func extend(name string, from, to int, fn func(bitvec.Vector, int) bitvec.Vector) hwsim.NewPartFn {
	return (&hwsim.PartSpec{
		Name:    name + strconv.Itoa(from) + "To" + strconv.Itoa(to),
		Inputs:  hwsim.IO(bus(pIn, from)),
		Outputs: hwsim.IO(bus(pOut, to)),
		Mount: func(s *hwsim.Socket) []hwsim.Component {
			in, out := s.Pin(pIn), s.Pin(pOut)
			return []hwsim.Component{func(c *hwsim.Circuit) {
				c.Set(out, fn(c.Get(in), to))
			}}
		}}).NewPart
}
