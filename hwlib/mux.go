// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import (
	"strconv"

	"github.com/db47h/mips16/bitvec"
	"github.com/db47h/mips16/hwsim"
)

// Mux returns a multiplexer.
//
//	Inputs: a, b, sel
//	Outputs: out
//	Function: if sel == 0 { out = a } else { out = b }
func Mux(w string) hwsim.Part { return mux.NewPart(w) }

var mux = SpecMuxN(1)

// DMux returns a demultiplexer.
//
//	Inputs: in, sel
//	Outputs: a, b
//	Function: if sel == 0 { a = in; b = 0 } else { a = 0; b = in }
func DMux(w string) hwsim.Part { return dmux.NewPart(w) }

var dmux = &hwsim.PartSpec{
	Name:    "DMUX",
	Inputs:  hwsim.IO("in, sel"),
	Outputs: hwsim.IO("a, b"),
	Mount: func(s *hwsim.Socket) []hwsim.Component {
		in, sel, a, b := s.Pin(pIn), s.Pin(pSel), s.Pin(pA), s.Pin(pB)
		return []hwsim.Component{func(c *hwsim.Circuit) {
			if c.GetBool(sel) {
				c.SetBool(a, false)
				c.Set(b, c.Get(in))
			} else {
				c.Set(a, c.Get(in))
				c.SetBool(b, false)
			}
		}}
	},
}

// SpecMuxN returns a PartSpec for an n-bits Mux
//
//	Inputs: a[bits], b[bits], sel
//	Outputs: out[bits]
//	Function: if sel == 0 { out = a } else { out = b }
func SpecMuxN(bits int) *hwsim.PartSpec {
	name := "MUX"
	if bits > 1 {
		name = "Mux" + strconv.Itoa(bits)
	}
	return &hwsim.PartSpec{
		Name:    name,
		Inputs:  hwsim.IO(bus(pA, bits) + ", " + bus(pB, bits) + ", sel"),
		Outputs: hwsim.IO(bus(pOut, bits)),
		Mount: func(s *hwsim.Socket) []hwsim.Component {
			a, b, sel := s.Pin(pA), s.Pin(pB), s.Pin(pSel)
			o := s.Pin(pOut)
			return []hwsim.Component{
				func(c *hwsim.Circuit) {
					// only the selected input is a dependency
					if c.GetBool(sel) {
						c.Set(o, c.Get(b))
					} else {
						c.Set(o, c.Get(a))
					}
				}}
		}}
}

// MuxN returns a N-bits Mux.
func MuxN(bits int) hwsim.NewPartFn { return SpecMuxN(bits).NewPart }

var (
	mux4  = SpecMuxN(4)
	mux16 = SpecMuxN(16)
)

// Mux4 returns a 4-bits Mux. It selects the destination register number.
//
//	Inputs: a[4], b[4], sel
//	Outputs: out[4]
//	Function: if sel == 0 { out = a } else { out = b }
func Mux4(c string) hwsim.Part { return mux4.NewPart(c) }

// Mux16 returns a 16-bits Mux
//
//	Inputs: a[16], b[16], sel
//	Outputs: out[16]
//	Function: if sel == 0 { out = a } else { out = b }
func Mux16(c string) hwsim.Part { return mux16.NewPart(c) }

// Fan returns a part that replicates a single bit input on all bits of its
// output.
//
//	Inputs: in
//	Outputs: out[bits]
//	Function: for i := range out { out[i] = in }
func Fan(bits int) hwsim.NewPartFn {
	one, zero := bitvec.Trunc(bits, ^uint64(0)), bitvec.Zero(bits)
	return (&hwsim.PartSpec{
		Name:    "Fan" + strconv.Itoa(bits),
		Inputs:  hwsim.IO(pIn),
		Outputs: hwsim.IO(bus(pOut, bits)),
		Mount: func(s *hwsim.Socket) []hwsim.Component {
			in, out := s.Pin(pIn), s.Pin(pOut)
			return []hwsim.Component{func(c *hwsim.Circuit) {
				if c.GetBool(in) {
					c.Set(out, one)
				} else {
					c.Set(out, zero)
				}
			}}
		}}).NewPart
}
