// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import (
	"strconv"

	"github.com/db47h/mips16/bitvec"
	"github.com/db47h/mips16/hwsim"
)

// Input creates a function based input.
//
//	Outputs: out
//	Function: out = f()
func Input(f func() bool) hwsim.NewPartFn {
	p := &hwsim.PartSpec{
		Name:    "Input",
		Inputs:  nil,
		Outputs: hwsim.IO(pOut),
		Mount: func(s *hwsim.Socket) []hwsim.Component {
			pin := s.Pin(pOut)
			return []hwsim.Component{
				func(c *hwsim.Circuit) {
					c.SetBool(pin, f())
				},
			}
		},
	}
	return p.NewPart
}

// Output creates an output or probe. The f function is
// called with the named pin state every time it changes.
//
//	Inputs: in
//	Function: f(in)
func Output(f func(bool)) hwsim.NewPartFn {
	p := &hwsim.PartSpec{
		Name:    "Output",
		Inputs:  hwsim.IO(pIn),
		Outputs: nil,
		Mount: func(s *hwsim.Socket) []hwsim.Component {
			in := s.Pin(pIn)
			return []hwsim.Component{
				func(c *hwsim.Circuit) { f(c.GetBool(in)) },
			}
		},
	}
	return p.NewPart
}

// InputN creates an input bus of the given bits size. Only the low order bits
// of the value returned by f are used.
//
//	Outputs: out[bits]
//	Function: out = f()
func InputN(bits int, f func() uint64) hwsim.NewPartFn {
	return (&hwsim.PartSpec{
		Name:    "Input" + strconv.Itoa(bits),
		Inputs:  nil,
		Outputs: hwsim.IO(bus(pOut, bits)),
		Mount: func(s *hwsim.Socket) []hwsim.Component {
			out := s.Pin(pOut)
			return []hwsim.Component{func(c *hwsim.Circuit) {
				c.SetUint(out, f())
			}}
		}}).NewPart
}

// OutputN creates an output bus of the given bits size.
//
//	Inputs: in[bits]
//	Function: f(in)
func OutputN(bits int, f func(uint64)) hwsim.NewPartFn {
	return (&hwsim.PartSpec{
		Name:    "Output" + strconv.Itoa(bits),
		Inputs:  hwsim.IO(bus(pIn, bits)),
		Outputs: nil,
		Mount: func(s *hwsim.Socket) []hwsim.Component {
			in := s.Pin(pIn)
			return []hwsim.Component{func(c *hwsim.Circuit) {
				f(c.GetUint(in))
			}}
		}}).NewPart
}

// Const returns a constant value generator. It panics if v does not fit in
// bits.
//
//	Outputs: out[bits]
//	Function: out = v
func Const(bits int, v uint64) hwsim.NewPartFn {
	cv := bitvec.New(bits, v)
	return (&hwsim.PartSpec{
		Name:    "Const" + strconv.Itoa(bits),
		Inputs:  nil,
		Outputs: hwsim.IO(bus(pOut, bits)),
		Mount: func(s *hwsim.Socket) []hwsim.Component {
			out := s.Pin(pOut)
			return []hwsim.Component{func(c *hwsim.Circuit) {
				c.Set(out, cv)
			}}
		}}).NewPart
}
