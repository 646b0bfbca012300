// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import (
	"strconv"

	"github.com/db47h/mips16/bitvec"
	"github.com/db47h/mips16/hwsim"
	"github.com/pkg/errors"
)

func fieldsWidth(fields []hwsim.Pin) int {
	n := 0
	for _, f := range fields {
		n += f.Width
	}
	return n
}

// Splitter returns a part that splits its input bus into several fields, the
// first field being the most significant. For example, the fields of an
// instruction word can be extracted with:
//
//	Splitter(16, "op[4], rs[4], rt[4], rd[4]")("in=instruction, op=opcode, rs=rs, rt=rt, rd=rd")
//
// Splitter panics if the total width of the fields is not bits.
//
//	Inputs: in[bits]
//	Outputs: fields...
func Splitter(bits int, fields string) hwsim.NewPartFn {
	outs := hwsim.IO(fields)
	if w := fieldsWidth(outs); w != bits {
		panic(errors.Errorf("splitter fields %q are %d bits wide, expected %d", fields, w, bits))
	}
	return (&hwsim.PartSpec{
		Name:    "Splitter" + strconv.Itoa(bits),
		Inputs:  hwsim.IO(bus(pIn, bits)),
		Outputs: outs,
		Mount: func(s *hwsim.Socket) []hwsim.Component {
			in := s.Pin(pIn)
			pins := make([]int, len(outs))
			for i, o := range outs {
				pins[i] = s.Pin(o.Name)
			}
			return []hwsim.Component{func(c *hwsim.Circuit) {
				v := c.Get(in)
				lo := 0
				for i, o := range outs {
					c.Set(pins[i], v.Slice(lo, lo+o.Width))
					lo += o.Width
				}
			}}
		}}).NewPart
}

// Joiner is the reverse of Splitter: it concatenates its inputs into a single
// bus, the first field being the most significant.
//
//	Inputs: fields...
//	Outputs: out[sum of field widths]
func Joiner(fields string) hwsim.NewPartFn {
	ins := hwsim.IO(fields)
	bits := fieldsWidth(ins)
	return (&hwsim.PartSpec{
		Name:    "Joiner" + strconv.Itoa(bits),
		Inputs:  ins,
		Outputs: hwsim.IO(bus(pOut, bits)),
		Mount: func(s *hwsim.Socket) []hwsim.Component {
			out := s.Pin(pOut)
			pins := make([]int, len(ins))
			for i, in := range ins {
				pins[i] = s.Pin(in.Name)
			}
			return []hwsim.Component{func(c *hwsim.Circuit) {
				vs := make([]bitvec.Vector, len(pins))
				for i, p := range pins {
					vs[i] = c.Get(p)
				}
				c.Set(out, bitvec.Concat(vs...))
			}}
		}}).NewPart
}
