// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import (
	"strconv"

	"github.com/db47h/mips16/bitvec"
	"github.com/db47h/mips16/hwsim"
)

// EdgeTracker detects rising clock edges. The zero value is ready to use and
// assumes a low clock.
type EdgeTracker struct {
	cur, prev bool
}

// OnClock records the current clock level and returns true if the clock went
// from low to high since the previous call. Calling OnClock several times with
// the same level reports an edge at most once.
func (e *EdgeTracker) OnClock(level bool) bool {
	e.prev, e.cur = e.cur, level
	return !e.prev && e.cur
}

// register mounts a clocked register. If load is false, the register loads a
// new value on every rising edge. If step is not zero, the register is a
// counter and adds step to its value on every rising edge.
func register(s *hwsim.Socket, bits int, load bool, step uint64) []hwsim.Component {
	var in, ld int
	if step == 0 {
		in = s.Pin(pIn)
	}
	if load {
		ld = s.Pin("load")
	}
	out := s.Pin(pOut)
	q := s.NewState("q", bits)
	inc := bitvec.Trunc(bits, step)
	var edge EdgeTracker
	return []hwsim.Component{
		func(c *hwsim.Circuit) {
			if edge.OnClock(c.Clock()) {
				switch {
				case step != 0:
					c.Set(q, c.Get(q).Add(inc))
				case !load || c.GetBool(ld):
					c.Set(q, c.Get(in))
				}
			}
			c.Set(out, c.Get(q))
		}}
}

// DFF returns a clocked data flip flop.
//
//	Inputs: in
//	Outputs: out
//	Function: out(t) = in(t-1) // where t is the current clock cycle.
func DFF(w string) hwsim.Part { return dff.NewPart(w) }

var dff = specDFFN(1)

func specDFFN(bits int) *hwsim.PartSpec {
	name := "DFF"
	if bits > 1 {
		name += strconv.Itoa(bits)
	}
	return &hwsim.PartSpec{
		Name:    name,
		Inputs:  hwsim.IO(bus(pIn, bits)),
		Outputs: hwsim.IO(bus(pOut, bits)),
		Mount: func(s *hwsim.Socket) []hwsim.Component {
			return register(s, bits, false, 0)
		}}
}

// DFFN returns a N-bits clocked data flip flop.
//
//	Inputs: in[bits]
//	Outputs: out[bits]
//	Function: out(t) = in(t-1) // where t is the current clock cycle.
func DFFN(bits int) hwsim.NewPartFn { return specDFFN(bits).NewPart }

// Register returns a N-bits register with a load enable. The stored value is
// the signal "q" in the part's scope.
//
//	Inputs: in[bits], load
//	Outputs: out[bits]
//	Function: if load(t-1) then out(t) = in(t-1) else out(t) = out(t-1)
func Register(bits int) hwsim.NewPartFn {
	return (&hwsim.PartSpec{
		Name:    "Register" + strconv.Itoa(bits),
		Inputs:  hwsim.IO(bus(pIn, bits) + ", load"),
		Outputs: hwsim.IO(bus(pOut, bits)),
		Mount: func(s *hwsim.Socket) []hwsim.Component {
			return register(s, bits, true, 0)
		}}).NewPart
}

var pc = &hwsim.PartSpec{
	Name:    "PC",
	Inputs:  hwsim.IO("in[16]"),
	Outputs: hwsim.IO("out[16]"),
	Mount: func(s *hwsim.Socket) []hwsim.Component {
		return register(s, 16, false, 0)
	}}

// PC returns the program counter. It loads the next instruction address on
// every rising edge and starts at 0.
//
//	Inputs: in[16]
//	Outputs: out[16]
//	Function: out(t) = in(t-1)
func PC(w string) hwsim.Part { return pc.NewPart(w) }

// Counter returns a N-bits counter that adds step to its value on every
// rising clock edge, starting at 0.
//
//	Outputs: out[bits]
//	Function: out(t) = out(t-1) + step
func Counter(bits int, step uint64) hwsim.NewPartFn {
	if step == 0 {
		step = 1
	}
	return (&hwsim.PartSpec{
		Name:    "Counter" + strconv.Itoa(bits),
		Outputs: hwsim.IO(bus(pOut, bits)),
		Mount: func(s *hwsim.Socket) []hwsim.Component {
			return register(s, bits, false, step)
		}}).NewPart
}
