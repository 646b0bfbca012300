// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import (
	"strconv"

	"github.com/db47h/mips16/bitvec"
	"github.com/db47h/mips16/hwsim"
	"github.com/db47h/mips16/isa"
)

// RegName returns the name of the state signal holding register i in a
// register file's scope.
func RegName(i int) string { return "r" + strconv.Itoa(i) }

func mountRegFile(s *hwsim.Socket, zero bool) []hwsim.Component {
	ra1, ra2 := s.Pin("ra1"), s.Pin("ra2")
	wa, wd, we := s.Pin("wa"), s.Pin("wd"), s.Pin("we")
	rd1, rd2 := s.Pin("rd1"), s.Pin("rd2")

	var regs [isa.NumRegs]int
	for i := range regs {
		regs[i] = s.NewState(RegName(i), 16)
	}

	var cs []hwsim.Component
	for i := range regs {
		if zero && i == 0 {
			continue
		}
		r, n := regs[i], uint64(i)
		var edge EdgeTracker
		cs = append(cs, func(c *hwsim.Circuit) {
			if edge.OnClock(c.Clock()) && c.GetBool(we) && c.GetUint(wa) == n {
				c.Set(r, c.Get(wd))
			}
		})
	}

	zv := bitvec.Zero(16)
	port := func(ra, rd int) hwsim.Component {
		return func(c *hwsim.Circuit) {
			a := c.GetUint(ra)
			if zero && a == 0 {
				c.Set(rd, zv)
				return
			}
			c.Set(rd, c.Get(regs[a]))
		}
	}
	return append(cs, port(ra1, rd1), port(ra2, rd2))
}

func specRegFile(zero bool) *hwsim.PartSpec {
	name := "RegisterFile"
	if zero {
		name += "Z"
	}
	return &hwsim.PartSpec{
		Name:    name,
		Inputs:  hwsim.IO("ra1[4], ra2[4], wa[4], wd[16], we"),
		Outputs: hwsim.IO("rd1[16], rd2[16]"),
		Mount: func(s *hwsim.Socket) []hwsim.Component {
			return mountRegFile(s, zero)
		}}
}

var (
	regFile  = specRegFile(false)
	regFileZ = specRegFile(true)
)

// RegisterFile returns a register file of 16 registers of 16 bits with two
// combinational read ports and one write port. Register i is stored in the
// state signal RegName(i) of the part's scope.
//
// If hardwiredZero is true, register 0 always reads as zero and writes to it
// are ignored.
//
//	Inputs: ra1[4], ra2[4], wa[4], wd[16], we
//	Outputs: rd1[16], rd2[16]
//	Function: rd1 = r[ra1]
//	          rd2 = r[ra2]
//	          if we(t-1) { r[wa](t) = wd(t-1) }
func RegisterFile(hardwiredZero bool) hwsim.NewPartFn {
	if hardwiredZero {
		return regFileZ.NewPart
	}
	return regFile.NewPart
}
