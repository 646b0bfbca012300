// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import (
	"github.com/db47h/mips16/hwsim"
	"github.com/db47h/mips16/isa"
)

type jumpAddr struct {
	PC    int `hw:"in,pc" bits:"16"`
	Instr int `hw:"in,instr" bits:"16"`
	Out   int `hw:"out" bits:"16"`
}

func (j *jumpAddr) Update(c *hwsim.Circuit) {
	pc, i := uint16(c.GetUint(j.PC)), isa.Instruction(c.GetUint(j.Instr))
	c.SetUint(j.Out, uint64(isa.JumpTarget(pc, i)))
}

var jumpAddrSpec = func() *hwsim.PartSpec {
	sp := hwsim.MakePart((*jumpAddr)(nil))
	sp.Name = "JumpAddr"
	return sp
}()

// JumpAddr returns the jump target computation unit.
//
//	Inputs: pc[16], instr[16]
//	Outputs: out[16]
//	Function: out = pc[15:12] | instr[11:0] << 1
func JumpAddr(w string) hwsim.Part { return jumpAddrSpec.NewPart(w) }
