// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import (
	"github.com/db47h/mips16/bitvec"
	"github.com/db47h/mips16/hwsim"
	"github.com/db47h/mips16/isa"
)

var alu = &hwsim.PartSpec{
	Name:    "ALU",
	Inputs:  hwsim.IO("a[16], b[16], op[3]"),
	Outputs: hwsim.IO("out[16], zero"),
	Mount: func(s *hwsim.Socket) []hwsim.Component {
		a, b, op := s.Pin(pA), s.Pin(pB), s.Pin("op")
		out, zero := s.Pin(pOut), s.Pin("zero")
		return []hwsim.Component{func(c *hwsim.Circuit) {
			r := isa.ALU(uint16(c.GetUint(a)), uint16(c.GetUint(b)), isa.ALUOp(c.GetUint(op)))
			c.Set(out, bitvec.New(16, uint64(r)))
			c.SetBool(zero, r == 0)
		}}
	}}

// ALU returns a 16 bits arithmetic and logic unit.
//
//	Inputs: a[16], b[16], op[3]
//	Outputs: out[16], zero
//	Function: out = a op b
//	          zero = out == 0
//
// Supported operations are add (000), sub (001), and (010), or (011) and slt
// (100). The ALU panics on any other operation code.
func ALU(w string) hwsim.Part { return alu.NewPart(w) }

var control = &hwsim.PartSpec{
	Name:   "Control",
	Inputs: hwsim.IO("op[4]"),
	Outputs: hwsim.IO("reg_dst, alu_src, mem_to_reg, reg_write, mem_write, " +
		"branch, alu_op[3], jump"),
	Mount: func(s *hwsim.Socket) []hwsim.Component {
		op := s.Pin("op")
		regDst, aluSrc, memToReg := s.Pin("reg_dst"), s.Pin("alu_src"), s.Pin("mem_to_reg")
		regWrite, memWrite, branch := s.Pin("reg_write"), s.Pin("mem_write"), s.Pin("branch")
		aluOp, jump := s.Pin("alu_op"), s.Pin("jump")
		return []hwsim.Component{func(c *hwsim.Circuit) {
			ctl := isa.Decode(isa.Opcode(c.GetUint(op)))
			c.SetBool(regDst, ctl.RegDst)
			c.SetBool(aluSrc, ctl.ALUSrc)
			c.SetBool(memToReg, ctl.MemToReg)
			c.SetBool(regWrite, ctl.RegWrite)
			c.SetBool(memWrite, ctl.MemWrite)
			c.SetBool(branch, ctl.Branch)
			c.SetUint(aluOp, uint64(ctl.ALUOp))
			c.SetBool(jump, ctl.Jump)
		}}
	}}

// Control returns the control unit. It decodes an opcode into the datapath
// control signals. Undefined opcodes clear all control signals.
//
//	Inputs: op[4]
//	Outputs: reg_dst, alu_src, mem_to_reg, reg_write, mem_write, branch, alu_op[3], jump
//	Function: see isa.Decode
func Control(w string) hwsim.Part { return control.NewPart(w) }
