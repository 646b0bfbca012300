// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package isa

// An Instruction is a 16 bits instruction word.
type Instruction uint16

// Opcode returns bits [15:12].
func (i Instruction) Opcode() Opcode { return Opcode(i >> 12) }

// Rs returns bits [11:8], the first source register.
func (i Instruction) Rs() uint8 { return uint8(i>>8) & 0xf }

// Rt returns bits [7:4], the second source register, or the destination
// register of I-type instructions.
func (i Instruction) Rt() uint8 { return uint8(i>>4) & 0xf }

// Rd returns bits [3:0], the destination register of R-type instructions.
func (i Instruction) Rd() uint8 { return uint8(i) & 0xf }

// Imm returns the sign extended immediate field.
func (i Instruction) Imm() uint16 { return SignExtend(i.Rd()) }

// Target returns the jump target field.
func (i Instruction) Target() uint16 { return uint16(i) & 0x0fff }

// R returns an R-type instruction.
func R(op Opcode, rd, rs, rt uint8) Instruction {
	return Instruction(uint16(op&0xf)<<12 | uint16(rs&0xf)<<8 | uint16(rt&0xf)<<4 | uint16(rd&0xf))
}

// I returns an I-type instruction. Only the low 4 bits of imm are encoded.
func I(op Opcode, rt, rs uint8, imm int) Instruction {
	return Instruction(uint16(op&0xf)<<12 | uint16(rs&0xf)<<8 | uint16(rt&0xf)<<4 | uint16(imm)&0xf)
}

// J returns a JUMP instruction to the given absolute address. Only bits [11:1]
// of target are encoded; the upper bits come from the PC at execution time.
func J(target uint16) Instruction {
	return Instruction(uint16(JUMP)<<12 | target>>1&0x7ff)
}

// SignExtend extends a 4 bits value to 16 bits by replicating bit 3.
func SignExtend(v uint8) uint16 {
	return uint16(int16(uint16(v)<<12) >> 12)
}

// BranchTarget returns the target of a taken branch at pc.
func BranchTarget(pc uint16, i Instruction) uint16 {
	return pc + 2 + i.Imm()<<1
}

// JumpTarget returns the target of a JUMP at pc: the upper 4 bits of pc
// followed by the 12 low bits of the target field shifted left once.
func JumpTarget(pc uint16, i Instruction) uint16 {
	return pc&0xf000 | i.Target()<<1&0x0fff
}

// Bytes returns the instruction as two bytes, high byte first, the way it is
// laid out in instruction memory.
func (i Instruction) Bytes() [2]byte {
	return [2]byte{byte(i >> 8), byte(i)}
}
