// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package asm

import (
	"fmt"

	"github.com/db47h/mips16/isa"
)

// Disassemble returns the assembly source for instruction i. Branch offsets
// are rendered as signed instruction counts and jump targets as addresses in
// the first 4KiB region. Undefined opcodes are rendered as a .word directive.
//
// For any instruction produced by Assemble in the first 4KiB region,
// assembling the output of Disassemble yields the same instruction.
func Disassemble(i isa.Instruction) string {
	op := i.Opcode()
	switch op {
	case isa.ADD, isa.SUB, isa.AND, isa.OR, isa.SLT:
		return fmt.Sprintf("%s $%d, $%d, $%d", op, i.Rd(), i.Rs(), i.Rt())
	case isa.ADDI:
		return fmt.Sprintf("ADDI $%d, $%d, %d", i.Rt(), i.Rs(), int16(i.Imm()))
	case isa.LW, isa.SW:
		return fmt.Sprintf("%s $%d, %d($%d)", op, i.Rt(), int16(i.Imm()), i.Rs())
	case isa.BEQ:
		return fmt.Sprintf("BEQ $%d, $%d, %d", i.Rs(), i.Rt(), int16(i.Imm()))
	case isa.JUMP:
		return fmt.Sprintf("J %#04x", isa.JumpTarget(0, i))
	}
	if i == isa.Instruction(uint16(isa.NOP)<<12) {
		return "NOP"
	}
	return fmt.Sprintf(".word %#04x", uint16(i))
}
