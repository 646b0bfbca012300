// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package isa defines the MIPS16 instruction set: instruction encoding, the
// control word generated for each opcode and the ALU operations.
//
// Instructions are 16 bits wide:
//
//	15    12 11     8 7      4 3      0
//	+-------+--------+--------+--------+
//	| op    | rs     | rt     | rd/imm |
//	+-------+--------+--------+--------+
//
// The rd field doubles as a 4 bits signed immediate for ADDI, LW, SW and BEQ.
// JUMP uses the low 11 bits as a halfword target within the current 4KiB
// region.
package isa

import (
	"strconv"

	"github.com/pkg/errors"
)

// NumRegs is the number of general purpose registers.
const NumRegs = 16

// An Opcode is a 4 bits instruction opcode.
type Opcode uint8

// Defined opcodes. Opcodes 1010 through 1111 are undefined and decode as no-ops.
const (
	ADD  Opcode = iota // rd = rs + rt
	SUB                // rd = rs - rt
	AND                // rd = rs & rt
	OR                 // rd = rs | rt
	SLT                // rd = rs < rt (unsigned)
	ADDI               // rt = rs + sext(imm)
	LW                 // rt = mem[rs + sext(imm)]
	SW                 // mem[rs + sext(imm)] = rt
	BEQ                // if rs == rt { pc = pc + 2 + sext(imm)<<1 }
	JUMP               // pc = pc[15:12] | target<<1
)

// NOP is the opcode used by the assembler for the NOP pseudo instruction. Any
// undefined opcode would do.
const NOP Opcode = 0xf

var opNames = [...]string{
	ADD:  "ADD",
	SUB:  "SUB",
	AND:  "AND",
	OR:   "OR",
	SLT:  "SLT",
	ADDI: "ADDI",
	LW:   "LW",
	SW:   "SW",
	BEQ:  "BEQ",
	JUMP: "J",
}

// Defined returns true if op is one of the defined opcodes.
func (op Opcode) Defined() bool { return op <= JUMP }

func (op Opcode) String() string {
	if op.Defined() {
		return opNames[op]
	}
	return "OP" + strconv.Itoa(int(op))
}

// An ALUOp is a 3 bits ALU operation selector.
type ALUOp uint8

// ALU operations.
const (
	ALUAdd ALUOp = iota
	ALUSub
	ALUAnd
	ALUOr
	ALUSlt
)

var aluNames = [...]string{"add", "sub", "and", "or", "slt"}

func (op ALUOp) String() string {
	if int(op) < len(aluNames) {
		return aluNames[op]
	}
	return "alu" + strconv.Itoa(int(op))
}

// ALU computes the result of the ALU operation op on a and b.
//
// Addition and subtraction wrap around modulo 2^16; subtraction therefore
// yields the two's complement difference. SLT compares its operands as
// unsigned integers and returns 1 or 0.
//
// ALU panics if op is not a defined operation. A well formed control unit never
// generates such an operation.
func ALU(a, b uint16, op ALUOp) uint16 {
	switch op {
	case ALUAdd:
		return a + b
	case ALUSub:
		return a - b
	case ALUAnd:
		return a & b
	case ALUOr:
		return a | b
	case ALUSlt:
		if a < b {
			return 1
		}
		return 0
	}
	panic(errors.Errorf("isa: undefined ALU operation %03b", uint8(op)))
}

// Control is the control word generated by the control unit for a given opcode.
type Control struct {
	RegDst   bool  // write register is rd (true) or rt (false)
	ALUSrc   bool  // ALU operand b is the immediate (true) or rt (false)
	MemToReg bool  // write back data comes from memory (true) or the ALU (false)
	RegWrite bool  // register file write enable
	MemWrite bool  // data memory write enable
	Branch   bool  // conditional branch on ALU zero
	ALUOp    ALUOp // ALU operation
	Jump     bool  // unconditional jump
}

// Decode returns the control word for opcode op. Undefined opcodes decode to
// the zero Control, which does not write any state.
func Decode(op Opcode) Control {
	switch op {
	case ADD:
		return Control{RegDst: true, RegWrite: true, ALUOp: ALUAdd}
	case SUB:
		return Control{RegDst: true, RegWrite: true, ALUOp: ALUSub}
	case AND:
		return Control{RegDst: true, RegWrite: true, ALUOp: ALUAnd}
	case OR:
		return Control{RegDst: true, RegWrite: true, ALUOp: ALUOr}
	case SLT:
		return Control{RegDst: true, RegWrite: true, ALUOp: ALUSlt}
	case ADDI:
		return Control{ALUSrc: true, RegWrite: true, ALUOp: ALUAdd}
	case LW:
		return Control{ALUSrc: true, MemToReg: true, RegWrite: true, ALUOp: ALUAdd}
	case SW:
		return Control{ALUSrc: true, MemWrite: true, ALUOp: ALUAdd}
	case BEQ:
		return Control{Branch: true, ALUOp: ALUSub}
	case JUMP:
		return Control{Jump: true}
	}
	return Control{}
}
