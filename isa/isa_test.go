package isa_test

import (
	"testing"
	"testing/quick"

	"github.com/db47h/mips16/isa"
)

func TestDecode(t *testing.T) {
	td := []struct {
		op   isa.Opcode
		ctrl isa.Control
	}{
		{isa.ADD, isa.Control{RegDst: true, RegWrite: true, ALUOp: isa.ALUAdd}},
		{isa.SUB, isa.Control{RegDst: true, RegWrite: true, ALUOp: isa.ALUSub}},
		{isa.AND, isa.Control{RegDst: true, RegWrite: true, ALUOp: isa.ALUAnd}},
		{isa.OR, isa.Control{RegDst: true, RegWrite: true, ALUOp: isa.ALUOr}},
		{isa.SLT, isa.Control{RegDst: true, RegWrite: true, ALUOp: isa.ALUSlt}},
		{isa.ADDI, isa.Control{ALUSrc: true, RegWrite: true, ALUOp: isa.ALUAdd}},
		{isa.LW, isa.Control{ALUSrc: true, MemToReg: true, RegWrite: true, ALUOp: isa.ALUAdd}},
		{isa.SW, isa.Control{ALUSrc: true, MemWrite: true, ALUOp: isa.ALUAdd}},
		{isa.BEQ, isa.Control{Branch: true, ALUOp: isa.ALUSub}},
		{isa.JUMP, isa.Control{Jump: true}},
	}
	for _, d := range td {
		if got := isa.Decode(d.op); got != d.ctrl {
			t.Errorf("Decode(%v) = %+v, expected %+v", d.op, got, d.ctrl)
		}
	}
	for op := isa.JUMP + 1; op < 16; op++ {
		c := isa.Decode(op)
		if c != (isa.Control{}) {
			t.Errorf("Decode(%04b) = %+v, expected no-op", uint8(op), c)
		}
		if op.Defined() {
			t.Errorf("%v reported as defined", op)
		}
	}
}

func TestALU(t *testing.T) {
	f := func(a, b uint16) bool {
		slt := uint16(0)
		if a < b {
			slt = 1
		}
		return isa.ALU(a, b, isa.ALUAdd) == uint16((uint32(a)+uint32(b))%(1<<16)) &&
			isa.ALU(a, b, isa.ALUSub) == a-b &&
			isa.ALU(a, b, isa.ALUAnd) == a&b &&
			isa.ALU(a, b, isa.ALUOr) == a|b &&
			isa.ALU(a, b, isa.ALUSlt) == slt
	}
	if err := quick.Check(f, nil); err != nil {
		t.Fatal(err)
	}

	if r := isa.ALU(3, 5, isa.ALUSub); r != 0xfffe {
		t.Errorf("3 - 5 = %#x, expected two's complement 0xfffe", r)
	}
	if r := isa.ALU(0xffff, 1, isa.ALUAdd); r != 0 {
		t.Errorf("0xffff + 1 = %#x, expected 0", r)
	}

	for _, op := range []isa.ALUOp{5, 6, 7} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("ALU op %v did not panic", op)
				}
			}()
			isa.ALU(1, 2, op)
		}()
	}
}

func TestFields(t *testing.T) {
	// ADDI $1, $0, 5
	i := isa.Instruction(0x5015)
	if i.Opcode() != isa.ADDI || i.Rs() != 0 || i.Rt() != 1 || i.Rd() != 5 || i.Imm() != 5 {
		t.Fatalf("bad decode of %#04x: %v %d %d %d", uint16(i), i.Opcode(), i.Rs(), i.Rt(), i.Rd())
	}
	if enc := isa.I(isa.ADDI, 1, 0, 5); enc != i {
		t.Fatalf("I(ADDI, 1, 0, 5) = %#04x", uint16(enc))
	}
	// ADD $3, $1, $2
	if enc := isa.R(isa.ADD, 3, 1, 2); enc != 0x0123 {
		t.Fatalf("R(ADD, 3, 1, 2) = %#04x", uint16(enc))
	}
	if b := isa.Instruction(0x7b10).Bytes(); b != [2]byte{0x7b, 0x10} {
		t.Fatalf("Bytes() = %v", b)
	}
}

func TestSignExtend(t *testing.T) {
	td := []struct {
		in  uint8
		out uint16
	}{
		{0, 0},
		{7, 7},
		{8, 0xfff8},
		{0xf, 0xffff},
	}
	for _, d := range td {
		if got := isa.SignExtend(d.in); got != d.out {
			t.Errorf("SignExtend(%#x) = %#x, expected %#x", d.in, got, d.out)
		}
	}
}

func TestTargets(t *testing.T) {
	// BEQ with offset -1 at pc 8 branches to itself + 0
	beq := isa.I(isa.BEQ, 0, 1, -1)
	if got := isa.BranchTarget(8, beq); got != 8 {
		t.Errorf("BranchTarget(8, -1) = %d, expected 8", got)
	}
	if got := isa.BranchTarget(8, isa.I(isa.BEQ, 0, 1, 1)); got != 12 {
		t.Errorf("BranchTarget(8, 1) = %d, expected 12", got)
	}
	j := isa.J(4)
	if got := isa.JumpTarget(10, j); got != 4 {
		t.Errorf("JumpTarget(10, J 4) = %d, expected 4", got)
	}
	if got := isa.JumpTarget(0x3000, isa.J(0x0ffe)); got != 0x3ffe {
		t.Errorf("JumpTarget(0x3000, J 0xffe) = %#x, expected 0x3ffe", got)
	}
}
