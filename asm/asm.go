// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package asm implements a two pass assembler and a disassembler for the
// MIPS16 instruction set.
//
// Source files are line oriented. Each line holds an optional label followed
// by an optional instruction. Comments start with ';' or '#':
//
//	      ADDI $1, $0, 3    ; r1 = 3
//	loop: ADD  $2, $2, $1
//	      ADDI $1, $1, -1
//	      BEQ  $1, $0, done
//	      J    loop
//	done: SW   $2, 0($0)
//
// Supported mnemonics are ADD, SUB, AND, OR, SLT (rd, rs, rt), ADDI (rt, rs,
// imm), LW and SW (rt, offset(rs)), BEQ (rs, rt, label or offset), J or JUMP
// (label or address), NOP and the .word directive. Immediates and offsets are
// 4 bits signed values in the range -8..7. BEQ offsets count instructions
// relative to the next instruction. Jump targets must be in the same 4KiB
// region as the jump instruction.
package asm

import (
	"strconv"
	"strings"

	"github.com/db47h/mips16/isa"
	"github.com/pkg/errors"
)

type line struct {
	num  int
	op   string
	args []string
	pc   uint16
}

type assembler struct {
	labels map[string]uint16
	lines  []line
}

func stripComment(s string) string {
	if i := strings.IndexAny(s, ";#"); i >= 0 {
		return s[:i]
	}
	return s
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || r == '.' || 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z':
		case '0' <= r && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

// pass1 splits lines into labels, mnemonics and arguments and assigns
// addresses.
func (a *assembler) pass1(src string) error {
	var pc uint16
	for n, s := range strings.Split(src, "\n") {
		s = strings.TrimSpace(stripComment(s))
		for {
			i := strings.IndexByte(s, ':')
			if i < 0 {
				break
			}
			name := strings.TrimSpace(s[:i])
			if !isIdent(name) {
				return errors.Errorf("line %d: invalid label %q", n+1, name)
			}
			if _, ok := a.labels[name]; ok {
				return errors.Errorf("line %d: duplicate label %s", n+1, name)
			}
			a.labels[name] = pc
			s = strings.TrimSpace(s[i+1:])
		}
		if s == "" {
			continue
		}
		op, rest := s, ""
		if i := strings.IndexAny(s, " \t"); i >= 0 {
			op, rest = s[:i], strings.TrimSpace(s[i+1:])
		}
		var args []string
		if rest != "" {
			for _, arg := range strings.Split(rest, ",") {
				args = append(args, strings.TrimSpace(arg))
			}
		}
		a.lines = append(a.lines, line{num: n + 1, op: strings.ToUpper(op), args: args, pc: pc})
		pc += 2
		if pc == 0 {
			return errors.Errorf("line %d: program too large", n+1)
		}
	}
	return nil
}

func parseReg(s string) (uint8, error) {
	if !strings.HasPrefix(s, "$") {
		return 0, errors.Errorf("invalid register %q", s)
	}
	n, err := strconv.ParseUint(s[1:], 10, 8)
	if err != nil || n >= isa.NumRegs {
		return 0, errors.Errorf("invalid register %q", s)
	}
	return uint8(n), nil
}

func parseNum(s string) (int64, error) {
	n, err := strconv.ParseInt(s, 0, 32)
	if err != nil {
		return 0, errors.Errorf("invalid number %q", s)
	}
	return n, nil
}

func parseImm(s string) (int, error) {
	n, err := parseNum(s)
	if err != nil {
		return 0, err
	}
	if n < -8 || n > 7 {
		return 0, errors.Errorf("immediate %d out of range [-8, 7]", n)
	}
	return int(n), nil
}

// parseMem parses a memory operand of the form offset($rs) or ($rs).
func parseMem(s string) (int, uint8, error) {
	i := strings.IndexByte(s, '(')
	if i < 0 || !strings.HasSuffix(s, ")") {
		return 0, 0, errors.Errorf("invalid memory operand %q", s)
	}
	off := 0
	if o := strings.TrimSpace(s[:i]); o != "" {
		var err error
		if off, err = parseImm(o); err != nil {
			return 0, 0, err
		}
	}
	rs, err := parseReg(strings.TrimSpace(s[i+1 : len(s)-1]))
	return off, rs, err
}

func (a *assembler) target(s string) (int64, bool, error) {
	if pc, ok := a.labels[s]; ok {
		return int64(pc), true, nil
	}
	if isIdent(s) {
		return 0, false, errors.Errorf("undefined label %s", s)
	}
	n, err := parseNum(s)
	return n, false, err
}

func nargs(l *line, n int) error {
	if len(l.args) != n {
		return errors.Errorf("%s expects %d operands, got %d", l.op, n, len(l.args))
	}
	return nil
}

func (a *assembler) encode(l *line) (isa.Instruction, error) {
	switch l.op {
	case "ADD", "SUB", "AND", "OR", "SLT":
		if err := nargs(l, 3); err != nil {
			return 0, err
		}
		var r [3]uint8
		for i := range r {
			var err error
			if r[i], err = parseReg(l.args[i]); err != nil {
				return 0, err
			}
		}
		op := map[string]isa.Opcode{"ADD": isa.ADD, "SUB": isa.SUB, "AND": isa.AND, "OR": isa.OR, "SLT": isa.SLT}[l.op]
		return isa.R(op, r[0], r[1], r[2]), nil

	case "ADDI":
		if err := nargs(l, 3); err != nil {
			return 0, err
		}
		rt, err := parseReg(l.args[0])
		if err != nil {
			return 0, err
		}
		rs, err := parseReg(l.args[1])
		if err != nil {
			return 0, err
		}
		imm, err := parseImm(l.args[2])
		if err != nil {
			return 0, err
		}
		return isa.I(isa.ADDI, rt, rs, imm), nil

	case "LW", "SW":
		if err := nargs(l, 2); err != nil {
			return 0, err
		}
		rt, err := parseReg(l.args[0])
		if err != nil {
			return 0, err
		}
		off, rs, err := parseMem(l.args[1])
		if err != nil {
			return 0, err
		}
		op := isa.LW
		if l.op == "SW" {
			op = isa.SW
		}
		return isa.I(op, rt, rs, off), nil

	case "BEQ":
		if err := nargs(l, 3); err != nil {
			return 0, err
		}
		rs, err := parseReg(l.args[0])
		if err != nil {
			return 0, err
		}
		rt, err := parseReg(l.args[1])
		if err != nil {
			return 0, err
		}
		t, isLabel, err := a.target(l.args[2])
		if err != nil {
			return 0, err
		}
		off := t
		if isLabel {
			off = int64(int16(uint16(t)-(l.pc+2))) / 2
		}
		if off < -8 || off > 7 {
			return 0, errors.Errorf("branch offset %d out of range [-8, 7]", off)
		}
		return isa.I(isa.BEQ, rt, rs, int(off)), nil

	case "J", "JUMP":
		if err := nargs(l, 1); err != nil {
			return 0, err
		}
		n, _, err := a.target(l.args[0])
		if err != nil {
			return 0, err
		}
		if n < 0 || n > 0xffff {
			return 0, errors.Errorf("jump target %d out of 16 bits range", n)
		}
		t := uint16(n)
		if t&1 != 0 {
			return 0, errors.Errorf("jump target %#04x is not aligned", t)
		}
		if t&0xf000 != l.pc&0xf000 {
			return 0, errors.Errorf("jump target %#04x out of the current 4KiB region", t)
		}
		return isa.J(t), nil

	case "NOP":
		if err := nargs(l, 0); err != nil {
			return 0, err
		}
		return isa.Instruction(uint16(isa.NOP) << 12), nil

	case ".WORD":
		if err := nargs(l, 1); err != nil {
			return 0, err
		}
		n, err := parseNum(l.args[0])
		if err != nil {
			return 0, err
		}
		if n < -0x8000 || n > 0xffff {
			return 0, errors.Errorf("value %d out of 16 bits range", n)
		}
		return isa.Instruction(uint16(n)), nil
	}
	return 0, errors.Errorf("unknown instruction %s", l.op)
}

// Assemble assembles the given source code into a sequence of instructions,
// the first one being at address 0.
func Assemble(src string) ([]isa.Instruction, error) {
	a := &assembler{labels: make(map[string]uint16)}
	if err := a.pass1(src); err != nil {
		return nil, err
	}
	out := make([]isa.Instruction, 0, len(a.lines))
	for i := range a.lines {
		l := &a.lines[i]
		code, err := a.encode(l)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", l.num)
		}
		out = append(out, code)
	}
	return out, nil
}

// Bytes returns the memory image of a program: two bytes per instruction, high
// byte first.
func Bytes(prog []isa.Instruction) []byte {
	out := make([]byte, 0, 2*len(prog))
	for _, i := range prog {
		b := i.Bytes()
		out = append(out, b[0], b[1])
	}
	return out
}
