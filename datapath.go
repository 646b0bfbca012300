// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package mips16

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/db47h/mips16/asm"
	"github.com/db47h/mips16/bitvec"
	"github.com/db47h/mips16/hwlib"
	"github.com/db47h/mips16/hwsim"
	"github.com/db47h/mips16/isa"
	"github.com/pkg/errors"
)

// DefaultMemSize is the default size in bytes of the instruction and data
// memories.
const DefaultMemSize = 32

// Part labels. State signals are named after them: register 5 is "regs.r5",
// data memory byte 4 is "dmem.b4" and the program counter is "pc.q".
const (
	LabelPC   = "pc"
	LabelIMem = "imem"
	LabelDMem = "dmem"
	LabelRegs = "regs"
)

// Builder configures and builds CPUs.
type Builder struct {
	imemSize int
	dmemSize int
	regs     [isa.NumRegs]uint16
	zero     bool
	fixed    bool
	log      *slog.Logger
}

// MakeBuilder returns a Builder with default settings: DefaultMemSize bytes
// of instruction and data memory, all registers cleared, a writable register 0
// and full branch and jump sequencing.
func MakeBuilder() Builder {
	return Builder{
		imemSize: DefaultMemSize,
		dmemSize: DefaultMemSize,
	}
}

// WithInstrMemSize sets the size in bytes of the instruction memory.
func (b Builder) WithInstrMemSize(n int) Builder {
	b.imemSize = n
	return b
}

// WithDataMemSize sets the size in bytes of the data memory.
func (b Builder) WithDataMemSize(n int) Builder {
	b.dmemSize = n
	return b
}

// WithRegisters sets the initial register values.
func (b Builder) WithRegisters(regs [isa.NumRegs]uint16) Builder {
	b.regs = regs
	return b
}

// WithHardwiredZero makes register 0 always read as zero and ignore writes.
func (b Builder) WithHardwiredZero(zero bool) Builder {
	b.zero = zero
	return b
}

// WithFixedSequencing replaces the next PC logic with a counter that adds 2 to
// the PC on every cycle. Branches and jumps have no effect.
func (b Builder) WithFixedSequencing(fixed bool) Builder {
	b.fixed = fixed
	return b
}

// WithLogger sets the logger used for cycle traces.
func (b Builder) WithLogger(l *slog.Logger) Builder {
	b.log = l
	return b
}

func checkMemSize(name string, n int) error {
	if n <= 0 || n > 1<<16 {
		return errors.Errorf("invalid %s size %d, must be in [1, 65536]", name, n)
	}
	return nil
}

// Parts returns the parts of the datapath.
func (b Builder) Parts() []hwsim.Part {
	alu := "a=rd1, b=alu_b, op=alu_op, out=alu_out"
	ctl := "op=op, reg_dst=reg_dst, alu_src=alu_src, mem_to_reg=mem_to_reg, " +
		"reg_write=reg_write, mem_write=mem_write, alu_op=alu_op"
	if !b.fixed {
		alu += ", zero=zero"
		ctl += ", branch=branch, jump=jump"
	}

	parts := []hwsim.Part{
		hwlib.ROM(b.imemSize)("addr=pc, rd=instr").As(LabelIMem),
		hwlib.Splitter(16, "op[4], rs[4], rt[4], rd[4]")("in=instr, op=op, rs=rs, rt=rt, rd=rd").As("decode"),
		hwlib.Control(ctl).As("ctrl"),
		hwlib.Mux4("a=rt, b=rd, sel=reg_dst, out=write_reg").As("regdst"),
		hwlib.RegisterFile(b.zero)("ra1=rs, ra2=rt, wa=write_reg, wd=write_data, we=reg_write, " +
			"rd1=rd1, rd2=rd2").As(LabelRegs),
		hwlib.SignExtend(4, 16)("in=rd, out=imm").As("sext"),
		hwlib.Mux16("a=rd2, b=imm, sel=alu_src, out=alu_b").As("alusrc"),
		hwlib.ALU(alu).As("alu"),
		hwlib.Memory(b.dmemSize)("addr=alu_out, wd=rd2, we=mem_write, rd=mem_out").As(LabelDMem),
		hwlib.Mux16("a=alu_out, b=mem_out, sel=mem_to_reg, out=write_data").As("wb"),
	}

	if b.fixed {
		return append(parts, hwlib.Counter(16, 2)("out=pc").As(LabelPC))
	}
	return append(parts,
		hwlib.Const(16, 2)("out=two").As("two"),
		hwlib.Adder16("a=pc, b=two, out=pc_plus2").As("pcinc"),
		hwlib.ShiftLeft(16, 1)("in=imm, out=imm_shl").As("shl"),
		hwlib.Adder16("a=pc_plus2, b=imm_shl, out=branch_target").As("btarget"),
		hwlib.And("a=branch, b=zero, out=take_branch").As("taken"),
		hwlib.Mux16("a=pc_plus2, b=branch_target, sel=take_branch, out=pc_branch").As("bmux"),
		hwlib.JumpAddr("pc=pc, instr=instr, out=jump_target").As("jaddr"),
		hwlib.Mux16("a=pc_branch, b=jump_target, sel=jump, out=next_pc").As("jmux"),
		hwlib.PC("in=next_pc, out=pc").As(LabelPC),
	)
}

// Build builds a new CPU.
func (b Builder) Build() (*CPU, error) {
	if err := checkMemSize("instruction memory", b.imemSize); err != nil {
		return nil, err
	}
	if err := checkMemSize("data memory", b.dmemSize); err != nil {
		return nil, err
	}
	c, err := hwsim.NewCircuit(b.Parts()...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build datapath")
	}
	log := b.log
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	c.SetLogger(log)

	cpu := &CPU{
		c:    c,
		log:  log,
		code: make([]int, b.imemSize),
		data: make([]int, b.dmemSize),
		zero: b.zero,
	}
	lookup := func(name string) int {
		n, ok := c.Lookup(name)
		if !ok {
			panic(errors.Errorf("signal %s not found", name))
		}
		return n
	}
	cpu.sig.pc = lookup("pc")
	cpu.sig.instr = lookup("instr")
	cpu.sig.regWrite = lookup("reg_write")
	cpu.sig.writeReg = lookup("write_reg")
	cpu.sig.writeData = lookup("write_data")
	cpu.sig.memWrite = lookup("mem_write")
	cpu.sig.aluOut = lookup("alu_out")
	cpu.sig.rd2 = lookup("rd2")
	for i := range cpu.regs {
		cpu.regs[i] = lookup(LabelRegs + "." + hwlib.RegName(i))
	}
	for i := range cpu.code {
		cpu.code[i] = lookup(LabelIMem + "." + hwlib.ByteName(i))
	}
	for i := range cpu.data {
		cpu.data[i] = lookup(LabelDMem + "." + hwlib.ByteName(i))
	}

	for i, v := range b.regs {
		if err = cpu.SetReg(i, v); err != nil {
			return nil, err
		}
	}
	return cpu, nil
}

// A CPU is a running instance of the datapath.
type CPU struct {
	c    *hwsim.Circuit
	log  *slog.Logger
	zero bool

	sig struct {
		pc, instr, regWrite, writeReg, writeData, memWrite, aluOut, rd2 int
	}
	regs [isa.NumRegs]int
	code []int
	data []int
}

// Circuit returns the underlying circuit.
func (cpu *CPU) Circuit() *hwsim.Circuit { return cpu.c }

func (cpu *CPU) poke(n int, v bitvec.Vector) error {
	return cpu.c.Poke(cpu.c.Name(n), v)
}

// LoadProgram loads a program at address 0 of the instruction memory.
func (cpu *CPU) LoadProgram(prog []isa.Instruction) error {
	code := asm.Bytes(prog)
	if len(code) > len(cpu.code) {
		return errors.Errorf("program too large: %d bytes, instruction memory size is %d", len(code), len(cpu.code))
	}
	for i, b := range code {
		if err := cpu.poke(cpu.code[i], bitvec.New(8, uint64(b))); err != nil {
			return err
		}
	}
	return cpu.c.Settle()
}

// LoadData copies data into the data memory starting at addr. Addresses wrap
// around.
func (cpu *CPU) LoadData(addr uint16, data []byte) error {
	if len(data) > len(cpu.data) {
		return errors.Errorf("data too large: %d bytes, data memory size is %d", len(data), len(cpu.data))
	}
	n := len(cpu.data)
	for i, b := range data {
		if err := cpu.poke(cpu.data[(int(addr)+i)%n], bitvec.New(8, uint64(b))); err != nil {
			return err
		}
	}
	return cpu.c.Settle()
}

// SetReg sets the value of register i.
func (cpu *CPU) SetReg(i int, v uint16) error {
	if i < 0 || i >= isa.NumRegs {
		return errors.Errorf("invalid register number %d", i)
	}
	if cpu.zero && i == 0 {
		if v != 0 {
			return errors.New("register 0 is hardwired to zero")
		}
		return nil
	}
	if err := cpu.poke(cpu.regs[i], bitvec.New(16, uint64(v))); err != nil {
		return err
	}
	return cpu.c.Settle()
}

// Reg returns the value of register i.
func (cpu *CPU) Reg(i int) uint16 {
	if cpu.zero && i == 0 {
		return 0
	}
	return uint16(cpu.c.GetUint(cpu.regs[i]))
}

// PC returns the address of the current instruction.
func (cpu *CPU) PC() uint16 { return uint16(cpu.c.GetUint(cpu.sig.pc)) }

// Instruction returns the current instruction.
func (cpu *CPU) Instruction() isa.Instruction {
	return isa.Instruction(cpu.c.GetUint(cpu.sig.instr))
}

// DataByte returns the data memory byte at address addr.
func (cpu *CPU) DataByte(addr uint16) byte {
	return byte(cpu.c.GetUint(cpu.data[int(addr)%len(cpu.data)]))
}

// DataWord returns the 16 bits word at address addr in data memory.
func (cpu *CPU) DataWord(addr uint16) uint16 {
	n := len(cpu.data)
	a := int(addr) % n
	return uint16(cpu.DataByte(uint16(a)))<<8 | uint16(cpu.DataByte(uint16((a+1)%n)))
}

// DataSize returns the size of the data memory.
func (cpu *CPU) DataSize() int { return len(cpu.data) }

// Signal returns the current value of the named datapath signal.
func (cpu *CPU) Signal(name string) (bitvec.Vector, error) { return cpu.c.Value(name) }

// Cycles returns the number of executed cycles.
func (cpu *CPU) Cycles() uint64 { return cpu.c.Cycles() }

// Step executes the current instruction and moves to the next one.
func (cpu *CPU) Step() error {
	if cpu.log.Enabled(context.Background(), hwsim.LevelTrace) {
		cpu.trace()
	}
	return errors.Wrapf(cpu.c.Step(), "cycle %d", cpu.c.Cycles()+1)
}

func (cpu *CPU) trace() {
	c, i := cpu.c, cpu.Instruction()
	attrs := []any{
		"cycle", c.Cycles() + 1,
		"pc", cpu.PC(),
		"instr", uint16(i),
		"asm", asm.Disassemble(i),
	}
	switch {
	case c.GetBool(cpu.sig.regWrite):
		attrs = append(attrs,
			"reg", "r"+strconv.Itoa(int(c.GetUint(cpu.sig.writeReg))),
			"value", uint16(c.GetUint(cpu.sig.writeData)))
	case c.GetBool(cpu.sig.memWrite):
		attrs = append(attrs,
			"mem", uint16(c.GetUint(cpu.sig.aluOut)),
			"value", uint16(c.GetUint(cpu.sig.rd2)))
	}
	cpu.log.Log(context.Background(), hwsim.LevelTrace, "cycle", attrs...)
}

// Run executes n cycles.
func (cpu *CPU) Run(n int) error {
	for ; n > 0; n-- {
		if err := cpu.Step(); err != nil {
			return err
		}
	}
	return nil
}
