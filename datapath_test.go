package mips16_test

import (
	"bytes"
	"log/slog"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/db47h/mips16"
	"github.com/db47h/mips16/asm"
	"github.com/db47h/mips16/hwsim"
)

func load(cpu *mips16.CPU, src string) {
	prog, err := asm.Assemble(src)
	Expect(err).NotTo(HaveOccurred())
	Expect(cpu.LoadProgram(prog)).To(Succeed())
}

var _ = Describe("CPU", func() {
	var cpu *mips16.CPU

	BeforeEach(func() {
		var err error
		cpu, err = mips16.MakeBuilder().Build()
		Expect(err).NotTo(HaveOccurred())
	})

	It("should run the reference program", func() {
		load(cpu, `
			ADDI $1, $0, 5
			ADDI $2, $0, 3
			ADD  $3, $1, $2
			SUB  $4, $3, $2
			SLT  $5, $2, $1
		`)
		Expect(cpu.Run(10)).To(Succeed())
		Expect(cpu.Cycles()).To(Equal(uint64(10)))
		var regs []uint16
		for i := 1; i <= 5; i++ {
			regs = append(regs, cpu.Reg(i))
		}
		Expect(regs).To(Equal([]uint16{5, 3, 8, 5, 1}))
	})

	It("should store and load words", func() {
		Expect(cpu.SetReg(1, 0xbeef)).To(Succeed())
		Expect(cpu.SetReg(11, 4)).To(Succeed())
		load(cpu, "SW $1, 0($11)\nLW $12, 0($11)")
		Expect(cpu.Run(2)).To(Succeed())
		Expect(cpu.DataByte(4)).To(Equal(byte(0xbe)))
		Expect(cpu.DataByte(5)).To(Equal(byte(0xef)))
		Expect(cpu.Reg(12)).To(Equal(uint16(0xbeef)))
	})

	It("should only update registers on the rising edge", func() {
		load(cpu, "ADDI $1, $0, 7")
		Expect(cpu.Reg(1)).To(Equal(uint16(0)))
		v, err := cpu.Signal("write_data")
		Expect(err).NotTo(HaveOccurred())
		Expect(v.Uint()).To(Equal(uint64(7)))

		c := cpu.Circuit()
		Expect(c.Tick()).To(Succeed())
		Expect(cpu.Reg(1)).To(Equal(uint16(0)))
		Expect(cpu.PC()).To(Equal(uint16(0)))
		Expect(c.Tock()).To(Succeed())
		Expect(cpu.Reg(1)).To(Equal(uint16(7)))
		Expect(cpu.PC()).To(Equal(uint16(2)))
		// no second edge while the clock stays high
		Expect(c.Tock()).To(Succeed())
		Expect(cpu.PC()).To(Equal(uint16(2)))
	})

	It("should read the pre-edge value of a register written in the same cycle", func() {
		Expect(cpu.SetReg(1, 1)).To(Succeed())
		load(cpu, "ADD $1, $1, $1\nADD $1, $1, $1")
		Expect(cpu.Run(2)).To(Succeed())
		Expect(cpu.Reg(1)).To(Equal(uint16(4)))
	})

	It("should let register 0 be written by default", func() {
		load(cpu, "ADDI $0, $0, 5")
		Expect(cpu.Step()).To(Succeed())
		Expect(cpu.Reg(0)).To(Equal(uint16(5)))
	})

	It("should execute undefined opcodes as no-ops", func() {
		Expect(cpu.SetReg(1, 9)).To(Succeed())
		load(cpu, ".word 0xa111\nNOP")
		Expect(cpu.Run(2)).To(Succeed())
		Expect(cpu.Reg(1)).To(Equal(uint16(9)))
		Expect(cpu.PC()).To(Equal(uint16(4)))
	})

	It("should wrap subtraction around", func() {
		load(cpu, "ADDI $1, $0, 3\nADDI $2, $0, 5\nSUB $3, $1, $2\nSLT $4, $3, $1")
		Expect(cpu.Run(4)).To(Succeed())
		Expect(cpu.Reg(3)).To(Equal(uint16(0xfffe)))
		// SLT is unsigned: 0xfffe < 3 is false
		Expect(cpu.Reg(4)).To(Equal(uint16(0)))
	})

	It("should take backward branches", func() {
		load(cpu, `
			ADDI $1, $0, 2
		loop:	ADDI $1, $1, -1
			BEQ  $1, $0, out
			BEQ  $0, $0, loop
		out:	J out
		`)
		Expect(cpu.Run(8)).To(Succeed())
		Expect(cpu.Reg(1)).To(Equal(uint16(0)))
		Expect(cpu.PC()).To(Equal(uint16(8)))
	})

	It("should reject programs larger than the instruction memory", func() {
		p, err := asm.Assemble(strings.Repeat("NOP\n", 17))
		Expect(err).NotTo(HaveOccurred())
		Expect(cpu.LoadProgram(p)).To(MatchError(ContainSubstring("program too large")))
	})

	It("should validate register numbers", func() {
		Expect(cpu.SetReg(16, 1)).To(MatchError(ContainSubstring("invalid register number 16")))
		_, err := cpu.Probe("r16")
		Expect(err).To(HaveOccurred())
	})

	It("should write a state dump", func() {
		Expect(cpu.SetReg(5, 0xffff)).To(Succeed())
		Expect(cpu.LoadData(30, []byte{0xca, 0xfe, 0x01})).To(Succeed())
		Expect(cpu.DataWord(30)).To(Equal(uint16(0xcafe)))
		Expect(cpu.DataWord(31)).To(Equal(uint16(0xfe01)))
		var buf bytes.Buffer
		Expect(cpu.WriteState(&buf, true)).To(Succeed())
		Expect(buf.String()).To(ContainSubstring("Registers"))
		Expect(buf.String()).To(ContainSubstring("0xffff (-1)"))
		Expect(buf.String()).To(ContainSubstring("Data memory"))
		Expect(buf.String()).To(ContainSubstring("ca"))
	})
})

var _ = Describe("Builder", func() {
	It("should reject invalid memory sizes", func() {
		_, err := mips16.MakeBuilder().WithDataMemSize(0).Build()
		Expect(err).To(MatchError(ContainSubstring("invalid data memory size 0")))
		_, err = mips16.MakeBuilder().WithInstrMemSize(1 << 17).Build()
		Expect(err).To(MatchError(ContainSubstring("invalid instruction memory size")))
	})

	It("should set initial registers", func() {
		var regs [16]uint16
		regs[3] = 42
		cpu, err := mips16.MakeBuilder().WithRegisters(regs).Build()
		Expect(err).NotTo(HaveOccurred())
		Expect(cpu.Reg(3)).To(Equal(uint16(42)))
	})

	It("should hardwire register 0 to zero", func() {
		cpu, err := mips16.MakeBuilder().WithHardwiredZero(true).Build()
		Expect(err).NotTo(HaveOccurred())
		load(cpu, "ADDI $0, $0, 5\nADD $1, $0, $0")
		Expect(cpu.Run(2)).To(Succeed())
		Expect(cpu.Reg(0)).To(Equal(uint16(0)))
		Expect(cpu.Reg(1)).To(Equal(uint16(0)))
		Expect(cpu.SetReg(0, 1)).To(HaveOccurred())
	})

	It("should ignore branches and jumps with fixed sequencing", func() {
		cpu, err := mips16.MakeBuilder().WithFixedSequencing(true).Build()
		Expect(err).NotTo(HaveOccurred())
		load(cpu, "BEQ $0, $0, 7\nJ 0\nADDI $1, $0, 1")
		Expect(cpu.Run(3)).To(Succeed())
		Expect(cpu.PC()).To(Equal(uint16(6)))
		Expect(cpu.Reg(1)).To(Equal(uint16(1)))
	})

	It("should trace cycles", func() {
		var buf bytes.Buffer
		log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: hwsim.LevelTrace}))
		cpu, err := mips16.MakeBuilder().WithLogger(log).Build()
		Expect(err).NotTo(HaveOccurred())
		load(cpu, "ADDI $1, $0, 5\nSW $1, 0($0)")
		Expect(cpu.Run(2)).To(Succeed())
		out := buf.String()
		Expect(out).To(ContainSubstring(`msg=cycle cycle=1 pc=0 instr=20501 asm="ADDI $1, $0, 5" reg=r1 value=5`))
		Expect(out).To(ContainSubstring(`msg=cycle cycle=2 pc=2 instr=28688 asm="SW $1, 0($0)" mem=0 value=5`))
		Expect(out).To(ContainSubstring("msg=clock"))
	})
})

var _ = Describe("Bundles", func() {
	It("should run all testdata bundles", func() {
		files, err := filepath.Glob("testdata/*.txtar")
		Expect(err).NotTo(HaveOccurred())
		Expect(files).NotTo(BeEmpty())
		for _, f := range files {
			By(f)
			b, err := mips16.ParseBundleFile(f)
			Expect(err).NotTo(HaveOccurred())
			cpu, err := mips16.MakeBuilder().Build()
			Expect(err).NotTo(HaveOccurred())
			Expect(b.Load(cpu)).To(Succeed())
			Expect(cpu.Run(b.Cycles)).To(Succeed())
			Expect(b.Check(cpu)).To(Succeed())
		}
	})

	It("should report mismatches", func() {
		b, err := mips16.ParseBundle("t", []byte("-- prog.s --\nADDI $1, $0, 1\n-- want --\nr1 = 2\npc = 2\n"))
		Expect(err).NotTo(HaveOccurred())
		cpu, err := mips16.MakeBuilder().Build()
		Expect(err).NotTo(HaveOccurred())
		Expect(b.Load(cpu)).To(Succeed())
		Expect(cpu.Step()).To(Succeed())
		Expect(b.Check(cpu)).To(MatchError("t: r1 = 0x0001, want 0x0002"))
	})

	DescribeTable("parse errors",
		func(src, msg string) {
			_, err := mips16.ParseBundle("t", []byte(src))
			Expect(err).To(MatchError(ContainSubstring(msg)))
		},
		Entry("missing program", "-- want --\nr1 = 1\n", "missing prog.s"),
		Entry("unknown file", "-- prog.s --\nNOP\n-- foo --\n", "foo: unknown file"),
		Entry("bad comment", "run 10\n-- prog.s --\nNOP\n", "unexpected comment line"),
		Entry("bad register", "-- prog.s --\nNOP\n-- regs --\nr16 = 1\n", `invalid register name "r16"`),
		Entry("bad value", "-- prog.s --\nNOP\n-- want --\nr1 = 0x10000\n", "invalid 16 bits value"),
		Entry("bad byte", "-- prog.s --\nNOP\n-- data --\n0g\n", `invalid byte "0g"`),
		Entry("bad assembly", "-- prog.s --\nFOO\n", "prog.s: line 1: unknown instruction FOO"),
	)
})
