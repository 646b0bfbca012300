// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package mips16

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/db47h/mips16/asm"
	"github.com/db47h/mips16/isa"
	"github.com/pkg/errors"
	"golang.org/x/tools/txtar"
)

// A Bundle is a program packaged with its initial state and expected results.
//
// Bundles are stored as txtar archives:
//
//	cycles 10
//	-- prog.s --
//	ADDI $1, $0, 5
//	...
//	-- regs --
//	r11 = 4
//	-- data --
//	00 05 ab cd
//	-- want --
//	r1 = 5
//	pc = 10
//	mem[4] = 0x0005
//
// Only prog.s is required. The archive comment may hold the number of cycles
// to run. data holds hexadecimal bytes loaded at address 0 of the data memory.
// Lines starting with '#' are ignored in regs, data and want. Values in regs
// and want are 16 bits integers in Go syntax and may be negative.
type Bundle struct {
	Name    string
	Cycles  int
	Source  string
	Program []isa.Instruction
	Regs    map[int]uint16
	Data    []byte
	Want    []Expect
}

// An Expect is an expected value after a bundle has run. Name is a register
// name "rN", "pc" or "mem[A]" for the data memory word at address A.
type Expect struct {
	Name  string
	Value uint16
}

// ParseBundleFile parses the named txtar file.
func ParseBundleFile(name string) (*Bundle, error) {
	ar, err := txtar.ParseFile(name)
	if err != nil {
		return nil, err
	}
	return parseBundle(name, ar)
}

// ParseBundle parses a bundle from a txtar archive. The name is used in error
// messages.
func ParseBundle(name string, data []byte) (*Bundle, error) {
	return parseBundle(name, txtar.Parse(data))
}

func parseBundle(name string, ar *txtar.Archive) (*Bundle, error) {
	b := &Bundle{Name: name, Regs: make(map[int]uint16)}
	err := eachLine(ar.Comment, func(l string) error {
		f := strings.Fields(l)
		if len(f) != 2 || f[0] != "cycles" {
			return errors.Errorf("unexpected comment line %q", l)
		}
		n, err := strconv.Atoi(f[1])
		if err != nil || n < 0 {
			return errors.Errorf("invalid cycle count %q", f[1])
		}
		b.Cycles = n
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, name)
	}

	var hasProg bool
	for _, f := range ar.Files {
		switch f.Name {
		case "prog.s":
			hasProg = true
			b.Source = string(f.Data)
			b.Program, err = asm.Assemble(b.Source)
		case "regs":
			err = eachLine(f.Data, func(l string) error {
				k, v, err := assignment(l)
				if err != nil {
					return err
				}
				r, err := regNum(k)
				if err != nil {
					return err
				}
				b.Regs[r] = v
				return nil
			})
		case "data":
			err = eachLine(f.Data, func(l string) error {
				for _, s := range strings.Fields(l) {
					v, err := strconv.ParseUint(s, 16, 8)
					if err != nil {
						return errors.Errorf("invalid byte %q", s)
					}
					b.Data = append(b.Data, byte(v))
				}
				return nil
			})
		case "want":
			err = eachLine(f.Data, func(l string) error {
				k, v, err := assignment(l)
				if err != nil {
					return err
				}
				b.Want = append(b.Want, Expect{k, v})
				return nil
			})
		default:
			err = errors.New("unknown file")
		}
		if err != nil {
			return nil, errors.Wrapf(err, "%s: %s", name, f.Name)
		}
	}
	if !hasProg {
		return nil, errors.Errorf("%s: missing prog.s", name)
	}
	return b, nil
}

func eachLine(data []byte, f func(string) error) error {
	s := bufio.NewScanner(bytes.NewReader(data))
	n := 0
	for s.Scan() {
		n++
		l := strings.TrimSpace(s.Text())
		if l == "" || l[0] == '#' {
			continue
		}
		if err := f(l); err != nil {
			return errors.Wrapf(err, "line %d", n)
		}
	}
	return s.Err()
}

func assignment(l string) (string, uint16, error) {
	k, v, ok := strings.Cut(l, "=")
	if !ok {
		return "", 0, errors.Errorf("expected name = value, got %q", l)
	}
	k, v = strings.TrimSpace(k), strings.TrimSpace(v)
	n, err := strconv.ParseInt(v, 0, 32)
	if err != nil || n < -0x8000 || n > 0xffff {
		return "", 0, errors.Errorf("invalid 16 bits value %q", v)
	}
	return k, uint16(n), nil
}

func regNum(s string) (int, error) {
	if strings.HasPrefix(s, "r") {
		if n, err := strconv.Atoi(s[1:]); err == nil && n >= 0 && n < isa.NumRegs {
			return n, nil
		}
	}
	return 0, errors.Errorf("invalid register name %q", s)
}

// Load loads the program, registers and data of the bundle into cpu.
func (b *Bundle) Load(cpu *CPU) error {
	if err := cpu.LoadProgram(b.Program); err != nil {
		return err
	}
	for r, v := range b.Regs {
		if err := cpu.SetReg(r, v); err != nil {
			return err
		}
	}
	if len(b.Data) > 0 {
		return cpu.LoadData(0, b.Data)
	}
	return nil
}

// Probe returns the value of a register ("rN"), the program counter ("pc") or
// a data memory word ("mem[A]").
func (cpu *CPU) Probe(name string) (uint16, error) {
	switch {
	case name == "pc":
		return cpu.PC(), nil
	case strings.HasPrefix(name, "mem[") && strings.HasSuffix(name, "]"):
		a, err := strconv.ParseUint(name[4:len(name)-1], 0, 16)
		if err != nil {
			return 0, errors.Errorf("invalid memory address in %q", name)
		}
		return cpu.DataWord(uint16(a)), nil
	}
	r, err := regNum(name)
	if err != nil {
		return 0, err
	}
	return cpu.Reg(r), nil
}

// Check compares the state of cpu against the bundle's expected values. The
// returned error lists all mismatches.
func (b *Bundle) Check(cpu *CPU) error {
	var msgs []string
	for _, e := range b.Want {
		v, err := cpu.Probe(e.Name)
		if err != nil {
			return errors.Wrap(err, b.Name)
		}
		if v != e.Value {
			msgs = append(msgs, fmt.Sprintf("%s = %#06x, want %#06x", e.Name, v, e.Value))
		}
	}
	if len(msgs) > 0 {
		return errors.Errorf("%s: %s", b.Name, strings.Join(msgs, "; "))
	}
	return nil
}
