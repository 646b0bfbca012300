// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Mips16run runs a MIPS16 program on the datapath emulator.
//
// Usage:
//
//	mips16run [flags] file.s|file.txtar
//
// Assembly files are run for -cycles cycles. Bundles run for the cycle count
// in their archive comment, unless -cycles is set, and their expected values
// are checked after the run: mips16run exits with status 1 on mismatch.
//
// With -step, mips16run waits for a key after each cycle: space or enter runs
// one more cycle, c runs to the end and q quits.
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/db47h/mips16"
	"github.com/db47h/mips16/asm"
	"github.com/db47h/mips16/hwsim"
	"github.com/pkg/errors"
	"github.com/tebeka/atexit"
	"golang.org/x/term"
)

var (
	cycles   = flag.Int("cycles", 0, "run `n` cycles (default: bundle cycle count, or 16)")
	trace    = flag.Bool("trace", false, "trace every cycle")
	jsonLog  = flag.Bool("json", false, "write traces as JSON")
	step     = flag.Bool("step", false, "wait for a key after each cycle")
	showMem  = flag.Bool("mem", false, "print data memory on exit")
	imemSize = flag.Int("imem", mips16.DefaultMemSize, "instruction memory size in `bytes`")
	dmemSize = flag.Int("dmem", mips16.DefaultMemSize, "data memory size in `bytes`")
	zero     = flag.Bool("zero", false, "hardwire register 0 to zero")
	fixed    = flag.Bool("fixed", false, "increment the PC unconditionally, ignoring branches and jumps")
)

const defaultCycles = 16

func usage() {
	fmt.Fprintf(os.Stderr, "usage: mips16run [flags] file.s|file.txtar\n")
	flag.PrintDefaults()
	os.Exit(2)
}

func loadBundle(name string) (*mips16.Bundle, error) {
	if filepath.Ext(name) == ".txtar" {
		return mips16.ParseBundleFile(name)
	}
	src, err := os.ReadFile(name)
	if err != nil {
		return nil, err
	}
	prog, err := asm.Assemble(string(src))
	if err != nil {
		return nil, errors.Wrap(err, name)
	}
	return &mips16.Bundle{Name: name, Source: string(src), Program: prog}, nil
}

func newLogger() *slog.Logger {
	if !*trace {
		return nil
	}
	opts := &slog.HandlerOptions{Level: hwsim.LevelTrace}
	if *jsonLog {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

// stepper reads single key presses from a terminal in raw mode.
type stepper struct {
	fd   int
	old  *term.State
	cont bool
}

func newStepper() (*stepper, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return nil, errors.New("-step requires a terminal on standard input")
	}
	old, err := term.MakeRaw(fd)
	if err != nil {
		return nil, err
	}
	s := &stepper{fd: fd, old: old}
	atexit.Register(s.restore)
	return s, nil
}

func (s *stepper) restore() {
	if s.old != nil {
		term.Restore(s.fd, s.old)
		s.old = nil
	}
}

// next reports whether the next cycle should run.
func (s *stepper) next(cpu *mips16.CPU) bool {
	if s.cont {
		return true
	}
	i := cpu.Instruction()
	fmt.Printf("%4d  %04x  %04x  %-20s [space: step, c: continue, q: quit]\r\n",
		cpu.Cycles(), cpu.PC(), uint16(i), asm.Disassemble(i))
	var b [1]byte
	for {
		if _, err := os.Stdin.Read(b[:]); err != nil {
			return false
		}
		switch b[0] {
		case ' ', '\r', '\n':
			return true
		case 'c':
			s.cont = true
			return true
		case 'q', 3: // ^C
			return false
		}
	}
}

// fatal logs err and exits, running atexit handlers.
func fatal(err error) {
	log.Print(err)
	atexit.Exit(1)
}

func main() {
	log.SetPrefix("mips16run: ")
	log.SetFlags(0)
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() != 1 {
		usage()
	}

	b, err := loadBundle(flag.Arg(0))
	if err != nil {
		log.Fatal(err)
	}
	cpu, err := mips16.MakeBuilder().
		WithInstrMemSize(*imemSize).
		WithDataMemSize(*dmemSize).
		WithHardwiredZero(*zero).
		WithFixedSequencing(*fixed).
		WithLogger(newLogger()).
		Build()
	if err != nil {
		log.Fatal(err)
	}
	if err = b.Load(cpu); err != nil {
		log.Fatal(err)
	}

	n := *cycles
	if n == 0 {
		n = b.Cycles
	}
	if n == 0 {
		n = defaultCycles
	}

	var st *stepper
	if *step {
		if st, err = newStepper(); err != nil {
			log.Fatal(err)
		}
	}
	for ; n > 0; n-- {
		if st != nil && !st.next(cpu) {
			break
		}
		if err = cpu.Step(); err != nil {
			fatal(err)
		}
	}
	if st != nil {
		st.restore()
	}

	if err = cpu.WriteState(os.Stdout, *showMem); err != nil {
		fatal(err)
	}
	if err = b.Check(cpu); err != nil {
		fmt.Fprintln(os.Stderr, err)
		atexit.Exit(1)
	}
	atexit.Exit(0)
}
