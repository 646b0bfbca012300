// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package mips16

import (
	"fmt"
	"io"

	"github.com/db47h/mips16/asm"
	"github.com/db47h/mips16/isa"
	"github.com/jedib0t/go-pretty/v6/table"
)

const regCols = 4

// WriteState writes the CPU state as text tables to w: the cycle count, the PC,
// the current instruction, the registers and, if mem is true, the data memory.
func (cpu *CPU) WriteState(w io.Writer, mem bool) error {
	i := cpu.Instruction()
	if _, err := fmt.Fprintf(w, "cycle %d  pc %#06x  %04x  %s\n", cpu.Cycles(), cpu.PC(), uint16(i), asm.Disassemble(i)); err != nil {
		return err
	}

	regs := table.NewWriter()
	regs.SetOutputMirror(w)
	regs.SetTitle("Registers")
	header := table.Row{""}
	for c := 0; c < regCols; c++ {
		header = append(header, fmt.Sprintf("+%d", c))
	}
	regs.AppendHeader(header)
	for r := 0; r < isa.NumRegs; r += regCols {
		row := table.Row{fmt.Sprintf("r%d", r)}
		for c := 0; c < regCols; c++ {
			v := cpu.Reg(r + c)
			row = append(row, fmt.Sprintf("%#06x (%d)", v, int16(v)))
		}
		regs.AppendRow(row)
	}
	regs.Render()

	if !mem {
		return nil
	}

	const cols = 8
	data := table.NewWriter()
	data.SetOutputMirror(w)
	data.SetTitle("Data memory")
	header = table.Row{"addr"}
	for c := 0; c < cols; c++ {
		header = append(header, fmt.Sprintf("+%d", c))
	}
	data.AppendHeader(header)
	for a := 0; a < cpu.DataSize(); a += cols {
		row := table.Row{fmt.Sprintf("%04x", a)}
		for c := 0; c < cols && a+c < cpu.DataSize(); c++ {
			row = append(row, fmt.Sprintf("%02x", cpu.DataByte(uint16(a+c))))
		}
		data.AppendRow(row)
	}
	data.Render()
	return nil
}
