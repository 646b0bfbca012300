// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

/*
Package mips16 emulates a single cycle, 16 bits, MIPS like CPU at the datapath
level.

The CPU is a hwsim circuit built from hwlib parts: a program counter, an
instruction ROM, a register file, an ALU, a control unit, a data memory and the
multiplexers, adders and sign extension units that connect them. Every clock
cycle executes exactly one instruction; the register file, the data memory and
the program counter are updated on the rising edge that ends the cycle.

	cpu, err := mips16.MakeBuilder().Build()
	if err != nil {
		// handle error
	}
	prog, err := asm.Assemble(src)
	if err != nil {
		// handle error
	}
	if err = cpu.LoadProgram(prog); err != nil {
		// handle error
	}
	if err = cpu.Run(10); err != nil {
		// handle error
	}
	fmt.Println(cpu.Reg(3))

Programs can also be packaged with their initial state and expected results as
txtar bundles, see ParseBundle.
*/
package mips16
