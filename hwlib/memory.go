// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import (
	"strconv"

	"github.com/db47h/mips16/bitvec"
	"github.com/db47h/mips16/hwsim"
	"github.com/pkg/errors"
)

// ByteName returns the name of the state signal holding byte i in a memory
// part's scope.
func ByteName(i int) string { return "b" + strconv.Itoa(i) }

func mountMemory(s *hwsim.Socket, size int, rom bool) []hwsim.Component {
	addr, rd := s.Pin("addr"), s.Pin("rd")
	mem := make([]int, size)
	for i := range mem {
		mem[i] = s.NewState(ByteName(i), 8)
	}
	n := uint64(size)

	cs := []hwsim.Component{func(c *hwsim.Circuit) {
		a := c.GetUint(addr) % n
		c.Set(rd, bitvec.Concat(c.Get(mem[a]), c.Get(mem[(a+1)%n])))
	}}
	if rom {
		return cs
	}

	wd, we := s.Pin("wd"), s.Pin("we")
	for i := range mem {
		b, k := mem[i], uint64(i)
		var edge EdgeTracker
		cs = append(cs, func(c *hwsim.Circuit) {
			if !edge.OnClock(c.Clock()) || !c.GetBool(we) {
				return
			}
			a := c.GetUint(addr) % n
			switch k {
			case (a + 1) % n:
				c.Set(b, c.Get(wd).Slice(8, 16))
			case a:
				c.Set(b, c.Get(wd).Slice(0, 8))
			}
		})
	}
	return cs
}

// Memory returns a byte addressable memory of size bytes with 16 bits words
// stored big endian: the byte at the lowest address is the most significant.
// Addresses wrap around modulo size. Byte i is stored in the state signal
// ByteName(i) of the part's scope.
//
// Memory panics if size is not strictly positive.
//
//	Inputs: addr[16], wd[16], we
//	Outputs: rd[16]
//	Function: rd = mem[addr] << 8 | mem[addr+1]
//	          if we(t-1) { mem[addr] = wd[15:8]; mem[addr+1] = wd[7:0] }
func Memory(size int) hwsim.NewPartFn {
	if size <= 0 {
		panic(errors.Errorf("invalid memory size %d", size))
	}
	return (&hwsim.PartSpec{
		Name:    "Memory" + strconv.Itoa(size),
		Inputs:  hwsim.IO("addr[16], wd[16], we"),
		Outputs: hwsim.IO("rd[16]"),
		Mount: func(s *hwsim.Socket) []hwsim.Component {
			return mountMemory(s, size, false)
		}}).NewPart
}

// ROM returns a read only memory of size bytes. Its content can only be set
// with hwsim.Circuit.Poke.
//
//	Inputs: addr[16]
//	Outputs: rd[16]
//	Function: rd = mem[addr] << 8 | mem[addr+1]
func ROM(size int) hwsim.NewPartFn {
	if size <= 0 {
		panic(errors.Errorf("invalid memory size %d", size))
	}
	return (&hwsim.PartSpec{
		Name:    "ROM" + strconv.Itoa(size),
		Inputs:  hwsim.IO("addr[16]"),
		Outputs: hwsim.IO("rd[16]"),
		Mount: func(s *hwsim.Socket) []hwsim.Component {
			return mountMemory(s, size, true)
		}}).NewPart
}
