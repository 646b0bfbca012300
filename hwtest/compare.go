// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package hwtest provides utility functions for testing circuits.
package hwtest

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/db47h/mips16/hwlib"
	"github.com/db47h/mips16/hwsim"
)

func connString(pins ...[]hwsim.Pin) string {
	var b strings.Builder
	for _, ps := range pins {
		for _, p := range ps {
			if b.Len() > 0 {
				b.WriteRune(',')
			}
			b.WriteString(p.Name)
			b.WriteRune('=')
			b.WriteString(p.Name)
		}
	}
	return b.String()
}

func pinList(pins []hwsim.Pin) string {
	var b strings.Builder
	for _, p := range pins {
		if b.Len() > 0 {
			b.WriteRune(',')
		}
		b.WriteString(p.Name)
		if p.Width > 1 {
			b.WriteRune('[')
			b.WriteString(strconv.Itoa(p.Width))
			b.WriteRune(']')
		}
	}
	return b.String()
}

func samePins(t *testing.T, kind string, p1, p2 []hwsim.Pin) {
	t.Helper()
	if len(p1) != len(p2) {
		t.Fatalf("%s pin count mismatch: %d != %d", kind, len(p1), len(p2))
	}
	for i := range p1 {
		if p1[i] != p2[i] {
			t.Fatalf("%s pin %d mismatch: %v != %v", kind, i, p1[i], p2[i])
		}
	}
}

func mask(width int) uint64 {
	if width >= 64 {
		return ^uint64(0)
	}
	return 1<<uint(width) - 1
}

// ComparePart takes two combinational parts and compares their outputs given
// the same inputs. Both parts must have the same Input/Output interface.
//
// Inputs are set to all zeros, all ones, then random values.
func ComparePart(t *testing.T, part1 hwsim.NewPartFn, part2 hwsim.NewPartFn) {
	t.Helper()

	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))

	ps1, ps2 := part1(""), part2("")
	samePins(t, "input", ps1.Inputs, ps2.Inputs)
	samePins(t, "output", ps1.Outputs, ps2.Outputs)

	conns := connString(ps1.Inputs, ps1.Outputs)
	ps1, ps2 = part1(conns), part2(conns)

	inputs := make([]uint64, len(ps1.Inputs))
	outputs := make([][2]uint64, len(ps1.Outputs))

	// build two wrappers with their own set of outputs
	parts1 := hwsim.Parts{ps1}
	parts2 := hwsim.Parts{ps2}
	for i, o := range ps1.Outputs {
		n := i
		parts1 = append(parts1, hwlib.OutputN(o.Width, func(v uint64) { outputs[n][0] = v })("in="+o.Name))
		parts2 = append(parts2, hwlib.OutputN(o.Width, func(v uint64) { outputs[n][1] = v })("in="+o.Name))
	}
	w1, err := hwsim.Chip("wrapper1", pinList(ps1.Inputs), "", parts1...)
	if err != nil {
		t.Fatal(err)
	}
	w2, err := hwsim.Chip("wrapper2", pinList(ps2.Inputs), "", parts2...)
	if err != nil {
		t.Fatal(err)
	}

	var parts hwsim.Parts
	for i, p := range ps1.Inputs {
		k := i
		parts = append(parts, hwlib.InputN(p.Width, func() uint64 { return inputs[k] })("out="+p.Name))
	}
	cstr := connString(ps1.Inputs)
	parts = append(parts, w1(cstr), w2(cstr))

	c, err := hwsim.NewCircuit(parts...)
	if err != nil {
		t.Fatal(err)
	}

	errString := func(oname string, ex, got uint64) string {
		var b strings.Builder
		for i, p := range ps1.Inputs {
			if b.Len() > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%s=%#x", p.Name, inputs[i])
		}
		return fmt.Sprintf("\nExpected %s => %s=%#x\nGot %#x", b.String(), oname, ex, got)
	}

	check := func() {
		t.Helper()
		if err := c.Settle(); err != nil {
			t.Fatal(err)
		}
		for o, out := range outputs {
			if out[0] != out[1] {
				t.Fatal(errString(ps1.Outputs[o].Name, out[0], out[1]))
			}
		}
	}

	start := time.Now()

	// try all 0
	check()

	// try all 1
	for i, p := range ps1.Inputs {
		inputs[i] = mask(p.Width)
	}
	check()

	iter := 1024
	for i := 0; i < iter; i++ {
		for in, p := range ps1.Inputs {
			inputs[in] = rnd.Uint64() & mask(p.Width)
		}
		check()
	}

	t.Logf("%d components. %d checks in %v", c.Size(), iter+2, time.Since(start))
}
