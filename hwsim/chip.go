// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwsim

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const (
	wireInternal = iota
	wireInput
	wireOutput
	wireReserved
)

// a wire connects one driver (a part output or a chip input) to any number of
// part inputs.
type wire struct {
	name   string
	width  int
	kind   int
	driver string
	loads  int
}

type chip struct {
	PartSpec
	parts  []Part
	labels []string
	wires  []*wire // internal wires
}

func (c *chip) mount(s *Socket) []Component {
	var cs []Component

	wires := make(map[string]int, len(c.Inputs)+len(c.Outputs)+len(c.wires)+3)
	for _, n := range []string{False, True, Clk} {
		wires[n] = s.Pin(n)
	}
	for _, p := range c.Inputs {
		wires[p.Name] = s.Pin(p.Name)
	}
	for _, p := range c.Outputs {
		wires[p.Name] = s.Pin(p.Name)
	}
	for _, w := range c.wires {
		wires[w.name] = s.c.alloc(w.width, s.qualify(w.name))
	}
	for i, p := range c.parts {
		cs = append(cs, s.mount(p, s.qualify(c.labels[i]), wires)...)
	}
	return cs
}

// Chip composes existing parts into a new part packaged into a chip.
// The pins specified as inputs and outputs will be the inputs and outputs of
// the chip.
//
// A 16 bits 2 way multiplexer could be created like this:
//
//	mux16, err := Chip(
//		"MUX16",
//		"a[16], b[16], sel",
//		"out[16]",
//		hwlib.Not("in=sel, out=nsel"),
//		hwlib.Fan(16)("in=nsel, out=nsel16"),
//		...
//	)
//
// The returned value is a NewPartFn that can be used to compose the new part
// with others into other chips.
//
// Chip checks the wiring of all parts: pin names must exist, widths must
// match, every wire must have exactly one driver and wires driven by a part
// must be used by at least one other part or be a chip output. Unconnected
// part inputs read zero and unconnected part outputs are ignored.
func Chip(name string, inputs string, outputs string, parts ...Part) (NewPartFn, error) {
	ins, err := parsePins(inputs)
	if err != nil {
		return nil, errors.Wrap(err, "chip "+name+" inputs")
	}
	outs, err := parsePins(outputs)
	if err != nil {
		return nil, errors.Wrap(err, "chip "+name+" outputs")
	}

	wr := make(map[string]*wire)
	var order []*wire
	for _, n := range []string{False, True, Clk} {
		wr[n] = &wire{name: n, width: 1, kind: wireReserved}
	}
	for _, p := range ins {
		if wr[p.Name] != nil {
			return nil, errors.Errorf("duplicate pin name %s in chip %s", p.Name, name)
		}
		wr[p.Name] = &wire{name: p.Name, width: p.Width, kind: wireInput}
	}
	for _, p := range outs {
		if wr[p.Name] != nil {
			return nil, errors.Errorf("duplicate pin name %s in chip %s", p.Name, name)
		}
		w := &wire{name: p.Name, width: p.Width, kind: wireOutput}
		wr[p.Name] = w
		order = append(order, w)
	}

	labels := make([]string, len(parts))
	seen := make(map[string]bool, len(parts))
	for pnum, p := range parts {
		l := p.label
		if l == "" {
			l = strings.ToLower(p.Name) + strconv.Itoa(pnum)
		}
		if seen[l] {
			return nil, errors.Errorf("duplicate part label %s in chip %s", l, name)
		}
		seen[l] = true
		labels[pnum] = l

		used := make(map[string]bool, len(p.Conns))
		for _, c := range p.Conns {
			pin, isInput, ok := p.Pin(c.Pin)
			if !ok {
				return nil, errors.New("invalid pin name " + c.Pin + " for part " + p.Name)
			}
			pn := p.Name + "." + c.Pin
			if used[c.Pin] {
				if isInput {
					return nil, errors.New(pn + ": input pin connected more than once")
				}
				return nil, errors.New(pn + ": output pin connected to more than one wire")
			}
			used[c.Pin] = true

			w := wr[c.Wire]
			if w == nil {
				w = &wire{name: c.Wire, width: pin.Width}
				wr[c.Wire] = w
				order = append(order, w)
			}
			if w.width != pin.Width {
				return nil, errors.Errorf("%s:%s: width mismatch: %d bits pin, %d bits wire", pn, c.Wire, pin.Width, w.width)
			}
			if isInput {
				w.loads++
				continue
			}
			switch {
			case w.kind == wireReserved:
				return nil, errors.New(pn + ":" + c.Wire + ": output pin connected to constant " + c.Wire + " input")
			case w.kind == wireInput:
				return nil, errors.New(pn + ":" + c.Wire + ": chip input pin used as output")
			case w.driver != "":
				return nil, errors.New(pn + ":" + c.Wire + ": output pin already used as output by " + w.driver)
			}
			w.driver = pn
		}
	}

	var internal []*wire
	for _, w := range order {
		if w.kind == wireOutput {
			continue
		}
		if w.driver == "" {
			return nil, errors.New("pin " + w.name + " not connected to any output")
		}
		if w.loads == 0 {
			return nil, errors.New("pin " + w.name + " not connected to any input")
		}
		internal = append(internal, w)
	}

	c := &chip{
		PartSpec: PartSpec{
			Name:    name,
			Inputs:  ins,
			Outputs: outs,
		},
		parts:  parts,
		labels: labels,
		wires:  internal,
	}
	c.PartSpec.Mount = c.mount
	return c.PartSpec.NewPart, nil
}
