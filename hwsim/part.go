// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwsim

import (
	"github.com/db47h/mips16/internal/hdl"
)

// A Component is a component in a circuit that can Get and Set signals.
type Component func(c *Circuit)

// A MountFn mounts a part into socket s. MountFn's should query
// the socket for assigned signal numbers and return closures around
// these numbers.
//
// For example, a 16 bits Not gate can be defined like this:
//
//	not16 := &PartSpec{
//		Name:    "Not16",
//		Inputs:  IO("in[16]"),
//		Outputs: IO("out[16]"),
//		Mount: func(s *Socket) []Component {
//			in, out := s.Pin("in"), s.Pin("out")
//			return []Component{
//				func(c *Circuit) { c.Set(out, c.Get(in).Not()) },
//			}
//		}}
type MountFn func(s *Socket) []Component

// Pin is a part input or output pin declaration.
type Pin struct {
	Name  string
	Width int
}

// IO parses a pin specification string like "a[16], b[16], sel" and returns
// the corresponding pins. Pins declared without a width are 1 bit wide.
// It panics if the specification is invalid.
func IO(spec string) []Pin {
	pins, err := parsePins(spec)
	if err != nil {
		panic(err)
	}
	return pins
}

func parsePins(spec string) ([]Pin, error) {
	ps, err := hdl.ParsePins(spec)
	if err != nil {
		return nil, err
	}
	var out []Pin
	for _, p := range ps {
		out = append(out, Pin{p.Name, p.Width})
	}
	return out, nil
}

// A PartSpec wraps a part specification (its blueprint).
//
// Custom parts are implemented by creating a PartSpec, then using its NewPart
// method as a NewPartFn:
//
//	func Not16(c string) hwsim.Part { return not16.NewPart(c) }
//
// Which can then be used when building other chips:
//
//	c, _ := Chip("dummy", "a[16]", "out[16]",
//		Not16("in=a, out=x"),
//		Not16("in=x, out=out"),
//	)
type PartSpec struct {
	// Part name.
	Name string
	// Input pins. Must be distinct pin names.
	Inputs []Pin
	// Output pins. Must be distinct pin names.
	Outputs []Pin
	// Mount function (see MountFn).
	Mount MountFn
}

// Pin returns the pin with the given name and true if it is an input.
func (p *PartSpec) Pin(name string) (Pin, bool, bool) {
	for _, i := range p.Inputs {
		if i.Name == name {
			return i, true, true
		}
	}
	for _, o := range p.Outputs {
		if o.Name == name {
			return o, false, true
		}
	}
	return Pin{}, false, false
}

// NewPart is a NewPartFn that wraps p with the given connections into a Part.
// See ParseConnections for the syntax of the connection string. It panics if
// the connection string is invalid.
func (p *PartSpec) NewPart(connections string) Part {
	conns, err := ParseConnections(connections)
	if err != nil {
		panic(err)
	}
	return Part{p, conns, ""}
}

// A NewPartFn is a function that takes a connection configuration and returns a
// new Part.
type NewPartFn func(c string) Part

// Connection connects a part's pin to a wire in its host chip.
type Connection struct {
	Pin  string
	Wire string
}

// ParseConnections parses a connection string like "a=x, b=y, out=z" where
// keys are the part's pin names and values wire names in the host chip.
//
// Wire names are either one of the host chip's input or output pins, one of
// the reserved names false, true and clk, or internal wires created on the
// fly.
func ParseConnections(c string) ([]Connection, error) {
	cs, err := hdl.ParseConns(c)
	if err != nil {
		return nil, err
	}
	out := make([]Connection, 0, len(cs))
	for _, c := range cs {
		out = append(out, Connection{c.Pin, c.Wire})
	}
	return out, nil
}

// A Part wraps a part specification together with its connections within a host
// chip.
type Part struct {
	*PartSpec
	Conns []Connection
	label string
}

// As returns a copy of p with the given instance label. The label is used as
// the scope of the part's named signals. For example, the registers of a
// register file labeled "regs" are named "regs.r0" through "regs.r15".
func (p Part) As(label string) Part {
	p.label = label
	return p
}

// Parts is a slice of Part.
type Parts []Part
