// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwsim

import (
	"github.com/pkg/errors"
)

// A Socket maps a part's pin names to signal numbers in a circuit.
type Socket struct {
	m     map[string]int
	c     *Circuit
	scope string
}

func newSocket(c *Circuit, scope string) *Socket {
	return &Socket{
		m:     map[string]int{False: sigFalse, True: sigTrue, Clk: sigClk},
		c:     c,
		scope: scope,
	}
}

// Pin returns the signal number allocated to the given pin name.
// This function panics if the pin does not exist.
func (s *Socket) Pin(name string) int {
	n, ok := s.m[name]
	if !ok {
		panic(errors.Errorf("pin %s does not exist", name))
	}
	return n
}

func (s *Socket) qualify(name string) string {
	if s.scope == "" {
		return name
	}
	return s.scope + "." + name
}

// NewState allocates a named internal signal of the given width, typically the
// stored value of a sequential element. Its full name is the socket scope
// followed by name, and can be used with Circuit.Lookup, Circuit.Value and
// Circuit.Poke.
func (s *Socket) NewState(name string, width int) int {
	return s.c.alloc(width, s.qualify(name))
}

// mount mounts the given sub-part and allocates signals for its unconnected
// pins. wires maps wire names in the host to signal numbers.
func (s *Socket) mount(p Part, scope string, wires map[string]int) []Component {
	sub := newSocket(s.c, scope)
	conn := make(map[string]string, len(p.Conns))
	for _, c := range p.Conns {
		conn[c.Pin] = c.Wire
	}
	for _, i := range p.Inputs {
		if w, ok := conn[i.Name]; ok {
			sub.m[i.Name] = wires[w]
		} else {
			sub.m[i.Name] = s.c.zeroSignal(i.Width)
		}
	}
	for _, o := range p.Outputs {
		if w, ok := conn[o.Name]; ok {
			sub.m[o.Name] = wires[w]
		} else {
			sub.m[o.Name] = s.c.alloc(o.Width, "")
		}
	}
	return p.Mount(sub)
}
