// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwsim

import (
	"context"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/db47h/mips16/bitvec"
	"github.com/pkg/errors"
)

// LevelTrace is the log level used for per cycle and per signal traces.
const LevelTrace = slog.LevelDebug - 4

// Reserved signal numbers.
const (
	sigFalse = iota
	sigTrue
	sigClk
	sigCount
)

// Reserved wire names. They can be used as input wires in any chip.
const (
	False = "false"
	True  = "true"
	Clk   = "clk"
)

// ErrUnstable is returned when a circuit does not settle, usually because of a
// combinational loop.
var ErrUnstable = errors.New("circuit did not settle")

// evalBudget is the number of component evaluations allowed per component and
// per settle.
const evalBudget = 256

type write struct {
	n int
	v bitvec.Vector
}

// Circuit is a runnable circuit simulation.
type Circuit struct {
	vals  []bitvec.Vector
	names []string
	index map[string]int
	zero  map[int]int // width to read only zero signal

	cs      []Component
	sources []int   // components that read no signal
	fanout  [][]int // components reading each signal
	deps    map[uint64]struct{}

	queue  []int
	queued []bool
	cur    int // component being evaluated, -1 if none

	sampling bool
	pending  []write

	cycles uint64
	log    *slog.Logger
}

// NewCircuit builds a new circuit based on the given parts and settles it.
func NewCircuit(parts ...Part) (*Circuit, error) {
	if len(parts) == 0 {
		return nil, errors.New("empty part list")
	}
	c := &Circuit{
		index: make(map[string]int),
		zero:  make(map[int]int),
		deps:  make(map[uint64]struct{}),
		cur:   -1,
		log:   slog.New(slog.DiscardHandler),
	}
	c.alloc(1, False)
	c.alloc(1, True)
	c.alloc(1, Clk)
	c.vals[sigTrue] = bitvec.FromBool(true)
	c.zero[1] = sigFalse

	wrap, err := Chip("CIRCUIT", "", "", parts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create chip wrapper")
	}
	c.cs = wrap("").Mount(newSocket(c, ""))
	c.queued = make([]bool, len(c.cs))

	// first evaluation of every component records its dependencies.
	for i := range c.cs {
		nd := len(c.deps)
		c.eval(i)
		if len(c.deps) == nd {
			c.sources = append(c.sources, i)
		}
	}
	if err = c.Settle(); err != nil {
		return nil, err
	}
	return c, nil
}

// SetLogger sets the logger used for circuit traces. A nil logger disables
// logging.
func (c *Circuit) SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	c.log = l
}

// alloc allocates a new signal and returns its number. Named signals can be
// looked up with Lookup.
func (c *Circuit) alloc(width int, name string) int {
	n := len(c.vals)
	c.vals = append(c.vals, bitvec.Zero(width))
	c.names = append(c.names, name)
	c.fanout = append(c.fanout, nil)
	if name != "" {
		if _, ok := c.index[name]; ok {
			panic(errors.Errorf("duplicate signal name %q", name))
		}
		c.index[name] = n
	}
	return n
}

// zeroSignal returns a read only signal of the given width that is always zero.
func (c *Circuit) zeroSignal(width int) int {
	if n, ok := c.zero[width]; ok {
		return n
	}
	n := c.alloc(width, "")
	c.zero[width] = n
	return n
}

func (c *Circuit) enqueue(comp int) {
	if !c.queued[comp] {
		c.queued[comp] = true
		c.queue = append(c.queue, comp)
	}
}

func (c *Circuit) eval(comp int) {
	prev := c.cur
	c.cur = comp
	c.cs[comp](c)
	c.cur = prev
}

// Get returns the value of signal n and records the calling component as
// depending on n.
func (c *Circuit) Get(n int) bitvec.Vector {
	if c.cur >= 0 {
		k := uint64(c.cur)<<32 | uint64(n)
		if _, ok := c.deps[k]; !ok {
			c.deps[k] = struct{}{}
			c.fanout[n] = append(c.fanout[n], c.cur)
		}
	}
	return c.vals[n]
}

// GetBool returns the value of the 1 bit signal n.
func (c *Circuit) GetBool(n int) bool { return c.Get(n).Bool() }

// GetUint returns the value of signal n as an unsigned integer.
func (c *Circuit) GetUint(n int) uint64 { return c.Get(n).Uint() }

// Set sets the value of signal n. It panics if the width of v does not match
// the width of the signal.
func (c *Circuit) Set(n int, v bitvec.Vector) {
	if w := c.vals[n].Width(); w != v.Width() {
		panic(errors.Errorf("width mismatch setting signal %s: %d bits signal, %d bits value", c.Name(n), w, v.Width()))
	}
	if n < sigCount {
		panic(errors.Errorf("attempt to drive reserved signal %s", c.names[n]))
	}
	if c.sampling {
		c.pending = append(c.pending, write{n, v})
		return
	}
	c.set(n, v)
}

// SetBool sets the value of the 1 bit signal n.
func (c *Circuit) SetBool(n int, b bool) { c.Set(n, bitvec.FromBool(b)) }

// SetUint sets signal n to the low order bits of v.
func (c *Circuit) SetUint(n int, v uint64) { c.Set(n, bitvec.Trunc(c.vals[n].Width(), v)) }

func (c *Circuit) set(n int, v bitvec.Vector) {
	if c.vals[n] == v {
		return
	}
	c.vals[n] = v
	for _, i := range c.fanout[n] {
		c.enqueue(i)
	}
}

// Width returns the width of signal n.
func (c *Circuit) Width(n int) int { return c.vals[n].Width() }

// Clock returns the current level of the clock signal.
func (c *Circuit) Clock() bool { return c.Get(sigClk).Bool() }

// Settle evaluates components until no signal changes. Components that do not
// read any signal, like inputs and constants, are evaluated first.
//
// It returns ErrUnstable if the circuit does not settle after a reasonable
// number of evaluations.
func (c *Circuit) Settle() error {
	for _, i := range c.sources {
		c.enqueue(i)
	}
	budget := evalBudget * len(c.cs)
	evals := 0
	for len(c.queue) > 0 {
		if evals >= budget {
			for _, i := range c.queue {
				c.queued[i] = false
			}
			c.queue = c.queue[:0]
			c.log.Error("settle failed", "cycle", c.cycles, "evals", evals)
			return errors.Wrapf(ErrUnstable, "after %d evaluations", evals)
		}
		i := c.queue[0]
		c.queue = c.queue[1:]
		c.queued[i] = false
		c.eval(i)
		evals++
	}
	c.queue = c.queue[:0]
	c.log.Log(context.Background(), LevelTrace, "settled", "evals", evals)
	return nil
}

func (c *Circuit) setClock(level bool) error {
	// inputs must be stable before the edge is sampled.
	if err := c.Settle(); err != nil {
		return err
	}
	v := bitvec.FromBool(level)
	if c.vals[sigClk] == v {
		return nil
	}
	c.vals[sigClk] = v
	// sample all clocked components with pre-edge inputs.
	c.sampling = true
	for _, i := range c.fanout[sigClk] {
		c.eval(i)
	}
	c.sampling = false
	for _, w := range c.pending {
		c.set(w.n, w.v)
	}
	c.pending = c.pending[:0]
	c.log.Log(context.Background(), LevelTrace, "clock", "level", level, "cycle", c.cycles)
	return c.Settle()
}

// Tick drives the clock low and settles the circuit.
func (c *Circuit) Tick() error {
	return c.setClock(false)
}

// Tock drives the clock high and settles the circuit. This is the rising edge
// where sequential elements update their state.
func (c *Circuit) Tock() error {
	if c.vals[sigClk].Bool() {
		return c.Settle()
	}
	if err := c.setClock(true); err != nil {
		return err
	}
	c.cycles++
	return nil
}

// TickTock runs the simulation for a whole clock cycle.
func (c *Circuit) TickTock() error {
	if err := c.Tick(); err != nil {
		return err
	}
	return c.Tock()
}

// Step runs one full clock cycle. It is a shorthand for TickTock.
func (c *Circuit) Step() error { return c.TickTock() }

// Cycles returns the number of rising clock edges since the circuit was
// created.
func (c *Circuit) Cycles() uint64 { return c.cycles }

// Size returns the component count in the circuit.
func (c *Circuit) Size() int { return len(c.cs) }

// Name returns the name of signal n, or "#n" for unnamed signals.
func (c *Circuit) Name(n int) string {
	if s := c.names[n]; s != "" {
		return s
	}
	return "#" + strconv.Itoa(n)
}

// Lookup returns the number of the signal with the given name.
func (c *Circuit) Lookup(name string) (int, bool) {
	n, ok := c.index[name]
	return n, ok
}

// Value returns the current value of the named signal.
func (c *Circuit) Value(name string) (bitvec.Vector, error) {
	n, ok := c.index[name]
	if !ok {
		return bitvec.Vector{}, errors.Errorf("no signal named %q", name)
	}
	return c.vals[n], nil
}

// Poke forces the value of the named signal. Components reading it are
// scheduled for evaluation during the next Settle. Poke is meant to preload
// state elements like registers and memory cells.
func (c *Circuit) Poke(name string, v bitvec.Vector) error {
	n, ok := c.index[name]
	if !ok {
		return errors.Errorf("no signal named %q", name)
	}
	if n < sigCount {
		return errors.Errorf("cannot poke reserved signal %s", name)
	}
	if w := c.vals[n].Width(); w != v.Width() {
		return errors.Errorf("width mismatch poking %s: %d bits signal, %d bits value", name, w, v.Width())
	}
	c.set(n, v)
	return nil
}

// Names returns the sorted names of all signals starting with prefix.
func (c *Circuit) Names(prefix string) []string {
	var out []string
	for k := range c.index {
		if strings.HasPrefix(k, prefix) {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}
