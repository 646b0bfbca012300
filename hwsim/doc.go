// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

/*
Package hwsim provides the tools to compose hardware parts into a datapath and
run it one clock cycle at a time.

A circuit is a set of numbered signals and components. Each signal holds a
fixed width bit vector (see package bitvec). Components are closures that read
signals with Circuit.Get and drive their outputs with Circuit.Set. Whenever a
signal changes, the components that read it are evaluated again until no signal
changes anymore: the circuit has settled.

Parts are described by a PartSpec and composed into chips with Chip:

	mux, err := hwsim.Chip("Mux", "a[16], b[16], sel", "out[16]",
		hwlib.Not("in=sel, out=nsel"),
		...)

Sequential elements read the clock with Circuit.Clock and only change their
state on a rising edge. On every clock transition, all clocked components first
sample their inputs as they were before the edge. Their writes are committed
afterwards and the circuit settles again. Sequential elements therefore never
observe each other's post-edge state within the same edge.

A complete clock cycle is a Tick (clock low) followed by a Tock (clock high).
*/
package hwsim
