// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package logiclib

import (
	sim "github.com/db47h/logicsim"
	"github.com/pkg/errors"
)

// Gate places a single gate of kind k with a switch on every input and a light
// on its output.
//
//	Inputs: a, b (in for not)
//	Outputs: out
//
func Gate(c *sim.Circuit, k sim.Kind) (*Part, error) {
	if !k.IsGate() {
		return nil, errors.Errorf("%s is not a gate", k)
	}
	b := newBuilder(c, k.String())
	names := k.PinNames()
	in := make([]sim.PinID, k.Arity())
	for i := range in {
		in[i] = b.input(names[i])
	}
	b.output("out", 2, b.gate(k, 1, in...))
	return b.part()
}

// XorFromNand builds a XOR gate out of four NAND gates.
//
//	Inputs: a, b
//	Outputs: out
//	Function: out = a xor b
//
func XorFromNand(c *sim.Circuit) (*Part, error) {
	b := newBuilder(c, "xor-nand")
	a, bb := b.input("a"), b.input("b")
	nab := b.gate(sim.Nand, 1, a, bb)
	w0 := b.gate(sim.Nand, 2, a, nab)
	w1 := b.gate(sim.Nand, 2, bb, nab)
	b.output("out", 4, b.gate(sim.Nand, 3, w0, w1))
	return b.part()
}

// Mux builds a 2 to 1 multiplexer.
//
//	Inputs: a, b, sel
//	Outputs: out
//	Function: If sel=0 then out=a else out=b
//
func Mux(c *sim.Circuit) (*Part, error) {
	b := newBuilder(c, "mux")
	a, bb, sel := b.input("a"), b.input("b"), b.input("sel")
	b.output("out", 4, b.mux(1, a, bb, sel))
	return b.part()
}

func (b *builder) mux(col int, a, bb, sel sim.PinID) sim.PinID {
	notSel := b.gate(sim.Not, col, sel)
	w0 := b.gate(sim.And, col+1, a, notSel)
	w1 := b.gate(sim.And, col+1, bb, sel)
	return b.gate(sim.Or, col+2, w0, w1)
}

// NotChain builds n NOT gates in series.
//
//	Inputs: in
//	Outputs: out
//	Function: out = in xor (n is odd)
//
func NotChain(c *sim.Circuit, n int) (*Part, error) {
	if n < 1 {
		return nil, errors.Errorf("invalid chain length %d", n)
	}
	b := newBuilder(c, "not-chain")
	p := b.input("in")
	for i := 1; i <= n; i++ {
		p = b.gate(sim.Not, i, p)
	}
	b.output("out", n+1, p)
	return b.part()
}
