// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package logiclib

import (
	sim "github.com/db47h/logicsim"
	"github.com/pkg/errors"
)

func (b *builder) halfAdder(col int, a, bb sim.PinID) (s, carry sim.PinID) {
	return b.gate(sim.Xor, col, a, bb), b.gate(sim.And, col, a, bb)
}

func (b *builder) fullAdder(col int, a, bb, cin sim.PinID) (s, cout sim.PinID) {
	s0, c0 := b.halfAdder(col, a, bb)
	s, c1 := b.halfAdder(col+1, s0, cin)
	return s, b.gate(sim.Or, col+2, c0, c1)
}

// HalfAdder builds a half adder.
//
//	Inputs: a, b
//	Outputs: s, c
//	Function: s = lsb(a + b)
//	          c = msb(a + b)
//
func HalfAdder(c *sim.Circuit) (*Part, error) {
	b := newBuilder(c, "half-adder")
	a, bb := b.input("a"), b.input("b")
	s, carry := b.halfAdder(1, a, bb)
	b.output("s", 2, s)
	b.output("c", 2, carry)
	return b.part()
}

// FullAdder builds a 3 bit adder.
//
//	Inputs: a, b, cin
//	Outputs: s, cout
//	Function: s = lsb(a + b + cin)
//	          cout = msb(a + b + cin)
//
func FullAdder(c *sim.Circuit) (*Part, error) {
	b := newBuilder(c, "full-adder")
	a, bb, cin := b.input("a"), b.input("b"), b.input("cin")
	s, cout := b.fullAdder(1, a, bb, cin)
	b.output("s", 4, s)
	b.output("cout", 4, cout)
	return b.part()
}

// RippleAdder builds an n bit ripple carry adder.
//
//	Inputs: a0..a[n-1], b0..b[n-1]
//	Outputs: s0..s[n-1], c
//	Function: s = lsb(a + b), c = carry out
//
func RippleAdder(c *sim.Circuit, n int) (*Part, error) {
	if n < 1 {
		return nil, errors.Errorf("invalid adder width %d", n)
	}
	b := newBuilder(c, "adder")
	as, bs := make([]sim.PinID, n), make([]sim.PinID, n)
	for i, name := range bus("a", n) {
		as[i] = b.input(name)
	}
	for i, name := range bus("b", n) {
		bs[i] = b.input(name)
	}
	sum := make([]sim.PinID, n)
	var carry sim.PinID
	for i := range sum {
		col := 1 + 3*i
		if i == 0 {
			sum[i], carry = b.halfAdder(col, as[0], bs[0])
			continue
		}
		sum[i], carry = b.fullAdder(col, as[i], bs[i], carry)
	}
	last := 3*n + 1
	for i, name := range bus("s", n) {
		b.output(name, last, sum[i])
	}
	b.output("c", last, carry)
	return b.part()
}
