// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package logictest provides utility functions for testing circuits.
//
package logictest

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"
	"time"

	sim "github.com/db47h/logicsim"
	"github.com/db47h/logicsim/logiclib"
)

// exhaustive is the maximum number of inputs tested exhaustively. Above that,
// inputs are sampled at random.
const exhaustive = 12

// pinName returns the name of the element owning p, or "pin<id>" if p or its
// element is unknown.
func pinName(c *sim.Circuit, p sim.PinID) string {
	if pp := c.Pin(p); pp != nil {
		if e := c.Element(pp.Element); e != nil {
			return e.Name()
		}
	}
	return fmt.Sprintf("pin%d", p)
}

func assignment(c *sim.Circuit, inputs []sim.PinID, in []bool) string {
	var b strings.Builder
	for i, p := range inputs {
		if b.Len() > 0 {
			b.WriteString(", ")
		}
		b.WriteString(pinName(c, p))
		b.WriteRune('=')
		if in[i] {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	}
	return b.String()
}

// inputSets calls f with every input combination if n <= 12, or with all
// zeroes, all ones and 4096 random combinations otherwise. It stops when f
// returns false.
func inputSets(n int, f func(in []bool) bool) {
	in := make([]bool, n)
	if n <= exhaustive {
		for i := 0; i < 1<<uint(n); i++ {
			for bit := range in {
				in[bit] = i&(1<<uint(bit)) != 0
			}
			if !f(in) {
				return
			}
		}
		return
	}
	if !f(in) {
		return
	}
	for i := range in {
		in[i] = true
	}
	if !f(in) {
		return
	}
	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
	for i := 0; i < 1<<exhaustive; i++ {
		for bit := range in {
			in[bit] = rnd.Int63()&(1<<62) != 0
		}
		if !f(in) {
			return
		}
	}
}

// run sets the input switches, stabilizes the circuit and reads the outputs.
func run(t testing.TB, c *sim.Circuit, inputs, outputs []sim.PinID, in []bool) []bool {
	t.Helper()
	for i, p := range inputs {
		if err := c.SetSwitch(p, in[i]); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := c.Stabilize(0); err != nil {
		t.Fatalf("%s: %v", assignment(c, inputs, in), err)
	}
	out := make([]bool, len(outputs))
	for i, p := range outputs {
		out[i] = c.Get(p)
	}
	return out
}

// CompareFunc checks the outputs of a circuit against a reference function for
// every combination of its inputs, or a random sample of them for circuits
// with more than 12 inputs. inputs are switch pins and outputs any pins of c;
// fn receives the input states in the same order and must return the expected
// output states.
//
func CompareFunc(t testing.TB, c *sim.Circuit, inputs, outputs []sim.PinID, fn func(in []bool) []bool) {
	t.Helper()
	start := time.Now()
	n := 0
	inputSets(len(inputs), func(in []bool) bool {
		n++
		got := run(t, c, inputs, outputs, in)
		want := fn(in)
		if len(want) != len(got) {
			t.Fatalf("reference function returned %d outputs, expected %d", len(want), len(got))
		}
		for i := range got {
			if got[i] != want[i] {
				t.Errorf("\nExpected %s => %s=%v\nGot %v", assignment(c, inputs, in), pinName(c, outputs[i]), want[i], got[i])
				return false
			}
		}
		return true
	})
	t.Logf("%d elements. %d input sets in %v", c.Len(), n, time.Since(start))
}

// ComparePart checks that two parts compute the same function. Both parts must
// have the same number of inputs and outputs.
//
func ComparePart(t testing.TB, p1, p2 *logiclib.Part) {
	t.Helper()
	in1, in2 := p1.InPins(), p2.InPins()
	out1, out2 := p1.OutPins(), p2.OutPins()
	if len(in1) != len(in2) {
		t.Fatalf("%s has %d inputs, %s has %d", p1.Name, len(in1), p2.Name, len(in2))
	}
	if len(out1) != len(out2) {
		t.Fatalf("%s has %d outputs, %s has %d", p1.Name, len(out1), p2.Name, len(out2))
	}
	CompareFunc(t, p1.Circuit, in1, out1, func(in []bool) []bool {
		return run(t, p2.Circuit, in2, out2, in)
	})
}
