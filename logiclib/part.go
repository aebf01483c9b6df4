// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package logiclib provides prefab circuits built from the primitive logic
// elements, along with helpers to drive groups of switches and read groups of
// lights as integers.
//
// Builders add their elements to an existing circuit. Every input is an
// input-switch and every output an output-light, labeled with the part's pin
// names, so that prefabs can be driven by label from the command line.
//
package logiclib

import (
	"strconv"
	"strings"

	sim "github.com/db47h/logicsim"
	"github.com/pkg/errors"
)

// A Port is a named input or output of a Part.
//
type Port struct {
	Name    string
	Element sim.ElementID
	Pin     sim.PinID // switch output pin or light input pin
}

// A Part is a prefab placed in a circuit.
//
type Part struct {
	Name    string
	Circuit *sim.Circuit
	Inputs  []Port
	Outputs []Port
}

func find(ports []Port, name string) sim.PinID {
	for _, p := range ports {
		if p.Name == name {
			return p.Pin
		}
	}
	return sim.NoPin
}

// In returns the switch pin of the named input, or NoPin.
//
func (p *Part) In(name string) sim.PinID { return find(p.Inputs, name) }

// Out returns the light pin of the named output, or NoPin.
//
func (p *Part) Out(name string) sim.PinID { return find(p.Outputs, name) }

// InPins returns the switch pins of all inputs, in order.
//
func (p *Part) InPins() []sim.PinID { return pins(p.Inputs) }

// OutPins returns the light pins of all outputs, in order.
//
func (p *Part) OutPins() []sim.PinID { return pins(p.Outputs) }

func pins(ports []Port) []sim.PinID {
	out := make([]sim.PinID, len(ports))
	for i := range ports {
		out[i] = ports[i].Pin
	}
	return out
}

// builder places elements column by column and records the first error.
// Once an error is recorded, further calls are no-ops.
type builder struct {
	c    *sim.Circuit
	p    *Part
	rows map[int]int
	err  error
}

func newBuilder(c *sim.Circuit, name string) *builder {
	return &builder{
		c:    c,
		p:    &Part{Name: name, Circuit: c},
		rows: make(map[int]int),
	}
}

func (b *builder) add(k sim.Kind, col int, label string) *sim.Element {
	if b.err != nil {
		return &sim.Element{}
	}
	e, err := b.c.AddElement(k, sim.Position{X: col, Y: b.rows[col]})
	if err != nil {
		b.err = err
		return &sim.Element{}
	}
	b.rows[col]++
	e.Label = label
	return e
}

func (b *builder) wire(from, to sim.PinID) {
	if b.err != nil {
		return
	}
	if _, err := b.c.AddWire(from, to); err != nil {
		b.err = err
	}
}

// gate places a gate in column col, wires its inputs from the given driver
// pins and returns its output pin.
func (b *builder) gate(k sim.Kind, col int, in ...sim.PinID) sim.PinID {
	e := b.add(k, col, "")
	for i, p := range e.Inputs() {
		if i < len(in) {
			b.wire(in[i], p)
		}
	}
	return e.Output()
}

// input adds a labeled switch and returns its output pin.
func (b *builder) input(name string) sim.PinID {
	e := b.add(sim.Switch, 0, name)
	b.p.Inputs = append(b.p.Inputs, Port{Name: name, Element: e.ID, Pin: e.Output()})
	return e.Output()
}

// output adds a labeled light in column col driven by pin from.
func (b *builder) output(name string, col int, from sim.PinID) {
	e := b.add(sim.Light, col, name)
	in := e.Pin("in")
	b.wire(from, in)
	b.p.Outputs = append(b.p.Outputs, Port{Name: name, Element: e.ID, Pin: in})
}

func (b *builder) part() (*Part, error) {
	if b.err != nil {
		return nil, errors.Wrapf(b.err, "build %s", b.p.Name)
	}
	return b.p, nil
}

// bus returns the pin names of an n bit bus: name0, name1, ...
func bus(name string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = name + strconv.Itoa(i)
	}
	return out
}

// SetInt sets the given switches to the binary representation of v. Pin 0 is
// the lsb.
//
func SetInt(c *sim.Circuit, switches []sim.PinID, v uint64) error {
	for bit, p := range switches {
		if err := c.SetSwitch(p, v&(1<<uint(bit)) != 0); err != nil {
			return err
		}
	}
	return nil
}

// Int returns the states of the given pins as an integer. Pin 0 is the lsb.
//
func Int(c *sim.Circuit, pins []sim.PinID) uint64 {
	var out uint64
	for bit, p := range pins {
		if c.Get(p) {
			out |= 1 << uint(bit)
		}
	}
	return out
}

// Names returns the names accepted by Build. Names ending with -N take a
// size.
//
func Names() []string {
	return []string{"gate-KIND", "half-adder", "full-adder", "adder-N", "mux", "xor-nand", "not-chain-N"}
}

// Build returns a new circuit holding the named prefab. See Names.
//
func Build(name string) (*sim.Circuit, *Part, error) {
	c := sim.New()
	p, err := build(c, name)
	if err != nil {
		return nil, nil, err
	}
	return c, p, nil
}

func build(c *sim.Circuit, name string) (*Part, error) {
	switch name {
	case "half-adder":
		return HalfAdder(c)
	case "full-adder":
		return FullAdder(c)
	case "mux":
		return Mux(c)
	case "xor-nand":
		return XorFromNand(c)
	}
	if k := strings.TrimPrefix(name, "gate-"); k != name {
		kind, err := sim.ParseKind(k)
		if err != nil {
			return nil, err
		}
		return Gate(c, kind)
	}
	for _, pfx := range []string{"not-chain-", "adder-"} {
		s := strings.TrimPrefix(name, pfx)
		if s == name {
			continue
		}
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > 64 {
			return nil, errors.Errorf("invalid size %q in %s", s, name)
		}
		if pfx == "adder-" {
			return RippleAdder(c, n)
		}
		return NotChain(c, n)
	}
	return nil, errors.Errorf("unknown prefab %q", name)
}
