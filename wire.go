// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package logicsim

import "github.com/pkg/errors"

// A Wire is a directed connection from an output pin to an input pin.
//
type Wire struct {
	From PinID `json:"from"`
	To   PinID `json:"to"`
}

// AddWire connects output pin from to input pin to.
//
// The wire is rejected and the circuit left unchanged if either pin does not
// exist, if from == to, if from is not an output or to not an input, or if to
// already has a driver.
//
func (c *Circuit) AddWire(from, to PinID) (Wire, error) {
	pf, pt := c.pins[from], c.pins[to]
	switch {
	case pf == nil:
		return Wire{}, errors.Wrapf(ErrUnknownPin, "pin %d", from)
	case pt == nil:
		return Wire{}, errors.Wrapf(ErrUnknownPin, "pin %d", to)
	case from == to:
		return Wire{}, errors.Wrapf(ErrSelfWire, "pin %d", from)
	case pf.Dir != Out:
		return Wire{}, errors.Wrapf(ErrDirection, "source pin %d is an input", from)
	case pt.Dir != In:
		return Wire{}, errors.Wrapf(ErrDirection, "target pin %d is an output", to)
	case pt.Driver != NoPin:
		return Wire{}, errors.Wrapf(ErrDuplicateDriver, "pin %d driven by pin %d", to, pt.Driver)
	}
	w := Wire{From: from, To: to}
	c.wires[to] = w
	pt.Driver = from
	return w, nil
}

// Connect connects two pins regardless of order: the output pin becomes the
// source. It fails like AddWire if both pins have the same direction.
//
func (c *Circuit) Connect(a, b PinID) (Wire, error) {
	if pa := c.pins[a]; pa != nil && pa.Dir == In {
		if pb := c.pins[b]; pb != nil && pb.Dir == Out {
			a, b = b, a
		}
	}
	return c.AddWire(a, b)
}

// RemoveWire removes the wire driving input pin to. The pin becomes
// unconnected and reads as false.
//
func (c *Circuit) RemoveWire(to PinID) (Wire, error) {
	w, ok := c.wires[to]
	if !ok {
		return Wire{}, errors.Wrapf(ErrNoWire, "pin %d not driven", to)
	}
	delete(c.wires, to)
	if p := c.pins[to]; p != nil {
		p.Driver = NoPin
		p.State = false
	}
	return w, nil
}

// Wire returns the wire driving input pin to, if any.
//
func (c *Circuit) Wire(to PinID) (Wire, bool) {
	w, ok := c.wires[to]
	return w, ok
}

// Fanout returns the input pins driven by output pin from, in ascending order.
//
func (c *Circuit) Fanout(from PinID) []PinID {
	var out []PinID
	for _, w := range c.Wires() {
		if w.From == from {
			out = append(out, w.To)
		}
	}
	return out
}
