// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package logicsim

import (
	"sort"

	"github.com/pkg/errors"
)

// Circuit is a circuit graph: elements, the pins they own and the wires
// between pins.
//
// Pins and elements are stored in arenas keyed by id. Wires are indexed by
// their target pin since an input pin has at most one driver.
//
type Circuit struct {
	pins     map[PinID]*Pin
	elements map[ElementID]*Element
	order    []ElementID // placement order
	wires    map[PinID]Wire

	lastPin  PinID
	lastElem ElementID
}

// New returns a new empty circuit.
//
func New() *Circuit {
	return &Circuit{
		pins:     make(map[PinID]*Pin),
		elements: make(map[ElementID]*Element),
		wires:    make(map[PinID]Wire),
	}
}

// allocPin allocates a pin id.
//
func (c *Circuit) allocPin() PinID {
	c.lastPin++
	return c.lastPin
}

func (c *Circuit) allocElement() ElementID {
	c.lastElem++
	return c.lastElem
}

// AddElement places a new element of the given kind. It allocates the kind's
// pins with fresh ids and registers them in the circuit.
//
func (c *Circuit) AddElement(k Kind, pos Position) (*Element, error) {
	if !k.Valid() {
		return nil, errors.Wrapf(ErrUnknownKind, "kind %d", uint8(k))
	}
	e := &Element{
		ID:   c.allocElement(),
		Kind: k,
		Pos:  pos,
	}
	names := k.PinNames()
	e.Pins = make([]PinID, len(names))
	for i, n := range names {
		p := &Pin{
			ID:      c.allocPin(),
			Name:    n,
			Element: e.ID,
		}
		if i >= k.Arity() {
			p.Dir = Out
		}
		c.pins[p.ID] = p
		e.Pins[i] = p.ID
	}
	c.insert(e)
	return e, nil
}

func (c *Circuit) insert(e *Element) {
	c.elements[e.ID] = e
	c.order = append(c.order, e.ID)
}

// Len returns the element count in the circuit.
//
func (c *Circuit) Len() int { return len(c.order) }

// Element returns the element with the given id or nil.
//
func (c *Circuit) Element(id ElementID) *Element {
	return c.elements[id]
}

// Elements returns all elements in placement order. Callers must not modify
// the returned elements.
//
func (c *Circuit) Elements() []*Element {
	out := make([]*Element, len(c.order))
	for i, id := range c.order {
		out[i] = c.elements[id]
	}
	return out
}

// Lookup returns the first element with the given label, or nil.
//
func (c *Circuit) Lookup(label string) *Element {
	for _, id := range c.order {
		if e := c.elements[id]; e.Label == label {
			return e
		}
	}
	return nil
}

// ByKind returns the elements of kind k in placement order.
//
func (c *Circuit) ByKind(k Kind) []*Element {
	var out []*Element
	for _, id := range c.order {
		if e := c.elements[id]; e.Kind == k {
			out = append(out, e)
		}
	}
	return out
}

// Pin returns the pin with the given id or nil.
//
func (c *Circuit) Pin(id PinID) *Pin {
	return c.pins[id]
}

// PinCount returns the number of pins in the circuit.
//
func (c *Circuit) PinCount() int { return len(c.pins) }

// Get returns the state of pin n. Unknown pins read as false.
//
func (c *Circuit) Get(n PinID) bool {
	if p := c.pins[n]; p != nil {
		return p.State
	}
	return false
}

// set sets the state of pin n and reports whether it changed.
//
func (c *Circuit) set(p *Pin, s bool) bool {
	if p.State == s {
		return false
	}
	p.State = s
	return true
}

// driven returns the state of the pin driving input pin n. Unconnected inputs
// and dangling driver references read as false.
//
func (c *Circuit) driven(n PinID) bool {
	p := c.pins[n]
	if p == nil || p.Driver == NoPin {
		return false
	}
	return c.Get(p.Driver)
}

func (c *Circuit) switchPin(n PinID) (*Pin, error) {
	p := c.pins[n]
	if p == nil {
		return nil, errors.Wrapf(ErrUnknownPin, "pin %d", n)
	}
	if e := c.elements[p.Element]; e == nil || e.Kind != Switch || p.Dir != Out {
		return nil, errors.Wrapf(ErrNotSwitch, "pin %d", n)
	}
	return p, nil
}

// SetSwitch sets the state of an input switch. n must be the id of the
// switch's output pin. The new state is not propagated: run Stabilize to
// update the rest of the circuit.
//
func (c *Circuit) SetSwitch(n PinID, on bool) error {
	p, err := c.switchPin(n)
	if err != nil {
		return err
	}
	p.State = on
	return nil
}

// Toggle flips the state of an input switch and returns the new state.
//
func (c *Circuit) Toggle(n PinID) (bool, error) {
	p, err := c.switchPin(n)
	if err != nil {
		return false, err
	}
	p.State = !p.State
	return p.State, nil
}

// ResetStates clears every derived state: gate outputs and input pin caches.
// Switch states are kept.
//
func (c *Circuit) ResetStates() {
	for _, p := range c.pins {
		if p.Dir == Out {
			if e := c.elements[p.Element]; e != nil && e.Kind == Switch {
				continue
			}
		}
		p.State = false
	}
}

// Wires returns all wires ordered by target pin id.
//
func (c *Circuit) Wires() []Wire {
	out := make([]Wire, 0, len(c.wires))
	for _, w := range c.wires {
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].To < out[j].To })
	return out
}
