// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package logicsim

import "strconv"

// ElementID identifies an element within a Circuit. Zero is never a valid
// element id.
//
type ElementID uint32

// Position is the grid position of an element. It is owned by the
// presentation layer and ignored by evaluation.
//
type Position struct {
	X, Y int
}

// An Element is a placed circuit component. Its pin list is fixed by its Kind
// at creation and never changes shape.
//
// Pins lists the element's pin ids in the order given by Kind.PinNames:
// inputs first, then the output.
//
type Element struct {
	ID    ElementID
	Kind  Kind
	Pos   Position
	Label string
	Pins  []PinID
}

// Pin returns the id of the pin with the given name (a, b, in or out) or NoPin
// if the element has no such pin.
//
func (e *Element) Pin(name string) PinID {
	for i, n := range e.Kind.PinNames() {
		if n == name && i < len(e.Pins) {
			return e.Pins[i]
		}
	}
	return NoPin
}

// Inputs returns the ids of the element's input pins in declaration order.
//
func (e *Element) Inputs() []PinID {
	n := e.Kind.Arity()
	if n > len(e.Pins) {
		n = len(e.Pins)
	}
	return e.Pins[:n:n]
}

// Output returns the id of the element's output pin or NoPin for lights.
//
func (e *Element) Output() PinID {
	if e.Kind.info().output == "" || len(e.Pins) <= e.Kind.Arity() {
		return NoPin
	}
	return e.Pins[e.Kind.Arity()]
}

// Name returns the element label if set, or a name made of its kind and id.
//
func (e *Element) Name() string {
	if e.Label != "" {
		return e.Label
	}
	return e.Kind.String() + "#" + strconv.FormatUint(uint64(e.ID), 10)
}
