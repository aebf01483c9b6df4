// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

/*
Package logicsim implements the evaluation engine of a combinational logic
circuit editor.

A Circuit holds elements (input switches, output lights and logic gates), the
pins they own and the wires connecting output pins to input pins. Pins and
elements are kept in arenas keyed by integer ids; wires reference pins by id
only.

Evaluation alternates two passes until the circuit reaches a fixed point: wire
propagation copies every output pin state to the input pins it drives, and gate
evaluation recomputes every gate output from the state of its driving pins.
Circuits with a feedback loop that never settles are reported with ErrUnstable
once the iteration cap is reached:

	c := logicsim.New()
	s, _ := c.AddElement(logicsim.Switch, logicsim.Position{})
	n, _ := c.AddElement(logicsim.Not, logicsim.Position{X: 100})
	l, _ := c.AddElement(logicsim.Light, logicsim.Position{X: 200})
	c.AddWire(s.Pin("out"), n.Pin("in"))
	c.AddWire(n.Pin("out"), l.Pin("in"))
	if _, err := c.Stabilize(0); err != nil {
		// feedback loop
	}
	lit := c.Get(l.Pin("in")) // true

A Simulator wraps a Circuit with the simulation mode of the editor: while
simulation is on, every mutation and switch toggle re-runs the evaluation.

The engine is not safe for concurrent use.
*/
package logicsim
