// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package logicsim

import "github.com/pkg/errors"

// Result describes the outcome of a Stabilize call.
//
type Result struct {
	// Rounds is the number of evaluate+propagate rounds that changed at least
	// one pin state.
	Rounds int
	// Stable is true if a fixed point was reached.
	Stable bool
	// Feedback lists the elements sitting on a feedback loop when the
	// circuit failed to stabilize.
	Feedback []ElementID
}

// Evaluate recomputes the output of every gate from the current state of its
// input pins, as left by the last Propagate, and reports whether any output
// changed. Switches and lights are skipped.
//
// All gates see the same input states, so the result does not depend on the
// order in which elements were placed. An input with no driver reads as
// false. A gate whose input count does not match its kind's arity gets a
// false output.
//
func (c *Circuit) Evaluate() (changed bool) {
	var in [2]bool
	for _, id := range c.order {
		e := c.elements[id]
		if !e.Kind.IsGate() {
			continue
		}
		var out *Pin
		n := 0
		for _, pid := range e.Pins {
			p := c.pins[pid]
			switch {
			case p == nil:
			case p.Dir == Out:
				if out == nil {
					out = p
				}
			default:
				if n < len(in) {
					in[n] = p.Driver != NoPin && p.State
				}
				n++
			}
		}
		if out == nil {
			continue
		}
		v := false
		if n <= len(in) {
			v = e.Kind.Eval(in[:n]...)
		}
		if c.set(out, v) {
			changed = true
		}
	}
	return changed
}

// Propagate copies the state of every wire's source pin to its target pin and
// reports whether any input pin changed. Dangling wire ends read as false.
//
func (c *Circuit) Propagate() (changed bool) {
	for to, w := range c.wires {
		p := c.pins[to]
		if p == nil {
			continue
		}
		if c.set(p, c.Get(w.From)) {
			changed = true
		}
	}
	return changed
}

// DefaultMaxRounds returns the default iteration cap for Stabilize: the
// element count, which is enough for any feed-forward circuit of that size.
//
func (c *Circuit) DefaultMaxRounds() int {
	if n := c.Len(); n > 0 {
		return n
	}
	return 1
}

// Stabilize alternates gate evaluation and wire propagation until no pin
// state changes.
//
// maxRounds caps the number of rounds that may change the circuit state. If it
// is less than or equal to 0, DefaultMaxRounds is used. If one more round
// still changes the state once the cap is reached, Stabilize gives up and
// returns an error wrapping ErrUnstable; pin states are left as computed by
// the last round and the returned Result lists the elements on feedback
// loops.
//
// If the circuit has a feedback loop, all derived states are reset first, so
// that the outcome depends on the switch positions only and not on states
// left over by earlier edits. A loop that does not settle from there, such as
// a ring of NOT gates, is reported as unstable.
//
func (c *Circuit) Stabilize(maxRounds int) (Result, error) {
	if maxRounds <= 0 {
		maxRounds = c.DefaultMaxRounds()
	}
	_, feedback := c.Levels()
	if len(feedback) > 0 {
		c.ResetStates()
	}
	c.Propagate()
	var r Result
	for {
		changed := c.Evaluate()
		if c.Propagate() {
			changed = true
		}
		if !changed {
			r.Stable = true
			return r, nil
		}
		r.Rounds++
		if r.Rounds > maxRounds {
			r.Feedback = feedback
			return r, errors.Wrapf(ErrUnstable, "no fixed point after %d rounds", r.Rounds)
		}
	}
}
