// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package logicsim

import (
	"io"
	"log/slog"

	"github.com/pkg/errors"
)

// A Probe is called after every evaluation run by a Simulator with the
// stabilization result and error.
//
type Probe func(r Result, err error)

// Option configures a Simulator.
//
type Option func(*Simulator)

// WithLogger sets the simulator's logger. The default discards everything.
//
func WithLogger(l *slog.Logger) Option {
	return func(s *Simulator) {
		if l != nil {
			s.log = l
		}
	}
}

// WithMaxRounds sets the iteration cap passed to Stabilize. Values <= 0 select
// the circuit's default.
//
func WithMaxRounds(n int) Option {
	return func(s *Simulator) { s.maxRounds = n }
}

// WithFeedbackCheck enables the static feedback check: Connect then refuses
// wires that would close a loop with ErrFeedback.
//
func WithFeedbackCheck(on bool) Option {
	return func(s *Simulator) { s.rejectFeedback = on }
}

// WithProbe adds a probe.
//
func WithProbe(p Probe) Option {
	return func(s *Simulator) {
		if p != nil {
			s.probes = append(s.probes, p)
		}
	}
}

// A Simulator drives a Circuit in edit or simulation mode.
//
// In simulation mode, every change that can affect pin states (switch
// toggles, wires added or removed, elements placed) re-runs the stabilization
// loop. In edit mode, derived states are held at false and nothing is
// evaluated.
//
// Mutations only return structural errors. Instability is reported by
// Unstable, Last and Err, and to probes.
//
type Simulator struct {
	c              *Circuit
	log            *slog.Logger
	maxRounds      int
	rejectFeedback bool
	probes         []Probe

	on   bool
	last Result
	err  error
}

// NewSimulator returns a new Simulator in edit mode. If c is nil, a new empty
// circuit is used.
//
func NewSimulator(c *Circuit, opts ...Option) *Simulator {
	if c == nil {
		c = New()
	}
	s := &Simulator{
		c:   c,
		log: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Circuit returns the simulated circuit.
//
func (s *Simulator) Circuit() *Circuit { return s.c }

// Simulating returns true in simulation mode.
//
func (s *Simulator) Simulating() bool { return s.on }

// Last returns the result of the last evaluation.
//
func (s *Simulator) Last() Result { return s.last }

// Err returns the error of the last evaluation.
//
func (s *Simulator) Err() error { return s.err }

// Unstable returns true if the last evaluation did not reach a fixed point.
//
func (s *Simulator) Unstable() bool { return s.err != nil }

// SetSimulation switches simulation mode on or off. Switching it on evaluates
// the circuit and returns the evaluation error, if any. Switching it off
// resets all derived pin states.
//
func (s *Simulator) SetSimulation(on bool) error {
	if on == s.on {
		return nil
	}
	s.on = on
	s.log.Info("simulation mode", "on", on)
	if on {
		_, err := s.Evaluate()
		return err
	}
	s.c.ResetStates()
	s.last, s.err = Result{}, nil
	return nil
}

// Evaluate runs the stabilization loop regardless of the current mode.
//
func (s *Simulator) Evaluate() (Result, error) {
	r, err := s.c.Stabilize(s.maxRounds)
	s.last, s.err = r, err
	if err != nil {
		s.log.Warn("circuit unstable", "rounds", r.Rounds, "feedback", r.Feedback)
	} else {
		s.log.Debug("circuit stable", "rounds", r.Rounds)
	}
	for _, p := range s.probes {
		p(r, err)
	}
	return r, err
}

func (s *Simulator) changed() {
	if s.on {
		s.Evaluate()
	}
}

// AddElement places a new element with an optional label.
//
func (s *Simulator) AddElement(k Kind, pos Position, label string) (*Element, error) {
	e, err := s.c.AddElement(k, pos)
	if err != nil {
		return nil, err
	}
	e.Label = label
	s.log.Debug("element added", "id", e.ID, "kind", k, "label", label)
	s.changed()
	return e, nil
}

// Connect wires pins a and b, in any order. With the feedback check on, a wire
// that would close a loop is rejected with ErrFeedback.
//
func (s *Simulator) Connect(a, b PinID) (Wire, error) {
	if s.rejectFeedback {
		from, to := a, b
		if p := s.c.Pin(a); p != nil && p.Dir == In {
			from, to = b, a
		}
		if s.c.ClosesLoop(from, to) {
			return Wire{}, errors.Wrapf(ErrFeedback, "wire %d->%d", from, to)
		}
	}
	w, err := s.c.Connect(a, b)
	if err != nil {
		return Wire{}, err
	}
	s.log.Debug("wire added", "from", w.From, "to", w.To)
	s.changed()
	return w, nil
}

// Disconnect removes the wire driving input pin to.
//
func (s *Simulator) Disconnect(to PinID) (Wire, error) {
	w, err := s.c.RemoveWire(to)
	if err != nil {
		return Wire{}, err
	}
	s.log.Debug("wire removed", "from", w.From, "to", w.To)
	s.changed()
	return w, nil
}

// SetSwitch sets the state of the switch whose output pin is n.
//
func (s *Simulator) SetSwitch(n PinID, on bool) error {
	if err := s.c.SetSwitch(n, on); err != nil {
		return err
	}
	s.changed()
	return nil
}

// Toggle flips the switch whose output pin is n and returns its new state.
//
func (s *Simulator) Toggle(n PinID) (bool, error) {
	v, err := s.c.Toggle(n)
	if err != nil {
		return false, err
	}
	s.changed()
	return v, nil
}

// Lit returns true if the light with the given element id is on. It is always
// false in edit mode or if id is not a light.
//
func (s *Simulator) Lit(id ElementID) bool {
	e := s.c.Element(id)
	if !s.on || e == nil || e.Kind != Light {
		return false
	}
	return s.c.driven(e.Pin(pinIn))
}

// Reset replaces the simulated circuit. The simulator stays in its current
// mode: in simulation mode the new circuit is evaluated, in edit mode its
// derived states are reset.
//
func (s *Simulator) Reset(c *Circuit) {
	if c == nil {
		c = New()
	}
	s.c = c
	s.last, s.err = Result{}, nil
	s.log.Info("circuit reset", "elements", c.Len(), "wires", len(c.wires))
	if s.on {
		s.Evaluate()
	} else {
		c.ResetStates()
	}
}
