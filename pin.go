// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package logicsim

import "github.com/pkg/errors"

// PinID identifies a pin within a Circuit. Pin ids are allocated
// monotonically and never reused.
//
type PinID uint32

// NoPin is the zero PinID. It never identifies a pin and is used as the
// "no connection" sentinel for input pins.
//
const NoPin PinID = 0

// common pin names
const (
	pinA   = "a"
	pinB   = "b"
	pinIn  = "in"
	pinOut = "out"
)

// Direction is the direction of a pin.
//
type Direction uint8

// Pin directions.
//
const (
	In Direction = iota
	Out
)

func (d Direction) String() string {
	if d == Out {
		return "out"
	}
	return "in"
}

// MarshalText implements encoding.TextMarshaler.
//
func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
//
func (d *Direction) UnmarshalText(b []byte) error {
	switch string(b) {
	case "in":
		*d = In
	case "out":
		*d = Out
	default:
		return errors.Errorf("invalid pin direction %q", b)
	}
	return nil
}

// A Pin is a signal endpoint owned by exactly one element.
//
// State is authoritative for output pins. For input pins it caches the state
// of the driving pin as of the last propagation pass.
//
type Pin struct {
	ID      PinID
	Dir     Direction
	Name    string // role in the owning element: a, b, in or out
	Element ElementID
	State   bool
	Driver  PinID // input pins only; NoPin when unconnected
}

// Connected returns true if p is an input pin with a driver.
//
func (p *Pin) Connected() bool {
	return p.Dir == In && p.Driver != NoPin
}
