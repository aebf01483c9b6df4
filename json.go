// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package logicsim

import (
	"encoding/json"
	"io"
	"sort"

	"github.com/pkg/errors"
)

// Snapshot is the serialized form of a Circuit. Every pin appears exactly once
// in Pins; elements and wires reference pins by id.
//
type Snapshot struct {
	Elements []ElementRecord `json:"elements"`
	Pins     []PinRecord     `json:"pins"`
	Wires    []Wire          `json:"wires"`
}

// ElementRecord is the serialized form of an Element.
//
type ElementRecord struct {
	ID    ElementID `json:"id"`
	Kind  Kind      `json:"kind"`
	X     int       `json:"x"`
	Y     int       `json:"y"`
	Label string    `json:"label,omitempty"`
	Pins  []PinID   `json:"pins"`
}

// UnmarshalJSON implements json.Unmarshaler. Besides its own output, it
// accepts the records saved by the browser editor, where the kind is stored
// under "type" and pins are embedded as objects.
//
func (r *ElementRecord) UnmarshalJSON(b []byte) error {
	var aux struct {
		ID    ElementID         `json:"id"`
		Kind  string            `json:"kind"`
		Type  string            `json:"type"`
		X     int               `json:"x"`
		Y     int               `json:"y"`
		Label string            `json:"label"`
		Pins  []json.RawMessage `json:"pins"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	name := aux.Kind
	if name == "" {
		name = aux.Type
	}
	k, err := ParseKind(name)
	if err != nil {
		return errors.Wrapf(err, "element %d", aux.ID)
	}
	pins := make([]PinID, len(aux.Pins))
	for i, raw := range aux.Pins {
		if err := json.Unmarshal(raw, &pins[i]); err == nil {
			continue
		}
		var obj struct {
			ID PinID `json:"id"`
		}
		if err := json.Unmarshal(raw, &obj); err != nil {
			return errors.Wrapf(err, "element %d: pin %d", aux.ID, i)
		}
		pins[i] = obj.ID
	}
	*r = ElementRecord{ID: aux.ID, Kind: k, X: aux.X, Y: aux.Y, Label: aux.Label, Pins: pins}
	return nil
}

// PinRecord is the serialized form of a Pin.
//
type PinRecord struct {
	ID      PinID     `json:"id"`
	Dir     Direction `json:"dir"`
	Name    string    `json:"name,omitempty"`
	Element ElementID `json:"element,omitempty"`
	State   bool      `json:"state"`
	Driver  PinID     `json:"driver,omitempty"`
}

// Snapshot returns the serialized form of c.
//
func (c *Circuit) Snapshot() *Snapshot {
	s := &Snapshot{
		Elements: make([]ElementRecord, 0, len(c.order)),
		Pins:     make([]PinRecord, 0, len(c.pins)),
		Wires:    c.Wires(),
	}
	for _, e := range c.Elements() {
		s.Elements = append(s.Elements, ElementRecord{
			ID:    e.ID,
			Kind:  e.Kind,
			X:     e.Pos.X,
			Y:     e.Pos.Y,
			Label: e.Label,
			Pins:  append([]PinID(nil), e.Pins...),
		})
	}
	for _, p := range c.pins {
		s.Pins = append(s.Pins, PinRecord{
			ID:      p.ID,
			Dir:     p.Dir,
			Name:    p.Name,
			Element: p.Element,
			State:   p.State,
			Driver:  p.Driver,
		})
	}
	sort.Slice(s.Pins, func(i, j int) bool { return s.Pins[i].ID < s.Pins[j].ID })
	return s
}

// FromSnapshot rebuilds a circuit from its serialized form, keeping element
// and pin ids. Drivers are re-linked from the wire list; the driver field of
// pin records is ignored. Output pin states are restored and input pins are
// refreshed from their drivers.
//
// Snapshots that break the circuit invariants (duplicate or zero ids, pins
// owned by no or several elements, pin layouts not matching the element kind,
// invalid wires or input pins with several drivers) are rejected with an error
// matching ErrInvalidCircuit. A pin record with id 0 (the browser editor's
// "no connection" pin) is skipped.
//
func FromSnapshot(s *Snapshot) (*Circuit, error) {
	c := New()
	recs := make(map[PinID]*PinRecord, len(s.Pins))
	for i := range s.Pins {
		r := &s.Pins[i]
		if r.ID == NoPin {
			continue
		}
		if recs[r.ID] != nil {
			return nil, invalid(errors.Errorf("duplicate pin id %d", r.ID))
		}
		recs[r.ID] = r
	}

	for _, er := range s.Elements {
		switch {
		case er.ID == 0:
			return nil, invalid(errors.New("element id 0"))
		case c.elements[er.ID] != nil:
			return nil, invalid(errors.Errorf("duplicate element id %d", er.ID))
		case !er.Kind.Valid():
			return nil, invalid(errors.Wrapf(ErrUnknownKind, "element %d", er.ID))
		}
		names := er.Kind.PinNames()
		if len(er.Pins) != len(names) {
			return nil, invalid(errors.Wrapf(ErrArity, "element %d (%s) has %d pins, want %d", er.ID, er.Kind, len(er.Pins), len(names)))
		}
		e := &Element{
			ID:    er.ID,
			Kind:  er.Kind,
			Pos:   Position{X: er.X, Y: er.Y},
			Label: er.Label,
			Pins:  make([]PinID, len(names)),
		}
		for i, id := range er.Pins {
			r := recs[id]
			if r == nil {
				return nil, invalid(errors.Wrapf(ErrUnknownPin, "element %d: pin %d", er.ID, id))
			}
			if c.pins[id] != nil {
				return nil, invalid(errors.Errorf("pin %d owned by several elements", id))
			}
			dir := In
			if i >= er.Kind.Arity() {
				dir = Out
			}
			if r.Dir != dir {
				return nil, invalid(errors.Wrapf(ErrArity, "element %d: pin %d is an %s pin, want %s", er.ID, id, r.Dir, dir))
			}
			p := &Pin{ID: id, Dir: dir, Name: names[i], Element: er.ID}
			if dir == Out {
				p.State = r.State
			}
			c.pins[id] = p
			e.Pins[i] = id
			if id > c.lastPin {
				c.lastPin = id
			}
		}
		c.insert(e)
		if e.ID > c.lastElem {
			c.lastElem = e.ID
		}
	}

	if len(c.pins) != len(recs) {
		for _, r := range s.Pins {
			if r.ID != NoPin && c.pins[r.ID] == nil {
				return nil, invalid(errors.Errorf("pin %d not owned by any element", r.ID))
			}
		}
	}

	for _, w := range s.Wires {
		if _, err := c.AddWire(w.From, w.To); err != nil {
			return nil, invalid(errors.Wrapf(err, "wire %d->%d", w.From, w.To))
		}
	}
	c.Propagate()
	return c, nil
}

// MarshalJSON implements json.Marshaler.
//
func (c *Circuit) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Snapshot())
}

// UnmarshalJSON implements json.Unmarshaler. On error, c is left unchanged.
//
func (c *Circuit) UnmarshalJSON(b []byte) error {
	var s Snapshot
	if err := json.Unmarshal(b, &s); err != nil {
		return invalid(err)
	}
	nc, err := FromSnapshot(&s)
	if err != nil {
		return err
	}
	*c = *nc
	return nil
}

// Decode reads a JSON encoded circuit from r.
//
func Decode(r io.Reader) (*Circuit, error) {
	var s Snapshot
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return nil, invalid(err)
	}
	return FromSnapshot(&s)
}

// Encode writes c to w as indented JSON.
//
func (c *Circuit) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(c.Snapshot())
}
