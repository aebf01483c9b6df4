package logicsim_test

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	sim "github.com/db47h/logicsim"
	"github.com/pkg/errors"
)

func TestCircuit_JSON(t *testing.T) {
	c := sim.New()
	s := add(t, c, sim.Switch, "S")
	tt := add(t, c, sim.Switch, "T")
	g := add(t, c, sim.Xor, "")
	l := add(t, c, sim.Light, "L")
	wire(t, c, s.Output(), g.Pin("a"))
	wire(t, c, tt.Output(), g.Pin("b"))
	wire(t, c, g.Output(), l.Pin("in"))
	c.SetSwitch(s.Output(), true)
	stabilize(t, c)

	var buf bytes.Buffer
	if err := c.Encode(&buf); err != nil {
		t.Fatal(err)
	}
	c2, err := sim.Decode(&buf)
	if err != nil {
		trace(t, err)
		t.Fatal(err)
	}
	if !reflect.DeepEqual(c.Snapshot(), c2.Snapshot()) {
		t.Fatalf("round trip mismatch:\n%+v\n%+v", c.Snapshot(), c2.Snapshot())
	}
	if !c2.Get(l.Pin("in")) {
		t.Fatal("light state lost")
	}
	if e := c2.Lookup("T"); e == nil || e.ID != tt.ID {
		t.Fatal("label lost")
	}

	// ids keep growing from the decoded maxima
	n, err := c2.AddElement(sim.Not, sim.Position{})
	if err != nil {
		t.Fatal(err)
	}
	if n.ID != l.ID+1 || n.Pins[0] != l.Pin("in")+1 {
		t.Fatalf("new element %+v", n)
	}

	// json.Marshaler / json.Unmarshaler
	b, err := json.Marshal(c)
	if err != nil {
		t.Fatal(err)
	}
	var c3 sim.Circuit
	if err := json.Unmarshal(b, &c3); err != nil {
		t.Fatal(err)
	}
	if c3.Len() != 4 || len(c3.Wires()) != 3 {
		t.Fatalf("decoded %d elements, %d wires", c3.Len(), len(c3.Wires()))
	}
}

func TestDecode_editorFormat(t *testing.T) {
	const src = `{
 "elements": [
  {"id": 1, "type": "input-switch", "x": 10, "y": 20, "pins": [{"id": 1, "x": 60, "y": 45, "dir": "out", "state": true}]},
  {"id": 2, "type": "logic-not", "x": 100, "y": 20, "pins": [{"id": 2, "dir": "in", "incommingPinID": 1}, {"id": 3, "dir": "out"}]},
  {"id": 3, "type": "output-light", "x": 200, "y": 20, "pins": [{"id": 4, "dir": "in", "incommingPinID": 3}]}
 ],
 "pins": [
  {"id": 0, "x": 0, "y": 0, "dir": "out"},
  {"id": 1, "x": 60, "y": 45, "dir": "out", "state": true},
  {"id": 2, "x": 100, "y": 45, "dir": "in", "incommingPinID": 1},
  {"id": 3, "x": 150, "y": 45, "dir": "out"},
  {"id": 4, "x": 200, "y": 45, "dir": "in", "incommingPinID": 3}
 ],
 "wires": [{"from": 1, "to": 2}, {"from": 3, "to": 4}]
}`
	c, err := sim.Decode(strings.NewReader(src))
	if err != nil {
		trace(t, err)
		t.Fatal(err)
	}
	if c.PinCount() != 4 || c.Len() != 3 {
		t.Fatalf("%d pins, %d elements", c.PinCount(), c.Len())
	}
	n := c.Element(2)
	if n == nil || n.Kind != sim.Not || n.Pos != (sim.Position{X: 100, Y: 20}) {
		t.Fatalf("bad element %+v", n)
	}
	if !c.Get(1) || !c.Get(2) {
		t.Fatal("switch state not restored")
	}
	stabilize(t, c)
	if c.Get(4) {
		t.Fatal("light on")
	}
	c.Toggle(1)
	stabilize(t, c)
	if !c.Get(4) {
		t.Fatal("light off")
	}
}

func TestDecode_driverFromWires(t *testing.T) {
	const src = `{"elements":[{"id":1,"kind":"switch","pins":[1]},{"id":2,"kind":"light","pins":[2]}],
"pins":[{"id":1,"dir":"out"},{"id":2,"dir":"in","driver":7}],
"wires":[{"from":1,"to":2}]}`
	c, err := sim.Decode(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	if d := c.Pin(2).Driver; d != 1 {
		t.Fatalf("driver = %d, expected 1", d)
	}
}

func TestDecode_invalid(t *testing.T) {
	const (
		sw    = `{"id":1,"kind":"switch","pins":[1]}`
		light = `{"id":2,"kind":"light","pins":[2]}`
		p1    = `{"id":1,"dir":"out"}`
		p2    = `{"id":2,"dir":"in"}`
	)
	doc := func(elems, pins, wires string) string {
		return `{"elements":[` + elems + `],"pins":[` + pins + `],"wires":[` + wires + `]}`
	}
	td := []struct {
		name  string
		src   string
		cause error
	}{
		{"syntax", `{"elements":`, nil},
		{"unknown kind", doc(`{"id":1,"kind":"logic-nor","pins":[1]}`, p1, ""), nil},
		{"bad pin list", doc(`{"id":1,"kind":"switch","pins":["x"]}`, p1, ""), nil},
		{"bad direction", doc(sw, `{"id":1,"dir":"sideways"}`, ""), nil},
		{"duplicate pin", doc(sw, p1+","+p1, ""), nil},
		{"element id 0", doc(`{"id":0,"kind":"switch","pins":[1]}`, p1, ""), nil},
		{"duplicate element", doc(sw+`,{"id":1,"kind":"light","pins":[2]}`, p1+","+p2, ""), nil},
		{"arity", doc(`{"id":1,"kind":"not","pins":[1]}`, p1, ""), sim.ErrArity},
		{"pin direction", doc(`{"id":1,"kind":"switch","pins":[2]}`, p2, ""), sim.ErrArity},
		{"missing pin", doc(sw, "", ""), sim.ErrUnknownPin},
		{"shared pin", doc(sw+`,{"id":2,"kind":"switch","pins":[1]}`, p1, ""), nil},
		{"orphan pin", doc(sw, p1+","+p2, ""), nil},
		{"unknown wire end", doc(sw+","+light, p1+","+p2, `{"from":1,"to":3}`), sim.ErrUnknownPin},
		{"wire direction", doc(sw+","+light, p1+","+p2, `{"from":2,"to":1}`), sim.ErrDirection},
		{"two drivers", doc(sw+","+light+`,{"id":3,"kind":"switch","pins":[3]}`, p1+","+p2+`,{"id":3,"dir":"out"}`,
			`{"from":1,"to":2},{"from":3,"to":2}`), sim.ErrDuplicateDriver},
	}
	for _, d := range td {
		t.Run(d.name, func(t *testing.T) {
			c, err := sim.Decode(strings.NewReader(d.src))
			if err == nil {
				t.Fatalf("no error, got %d elements", c.Len())
			}
			if !errors.Is(err, sim.ErrInvalidCircuit) {
				t.Fatalf("error %v does not match %v", err, sim.ErrInvalidCircuit)
			}
			if d.cause != nil && !errors.Is(err, d.cause) {
				t.Fatalf("error %v does not match %v", err, d.cause)
			}
		})
	}

	// a failed Unmarshal leaves the circuit alone
	c := sim.New()
	add(t, c, sim.Switch, "")
	if err := json.Unmarshal([]byte(doc(sw, "", "")), c); err == nil {
		t.Fatal("no error")
	}
	if c.Len() != 1 {
		t.Fatal("circuit modified")
	}
}
