package logictest_test

import (
	"fmt"
	"strings"
	"testing"

	sim "github.com/db47h/logicsim"
	ll "github.com/db47h/logicsim/logiclib"
	"github.com/db47h/logicsim/logictest"
)

func TestComparePart(t *testing.T) {
	or := sim.New()
	b := func(k sim.Kind) *sim.Element {
		e, err := or.AddElement(k, sim.Position{})
		if err != nil {
			t.Fatal(err)
		}
		return e
	}
	w := func(from, to sim.PinID) {
		if _, err := or.AddWire(from, to); err != nil {
			t.Fatal(err)
		}
	}
	// or from nands
	a, bb := b(sim.Switch), b(sim.Switch)
	notA, notB, n := b(sim.Nand), b(sim.Nand), b(sim.Nand)
	l := b(sim.Light)
	w(a.Output(), notA.Pin("a"))
	w(a.Output(), notA.Pin("b"))
	w(bb.Output(), notB.Pin("a"))
	w(bb.Output(), notB.Pin("b"))
	w(notA.Output(), n.Pin("a"))
	w(notB.Output(), n.Pin("b"))
	w(n.Output(), l.Pin("in"))
	custom := &ll.Part{
		Name:    "custom_or",
		Circuit: or,
		Inputs:  []ll.Port{{Name: "a", Pin: a.Output()}, {Name: "b", Pin: bb.Output()}},
		Outputs: []ll.Port{{Name: "out", Pin: l.Pin("in")}},
	}

	_, ref, err := ll.Build("gate-or")
	if err != nil {
		t.Fatal(err)
	}
	logictest.ComparePart(t, ref, custom)
}

func TestCompareFunc_sampled(t *testing.T) {
	// 14 inputs: too many for an exhaustive run
	c := sim.New()
	var in, out []sim.PinID
	for i := 0; i < 14; i++ {
		s, _ := c.AddElement(sim.Switch, sim.Position{})
		n, _ := c.AddElement(sim.Not, sim.Position{})
		if _, err := c.AddWire(s.Output(), n.Pin("in")); err != nil {
			t.Fatal(err)
		}
		in = append(in, s.Output())
		out = append(out, n.Output())
	}
	logictest.CompareFunc(t, c, in, out, func(in []bool) []bool {
		out := make([]bool, len(in))
		for i := range in {
			out[i] = !in[i]
		}
		return out
	})
}

// recorder collects failures instead of failing the enclosing test.
type recorder struct {
	testing.TB
	errs []string
}

func (r *recorder) Helper()                           {}
func (r *recorder) Logf(string, ...interface{})       {}
func (r *recorder) Errorf(f string, a ...interface{}) { r.errs = append(r.errs, fmt.Sprintf(f, a...)) }
func (r *recorder) Fatalf(f string, a ...interface{}) { r.errs = append(r.errs, fmt.Sprintf(f, a...)) }

func TestCompareFunc_unknownPin(t *testing.T) {
	c := sim.New()
	s, err := c.AddElement(sim.Switch, sim.Position{})
	if err != nil {
		t.Fatal(err)
	}
	r := &recorder{TB: t}
	logictest.CompareFunc(r, c, []sim.PinID{s.Output()}, []sim.PinID{9999}, func(in []bool) []bool {
		return []bool{true}
	})
	if len(r.errs) != 1 {
		t.Fatalf("got %d failures, expected 1: %q", len(r.errs), r.errs)
	}
	if !strings.Contains(r.errs[0], "pin9999=true") {
		t.Fatalf("unexpected failure message %q", r.errs[0])
	}
}
