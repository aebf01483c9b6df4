// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package logicsim

import (
	"strings"

	"github.com/pkg/errors"
)

// Kind is the kind of a circuit element.
//
type Kind uint8

// Element kinds.
//
const (
	kindInvalid Kind = iota
	Switch           // input switch, one output pin set by the user
	Light            // output light, one input pin
	And
	Or
	Nand
	Xor
	Not
)

// gate is a truth function. Single input gates ignore b.
type gate func(a, b bool) bool

type kindInfo struct {
	name    string
	aliases []string
	inputs  []string
	output  string
	fn      gate
}

var (
	gateIn = []string{pinA, pinB}

	kinds = [...]kindInfo{
		kindInvalid: {name: "invalid"},
		Switch:      {name: "input-switch", aliases: []string{"switch", "input"}, output: pinOut},
		Light:       {name: "output-light", aliases: []string{"light", "output"}, inputs: []string{pinIn}},
		And: {name: "and", aliases: []string{"logic-and"}, inputs: gateIn, output: pinOut,
			fn: func(a, b bool) bool { return a && b }},
		Or: {name: "or", aliases: []string{"logic-or"}, inputs: gateIn, output: pinOut,
			fn: func(a, b bool) bool { return a || b }},
		Nand: {name: "nand", aliases: []string{"logic-nand"}, inputs: gateIn, output: pinOut,
			fn: func(a, b bool) bool { return !(a && b) }},
		Xor: {name: "xor", aliases: []string{"logic-xor"}, inputs: gateIn, output: pinOut,
			fn: func(a, b bool) bool { return a && !b || !a && b }},
		Not: {name: "not", aliases: []string{"logic-not"}, inputs: []string{pinIn}, output: pinOut,
			fn: func(a, _ bool) bool { return !a }},
	}
)

// Kinds returns all valid element kinds.
//
func Kinds() []Kind {
	return []Kind{Switch, Light, And, Or, Nand, Xor, Not}
}

func (k Kind) info() *kindInfo {
	if int(k) >= len(kinds) {
		return &kinds[kindInvalid]
	}
	return &kinds[k]
}

// Valid returns true if k is one of the defined kinds.
//
func (k Kind) Valid() bool {
	return k != kindInvalid && int(k) < len(kinds)
}

// IsGate returns true for logic gates (elements whose output is computed by
// the evaluator).
//
func (k Kind) IsGate() bool {
	return k.info().fn != nil
}

// Arity returns the number of input pins of k.
//
func (k Kind) Arity() int {
	return len(k.info().inputs)
}

// PinNames returns the pin names of k in declaration order: inputs first, then
// the output if any.
//
func (k Kind) PinNames() []string {
	sp := k.info()
	names := make([]string, 0, len(sp.inputs)+1)
	names = append(names, sp.inputs...)
	if sp.output != "" {
		names = append(names, sp.output)
	}
	return names
}

// Eval applies the truth table of k to the given input values. It returns
// false for non-gate kinds or if the number of inputs does not match Arity.
//
//	and:  out = a && b
//	or:   out = a || b
//	nand: out = !(a && b)
//	xor:  out = a && !b || !a && b
//	not:  out = !in
//
func (k Kind) Eval(in ...bool) bool {
	sp := k.info()
	if sp.fn == nil || len(in) != len(sp.inputs) {
		return false
	}
	var b bool
	if len(in) > 1 {
		b = in[1]
	}
	return sp.fn(in[0], b)
}

func (k Kind) String() string {
	return k.info().name
}

// MarshalText implements encoding.TextMarshaler.
//
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, errors.Wrapf(ErrUnknownKind, "kind %d", uint8(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
//
func (k *Kind) UnmarshalText(b []byte) error {
	v, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// ParseKind returns the kind with the given name. Names are case insensitive.
// Besides canonical names (input-switch, output-light, and, or, nand, xor,
// not), it accepts the short forms switch, input, light and output, and the
// logic- prefixed gate names used by the browser editor.
//
func ParseKind(name string) (Kind, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, k := range Kinds() {
		sp := k.info()
		if sp.name == name {
			return k, nil
		}
		for _, a := range sp.aliases {
			if a == name {
				return k, nil
			}
		}
	}
	return kindInvalid, errors.Wrapf(ErrUnknownKind, "%q", name)
}
