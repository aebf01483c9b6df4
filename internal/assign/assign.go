// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package assign parses and applies switch assignment lists like
//
//	a=1, b=0, cin=true
//
// Switches are named by label, or by output pin id with a leading '#': #3=1.
// Values are 0, 1, true, false, on or off.
//
package assign

import (
	"strconv"
	"strings"
	"text/scanner"

	"github.com/db47h/logicsim"
	"github.com/pkg/errors"
)

// Assignment is a single switch assignment.
//
type Assignment struct {
	Label string         // switch label; empty if Pin is set
	Pin   logicsim.PinID // switch output pin
	Value bool
	Pos   int // 1-based position in the input
}

func (a Assignment) name() string {
	if a.Label != "" {
		return a.Label
	}
	return "#" + strconv.FormatUint(uint64(a.Pin), 10)
}

func (a Assignment) String() string {
	if a.Value {
		return a.name() + "=1"
	}
	return a.name() + "=0"
}

type parser struct {
	in  string
	s   scanner.Scanner
	tok rune
	err error
}

func (p *parser) next() {
	p.tok = p.s.Scan()
}

func (p *parser) pos() int { return p.s.Position.Column }

func (p *parser) errorf(msg string) error {
	return errors.Errorf("in %q at pos %d: %s", p.in, p.pos(), msg)
}

func (p *parser) unexpected() error {
	if p.tok == scanner.EOF {
		return p.errorf("unexpected end of input")
	}
	return p.errorf("unexpected " + strconv.Quote(p.s.TokenText()))
}

// Parse parses a comma separated list of assignments. An empty input yields
// no assignment.
//
func Parse(in string) ([]Assignment, error) {
	p := &parser{in: in}
	p.s.Init(strings.NewReader(in))
	p.s.Mode = scanner.ScanIdents | scanner.ScanInts
	p.s.Error = func(s *scanner.Scanner, msg string) {
		if p.err == nil {
			p.err = p.errorf(msg)
		}
	}

	var out []Assignment
	p.next()
	if p.tok == scanner.EOF {
		return nil, nil
	}
	for {
		a, err := p.assignment()
		if err != nil {
			return nil, err
		}
		if p.err != nil {
			return nil, p.err
		}
		out = append(out, a)
		switch p.tok {
		case scanner.EOF:
			return out, nil
		case ',':
			p.next()
		default:
			return nil, p.unexpected()
		}
	}
}

func (p *parser) assignment() (Assignment, error) {
	a := Assignment{Pos: p.pos()}
	switch p.tok {
	case scanner.Ident:
		a.Label = p.s.TokenText()
	case '#':
		p.next()
		if p.tok != scanner.Int {
			return a, p.errorf("pin id expected after '#'")
		}
		n, err := strconv.ParseUint(p.s.TokenText(), 10, 32)
		if err != nil || n == 0 {
			return a, p.errorf("invalid pin id " + p.s.TokenText())
		}
		a.Pin = logicsim.PinID(n)
	default:
		return a, p.errorf("expected switch name")
	}
	p.next()
	if p.tok != '=' {
		return a, p.errorf("'=' expected after " + a.name())
	}
	p.next()
	switch strings.ToLower(p.s.TokenText()) {
	case "1", "true", "on":
		a.Value = true
	case "0", "false", "off":
	default:
		if p.tok == scanner.EOF {
			return a, p.unexpected()
		}
		return a, p.errorf("invalid value " + strconv.Quote(p.s.TokenText()))
	}
	p.next()
	return a, nil
}

// Resolve returns the switch output pin targeted by a.
//
func Resolve(c *logicsim.Circuit, a Assignment) (logicsim.PinID, error) {
	if a.Label == "" {
		return a.Pin, nil
	}
	for _, e := range c.ByKind(logicsim.Switch) {
		if e.Label == a.Label {
			return e.Output(), nil
		}
	}
	if c.Lookup(a.Label) != nil {
		return logicsim.NoPin, errors.Wrapf(logicsim.ErrNotSwitch, "%q", a.Label)
	}
	return logicsim.NoPin, errors.Errorf("no switch labeled %q", a.Label)
}

// Apply applies the assignments in order. It stops at the first error.
//
func Apply(s *logicsim.Simulator, as []Assignment) error {
	for _, a := range as {
		pin, err := Resolve(s.Circuit(), a)
		if err != nil {
			return err
		}
		if err := s.SetSwitch(pin, a.Value); err != nil {
			return errors.Wrapf(err, "%s", a)
		}
	}
	return nil
}
