// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package render draws the state of a simulated circuit as styled text.
//
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/db47h/logicsim"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	simStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	editStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	onStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	offStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	alertStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	cursorStyle = lipgloss.NewStyle().Reverse(true)
)

// Render renders the simulator state: a header with the mode and stability
// and one line per element.
//
func Render(s *logicsim.Simulator) string {
	return RenderSelected(s, 0)
}

// RenderSelected is like Render and highlights the element with id sel.
//
func RenderSelected(s *logicsim.Simulator, sel logicsim.ElementID) string {
	var b strings.Builder
	b.WriteString(header(s))
	b.WriteByte('\n')
	if s.Simulating() && s.Unstable() {
		b.WriteString(banner(s.Last()))
		b.WriteByte('\n')
	}
	c := s.Circuit()
	if c.Len() == 0 {
		b.WriteString(dimStyle.Render("(empty circuit)"))
		b.WriteByte('\n')
	}
	for _, e := range c.Elements() {
		l := line(s, e)
		if e.ID == sel {
			l = cursorStyle.Render(l)
		}
		b.WriteString(l)
		b.WriteByte('\n')
	}
	return b.String()
}

func header(s *logicsim.Simulator) string {
	c := s.Circuit()
	var b strings.Builder
	b.WriteString(titleStyle.Render("logicsim"))
	b.WriteString("  ")
	if !s.Simulating() {
		b.WriteString(editStyle.Render("EDIT"))
	} else {
		b.WriteString(simStyle.Render("SIMULATION"))
		if r := s.Last(); r.Stable {
			b.WriteString(dimStyle.Render(fmt.Sprintf("  stable after %d rounds", r.Rounds)))
		}
	}
	b.WriteString(dimStyle.Render(fmt.Sprintf("  %d elements, %d wires", c.Len(), len(c.Wires()))))
	return b.String()
}

func banner(r logicsim.Result) string {
	ids := make([]string, len(r.Feedback))
	for i, id := range r.Feedback {
		ids[i] = fmt.Sprintf("#%d", id)
	}
	msg := fmt.Sprintf("UNSTABLE after %d rounds", r.Rounds)
	if len(ids) > 0 {
		msg += ": feedback loop through " + strings.Join(ids, ", ")
	}
	return alertStyle.Render(msg)
}

func onOff(v bool) string {
	if v {
		return onStyle.Render("ON")
	}
	return offStyle.Render("OFF")
}

func bit(v bool) string {
	if v {
		return "1"
	}
	return "0"
}

func line(s *logicsim.Simulator, e *logicsim.Element) string {
	c := s.Circuit()
	id := fmt.Sprintf("#%-3d", e.ID)
	var state string
	switch e.Kind {
	case logicsim.Switch:
		state = onOff(c.Get(e.Output()))
	case logicsim.Light:
		if s.Simulating() {
			state = onOff(s.Lit(e.ID))
		} else {
			state = dimStyle.Render("-")
		}
	default:
		names := e.Kind.PinNames()
		parts := make([]string, len(e.Pins))
		for i, p := range e.Pins {
			v := "-"
			if s.Simulating() {
				v = bit(c.Get(p))
			}
			parts[i] = names[i] + "=" + v
		}
		state = strings.Join(parts, " ")
	}
	return fmt.Sprintf("%s %-12s %-8s %s", id, e.Kind, e.Label, state)
}
