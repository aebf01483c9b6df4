// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package tui implements an interactive terminal front-end for a Simulator.
//
package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/db47h/logicsim"
	"github.com/db47h/logicsim/internal/render"
)

var (
	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// Model is the bubbletea model. The cursor moves over the circuit's input
// switches.
//
type Model struct {
	sim      *logicsim.Simulator
	switches []*logicsim.Element
	cursor   int
	err      error
	quitting bool
}

// New returns a model over s.
//
func New(s *logicsim.Simulator) Model {
	return Model{
		sim:      s,
		switches: s.Circuit().ByKind(logicsim.Switch),
	}
}

// Init implements tea.Model.
//
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
//
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	m.err = nil
	switch km.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.switches)-1 {
			m.cursor++
		}
	case " ", "enter":
		if len(m.switches) > 0 {
			_, m.err = m.sim.Toggle(m.switches[m.cursor].Output())
		}
	case "s":
		// instability is shown by the renderer
		m.sim.SetSimulation(!m.sim.Simulating())
	}
	return m, nil
}

// Selected returns the selected switch, or nil if the circuit has none.
//
func (m Model) Selected() *logicsim.Element {
	if len(m.switches) == 0 {
		return nil
	}
	return m.switches[m.cursor]
}

// View implements tea.Model.
//
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder
	var sel logicsim.ElementID
	if e := m.Selected(); e != nil {
		sel = e.ID
	}
	b.WriteString(render.RenderSelected(m.sim, sel))
	if m.err != nil {
		b.WriteString(errStyle.Render(m.err.Error()))
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	b.WriteString(helpStyle.Render("[↑↓/jk] Select switch  [Space] Toggle  [S] Simulation on/off  [Q] Quit"))
	b.WriteByte('\n')
	return b.String()
}
