// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package wizard

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// KeyMap binds wizard navigation keys.
type KeyMap struct {
	Prev  key.Binding
	Next  key.Binding
	Close key.Binding
}

// DefaultKeyMap returns the standard wizard bindings. Digits 1-9 click the
// matching indicator and are handled separately.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Prev:  key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev step")),
		Next:  key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next step")),
		Close: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Prev, k.Next, k.Close}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// CloseMsg asks the host to dismiss the named wizard.
type CloseMsg struct {
	Name string
}

// Modal is a bubbletea component hosting one Controller.
type Modal struct {
	name    string
	title   string
	ctrl    *Controller
	spinner spinner.Model
	keys    KeyMap
	width   int
}

// NewModal creates a modal. name identifies it in CloseMsg; title is shown in
// its border and is expected to be already resolved.
func NewModal(name, title string, ctrl *Controller) Modal {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))

	return Modal{
		name:    name,
		title:   title,
		ctrl:    ctrl,
		spinner: s,
		keys:    DefaultKeyMap(),
	}
}

// Name returns the modal's identifier.
func (m Modal) Name() string { return m.name }

// Controller returns the hosted controller.
func (m Modal) Controller() *Controller { return m.ctrl }

// Keys returns the modal's key bindings.
func (m Modal) Keys() KeyMap { return m.keys }

// Init starts the busy indicator.
func (m Modal) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles navigation keys, window size and spinner ticks.
func (m Modal) Update(msg tea.Msg) (Modal, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Close):
			name := m.name
			return m, func() tea.Msg { return CloseMsg{Name: name} }
		case !m.ctrl.Loaded():
			// Nothing to navigate until the step strip is shown.
			return m, nil
		case key.Matches(msg, m.keys.Prev):
			m.ctrl.Prev()
		case key.Matches(msg, m.keys.Next):
			m.ctrl.Next()
		default:
			if s := msg.String(); len(s) == 1 && s[0] >= '1' && s[0] <= '9' {
				m.ctrl.OnStepClick(int(s[0]-'1'))
			}
		}
	}
	return m, nil
}

// View draws the modal.
func (m Modal) View() string {
	return RenderModal(m.title, m.ctrl.Render(), m.spinner.View(), m.width)
}
