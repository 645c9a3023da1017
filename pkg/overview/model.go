// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package overview

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/monadic/v2v-overview/internal/i18n"
	"github.com/monadic/v2v-overview/pkg/wizard"
)

// Model is the dashboard screen. Wizards are stacked modals: the last one
// opened has focus and is drawn.
type Model struct {
	ctx      context.Context
	ctrl     *Controller
	loc      i18n.Resolver
	log      zerolog.Logger
	source   string
	modals   []wizard.Modal
	keys     keyMap
	help     help.Model
	spinner  spinner.Model
	showHelp bool
	width    int
	height   int
}

// ModelOption configures a Model.
type ModelOption func(*Model)

// WithResolver sets the localization resolver.
func WithResolver(r i18n.Resolver) ModelOption {
	return func(m *Model) { m.loc = r }
}

// WithSource sets the label describing where inventory comes from.
func WithSource(s string) ModelOption {
	return func(m *Model) { m.source = s }
}

// WithModelLogger sets the logger handed to wizard controllers.
func WithModelLogger(l zerolog.Logger) ModelOption {
	return func(m *Model) { m.log = l }
}

// NewModel creates the screen. The controller is activated by Init and
// deactivated when the program quits.
func NewModel(ctx context.Context, ctrl *Controller, opts ...ModelOption) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	m := Model{
		ctx:     ctx,
		ctrl:    ctrl,
		loc:     i18n.Identity{},
		log:     zerolog.Nop(),
		keys:    defaultKeyMap(),
		help:    help.New(),
		spinner: s,
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Controller returns the screen's state controller.
func (m Model) Controller() *Controller { return m.ctrl }

// Wizards returns the names of the open wizards, focused last.
func (m Model) Wizards() []string {
	names := make([]string, len(m.modals))
	for i, md := range m.modals {
		names[i] = md.Name()
	}
	return names
}

// waitForResult blocks on the next completed fetch.
func waitForResult(ch <-chan Result) tea.Cmd {
	return func() tea.Msg {
		return <-ch
	}
}

// Init activates the controller and starts listening for results.
func (m Model) Init() tea.Cmd {
	m.ctrl.Activate(m.ctx)
	return tea.Batch(waitForResult(m.ctrl.Results()), m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		for i := range m.modals {
			m.modals[i], _ = m.modals[i].Update(msg)
		}
		return m, nil

	case spinner.TickMsg:
		var cmds []tea.Cmd
		if msg.ID == m.spinner.ID() {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
		for i := range m.modals {
			var cmd tea.Cmd
			m.modals[i], cmd = m.modals[i].Update(msg)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)

	case Result:
		m.ctrl.Apply(msg)
		m.syncWizards()
		if !m.ctrl.Active() {
			return m, nil
		}
		return m, waitForResult(m.ctrl.Results())

	case wizard.CloseMsg:
		m.closeWizard(msg.Name)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.ForceQuit):
		return m.quit()

	case key.Matches(msg, m.keys.NewMapping):
		return m.openWizard(MappingWizard)

	case key.Matches(msg, m.keys.NewPlan):
		return m.openWizard(PlanWizard)

	case key.Matches(msg, m.keys.Refresh):
		m.ctrl.Refresh()
		return m, nil
	}

	if len(m.modals) > 0 {
		top := len(m.modals) - 1
		var cmd tea.Cmd
		m.modals[top], cmd = m.modals[top].Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
	}
	return m, nil
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.ctrl.Deactivate()
	m.syncWizards()
	return m, tea.Quit
}

// openWizard shows a wizard, or gives an open one focus.
func (m Model) openWizard(name string) (tea.Model, tea.Cmd) {
	for i, md := range m.modals {
		if md.Name() == name {
			m.modals = append(append(m.modals[:i:i], m.modals[i+1:]...), md)
			return m, nil
		}
	}

	var (
		steps wizard.Catalog
		title string
	)
	switch name {
	case MappingWizard:
		if !m.ctrl.OpenMappingWizard() {
			return m, nil
		}
		steps, title = m.ctrl.MappingCatalog(), i18n.MsgMappingWizardTitle
	case PlanWizard:
		if !m.ctrl.OpenPlanWizard() {
			return m, nil
		}
		steps, title = m.ctrl.PlanCatalog(), i18n.MsgPlanWizardTitle
	default:
		return m, nil
	}

	ctrl := wizard.New(steps, wizard.WithResolver(m.loc), wizard.WithLogger(m.log))
	ctrl.SetLoaded(m.ctrl.WizardReady(name))
	md := wizard.NewModal(name, m.loc.Resolve(title), ctrl)
	md, _ = md.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
	m.modals = append(m.modals, md)
	return m, md.Init()
}

func (m *Model) closeWizard(name string) {
	m.ctrl.CloseWizard(name)
	kept := m.modals[:0:0]
	for _, md := range m.modals {
		if md.Name() != name {
			kept = append(kept, md)
		}
	}
	m.modals = kept
}

// syncWizards drops modals the controller closed and marks the rest loaded
// once their data has settled.
func (m *Model) syncWizards() {
	kept := m.modals[:0:0]
	for _, md := range m.modals {
		visible := (md.Name() == MappingWizard && m.ctrl.MappingWizardVisible()) ||
			(md.Name() == PlanWizard && m.ctrl.PlanWizardVisible())
		if !visible {
			continue
		}
		md.Controller().SetLoaded(m.ctrl.WizardReady(md.Name()))
		kept = append(kept, md)
	}
	m.modals = kept
}

// View draws the dashboard, or the focused wizard over it.
func (m Model) View() string {
	if len(m.modals) > 0 {
		top := m.modals[len(m.modals)-1]
		body := top.View() + "\n" + m.help.View(top.Keys())
		if n := len(m.modals) - 1; n > 0 {
			body += "\n" + dimStyle.Render(pluralize(n, "other wizard", "other wizards")+" open")
		}
		if m.width > 0 && m.height > 0 {
			return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
		}
		return body
	}

	m.keys.planAllowed = m.ctrl.ShowMigrations()
	m.keys.wizardsOpen = false
	if m.showHelp {
		return m.renderDashboard() + "\n" + m.help.FullHelpView(m.keys.FullHelp())
	}
	return m.renderDashboard() + "\n" + m.help.View(m.keys)
}
