// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package overview

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit        key.Binding
	Help        key.Binding
	Refresh     key.Binding
	NewMapping  key.Binding
	NewPlan     key.Binding
	ForceQuit   key.Binding
	wizardsOpen bool
	planAllowed bool
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:       key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		ForceQuit:  key.NewBinding(key.WithKeys("ctrl+c")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Refresh:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		NewMapping: key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "new mapping")),
		NewPlan:    key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "new plan")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	bindings := []key.Binding{k.NewMapping}
	if k.planAllowed {
		bindings = append(bindings, k.NewPlan)
	}
	bindings = append(bindings, k.Refresh, k.Help)
	if !k.wizardsOpen {
		bindings = append(bindings, k.Quit)
	}
	return bindings
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NewMapping, k.NewPlan},
		{k.Refresh, k.Help, k.Quit},
	}
}
