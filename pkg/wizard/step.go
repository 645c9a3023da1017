// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

// Package wizard implements a multi-step wizard: an ordered step catalog, a
// controller that tracks the active step behind a loading gate, and a
// description of what to draw that a presentation layer materializes.
package wizard

import "github.com/monadic/v2v-overview/internal/i18n"

// RenderFunc produces the content of a step. It receives the step index and
// the step's title identifier.
type RenderFunc func(index int, title string) string

// Step describes one page of a wizard. Identity is positional.
type Step struct {
	// Title is a message identifier, resolved when drawn.
	Title string
	// Render is optional; a step without it shows an empty panel.
	Render RenderFunc
	// OnClick runs when the step's indicator is clicked.
	OnClick func()
}

// Catalog is an ordered, immutable sequence of steps.
type Catalog []Step

// Len returns the number of steps.
func (c Catalog) Len() int { return len(c) }

// Valid reports whether i addresses a step.
func (c Catalog) Valid(i int) bool { return i >= 0 && i < len(c) }

// DefaultCatalog is the single "General" step used when the host supplies none.
func DefaultCatalog() Catalog {
	return Catalog{{
		Title:  i18n.MsgStepGeneral,
		Render: func(int, string) string { return "General" },
	}}
}
