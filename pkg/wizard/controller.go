// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package wizard

import (
	"github.com/rs/zerolog"

	"github.com/monadic/v2v-overview/internal/i18n"
)

// state is either loading or ready.
type state interface {
	active() int
}

// loading holds the step that becomes active once data is ready.
type loading struct{ pending int }

func (s loading) active() int { return s.pending }

// ready carries an index already validated against the catalog. An empty
// catalog is ready with index 0 and renders no panel.
type ready struct{ index int }

func (s ready) active() int { return s.index }

// Controller owns the active step and the loaded flag of one wizard. The
// only way to move between steps is a step click.
type Controller struct {
	steps    Catalog
	state    state
	renderer Renderer
	log      zerolog.Logger
}

// Option configures a Controller.
type Option func(*Controller)

// WithResolver resolves step titles and placeholder texts.
func WithResolver(r i18n.Resolver) Option {
	return func(c *Controller) { c.renderer.Resolver = r }
}

// WithLoadingText overrides the placeholder title and message identifiers.
func WithLoadingText(title, message string) Option {
	return func(c *Controller) {
		if title != "" {
			c.renderer.LoadingTitle = title
		}
		if message != "" {
			c.renderer.LoadingMessage = message
		}
	}
}

// WithActiveStep sets the step shown first.
func WithActiveStep(i int) Option {
	return func(c *Controller) { c.state = loading{pending: i} }
}

// WithLogger sets the logger used for ignored clicks.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Controller) { c.log = l }
}

// New creates a controller in the loading state. A nil catalog gets the
// default single "General" step.
func New(steps Catalog, opts ...Option) *Controller {
	if steps == nil {
		steps = DefaultCatalog()
	}
	c := &Controller{
		steps:    steps,
		state:    loading{},
		renderer: DefaultRenderer(),
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Steps returns the catalog.
func (c *Controller) Steps() Catalog { return c.steps }

// Loaded reports whether the host has signalled data readiness.
func (c *Controller) Loaded() bool {
	_, ok := c.state.(ready)
	return ok
}

// ActiveStep returns the active step index.
func (c *Controller) ActiveStep() int { return c.state.active() }

// SetLoaded moves between loading and ready. Becoming ready validates the
// pending index; an index outside the catalog falls back to the first step.
func (c *Controller) SetLoaded(loaded bool) {
	switch s := c.state.(type) {
	case loading:
		if !loaded {
			return
		}
		idx := s.pending
		if !c.steps.Valid(idx) {
			idx = 0
		}
		c.state = ready{index: idx}
	case ready:
		if loaded {
			return
		}
		c.state = loading{pending: s.index}
	}
}

// OnStepClick handles a click on the indicator at index. A valid index runs
// that step's OnClick hook once and makes the step active. An index outside
// the catalog is logged and ignored. It reports whether the click was taken.
func (c *Controller) OnStepClick(index int) bool {
	if !c.steps.Valid(index) {
		c.log.Warn().Int("step", index).Int("steps", len(c.steps)).Msg("step click out of range ignored")
		return false
	}
	if hook := c.steps[index].OnClick; hook != nil {
		hook()
	}
	switch c.state.(type) {
	case ready:
		c.state = ready{index: index}
	default:
		c.state = loading{pending: index}
	}
	c.log.Debug().Int("step", index).Msg("step clicked")
	return true
}

// Next clicks the step after the active one.
func (c *Controller) Next() bool {
	next := c.ActiveStep() + 1
	if !c.steps.Valid(next) {
		return false
	}
	return c.OnStepClick(next)
}

// Prev clicks the step before the active one.
func (c *Controller) Prev() bool {
	prev := c.ActiveStep() - 1
	if !c.steps.Valid(prev) {
		return false
	}
	return c.OnStepClick(prev)
}

// Render describes the current state.
func (c *Controller) Render() Frame {
	return c.renderer.Render(c.Loaded(), c.steps, c.ActiveStep())
}
