// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package wizard

import (
	"strconv"

	"github.com/monadic/v2v-overview/internal/i18n"
)

// Placeholder is the busy indicator shown while the wizard is loading.
type Placeholder struct {
	Title   string
	Message string
}

// Indicator is one entry of the step strip.
type Indicator struct {
	Index  int
	Label  string // ordinal, index+1
	Title  string
	Active bool
}

// Panel is the content of the active step.
type Panel struct {
	Index int
	Title string
	Body  string
}

// Frame describes what a wizard shows. Exactly one of Loading or Steps is set;
// Panel may be nil when the active index does not resolve to a step.
type Frame struct {
	Loading *Placeholder
	Steps   []Indicator
	Panel   *Panel
}

// IsLoading reports whether the frame is the loading placeholder.
func (f Frame) IsLoading() bool { return f.Loading != nil }

// Renderer turns wizard state into a Frame.
type Renderer struct {
	Resolver       i18n.Resolver
	LoadingTitle   string
	LoadingMessage string
}

// DefaultRenderer uses the default placeholder texts and no translation.
func DefaultRenderer() Renderer {
	return Renderer{
		Resolver:       i18n.Identity{},
		LoadingTitle:   i18n.MsgLoadingWizard,
		LoadingMessage: i18n.MsgLoadingMessage,
	}
}

func (r Renderer) resolve(id string) string {
	if r.Resolver == nil {
		return id
	}
	return r.Resolver.Resolve(id)
}

// Render is a pure function of its inputs. When not loaded only the
// placeholder is produced, whatever steps and active hold.
func (r Renderer) Render(loaded bool, steps Catalog, active int) Frame {
	if !loaded {
		return Frame{Loading: &Placeholder{
			Title:   r.resolve(r.LoadingTitle),
			Message: r.resolve(r.LoadingMessage),
		}}
	}

	f := Frame{Steps: make([]Indicator, 0, len(steps))}
	for i, s := range steps {
		f.Steps = append(f.Steps, Indicator{
			Index:  i,
			Label:  strconv.Itoa(i + 1),
			Title:  r.resolve(s.Title),
			Active: i == active,
		})
	}

	if !steps.Valid(active) {
		return f
	}
	step := steps[active]
	p := &Panel{Index: active, Title: r.resolve(step.Title)}
	if step.Render != nil {
		p.Body = step.Render(active, step.Title)
	}
	f.Panel = p
	return f
}
