// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package wizard

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/monadic/v2v-overview/internal/i18n"
)

// countingCatalog returns n steps whose hooks count clicks into clicks[i].
func countingCatalog(n int, clicks []int) Catalog {
	steps := make(Catalog, n)
	for i := range steps {
		i := i
		steps[i] = Step{
			Title:   fmt.Sprintf("Step %d", i),
			Render:  func(idx int, title string) string { return fmt.Sprintf("content %d %s", idx, title) },
			OnClick: func() { clicks[i]++ },
		}
	}
	return steps
}

func TestNewDefaults(t *testing.T) {
	c := New(nil)

	assert.False(t, c.Loaded())
	assert.Equal(t, 0, c.ActiveStep())
	require.Equal(t, 1, c.Steps().Len())
	assert.Equal(t, "General", c.Steps()[0].Title)
}

func TestRenderLoadingPlaceholderDefaults(t *testing.T) {
	steps := Catalog{{Title: "General", Render: func(int, string) string { return "General" }}}
	c := New(steps)

	f := c.Render()
	want := Frame{Loading: &Placeholder{
		Title:   "Loading Wizard...",
		Message: "Lorem ipsum dolor sit amet...",
	}}
	if diff := cmp.Diff(want, f); diff != "" {
		t.Errorf("Render() mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderNotLoadedIgnoresSteps(t *testing.T) {
	r := DefaultRenderer()
	clicks := make([]int, 4)

	for _, steps := range []Catalog{nil, {}, countingCatalog(4, clicks)} {
		for _, active := range []int{-1, 0, 2, 99} {
			f := r.Render(false, steps, active)
			assert.True(t, f.IsLoading())
			assert.Nil(t, f.Steps)
			assert.Nil(t, f.Panel)
		}
	}
}

func TestRenderLoadedStripAndPanel(t *testing.T) {
	r := DefaultRenderer()
	for n := 1; n <= 5; n++ {
		for active := 0; active < n; active++ {
			steps := countingCatalog(n, make([]int, n))
			f := r.Render(true, steps, active)

			require.False(t, f.IsLoading())
			require.Len(t, f.Steps, n)
			activeCount := 0
			for i, ind := range f.Steps {
				assert.Equal(t, i, ind.Index)
				assert.Equal(t, fmt.Sprint(i+1), ind.Label)
				assert.Equal(t, fmt.Sprintf("Step %d", i), ind.Title)
				if ind.Active {
					activeCount++
					assert.Equal(t, active, i)
				}
			}
			assert.Equal(t, 1, activeCount)

			require.NotNil(t, f.Panel)
			assert.Equal(t, active, f.Panel.Index)
			assert.Equal(t, fmt.Sprintf("content %d Step %d", active, active), f.Panel.Body)
		}
	}
}

func TestRenderStaleIndexHasNoPanel(t *testing.T) {
	r := DefaultRenderer()

	f := r.Render(true, countingCatalog(2, make([]int, 2)), 5)
	assert.Len(t, f.Steps, 2)
	assert.Nil(t, f.Panel)

	f = r.Render(true, Catalog{}, 0)
	assert.Empty(t, f.Steps)
	assert.Nil(t, f.Panel)
	assert.False(t, f.IsLoading())
}

func TestRenderStepWithoutRender(t *testing.T) {
	f := DefaultRenderer().Render(true, Catalog{{Title: "Bare"}}, 0)
	require.NotNil(t, f.Panel)
	assert.Equal(t, "", f.Panel.Body)
}

func TestRenderResolvesTitles(t *testing.T) {
	c := New(Catalog{{Title: i18n.MsgStepClusters}}, WithResolver(i18n.New("es")))
	assert.Equal(t, "Cargando asistente...", c.Render().Loading.Title)

	c.SetLoaded(true)
	f := c.Render()
	assert.Equal(t, "Clústeres", f.Steps[0].Title)
}

func TestWithLoadingText(t *testing.T) {
	c := New(nil, WithLoadingText("Loading mapping wizard", ""))
	f := c.Render()
	assert.Equal(t, "Loading mapping wizard", f.Loading.Title)
	assert.Equal(t, "Lorem ipsum dolor sit amet...", f.Loading.Message)
}

func TestOnStepClickInvokesOnlyThatHook(t *testing.T) {
	for target := 0; target < 4; target++ {
		clicks := make([]int, 4)
		c := New(countingCatalog(4, clicks))
		c.SetLoaded(true)

		assert.True(t, c.OnStepClick(target))

		for i, n := range clicks {
			if i == target {
				assert.Equal(t, 1, n, "hook %d", i)
			} else {
				assert.Zero(t, n, "hook %d", i)
			}
		}
		assert.Equal(t, target, c.ActiveStep())
	}
}

func TestOnStepClickWithoutHook(t *testing.T) {
	clicks := make([]int, 2)
	steps := countingCatalog(2, clicks)
	steps[1].OnClick = nil
	c := New(steps)
	c.SetLoaded(true)

	assert.True(t, c.OnStepClick(1))
	assert.Equal(t, []int{0, 0}, clicks)
	assert.Equal(t, 1, c.ActiveStep())
}

func TestOnStepClickOutOfRange(t *testing.T) {
	var buf bytes.Buffer
	clicks := make([]int, 3)
	c := New(countingCatalog(3, clicks), WithLogger(zerolog.New(&buf)))
	c.SetLoaded(true)
	c.OnStepClick(1)

	for _, idx := range []int{-1, 3, 42} {
		assert.False(t, c.OnStepClick(idx))
	}
	assert.Equal(t, []int{0, 1, 0}, clicks)
	assert.Equal(t, 1, c.ActiveStep())
	assert.Contains(t, buf.String(), "step click out of range ignored")
}

func TestSetLoadedTransitions(t *testing.T) {
	c := New(countingCatalog(3, make([]int, 3)), WithActiveStep(2))
	assert.False(t, c.Loaded())
	assert.Equal(t, 2, c.ActiveStep())

	c.SetLoaded(true)
	assert.True(t, c.Loaded())
	assert.Equal(t, 2, c.ActiveStep())

	c.SetLoaded(true)
	assert.Equal(t, 2, c.ActiveStep())

	c.SetLoaded(false)
	assert.False(t, c.Loaded())
	assert.Equal(t, 2, c.ActiveStep())
	assert.True(t, c.Render().IsLoading())
}

func TestSetLoadedValidatesPendingIndex(t *testing.T) {
	c := New(countingCatalog(2, make([]int, 2)), WithActiveStep(7))
	c.SetLoaded(true)
	assert.Equal(t, 0, c.ActiveStep())
	assert.NotNil(t, c.Render().Panel)
}

func TestNextPrev(t *testing.T) {
	clicks := make([]int, 3)
	c := New(countingCatalog(3, clicks))
	c.SetLoaded(true)

	assert.False(t, c.Prev())
	assert.True(t, c.Next())
	assert.True(t, c.Next())
	assert.False(t, c.Next())
	assert.Equal(t, 2, c.ActiveStep())
	assert.True(t, c.Prev())
	assert.Equal(t, 1, c.ActiveStep())
	assert.Equal(t, []int{0, 2, 1}, clicks)
}
