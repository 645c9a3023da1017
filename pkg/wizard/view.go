// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package wizard

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Wizard styles
var (
	modalStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("212")).
			Padding(0, 1)

	modalTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212")).
			Background(lipgloss.Color("236")).
			Padding(0, 1).
			MarginBottom(1)

	stepActiveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")).
			Bold(true)

	stepIdleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	stepSeparatorStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240"))

	loadingTitleStyle = lipgloss.NewStyle().
				Bold(true)

	loadingMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245"))

	panelStyle = lipgloss.NewStyle().
			MarginTop(1)
)

// RenderFrame draws a frame. spin is the current busy-indicator glyph.
func RenderFrame(f Frame, spin string) string {
	if f.Loading != nil {
		var b strings.Builder
		b.WriteString(spin)
		b.WriteString(" ")
		b.WriteString(loadingTitleStyle.Render(f.Loading.Title))
		b.WriteString("\n")
		b.WriteString(loadingMessageStyle.Render(f.Loading.Message))
		return b.String()
	}

	var b strings.Builder
	b.WriteString(RenderStrip(f.Steps))
	if f.Panel != nil {
		b.WriteString("\n")
		b.WriteString(panelStyle.Render(f.Panel.Body))
	}
	return b.String()
}

// RenderStrip draws the step indicator strip, e.g. "1 General › 2 Clusters".
func RenderStrip(steps []Indicator) string {
	parts := make([]string, 0, len(steps))
	for _, s := range steps {
		text := s.Label + " " + s.Title
		if s.Active {
			parts = append(parts, stepActiveStyle.Render("["+text+"]"))
		} else {
			parts = append(parts, stepIdleStyle.Render(text))
		}
	}
	return strings.Join(parts, stepSeparatorStyle.Render(" › "))
}

// RenderModal wraps a frame in a titled border.
func RenderModal(title string, f Frame, spin string, width int) string {
	body := modalTitleStyle.Render(title) + "\n" + RenderFrame(f, spin)
	style := modalStyle
	if width > 4 {
		style = style.Width(width - 2)
	}
	return style.Render(body)
}
