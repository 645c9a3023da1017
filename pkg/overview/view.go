// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package overview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/monadic/v2v-overview/internal/clierr"
	"github.com/monadic/v2v-overview/internal/i18n"
	"github.com/monadic/v2v-overview/internal/migrationsvc"
	"github.com/monadic/v2v-overview/pkg/inventory"
)

// Styles
var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("141"))
	nameStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("246"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	errStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))

	sourceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("236")).
			Padding(0, 1)
)

func (m Model) renderDashboard() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("MIGRATION OVERVIEW"))
	if m.source != "" {
		b.WriteString("  " + sourceStyle.Render(m.source))
	}
	b.WriteString("\n\n")

	for _, id := range m.ctrl.Sections() {
		b.WriteString(sectionStyle.Render(strings.ToUpper(m.loc.Resolve(id))))
		b.WriteString("\n")
		switch id {
		case i18n.MsgSectionMigrations:
			m.renderMigrations(&b)
		case i18n.MsgSectionMappings:
			m.renderMappings(&b)
		case i18n.MsgSectionInventory:
			m.renderInventory(&b)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderMigrations(b *strings.Builder) {
	plans := m.ctrl.Collection(inventory.Plans)
	if reason := m.collectionNote(plans); reason != "" {
		b.WriteString("  " + reason + "\n")
	}
	s := m.ctrl.MigrationSummary()
	groups := []struct {
		label string
		plans []inventory.Record
		style lipgloss.Style
	}{
		{"Not Started", s.Groups.NotStarted, dimStyle},
		{"In Progress", s.Groups.InProgress, warnStyle},
		{"Completed", s.Groups.Completed, okStyle},
		{"Failed", s.Groups.Failed, errStyle},
	}
	for _, g := range groups {
		fmt.Fprintf(b, "  %s %d\n", g.style.Render(fmt.Sprintf("%-12s", g.label)), len(g.plans))
		for _, p := range g.plans {
			fmt.Fprintf(b, "    %s", nameStyle.Render(p.Name))
			if vms := p.Attr("vms"); vms != "" && vms != "0" {
				fmt.Fprintf(b, " %s", dimStyle.Render(vms+" VMs"))
			}
			b.WriteString("\n")
		}
	}
	fmt.Fprintf(b, "  %s %d\n", dimStyle.Render(fmt.Sprintf("%-12s", "Archived")), s.Archived)
}

func (m Model) renderMappings(b *strings.Builder) {
	mappings := m.ctrl.Collection(inventory.Mappings)
	if reason := m.collectionNote(mappings); reason != "" {
		b.WriteString("  " + reason + "\n")
	}
	if len(mappings.Items) == 0 {
		if mappings.Settled() {
			b.WriteString("  " + dimStyle.Render("No infrastructure mappings yet. Press m to create one.") + "\n")
		}
		return
	}
	usage := migrationsvc.MappingUsage(m.ctrl.Items(inventory.Plans))
	for _, r := range mappings.Items {
		fmt.Fprintf(b, "  %s", nameStyle.Render(r.Name))
		if items := r.Attr("items"); items != "" {
			fmt.Fprintf(b, " %s", dimStyle.Render(items+" items"))
		}
		if n := usage[r.ID]; n > 0 {
			fmt.Fprintf(b, " %s", dimStyle.Render("used by "+pluralize(n, "plan", "plans")))
		}
		b.WriteString("\n")
	}
}

func (m Model) renderInventory(b *strings.Builder) {
	for _, k := range InventoryKinds {
		col := m.ctrl.Collection(k)
		label := fmt.Sprintf("%-20s", i18n.TitleCase(string(k)))
		switch {
		case col.Status == StatusRejected:
			fmt.Fprintf(b, "  %s %s\n", label, errStyle.Render("✗ "+clierr.Short(col.Err)))
		case !col.Settled():
			fmt.Fprintf(b, "  %s %s\n", label, m.spinner.View())
		default:
			fmt.Fprintf(b, "  %s %d\n", label, len(col.Items))
		}
	}
}

// collectionNote explains a rejected or pending collection, or returns "".
func (m Model) collectionNote(col Collection) string {
	switch {
	case col.Status == StatusRejected:
		return errStyle.Render("✗ " + clierr.Short(col.Err))
	case !col.Settled():
		return m.spinner.View() + " " + dimStyle.Render("loading...")
	}
	return ""
}

func pluralize(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}
