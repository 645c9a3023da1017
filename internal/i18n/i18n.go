// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

// Package i18n resolves display strings for the dashboard.
// Message identifiers are the English text itself, so an identifier without a
// translation resolves to itself.
package i18n

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message identifiers used by the core.
const (
	MsgLoadingWizard  = "Loading Wizard..."
	MsgLoadingMessage = "Lorem ipsum dolor sit amet..."

	MsgStepGeneral    = "General"
	MsgStepClusters   = "Clusters"
	MsgStepDatastores = "Datastores"
	MsgStepNetworks   = "Networks"
	MsgStepResults    = "Results"
	MsgStepVMs        = "VMs"
	MsgStepAdvanced   = "Advanced Options"
	MsgStepSchedule   = "Schedule"

	MsgMappingWizardTitle = "Infrastructure Mapping Wizard"
	MsgPlanWizardTitle    = "Migration Plan Wizard"

	MsgSectionMigrations = "Migrations"
	MsgSectionMappings   = "Infrastructure Mappings"
	MsgSectionInventory  = "Inventory"
)

// Resolver turns a message identifier into a display string.
type Resolver interface {
	Resolve(id string) string
}

// Localizer is a Resolver backed by an x/text message catalog.
type Localizer struct {
	tag     language.Tag
	printer *message.Printer
}

var translations = map[language.Tag]map[string]string{
	language.Spanish: {
		MsgLoadingWizard:      "Cargando asistente...",
		MsgStepGeneral:        "General",
		MsgStepClusters:       "Clústeres",
		MsgStepDatastores:     "Almacenes de datos",
		MsgStepNetworks:       "Redes",
		MsgStepResults:        "Resultados",
		MsgStepVMs:            "Máquinas virtuales",
		MsgStepAdvanced:       "Opciones avanzadas",
		MsgStepSchedule:       "Programación",
		MsgMappingWizardTitle: "Asistente de asignación de infraestructura",
		MsgPlanWizardTitle:    "Asistente de plan de migración",
		MsgSectionMigrations:  "Migraciones",
		MsgSectionMappings:    "Asignaciones de infraestructura",
		MsgSectionInventory:   "Inventario",
	},
}

var (
	supported    = []language.Tag{language.English, language.Spanish}
	matcher      = language.NewMatcher(supported)
	builtCatalog = buildCatalog()
)

func buildCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for tag, msgs := range translations {
		for id, text := range msgs {
			_ = b.SetString(tag, escape(id), escape(text))
		}
	}
	return b
}

// New returns a Localizer for the given BCP 47 locale. Unknown or empty
// locales fall back to English.
func New(locale string) *Localizer {
	tag := language.English
	if locale != "" {
		if parsed, err := language.Parse(locale); err == nil {
			_, idx, conf := matcher.Match(parsed)
			if conf != language.No {
				tag = supported[idx]
			}
		}
	}
	return &Localizer{
		tag:     tag,
		printer: message.NewPrinter(tag, message.Catalog(builtCatalog)),
	}
}

// Tag returns the resolved language.
func (l *Localizer) Tag() language.Tag {
	return l.tag
}

// Resolve implements Resolver.
func (l *Localizer) Resolve(id string) string {
	if l == nil || id == "" {
		return id
	}
	return l.printer.Sprintf(escape(id))
}

// escape keeps identifiers and translations from being read as printf verbs.
func escape(s string) string {
	return strings.ReplaceAll(s, "%", "%%")
}

// Identity is a Resolver that returns identifiers unchanged.
type Identity struct{}

// Resolve implements Resolver.
func (Identity) Resolve(id string) string { return id }

var titleCaser = cases.Title(language.English)

// TitleCase turns a dashed collection name such as "cloud-tenants" into
// "Cloud Tenants".
func TitleCase(s string) string {
	return titleCaser.String(strings.ReplaceAll(s, "-", " "))
}
