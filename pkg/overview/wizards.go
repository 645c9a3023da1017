// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package overview

import (
	"fmt"
	"strings"

	"github.com/monadic/v2v-overview/internal/clierr"
	"github.com/monadic/v2v-overview/internal/i18n"
	"github.com/monadic/v2v-overview/pkg/inventory"
	"github.com/monadic/v2v-overview/pkg/wizard"
)

// Wizard names, used as modal identifiers.
const (
	MappingWizard = "mapping"
	PlanWizard    = "plan"
)

// Collections each wizard waits for before it leaves the loading state.
var (
	mappingWizardKinds = []inventory.Kind{inventory.Clusters, inventory.Datastores, inventory.Networks}
	planWizardKinds    = []inventory.Kind{inventory.Mappings, inventory.Playbooks}
)

// OpenMappingWizard shows the infrastructure mapping wizard. It reports
// whether the wizard was hidden before.
func (c *Controller) OpenMappingWizard() bool {
	if !c.active || c.mappingWizard {
		return false
	}
	c.mappingWizard = true
	return true
}

// OpenPlanWizard shows the migration plan wizard. Plans can only be created
// from the Migrations section, so this fails while it is hidden.
func (c *Controller) OpenPlanWizard() bool {
	if !c.active || c.planWizard || !c.ShowMigrations() {
		return false
	}
	c.planWizard = true
	return true
}

// CloseWizard hides the named wizard.
func (c *Controller) CloseWizard(name string) {
	switch name {
	case MappingWizard:
		c.mappingWizard = false
	case PlanWizard:
		c.planWizard = false
	}
}

// MappingWizardVisible reports whether the mapping wizard is shown.
func (c *Controller) MappingWizardVisible() bool { return c.mappingWizard }

// PlanWizardVisible reports whether the plan wizard is shown.
func (c *Controller) PlanWizardVisible() bool { return c.planWizard }

// WizardReady reports whether the data the named wizard needs has arrived.
func (c *Controller) WizardReady(name string) bool {
	switch name {
	case MappingWizard:
		return c.Settled(mappingWizardKinds...)
	case PlanWizard:
		return c.Settled(planWizardKinds...)
	}
	return false
}

// MappingCatalog returns the steps of the infrastructure mapping wizard.
// Clicking a data step retries its collection if the last fetch failed.
func (c *Controller) MappingCatalog() wizard.Catalog {
	return wizard.Catalog{
		{Title: i18n.MsgStepGeneral, Render: c.renderText("Name the mapping and describe what it migrates.")},
		{Title: i18n.MsgStepClusters, Render: c.renderKind(inventory.Clusters), OnClick: c.retryFn(inventory.Clusters)},
		{Title: i18n.MsgStepDatastores, Render: c.renderKind(inventory.Datastores), OnClick: c.retryFn(inventory.Datastores)},
		{Title: i18n.MsgStepNetworks, Render: c.renderKind(inventory.Networks), OnClick: c.retryFn(inventory.Networks)},
		{Title: i18n.MsgStepResults, Render: c.renderMappingResults},
	}
}

// PlanCatalog returns the steps of the migration plan wizard.
func (c *Controller) PlanCatalog() wizard.Catalog {
	return wizard.Catalog{
		{Title: i18n.MsgStepGeneral, Render: c.renderKind(inventory.Mappings), OnClick: c.retryFn(inventory.Mappings)},
		{Title: i18n.MsgStepVMs, Render: c.renderText("Select the virtual machines to migrate.")},
		{Title: i18n.MsgStepAdvanced, Render: c.renderKind(inventory.Playbooks), OnClick: c.retryFn(inventory.Playbooks)},
		{Title: i18n.MsgStepSchedule, Render: c.renderText("Start the plan now or save it to start later.")},
		{Title: i18n.MsgStepResults, Render: c.renderText("Review the plan and create it.")},
	}
}

func (c *Controller) retryFn(kind inventory.Kind) func() {
	return func() { c.Retry(kind) }
}

func (c *Controller) renderText(text string) wizard.RenderFunc {
	return func(int, string) string { return text }
}

// renderKind lists a collection, or says why it is missing.
func (c *Controller) renderKind(kind inventory.Kind) wizard.RenderFunc {
	return func(int, string) string {
		col := c.Collection(kind)
		if col.Status == StatusRejected && len(col.Items) == 0 {
			return fmt.Sprintf("Could not load %s: %s", i18n.TitleCase(string(kind)), clierr.Short(col.Err))
		}
		if len(col.Items) == 0 {
			return fmt.Sprintf("No %s found.", strings.ReplaceAll(string(kind), "-", " "))
		}
		var b strings.Builder
		for i, r := range col.Items {
			if i > 0 {
				b.WriteString("\n")
			}
			b.WriteString("• " + r.Name)
			if p := r.Attr("provider"); p != "" {
				b.WriteString(" (" + p + ")")
			}
		}
		return b.String()
	}
}

func (c *Controller) renderMappingResults(int, string) string {
	return fmt.Sprintf("%d clusters, %d datastores, %d networks available.",
		len(c.Items(inventory.Clusters)),
		len(c.Items(inventory.Datastores)),
		len(c.Items(inventory.Networks)))
}
