// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package overview

import (
	"github.com/monadic/v2v-overview/internal/i18n"
	"github.com/monadic/v2v-overview/pkg/inventory"
)

// Sections lists the message IDs of the sections shown, top to bottom.
// Migrations is present only while there are mappings.
func (c *Controller) Sections() []string {
	sections := make([]string, 0, 3)
	if c.ShowMigrations() {
		sections = append(sections, i18n.MsgSectionMigrations)
	}
	return append(sections, i18n.MsgSectionMappings, i18n.MsgSectionInventory)
}

// InventoryKinds are the collections listed in the Inventory section.
var InventoryKinds = []inventory.Kind{
	inventory.Providers,
	inventory.Clusters,
	inventory.Networks,
	inventory.Datastores,
	inventory.CloudTenants,
	inventory.CloudNetworks,
	inventory.CloudVolumeTypes,
	inventory.Playbooks,
}
