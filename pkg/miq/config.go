// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package miq

import (
	"net/url"

	"github.com/monadic/v2v-overview/pkg/inventory"
)

// Endpoint is the API path and query used to list one collection.
type Endpoint struct {
	Path  string
	Query url.Values
}

// URL returns the path with its encoded query.
func (e Endpoint) URL() string {
	if len(e.Query) == 0 {
		return e.Path
	}
	return e.Path + "?" + e.Query.Encode()
}

func listing(path string, filters []string, attributes string) Endpoint {
	q := url.Values{}
	q.Set("expand", "resources")
	for _, f := range filters {
		q.Add("filter[]", f)
	}
	if attributes != "" {
		q.Set("attributes", attributes)
	}
	return Endpoint{Path: path, Query: q}
}

const planAttributes = "name,description,miq_requests,options,created_at,transformation_mapping"

// Endpoints is the single source of truth for ManageIQ collection URLs.
var Endpoints = map[inventory.Kind]Endpoint{
	inventory.Mappings: listing("/api/transformation_mappings", nil,
		"transformation_mapping_items"),
	inventory.Plans: listing("/api/service_templates",
		[]string{"type=ServiceTemplateTransformationPlan", "active=true"}, planAttributes),
	inventory.ArchivedPlans: listing("/api/service_templates",
		[]string{"type=ServiceTemplateTransformationPlan", "archived=true"}, planAttributes),
	inventory.Providers: listing("/api/providers", nil, "id,name,type"),
	inventory.Clusters: listing("/api/clusters", nil,
		"ext_management_system.emstype,v_parent_datacenter,ext_management_system.name"),
	inventory.Networks:   listing("/api/lans", nil, ""),
	inventory.Datastores: listing("/api/data_stores", nil, ""),
	inventory.CloudTenants: listing("/api/cloud_tenants", nil,
		"ext_management_system.name"),
	inventory.CloudNetworks:    listing("/api/cloud_networks", nil, ""),
	inventory.CloudVolumeTypes: listing("/api/cloud_volume_types", nil, ""),
	inventory.Playbooks: listing("/api/service_templates",
		[]string{"type=ServiceTemplateAnsiblePlaybook"}, ""),
}
