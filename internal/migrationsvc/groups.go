// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package migrationsvc

import (
	"sort"

	"github.com/monadic/v2v-overview/pkg/inventory"
)

// Groups holds plans partitioned by state, each sorted by name.
type Groups struct {
	NotStarted []inventory.Record
	InProgress []inventory.Record
	Completed  []inventory.Record
	Failed     []inventory.Record
}

// Total returns the number of grouped plans.
func (g Groups) Total() int {
	return len(g.NotStarted) + len(g.InProgress) + len(g.Completed) + len(g.Failed)
}

// GroupPlans partitions plans by PlanStatus.
func GroupPlans(plans []inventory.Record) Groups {
	var g Groups
	for _, p := range plans {
		switch PlanStatus(p) {
		case StatusInProgress:
			g.InProgress = append(g.InProgress, p)
		case StatusCompleted:
			g.Completed = append(g.Completed, p)
		case StatusFailed:
			g.Failed = append(g.Failed, p)
		default:
			g.NotStarted = append(g.NotStarted, p)
		}
	}
	for _, list := range [][]inventory.Record{g.NotStarted, g.InProgress, g.Completed, g.Failed} {
		sort.SliceStable(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	}
	return g
}

// MappingUsage counts the plans referencing each mapping ID.
func MappingUsage(plans []inventory.Record) map[string]int {
	usage := make(map[string]int)
	for _, p := range plans {
		for _, ref := range p.Refs {
			usage[ref]++
		}
	}
	return usage
}
