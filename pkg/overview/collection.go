// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package overview

import (
	"time"

	"github.com/monadic/v2v-overview/pkg/inventory"
)

// Status is the lifecycle of one collection.
type Status string

const (
	StatusIdle     Status = "idle"
	StatusFetching Status = "fetching"
	StatusLoaded   Status = "loaded"
	StatusRejected Status = "rejected"
)

// Result is the outcome of one fetch, delivered back to the event loop.
type Result struct {
	Kind  inventory.Kind
	Seq   uint64
	Items []inventory.Record
	Err   error
	At    time.Time

	epoch uint64
}

// Collection is a snapshot of one collection's state.
type Collection struct {
	Kind      inventory.Kind
	Items     []inventory.Record
	Status    Status
	Err       error
	UpdatedAt time.Time
	// Seq is the sequence number of the applied result, 0 if none.
	Seq uint64
}

// Settled reports whether any result, success or failure, has been applied.
func (c Collection) Settled() bool { return c.Seq > 0 }

// collection is the event-loop-owned state behind a Collection.
type collection struct {
	items     []inventory.Record
	status    Status
	err       error
	updatedAt time.Time
	seq       uint64
}
