// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

// Package overview keeps the migration dashboard's collections fresh and
// decides what the screen shows: which sections exist and which wizards are
// open.
//
// All state is owned by one event loop. Fetches and poll firings run on
// their own goroutines and hand back a Result on the channel returned by
// Results; the loop passes each one to Apply. Apply keeps only the newest
// issued result per collection, so overlapping polls that finish out of
// order never roll the screen back.
package overview

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"k8s.io/utils/clock"

	"github.com/monadic/v2v-overview/internal/clierr"
	"github.com/monadic/v2v-overview/internal/migrationsvc"
	"github.com/monadic/v2v-overview/pkg/inventory"
	"github.com/monadic/v2v-overview/pkg/poll"
)

// DefaultPollInterval is how often transformation plans are re-fetched.
const DefaultPollInterval = 15 * time.Second

// PolledKind is the collection kept fresh by the scheduler.
const PolledKind = inventory.Plans

// Controller is the overview screen's state. Methods other than Results
// must be called from the event loop.
type Controller struct {
	fetcher  inventory.Fetcher
	clock    clock.WithTicker
	interval time.Duration
	log      zerolog.Logger
	sched    *poll.Scheduler

	results     chan Result
	issued      map[inventory.Kind]*atomic.Uint64
	collections map[inventory.Kind]*collection

	active bool
	epoch  uint64
	ctx    context.Context
	cancel context.CancelFunc

	mappingWizard bool
	planWizard    bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock replaces the wall clock used for polling and timestamps.
func WithClock(c clock.WithTicker) Option {
	return func(o *Controller) { o.clock = c }
}

// WithInterval overrides the plan polling interval.
func WithInterval(d time.Duration) Option {
	return func(o *Controller) {
		if d > 0 {
			o.interval = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(o *Controller) { o.log = l }
}

// NewController creates an inactive controller reading from fetcher.
func NewController(fetcher inventory.Fetcher, opts ...Option) *Controller {
	c := &Controller{
		fetcher:     fetcher,
		clock:       clock.RealClock{},
		interval:    DefaultPollInterval,
		log:         zerolog.Nop(),
		results:     make(chan Result, 4*len(inventory.AllKinds)),
		issued:      make(map[inventory.Kind]*atomic.Uint64, len(inventory.AllKinds)),
		collections: make(map[inventory.Kind]*collection, len(inventory.AllKinds)),
	}
	for _, opt := range opts {
		opt(c)
	}
	for _, k := range inventory.AllKinds {
		c.issued[k] = &atomic.Uint64{}
		c.collections[k] = &collection{status: StatusIdle}
	}
	c.sched = poll.New(poll.WithClock(c.clock), poll.WithLogger(c.log))
	return c
}

// Results is where completed fetches arrive.
func (c *Controller) Results() <-chan Result { return c.results }

// Active reports whether the controller is between Activate and Deactivate.
func (c *Controller) Active() bool { return c.active }

// Scheduler exposes the plan poller.
func (c *Controller) Scheduler() *poll.Scheduler { return c.sched }

// Activate issues one fetch per collection and starts polling plans. The
// scheduler's immediate firing is the initial plan fetch. Activating an
// active controller does nothing.
func (c *Controller) Activate(ctx context.Context) {
	if c.active {
		return
	}
	c.epoch++
	ctx, c.cancel = context.WithCancel(ctx)
	c.ctx = ctx
	c.active = true

	for _, k := range inventory.AllKinds {
		if k == PolledKind {
			continue
		}
		c.issue(ctx, k)
	}

	epoch := c.epoch
	c.sched.Start(ctx, func(ctx context.Context, f poll.Firing) error {
		seq := c.issued[PolledKind].Add(1)
		c.log.Debug().Uint64("firing", f.Seq).Uint64("seq", seq).Msg("polling plans")
		return c.fetch(ctx, epoch, PolledKind, seq)
	}, c.interval)

	c.log.Info().Dur("interval", c.interval).Msg("overview activated")
}

// Deactivate stops polling and tears the state down: results still in
// flight are dropped when they arrive. Open wizards are closed.
func (c *Controller) Deactivate() {
	if !c.active {
		return
	}
	c.sched.Stop()
	c.cancel()
	c.active = false
	c.mappingWizard = false
	c.planWizard = false
	c.log.Info().Msg("overview deactivated")
}

// Refresh re-issues every collection fetch. Plan polling is not restarted.
func (c *Controller) Refresh() {
	if !c.active {
		return
	}
	c.log.Debug().Msg("manual refresh")
	for _, k := range inventory.AllKinds {
		c.issue(c.ctx, k)
	}
}

// Retry re-issues the fetch of each given collection that is rejected.
func (c *Controller) Retry(kinds ...inventory.Kind) {
	if !c.active {
		return
	}
	for _, k := range kinds {
		if c.Collection(k).Status == StatusRejected {
			c.log.Debug().Str("collection", string(k)).Msg("retrying rejected collection")
			c.issue(c.ctx, k)
		}
	}
}

func (c *Controller) issue(ctx context.Context, kind inventory.Kind) {
	seq := c.issued[kind].Add(1)
	epoch := c.epoch
	go func() { _ = c.fetch(ctx, epoch, kind, seq) }()
}

// fetch runs one fetch and delivers its result. It returns the fetch error
// so the scheduler can count failures.
func (c *Controller) fetch(ctx context.Context, epoch uint64, kind inventory.Kind, seq uint64) error {
	items, err := c.fetcher.Fetch(ctx, kind)
	r := Result{Kind: kind, Seq: seq, Items: items, Err: err, At: c.clock.Now(), epoch: epoch}
	select {
	case c.results <- r:
	case <-ctx.Done():
	}
	return err
}

// Apply records a completed fetch. A result is dropped when the state has
// been torn down since it was issued or when a newer result for the same
// collection was already applied. A rejection keeps the previous items.
// It reports whether the result changed the state.
func (c *Controller) Apply(r Result) bool {
	if !c.active || r.epoch != c.epoch {
		c.log.Debug().Str("collection", string(r.Kind)).Uint64("seq", r.Seq).Msg("late result dropped")
		return false
	}
	col, ok := c.collections[r.Kind]
	if !ok {
		return false
	}
	if r.Seq <= col.seq {
		c.log.Debug().Str("collection", string(r.Kind)).Uint64("seq", r.Seq).Uint64("applied", col.seq).Msg("stale result discarded")
		return false
	}

	col.seq = r.Seq
	col.updatedAt = r.At
	if r.Err != nil {
		col.status = StatusRejected
		col.err = r.Err
		c.log.Warn().Err(r.Err).Str("collection", string(r.Kind)).Str("reason", clierr.ClassifyError(r.Err)).Msg("fetch rejected")
		return true
	}
	col.status = StatusLoaded
	col.err = nil
	col.items = r.Items
	return true
}

// Collection returns a snapshot of one collection. Its status is fetching
// while a fetch newer than the applied result is outstanding.
func (c *Controller) Collection(kind inventory.Kind) Collection {
	col, ok := c.collections[kind]
	if !ok {
		return Collection{Kind: kind, Status: StatusIdle}
	}
	status := col.status
	if c.active && c.issued[kind].Load() > col.seq {
		status = StatusFetching
	}
	return Collection{
		Kind:      kind,
		Items:     col.items,
		Status:    status,
		Err:       col.err,
		UpdatedAt: col.updatedAt,
		Seq:       col.seq,
	}
}

// Items returns the loaded items of a collection.
func (c *Controller) Items(kind inventory.Kind) []inventory.Record {
	return c.Collection(kind).Items
}

// AllSettled reports whether every collection has a result and nothing is
// outstanding.
func (c *Controller) AllSettled() bool {
	for _, k := range inventory.AllKinds {
		col := c.Collection(k)
		if !col.Settled() || col.Status == StatusFetching {
			return false
		}
	}
	return true
}

// Settled reports whether every given collection has a result.
func (c *Controller) Settled(kinds ...inventory.Kind) bool {
	for _, k := range kinds {
		if !c.Collection(k).Settled() {
			return false
		}
	}
	return true
}

// ShowMigrations reports whether the Migrations section is present: there
// is at least one infrastructure mapping.
func (c *Controller) ShowMigrations() bool {
	return len(c.Items(inventory.Mappings)) > 0
}

// MigrationSummary groups the current plans by state.
func (c *Controller) MigrationSummary() Summary {
	return Summary{
		Groups:   migrationsvc.GroupPlans(c.Items(inventory.Plans)),
		Archived: len(c.Items(inventory.ArchivedPlans)),
	}
}

// Summary is the content of the Migrations section.
type Summary struct {
	Groups   migrationsvc.Groups
	Archived int
}
