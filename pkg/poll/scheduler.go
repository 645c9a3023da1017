// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

// Package poll runs an operation on a fixed wall-clock cadence.
//
// Firings are driven by the clock, not by completion of the previous run:
// a slow operation never delays the next firing, so runs may overlap. Each
// firing carries a sequence number that callers use to drop results that
// complete after a newer one.
package poll

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"k8s.io/utils/clock"
)

// Firing identifies one invocation of the operation.
type Firing struct {
	Seq uint64
	At  time.Time
}

// Operation is the polled work. Its error is logged and otherwise ignored.
type Operation func(ctx context.Context, f Firing) error

// Stats counts what the scheduler has done.
type Stats struct {
	Firings  uint64
	Failures uint64
	Running  bool
}

// Scheduler owns at most one timer at a time.
type Scheduler struct {
	clock clock.WithTicker
	log   zerolog.Logger

	mu  sync.Mutex
	run *run

	seq      atomic.Uint64
	firings  atomic.Uint64
	failures atomic.Uint64
}

// run is one Start..Stop lifetime.
type run struct {
	ticker clock.Ticker
	done   chan struct{}
	exited chan struct{}
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithClock replaces the wall clock, for tests.
func WithClock(c clock.WithTicker) Option {
	return func(s *Scheduler) { s.clock = c }
}

// WithLogger sets the logger for failed firings.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Scheduler) { s.log = l }
}

// New creates a stopped scheduler.
func New(opts ...Option) *Scheduler {
	s := &Scheduler{
		clock: clock.RealClock{},
		log:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start invokes op now and then every interval from now. Starting a running
// scheduler stops the previous timer first. ctx is handed to every
// invocation; Stop does not cancel it, so in-flight runs finish normally.
func (s *Scheduler) Start(ctx context.Context, op Operation, interval time.Duration) {
	if interval <= 0 {
		panic("poll: non-positive interval")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.run != nil {
		s.log.Debug().Msg("scheduler restarted")
		s.stopLocked()
	}

	r := &run{
		ticker: s.clock.NewTicker(interval),
		done:   make(chan struct{}),
		exited: make(chan struct{}),
	}
	s.run = r

	s.fire(ctx, op, s.clock.Now())
	go s.loop(ctx, op, r)
}

func (s *Scheduler) loop(ctx context.Context, op Operation, r *run) {
	defer close(r.exited)
	for {
		select {
		case <-r.done:
			return
		case at := <-r.ticker.C():
			// A tick may race with Stop; done wins.
			select {
			case <-r.done:
				return
			default:
			}
			s.fire(ctx, op, at)
		}
	}
}

func (s *Scheduler) fire(ctx context.Context, op Operation, at time.Time) {
	f := Firing{Seq: s.seq.Add(1), At: at}
	s.firings.Add(1)
	go func() {
		if err := op(ctx, f); err != nil {
			s.failures.Add(1)
			s.log.Debug().Err(err).Uint64("seq", f.Seq).Msg("polled operation failed")
		}
	}()
}

// Stop cancels the timer. Further calls are no-ops. Once Stop returns no new
// invocation starts; invocations already running are left alone.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

func (s *Scheduler) stopLocked() {
	if s.run == nil {
		return
	}
	r := s.run
	s.run = nil
	r.ticker.Stop()
	close(r.done)
	<-r.exited
}

// Running reports whether a timer is active.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.run != nil
}

// Stats returns counters since creation.
func (s *Scheduler) Stats() Stats {
	return Stats{
		Firings:  s.firings.Load(),
		Failures: s.failures.Load(),
		Running:  s.Running(),
	}
}
