// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package poll

import (
	"context"
	"errors"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	testingclock "k8s.io/utils/clock/testing"
)

const (
	interval = 15 * time.Second
	wait     = 2 * time.Second
	tick     = 5 * time.Millisecond
)

var t0 = time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)

// recorder collects firings from concurrent invocations.
type recorder struct {
	mu      sync.Mutex
	firings []Firing
	err     error
}

func (r *recorder) op(_ context.Context, f Firing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.firings = append(r.firings, f)
	return r.err
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.firings)
}

func (r *recorder) sorted() []Firing {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := append([]Firing(nil), r.firings...)
	sort.Slice(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out
}

func waitCount(t *testing.T, r *recorder, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return r.count() == n }, wait, tick, "want %d invocations", n)
}

func TestFiresAtStartAndEveryInterval(t *testing.T) {
	fc := testingclock.NewFakeClock(t0)
	s := New(WithClock(fc))
	rec := &recorder{}

	s.Start(context.Background(), rec.op, interval)
	defer s.Stop()
	waitCount(t, rec, 1)

	fc.Step(interval)
	waitCount(t, rec, 2)

	fc.Step(interval)
	waitCount(t, rec, 3)

	got := rec.sorted()
	assert.Equal(t, t0, got[0].At)
	assert.Equal(t, t0.Add(interval), got[1].At)
	assert.Equal(t, t0.Add(2*interval), got[2].At)
	for i, f := range got {
		assert.Equal(t, uint64(i+1), f.Seq)
	}
	assert.Equal(t, uint64(3), s.Stats().Firings)
}

func TestStopSuppressesLaterFirings(t *testing.T) {
	fc := testingclock.NewFakeClock(t0)
	s := New(WithClock(fc))
	rec := &recorder{}

	s.Start(context.Background(), rec.op, interval)
	waitCount(t, rec, 1)
	fc.Step(interval)
	waitCount(t, rec, 2)

	fc.Step(interval / 2)
	s.Stop()
	fc.Step(interval / 2)
	fc.Step(interval)

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 2, rec.count())
	assert.False(t, s.Running())
}

func TestStopTwiceIsNoop(t *testing.T) {
	fc := testingclock.NewFakeClock(t0)
	s := New(WithClock(fc))
	rec := &recorder{}

	s.Start(context.Background(), rec.op, interval)
	waitCount(t, rec, 1)

	s.Stop()
	before := s.Stats()
	assert.NotPanics(t, s.Stop)
	assert.Equal(t, before, s.Stats())
	assert.False(t, s.Running())

	// Stopping a never-started scheduler is fine too.
	assert.NotPanics(t, New().Stop)
}

func TestFailuresDoNotStopSchedule(t *testing.T) {
	fc := testingclock.NewFakeClock(t0)
	s := New(WithClock(fc))
	rec := &recorder{err: errors.New("connection refused")}

	s.Start(context.Background(), rec.op, interval)
	defer s.Stop()
	waitCount(t, rec, 1)
	fc.Step(interval)
	waitCount(t, rec, 2)
	fc.Step(interval)
	waitCount(t, rec, 3)

	require.Eventually(t, func() bool { return s.Stats().Failures == 3 }, wait, tick)
	assert.True(t, s.Running())
}

func TestSlowInvocationsOverlap(t *testing.T) {
	fc := testingclock.NewFakeClock(t0)
	s := New(WithClock(fc))

	release := make(chan struct{})
	var inFlight, peak atomic.Int32
	op := func(context.Context, Firing) error {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		<-release
		inFlight.Add(-1)
		return nil
	}

	s.Start(context.Background(), op, interval)
	defer s.Stop()
	require.Eventually(t, func() bool { return inFlight.Load() == 1 }, wait, tick)

	// The first run is still blocked; the clock alone drives the next firing.
	fc.Step(interval)
	require.Eventually(t, func() bool { return inFlight.Load() == 2 }, wait, tick)

	close(release)
	require.Eventually(t, func() bool { return inFlight.Load() == 0 }, wait, tick)
	assert.Equal(t, int32(2), peak.Load())
}

func TestStopDoesNotAbortInFlight(t *testing.T) {
	fc := testingclock.NewFakeClock(t0)
	s := New(WithClock(fc))

	started := make(chan struct{})
	release := make(chan struct{})
	finished := make(chan error, 1)
	op := func(ctx context.Context, _ Firing) error {
		close(started)
		<-release
		finished <- ctx.Err()
		return nil
	}

	s.Start(context.Background(), op, interval)
	<-started
	s.Stop()
	close(release)

	select {
	case err := <-finished:
		assert.NoError(t, err)
	case <-time.After(wait):
		t.Fatal("in-flight invocation never finished")
	}
}

func TestRestartReplacesTimer(t *testing.T) {
	fc := testingclock.NewFakeClock(t0)
	s := New(WithClock(fc))
	first, second := &recorder{}, &recorder{}

	s.Start(context.Background(), first.op, interval)
	waitCount(t, first, 1)

	s.Start(context.Background(), second.op, interval)
	defer s.Stop()
	waitCount(t, second, 1)

	fc.Step(interval)
	waitCount(t, second, 2)

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, first.count())
	assert.True(t, s.Running())

	got := second.sorted()
	assert.Equal(t, uint64(2), got[0].Seq, "sequence numbers keep increasing across restarts")
	assert.Equal(t, uint64(3), got[1].Seq)
}

func TestStartRejectsBadInterval(t *testing.T) {
	s := New()
	assert.Panics(t, func() { s.Start(context.Background(), (&recorder{}).op, 0) })
	assert.False(t, s.Running())
}
