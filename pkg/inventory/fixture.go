// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package inventory

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"sync"
	"time"

	"sigs.k8s.io/yaml"
)

//go:embed demo.yaml
var demoInventory []byte

// Fixture serves collections from a YAML document keyed by collection name.
// Latency and failures can be simulated per collection.
type Fixture struct {
	mu      sync.Mutex
	data    map[Kind][]Record
	latency time.Duration
	fail    map[Kind]error
	calls   map[Kind]int
}

// ParseFixture parses a fixture document.
func ParseFixture(data []byte) (*Fixture, error) {
	raw := map[string][]Record{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}
	f := &Fixture{
		data:  make(map[Kind][]Record, len(raw)),
		fail:  map[Kind]error{},
		calls: map[Kind]int{},
	}
	for name, records := range raw {
		kind, err := ParseKind(name)
		if err != nil {
			return nil, fmt.Errorf("parse fixture: %w", err)
		}
		for i := range records {
			records[i].Kind = kind
		}
		f.data[kind] = records
	}
	return f, nil
}

// LoadFixture reads a fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	return ParseFixture(data)
}

// DemoFixture returns the embedded demo inventory.
func DemoFixture() *Fixture {
	f, err := ParseFixture(demoInventory)
	if err != nil {
		panic(err)
	}
	return f
}

// SetLatency delays every fetch by d.
func (f *Fixture) SetLatency(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.latency = d
}

// Fail makes fetches of kind return err. A nil err clears the failure.
func (f *Fixture) Fail(kind Kind, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		delete(f.fail, kind)
		return
	}
	f.fail[kind] = err
}

// Set replaces a collection.
func (f *Fixture) Set(kind Kind, records []Record) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[kind] = records
}

// Calls returns how many times kind was fetched.
func (f *Fixture) Calls(kind Kind) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[kind]
}

// Fetch implements Fetcher.
func (f *Fixture) Fetch(ctx context.Context, kind Kind) ([]Record, error) {
	f.mu.Lock()
	f.calls[kind]++
	latency := f.latency
	failure := f.fail[kind]
	records := append([]Record(nil), f.data[kind]...)
	f.mu.Unlock()

	if latency > 0 {
		select {
		case <-time.After(latency):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if failure != nil {
		return nil, fmt.Errorf("fetch %s: %w", kind, failure)
	}
	return records, nil
}
