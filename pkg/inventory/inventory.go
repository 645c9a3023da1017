// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

// Package inventory defines the resource collections the dashboard shows and
// the Fetcher contract every inventory source implements.
package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Kind names a resource collection.
type Kind string

// Collections, in the order they are fetched and listed.
const (
	Mappings         Kind = "mappings"
	Plans            Kind = "plans"
	ArchivedPlans    Kind = "archived-plans"
	Providers        Kind = "providers"
	Clusters         Kind = "clusters"
	Networks         Kind = "networks"
	Datastores       Kind = "datastores"
	CloudTenants     Kind = "cloud-tenants"
	CloudNetworks    Kind = "cloud-networks"
	CloudVolumeTypes Kind = "cloud-volume-types"
	Playbooks        Kind = "playbooks"
)

// AllKinds lists every collection.
var AllKinds = []Kind{
	Mappings, Plans, ArchivedPlans, Providers, Clusters, Networks,
	Datastores, CloudTenants, CloudNetworks, CloudVolumeTypes, Playbooks,
}

// ParseKind accepts a collection name.
func ParseKind(s string) (Kind, error) {
	for _, k := range AllKinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown collection %q", s)
}

// ErrUnsupported is returned by a source that cannot serve a collection.
var ErrUnsupported = errors.New("collection not supported by this source")

// Record is one domain object. Sources fill what they know; the dashboard
// only needs ID, Name and Status for most collections.
type Record struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Kind        Kind              `json:"kind,omitempty"`
	Status      string            `json:"status,omitempty"`
	Description string            `json:"description,omitempty"`
	Attributes  map[string]string `json:"attributes,omitempty"`
	// Refs holds IDs of related records, e.g. the mapping a plan uses.
	Refs      []string  `json:"refs,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// Attr returns an attribute or "".
func (r Record) Attr(key string) string {
	if r.Attributes == nil {
		return ""
	}
	return r.Attributes[key]
}

// Fetcher retrieves one collection. Implementations must be safe for
// concurrent use: polled fetches can overlap.
type Fetcher interface {
	Fetch(ctx context.Context, kind Kind) ([]Record, error)
}

// FetchFunc adapts a function to Fetcher.
type FetchFunc func(ctx context.Context, kind Kind) ([]Record, error)

// Fetch implements Fetcher.
func (f FetchFunc) Fetch(ctx context.Context, kind Kind) ([]Record, error) {
	return f(ctx, kind)
}
