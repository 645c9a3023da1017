// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package kube

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/rs/zerolog"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/client-go/dynamic"

	"github.com/monadic/v2v-overview/internal/migrationsvc"
	"github.com/monadic/v2v-overview/pkg/inventory"
)

// Forklift resources.
var (
	NetworkMapGVR = schema.GroupVersionResource{Group: "forklift.konveyor.io", Version: "v1beta1", Resource: "networkmaps"}
	StorageMapGVR = schema.GroupVersionResource{Group: "forklift.konveyor.io", Version: "v1beta1", Resource: "storagemaps"}
	PlanGVR       = schema.GroupVersionResource{Group: "forklift.konveyor.io", Version: "v1beta1", Resource: "plans"}
	ProviderGVR   = schema.GroupVersionResource{Group: "forklift.konveyor.io", Version: "v1beta1", Resource: "providers"}
)

// ListKinds maps each resource to its list kind, for fake dynamic clients.
var ListKinds = map[schema.GroupVersionResource]string{
	NetworkMapGVR: "NetworkMapList",
	StorageMapGVR: "StorageMapList",
	PlanGVR:       "PlanList",
	ProviderGVR:   "ProviderList",
}

// Source implements inventory.Fetcher over Forklift custom resources.
// Collections Forklift has no resource for return inventory.ErrUnsupported.
type Source struct {
	client    dynamic.Interface
	namespace string
	log       zerolog.Logger
}

// NewSource creates a source. An empty namespace lists across namespaces.
func NewSource(client dynamic.Interface, namespace string, log zerolog.Logger) *Source {
	return &Source{client: client, namespace: namespace, log: log}
}

// Fetch implements inventory.Fetcher.
func (s *Source) Fetch(ctx context.Context, kind inventory.Kind) ([]inventory.Record, error) {
	var (
		recs []inventory.Record
		err  error
	)
	switch kind {
	case inventory.Mappings:
		recs, err = s.mappings(ctx)
	case inventory.Plans:
		recs, err = s.plans(ctx, false)
	case inventory.ArchivedPlans:
		recs, err = s.plans(ctx, true)
	case inventory.Providers:
		recs, err = s.providers(ctx)
	default:
		return nil, fmt.Errorf("fetch %s: %w", kind, inventory.ErrUnsupported)
	}
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", kind, err)
	}
	s.log.Debug().Str("collection", string(kind)).Int("count", len(recs)).Msg("fetched")
	return recs, nil
}

func (s *Source) list(ctx context.Context, gvr schema.GroupVersionResource) ([]unstructured.Unstructured, error) {
	list, err := s.client.Resource(gvr).Namespace(s.namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, err
	}
	items := list.Items
	sort.Slice(items, func(i, j int) bool { return key(&items[i]) < key(&items[j]) })
	return items, nil
}

// mappings pairs each NetworkMap with the StorageMap of the same name.
func (s *Source) mappings(ctx context.Context) ([]inventory.Record, error) {
	netMaps, err := s.list(ctx, NetworkMapGVR)
	if err != nil {
		return nil, err
	}
	storageMaps, err := s.list(ctx, StorageMapGVR)
	if err != nil {
		return nil, err
	}
	storageItems := map[string]int{}
	for i := range storageMaps {
		pairs, _, _ := unstructured.NestedSlice(storageMaps[i].Object, "spec", "map")
		storageItems[key(&storageMaps[i])] = len(pairs)
	}

	recs := make([]inventory.Record, 0, len(netMaps))
	for i := range netMaps {
		obj := &netMaps[i]
		pairs, _, _ := unstructured.NestedSlice(obj.Object, "spec", "map")
		items := len(pairs) + storageItems[key(obj)]
		rec := baseRecord(obj, inventory.Mappings)
		rec.Attributes["items"] = strconv.Itoa(items)
		if src, ok, _ := unstructured.NestedString(obj.Object, "spec", "provider", "source", "name"); ok {
			rec.Attributes["provider"] = src
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

func (s *Source) plans(ctx context.Context, archived bool) ([]inventory.Record, error) {
	items, err := s.list(ctx, PlanGVR)
	if err != nil {
		return nil, err
	}
	recs := make([]inventory.Record, 0, len(items))
	for i := range items {
		obj := &items[i]
		isArchived, _, _ := unstructured.NestedBool(obj.Object, "spec", "archived")
		if isArchived != archived {
			continue
		}
		kind := inventory.Plans
		if archived {
			kind = inventory.ArchivedPlans
		}
		rec := baseRecord(obj, kind)
		rec.Status = migrationsvc.DetectStatus(obj)
		vms, _, _ := unstructured.NestedSlice(obj.Object, "spec", "vms")
		rec.Attributes["vms"] = strconv.Itoa(len(vms))
		if desc, ok, _ := unstructured.NestedString(obj.Object, "spec", "description"); ok {
			rec.Description = desc
		}
		if netMap, ok, _ := unstructured.NestedString(obj.Object, "spec", "map", "network", "name"); ok {
			ns := obj.GetNamespace()
			if mapNS, ok, _ := unstructured.NestedString(obj.Object, "spec", "map", "network", "namespace"); ok && mapNS != "" {
				ns = mapNS
			}
			rec.Refs = []string{joinKey(ns, netMap)}
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

func (s *Source) providers(ctx context.Context) ([]inventory.Record, error) {
	items, err := s.list(ctx, ProviderGVR)
	if err != nil {
		return nil, err
	}
	recs := make([]inventory.Record, 0, len(items))
	for i := range items {
		obj := &items[i]
		rec := baseRecord(obj, inventory.Providers)
		if t, ok, _ := unstructured.NestedString(obj.Object, "spec", "type"); ok {
			rec.Attributes["type"] = t
		}
		if phase, ok, _ := unstructured.NestedString(obj.Object, "status", "phase"); ok {
			rec.Status = phase
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

func baseRecord(obj *unstructured.Unstructured, kind inventory.Kind) inventory.Record {
	return inventory.Record{
		ID:         key(obj),
		Name:       obj.GetName(),
		Kind:       kind,
		Attributes: map[string]string{"namespace": obj.GetNamespace()},
		CreatedAt:  obj.GetCreationTimestamp().Time,
	}
}

func key(obj *unstructured.Unstructured) string {
	return joinKey(obj.GetNamespace(), obj.GetName())
}

func joinKey(ns, name string) string {
	if ns == "" {
		return name
	}
	return ns + "/" + name
}
