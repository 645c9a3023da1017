// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"
	v1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime/schema"

	"github.com/monadic/v2v-overview/internal/config"
	"github.com/monadic/v2v-overview/pkg/inventory"
	"github.com/monadic/v2v-overview/pkg/kube"
)

// Namespace completion cache (avoid repeated API calls during tab-complete)
var (
	cachedNamespaces     []string
	namespaceCacheExpiry time.Time
	namespaceCacheMu     sync.Mutex
)

// completeNamespaces returns available namespaces from current kubectl context
func completeNamespaces(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	namespaceCacheMu.Lock()
	defer namespaceCacheMu.Unlock()

	// Return cache if fresh (3 second TTL)
	if time.Now().Before(namespaceCacheExpiry) && len(cachedNamespaces) > 0 {
		return filterPrefix(cachedNamespaces, toComplete), cobra.ShellCompDirectiveNoFileComp
	}

	kubeconfig, _ := cmd.Flags().GetString("kubeconfig")
	dynClient, err := kube.NewDynamic(kubeconfig)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	// Quick timeout for completion - don't block shell
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	list, err := dynClient.Resource(schema.GroupVersionResource{
		Version:  "v1",
		Resource: "namespaces",
	}).List(ctx, v1.ListOptions{})
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	var namespaces []string
	for _, item := range list.Items {
		namespaces = append(namespaces, item.GetName())
	}

	cachedNamespaces = namespaces
	namespaceCacheExpiry = time.Now().Add(3 * time.Second)

	return filterPrefix(namespaces, toComplete), cobra.ShellCompDirectiveNoFileComp
}

// completeCollections returns collection names for --fail
func completeCollections(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	// --fail takes a comma separated list; complete the last element.
	prefix, last := "", toComplete
	if i := strings.LastIndexByte(toComplete, ','); i >= 0 {
		prefix, last = toComplete[:i+1], toComplete[i+1:]
	}
	names := make([]string, 0, len(inventory.AllKinds))
	for _, k := range inventory.AllKinds {
		names = append(names, string(k))
	}
	matches := filterPrefix(names, last)
	for i := range matches {
		matches[i] = prefix + matches[i]
	}
	return matches, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
}

// completeSources returns valid values for --source
func completeSources(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	sources := []string{config.SourceMIQ, config.SourceKube, config.SourceFixture}
	return filterPrefix(sources, toComplete), cobra.ShellCompDirectiveNoFileComp
}

// completeLocales returns the display languages
func completeLocales(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return filterPrefix([]string{"en", "es"}, toComplete), cobra.ShellCompDirectiveNoFileComp
}

// completeLogLevels returns valid values for --log-level
func completeLogLevels(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return filterPrefix([]string{"debug", "info", "warn", "error"}, toComplete), cobra.ShellCompDirectiveNoFileComp
}

// filterPrefix filters strings by prefix (case-insensitive)
func filterPrefix(items []string, prefix string) []string {
	if prefix == "" {
		return items
	}
	var filtered []string
	lowerPrefix := strings.ToLower(prefix)
	for _, item := range items {
		if strings.HasPrefix(strings.ToLower(item), lowerPrefix) {
			filtered = append(filtered, item)
		}
	}
	return filtered
}
