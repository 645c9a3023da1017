// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package main

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
)

func TestCompleteCollections(t *testing.T) {
	cmd := &cobra.Command{}

	all, _ := completeCollections(cmd, nil, "")
	assert.Len(t, all, 11)

	cloud, _ := completeCollections(cmd, nil, "cloud-")
	assert.Equal(t, []string{"cloud-tenants", "cloud-networks", "cloud-volume-types"}, cloud)

	// Completes the element after the last comma.
	next, _ := completeCollections(cmd, nil, "clusters,net")
	assert.Equal(t, []string{"clusters,networks"}, next)
}

func TestCompleteSources(t *testing.T) {
	sources, _ := completeSources(&cobra.Command{}, nil, "k")
	assert.Equal(t, []string{"kube"}, sources)
}

func TestFilterPrefixCaseInsensitive(t *testing.T) {
	assert.Equal(t, []string{"Plans"}, filterPrefix([]string{"Mappings", "Plans"}, "pl"))
	assert.Equal(t, []string{"a", "b"}, filterPrefix([]string{"a", "b"}, ""))
	assert.Empty(t, filterPrefix([]string{"a"}, "z"))
}

func TestVersionCommand(t *testing.T) {
	cmd, _, err := rootCmd.Find([]string{"version"})
	assert.NoError(t, err)
	assert.Equal(t, "version", cmd.Name())
}
