// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package miq

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/monadic/v2v-overview/internal/clierr"
	"github.com/monadic/v2v-overview/pkg/inventory"
)

const plansBody = `{
  "name": "service_templates",
  "count": 2,
  "subcount": 2,
  "resources": [
    {
      "id": "10",
      "name": "plan-a",
      "description": "first wave",
      "created_at": "2026-03-01T10:00:00Z",
      "transformation_mapping": {"id": "1"},
      "options": {"config_info": {"actions": [{"vm_id": "1"}, {"vm_id": "2"}]}},
      "miq_requests": [
        {"request_state": "active", "status": "Ok", "created_on": "2026-03-01T11:00:00Z"},
        {"request_state": "finished", "status": "Error", "created_on": "2026-03-02T11:00:00Z"}
      ]
    },
    {
      "id": 11,
      "name": "plan-b",
      "options": {"config_info": {"transformation_mapping_id": 2}}
    }
  ]
}`

func newTestClient(t *testing.T, h http.HandlerFunc, auth Auth) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := NewClient(Options{BaseURL: srv.URL + "/", Auth: auth})
	require.NoError(t, err)
	return c
}

func TestNewClientRequiresURL(t *testing.T) {
	_, err := NewClient(Options{})
	assert.Error(t, err)
}

func TestFetchPlans(t *testing.T) {
	var gotPath string
	var gotFilters []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotFilters = r.URL.Query()["filter[]"]
		assert.Equal(t, "resources", r.URL.Query().Get("expand"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		_, _ = w.Write([]byte(plansBody))
	}, Auth{})

	recs, err := c.Fetch(context.Background(), inventory.Plans)
	require.NoError(t, err)
	assert.Equal(t, "/api/service_templates", gotPath)
	assert.ElementsMatch(t, []string{"type=ServiceTemplateTransformationPlan", "active=true"}, gotFilters)

	require.Len(t, recs, 2)
	a := recs[0]
	assert.Equal(t, "10", a.ID)
	assert.Equal(t, "plan-a", a.Name)
	assert.Equal(t, inventory.Plans, a.Kind)
	assert.Equal(t, "2", a.Attr("vms"))
	assert.Equal(t, "finished", a.Attr("request_state"))
	assert.Equal(t, "Error", a.Attr("request_status"))
	assert.Equal(t, []string{"1"}, a.Refs)
	assert.Equal(t, 2026, a.CreatedAt.Year())

	b := recs[1]
	assert.Equal(t, "11", b.ID)
	assert.Equal(t, []string{"2"}, b.Refs)
	assert.Empty(t, b.Attr("request_state"))
}

func TestFetchMappingsCountsItems(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/transformation_mappings", r.URL.Path)
		_, _ = w.Write([]byte(`{"resources":[{"id":"1","name":"m1","transformation_mapping_items":[{},{},{}]}]}`))
	}, Auth{})

	recs, err := c.Fetch(context.Background(), inventory.Mappings)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "3", recs[0].Attr("items"))
}

func TestFetchClustersProvider(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"resources":[{"id":"7","name":"prod",
		  "v_parent_datacenter":"dc1",
		  "ext_management_system":{"name":"vcenter","emstype":"vmwarews"}}]}`))
	}, Auth{})

	recs, err := c.Fetch(context.Background(), inventory.Clusters)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "vcenter", recs[0].Attr("provider"))
	assert.Equal(t, "vmwarews", recs[0].Attr("provider_type"))
	assert.Equal(t, "dc1", recs[0].Attr("datacenter"))
}

func TestAuthHeaders(t *testing.T) {
	t.Run("token", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "abc", r.Header.Get("X-Auth-Token"))
			_, ok := r.Header["Authorization"]
			assert.False(t, ok)
			_, _ = w.Write([]byte(`{"resources":[]}`))
		}, Auth{Token: "abc", User: "admin", Password: "pw"})
		_, err := c.Fetch(context.Background(), inventory.Providers)
		require.NoError(t, err)
	})

	t.Run("basic", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			user, pass, ok := r.BasicAuth()
			assert.True(t, ok)
			assert.Equal(t, "admin", user)
			assert.Equal(t, "pw", pass)
			_, _ = w.Write([]byte(`{"resources":[]}`))
		}, Auth{User: "admin", Password: "pw"})
		_, err := c.Fetch(context.Background(), inventory.Providers)
		require.NoError(t, err)
	})
}

func TestFetchUnauthorized(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"kind":"unauthorized","message":"Invalid Authentication"}}`))
	}, Auth{Token: "stale"})

	_, err := c.Fetch(context.Background(), inventory.Mappings)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.True(t, clierr.IsUnauthorized(err))
	assert.Contains(t, err.Error(), "Invalid Authentication")

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "/api/transformation_mappings", se.Path)
}

func TestFetchForbidden(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}, Auth{})

	_, err := c.Fetch(context.Background(), inventory.Clusters)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, clierr.TypeForbidden, clierr.ClassifyError(err))
}

func TestFetchBadJSON(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"resources": [`))
	}, Auth{})

	_, err := c.Fetch(context.Background(), inventory.Networks)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode /api/lans")
}

func TestFetchCanceled(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"resources":[]}`))
	}, Auth{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Fetch(ctx, inventory.Networks)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEndpointsCoverAllKinds(t *testing.T) {
	for _, k := range inventory.AllKinds {
		ep, ok := Endpoints[k]
		require.True(t, ok, "no endpoint for %s", k)
		assert.Contains(t, ep.URL(), "expand=resources")
	}
}

func TestServerInfo(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api", r.URL.Path)
		_, _ = w.Write([]byte(`{"name":"API","version":"4.0.0","server_info":{"version":"5.11","build":"20240101","appliance":"miq-1"}}`))
	}, Auth{})

	info, err := c.ServerInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "4.0.0", info.Version)
	assert.Equal(t, "5.11", info.ServerInfo.Version)
	assert.Equal(t, "miq-1", info.ServerInfo.Appliance)
}

func TestLoadToken(t *testing.T) {
	dir := t.TempDir()

	tok, err := LoadToken(filepath.Join(dir, "missing"))
	require.NoError(t, err)
	assert.Empty(t, tok)

	path := filepath.Join(dir, "token")
	require.NoError(t, os.WriteFile(path, []byte("  secret\n"), 0o600))
	tok, err = LoadToken(path)
	require.NoError(t, err)
	assert.Equal(t, "secret", tok)
}

func TestAuthIsZero(t *testing.T) {
	assert.True(t, Auth{}.IsZero())
	assert.False(t, Auth{Token: "t"}.IsZero())
	assert.False(t, Auth{User: "u"}.IsZero())
}
