// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

// Package miq reads migration inventory from the ManageIQ REST API.
package miq

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/monadic/v2v-overview/pkg/inventory"
)

// ErrUnauthorized is matched by StatusErrors for HTTP 401.
var ErrUnauthorized = errors.New("unauthorized")

// StatusError is a non-2xx API response.
type StatusError struct {
	Code    int
	Path    string
	Message string
}

func (e *StatusError) Error() string {
	text := strings.ToLower(http.StatusText(e.Code))
	if e.Message != "" {
		return fmt.Sprintf("GET %s: %d %s: %s", e.Path, e.Code, text, e.Message)
	}
	return fmt.Sprintf("GET %s: %d %s", e.Path, e.Code, text)
}

// Is matches ErrUnauthorized for 401 responses.
func (e *StatusError) Is(target error) bool {
	return target == ErrUnauthorized && e.Code == http.StatusUnauthorized
}

// Unauthorized reports whether the credentials were refused.
func (e *StatusError) Unauthorized() bool {
	return e.Code == http.StatusUnauthorized
}

// Options configures a Client.
type Options struct {
	BaseURL  string
	Auth     Auth
	Timeout  time.Duration
	Insecure bool
	Logger   zerolog.Logger
	// HTTPClient overrides the client built from Timeout and Insecure.
	HTTPClient *http.Client
}

// Client is the connection to one ManageIQ appliance. It is safe for
// concurrent use.
type Client struct {
	httpClient *http.Client
	baseURL    string
	auth       Auth
	log        zerolog.Logger
}

// NewClient creates a client.
func NewClient(opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		return nil, errors.New("miq: base url is required")
	}
	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		transport := http.DefaultTransport.(*http.Transport).Clone()
		if opts.Insecure {
			transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // opt-in for lab appliances
		}
		hc = &http.Client{Timeout: timeout, Transport: transport}
	}
	return &Client{
		httpClient: hc,
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		auth:       opts.Auth,
		log:        opts.Logger,
	}, nil
}

// ServerInfo is the subset of GET /api the status command shows.
type ServerInfo struct {
	Name       string `json:"name"`
	Version    string `json:"version"`
	ServerInfo struct {
		Version   string `json:"version"`
		Build     string `json:"build"`
		Appliance string `json:"appliance"`
	} `json:"server_info"`
}

// ServerInfo fetches the API entrypoint.
func (c *Client) ServerInfo(ctx context.Context) (*ServerInfo, error) {
	var info ServerInfo
	if err := c.get(ctx, "/api", &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// Fetch implements inventory.Fetcher.
func (c *Client) Fetch(ctx context.Context, kind inventory.Kind) ([]inventory.Record, error) {
	ep, ok := Endpoints[kind]
	if !ok {
		return nil, fmt.Errorf("fetch %s: %w", kind, inventory.ErrUnsupported)
	}

	var coll collection
	if err := c.get(ctx, ep.URL(), &coll); err != nil {
		return nil, fmt.Errorf("fetch %s: %w", kind, err)
	}

	records := make([]inventory.Record, 0, len(coll.Resources))
	for _, r := range coll.Resources {
		records = append(records, r.toRecord(kind))
	}
	c.log.Debug().Str("collection", string(kind)).Int("count", len(records)).Msg("fetched")
	return records, nil
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	c.auth.apply(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		return &StatusError{Code: resp.StatusCode, Path: pathOnly(path), Message: errorMessage(body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", pathOnly(path), err)
	}
	return nil
}

func pathOnly(p string) string {
	if i := strings.IndexByte(p, '?'); i >= 0 {
		return p[:i]
	}
	return p
}

// errorMessage extracts {"error":{"message":...}} from an API error body.
func errorMessage(body []byte) string {
	var e struct {
		Error struct {
			Kind    string `json:"kind"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if json.Unmarshal(body, &e) == nil && e.Error.Message != "" {
		return e.Error.Message
	}
	return ""
}
