// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

// Package config loads dashboard settings from a YAML file, the environment
// and command-line flags, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Sources the dashboard can read inventory from.
const (
	SourceMIQ     = "miq"
	SourceKube    = "kube"
	SourceFixture = "fixture"
)

// DefaultPollInterval is how often transformation plans are re-fetched.
const DefaultPollInterval = 15 * time.Second

// ErrInvalid marks configuration that cannot be used.
var ErrInvalid = errors.New("invalid configuration")

// Config is the complete dashboard configuration.
type Config struct {
	Source       string        `yaml:"source"`
	MIQ          MIQConfig     `yaml:"miq"`
	Kube         KubeConfig    `yaml:"kube"`
	Fixture      FixtureConfig `yaml:"fixture"`
	PollInterval time.Duration `yaml:"pollInterval"`
	Locale       string        `yaml:"locale"`
	LogLevel     string        `yaml:"logLevel"`
	NoColor      bool          `yaml:"noColor"`
}

// MIQConfig configures the ManageIQ REST source.
type MIQConfig struct {
	URL      string        `yaml:"url"`
	Token    string        `yaml:"token"`
	Insecure bool          `yaml:"insecure"`
	Timeout  time.Duration `yaml:"timeout"`
}

// KubeConfig configures the Forklift source.
type KubeConfig struct {
	Kubeconfig string `yaml:"kubeconfig"`
	Namespace  string `yaml:"namespace"`
}

// FixtureConfig configures the file-backed source. An empty path uses the
// embedded demo inventory.
type FixtureConfig struct {
	Path    string        `yaml:"path"`
	Latency time.Duration `yaml:"latency"`
	Fail    []string      `yaml:"fail"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Source:       SourceMIQ,
		MIQ:          MIQConfig{Timeout: 30 * time.Second},
		Kube:         KubeConfig{Namespace: "openshift-mtv"},
		PollInterval: DefaultPollInterval,
		Locale:       "en",
		LogLevel:     "info",
	}
}

// Path returns the config file location: $V2V_OVERVIEW_CONFIG or
// ~/.v2v-overview/config.yaml.
func Path() string {
	if p := os.Getenv("V2V_OVERVIEW_CONFIG"); p != "" {
		return p
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".v2v-overview", "config.yaml")
}

// Load reads path over the defaults and applies environment overrides.
// A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return cfg, fmt.Errorf("read %s: %w", path, err)
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("MIQ_URL"); v != "" {
		c.MIQ.URL = v
	}
	if v := os.Getenv("MIQ_TOKEN"); v != "" {
		c.MIQ.Token = v
	}
	if v := os.Getenv("KUBECONFIG"); v != "" {
		c.Kube.Kubeconfig = v
	}
	if v := os.Getenv("V2V_NAMESPACE"); v != "" {
		c.Kube.Namespace = v
	}
	if v := os.Getenv("V2V_LOCALE"); v != "" {
		c.Locale = v
	}
}

// Validate reports the first unusable setting.
func (c Config) Validate() error {
	switch c.Source {
	case SourceMIQ:
		if c.MIQ.URL == "" {
			return fmt.Errorf("%w: miq source needs a url (set miq.url or MIQ_URL)", ErrInvalid)
		}
	case SourceKube, SourceFixture:
	default:
		return fmt.Errorf("%w: unknown source %q (want %s, %s or %s)", ErrInvalid, c.Source, SourceMIQ, SourceKube, SourceFixture)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("%w: pollInterval must be positive, got %s", ErrInvalid, c.PollInterval)
	}
	if c.Fixture.Latency < 0 {
		return fmt.Errorf("%w: fixture latency must not be negative", ErrInvalid)
	}
	return nil
}
