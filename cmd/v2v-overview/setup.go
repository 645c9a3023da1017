// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"fmt"
	"net/url"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/monadic/v2v-overview/internal/clierr"
	"github.com/monadic/v2v-overview/internal/config"
	"github.com/monadic/v2v-overview/internal/i18n"
	"github.com/monadic/v2v-overview/internal/logging"
	"github.com/monadic/v2v-overview/pkg/inventory"
	"github.com/monadic/v2v-overview/pkg/kube"
	"github.com/monadic/v2v-overview/pkg/miq"
)

func addSourceFlags(cmd *cobra.Command) {
	f := cmd.PersistentFlags()
	f.String("config", "", "Config file (default: $V2V_OVERVIEW_CONFIG or ~/.v2v-overview/config.yaml)")
	f.String("source", "", "Inventory source: miq, kube or fixture")
	f.String("miq-url", "", "ManageIQ appliance URL")
	f.Bool("insecure", false, "Skip TLS verification for ManageIQ")
	f.String("kubeconfig", "", "Path to kubeconfig for the kube source")
	f.StringP("namespace", "n", "", "Forklift namespace for the kube source")
	f.String("fixture", "", "Inventory YAML for the fixture source (default: built-in demo)")
	f.Duration("poll-interval", 0, "How often migration plans are re-fetched (default 15s)")
	f.String("locale", "", "Display language (en, es)")
	f.String("log-level", "", "Log level: debug, info, warn, error")
	f.Bool("no-color", false, "Disable colors")

	_ = cmd.RegisterFlagCompletionFunc("source", completeSources)
	_ = cmd.RegisterFlagCompletionFunc("namespace", completeNamespaces)
	_ = cmd.RegisterFlagCompletionFunc("locale", completeLocales)
	_ = cmd.RegisterFlagCompletionFunc("log-level", completeLogLevels)
}

// loadConfig reads the config file and environment, then applies the flags
// the user actually set.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	flags := cmd.Flags()

	path, _ := flags.GetString("config")
	if path == "" {
		path = config.Path()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}

	if flags.Changed("source") {
		cfg.Source, _ = flags.GetString("source")
	}
	if flags.Changed("miq-url") {
		cfg.MIQ.URL, _ = flags.GetString("miq-url")
	}
	if flags.Changed("insecure") {
		cfg.MIQ.Insecure, _ = flags.GetBool("insecure")
	}
	if flags.Changed("kubeconfig") {
		cfg.Kube.Kubeconfig, _ = flags.GetString("kubeconfig")
	}
	if flags.Changed("namespace") {
		cfg.Kube.Namespace, _ = flags.GetString("namespace")
	}
	if flags.Changed("fixture") {
		cfg.Fixture.Path, _ = flags.GetString("fixture")
	}
	if flags.Changed("poll-interval") {
		cfg.PollInterval, _ = flags.GetDuration("poll-interval")
	}
	if flags.Changed("locale") {
		cfg.Locale, _ = flags.GetString("locale")
	}
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}
	if flags.Changed("no-color") {
		cfg.NoColor, _ = flags.GetBool("no-color")
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	if cfg.NoColor || os.Getenv("NO_COLOR") != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
	return cfg, nil
}

// openLogger starts the command's log file. Logging is best effort: when
// the file cannot be created the command runs without it.
func openLogger(cmd *cobra.Command, command string, cfg config.Config) *logging.Logger {
	log, err := logging.New(command, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: logging disabled: %v\n", err)
		return nil
	}
	return log
}

// newFetcher builds the inventory source named by the config and returns a
// label describing it.
func newFetcher(cfg config.Config, log zerolog.Logger) (inventory.Fetcher, string, error) {
	switch cfg.Source {
	case config.SourceMIQ:
		auth, err := miqAuth(cfg)
		if err != nil {
			return nil, "", err
		}
		client, err := miq.NewClient(miq.Options{
			BaseURL:  cfg.MIQ.URL,
			Auth:     auth,
			Timeout:  cfg.MIQ.Timeout,
			Insecure: cfg.MIQ.Insecure,
			Logger:   log.With().Str("source", "miq").Logger(),
		})
		if err != nil {
			return nil, "", err
		}
		label := "ManageIQ"
		if u, err := url.Parse(cfg.MIQ.URL); err == nil && u.Host != "" {
			label += " " + u.Host
		}
		return client, label, nil

	case config.SourceKube:
		dyn, err := kube.NewDynamic(cfg.Kube.Kubeconfig)
		if err != nil {
			return nil, "", clierr.WrapWithHint(err, "set --kubeconfig or KUBECONFIG, or try --source fixture")
		}
		src := kube.NewSource(dyn, cfg.Kube.Namespace, log.With().Str("source", "kube").Logger())
		return src, fmt.Sprintf("Forklift %s/%s", kube.CurrentContext(cfg.Kube.Kubeconfig), cfg.Kube.Namespace), nil

	case config.SourceFixture:
		f, err := newFixture(cfg.Fixture)
		if err != nil {
			return nil, "", err
		}
		label := "Demo inventory"
		if cfg.Fixture.Path != "" {
			label = "Fixture " + cfg.Fixture.Path
		}
		return f, label, nil
	}
	return nil, "", fmt.Errorf("%w: unknown source %q", config.ErrInvalid, cfg.Source)
}

// errSimulated is what collections listed in fixture.fail are rejected with.
var errSimulated = errors.New("dial tcp: connection refused (simulated)")

func newFixture(fc config.FixtureConfig) (*inventory.Fixture, error) {
	var (
		f   *inventory.Fixture
		err error
	)
	if fc.Path != "" {
		f, err = inventory.LoadFixture(fc.Path)
		if err != nil {
			return nil, err
		}
	} else {
		f = inventory.DemoFixture()
	}
	f.SetLatency(fc.Latency)
	for _, name := range fc.Fail {
		kind, err := inventory.ParseKind(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", config.ErrInvalid, err)
		}
		f.Fail(kind, errSimulated)
	}
	return f, nil
}

func miqAuth(cfg config.Config) (miq.Auth, error) {
	auth := miq.Auth{
		Token:    cfg.MIQ.Token,
		User:     os.Getenv("MIQ_USER"),
		Password: os.Getenv("MIQ_PASSWORD"),
	}
	if auth.Token == "" {
		token, err := miq.LoadToken(miq.TokenPath())
		if err != nil {
			return auth, err
		}
		auth.Token = token
	}
	return auth, nil
}

func newLocalizer(cfg config.Config) *i18n.Localizer {
	return i18n.New(cfg.Locale)
}
