// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/monadic/v2v-overview/internal/config"
	"github.com/monadic/v2v-overview/internal/logging"
	"github.com/monadic/v2v-overview/pkg/inventory"
	"github.com/monadic/v2v-overview/pkg/overview"
)

func init() {
	rootCmd.AddCommand(overviewCmd)
}

var overviewCmd = &cobra.Command{
	Use:   "overview",
	Short: "Open the migration dashboard",
	Long: `Open the interactive migration dashboard.

Sections:
  Migrations                Plans by state (shown once a mapping exists)
  Infrastructure Mappings   Existing mappings and the plans using them
  Inventory                 Providers, clusters, networks, datastores and cloud resources

Keys:
  m         Create Infrastructure Mapping wizard
  p         Create Migration Plan wizard (needs a mapping)
  ←/→ h/l   Previous/next wizard step
  1-9       Jump to a wizard step
  esc       Close the focused wizard
  r         Refresh every collection
  ?         Help
  q         Quit

Examples:
  v2v-overview overview --miq-url https://cfme.example.com
  v2v-overview overview --source kube -n openshift-mtv
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOverview(cmd)
	},
}

func runOverview(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log := openLogger(cmd, "overview", cfg)
	defer closeLogger(cmd, log)

	fetcher, label, err := newFetcher(cfg, log.Z())
	if err != nil {
		return err
	}
	return runTUI(cmd, cfg, fetcher, label, log)
}

// runTUI runs the dashboard until the user quits.
func runTUI(cmd *cobra.Command, cfg config.Config, fetcher inventory.Fetcher, label string, log *logging.Logger) error {
	ctrl := overview.NewController(fetcher,
		overview.WithInterval(cfg.PollInterval),
		overview.WithLogger(log.Z()),
	)
	defer ctrl.Deactivate()

	m := overview.NewModel(contextOf(cmd), ctrl,
		overview.WithResolver(newLocalizer(cfg)),
		overview.WithSource(label),
		overview.WithModelLogger(log.Z()),
	)

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(contextOf(cmd)))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run dashboard: %w", err)
	}
	return nil
}

func closeLogger(cmd *cobra.Command, log *logging.Logger) {
	if path := log.Close(); path != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Log: %s\n", path)
	}
}
