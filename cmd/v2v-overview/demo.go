// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/monadic/v2v-overview/internal/config"
	"github.com/monadic/v2v-overview/pkg/inventory"
)

var (
	demoLatency time.Duration
	demoFail    []string
	demoList    bool
)

// Styles for demo output
var (
	demoTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	demoInfoStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("51"))
	demoDimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("246"))
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run the dashboard against the built-in demo inventory",
	Long: `Run the dashboard against a fixture inventory, with no appliance or cluster.

Fetches can be slowed down and made to fail, to watch loading states,
rejected collections and wizard loading placeholders.

Examples:
  v2v-overview demo
  v2v-overview demo --latency 2s
  v2v-overview demo --fail clusters,cloud-tenants
  v2v-overview demo --fixture ./my-inventory.yaml
  v2v-overview demo --list
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDemo(cmd)
	},
}

func init() {
	demoCmd.Flags().DurationVar(&demoLatency, "latency", 300*time.Millisecond, "Simulated latency of every fetch")
	demoCmd.Flags().StringSliceVar(&demoFail, "fail", nil, "Collections whose fetches fail")
	demoCmd.Flags().BoolVar(&demoList, "list", false, "Print the demo inventory and exit")
	_ = demoCmd.RegisterFlagCompletionFunc("fail", completeCollections)
	rootCmd.AddCommand(demoCmd)
}

func runDemo(cmd *cobra.Command) error {
	cfg, err := loadDemoConfig(cmd)
	if err != nil {
		return err
	}

	if demoList {
		f, err := newFixture(cfg.Fixture)
		if err != nil {
			return err
		}
		return printInventory(cmd, f)
	}

	log := openLogger(cmd, "demo", cfg)
	defer closeLogger(cmd, log)

	fetcher, label, err := newFetcher(cfg, log.Z())
	if err != nil {
		return err
	}
	return runTUI(cmd, cfg, fetcher, label, log)
}

// loadDemoConfig forces the fixture source and applies the demo flags.
func loadDemoConfig(cmd *cobra.Command) (config.Config, error) {
	if !cmd.Flags().Changed("source") {
		_ = cmd.Flags().Set("source", config.SourceFixture)
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return cfg, err
	}
	if cfg.Source != config.SourceFixture {
		return cfg, fmt.Errorf("%w: demo only runs against the fixture source", config.ErrInvalid)
	}
	if cmd.Flags().Changed("latency") || cfg.Fixture.Latency == 0 {
		cfg.Fixture.Latency = demoLatency
	}
	if len(demoFail) > 0 {
		cfg.Fixture.Fail = demoFail
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func printInventory(cmd *cobra.Command, f inventory.Fetcher) error {
	w := cmd.OutOrStdout()
	fmt.Fprintln(w, demoTitleStyle.Render("Demo inventory"))
	for _, k := range inventory.AllKinds {
		records, err := f.Fetch(contextOf(cmd), k)
		if err != nil {
			fmt.Fprintf(w, "  %-20s %s\n", k, demoDimStyle.Render(err.Error()))
			continue
		}
		fmt.Fprintf(w, "  %-20s %s\n", k, demoInfoStyle.Render(fmt.Sprintf("%d", len(records))))
		for _, r := range records {
			fmt.Fprintf(w, "    %s %s\n", r.Name, demoDimStyle.Render(r.ID))
		}
	}
	return nil
}
