// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/monadic/v2v-overview/internal/clierr"
	"github.com/monadic/v2v-overview/internal/i18n"
	"github.com/monadic/v2v-overview/pkg/inventory"
	"github.com/monadic/v2v-overview/pkg/miq"
	"github.com/monadic/v2v-overview/pkg/overview"
	"github.com/monadic/v2v-overview/pkg/query"
)

func init() {
	rootCmd.AddCommand(statusCmd)
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print a one-shot snapshot of the dashboard",
	Long: `Fetch every collection once, wait for the results and print what the
dashboard would show.

Displays:
  - The sections the dashboard shows
  - Migration plans by state, when a mapping exists
  - A count or a failure reason per collection

Examples:
  v2v-overview status
  v2v-overview status --json
  v2v-overview status --source fixture --timeout 5s
  v2v-overview status --query 'kind=plans AND state=Failed'
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStatus(cmd)
	},
}

func init() {
	statusCmd.Flags().Bool("json", false, "Output as JSON")
	statusCmd.Flags().Duration("timeout", 30*time.Second, "How long to wait for every collection")
	statusCmd.Flags().StringP("query", "q", "", "Also list records matching a query (e.g. 'kind=plans AND state=Failed')")
}

// StatusReport is the snapshot printed by the status command.
type StatusReport struct {
	Source      string             `json:"source"`
	Server      string             `json:"server,omitempty"`
	Complete    bool               `json:"complete"`
	Sections    []string           `json:"sections"`
	Migrations  *MigrationCounts   `json:"migrations,omitempty"`
	Collections []CollectionStatus `json:"collections"`
	Query       string             `json:"query,omitempty"`
	Matches     []inventory.Record `json:"matches,omitempty"`
}

// MigrationCounts summarizes plans by state.
type MigrationCounts struct {
	NotStarted int `json:"notStarted"`
	InProgress int `json:"inProgress"`
	Completed  int `json:"completed"`
	Failed     int `json:"failed"`
	Archived   int `json:"archived"`
}

// CollectionStatus is one collection's line in the report.
type CollectionStatus struct {
	Kind   inventory.Kind `json:"kind"`
	Status string         `json:"status"`
	Count  int            `json:"count"`
	Reason string         `json:"reason,omitempty"`
	Error  string         `json:"error,omitempty"`
}

func runStatus(cmd *cobra.Command) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	queryStr, _ := cmd.Flags().GetString("query")

	q, err := query.Parse(queryStr)
	if err != nil {
		return fmt.Errorf("invalid query: %w", err)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log := openLogger(cmd, "status", cfg)
	defer log.Close()

	fetcher, label, err := newFetcher(cfg, log.Z())
	if err != nil {
		return err
	}

	ctrl := overview.NewController(fetcher,
		overview.WithInterval(cfg.PollInterval),
		overview.WithLogger(log.Z()),
	)
	report := collectStatus(contextOf(cmd), ctrl, timeout, newLocalizer(cfg), q)
	report.Source = label
	report.Server = describeServer(contextOf(cmd), fetcher)

	if jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	printStatus(cmd.OutOrStdout(), report)
	return nil
}

// collectStatus activates ctrl headless, applies results until every
// collection settles or timeout passes, then deactivates it.
func collectStatus(ctx context.Context, ctrl *overview.Controller, timeout time.Duration, loc i18n.Resolver, q *query.Query) StatusReport {
	ctrl.Activate(ctx)
	defer ctrl.Deactivate()

	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

wait:
	for !ctrl.AllSettled() {
		select {
		case r := <-ctrl.Results():
			ctrl.Apply(r)
		case <-deadline.C:
			break wait
		case <-ctx.Done():
			break wait
		}
	}

	report := StatusReport{Complete: ctrl.AllSettled()}
	for _, id := range ctrl.Sections() {
		report.Sections = append(report.Sections, loc.Resolve(id))
	}
	if ctrl.ShowMigrations() {
		s := ctrl.MigrationSummary()
		report.Migrations = &MigrationCounts{
			NotStarted: len(s.Groups.NotStarted),
			InProgress: len(s.Groups.InProgress),
			Completed:  len(s.Groups.Completed),
			Failed:     len(s.Groups.Failed),
			Archived:   s.Archived,
		}
	}
	for _, k := range inventory.AllKinds {
		col := ctrl.Collection(k)
		cs := CollectionStatus{Kind: k, Status: string(col.Status), Count: len(col.Items)}
		if col.Err != nil {
			cs.Reason = clierr.ClassifyError(col.Err)
			cs.Error = col.Err.Error()
		}
		report.Collections = append(report.Collections, cs)
		if q != nil && len(q.Conditions) > 0 {
			report.Matches = append(report.Matches, q.Filter(col.Items)...)
		}
	}
	report.Query = q.String()
	return report
}

// describeServer names the appliance behind a ManageIQ source. Other sources,
// and appliances that do not answer, yield "".
func describeServer(ctx context.Context, f inventory.Fetcher) string {
	client, ok := f.(*miq.Client)
	if !ok {
		return ""
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	info, err := client.ServerInfo(ctx)
	if err != nil || info.ServerInfo.Version == "" {
		return ""
	}
	s := "ManageIQ " + info.ServerInfo.Version
	if info.ServerInfo.Appliance != "" {
		s += " (" + info.ServerInfo.Appliance + ")"
	}
	return s
}

// Styles for status output
var (
	statusTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	statusOkStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	statusWarnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	statusErrStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	statusDimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("246"))
)

func printStatus(w io.Writer, r StatusReport) {
	fmt.Fprintf(w, "%s  %s\n", statusTitleStyle.Render("Source:"), r.Source)
	if r.Server != "" {
		fmt.Fprintf(w, "%s  %s\n", statusTitleStyle.Render("Server:"), r.Server)
	}
	fmt.Fprintf(w, "%s %s\n", statusTitleStyle.Render("Sections:"), strings.Join(r.Sections, " · "))
	if !r.Complete {
		fmt.Fprintln(w, statusWarnStyle.Render("Some collections did not finish loading before the timeout."))
	}

	if m := r.Migrations; m != nil {
		fmt.Fprintln(w)
		fmt.Fprintln(w, statusTitleStyle.Render("Migrations"))
		fmt.Fprintf(w, "  Not Started  %d\n", m.NotStarted)
		fmt.Fprintf(w, "  In Progress  %d\n", m.InProgress)
		fmt.Fprintf(w, "  Completed    %d\n", m.Completed)
		fmt.Fprintf(w, "  Failed       %d\n", m.Failed)
		fmt.Fprintf(w, "  Archived     %d\n", m.Archived)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, statusTitleStyle.Render("Collections"))
	for _, c := range r.Collections {
		name := fmt.Sprintf("  %-20s", c.Kind)
		switch overview.Status(c.Status) {
		case overview.StatusLoaded:
			fmt.Fprintf(w, "%s %s %d\n", name, statusOkStyle.Render("●"), c.Count)
		case overview.StatusRejected:
			fmt.Fprintf(w, "%s %s %s %s\n", name, statusErrStyle.Render("✗"), c.Reason, statusDimStyle.Render(c.Error))
		default:
			fmt.Fprintf(w, "%s %s %s\n", name, statusWarnStyle.Render("○"), c.Status)
		}
	}

	if r.Query != "" {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "%s %s (%d)\n", statusTitleStyle.Render("Matches:"), r.Query, len(r.Matches))
		for _, m := range r.Matches {
			fmt.Fprintf(w, "  %-20s %s %s\n", m.Kind, m.Name, statusDimStyle.Render(m.ID))
		}
	}
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
