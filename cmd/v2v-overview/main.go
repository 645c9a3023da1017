// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

// Command v2v-overview is a terminal dashboard for infrastructure migrations.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// BuildTag is set during build
	BuildTag = "dev"
	// BuildDate is set during build
	BuildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "v2v-overview",
	Short: "Watch infrastructure mappings and migration plans",
	Long: `v2v-overview - a terminal dashboard for VMware migrations

v2v-overview keeps infrastructure mappings, migration plans and the source
and target inventory fresh, and hosts the "Create Infrastructure Mapping"
and "Create Migration Plan" wizards.

Inventory sources:
  miq       ManageIQ / CloudForms REST API (default)
  kube      Forklift custom resources on an OpenShift cluster
  fixture   A YAML inventory file, or the built-in demo inventory

Environment Variables:
  V2V_OVERVIEW_CONFIG     Config file (default: ~/.v2v-overview/config.yaml)
  MIQ_URL                 ManageIQ appliance URL
  MIQ_TOKEN               ManageIQ API token (default: ~/.v2v-overview/miq-token)
  MIQ_USER, MIQ_PASSWORD  ManageIQ basic auth, used when no token is set
  KUBECONFIG              Path to kubeconfig file (default: ~/.kube/config)
  V2V_NAMESPACE           Forklift namespace (default: openshift-mtv)
  V2V_LOCALE              Display language (en, es)
`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOverview(cmd)
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	addSourceFlags(rootCmd)

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "v2v-overview version %s (built %s)\n", BuildTag, BuildDate)
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion script",
		Long: `Generate shell completion script for v2v-overview.

Bash:
  $ source <(v2v-overview completion bash)
  # Or add to ~/.bashrc:
  $ v2v-overview completion bash >> ~/.bashrc

Zsh:
  $ source <(v2v-overview completion zsh)
  # Or install to fpath:
  $ v2v-overview completion zsh > "${fpath[1]}/_v2v-overview"

Fish:
  $ v2v-overview completion fish | source
  # Or install:
  $ v2v-overview completion fish > ~/.config/fish/completions/v2v-overview.fish

PowerShell:
  PS> v2v-overview completion powershell | Out-String | Invoke-Expression
`,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.ExactArgs(1),
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			default:
				return fmt.Errorf("unsupported shell: %s", args[0])
			}
		},
	})
}
