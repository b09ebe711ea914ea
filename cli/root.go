// Package cli implements the copilot command tree.
package cli

import (
	"github.com/spf13/cobra"
)

// RootCmd returns the copilot root command.
func RootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "copilot",
		Short:         "Negotiation copilot client",
		Long:          "Role-gated client for live negotiation assistance and post-negotiation review.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
	root.PersistentFlags().Bool("log-json", false, "Emit logs as JSON")

	root.AddCommand(
		LoginCmd(),
		LogoutCmd(),
		WhoamiCmd(),
		LiveCmd(),
		RecordsCmd(),
		DashboardCmd(),
	)
	return root
}
