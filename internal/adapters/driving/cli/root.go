// Package cli provides the odiscan command-line interface.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/odiscan/internal/logger"
)

// version is set at build time.
var version = "dev"

var (
	verbose   bool
	configDir string
	ruleOnly  bool
)

var rootCmd = &cobra.Command{
	Use:   "odiscan",
	Short: "Find outbound direct investments in listed-company announcements",
	Long: `odiscan classifies plain-text announcements of Chinese listed companies,
keeps those describing outbound direct investment (ODI) and extracts the deal
fields with a language model, falling back to keyword rules when the model
is unavailable or leaves fields blank.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "",
		"configuration directory (default $ODISCAN_CONFIG_DIR or ~/.odiscan)")
	rootCmd.PersistentFlags().BoolVar(&ruleOnly, "rule-only", false, "skip the language model and extract with rules only")
}

// SetVersion sets the version reported by the version command and the MCP server.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// commandContext returns the command's context, or a background context
// when the command was executed without one.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
