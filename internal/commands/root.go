package commands

import (
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/zapspectre/zapspectre/internal/config"
	"github.com/zapspectre/zapspectre/internal/logging"
)

var (
	verbose bool
	version string
	commit  string
	date    string
	cfg     config.Config
)

var rootCmd = &cobra.Command{
	Use:   "zapspectre",
	Short: "zapspectre — workflow automation waste auditor",
	Long: `zapspectre audits an exported automation bundle for patterns that burn
billable tasks for nothing: workflows stuck in error loops, filters placed
after mutating steps, and polling triggers that could be instant webhooks.

Each flag includes an estimated monthly savings in USD based on the plan's
tier pricing and the workflow's observed execution volume.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init(verbose)
		loaded, err := config.Load(".")
		if err != nil {
			slog.Warn("Failed to load config file", "error", err)
		} else {
			cfg = loaded
		}
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command with injected build info.
func Execute(v, c, d string) error {
	version = v
	commit = c
	date = d
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable verbose logging")
	rootCmd.AddCommand(auditCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
}
