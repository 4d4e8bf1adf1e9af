package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var initFlags struct {
	force bool
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a sample config file",
	Long:  `Creates a sample .zapspectre.yaml config file in the current directory.`,
	RunE:  runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initFlags.force, "force", false, "Overwrite an existing file")
}

const sampleConfig = `# zapspectre configuration
# Plan family for tier pricing: professional or team
plan: professional

# Observed monthly task volume; selects the pricing tier.
# Find it on your plan's usage page.
monthly_tasks: 2000

# Per-task price override in USD. When set, tier pricing is bypassed.
# task_price: 0.02

# Drop flags whose estimated monthly savings fall below this ($).
min_monthly_savings: 0

# Default output format: text, json, or sarif
format: text

# Audit timeout
timeout: 1m
`

func runInit(_ *cobra.Command, _ []string) error {
	configPath := ".zapspectre.yaml"

	if !initFlags.force {
		if _, err := os.Stat(configPath); err == nil {
			fmt.Printf("Skipping %s (already exists, use --force to overwrite)\n", configPath)
			return nil
		}
	}

	if err := os.WriteFile(configPath, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", configPath, err)
	}

	fmt.Printf("Created %s\n", configPath)
	fmt.Println("\nNext steps:")
	fmt.Println("  1. Edit .zapspectre.yaml to match your plan and task volume")
	fmt.Println("  2. Run: zapspectre audit <export.zip>")
	return nil
}
