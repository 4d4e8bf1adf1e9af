package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/zapspectre/zapspectre/internal/ingest"
	"github.com/zapspectre/zapspectre/internal/workflow"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <bundle.zip>",
	Short: "List workflows in a bundle without running the audit",
	Long: `Print a quick inventory of the workflows in an export archive: step counts,
trigger providers, and execution stats where history is available. No
heuristics run.`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func runInspect(_ *cobra.Command, args []string) error {
	bundle, err := ingest.ReadBundle(args[0])
	if err != nil {
		return enhanceError("read bundle", err)
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tACTIVE\tSTEPS\tTRIGGER\tRUNS\tERROR RATE")
	for _, w := range bundle.Workflows {
		runs, errRate := "-", "-"
		if w.Usage != nil && w.Usage.TotalRuns > 0 {
			runs = fmt.Sprintf("%d", w.Usage.TotalRuns)
			errRate = fmt.Sprintf("%.1f%%", w.Usage.ErrorRate)
		}
		fmt.Fprintf(tw, "%s\t%s\t%t\t%d\t%s\t%s\t%s\n",
			w.ID, w.DisplayName(), w.Active, len(w.Steps), triggerProvider(w), runs, errRate)
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("flush inspect output: %w", err)
	}

	fmt.Printf("\n%d workflows", len(bundle.Workflows))
	if bundle.HasTaskHistory {
		fmt.Println(" (task history present)")
	} else {
		fmt.Println(" (no task history)")
	}
	return nil
}

func triggerProvider(w workflow.Workflow) string {
	chain := workflow.Chain(w)
	if len(chain) == 0 || chain[0].Provider == "" {
		return "unknown"
	}
	return ingest.ProviderName(chain[0].Provider)
}
