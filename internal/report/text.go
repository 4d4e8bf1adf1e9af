package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/zapspectre/zapspectre/internal/analyzer"
)

// TextReporter writes a human-readable report.
type TextReporter struct {
	Writer io.Writer
}

// Generate writes the text report.
func (r *TextReporter) Generate(data Data) error {
	w := r.Writer
	res := data.Result

	fmt.Fprintf(w, "%s %s — workflow audit\n", data.Tool, data.Version)
	fmt.Fprintf(w, "Generated: %s\n", data.Timestamp.Format("2006-01-02 15:04:05 UTC"))
	fmt.Fprintf(w, "Mode: %s  Plan: %s  Price: $%.4f/task (%s)\n\n",
		res.Mode, res.Pricing.Plan, res.Pricing.PerTaskPrice, res.Pricing.Source)

	if res.Summary.TotalFlags == 0 {
		fmt.Fprintln(w, "No inefficiencies found.")
	} else {
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "WORKFLOW\tSCORE\tFLAG\tSEVERITY\tMONTHLY\tANNUAL\tBASIS")
		for _, f := range res.Findings {
			for _, fl := range f.Flags {
				fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t$%.2f\t$%.2f\t%s\n",
					f.WorkflowName,
					f.EfficiencyScore,
					fl.Code,
					fl.Severity,
					fl.EstimatedMonthlySavings,
					analyzer.Annualize(fl.EstimatedMonthlySavings),
					basisLabel(fl.IsFallback),
				)
			}
		}
		if err := tw.Flush(); err != nil {
			return fmt.Errorf("flush text report: %w", err)
		}
	}

	if len(res.Opportunities) > 0 {
		fmt.Fprintf(w, "\nTop opportunities:\n")
		for _, opp := range res.Opportunities {
			fmt.Fprintf(w, "  %d. %s on workflow %s — $%.2f/month\n",
				opp.Rank, opp.Code, opp.WorkflowID, opp.EstimatedMonthlySavings)
		}
	}

	if res.Summary.InconclusiveWorkflows > 0 {
		fmt.Fprintf(w, "\nInconclusive workflows (unreconstructable step graph): %d\n",
			res.Summary.InconclusiveWorkflows)
		for _, f := range res.Findings {
			if f.Status == analyzer.StatusInconclusive {
				fmt.Fprintf(w, "  - %s\n", f.WorkflowName)
			}
		}
	}

	fmt.Fprintf(w, "\nSummary\n")
	fmt.Fprintf(w, "  Workflows analyzed:     %d (%d active)\n",
		res.Summary.TotalWorkflows, res.Summary.ActiveWorkflows)
	fmt.Fprintf(w, "  Flags raised:           %d%s\n",
		res.Summary.TotalFlags, severityBreakdown(res.Summary.BySeverity))
	if res.Summary.ZombieWorkflows > 0 {
		fmt.Fprintf(w, "  Zombie workflows:       %d (on, never ran)\n", res.Summary.ZombieWorkflows)
	}
	fmt.Fprintf(w, "  Average score:          %.0f/100\n", res.Summary.AverageEfficiencyScore)
	fmt.Fprintf(w, "  Est. monthly savings:   $%.2f\n", res.Summary.TotalMonthlySavings)
	fmt.Fprintf(w, "  Est. annual savings:    $%.2f\n", analyzer.Annualize(res.Summary.TotalMonthlySavings))

	if res.Mode == analyzer.ModePartial {
		fmt.Fprintln(w, "\nNote: no execution history was found in the bundle; estimates marked")
		fmt.Fprintln(w, "\"estimated\" rest on assumed default volumes, not observed runs.")
	}
	return nil
}

func basisLabel(isFallback bool) string {
	if isFallback {
		return "estimated"
	}
	return "measured"
}

func severityBreakdown(bySeverity map[string]int) string {
	if len(bySeverity) == 0 {
		return ""
	}
	var parts []string
	for _, sev := range []string{"high", "medium", "low"} {
		if n := bySeverity[sev]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, sev))
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return " (" + strings.Join(parts, ", ") + ")"
}
