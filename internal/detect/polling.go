package detect

import (
	"fmt"
	"strings"

	"github.com/zapspectre/zapspectre/internal/workflow"
)

// pollingProviders lists providers known to trigger by interval polling
// rather than instant webhooks. Matching is substring-based, so a provider
// identifier with extra qualifiers ("GoogleSheetsV2CLIAPI@2.9.1") still
// matches; providers outside the registry are never flagged. Both are
// documented approximations.
var pollingProviders = []string{
	"RSS",
	"WordPress",
	"GoogleSheets",
	"GoogleForms",
	"Airtable",
	"Excel",
	"Dropbox",
	"GoogleDrive",
	"OneDrive",
	"MySQL",
	"PostgreSQL",
	"SQLServer",
	"MongoDB",
}

// PollingTrigger flags workflows whose entry step polls for new data. Polling
// consumes tasks even when nothing new arrived; the estimate assumes a fixed
// fraction of the task volume could be reclaimed by an instant trigger.
type PollingTrigger struct{}

func (PollingTrigger) Code() workflow.FlagCode { return workflow.FlagPollingTrigger }

func (PollingTrigger) Detect(chain []workflow.Step, stats *workflow.UsageStats, pricePerTask float64) *workflow.Flag {
	if len(chain) == 0 {
		return nil
	}
	trigger := chain[0]
	if trigger.Kind != workflow.KindRead {
		return nil
	}

	// An explicit polling-interval override on the step beats the registry.
	signal := ""
	switch {
	case trigger.PollingIntervalMinutes > 0:
		signal = fmt.Sprintf("polling interval override (%d min)", trigger.PollingIntervalMinutes)
	case matchesPollingRegistry(trigger.Provider):
		signal = "known polling provider"
	default:
		return nil
	}

	steps := len(chain)
	runs := fallbackMonthlyRuns
	isFallback := true
	if stats != nil && stats.TotalRuns > 0 {
		runs = stats.TotalRuns
		isFallback = false
	}

	totalTasks := runs * steps
	savings := float64(totalTasks) * pricePerTask * pollingReductionRate

	confidence := workflow.ConfidenceLow
	if !isFallback {
		// Real run volume, but the overhead fraction is always estimated.
		confidence = workflow.ConfidenceMedium
	}

	qualifier := ""
	if isFallback {
		qualifier = " (assumed volume, no execution data)"
	}

	return &workflow.Flag{
		Code:       workflow.FlagPollingTrigger,
		Severity:   workflow.SeverityMedium,
		Confidence: confidence,
		Message:    fmt.Sprintf("Uses polling trigger: %s", trigger.Provider),
		Details: fmt.Sprintf("The trigger %q checks for new data at intervals, consuming tasks even when "+
			"nothing new is available (%s). An instant webhook trigger would remove that overhead.",
			trigger.Provider, signal),
		EstimatedMonthlySavings: savings,
		SavingsExplanation: fmt.Sprintf("%d runs × %d steps × %.0f%% polling overhead × $%.4f per task%s",
			runs, steps, pollingReductionRate*100, pricePerTask, qualifier),
		IsFallback: isFallback,
		Metadata: map[string]any{
			"provider": trigger.Provider,
			"signal":   signal,
		},
	}
}

func matchesPollingRegistry(provider string) bool {
	for _, p := range pollingProviders {
		if strings.Contains(provider, p) {
			return true
		}
	}
	return false
}
