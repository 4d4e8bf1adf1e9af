package detect

import (
	"fmt"

	"github.com/zapspectre/zapspectre/internal/workflow"
)

// Error-rate thresholds, in percent. Workflows just below errorRateThreshold
// go unflagged; that boundary is a deliberate simplification.
const (
	errorRateThreshold     = 10.0
	errorRateHighThreshold = 50.0
)

// ErrorLoop flags workflows whose execution history shows a high failure
// rate. Every failed run still consumes one billable task per traversed step,
// so the savings estimate is errors × chain length × per-task price.
type ErrorLoop struct{}

func (ErrorLoop) Code() workflow.FlagCode { return workflow.FlagErrorLoop }

func (ErrorLoop) Detect(chain []workflow.Step, stats *workflow.UsageStats, pricePerTask float64) *workflow.Flag {
	if len(chain) == 0 || stats == nil || stats.TotalRuns == 0 {
		return nil
	}
	if stats.ErrorRate <= errorRateThreshold {
		return nil
	}

	steps := len(chain)
	wastedTasks := stats.ErrorCount * steps
	savings := float64(wastedTasks) * pricePerTask

	severity := workflow.SeverityMedium
	if stats.ErrorRate > errorRateHighThreshold {
		severity = workflow.SeverityHigh
	}

	// Front-loaded errors mean the failure window is fully observed, so the
	// estimate is firmer than one from an ongoing or spread-out failure.
	confidence := workflow.ConfidenceMedium
	if stats.Trend == workflow.TrendDecreasing {
		confidence = workflow.ConfidenceHigh
	}

	details := fmt.Sprintf("%d errors out of %d runs (%.1f%% error rate).", stats.ErrorCount, stats.TotalRuns, stats.ErrorRate)
	if stats.MaxStreak > 3 {
		details += fmt.Sprintf(" Longest consecutive failure streak: %d.", stats.MaxStreak)
	}
	if stats.MostCommonError != "" {
		details += fmt.Sprintf(" Most common error: %q.", stats.MostCommonError)
	}

	meta := map[string]any{
		"error_rate": stats.ErrorRate,
		"max_streak": stats.MaxStreak,
	}
	if stats.Trend != workflow.TrendInsufficientData {
		meta["error_trend"] = string(stats.Trend)
	}
	if stats.MostCommonError != "" {
		meta["most_common_error"] = stats.MostCommonError
	}

	return &workflow.Flag{
		Code:                    workflow.FlagErrorLoop,
		Severity:                severity,
		Confidence:              confidence,
		Message:                 fmt.Sprintf("High error rate: %.1f%%", stats.ErrorRate),
		Details:                 details,
		EstimatedMonthlySavings: savings,
		SavingsExplanation: fmt.Sprintf("%d failed runs × %d steps × $%.4f per task = $%.2f",
			stats.ErrorCount, steps, pricePerTask, savings),
		IsFallback: false, // only fires on real execution data
		Metadata:   meta,
	}
}
