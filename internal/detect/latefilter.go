package detect

import (
	"fmt"

	"github.com/zapspectre/zapspectre/internal/workflow"
)

// LateFilter flags workflows whose first filter step sits deeper than the
// slot right after the trigger, with mutating steps ahead of it. Read steps
// before the filter are a legitimate data dependency and are not counted.
type LateFilter struct{}

func (LateFilter) Code() workflow.FlagCode { return workflow.FlagLateFilter }

func (LateFilter) Detect(chain []workflow.Step, stats *workflow.UsageStats, pricePerTask float64) *workflow.Flag {
	filterIdx := -1
	for i, s := range chain {
		if s.Kind == workflow.KindFilter {
			filterIdx = i
			break
		}
	}
	if filterIdx <= 1 {
		// Absent, or already right after the trigger.
		return nil
	}

	writesBefore := 0
	for _, s := range chain[1:filterIdx] {
		if s.Kind == workflow.KindWrite {
			writesBefore++
		}
	}
	if writesBefore == 0 {
		return nil
	}

	savings, explanation, confidence, isFallback := lateFilterEstimate(stats, writesBefore, pricePerTask)

	return &workflow.Flag{
		Code:       workflow.FlagLateFilter,
		Severity:   workflow.SeverityHigh,
		Confidence: confidence,
		Message:    "Filter is placed too late in the workflow",
		Details: fmt.Sprintf("Filter at step %d with %d mutating step(s) before it. "+
			"Moving the filter right after the trigger stops those steps from running for rejected items.",
			filterIdx+1, writesBefore),
		EstimatedMonthlySavings: savings,
		SavingsExplanation:      explanation,
		IsFallback:              isFallback,
		Metadata: map[string]any{
			"filter_position": filterIdx + 1,
			"writes_before":   writesBefore,
		},
	}
}

func lateFilterEstimate(stats *workflow.UsageStats, writesBefore int, pricePerTask float64) (float64, string, workflow.Confidence, bool) {
	if stats != nil && stats.TotalRuns > 0 {
		rejectionRate := lateFilterFallbackRate
		measured := false
		if stats.SuccessCount < stats.TotalRuns {
			rejectionRate = float64(stats.TotalRuns-stats.SuccessCount) / float64(stats.TotalRuns)
			measured = true
		}

		wasted := float64(stats.TotalRuns) * float64(writesBefore) * rejectionRate
		savings := wasted * pricePerTask
		explanation := fmt.Sprintf("%d runs × %d steps before filter × %.0f%% rejection rate × $%.4f per task",
			stats.TotalRuns, writesBefore, rejectionRate*100, pricePerTask)
		confidence := workflow.ConfidenceHigh
		if !measured || stats.LowConfidence {
			confidence = workflow.ConfidenceMedium
		}
		return savings, explanation, confidence, false
	}

	wasted := float64(fallbackMonthlyRuns) * float64(writesBefore) * lateFilterFallbackRate
	savings := wasted * pricePerTask
	explanation := fmt.Sprintf("assumed %d monthly runs × %d steps before filter × %.0f%% rejection rate × $%.4f per task (no execution data)",
		fallbackMonthlyRuns, writesBefore, lateFilterFallbackRate*100, pricePerTask)
	return savings, explanation, workflow.ConfidenceMedium, true
}
