// Package detect implements the inefficiency detectors that run against a
// workflow's ordered step chain and usage statistics.
package detect

import (
	"github.com/zapspectre/zapspectre/internal/workflow"
)

// Fallback constants used when no execution history is available. Estimates
// built on them carry IsFallback so consumers can tell them apart from
// data-backed figures.
const (
	// fallbackMonthlyRuns is a conservative monthly run estimate: the entry
	// 750-task tier divided by a typical 1.5 steps per run.
	fallbackMonthlyRuns = 500

	// pollingReductionRate is the fraction of task volume a polling trigger
	// wastes on empty checks. 15-30% is typical; 20% is the conservative pick.
	pollingReductionRate = 0.20

	// lateFilterFallbackRate is the assumed fraction of items a filter
	// rejects when no execution history can measure it.
	lateFilterFallbackRate = 0.30
)

// Detector inspects one workflow and emits at most one flag.
//
// The chain is the ordered step sequence from workflow.Chain; stats may be
// nil. Detectors have no error path: structurally valid but uninteresting
// input (empty chain, single step, zero runs) yields a nil flag.
type Detector interface {
	Code() workflow.FlagCode
	Detect(chain []workflow.Step, stats *workflow.UsageStats, pricePerTask float64) *workflow.Flag
}

// All returns the fixed detector set. Adding a detector means adding it here
// and to the score penalty table, which keeps the enumeration closed.
func All() []Detector {
	return []Detector{
		ErrorLoop{},
		LateFilter{},
		PollingTrigger{},
	}
}
