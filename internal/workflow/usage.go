package workflow

import "math"

// trendMinSamples is the minimum execution count below which trend analysis is
// skipped. Halving a handful of runs says nothing about direction.
const trendMinSamples = 10

// Trend comparison factors: the second-half error density must move more than
// 20% in either direction before the trend is called.
const (
	trendIncreaseFactor = 1.2
	trendDecreaseFactor = 0.8
)

// Outcome classifies a single run.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeError   Outcome = "error"

	// OutcomeOther covers statuses like "filtered" or "held": the run
	// happened and was billed, but neither succeeded nor errored. These runs
	// widen the success/total gap a late filter's rejection rate is measured
	// from.
	OutcomeOther Outcome = "other"
)

// Execution is a single run record from the export's task history, in
// chronological order.
type Execution struct {
	Outcome      Outcome
	ErrorMessage string
	Timestamp    string // ISO timestamp, may be empty
}

// NormalizeExecutions aggregates raw execution records into UsageStats.
//
// Guarantees: TotalRuns >= 0; SuccessCount + ErrorCount <= TotalRuns (runs
// with other outcomes count toward the total only); ErrorRate is a finite
// percentage in [0,100] and exactly 0 when there are no runs. Any non-finite
// intermediate is clamped to 0 and the record is marked LowConfidence instead
// of propagating.
func NormalizeExecutions(execs []Execution) UsageStats {
	stats := UsageStats{Trend: TrendInsufficientData}

	for _, e := range execs {
		stats.TotalRuns++
		switch e.Outcome {
		case OutcomeSuccess:
			stats.SuccessCount++
		case OutcomeError:
			stats.ErrorCount++
		}
		if e.Timestamp > stats.LastRun {
			// ISO timestamps compare lexicographically.
			stats.LastRun = e.Timestamp
		}
	}

	if stats.TotalRuns > 0 {
		stats.ErrorRate = clampFinite(float64(stats.ErrorCount)/float64(stats.TotalRuns)*100, &stats.LowConfidence)
	}

	stats.MaxStreak = maxErrorStreak(execs)
	stats.MostCommonError = mostCommonError(execs)

	if stats.TotalRuns >= trendMinSamples {
		stats.Trend = errorTrend(execs, &stats.LowConfidence)
	}

	return stats
}

// errorTrend compares first-half vs second-half error density.
func errorTrend(execs []Execution, lowConfidence *bool) Trend {
	mid := len(execs) / 2
	if mid == 0 {
		return TrendInsufficientData
	}

	var firstErrs, secondErrs int
	for i, e := range execs {
		if e.Outcome != OutcomeError {
			continue
		}
		if i < mid {
			firstErrs++
		} else {
			secondErrs++
		}
	}

	firstRate := clampFinite(float64(firstErrs)/float64(mid), lowConfidence)
	secondRate := clampFinite(float64(secondErrs)/float64(len(execs)-mid), lowConfidence)

	switch {
	case secondRate > firstRate*trendIncreaseFactor:
		return TrendIncreasing
	case secondRate < firstRate*trendDecreaseFactor:
		return TrendDecreasing
	default:
		return TrendStable
	}
}

func maxErrorStreak(execs []Execution) int {
	var current, max int
	for _, e := range execs {
		if e.Outcome == OutcomeError {
			current++
			if current > max {
				max = current
			}
		} else {
			current = 0
		}
	}
	return max
}

func mostCommonError(execs []Execution) string {
	counts := make(map[string]int)
	for _, e := range execs {
		if e.Outcome == OutcomeError && e.ErrorMessage != "" {
			counts[e.ErrorMessage]++
		}
	}

	var best string
	var bestCount int
	for msg, n := range counts {
		if n > bestCount || (n == bestCount && msg < best) {
			best = msg
			bestCount = n
		}
	}
	return best
}

// clampFinite returns v, or 0 when v is NaN or infinite, flagging the record
// as low confidence in the latter case.
func clampFinite(v float64, lowConfidence *bool) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		*lowConfidence = true
		return 0
	}
	return v
}
