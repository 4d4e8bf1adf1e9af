package analyzer

import "github.com/zapspectre/zapspectre/internal/workflow"

// scorePenalty maps a flag to its efficiency-score deduction.
func scorePenalty(f workflow.Flag) int {
	switch f.Code {
	case workflow.FlagErrorLoop:
		if f.Severity == workflow.SeverityHigh {
			return 30
		}
		return 20
	case workflow.FlagLateFilter:
		return 25
	case workflow.FlagPollingTrigger:
		return 10
	default:
		// A detector added without a penalty entry still dings the score.
		switch f.Severity {
		case workflow.SeverityHigh:
			return 25
		case workflow.SeverityMedium:
			return 15
		default:
			return 5
		}
	}
}

// efficiencyScore is 100 minus the per-flag penalties, floored at 0.
func efficiencyScore(flags []workflow.Flag) int {
	score := 100
	for _, f := range flags {
		score -= scorePenalty(f)
	}
	if score < 0 {
		score = 0
	}
	return score
}
