package analyzer

import (
	"fmt"
	"math"
)

// savingsEpsilon bounds acceptable float drift between the portfolio total
// and the sum of per-flag savings.
const savingsEpsilon = 1e-6

// ValidationError reports an assembled result that violates the schema's
// invariants. Analyze fails closed with this error instead of returning a
// partial result.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "audit result validation failed: " + e.Reason
}

// validate checks the assembled result against the schema invariants:
// no NaN/Inf/negative financial field, scores in [0,100], finding count equal
// to the analyzed workflow count, a contiguous capped opportunity ranking,
// and the portfolio total matching the flag sum within savingsEpsilon.
func validate(res *Result, workflowCount int) error {
	if res.SchemaVersion == "" {
		return &ValidationError{Reason: "missing schema version"}
	}
	if len(res.Findings) != workflowCount {
		return &ValidationError{Reason: fmt.Sprintf("finding count %d does not match workflow count %d",
			len(res.Findings), workflowCount)}
	}
	if err := checkMoney("summary total_monthly_savings", res.Summary.TotalMonthlySavings); err != nil {
		return err
	}
	if err := checkMoney("pricing per_task_price", res.Pricing.PerTaskPrice); err != nil {
		return err
	}

	var flagSum float64
	for _, f := range res.Findings {
		if f.EfficiencyScore < 0 || f.EfficiencyScore > 100 {
			return &ValidationError{Reason: fmt.Sprintf("workflow %s score %d outside [0,100]",
				f.WorkflowID, f.EfficiencyScore)}
		}
		if len(f.Flags) > 0 && f.EfficiencyScore == 100 {
			return &ValidationError{Reason: fmt.Sprintf("workflow %s has flags but a perfect score", f.WorkflowID)}
		}
		if err := checkMoney(fmt.Sprintf("workflow %s savings", f.WorkflowID), f.EstimatedMonthlySavings); err != nil {
			return err
		}
		for _, fl := range f.Flags {
			if err := checkMoney(fmt.Sprintf("workflow %s flag %s savings", f.WorkflowID, fl.Code), fl.EstimatedMonthlySavings); err != nil {
				return err
			}
			flagSum += fl.EstimatedMonthlySavings
		}
	}

	if len(res.Opportunities) > MaxRankedOpportunities {
		return &ValidationError{Reason: fmt.Sprintf("opportunity ranking has %d entries, cap is %d",
			len(res.Opportunities), MaxRankedOpportunities)}
	}
	for i, opp := range res.Opportunities {
		if opp.Rank != i+1 {
			return &ValidationError{Reason: fmt.Sprintf("opportunity %d has rank %d", i, opp.Rank)}
		}
		if err := checkMoney(fmt.Sprintf("opportunity %d savings", opp.Rank), opp.EstimatedMonthlySavings); err != nil {
			return err
		}
	}

	if math.Abs(flagSum-res.Summary.TotalMonthlySavings) > savingsEpsilon {
		return &ValidationError{Reason: fmt.Sprintf("portfolio savings %.9f does not match flag sum %.9f",
			res.Summary.TotalMonthlySavings, flagSum)}
	}
	return nil
}

func checkMoney(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return &ValidationError{Reason: field + " is not finite"}
	}
	if v < 0 {
		return &ValidationError{Reason: field + " is negative"}
	}
	return nil
}
