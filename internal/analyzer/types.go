package analyzer

import (
	"github.com/zapspectre/zapspectre/internal/pricing"
	"github.com/zapspectre/zapspectre/internal/workflow"
)

// SchemaVersion stamps every Result. Consumers must check it before use and
// treat a mismatch as an unrecognized result.
const SchemaVersion = "1.0.0"

// MonthsPerYear converts a monthly figure to annual. Annualize is the single
// permitted downstream conversion; presentation layers must not re-derive it.
const MonthsPerYear = 12

// Annualize converts a monthly amount to its annual equivalent.
func Annualize(monthly float64) float64 {
	return monthly * MonthsPerYear
}

// Mode indicates data completeness of an audit.
type Mode string

const (
	// ModeFull means at least one workflow carried execution history.
	ModeFull Mode = "full"
	// ModePartial means no execution history was available; estimates lean on
	// fallback constants.
	ModePartial Mode = "partial"
)

// Status of a single workflow's analysis.
type Status string

const (
	StatusAnalyzed Status = "analyzed"
	// StatusInconclusive means the step graph could not be reconstructed
	// (missing or ambiguous entry step); detectors abstained. Not the same as
	// a clean result.
	StatusInconclusive Status = "inconclusive"
)

// Finding is the per-workflow analysis outcome.
type Finding struct {
	WorkflowID   string          `json:"workflow_id"`
	WorkflowName string          `json:"workflow_name"`
	Status       Status          `json:"status"`
	Active       bool            `json:"active"`
	StepCount    int             `json:"step_count"`
	Flags        []workflow.Flag `json:"flags"`

	// Zombie marks a workflow that is switched on but never ran in the
	// observed window. A status marker, not a flag: it carries no savings
	// estimate and does not ding the score.
	Zombie bool `json:"zombie"`

	// EfficiencyScore is in [0,100]; 100 only when no flags were raised.
	EfficiencyScore int `json:"efficiency_score"`

	// EstimatedMonthlySavings is the sum of this workflow's flag savings.
	EstimatedMonthlySavings float64 `json:"estimated_monthly_savings"`
}

// Summary holds portfolio-level aggregates.
//
// TotalMonthlySavings is a straight sum across flags. Flags are treated as
// independent even though fixing one pattern can shrink the volume driving
// another; no discount model is applied.
type Summary struct {
	TotalWorkflows         int            `json:"total_workflows"`
	ActiveWorkflows        int            `json:"active_workflows"`
	ZombieWorkflows        int            `json:"zombie_workflows"`
	InconclusiveWorkflows  int            `json:"inconclusive_workflows"`
	TotalSteps             int            `json:"total_steps"`
	TotalFlags             int            `json:"total_flags"`
	TotalMonthlySavings    float64        `json:"total_monthly_savings"`
	AverageEfficiencyScore float64        `json:"average_efficiency_score"`
	BySeverity             map[string]int `json:"by_severity"`
	ByConfidence           map[string]int `json:"by_confidence"`
}

// PricingAssumptions records how the per-task price was obtained.
type PricingAssumptions struct {
	Plan         string  `json:"plan"`
	PerTaskPrice float64 `json:"per_task_price"`
	Source       string  `json:"source"` // "tier", "override", or "default"

	// IsFallback is set when the plan was unrecognized and the default price
	// constant was used.
	IsFallback bool `json:"is_fallback"`
}

// MaxRankedOpportunities caps the opportunity ranking.
const MaxRankedOpportunities = 10

// Opportunity is one flag lifted into the portfolio-wide savings ranking.
type Opportunity struct {
	Rank                    int                 `json:"rank"` // 1 = highest impact
	WorkflowID              string              `json:"workflow_id"`
	Code                    workflow.FlagCode   `json:"code"`
	EstimatedMonthlySavings float64             `json:"estimated_monthly_savings"`
	Confidence              workflow.Confidence `json:"confidence"`
}

// Result is the canonical audit result. It is deterministic for identical
// input: findings are sorted by workflow ID and nothing time- or
// randomness-dependent is embedded here.
type Result struct {
	SchemaVersion string             `json:"schema_version"`
	Mode          Mode               `json:"mode"`
	Pricing       PricingAssumptions `json:"pricing"`
	Findings      []Finding          `json:"findings"`
	Opportunities []Opportunity      `json:"opportunities"`
	Summary       Summary            `json:"summary"`
}

// Config controls an analysis run.
type Config struct {
	// Plan is the declared plan family for tier pricing.
	Plan pricing.Plan

	// MonthlyTasks is the observed monthly billable-task volume used for tier
	// selection.
	MonthlyTasks int

	// TaskPriceOverride, when > 0, bypasses tier resolution entirely.
	TaskPriceOverride float64

	// MinMonthlySavings drops flags whose estimate falls below it.
	MinMonthlySavings float64

	// Concurrency bounds parallel per-workflow analysis. <= 0 means 4.
	Concurrency int
}
