package workflow

// StepKind classifies what a step does within a workflow.
type StepKind string

const (
	KindRead    StepKind = "read"
	KindWrite   StepKind = "write"
	KindFilter  StepKind = "filter"
	KindGeneric StepKind = "generic"
)

// Step is one node of a workflow. Steps reference their predecessor by
// ParentID; the entry step has an empty ParentID.
type Step struct {
	ID       string   `json:"id"`
	ParentID string   `json:"parent_id,omitempty"`
	Kind     StepKind `json:"kind"`
	Provider string   `json:"provider"`
	Title    string   `json:"title,omitempty"`

	// PollingIntervalMinutes is a provider-specific override carried by some
	// exports. Non-zero means the step polls on an explicit interval.
	PollingIntervalMinutes int `json:"polling_interval_minutes,omitempty"`
}

// Workflow is a single automation definition plus optional execution history.
type Workflow struct {
	ID     string      `json:"id"`
	Name   string      `json:"name,omitempty"`
	Active bool        `json:"active"`
	Steps  []Step      `json:"steps"`
	Usage  *UsageStats `json:"usage,omitempty"`
}

// DisplayName returns the workflow name, falling back to the ID.
func (w Workflow) DisplayName() string {
	if w.Name != "" {
		return w.Name
	}
	return w.ID
}

// Trend describes how the error rate moved across the observed window.
type Trend string

const (
	TrendIncreasing       Trend = "increasing"
	TrendDecreasing       Trend = "decreasing"
	TrendStable           Trend = "stable"
	TrendInsufficientData Trend = "insufficient_data"
)

// UsageStats summarizes a workflow's execution history.
type UsageStats struct {
	TotalRuns       int     `json:"total_runs"`
	SuccessCount    int     `json:"success_count"`
	ErrorCount      int     `json:"error_count"`
	ErrorRate       float64 `json:"error_rate"` // percent, always finite
	MostCommonError string  `json:"most_common_error,omitempty"`
	MaxStreak       int     `json:"max_streak"` // longest consecutive-failure run
	Trend           Trend   `json:"trend"`
	LastRun         string  `json:"last_run,omitempty"` // ISO timestamp
	LowConfidence   bool    `json:"low_confidence,omitempty"`
}

// Severity levels for flags.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// Confidence expresses how much of a flag's estimate rests on real data.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// FlagCode identifies the type of inefficiency detected.
type FlagCode string

const (
	FlagErrorLoop      FlagCode = "ERROR_LOOP"
	FlagLateFilter     FlagCode = "LATE_FILTER"
	FlagPollingTrigger FlagCode = "POLLING_TRIGGER"
)

// Flag is a single detected inefficiency with its savings estimate.
type Flag struct {
	Code       FlagCode   `json:"code"`
	Severity   Severity   `json:"severity"`
	Confidence Confidence `json:"confidence"`
	Message    string     `json:"message"`
	Details    string     `json:"details,omitempty"`

	// EstimatedMonthlySavings is always finite and >= 0.
	EstimatedMonthlySavings float64 `json:"estimated_monthly_savings"`
	SavingsExplanation      string  `json:"savings_explanation,omitempty"`

	// IsFallback marks estimates computed from assumed defaults because no
	// real execution volume was available.
	IsFallback bool `json:"is_fallback"`

	Metadata map[string]any `json:"metadata,omitempty"`
}
