package pricing

import "testing"

func TestResolve_TierSelection(t *testing.T) {
	tests := []struct {
		name         string
		plan         Plan
		monthlyTasks int
		wantBound    int
	}{
		{"exact bound", PlanProfessional, 2000, 2000},
		{"between bounds", PlanProfessional, 3000, 2000},
		{"below lowest bound", PlanProfessional, 100, 750},
		{"zero volume", PlanProfessional, 0, 750},
		{"above highest bound", PlanProfessional, 5_000_000, 2_000_000},
		{"team exact", PlanTeam, 50_000, 50_000},
		{"team between", PlanTeam, 60_000, 50_000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.plan, tt.monthlyTasks)
			if got.TierBound != tt.wantBound {
				t.Fatalf("expected tier bound %d, got %d", tt.wantBound, got.TierBound)
			}
			if got.IsFallback {
				t.Fatalf("known plan should not be a fallback")
			}
			if got.PerTaskPrice <= 0 {
				t.Fatalf("expected positive per-task price, got %f", got.PerTaskPrice)
			}
		})
	}
}

func TestResolve_UnknownPlanFallsBack(t *testing.T) {
	got := Resolve(Plan("enterprise"), 10_000)
	if !got.IsFallback {
		t.Fatalf("expected fallback for unknown plan")
	}
	if got.PerTaskPrice != DefaultTaskPrice {
		t.Fatalf("expected default price %f, got %f", DefaultTaskPrice, got.PerTaskPrice)
	}
	if got.TierBound != 0 {
		t.Fatalf("fallback should not carry a tier bound, got %d", got.TierBound)
	}
}

func TestResolve_PriceNonIncreasingWithVolume(t *testing.T) {
	for _, plan := range []Plan{PlanProfessional, PlanTeam} {
		prev := Resolve(plan, 0).PerTaskPrice
		for volume := 100; volume <= 2_500_000; volume += 997 {
			got := Resolve(plan, volume).PerTaskPrice
			if got > prev {
				t.Fatalf("%s: per-task price rose from %f to %f at volume %d", plan, prev, got, volume)
			}
			prev = got
		}
	}
}

func TestResolve_ProfessionalMidTierPrice(t *testing.T) {
	got := Resolve(PlanProfessional, 2000)
	if got.PerTaskPrice != 0.0245 {
		t.Fatalf("expected professional 2k tier at 0.0245/task, got %f", got.PerTaskPrice)
	}
}

func TestValidateTiers(t *testing.T) {
	if err := validateTiers(); err != nil {
		t.Fatalf("published schedules failed validation: %v", err)
	}
}
