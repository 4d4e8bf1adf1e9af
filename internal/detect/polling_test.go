package detect

import (
	"math"
	"testing"

	"github.com/zapspectre/zapspectre/internal/workflow"
)

func TestPollingTrigger_RegistryMatch(t *testing.T) {
	chain := []workflow.Step{
		{ID: "a", Kind: workflow.KindRead, Provider: "GoogleSheetsV2CLIAPI@2.9.1"},
		{ID: "b", ParentID: "a", Kind: workflow.KindWrite, Provider: "SlackAPI"},
	}
	stats := &workflow.UsageStats{TotalRuns: 1000, SuccessCount: 1000}

	flag := PollingTrigger{}.Detect(chain, stats, 0.01)
	if flag == nil {
		t.Fatal("expected a flag for a polling provider trigger")
	}
	// 1000 runs × 2 steps × 20% overhead × $0.01.
	if math.Abs(flag.EstimatedMonthlySavings-4.0) > 1e-9 {
		t.Fatalf("expected savings $4.00, got %f", flag.EstimatedMonthlySavings)
	}
	if flag.IsFallback {
		t.Fatal("real run volume must not be marked fallback")
	}
	if flag.Confidence != workflow.ConfidenceMedium {
		t.Fatalf("expected medium confidence with real volume, got %s", flag.Confidence)
	}
	if flag.Severity != workflow.SeverityMedium {
		t.Fatalf("expected medium severity, got %s", flag.Severity)
	}
}

func TestPollingTrigger_IntervalOverrideBeatsRegistry(t *testing.T) {
	// Provider is not in the registry, but the step declares an interval.
	chain := []workflow.Step{
		{ID: "a", Kind: workflow.KindRead, Provider: "ObscureCRM", PollingIntervalMinutes: 15},
	}

	flag := PollingTrigger{}.Detect(chain, nil, 0.01)
	if flag == nil {
		t.Fatal("expected a flag from the interval override")
	}
	if flag.Metadata["signal"] != "polling interval override (15 min)" {
		t.Fatalf("unexpected signal: %v", flag.Metadata["signal"])
	}
}

func TestPollingTrigger_FallbackVolume(t *testing.T) {
	chain := []workflow.Step{
		{ID: "a", Kind: workflow.KindRead, Provider: "RSSAPI"},
		{ID: "b", ParentID: "a", Kind: workflow.KindWrite, Provider: "SlackAPI"},
	}

	flag := PollingTrigger{}.Detect(chain, nil, 0.01)
	if flag == nil {
		t.Fatal("expected a flag on assumed volume")
	}
	// 500 assumed runs × 2 steps × 20% × $0.01.
	if math.Abs(flag.EstimatedMonthlySavings-2.0) > 1e-9 {
		t.Fatalf("expected fallback savings $2.00, got %f", flag.EstimatedMonthlySavings)
	}
	if !flag.IsFallback {
		t.Fatal("assumed volume must be marked fallback")
	}
	if flag.Confidence != workflow.ConfidenceLow {
		t.Fatalf("expected low confidence on assumed volume, got %s", flag.Confidence)
	}
}

func TestPollingTrigger_Skips(t *testing.T) {
	tests := []struct {
		name  string
		chain []workflow.Step
	}{
		{"empty chain", nil},
		{"non-read trigger", []workflow.Step{{ID: "a", Kind: workflow.KindWrite, Provider: "RSSAPI"}}},
		{"webhook provider", []workflow.Step{{ID: "a", Kind: workflow.KindRead, Provider: "WebHooksAPI"}}},
		{"polling provider not at entry", []workflow.Step{
			{ID: "a", Kind: workflow.KindRead, Provider: "WebHooksAPI"},
			{ID: "b", ParentID: "a", Kind: workflow.KindRead, Provider: "AirtableAPI"},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if flag := (PollingTrigger{}).Detect(tt.chain, nil, 0.01); flag != nil {
				t.Fatalf("expected no flag, got %+v", flag)
			}
		})
	}
}

func TestMatchesPollingRegistry(t *testing.T) {
	tests := []struct {
		provider string
		want     bool
	}{
		{"RSSAPI", true},
		{"GoogleSheetsV2CLIAPI@2.9.1", true},
		{"PostgreSQLAPI", true},
		{"WebHooksAPI", false},
		{"SlackAPI", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := matchesPollingRegistry(tt.provider); got != tt.want {
			t.Fatalf("%q: expected %v, got %v", tt.provider, tt.want, got)
		}
	}
}
