package ingest

import (
	"strings"
	"testing"
)

const taskHistoryCSV = `zap_id,status,error_message,timestamp
100,success,,2026-01-01T00:00:00Z
100,error,timeout,2026-01-02T00:00:00Z
100,error,timeout,2026-01-03T00:00:00Z
100,success,,2026-01-04T00:00:00Z
200,success,,2026-01-01T00:00:00Z
`

func TestParseTaskHistory(t *testing.T) {
	stats := ParseTaskHistory([]string{taskHistoryCSV})
	if len(stats) != 2 {
		t.Fatalf("expected stats for 2 workflows, got %d", len(stats))
	}

	s := stats["100"]
	if s.TotalRuns != 4 || s.ErrorCount != 2 || s.SuccessCount != 2 {
		t.Fatalf("unexpected counts: %+v", s)
	}
	if s.ErrorRate != 50.0 {
		t.Fatalf("expected 50%% error rate, got %f", s.ErrorRate)
	}
	if s.MaxStreak != 2 {
		t.Fatalf("expected streak 2, got %d", s.MaxStreak)
	}
	if s.MostCommonError != "timeout" {
		t.Fatalf("expected timeout, got %q", s.MostCommonError)
	}
	if s.LastRun != "2026-01-04T00:00:00Z" {
		t.Fatalf("unexpected last run %q", s.LastRun)
	}

	if stats["200"].TotalRuns != 1 {
		t.Fatalf("expected 1 run for workflow 200, got %d", stats["200"].TotalRuns)
	}
}

func TestParseTaskHistory_FilteredStatusNotASuccess(t *testing.T) {
	rows := []string{"zap_id,status", "100,success"}
	for i := 0; i < 9; i++ {
		rows = append(rows, "100,filtered")
	}

	stats := ParseTaskHistory([]string{strings.Join(rows, "\n") + "\n"})
	s := stats["100"]
	if s.TotalRuns != 10 {
		t.Fatalf("expected 10 runs, got %d", s.TotalRuns)
	}
	if s.SuccessCount != 1 {
		t.Fatalf("only the success row may count as a success, got %d", s.SuccessCount)
	}
	if s.ErrorCount != 0 || s.ErrorRate != 0 {
		t.Fatalf("filtered rows are not errors: %+v", s)
	}
}

func TestParseTaskHistory_RecognizedByHeader(t *testing.T) {
	// A billing export has neither zap_id nor status and must be ignored.
	billing := "invoice_id,amount\n1,49.00\n"

	if stats := ParseTaskHistory([]string{billing}); stats != nil {
		t.Fatalf("expected nil for non-history CSVs, got %v", stats)
	}
}

func TestParseTaskHistory_HeaderCaseInsensitive(t *testing.T) {
	csv := "Zap_ID,Status\n7,Error\n7,Success\n"

	stats := ParseTaskHistory([]string{csv})
	if stats["7"].TotalRuns != 2 || stats["7"].ErrorCount != 1 {
		t.Fatalf("unexpected stats: %+v", stats["7"])
	}
}

func TestParseTaskHistory_MergesMultipleFiles(t *testing.T) {
	a := "zap_id,status\n9,success\n"
	b := "zap_id,status\n9,error\n"

	stats := ParseTaskHistory([]string{a, b})
	if stats["9"].TotalRuns != 2 {
		t.Fatalf("expected runs merged across files, got %d", stats["9"].TotalRuns)
	}
}

func TestParseTaskHistory_RaggedRowsSkipped(t *testing.T) {
	csv := "zap_id,status,error_message\n5,success,\n5\n5,error,boom\n"

	stats := ParseTaskHistory([]string{csv})
	if stats["5"].TotalRuns != 2 {
		t.Fatalf("expected short row skipped, got %d runs", stats["5"].TotalRuns)
	}
}

func TestParseTaskHistory_Empty(t *testing.T) {
	if stats := ParseTaskHistory(nil); stats != nil {
		t.Fatalf("expected nil for no files, got %v", stats)
	}
}
