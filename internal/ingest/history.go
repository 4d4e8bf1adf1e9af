package ingest

import (
	"encoding/csv"
	"sort"
	"strings"

	"github.com/zapspectre/zapspectre/internal/workflow"
)

// ParseTaskHistory extracts per-workflow execution statistics from export CSV
// contents. Files are recognized by their headers — a task-history CSV has
// both a zap_id and a status column — never by filename. Files without those
// columns are skipped.
func ParseTaskHistory(csvContents []string) map[string]workflow.UsageStats {
	executions := make(map[string][]workflow.Execution)

	for _, content := range csvContents {
		collectExecutions(content, executions)
	}

	if len(executions) == 0 {
		return nil
	}

	stats := make(map[string]workflow.UsageStats, len(executions))
	for id, execs := range executions {
		// Order chronologically when timestamps exist; stable sort keeps
		// file order for untimestamped rows.
		sort.SliceStable(execs, func(i, j int) bool {
			return execs[i].Timestamp < execs[j].Timestamp
		})
		stats[id] = workflow.NormalizeExecutions(execs)
	}
	return stats
}

func collectExecutions(content string, executions map[string][]workflow.Execution) {
	r := csv.NewReader(strings.NewReader(content))
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return
	}

	idCol, statusCol := -1, -1
	errCol, tsCol := -1, -1
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "zap_id":
			idCol = i
		case "status":
			statusCol = i
		case "error_message", "error":
			errCol = i
		case "timestamp":
			tsCol = i
		}
	}
	if idCol < 0 || statusCol < 0 {
		return
	}

	for {
		record, err := r.Read()
		if err != nil {
			return
		}
		if idCol >= len(record) || statusCol >= len(record) {
			continue
		}

		id := strings.TrimSpace(record[idCol])
		if id == "" {
			continue
		}

		// Only "success" counts as a success. Statuses like "filtered" or
		// "held" are billed runs with neither outcome; they stay visible in
		// the success/total gap.
		status := strings.ToLower(strings.TrimSpace(record[statusCol]))
		outcome := workflow.OutcomeOther
		switch status {
		case "success":
			outcome = workflow.OutcomeSuccess
		case "error", "failed", "failure":
			outcome = workflow.OutcomeError
		}

		exec := workflow.Execution{Outcome: outcome}
		if outcome == workflow.OutcomeError && errCol >= 0 && errCol < len(record) {
			exec.ErrorMessage = record[errCol]
		}
		if tsCol >= 0 && tsCol < len(record) {
			exec.Timestamp = record[tsCol]
		}

		executions[id] = append(executions[id], exec)
	}
}
