// Package report renders audit results as text, JSON, or SARIF.
package report

import (
	"time"

	"github.com/zapspectre/zapspectre/internal/analyzer"
)

// Data is the envelope handed to reporters. The wrapped Result is read-only:
// reporters never recompute savings; the only derived figure they may print is
// an annualized amount via analyzer.Annualize.
type Data struct {
	Tool      string    `json:"tool"`
	Version   string    `json:"version"`
	AuditID   string    `json:"audit_id"`
	Timestamp time.Time `json:"timestamp"`

	Target Target       `json:"target"`
	Config ReportConfig `json:"config"`

	Result *analyzer.Result `json:"result"`
}

// Target describes what was audited without embedding the raw path.
type Target struct {
	Type    string `json:"type"`
	URIHash string `json:"uri_hash"`
}

// ReportConfig echoes the knobs the audit ran with.
type ReportConfig struct {
	Plan              string  `json:"plan"`
	MonthlyTasks      int     `json:"monthly_tasks"`
	MinMonthlySavings float64 `json:"min_monthly_savings"`
}

// Reporter renders one output format.
type Reporter interface {
	Generate(data Data) error
}
