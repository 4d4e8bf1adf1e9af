package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/zapspectre/zapspectre/internal/workflow"
)

const sarifSchema = "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/main/sarif-2.1/schema/sarif-schema-2.1.0.json"

// SARIFReporter writes findings as SARIF v2.1.0 for CI integrations.
type SARIFReporter struct {
	Writer io.Writer
}

// sarifReport is the top-level SARIF v2.1.0 structure.
type sarifReport struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name    string      `json:"name"`
	Version string      `json:"version"`
	Rules   []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string            `json:"id"`
	ShortDescription sarifMessage      `json:"shortDescription"`
	DefaultConfig    sarifDefaultLevel `json:"defaultConfiguration"`
}

type sarifDefaultLevel struct {
	Level string `json:"level"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifResult struct {
	RuleID    string         `json:"ruleId"`
	Level     string         `json:"level"`
	Message   sarifMessage   `json:"message"`
	Locations []sarifLoc     `json:"locations,omitempty"`
	Props     map[string]any `json:"properties,omitempty"`
}

type sarifLoc struct {
	PhysicalLocation sarifPhysical `json:"physicalLocation"`
}

type sarifPhysical struct {
	ArtifactLocation sarifArtifact `json:"artifactLocation"`
}

type sarifArtifact struct {
	URI string `json:"uri"`
}

// Generate writes SARIF v2.1.0 output.
func (r *SARIFReporter) Generate(data Data) error {
	var results []sarifResult
	for _, finding := range data.Result.Findings {
		for _, fl := range finding.Flags {
			results = append(results, sarifResult{
				RuleID:  string(fl.Code),
				Level:   sarifLevel(fl.Severity),
				Message: sarifMessage{Text: fl.Message},
				Locations: []sarifLoc{
					{
						PhysicalLocation: sarifPhysical{
							ArtifactLocation: sarifArtifact{
								URI: fmt.Sprintf("workflow://%s", finding.WorkflowID),
							},
						},
					},
				},
				Props: map[string]any{
					"workflowName":            finding.WorkflowName,
					"estimatedMonthlySavings": fl.EstimatedMonthlySavings,
					"confidence":              string(fl.Confidence),
					"isFallback":              fl.IsFallback,
					"metadata":                fl.Metadata,
				},
			})
		}
	}
	if results == nil {
		results = []sarifResult{}
	}

	report := sarifReport{
		Schema:  sarifSchema,
		Version: "2.1.0",
		Runs: []sarifRun{
			{
				Tool: sarifTool{
					Driver: sarifDriver{
						Name:    data.Tool,
						Version: data.Version,
						Rules:   buildSARIFRules(),
					},
				},
				Results: results,
			},
		},
	}

	enc := json.NewEncoder(r.Writer)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("encode SARIF report: %w", err)
	}
	return nil
}

func sarifLevel(s workflow.Severity) string {
	switch s {
	case workflow.SeverityHigh:
		return "error"
	case workflow.SeverityMedium:
		return "warning"
	default:
		return "note"
	}
}

func buildSARIFRules() []sarifRule {
	return []sarifRule{
		{ID: string(workflow.FlagErrorLoop), ShortDescription: sarifMessage{Text: "High execution error rate"}, DefaultConfig: sarifDefaultLevel{Level: "error"}},
		{ID: string(workflow.FlagLateFilter), ShortDescription: sarifMessage{Text: "Filter placed after mutating steps"}, DefaultConfig: sarifDefaultLevel{Level: "error"}},
		{ID: string(workflow.FlagPollingTrigger), ShortDescription: sarifMessage{Text: "Polling trigger overhead"}, DefaultConfig: sarifDefaultLevel{Level: "warning"}},
	}
}
