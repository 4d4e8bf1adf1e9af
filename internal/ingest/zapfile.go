package ingest

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/zapspectre/zapspectre/internal/workflow"
)

// Export archives come in two shapes: a modern one with a steps array and
// short field names, and a legacy one with a nodes map and the full internal
// field set. Both are accepted; unknown fields are ignored.

type rawExport struct {
	Metadata struct {
		Version string `json:"version"`
	} `json:"metadata"`
	Zaps []rawZap `json:"zaps"`
}

type rawZap struct {
	ID     json.Number `json:"id"`
	Title  string      `json:"title"`
	Name   string      `json:"name"`
	Status string      `json:"status"`
	State  string      `json:"state"`

	Steps   []json.RawMessage          `json:"steps"`
	Actions []json.RawMessage          `json:"actions"`
	Nodes   map[string]json.RawMessage `json:"nodes"`
}

type rawStep struct {
	ID          any         `json:"id"`
	ParentID    any         `json:"parent_id"`
	Type        string      `json:"type"`
	TypeOf      string      `json:"type_of"`
	Action      string      `json:"action"`
	App         string      `json:"app"`
	SelectedAPI string      `json:"selected_api"`
	Title       string      `json:"title"`
	TripleStore tripleStore `json:"triple_stores"`
}

type tripleStore struct {
	PollingIntervalOverride int `json:"polling_interval_override"`
}

// ParseWorkflowFile decodes a workflow-definition JSON document into domain
// workflows.
func ParseWorkflowFile(data []byte) ([]workflow.Workflow, error) {
	var export rawExport
	if err := json.Unmarshal(data, &export); err != nil {
		return nil, fmt.Errorf("parse workflow file: %w", err)
	}

	workflows := make([]workflow.Workflow, 0, len(export.Zaps))
	for i, rz := range export.Zaps {
		w, err := convertZap(rz)
		if err != nil {
			return nil, fmt.Errorf("parse workflow %d: %w", i, err)
		}
		workflows = append(workflows, w)
	}
	return workflows, nil
}

func convertZap(rz rawZap) (workflow.Workflow, error) {
	id := rz.ID.String()
	if id == "" {
		return workflow.Workflow{}, fmt.Errorf("missing id")
	}

	name := rz.Title
	if name == "" {
		name = rz.Name
	}
	status := rz.Status
	if status == "" {
		status = rz.State
	}

	rawSteps := rz.Steps
	if len(rawSteps) == 0 {
		rawSteps = rz.Actions
	}

	var steps []workflow.Step
	if len(rawSteps) > 0 {
		for i, raw := range rawSteps {
			s, err := convertStep(raw)
			if err != nil {
				return workflow.Workflow{}, fmt.Errorf("step %d: %w", i, err)
			}
			steps = append(steps, s)
		}
	} else if len(rz.Nodes) > 0 {
		// Legacy map form; sort keys so decoding order is deterministic.
		keys := make([]string, 0, len(rz.Nodes))
		for k := range rz.Nodes {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			s, err := convertStep(rz.Nodes[k])
			if err != nil {
				return workflow.Workflow{}, fmt.Errorf("node %s: %w", k, err)
			}
			steps = append(steps, s)
		}
	}

	return workflow.Workflow{
		ID:     id,
		Name:   name,
		Active: strings.EqualFold(status, "on"),
		Steps:  steps,
	}, nil
}

func convertStep(raw json.RawMessage) (workflow.Step, error) {
	var rs rawStep
	if err := json.Unmarshal(raw, &rs); err != nil {
		return workflow.Step{}, err
	}

	id := flexibleID(rs.ID)
	if id == "" {
		return workflow.Step{}, fmt.Errorf("missing step id")
	}

	provider := rs.SelectedAPI
	if provider == "" {
		provider = rs.App
	}

	typeTag := rs.TypeOf
	if typeTag == "" {
		typeTag = rs.Type
	}

	return workflow.Step{
		ID:                     id,
		ParentID:               flexibleID(rs.ParentID),
		Kind:                   stepKind(typeTag, rs.Action, rs.Title),
		Provider:               provider,
		Title:                  rs.Title,
		PollingIntervalMinutes: rs.TripleStore.PollingIntervalOverride,
	}, nil
}

// flexibleID accepts numeric or string identifiers; numbers become their
// decimal form.
func flexibleID(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatInt(int64(x), 10)
	case json.Number:
		return x.String()
	default:
		return ""
	}
}

// stepKind derives the action kind. Filter steps are recognized by action or
// title because exports tag them as plain write steps. A missing type tag
// means write: legacy exports omit the tag on ordinary action steps, and
// losing those would hide writes sitting ahead of a filter.
func stepKind(typeTag, action, title string) workflow.StepKind {
	if strings.Contains(strings.ToLower(action), "filter") ||
		strings.Contains(strings.ToLower(title), "filter") {
		return workflow.KindFilter
	}
	switch strings.ToLower(typeTag) {
	case "read":
		return workflow.KindRead
	case "write", "":
		return workflow.KindWrite
	default:
		return workflow.KindGeneric
	}
}

// ProviderName turns a raw provider identifier into a display name:
// "GoogleSheetsV2CLIAPI@2.9.1" becomes "Google Sheets V2".
func ProviderName(raw string) string {
	base, _, _ := strings.Cut(raw, "@")
	base = strings.TrimSuffix(base, "CLIAPI")
	base = strings.TrimSuffix(base, "API")

	var b strings.Builder
	prevLower := false
	for _, r := range base {
		if r >= 'A' && r <= 'Z' && prevLower && b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
		prevLower = r >= 'a' && r <= 'z'
	}
	return b.String()
}
