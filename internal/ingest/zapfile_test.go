package ingest

import (
	"testing"

	"github.com/zapspectre/zapspectre/internal/workflow"
)

func TestParseWorkflowFile_ModernFormat(t *testing.T) {
	data := []byte(`{
		"metadata": {"version": "2.0"},
		"zaps": [{
			"id": 12345,
			"title": "Lead sync",
			"status": "on",
			"steps": [
				{"id": 1, "type": "read", "selected_api": "GoogleSheetsV2CLIAPI@2.9.1", "title": "New row"},
				{"id": 2, "parent_id": 1, "type": "write", "selected_api": "SlackAPI", "title": "Send message"}
			]
		}]
	}`)

	workflows, err := ParseWorkflowFile(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(workflows) != 1 {
		t.Fatalf("expected 1 workflow, got %d", len(workflows))
	}

	w := workflows[0]
	if w.ID != "12345" {
		t.Fatalf("expected numeric id as string, got %q", w.ID)
	}
	if w.Name != "Lead sync" || !w.Active {
		t.Fatalf("unexpected workflow fields: %+v", w)
	}
	if len(w.Steps) != 2 {
		t.Fatalf("expected 2 steps, got %d", len(w.Steps))
	}
	if w.Steps[0].Kind != workflow.KindRead || w.Steps[0].ParentID != "" {
		t.Fatalf("unexpected trigger step: %+v", w.Steps[0])
	}
	if w.Steps[1].Kind != workflow.KindWrite || w.Steps[1].ParentID != "1" {
		t.Fatalf("unexpected second step: %+v", w.Steps[1])
	}
}

func TestParseWorkflowFile_LegacyNodesMap(t *testing.T) {
	data := []byte(`{
		"zaps": [{
			"id": "legacy-1",
			"name": "Old exporter",
			"state": "off",
			"nodes": {
				"b": {"id": "b", "parent_id": "a", "type_of": "write", "app": "MailchimpAPI"},
				"a": {"id": "a", "type_of": "read", "app": "RSSAPI"}
			}
		}]
	}`)

	workflows, err := ParseWorkflowFile(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	w := workflows[0]
	if w.Name != "Old exporter" || w.Active {
		t.Fatalf("legacy name/state not honored: %+v", w)
	}
	if len(w.Steps) != 2 {
		t.Fatalf("expected 2 steps from nodes map, got %d", len(w.Steps))
	}
	// Node keys decode in sorted order.
	if w.Steps[0].ID != "a" || w.Steps[0].Provider != "RSSAPI" {
		t.Fatalf("unexpected first node: %+v", w.Steps[0])
	}

	chain := workflow.Chain(w)
	if len(chain) != 2 || chain[0].ID != "a" {
		t.Fatalf("legacy workflow should still chain: %v", chain)
	}
}

func TestParseWorkflowFile_FilterDetection(t *testing.T) {
	data := []byte(`{
		"zaps": [{
			"id": 1,
			"title": "Filtered",
			"status": "on",
			"steps": [
				{"id": 1, "type": "read", "selected_api": "WebHooksAPI"},
				{"id": 2, "parent_id": 1, "type": "write", "action": "filter", "selected_api": "FilterAPI"},
				{"id": 3, "parent_id": 2, "type": "write", "title": "Only continue if (Filter)", "selected_api": "FilterAPI"}
			]
		}]
	}`)

	workflows, err := ParseWorkflowFile(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	steps := workflows[0].Steps
	if steps[1].Kind != workflow.KindFilter {
		t.Fatalf("action=filter should yield a filter step, got %s", steps[1].Kind)
	}
	if steps[2].Kind != workflow.KindFilter {
		t.Fatalf("filter in title should yield a filter step, got %s", steps[2].Kind)
	}
}

func TestParseWorkflowFile_PollingIntervalOverride(t *testing.T) {
	data := []byte(`{
		"zaps": [{
			"id": 1,
			"title": "Poller",
			"status": "on",
			"steps": [
				{"id": 1, "type": "read", "selected_api": "ObscureCRM", "triple_stores": {"polling_interval_override": 15}}
			]
		}]
	}`)

	workflows, err := ParseWorkflowFile(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := workflows[0].Steps[0].PollingIntervalMinutes; got != 15 {
		t.Fatalf("expected polling interval 15, got %d", got)
	}
}

func TestParseWorkflowFile_UntaggedStepDefaultsToWrite(t *testing.T) {
	data := []byte(`{
		"zaps": [{
			"id": "legacy-2",
			"name": "No type tags",
			"state": "on",
			"nodes": {
				"a": {"id": "a", "type_of": "read", "app": "RSSAPI"},
				"b": {"id": "b", "parent_id": "a", "app": "MailchimpAPI"},
				"c": {"id": "c", "parent_id": "b", "title": "Only continue if (Filter)", "app": "FilterAPI"}
			}
		}]
	}`)

	workflows, err := ParseWorkflowFile(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	steps := workflows[0].Steps
	if steps[1].Kind != workflow.KindWrite {
		t.Fatalf("untagged legacy step must default to write, got %s", steps[1].Kind)
	}
	if steps[2].Kind != workflow.KindFilter {
		t.Fatalf("filter title still wins over the default, got %s", steps[2].Kind)
	}
}

func TestParseWorkflowFile_Rejections(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `{"zaps": [`},
		{"missing zap id", `{"zaps": [{"title": "x", "steps": []}]}`},
		{"missing step id", `{"zaps": [{"id": 1, "steps": [{"type": "read"}]}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseWorkflowFile([]byte(tt.data)); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

func TestProviderName(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"GoogleSheetsV2CLIAPI@2.9.1", "Google Sheets V2"},
		{"SlackAPI", "Slack"},
		{"RSSAPI", "RSS"},
		{"WebHooksAPI", "Web Hooks"},
		{"MailchimpCLIAPI@1.0.0", "Mailchimp"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := ProviderName(tt.raw); got != tt.want {
			t.Fatalf("%q: expected %q, got %q", tt.raw, tt.want, got)
		}
	}
}
