package commands

import (
	"errors"
	"strings"
	"testing"

	"github.com/zapspectre/zapspectre/internal/analyzer"
	"github.com/zapspectre/zapspectre/internal/workflow"
)

func TestEnhanceError_Hints(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantHint string
	}{
		{"validation", &analyzer.ValidationError{Reason: "negative savings"}, "Re-run with --verbose"},
		{"missing workflow file", errors.New("no workflow file found in bundle"), "workflow definition"},
		{"bad archive", errors.New("open bundle archive: zip: not a valid zip file"), "ZIP export bundle"},
		{"plain error", errors.New("something else"), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := enhanceError("audit", tt.err)
			if !errors.Is(out, tt.err) && !strings.Contains(out.Error(), tt.err.Error()) {
				t.Fatalf("expected original error preserved, got %v", out)
			}
			hasHint := strings.Contains(out.Error(), "hint:")
			if tt.wantHint == "" {
				if hasHint {
					t.Fatalf("expected no hint, got %v", out)
				}
				return
			}
			if !strings.Contains(out.Error(), tt.wantHint) {
				t.Fatalf("expected hint containing %q, got %v", tt.wantHint, out)
			}
		})
	}
}

func TestEnhanceError_UnwrapsValidationError(t *testing.T) {
	orig := &analyzer.ValidationError{Reason: "score out of range"}
	out := enhanceError("analyze workflows", orig)

	var vErr *analyzer.ValidationError
	if !errors.As(out, &vErr) {
		t.Fatalf("expected wrapped *ValidationError, got %v", out)
	}
}

func TestComputeTargetHash(t *testing.T) {
	a := computeTargetHash("/exports/bundle.zip")
	b := computeTargetHash("/exports/bundle.zip")
	c := computeTargetHash("/exports/other.zip")

	if a != b {
		t.Fatal("hash must be stable for the same path")
	}
	if a == c {
		t.Fatal("different paths must hash differently")
	}
	if !strings.HasPrefix(a, "sha256:") {
		t.Fatalf("expected sha256 prefix, got %s", a)
	}
	if strings.Contains(a, "bundle.zip") {
		t.Fatal("hash must not leak the path")
	}
}

func TestFilterWorkflows(t *testing.T) {
	workflows := []workflow.Workflow{{ID: "1"}, {ID: "2"}, {ID: "3"}}

	if got := filterWorkflows(workflows, nil); len(got) != 3 {
		t.Fatalf("no filter should pass everything, got %d", len(got))
	}
	got := filterWorkflows(workflows, []string{"3", "1"})
	if len(got) != 2 || got[0].ID != "1" || got[1].ID != "3" {
		t.Fatalf("unexpected filtered set: %v", got)
	}
	if got := filterWorkflows(workflows, []string{"99"}); len(got) != 0 {
		t.Fatalf("unknown ID should match nothing, got %v", got)
	}
}
