// Package ingest extracts workflows and execution history from an exported
// automation bundle (a ZIP containing a workflow-definition JSON and optional
// task-history CSVs).
package ingest

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/zapspectre/zapspectre/internal/workflow"
)

// workflowFileCandidates are the definition filenames tried, in order, to
// cover both modern and legacy export layouts.
var workflowFileCandidates = []string{"zapfile.json", "zaps.json", "config.json"}

// Bundle is a parsed export archive with usage statistics already attached to
// their workflows.
type Bundle struct {
	Workflows      []workflow.Workflow
	HasTaskHistory bool
}

// ReadBundle opens and parses an export archive from disk.
func ReadBundle(path string) (*Bundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read bundle %s: %w", path, err)
	}
	return ParseBundle(data)
}

// ParseBundle parses an export archive from memory.
func ParseBundle(data []byte) (*Bundle, error) {
	archive, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open bundle archive: %w", err)
	}

	var workflowData []byte
	var csvContents []string

	for _, file := range archive.File {
		lower := strings.ToLower(file.Name)

		if workflowData == nil && matchesCandidate(lower) {
			content, err := readZipFile(file)
			if err != nil {
				return nil, fmt.Errorf("read %s: %w", file.Name, err)
			}
			workflowData = content
			continue
		}

		if strings.HasSuffix(lower, ".csv") {
			content, err := readZipFile(file)
			if err != nil {
				slog.Warn("Skipping unreadable CSV in bundle", "file", file.Name, "error", err)
				continue
			}
			csvContents = append(csvContents, string(content))
		}
	}

	if workflowData == nil {
		return nil, fmt.Errorf("no workflow file found in bundle (tried: %s)",
			strings.Join(workflowFileCandidates, ", "))
	}

	workflows, err := ParseWorkflowFile(workflowData)
	if err != nil {
		return nil, err
	}

	stats := ParseTaskHistory(csvContents)
	for i := range workflows {
		if s, ok := stats[workflows[i].ID]; ok {
			s := s
			workflows[i].Usage = &s
		}
	}

	return &Bundle{
		Workflows:      workflows,
		HasTaskHistory: len(stats) > 0,
	}, nil
}

func matchesCandidate(lowerName string) bool {
	for _, c := range workflowFileCandidates {
		if strings.HasSuffix(lowerName, c) {
			return true
		}
	}
	return false
}

func readZipFile(file *zip.File) ([]byte, error) {
	rc, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
