package commands

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"strings"

	"github.com/zapspectre/zapspectre/internal/analyzer"
)

// enhanceError wraps an error with context and a hint for common failures.
func enhanceError(action string, err error) error {
	var vErr *analyzer.ValidationError

	var hint string
	switch {
	case errors.As(err, &vErr):
		hint = "The assembled result violated an invariant; no partial output was produced. Re-run with --verbose and report this"
	case strings.Contains(err.Error(), "no workflow file found"):
		hint = "The archive must contain a workflow definition (zapfile.json, zaps.json, or config.json). Export the bundle again from the automation platform"
	case strings.Contains(err.Error(), "zip"):
		hint = "The file does not look like a ZIP export bundle. Pass the archive exactly as downloaded"
	}

	if hint != "" {
		return fmt.Errorf("%s: %w\n  hint: %s", action, err, hint)
	}
	return fmt.Errorf("%s: %w", action, err)
}

// computeTargetHash generates a SHA256 hash for the audited bundle path, so
// reports identify their target without leaking local paths.
func computeTargetHash(bundlePath string) string {
	h := sha256.Sum256([]byte("bundle:" + bundlePath))
	return fmt.Sprintf("sha256:%x", h)
}
