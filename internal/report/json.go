package report

import (
	"encoding/json"
	"fmt"
	"io"
)

// jsonSchemaID identifies the JSON envelope format.
const jsonSchemaID = "zapspectre/v1"

// JSONReporter writes the audit result as an indented JSON envelope.
type JSONReporter struct {
	Writer io.Writer
}

type jsonEnvelope struct {
	Schema string `json:"$schema"`
	Data
}

// Generate writes the JSON report.
func (r *JSONReporter) Generate(data Data) error {
	enc := json.NewEncoder(r.Writer)
	enc.SetIndent("", "  ")
	if err := enc.Encode(jsonEnvelope{Schema: jsonSchemaID, Data: data}); err != nil {
		return fmt.Errorf("encode JSON report: %w", err)
	}
	return nil
}
