// Package report serializes analysis results to structured output.
package report

import (
	"encoding/json"
	"io"

	"funcscan/internal/models"
)

// Write emits the per-file results as indented JSON. Field presence follows
// the record model: optional fields are omitted, never null or empty, and
// calls appears only when at least one callee was recorded.
func Write(w io.Writer, results []models.FileResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

// WriteFunctions emits a flat list of function records, without the per-file
// grouping. Useful when analyzing a single file.
func WriteFunctions(w io.Writer, records []models.FunctionRecord) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}
