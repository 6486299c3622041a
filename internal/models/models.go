package models

// Position is a zero-based (row, column) location in a source file.
type Position struct {
	Row    int `json:"row"`
	Column int `json:"column"`
}

// FunctionRecord describes one non-nested function found in a source file.
// Optional fields are omitted from serialized output when absent; Calls is
// present only when at least one callee was recorded.
type FunctionRecord struct {
	Name          string    `json:"name"`
	Parameters    string    `json:"parameters"`
	ReturnType    string    `json:"return_type,omitempty"`
	Class         string    `json:"class,omitempty"`
	Calls         []string  `json:"calls,omitempty"`
	StartPosition *Position `json:"start_position,omitempty"`
	EndPosition   *Position `json:"end_position,omitempty"`
}

// Qualified returns Class.Name for methods and the bare name otherwise.
func (r FunctionRecord) Qualified() string {
	if r.Class != "" {
		return r.Class + "." + r.Name
	}
	return r.Name
}

// Diagnostic reports a single malformed node that was skipped during
// traversal. One bad node never aborts an analysis run.
type Diagnostic struct {
	Message       string   `json:"message"`
	StartPosition Position `json:"start_position"`
	EndPosition   Position `json:"end_position"`
}

// FileResult pairs the records extracted from one file with any per-node
// diagnostics encountered along the way.
type FileResult struct {
	FilePath    string           `json:"file_path"`
	Language    string           `json:"language"`
	Functions   []FunctionRecord `json:"functions"`
	Diagnostics []Diagnostic     `json:"diagnostics,omitempty"`
}

// FunctionPayload is the flattened form of a FunctionRecord stored as a
// Qdrant point payload alongside its embedding vector.
type FunctionPayload struct {
	FilePath   string   `json:"file_path"`
	Language   string   `json:"language"`
	Name       string   `json:"name"`
	Qualified  string   `json:"qualified"`
	Class      string   `json:"class"`
	Parameters string   `json:"parameters"`
	ReturnType string   `json:"return_type"`
	Calls      []string `json:"calls"`
	StartRow   int      `json:"start_row"`
	EndRow     int      `json:"end_row"`
	CodeHash   string   `json:"code_hash"`
	Content    string   `json:"content"`
}

// SearchHit is one scored result from a semantic search over indexed
// function records.
type SearchHit struct {
	Score   float32         `json:"score"`
	Payload FunctionPayload `json:"payload"`
}
