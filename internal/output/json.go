/*
PURPOSE:
  Writes records to a JSON Lines file (NDJSON).
  Used for the optional probe report so CI can archive per-case outcomes.

REQUIREMENTS:
  Implementation-discovered:
  - JSON Lines is append-friendly and trivially parsed by jq.

ARCHITECTURE INTEGRATION:
  - Called by: internal/cli (probe --report)
  - Consumes: internal/model.ProbeResult (any JSON-encodable value)

ERROR HANDLING:
  - Returns error on file creation or write failure.

IMPLEMENTATION RULES:
  - Use encoding/json.NewEncoder.
  - Thread-safe.

USAGE:
  w, err := output.NewJSONWriter("probe.jsonl")
  w.Write(result)
  w.Close()
*/

package output

import (
	"encoding/json"
	"os"
	"sync"
)

// JSONWriter handles writing values to a JSON Lines file.
type JSONWriter struct {
	file    *os.File
	encoder *json.Encoder
	mu      sync.Mutex
}

// NewJSONWriter creates a new JSONWriter, truncating any existing file.
func NewJSONWriter(path string) (*JSONWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	return &JSONWriter{
		file:    f,
		encoder: json.NewEncoder(f),
	}, nil
}

// Write writes a single value as a JSON line.
func (jw *JSONWriter) Write(v any) error {
	jw.mu.Lock()
	defer jw.mu.Unlock()

	return jw.encoder.Encode(v)
}

// Close closes the underlying file.
func (jw *JSONWriter) Close() error {
	return jw.file.Close()
}
