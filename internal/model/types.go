/*
PURPOSE:
  Defines the core data structures used throughout Predict Runner.
  These models represent test cases, per-call timing records and aggregates.

REQUIREMENTS:
  User-specified:
  - Record iteration, start/end timestamps, elapsed ms, status code and label per call.
  - Summarize mean latency per case.

  Implementation-discovered:
  - Case order must be stable across runs (ordered slices, not maps).
  - Status 0 marks a transport failure; it is never a real HTTP status.

ARCHITECTURE INTEGRATION:
  - Used by: internal/engine, internal/output, internal/report
  - Shared across boundaries.

ERROR HANDLING:
  - None (pure data structs).

IMPLEMENTATION RULES:
  - Keep structs simple and public.
  - Use time.Time and time.Duration for high precision; format only at the CSV boundary.

USAGE:
  rec := model.CallRecord{Iteration: 1, ...}

SELF-HEALING INSTRUCTIONS:
  - If a new column is needed, add the field and update internal/output/csv.go.

RELATED FILES:
  - internal/model/cases.go
  - internal/output/csv.go

MAINTENANCE:
  - Update CallRecordHeader together with the CSV writer.
*/

package model

import (
	"time"
)

// StatusTransportFailure is recorded instead of an HTTP status when the call
// never produced a response (connection refused, DNS, timeout).
const StatusTransportFailure = 0

// CallRecordHeader is the header row of every per-case CSV file.
var CallRecordHeader = []string{"iteration", "start_utc", "end_utc", "elapsed_ms", "status_code", "label"}

// AverageHeader is the header row of the averages summary file.
var AverageHeader = []string{"case", "avg_ms"}

// TestCase is one fixed (name, message) input.
type TestCase struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

// CallRecord is the timing and outcome of a single /predict call.
type CallRecord struct {
	Iteration  int           `json:"iteration"`
	Start      time.Time     `json:"start_utc"`
	End        time.Time     `json:"end_utc"`
	Elapsed    time.Duration `json:"elapsed"`
	StatusCode int           `json:"status_code"`
	Label      string        `json:"label"`
}

// ElapsedMs returns the elapsed time in fractional milliseconds.
func (r CallRecord) ElapsedMs() float64 {
	return float64(r.Elapsed) / float64(time.Millisecond)
}

// ProbeResult is the outcome of one functional probe call.
type ProbeResult struct {
	Case       string `json:"case"`
	URL        string `json:"url"`
	StatusCode int    `json:"status_code"`
	Label      string `json:"label,omitempty"`
	Error      string `json:"error,omitempty"`
	Passed     bool   `json:"passed"`
}

// CaseSummary is what the harness observed in memory for one case.
type CaseSummary struct {
	Case     string  `json:"case"`
	Path     string  `json:"path"`
	Calls    int     `json:"calls"`
	Failures int     `json:"failures"`
	MeanMs   float64 `json:"mean_ms"`
}

// Sample is one retained elapsed_ms value read back from a case file.
type Sample struct {
	Case      string
	ElapsedMs float64
}

// Average is one row of the averages summary.
type Average struct {
	Case  string  `json:"case"`
	AvgMs float64 `json:"avg_ms"`
}
