/*
PURPOSE:
  Writes per-call timing records and the averages summary to CSV files.
  Ensures data integrity by flushing writes immediately.

REQUIREMENTS:
  User-specified:
  - One CSV per case, header iteration,start_utc,end_utc,elapsed_ms,status_code,label.
  - elapsed_ms with exactly 3 decimals.
  - Each record reaches the file before the next call starts (no batching).

  Implementation-discovered:
  - A new run overwrites the previous case file (os.Create truncates).
  - Timestamps are written in UTC with microseconds.

ARCHITECTURE INTEGRATION:
  - Called by: internal/engine (records), internal/report (averages)
  - Consumes: internal/model.CallRecord, internal/model.Average

ERROR HANDLING:
  - Returns error on file creation or write failure.

IMPLEMENTATION RULES:
  - Use encoding/csv.
  - Flush() after every write (critical for crash resilience).

USAGE:
  w, err := output.NewCSVWriter("tests/results/real_1.csv")
  w.Write(record)
  w.Close()

SELF-HEALING INSTRUCTIONS:
  - If CSV format changes, update model.CallRecordHeader and FormatCallRecord together.

RELATED FILES:
  - internal/model/types.go
  - internal/report/load.go

MAINTENANCE:
  - Update FormatCallRecord when CallRecord changes.
*/

package output

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/daryltucker/predict-runner/internal/model"
)

// TimestampLayout is the start_utc/end_utc format.
const TimestampLayout = "2006-01-02T15:04:05.000000Z07:00"

// CSVWriter handles writing call records to a per-case CSV file.
type CSVWriter struct {
	file   *os.File
	writer *csv.Writer
	path   string
	mu     sync.Mutex
}

// NewCSVWriter creates a new CSVWriter.
// It overwrites the file if it exists.
func NewCSVWriter(path string) (*CSVWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	w := csv.NewWriter(f)
	if err := w.Write(model.CallRecordHeader); err != nil {
		f.Close()
		return nil, err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return nil, err
	}

	return &CSVWriter{
		file:   f,
		writer: w,
		path:   path,
	}, nil
}

// Path returns the file being written.
func (cw *CSVWriter) Path() string {
	return cw.path
}

// Write writes a single record to the CSV file and flushes it.
func (cw *CSVWriter) Write(r model.CallRecord) error {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	if err := cw.writer.Write(FormatCallRecord(r)); err != nil {
		return err
	}
	cw.writer.Flush()
	return cw.writer.Error()
}

// Close closes the underlying file.
func (cw *CSVWriter) Close() error {
	cw.writer.Flush()
	if err := cw.writer.Error(); err != nil {
		cw.file.Close()
		return err
	}
	return cw.file.Close()
}

// FormatCallRecord renders a record in CallRecordHeader column order.
func FormatCallRecord(r model.CallRecord) []string {
	return []string{
		strconv.Itoa(r.Iteration),
		formatTimestamp(r.Start),
		formatTimestamp(r.End),
		FormatElapsedMs(r.ElapsedMs()),
		strconv.Itoa(r.StatusCode),
		r.Label,
	}
}

// FormatElapsedMs renders milliseconds with exactly three decimals.
func FormatElapsedMs(ms float64) string {
	return fmt.Sprintf("%.3f", ms)
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// WriteAverages writes the averages summary (case,avg_ms), replacing any previous file.
func WriteAverages(path string, rows []model.Average) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	w := csv.NewWriter(f)
	if err := w.Write(model.AverageHeader); err != nil {
		f.Close()
		return err
	}
	for _, row := range rows {
		if err := w.Write([]string{row.Case, strconv.FormatFloat(row.AvgMs, 'f', -1, 64)}); err != nil {
			f.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
