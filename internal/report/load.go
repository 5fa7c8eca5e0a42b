/*
PURPOSE:
  Discovers and loads the per-case CSV files written by the latency harness.

REQUIREMENTS:
  User-specified:
  - Read every per-case file in the results directory, tag rows with the case name.
  - Never read the aggregator's own summary file back in.
  - Rows with unparseable elapsed_ms are excluded, not treated as zero.
  - No input files is fatal.

  Implementation-discovered:
  - The exclusion rule is explicit (see Discover) instead of a bare filename check.

ARCHITECTURE INTEGRATION:
  - Called by: internal/cli/plot.go
  - Produces: []model.Sample for aggregate.go and plot.go

ERROR HANDLING:
  - ErrNoInputs / ErrNoSamples abort the aggregator before anything is written.
  - Unreadable or malformed CSV files are hard errors.

RELATED FILES:
  - internal/output/csv.go (the writer side)
*/

package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/daryltucker/predict-runner/internal/model"
	"github.com/daryltucker/predict-runner/internal/output"
)

var (
	// ErrNoInputs means the results directory holds no per-case CSV files.
	ErrNoInputs = errors.New("no CSV files found")
	// ErrNoSamples means case files exist but none has a numeric elapsed_ms value.
	ErrNoSamples = errors.New("no numeric elapsed_ms values found")
)

const elapsedColumn = "elapsed_ms"

// Discover returns the per-case CSV files in dir, sorted by name.
//
// A *.csv file is a per-case input unless either rule excludes it:
//   - its base name equals summaryName (the aggregator's own output), or
//   - its header row has no elapsed_ms column (it is not a call-record file).
//
// Excluded files are logged, never read as samples.
func Discover(dir, summaryName string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}
	sort.Strings(matches)

	var inputs []string
	for _, path := range matches {
		if filepath.Base(path) == summaryName {
			output.Logger.Debugw("Skipping summary file", "path", path)
			continue
		}
		ok, err := hasColumn(path, elapsedColumn)
		if err != nil {
			return nil, err
		}
		if !ok {
			output.Logger.Warnw("Skipping CSV without elapsed_ms column", "path", path)
			continue
		}
		inputs = append(inputs, path)
	}

	if len(inputs) == 0 {
		return nil, fmt.Errorf("%w in %s; run `perf` first", ErrNoInputs, dir)
	}
	return inputs, nil
}

// CaseName derives the case name from a per-case file path.
func CaseName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

// Load reads every file and returns the retained samples, in file order.
func Load(paths []string) ([]model.Sample, error) {
	var samples []model.Sample
	for _, path := range paths {
		fileSamples, dropped, err := loadFile(path)
		if err != nil {
			return nil, err
		}
		if dropped > 0 {
			output.Logger.Infow("Dropped non-numeric rows", "case", CaseName(path), "dropped", dropped)
		}
		samples = append(samples, fileSamples...)
	}
	if len(samples) == 0 {
		return nil, ErrNoSamples
	}
	return samples, nil
}

func loadFile(path string) ([]model.Sample, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read header of %s: %w", path, err)
	}
	col := columnIndex(header, elapsedColumn)
	if col < 0 {
		return nil, 0, fmt.Errorf("%s has no %s column", path, elapsedColumn)
	}

	caseName := CaseName(path)
	var samples []model.Sample
	dropped := 0
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("failed to read %s: %w", path, err)
		}
		if col >= len(record) {
			dropped++
			continue
		}
		ms, ok := parseElapsed(record[col])
		if !ok {
			dropped++
			continue
		}
		samples = append(samples, model.Sample{Case: caseName, ElapsedMs: ms})
	}
	return samples, dropped, nil
}

// parseElapsed coerces a cell to a finite float. Anything else is missing.
func parseElapsed(cell string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func hasColumn(path, name string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	header, err := csv.NewReader(f).Read()
	if errors.Is(err, io.EOF) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read header of %s: %w", path, err)
	}
	return columnIndex(header, name) >= 0, nil
}

func columnIndex(header []string, name string) int {
	for i, h := range header {
		if strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")) == name {
			return i
		}
	}
	return -1
}
