/*
PURPOSE:
  Latency harness that benchmarks the /predict endpoint.
  Loops through cases -> iterations and records one CSV row per call.

REQUIREMENTS:
  User-specified:
  - N calls per case (default 100), one CSV per case, exactly N data rows.
  - Elapsed time from a monotonic clock; wall timestamps only for the record.
  - Transport failures are recorded as status 0 with an empty label, never abort the run.

  Implementation-discovered:
  - time.Now() carries a monotonic reading; time.Since uses it, so elapsed is never negative.
  - The in-memory mean uses the values as written (3 decimals) so the aggregator reproduces it.

ARCHITECTURE INTEGRATION:
  - Called by: internal/cli/perf.go
  - Uses: internal/engine/client.go, internal/output

ERROR HANDLING:
  - Network outcomes are data, not errors.
  - Only file-system errors abort the harness.

IMPLEMENTATION RULES:
  - Strictly sequential: one call in flight, flush before the next call.
  - No batching, no retries, no sleeps between calls.

USAGE:
  summaries, err := engine.RunPerf(ctx, e, cfg, model.PerfCases(), os.Stdout)

RELATED FILES:
  - internal/engine/client.go
  - internal/output/csv.go
*/

package engine

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/daryltucker/predict-runner/internal/config"
	"github.com/daryltucker/predict-runner/internal/model"
	"github.com/daryltucker/predict-runner/internal/output"
)

// RunPerf executes the latency harness for every case.
func RunPerf(ctx context.Context, e *Engine, cfg *config.Config, cases []model.TestCase, w io.Writer) ([]model.CaseSummary, error) {
	if err := os.MkdirAll(cfg.ResultsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create results directory %s: %w", cfg.ResultsDir, err)
	}

	url := PredictURL(cfg.BaseURL)
	fmt.Fprintf(w, "Running performance test against: %s\n", url)

	summaries := make([]model.CaseSummary, 0, len(cases))
	for _, tc := range cases {
		fmt.Fprintf(w, "- Case '%s' ...\n", tc.Name)
		summary, err := RunCase(ctx, e, url, tc, cfg.Count, cfg.PerfTimeout, cfg.ResultsDir)
		if err != nil {
			return summaries, err
		}
		output.Logger.Infow("Case complete",
			"case", summary.Case,
			"calls", summary.Calls,
			"failures", summary.Failures,
			"mean_ms", output.FormatElapsedMs(summary.MeanMs),
		)
		summaries = append(summaries, summary)
	}

	fmt.Fprintln(w, "Done. CSV files:")
	for _, s := range summaries {
		fmt.Fprintf(w, "  %s\n", s.Path)
	}
	return summaries, nil
}

// RunCase issues n sequential calls for one case and writes <dir>/<case>.csv.
func RunCase(ctx context.Context, e *Engine, url string, tc model.TestCase, n int, timeout time.Duration, dir string) (summary model.CaseSummary, err error) {
	path := filepath.Join(dir, tc.Name+".csv")
	summary = model.CaseSummary{Case: tc.Name, Path: path}

	csvWriter, err := output.NewCSVWriter(path)
	if err != nil {
		return summary, fmt.Errorf("failed to init CSV writer at %s: %w", path, err)
	}
	defer func() {
		if cerr := csvWriter.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, cerr)
		}
	}()

	var totalMs float64
	for i := 1; i <= n; i++ {
		if err := ctx.Err(); err != nil {
			return summary, fmt.Errorf("case %s interrupted after %d calls: %w", tc.Name, summary.Calls, err)
		}

		rec := callOnce(ctx, e, url, tc, timeout)
		rec.Iteration = i

		if err := csvWriter.Write(rec); err != nil {
			return summary, fmt.Errorf("failed to write record %d to %s: %w", i, path, err)
		}

		if rec.StatusCode == model.StatusTransportFailure {
			summary.Failures++
		}
		// Accumulate the rounded value that went to disk.
		written, _ := strconv.ParseFloat(output.FormatElapsedMs(rec.ElapsedMs()), 64)
		totalMs += written
		summary.Calls++
	}

	if summary.Calls > 0 {
		summary.MeanMs = totalMs / float64(summary.Calls)
	}
	return summary, nil
}

func callOnce(ctx context.Context, e *Engine, url string, tc model.TestCase, timeout time.Duration) model.CallRecord {
	start := time.Now()
	pred, err := e.Predict(ctx, url, tc.Message, timeout)
	elapsed := time.Since(start)
	end := start.Add(elapsed)

	rec := model.CallRecord{
		Start:   start,
		End:     end,
		Elapsed: elapsed,
	}
	if err != nil {
		output.Logger.Debugw("Call failed", "case", tc.Name, "error", err)
		rec.StatusCode = model.StatusTransportFailure
		return rec
	}
	rec.StatusCode = pred.StatusCode
	rec.Label = pred.Label
	return rec
}
