package engine

import (
	"bytes"
	"context"
	"encoding/csv"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daryltucker/predict-runner/internal/config"
	"github.com/daryltucker/predict-runner/internal/model"
	"github.com/daryltucker/predict-runner/internal/output"
)

var threeDecimals = regexp.MustCompile(`^\d+\.\d{3}$`)

func perfConfig(base, dir string, count int) *config.Config {
	cfg := config.DefaultConfig()
	cfg.BaseURL = base
	cfg.ResultsDir = dir
	cfg.Count = count
	cfg.PerfTimeout = 2 * time.Second
	return cfg
}

func readRows(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestRunPerfWritesOneFilePerCase(t *testing.T) {
	srv := caseServer(t, okReply("REAL"))
	dir := filepath.Join(t.TempDir(), "nested", "results")
	var out bytes.Buffer

	summaries, err := RunPerf(context.Background(), New(), perfConfig(srv.URL, dir, 5), model.PerfCases(), &out)
	require.NoError(t, err)
	require.Len(t, summaries, 4)

	for i, tc := range model.PerfCases() {
		path := filepath.Join(dir, tc.Name+".csv")
		assert.Equal(t, path, summaries[i].Path)
		assert.Equal(t, 5, summaries[i].Calls)
		assert.Zero(t, summaries[i].Failures)

		rows := readRows(t, path)
		require.Len(t, rows, 6, "header plus exactly count rows")
		assert.Equal(t, model.CallRecordHeader, rows[0])

		for n, row := range rows[1:] {
			assert.Equal(t, strconv.Itoa(n+1), row[0])
			start, err := time.Parse(output.TimestampLayout, row[1])
			require.NoError(t, err)
			end, err := time.Parse(output.TimestampLayout, row[2])
			require.NoError(t, err)
			assert.False(t, end.Before(start))
			assert.Equal(t, time.UTC, start.Location())

			assert.Regexp(t, threeDecimals, row[3])
			ms, err := strconv.ParseFloat(row[3], 64)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, ms, 0.0)

			assert.Equal(t, "200", row[4])
			assert.Equal(t, "REAL", row[5])
		}
	}

	text := out.String()
	assert.Contains(t, text, "Running performance test against: "+srv.URL+"/predict\n")
	assert.Contains(t, text, "- Case 'real_1' ...\n")
	assert.Contains(t, text, "Done. CSV files:\n")
	assert.Contains(t, text, "  "+filepath.Join(dir, "fake_2.csv")+"\n")
}

func TestRunPerfRecordsTransportFailures(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()
	dir := t.TempDir()

	summaries, err := RunPerf(context.Background(), New(), perfConfig(base, dir, 3), model.PerfCases(), &bytes.Buffer{})
	require.NoError(t, err, "network failures never abort the harness")

	for _, s := range summaries {
		assert.Equal(t, 3, s.Failures)
		rows := readRows(t, s.Path)
		require.Len(t, rows, 4)
		for _, row := range rows[1:] {
			assert.Equal(t, "0", row[4])
			assert.Equal(t, "", row[5])
			assert.Regexp(t, threeDecimals, row[3])
		}
	}
}

func TestRunCaseNonJSONAndErrorStatus(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1)%2 == 0 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("REAL"))
	}))
	defer srv.Close()
	dir := t.TempDir()

	summary, err := RunCase(context.Background(), New(), PredictURL(srv.URL), model.PerfCases()[0], 4, time.Second, dir)
	require.NoError(t, err)
	assert.Zero(t, summary.Failures)

	rows := readRows(t, summary.Path)
	require.Len(t, rows, 5)
	assert.Equal(t, []string{"200", "503", "200", "503"}, []string{rows[1][4], rows[2][4], rows[3][4], rows[4][4]})
	for _, row := range rows[1:] {
		assert.Equal(t, "", row[5], "label needs a JSON content type")
	}
}

func TestRunCaseMeanMatchesFile(t *testing.T) {
	srv := caseServer(t, okReply("FAKE"))
	dir := t.TempDir()

	summary, err := RunCase(context.Background(), New(), PredictURL(srv.URL), model.PerfCases()[1], 10, time.Second, dir)
	require.NoError(t, err)

	var total float64
	rows := readRows(t, summary.Path)
	for _, row := range rows[1:] {
		ms, err := strconv.ParseFloat(row[3], 64)
		require.NoError(t, err)
		total += ms
	}
	assert.InDelta(t, total/10, summary.MeanMs, 1e-9)
}

func TestRunCaseStopsOnCancelledContext(t *testing.T) {
	srv := caseServer(t, okReply("REAL"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := RunCase(ctx, New(), PredictURL(srv.URL), model.PerfCases()[0], 3, time.Second, t.TempDir())
	require.ErrorIs(t, err, context.Canceled)
}

func TestRunPerfFailsOnUnwritableDir(t *testing.T) {
	file := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	_, err := RunPerf(context.Background(), New(), perfConfig("http://127.0.0.1:1", file, 1), model.PerfCases(), &bytes.Buffer{})
	require.Error(t, err)
}
