package cli

import (
	"bytes"
	"encoding/csv"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daryltucker/predict-runner/internal/engine"
	"github.com/daryltucker/predict-runner/internal/report"
)

func init() {
	color.NoColor = true
}

// execute runs the root command with fresh package-level flag state.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cfgFile, resultsDirFlag, logLevelFlag = "", "", ""
	plotOut, probeReport, showConfigPretty = "", "", false

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(append(args, "--log-level", "error"))
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := rootCmd.Execute()
	return out.String(), err
}

func classifier(t *testing.T, label string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"label":"`+label+`"}`)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestProbeCommandPasses(t *testing.T) {
	srv := classifier(t, "REAL")
	reportPath := filepath.Join(t.TempDir(), "probe.jsonl")

	out, err := execute(t, "probe", "--base-url", srv.URL+"/", "--report", reportPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Calling: "+srv.URL+"/predict")
	assert.Equal(t, 4, strings.Count(out, "status=200 label=REAL"))

	data, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	assert.Equal(t, 4, strings.Count(string(data), "\n"))
}

func TestProbeCommandFailsOnEmptyLabel(t *testing.T) {
	srv := classifier(t, "")

	out, err := execute(t, "probe", "--base-url", srv.URL)
	require.ErrorIs(t, err, engine.ErrProbeFailed)
	assert.Contains(t, out, "One or more functional tests failed")
}

func TestProbeCommandRejectsBadURL(t *testing.T) {
	_, err := execute(t, "probe", "--base-url", "not a url")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestPerfThenPlot(t *testing.T) {
	srv := classifier(t, "FAKE")
	dir := t.TempDir()

	out, err := execute(t, "perf", "--base-url", srv.URL, "--count", "3", "--results-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Done. CSV files:")

	image := filepath.Join(dir, "charts", "latency.png")
	out, err = execute(t, "plot", "--results-dir", dir, "--out", image)
	require.NoError(t, err)
	assert.Contains(t, out, "Saved: "+image)
	assert.Contains(t, out, "Saved: "+filepath.Join(dir, "averages.csv"))

	f, err := os.Open(filepath.Join(dir, "averages.csv"))
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, []string{"case", "avg_ms"}, rows[0])
	assert.Equal(t, []string{"fake_1", "fake_2", "real_1", "real_2"}, []string{rows[1][0], rows[2][0], rows[3][0], rows[4][0]})

	_, err = os.Stat(image)
	require.NoError(t, err)

	// Re-running must not pick up its own averages.csv.
	_, err = execute(t, "plot", "--results-dir", dir, "--out", image)
	require.NoError(t, err)
}

func TestPlotEmptyDirectoryWritesNothing(t *testing.T) {
	dir := t.TempDir()

	_, err := execute(t, "plot", "--results-dir", dir)
	require.ErrorIs(t, err, report.ErrNoInputs)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestShowConfig(t *testing.T) {
	out, err := execute(t, "show-config", "--results-dir", "bench-out")
	require.NoError(t, err)
	assert.Contains(t, out, "results_dir: bench-out")
	assert.Contains(t, out, "count: 100")
}
