package output

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daryltucker/predict-runner/internal/model"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestCSVWriterFlushesEachRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "real_1.csv")
	w, err := NewCSVWriter(path)
	require.NoError(t, err)
	defer w.Close()

	start := time.Date(2025, 3, 1, 12, 0, 0, 123456000, time.FixedZone("CET", 3600))
	rec := model.CallRecord{
		Iteration:  1,
		Start:      start,
		End:        start.Add(42 * time.Millisecond),
		Elapsed:    41*time.Millisecond + 500*time.Microsecond,
		StatusCode: 200,
		Label:      "real, probably",
	}
	require.NoError(t, w.Write(rec))

	// Readable before Close: the writer must not hold records back.
	rows := readCSV(t, path)
	require.Len(t, rows, 2)
	assert.Equal(t, model.CallRecordHeader, rows[0])
	assert.Equal(t, []string{
		"1",
		"2025-03-01T11:00:00.123456Z",
		"2025-03-01T11:00:00.165456Z",
		"41.500",
		"200",
		"real, probably",
	}, rows[1])
}

func TestCSVWriterTruncatesPreviousRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fake_1.csv")
	require.NoError(t, os.WriteFile(path, []byte("stale\nstale\nstale\n"), 0o644))

	w, err := NewCSVWriter(path)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	rows := readCSV(t, path)
	require.Len(t, rows, 1)
	assert.Equal(t, model.CallRecordHeader, rows[0])
}

func TestFormatElapsedMs(t *testing.T) {
	cases := map[float64]string{
		0:          "0.000",
		1:          "1.000",
		12.3456:    "12.346",
		999.9994:   "999.999",
		1500.25001: "1500.250",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatElapsedMs(in), "input %v", in)
	}
}

func TestFormatCallRecordTransportFailure(t *testing.T) {
	row := FormatCallRecord(model.CallRecord{Iteration: 3, StatusCode: model.StatusTransportFailure})
	assert.Equal(t, "3", row[0])
	assert.Equal(t, "0.000", row[3])
	assert.Equal(t, "0", row[4])
	assert.Equal(t, "", row[5])
}

func TestWriteAverages(t *testing.T) {
	path := filepath.Join(t.TempDir(), "averages.csv")
	require.NoError(t, WriteAverages(path, []model.Average{
		{Case: "fake_1", AvgMs: 12.5},
		{Case: "real_1", AvgMs: 100},
	}))

	rows := readCSV(t, path)
	assert.Equal(t, [][]string{
		{"case", "avg_ms"},
		{"fake_1", "12.5"},
		{"real_1", "100"},
	}, rows)
}

func TestJSONWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "probe.jsonl")
	w, err := NewJSONWriter(path)
	require.NoError(t, err)
	require.NoError(t, w.Write(model.ProbeResult{Case: "real_1", StatusCode: 200, Label: "real", Passed: true}))
	require.NoError(t, w.Write(model.ProbeResult{Case: "fake_1", Error: "connection refused"}))
	require.NoError(t, w.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var got []model.ProbeResult
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var r model.ProbeResult
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &r))
		got = append(got, r)
	}
	require.NoError(t, scanner.Err())
	require.Len(t, got, 2)
	assert.True(t, got[0].Passed)
	assert.Equal(t, "connection refused", got[1].Error)
}

func TestAveragesTable(t *testing.T) {
	table, err := AveragesTable([]model.Average{{Case: "real_1", AvgMs: 10.25}})
	require.NoError(t, err)
	assert.Contains(t, table, "case")
	assert.Contains(t, table, "avg_ms")
	assert.Contains(t, table, "10.250")
	assert.True(t, strings.HasPrefix(strings.TrimSpace(table), "|"))
}

func TestConfigure(t *testing.T) {
	prev := Logger
	t.Cleanup(func() { SetLogger(prev) })

	require.NoError(t, Configure("debug"))
	assert.NotNil(t, Logger)
	require.Error(t, Configure("chatty"))
}
