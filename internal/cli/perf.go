/*
PURPOSE:
  Defines the 'perf' subcommand.
  Latency harness: N sequential calls per sample, one CSV per sample.

REQUIREMENTS:
  User-specified:
  - --base-url and --count (default 100).
  - Exit code 0 regardless of individual call failures.

ARCHITECTURE INTEGRATION:
  - Calls: internal/engine.RunPerf()

ERROR HANDLING:
  - Only file-system failures are returned.

USAGE:
  predict-runner perf --base-url http://my-service --count 100
*/

package cli

import (
	"github.com/spf13/cobra"

	"github.com/daryltucker/predict-runner/internal/engine"
	"github.com/daryltucker/predict-runner/internal/model"
)

var perfCmd = &cobra.Command{
	Use:   "perf",
	Short: "Record per-call latency for each sample to <results-dir>/<case>.csv",
	Long: `Sends every sample --count times, strictly one call at a time over a single
keep-alive client. Each call is appended to the case's CSV as soon as it finishes:

  iteration,start_utc,end_utc,elapsed_ms,status_code,label

status_code 0 marks a transport failure (refused, DNS, timeout). Failed calls are
recorded, never retried, and never stop the run.`,
	Example: `  predict-runner perf --base-url http://localhost:5000 --count 20
  predict-runner perf --results-dir ./bench`,
	RunE: func(cmd *cobra.Command, args []string) error {
		e := engine.New()
		defer e.Close()

		_, err := engine.RunPerf(cmd.Context(), e, currentConfig, model.PerfCases(), cmd.OutOrStdout())
		return err
	},
}

func init() {
	rootCmd.AddCommand(perfCmd)

	perfCmd.Flags().String("base-url", "", "Base URL of the deployed service (default $BASE_URL or the sample deployment)")
	perfCmd.Flags().Int("count", 100, "Calls per test case")
}
