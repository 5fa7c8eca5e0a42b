/*
PURPOSE:
  Defines the 'probe' subcommand.
  Functional smoke test: one call per sample, pass/fail exit code.

REQUIREMENTS:
  User-specified:
  - --base-url, falling back to BASE_URL, falling back to the default host.
  - Exit 0 when all cases pass, 1 otherwise.

  Implementation-discovered:
  - Optional --report writes per-case outcomes as JSON lines for CI archiving.

ARCHITECTURE INTEGRATION:
  - Calls: internal/engine.RunProbe()

ERROR HANDLING:
  - Returns engine.ErrProbeFailed so main exits 1.

USAGE:
  predict-runner probe --base-url http://my-service
*/

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/daryltucker/predict-runner/internal/engine"
	"github.com/daryltucker/predict-runner/internal/model"
	"github.com/daryltucker/predict-runner/internal/output"
)

var probeReport string

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Send each sample once and check for HTTP 200 and a non-empty label",
	Example: `  # Probe the default deployment (or $BASE_URL)
  predict-runner probe

  # Probe a specific host and keep a JSON lines report
  predict-runner probe --base-url http://localhost:5000 --report probe.jsonl`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := currentConfig
		e := engine.New()
		defer e.Close()

		results, probeErr := engine.RunProbe(cmd.Context(), e, cfg, model.ProbeCases(), cmd.OutOrStdout())

		if probeReport != "" {
			if err := writeProbeReport(probeReport, results); err != nil {
				return err
			}
			output.Logger.Infow("Probe report written", "path", probeReport)
		}
		return probeErr
	},
}

func writeProbeReport(path string, results []model.ProbeResult) error {
	w, err := output.NewJSONWriter(path)
	if err != nil {
		return fmt.Errorf("failed to create probe report %s: %w", path, err)
	}
	for _, r := range results {
		if err := w.Write(r); err != nil {
			w.Close()
			return fmt.Errorf("failed to write probe report %s: %w", path, err)
		}
	}
	return w.Close()
}

func init() {
	rootCmd.AddCommand(probeCmd)

	probeCmd.Flags().String("base-url", "", "Base URL of the deployed service (default $BASE_URL or the sample deployment)")
	probeCmd.Flags().StringVar(&probeReport, "report", "", "Write per-case results as JSON lines to this file")
}
