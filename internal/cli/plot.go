/*
PURPOSE:
  Defines the 'plot' subcommand.
  Aggregates the perf CSVs into a box plot and averages.csv.

REQUIREMENTS:
  User-specified:
  - --out sets the image path (default <results-dir>/performance_boxplot.png).
  - Fail before writing anything when no input files exist.
  - Print both output paths.

  Implementation-discovered:
  - A markdown table of averages on stdout saves opening the CSV.

ARCHITECTURE INTEGRATION:
  - Calls: internal/report (Discover, Load, Averages, WriteBoxPlot), internal/output

ERROR HANDLING:
  - report.ErrNoInputs / report.ErrNoSamples are returned unchanged; main exits 1.

USAGE:
  predict-runner plot --out ./latency.png
*/

package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/daryltucker/predict-runner/internal/output"
	"github.com/daryltucker/predict-runner/internal/report"
)

var plotOut string

var plotCmd = &cobra.Command{
	Use:   "plot",
	Short: "Build a latency box plot and averages.csv from the perf results",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := currentConfig
		out := plotOut
		if out == "" {
			out = cfg.PlotPath()
		}

		paths, err := report.Discover(cfg.ResultsDir, cfg.SummaryFile)
		if err != nil {
			return err
		}
		samples, err := report.Load(paths)
		if err != nil {
			return fmt.Errorf("%w in %s", err, cfg.ResultsDir)
		}
		averages := report.Averages(samples)

		if err := report.WriteBoxPlot(out, samples); err != nil {
			return err
		}
		if err := os.MkdirAll(cfg.ResultsDir, 0755); err != nil {
			return fmt.Errorf("failed to create results directory %s: %w", cfg.ResultsDir, err)
		}
		summaryPath := cfg.SummaryPath()
		if err := output.WriteAverages(summaryPath, averages); err != nil {
			return fmt.Errorf("failed to write %s: %w", summaryPath, err)
		}

		w := cmd.OutOrStdout()
		if table, err := output.AveragesTable(averages); err == nil {
			fmt.Fprintln(w, table)
		} else {
			output.Logger.Warnw("Failed to render averages table", "error", err)
		}
		fmt.Fprintf(w, "Saved: %s\n", out)
		fmt.Fprintf(w, "Saved: %s\n", summaryPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(plotCmd)

	plotCmd.Flags().StringVar(&plotOut, "out", "", "Output image path (default <results-dir>/performance_boxplot.png)")
}
