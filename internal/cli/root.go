/*
PURPOSE:
  Defines the root Cobra command for the Predict Runner CLI.
  Handles global flags, configuration loading and logger setup.

REQUIREMENTS:
  User-specified:
  - Three independent tools: probe, perf, plot.
  - Support global flags like --config.

  Implementation-discovered:
  - Needs to expose an Execute() function for main.go.
  - Config precedence ends with CLI flags, applied after config.Load.

ARCHITECTURE INTEGRATION:
  - Called by: cmd/predict-runner/main.go
  - Calls: Child commands (probe, perf, plot, show-config)
  - Uses: internal/config, internal/output

ERROR HANDLING:
  - Returns error to main.go for exit code handling.
  - Usage text is only printed for flag errors, not for runtime failures.

IMPLEMENTATION RULES:
  - Use `PersistentFlags()` for flags available to all subcommands.
  - Keep Run logic in subcommands; root only prepares config.

USAGE:
  Called by main.go.

SELF-HEALING INSTRUCTIONS:
  - If adding new global flags, add them to init() and applyGlobalFlags().

RELATED FILES:
  - cmd/predict-runner/main.go
  - internal/config/config.go
*/

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/daryltucker/predict-runner/internal/config"
	"github.com/daryltucker/predict-runner/internal/output"
)

var (
	// cfgFile stores the path to the config file (if specified via flag)
	cfgFile        string
	resultsDirFlag string
	logLevelFlag   string
	currentConfig  *config.Config

	rootCmd = &cobra.Command{
		Use:   "predict-runner",
		Short: "Smoke tests and latency benchmarks for a /predict classification service",
		Long: `Client-side tooling for a deployed text classification service.

  probe  sends each sample once and fails unless every call returns 200 with a label
  perf   sends each sample N times and records per-call latency to CSV
  plot   aggregates the perf CSVs into a box plot and averages.csv`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: loadConfig,
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./predict_runner.yaml)")
	rootCmd.PersistentFlags().StringVar(&resultsDirFlag, "results-dir", "", "directory holding per-case CSVs (default tests/results)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "log level: debug, info, warn, error")
}

// loadConfig resolves defaults < file < environment < flags and validates the result.
func loadConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	if resultsDirFlag != "" {
		cfg.ResultsDir = resultsDirFlag
	}
	if logLevelFlag != "" {
		cfg.LogLevel = logLevelFlag
	}
	if err := applyCommandFlags(cmd, cfg); err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := output.Configure(cfg.LogLevel); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	currentConfig = cfg
	return nil
}

// applyCommandFlags copies subcommand flags that were set explicitly onto cfg.
func applyCommandFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if f := flags.Lookup("base-url"); f != nil && f.Changed {
		cfg.BaseURL = f.Value.String()
	}
	if f := flags.Lookup("count"); f != nil && f.Changed {
		n, err := flags.GetInt("count")
		if err != nil {
			return fmt.Errorf("invalid --count: %w", err)
		}
		cfg.Count = n
	}
	return nil
}
