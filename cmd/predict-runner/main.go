/*
PURPOSE:
  Entry point for the Predict Runner application.
  Initializes the CLI root command and executes it.

REQUIREMENTS:
  User-specified:
  - Must serve as the single binary entry point for probe, perf and plot.
  - probe exits 1 when any case fails; plot exits non-zero when there is nothing to aggregate.

  Implementation-discovered:
  - Uses cobra for CLI command management.

ARCHITECTURE INTEGRATION:
  - Calls: internal/cli.Execute()
  - Depends on: internal/cli package

ERROR HANDLING:
  - Explicit error check on Execute(); exit code 1 on failure.

IMPLEMENTATION RULES:
  - Critical: Keep main() minimal. All logic belongs in internal/ packages.

USAGE:
  go build -o predict-runner ./cmd/predict-runner
  ./predict-runner [probe|perf|plot|show-config] [flags]

RELATED FILES:
  - internal/cli/root.go - The actual root command definition.
*/

package main

import (
	"fmt"
	"os"

	"github.com/daryltucker/predict-runner/internal/cli"
	"github.com/daryltucker/predict-runner/internal/output"
)

func main() {
	err := cli.Execute()
	_ = output.Logger.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
