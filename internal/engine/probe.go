/*
PURPOSE:
  Functional smoke test of a deployed classification service.
  Sends each probe case once and reports pass/fail.

REQUIREMENTS:
  User-specified:
  - Pass = HTTP 200 AND a non-empty "label" in a JSON body.
  - A failing case never stops the remaining cases.
  - On any failure print a diagnostic block naming the base URL and the expected contract.

  Implementation-discovered:
  - The response contract is expressed as a JSON schema so it is checked in one place.
  - Colors are dropped automatically when stdout is not a terminal.

ARCHITECTURE INTEGRATION:
  - Called by: internal/cli/probe.go
  - Uses: internal/engine/client.go, internal/model

ERROR HANDLING:
  - Transport errors are printed per case and count as failures.
  - Returns ErrProbeFailed if any case failed; the CLI maps it to exit code 1.

IMPLEMENTATION RULES:
  - Strictly sequential, no retries.

USAGE:
  results, err := engine.RunProbe(ctx, e, cfg, model.ProbeCases(), os.Stdout)

RELATED FILES:
  - internal/cli/probe.go
*/

package engine

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/xeipuuv/gojsonschema"

	"github.com/daryltucker/predict-runner/internal/config"
	"github.com/daryltucker/predict-runner/internal/model"
	"github.com/daryltucker/predict-runner/internal/output"
)

// ErrProbeFailed is returned when at least one probe case did not pass.
var ErrProbeFailed = errors.New("one or more functional tests failed")

// predictResponseSchema is the /predict response contract.
const predictResponseSchema = `{
  "type": "object",
  "required": ["label"],
  "properties": {
    "label": {"type": "string", "minLength": 1}
  }
}`

var responseSchema = mustCompileSchema(predictResponseSchema)

func mustCompileSchema(def string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(def))
	if err != nil {
		panic(fmt.Sprintf("invalid predict response schema: %v", err))
	}
	return schema
}

// MeetsContract reports whether a prediction satisfies the service contract.
// The returned string explains the first violation.
func MeetsContract(pred Prediction) (bool, string) {
	if pred.StatusCode != 200 {
		return false, fmt.Sprintf("status %d", pred.StatusCode)
	}
	if !pred.JSON {
		return false, fmt.Sprintf("content-type %q is not JSON", pred.ContentType)
	}
	result, err := responseSchema.Validate(gojsonschema.NewBytesLoader(pred.Body))
	if err != nil {
		return false, fmt.Sprintf("invalid JSON body: %v", err)
	}
	if !result.Valid() {
		return false, result.Errors()[0].String()
	}
	return true, ""
}

var (
	passTag = color.New(color.FgGreen, color.Bold).SprintFunc()
	failTag = color.New(color.FgRed, color.Bold).SprintFunc()
)

// RunProbe sends every case once and prints one line per case.
func RunProbe(ctx context.Context, e *Engine, cfg *config.Config, cases []model.TestCase, w io.Writer) ([]model.ProbeResult, error) {
	url := PredictURL(cfg.BaseURL)
	fmt.Fprintf(w, "Calling: %s\n\n", url)

	results := make([]model.ProbeResult, 0, len(cases))
	ok := true
	for _, tc := range cases {
		res := model.ProbeResult{Case: tc.Name, URL: url}

		pred, err := e.Predict(ctx, url, tc.Message, cfg.ProbeTimeout)
		if err != nil {
			res.StatusCode = model.StatusTransportFailure
			res.Error = err.Error()
			ok = false
			fmt.Fprintf(w, "%s [%s] ERROR: %v\n", failTag("FAIL"), tc.Name, err)
			output.Logger.Warnw("Probe call failed", "case", tc.Name, "error", err)
			results = append(results, res)
			continue
		}

		res.StatusCode = pred.StatusCode
		res.Label = pred.Label
		passed, reason := MeetsContract(pred)
		res.Passed = passed
		tag := passTag("PASS")
		if !passed {
			ok = false
			res.Error = reason
			tag = failTag("FAIL")
			output.Logger.Warnw("Probe contract violated", "case", tc.Name, "reason", reason)
		}
		fmt.Fprintf(w, "%s [%s] status=%d label=%s\n", tag, tc.Name, pred.StatusCode, displayLabel(pred))
		results = append(results, res)
	}

	if !ok {
		fmt.Fprintf(w, "\nOne or more functional tests failed. Verify the service is reachable at:\n  %s\nand that POST /predict is responding with JSON {\"label\": \"...\"}.\n", cfg.BaseURL)
		return results, ErrProbeFailed
	}
	return results, nil
}

func displayLabel(pred Prediction) string {
	if !pred.LabelPresent {
		return "<none>"
	}
	return pred.Label
}
