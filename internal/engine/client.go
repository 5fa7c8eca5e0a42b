/*
PURPOSE:
  Core engine for talking to the classification service.
  Issues POST {base}/predict calls and decodes the predicted label.

REQUIREMENTS:
  User-specified:
  - Body is {"message": <text>}, response is {"label": <string>}.
  - A label only counts when the response content-type is JSON.
  - Per-call timeout (10s probe, 15s perf).

  Implementation-discovered:
  - One http.Client per run so keep-alive connections are reused.
  - The body must be fully read before Close, otherwise the connection is not reused.
  - Transport errors are returned; callers decide how to record them.

ARCHITECTURE INTEGRATION:
  - Called by: internal/engine/probe.go, internal/engine/runner.go
  - Uses: internal/output (logging)

ERROR HANDLING:
  - No retries. Every call is independent and disposable.
  - A malformed JSON body is not an error: the status is kept and the label is absent.

IMPLEMENTATION RULES:
  - Use net/http with context-based timeouts.
  - httptrace hooks at debug level only.

USAGE:
  e := engine.New()
  pred, err := e.Predict(ctx, engine.PredictURL(base), "some text", 10*time.Second)

RELATED FILES:
  - internal/engine/probe.go
  - internal/engine/runner.go
*/

package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/http/httptrace"
	"strconv"
	"strings"
	"time"

	"github.com/daryltucker/predict-runner/internal/output"
)

// Engine handles /predict interactions.
type Engine struct {
	Client *http.Client
}

// Prediction is the decoded outcome of one /predict call that produced a response.
type Prediction struct {
	StatusCode   int
	ContentType  string
	JSON         bool
	Body         []byte
	Label        string
	LabelPresent bool
}

// New creates a new Engine with its own connection pool.
func New() *Engine {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxIdleConnsPerHost = 4

	return &Engine{
		Client: &http.Client{
			Transport: transport,
			// Per-call deadlines come from the request context.
		},
	}
}

// Close releases idle connections held by the engine.
func (e *Engine) Close() {
	e.Client.CloseIdleConnections()
}

// PredictURL builds {base}/predict, tolerating trailing slashes on base.
func PredictURL(base string) string {
	return strings.TrimRight(base, "/") + "/predict"
}

// Predict sends one classification request and waits for the full response.
func (e *Engine) Predict(ctx context.Context, url, message string, timeout time.Duration) (Prediction, error) {
	reqBody, err := json.Marshal(map[string]string{"message": message})
	if err != nil {
		return Prediction{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	trace := &httptrace.ClientTrace{
		GotConn: func(connInfo httptrace.GotConnInfo) {
			output.Logger.Debugw("Network: Connected", "remote", connInfo.Conn.RemoteAddr(), "reused", connInfo.Reused)
		},
		GotFirstResponseByte: func() {
			output.Logger.Debugw("Network: First Byte Received", "url", url)
		},
	}
	ctx = httptrace.WithClientTrace(ctx, trace)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return Prediction{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := e.Client.Do(req)
	if err != nil {
		return Prediction{}, fmt.Errorf("network/connection error: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Prediction{}, fmt.Errorf("failed to read response body: %w", err)
	}

	pred := Prediction{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}
	pred.JSON = isJSONContentType(pred.ContentType)
	if pred.JSON {
		pred.Label, pred.LabelPresent = decodeLabel(body)
	}
	return pred, nil
}

func isJSONContentType(contentType string) bool {
	if contentType == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json"
}

// decodeLabel extracts "label" from a JSON object body. Non-string labels are
// stringified the same way they would appear in a CSV cell.
func decodeLabel(body []byte) (string, bool) {
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		output.Logger.Debugw("Response body is not a JSON object", "error", err)
		return "", false
	}
	raw, ok := payload["label"]
	if !ok || raw == nil {
		return "", false
	}

	switch v := raw.(type) {
	case string:
		return v, true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(v), true
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v), true
		}
		return string(data), true
	}
}
