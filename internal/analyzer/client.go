package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/ctfenum/ctfenum/internal/model"
)

// Defaults for the generation backend. The endpoint is the standard local
// Ollama address; the decoding parameters are fixed constants of the triage
// contract rather than tuning knobs.
const (
	// DefaultEndpoint is the local Ollama generate endpoint.
	DefaultEndpoint = "http://localhost:11434/api/generate"

	// DefaultModel is the triage model name.
	DefaultModel = "ctf-scanner"

	// DefaultNumCtx is the context window in tokens. Full nmap output for
	// a busy host plus the instructions needs more than the 2048 default.
	DefaultNumCtx = 8192

	// DefaultTemperature is the sampling temperature.
	DefaultTemperature = 0.7

	// DefaultTimeout bounds one generation request. Local models can take
	// minutes on large scans.
	DefaultTimeout = 300 * time.Second
)

// generateRequest is the Ollama /api/generate request body.
type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Options generateOptions `json:"options"`
}

// generateOptions carries the fixed decoding parameters.
type generateOptions struct {
	NumCtx      int     `json:"num_ctx"`
	Temperature float64 `json:"temperature"`
}

// generateResponse is the subset of the Ollama response we consume.
type generateResponse struct {
	Response string `json:"response"`
}

// Client issues triage requests against the generation backend.
type Client struct {
	// endpoint is the full generate URL.
	endpoint string

	// model is the model name sent with each request.
	model string

	// numCtx and temperature are the decoding parameters.
	numCtx      int
	temperature float64

	// httpClient carries the request timeout.
	httpClient *http.Client

	// logger for structured logging.
	logger *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithEndpoint overrides the generate endpoint URL.
func WithEndpoint(url string) ClientOption {
	return func(c *Client) {
		c.endpoint = url
	}
}

// WithModel overrides the model name.
func WithModel(name string) ClientOption {
	return func(c *Client) {
		c.model = name
	}
}

// WithNumCtx overrides the context window size.
func WithNumCtx(n int) ClientOption {
	return func(c *Client) {
		c.numCtx = n
	}
}

// WithTemperature overrides the sampling temperature.
func WithTemperature(t float64) ClientOption {
	return func(c *Client) {
		c.temperature = t
	}
}

// WithHTTPClient replaces the underlying HTTP client, including its timeout.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithClientLogger sets a custom logger.
func WithClientLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a Client with the default endpoint and decoding
// parameters.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		endpoint:    DefaultEndpoint,
		model:       DefaultModel,
		numCtx:      DefaultNumCtx,
		temperature: DefaultTemperature,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}

	return c
}

// Endpoint returns the configured generate URL.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Analyze sends one scan to the backend and returns the triage text.
//
// Every failure mode maps onto the "Error:" marker convention: a non-200
// status yields "Error: <code>", a transport or decode failure yields
// "Error: <message>". Callers must treat marker results as terminal for the
// run and write no report.
func (c *Client) Analyze(ctx context.Context, target, scanText string) model.AnalysisResult {
	body, err := json.Marshal(generateRequest{
		Model:  c.model,
		Prompt: BuildPrompt(target, scanText),
		Stream: false,
		Options: generateOptions{
			NumCtx:      c.numCtx,
			Temperature: c.temperature,
		},
	})
	if err != nil {
		return model.NewAnalysisError("%v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return model.NewAnalysisError("%v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.logger.Debug("requesting analysis",
		"endpoint", c.endpoint,
		"model", c.model,
		"promptBytes", len(body),
	)
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("analysis request failed", "error", err)
		return model.NewAnalysisError("%v", err)
	}
	defer resp.Body.Close() //nolint:errcheck // response body close on read path

	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused; the body content of an
		// error status is not part of the contract.
		_, _ = io.Copy(io.Discard, resp.Body)
		c.logger.Error("analysis returned non-200", "status", resp.StatusCode)
		return model.NewAnalysisError("%d", resp.StatusCode)
	}

	var gr generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		c.logger.Error("analysis response decode failed", "error", err)
		return model.NewAnalysisError("%v", err)
	}

	c.logger.Info("analysis complete",
		"elapsed", time.Since(start),
		"responseBytes", len(gr.Response),
	)

	return model.NewAnalysisResult(gr.Response)
}

// String implements fmt.Stringer for diagnostics.
func (c *Client) String() string {
	return fmt.Sprintf("analyzer{endpoint: %s, model: %s}", c.endpoint, c.model)
}
