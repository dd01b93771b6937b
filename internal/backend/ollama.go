// Package backend provides the adapter for the local Ollama inference endpoint.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Default configuration values.
const (
	DefaultBaseURL     = "http://localhost:11434"
	DefaultModel       = "qwen3:4b"
	DefaultTemperature = 0.3
	DefaultNumCtx      = 4096
	DefaultTimeout     = 300 * time.Second
)

// Config holds settings for the Ollama client.
type Config struct {
	// BaseURL is the Ollama API base URL.
	BaseURL string
	// Model is the model identifier passed to /api/generate.
	Model string
	// Temperature keeps decoding deterministic-leaning; factual consistency
	// is preferred over creativity. Nil means the default; an explicit 0
	// requests fully deterministic decoding.
	Temperature *float64
	// NumCtx is the model context window in tokens.
	NumCtx int
	// Timeout bounds one generate call end to end.
	Timeout time.Duration
}

// Error describes a failed backend call: transport failure, timeout, or a
// non-2xx HTTP status. It never escapes the pipeline as a panic; callers
// branch on it to log a failed interaction and return a degraded answer.
type Error struct {
	Status int
	Err    error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("backend returned status %d: %v", e.Status, e.Err)
	}
	return fmt.Sprintf("backend call failed: %v", e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// generateRequest is the Ollama /api/generate request body.
type generateRequest struct {
	Model   string  `json:"model"`
	Prompt  string  `json:"prompt"`
	Stream  bool    `json:"stream"`
	Options options `json:"options"`
}

type options struct {
	Temperature float64 `json:"temperature"`
	NumCtx      int     `json:"num_ctx"`
}

// generateResponse is the Ollama /api/generate response body.
type generateResponse struct {
	Response string `json:"response"`
}

// Client calls the Ollama generate endpoint. There are no retries: a failed
// call is reported once and the pipeline turns it into a degraded answer.
type Client struct {
	client      *http.Client
	baseURL     string
	model       string
	temperature float64
	numCtx      int
}

// NewClient creates a client, filling zero config values with defaults.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	temperature := DefaultTemperature
	if cfg.Temperature != nil {
		temperature = *cfg.Temperature
	}
	if cfg.NumCtx == 0 {
		cfg.NumCtx = DefaultNumCtx
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Client{
		client:      &http.Client{Timeout: cfg.Timeout},
		baseURL:     strings.TrimSuffix(cfg.BaseURL, "/"),
		model:       cfg.Model,
		temperature: temperature,
		numCtx:      cfg.NumCtx,
	}
}

// Model returns the configured model identifier.
func (c *Client) Model() string {
	return c.model
}

// Generate sends the prompt to /api/generate and returns the raw response
// text. Any transport, timeout, or HTTP-status failure is returned as *Error.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Model:  c.model,
		Prompt: prompt,
		Stream: false,
		Options: options{
			Temperature: c.temperature,
			NumCtx:      c.numCtx,
		},
	})
	if err != nil {
		return "", &Error{Err: fmt.Errorf("marshal request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", &Error{Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", &Error{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", &Error{
			Status: resp.StatusCode,
			Err:    fmt.Errorf("%s", strings.TrimSpace(string(snippet))),
		}
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", &Error{Err: fmt.Errorf("decode response: %w", err)}
	}
	return out.Response, nil
}
