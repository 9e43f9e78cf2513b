// Package llm provides the chat-completion client used by every debate
// participant. A client is bound to one (provider, model, api key, base URL)
// tuple at construction; transient HTTP failures are retried with
// exponential backoff, and JSON-mode responses are parsed into maps.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/podium-ai/podium/internal/errors"
	"github.com/podium-ai/podium/internal/logging"
)

const (
	// defaultTimeout is the per-request timeout against the generation
	// service.
	defaultTimeout = 120 * time.Second

	// defaultRetryCount is the total number of attempts per call.
	defaultRetryCount = 3

	// backoffCap bounds the exponential backoff delay.
	backoffCap = 30 * time.Second

	// Default sampling parameters, overridable per client.
	defaultTemperature = 0.7
	defaultTopP        = 0.9
	defaultMaxTokens   = 4000
)

// Request describes one generation call.
type Request struct {
	// Prompt is the user-turn content. Required.
	Prompt string

	// SystemPrompt, when non-empty, is sent as a leading system message.
	SystemPrompt string

	// Temperature overrides the client default when non-nil.
	Temperature *float64

	// MaxTokens overrides the client default when positive.
	MaxTokens int

	// JSONMode requests structured output from the service.
	JSONMode bool
}

// Client is the generation boundary participants talk to. Implementations
// must be safe for concurrent use.
type Client interface {
	// Generate returns the text of the first choice for the request.
	Generate(ctx context.Context, req Request) (string, error)

	// GenerateJSON requests structured output and parses it as a JSON
	// object. A parse failure is final and wraps ErrMalformedResponse.
	GenerateJSON(ctx context.Context, req Request) (map[string]any, error)
}

// HTTPClient implements Client against an OpenAI-compatible
// chat-completions endpoint.
type HTTPClient struct {
	provider string
	model    string
	apiKey   string
	baseURL  string

	temperature float64
	topP        float64
	maxTokens   int
	retryCount  int

	httpClient *http.Client
	sleep      func(ctx context.Context, d time.Duration) error
	log        *logging.Logger
}

// Option configures an HTTPClient.
type Option func(*HTTPClient)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *HTTPClient) {
		c.httpClient.Timeout = timeout
	}
}

// WithRetryCount sets the total number of attempts per call.
func WithRetryCount(n int) Option {
	return func(c *HTTPClient) {
		if n > 0 {
			c.retryCount = n
		}
	}
}

// WithTemperature sets the default sampling temperature.
func WithTemperature(t float64) Option {
	return func(c *HTTPClient) {
		c.temperature = t
	}
}

// WithTopP sets the nucleus sampling parameter.
func WithTopP(p float64) Option {
	return func(c *HTTPClient) {
		c.topP = p
	}
}

// WithMaxTokens sets the default response token budget.
func WithMaxTokens(n int) Option {
	return func(c *HTTPClient) {
		if n > 0 {
			c.maxTokens = n
		}
	}
}

// WithLogger sets the logger used for retry diagnostics.
func WithLogger(log *logging.Logger) Option {
	return func(c *HTTPClient) {
		if log != nil {
			c.log = log
		}
	}
}

// WithSleep replaces the backoff sleep function. Tests use this to observe
// delays without waiting.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(c *HTTPClient) {
		if sleep != nil {
			c.sleep = sleep
		}
	}
}

// NewHTTPClient creates a client bound to one provider endpoint and model.
func NewHTTPClient(provider, model, apiKey, baseURL string, opts ...Option) (*HTTPClient, error) {
	if apiKey == "" {
		return nil, errors.NewConfigError("API key is empty").WithKey(provider)
	}
	if baseURL == "" {
		return nil, errors.NewConfigError("base URL is empty").WithKey(provider)
	}

	c := &HTTPClient{
		provider:    provider,
		model:       model,
		apiKey:      apiKey,
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		temperature: defaultTemperature,
		topP:        defaultTopP,
		maxTokens:   defaultMaxTokens,
		retryCount:  defaultRetryCount,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		sleep: sleepContext,
		log:   logging.NopLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Provider returns the provider name the client is bound to.
func (c *HTTPClient) Provider() string { return c.provider }

// Model returns the model name the client is bound to.
func (c *HTTPClient) Model() string { return c.model }

// chatRequest is the OpenAI-compatible chat completions request body.
type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature"`
	MaxTokens      int             `json:"max_tokens"`
	TopP           float64         `json:"top_p"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

// chatResponse is the subset of the chat completions response we read.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Generate issues one chat completion, retrying transient failures up to
// the configured attempt count with exponential backoff. Exhausted retries
// surface as an error matching errors.ErrGenerationFailed carrying the
// last underlying cause.
func (c *HTTPClient) Generate(ctx context.Context, req Request) (string, error) {
	var lastErr error

	for attempt := 0; attempt < c.retryCount; attempt++ {
		content, err := c.complete(ctx, req)
		if err == nil {
			return content, nil
		}
		lastErr = err

		// Cancellation is not a transient service failure.
		if ctx.Err() != nil {
			return "", errors.Wrap(ctx.Err(), "generation canceled")
		}

		if attempt == c.retryCount-1 {
			break
		}

		delay := backoffDelay(attempt)
		c.log.Warn("generation attempt failed, retrying",
			"provider", c.provider,
			"model", c.model,
			"attempt", attempt+1,
			"backoff", delay.String(),
			"error", err.Error(),
		)
		if err := c.sleep(ctx, delay); err != nil {
			return "", errors.Wrap(err, "generation canceled")
		}
	}

	return "", errors.NewGenerationError("chat completion failed", lastErr).
		WithProvider(c.provider).
		WithModel(c.model).
		WithAttempts(c.retryCount)
}

// GenerateJSON issues one JSON-mode chat completion and parses the result
// as a JSON object. Parse failures are final: a malformed response is not
// classified as transient, so it triggers zero retries.
func (c *HTTPClient) GenerateJSON(ctx context.Context, req Request) (map[string]any, error) {
	req.JSONMode = true

	content, err := c.Generate(ctx, req)
	if err != nil {
		return nil, err
	}

	var parsed map[string]any
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return nil, errors.NewMalformedResponseError(
			fmt.Sprintf("response is not a JSON object: %s", snippet(content)), err).
			WithProvider(c.provider).
			WithModel(c.model)
	}

	return parsed, nil
}

// complete performs a single request against the chat completions endpoint.
func (c *HTTPClient) complete(ctx context.Context, req Request) (string, error) {
	var messages []chatMessage
	if req.SystemPrompt != "" {
		messages = append(messages, chatMessage{Role: "system", Content: req.SystemPrompt})
	}
	messages = append(messages, chatMessage{Role: "user", Content: req.Prompt})

	temperature := c.temperature
	if req.Temperature != nil {
		temperature = *req.Temperature
	}
	maxTokens := c.maxTokens
	if req.MaxTokens > 0 {
		maxTokens = req.MaxTokens
	}

	body := chatRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: temperature,
		MaxTokens:   maxTokens,
		TopP:        c.topP,
	}
	if req.JSONMode {
		body.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	reqBytes, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/chat/completions", bytes.NewReader(reqBytes))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("API error (status %d): %s", resp.StatusCode, snippet(string(respBody)))
	}

	var respData chatResponse
	if err := json.Unmarshal(respBody, &respData); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}

	if respData.Error != nil {
		return "", fmt.Errorf("API error: %s", respData.Error.Message)
	}

	if len(respData.Choices) == 0 {
		return "", fmt.Errorf("empty response from API")
	}

	return respData.Choices[0].Message.Content, nil
}

// backoffDelay returns 2^attempt seconds, capped.
func backoffDelay(attempt int) time.Duration {
	d := time.Duration(1<<uint(attempt)) * time.Second
	if d > backoffCap {
		return backoffCap
	}
	return d
}

// sleepContext sleeps for d or until the context is canceled.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// snippet truncates a response body for error messages.
func snippet(s string) string {
	const max = 200
	s = strings.TrimSpace(s)
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
