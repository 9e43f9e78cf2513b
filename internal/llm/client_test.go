package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/podium-ai/podium/internal/errors"
)

// newTestClient builds a client against a test server with an instant sleep
// that records the requested backoff delays.
func newTestClient(t *testing.T, serverURL string, delays *[]time.Duration, opts ...Option) *HTTPClient {
	t.Helper()

	all := append([]Option{
		WithSleep(func(ctx context.Context, d time.Duration) error {
			*delays = append(*delays, d)
			return nil
		}),
	}, opts...)

	c, err := NewHTTPClient("testprov", "test-model", "test-key", serverURL, all...)
	if err != nil {
		t.Fatalf("NewHTTPClient() error = %v", err)
	}
	return c
}

func completionBody(content string) string {
	b, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	})
	return string(b)
}

func TestGenerateSuccess(t *testing.T) {
	var gotAuth string
	var gotReq chatRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_, _ = w.Write([]byte(completionBody("hello from the model")))
	}))
	defer server.Close()

	var delays []time.Duration
	c := newTestClient(t, server.URL, &delays)

	got, err := c.Generate(context.Background(), Request{
		Prompt:       "say hello",
		SystemPrompt: "you are a test",
		MaxTokens:    128,
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if got != "hello from the model" {
		t.Errorf("Generate() = %q", got)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("Authorization = %q, want bearer key", gotAuth)
	}
	if gotReq.Model != "test-model" {
		t.Errorf("request model = %q, want test-model", gotReq.Model)
	}
	if len(gotReq.Messages) != 2 || gotReq.Messages[0].Role != "system" || gotReq.Messages[1].Role != "user" {
		t.Errorf("messages = %+v, want system then user", gotReq.Messages)
	}
	if gotReq.MaxTokens != 128 {
		t.Errorf("max_tokens = %d, want 128", gotReq.MaxTokens)
	}
	if gotReq.ResponseFormat != nil {
		t.Error("plain Generate should not request a response format")
	}
	if len(delays) != 0 {
		t.Errorf("success should not back off, observed %v", delays)
	}
}

func TestGenerateRetriesThenSucceeds(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if requests <= 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(completionBody("recovered")))
	}))
	defer server.Close()

	var delays []time.Duration
	c := newTestClient(t, server.URL, &delays, WithRetryCount(3))

	got, err := c.Generate(context.Background(), Request{Prompt: "hi"})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if got != "recovered" {
		t.Errorf("Generate() = %q, want %q", got, "recovered")
	}
	if requests != 3 {
		t.Errorf("requests = %d, want 3", requests)
	}

	// Exactly two backoff sleeps: 1s after attempt 0, 2s after attempt 1
	want := []time.Duration{1 * time.Second, 2 * time.Second}
	if len(delays) != len(want) {
		t.Fatalf("observed %d delays (%v), want %d", len(delays), delays, len(want))
	}
	for i := range want {
		if delays[i] != want[i] {
			t.Errorf("delay %d = %v, want %v", i, delays[i], want[i])
		}
	}
}

func TestGenerateExhaustsRetries(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	var delays []time.Duration
	c := newTestClient(t, server.URL, &delays, WithRetryCount(3))

	_, err := c.Generate(context.Background(), Request{Prompt: "hi"})
	if err == nil {
		t.Fatal("Generate() should fail when every attempt fails")
	}
	if !errors.Is(err, errors.ErrGenerationFailed) {
		t.Errorf("error should match ErrGenerationFailed, got %v", err)
	}

	var genErr *errors.GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("error should be a GenerationError, got %T", err)
	}
	if genErr.Attempts != 3 {
		t.Errorf("Attempts = %d, want 3", genErr.Attempts)
	}
	if genErr.Provider != "testprov" || genErr.Model != "test-model" {
		t.Errorf("provider/model = %s/%s", genErr.Provider, genErr.Model)
	}

	if requests != 3 {
		t.Errorf("requests = %d, want exactly 3 (no fourth attempt)", requests)
	}
	if len(delays) != 2 {
		t.Errorf("observed %d delays, want 2 (no sleep after the final attempt)", len(delays))
	}
}

func TestGenerateJSONParsesObject(t *testing.T) {
	var gotReq chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotReq)
		_, _ = w.Write([]byte(completionBody(`{"logic": 85, "comment": "tight"}`)))
	}))
	defer server.Close()

	var delays []time.Duration
	c := newTestClient(t, server.URL, &delays)

	got, err := c.GenerateJSON(context.Background(), Request{Prompt: "score it"})
	if err != nil {
		t.Fatalf("GenerateJSON() error = %v", err)
	}
	if got["logic"] != float64(85) {
		t.Errorf("logic = %v, want 85", got["logic"])
	}
	if got["comment"] != "tight" {
		t.Errorf("comment = %v, want tight", got["comment"])
	}
	if gotReq.ResponseFormat == nil || gotReq.ResponseFormat.Type != "json_object" {
		t.Errorf("response_format = %+v, want json_object", gotReq.ResponseFormat)
	}
}

func TestGenerateJSONMalformedIsFinal(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		_, _ = w.Write([]byte(completionBody("{not json")))
	}))
	defer server.Close()

	var delays []time.Duration
	c := newTestClient(t, server.URL, &delays, WithRetryCount(3))

	_, err := c.GenerateJSON(context.Background(), Request{Prompt: "score it"})
	if err == nil {
		t.Fatal("GenerateJSON() should fail on unparseable content")
	}
	if !errors.Is(err, errors.ErrMalformedResponse) {
		t.Errorf("error should match ErrMalformedResponse, got %v", err)
	}
	if errors.Is(err, errors.ErrGenerationFailed) {
		t.Error("malformed response should not classify as generation failure")
	}
	if errors.IsRetryable(err) {
		t.Error("malformed response should not be retryable")
	}

	// The HTTP exchange succeeded, so the parse failure triggers no retry
	if requests != 1 {
		t.Errorf("requests = %d, want 1", requests)
	}
	if len(delays) != 0 {
		t.Errorf("observed %d delays, want 0", len(delays))
	}
}

func TestGenerateAPIErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error": {"message": "rate limited"}}`))
	}))
	defer server.Close()

	var delays []time.Duration
	c := newTestClient(t, server.URL, &delays, WithRetryCount(2))

	_, err := c.Generate(context.Background(), Request{Prompt: "hi"})
	if err == nil {
		t.Fatal("Generate() should surface API error bodies")
	}
	if !errors.Is(err, errors.ErrGenerationFailed) {
		t.Errorf("error should match ErrGenerationFailed, got %v", err)
	}
}

func TestGenerateCanceledDuringBackoff(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())

	var requests int
	c, err := NewHTTPClient("testprov", "test-model", "test-key", server.URL,
		WithRetryCount(3),
		WithSleep(func(ctx context.Context, d time.Duration) error {
			requests++
			cancel()
			return ctx.Err()
		}),
	)
	if err != nil {
		t.Fatalf("NewHTTPClient() error = %v", err)
	}

	_, err = c.Generate(ctx, Request{Prompt: "hi"})
	if err == nil {
		t.Fatal("Generate() should fail when canceled mid-backoff")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error should wrap context.Canceled, got %v", err)
	}
	if requests != 1 {
		t.Errorf("sleep calls = %d, want 1", requests)
	}
}

func TestNewHTTPClientValidation(t *testing.T) {
	if _, err := NewHTTPClient("p", "m", "", "http://example.test"); !errors.Is(err, errors.ErrConfigurationMissing) {
		t.Errorf("empty api key should be a configuration error, got %v", err)
	}
	if _, err := NewHTTPClient("p", "m", "key", ""); !errors.Is(err, errors.ErrConfigurationMissing) {
		t.Errorf("empty base URL should be a configuration error, got %v", err)
	}
}

func TestBackoffDelay(t *testing.T) {
	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{0, 1 * time.Second},
		{1, 2 * time.Second},
		{2, 4 * time.Second},
		{4, 16 * time.Second},
		{5, 30 * time.Second},
		{10, 30 * time.Second},
	}

	for _, tt := range tests {
		if got := backoffDelay(tt.attempt); got != tt.want {
			t.Errorf("backoffDelay(%d) = %v, want %v", tt.attempt, got, tt.want)
		}
	}
}
