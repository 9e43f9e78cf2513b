package errors

import (
	"fmt"
	"strings"
	"testing"
)

func TestGenerationErrorClassification(t *testing.T) {
	err := NewGenerationError("chat completion failed", New("connection refused")).
		WithProvider("deepseek").
		WithModel("deepseek-chat").
		WithAttempts(3)

	if !Is(err, ErrGenerationFailed) {
		t.Error("generation error should match ErrGenerationFailed")
	}
	if Is(err, ErrMalformedResponse) {
		t.Error("generation error should not match ErrMalformedResponse")
	}

	var genErr *GenerationError
	if !As(err, &genErr) {
		t.Fatal("As() should extract *GenerationError")
	}
	if genErr.Provider != "deepseek" || genErr.Model != "deepseek-chat" || genErr.Attempts != 3 {
		t.Errorf("context = %s/%s/%d", genErr.Provider, genErr.Model, genErr.Attempts)
	}

	msg := err.Error()
	for _, want := range []string{"deepseek", "attempts=3", "connection refused"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Error() = %q, should contain %q", msg, want)
		}
	}
}

func TestMalformedResponseClassification(t *testing.T) {
	err := NewMalformedResponseError("not a JSON object", nil).
		WithProvider("dashscope")

	if !Is(err, ErrMalformedResponse) {
		t.Error("malformed response should match ErrMalformedResponse")
	}
	if Is(err, ErrGenerationFailed) {
		t.Error("malformed response should not match ErrGenerationFailed")
	}
}

func TestGenerationErrorUnwrapsCause(t *testing.T) {
	cause := New("timeout")
	err := NewGenerationError("failed", cause)

	if Unwrap(err) != cause {
		t.Error("Unwrap() should return the cause")
	}
	if !Is(err, cause) {
		t.Error("Is() should match through the cause")
	}
}

func TestConfigErrorClassification(t *testing.T) {
	err := NewConfigError("API key environment variable not set").
		WithRole("judge").
		WithKey("DEEPSEEK_API_KEY")

	if !Is(err, ErrConfigurationMissing) {
		t.Error("config error should match ErrConfigurationMissing")
	}

	var cfgErr *ConfigError
	if !As(err, &cfgErr) {
		t.Fatal("As() should extract *ConfigError")
	}
	if cfgErr.Role != "judge" || cfgErr.Key != "DEEPSEEK_API_KEY" {
		t.Errorf("context = %s/%s", cfgErr.Role, cfgErr.Key)
	}

	msg := err.Error()
	if !strings.Contains(msg, "role=judge") || !strings.Contains(msg, "key=DEEPSEEK_API_KEY") {
		t.Errorf("Error() = %q, should carry role and key", msg)
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"generation failure", NewGenerationError("failed", nil), true},
		{"malformed response", NewMalformedResponseError("bad", nil), false},
		{"config error", NewConfigError("missing"), false},
		{"unrelated error", New("something else"), false},
		{"wrapped generation failure", fmt.Errorf("step: %w", NewGenerationError("failed", nil)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.want {
				t.Errorf("IsRetryable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWrap(t *testing.T) {
	base := New("base")
	wrapped := Wrap(base, "context")

	if !Is(wrapped, base) {
		t.Error("wrapped error should match the base")
	}
	if wrapped.Error() != "context: base" {
		t.Errorf("Wrap() = %q", wrapped.Error())
	}
	if Wrap(nil, "context") != nil {
		t.Error("Wrap(nil) should be nil")
	}

	formatted := Wrapf(base, "phase %s", "opening")
	if formatted.Error() != "phase opening: base" {
		t.Errorf("Wrapf() = %q", formatted.Error())
	}
	if Wrapf(nil, "x") != nil {
		t.Error("Wrapf(nil) should be nil")
	}
}
