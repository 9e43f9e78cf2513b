// Package errors provides centralized error definitions and error handling
// utilities for Podium. It defines the debate engine's error taxonomy,
// constructors with context wrapping, and classification helpers.
//
// # Error Taxonomy
//
// Three conditions are fatal to a debate run:
//
//   - ErrGenerationFailed: the generation service failed after exhausting
//     all retry attempts. Carries the last underlying cause.
//   - ErrMalformedResponse: a JSON-mode response failed to parse. Never
//     retried; non-conformance is assumed non-transient.
//   - ErrConfigurationMissing: no credential, provider, or template could
//     be resolved for a requested role. Detected at step entry.
//
// # Usage
//
// Creating errors:
//
//	err := errors.NewGenerationError("chat completion failed", cause).
//		WithProvider("deepseek").WithModel("deepseek-chat").WithAttempts(3)
//
// Checking errors:
//
//	if errors.Is(err, errors.ErrGenerationFailed) { ... }
//
//	var genErr *errors.GenerationError
//	if errors.As(err, &genErr) { ... }
//
//	if errors.IsRetryable(err) { ... }
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Re-export standard library functions for convenience.
// This allows callers to import only this package for all error handling.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// Sentinel errors for the debate engine.
var (
	// ErrGenerationFailed indicates the generation service failed after
	// exhausting retries.
	ErrGenerationFailed = New("generation failed")

	// ErrMalformedResponse indicates a JSON-mode response could not be
	// parsed. This is never retried.
	ErrMalformedResponse = New("malformed response")

	// ErrConfigurationMissing indicates no credential, provider, or
	// template could be resolved for a requested role.
	ErrConfigurationMissing = New("configuration missing")

	// ErrDebateFinished indicates an operation was attempted on a debate
	// that already reached its terminal state.
	ErrDebateFinished = New("debate already finished")

	// ErrCanceled indicates the debate run was canceled.
	ErrCanceled = New("debate canceled")
)

// GenerationError represents a failed exchange with the generation service.
//
// Example:
//
//	err := errors.NewGenerationError("chat completion failed", cause).
//		WithProvider("deepseek").WithModel("deepseek-chat").WithAttempts(3)
type GenerationError struct {
	message   string
	cause     error
	Provider  string
	Model     string
	Attempts  int
	Malformed bool
}

// NewGenerationError creates a GenerationError wrapping ErrGenerationFailed.
func NewGenerationError(message string, cause error) *GenerationError {
	return &GenerationError{message: message, cause: cause}
}

// NewMalformedResponseError creates a GenerationError for an unparseable
// JSON-mode response. It matches ErrMalformedResponse, not
// ErrGenerationFailed, and is not retryable.
func NewMalformedResponseError(message string, cause error) *GenerationError {
	return &GenerationError{message: message, cause: cause, Malformed: true}
}

// WithProvider adds the provider name to the error context.
func (e *GenerationError) WithProvider(provider string) *GenerationError {
	e.Provider = provider
	return e
}

// WithModel adds the model name to the error context.
func (e *GenerationError) WithModel(model string) *GenerationError {
	e.Model = model
	return e
}

// WithAttempts records how many attempts were made before giving up.
func (e *GenerationError) WithAttempts(attempts int) *GenerationError {
	e.Attempts = attempts
	return e
}

// Error returns the formatted error message.
func (e *GenerationError) Error() string {
	var parts []string
	if e.Provider != "" {
		parts = append(parts, fmt.Sprintf("provider=%s", e.Provider))
	}
	if e.Model != "" {
		parts = append(parts, fmt.Sprintf("model=%s", e.Model))
	}
	if e.Attempts > 0 {
		parts = append(parts, fmt.Sprintf("attempts=%d", e.Attempts))
	}

	prefix := "generation error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("generation error [%s]", strings.Join(parts, ", "))
	}

	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Unwrap returns the underlying cause.
func (e *GenerationError) Unwrap() error {
	return e.cause
}

// Is matches ErrMalformedResponse for parse failures and
// ErrGenerationFailed otherwise, plus anything the cause matches.
func (e *GenerationError) Is(target error) bool {
	if e.Malformed && target == ErrMalformedResponse {
		return true
	}
	if !e.Malformed && target == ErrGenerationFailed {
		return true
	}
	if e.cause != nil {
		return errors.Is(e.cause, target)
	}
	return false
}

// ConfigError represents a missing or invalid configuration value.
//
// Example:
//
//	err := errors.NewConfigError("no API key resolvable").
//		WithRole("judge").WithKey("DEEPSEEK_API_KEY")
type ConfigError struct {
	message string
	cause   error
	Role    string
	Key     string
}

// NewConfigError creates a ConfigError wrapping ErrConfigurationMissing.
func NewConfigError(message string) *ConfigError {
	return &ConfigError{message: message}
}

// WithRole adds the role being resolved to the error context.
func (e *ConfigError) WithRole(role string) *ConfigError {
	e.Role = role
	return e
}

// WithKey adds the configuration key or env var name to the error context.
func (e *ConfigError) WithKey(key string) *ConfigError {
	e.Key = key
	return e
}

// WithCause adds an underlying cause.
func (e *ConfigError) WithCause(cause error) *ConfigError {
	e.cause = cause
	return e
}

// Error returns the formatted error message.
func (e *ConfigError) Error() string {
	var parts []string
	if e.Role != "" {
		parts = append(parts, fmt.Sprintf("role=%s", e.Role))
	}
	if e.Key != "" {
		parts = append(parts, fmt.Sprintf("key=%s", e.Key))
	}

	prefix := "config error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("config error [%s]", strings.Join(parts, ", "))
	}

	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Unwrap returns the underlying cause.
func (e *ConfigError) Unwrap() error {
	return e.cause
}

// Is matches ErrConfigurationMissing and anything the cause matches.
func (e *ConfigError) Is(target error) bool {
	if target == ErrConfigurationMissing {
		return true
	}
	if e.cause != nil {
		return errors.Is(e.cause, target)
	}
	return false
}

// IsRetryable reports whether the error represents a transient condition.
// Within the debate engine only in-flight transport/HTTP failures are
// transient, and those are retried inside the generation client; every
// error that escapes a component is final. Exposed for callers that wrap
// the engine in their own retry policy.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	// Malformed responses and configuration gaps never heal on retry.
	if Is(err, ErrMalformedResponse) || Is(err, ErrConfigurationMissing) {
		return false
	}
	return Is(err, ErrGenerationFailed)
}

// Wrap wraps an error with additional context message.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted context message.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
