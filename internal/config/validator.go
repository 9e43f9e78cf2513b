package config

import (
	"fmt"
	"slices"
	"strings"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "llm.retry_count")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errs []ValidationError

	errs = append(errs, c.validateLLM()...)
	errs = append(errs, c.validateRoles()...)
	errs = append(errs, c.validateDebate()...)
	errs = append(errs, c.validateLogging()...)

	return errs
}

// validateLLM validates the LLMConfig
func (c *Config) validateLLM() []ValidationError {
	var errs []ValidationError

	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		errs = append(errs, ValidationError{
			Field:   "llm.temperature",
			Value:   c.LLM.Temperature,
			Message: "must be between 0 and 2",
		})
	}
	if c.LLM.TopP <= 0 || c.LLM.TopP > 1 {
		errs = append(errs, ValidationError{
			Field:   "llm.top_p",
			Value:   c.LLM.TopP,
			Message: "must be in (0, 1]",
		})
	}
	if c.LLM.MaxTokens <= 0 {
		errs = append(errs, ValidationError{
			Field:   "llm.max_tokens",
			Value:   c.LLM.MaxTokens,
			Message: "must be positive",
		})
	}
	if c.LLM.TimeoutSeconds <= 0 {
		errs = append(errs, ValidationError{
			Field:   "llm.timeout_seconds",
			Value:   c.LLM.TimeoutSeconds,
			Message: "must be positive",
		})
	}
	if c.LLM.RetryCount <= 0 {
		errs = append(errs, ValidationError{
			Field:   "llm.retry_count",
			Value:   c.LLM.RetryCount,
			Message: "must be positive",
		})
	}

	return errs
}

// validateRoles checks that every configured role references a known
// provider and names a model
func (c *Config) validateRoles() []ValidationError {
	var errs []ValidationError

	for name, role := range c.Roles {
		if !slices.Contains(RoleNames(), name) {
			errs = append(errs, ValidationError{
				Field:   "roles." + name,
				Value:   name,
				Message: fmt.Sprintf("must be one of: %s", strings.Join(RoleNames(), ", ")),
			})
			continue
		}
		if _, ok := c.Providers[role.Provider]; !ok {
			errs = append(errs, ValidationError{
				Field:   "roles." + name + ".provider",
				Value:   role.Provider,
				Message: "references an unknown provider",
			})
		}
		if role.Model == "" {
			errs = append(errs, ValidationError{
				Field:   "roles." + name + ".model",
				Value:   role.Model,
				Message: "must not be empty",
			})
		}
	}

	return errs
}

// validateDebate validates the DebateConfig
func (c *Config) validateDebate() []ValidationError {
	var errs []ValidationError

	if c.Debate.MaxFreeDebateRounds < 0 {
		errs = append(errs, ValidationError{
			Field:   "debate.max_free_debate_rounds",
			Value:   c.Debate.MaxFreeDebateRounds,
			Message: "must be non-negative",
		})
	}
	if c.Debate.OpeningWordLimit <= 0 {
		errs = append(errs, ValidationError{
			Field:   "debate.opening_word_limit",
			Value:   c.Debate.OpeningWordLimit,
			Message: "must be positive",
		})
	}
	if c.Debate.ClosingWordLimit <= 0 {
		errs = append(errs, ValidationError{
			Field:   "debate.closing_word_limit",
			Value:   c.Debate.ClosingWordLimit,
			Message: "must be positive",
		})
	}

	return errs
}

// validateLogging validates the LoggingConfig
func (c *Config) validateLogging() []ValidationError {
	var errs []ValidationError

	if c.Logging.Level != "" && !slices.Contains(ValidLogLevels(), strings.ToLower(c.Logging.Level)) {
		errs = append(errs, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}

	return errs
}
