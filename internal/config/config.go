package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/podium-ai/podium/internal/errors"
	"github.com/podium-ai/podium/internal/llm"
	"github.com/podium-ai/podium/internal/logging"
)

// Role names recognized in the roles mapping.
const (
	RoleAffirmative = "affirmative"
	RoleNegative    = "negative"
	RoleJudge       = "judge"
	RoleModerator   = "moderator"
)

// Config represents the complete Podium configuration
type Config struct {
	LLM       LLMConfig                 `mapstructure:"llm"`
	Providers map[string]ProviderConfig `mapstructure:"providers"`
	Roles     map[string]RoleModel      `mapstructure:"roles"`
	Debate    DebateConfig              `mapstructure:"debate"`
	Logging   LoggingConfig             `mapstructure:"logging"`
	Prompts   PromptsConfig             `mapstructure:"prompts"`
}

// LLMConfig holds generation parameters shared by all roles
type LLMConfig struct {
	// Temperature is the default sampling temperature
	Temperature float64 `mapstructure:"temperature"`
	// MaxTokens is the default response token budget
	MaxTokens int `mapstructure:"max_tokens"`
	// TopP is the nucleus sampling parameter
	TopP float64 `mapstructure:"top_p"`
	// TimeoutSeconds is the per-request timeout against the generation service
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
	// RetryCount is the total number of attempts per generation call
	RetryCount int `mapstructure:"retry_count"`
}

// Timeout returns the request timeout as a time.Duration
func (c *LLMConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ProviderConfig describes one generation service endpoint
type ProviderConfig struct {
	// BaseURL is the OpenAI-compatible API base, e.g. "https://api.deepseek.com/v1"
	BaseURL string `mapstructure:"base_url"`
	// APIKeyEnv names the environment variable holding the API key
	APIKeyEnv string `mapstructure:"api_key_env"`
	// Models lists the models known to work with this provider (informational)
	Models []string `mapstructure:"models"`
	// DisplayName is the human-readable provider name
	DisplayName string `mapstructure:"display_name"`
}

// RoleModel selects the provider and model backing one debate role
type RoleModel struct {
	Provider string `mapstructure:"provider"`
	Model    string `mapstructure:"model"`
}

// DebateConfig controls debate structure
type DebateConfig struct {
	// MaxFreeDebateRounds bounds the free-debate loop (default: 3)
	MaxFreeDebateRounds int `mapstructure:"max_free_debate_rounds"`
	// OpeningWordLimit caps opening statements (default: 800)
	OpeningWordLimit int `mapstructure:"opening_word_limit"`
	// ClosingWordLimit caps closing statements (default: 500)
	ClosingWordLimit int `mapstructure:"closing_word_limit"`
}

// LoggingConfig controls debug logging behavior
type LoggingConfig struct {
	// Level is the log level: "debug", "info", "warn", "error" (default: "info")
	Level string `mapstructure:"level"`
	// File is the log file path; empty logs to stderr
	File string `mapstructure:"file"`
}

// PromptsConfig controls prompt template loading
type PromptsConfig struct {
	// File is an optional YAML file merged over the embedded templates
	File string `mapstructure:"file"`
}

// Default returns a Config with sensible default values. The defaults
// mirror the reference deployment: two OpenAI-compatible providers, with
// the moderator pinned to a faster, cheaper model than the debaters and
// the judge.
func Default() *Config {
	return &Config{
		LLM: LLMConfig{
			Temperature:    0.7,
			MaxTokens:      4000,
			TopP:           0.9,
			TimeoutSeconds: 120,
			RetryCount:     3,
		},
		Providers: map[string]ProviderConfig{
			"deepseek": {
				BaseURL:     "https://api.deepseek.com/v1",
				APIKeyEnv:   "DEEPSEEK_API_KEY",
				Models:      []string{"deepseek-reasoner", "deepseek-chat"},
				DisplayName: "DeepSeek",
			},
			"dashscope": {
				BaseURL:     "https://dashscope.aliyuncs.com/compatible-mode/v1",
				APIKeyEnv:   "DASHSCOPE_API_KEY",
				Models:      []string{"qwen3-max", "qwq-plus"},
				DisplayName: "Alibaba DashScope",
			},
		},
		Roles: map[string]RoleModel{
			RoleAffirmative: {Provider: "deepseek", Model: "deepseek-reasoner"},
			RoleNegative:    {Provider: "deepseek", Model: "deepseek-reasoner"},
			RoleJudge:       {Provider: "deepseek", Model: "deepseek-reasoner"},
			RoleModerator:   {Provider: "deepseek", Model: "deepseek-chat"},
		},
		Debate: DebateConfig{
			MaxFreeDebateRounds: 3,
			OpeningWordLimit:    800,
			ClosingWordLimit:    500,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
		Prompts: PromptsConfig{
			File: "",
		},
	}
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	// LLM defaults
	viper.SetDefault("llm.temperature", defaults.LLM.Temperature)
	viper.SetDefault("llm.max_tokens", defaults.LLM.MaxTokens)
	viper.SetDefault("llm.top_p", defaults.LLM.TopP)
	viper.SetDefault("llm.timeout_seconds", defaults.LLM.TimeoutSeconds)
	viper.SetDefault("llm.retry_count", defaults.LLM.RetryCount)

	// Provider defaults
	for name, p := range defaults.Providers {
		viper.SetDefault("providers."+name+".base_url", p.BaseURL)
		viper.SetDefault("providers."+name+".api_key_env", p.APIKeyEnv)
		viper.SetDefault("providers."+name+".models", p.Models)
		viper.SetDefault("providers."+name+".display_name", p.DisplayName)
	}

	// Role defaults
	for name, r := range defaults.Roles {
		viper.SetDefault("roles."+name+".provider", r.Provider)
		viper.SetDefault("roles."+name+".model", r.Model)
	}

	// Debate defaults
	viper.SetDefault("debate.max_free_debate_rounds", defaults.Debate.MaxFreeDebateRounds)
	viper.SetDefault("debate.opening_word_limit", defaults.Debate.OpeningWordLimit)
	viper.SetDefault("debate.closing_word_limit", defaults.Debate.ClosingWordLimit)

	// Logging defaults
	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.file", defaults.Logging.File)

	// Prompts defaults
	viper.SetDefault("prompts.file", defaults.Prompts.File)
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// RoleNames returns the four role names in speaking order.
func RoleNames() []string {
	return []string{RoleModerator, RoleAffirmative, RoleNegative, RoleJudge}
}

// ClientForRole resolves the provider and model configured for a role and
// constructs a generation client bound to them. A missing provider or API
// key is a configuration error surfaced before any generation call.
func (c *Config) ClientForRole(role string, log *logging.Logger) (*llm.HTTPClient, error) {
	roleCfg, ok := c.Roles[role]
	if !ok {
		return nil, errors.NewConfigError("no model configured for role").WithRole(role)
	}

	providerCfg, ok := c.Providers[roleCfg.Provider]
	if !ok {
		return nil, errors.NewConfigError("unknown provider").
			WithRole(role).
			WithKey(roleCfg.Provider)
	}

	apiKey := os.Getenv(providerCfg.APIKeyEnv)
	if apiKey == "" {
		return nil, errors.NewConfigError("API key environment variable not set").
			WithRole(role).
			WithKey(providerCfg.APIKeyEnv)
	}

	return llm.NewHTTPClient(roleCfg.Provider, roleCfg.Model, apiKey, providerCfg.BaseURL,
		llm.WithTemperature(c.LLM.Temperature),
		llm.WithTopP(c.LLM.TopP),
		llm.WithMaxTokens(c.LLM.MaxTokens),
		llm.WithTimeout(c.LLM.Timeout()),
		llm.WithRetryCount(c.LLM.RetryCount),
		llm.WithLogger(log),
	)
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	// Check XDG_CONFIG_HOME first
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "podium")
	}
	// Fall back to ~/.config/podium
	home, err := os.UserHomeDir()
	if err != nil {
		return ".podium"
	}
	return filepath.Join(home, ".config", "podium")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}
