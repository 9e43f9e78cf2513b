package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/podium-ai/podium/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or modify Podium configuration",
	Long: `View or modify Podium configuration.

Without arguments, displays the current configuration.
Use subcommands to create a config file or show its path.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default config file",
	Long:  `Create a default config file at ~/.config/podium/config.yaml with all available options.`,
	RunE:  runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the config file path",
	RunE:  runConfigPath,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fmt.Println("Current configuration:")
	fmt.Println()

	// Show where config is being read from
	if viper.ConfigFileUsed() != "" {
		fmt.Printf("Config file: %s\n", viper.ConfigFileUsed())
	} else {
		fmt.Printf("Config file: (none - using defaults)\n")
	}
	fmt.Println()

	fmt.Println("llm:")
	fmt.Printf("  temperature: %.2f\n", cfg.LLM.Temperature)
	fmt.Printf("  max_tokens: %d\n", cfg.LLM.MaxTokens)
	fmt.Printf("  top_p: %.2f\n", cfg.LLM.TopP)
	fmt.Printf("  timeout_seconds: %d\n", cfg.LLM.TimeoutSeconds)
	fmt.Printf("  retry_count: %d\n", cfg.LLM.RetryCount)

	fmt.Println("providers:")
	providerNames := make([]string, 0, len(cfg.Providers))
	for name := range cfg.Providers {
		providerNames = append(providerNames, name)
	}
	sort.Strings(providerNames)
	for _, name := range providerNames {
		p := cfg.Providers[name]
		keySet := "not set"
		if os.Getenv(p.APIKeyEnv) != "" {
			keySet = "set"
		}
		fmt.Printf("  %s:\n", name)
		fmt.Printf("    base_url: %s\n", p.BaseURL)
		fmt.Printf("    api_key_env: %s (%s)\n", p.APIKeyEnv, keySet)
	}

	fmt.Println("roles:")
	for _, role := range config.RoleNames() {
		r := cfg.Roles[role]
		fmt.Printf("  %s: %s / %s\n", role, r.Provider, r.Model)
	}

	fmt.Println("debate:")
	fmt.Printf("  max_free_debate_rounds: %d\n", cfg.Debate.MaxFreeDebateRounds)
	fmt.Printf("  opening_word_limit: %d\n", cfg.Debate.OpeningWordLimit)
	fmt.Printf("  closing_word_limit: %d\n", cfg.Debate.ClosingWordLimit)

	fmt.Println("logging:")
	fmt.Printf("  level: %s\n", cfg.Logging.Level)
	if cfg.Logging.File != "" {
		fmt.Printf("  file: %s\n", cfg.Logging.File)
	} else {
		fmt.Printf("  file: (stderr)\n")
	}

	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	configDir := config.ConfigDir()
	configFile := config.ConfigFile()

	// Check if config file already exists
	if _, err := os.Stat(configFile); err == nil {
		return fmt.Errorf("config file already exists at %s", configFile)
	}

	// Create config directory
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Generate a commented config file
	configContent := `# Podium Configuration

# Generation parameters shared by all roles
llm:
  temperature: 0.7
  max_tokens: 4000
  top_p: 0.9
  # Per-request timeout in seconds
  timeout_seconds: 120
  # Total attempts per generation call
  retry_count: 3

# OpenAI-compatible provider endpoints. API keys are read from the named
# environment variables (a .env file in the working directory also works).
providers:
  deepseek:
    base_url: https://api.deepseek.com/v1
    api_key_env: DEEPSEEK_API_KEY
  dashscope:
    base_url: https://dashscope.aliyuncs.com/compatible-mode/v1
    api_key_env: DASHSCOPE_API_KEY

# Which provider and model back each debate role
roles:
  affirmative:
    provider: deepseek
    model: deepseek-reasoner
  negative:
    provider: deepseek
    model: deepseek-reasoner
  judge:
    provider: deepseek
    model: deepseek-reasoner
  moderator:
    provider: deepseek
    model: deepseek-chat

# Debate structure
debate:
  # Free-debate rounds (0 skips the phase)
  max_free_debate_rounds: 3
  opening_word_limit: 800
  closing_word_limit: 500

# Logging (JSON lines)
logging:
  # debug, info, warn, error
  level: info
  # Empty logs to stderr
  file: ""

# Prompt template overrides (optional YAML file merged over the defaults)
prompts:
  file: ""
`

	if err := os.WriteFile(configFile, []byte(configContent), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Printf("Created config file at %s\n", configFile)
	fmt.Println("Edit this file to customize Podium's behavior.")

	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	configFile := config.ConfigFile()

	if viper.ConfigFileUsed() != "" {
		fmt.Printf("Active config: %s\n", viper.ConfigFileUsed())
	} else {
		fmt.Printf("Default path: %s (not created)\n", configFile)
	}

	// Also show config search paths
	fmt.Println("\nSearch paths:")
	fmt.Printf("  1. %s\n", filepath.Join(config.ConfigDir(), "config.yaml"))
	fmt.Printf("  2. $HOME/.config/podium/config.yaml\n")
	fmt.Printf("  3. ./config.yaml (current directory)\n")
	fmt.Println("\nEnvironment variables: PODIUM_* (e.g., PODIUM_DEBATE_MAX_FREE_DEBATE_ROUNDS)")

	return nil
}
