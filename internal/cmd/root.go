package cmd

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/podium-ai/podium/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "podium",
	Short: "Multi-model AI debate orchestrator",
	Long: `Podium runs structured debates between AI models: a moderator
introduces the topic, two debaters argue opposing sides through openings,
cross-examination, free debate, and closings, and a judge scores each
round and delivers a final verdict.`,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.config/podium/config.yaml)")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
}

func initConfig() {
	// API keys conventionally live in a .env next to the working directory
	_ = godotenv.Load()

	// Set defaults first so they're available even without a config file
	config.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
		viper.AddConfigPath("$HOME/.config/podium")
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("PODIUM")
	// Replace dots with underscores for nested keys in env vars
	// e.g., PODIUM_DEBATE_MAX_FREE_DEBATE_ROUNDS for debate.max_free_debate_rounds
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file if it exists (ignore error if not found)
	_ = viper.ReadInConfig()
}
