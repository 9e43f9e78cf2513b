package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/podium-ai/podium/internal/agent"
	"github.com/podium-ai/podium/internal/config"
	"github.com/podium-ai/podium/internal/debate"
	"github.com/podium-ai/podium/internal/logging"
	"github.com/podium-ai/podium/internal/prompt"
)

var runCmd = &cobra.Command{
	Use:   "run <topic>",
	Short: "Run a debate on a topic",
	Long: `Run a complete debate on the given topic.

The debate proceeds through the moderator's introduction, opening
statements, cross-examination, free debate, and closing statements,
then the judge scores the rounds and delivers a verdict. The full
transcript and verdict are printed when the debate finishes.

Examples:
  podium run "AI will create more jobs than it destroys"
  podium run --rounds 1 "Remote work is better than office work"
  podium run --affirmative-model deepseek-chat --json "Cats are better than dogs"`,
	Args: cobra.ExactArgs(1),
	RunE: runDebate,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Int("rounds", -1, "number of free-debate rounds (0 skips the phase)")
	runCmd.Flags().String("prompts", "", "YAML file of prompt template overrides")
	runCmd.Flags().Bool("json", false, "print the result as JSON instead of a transcript")
	runCmd.Flags().String("log-file", "", "write debug logs to this file")
	runCmd.Flags().String("log-level", "", "log level: debug, info, warn, error")

	// Per-role model overrides; the role keeps its configured provider
	for _, role := range config.RoleNames() {
		runCmd.Flags().String(role+"-model", "", "model for the "+role+" role")
	}
}

func runDebate(cmd *cobra.Command, args []string) error {
	topic := args[0]

	applyRunOverrides(cmd)

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logging.NewLogger(cfg.Logging.File, cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	defer func() { _ = log.Close() }()

	prompts := prompt.NewStore(log)
	if cfg.Prompts.File != "" {
		prompts, err = prompt.Load(cfg.Prompts.File, log)
		if err != nil {
			return fmt.Errorf("failed to load prompts: %w", err)
		}
	}

	participants, err := buildParticipants(cfg, prompts, log)
	if err != nil {
		return err
	}

	orc := debate.NewOrchestrator(participants,
		debate.WithLogger(log),
		debate.WithMaxFreeDebateRounds(cfg.Debate.MaxFreeDebateRounds),
		debate.WithOpeningWordLimit(cfg.Debate.OpeningWordLimit),
		debate.WithClosingWordLimit(cfg.Debate.ClosingWordLimit),
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Running debate: %s\n", topic)
	fmt.Println("This may take several minutes depending on the models configured.")
	fmt.Println()

	result, runErr := orc.Run(ctx, topic)

	asJSON, _ := cmd.Flags().GetBool("json")
	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return err
		}
	} else {
		fmt.Print(renderResult(result))
	}

	if runErr != nil {
		return fmt.Errorf("debate did not finish: %w", runErr)
	}
	return nil
}

// applyRunOverrides pushes run flags into viper before the config is loaded,
// so overrides flow through validation like any other setting.
func applyRunOverrides(cmd *cobra.Command) {
	if rounds, _ := cmd.Flags().GetInt("rounds"); rounds >= 0 {
		viper.Set("debate.max_free_debate_rounds", rounds)
	}
	if promptsFile, _ := cmd.Flags().GetString("prompts"); promptsFile != "" {
		viper.Set("prompts.file", promptsFile)
	}
	if logFile, _ := cmd.Flags().GetString("log-file"); logFile != "" {
		viper.Set("logging.file", logFile)
	}
	if logLevel, _ := cmd.Flags().GetString("log-level"); logLevel != "" {
		viper.Set("logging.level", logLevel)
	}
	for _, role := range config.RoleNames() {
		if model, _ := cmd.Flags().GetString(role + "-model"); model != "" {
			viper.Set("roles."+role+".model", model)
		}
	}
}

// buildParticipants resolves a generation client per role and wraps each in
// its participant type.
func buildParticipants(cfg *config.Config, prompts *prompt.Store, log *logging.Logger) (debate.Participants, error) {
	moderatorClient, err := cfg.ClientForRole(config.RoleModerator, log.WithRole(config.RoleModerator))
	if err != nil {
		return debate.Participants{}, err
	}
	affirmativeClient, err := cfg.ClientForRole(config.RoleAffirmative, log.WithRole(config.RoleAffirmative))
	if err != nil {
		return debate.Participants{}, err
	}
	negativeClient, err := cfg.ClientForRole(config.RoleNegative, log.WithRole(config.RoleNegative))
	if err != nil {
		return debate.Participants{}, err
	}
	judgeClient, err := cfg.ClientForRole(config.RoleJudge, log.WithRole(config.RoleJudge))
	if err != nil {
		return debate.Participants{}, err
	}

	return debate.Participants{
		Moderator:   agent.NewModerator(moderatorClient, prompts),
		Affirmative: agent.NewDebater(debate.PositionAffirmative, affirmativeClient, prompts),
		Negative:    agent.NewDebater(debate.PositionNegative, negativeClient, prompts),
		Judge:       agent.NewJudge(judgeClient, prompts),
	}, nil
}
