package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rshade/footprint/internal/config"
	"github.com/rshade/footprint/internal/engine"
	"github.com/rshade/footprint/internal/logging"
)

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

// NewRootCmd creates the root Cobra command for the footprint CLI.
// It wires up configuration, logging, tracing and the estimate, plan,
// validate, interactive and config subcommands.
func NewRootCmd(ver string) *cobra.Command {
	return NewRootCmdWithEnv(ver, os.LookupEnv)
}

// NewRootCmdWithEnv creates the root command with an explicit env lookup for
// testability.
func NewRootCmdWithEnv(ver string, lookupEnv func(string) (string, bool)) *cobra.Command {
	var logResult *logging.LogPathResult

	cmd := &cobra.Command{
		Use:     "footprint",
		Short:   "Carbon footprint questionnaire and what-if planner",
		Long:    "footprint: estimate a carbon footprint from questionnaire answers and rank the choices that would change it most",
		Version: ver,
		Example: rootCmdExample,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, lookupEnv)
			if err != nil {
				return err
			}
			config.SetGlobalConfig(cfg)

			result := setupLogging(cmd)
			logResult = &result
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return cleanupLogging(cmd, logResult)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.PersistentFlags().String("config", "", "config file (default is $HOME/.footprint/config.yaml)")
	cmd.PersistentFlags().String("project-dir", "", "project directory holding .footprint/config.yaml")
	cmd.PersistentFlags().String("missing-choice", "",
		"handling of answers naming an unknown choice: strict or lenient (overrides config)")

	cmd.AddCommand(
		NewEstimateCmd(), NewPlanCmd(), NewValidateCmd(),
		NewInteractiveCmd(), newConfigCmd(),
	)

	return cmd
}

// loadConfig builds the effective config: an explicit --config file, or the
// global file with the project overlay merged on top, then environment
// variables, then flags.
func loadConfig(cmd *cobra.Command, lookupEnv func(string) (string, bool)) (*config.Config, error) {
	ctx := cmd.Context()

	var cfg *config.Config
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		config.SetResolvedProjectDir("")
		cfg = config.Default()
		cfg.SetConfigPath(path)
		if err := cfg.Load(); err != nil {
			return nil, err
		}
	} else {
		flagDir, _ := cmd.Flags().GetString("project-dir")
		cwd, err := os.Getwd()
		if err != nil {
			cwd = "."
		}
		projectDir := config.ResolveProjectDir(ctx, flagDir, cwd)
		config.SetResolvedProjectDir(projectDir)
		cfg = config.NewWithProjectDir(ctx, projectDir)
	}

	cfg.ApplyEnvOverrides(lookupEnv)

	if cmd.Flags().Changed("missing-choice") {
		v, _ := cmd.Flags().GetString("missing-choice")
		if _, err := engine.ParseMissingChoicePolicy(v); err != nil {
			return nil, err
		}
		cfg.Engine.MissingChoice = v
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

const rootCmdExample = `  # Estimate a footprint from answers given as flags
  footprint estimate --questions questions.yaml --constants constants.yaml \
    --answer has_car=car_yes --answer car_distance=km_low

  # Rank every single-answer change by its effect on the footprint
  footprint plan --questions questions.yaml --constants constants.yaml \
    --answers-file answers.yaml --limit 5

  # Export the ranked scenarios to a workbook
  footprint plan --questions questions.yaml --constants constants.yaml \
    --answers-file answers.yaml --xlsx plan.xlsx

  # Check a questionnaire for authoring errors
  footprint validate --questions questions.hcl --constants constants.hcl

  # Answer interactively and explore alternatives
  footprint interactive --questions questions.toml --constants constants.toml

  # Initialize configuration
  footprint config init`

// newConfigCmd creates the config command group with configuration subcommands.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Configuration management commands"}
	cmd.AddCommand(NewConfigInitCmd(), NewConfigValidateCmd())
	return cmd
}
