package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/rshade/footprint/internal/config"
)

// NewConfigValidateCmd creates the config validate command for validating configuration.
func NewConfigValidateCmd() *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the effective configuration",
		Long: `Validates the configuration in effect for this invocation: the global
~/.footprint/config.yaml (or --config), the project overlay, and FOOTPRINT_*
environment overrides.

This includes:
- Output format and precision
- Missing-choice policy
- Memo size`,
		Example: `  # Validate current configuration
  footprint config validate

  # Validate and show detailed information
  footprint config validate --verbose`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigValidate(cmd, verbose)
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show detailed validation information")

	return cmd
}

// runConfigValidate checks the effective configuration.
func runConfigValidate(cmd *cobra.Command, verbose bool) error {
	cfg := config.GetGlobalConfig()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	cmd.Printf("✅ Configuration is valid\n")
	if !verbose {
		return nil
	}

	cmd.Println()
	cmd.Println("Configuration details:")
	for _, row := range configDetailRows(cfg) {
		cmd.Printf("  %s: %s\n", row[0], row[1])
	}
	return nil
}

// configDetailRows lists the effective settings as label/value pairs.
// Optional settings are omitted when unset.
func configDetailRows(cfg *config.Config) [][2]string {
	rows := [][2]string{{"Config file", cfg.ConfigPath()}}
	if dir := config.GetResolvedProjectDir(); dir != "" {
		rows = append(rows, [2]string{"Project directory", dir})
	}
	rows = append(rows,
		[2]string{"Output format", cfg.Output.DefaultFormat},
		[2]string{"Output precision", strconv.Itoa(cfg.Output.Precision)},
		[2]string{"Equivalencies", strconv.FormatBool(cfg.Output.Equivalencies)},
		[2]string{"Logging level", cfg.Logging.Level},
		[2]string{"Log file", cfg.Logging.File},
		[2]string{"Missing choice policy", cfg.Engine.MissingChoice},
		[2]string{"Memo size", strconv.Itoa(cfg.EffectiveMemoSize())},
	)
	if q := cfg.Questionnaire; q.Questions != "" || q.Constants != "" {
		rows = append(rows, [2]string{"Questions", q.Questions}, [2]string{"Constants", q.Constants})
	}
	return rows
}
