package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rshade/footprint/internal/config"
	"github.com/rshade/footprint/internal/logging"
	"github.com/rshade/footprint/internal/report"
)

// EstimateParams holds the parameters for the estimate command execution.
// Exported for testing.
type EstimateParams struct {
	Definitions     DefinitionFlags
	Answers         AnswerFlags
	Output          string
	ShowAssignments bool
	Equivalencies   bool
}

// NewEstimateCmd creates the "estimate" command, which computes the footprint
// for one answer set.
func NewEstimateCmd() *cobra.Command {
	var params EstimateParams

	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Compute the footprint for a set of answers",
		Long: `Resolve the answers against the questionnaire and constants, evaluate the
formula of every visible question and print the total with a per-question
breakdown. Formulas that fail to evaluate contribute zero and are flagged.`,
		Example: `  # Answers as flags
  footprint estimate --questions questions.yaml --constants constants.yaml \
    --answer has_car=car_yes --answer car_distance=km_low

  # Answers from a file, JSON output with resolved variables
  footprint estimate --questions questions.yaml --constants constants.yaml \
    --answers-file answers.yaml --output json --show-assignments`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return executeEstimate(cmd, params)
		},
	}

	addDefinitionFlags(cmd, &params.Definitions)
	addAnswerFlags(cmd, &params.Answers)
	cmd.Flags().StringVar(&params.Output, "output", "", "Output format (table, json, ndjson; default from config)")
	cmd.Flags().BoolVar(&params.ShowAssignments, "show-assignments", false, "include resolved variable values")
	cmd.Flags().BoolVar(&params.Equivalencies, "equivalencies", false,
		"add everyday equivalencies for CO2e totals (overrides config)")

	return cmd
}

func executeEstimate(cmd *cobra.Command, params EstimateParams) error {
	ctx := cmd.Context()
	log := logging.FromContext(ctx)
	start := time.Now()
	cfg := config.GetGlobalConfig()

	format, err := report.ParseFormat(outputFormat(params.Output, cfg))
	if err != nil {
		return err
	}

	eng, err := newEngine(ctx, params.Definitions, cfg)
	if err != nil {
		return err
	}
	answers, err := CollectAnswers(params.Answers)
	if err != nil {
		return err
	}

	log.Debug().Ctx(ctx).
		Str("operation", "estimate").
		Int("answer_count", len(answers)).
		Str("policy", string(eng.Policy())).
		Msg("starting estimate")

	result, err := eng.Compute(ctx, answers)
	if err != nil {
		return fmt.Errorf("computing footprint: %w", err)
	}

	if pending := result.Unanswered(answers); len(pending) > 0 && format == report.FormatTable {
		cmd.PrintErrf("Note: unanswered visible questions: %s\n", strings.Join(pending, ", "))
	}

	opts := report.Options{
		Format:          format,
		Precision:       cfg.Output.Precision,
		ShowAssignments: params.ShowAssignments,
		Equivalencies:   params.Equivalencies || cfg.Output.Equivalencies,
	}
	if err = report.RenderResult(cmd.OutOrStdout(), result, opts); err != nil {
		return err
	}

	log.Info().Ctx(ctx).
		Str("operation", "estimate").
		Float64("footprint", result.Footprint).
		Dur("duration_ms", time.Since(start)).
		Msg("estimate complete")
	return nil
}
