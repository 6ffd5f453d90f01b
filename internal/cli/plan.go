package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rshade/footprint/internal/cli/pagination"
	"github.com/rshade/footprint/internal/config"
	"github.com/rshade/footprint/internal/logging"
	"github.com/rshade/footprint/internal/report"
	"github.com/rshade/footprint/internal/session"
)

// PlanParams holds the parameters for the plan command execution.
// Exported for testing.
type PlanParams struct {
	Definitions   DefinitionFlags
	Answers       AnswerFlags
	Output        string
	Limit         int
	Offset        int
	Sort          string
	XLSX          string
	Equivalencies bool
}

// NewPlanCmd creates the "plan" command, which ranks every single-answer
// change by the footprint it would produce.
func NewPlanCmd() *cobra.Command {
	var params PlanParams

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Rank alternative answers by their footprint",
		Long: `For every visible question, substitute each choice that is not already
selected anywhere in the answer set, recompute the whole footprint and list
the results from lowest to highest candidate footprint.

Every visible question must be answered before planning.`,
		Example: `  # Top five reductions
  footprint plan --questions questions.yaml --constants constants.yaml \
    --answers-file answers.yaml --limit 5

  # Largest relative change first
  footprint plan --questions questions.yaml --constants constants.yaml \
    --answers-file answers.yaml --sort percent:asc

  # Export all scenarios to Excel
  footprint plan --questions questions.yaml --constants constants.yaml \
    --answers-file answers.yaml --xlsx plan.xlsx`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return executePlan(cmd, params)
		},
	}

	addDefinitionFlags(cmd, &params.Definitions)
	addAnswerFlags(cmd, &params.Answers)
	cmd.Flags().StringVar(&params.Output, "output", "", "Output format (table, json, ndjson; default from config)")
	cmd.Flags().IntVar(&params.Limit, "limit", pagination.DefaultLimit, "maximum scenarios to show (0 = all)")
	cmd.Flags().IntVar(&params.Offset, "offset", pagination.DefaultOffset, "scenarios to skip")
	cmd.Flags().StringVar(&params.Sort, "sort", "",
		"reorder scenarios: footprint, delta, percent or question, optionally :asc or :desc")
	cmd.Flags().StringVar(&params.XLSX, "xlsx", "", "also write every scenario to this Excel workbook")
	cmd.Flags().BoolVar(&params.Equivalencies, "equivalencies", false,
		"add everyday equivalencies for CO2e deltas (overrides config)")

	return cmd
}

func executePlan(cmd *cobra.Command, params PlanParams) error {
	ctx := cmd.Context()
	log := logging.FromContext(ctx)
	start := time.Now()
	cfg := config.GetGlobalConfig()

	window := pagination.Params{Limit: params.Limit, Offset: params.Offset, Sort: params.Sort}
	if err := window.Validate(); err != nil {
		return err
	}
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

	s, err := session.New(ctx, eng, answers)
	if err != nil {
		return err
	}
	if err = s.EnterPlanning(ctx); err != nil {
		return err
	}

	plan, err := eng.Plan(ctx, s.Answers())
	if err != nil {
		return fmt.Errorf("generating scenarios: %w", err)
	}

	if params.XLSX != "" {
		if err = report.SaveWorkbook(params.XLSX, plan); err != nil {
			return err
		}
		cmd.PrintErrf("Scenario workbook written to %s\n", params.XLSX)
	}

	sorted, err := pagination.NewScenarioSorter().SortExpr(plan.Scenarios, params.Sort)
	if err != nil {
		return err
	}
	view := report.PlanView{
		Plan:      plan,
		Scenarios: pagination.Apply(window, sorted),
		Meta:      pagination.NewMeta(window, len(sorted)),
	}

	opts := report.Options{
		Format:        format,
		Precision:     cfg.Output.Precision,
		Equivalencies: params.Equivalencies || cfg.Output.Equivalencies,
	}
	if err = report.RenderPlan(cmd.OutOrStdout(), view, opts); err != nil {
		return err
	}

	log.Info().Ctx(ctx).
		Str("operation", "plan").
		Str("session_id", s.ID()).
		Int("scenario_count", len(plan.Scenarios)).
		Dur("duration_ms", time.Since(start)).
		Msg("plan complete")
	return nil
}
