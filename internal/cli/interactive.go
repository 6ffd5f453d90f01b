package cli

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/rshade/footprint/internal/config"
	"github.com/rshade/footprint/internal/logging"
	"github.com/rshade/footprint/internal/report"
	"github.com/rshade/footprint/internal/session"
	"github.com/rshade/footprint/internal/tui"
)

// ErrNotATerminal is returned when the interactive command is not attached
// to a terminal.
var ErrNotATerminal = errors.New("interactive mode requires a terminal; use estimate or plan instead")

// InteractiveParams holds the parameters for the interactive command.
// Exported for testing.
type InteractiveParams struct {
	Definitions DefinitionFlags
	Answers     AnswerFlags
	// Summary selects the format of the summary printed on exit; "none"
	// prints nothing.
	Summary string
}

// NewInteractiveCmd creates the "interactive" command, a terminal session that
// moves between answering questions and exploring ranked alternatives.
func NewInteractiveCmd() *cobra.Command {
	var params InteractiveParams

	cmd := &cobra.Command{
		Use:   "interactive",
		Short: "Answer the questionnaire and explore alternatives in a terminal UI",
		Long: `Starts an interactive session. Answers given with --answer or --answers-file
are preloaded. Press p to switch to planning once every visible question is
answered, Enter on a scenario to adopt it and Esc to return to the questions.

The final answers and footprint are printed when the session ends.`,
		Example: `  footprint interactive --questions questions.yaml --constants constants.yaml

  # Resume from a previous snapshot, print the final state as JSON
  footprint interactive --questions questions.yaml --constants constants.yaml \
    --answers-file snapshot.json --summary json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return executeInteractive(cmd, params)
		},
	}

	addDefinitionFlags(cmd, &params.Definitions)
	addAnswerFlags(cmd, &params.Answers)
	cmd.Flags().StringVar(&params.Summary, "summary", "table", "summary printed on exit (table, json or none)")

	return cmd
}

func executeInteractive(cmd *cobra.Command, params InteractiveParams) error {
	if !isTerminal(os.Stdin) || !isTerminal(os.Stdout) {
		return ErrNotATerminal
	}

	ctx := cmd.Context()
	log := logging.FromContext(ctx)
	cfg := config.GetGlobalConfig()

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

	log.Debug().Ctx(ctx).
		Str("operation", "interactive").
		Str("session_id", s.ID()).
		Msg("launching session TUI")

	program := tea.NewProgram(tui.NewSessionModel(ctx, s), tea.WithAltScreen(), tea.WithContext(ctx))
	finalModel, err := program.Run()
	if err != nil {
		return fmt.Errorf("running interactive TUI: %w", err)
	}
	if _, ok := finalModel.(*tui.SessionModel); !ok {
		return fmt.Errorf("unexpected model type: %T, expected *tui.SessionModel", finalModel)
	}

	return printSessionSummary(cmd, s, params.Summary)
}

// printSessionSummary writes the session's final state in the requested
// format. The JSON form is a session snapshot and can be fed back through
// --answers-file.
func printSessionSummary(cmd *cobra.Command, s *session.Session, format string) error {
	switch format {
	case "none":
		return nil
	case "json":
		snap, err := s.Snapshot(cmd.Context())
		if err != nil {
			return err
		}
		return report.EncodeJSON(cmd.OutOrStdout(), snap)
	case "", "table":
		cfg := config.GetGlobalConfig()
		return report.RenderResultTable(cmd.OutOrStdout(), s.Result(), report.Options{
			Format:        report.FormatTable,
			Precision:     cfg.Output.Precision,
			Equivalencies: cfg.Output.Equivalencies,
		})
	default:
		return fmt.Errorf("unsupported summary format %q (want table, json or none)", format)
	}
}
