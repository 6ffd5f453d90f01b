package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/rshade/footprint/internal/engine"
	"github.com/rshade/footprint/internal/greenops"
	"github.com/rshade/footprint/internal/questionnaire"
)

// Column widths for the question list and scenario table.
const (
	questionTextWidth  = 40
	choiceTextWidth    = 24
	footprintPrecision = 2

	colQuestionWidth  = 30
	colChoiceWidth    = 18
	colFootprintWidth = 14
	colDeltaWidth     = 16
	colPercentWidth   = 9
)

// RenderSessionHeader renders the title bar, the footprint total and, when
// the unit is a CO2e mass, an equivalency line.
func RenderSessionHeader(state SessionState, result *engine.Result) string {
	var sb strings.Builder

	title := "Footprint Questionnaire"
	if state == SessionStatePlanning {
		title = "Footprint Planning"
	}
	sb.WriteString(TitleStyle.Render(title))
	sb.WriteString("\n\n")

	if result == nil {
		sb.WriteString(MutedStyle.Italic(true).Render("No result yet"))
		return sb.String()
	}

	sb.WriteString(LabelStyle.Render("Footprint: "))
	sb.WriteString(ValueStyle.Render(formatAmount(result.Footprint, result.Unit)))

	if out, err := greenops.Calculate(greenops.Amount{Value: result.Footprint, Unit: result.Unit}); err == nil &&
		!out.IsEmpty {
		sb.WriteString("\n")
		sb.WriteString(MutedStyle.Render(out.DisplayText))
	}
	return sb.String()
}

// RenderQuestionList renders the visible questions with their current answers
// and contributions. The focused row is marked with an arrow.
func RenderQuestionList(
	visible []questionnaire.Question,
	answers questionnaire.Answers,
	result *engine.Result,
	focusedRow int,
) string {
	if len(visible) == 0 {
		return MutedStyle.Italic(true).Render("No questions to answer")
	}

	contributions := make(map[string]engine.Contribution)
	if result != nil {
		for _, c := range result.Breakdown {
			contributions[c.QuestionID] = c
		}
	}

	var sb strings.Builder
	headerStyle := lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	sb.WriteString(headerStyle.Render("Questions:"))
	sb.WriteString("\n")

	for i, q := range visible {
		sb.WriteString(renderQuestionRow(q, answers[q.ID], contributions[q.ID], i == focusedRow))
		sb.WriteString("\n")
	}
	return sb.String()
}

func renderQuestionRow(q questionnaire.Question, choiceKey string, c engine.Contribution, focused bool) string {
	var sb strings.Builder

	if focused {
		sb.WriteString(IconArrowRight + " ")
	} else {
		sb.WriteString("  ")
	}

	sb.WriteString(LabelStyle.Render(fmt.Sprintf("%-*s ", questionTextWidth, truncate(displayText(q), questionTextWidth))))

	if choiceKey == "" {
		sb.WriteString(MutedStyle.Italic(true).Render(fmt.Sprintf("%-*s", choiceTextWidth, "(unanswered)")))
		return sb.String()
	}

	choice, _ := q.Choice(choiceKey)
	label := choice.Text
	if label == "" {
		label = choice.Key
	}
	chosen := lipgloss.NewStyle().Foreground(ColorHighlight).Bold(focused)
	sb.WriteString(chosen.Render(fmt.Sprintf("%-*s", choiceTextWidth, truncate(label, choiceTextWidth))))

	if c.Err != nil {
		sb.WriteString(ErrorStyle.Render(" formula error"))
	} else {
		sb.WriteString(ValueStyle.Render(" " + greenops.FormatFloat(c.Value, footprintPrecision)))
	}
	return sb.String()
}

// NewScenarioTable creates and configures a table model for ranked scenarios.
func NewScenarioTable(scenarios []engine.Scenario, height int) table.Model {
	columns := []table.Column{
		{Title: "Question", Width: colQuestionWidth},
		{Title: "Current", Width: colChoiceWidth},
		{Title: "Candidate", Width: colChoiceWidth},
		{Title: "Footprint", Width: colFootprintWidth},
		{Title: "Delta", Width: colDeltaWidth},
		{Title: "Delta %", Width: colPercentWidth},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(ScenarioRows(scenarios)),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	s := table.DefaultStyles()
	s.Header = TableHeaderStyle
	s.Selected = TableSelectedStyle
	t.SetStyles(s)

	return t
}

// ScenarioRows converts scenarios to table rows in their ranked order.
func ScenarioRows(scenarios []engine.Scenario) []table.Row {
	rows := make([]table.Row, len(scenarios))
	for i, s := range scenarios {
		question := s.QuestionText
		if question == "" {
			question = s.QuestionID
		}
		candidate := s.CandidateText
		if candidate == "" {
			candidate = s.CandidateChoiceKey
		}
		rows[i] = table.Row{
			truncate(question, colQuestionWidth),
			truncate(s.CurrentChoiceKey, colChoiceWidth),
			truncate(candidate, colChoiceWidth),
			greenops.FormatFloat(s.CandidateFootprint, footprintPrecision),
			RenderDelta(s.Delta()),
			s.DeltaPercent().String(),
		}
	}
	return rows
}

// RenderScenarioSection renders the scenario table, or a note when every
// question has a single choice, followed by the equivalency of the
// highlighted scenario.
func RenderScenarioSection(t table.Model, scenarios []engine.Scenario, result *engine.Result) string {
	if len(scenarios) == 0 {
		return MutedStyle.Italic(true).Render("No alternative choices to explore.")
	}

	var sb strings.Builder
	sb.WriteString(t.View())

	cursor := t.Cursor()
	if result == nil || cursor < 0 || cursor >= len(scenarios) {
		return sb.String()
	}
	out, err := greenops.CalculateDelta(scenarios[cursor].Delta(), result.Unit)
	if err == nil && !out.IsEmpty {
		sb.WriteString("\n")
		sb.WriteString(MutedStyle.Render(out.DisplayText))
	}
	return sb.String()
}

// RenderSessionHelp renders the keyboard shortcut help text for a state.
func RenderSessionHelp(state SessionState) string {
	var shortcuts []string
	if state == SessionStatePlanning {
		shortcuts = []string{
			"↑/↓: Navigate",
			"Enter: Adopt choice",
			"Esc: Back to questions",
			"q: Quit",
		}
	} else {
		shortcuts = []string{
			"↑/↓: Navigate",
			"←/→: Change answer",
			"1-9: Pick choice",
			"x: Clear",
			"p: Plan",
			"q: Quit",
		}
	}
	return MutedStyle.Render(strings.Join(shortcuts, " | "))
}

func displayText(q questionnaire.Question) string {
	if q.Text != "" {
		return q.Text
	}
	return q.ID
}

func formatAmount(v float64, unit string) string {
	s := greenops.FormatFloat(v, footprintPrecision)
	if unit != "" {
		s += " " + unit
	}
	return s
}
