package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rshade/footprint/internal/engine"
	"github.com/rshade/footprint/internal/questionnaire"
)

// TestRenderDelta tests the delta visualization component.
func TestRenderDelta(t *testing.T) {
	t.Run("renders increase with plus sign and up arrow", func(t *testing.T) {
		result := RenderDelta(74.90)

		assert.Contains(t, result, "+74.90")
		assert.Contains(t, result, IconArrowUp)
	})

	t.Run("renders reduction with down arrow", func(t *testing.T) {
		result := RenderDelta(-1000)

		assert.NotContains(t, result, "+")
		assert.Contains(t, result, "-1,000.00")
		assert.Contains(t, result, IconArrowDown)
	})

	t.Run("renders zero with right arrow", func(t *testing.T) {
		result := RenderDelta(0)

		assert.Contains(t, result, IconArrowRight)
		assert.Contains(t, result, "0.00")
	})

	t.Run("sub-precision values render as no change", func(t *testing.T) {
		assert.Contains(t, RenderDelta(0.001), IconArrowRight)
		assert.NotContains(t, RenderDelta(-0.001), "-")
	})
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in     string
		maxLen int
		want   string
	}{
		{in: "short", maxLen: 10, want: "short"},
		{in: "a longer question text", maxLen: 10, want: "a longe..."},
		{in: "abcdef", maxLen: 3, want: "abc"},
		{in: "größenordnung", maxLen: 8, want: "größe..."},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, truncate(tt.in, tt.maxLen))
	}
}

func TestRenderSessionHeader(t *testing.T) {
	t.Run("shows total and equivalencies", func(t *testing.T) {
		out := RenderSessionHeader(SessionStateQuestionnaire, &engine.Result{Footprint: 1000, Unit: "kgCO2e"})

		assert.Contains(t, out, "Footprint Questionnaire")
		assert.Contains(t, out, "1,000.00 kgCO2e")
		assert.Contains(t, out, "Equivalent to driving")
	})

	t.Run("unknown unit has no equivalency line", func(t *testing.T) {
		out := RenderSessionHeader(SessionStatePlanning, &engine.Result{Footprint: 12, Unit: "points"})

		assert.Contains(t, out, "Footprint Planning")
		assert.Contains(t, out, "12.00 points")
		assert.NotContains(t, out, "Equivalent")
	})

	t.Run("nil result", func(t *testing.T) {
		assert.Contains(t, RenderSessionHeader(SessionStateQuestionnaire, nil), "No result yet")
	})
}

func TestRenderQuestionList(t *testing.T) {
	visible := []questionnaire.Question{
		{ID: "heating", Text: "How do you heat?", Choices: []questionnaire.Choice{{Key: "gas", Text: "Natural gas"}}},
		{ID: "flights"},
	}
	result := &engine.Result{Breakdown: []engine.Contribution{{QuestionID: "heating", Value: 1500}}}

	out := RenderQuestionList(visible, questionnaire.Answers{"heating": "gas"}, result, 1)

	assert.Contains(t, out, "How do you heat?")
	assert.Contains(t, out, "Natural gas")
	assert.Contains(t, out, "1,500.00")
	assert.Contains(t, out, "flights")
	assert.Contains(t, out, "(unanswered)")
	assert.Contains(t, out, IconArrowRight+" "+"flights")

	assert.Contains(t, RenderQuestionList(nil, nil, nil, 0), "No questions to answer")
}

func TestScenarioRows(t *testing.T) {
	rows := ScenarioRows([]engine.Scenario{
		{
			QuestionID: "heating", CurrentChoiceKey: "gas", CandidateChoiceKey: "heat_pump",
			CandidateText: "Heat pump", CurrentFootprint: 2000, CandidateFootprint: 1250,
		},
		{QuestionID: "flights", CurrentChoiceKey: "none", CandidateChoiceKey: "some", CandidateFootprint: 500},
	})

	assert.Len(t, rows, 2)
	assert.Equal(t, "heating", rows[0][0])
	assert.Equal(t, "Heat pump", rows[0][2])
	assert.Equal(t, "1,250.00", rows[0][3])
	assert.Contains(t, rows[0][4], "-750.00")
	assert.Equal(t, "-37.5%", rows[0][5])
	assert.Equal(t, "n/a", rows[1][5])
}

func TestRenderScenarioSection_Empty(t *testing.T) {
	out := RenderScenarioSection(NewScenarioTable(nil, 5), nil, &engine.Result{})
	assert.Contains(t, out, "No alternative choices to explore.")
}

func TestRenderSessionHelp(t *testing.T) {
	assert.Contains(t, RenderSessionHelp(SessionStateQuestionnaire), "p: Plan")
	assert.Contains(t, RenderSessionHelp(SessionStatePlanning), "Enter: Adopt choice")
}
