package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/footprint/internal/engine"
	"github.com/rshade/footprint/internal/questionnaire"
	"github.com/rshade/footprint/internal/session"
)

func newTestSession(t *testing.T, initial questionnaire.Answers) *session.Session {
	t.Helper()
	q := questionnaire.New("1.0.0", "kgCO2e", []questionnaire.Question{
		{
			ID: "has_car", Text: "Do you own a car?", VariableName: "HAS_CAR", Formula: "0", SortKey: "01",
			Choices: []questionnaire.Choice{{Key: "car_yes", Value: "1"}, {Key: "car_no", Value: "0"}},
		},
		{
			ID: "car_km", VariableName: "CAR_KM", Formula: "CAR_KM * FACTOR", SortKey: "02",
			DisplayCondition: []questionnaire.Condition{
				{VariableName: "HAS_CAR", Operator: questionnaire.OpStrictEqual, Value: "1"},
			},
			Choices: []questionnaire.Choice{{Key: "km_low", Value: "100"}, {Key: "km_high", Value: "500"}},
		},
	})
	eng, err := engine.New(q, questionnaire.NewConstants(map[string]float64{"FACTOR": 2}), engine.Options{})
	require.NoError(t, err)
	s, err := session.New(context.Background(), eng, initial)
	require.NoError(t, err)
	return s
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press sends msg and runs the resulting command chain until it settles.
func press(t *testing.T, m *SessionModel, msg tea.Msg) {
	t.Helper()
	_, cmd := m.Update(msg)
	for cmd != nil {
		next := cmd()
		if _, ok := next.(tea.QuitMsg); ok {
			return
		}
		_, cmd = m.Update(next)
	}
}

func TestNewSessionModel(t *testing.T) {
	m := NewSessionModel(context.Background(), newTestSession(t, nil))

	require.NotNil(t, m)
	assert.Equal(t, SessionStateQuestionnaire, m.State())
	assert.Nil(t, m.Init())

	view := m.View()
	assert.Contains(t, view, "Footprint Questionnaire")
	assert.Contains(t, view, "Do you own a car?")
	assert.Contains(t, view, "(unanswered)")
}

func TestSessionModel_Quit(t *testing.T) {
	for _, msg := range []tea.KeyMsg{{Type: tea.KeyCtrlC}, runes("q")} {
		m := NewSessionModel(context.Background(), newTestSession(t, nil))
		_, cmd := m.Update(msg)
		require.NotNil(t, cmd)
		assert.Equal(t, SessionStateQuitting, m.State())
		assert.Empty(t, m.View())
	}
}

func TestSessionModel_ChangeAnswer(t *testing.T) {
	tests := []struct {
		name string
		key  tea.KeyMsg
		want string
	}{
		{name: "right picks first choice", key: tea.KeyMsg{Type: tea.KeyRight}, want: "car_yes"},
		{name: "left picks last choice", key: tea.KeyMsg{Type: tea.KeyLeft}, want: "car_no"},
		{name: "digit picks by position", key: runes("2"), want: "car_no"},
		{name: "enter cycles", key: tea.KeyMsg{Type: tea.KeyEnter}, want: "car_yes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSession(t, nil)
			m := NewSessionModel(context.Background(), s)

			_, cmd := m.Update(tt.key)
			require.NotNil(t, cmd)
			assert.True(t, m.loading)
			assert.Contains(t, m.View(), "Recalculating")

			m.Update(cmd())
			assert.False(t, m.loading)
			assert.Equal(t, tt.want, s.Answers()["has_car"])
		})
	}
}

func TestSessionModel_CycleWraps(t *testing.T) {
	s := newTestSession(t, questionnaire.Answers{"has_car": "car_no"})
	m := NewSessionModel(context.Background(), s)

	press(t, m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, "car_yes", s.Answers()["has_car"])
	press(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, "car_no", s.Answers()["has_car"])
}

func TestSessionModel_DigitOutOfRangeIgnored(t *testing.T) {
	m := NewSessionModel(context.Background(), newTestSession(t, nil))
	_, cmd := m.Update(runes("7"))
	assert.Nil(t, cmd)
}

func TestSessionModel_NavigateAndClear(t *testing.T) {
	s := newTestSession(t, questionnaire.Answers{"has_car": "car_yes", "car_km": "km_low"})
	m := NewSessionModel(context.Background(), s)

	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, m.focusedRow)
	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, m.focusedRow, "stops at the last visible question")

	press(t, m, runes("x"))
	_, answered := s.Answers()["car_km"]
	assert.False(t, answered)

	m.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 0, m.focusedRow)
}

func TestSessionModel_FocusClampedWhenQuestionHides(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t, questionnaire.Answers{"has_car": "car_yes"})
	m := NewSessionModel(ctx, s)
	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	require.Equal(t, 1, m.focusedRow)

	require.NoError(t, s.SetAnswer(ctx, "has_car", "car_no"))
	m.Update(answerAppliedMsg{})

	assert.Equal(t, 0, m.focusedRow)
}

func TestSessionModel_PlanningGate(t *testing.T) {
	s := newTestSession(t, questionnaire.Answers{"has_car": "car_yes"})
	m := NewSessionModel(context.Background(), s)

	_, cmd := m.Update(runes("p"))

	assert.Nil(t, cmd)
	assert.Equal(t, SessionStateQuestionnaire, m.State())
	assert.Equal(t, session.ModeQuestionnaire, s.Mode())
	assert.Contains(t, m.View(), "Answer these first: car_km")
}

func TestSessionModel_PlanningFlow(t *testing.T) {
	s := newTestSession(t, questionnaire.Answers{"has_car": "car_yes", "car_km": "km_high"})
	m := NewSessionModel(context.Background(), s)

	press(t, m, runes("p"))

	require.Equal(t, SessionStatePlanning, m.State())
	assert.Equal(t, session.ModePlanning, s.Mode())
	require.Len(t, m.scenarios, 2)
	assert.Equal(t, "car_no", m.scenarios[0].CandidateChoiceKey)
	assert.Equal(t, "km_low", m.scenarios[1].CandidateChoiceKey)

	view := m.View()
	assert.Contains(t, view, "Footprint Planning")
	assert.Contains(t, view, "1,000.00 kgCO2e")
	assert.Contains(t, view, "car_no")
	assert.Contains(t, view, IconArrowDown)

	t.Run("enter adopts the highlighted scenario", func(t *testing.T) {
		press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

		assert.Equal(t, "car_no", s.Answers()["has_car"])
		assert.Equal(t, SessionStatePlanning, m.State())
		require.Len(t, m.scenarios, 1)
		assert.Equal(t, "car_yes", m.scenarios[0].CandidateChoiceKey)
		assert.InDelta(t, 1000.0, m.scenarios[0].CandidateFootprint, 1e-9)
	})

	t.Run("esc returns to the questionnaire", func(t *testing.T) {
		m.Update(tea.KeyMsg{Type: tea.KeyEsc})

		assert.Equal(t, SessionStateQuestionnaire, m.State())
		assert.Equal(t, session.ModeQuestionnaire, s.Mode())
	})
}

func TestSessionModel_InitInPlanningLoadsScenarios(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t, questionnaire.Answers{"has_car": "car_yes", "car_km": "km_low"})
	require.NoError(t, s.EnterPlanning(ctx))

	m := NewSessionModel(ctx, s)
	require.Equal(t, SessionStatePlanning, m.State())

	cmd := m.Init()
	require.NotNil(t, cmd)
	m.Update(cmd())
	assert.Len(t, m.scenarios, 2)
}

func TestSessionModel_ErrorState(t *testing.T) {
	m := NewSessionModel(context.Background(), newTestSession(t, nil))

	m.Update(answerAppliedMsg{err: errors.New("boom")})

	assert.Equal(t, SessionStateError, m.State())
	assert.Contains(t, m.View(), "Error: boom")
}

func TestSessionModel_WindowSize(t *testing.T) {
	m := NewSessionModel(context.Background(), newTestSession(t, nil))

	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	assert.Equal(t, 120, m.width)
	assert.Equal(t, 40, m.height)
	assert.Equal(t, 40-tableChromeHeight, m.tableHeight())
}
