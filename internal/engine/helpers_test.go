package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rshade/footprint/internal/questionnaire"
)

// travelQuestionnaire is a three-question fixture: a car gate, a distance
// question shown only to car owners, and a diet question.
func travelQuestionnaire() *questionnaire.Questionnaire {
	return questionnaire.New("1.0.0", "kgCO2e", []questionnaire.Question{
		{
			ID: "has_car", VariableName: "HAS_CAR", Formula: "0", SortKey: "01",
			Choices: []questionnaire.Choice{
				{Key: "car_yes", Value: "1"},
				{Key: "car_no", Value: "0"},
			},
		},
		{
			ID: "car_km", VariableName: "CAR_KM", Formula: "CAR_KM * CAR_FACTOR", SortKey: "02",
			DisplayCondition: []questionnaire.Condition{
				{VariableName: "HAS_CAR", Operator: questionnaire.OpStrictEqual, Value: "1"},
			},
			Choices: []questionnaire.Choice{
				{Key: "km_low", Value: "1000"},
				{Key: "km_high", Value: "5000"},
			},
		},
		{
			ID: "diet", VariableName: "MEALS", Formula: "MEALS * MEAL", SortKey: "03",
			Choices: []questionnaire.Choice{
				{Key: "diet_none", Value: "0"},
				{Key: "diet_some", Value: "10"},
			},
		},
	})
}

func travelConstants() questionnaire.Constants {
	return questionnaire.NewConstants(map[string]float64{"CAR_FACTOR": 0.2, "MEAL": 3})
}

func newTestEngine(t *testing.T, q *questionnaire.Questionnaire, c questionnaire.Constants, opts Options) *Engine {
	t.Helper()
	e, err := New(q, c, opts)
	require.NoError(t, err)
	return e
}
