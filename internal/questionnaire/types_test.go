package questionnaire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOperator_Normalize(t *testing.T) {
	assert.Equal(t, OpEqual, OpStrictEqual.Normalize())
	assert.Equal(t, OpNotEqual, OpStrictNotEqual.Normalize())
	assert.Equal(t, OpLessEqual, OpLessEqual.Normalize())
	assert.False(t, Operator("=~").IsValid())
}

func TestCondition_Expression(t *testing.T) {
	c := Condition{VariableName: "V", Operator: OpStrictEqual, Value: "1"}
	assert.Equal(t, "V == 1", c.Expression())
}

func TestQuestionnaire_Lookup(t *testing.T) {
	q := New("1.0.0", "kgCO2e", []Question{
		{ID: "b", VariableName: "B", SortKey: "2"},
		{ID: "a", VariableName: "A", RelatedVariableName: "A_REL", SortKey: "1"},
	})

	require.Len(t, q.Questions, 2)
	assert.Equal(t, "a", q.Questions[0].ID)

	got, ok := q.Question("b")
	require.True(t, ok)
	assert.Equal(t, "B", got.VariableName)

	_, ok = q.Question("missing")
	assert.False(t, ok)

	assert.Equal(t, []string{"A", "A_REL", "B"}, q.VariableNames())

	t.Run("literal without index", func(t *testing.T) {
		lit := &Questionnaire{Questions: []Question{{ID: "x"}}}
		_, found := lit.Question("x")
		assert.True(t, found)
	})
}

func TestAnswers(t *testing.T) {
	a := Answers{"q1": "c1", "q2": "c2"}

	b := a.With("q1", "c9")
	assert.Equal(t, "c1", a["q1"], "With must not mutate the receiver")
	assert.Equal(t, "c9", b["q1"])

	assert.Equal(t, []string{"q1", "q2"}, a.QuestionIDs())
	assert.Equal(t, map[string]bool{"c1": true, "c2": true}, a.ChosenKeys())
}

func TestNewConstants_IsImmutableCopy(t *testing.T) {
	src := map[string]float64{"A": 10}
	c := NewConstants(src)
	src["A"] = 99

	v, ok := c.Get("A")
	require.True(t, ok)
	assert.InDelta(t, 10.0, v, 1e-9)

	table := c.Table()
	table["A"] = "0"
	assert.Equal(t, "10", c.Table()["A"])
}
