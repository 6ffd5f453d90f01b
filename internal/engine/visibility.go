package engine

import (
	"github.com/rshade/footprint/internal/formula"
	"github.com/rshade/footprint/internal/questionnaire"
)

// IsVisible reports whether question should be shown under assignments.
// Disabled questions are never visible. Conditions are ANDed; a condition
// that fails to evaluate, or does not yield a boolean, is false.
func (e *Engine) IsVisible(question *questionnaire.Question, assignments Assignments) bool {
	if question.Disabled {
		return false
	}
	for _, cond := range question.DisplayCondition {
		expr := e.subst.Substitute(cond.Expression(), assignments)
		ok, err := formula.EvaluateBool(expr)
		if err != nil || !ok {
			return false
		}
	}
	return true
}

// Visible returns the visible questions in declaration order.
func (e *Engine) Visible(assignments Assignments) []questionnaire.Question {
	visible := make([]questionnaire.Question, 0, len(e.questionnaire.Questions))
	for i := range e.questionnaire.Questions {
		if e.IsVisible(&e.questionnaire.Questions[i], assignments) {
			visible = append(visible, e.questionnaire.Questions[i])
		}
	}
	return visible
}
