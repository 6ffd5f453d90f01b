package engine

import (
	"context"
	"fmt"

	"github.com/rshade/footprint/internal/formula"
	"github.com/rshade/footprint/internal/logging"
	"github.com/rshade/footprint/internal/questionnaire"
)

// Resolve builds the assignment table for answers.
//
// The first pass binds each answered question's variable (and related
// variable, when the question declares one and the chosen choice carries a
// related value) to the choice value with constants substituted. A second,
// final pass substitutes answer-bound values into each other. Chains longer
// than one hop stay partially unresolved. Constants come first in the table
// and answer-derived values override them.
//
// Answers for unknown questions are skipped. Answers for unknown choices
// follow the engine's MissingChoicePolicy.
func (e *Engine) Resolve(ctx context.Context, answers questionnaire.Answers) (Assignments, error) {
	log := logging.FromContext(ctx)
	constTable := e.constants.Table()

	for _, id := range answers.QuestionIDs() {
		if _, ok := e.questionnaire.Question(id); !ok {
			log.Debug().
				Ctx(ctx).
				Str("component", "engine").
				Str("operation", "resolve").
				Str("question_id", id).
				Msg("answer for unknown question skipped")
		}
	}

	derived := make(map[string]string, len(answers))
	for i := range e.questionnaire.Questions {
		q := &e.questionnaire.Questions[i]
		key, answered := answers[q.ID]
		if !answered {
			continue
		}
		choice, ok := q.Choice(key)
		if !ok {
			if e.policy == PolicyLenient {
				log.Warn().
					Ctx(ctx).
					Str("component", "engine").
					Str("operation", "resolve").
					Str("question_id", q.ID).
					Str("choice_key", key).
					Msg("answer references unknown choice, skipped")
				continue
			}
			return nil, fmt.Errorf("%w: question %q has no choice %q", ErrMissingChoice, q.ID, key)
		}

		derived[q.VariableName] = e.fold(e.subst.Substitute(choice.Value, constTable))
		if q.RelatedVariableName != "" && choice.RelatedValue != "" {
			derived[q.RelatedVariableName] = e.fold(e.subst.Substitute(choice.RelatedValue, constTable))
		}
	}

	firstPass := make(map[string]string, len(derived))
	for k, v := range derived {
		firstPass[k] = v
	}
	for name, value := range firstPass {
		derived[name] = e.fold(e.subst.Substitute(value, firstPass))
	}

	assignments := make(Assignments, len(constTable)+len(derived))
	for k, v := range constTable {
		assignments[k] = v
	}
	for k, v := range derived {
		assignments[k] = v
	}
	return assignments, nil
}

// fold evaluates a fully substituted numeric expression to its canonical
// number string. Anything else (unresolved, boolean, failing) is kept as is.
func (e *Engine) fold(expr string) string {
	f, err := formula.EvaluateNumber(expr)
	if err != nil {
		return expr
	}
	return formula.FormatNumber(f)
}
