package engine

import (
	"context"

	"github.com/rshade/footprint/internal/formula"
	"github.com/rshade/footprint/internal/logging"
	"github.com/rshade/footprint/internal/questionnaire"
)

// Total sums the formulas of visible questions. A formula that fails to
// evaluate contributes zero and does not affect the others.
func (e *Engine) Total(ctx context.Context, visible []questionnaire.Question, assignments Assignments) float64 {
	return sum(e.Breakdown(ctx, visible, assignments))
}

// Breakdown evaluates each visible question's formula in order.
func (e *Engine) Breakdown(
	ctx context.Context,
	visible []questionnaire.Question,
	assignments Assignments,
) []Contribution {
	log := logging.FromContext(ctx)
	out := make([]Contribution, 0, len(visible))
	for _, q := range visible {
		c := Contribution{QuestionID: q.ID, Formula: q.Formula}
		v, err := formula.EvaluateNumber(e.subst.Substitute(q.Formula, assignments))
		if err != nil {
			log.Debug().
				Ctx(ctx).
				Str("component", "engine").
				Str("operation", "footprint").
				Str("question_id", q.ID).
				Err(err).
				Msg("formula contributes zero")
			c.Err = err
		} else {
			c.Value = v
		}
		out = append(out, c)
	}
	return out
}

func sum(contributions []Contribution) float64 {
	var total float64
	for _, c := range contributions {
		total += c.Value
	}
	return total
}
