package engine

import (
	"context"
	"sort"
	"time"

	"github.com/rshade/footprint/internal/logging"
	"github.com/rshade/footprint/internal/questionnaire"
)

// GenerateScenarios performs what-if analysis over single-answer changes.
//
// For every visible question and every choice whose key is not chosen by any
// answer in the whole answer set, the answer set is copied with only that
// question forced to the candidate key and the full pipeline is re-run.
// Scenarios are ordered by ascending candidate footprint; ties keep
// enumeration order.
//
// The baseline resolution failing (strict missing-choice policy) is the only
// error. A candidate that cannot be resolved is logged and skipped.
func (e *Engine) GenerateScenarios(
	ctx context.Context,
	visible []questionnaire.Question,
	answers questionnaire.Answers,
) ([]Scenario, error) {
	log := logging.FromContext(ctx)
	start := time.Now()

	baseAssignments, err := e.Resolve(ctx, answers)
	if err != nil {
		return nil, err
	}
	baseline := e.Total(ctx, visible, baseAssignments)
	chosen := answers.ChosenKeys()

	scenarios := make([]Scenario, 0)
	for _, q := range visible {
		for _, choice := range q.Choices {
			if chosen[choice.Key] {
				continue
			}
			candidate, candErr := e.candidateFootprint(ctx, answers.With(q.ID, choice.Key))
			if candErr != nil {
				log.Warn().
					Ctx(ctx).
					Str("component", "engine").
					Str("operation", "generate_scenarios").
					Str("question_id", q.ID).
					Str("choice_key", choice.Key).
					Err(candErr).
					Msg("scenario skipped")
				continue
			}
			scenarios = append(scenarios, Scenario{
				QuestionID:         q.ID,
				QuestionText:       q.Text,
				CurrentChoiceKey:   answers[q.ID],
				CandidateChoiceKey: choice.Key,
				CandidateText:      choice.Text,
				CurrentFootprint:   baseline,
				CandidateFootprint: candidate,
			})
		}
	}

	sort.SliceStable(scenarios, func(i, j int) bool {
		return scenarios[i].CandidateFootprint < scenarios[j].CandidateFootprint
	})

	event := log.Debug().
		Ctx(ctx).
		Str("component", "engine").
		Str("operation", "generate_scenarios").
		Float64("baseline", baseline).
		Int("scenarios", len(scenarios)).
		Int64("duration_ms", time.Since(start).Milliseconds())
	if stats, ok := e.MemoStats(); ok {
		event = event.Int("memo_hits", stats.Hits).Int("memo_misses", stats.Misses)
	}
	event.Msg("scenarios generated")

	return scenarios, nil
}

// candidateFootprint computes the footprint of an overridden answer set.
// Going through Compute lets repeated sweeps reuse memoized results.
func (e *Engine) candidateFootprint(ctx context.Context, answers questionnaire.Answers) (float64, error) {
	result, err := e.Compute(ctx, answers)
	if err != nil {
		return 0, err
	}
	return result.Footprint, nil
}
