// Package engine turns a questionnaire, its constants and an answer set into
// a footprint estimate.
//
// Every call recomputes the whole pipeline from scratch:
//
//	Resolve -> IsVisible (per question) -> Total -> footprint
//
// and GenerateScenarios re-runs that pipeline once per alternative choice.
// Nothing in the engine holds state beyond its read-only definitions and an
// optional memo keyed on the answer set, so results depend only on inputs.
package engine

import (
	"context"
	"time"

	"github.com/rshade/footprint/internal/engine/cache"
	"github.com/rshade/footprint/internal/formula"
	"github.com/rshade/footprint/internal/logging"
	"github.com/rshade/footprint/internal/questionnaire"
)

// Options configures an Engine.
type Options struct {
	// MissingChoice selects strict (default) or lenient handling of answers
	// whose choice key is not on the question.
	MissingChoice MissingChoicePolicy
	// MemoSize bounds the number of memoized results; 0 disables memoization.
	MemoSize int
}

// Engine evaluates answer sets against fixed definitions.
type Engine struct {
	questionnaire *questionnaire.Questionnaire
	constants     questionnaire.Constants
	subst         *formula.Substituter
	policy        MissingChoicePolicy
	memo          *cache.Memo[*Result]
}

// New builds an Engine. The identifier set used for substitution is the union
// of declared variable names and constant names.
func New(q *questionnaire.Questionnaire, constants questionnaire.Constants, opts Options) (*Engine, error) {
	if q == nil {
		return nil, ErrNilDefinitions
	}
	policy := opts.MissingChoice
	if policy == "" {
		policy = PolicyStrict
	}

	names := append(constants.Names(), q.VariableNames()...)
	e := &Engine{
		questionnaire: q,
		constants:     constants,
		subst:         formula.NewSubstituter(names...),
		policy:        policy,
	}
	if opts.MemoSize > 0 {
		e.memo = cache.NewMemo[*Result](opts.MemoSize)
	}
	return e, nil
}

// Questionnaire returns the engine's definitions.
func (e *Engine) Questionnaire() *questionnaire.Questionnaire { return e.questionnaire }

// Constants returns the engine's constant store.
func (e *Engine) Constants() questionnaire.Constants { return e.constants }

// Policy returns the missing-choice policy in effect.
func (e *Engine) Policy() MissingChoicePolicy { return e.policy }

// MemoStats reports memo usage. ok is false when memoization is disabled.
func (e *Engine) MemoStats() (cache.Stats, bool) {
	if e.memo == nil {
		return cache.Stats{}, false
	}
	return e.memo.Stats(), true
}

// Compute runs resolve, visibility and footprint for answers. The only error
// is ErrMissingChoice under the strict policy; expression failures are
// absorbed per question.
func (e *Engine) Compute(ctx context.Context, answers questionnaire.Answers) (*Result, error) {
	log := logging.FromContext(ctx)

	var key string
	if e.memo != nil {
		key = cache.GenerateKey(answers)
		if r, ok := e.memo.Get(key); ok {
			log.Debug().
				Ctx(ctx).
				Str("component", "engine").
				Str("operation", "compute").
				Str("memo_key", key).
				Msg("memoized result reused")
			return r, nil
		}
	}

	start := time.Now()
	assignments, err := e.Resolve(ctx, answers)
	if err != nil {
		return nil, err
	}
	visible := e.Visible(assignments)
	breakdown := e.Breakdown(ctx, visible, assignments)

	result := &Result{
		Assignments: assignments,
		Visible:     visible,
		VisibleIDs:  make([]string, 0, len(visible)),
		Footprint:   sum(breakdown),
		Unit:        e.questionnaire.Unit,
		Breakdown:   breakdown,
	}
	for _, q := range visible {
		result.VisibleIDs = append(result.VisibleIDs, q.ID)
	}

	log.Debug().
		Ctx(ctx).
		Str("component", "engine").
		Str("operation", "compute").
		Int("answers", len(answers)).
		Int("visible", len(visible)).
		Float64("footprint", result.Footprint).
		Int64("duration_us", time.Since(start).Microseconds()).
		Msg("footprint computed")

	if e.memo != nil {
		e.memo.Set(key, result)
	}
	return result, nil
}

// Plan computes the Result for answers and the ranked scenario list.
func (e *Engine) Plan(ctx context.Context, answers questionnaire.Answers) (*Plan, error) {
	result, err := e.Compute(ctx, answers)
	if err != nil {
		return nil, err
	}
	scenarios, err := e.GenerateScenarios(ctx, result.Visible, answers)
	if err != nil {
		return nil, err
	}
	return &Plan{Result: result, Scenarios: scenarios}, nil
}
