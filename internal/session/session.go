// Package session holds the interactive state of one questionnaire run: the
// answer set and whether the user is answering questions or exploring
// what-if scenarios.
//
// A Session is the only stateful piece of the system. Every mutation triggers
// a full engine recomputation; nothing is cached between calls except what
// the engine memoizes for identical answer sets. Answers live only in memory.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/oklog/ulid/v2"

	"github.com/rshade/footprint/internal/engine"
	"github.com/rshade/footprint/internal/logging"
	"github.com/rshade/footprint/internal/questionnaire"
)

// Mode is the session's top-level state.
type Mode int

const (
	// ModeQuestionnaire is the initial mode: answering questions.
	ModeQuestionnaire Mode = iota
	// ModePlanning shows ranked alternative choices.
	ModePlanning
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeQuestionnaire:
		return "questionnaire"
	case ModePlanning:
		return "planning"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Snapshot is a point-in-time view of a session.
type Snapshot struct {
	SessionID string                `json:"session_id"`
	Mode      string                `json:"mode"`
	Answers   questionnaire.Answers `json:"answers"`
	Result    *engine.Result        `json:"result"`
	Scenarios []engine.Scenario     `json:"scenarios,omitempty"`
	Pending   []string              `json:"pending,omitempty"`
}

// Session is safe for concurrent use.
type Session struct {
	id     string
	engine *engine.Engine

	mu      sync.Mutex
	mode    Mode
	answers questionnaire.Answers
	result  *engine.Result
}

// New starts a session in ModeQuestionnaire with the given initial answers.
// Answers to undeclared questions are dropped. Unknown choices follow the
// engine's missing-choice policy: dropped when lenient, so the question
// counts as unanswered, and an engine.ErrMissingChoice failure when strict.
func New(ctx context.Context, eng *engine.Engine, initial questionnaire.Answers) (*Session, error) {
	s := &Session{
		id:      ulid.Make().String(),
		engine:  eng,
		mode:    ModeQuestionnaire,
		answers: make(questionnaire.Answers, len(initial)),
	}
	for _, id := range initial.QuestionIDs() {
		if s.keepInitial(ctx, id, initial[id]) {
			s.answers[id] = initial[id]
		}
	}
	if err := s.recompute(ctx); err != nil {
		return nil, err
	}

	logging.FromContext(ctx).Debug().
		Ctx(ctx).
		Str("component", "session").
		Str("session_id", s.id).
		Int("answers", len(s.answers)).
		Msg("session started")
	return s, nil
}

// ID returns the session's ULID.
func (s *Session) ID() string { return s.id }

// Engine returns the engine the session computes with.
func (s *Session) Engine() *engine.Engine { return s.engine }

// Mode returns the current mode.
func (s *Session) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// Answers returns a copy of the current answer set.
func (s *Session) Answers() questionnaire.Answers {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.answers.Clone()
}

// Result returns the most recent computation.
func (s *Session) Result() *engine.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// SetAnswer records choiceKey for questionID and recomputes. Answers to
// questions that are currently hidden are accepted; they take effect once
// the question becomes visible.
func (s *Session) SetAnswer(ctx context.Context, questionID, choiceKey string) error {
	if err := s.validate(questionID, choiceKey); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	prev, had := s.answers[questionID]
	s.answers[questionID] = choiceKey
	if err := s.recomputeLocked(ctx); err != nil {
		if had {
			s.answers[questionID] = prev
		} else {
			delete(s.answers, questionID)
		}
		return err
	}

	logging.FromContext(ctx).Debug().
		Ctx(ctx).
		Str("component", "session").
		Str("operation", "set_answer").
		Str("session_id", s.id).
		Str("question_id", questionID).
		Str("choice_key", choiceKey).
		Float64("footprint", s.result.Footprint).
		Msg("answer recorded")
	return nil
}

// ClearAnswer removes the answer for questionID, if any, and recomputes.
// Clearing in planning mode does not leave planning; EnterPlanning is only
// gated on entry.
func (s *Session) ClearAnswer(ctx context.Context, questionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.answers[questionID]; !ok {
		return nil
	}
	delete(s.answers, questionID)
	return s.recomputeLocked(ctx)
}

// Pending returns the visible questions that have no answer yet.
func (s *Session) Pending() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result.Unanswered(s.answers)
}

// EnterPlanning switches to ModePlanning when every visible question is
// answered. Otherwise it returns an *IncompleteError wrapping
// ErrIncompleteAnswers and the mode is unchanged.
func (s *Session) EnterPlanning(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if missing := s.result.Unanswered(s.answers); len(missing) > 0 {
		return &IncompleteError{Missing: missing}
	}
	s.mode = ModePlanning

	logging.FromContext(ctx).Debug().
		Ctx(ctx).
		Str("component", "session").
		Str("operation", "enter_planning").
		Str("session_id", s.id).
		Msg("planning mode entered")
	return nil
}

// ExitPlanning returns to ModeQuestionnaire unconditionally.
func (s *Session) ExitPlanning() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = ModeQuestionnaire
}

// Snapshot returns the current state. Scenarios are generated only in
// planning mode.
func (s *Session) Snapshot(ctx context.Context) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := &Snapshot{
		SessionID: s.id,
		Mode:      s.mode.String(),
		Answers:   s.answers.Clone(),
		Result:    s.result,
		Pending:   s.result.Unanswered(s.answers),
	}
	if s.mode == ModePlanning {
		scenarios, err := s.engine.GenerateScenarios(ctx, s.result.Visible, s.answers)
		if err != nil {
			return nil, err
		}
		snap.Scenarios = scenarios
	}
	return snap, nil
}

// keepInitial reports whether an initial answer is carried into the session.
func (s *Session) keepInitial(ctx context.Context, questionID, choiceKey string) bool {
	log := logging.FromContext(ctx)
	q, ok := s.engine.Questionnaire().Question(questionID)
	if !ok {
		log.Debug().
			Ctx(ctx).
			Str("component", "session").
			Str("operation", "new").
			Str("question_id", questionID).
			Msg("initial answer for undeclared question dropped")
		return false
	}
	if _, ok = q.Choice(choiceKey); ok || s.engine.Policy() != engine.PolicyLenient {
		return true
	}
	log.Warn().
		Ctx(ctx).
		Str("component", "session").
		Str("operation", "new").
		Str("question_id", questionID).
		Str("choice_key", choiceKey).
		Msg("initial answer for unknown choice dropped")
	return false
}

func (s *Session) validate(questionID, choiceKey string) error {
	q, ok := s.engine.Questionnaire().Question(questionID)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownQuestion, questionID)
	}
	if _, ok := q.Choice(choiceKey); !ok {
		return fmt.Errorf("%w: question %q has no choice %q", ErrUnknownChoice, questionID, choiceKey)
	}
	return nil
}

func (s *Session) recompute(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recomputeLocked(ctx)
}

func (s *Session) recomputeLocked(ctx context.Context) error {
	result, err := s.engine.Compute(ctx, s.answers.Clone())
	if err != nil {
		return err
	}
	s.result = result
	return nil
}
