package session

import (
	"fmt"
	"strings"
)

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

var (
	// ErrUnknownQuestion indicates an answer names a question id that the
	// questionnaire does not declare.
	ErrUnknownQuestion = constError("unknown question")

	// ErrUnknownChoice indicates an answer names a choice key the question
	// does not offer.
	ErrUnknownChoice = constError("unknown choice")

	// ErrIncompleteAnswers indicates planning was requested while visible
	// questions remain unanswered.
	ErrIncompleteAnswers = constError("visible questions are unanswered")
)

// IncompleteError lists the visible questions blocking planning.
type IncompleteError struct {
	Missing []string
}

func (e *IncompleteError) Error() string {
	return fmt.Sprintf("%s: %s", ErrIncompleteAnswers, strings.Join(e.Missing, ", "))
}

// Unwrap allows errors.Is(err, ErrIncompleteAnswers).
func (e *IncompleteError) Unwrap() error { return ErrIncompleteAnswers }
