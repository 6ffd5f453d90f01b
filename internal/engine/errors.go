package engine

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

var (
	// ErrMissingChoice indicates an answer references a choice key its
	// question does not have: answers and definitions have drifted apart.
	ErrMissingChoice = constError("answer references unknown choice")

	// ErrNilDefinitions indicates the engine was built without a questionnaire.
	ErrNilDefinitions = constError("questionnaire definitions are required")
)
