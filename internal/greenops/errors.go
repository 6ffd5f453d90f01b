package greenops

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

var (
	// ErrInvalidUnit indicates a unit that is not a recognized mass of CO2e.
	// Questionnaires may score in any unit; callers skip equivalencies then.
	ErrInvalidUnit = constError("invalid carbon unit")

	// ErrNegativeValue indicates a negative footprint total.
	ErrNegativeValue = constError("negative carbon value")

	// ErrCalculationOverflow indicates a non-finite input or result.
	ErrCalculationOverflow = constError("calculation overflow")
)
