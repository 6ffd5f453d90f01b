package questionnaire

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

// Loader errors. Compare with errors.Is.
var (
	// ErrUnsupportedFormat indicates a definition file extension with no decoder.
	ErrUnsupportedFormat = constError("unsupported definition format")

	// ErrUnsupportedSchema indicates a schema_version outside the supported range.
	ErrUnsupportedSchema = constError("unsupported questionnaire schema version")

	// ErrInvalidQuestionnaire indicates structural errors found by Validate.
	ErrInvalidQuestionnaire = constError("invalid questionnaire")
)
