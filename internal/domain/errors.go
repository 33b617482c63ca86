package domain

// ValidationError carries the diagnostic for an input that failed a
// validation rule. The HTTP layer maps it to 400 with the message in the
// response body.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NewValidationError returns a ValidationError with the given diagnostic.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}
