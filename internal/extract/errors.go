package extract

import "fmt"

// ExtractionError is returned when there is nothing to extract from.
type ExtractionError struct {
	Reason string
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract: %s", e.Reason)
}

// ValidationError reports that a shaped payload does not conform to its
// declared schema. It is informational: callers default the missing or
// invalid fields instead of failing.
type ValidationError struct {
	Schema string
	Err    error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("response does not match %s: %v", e.Schema, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
