package assessments

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("assessment not found")
	ErrInvalidMeasurement = errors.New("invalid measurement")
	ErrInvalidWindow      = errors.New("invalid trend window")
)

// ValidationError names the offending field of a rejected measurement. It
// matches ErrInvalidMeasurement with errors.Is.
type ValidationError struct {
	Field string
	Issue string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrInvalidMeasurement, e.Field, e.Issue)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidMeasurement
}
