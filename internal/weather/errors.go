package weather

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput wraps every validation failure; nothing upstream was called.
	ErrInvalidInput = errors.New("invalid input")
	// ErrPlaceNotFound is returned when geocoding yields no result.
	ErrPlaceNotFound = errors.New("no matching place found")
	// ErrNoData is returned when the archive response has no daily series.
	ErrNoData = errors.New("no data for that date range")
	// ErrNotConfigured is returned when a provider is missing its API key.
	ErrNotConfigured = errors.New("provider is not configured")
)

// UpstreamError reports a non-success HTTP status from an external service.
type UpstreamError struct {
	Service    string
	StatusCode int
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s error (%d)", e.Service, e.StatusCode)
}

type validationError struct {
	msg string
}

func (e *validationError) Error() string { return e.msg }

func (e *validationError) Unwrap() error { return ErrInvalidInput }

// Invalid builds a validation error whose message is shown to the user as-is.
// errors.Is(err, ErrInvalidInput) holds for the result.
func Invalid(msg string) error {
	return &validationError{msg: msg}
}
