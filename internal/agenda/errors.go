package agenda

import (
	"errors"
	"fmt"
)

// ErrMalformedInput is the parent of every argument error.
var ErrMalformedInput = errors.New("malformed input")

var (
	// ErrNotFound is returned when no calendar matches a name.
	ErrNotFound = errors.New("calendar not found")

	// ErrMalformedDate is returned for dates, times or timezones that cannot be parsed.
	ErrMalformedDate = fmt.Errorf("%w: malformed date", ErrMalformedInput)

	// ErrCalendarUnavailable is returned when no calendar could be resolved
	// or auto-created for an insert.
	ErrCalendarUnavailable = errors.New("calendar unavailable")
)

// RemoteServiceError wraps a failure from the remote calendar service.
type RemoteServiceError struct {
	Op  string
	Err error
}

func (e *RemoteServiceError) Error() string {
	return fmt.Sprintf("%s: remote calendar service: %v", e.Op, e.Err)
}

func (e *RemoteServiceError) Unwrap() error {
	return e.Err
}

func remoteError(op string, err error) error {
	return &RemoteServiceError{Op: op, Err: err}
}

// Outcome classifies the result of an operation.
type Outcome string

// Outcomes
const (
	OutcomeSuccess             Outcome = "success"
	OutcomeNotFound            Outcome = "not_found"
	OutcomeMalformedInput      Outcome = "malformed_input"
	OutcomeCalendarUnavailable Outcome = "calendar_unavailable"
	OutcomeRemoteFailure       Outcome = "remote_failure"
)

// Classify maps an error returned by this package to an Outcome.
// Unknown errors are treated as remote failures.
func Classify(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, ErrMalformedInput):
		return OutcomeMalformedInput
	case errors.Is(err, ErrCalendarUnavailable):
		return OutcomeCalendarUnavailable
	case errors.Is(err, ErrNotFound):
		return OutcomeNotFound
	default:
		return OutcomeRemoteFailure
	}
}
