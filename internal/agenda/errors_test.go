package agenda

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestClassify(t *testing.T) {
	remote := &RemoteServiceError{Op: "list_calendars", Err: errors.New("boom")}

	tests := []struct {
		name string
		err  error
		want Outcome
	}{
		{"nil", nil, OutcomeSuccess},
		{"not found", fmt.Errorf("%w: %q", ErrNotFound, "Work"), OutcomeNotFound},
		{"malformed date", fmt.Errorf("%w: bad", ErrMalformedDate), OutcomeMalformedInput},
		{"malformed input", ErrMalformedInput, OutcomeMalformedInput},
		{"calendar unavailable", fmt.Errorf("%w: %w", ErrCalendarUnavailable, remote), OutcomeCalendarUnavailable},
		{"remote", remote, OutcomeRemoteFailure},
		{"context", context.Canceled, OutcomeRemoteFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.err); got != tt.want {
				t.Errorf("Classify(%v) = %q, want %q", tt.err, got, tt.want)
			}
		})
	}
}

func TestRemoteServiceError(t *testing.T) {
	cause := errors.New("connection reset")
	err := error(&RemoteServiceError{Op: "insert_events", Err: cause})

	if !errors.Is(err, cause) {
		t.Error("RemoteServiceError should unwrap to its cause")
	}
	var rse *RemoteServiceError
	if !errors.As(err, &rse) || rse.Op != "insert_events" {
		t.Errorf("errors.As failed, got %v", rse)
	}
	want := "insert_events: remote calendar service: connection reset"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
