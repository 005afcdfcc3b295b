package service

import (
	"errors"
	"fmt"
)

// Kind is the stable tag of an admission failure.
type Kind string

const (
	KindInvalidInterval    Kind = "invalid_interval"
	KindInvalidContactInfo Kind = "invalid_contact_info"
	KindSlotConflict       Kind = "slot_conflict"
	KindFetchError         Kind = "fetch_error"
	KindSubmitError        Kind = "submit_error"
)

// Retryable reports whether resubmitting the same input can succeed.
// Conflicts may clear once the store's booking set changes, but a retry
// without new input is expected to conflict again.
func (k Kind) Retryable() bool {
	switch k {
	case KindFetchError, KindSubmitError:
		return true
	default:
		return false
	}
}

// AdmissionError terminates one admission attempt.
type AdmissionError struct {
	Kind   Kind
	Reason string
	Err    error
}

func (e *AdmissionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
}

func (e *AdmissionError) Unwrap() error {
	return e.Err
}

// KindOf extracts the admission kind from err, or "" if err is not an AdmissionError.
func KindOf(err error) Kind {
	var ae *AdmissionError
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return ""
}

// ErrInvalidEvent is returned when event fields fail validation.
var ErrInvalidEvent = errors.New("invalid event")
