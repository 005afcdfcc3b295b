package domain

import "errors"

var (
	// ErrSlotConflict is the store rejecting an interval that overlaps an existing booking.
	ErrSlotConflict = errors.New("slot conflicts with an existing booking")
	// ErrEventNotFound is returned for a booking or lookup against an unknown event.
	ErrEventNotFound = errors.New("event not found")
	// ErrStoreUnavailable wraps transport and availability failures reaching the store.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrInvalidInterval is the store refusing a booking whose start is not before its end.
	ErrInvalidInterval = errors.New("start time must be before end time")
)
