package errors

import "errors"

var (
	ErrNotFound = errors.New("audit log not found")

	ErrInvalidID = errors.New("invalid ID format")

	// ErrDuplicateEvent is returned when an event was already recorded.
	ErrDuplicateEvent = errors.New("audit event already recorded")
)
