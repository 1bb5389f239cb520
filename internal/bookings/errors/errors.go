package errors

import "errors"

// Repository and service sentinels. The service maps them to HTTP errors:
// ErrNotFound and ErrInvalidID to 404/400, the rest to 409.
var (
	ErrNotFound  = errors.New("booking not found")
	ErrInvalidID = errors.New("invalid booking ID format")

	ErrDatesOverlap      = errors.New("booking dates overlap an existing booking")
	ErrSlotLocked        = errors.New("slot currently being booked")
	ErrInvalidTransition = errors.New("booking status transition not allowed")
	ErrNotEditable       = errors.New("only pending or confirmed bookings can be edited")
	ErrStatusChanged     = errors.New("booking status changed concurrently")
)
