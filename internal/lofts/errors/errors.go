package errors

import "errors"

var (
	ErrLoftNotFound = errors.New("loft not found")

	ErrOwnerNotFound = errors.New("owner not found")

	ErrInvalidID = errors.New("invalid ID format")

	ErrOwnerHasLofts = errors.New("owner still holds lofts")

	ErrActiveBookings = errors.New("loft has active bookings")
)
