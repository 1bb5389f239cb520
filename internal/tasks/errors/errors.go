package errors

import "errors"

var (
	ErrNotFound = errors.New("task not found")

	ErrInvalidID = errors.New("invalid ID format")
)
