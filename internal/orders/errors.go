package orders

import "errors"

var (
	// ErrValidation indicates a malformed inbound order event: missing id or
	// date, or a non-numeric quantity/price. The event is dropped, never
	// staged.
	ErrValidation = errors.New("invalid order event")

	// ErrPersistence indicates the staging store write failed.
	ErrPersistence = errors.New("staging store write failed")

	// ErrNotFound indicates no staged order exists for the given id.
	ErrNotFound = errors.New("staged order not found")
)
