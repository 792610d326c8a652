package annotation

import "errors"

var (
	// ErrAlreadyRegistered is returned when a kind already has a handler.
	ErrAlreadyRegistered = errors.New("annotation: kind already registered")

	// ErrEmptyKind is returned when registering under an empty kind.
	ErrEmptyKind = errors.New("annotation: empty kind")
)
