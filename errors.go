package bindkit

import "errors"

var (
	// ErrInvalidConfig is returned when a Binder cannot be built from its
	// settings.
	ErrInvalidConfig = errors.New("bindkit: invalid configuration")

	// ErrNilHandler is the panic value of Bind called without a handler.
	ErrNilHandler = errors.New("bindkit: nil handler")
)
