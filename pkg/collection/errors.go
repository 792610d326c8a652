package collection

import "errors"

var (
	// ErrTypeMismatch is returned when a reflective insert receives a value
	// of a type the container cannot hold.
	ErrTypeMismatch = errors.New("collection: value type mismatch")
)
