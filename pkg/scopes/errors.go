package scopes

import "errors"

// ErrInvalidScope is returned when a scope pattern is malformed.
var ErrInvalidScope = errors.New("scopes: invalid scope format")
