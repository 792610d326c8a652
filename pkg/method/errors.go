package method

import "errors"

// ErrNilType is the panic value of NewParam when called without a type.
var ErrNilType = errors.New("method: parameter type is nil")
