package bind

import "errors"

// ErrUnexpectedAnnotation is the panic value of an adapter called with an
// annotation it does not handle.
var ErrUnexpectedAnnotation = errors.New("bind: unexpected annotation")
