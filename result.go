package bindkit

import (
	"github.com/dmitrymomot/bindkit/pkg/bind"
	"github.com/dmitrymomot/bindkit/pkg/validation"
)

// Result is the outcome of one Bind call.
type Result struct {
	// Raw holds the extracted strings per binding name.
	Raw *bind.RawValues
	// Typed holds the converted values per binding name.
	Typed *bind.TypedValues
	// Errors lists conversion and validation failures.
	Errors validation.Errors
	// View is the result of the last custom bean validator, if any.
	View any

	names []string
}

func (r *Result) Valid() bool { return r.Errors.IsEmpty() }

// Err returns Errors as an error, or nil when binding succeeded.
func (r *Result) Err() error { return r.Errors.Err() }

// Args returns the typed value of every handler parameter in declaration
// order. Parameters without a value are nil.
func (r *Result) Args() []any {
	args := make([]any, len(r.names))
	for i, name := range r.names {
		args[i], _ = r.Typed.Get(name)
	}
	return args
}

// Arg returns the typed value bound to name as T.
func Arg[T any](r *Result, name string) (T, bool) {
	var zero T
	v, ok := r.Typed.Get(name)
	if !ok || v == nil {
		return zero, false
	}
	t, ok := v.(T)
	return t, ok
}
