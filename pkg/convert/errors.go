package convert

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrInvalidValue is returned when a raw string cannot be parsed as the
	// target type.
	ErrInvalidValue = errors.New("convert: invalid value")

	// ErrUnsupportedType is returned when no converter handles the target type.
	ErrUnsupportedType = errors.New("convert: unsupported type")

	// ErrAlreadyRegistered is returned when an adapter is registered twice
	// for the same key.
	ErrAlreadyRegistered = errors.New("convert: adapter already registered")

	// ErrTypeMismatch is returned when a converted value cannot be stored in
	// its destination.
	ErrTypeMismatch = errors.New("convert: type mismatch")
)

// ConversionError describes one raw value that could not be converted.
type ConversionError struct {
	// Name is the binding name or property path of the value.
	Name  string
	Value string
	Type  reflect.Type
	Err   error
}

func (e *ConversionError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("convert: cannot convert %q to %s: %v", e.Value, e.Type, e.Err)
	}
	return fmt.Sprintf("convert: %s: cannot convert %q to %s: %v", e.Name, e.Value, e.Type, e.Err)
}

func (e *ConversionError) Unwrap() error { return e.Err }

// ConversionErrors returns every *ConversionError found in err, including
// those combined with errors.Join.
func ConversionErrors(err error) []*ConversionError {
	switch e := err.(type) {
	case nil:
		return nil
	case *ConversionError:
		return []*ConversionError{e}
	case interface{ Unwrap() []error }:
		var out []*ConversionError
		for _, inner := range e.Unwrap() {
			out = append(out, ConversionErrors(inner)...)
		}
		return out
	}
	var ce *ConversionError
	if errors.As(err, &ce) {
		return []*ConversionError{ce}
	}
	return nil
}

// Named sets name on the *ConversionError in err unless it already has
// one, and returns err.
func Named(err error, name string) error {
	var ce *ConversionError
	if errors.As(err, &ce) && ce.Name == "" {
		ce.Name = name
	}
	return err
}
