package validation

import "errors"

var (
	// ErrValidationFailed is returned when validation fails but no specific error is provided.
	ErrValidationFailed = errors.New("validation failed")

	// ErrInvalidRule is returned when a rule expression cannot be parsed.
	ErrInvalidRule = errors.New("validation: invalid rule")

	// ErrUnknownBean is returned when field rules name a bean that was never
	// registered.
	ErrUnknownBean = errors.New("validation: unknown bean")

	// ErrUnknownField is returned when field rules name a property the bean
	// does not have.
	ErrUnknownField = errors.New("validation: unknown field")
)
