package request

import "errors"

var (
	// ErrInvalidBody is returned when the request body is not valid JSON.
	ErrInvalidBody = errors.New("request: invalid JSON body")

	// ErrBodyTooLarge is returned when the body exceeds the configured limit.
	ErrBodyTooLarge = errors.New("request: body too large")
)
