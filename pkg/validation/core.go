package validation

import (
	"errors"
	"fmt"
	"strings"
)

// Error is a single validation failure with translation support.
type Error struct {
	Field             string
	Message           string
	TranslationKey    string
	TranslationValues map[string]any
}

// Errors accumulates validation failures. It is only ever appended to.
type Errors []Error

func (ve Errors) Error() string {
	if len(ve) == 0 {
		return ErrValidationFailed.Error()
	}

	parts := make([]string, 0, len(ve))
	for _, err := range ve {
		parts = append(parts, fmt.Sprintf("%s: %s", err.Field, err.Message))
	}
	return ErrValidationFailed.Error() + ": " + strings.Join(parts, "; ")
}

func (ve *Errors) Add(err Error) {
	*ve = append(*ve, err)
}

func (ve Errors) Has(field string) bool {
	for _, err := range ve {
		if err.Field == field {
			return true
		}
	}
	return false
}

// Get returns the messages recorded for field.
func (ve Errors) Get(field string) []string {
	var messages []string
	for _, err := range ve {
		if err.Field == field {
			messages = append(messages, err.Message)
		}
	}
	return messages
}

func (ve Errors) GetErrors(field string) []Error {
	var out []Error
	for _, err := range ve {
		if err.Field == field {
			out = append(out, err)
		}
	}
	return out
}

// Fields returns the failing fields in first-seen order.
func (ve Errors) Fields() []string {
	var fields []string
	seen := make(map[string]bool)
	for _, err := range ve {
		if !seen[err.Field] {
			fields = append(fields, err.Field)
			seen[err.Field] = true
		}
	}
	return fields
}

func (ve Errors) IsEmpty() bool { return len(ve) == 0 }

func (ve Errors) Len() int { return len(ve) }

// Err returns ve as an error, or nil when it is empty.
func (ve Errors) Err() error {
	if ve.IsEmpty() {
		return nil
	}
	return ve
}

// Rule is a single check with the error it records on failure.
type Rule struct {
	Check func() bool
	Error Error
}

// Apply runs rules and appends the error of every failed one to errs.
func Apply(errs *Errors, rules ...Rule) {
	for _, rule := range rules {
		if !rule.Check() {
			errs.Add(rule.Error)
		}
	}
}

// ExtractErrors extracts Errors from an error chain.
func ExtractErrors(err error) Errors {
	if err == nil {
		return nil
	}

	var ve Errors
	if errors.As(err, &ve) {
		return ve
	}
	return nil
}

func IsValidationError(err error) bool {
	if err == nil {
		return false
	}

	var ve Errors
	return errors.As(err, &ve)
}
