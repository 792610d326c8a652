package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/dmitrymomot/bindkit/pkg/annotation"
	"github.com/dmitrymomot/bindkit/pkg/scopes"
)

// Struct tags read by ForBeanFields.
const (
	CheckTagName    = "check"
	ValidateTagName = "validate"
)

// ParseRules parses a comma separated rule list such as
// "required,minlen=2,maxlen=64,on=create|update".
//
// Supported rules: required, min=N, max=N, len=N, minlen=N, maxlen=N,
// pattern=RE, email, oneof=a|b|c, valid and on=scope|scope. The on rule
// restricts every other rule of the list. Patterns cannot contain commas.
func ParseRules(expr string) ([]annotation.Annotation, error) {
	var (
		out []annotation.Annotation
		on  []string
	)
	for part := range strings.SplitSeq(expr, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, arg, hasArg := strings.Cut(part, "=")
		if err := checkArg(key, hasArg); err != nil {
			return nil, err
		}

		switch key {
		case "required":
			out = append(out, Required{})
		case "email":
			out = append(out, Email{})
		case "valid":
			out = append(out, Valid{})
		case "min", "max":
			n, err := strconv.ParseFloat(arg, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: %s: %q is not a number", ErrInvalidRule, key, arg)
			}
			if key == "min" {
				out = append(out, Min{Value: n})
			} else {
				out = append(out, Max{Value: n})
			}
		case "len", "minlen", "maxlen":
			n, err := strconv.Atoi(arg)
			if err != nil || n < 0 {
				return nil, fmt.Errorf("%w: %s: %q is not a length", ErrInvalidRule, key, arg)
			}
			switch key {
			case "len":
				out = append(out, Length{Min: n, Max: n})
			case "minlen":
				out = append(out, Length{Min: n})
			default:
				out = append(out, Length{Max: n})
			}
		case "pattern":
			if _, err := regexp.Compile(arg); err != nil {
				return nil, fmt.Errorf("%w: pattern: %v", ErrInvalidRule, err)
			}
			out = append(out, Pattern{Regexp: arg})
		case "oneof":
			out = append(out, OneOf{Values: strings.Split(arg, "|")})
		case "on":
			for _, s := range scopes.ParseScopes(arg) {
				if err := scopes.ValidatePattern(s); err != nil {
					return nil, fmt.Errorf("%w: on: %v", ErrInvalidRule, err)
				}
				on = append(on, s)
			}
		default:
			return nil, fmt.Errorf("%w: unknown rule %q", ErrInvalidRule, key)
		}
	}

	if len(on) > 0 {
		for i, a := range out {
			if s, ok := a.(scopable); ok {
				out[i] = s.withOn(on)
			}
		}
	}
	return out, nil
}

func checkArg(key string, hasArg bool) error {
	switch key {
	case "required", "email", "valid":
		if hasArg {
			return fmt.Errorf("%w: %s takes no argument", ErrInvalidRule, key)
		}
	default:
		if !hasArg {
			return fmt.Errorf("%w: %s requires an argument", ErrInvalidRule, key)
		}
	}
	return nil
}
