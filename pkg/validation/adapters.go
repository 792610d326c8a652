package validation

import (
	"encoding"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/dmitrymomot/bindkit/pkg/annotation"
)

// Adapter interprets one validation annotation kind.
type Adapter interface {
	// Include reports whether the rule should run for name at all.
	Include(a annotation.Annotation, name string, ctx *Context) bool
	// Validate checks the value of name and appends failures to errs.
	Validate(a annotation.Annotation, name string, ctx *Context, errs *Errors)
}

// RuleFunc builds the rules annotation a imposes on value.
type RuleFunc func(a annotation.Annotation, name string, value any) []Rule

// RuleAdapter runs the rules built by a RuleFunc. Missing and nil values are
// not checked unless Always is set. The built-in pattern and email rules
// also accept empty strings; pair them with Required.
type RuleAdapter struct {
	Rules  RuleFunc
	Always bool
}

func (r RuleAdapter) Include(_ annotation.Annotation, name string, ctx *Context) bool {
	if r.Always {
		return true
	}
	v, ok := ctx.Value(name)
	return ok && indirect(reflect.ValueOf(v)).IsValid()
}

func (r RuleAdapter) Validate(a annotation.Annotation, name string, ctx *Context, errs *Errors) {
	v, _ := ctx.Value(name)
	Apply(errs, r.Rules(a, name, v)...)
}

// builtinAdapters returns the adapters of the built-in rule kinds.
func builtinAdapters(v *validator.Validate) map[annotation.Kind]Adapter {
	patterns := &patternCache{}
	return map[annotation.Kind]Adapter{
		KindRequired: RuleAdapter{Rules: requiredRules, Always: true},
		KindMin:      RuleAdapter{Rules: minRules},
		KindMax:      RuleAdapter{Rules: maxRules},
		KindLength:   RuleAdapter{Rules: lengthRules},
		KindPattern:  RuleAdapter{Rules: patterns.rules},
		KindEmail:    RuleAdapter{Rules: emailRules(v)},
		KindOneOf:    RuleAdapter{Rules: oneOfRules},
		KindTag:      &TagAdapter{validate: v},
	}
}

func requiredRules(_ annotation.Annotation, name string, value any) []Rule {
	return []Rule{{
		Check: func() bool { return !isBlank(value) },
		Error: Error{
			Field:          name,
			Message:        "field is required",
			TranslationKey: "validation.required",
			TranslationValues: map[string]any{
				"field": name,
			},
		},
	}}
}

func minRules(a annotation.Annotation, name string, value any) []Rule {
	r, ok := a.(Min)
	n, isNum := number(value)
	if !ok || !isNum {
		return nil
	}
	return []Rule{{
		Check: func() bool { return n >= r.Value },
		Error: Error{
			Field:          name,
			Message:        fmt.Sprintf("must be at least %v", r.Value),
			TranslationKey: "validation.min",
			TranslationValues: map[string]any{
				"field": name,
				"min":   r.Value,
			},
		},
	}}
}

func maxRules(a annotation.Annotation, name string, value any) []Rule {
	r, ok := a.(Max)
	n, isNum := number(value)
	if !ok || !isNum {
		return nil
	}
	return []Rule{{
		Check: func() bool { return n <= r.Value },
		Error: Error{
			Field:          name,
			Message:        fmt.Sprintf("must be at most %v", r.Value),
			TranslationKey: "validation.max",
			TranslationValues: map[string]any{
				"field": name,
				"max":   r.Value,
			},
		},
	}}
}

func lengthRules(a annotation.Annotation, name string, value any) []Rule {
	r, ok := a.(Length)
	if !ok {
		return nil
	}
	n, isString, ok := length(value)
	if !ok {
		return nil
	}

	minMsg, maxMsg := "must be at least %d characters long", "must be at most %d characters long"
	minKey, maxKey := "validation.min_length", "validation.max_length"
	if !isString {
		minMsg, maxMsg = "must have at least %d items", "must have at most %d items"
		minKey, maxKey = "validation.min_items", "validation.max_items"
	}

	var rules []Rule
	if r.Min > 0 {
		rules = append(rules, Rule{
			Check: func() bool { return n >= r.Min },
			Error: Error{
				Field:          name,
				Message:        fmt.Sprintf(minMsg, r.Min),
				TranslationKey: minKey,
				TranslationValues: map[string]any{
					"field": name,
					"min":   r.Min,
				},
			},
		})
	}
	if r.Max > 0 {
		rules = append(rules, Rule{
			Check: func() bool { return n <= r.Max },
			Error: Error{
				Field:          name,
				Message:        fmt.Sprintf(maxMsg, r.Max),
				TranslationKey: maxKey,
				TranslationValues: map[string]any{
					"field": name,
					"max":   r.Max,
				},
			},
		})
	}
	return rules
}

// patternCache compiles each expression once.
type patternCache struct {
	compiled sync.Map
}

func (c *patternCache) get(expr string) (*regexp.Regexp, error) {
	if re, ok := c.compiled.Load(expr); ok {
		return re.(*regexp.Regexp), nil
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, err
	}
	c.compiled.Store(expr, re)
	return re, nil
}

func (c *patternCache) rules(a annotation.Annotation, name string, value any) []Rule {
	r, ok := a.(Pattern)
	s, isString := text(value)
	if !ok || !isString || s == "" {
		return nil
	}
	re, err := c.get(r.Regexp)
	return []Rule{{
		Check: func() bool { return err == nil && re.MatchString(s) },
		Error: Error{
			Field:          name,
			Message:        "must match the required pattern",
			TranslationKey: "validation.regex_pattern",
			TranslationValues: map[string]any{
				"field":   name,
				"pattern": r.Regexp,
			},
		},
	}}
}

func emailRules(v *validator.Validate) RuleFunc {
	return func(_ annotation.Annotation, name string, value any) []Rule {
		s, ok := text(value)
		if !ok || s == "" {
			return nil
		}
		return []Rule{{
			Check: func() bool { return v.Var(s, "required,email") == nil },
			Error: Error{
				Field:          name,
				Message:        "must be a valid email address",
				TranslationKey: "validation.email",
				TranslationValues: map[string]any{
					"field": name,
				},
			},
		}}
	}
}

func oneOfRules(a annotation.Annotation, name string, value any) []Rule {
	r, ok := a.(OneOf)
	if !ok {
		return nil
	}
	s, ok := text(value)
	if !ok {
		s = fmt.Sprint(indirect(reflect.ValueOf(value)))
	}
	return []Rule{{
		Check: func() bool { return slices.Contains(r.Values, s) },
		Error: Error{
			Field:          name,
			Message:        fmt.Sprintf("must be one of: %s", strings.Join(r.Values, ", ")),
			TranslationKey: "validation.in_list",
			TranslationValues: map[string]any{
				"field":  name,
				"values": r.Values,
			},
		},
	}}
}

// TagAdapter checks values with go-playground/validator tags.
type TagAdapter struct {
	validate *validator.Validate
}

func (t *TagAdapter) Include(_ annotation.Annotation, name string, ctx *Context) bool {
	_, ok := ctx.Value(name)
	return ok
}

func (t *TagAdapter) Validate(a annotation.Annotation, name string, ctx *Context, errs *Errors) {
	r, ok := a.(Tag)
	if !ok || r.Tag == "" {
		return
	}
	v, _ := ctx.Value(name)
	if rv := indirect(reflect.ValueOf(v)); rv.IsValid() {
		v = rv.Interface()
	} else {
		v = nil
	}

	if err := t.check(v, r.Tag); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			for _, fe := range fieldErrs {
				errs.Add(fieldError(name, fe))
			}
			return
		}
		errs.Add(Error{
			Field:          name,
			Message:        "has an invalid validation rule",
			TranslationKey: "validation.invalid_rule",
			TranslationValues: map[string]any{
				"field": name,
				"rule":  r.Tag,
			},
		})
	}
}

// check runs Var, turning the panic raised for unknown tags into an error.
func (t *TagAdapter) check(v any, tag string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrInvalidRule, r)
		}
	}()
	return t.validate.Var(v, tag)
}

func fieldError(name string, fe validator.FieldError) Error {
	msg := "failed the " + fe.Tag() + " check"
	if p := fe.Param(); p != "" {
		msg += " (" + p + ")"
	}
	if fe.Tag() == "required" {
		msg = "field is required"
	}
	return Error{
		Field:          name,
		Message:        msg,
		TranslationKey: "validation." + fe.Tag(),
		TranslationValues: map[string]any{
			"field": name,
			"param": fe.Param(),
		},
	}
}

// isBlank reports whether v is nil, a blank string or an empty collection.
func isBlank(v any) bool {
	if l, ok := v.(interface{ Len() int }); ok {
		rv := reflect.ValueOf(v)
		if rv.Kind() == reflect.Pointer && rv.IsNil() {
			return true
		}
		return l.Len() == 0
	}
	rv := indirect(reflect.ValueOf(v))
	if !rv.IsValid() {
		return true
	}
	switch rv.Kind() {
	case reflect.String:
		return strings.TrimSpace(rv.String()) == ""
	case reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() == 0
	}
	return false
}

func number(v any) (float64, bool) {
	rv := indirect(reflect.ValueOf(v))
	if !rv.IsValid() {
		return 0, false
	}
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	case reflect.String:
		f, err := strconv.ParseFloat(rv.String(), 64)
		return f, err == nil
	}
	return 0, false
}

// length returns the rune count of a string or the length of a collection.
func length(v any) (n int, isString, ok bool) {
	if l, isLen := v.(interface{ Len() int }); isLen {
		if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer && rv.IsNil() {
			return 0, false, false
		}
		return l.Len(), false, true
	}
	rv := indirect(reflect.ValueOf(v))
	if !rv.IsValid() {
		return 0, false, false
	}
	switch rv.Kind() {
	case reflect.String:
		return utf8.RuneCountInString(rv.String()), true, true
	case reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len(), false, true
	}
	return 0, false, false
}

// text returns the string form of strings and text marshalers.
func text(v any) (string, bool) {
	rv := indirect(reflect.ValueOf(v))
	if !rv.IsValid() {
		return "", false
	}
	if rv.Kind() == reflect.String {
		return rv.String(), true
	}
	if m, ok := rv.Interface().(encoding.TextMarshaler); ok {
		b, err := m.MarshalText()
		return string(b), err == nil
	}
	return "", false
}
