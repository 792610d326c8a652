package validation

import (
	"slices"

	"github.com/dmitrymomot/bindkit/pkg/annotation"
)

// Validation annotation kinds.
const (
	KindRequired annotation.Kind = "validation.required"
	KindMin      annotation.Kind = "validation.min"
	KindMax      annotation.Kind = "validation.max"
	KindLength   annotation.Kind = "validation.length"
	KindPattern  annotation.Kind = "validation.pattern"
	KindEmail    annotation.Kind = "validation.email"
	KindOneOf    annotation.Kind = "validation.one_of"
	KindTag      annotation.Kind = "validation.tag"
	KindValid    annotation.Kind = "validation.valid"
	KindOn       annotation.Kind = "validation.on"
)

// Target restricts where a rule applies.
type Target struct {
	// Fields lists the parameters or property paths a handler-level rule
	// checks. It is ignored on parameters and fields.
	Fields []string
	// On restricts the rule to requests matching one of these scopes.
	On []string
}

func (t Target) target() Target { return t }

// OnScopes returns a Target restricted to scopes.
func OnScopes(scopes ...string) Target { return Target{On: scopes} }

// ForFields returns a Target checking fields.
func ForFields(fields ...string) Target { return Target{Fields: fields} }

// targeted is implemented by every rule annotation through Target.
type targeted interface {
	annotation.Annotation
	target() Target
}

// scopable rule annotations can be restricted after parsing.
type scopable interface {
	withOn(on []string) annotation.Annotation
}

// Required fails when the value is missing, nil, a blank string or an empty
// collection.
type Required struct{ Target }

func (Required) Kind() annotation.Kind { return KindRequired }

func (r Required) withOn(on []string) annotation.Annotation { r.On = on; return r }

// Min fails when a number is below Value.
type Min struct {
	Value float64
	Target
}

func (Min) Kind() annotation.Kind { return KindMin }

func (r Min) withOn(on []string) annotation.Annotation { r.On = on; return r }

// Max fails when a number is above Value.
type Max struct {
	Value float64
	Target
}

func (Max) Kind() annotation.Kind { return KindMax }

func (r Max) withOn(on []string) annotation.Annotation { r.On = on; return r }

// Length bounds the rune count of a string or the length of a collection.
// A zero Max is unbounded.
type Length struct {
	Min int
	Max int
	Target
}

func (Length) Kind() annotation.Kind { return KindLength }

func (r Length) withOn(on []string) annotation.Annotation { r.On = on; return r }

// Pattern requires a string to match Regexp.
type Pattern struct {
	Regexp string
	Target
}

func (Pattern) Kind() annotation.Kind { return KindPattern }

func (r Pattern) withOn(on []string) annotation.Annotation { r.On = on; return r }

type Email struct{ Target }

func (Email) Kind() annotation.Kind { return KindEmail }

func (r Email) withOn(on []string) annotation.Annotation { r.On = on; return r }

// OneOf requires the value's string form to be one of Values.
type OneOf struct {
	Values []string
	Target
}

func (OneOf) Kind() annotation.Kind { return KindOneOf }

func (r OneOf) withOn(on []string) annotation.Annotation {
	r.Values = slices.Clone(r.Values)
	r.On = on
	return r
}

// Tag checks the value with a go-playground/validator tag such as
// "uuid4" or "gte=1,lte=10".
type Tag struct {
	Tag string
	Target
}

func (Tag) Kind() annotation.Kind { return KindTag }

func (r Tag) withOn(on []string) annotation.Annotation { r.On = on; return r }

// Valid cascades validation into the fields of a bean parameter or field,
// and enables custom bean validators without scope restriction.
type Valid struct{}

func (Valid) Kind() annotation.Kind { return KindValid }

// On restricts every rule of a parameter that has no scopes of its own.
type On struct {
	Scopes []string
}

func (On) Kind() annotation.Kind { return KindOn }

// targetOf returns the Target of a rule annotation, if it has one.
func targetOf(a annotation.Annotation) Target {
	if t, ok := a.(targeted); ok {
		return t.target()
	}
	return Target{}
}
