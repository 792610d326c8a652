package method

import (
	"fmt"
	"reflect"
	"slices"

	"github.com/dmitrymomot/bindkit/pkg/annotation"
	"github.com/dmitrymomot/bindkit/pkg/typeinfo"
)

// KindNullable is the kind of Nullable.
const KindNullable annotation.Kind = "method.nullable"

// Nullable marks a parameter whose absence is acceptable without a default
// instance being created.
type Nullable struct{}

func (Nullable) Kind() annotation.Kind { return KindNullable }

// Param is one declared handler parameter.
type Param struct {
	name        string
	typ         *typeinfo.Type
	annotations []annotation.Annotation
	nullable    bool
}

// NewParam returns the descriptor of a parameter called name of type t. It
// panics when t is nil.
func NewParam(name string, t reflect.Type, annotations ...annotation.Annotation) Param {
	if t == nil {
		panic(fmt.Errorf("%w: %s", ErrNilType, name))
	}
	p := Param{
		name:        name,
		typ:         typeinfo.Of(t),
		annotations: slices.DeleteFunc(slices.Clone(annotations), isNil),
	}
	_, p.nullable = annotation.Find(p.annotations, KindNullable)
	return p
}

// ParamFor returns the descriptor of a parameter of type T.
func ParamFor[T any](name string, annotations ...annotation.Annotation) Param {
	return NewParam(name, reflect.TypeFor[T](), annotations...)
}

// Name is the declared parameter name.
func (p Param) Name() string { return p.name }

func (p Param) Type() *typeinfo.Type { return p.typ }

// ParameterizedType returns the full declared type including its type
// arguments, such as "[]map[string]app.Item".
func (p Param) ParameterizedType() string { return p.typ.String() }

// GenericType returns the resolved type arguments: the element of a list or
// set, the key and value of a map. It is empty for other types.
func (p Param) GenericType() []*typeinfo.Type { return slices.Clone(p.typ.Args) }

func (p Param) Annotations() []annotation.Annotation { return slices.Clone(p.annotations) }

// Annotation returns the first annotation of kind k.
func (p Param) Annotation(k annotation.Kind) (annotation.Annotation, bool) {
	return annotation.Find(p.annotations, k)
}

func (p Param) IsNullable() bool { return p.nullable }

func (p Param) String() string {
	return p.name + " " + p.ParameterizedType()
}

// Handler is the descriptor of one bindable handler.
type Handler struct {
	name        string
	params      []Param
	annotations []annotation.Annotation
}

// NewHandler returns a handler descriptor. Parameters keep their declaration
// order.
func NewHandler(name string, params []Param, annotations ...annotation.Annotation) *Handler {
	return &Handler{
		name:        name,
		params:      slices.Clone(params),
		annotations: slices.DeleteFunc(slices.Clone(annotations), isNil),
	}
}

func (h *Handler) Name() string { return h.name }

func (h *Handler) Params() []Param { return slices.Clone(h.params) }

func (h *Handler) Annotations() []annotation.Annotation { return slices.Clone(h.annotations) }

// Param returns the parameter declared as name.
func (h *Handler) Param(name string) (Param, bool) {
	for _, p := range h.params {
		if p.name == name {
			return p, true
		}
	}
	return Param{}, false
}

// Annotation returns the first handler annotation of kind k.
func (h *Handler) Annotation(k annotation.Kind) (annotation.Annotation, bool) {
	return annotation.Find(h.annotations, k)
}

func isNil(a annotation.Annotation) bool { return a == nil }
