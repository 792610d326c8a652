package typeinfo

import (
	"encoding"
	"reflect"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/bindkit/pkg/collection"
)

// Kind is the binding family of a type.
type Kind uint8

const (
	Invalid Kind = iota
	Scalar
	Bean
	List
	Set
	Map
	Interface
	Unsupported
)

func (k Kind) String() string {
	switch k {
	case Scalar:
		return "scalar"
	case Bean:
		return "bean"
	case List:
		return "list"
	case Set:
		return "set"
	case Map:
		return "map"
	case Interface:
		return "interface"
	case Unsupported:
		return "unsupported"
	default:
		return "invalid"
	}
}

// Type is a pre-resolved type descriptor. Descriptors returned by Of are
// shared and must not be modified.
type Type struct {
	Kind Kind
	Go   reflect.Type
	// Args holds the element descriptor for lists and sets, and the key and
	// value descriptors for maps.
	Args []*Type
	// Sorted is set for sets that keep their elements in ascending order.
	Sorted bool
	// Ordered is set for maps that iterate in insertion order.
	Ordered bool
}

func (t *Type) String() string {
	if t == nil || t.Go == nil {
		return "<invalid>"
	}
	return t.Go.String()
}

// Elem returns the element descriptor of a list or set.
func (t *Type) Elem() *Type {
	if t == nil || (t.Kind != List && t.Kind != Set) || len(t.Args) == 0 {
		return nil
	}
	return t.Args[0]
}

// Key returns the key descriptor of a map.
func (t *Type) Key() *Type {
	if t == nil || t.Kind != Map || len(t.Args) < 2 {
		return nil
	}
	return t.Args[0]
}

// Value returns the value descriptor of a map.
func (t *Type) Value() *Type {
	if t == nil || t.Kind != Map || len(t.Args) < 2 {
		return nil
	}
	return t.Args[1]
}

func (t *Type) IsSimple() bool { return t != nil && t.Kind == Scalar }

// IsCollection reports whether t is a list, set or map.
func (t *Type) IsCollection() bool {
	return t != nil && (t.Kind == List || t.Kind == Set || t.Kind == Map)
}

var (
	timeType            = reflect.TypeFor[time.Time]()
	durationType        = reflect.TypeFor[time.Duration]()
	uuidType            = reflect.TypeFor[uuid.UUID]()
	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
	inserterType        = reflect.TypeFor[collection.Inserter]()
	putterType          = reflect.TypeFor[collection.Putter]()
)

var (
	mu    sync.RWMutex
	cache = make(map[reflect.Type]*Type)
)

// For returns the descriptor of T.
func For[T any]() *Type {
	return Of(reflect.TypeFor[T]())
}

// Of returns the memoized descriptor of t. A nil t yields an Invalid type.
func Of(t reflect.Type) *Type {
	if t == nil {
		return &Type{Kind: Invalid}
	}

	mu.RLock()
	ti, ok := cache[t]
	mu.RUnlock()
	if ok {
		return ti
	}

	mu.Lock()
	defer mu.Unlock()
	return resolve(t)
}

// resolve must be called with mu held. The descriptor is cached before its
// arguments are resolved so self-referencing types terminate.
func resolve(t reflect.Type) *Type {
	if ti, ok := cache[t]; ok {
		return ti
	}
	ti := &Type{Go: t}
	cache[t] = ti

	if IsSimple(t) {
		ti.Kind = Scalar
		return ti
	}

	ptr := t
	if t.Kind() != reflect.Pointer {
		ptr = reflect.PointerTo(t)
	}

	switch {
	case ptr.Implements(inserterType):
		c := reflect.Zero(ptr).Interface().(collection.Inserter)
		ti.Kind = Set
		ti.Sorted = c.Sorted()
		ti.Args = []*Type{resolve(c.ElemType())}
	case ptr.Implements(putterType):
		m := reflect.Zero(ptr).Interface().(collection.Putter)
		ti.Kind = Map
		ti.Ordered = true
		ti.Args = []*Type{resolve(m.KeyType()), resolve(m.ValueType())}
	case t.Kind() == reflect.Map:
		ti.Kind = Map
		ti.Args = []*Type{resolve(t.Key()), resolve(t.Elem())}
	case t.Kind() == reflect.Slice || t.Kind() == reflect.Array:
		ti.Kind = List
		ti.Args = []*Type{resolve(t.Elem())}
	case t.Kind() == reflect.Struct:
		ti.Kind = Bean
	case t.Kind() == reflect.Pointer && t.Elem().Kind() == reflect.Struct:
		ti.Kind = Bean
	case t.Kind() == reflect.Interface:
		ti.Kind = Interface
	default:
		ti.Kind = Unsupported
	}
	return ti
}

// IsSimple reports whether values of t are converted from a single string:
// booleans, numbers, strings, byte slices, time values, UUIDs, any type
// implementing encoding.TextUnmarshaler, and pointers to those.
func IsSimple(t reflect.Type) bool {
	if t == nil {
		return false
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t {
	case timeType, durationType, uuidType:
		return true
	}
	if reflect.PointerTo(t).Implements(textUnmarshalerType) {
		return true
	}
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128,
		reflect.String:
		return true
	case reflect.Slice:
		return t.Elem().Kind() == reflect.Uint8
	}
	return false
}

// New allocates a default instance of t: an empty list, set or map, or a new
// bean. Other kinds yield the zero value.
func New(t *Type) reflect.Value {
	if t == nil || t.Go == nil {
		return reflect.Value{}
	}
	g := t.Go
	switch t.Kind {
	case Bean, Set:
		return alloc(g)
	case Map:
		if t.Ordered {
			return alloc(g)
		}
		return reflect.MakeMap(g)
	case List:
		if g.Kind() == reflect.Slice {
			return reflect.MakeSlice(g, 0, 0)
		}
		return reflect.New(g).Elem()
	default:
		return reflect.Zero(g)
	}
}

func alloc(g reflect.Type) reflect.Value {
	if g.Kind() == reflect.Pointer {
		return reflect.New(g.Elem())
	}
	return reflect.New(g).Elem()
}
