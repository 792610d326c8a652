package typeinfo

import (
	"reflect"
	"strings"
	"sync"
)

// TagName is the struct tag holding a field's property name.
const TagName = "param"

// Property is one bindable field of a struct.
type Property struct {
	Name  string
	Field reflect.StructField
	Type  *Type
}

var (
	propsMu    sync.RWMutex
	propsCache = make(map[reflect.Type][]Property)
)

// Properties returns the bindable fields of t, which may be a struct or a
// pointer to one. Promoted fields of embedded structs are included. The
// result is memoized and must not be modified.
func Properties(t reflect.Type) []Property {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil
	}

	propsMu.RLock()
	props, ok := propsCache[t]
	propsMu.RUnlock()
	if ok {
		return props
	}

	for _, f := range reflect.VisibleFields(t) {
		if !f.IsExported() {
			continue
		}
		if f.Anonymous && f.Tag.Get(TagName) == "" && isStruct(f.Type) && !IsSimple(f.Type) {
			continue
		}
		name, skip := PropertyName(f)
		if skip {
			continue
		}
		props = append(props, Property{Name: name, Field: f, Type: Of(f.Type)})
	}

	propsMu.Lock()
	propsCache[t] = props
	propsMu.Unlock()
	return props
}

// PropertyByName returns the property of t called name.
func PropertyByName(t reflect.Type, name string) (Property, bool) {
	for _, p := range Properties(t) {
		if p.Name == name {
			return p, true
		}
	}
	return Property{}, false
}

// Get returns the field of struct value v backing p. Nil embedded pointers
// are allocated when v is settable; otherwise ok is false.
func (p Property) Get(v reflect.Value) (reflect.Value, bool) {
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return reflect.Value{}, false
		}
		v = v.Elem()
	}
	for i, idx := range p.Field.Index {
		if i > 0 && v.Kind() == reflect.Pointer {
			if v.IsNil() {
				if !v.CanSet() {
					return reflect.Value{}, false
				}
				v.Set(reflect.New(v.Type().Elem()))
			}
			v = v.Elem()
		}
		v = v.Field(idx)
	}
	return v, true
}

// PropertyName returns the property name of f from its param tag, or its
// lower-cased field name. skip is set for param:"-".
func PropertyName(f reflect.StructField) (name string, skip bool) {
	tag := f.Tag.Get(TagName)
	if tag == "" {
		return strings.ToLower(f.Name), false
	}
	if tag == "-" {
		return "", true
	}
	name, _, _ = strings.Cut(tag, ",")
	if name == "" {
		return strings.ToLower(f.Name), false
	}
	return name, false
}

func isStruct(t reflect.Type) bool {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Kind() == reflect.Struct
}
