package convert

import (
	"fmt"
	"reflect"

	"github.com/dmitrymomot/bindkit/pkg/collection"
)

// coerce returns x as a value assignable to t, wrapping or dereferencing a
// single pointer level when needed. A nil x yields the zero t.
func coerce(x any, t reflect.Type) (reflect.Value, error) {
	if x == nil {
		return reflect.Zero(t), nil
	}
	v := reflect.ValueOf(x)
	vt := v.Type()
	switch {
	case vt.AssignableTo(t):
		return v, nil
	case t.Kind() == reflect.Pointer && vt.AssignableTo(t.Elem()):
		p := reflect.New(t.Elem())
		p.Elem().Set(v)
		return p, nil
	case vt.Kind() == reflect.Pointer && vt.Elem().AssignableTo(t):
		if v.IsNil() {
			return reflect.Zero(t), nil
		}
		return v.Elem(), nil
	case vt.Kind() == t.Kind() && vt.ConvertibleTo(t):
		return v.Convert(t), nil
	}
	return reflect.Value{}, fmt.Errorf("%w: %s is not assignable to %s", ErrTypeMismatch, vt, t)
}

func assign(dst reflect.Value, x any) error {
	v, err := coerce(x, dst.Type())
	if err != nil {
		return err
	}
	dst.Set(v)
	return nil
}

// asInserter returns the collection.Inserter behind v, taking its address
// when v holds the container by value.
func asInserter(v reflect.Value) (collection.Inserter, bool) {
	if v.Kind() != reflect.Pointer && v.CanAddr() {
		v = v.Addr()
	}
	ins, ok := v.Interface().(collection.Inserter)
	return ins, ok
}

func asPutter(v reflect.Value) (collection.Putter, bool) {
	if v.Kind() != reflect.Pointer && v.CanAddr() {
		v = v.Addr()
	}
	p, ok := v.Interface().(collection.Putter)
	return p, ok
}
