package collection

import (
	"fmt"
	"iter"
	"reflect"
	"slices"
)

// Putter is implemented by key/value containers that can be filled without
// knowing their key and value types at compile time.
type Putter interface {
	Put(k, v any) error
	KeyType() reflect.Type
	ValueType() reflect.Type
	Len() int
}

// OrderedMap is a map that iterates in insertion order. Overwriting an
// existing key keeps its original position. The zero value is ready to use.
type OrderedMap[K comparable, V any] struct {
	keys   []K
	values map[K]V
}

func NewOrderedMap[K comparable, V any]() *OrderedMap[K, V] {
	return &OrderedMap[K, V]{values: make(map[K]V)}
}

// Set stores v under k.
func (m *OrderedMap[K, V]) Set(k K, v V) {
	if m.values == nil {
		m.values = make(map[K]V)
	}
	if _, ok := m.values[k]; !ok {
		m.keys = append(m.keys, k)
	}
	m.values[k] = v
}

// Get returns the value stored under k and whether an entry exists.
func (m *OrderedMap[K, V]) Get(k K) (V, bool) {
	if m == nil {
		var zero V
		return zero, false
	}
	v, ok := m.values[k]
	return v, ok
}

func (m *OrderedMap[K, V]) Has(k K) bool {
	_, ok := m.Get(k)
	return ok
}

func (m *OrderedMap[K, V]) Delete(k K) {
	if _, ok := m.values[k]; !ok {
		return
	}
	delete(m.values, k)
	m.keys = slices.DeleteFunc(m.keys, func(x K) bool { return x == k })
}

// Keys returns a copy of the keys in insertion order.
func (m *OrderedMap[K, V]) Keys() []K {
	if m == nil {
		return nil
	}
	return slices.Clone(m.keys)
}

func (m *OrderedMap[K, V]) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

func (m *OrderedMap[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		if m == nil {
			return
		}
		for _, k := range m.keys {
			if !yield(k, m.values[k]) {
				return
			}
		}
	}
}

// Put stores v under k after checking both types. A nil v stores the zero V.
func (m *OrderedMap[K, V]) Put(k, v any) error {
	key, ok := k.(K)
	if !ok {
		return fmt.Errorf("%w: key %T is not %s", ErrTypeMismatch, k, m.KeyType())
	}
	var val V
	if v != nil {
		if val, ok = v.(V); !ok {
			return fmt.Errorf("%w: value %T is not %s", ErrTypeMismatch, v, m.ValueType())
		}
	}
	m.Set(key, val)
	return nil
}

func (m *OrderedMap[K, V]) KeyType() reflect.Type { return reflect.TypeFor[K]() }

func (m *OrderedMap[K, V]) ValueType() reflect.Type { return reflect.TypeFor[V]() }
