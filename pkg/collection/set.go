package collection

import (
	"cmp"
	"fmt"
	"iter"
	"reflect"
	"slices"
)

// Inserter is implemented by single-element containers that can be filled
// without knowing their element type at compile time.
type Inserter interface {
	Insert(v any) error
	ElemType() reflect.Type
	Sorted() bool
	Len() int
}

// Set is a collection of unique values that remembers first-seen order.
// The zero value is ready to use.
type Set[T comparable] struct {
	items []T
	index map[T]struct{}
}

// NewSet returns a set holding values with duplicates removed.
func NewSet[T comparable](values ...T) *Set[T] {
	s := &Set[T]{}
	s.Add(values...)
	return s
}

// Add appends values not already present.
func (s *Set[T]) Add(values ...T) {
	if s.index == nil {
		s.index = make(map[T]struct{}, len(values))
	}
	for _, v := range values {
		if _, ok := s.index[v]; ok {
			continue
		}
		s.index[v] = struct{}{}
		s.items = append(s.items, v)
	}
}

func (s *Set[T]) Has(v T) bool {
	_, ok := s.index[v]
	return ok
}

func (s *Set[T]) Len() int {
	if s == nil {
		return 0
	}
	return len(s.items)
}

// Values returns a copy of the elements in insertion order.
func (s *Set[T]) Values() []T {
	if s == nil {
		return nil
	}
	return slices.Clone(s.items)
}

func (s *Set[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		if s == nil {
			return
		}
		for _, v := range s.items {
			if !yield(v) {
				return
			}
		}
	}
}

// Insert adds v after checking that it holds a T.
func (s *Set[T]) Insert(v any) error {
	typed, ok := v.(T)
	if !ok {
		return fmt.Errorf("%w: %T is not %s", ErrTypeMismatch, v, s.ElemType())
	}
	s.Add(typed)
	return nil
}

// ElemType reports T. It is safe to call on a nil receiver.
func (s *Set[T]) ElemType() reflect.Type { return reflect.TypeFor[T]() }

func (s *Set[T]) Sorted() bool { return false }

// SortedSet is a collection of unique values kept in ascending order.
// The zero value is ready to use.
type SortedSet[T cmp.Ordered] struct {
	items []T
}

func NewSortedSet[T cmp.Ordered](values ...T) *SortedSet[T] {
	s := &SortedSet[T]{}
	s.Add(values...)
	return s
}

func (s *SortedSet[T]) Add(values ...T) {
	for _, v := range values {
		i, found := slices.BinarySearch(s.items, v)
		if found {
			continue
		}
		s.items = slices.Insert(s.items, i, v)
	}
}

func (s *SortedSet[T]) Has(v T) bool {
	_, found := slices.BinarySearch(s.items, v)
	return found
}

func (s *SortedSet[T]) Len() int {
	if s == nil {
		return 0
	}
	return len(s.items)
}

// Values returns a copy of the elements in ascending order.
func (s *SortedSet[T]) Values() []T {
	if s == nil {
		return nil
	}
	return slices.Clone(s.items)
}

func (s *SortedSet[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		if s == nil {
			return
		}
		for _, v := range s.items {
			if !yield(v) {
				return
			}
		}
	}
}

func (s *SortedSet[T]) Insert(v any) error {
	typed, ok := v.(T)
	if !ok {
		return fmt.Errorf("%w: %T is not %s", ErrTypeMismatch, v, s.ElemType())
	}
	s.Add(typed)
	return nil
}

func (s *SortedSet[T]) ElemType() reflect.Type { return reflect.TypeFor[T]() }

func (s *SortedSet[T]) Sorted() bool { return true }
