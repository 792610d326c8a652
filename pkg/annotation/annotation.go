package annotation

import (
	"fmt"
	"slices"
	"sync"
)

// Kind identifies an annotation type.
type Kind string

func (k Kind) String() string { return string(k) }

// Annotation is a piece of declarative metadata attached to a handler, a
// parameter or a struct field.
type Annotation interface {
	Kind() Kind
}

// Find returns the first annotation of kind k.
func Find(as []Annotation, k Kind) (Annotation, bool) {
	for _, a := range as {
		if a != nil && a.Kind() == k {
			return a, true
		}
	}
	return nil, false
}

// FindAs returns the first annotation whose dynamic type is T.
func FindAs[T Annotation](as []Annotation) (T, bool) {
	for _, a := range as {
		if t, ok := a.(T); ok {
			return t, true
		}
	}
	var zero T
	return zero, false
}

// Registry maps annotation kinds to handlers of type H.
type Registry[H any] struct {
	mu       sync.RWMutex
	handlers map[Kind]H
}

func NewRegistry[H any]() *Registry[H] {
	return &Registry[H]{handlers: make(map[Kind]H)}
}

// Register adds h for kind k. A kind can only be registered once.
func (r *Registry[H]) Register(k Kind, h H) error {
	if k == "" {
		return ErrEmptyKind
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.handlers[k]; exists {
		return fmt.Errorf("%w: %s", ErrAlreadyRegistered, k)
	}
	r.handlers[k] = h
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry[H]) MustRegister(k Kind, h H) {
	if err := r.Register(k, h); err != nil {
		panic(err)
	}
}

// Lookup returns the handler registered for k.
func (r *Registry[H]) Lookup(k Kind) (H, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	h, ok := r.handlers[k]
	return h, ok
}

// For returns the handler registered for the kind of a.
func (r *Registry[H]) For(a Annotation) (H, bool) {
	if a == nil {
		var zero H
		return zero, false
	}
	return r.Lookup(a.Kind())
}

func (r *Registry[H]) IsRegistered(k Kind) bool {
	_, ok := r.Lookup(k)
	return ok
}

// Kinds returns the registered kinds in ascending order.
func (r *Registry[H]) Kinds() []Kind {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kinds := make([]Kind, 0, len(r.handlers))
	for k := range r.handlers {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)
	return kinds
}
