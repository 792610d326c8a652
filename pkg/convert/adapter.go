package convert

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/dmitrymomot/bindkit/pkg/request"
	"github.com/dmitrymomot/bindkit/pkg/typeinfo"
)

// Context describes one conversion target.
type Context struct {
	// Name is the base under which the values are addressed.
	Name string
	// Path is the full property path used in errors and logs. It defaults
	// to Name.
	Path    string
	Type    *typeinfo.Type
	Request request.Request
}

func (c Context) path() string {
	if c.Path != "" {
		return c.Path
	}
	return c.Name
}

// child returns the context of a nested target named name at path.
func (c Context) child(name, path string, t *typeinfo.Type) Context {
	return Context{Name: name, Path: path, Type: t, Request: c.Request}
}

// Adapter converts a set of raw strings into one value of a type family.
type Adapter interface {
	CanConvert(values []string, ctx Context) bool
	// FromStrings returns the converted value. A non-nil error reports
	// values that were skipped; the returned value is still usable.
	FromStrings(values []string, ctx Context) (any, error)
}

// AdapterFunc adapts a function to the Adapter interface. It converts any
// input.
type AdapterFunc func(values []string, ctx Context) (any, error)

func (f AdapterFunc) CanConvert([]string, Context) bool { return true }

func (f AdapterFunc) FromStrings(values []string, ctx Context) (any, error) {
	return f(values, ctx)
}

// Key identifies an adapter registration: either one exact Go type or a
// whole type family. Keys are comparable values and cannot be changed after
// construction.
type Key struct {
	typ  reflect.Type
	kind typeinfo.Kind
}

// NewKey returns the key for exactly t.
func NewKey(t reflect.Type) Key { return Key{typ: t} }

// KindKey returns the key for every type of family k.
func KindKey(k typeinfo.Kind) Key { return Key{kind: k} }

func (k Key) String() string {
	if k.typ != nil {
		return k.typ.String()
	}
	return "kind:" + k.kind.String()
}

// registry maps keys to adapters. Lookups take a read lock only.
type registry struct {
	mu       sync.RWMutex
	adapters map[Key]Adapter
}

func newRegistry() *registry {
	return &registry{adapters: make(map[Key]Adapter)}
}

func (r *registry) register(k Key, a Adapter) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.adapters[k]; ok {
		return fmt.Errorf("%w: %s", ErrAlreadyRegistered, k)
	}
	r.adapters[k] = a
	return nil
}

// lookup resolves the exact type first, then the family.
func (r *registry) lookup(t *typeinfo.Type) (Adapter, bool) {
	if t == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if a, ok := r.adapters[NewKey(t.Go)]; ok {
		return a, true
	}
	a, ok := r.adapters[KindKey(t.Kind)]
	return a, ok
}

func (r *registry) exact(t reflect.Type) (Adapter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.adapters[NewKey(t)]
	return a, ok
}
