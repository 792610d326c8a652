package convert

import (
	"errors"
	"log/slog"
	"reflect"
	"strconv"

	"github.com/dmitrymomot/bindkit/pkg/logger"
	"github.com/dmitrymomot/bindkit/pkg/propexpr"
	"github.com/dmitrymomot/bindkit/pkg/typeinfo"
)

// Simple converts single strings into scalar values.
type Simple interface {
	CanConvert(t reflect.Type) bool
	FromString(raw string, t reflect.Type) (any, error)
}

// Option configures a Converter.
type Option func(*Converter)

func WithLogger(l *slog.Logger) Option {
	return func(c *Converter) {
		if l != nil {
			c.log = l
		}
	}
}

// WithAdapter registers a for exactly t. It panics when t already has an
// adapter.
func WithAdapter(t reflect.Type, a Adapter) Option {
	return func(c *Converter) { c.MustRegister(NewKey(t), a) }
}

// Converter builds beans from property expressions and resolves adapters
// for non-scalar targets. Lists, sets and maps are handled by a
// CollectionAdapter registered for those families.
type Converter struct {
	simple   Simple
	adapters *registry
	log      *slog.Logger
}

// New returns a Converter using simple for scalar leaves. A nil simple
// uses NewSimpleConverter().
func New(simple Simple, opts ...Option) *Converter {
	if simple == nil {
		simple = NewSimpleConverter()
	}
	c := &Converter{
		simple:   simple,
		adapters: newRegistry(),
		log:      logger.Nop(),
	}
	coll := &CollectionAdapter{conv: c}
	for _, k := range []typeinfo.Kind{typeinfo.List, typeinfo.Set, typeinfo.Map} {
		c.MustRegister(KindKey(k), coll)
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.With(logger.Component("convert"))
	return c
}

func (c *Converter) Simple() Simple { return c.simple }

// Register adds an adapter under k.
func (c *Converter) Register(k Key, a Adapter) error {
	return c.adapters.register(k, a)
}

func (c *Converter) MustRegister(k Key, a Adapter) {
	if err := c.Register(k, a); err != nil {
		panic(err)
	}
}

// Adapter returns the adapter registered for t's exact type or, failing
// that, for its family.
func (c *Converter) Adapter(t *typeinfo.Type) (Adapter, bool) {
	return c.adapters.lookup(t)
}

// CanConvert reports whether ctx targets a bean.
func (c *Converter) CanConvert(_ []string, ctx Context) bool {
	return ctx.Type != nil && ctx.Type.Kind == typeinfo.Bean
}

// NewInstance returns a default value of t: a new bean, or an empty
// collection.
func (c *Converter) NewInstance(t *typeinfo.Type) any {
	v := typeinfo.New(t)
	if !v.IsValid() {
		return nil
	}
	return v.Interface()
}

// FromStrings populates a bean of ctx.Type from the expressions under
// ctx.Name. With an empty Name the values are taken as already relative to
// the bean. Conversion failures are returned joined alongside the bean.
func (c *Converter) FromStrings(values []string, ctx Context) (any, error) {
	rel := values
	if ctx.Name != "" {
		rel = propexpr.Select(values, ctx.Name)
	}
	return c.populate(rel, ctx)
}

// FromIndexed populates the bean addressed by name[pos].
func (c *Converter) FromIndexed(values []string, ctx Context, pos int) (any, error) {
	p := strconv.Itoa(pos)
	ctx.Path = ctx.path() + "[" + p + "]"
	return c.populate(propexpr.Select(values, ctx.Name, p), ctx)
}

// FromKeyed populates the bean addressed by name[pos][key].
func (c *Converter) FromKeyed(values []string, ctx Context, pos int, key string) (any, error) {
	p := strconv.Itoa(pos)
	ctx.Path = ctx.path() + "[" + p + "][" + key + "]"
	return c.populate(propexpr.Select(values, ctx.Name, p, key), ctx)
}

func (c *Converter) populate(rel []string, ctx Context) (any, error) {
	t := ctx.Type
	if t == nil || t.Kind != typeinfo.Bean {
		return nil, &ConversionError{Name: ctx.path(), Type: goType(t), Err: ErrUnsupportedType}
	}

	inst := typeinfo.New(t)
	target := inst
	if target.Kind() == reflect.Pointer {
		target = target.Elem()
	}

	var errs []error
	for _, p := range typeinfo.Properties(t.Go) {
		path := joinPath(ctx.path(), p.Name)
		v, err := c.property(rel, ctx.child(p.Name, path, p.Type))
		if err != nil {
			errs = append(errs, err)
		}
		if v == nil {
			continue
		}
		field, ok := p.Get(target)
		if !ok || !field.CanSet() {
			continue
		}
		if err := assign(field, v); err != nil {
			errs = append(errs, &ConversionError{Name: path, Type: p.Type.Go, Err: err})
		}
	}
	return inst.Interface(), errors.Join(errs...)
}

// property converts one bean field from the bean-relative values. A nil
// result leaves the field untouched.
func (c *Converter) property(rel []string, ctx Context) (any, error) {
	t := ctx.Type

	if a, ok := c.adapters.exact(t.Go); ok {
		vals := fieldValues(rel, ctx.Name, t)
		if len(vals) == 0 || !a.CanConvert(vals, ctx) {
			return nil, nil
		}
		v, err := a.FromStrings(vals, ctx)
		return v, Named(err, ctx.path())
	}

	if c.simple.CanConvert(t.Go) {
		raw, ok := propexpr.Lookup(rel, ctx.Name)
		if !ok {
			return nil, nil
		}
		v, err := c.simple.FromString(raw, t.Go)
		return v, Named(err, ctx.path())
	}

	switch t.Kind {
	case typeinfo.Bean:
		sub := propexpr.Select(rel, ctx.Name)
		if len(sub) == 0 {
			return nil, nil
		}
		return c.populate(sub, ctx)
	case typeinfo.List, typeinfo.Set, typeinfo.Map:
		vals := collectionValues(rel, ctx.Name)
		if len(vals) == 0 {
			return nil, nil
		}
		a, ok := c.adapters.lookup(t)
		if !ok || !a.CanConvert(vals, ctx) {
			c.log.Warn("no converter for field", logger.Field(ctx.path()), logger.Type(t))
			return nil, nil
		}
		return a.FromStrings(vals, ctx)
	default:
		if len(fieldValues(rel, ctx.Name, t)) > 0 {
			c.log.Warn("no converter for field", logger.Field(ctx.path()), logger.Type(t))
		}
		return nil, nil
	}
}

// collectionValues returns the indexed expressions addressing name, keeping
// their base, or else the plain repeated values of name.
func collectionValues(rel []string, name string) []string {
	var indexed []string
	for _, raw := range rel {
		if e, ok := propexpr.Parse(raw); ok && e.Base == name && len(e.Segments) > 0 {
			indexed = append(indexed, raw)
		}
	}
	if len(indexed) > 0 {
		return indexed
	}
	return propexpr.LookupAll(rel, name)
}

func fieldValues(rel []string, name string, t *typeinfo.Type) []string {
	if t.IsCollection() {
		return collectionValues(rel, name)
	}
	if vals := propexpr.LookupAll(rel, name); len(vals) > 0 {
		return vals
	}
	return propexpr.Select(rel, name)
}

func joinPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "." + name
}

func goType(t *typeinfo.Type) reflect.Type {
	if t == nil {
		return nil
	}
	return t.Go
}
