package convert

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strconv"

	"github.com/dmitrymomot/bindkit/pkg/collection"
	"github.com/dmitrymomot/bindkit/pkg/logger"
	"github.com/dmitrymomot/bindkit/pkg/propexpr"
	"github.com/dmitrymomot/bindkit/pkg/typeinfo"
)

var stringType = reflect.TypeFor[string]()

// CollectionAdapter converts raw values into slices, arrays, sets and maps.
//
// Scalar elements are converted one raw value at a time; values written as
// name[POS]=v are ordered by POS first. Bean elements are grouped by
// position, and maps nested in a list are grouped by position and key. A
// top-level map reads name[KEY]=v entries. Elements that cannot be
// converted are skipped and reported in the returned error.
type CollectionAdapter struct {
	conv *Converter
}

func (a *CollectionAdapter) CanConvert(_ []string, ctx Context) bool {
	return ctx.Type.IsCollection()
}

func (a *CollectionAdapter) FromStrings(values []string, ctx Context) (any, error) {
	if ctx.Type == nil {
		return nil, &ConversionError{Name: ctx.path(), Err: ErrUnsupportedType}
	}
	switch ctx.Type.Kind {
	case typeinfo.List, typeinfo.Set:
		return a.sequence(values, ctx)
	case typeinfo.Map:
		m := newMapSink(ctx.Type)
		err := a.fillMap(m, values, ctx, ctx.Type, propexpr.Keys(values, ctx.Name), nil, ctx.path())
		return m.value(), err
	}
	return nil, &ConversionError{Name: ctx.path(), Type: goType(ctx.Type), Err: ErrUnsupportedType}
}

func (a *CollectionAdapter) sequence(values []string, ctx Context) (any, error) {
	t := ctx.Type
	elem := t.Elem()
	out := newSeqSink(t)
	var errs []error

	simple := a.conv.simple
	switch {
	case simple.CanConvert(elem.Go):
		raw := values
		if ordered, ok := propexpr.Indexed(values, ctx.Name); ok {
			raw = ordered
		}
		for _, s := range raw {
			var v any = s
			if elem.Go != stringType {
				var err error
				if v, err = simple.FromString(s, elem.Go); err != nil {
					errs = append(errs, Named(err, ctx.path()))
					a.conv.log.Warn("collection element skipped", logger.Param(ctx.path()), logger.Error(err))
					continue
				}
				if v == nil {
					continue
				}
			}
			if err := out.add(v); err != nil {
				errs = append(errs, &ConversionError{Name: ctx.path(), Value: s, Type: elem.Go, Err: err})
			}
		}

	case elem.Kind == typeinfo.Map:
		for _, pos := range propexpr.Positions(values, ctx.Name) {
			p := strconv.Itoa(pos)
			m := newMapSink(elem)
			path := ctx.path() + "[" + p + "]"
			if err := a.fillMap(m, values, ctx, elem, propexpr.MapKeys(values, ctx.Name, pos), []string{p}, path); err != nil {
				errs = append(errs, err)
			}
			if err := out.add(m.value()); err != nil {
				errs = append(errs, &ConversionError{Name: path, Type: elem.Go, Err: err})
			}
		}

	case elem.Kind == typeinfo.Bean:
		bctx := ctx.child(ctx.Name, ctx.path(), elem)
		for _, pos := range propexpr.Positions(values, ctx.Name) {
			v, err := a.conv.FromIndexed(values, bctx, pos)
			if err != nil {
				errs = append(errs, err)
			}
			if v == nil {
				continue
			}
			if err := out.add(v); err != nil {
				errs = append(errs, &ConversionError{Name: ctx.path(), Type: elem.Go, Err: err})
			}
		}

	case elem.Kind == typeinfo.List || elem.Kind == typeinfo.Set:
		for _, pos := range propexpr.Positions(values, ctx.Name) {
			p := strconv.Itoa(pos)
			sub := propexpr.Rebase(propexpr.Select(values, ctx.Name, p), ctx.Name)
			v, err := a.sequence(sub, ctx.child(ctx.Name, ctx.path()+"["+p+"]", elem))
			if err != nil {
				errs = append(errs, err)
			}
			if err := out.add(v); err != nil {
				errs = append(errs, &ConversionError{Name: ctx.path(), Type: elem.Go, Err: err})
			}
		}

	default:
		a.conv.log.Warn("unsupported collection element", logger.Param(ctx.path()), logger.Type(elem))
	}

	return out.value(), errors.Join(errs...)
}

// fillMap converts the entries name[segs...][KEY] for every key into m.
func (a *CollectionAdapter) fillMap(m *mapSink, values []string, ctx Context, mt *typeinfo.Type, keys, segs []string, path string) error {
	var errs []error
	simple := a.conv.simple
	kt, vt := mt.Key(), mt.Value()

	for _, key := range keys {
		entryPath := path + "[" + key + "]"
		k, err := a.mapKey(key, kt)
		if err != nil {
			errs = append(errs, Named(err, entryPath))
			continue
		}
		entry := append(slices.Clone(segs), key)

		var v any
		switch {
		case simple.CanConvert(vt.Go):
			all := propexpr.LookupAll(values, ctx.Name, entry...)
			if len(all) == 0 {
				continue
			}
			raw := all[len(all)-1]
			if vt.Go == stringType {
				v = raw
			} else if v, err = simple.FromString(raw, vt.Go); err != nil {
				errs = append(errs, Named(err, entryPath))
				continue
			}
		case vt.Kind == typeinfo.Bean:
			bctx := ctx.child(ctx.Name, entryPath, vt)
			if len(segs) == 1 {
				pos, _ := strconv.Atoi(segs[0])
				bctx.Path = ctx.path()
				v, err = a.conv.FromKeyed(values, bctx, pos, key)
			} else {
				v, err = a.conv.populate(propexpr.Select(values, ctx.Name, entry...), bctx)
			}
			if err != nil {
				errs = append(errs, err)
			}
		case vt.IsCollection():
			sub := propexpr.Rebase(propexpr.Select(values, ctx.Name, entry...), ctx.Name)
			v, err = a.FromStrings(sub, ctx.child(ctx.Name, entryPath, vt))
			if err != nil {
				errs = append(errs, err)
			}
		default:
			a.conv.log.Warn("unsupported map value", logger.Param(entryPath), logger.Type(vt))
			continue
		}

		if err := m.set(k, v); err != nil {
			errs = append(errs, &ConversionError{Name: entryPath, Type: vt.Go, Err: err})
		}
	}
	return errors.Join(errs...)
}

func (a *CollectionAdapter) mapKey(raw string, kt *typeinfo.Type) (any, error) {
	if kt.Go == stringType {
		return raw, nil
	}
	k, err := a.conv.simple.FromString(raw, kt.Go)
	if err != nil {
		return nil, err
	}
	if k == nil {
		return nil, &ConversionError{Value: raw, Type: kt.Go, Err: ErrInvalidValue}
	}
	return k, nil
}

// seqSink appends converted elements to a slice, array or set.
type seqSink struct {
	v    reflect.Value
	n    int
	elem reflect.Type
	ins  collection.Inserter
}

func newSeqSink(t *typeinfo.Type) *seqSink {
	s := &seqSink{v: typeinfo.New(t), elem: t.Elem().Go}
	if t.Kind == typeinfo.Set {
		s.ins, _ = asInserter(s.v)
	}
	return s
}

func (s *seqSink) add(x any) error {
	ev, err := coerce(x, s.elem)
	if err != nil {
		return err
	}
	switch {
	case s.ins != nil:
		if err := s.ins.Insert(ev.Interface()); err != nil {
			return err
		}
	case s.v.Kind() == reflect.Slice:
		s.v = reflect.Append(s.v, ev)
	default:
		if s.n >= s.v.Len() {
			return fmt.Errorf("%w: array of length %d is full", ErrTypeMismatch, s.v.Len())
		}
		s.v.Index(s.n).Set(ev)
	}
	s.n++
	return nil
}

func (s *seqSink) value() any { return s.v.Interface() }

// mapSink stores entries in a Go map or an ordered map.
type mapSink struct {
	v      reflect.Value
	kt, vt reflect.Type
	put    collection.Putter
}

func newMapSink(t *typeinfo.Type) *mapSink {
	m := &mapSink{v: typeinfo.New(t), kt: t.Key().Go, vt: t.Value().Go}
	if t.Ordered {
		m.put, _ = asPutter(m.v)
	}
	return m
}

func (m *mapSink) set(k, x any) error {
	kv, err := coerce(k, m.kt)
	if err != nil {
		return err
	}
	vv, err := coerce(x, m.vt)
	if err != nil {
		return err
	}
	if m.put != nil {
		return m.put.Put(kv.Interface(), vv.Interface())
	}
	m.v.SetMapIndex(kv, vv)
	return nil
}

func (m *mapSink) value() any { return m.v.Interface() }
