package convert

import (
	"context"
	"encoding"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/bindkit/pkg/typeinfo"
)

// TypeFunc parses raw into a value of the type it is registered for.
type TypeFunc func(raw string) (any, error)

// DefaultTimeLayouts are tried in order when parsing time.Time.
var DefaultTimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	time.DateTime,
	time.DateOnly,
}

var (
	timeType            = reflect.TypeFor[time.Time]()
	durationType        = reflect.TypeFor[time.Duration]()
	uuidType            = reflect.TypeFor[uuid.UUID]()
	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
)

// lifecycleTypes belong to request handling itself and are never bound from
// request strings.
var lifecycleTypes = map[reflect.Type]struct{}{
	reflect.TypeFor[*http.Request]():       {},
	reflect.TypeFor[http.Request]():        {},
	reflect.TypeFor[http.ResponseWriter](): {},
	reflect.TypeFor[context.Context]():     {},
	reflect.TypeFor[*http.Cookie]():        {},
	reflect.TypeFor[http.Cookie]():         {},
	reflect.TypeFor[[]*http.Cookie]():      {},
	reflect.TypeFor[[]http.Cookie]():       {},
	reflect.TypeFor[http.Header]():         {},
}

// IsLifecycle reports whether t is a request-lifecycle type such as
// *http.Request, http.ResponseWriter, context.Context or a cookie slice.
func IsLifecycle(t reflect.Type) bool {
	_, ok := lifecycleTypes[t]
	return ok
}

// SimpleOption configures a SimpleConverter.
type SimpleOption func(*SimpleConverter)

// WithTypeFunc registers fn as the parser for t, taking precedence over the
// built-in rules.
func WithTypeFunc(t reflect.Type, fn TypeFunc) SimpleOption {
	return func(c *SimpleConverter) {
		if t != nil && fn != nil {
			c.funcs[t] = fn
		}
	}
}

// WithTimeLayouts replaces the layouts used for time.Time.
func WithTimeLayouts(layouts ...string) SimpleOption {
	return func(c *SimpleConverter) {
		if len(layouts) > 0 {
			c.layouts = layouts
		}
	}
}

// SimpleConverter converts single strings into scalar values. It is safe for
// concurrent use once constructed.
type SimpleConverter struct {
	funcs   map[reflect.Type]TypeFunc
	layouts []string
}

func NewSimpleConverter(opts ...SimpleOption) *SimpleConverter {
	c := &SimpleConverter{
		funcs:   make(map[reflect.Type]TypeFunc),
		layouts: DefaultTimeLayouts,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CanConvert reports whether t is a scalar type this converter handles.
func (c *SimpleConverter) CanConvert(t reflect.Type) bool {
	if t == nil || IsLifecycle(t) {
		return false
	}
	if _, ok := c.funcs[t]; ok {
		return true
	}
	return typeinfo.IsSimple(t)
}

// FromString converts raw to t. An empty raw yields "" for string types and
// nil for everything else.
func (c *SimpleConverter) FromString(raw string, t reflect.Type) (any, error) {
	if !c.CanConvert(t) {
		return nil, &ConversionError{Value: raw, Type: t, Err: ErrUnsupportedType}
	}

	if fn, ok := c.funcs[t]; ok {
		v, err := fn(raw)
		if err != nil {
			return nil, &ConversionError{Value: raw, Type: t, Err: fmt.Errorf("%w: %w", ErrInvalidValue, err)}
		}
		return v, nil
	}

	if t.Kind() == reflect.Pointer {
		v, err := c.FromString(raw, t.Elem())
		if err != nil || v == nil {
			return nil, err
		}
		p := reflect.New(t.Elem())
		p.Elem().Set(reflect.ValueOf(v))
		return p.Interface(), nil
	}

	if raw == "" {
		if t.Kind() == reflect.String {
			return reflect.Zero(t).Interface(), nil
		}
		return nil, nil
	}

	v, err := c.parse(raw, t)
	if err != nil {
		return nil, &ConversionError{Value: raw, Type: t, Err: fmt.Errorf("%w: %w", ErrInvalidValue, err)}
	}
	return v.Interface(), nil
}

func (c *SimpleConverter) parse(raw string, t reflect.Type) (reflect.Value, error) {
	switch t {
	case timeType:
		tm, err := c.parseTime(raw)
		return reflect.ValueOf(tm), err
	case durationType:
		d, err := time.ParseDuration(raw)
		return reflect.ValueOf(d), err
	case uuidType:
		id, err := uuid.Parse(raw)
		return reflect.ValueOf(id), err
	}

	if reflect.PointerTo(t).Implements(textUnmarshalerType) {
		p := reflect.New(t)
		err := p.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(raw))
		return p.Elem(), err
	}

	v := reflect.New(t).Elem()
	switch t.Kind() {
	case reflect.String:
		v.SetString(raw)
	case reflect.Bool:
		b, err := parseBool(raw)
		if err != nil {
			return v, err
		}
		v.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, t.Bits())
		if err != nil {
			return v, err
		}
		v.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(strings.TrimSpace(raw), 10, t.Bits())
		if err != nil {
			return v, err
		}
		v.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(strings.TrimSpace(raw), t.Bits())
		if err != nil {
			return v, err
		}
		v.SetFloat(f)
	case reflect.Complex64, reflect.Complex128:
		n, err := strconv.ParseComplex(strings.TrimSpace(raw), t.Bits())
		if err != nil {
			return v, err
		}
		v.SetComplex(n)
	case reflect.Slice:
		v.SetBytes([]byte(raw))
	default:
		return v, ErrUnsupportedType
	}
	return v, nil
}

func (c *SimpleConverter) parseTime(raw string) (time.Time, error) {
	var firstErr error
	for _, layout := range c.layouts {
		tm, err := time.Parse(layout, raw)
		if err == nil {
			return tm, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}

// parseBool accepts strconv.ParseBool input plus on/off and yes/no.
func parseBool(raw string) (bool, error) {
	if b, err := strconv.ParseBool(raw); err == nil {
		return b, nil
	}
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "on", "yes", "y":
		return true, nil
	case "off", "no", "n":
		return false, nil
	}
	return false, fmt.Errorf("invalid bool %q", raw)
}
