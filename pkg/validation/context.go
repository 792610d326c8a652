package validation

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/dmitrymomot/bindkit/pkg/collection"
	"github.com/dmitrymomot/bindkit/pkg/method"
	"github.com/dmitrymomot/bindkit/pkg/request"
	"github.com/dmitrymomot/bindkit/pkg/scopes"
	"github.com/dmitrymomot/bindkit/pkg/typeinfo"
)

// Context is the read-only view of one request that validation adapters
// work on. It is built once per request and shared by every stage.
type Context struct {
	handler *method.Handler
	req     request.Request
	raw     *collection.OrderedMap[string, []string]
	typed   *collection.OrderedMap[string, any]
	scopes  []string
}

// NewContext returns the validation context of h for req. Nil value maps are
// treated as empty.
func NewContext(h *method.Handler, req request.Request, raw *collection.OrderedMap[string, []string], typed *collection.OrderedMap[string, any]) *Context {
	if raw == nil {
		raw = collection.NewOrderedMap[string, []string]()
	}
	if typed == nil {
		typed = collection.NewOrderedMap[string, any]()
	}
	c := &Context{handler: h, req: req, raw: raw, typed: typed}

	var current []string
	if req != nil {
		current = req.Scopes()
	}
	if h != nil && h.Name() != "" {
		current = append(current, h.Name())
	}
	c.scopes = scopes.NormalizeScopes(current)
	return c
}

func (c *Context) Handler() *method.Handler { return c.handler }

func (c *Context) Request() request.Request { return c.req }

// Scopes returns the scopes the request satisfies, including the handler
// name.
func (c *Context) Scopes() []string { return c.scopes }

// Raw returns the raw values bound to name.
func (c *Context) Raw(name string) ([]string, bool) {
	return c.raw.Get(name)
}

// Value resolves a binding name followed by property names and index or key
// segments, such as "user.addresses[0].city" or "limits[daily]". It reports
// false when any step of the path does not exist.
func (c *Context) Value(path string) (any, bool) {
	steps, ok := splitPath(path)
	if !ok || steps[0].bracket {
		return nil, false
	}
	root, ok := c.typed.Get(steps[0].name)
	if !ok {
		return nil, false
	}
	if len(steps) == 1 {
		return root, true
	}

	v := reflect.ValueOf(root)
	for _, s := range steps[1:] {
		v = indirect(v)
		if !v.IsValid() {
			return nil, false
		}
		if v, ok = s.resolve(v); !ok {
			return nil, false
		}
	}
	if !v.IsValid() || !v.CanInterface() {
		return nil, false
	}
	return v.Interface(), true
}

type step struct {
	name    string
	bracket bool
}

func splitPath(path string) ([]step, bool) {
	var steps []step
	for path != "" {
		switch path[0] {
		case '[':
			end := strings.IndexByte(path, ']')
			if end < 0 {
				return nil, false
			}
			steps = append(steps, step{name: path[1:end], bracket: true})
			path = path[end+1:]
		case '.':
			path = path[1:]
			if path == "" || path[0] == '.' || path[0] == '[' {
				return nil, false
			}
		default:
			end := strings.IndexAny(path, ".[")
			if end < 0 {
				end = len(path)
			}
			steps = append(steps, step{name: path[:end]})
			path = path[end:]
		}
	}
	return steps, len(steps) > 0
}

func (s step) resolve(v reflect.Value) (reflect.Value, bool) {
	switch v.Kind() {
	case reflect.Struct:
		if s.bracket {
			return reflect.Value{}, false
		}
		p, ok := typeinfo.PropertyByName(v.Type(), s.name)
		if !ok {
			return reflect.Value{}, false
		}
		return p.Get(v)
	case reflect.Slice, reflect.Array:
		i, err := strconv.Atoi(s.name)
		if !s.bracket || err != nil || i < 0 || i >= v.Len() {
			return reflect.Value{}, false
		}
		return v.Index(i), true
	case reflect.Map:
		k, ok := mapKey(s.name, v.Type().Key())
		if !ok {
			return reflect.Value{}, false
		}
		e := v.MapIndex(k)
		return e, e.IsValid()
	}
	return reflect.Value{}, false
}

func mapKey(raw string, t reflect.Type) (reflect.Value, bool) {
	switch t.Kind() {
	case reflect.String:
		return reflect.ValueOf(raw).Convert(t), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, t.Bits())
		if err != nil {
			return reflect.Value{}, false
		}
		return reflect.ValueOf(n).Convert(t), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(raw, 10, t.Bits())
		if err != nil {
			return reflect.Value{}, false
		}
		return reflect.ValueOf(n).Convert(t), true
	}
	return reflect.Value{}, false
}

// indirect follows pointers and interfaces. It returns the zero Value for
// nil.
func indirect(v reflect.Value) reflect.Value {
	for v.IsValid() && (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}
