package bind

import (
	"context"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/dmitrymomot/bindkit/pkg/annotation"
	"github.com/dmitrymomot/bindkit/pkg/collection"
	"github.com/dmitrymomot/bindkit/pkg/method"
	"github.com/dmitrymomot/bindkit/pkg/propexpr"
	"github.com/dmitrymomot/bindkit/pkg/request"
)

// RawValues maps binding names to raw request strings. A nil slice means no
// value; an empty slice means the value is present but empty.
type RawValues = collection.OrderedMap[string, []string]

// TypedValues maps binding names to converted values. A nil value is stored
// explicitly and differs from a missing entry.
type TypedValues = collection.OrderedMap[string, any]

// Context is passed to adapters for one parameter.
type Context struct {
	Request request.Request
	Param   method.Param
	// Raw is nil while raw values are being collected.
	Raw *RawValues
	// Typed holds the values converted so far, or nil while raw values are
	// being collected.
	Typed *TypedValues
}

// Adapter extracts the raw values of one binding annotation kind.
type Adapter interface {
	// Name returns the binding name carried by a, or "" to use the
	// parameter name.
	Name(a annotation.Annotation) string
	// Values returns the raw values bound to name, or nil when the request
	// has none.
	Values(a annotation.Annotation, name string, ctx *Context) []string
}

// TypedAdapter produces a parameter value directly, bypassing conversion.
type TypedAdapter interface {
	Adapter
	TypedValue(a annotation.Annotation, name string, ctx *Context) any
}

// SourceAdapter reads a request source. Parameters that are not scalars may
// be addressed with property expressions: when the request has no entry
// named exactly like the binding, the entries name[...] and name.* are
// collected as "entry=value" expressions. An exact entry takes precedence
// over the expression entries, except that its values written as relative
// expressions ("[0].name=x", ".name=x") are dropped for such parameters; if
// none remain, the expression entries are used.
type SourceAdapter struct {
	Source request.Source
}

func (a SourceAdapter) Name(an annotation.Annotation) string {
	switch v := an.(type) {
	case Param:
		return v.Name
	case Path:
		return v.Name
	case Header:
		return v.Name
	case Cookie:
		return v.Name
	}
	panic(fmt.Errorf("%w: %T", ErrUnexpectedAnnotation, an))
}

func (a SourceAdapter) Values(_ annotation.Annotation, name string, ctx *Context) []string {
	req := ctx.Request
	simple := ctx.Param.Type().IsSimple()
	if vals, ok := req.Values(a.Source, name); ok {
		if !simple {
			vals = dropRelative(vals)
		}
		if len(vals) > 0 || simple {
			if vals == nil {
				vals = []string{}
			}
			return vals
		}
		if exprs := expressions(req, a.Source, name); len(exprs) > 0 {
			return exprs
		}
		return []string{}
	}
	if simple {
		return nil
	}
	return expressions(req, a.Source, name)
}

// dropRelative removes values that parse as expressions with no base.
func dropRelative(vals []string) []string {
	var out []string
	for _, v := range vals {
		if e, ok := propexpr.Parse(v); ok && e.Base == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}

func expressions(req request.Request, src request.Source, name string) []string {
	var out []string
	for _, key := range req.Names(src) {
		if !strings.HasPrefix(key, name+"[") && !strings.HasPrefix(key, name+".") {
			continue
		}
		if _, ok := propexpr.Parse(key + "="); !ok {
			continue
		}
		vals, _ := req.Values(src, key)
		for _, v := range vals {
			out = append(out, key+"="+v)
		}
	}
	return out
}

// BodyAdapter reads the JSON request body. Objects and arrays are returned
// as property expressions based on the binding name.
type BodyAdapter struct{}

func (BodyAdapter) Name(an annotation.Annotation) string {
	if b, ok := an.(Body); ok {
		return b.Name
	}
	panic(fmt.Errorf("%w: %T", ErrUnexpectedAnnotation, an))
}

func (BodyAdapter) Values(an annotation.Annotation, name string, ctx *Context) []string {
	path := name
	if b, ok := an.(Body); ok && b.Path != "" {
		path = b.Path
	}
	vals, ok := ctx.Request.Values(request.SourceBody, path)
	if !ok {
		return nil
	}
	if ctx.Param.Type().IsSimple() {
		return vals
	}
	out := make([]string, len(vals))
	for i, v := range vals {
		if _, ok := propexpr.Parse(v); ok {
			v = propexpr.Rebase([]string{v}, name)[0]
		}
		out[i] = v
	}
	return out
}

var (
	httpRequestType = reflect.TypeFor[*http.Request]()
	contextType     = reflect.TypeFor[context.Context]()
)

// RequestAdapter injects the current request.
type RequestAdapter struct{}

func (RequestAdapter) Name(annotation.Annotation) string { return "" }

func (RequestAdapter) Values(annotation.Annotation, string, *Context) []string { return nil }

func (RequestAdapter) TypedValue(_ annotation.Annotation, _ string, ctx *Context) any {
	switch ctx.Param.Type().Go {
	case httpRequestType:
		if h, ok := ctx.Request.(interface{ HTTP() *http.Request }); ok {
			return h.HTTP()
		}
		return nil
	case contextType:
		return ctx.Request.Context()
	}
	return ctx.Request
}
