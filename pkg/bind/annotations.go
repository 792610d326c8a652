package bind

import "github.com/dmitrymomot/bindkit/pkg/annotation"

// Binding annotation kinds.
const (
	KindParam   annotation.Kind = "bind.param"
	KindPath    annotation.Kind = "bind.path"
	KindHeader  annotation.Kind = "bind.header"
	KindCookie  annotation.Kind = "bind.cookie"
	KindBody    annotation.Kind = "bind.body"
	KindRequest annotation.Kind = "bind.request"
	KindLocale  annotation.Kind = "bind.locale"
)

// Param binds a query or form parameter. An empty Name uses the parameter
// name.
type Param struct{ Name string }

func (Param) Kind() annotation.Kind { return KindParam }

// Path binds a route path parameter.
type Path struct{ Name string }

func (Path) Kind() annotation.Kind { return KindPath }

type Header struct{ Name string }

func (Header) Kind() annotation.Kind { return KindHeader }

type Cookie struct{ Name string }

func (Cookie) Kind() annotation.Kind { return KindCookie }

// Body binds a part of the JSON request body. Path is a gjson path and
// defaults to the binding name; "@this" selects the whole document.
type Body struct {
	Name string
	Path string
}

func (Body) Kind() annotation.Kind { return KindBody }

// Request injects the request itself: *http.Request, context.Context or
// request.Request depending on the parameter type.
type Request struct{}

func (Request) Kind() annotation.Kind { return KindRequest }

// Locale injects the language negotiated for the request.
type Locale struct{}

func (Locale) Kind() annotation.Kind { return KindLocale }
