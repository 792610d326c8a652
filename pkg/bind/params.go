package bind

import (
	"errors"
	"log/slog"

	"golang.org/x/text/language"

	"github.com/dmitrymomot/bindkit/pkg/annotation"
	"github.com/dmitrymomot/bindkit/pkg/collection"
	"github.com/dmitrymomot/bindkit/pkg/convert"
	"github.com/dmitrymomot/bindkit/pkg/logger"
	"github.com/dmitrymomot/bindkit/pkg/method"
	"github.com/dmitrymomot/bindkit/pkg/request"
	"github.com/dmitrymomot/bindkit/pkg/typeinfo"
)

// Option configures MethodParams.
type Option func(*MethodParams)

func WithLogger(l *slog.Logger) Option {
	return func(m *MethodParams) {
		if l != nil {
			m.log = l
		}
	}
}

// WithAdapter registers a for kind k. It replaces the built-in adapter of
// that kind and panics when k is registered twice through options.
func WithAdapter(k annotation.Kind, a Adapter) Option {
	return func(m *MethodParams) { m.adapters.MustRegister(k, a) }
}

// WithSupportedLocales sets the languages the built-in Locale adapter
// negotiates against.
func WithSupportedLocales(tags ...language.Tag) Option {
	return func(m *MethodParams) { m.locales = tags }
}

// MethodParams extracts raw values for handler parameters and converts them
// to typed values. It is safe for concurrent use.
type MethodParams struct {
	adapters *annotation.Registry[Adapter]
	conv     *convert.Converter
	locales  []language.Tag
	log      *slog.Logger
}

// NewMethodParams returns MethodParams converting with conv. A nil conv uses
// convert.New(nil).
func NewMethodParams(conv *convert.Converter, opts ...Option) *MethodParams {
	m := &MethodParams{
		adapters: annotation.NewRegistry[Adapter](),
		conv:     conv,
		log:      logger.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.log = m.log.With(logger.Component("bind"))
	if m.conv == nil {
		m.conv = convert.New(nil, convert.WithLogger(m.log))
	}

	defaults := map[annotation.Kind]Adapter{
		KindParam:   SourceAdapter{Source: request.SourceParam},
		KindPath:    SourceAdapter{Source: request.SourcePath},
		KindHeader:  SourceAdapter{Source: request.SourceHeader},
		KindCookie:  SourceAdapter{Source: request.SourceCookie},
		KindBody:    BodyAdapter{},
		KindRequest: RequestAdapter{},
		KindLocale:  NewLocaleAdapter(m.locales),
	}
	for k, a := range defaults {
		if !m.adapters.IsRegistered(k) {
			m.adapters.MustRegister(k, a)
		}
	}
	return m
}

// Register adds an adapter for a custom binding annotation kind.
func (m *MethodParams) Register(k annotation.Kind, a Adapter) error {
	return m.adapters.Register(k, a)
}

func (m *MethodParams) Converter() *convert.Converter { return m.conv }

// Binding returns the first annotation of p that has a registered adapter.
func (m *MethodParams) Binding(p method.Param) (annotation.Annotation, Adapter, bool) {
	for _, an := range p.Annotations() {
		if a, ok := m.adapters.For(an); ok {
			return an, a, true
		}
	}
	return nil, nil, false
}

// Name returns the binding name of p: the name carried by its binding
// annotation, or the declared name.
func (m *MethodParams) Name(p method.Param) string {
	an, a, ok := m.Binding(p)
	if !ok {
		return p.Name()
	}
	return bindingName(an, a, p)
}

func bindingName(an annotation.Annotation, a Adapter, p method.Param) string {
	if name := a.Name(an); name != "" {
		return name
	}
	return p.Name()
}

// Values collects the raw values of every bound parameter in declaration
// order. Parameters without a binding annotation are skipped.
func (m *MethodParams) Values(params []method.Param, req request.Request) *RawValues {
	raw := collection.NewOrderedMap[string, []string]()
	for _, p := range params {
		an, a, ok := m.Binding(p)
		if !ok {
			m.log.Debug("parameter has no binding", logger.Param(p.Name()))
			continue
		}
		name := bindingName(an, a, p)
		raw.Set(name, a.Values(an, name, &Context{Request: req, Param: p}))
	}
	return raw
}

// TypedValues converts raw into typed values. The returned error joins every
// conversion failure; the typed values are complete regardless.
func (m *MethodParams) TypedValues(raw *RawValues, params []method.Param, req request.Request) (*TypedValues, error) {
	typed := collection.NewOrderedMap[string, any]()
	var errs []error

	for _, p := range params {
		an, a, ok := m.Binding(p)
		if !ok {
			continue
		}
		name := bindingName(an, a, p)

		if ta, ok := a.(TypedAdapter); ok {
			typed.Set(name, ta.TypedValue(an, name, &Context{Request: req, Param: p, Raw: raw, Typed: typed}))
			continue
		}

		vals, _ := raw.Get(name)
		switch {
		case vals == nil:
			typed.Set(name, m.absent(p))
		case len(vals) == 0:
			typed.Set(name, nil)
		default:
			v, err := m.convert(vals, name, p.Type(), req)
			if err != nil {
				errs = append(errs, err)
			}
			typed.Set(name, v)
		}
	}
	return typed, errors.Join(errs...)
}

// absent is the value of a parameter the request carries nothing for.
func (m *MethodParams) absent(p method.Param) any {
	t := p.Type()
	if p.IsNullable() || t.IsSimple() || m.conv.Simple().CanConvert(t.Go) || convert.IsLifecycle(t.Go) {
		return nil
	}
	return m.conv.NewInstance(t)
}

func (m *MethodParams) convert(vals []string, name string, t *typeinfo.Type, req request.Request) (any, error) {
	if convert.IsLifecycle(t.Go) {
		m.log.Warn("request lifecycle type is not bindable", logger.Param(name), logger.Type(t))
		return nil, nil
	}

	ctx := convert.Context{Name: name, Type: t, Request: req}
	if a, ok := m.conv.Adapter(t); ok && a.CanConvert(vals, ctx) {
		v, err := a.FromStrings(vals, ctx)
		return v, convert.Named(err, name)
	}

	if simple := m.conv.Simple(); simple.CanConvert(t.Go) {
		v, err := simple.FromString(vals[0], t.Go)
		return v, convert.Named(err, name)
	}

	if m.conv.CanConvert(vals, ctx) {
		return m.conv.FromStrings(vals, ctx)
	}

	m.log.Warn("no converter for parameter", logger.Param(name), logger.Type(t))
	return nil, nil
}
