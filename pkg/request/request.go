package request

import (
	"context"
	"maps"
	"slices"
)

// Source names where a raw value comes from.
type Source string

const (
	SourceParam  Source = "param"
	SourcePath   Source = "path"
	SourceHeader Source = "header"
	SourceCookie Source = "cookie"
	SourceBody   Source = "body"
)

// Request supplies raw request values to the binding pipeline.
type Request interface {
	// Values returns the raw values of name in src. ok is false when the
	// request carries no such entry; a present entry may have no values.
	Values(src Source, name string) (values []string, ok bool)
	// Names returns the entry names available in src in ascending order.
	Names(src Source) []string
	// Scopes returns the routing scopes the request satisfies.
	Scopes() []string
	Context() context.Context
}

type scopesKey struct{}

// WithScopes returns a copy of ctx carrying additional routing scopes.
func WithScopes(ctx context.Context, scopes ...string) context.Context {
	if len(scopes) == 0 {
		return ctx
	}
	merged := append(slices.Clone(ScopesFromContext(ctx)), scopes...)
	return context.WithValue(ctx, scopesKey{}, merged)
}

// ScopesFromContext returns the scopes stored by WithScopes.
func ScopesFromContext(ctx context.Context) []string {
	if ctx == nil {
		return nil
	}
	s, _ := ctx.Value(scopesKey{}).([]string)
	return s
}

// Map is an in-memory Request.
type Map struct {
	sources map[Source]map[string][]string
	scopes  []string
	ctx     context.Context
}

// MapOption configures a Map.
type MapOption func(*Map)

// WithValues adds values for name in src.
func WithValues(src Source, name string, values ...string) MapOption {
	return func(m *Map) {
		if m.sources[src] == nil {
			m.sources[src] = make(map[string][]string)
		}
		if values == nil {
			values = []string{}
		}
		m.sources[src][name] = append(m.sources[src][name], values...)
	}
}

func WithRouteScopes(scopes ...string) MapOption {
	return func(m *Map) { m.scopes = append(m.scopes, scopes...) }
}

func WithContext(ctx context.Context) MapOption {
	return func(m *Map) {
		if ctx != nil {
			m.ctx = ctx
		}
	}
}

// NewMap returns a request whose param source holds params.
func NewMap(params map[string][]string, opts ...MapOption) *Map {
	m := &Map{
		sources: map[Source]map[string][]string{SourceParam: maps.Clone(params)},
		ctx:     context.Background(),
	}
	if m.sources[SourceParam] == nil {
		m.sources[SourceParam] = make(map[string][]string)
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Map) Values(src Source, name string) ([]string, bool) {
	v, ok := m.sources[src][name]
	return v, ok
}

func (m *Map) Names(src Source) []string {
	return slices.Sorted(maps.Keys(m.sources[src]))
}

func (m *Map) Scopes() []string {
	return append(slices.Clone(m.scopes), ScopesFromContext(m.ctx)...)
}

func (m *Map) Context() context.Context { return m.ctx }
