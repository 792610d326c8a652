package bind

import (
	"reflect"
	"strings"

	"golang.org/x/text/language"

	"github.com/dmitrymomot/bindkit/pkg/annotation"
	"github.com/dmitrymomot/bindkit/pkg/request"
)

const (
	// RFC 5646 recommends 35 characters max.
	maxLangCodeLength       = 35
	maxAcceptLanguageLength = 4096
)

// LocaleOption configures a LocaleAdapter.
type LocaleOption func(*LocaleAdapter)

// WithLocaleCookie sets the cookie holding an explicit language choice.
// An empty name disables the cookie lookup.
func WithLocaleCookie(name string) LocaleOption {
	return func(a *LocaleAdapter) { a.cookie = name }
}

// WithLocaleParam sets the query or form parameter holding an explicit
// language choice. An empty name disables the parameter lookup.
func WithLocaleParam(name string) LocaleOption {
	return func(a *LocaleAdapter) { a.param = name }
}

// LocaleAdapter negotiates the request language. Sources are tried in order:
// the "lang" cookie, the "lang" parameter, the Language header and the
// Accept-Language header. The first source naming a supported language
// wins; without a match the first supported language is used.
//
// With no supported languages configured, the first parseable tag is
// returned as is, and language.Und when there is none.
type LocaleAdapter struct {
	supported []language.Tag
	matcher   language.Matcher
	cookie    string
	param     string
}

func NewLocaleAdapter(supported []language.Tag, opts ...LocaleOption) *LocaleAdapter {
	a := &LocaleAdapter{
		supported: supported,
		cookie:    "lang",
		param:     "lang",
	}
	if len(supported) > 0 {
		a.matcher = language.NewMatcher(supported)
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *LocaleAdapter) Name(annotation.Annotation) string { return "" }

func (a *LocaleAdapter) Values(annotation.Annotation, string, *Context) []string { return nil }

var tagType = reflect.TypeFor[language.Tag]()

// TypedValue returns the negotiated tag, a pointer to it for *language.Tag
// parameters, or its string form for string parameters.
func (a *LocaleAdapter) TypedValue(_ annotation.Annotation, _ string, ctx *Context) any {
	tag := a.Negotiate(ctx.Request)
	switch t := ctx.Param.Type().Go; {
	case t.Kind() == reflect.String:
		return reflect.ValueOf(tag.String()).Convert(t).Interface()
	case t.Kind() == reflect.Pointer && t.Elem() == tagType:
		return &tag
	}
	return tag
}

// Negotiate returns the language for req.
func (a *LocaleAdapter) Negotiate(req request.Request) language.Tag {
	explicit := []struct {
		src  request.Source
		name string
	}{
		{request.SourceCookie, a.cookie},
		{request.SourceParam, a.param},
		{request.SourceHeader, "Language"},
	}
	for _, e := range explicit {
		if e.name == "" {
			continue
		}
		if tag, ok := a.explicit(req, e.src, e.name); ok {
			return tag
		}
	}

	if vals, ok := req.Values(request.SourceHeader, "Accept-Language"); ok {
		header := strings.Join(vals, ",")
		if len(header) > maxAcceptLanguageLength {
			header = header[:maxAcceptLanguageLength]
		}
		if tags, _, err := language.ParseAcceptLanguage(header); err == nil && len(tags) > 0 {
			if tag, ok := a.match(tags...); ok {
				return tag
			}
		}
	}

	if len(a.supported) > 0 {
		return a.supported[0]
	}
	return language.Und
}

func (a *LocaleAdapter) explicit(req request.Request, src request.Source, name string) (language.Tag, bool) {
	vals, ok := req.Values(src, name)
	if !ok || len(vals) == 0 {
		return language.Und, false
	}
	raw := strings.TrimSpace(vals[0])
	if raw == "" || len(raw) > maxLangCodeLength {
		return language.Und, false
	}
	tag, err := language.Parse(raw)
	if err != nil {
		return language.Und, false
	}
	return a.match(tag)
}

func (a *LocaleAdapter) match(tags ...language.Tag) (language.Tag, bool) {
	if a.matcher == nil {
		return tags[0], true
	}
	_, idx, conf := a.matcher.Match(tags...)
	if conf == language.No {
		return language.Und, false
	}
	return a.supported[idx], true
}
