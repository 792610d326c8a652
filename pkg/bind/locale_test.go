package bind_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/dmitrymomot/bindkit/pkg/bind"
	"github.com/dmitrymomot/bindkit/pkg/method"
	"github.com/dmitrymomot/bindkit/pkg/request"
)

var (
	english   = language.MustParse("en")
	german    = language.MustParse("de")
	ukrainian = language.MustParse("uk")
)

func TestLocaleAdapter_Negotiate(t *testing.T) {
	t.Parallel()

	supported := []language.Tag{english, german, ukrainian}

	tests := []struct {
		name string
		opts []request.MapOption
		want language.Tag
	}{
		{
			name: "cookie",
			opts: []request.MapOption{
				request.WithValues(request.SourceCookie, "lang", "de"),
				request.WithValues(request.SourceHeader, "Accept-Language", "uk"),
			},
			want: german,
		},
		{
			name: "query parameter",
			opts: []request.MapOption{request.WithValues(request.SourceParam, "lang", "uk")},
			want: ukrainian,
		},
		{
			name: "unsupported cookie falls through",
			opts: []request.MapOption{
				request.WithValues(request.SourceCookie, "lang", "ja"),
				request.WithValues(request.SourceHeader, "Language", "de"),
			},
			want: german,
		},
		{
			name: "accept language",
			opts: []request.MapOption{request.WithValues(request.SourceHeader, "Accept-Language", "uk-UA,uk;q=0.9,en;q=0.8")},
			want: ukrainian,
		},
		{
			name: "malformed values",
			opts: []request.MapOption{
				request.WithValues(request.SourceCookie, "lang", "not a language tag at all, clearly"),
				request.WithValues(request.SourceHeader, "Accept-Language", ";;;"),
			},
			want: english,
		},
		{
			name: "nothing",
			want: english,
		},
	}

	a := bind.NewLocaleAdapter(supported)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, a.Negotiate(request.NewMap(nil, tt.opts...)))
		})
	}
}

func TestLocaleAdapter_Unrestricted(t *testing.T) {
	t.Parallel()

	a := bind.NewLocaleAdapter(nil, bind.WithLocaleCookie(""), bind.WithLocaleParam("locale"))

	req := request.NewMap(nil,
		request.WithValues(request.SourceCookie, "lang", "de"),
		request.WithValues(request.SourceHeader, "Accept-Language", "fr-CH, fr;q=0.9"),
	)
	assert.Equal(t, "fr-CH", a.Negotiate(req).String())

	req = request.NewMap(map[string][]string{"locale": {"pt-BR"}})
	assert.Equal(t, "pt-BR", a.Negotiate(req).String())

	assert.Equal(t, language.Und, a.Negotiate(request.NewMap(nil)))
}

type langCode string

func TestMethodParams_Locale(t *testing.T) {
	t.Parallel()

	m := bind.NewMethodParams(nil, bind.WithSupportedLocales(english, german))

	req := request.NewMap(nil, request.WithValues(request.SourceHeader, "Accept-Language", "de-AT"))
	params := []method.Param{
		method.ParamFor[language.Tag]("locale", bind.Locale{}),
		method.ParamFor[langCode]("code", bind.Locale{}),
		method.ParamFor[*language.Tag]("ptr", bind.Locale{}),
	}
	raw := m.Values(params, req)
	typed, err := m.TypedValues(raw, params, req)
	require.NoError(t, err)

	v, ok := typed.Get("locale")
	require.True(t, ok)
	assert.Equal(t, german, v)

	v, ok = typed.Get("code")
	require.True(t, ok)
	assert.Equal(t, langCode("de"), v)

	v, ok = typed.Get("ptr")
	require.True(t, ok)
	ptr, ok := v.(*language.Tag)
	require.True(t, ok, "got %T", v)
	assert.Equal(t, german, *ptr)
}
