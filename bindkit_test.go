package bindkit_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/dmitrymomot/bindkit"
	"github.com/dmitrymomot/bindkit/pkg/bind"
	"github.com/dmitrymomot/bindkit/pkg/config"
	"github.com/dmitrymomot/bindkit/pkg/i18n"
	"github.com/dmitrymomot/bindkit/pkg/method"
	"github.com/dmitrymomot/bindkit/pkg/request"
	"github.com/dmitrymomot/bindkit/pkg/validation"
)

type profile struct {
	Name  string `check:"required,minlen=2"`
	Email string `check:"email"`
}

func keys(errs validation.Errors) []string {
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Field+":"+e.TranslationKey)
	}
	return out
}

func TestBinder_Bind(t *testing.T) {
	t.Parallel()

	b := bindkit.New()

	t.Run("scalars", func(t *testing.T) {
		t.Parallel()

		h := method.NewHandler("search", []method.Param{
			method.ParamFor[int]("page", bind.Param{}, validation.Min{Value: 1}),
			method.ParamFor[string]("q", bind.Param{}, validation.Required{}),
		})

		res := b.Bind(h, request.NewMap(map[string][]string{"page": {"0"}}))
		assert.False(t, res.Valid())
		require.Error(t, res.Err())
		assert.True(t, validation.IsValidationError(res.Err()))
		assert.Equal(t, []string{"page:validation.min", "q:validation.required"}, keys(res.Errors))
		assert.Equal(t, []any{0, nil}, res.Args())

		res = b.Bind(h, request.NewMap(map[string][]string{"page": {"2"}, "q": {"go"}}))
		assert.True(t, res.Valid())
		require.NoError(t, res.Err())

		page, ok := bindkit.Arg[int](res, "page")
		require.True(t, ok)
		assert.Equal(t, 2, page)

		_, ok = bindkit.Arg[string](res, "page")
		assert.False(t, ok)
	})

	t.Run("conversion error", func(t *testing.T) {
		t.Parallel()

		h := method.NewHandler("list", []method.Param{
			method.ParamFor[int]("page", bind.Param{}, validation.Min{Value: 1}),
		})

		res := b.Bind(h, request.NewMap(map[string][]string{"page": {"abc"}}))
		require.Len(t, res.Errors, 1)
		assert.Equal(t, "page", res.Errors[0].Field)
		assert.Equal(t, "validation.invalid_value", res.Errors[0].TranslationKey)
		assert.Equal(t, "abc", res.Errors[0].TranslationValues["value"])
		assert.Equal(t, "int", res.Errors[0].TranslationValues["type"])

		_, ok := bindkit.Arg[int](res, "page")
		assert.False(t, ok)

		raw, ok := res.Raw.Get("page")
		require.True(t, ok)
		assert.Equal(t, []string{"abc"}, raw)
	})

	t.Run("bean", func(t *testing.T) {
		t.Parallel()

		h := method.NewHandler("save", []method.Param{
			method.ParamFor[profile]("profile", bind.Param{}, validation.Valid{}),
		})

		res := b.Bind(h, request.NewMap(map[string][]string{"profile.name": {"A"}}))
		assert.Equal(t, []string{"profile.name:validation.min_length"}, keys(res.Errors))

		p, ok := bindkit.Arg[profile](res, "profile")
		require.True(t, ok)
		assert.Equal(t, profile{Name: "A"}, p)

		res = b.Bind(h, request.NewMap(map[string][]string{
			"profile.name":  {"Ann"},
			"profile.email": {"ann@example.com"},
		}))
		assert.True(t, res.Valid())
	})

	t.Run("scopes", func(t *testing.T) {
		t.Parallel()

		h := method.NewHandler("comment", []method.Param{
			method.ParamFor[string]("note", bind.Param{},
				validation.On{Scopes: []string{"admin"}},
				validation.Length{Max: 3},
			),
		})
		vals := map[string][]string{"note": {"too long"}}

		res := b.Bind(h, request.NewMap(vals))
		assert.True(t, res.Valid())

		res = b.Bind(h, request.NewMap(vals, request.WithRouteScopes("admin")))
		assert.Equal(t, []string{"note:validation.max_length"}, keys(res.Errors))
	})

	t.Run("binding names", func(t *testing.T) {
		t.Parallel()

		h := method.NewHandler("find", []method.Param{
			method.ParamFor[string]("term", bind.Param{Name: "query"}, validation.Required{}),
			method.ParamFor[string]("unbound"),
		})

		res := b.Bind(h, request.NewMap(nil))
		assert.Equal(t, []string{"query:validation.required"}, keys(res.Errors))
		assert.Equal(t, []any{nil, nil}, res.Args())
	})

	t.Run("nil handler", func(t *testing.T) {
		t.Parallel()
		assert.PanicsWithValue(t, bindkit.ErrNilHandler, func() {
			b.Bind(nil, request.NewMap(nil))
		})
	})
}

func TestBinder_BindHTTP(t *testing.T) {
	t.Parallel()

	b := bindkit.New(bindkit.WithMaxBodyBytes(1 << 10))
	h := method.NewHandler("updateProfile", []method.Param{
		method.ParamFor[int]("id", bind.Path{}, validation.Min{Value: 1}),
		method.ParamFor[profile]("profile", bind.Body{}, validation.Valid{}),
		method.ParamFor[string]("token", bind.Header{Name: "X-Token"}, validation.On{Scopes: []string{"api"}}, validation.Required{}),
	})

	serve := func(t *testing.T, body string, opts ...request.HTTPOption) *bindkit.Result {
		t.Helper()

		var res *bindkit.Result
		r := chi.NewRouter()
		r.Post("/profiles/{id}", func(w http.ResponseWriter, r *http.Request) {
			res = b.BindHTTP(h, r, opts...)
			w.WriteHeader(http.StatusNoContent)
		})

		req := httptest.NewRequest(http.MethodPost, "/profiles/7", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(httptest.NewRecorder(), req)
		require.NotNil(t, res)
		return res
	}

	t.Run("json body and path", func(t *testing.T) {
		t.Parallel()

		res := serve(t, `{"profile":{"name":"Ann","email":"ann@"}}`)
		assert.Equal(t, []string{"profile.email:validation.email"}, keys(res.Errors))

		id, ok := bindkit.Arg[int](res, "id")
		require.True(t, ok)
		assert.Equal(t, 7, id)

		p, ok := bindkit.Arg[profile](res, "profile")
		require.True(t, ok)
		assert.Equal(t, profile{Name: "Ann", Email: "ann@"}, p)
	})

	t.Run("route scope", func(t *testing.T) {
		t.Parallel()

		res := serve(t, `{"profile":{"name":"Ann"}}`, request.WithHTTPScopes("api"))
		assert.Equal(t, []string{"X-Token:validation.required"}, keys(res.Errors))
	})

	t.Run("malformed body", func(t *testing.T) {
		t.Parallel()

		res := serve(t, `{"profile":`)
		assert.True(t, res.Errors.Has("body"))
		assert.Equal(t, "validation.invalid_body", res.Errors.GetErrors("body")[0].TranslationKey)
		assert.True(t, res.Errors.Has("profile.name"))
	})

	t.Run("body too large", func(t *testing.T) {
		t.Parallel()

		res := serve(t, `{"profile":{"name":"`+strings.Repeat("a", 2<<10)+`"}}`)
		assert.True(t, res.Errors.Has("body"))
	})
}

func TestBinder_Options(t *testing.T) {
	t.Parallel()

	t.Run("field rules", func(t *testing.T) {
		t.Parallel()

		b := bindkit.New(
			bindkit.WithBean("profile", reflect.TypeFor[profile]()),
			bindkit.WithFieldRules([]byte("profile:\n  name: maxlen=3\n")),
		)
		h := method.NewHandler("save", []method.Param{
			method.ParamFor[profile]("p", bind.Param{}, validation.Valid{}),
		})

		res := b.Bind(h, request.NewMap(map[string][]string{"p.name": {"Annabel"}}))
		assert.Equal(t, []string{"p.name:validation.max_length"}, keys(res.Errors))
	})

	t.Run("invalid field rules", func(t *testing.T) {
		t.Parallel()

		assert.Panics(t, func() {
			bindkit.New(bindkit.WithFieldRules([]byte("profile:\n  name: required\n")))
		})

		_, err := bindkit.FromConfig(bindkit.Config{LogLevel: "error", LogFormat: "text"},
			bindkit.WithBean("profile", reflect.TypeFor[profile]()),
			bindkit.WithFieldRules([]byte("profile:\n  name: maxlen=x\n")),
		)
		require.ErrorIs(t, err, bindkit.ErrInvalidConfig)
		require.ErrorIs(t, err, validation.ErrInvalidRule)
	})

	t.Run("bean validator view", func(t *testing.T) {
		t.Parallel()

		b := bindkit.New(bindkit.WithBeanValidator(reflect.TypeFor[profile](),
			validation.BeanValidatorFunc(func(bean any, name string, _ *validation.Context, errs *validation.Errors) any {
				if bean.(profile).Name == "root" {
					errs.Add(validation.Error{Field: name, Message: "reserved", TranslationKey: "validation.reserved"})
					return "reserved"
				}
				return nil
			}),
		))
		h := method.NewHandler("save", []method.Param{
			method.ParamFor[profile]("profile", bind.Param{}, validation.Valid{}),
		})

		res := b.Bind(h, request.NewMap(map[string][]string{"profile.name": {"root"}}))
		assert.Equal(t, []string{"profile:validation.reserved"}, keys(res.Errors))
		assert.Equal(t, "reserved", res.View)

		res = b.Bind(h, request.NewMap(map[string][]string{"profile.name": {"Ann"}}))
		assert.True(t, res.Valid())
		assert.Nil(t, res.View)
	})

	t.Run("scope matcher", func(t *testing.T) {
		t.Parallel()

		b := bindkit.New(bindkit.WithScopeMatcher(validation.ScopeMatcherFunc(func([]string, *validation.Context) bool {
			return false
		})))
		h := method.NewHandler("save", []method.Param{
			method.ParamFor[string]("name", bind.Param{}, validation.Required{Target: validation.OnScopes("*")}),
		})

		assert.True(t, b.Bind(h, request.NewMap(nil)).Valid())
	})
}

func TestBinder_Translator(t *testing.T) {
	t.Parallel()

	tr, err := i18n.NewTranslator(context.Background(), i18n.MapSource{
		"en": {"validation": map[string]any{"required": "%{field} is required"}},
		"uk": {"validation": map[string]any{"required": "%{field} є обов'язковим"}},
	})
	require.NoError(t, err)

	b := bindkit.New(
		bindkit.WithTranslator(tr),
		bindkit.WithSupportedLocales(language.English, language.Ukrainian),
	)

	t.Run("accept language", func(t *testing.T) {
		t.Parallel()

		h := method.NewHandler("save", []method.Param{
			method.ParamFor[string]("name", bind.Param{}, validation.Required{}),
		})
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Accept-Language", "uk-UA,uk;q=0.9,en;q=0.5")

		res := b.BindHTTP(h, r)
		assert.Equal(t, []string{"name є обов'язковим"}, res.Errors.Get("name"))
	})

	t.Run("bound locale", func(t *testing.T) {
		t.Parallel()

		h := method.NewHandler("save", []method.Param{
			method.ParamFor[language.Tag]("lang", bind.Locale{}),
			method.ParamFor[string]("name", bind.Param{}, validation.Required{}),
		})
		req := request.NewMap(nil, request.WithValues(request.SourceHeader, "Accept-Language", "en"))

		res := b.Bind(h, req)
		assert.Equal(t, []string{"name is required"}, res.Errors.Get("name"))
	})
}

func TestConfig(t *testing.T) {
	t.Parallel()

	t.Run("from environment", func(t *testing.T) {
		t.Parallel()

		cfg, err := bindkit.LoadConfig(config.WithEnvironment(map[string]string{
			"BINDKIT_LOG_LEVEL":         "error",
			"BINDKIT_LOG_FORMAT":        "text",
			"BINDKIT_SUPPORTED_LOCALES": "en,uk",
			"BINDKIT_TIME_LAYOUTS":      "02.01.2006",
		}))
		require.NoError(t, err)
		assert.Equal(t, []string{"en", "uk"}, cfg.SupportedLocales)
		assert.Equal(t, []string{"02.01.2006"}, cfg.TimeLayouts)
		assert.Equal(t, int64(1<<20), cfg.MaxBodyBytes)

		b, err := bindkit.FromConfig(cfg)
		require.NoError(t, err)

		h := method.NewHandler("report", []method.Param{
			method.ParamFor[time.Time]("day", bind.Param{}),
		})
		res := b.Bind(h, request.NewMap(map[string][]string{"day": {"18.10.2026"}}))
		require.True(t, res.Valid())

		day, ok := bindkit.Arg[time.Time](res, "day")
		require.True(t, ok)
		assert.Equal(t, time.Date(2026, time.October, 18, 0, 0, 0, 0, time.UTC), day)
	})

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()

		cfg, err := bindkit.LoadConfig(config.WithEnvironment(map[string]string{}))
		require.NoError(t, err)
		assert.Equal(t, "info", cfg.LogLevel)
		assert.Equal(t, "json", cfg.LogFormat)
		assert.Empty(t, cfg.SupportedLocales)
	})

	t.Run("messages dir", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "messages.yaml"),
			[]byte("uk:\n  validation:\n    min: \"%{field} замале\"\n"), 0o600))

		b, err := bindkit.FromConfig(bindkit.Config{
			LogLevel:         "error",
			LogFormat:        "json",
			SupportedLocales: []string{"uk"},
			MessagesDir:      dir,
		})
		require.NoError(t, err)

		h := method.NewHandler("list", []method.Param{
			method.ParamFor[int]("page", bind.Param{}, validation.Min{Value: 1}),
		})
		res := b.Bind(h, request.NewMap(map[string][]string{"page": {"0"}}))
		assert.Equal(t, []string{"page замале"}, res.Errors.Get("page"))

		_, err = bindkit.FromConfig(bindkit.Config{LogLevel: "error", LogFormat: "json", MessagesDir: filepath.Join(dir, "missing")})
		require.ErrorIs(t, err, bindkit.ErrInvalidConfig)
		require.ErrorIs(t, err, i18n.ErrFailedToReadDirectory)
	})

	t.Run("invalid", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name string
			cfg  bindkit.Config
		}{
			{"level", bindkit.Config{LogLevel: "loud", LogFormat: "json"}},
			{"format", bindkit.Config{LogLevel: "info", LogFormat: "xml"}},
			{"locale", bindkit.Config{LogLevel: "info", LogFormat: "json", SupportedLocales: []string{"not a locale!"}}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				t.Parallel()
				_, err := bindkit.FromConfig(tt.cfg)
				require.ErrorIs(t, err, bindkit.ErrInvalidConfig)
			})
		}
	})
}
