package request

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"mime"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/tidwall/gjson"

	"github.com/dmitrymomot/bindkit/pkg/logger"
)

// DefaultMaxBodyBytes bounds the JSON body read by HTTP.
const DefaultMaxBodyBytes int64 = 10 << 20

// HTTP adapts *http.Request. Form and body data are parsed lazily, once.
type HTTP struct {
	r        *http.Request
	maxBody  int64
	scopes   []string
	useRoute bool
	log      *slog.Logger

	formOnce sync.Once
	formErr  error

	bodyOnce sync.Once
	body     gjson.Result
	bodyErr  error
}

// HTTPOption configures an HTTP request.
type HTTPOption func(*HTTP)

// WithMaxBodyBytes limits how much of the body is read. Non-positive values
// keep the default.
func WithMaxBodyBytes(n int64) HTTPOption {
	return func(h *HTTP) {
		if n > 0 {
			h.maxBody = n
		}
	}
}

// WithHTTPScopes adds static routing scopes.
func WithHTTPScopes(scopes ...string) HTTPOption {
	return func(h *HTTP) { h.scopes = append(h.scopes, scopes...) }
}

// WithoutRoutePattern stops the chi route pattern from being reported as a
// scope.
func WithoutRoutePattern() HTTPOption {
	return func(h *HTTP) { h.useRoute = false }
}

// WithHTTPLogger sets the logger reporting skipped body keys.
func WithHTTPLogger(l *slog.Logger) HTTPOption {
	return func(h *HTTP) {
		if l != nil {
			h.log = l
		}
	}
}

func FromHTTP(r *http.Request, opts ...HTTPOption) *HTTP {
	h := &HTTP{r: r, maxBody: DefaultMaxBodyBytes, useRoute: true, log: logger.Nop()}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// HTTP returns the wrapped request.
func (h *HTTP) HTTP() *http.Request { return h.r }

func (h *HTTP) Context() context.Context { return h.r.Context() }

// Scopes returns the static scopes, the scopes stored in the request
// context and the matched chi route pattern.
func (h *HTTP) Scopes() []string {
	out := slices.Clone(h.scopes)
	out = append(out, ScopesFromContext(h.r.Context())...)
	if h.useRoute {
		if rctx := chi.RouteContext(h.r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

func (h *HTTP) Values(src Source, name string) ([]string, bool) {
	switch src {
	case SourceParam:
		if h.parseForm() != nil {
			return nil, false
		}
		v, ok := h.r.Form[name]
		return v, ok
	case SourcePath:
		rctx := chi.RouteContext(h.r.Context())
		if rctx == nil {
			return nil, false
		}
		for i, k := range rctx.URLParams.Keys {
			if k == name && i < len(rctx.URLParams.Values) {
				return []string{rctx.URLParams.Values[i]}, true
			}
		}
		return nil, false
	case SourceHeader:
		v := h.r.Header.Values(name)
		return v, len(v) > 0
	case SourceCookie:
		var out []string
		for _, c := range h.r.Cookies() {
			if c.Name == name {
				out = append(out, c.Value)
			}
		}
		return out, len(out) > 0
	case SourceBody:
		return h.bodyValues(name)
	}
	return nil, false
}

func (h *HTTP) Names(src Source) []string {
	switch src {
	case SourceParam:
		if h.parseForm() != nil {
			return nil
		}
		return slices.Sorted(maps.Keys(h.r.Form))
	case SourcePath:
		if rctx := chi.RouteContext(h.r.Context()); rctx != nil {
			return slices.Sorted(slices.Values(rctx.URLParams.Keys))
		}
	case SourceHeader:
		return slices.Sorted(maps.Keys(h.r.Header))
	case SourceCookie:
		names := make([]string, 0)
		for _, c := range h.r.Cookies() {
			if !slices.Contains(names, c.Name) {
				names = append(names, c.Name)
			}
		}
		slices.Sort(names)
		return names
	case SourceBody:
		body, err := h.jsonBody()
		if err != nil || !body.IsObject() {
			return nil
		}
		var names []string
		body.ForEach(func(k, _ gjson.Result) bool {
			names = append(names, k.String())
			return true
		})
		slices.Sort(names)
		return names
	}
	return nil
}

// BodyErr reports why the JSON body could not be used, if it was read.
func (h *HTTP) BodyErr() error {
	_, err := h.jsonBody()
	return err
}

func (h *HTTP) parseForm() error {
	h.formOnce.Do(func() {
		ct, _, _ := mime.ParseMediaType(h.r.Header.Get("Content-Type"))
		if ct == "multipart/form-data" {
			h.formErr = h.r.ParseMultipartForm(h.maxBody)
			return
		}
		h.formErr = h.r.ParseForm()
	})
	return h.formErr
}

func (h *HTTP) jsonBody() (gjson.Result, error) {
	h.bodyOnce.Do(func() {
		if h.r.Body == nil || h.r.Body == http.NoBody || !isJSON(h.r.Header.Get("Content-Type")) {
			return
		}
		data, err := io.ReadAll(http.MaxBytesReader(nil, h.r.Body, h.maxBody))
		h.r.Body = io.NopCloser(bytes.NewReader(data))
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				h.bodyErr = fmt.Errorf("%w: limit %d bytes", ErrBodyTooLarge, tooLarge.Limit)
				return
			}
			h.bodyErr = fmt.Errorf("request: read body: %w", err)
			return
		}
		if len(bytes.TrimSpace(data)) == 0 {
			return
		}
		if !gjson.ValidBytes(data) {
			h.bodyErr = ErrInvalidBody
			return
		}
		h.body = gjson.ParseBytes(data)
	})
	return h.body, h.bodyErr
}

// bodyValues returns the scalar at path, or the flattened expressions below
// it. An empty path addresses the whole document.
func (h *HTTP) bodyValues(path string) ([]string, bool) {
	body, err := h.jsonBody()
	if err != nil || !body.Exists() {
		return nil, false
	}
	res := body
	if path != "" {
		res = body.Get(path)
	}
	if !res.Exists() {
		return nil, false
	}
	if res.Type == gjson.Null {
		return []string{}, true
	}
	if !res.IsObject() && !res.IsArray() {
		return []string{res.String()}, true
	}
	out := make([]string, 0)
	for _, key := range Flatten(res, &out) {
		h.log.Warn("body key cannot be expressed as a property, skipped",
			logger.Component("request"), logger.Field(key))
	}
	return out, true
}

// Flatten appends one property expression per scalar leaf of r, relative
// to r. Nulls are skipped. Object keys that are empty or contain '.', '[',
// ']' or '=' would be read back as a different path; their subtrees are
// left out and the keys returned.
func Flatten(r gjson.Result, out *[]string) (skipped []string) {
	flatten("", r, out, &skipped)
	return skipped
}

func flatten(prefix string, r gjson.Result, out, skipped *[]string) {
	switch {
	case r.IsObject():
		r.ForEach(func(k, v gjson.Result) bool {
			key := k.String()
			if key == "" || strings.ContainsAny(key, ".[]=") {
				if prefix != "" {
					key = prefix + "/" + key
				}
				*skipped = append(*skipped, key)
				return true
			}
			if prefix != "" {
				key = prefix + "." + key
			}
			flatten(key, v, out, skipped)
			return true
		})
	case r.IsArray():
		for i, v := range r.Array() {
			flatten(prefix+"["+strconv.Itoa(i)+"]", v, out, skipped)
		}
	case r.Type == gjson.Null:
	default:
		*out = append(*out, prefix+"="+r.String())
	}
}

func isJSON(contentType string) bool {
	ct, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return ct == "application/json" || strings.HasSuffix(ct, "+json")
}
