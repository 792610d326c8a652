package bindkit

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"

	"golang.org/x/text/language"

	"github.com/dmitrymomot/bindkit/pkg/annotation"
	"github.com/dmitrymomot/bindkit/pkg/bind"
	"github.com/dmitrymomot/bindkit/pkg/convert"
	"github.com/dmitrymomot/bindkit/pkg/i18n"
	"github.com/dmitrymomot/bindkit/pkg/logger"
	"github.com/dmitrymomot/bindkit/pkg/method"
	"github.com/dmitrymomot/bindkit/pkg/request"
	"github.com/dmitrymomot/bindkit/pkg/validation"
)

// Option configures a Binder.
type Option func(*options)

type beanValidator struct {
	typ reflect.Type
	v   validation.BeanValidator
	on  []string
}

type options struct {
	log          *slog.Logger
	simple       convert.Simple
	convOpts     []convert.Option
	paramOpts    []bind.Option
	valOpts      []validation.ValidationsOption
	matcher      validation.ScopeMatcher
	beans        map[string]reflect.Type
	fieldRules   [][]byte
	validators   []beanValidator
	translator   *i18n.Translator
	maxBodyBytes int64
}

func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithSimpleConverter replaces the scalar converter.
func WithSimpleConverter(s convert.Simple) Option {
	return func(o *options) {
		if s != nil {
			o.simple = s
		}
	}
}

// WithTypeAdapter converts values of exactly type t with a.
func WithTypeAdapter(t reflect.Type, a convert.Adapter) Option {
	return func(o *options) { o.convOpts = append(o.convOpts, convert.WithAdapter(t, a)) }
}

// WithParamAdapter extracts parameters annotated with kind k using a.
func WithParamAdapter(k annotation.Kind, a bind.Adapter) Option {
	return func(o *options) { o.paramOpts = append(o.paramOpts, bind.WithAdapter(k, a)) }
}

// WithValidationAdapter interprets validation annotations of kind k with a.
func WithValidationAdapter(k annotation.Kind, a validation.Adapter) Option {
	return func(o *options) { o.valOpts = append(o.valOpts, validation.WithAdapter(k, a)) }
}

// WithBeanValidator runs v for parameters of type t. A non-empty on
// restricts it to matching requests; otherwise the parameter needs
// validation.Valid.
func WithBeanValidator(t reflect.Type, v validation.BeanValidator, on ...string) Option {
	return func(o *options) { o.validators = append(o.validators, beanValidator{typ: t, v: v, on: on}) }
}

func WithScopeMatcher(m validation.ScopeMatcher) Option {
	return func(o *options) { o.matcher = m }
}

// WithSupportedLocales sets the languages validated parameters annotated
// with bind.Locale negotiate against.
func WithSupportedLocales(tags ...language.Tag) Option {
	return func(o *options) { o.paramOpts = append(o.paramOpts, bind.WithSupportedLocales(tags...)) }
}

// WithBean names bean type t for field rules.
func WithBean(name string, t reflect.Type) Option {
	return func(o *options) {
		if o.beans == nil {
			o.beans = make(map[string]reflect.Type)
		}
		o.beans[name] = t
	}
}

// WithFieldRules adds YAML field rules for beans named with WithBean. See
// validation.Validations.LoadFieldRules for the format.
func WithFieldRules(yaml []byte) Option {
	return func(o *options) { o.fieldRules = append(o.fieldRules, yaml) }
}

// WithTranslator translates the messages of binding errors into the
// language of the request: the value of a bind.Locale parameter, else the
// Accept-Language header.
func WithTranslator(t *i18n.Translator) Option {
	return func(o *options) { o.translator = t }
}

// WithMaxBodyBytes bounds the JSON body read by BindHTTP.
func WithMaxBodyBytes(n int64) Option {
	return func(o *options) { o.maxBodyBytes = n }
}

// Binder binds handler parameters from requests, converts them and validates
// the result. It is safe for concurrent use.
type Binder struct {
	params      *bind.MethodParams
	validations *validation.Validations
	validator   *validation.Validator
	translator  *i18n.Translator
	maxBody     int64
	log         *slog.Logger
}

// New returns a Binder. It panics when field rules or bean registrations are
// invalid.
func New(opts ...Option) *Binder {
	b, err := build(opts)
	if err != nil {
		panic(err)
	}
	return b
}

// NewFromEnv returns a Binder configured from BINDKIT_* environment
// variables. opts are applied after the environment settings.
func NewFromEnv(opts ...Option) (*Binder, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	return FromConfig(cfg, opts...)
}

// FromConfig returns a Binder for cfg. opts are applied after cfg.
func FromConfig(cfg Config, opts ...Option) (*Binder, error) {
	base, err := cfg.Options()
	if err != nil {
		return nil, err
	}
	return build(append(base, opts...))
}

func build(opts []Option) (*Binder, error) {
	o := &options{log: logger.Nop()}
	for _, opt := range opts {
		opt(o)
	}
	log := o.log.With(logger.Component("bindkit"))

	conv := convert.New(o.simple, append([]convert.Option{convert.WithLogger(o.log)}, o.convOpts...)...)
	params := bind.NewMethodParams(conv, append([]bind.Option{bind.WithLogger(o.log)}, o.paramOpts...)...)

	valOpts := append([]validation.ValidationsOption{
		validation.WithValidationsLogger(o.log),
		validation.WithNameFunc(params.Name),
	}, o.valOpts...)
	validations := validation.NewValidations(valOpts...)

	for name, t := range o.beans {
		if err := validations.RegisterBean(name, t); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
	}
	for _, src := range o.fieldRules {
		if err := validations.LoadFieldRules(bytes.NewReader(src)); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
	}
	for _, bv := range o.validators {
		validations.RegisterBeanValidator(bv.typ, bv.v, bv.on...)
	}

	return &Binder{
		params:      params,
		validations: validations,
		validator: validation.NewValidator(validations,
			validation.WithLogger(o.log),
			validation.WithScopeMatcher(o.matcher)),
		translator: o.translator,
		maxBody:    o.maxBodyBytes,
		log:        log,
	}, nil
}

func (b *Binder) Params() *bind.MethodParams { return b.params }

func (b *Binder) Validations() *validation.Validations { return b.validations }

// Bind extracts, converts and validates the parameters of h from req.
// Malformed input never fails the call; it is reported in Result.Errors.
func (b *Binder) Bind(h *method.Handler, req request.Request) *Result {
	if h == nil {
		panic(ErrNilHandler)
	}
	params := h.Params()

	raw := b.params.Values(params, req)
	typed, err := b.params.TypedValues(raw, params, req)

	var errs validation.Errors
	for _, ce := range convert.ConversionErrors(err) {
		errs.Add(invalidValue(ce))
	}
	if hr, ok := req.(*request.HTTP); ok {
		if err := hr.BodyErr(); err != nil {
			b.log.Warn("request body ignored", logger.Handler(h.Name()), logger.Error(err))
			errs.Add(validation.Error{
				Field:          "body",
				Message:        "request body could not be read",
				TranslationKey: "validation.invalid_body",
				TranslationValues: map[string]any{
					"field": "body",
				},
			})
		}
	}

	view := b.validator.Validate(h, validation.NewContext(h, req, raw, typed), &errs)
	if !errs.IsEmpty() {
		b.log.Debug("binding has errors", logger.Handler(h.Name()), logger.Count(errs.Len()))
		if b.translator != nil {
			errs = b.translator.Errors(b.translator.Match(requestLanguage(typed, req)), errs)
		}
	}

	names := make([]string, len(params))
	for i, p := range params {
		names[i] = b.params.Name(p)
	}
	return &Result{Raw: raw, Typed: typed, Errors: errs, View: view, names: names}
}

// BindHTTP binds h from r. Route parameters are read from chi.
func (b *Binder) BindHTTP(h *method.Handler, r *http.Request, opts ...request.HTTPOption) *Result {
	opts = append([]request.HTTPOption{request.WithMaxBodyBytes(b.maxBody), request.WithHTTPLogger(b.log)}, opts...)
	return b.Bind(h, request.FromHTTP(r, opts...))
}

// requestLanguage returns the first bound language.Tag, else the preferred
// Accept-Language entry.
func requestLanguage(typed *bind.TypedValues, req request.Request) language.Tag {
	for _, k := range typed.Keys() {
		if v, _ := typed.Get(k); v != nil {
			if tag, ok := v.(language.Tag); ok {
				return tag
			}
		}
	}
	if vals, ok := req.Values(request.SourceHeader, "Accept-Language"); ok && len(vals) > 0 {
		if tags, _, err := language.ParseAcceptLanguage(vals[0]); err == nil && len(tags) > 0 {
			return tags[0]
		}
	}
	return language.Und
}

func invalidValue(ce *convert.ConversionError) validation.Error {
	field := ce.Name
	if field == "" {
		field = "value"
	}
	typ := ""
	if ce.Type != nil {
		typ = ce.Type.String()
	}
	return validation.Error{
		Field:          field,
		Message:        "has an invalid value",
		TranslationKey: "validation.invalid_value",
		TranslationValues: map[string]any{
			"field": field,
			"value": ce.Value,
			"type":  typ,
		},
	}
}
