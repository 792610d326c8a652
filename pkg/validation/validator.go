package validation

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"reflect"
	"slices"
	"strconv"

	"golang.org/x/text/language"

	"github.com/dmitrymomot/bindkit/pkg/annotation"
	"github.com/dmitrymomot/bindkit/pkg/collection"
	"github.com/dmitrymomot/bindkit/pkg/convert"
	"github.com/dmitrymomot/bindkit/pkg/logger"
	"github.com/dmitrymomot/bindkit/pkg/method"
	"github.com/dmitrymomot/bindkit/pkg/request"
	"github.com/dmitrymomot/bindkit/pkg/scopes"
	"github.com/dmitrymomot/bindkit/pkg/typeinfo"
)

const maxCascadeDepth = 32

// ScopeMatcher decides whether a rule restricted to on applies to the
// current request.
type ScopeMatcher interface {
	Matches(on []string, ctx *Context) bool
}

// ScopeMatcherFunc adapts a function to ScopeMatcher.
type ScopeMatcherFunc func(on []string, ctx *Context) bool

func (f ScopeMatcherFunc) Matches(on []string, ctx *Context) bool { return f(on, ctx) }

// DefaultScopeMatcher matches rule scopes against the request scopes and the
// handler name. Wildcard patterns such as "admin.*" are supported.
var DefaultScopeMatcher ScopeMatcher = ScopeMatcherFunc(func(on []string, ctx *Context) bool {
	return scopes.MatchesAny(on, ctx.Scopes())
})

// Option configures a Validator.
type Option func(*Validator)

func WithScopeMatcher(m ScopeMatcher) Option {
	return func(v *Validator) {
		if m != nil {
			v.matcher = m
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(v *Validator) {
		if l != nil {
			v.log = l
		}
	}
}

// Validator runs the validation pipeline of a handler call.
//
// The stages run in order and never stop early:
//
//  1. rules declared on the handler
//  2. rules declared on its parameters
//  3. field rules of bean parameters marked Valid, cascading into nested
//     fields marked valid
//  4. custom bean validators
//
// Every failure is appended to the same Errors.
type Validator struct {
	validations *Validations
	matcher     ScopeMatcher
	log         *slog.Logger
}

// NewValidator returns a Validator over validations. It panics when
// validations is nil.
func NewValidator(validations *Validations, opts ...Option) *Validator {
	if validations == nil {
		panic("validation: nil Validations")
	}
	v := &Validator{
		validations: validations,
		matcher:     DefaultScopeMatcher,
		log:         logger.Nop(),
	}
	for _, opt := range opts {
		opt(v)
	}
	v.log = v.log.With(logger.Component("validator"))
	return v
}

func (v *Validator) Validations() *Validations { return v.validations }

// Validate runs every stage for h and returns the result of the last custom
// bean validator invoked, which may be nil.
func (v *Validator) Validate(h *method.Handler, ctx *Context, errs *Errors) any {
	if h == nil || ctx == nil || errs == nil {
		return nil
	}
	params := h.Params()

	v.stage(1, h, errs, func() {
		v.runAll(v.validations.ForHandler(h), ctx, errs)
	})
	v.stage(2, h, errs, func() {
		v.runAll(v.validations.ForMethodParams(params), ctx, errs)
	})
	v.stage(3, h, errs, func() {
		for _, p := range params {
			if _, ok := p.Annotation(KindValid); !ok || !Eligible(p.Type()) {
				continue
			}
			name := v.validations.Name(p)
			if val, ok := ctx.Value(name); ok && val != nil {
				v.validateBean(reflect.ValueOf(val), name, ctx, errs, 0)
			}
		}
	})

	var result any
	v.stage(4, h, errs, func() {
		for _, p := range params {
			if !Eligible(p.Type()) {
				continue
			}
			if on, ok := annotation.FindAs[On](p.Annotations()); ok && len(on.Scopes) > 0 && !v.matcher.Matches(on.Scopes, ctx) {
				continue
			}
			name := v.validations.Name(p)
			bean, ok := ctx.Value(name)
			if !ok || bean == nil {
				continue
			}
			_, cascade := p.Annotation(KindValid)
			for _, bv := range v.validations.ForBean(p.Type().Go) {
				if !v.beanValidationApplies(bv, cascade, ctx) {
					continue
				}
				result = bv.Validator.ValidateBean(bean, name, ctx, errs)
			}
		}
	})
	return result
}

func (v *Validator) beanValidationApplies(bv BeanValidation, cascade bool, ctx *Context) bool {
	if len(bv.On) == 0 {
		return cascade
	}
	return v.matcher.Matches(bv.On, ctx)
}

func (v *Validator) stage(n int, h *method.Handler, errs *Errors, run func()) {
	before := errs.Len()
	run()
	v.log.Debug("validation stage complete",
		logger.Stage(n),
		logger.Handler(h.Name()),
		logger.Count(errs.Len()-before))
}

func (v *Validator) runAll(rules []Validation, ctx *Context, errs *Errors) {
	for _, rule := range rules {
		v.run(rule, ctx, errs)
	}
}

func (v *Validator) run(rule Validation, ctx *Context, errs *Errors) {
	if len(rule.on) > 0 && !v.matcher.Matches(rule.on, ctx) {
		return
	}
	rule.Run(ctx, errs)
}

// validateBean applies the field rules of the bean in val, then descends
// into its cascading fields.
func (v *Validator) validateBean(val reflect.Value, prefix string, ctx *Context, errs *Errors, depth int) {
	if depth > maxCascadeDepth {
		v.log.Warn("bean cascade too deep", logger.Field(prefix))
		return
	}
	val = indirect(val)
	if !val.IsValid() || val.Kind() != reflect.Struct {
		return
	}
	t := val.Type()
	v.runAll(v.validations.ForBeanFields(t, prefix), ctx, errs)

	for _, p := range v.validations.cascades(t) {
		fv, ok := p.Get(val)
		if !ok {
			continue
		}
		v.cascade(fv, joinPath(prefix, p.Name), ctx, errs, depth+1)
	}
}

func (v *Validator) cascade(val reflect.Value, path string, ctx *Context, errs *Errors, depth int) {
	if depth > maxCascadeDepth {
		v.log.Warn("bean cascade too deep", logger.Field(path))
		return
	}
	val = indirect(val)
	if !val.IsValid() {
		return
	}
	switch val.Kind() {
	case reflect.Struct:
		v.validateBean(val, path, ctx, errs, depth)
	case reflect.Slice, reflect.Array:
		for i := range val.Len() {
			v.cascade(val.Index(i), path+"["+strconv.Itoa(i)+"]", ctx, errs, depth+1)
		}
	case reflect.Map:
		keys := val.MapKeys()
		slices.SortFunc(keys, func(a, b reflect.Value) int {
			return cmp.Compare(fmt.Sprint(a.Interface()), fmt.Sprint(b.Interface()))
		})
		for _, k := range keys {
			v.cascade(val.MapIndex(k), path+"["+fmt.Sprint(k.Interface())+"]", ctx, errs, depth+1)
		}
	}
}

var excludedTypes = []reflect.Type{
	reflect.TypeFor[Errors](),
	reflect.TypeFor[*Errors](),
	reflect.TypeFor[*Context](),
	reflect.TypeFor[language.Tag](),
	reflect.TypeFor[url.Values](),
	reflect.TypeFor[http.Header](),
	reflect.TypeFor[http.Cookie](),
	reflect.TypeFor[*http.Cookie](),
	reflect.TypeFor[context.Context](),
	reflect.TypeFor[request.Request](),
	reflect.TypeFor[*collection.OrderedMap[string, []string]](),
	reflect.TypeFor[*collection.OrderedMap[string, any]](),
}

// Eligible reports whether values declared as t take part in bean
// validation. Only structs qualify, and request plumbing such as
// *http.Request, cookies, locales and Errors is excluded.
func Eligible(t *typeinfo.Type) bool {
	if t == nil || t.Kind != typeinfo.Bean || t.Go == nil {
		return false
	}
	if convert.IsLifecycle(t.Go) {
		return false
	}
	return !slices.Contains(excludedTypes, t.Go)
}

// compile-time checks
var (
	_ annotation.Annotation = Valid{}
	_ BeanValidator         = (*StructValidator)(nil)
	_ BeanValidator         = BeanValidatorFunc(nil)
	_ Adapter               = RuleAdapter{}
	_ Adapter               = (*TagAdapter)(nil)
)
