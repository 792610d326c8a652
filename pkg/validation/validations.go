package validation

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"slices"
	"sync"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/bindkit/pkg/annotation"
	"github.com/dmitrymomot/bindkit/pkg/logger"
	"github.com/dmitrymomot/bindkit/pkg/method"
	"github.com/dmitrymomot/bindkit/pkg/typeinfo"
)

// Validation is one rule bound to the name it checks. It is immutable.
type Validation struct {
	annotation annotation.Annotation
	adapter    Adapter
	name       string
	on         []string
}

// NewValidation binds rule a, interpreted by adapter, to name. A non-empty
// on restricts the rule to matching requests.
func NewValidation(a annotation.Annotation, adapter Adapter, name string, on []string) Validation {
	return Validation{annotation: a, adapter: adapter, name: name, on: slices.Clone(on)}
}

func (v Validation) Annotation() annotation.Annotation { return v.annotation }

func (v Validation) Adapter() Adapter { return v.adapter }

func (v Validation) Name() string { return v.name }

func (v Validation) On() []string { return slices.Clone(v.on) }

// Run checks the rule when its adapter includes it.
func (v Validation) Run(ctx *Context, errs *Errors) {
	if v.adapter == nil || v.annotation == nil {
		return
	}
	if v.adapter.Include(v.annotation, v.name, ctx) {
		v.adapter.Validate(v.annotation, v.name, ctx, errs)
	}
}

func (v Validation) renamed(name string) Validation {
	v.name = name
	return v
}

// BeanValidation is a custom validator registered for a bean type.
type BeanValidation struct {
	Validator BeanValidator
	On        []string
}

// ValidationsOption configures a Validations registry.
type ValidationsOption func(*Validations)

// WithAdapter registers a for kind k, replacing a built-in adapter.
func WithAdapter(k annotation.Kind, a Adapter) ValidationsOption {
	return func(r *Validations) { r.custom[k] = a }
}

// WithNameFunc sets how parameters are named in errors and Context.Value
// lookups. The default is the parameter name.
func WithNameFunc(fn func(method.Param) string) ValidationsOption {
	return func(r *Validations) {
		if fn != nil {
			r.nameOf = fn
		}
	}
}

func WithValidationsLogger(l *slog.Logger) ValidationsOption {
	return func(r *Validations) {
		if l != nil {
			r.log = l
		}
	}
}

// Validations resolves the rules that apply to handlers, parameters and
// bean fields. Bean field rules are built on first use and memoized.
type Validations struct {
	adapters *annotation.Registry[Adapter]
	custom   map[annotation.Kind]Adapter
	validate *validator.Validate
	nameOf   func(method.Param) string
	log      *slog.Logger

	mu     sync.RWMutex
	beans  map[string]reflect.Type
	loaded map[reflect.Type]map[string][]annotation.Annotation
	fields map[reflect.Type]*beanRules
	byType map[reflect.Type][]BeanValidation
}

type beanRules struct {
	rules   []Validation
	cascade []typeinfo.Property
}

// NewValidations returns a registry with the built-in rule adapters.
func NewValidations(opts ...ValidationsOption) *Validations {
	r := &Validations{
		adapters: annotation.NewRegistry[Adapter](),
		custom:   make(map[annotation.Kind]Adapter),
		validate: newValidate(),
		nameOf:   method.Param.Name,
		log:      logger.Nop(),
		beans:    make(map[string]reflect.Type),
		loaded:   make(map[reflect.Type]map[string][]annotation.Annotation),
		fields:   make(map[reflect.Type]*beanRules),
		byType:   make(map[reflect.Type][]BeanValidation),
	}
	for _, opt := range opts {
		opt(r)
	}
	for k, a := range r.custom {
		r.adapters.MustRegister(k, a)
	}
	for k, a := range builtinAdapters(r.validate) {
		if !r.adapters.IsRegistered(k) {
			r.adapters.MustRegister(k, a)
		}
	}
	r.custom = nil
	r.log = r.log.With(logger.Component("validation"))
	return r
}

// Register adds an adapter for a new rule kind.
func (r *Validations) Register(k annotation.Kind, a Adapter) error {
	return r.adapters.Register(k, a)
}

// Adapter returns the adapter of rule a.
func (r *Validations) Adapter(a annotation.Annotation) (Adapter, bool) {
	return r.adapters.For(a)
}

// Name returns the name p is validated under.
func (r *Validations) Name(p method.Param) string { return r.nameOf(p) }

// StructValidator returns a StructValidator sharing the registry's
// go-playground instance.
func (r *Validations) StructValidator() *StructValidator {
	return &StructValidator{validate: r.validate}
}

// ForHandler returns the rules declared on h itself. A rule listing Fields
// yields one validation per field.
func (r *Validations) ForHandler(h *method.Handler) []Validation {
	if h == nil {
		return nil
	}
	var out []Validation
	for _, a := range h.Annotations() {
		ad, ok := r.adapters.For(a)
		if !ok {
			continue
		}
		t := targetOf(a)
		if len(t.Fields) == 0 {
			out = append(out, NewValidation(a, ad, "", t.On))
			continue
		}
		for _, f := range t.Fields {
			out = append(out, NewValidation(a, ad, f, t.On))
		}
	}
	return out
}

// ForMethodParams returns the rules declared on params. Rules without
// scopes inherit the parameter's On annotation.
func (r *Validations) ForMethodParams(params []method.Param) []Validation {
	var out []Validation
	for _, p := range params {
		name := r.nameOf(p)
		var paramOn []string
		if on, ok := annotation.FindAs[On](p.Annotations()); ok {
			paramOn = on.Scopes
		}
		for _, a := range p.Annotations() {
			ad, ok := r.adapters.For(a)
			if !ok {
				continue
			}
			on := targetOf(a).On
			if len(on) == 0 {
				on = paramOn
			}
			out = append(out, NewValidation(a, ad, name, on))
		}
	}
	return out
}

// ForBeanFields returns the field rules of bean type t, named relative to
// prefix.
func (r *Validations) ForBeanFields(t reflect.Type, prefix string) []Validation {
	br := r.beanRules(t)
	if br == nil {
		return nil
	}
	out := make([]Validation, 0, len(br.rules))
	for _, v := range br.rules {
		out = append(out, v.renamed(joinPath(prefix, v.name)))
	}
	return out
}

// cascades returns the fields of t marked Valid.
func (r *Validations) cascades(t reflect.Type) []typeinfo.Property {
	if br := r.beanRules(t); br != nil {
		return br.cascade
	}
	return nil
}

// RegisterBean makes t addressable by name in LoadFieldRules. It fails when
// t is not a struct or its tags hold invalid rules.
func (r *Validations) RegisterBean(name string, t reflect.Type) error {
	t = structType(t)
	if t == nil {
		return fmt.Errorf("%w: %s is not a struct", ErrUnknownBean, name)
	}
	for _, p := range typeinfo.Properties(t) {
		if _, err := tagRules(p.Field); err != nil {
			return fmt.Errorf("%s.%s: %w", name, p.Name, err)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.beans[name] = t
	return nil
}

// LoadFieldRules reads field rules from YAML keyed by registered bean name
// and property name:
//
//	user:
//	  email: required,email
//	  name: required,minlen=2,on=create
//
// Loaded rules are added to the rules of the struct tags.
func (r *Validations) LoadFieldRules(src io.Reader) error {
	var doc map[string]map[string]string
	if err := yaml.NewDecoder(src).Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: %v", ErrInvalidRule, err)
	}

	parsed := make(map[reflect.Type]map[string][]annotation.Annotation)
	r.mu.RLock()
	for bean, fields := range doc {
		t, ok := r.beans[bean]
		if !ok {
			r.mu.RUnlock()
			return fmt.Errorf("%w: %s", ErrUnknownBean, bean)
		}
		for field, expr := range fields {
			if _, ok := typeinfo.PropertyByName(t, field); !ok {
				r.mu.RUnlock()
				return fmt.Errorf("%w: %s.%s", ErrUnknownField, bean, field)
			}
			rules, err := ParseRules(expr)
			if err != nil {
				r.mu.RUnlock()
				return fmt.Errorf("%s.%s: %w", bean, field, err)
			}
			if parsed[t] == nil {
				parsed[t] = make(map[string][]annotation.Annotation)
			}
			parsed[t][field] = rules
		}
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	for t, fields := range parsed {
		if r.loaded[t] == nil {
			r.loaded[t] = make(map[string][]annotation.Annotation)
		}
		for field, rules := range fields {
			r.loaded[t][field] = append(r.loaded[t][field], rules...)
		}
		delete(r.fields, t)
	}
	return nil
}

// RegisterBeanValidator adds a custom validator for beans of type t. A
// non-empty on restricts it to matching requests.
func (r *Validations) RegisterBeanValidator(t reflect.Type, v BeanValidator, on ...string) {
	if t == nil || v == nil {
		panic(fmt.Sprintf("validation: nil bean validator registration for %v", t))
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byType[t] = append(r.byType[t], BeanValidation{Validator: v, On: slices.Clone(on)})
}

// ForBean returns the custom validators registered for t, then those
// registered for its pointer or element type.
func (r *Validations) ForBean(t reflect.Type) []BeanValidation {
	if t == nil {
		return nil
	}
	other := reflect.PointerTo(t)
	if t.Kind() == reflect.Pointer {
		other = t.Elem()
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	out := slices.Clone(r.byType[t])
	return append(out, r.byType[other]...)
}

func (r *Validations) beanRules(t reflect.Type) *beanRules {
	t = structType(t)
	if t == nil {
		return nil
	}

	r.mu.RLock()
	br, ok := r.fields[t]
	r.mu.RUnlock()
	if ok {
		return br
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if br, ok := r.fields[t]; ok {
		return br
	}
	br = r.buildBeanRules(t)
	r.fields[t] = br
	return br
}

// buildBeanRules must be called with mu held.
func (r *Validations) buildBeanRules(t reflect.Type) *beanRules {
	br := &beanRules{}
	for _, p := range typeinfo.Properties(t) {
		rules, err := tagRules(p.Field)
		if err != nil {
			r.log.Warn("invalid field rules skipped",
				logger.Type(t), logger.Field(p.Name), logger.Error(err))
			rules = nil
		}
		rules = append(rules, r.loaded[t][p.Name]...)

		cascade := false
		for _, a := range rules {
			if a.Kind() == KindValid {
				cascade = true
				continue
			}
			ad, ok := r.adapters.For(a)
			if !ok {
				r.log.Warn("no validation adapter", logger.Field(p.Name), logger.Annotation(a.Kind().String()))
				continue
			}
			br.rules = append(br.rules, NewValidation(a, ad, p.Name, targetOf(a).On))
		}
		if cascade {
			br.cascade = append(br.cascade, p)
		}
	}
	return br
}

// tagRules parses the check and validate tags of f.
func tagRules(f reflect.StructField) ([]annotation.Annotation, error) {
	var out []annotation.Annotation
	if expr, ok := f.Tag.Lookup(CheckTagName); ok {
		rules, err := ParseRules(expr)
		if err != nil {
			return nil, err
		}
		out = append(out, rules...)
	}
	if tag := f.Tag.Get(ValidateTagName); tag != "" && tag != "-" {
		out = append(out, Tag{Tag: tag})
	}
	return out, nil
}

func structType(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil
	}
	return t
}

func joinPath(prefix, name string) string {
	switch {
	case prefix == "":
		return name
	case name == "":
		return prefix
	}
	return prefix + "." + name
}

// newValidate returns a go-playground validator that names fields the way
// beans are bound.
func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, skip := typeinfo.PropertyName(f)
		if skip {
			return "-"
		}
		return name
	})
	return v
}
