package validation

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

// BeanValidator checks a whole bean after its fields were validated. name is
// the parameter the bean is bound to. A non-nil result is returned from
// Validator.Validate as an alternate view.
type BeanValidator interface {
	ValidateBean(bean any, name string, ctx *Context, errs *Errors) any
}

// BeanValidatorFunc adapts a function to BeanValidator.
type BeanValidatorFunc func(bean any, name string, ctx *Context, errs *Errors) any

func (f BeanValidatorFunc) ValidateBean(bean any, name string, ctx *Context, errs *Errors) any {
	return f(bean, name, ctx, errs)
}

// StructValidator runs go-playground/validator Struct over beans, reporting
// failures under the parameter name and property path.
type StructValidator struct {
	validate *validator.Validate
}

// NewStructValidator wraps v. A nil v uses a validator that names fields by
// their bound property names.
func NewStructValidator(v *validator.Validate) *StructValidator {
	if v == nil {
		v = newValidate()
	}
	return &StructValidator{validate: v}
}

func (s *StructValidator) ValidateBean(bean any, name string, _ *Context, errs *Errors) any {
	err := s.validate.Struct(bean)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return nil
	}
	for _, fe := range fieldErrs {
		errs.Add(fieldError(joinPath(name, fieldPath(fe.Namespace())), fe))
	}
	return nil
}

// fieldPath drops the struct type name go-playground puts first.
func fieldPath(ns string) string {
	_, rest, ok := strings.Cut(ns, ".")
	if !ok {
		return ns
	}
	return rest
}
