// Package validation checks bound handler arguments and collects every
// failure into an Errors accumulator.
//
// Rules are annotation values (Required, Min, Max, Length, Pattern, Email,
// OneOf, Tag) attached to a handler, to its parameters, or to bean fields
// through struct tags:
//
//	type Signup struct {
//	    Email string `check:"required,email"`
//	    Name  string `check:"required,minlen=2,on=create"`
//	    Code  string `validate:"omitempty,uuid4"`
//	    Home  Address `check:"valid"`
//	}
//
// Each rule kind is interpreted by an Adapter registered in a Validations
// registry. Tag rules are delegated to go-playground/validator. Field rules
// can also be loaded from YAML with LoadFieldRules once the bean type has
// been registered by name.
//
// # Pipeline
//
// Validator.Validate runs four stages against the same Errors: handler
// rules, parameter rules, field rules of beans whose parameter carries
// Valid, and custom BeanValidators. A failing stage never stops the
// following ones. Rules restricted with On run only when the ScopeMatcher
// accepts the request; the default one compares the scopes against the
// request scopes and the handler name.
//
//	v := validation.NewValidator(validation.NewValidations())
//	ctx := validation.NewContext(handler, req, raw, typed)
//	var errs validation.Errors
//	alt := v.Validate(handler, ctx, &errs)
//	if err := errs.Err(); err != nil {
//	    // render errs
//	}
//
// The value returned by Validate is the result of the last custom bean
// validator that ran, or nil.
package validation
