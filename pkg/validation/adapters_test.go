package validation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/bindkit/pkg/annotation"
	"github.com/dmitrymomot/bindkit/pkg/collection"
	"github.com/dmitrymomot/bindkit/pkg/validation"
)

// check runs rule a against value bound as "v" and returns the recorded
// translation keys.
func check(t *testing.T, a annotation.Annotation, value any) []string {
	t.Helper()

	r := validation.NewValidations()
	ad, ok := r.Adapter(a)
	require.True(t, ok, "no adapter for %s", a.Kind())

	var errs validation.Errors
	validation.NewValidation(a, ad, "v", nil).Run(newContext(t, nil, nil, "v", value), &errs)

	keys := make([]string, 0, len(errs))
	for _, e := range errs {
		assert.Equal(t, "v", e.Field)
		keys = append(keys, e.TranslationKey)
	}
	return keys
}

func TestBuiltinAdapters(t *testing.T) {
	t.Parallel()

	name := "Ann"
	tests := []struct {
		name  string
		rule  annotation.Annotation
		value any
		want  []string
	}{
		{"required passes", validation.Required{}, "x", nil},
		{"required blank", validation.Required{}, "  ", []string{"validation.required"}},
		{"required nil", validation.Required{}, nil, []string{"validation.required"}},
		{"required nil pointer", validation.Required{}, (*string)(nil), []string{"validation.required"}},
		{"required pointer", validation.Required{}, &name, nil},
		{"required empty slice", validation.Required{}, []int{}, []string{"validation.required"}},
		{"required empty set", validation.Required{}, collection.NewSet[string](), []string{"validation.required"}},
		{"required zero int passes", validation.Required{}, 0, nil},

		{"min passes", validation.Min{Value: 18}, 18, nil},
		{"min fails", validation.Min{Value: 18}, 17, []string{"validation.min"}},
		{"min numeric string", validation.Min{Value: 1}, "0.5", []string{"validation.min"}},
		{"min skips nil", validation.Min{Value: 1}, nil, nil},
		{"min skips text", validation.Min{Value: 1}, "abc", nil},
		{"max fails", validation.Max{Value: 10}, uint8(11), []string{"validation.max"}},
		{"max float", validation.Max{Value: 1.5}, 1.5, nil},

		{"length runes", validation.Length{Min: 2, Max: 3}, "жук", nil},
		{"length short", validation.Length{Min: 4}, "abc", []string{"validation.min_length"}},
		{"length long", validation.Length{Max: 2}, "abc", []string{"validation.max_length"}},
		{"length items", validation.Length{Min: 1, Max: 2}, []int{1, 2, 3}, []string{"validation.max_items"}},
		{"length map", validation.Length{Min: 1}, map[string]int{}, []string{"validation.min_items"}},
		{"length set", validation.Length{Max: 1}, collection.NewSet("a", "b"), []string{"validation.max_items"}},

		{"pattern passes", validation.Pattern{Regexp: "^[a-z]+$"}, "abc", nil},
		{"pattern fails", validation.Pattern{Regexp: "^[a-z]+$"}, "ABC", []string{"validation.regex_pattern"}},
		{"pattern invalid", validation.Pattern{Regexp: "["}, "abc", []string{"validation.regex_pattern"}},
		{"pattern skips empty", validation.Pattern{Regexp: "^[a-z]+$"}, "", nil},

		{"email passes", validation.Email{}, "ann@example.com", nil},
		{"email fails", validation.Email{}, "ann@", []string{"validation.email"}},
		{"email skips empty", validation.Email{}, "", nil},

		{"one of passes", validation.OneOf{Values: []string{"a", "b"}}, "b", nil},
		{"one of fails", validation.OneOf{Values: []string{"a", "b"}}, "c", []string{"validation.in_list"}},
		{"one of number", validation.OneOf{Values: []string{"1", "2"}}, 2, nil},

		{"tag passes", validation.Tag{Tag: "uuid4"}, "9b2d5c3e-8a1f-4e4b-9c6d-2f7a1b3c4d5e", nil},
		{"tag fails", validation.Tag{Tag: "gte=1,lte=10"}, 11, []string{"validation.lte"}},
		{"tag required nil", validation.Tag{Tag: "required"}, nil, []string{"validation.required"}},
		{"tag unknown", validation.Tag{Tag: "no_such_tag"}, "x", []string{"validation.invalid_rule"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := check(t, tt.rule, tt.value)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRuleAdapter_Include(t *testing.T) {
	t.Parallel()

	calls := 0
	ad := validation.RuleAdapter{Rules: func(annotation.Annotation, string, any) []validation.Rule {
		calls++
		return nil
	}}
	ctx := newContext(t, nil, nil, "set", "x", "null", nil)

	assert.True(t, ad.Include(validation.Min{}, "set", ctx))
	assert.False(t, ad.Include(validation.Min{}, "null", ctx))
	assert.False(t, ad.Include(validation.Min{}, "missing", ctx))

	ad.Always = true
	assert.True(t, ad.Include(validation.Min{}, "missing", ctx))

	var errs validation.Errors
	ad.Validate(validation.Min{}, "set", ctx, &errs)
	assert.Equal(t, 1, calls)
	assert.Empty(t, errs)
}

func TestValidations_CustomAdapter(t *testing.T) {
	t.Parallel()

	const kindEven annotation.Kind = "test.even"
	even := validation.RuleAdapter{Rules: func(_ annotation.Annotation, name string, v any) []validation.Rule {
		n, _ := v.(int)
		return []validation.Rule{{
			Check: func() bool { return n%2 == 0 },
			Error: validation.Error{Field: name, Message: "must be even", TranslationKey: "validation.even"},
		}}
	}}

	r := validation.NewValidations()
	require.NoError(t, r.Register(kindEven, even))
	require.ErrorIs(t, r.Register(kindEven, even), annotation.ErrAlreadyRegistered)

	ad, ok := r.Adapter(evenRule{})
	require.True(t, ok)

	var errs validation.Errors
	validation.NewValidation(evenRule{}, ad, "n", nil).Run(newContext(t, nil, nil, "n", 3), &errs)
	assert.Equal(t, []string{"must be even"}, errs.Get("n"))

	replaced := validation.NewValidations(validation.WithAdapter(validation.KindRequired, even))
	ad, ok = replaced.Adapter(validation.Required{})
	require.True(t, ok)

	errs = nil
	validation.NewValidation(validation.Required{}, ad, "n", nil).Run(newContext(t, nil, nil, "n", 5), &errs)
	assert.Equal(t, []string{"must be even"}, errs.Get("n"))
}

type evenRule struct{}

func (evenRule) Kind() annotation.Kind { return "test.even" }
