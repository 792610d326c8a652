package validation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/bindkit/pkg/collection"
	"github.com/dmitrymomot/bindkit/pkg/method"
	"github.com/dmitrymomot/bindkit/pkg/request"
	"github.com/dmitrymomot/bindkit/pkg/validation"
)

type address struct {
	City string
	Zip  string `param:"postal_code"`
}

type account struct {
	Name      string
	Email     string
	Age       int
	Tags      []string
	Addresses []address
	Limits    map[string]int
	Home      *address
}

// newContext builds a validation context over typed values given as
// alternating names and values.
func newContext(t *testing.T, h *method.Handler, req request.Request, kv ...any) *validation.Context {
	t.Helper()
	require.Zero(t, len(kv)%2, "odd number of key/value arguments")

	typed := collection.NewOrderedMap[string, any]()
	for i := 0; i < len(kv); i += 2 {
		name, ok := kv[i].(string)
		require.True(t, ok, "key %v is not a string", kv[i])
		typed.Set(name, kv[i+1])
	}
	if req == nil {
		req = request.NewMap(nil)
	}
	return validation.NewContext(h, req, nil, typed)
}

func TestContext_Value(t *testing.T) {
	t.Parallel()

	acc := account{
		Name:      "Ann",
		Tags:      []string{"a", "b"},
		Addresses: []address{{City: "Kyiv", Zip: "01001"}},
		Limits:    map[string]int{"daily": 5},
	}
	ctx := newContext(t, nil, nil, "acc", &acc, "ids", map[int]string{7: "seven"}, "empty", nil)

	tests := []struct {
		path string
		want any
		ok   bool
	}{
		{"acc.name", "Ann", true},
		{"acc.tags[1]", "b", true},
		{"acc.addresses[0].city", "Kyiv", true},
		{"acc.addresses[0].postal_code", "01001", true},
		{"acc.limits[daily]", 5, true},
		{"ids[7]", "seven", true},
		{"empty", nil, true},
		{"acc.home", (*address)(nil), true},
		{"acc.home.city", nil, false},
		{"acc.addresses[1].city", nil, false},
		{"acc.addresses[x]", nil, false},
		{"acc.limits[weekly]", nil, false},
		{"acc.missing", nil, false},
		{"acc.tags.first", nil, false},
		{"missing", nil, false},
		{"[0]", nil, false},
		{"acc..name", nil, false},
		{"acc.tags[0", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()
			got, ok := ctx.Value(tt.path)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestContext_Scopes(t *testing.T) {
	t.Parallel()

	h := method.NewHandler("users.update", nil)
	req := request.NewMap(nil, request.WithRouteScopes("PUT /users/{id}", "users.update", ""))
	ctx := validation.NewContext(h, req, nil, nil)

	assert.Equal(t, []string{"PUT /users/{id}", "users.update"}, ctx.Scopes())
	assert.Same(t, h, ctx.Handler())
	assert.Equal(t, req, ctx.Request())

	_, ok := ctx.Raw("anything")
	assert.False(t, ok)
}

func TestContext_Raw(t *testing.T) {
	t.Parallel()

	raw := collection.NewOrderedMap[string, []string]()
	raw.Set("name", []string{"Ann"})
	ctx := validation.NewContext(nil, nil, raw, nil)

	got, ok := ctx.Raw("name")
	require.True(t, ok)
	assert.Equal(t, []string{"Ann"}, got)
	assert.Nil(t, ctx.Scopes())
}
