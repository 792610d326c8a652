package propexpr_test

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/bindkit/pkg/propexpr"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		ok   bool
		want propexpr.Expr
	}{
		{"tags[1]=b", true, propexpr.Expr{Base: "tags", Segments: []string{"1"}, Value: "b"}},
		{"items[0][k]=x", true, propexpr.Expr{Base: "items", Segments: []string{"0", "k"}, Value: "x"}},
		{"items[2].name=n", true, propexpr.Expr{Base: "items", Segments: []string{"2"}, Rest: ".name", Value: "n"}},
		{"user.address.city=Berlin", true, propexpr.Expr{Base: "user", Rest: ".address.city", Value: "Berlin"}},
		{"[0][k]=x", true, propexpr.Expr{Segments: []string{"0", "k"}, Value: "x"}},
		{"name=", true, propexpr.Expr{Base: "name"}},
		{"q=a=b", true, propexpr.Expr{Base: "q", Value: "a=b"}},
		{"m[a=b]=1", true, propexpr.Expr{Base: "m", Segments: []string{"a=b"}, Value: "1"}},
		{"tags[1]", false, propexpr.Expr{}},
		{"tags[1=b", false, propexpr.Expr{}},
		{"plain", false, propexpr.Expr{}},
		{"items[0]x=1", false, propexpr.Expr{}},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			t.Parallel()
			got, ok := propexpr.Parse(tt.raw)
			require.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
				assert.Equal(t, tt.raw, got.String())
			}
		})
	}
}

func TestPositions(t *testing.T) {
	t.Parallel()

	t.Run("ascending distinct positions", func(t *testing.T) {
		t.Parallel()
		values := []string{"items[5].a=1", "items[2].a=2", "items[5].b=3", "items[10].a=4"}
		assert.Equal(t, []int{2, 5, 10}, propexpr.Positions(values, "items"))
	})

	t.Run("skips malformed and foreign expressions", func(t *testing.T) {
		t.Parallel()
		values := []string{"items[x].a=1", "items.a=2", "broken", "other[3]=z", "items[-1]=q", "items[1]=ok"}
		assert.Equal(t, []int{1}, propexpr.Positions(values, "items"))
	})

	t.Run("accepts expressions relative to the base", func(t *testing.T) {
		t.Parallel()
		values := []string{"[1][k]=x", "[0][k]=y"}
		assert.Equal(t, []int{0, 1}, propexpr.Positions(values, "items"))
	})

	t.Run("order independent", func(t *testing.T) {
		t.Parallel()
		values := []string{"a[3]=x", "a[0]=y", "a[7]=z", "a[1]=w", "a[3]=v"}
		want := propexpr.Positions(values, "a")
		for range 20 {
			shuffled := slices.Clone(values)
			rand.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
			assert.Equal(t, want, propexpr.Positions(shuffled, "a"))
		}
	})
}

func TestMapKeys(t *testing.T) {
	t.Parallel()

	values := []string{"items[1][v]=10", "items[1][k]=x", "items[0][v]=20", "items[0][k]=y", "items[1][k]=dup"}
	assert.Equal(t, []string{"k", "v"}, propexpr.MapKeys(values, "items", 1))
	assert.Equal(t, []string{"k", "v"}, propexpr.MapKeys(values, "items", 0))
	assert.Empty(t, propexpr.MapKeys(values, "items", 2))

	keyed := []string{"m[0][zeta].name=a", "m[0][alpha].name=b", "m[0][beta]=c"}
	assert.Equal(t, []string{"alpha", "beta", "zeta"}, propexpr.MapKeys(keyed, "m", 0))
}

func TestKeys(t *testing.T) {
	t.Parallel()

	values := []string{"prices[usd]=1", "prices[eur]=2", "prices[usd]=3", "other[x]=1"}
	assert.Equal(t, []string{"eur", "usd"}, propexpr.Keys(values, "prices"))
}

func TestSelect(t *testing.T) {
	t.Parallel()

	values := []string{
		"items[0].name=a",
		"items[0].tags[1]=t",
		"items[0][k]=x",
		"items[1].name=b",
		"items[0]=self",
		"user.name=u",
	}
	assert.Equal(t, []string{"name=a", "tags[1]=t", "[k]=x"}, propexpr.Select(values, "items", "0"))
	assert.Equal(t, []string{"name=b"}, propexpr.Select(values, "items", "1"))
	assert.Equal(t, []string{"name=u"}, propexpr.Select(values, "user"))
	assert.Empty(t, propexpr.Select(values, "missing"))
}

func TestLookup(t *testing.T) {
	t.Parallel()

	values := []string{"name=first", "name=second", "items[0][k]=x", "[1][k]=y"}

	v, ok := propexpr.Lookup(values, "name")
	require.True(t, ok)
	assert.Equal(t, "first", v)
	assert.Equal(t, []string{"first", "second"}, propexpr.LookupAll(values, "name"))

	v, ok = propexpr.Lookup(values, "items", "0", "k")
	require.True(t, ok)
	assert.Equal(t, "x", v)

	v, ok = propexpr.Lookup(values, "items", "1", "k")
	require.True(t, ok)
	assert.Equal(t, "y", v)

	_, ok = propexpr.Lookup(values, "items", "0")
	assert.False(t, ok)
}

func TestIndexed(t *testing.T) {
	t.Parallel()

	got, ok := propexpr.Indexed([]string{"tags[1]=b", "tags[0]=a"}, "tags")
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, got)

	_, ok = propexpr.Indexed([]string{"tags[0]=a", "plain"}, "tags")
	assert.False(t, ok)

	_, ok = propexpr.Indexed([]string{"tags[0].x=a"}, "tags")
	assert.False(t, ok)

	_, ok = propexpr.Indexed(nil, "tags")
	assert.False(t, ok)
}

func TestRebase(t *testing.T) {
	t.Parallel()

	got := propexpr.Rebase([]string{"name=a", "[0]=x", "address.city=b"}, "user")
	assert.Equal(t, []string{"user.name=a", "user[0]=x", "user.address.city=b"}, got)
}
