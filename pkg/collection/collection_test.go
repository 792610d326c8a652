package collection_test

import (
	"reflect"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/bindkit/pkg/collection"
)

func TestSet(t *testing.T) {
	t.Parallel()

	t.Run("keeps first seen order without duplicates", func(t *testing.T) {
		t.Parallel()
		s := collection.NewSet("b", "a", "b", "c", "a")
		assert.Equal(t, []string{"b", "a", "c"}, s.Values())
		assert.Equal(t, 3, s.Len())
		assert.True(t, s.Has("c"))
		assert.False(t, s.Has("z"))
	})

	t.Run("zero value is usable", func(t *testing.T) {
		t.Parallel()
		var s collection.Set[int]
		s.Add(3, 1, 3)
		assert.Equal(t, []int{3, 1}, slices.Collect(s.All()))
	})

	t.Run("insert checks element type", func(t *testing.T) {
		t.Parallel()
		s := collection.NewSet[int]()
		require.NoError(t, s.Insert(42))
		err := s.Insert("42")
		require.ErrorIs(t, err, collection.ErrTypeMismatch)
		assert.Equal(t, []int{42}, s.Values())
	})

	t.Run("reports element type on nil receiver", func(t *testing.T) {
		t.Parallel()
		var s *collection.Set[string]
		assert.Equal(t, reflect.TypeFor[string](), s.ElemType())
		assert.False(t, s.Sorted())
		assert.Equal(t, 0, s.Len())
	})
}

func TestSortedSet(t *testing.T) {
	t.Parallel()

	s := collection.NewSortedSet("pear", "apple", "pear", "fig")
	assert.Equal(t, []string{"apple", "fig", "pear"}, s.Values())
	assert.True(t, s.Has("fig"))
	assert.True(t, s.Sorted())

	require.NoError(t, s.Insert("banana"))
	assert.Equal(t, []string{"apple", "banana", "fig", "pear"}, slices.Collect(s.All()))
	require.ErrorIs(t, s.Insert(1), collection.ErrTypeMismatch)
}

func TestOrderedMap(t *testing.T) {
	t.Parallel()

	t.Run("iterates in insertion order", func(t *testing.T) {
		t.Parallel()
		m := collection.NewOrderedMap[string, int]()
		m.Set("z", 1)
		m.Set("a", 2)
		m.Set("z", 3)

		assert.Equal(t, []string{"z", "a"}, m.Keys())
		v, ok := m.Get("z")
		require.True(t, ok)
		assert.Equal(t, 3, v)

		var keys []string
		for k := range m.All() {
			keys = append(keys, k)
		}
		assert.Equal(t, []string{"z", "a"}, keys)
	})

	t.Run("distinguishes nil value from missing entry", func(t *testing.T) {
		t.Parallel()
		m := collection.NewOrderedMap[string, any]()
		m.Set("present", nil)

		v, ok := m.Get("present")
		assert.True(t, ok)
		assert.Nil(t, v)

		_, ok = m.Get("missing")
		assert.False(t, ok)
	})

	t.Run("delete removes key", func(t *testing.T) {
		t.Parallel()
		var m collection.OrderedMap[int, string]
		m.Set(1, "a")
		m.Set(2, "b")
		m.Delete(1)
		m.Delete(7)
		assert.Equal(t, []int{2}, m.Keys())
		assert.False(t, m.Has(1))
	})

	t.Run("put checks key and value types", func(t *testing.T) {
		t.Parallel()
		m := collection.NewOrderedMap[string, int]()
		require.NoError(t, m.Put("a", 1))
		require.NoError(t, m.Put("b", nil))
		require.ErrorIs(t, m.Put(1, 1), collection.ErrTypeMismatch)
		require.ErrorIs(t, m.Put("c", "x"), collection.ErrTypeMismatch)

		v, ok := m.Get("b")
		assert.True(t, ok)
		assert.Zero(t, v)
		assert.Equal(t, reflect.TypeFor[string](), m.KeyType())
		assert.Equal(t, reflect.TypeFor[int](), m.ValueType())
	})
}
