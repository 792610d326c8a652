package logger_test

import (
	"errors"
	"log/slog"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/bindkit/pkg/logger"
)

func TestGroup(t *testing.T) {
	attr := logger.Group("req", slog.String("id", "1"), slog.Int("n", 2))
	require.Equal(t, "req", attr.Key)
	require.Equal(t, slog.KindGroup, attr.Value.Kind())
	g := attr.Value.Group()
	require.Len(t, g, 2)
	assert.Equal(t, "id", g[0].Key)
	assert.Equal(t, "n", g[1].Key)
}

func TestErrors(t *testing.T) {
	err1 := errors.New("first")
	err2 := errors.New("second")

	attr := logger.Errors(err1, nil, err2)
	require.Equal(t, "errors", attr.Key)
	g := attr.Value.Group()
	require.Len(t, g, 2)
	assert.Equal(t, err1, g[0].Value.Any())
	assert.Equal(t, err2, g[1].Value.Any())

	assert.True(t, logger.Errors(nil).Equal(slog.Attr{}))
}

func TestError(t *testing.T) {
	err := errors.New("boom")
	attr := logger.Error(err)
	require.Equal(t, "error", attr.Key)
	assert.Equal(t, err, attr.Value.Any())
	assert.True(t, logger.Error(nil).Equal(slog.Attr{}))
}

func TestBindingAttrs(t *testing.T) {
	tests := []struct {
		name string
		attr slog.Attr
		key  string
		want any
	}{
		{"component", logger.Component("bind"), "component", "bind"},
		{"handler", logger.Handler("users.update"), "handler", "users.update"},
		{"param", logger.Param("tags"), "param", "tags"},
		{"field", logger.Field("user.address.city"), "field", "user.address.city"},
		{"annotation", logger.Annotation("param"), "annotation", "param"},
		{"stage", logger.Stage(3), "stage", int64(3)},
		{"count", logger.Count(2), "count", int64(2)},
		{"type", logger.Type(reflect.TypeFor[[]string]()), "type", "[]string"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.key, tt.attr.Key)
			assert.Equal(t, tt.want, tt.attr.Value.Any())
		})
	}

	assert.True(t, logger.Type(nil).Equal(slog.Attr{}))
}
