package config_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/bindkit/pkg/config"
)

type defaultsConfig struct {
	Level   string `env:"LEVEL" envDefault:"info"`
	Limit   int    `env:"LIMIT" envDefault:"42"`
	Enabled bool   `env:"ENABLED" envDefault:"true"`
}

type prefixedConfig struct {
	Level string `env:"LEVEL" envDefault:"info"`
}

type singletonConfig struct {
	Value string `env:"CONFIG_TEST_SINGLETON"`
}

type requiredConfig struct {
	Required string `env:"CONFIG_TEST_REQUIRED,required"`
}

type fileConfig struct {
	Name     string   `env:"CFG_NAME"`
	Count    int      `env:"CFG_COUNT"`
	Tags     []string `env:"CFG_TAGS" envSeparator:","`
	Quoted   string   `env:"CFG_QUOTED"`
	Override string   `env:"CFG_ONLY_OVERRIDE"`
}

func TestLoad_WithEnvironment(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()

		var cfg defaultsConfig
		require.NoError(t, config.Load(&cfg, config.WithEnvironment(map[string]string{})))
		assert.Equal(t, defaultsConfig{Level: "info", Limit: 42, Enabled: true}, cfg)
	})

	t.Run("prefix", func(t *testing.T) {
		t.Parallel()

		var cfg prefixedConfig
		err := config.Load(&cfg,
			config.WithPrefix("APP_"),
			config.WithEnvironment(map[string]string{"APP_LEVEL": "debug", "LEVEL": "error"}),
		)
		require.NoError(t, err)
		assert.Equal(t, "debug", cfg.Level)
	})

	t.Run("parse error", func(t *testing.T) {
		t.Parallel()

		var cfg defaultsConfig
		err := config.Load(&cfg, config.WithEnvironment(map[string]string{"LIMIT": "many"}))
		require.ErrorIs(t, err, config.ErrParsingConfig)
	})

	t.Run("nil pointer", func(t *testing.T) {
		t.Parallel()

		var cfg *defaultsConfig
		require.ErrorIs(t, config.Load(cfg), config.ErrNilPointer)
		require.ErrorIs(t, config.Reload(cfg), config.ErrNilPointer)
	})
}

func TestLoad_Cache(t *testing.T) {
	t.Setenv("CONFIG_TEST_SINGLETON", "first")
	config.ResetCache()

	var first singletonConfig
	require.NoError(t, config.Load(&first))
	assert.Equal(t, "first", first.Value)

	t.Setenv("CONFIG_TEST_SINGLETON", "second")

	var cached singletonConfig
	require.NoError(t, config.Load(&cached))
	assert.Equal(t, "first", cached.Value)

	var reloaded singletonConfig
	require.NoError(t, config.Reload(&reloaded))
	assert.Equal(t, "second", reloaded.Value)

	var after singletonConfig
	require.NoError(t, config.Load(&after))
	assert.Equal(t, "second", after.Value)
}

func TestLoad_MissingRequired(t *testing.T) {
	t.Setenv("CONFIG_TEST_REQUIRED", "")
	require.NoError(t, os.Unsetenv("CONFIG_TEST_REQUIRED"))
	config.ResetCache()

	var cfg requiredConfig
	require.ErrorIs(t, config.Load(&cfg), config.ErrParsingConfig)
	assert.Panics(t, func() { config.MustLoad(&cfg) })

	t.Setenv("CONFIG_TEST_REQUIRED", "present")
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, "present", cfg.Required)
}

func TestLoadEnv(t *testing.T) {
	for _, k := range []string{"CFG_NAME", "CFG_COUNT", "CFG_TAGS", "CFG_QUOTED", "CFG_ONLY_OVERRIDE"} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
	config.ResetCache()

	require.NoError(t, config.LoadEnv("testdata/.env.base", "testdata/.env.override"))

	var cfg fileConfig
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, fileConfig{
		Name:     "from_file",
		Count:    9,
		Tags:     []string{"a", "b", "c"},
		Quoted:   "quoted value",
		Override: "yes",
	}, cfg)

	require.ErrorIs(t, config.LoadEnv("testdata/missing.env"), config.ErrLoadingEnvFile)
	assert.Panics(t, func() { config.MustLoadEnv("testdata/missing.env") })
	assert.NotPanics(t, func() { config.MustLoadEnv("testdata/.env.base") })
}
