package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type cacheKey struct {
	typ    reflect.Type
	prefix string
}

var (
	cacheMu sync.RWMutex
	cache   = make(map[cacheKey]any)

	defaultEnvLoaded sync.Once
)

// Option configures a single Load call.
type Option func(*options)

type options struct {
	prefix      string
	environment map[string]string
}

// WithPrefix prepends prefix to every env tag, so `env:"LOG_LEVEL"` reads
// BINDKIT_LOG_LEVEL with WithPrefix("BINDKIT_").
func WithPrefix(prefix string) Option {
	return func(o *options) { o.prefix = prefix }
}

// WithEnvironment parses from m instead of the process environment. Such
// loads are never cached.
func WithEnvironment(m map[string]string) Option {
	return func(o *options) { o.environment = m }
}

// Load parses environment variables into v using its env struct tags.
//
// The default .env file of the working directory is read once, if present,
// before the first load. Each configuration type (and prefix) is parsed
// once; later calls copy the cached value.
//
//	type Config struct {
//		LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
//	}
//
//	var cfg Config
//	if err := config.Load(&cfg, config.WithPrefix("BINDKIT_")); err != nil {
//		return err
//	}
func Load[T any](v *T, opts ...Option) error {
	if v == nil {
		return ErrNilPointer
	}
	o := collect(opts)
	if o.environment != nil {
		return parse(v, o)
	}

	defaultEnvLoaded.Do(func() {
		// the default .env file is optional
		_ = godotenv.Load()
	})

	key := cacheKey{typ: reflect.TypeFor[T](), prefix: o.prefix}
	cacheMu.RLock()
	cached, ok := cache[key]
	cacheMu.RUnlock()
	if ok {
		*v = cached.(T)
		return nil
	}

	cacheMu.Lock()
	defer cacheMu.Unlock()
	if cached, ok := cache[key]; ok {
		*v = cached.(T)
		return nil
	}
	if err := parse(v, o); err != nil {
		return err
	}
	cache[key] = *v
	return nil
}

// MustLoad works like Load but panics if configuration loading fails.
func MustLoad[T any](v *T, opts ...Option) {
	if err := Load(v, opts...); err != nil {
		panic(fmt.Sprintf("failed to load required configuration: %v", err))
	}
}

// Reload parses v again, replacing the cached value of its type.
func Reload[T any](v *T, opts ...Option) error {
	if v == nil {
		return ErrNilPointer
	}
	o := collect(opts)
	if err := parse(v, o); err != nil {
		return err
	}
	if o.environment == nil {
		cacheMu.Lock()
		cache[cacheKey{typ: reflect.TypeFor[T](), prefix: o.prefix}] = *v
		cacheMu.Unlock()
	}
	return nil
}

// ResetCache drops every cached configuration.
func ResetCache() {
	cacheMu.Lock()
	clear(cache)
	cacheMu.Unlock()
}

// LoadEnv reads .env files into the process environment. Later files
// override earlier ones and the existing environment. Without paths it reads
// the default .env file without overriding.
func LoadEnv(paths ...string) error {
	if len(paths) == 0 {
		if err := godotenv.Load(); err != nil {
			return errors.Join(ErrLoadingEnvFile, err)
		}
		return nil
	}
	if err := godotenv.Overload(paths...); err != nil {
		return errors.Join(ErrLoadingEnvFile, err)
	}
	return nil
}

// MustLoadEnv works like LoadEnv but panics on failure.
func MustLoadEnv(paths ...string) {
	if err := LoadEnv(paths...); err != nil {
		panic(fmt.Sprintf("failed to load env files: %v", err))
	}
}

func collect(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func parse[T any](v *T, o options) error {
	var parsed T
	err := env.ParseWithOptions(&parsed, env.Options{
		Prefix:      o.prefix,
		Environment: o.environment,
	})
	if err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	*v = parsed
	return nil
}
