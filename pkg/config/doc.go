// Package config loads configuration structs from environment variables.
//
// It wraps github.com/joho/godotenv for .env files and
// github.com/caarlos0/env/v11 for struct parsing:
//
//	type Config struct {
//	    LogLevel     string   `env:"LOG_LEVEL" envDefault:"info"`
//	    MaxBodyBytes int64    `env:"MAX_BODY_BYTES" envDefault:"1048576"`
//	    Locales      []string `env:"SUPPORTED_LOCALES" envSeparator:","`
//	}
//
//	var cfg Config
//	if err := config.Load(&cfg, config.WithPrefix("BINDKIT_")); err != nil {
//	    return err
//	}
//
// Load caches each configuration type per prefix, so repeated calls are
// cheap and return the same values. Reload re-parses a type and ResetCache
// drops everything, which is mostly useful in tests. WithEnvironment parses
// from an explicit map and bypasses the cache.
//
// Errors wrap ErrParsingConfig, ErrNilPointer or ErrLoadingEnvFile and can be
// matched with errors.Is.
package config
