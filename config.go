package bindkit

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/text/language"

	"github.com/dmitrymomot/bindkit/pkg/config"
	"github.com/dmitrymomot/bindkit/pkg/convert"
	"github.com/dmitrymomot/bindkit/pkg/i18n"
	"github.com/dmitrymomot/bindkit/pkg/logger"
)

// EnvPrefix prefixes every environment variable read by LoadConfig.
const EnvPrefix = "BINDKIT_"

// Config holds the environment driven settings of a Binder.
type Config struct {
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`
	// SupportedLocales lists BCP 47 tags, the first being the fallback.
	SupportedLocales []string `env:"SUPPORTED_LOCALES" envSeparator:","`
	// TimeLayouts replaces the time.Time layouts. Layouts are separated by
	// semicolons because some contain commas.
	TimeLayouts  []string `env:"TIME_LAYOUTS" envSeparator:";"`
	MaxBodyBytes int64    `env:"MAX_BODY_BYTES" envDefault:"1048576"`
	// MessagesDir holds JSON or YAML error message translations. The first
	// supported locale is their default language.
	MessagesDir string `env:"MESSAGES_DIR"`
}

// LoadConfig reads Config from BINDKIT_* environment variables.
func LoadConfig(opts ...config.Option) (Config, error) {
	var cfg Config
	opts = append([]config.Option{config.WithPrefix(EnvPrefix)}, opts...)
	if err := config.Load(&cfg, opts...); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Options turns cfg into Binder options.
func (c Config) Options() ([]Option, error) {
	level, err := logger.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	format := logger.Format(strings.ToLower(strings.TrimSpace(c.LogFormat)))
	if format != logger.FormatJSON && format != logger.FormatText {
		return nil, fmt.Errorf("%w: log format %q", ErrInvalidConfig, c.LogFormat)
	}

	log := logger.New(
		logger.WithLevel(level),
		logger.WithFormat(format),
		logger.WithOutput(os.Stderr),
		logger.WithAttr(slog.String("lib", "bindkit")),
	)
	opts := []Option{WithLogger(log), WithMaxBodyBytes(c.MaxBodyBytes)}

	if len(c.SupportedLocales) > 0 {
		tags := make([]language.Tag, 0, len(c.SupportedLocales))
		for _, s := range c.SupportedLocales {
			tag, err := language.Parse(strings.TrimSpace(s))
			if err != nil {
				return nil, fmt.Errorf("%w: locale %q: %w", ErrInvalidConfig, s, err)
			}
			tags = append(tags, tag)
		}
		opts = append(opts, WithSupportedLocales(tags...))
	}

	if len(c.TimeLayouts) > 0 {
		opts = append(opts, WithSimpleConverter(convert.NewSimpleConverter(convert.WithTimeLayouts(c.TimeLayouts...))))
	}
	if c.MessagesDir != "" {
		trOpts := []i18n.Option{i18n.WithLogger(log)}
		if len(c.SupportedLocales) > 0 {
			trOpts = append(trOpts, i18n.WithDefaultLanguage(strings.TrimSpace(c.SupportedLocales[0])))
		}
		tr, err := i18n.NewTranslator(context.Background(), i18n.FSSource{FS: os.DirFS(c.MessagesDir)}, trOpts...)
		if err != nil {
			return nil, fmt.Errorf("%w: messages: %w", ErrInvalidConfig, err)
		}
		opts = append(opts, WithTranslator(tr))
	}
	return opts, nil
}
