package i18n

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"slices"
	"strings"

	"golang.org/x/text/language"

	"github.com/dmitrymomot/bindkit/pkg/logger"
	"github.com/dmitrymomot/bindkit/pkg/validation"
)

// DefaultLanguage is used when no WithDefaultLanguage option is given.
const DefaultLanguage = "en"

// Option configures a Translator.
type Option func(*Translator)

// WithDefaultLanguage sets the language used when a requested language has
// no close match.
func WithDefaultLanguage(lang string) Option {
	return func(t *Translator) {
		if lang != "" {
			t.defaultLang = lang
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(t *Translator) {
		if l != nil {
			t.log = l
		}
	}
}

// Translator resolves validation messages by translation key. Messages are
// loaded once and never change, so a Translator is safe for concurrent use.
type Translator struct {
	messages    Messages
	langs       []string
	matcher     language.Matcher
	defaultLang string
	log         *slog.Logger
}

// NewTranslator loads messages from src.
func NewTranslator(ctx context.Context, src Source, opts ...Option) (*Translator, error) {
	if src == nil {
		return nil, ErrNilSource
	}
	t := &Translator{defaultLang: DefaultLanguage, log: logger.Nop()}
	for _, opt := range opts {
		opt(t)
	}
	t.log = t.log.With(logger.Component("i18n"))

	msgs, err := src.Load(ctx)
	if err != nil {
		return nil, err
	}
	t.messages = msgs

	// the default language is matched first so it wins ties
	t.langs = []string{t.defaultLang}
	for lang := range msgs {
		if lang != t.defaultLang {
			t.langs = append(t.langs, lang)
		}
	}
	slices.Sort(t.langs[1:])

	tags := make([]language.Tag, 0, len(t.langs))
	for _, lang := range t.langs {
		tag, err := language.Parse(lang)
		if err != nil {
			return nil, fmt.Errorf("%w: language %q: %w", ErrInvalidMessages, lang, err)
		}
		tags = append(tags, tag)
	}
	t.matcher = language.NewMatcher(tags)

	t.log.DebugContext(ctx, "messages loaded", slog.Any("languages", t.langs))
	return t, nil
}

// Languages returns the loaded language codes, the default first.
func (t *Translator) Languages() []string { return slices.Clone(t.langs) }

// Match returns the loaded language closest to tag, or the default.
func (t *Translator) Match(tag language.Tag) string {
	if tag == language.Und {
		return t.defaultLang
	}
	_, idx, conf := t.matcher.Match(tag)
	if conf == language.No {
		return t.defaultLang
	}
	return t.langs[idx]
}

// T returns the message for key in lang with %{name} placeholders replaced
// from values. ok is false when neither lang nor the default language has
// the key.
func (t *Translator) T(lang, key string, values map[string]any) (msg string, ok bool) {
	tmpl, ok := t.lookup(lang, key)
	if !ok && lang != t.defaultLang {
		tmpl, ok = t.lookup(t.defaultLang, key)
	}
	if !ok {
		t.log.Debug("message not found", slog.String("lang", lang), slog.String("key", key))
		return "", false
	}
	return substitute(tmpl, values), true
}

// Errors returns a copy of errs whose messages are translated into lang.
// Errors without a known translation key keep their message.
func (t *Translator) Errors(lang string, errs validation.Errors) validation.Errors {
	if errs == nil {
		return nil
	}
	out := make(validation.Errors, len(errs))
	for i, e := range errs {
		if e.TranslationKey != "" {
			if msg, ok := t.T(lang, e.TranslationKey, e.TranslationValues); ok {
				e.Message = msg
			}
		}
		out[i] = e
	}
	return out
}

// lookup walks the dot separated key through the message tree of lang.
func (t *Translator) lookup(lang, key string) (string, bool) {
	var cur any = t.messages[lang]
	for part := range strings.SplitSeq(key, ".") {
		tree, ok := cur.(map[string]any)
		if !ok {
			return "", false
		}
		if cur, ok = tree[part]; !ok {
			return "", false
		}
	}
	s, ok := cur.(string)
	return s, ok
}

var placeholder = regexp.MustCompile(`%\{([^}]+)\}`)

// substitute replaces %{name} with values[name]. Unknown placeholders are
// kept as is.
func substitute(tmpl string, values map[string]any) string {
	if len(values) == 0 || !strings.Contains(tmpl, "%{") {
		return tmpl
	}
	return placeholder.ReplaceAllStringFunc(tmpl, func(m string) string {
		if v, ok := values[m[2:len(m)-1]]; ok {
			return fmt.Sprint(v)
		}
		return m
	})
}
