package i18n

import (
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

// Messages maps a language code to its nested message tree.
type Messages map[string]map[string]any

// Parser decodes one messages document.
type Parser interface {
	Parse(content []byte) (Messages, error)
}

// ParserFunc adapts a function to Parser.
type ParserFunc func(content []byte) (Messages, error)

func (f ParserFunc) Parse(content []byte) (Messages, error) { return f(content) }

// JSONParser parses documents shaped {"en": {"validation": {...}}}.
var JSONParser Parser = ParserFunc(func(content []byte) (Messages, error) {
	var data map[string]any
	if err := json.Unmarshal(content, &data); err != nil {
		return nil, errors.Join(ErrFailedToParseJSON, err)
	}
	return toMessages(data)
})

// YAMLParser parses the YAML equivalent of JSONParser documents.
var YAMLParser Parser = ParserFunc(func(content []byte) (Messages, error) {
	var data map[string]any
	if err := yaml.Unmarshal(content, &data); err != nil {
		return nil, errors.Join(ErrFailedToParseYAML, err)
	}
	return toMessages(data)
})

// ParserFor returns the parser for a file name, or nil for unknown
// extensions.
func ParserFor(name string) Parser {
	switch strings.ToLower(strings.TrimPrefix(path.Ext(name), ".")) {
	case "json":
		return JSONParser
	case "yaml", "yml":
		return YAMLParser
	}
	return nil
}

func toMessages(data map[string]any) (Messages, error) {
	out := make(Messages, len(data))
	for lang, v := range data {
		tree, ok := v.(map[string]any)
		if lang == "" || !ok {
			return nil, fmt.Errorf("%w: language %q: expected mapping, got %T", ErrInvalidMessages, lang, v)
		}
		out[lang] = tree
	}
	return out, nil
}

// merge copies src into dst, descending into nested trees.
func merge(dst, src map[string]any) {
	for k, v := range src {
		sub, ok := v.(map[string]any)
		if !ok {
			dst[k] = v
			continue
		}
		cur, ok := dst[k].(map[string]any)
		if !ok {
			cur = make(map[string]any, len(sub))
			dst[k] = cur
		}
		merge(cur, sub)
	}
}
