package i18n

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
)

// Source loads messages.
type Source interface {
	Load(ctx context.Context) (Messages, error)
}

// MapSource serves messages held in memory.
type MapSource Messages

func (s MapSource) Load(context.Context) (Messages, error) {
	out := make(Messages, len(s))
	for lang, tree := range s {
		cp := make(map[string]any, len(tree))
		merge(cp, tree)
		out[lang] = cp
	}
	return out, nil
}

// FSSource reads every JSON and YAML file directly inside Dir of FS. Files
// are merged in name order, so later files override earlier keys.
type FSSource struct {
	FS  fs.FS
	Dir string
}

func (s FSSource) Load(ctx context.Context) (Messages, error) {
	dir := s.Dir
	if dir == "" {
		dir = "."
	}
	entries, err := fs.ReadDir(s.FS, dir)
	if err != nil {
		return nil, errors.Join(ErrFailedToReadDirectory, err)
	}
	out := make(Messages)
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, errors.Join(ErrLoadingCancelled, err)
		}
		parser := ParserFor(e.Name())
		if e.IsDir() || parser == nil {
			continue
		}
		name := path.Join(dir, e.Name())
		content, err := fs.ReadFile(s.FS, name)
		if err != nil {
			return nil, errors.Join(ErrFailedToReadFile, err)
		}
		msgs, err := parser.Parse(content)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		for lang, tree := range msgs {
			if out[lang] == nil {
				out[lang] = make(map[string]any)
			}
			merge(out[lang], tree)
		}
	}
	return out, nil
}
