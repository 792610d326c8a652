package logger

import (
	"log/slog"
	"strconv"
)

// Group creates a slog group attribute from the provided attributes.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Errors groups the non-nil errors under "errors". It returns an empty Attr
// when every error is nil.
func Errors(errs ...error) slog.Attr {
	as := make([]slog.Attr, 0, len(errs))
	for i, err := range errs {
		if err != nil {
			as = append(as, slog.Any(strconv.Itoa(i), err))
		}
	}
	if len(as) == 0 {
		return slog.Attr{}
	}
	return slog.Attr{Key: "errors", Value: slog.GroupValue(as...)}
}

// Error records err under "error", or returns an empty Attr for nil.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

func Component(name string) slog.Attr {
	return slog.String("component", name)
}

func Handler(name string) slog.Attr {
	return slog.String("handler", name)
}

// Param records a binding name under "param".
func Param(name string) slog.Attr {
	return slog.String("param", name)
}

// Field records a bean property path under "field".
func Field(path string) slog.Attr {
	return slog.String("field", path)
}

// Type records a type name under "type". Nil values yield an empty Attr.
func Type(t any) slog.Attr {
	if t == nil {
		return slog.Attr{}
	}
	if s, ok := t.(interface{ String() string }); ok {
		return slog.String("type", s.String())
	}
	return slog.Any("type", t)
}

// Annotation records an annotation kind under "annotation".
func Annotation(kind string) slog.Attr {
	return slog.String("annotation", kind)
}

// Stage records a validation stage under "stage".
func Stage(n int) slog.Attr {
	return slog.Int("stage", n)
}

func Count(n int) slog.Attr {
	return slog.Int("count", n)
}
