package scopes

import (
	"fmt"
	"slices"
	"strings"
)

const (
	// ScopeWildcard represents a wildcard scope that matches everything.
	ScopeWildcard = "*"

	// ScopeDelimiter separates scope parts, e.g. "users.create".
	ScopeDelimiter = "."
)

// separators split scope lists in strings and struct tags.
const separators = " ,|"

// ParseScopes splits a scope list separated by spaces, commas or pipes.
// Empty entries are removed. Returns nil for empty input.
//
//	scopes.ParseScopes("create|update")    // []string{"create", "update"}
//	scopes.ParseScopes("users.*, archive") // []string{"users.*", "archive"}
func ParseScopes(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return strings.ContainsRune(separators, r)
	})
	if len(fields) == 0 {
		return nil
	}
	return fields
}

// JoinScopes renders scopes as a pipe-separated list.
func JoinScopes(scopes []string) string {
	return strings.Join(scopes, "|")
}

// ValidatePattern reports whether pattern is a usable scope pattern. A
// wildcard may only appear alone or as the last part of a hierarchy.
func ValidatePattern(pattern string) error {
	switch {
	case pattern == "":
		return fmt.Errorf("%w: empty", ErrInvalidScope)
	case pattern == ScopeWildcard:
		return nil
	case strings.ContainsAny(pattern, separators):
		return fmt.Errorf("%w: %q contains a separator", ErrInvalidScope, pattern)
	}
	if i := strings.Index(pattern, ScopeWildcard); i >= 0 {
		if i != len(pattern)-1 || !strings.HasSuffix(pattern, ScopeDelimiter+ScopeWildcard) {
			return fmt.Errorf("%w: %q", ErrInvalidScope, pattern)
		}
	}
	return nil
}

// ScopeMatches reports whether scope matches pattern.
//
//   - "create" matches "create"
//   - "*" matches any scope
//   - "users.*" matches any scope starting with "users."
func ScopeMatches(scope, pattern string) bool {
	if scope == pattern || pattern == ScopeWildcard {
		return true
	}

	if strings.HasSuffix(pattern, ScopeWildcard) {
		prefix := strings.TrimSuffix(pattern, ScopeWildcard)
		prefix = strings.TrimSuffix(prefix, ScopeDelimiter)
		return strings.HasPrefix(scope, prefix+ScopeDelimiter)
	}

	return false
}

// HasScope reports whether any pattern matches scope.
func HasScope(patterns []string, scope string) bool {
	for _, p := range patterns {
		if ScopeMatches(scope, p) {
			return true
		}
	}
	return false
}

// MatchesAny reports whether at least one of the current scopes matches at
// least one pattern. An empty pattern list matches everything; a request
// without scopes only satisfies the global wildcard.
//
//	scopes.MatchesAny([]string{"create"}, []string{"update"})        // false
//	scopes.MatchesAny([]string{"users.*"}, []string{"users.create"}) // true
func MatchesAny(patterns, current []string) bool {
	if len(patterns) == 0 {
		return true
	}
	if slices.Contains(patterns, ScopeWildcard) {
		return true
	}
	for _, s := range current {
		if HasScope(patterns, s) {
			return true
		}
	}
	return false
}

// NormalizeScopes removes duplicate and empty scopes and sorts the rest.
// Returns nil for empty input.
func NormalizeScopes(scopes []string) []string {
	out := slices.DeleteFunc(slices.Clone(scopes), func(s string) bool { return s == "" })
	if len(out) == 0 {
		return nil
	}
	slices.Sort(out)
	return slices.Compact(out)
}
