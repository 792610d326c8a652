// Package scopes matches request scopes against the scope restrictions of
// validation rules.
//
// A request satisfies a set of named scopes, such as the handler name
// ("users.create"), the route pattern ("/users/{id}") or any name added with
// request.WithScopes. A rule restricted with on=create|update applies only
// when one of those scopes matches one of its patterns.
//
// Patterns understand two conventions:
//
//   - ScopeDelimiter (".") separates hierarchy levels, "users.create".
//   - ScopeWildcard ("*") matches everything alone, or everything below a
//     level when used as a suffix, "users.*".
//
// Usage:
//
//	on := scopes.ParseScopes("create|users.*")
//	if scopes.MatchesAny(on, req.Scopes()) {
//		// the rule applies
//	}
package scopes
