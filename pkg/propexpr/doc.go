// Package propexpr parses indexed property expressions, the text form used
// to address elements of nested collections and beans inside a flat list of
// request values.
//
// An expression has the shape
//
//	base[SEG][SEG].rest=value
//
// where every SEG is either a non-negative integer position or a map key,
// and rest is an optional dotted property path. Examples:
//
//	tags[1]=b
//	items[0].name=first
//	items[0][k]=x
//	user.address.city=Berlin
//
// The base may be omitted ("[0].name=first", "city=Berlin") when values have
// already been narrowed to one parameter.
//
// Results never depend on input order: positions are returned ascending and
// map keys in ascending lexicographic order. Malformed expressions are
// skipped rather than reported.
package propexpr
