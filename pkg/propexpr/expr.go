package propexpr

import (
	"cmp"
	"slices"
	"strconv"
	"strings"

	"github.com/dmitrymomot/bindkit/pkg/collection"
)

// Expr is one parsed property expression.
type Expr struct {
	Base     string
	Segments []string
	// Rest is the dotted remainder after the segments, including its
	// leading dot, or empty.
	Rest  string
	Value string
}

// Parse splits raw into its parts. It reports false when raw has no '=' or
// an unterminated segment.
func Parse(raw string) (Expr, bool) {
	var e Expr
	i := strings.IndexAny(raw, "[.=")
	if i < 0 {
		return Expr{}, false
	}
	e.Base = raw[:i]
	s := raw[i:]

	for len(s) > 0 && s[0] == '[' {
		end := strings.IndexByte(s, ']')
		if end < 0 {
			return Expr{}, false
		}
		e.Segments = append(e.Segments, s[1:end])
		s = s[end+1:]
	}

	eq := strings.IndexByte(s, '=')
	if eq < 0 {
		return Expr{}, false
	}
	e.Rest = s[:eq]
	if e.Rest != "" && (e.Rest[0] != '.' || len(e.Rest) == 1) {
		return Expr{}, false
	}
	e.Value = s[eq+1:]
	return e, true
}

// Path returns the left-hand side of the expression.
func (e Expr) Path() string {
	var b strings.Builder
	b.WriteString(e.Base)
	for _, seg := range e.Segments {
		b.WriteByte('[')
		b.WriteString(seg)
		b.WriteByte(']')
	}
	b.WriteString(e.Rest)
	return b.String()
}

func (e Expr) String() string {
	return e.Path() + "=" + e.Value
}

// Position returns the first segment as a non-negative integer.
func (e Expr) Position() (int, bool) {
	if len(e.Segments) == 0 {
		return 0, false
	}
	pos, err := strconv.Atoi(e.Segments[0])
	if err != nil || pos < 0 {
		return 0, false
	}
	return pos, true
}

// matches reports whether e belongs to base. Expressions written without a
// base are relative and belong to any base.
func (e Expr) matches(base string) bool {
	return e.Base == base || e.Base == ""
}

func (e Expr) hasPrefix(segs []string) bool {
	return len(e.Segments) >= len(segs) && slices.Equal(e.Segments[:len(segs)], segs)
}

func parseAll(values []string, base string) []Expr {
	out := make([]Expr, 0, len(values))
	for _, raw := range values {
		e, ok := Parse(raw)
		if !ok || (e.Base == "" && len(e.Segments) == 0) {
			continue
		}
		if e.matches(base) {
			out = append(out, e)
		}
	}
	return out
}

// Positions returns the distinct positions of expressions under base in
// ascending order. Expressions without an integer first segment are ignored.
func Positions(values []string, base string) []int {
	set := collection.NewSortedSet[int]()
	for _, e := range parseAll(values, base) {
		if pos, ok := e.Position(); ok {
			set.Add(pos)
		}
	}
	return set.Values()
}

// MapKeys returns the distinct keys of base[pos][KEY] expressions in
// ascending order.
func MapKeys(values []string, base string, pos int) []string {
	set := collection.NewSortedSet[string]()
	for _, e := range parseAll(values, base) {
		if len(e.Segments) < 2 {
			continue
		}
		if p, ok := e.Position(); ok && p == pos {
			set.Add(e.Segments[1])
		}
	}
	return set.Values()
}

// Keys returns the distinct first segments under base in ascending order.
func Keys(values []string, base string) []string {
	set := collection.NewSortedSet[string]()
	for _, e := range parseAll(values, base) {
		if len(e.Segments) > 0 {
			set.Add(e.Segments[0])
		}
	}
	return set.Values()
}

// Select narrows values to the sub-expressions below base[segs...] and
// returns them relative to that prefix, in input order. Expressions that
// address the prefix itself are not included.
//
//	Select([]string{"items[0].name=a", "items[0][k]=x"}, "items", "0")
//	// []string{"name=a", "[k]=x"}
func Select(values []string, base string, segs ...string) []string {
	var out []string
	for _, e := range parseAll(values, base) {
		if !e.hasPrefix(segs) {
			continue
		}
		rem := e.Segments[len(segs):]
		var rel string
		switch {
		case len(rem) > 0:
			rel = Expr{Segments: rem, Rest: e.Rest, Value: e.Value}.String()
		case e.Rest != "":
			rel = e.Rest[1:] + "=" + e.Value
		default:
			continue
		}
		out = append(out, rel)
	}
	return out
}

// Lookup returns the value of the first expression addressing exactly
// base[segs...].
func Lookup(values []string, base string, segs ...string) (string, bool) {
	all := LookupAll(values, base, segs...)
	if len(all) == 0 {
		return "", false
	}
	return all[0], true
}

// LookupAll returns the values of every expression addressing exactly
// base[segs...], in input order.
func LookupAll(values []string, base string, segs ...string) []string {
	var out []string
	for _, e := range parseAll(values, base) {
		if e.Rest == "" && slices.Equal(e.Segments, segs) {
			out = append(out, e.Value)
		}
	}
	return out
}

// Indexed reports whether every value is a base[POS]=v expression and, if
// so, returns the values ordered by POS. Values sharing a position keep
// their input order.
func Indexed(values []string, base string) ([]string, bool) {
	if base == "" || len(values) == 0 {
		return nil, false
	}
	type item struct {
		pos   int
		value string
	}
	items := make([]item, 0, len(values))
	for _, raw := range values {
		e, ok := Parse(raw)
		if !ok || e.Base != base || len(e.Segments) != 1 || e.Rest != "" {
			return nil, false
		}
		pos, ok := e.Position()
		if !ok {
			return nil, false
		}
		items = append(items, item{pos: pos, value: e.Value})
	}
	slices.SortStableFunc(items, func(a, b item) int { return cmp.Compare(a.pos, b.pos) })

	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.value
	}
	return out, true
}

// Rebase prefixes relative expressions with base.
//
//	Rebase([]string{"name=a", "[0]=x"}, "user")
//	// []string{"user.name=a", "user[0]=x"}
func Rebase(values []string, base string) []string {
	if base == "" {
		return slices.Clone(values)
	}
	out := make([]string, len(values))
	for i, v := range values {
		if strings.HasPrefix(v, "[") {
			out[i] = base + v
		} else {
			out[i] = base + "." + v
		}
	}
	return out
}
