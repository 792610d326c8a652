// Package typeinfo resolves Go types into binding descriptors once, so the
// conversion and validation engines work with a small closed set of type
// families instead of inspecting reflect metadata on every request.
//
// A Type records the family (Scalar, Bean, List, Set, Map), the underlying
// reflect.Type and the ordered type arguments: the element of a list or set,
// the key and value of a map. Descriptors are memoized and shared.
//
//	t := typeinfo.For[[]map[string]Item]()
//	t.Kind            // typeinfo.List
//	t.Elem().Kind     // typeinfo.Map
//	t.Elem().Value()  // descriptor of Item
//
// Properties lists the bindable fields of a struct. The property name comes
// from the `param` tag, `param:"-"` skips a field, and untagged fields use the
// lower-cased Go field name.
package typeinfo
