// Package annotation defines the metadata values attached to handlers and
// their parameters, and a generic registry that resolves an annotation to the
// adapter interpreting it.
//
// An annotation is any Go value with a Kind. Kinds are plain strings, so
// resolving an adapter is a map lookup:
//
//	type Param struct{ Name string }
//
//	func (Param) Kind() annotation.Kind { return "bind.param" }
//
//	reg := annotation.NewRegistry[Adapter]()
//	reg.MustRegister("bind.param", paramAdapter)
//
//	if a, ok := reg.For(Param{Name: "q"}); ok {
//		// ...
//	}
//
// Registries are safe for concurrent use. Lookups only take a read lock.
package annotation
