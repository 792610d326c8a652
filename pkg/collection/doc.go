// Package collection provides the generic container types used as binding
// targets: an insertion-ordered Set, a SortedSet and an OrderedMap.
//
// Go has no built-in set or ordered map, yet request binding needs both:
// repeated parameters may be bound into a unique collection, and maps built
// from indexed expressions must iterate in a stable order. The types here
// keep that order explicit.
//
// Besides the typed API every container exposes a small reflective surface
// (Inserter, Putter) so that a converter which only knows the target
// reflect.Type can still fill an instance:
//
//	s := collection.NewSet[string]()
//	_ = s.Insert("a") // type-checked at runtime
//	s.Add("b", "a")   // typed
//	s.Values()        // []string{"a", "b"}
//
// None of the containers is safe for concurrent mutation; they are built
// and owned by a single request.
package collection
