// Package convert turns raw request strings into typed Go values.
//
// Three converters cooperate:
//
//   - SimpleConverter parses one string into a scalar: numbers, booleans,
//     strings, time.Time, time.Duration, uuid.UUID and any
//     encoding.TextUnmarshaler. Custom parse functions can be registered per
//     type.
//   - Converter populates structs ("beans") from property expressions such
//     as "address.city=Oslo", recursing into nested beans and collections.
//     It also owns the adapter registry consulted for non-scalar targets.
//   - CollectionAdapter builds slices, arrays, sets and maps, including
//     lists of beans ("items[0].name=a") and lists of maps of beans
//     ("items[0][k].name=a").
//
// Conversion is lenient. A value that cannot be parsed is reported as a
// *ConversionError while the remaining fields and elements are still bound,
// and a field whose type has no converter is logged and skipped.
//
//	conv := convert.New(convert.NewSimpleConverter(), convert.WithLogger(log))
//	v, err := conv.FromStrings(values, convert.Context{Name: "user", Type: typeinfo.For[*User]()})
package convert
