// Package bind extracts raw request values for handler parameters and
// converts them into typed values.
//
// Each parameter carries one binding annotation that names where its values
// come from:
//
//	method.ParamFor[string]("q", bind.Param{})
//	method.ParamFor[uuid.UUID]("id", bind.Path{})
//	method.ParamFor[string]("token", bind.Header{Name: "X-Token"})
//	method.ParamFor[CreateUser]("user", bind.Body{})
//	method.ParamFor[language.Tag]("locale", bind.Locale{})
//
// Binding runs in two steps. Values collects the raw strings of every
// parameter keyed by its binding name, in declaration order. TypedValues
// turns them into Go values:
//
//   - a typed adapter (Request, Locale) supplies its value directly;
//   - a parameter without raw values becomes nil when it is nullable or
//     scalar, and a new default instance otherwise;
//   - a parameter whose raw values are present but empty becomes nil;
//   - otherwise the registered converter adapter, the scalar converter or
//     the bean converter produces the value.
//
// Structured parameters are addressed with property expressions such as
// items[0].name=value or items[0][key]=value. Conversion failures never stop
// binding: the affected value degrades and the failures are returned joined
// as *convert.ConversionError values.
package bind
