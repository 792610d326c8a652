// Package method describes bindable handlers: their name, their declared
// parameters and the annotations attached to both.
//
// Descriptors are built once, usually at startup, and are read-only after
// construction:
//
//	h := method.NewHandler("users.create", []method.Param{
//		method.ParamFor[CreateUser]("user", bind.Param{}, validation.Valid{}),
//		method.ParamFor[*int]("ref", bind.Param{}, method.Nullable{}),
//	})
//
// Every parameter carries a pre-resolved typeinfo.Type, so conversion never
// inspects reflect metadata per request.
package method
