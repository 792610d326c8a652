// Package bindkit binds handler parameters from requests, converts the raw
// strings to Go values and validates the result.
//
// A handler is described once with package method; each parameter carries a
// binding annotation from package bind that names where its value comes
// from, and any number of validation annotations from package validation.
//
//	h := method.NewHandler("updateProfile", []method.Param{
//		method.ParamFor[int]("id", bind.Path{}, validation.Min{Value: 1}),
//		method.ParamFor[Profile]("profile", bind.Body{}, validation.Valid{}),
//		method.ParamFor[string]("note", bind.Param{}, validation.On{Scopes: []string{"admin"}}, validation.Length{Max: 140}),
//	})
//
//	binder := bindkit.New(bindkit.WithLogger(logger.New()))
//
//	func (s *Server) UpdateProfile(w http.ResponseWriter, r *http.Request) {
//		res := binder.BindHTTP(h, r)
//		if !res.Valid() {
//			// res.Errors lists every failure with a translation key
//		}
//		profile, _ := bindkit.Arg[Profile](res, "profile")
//	}
//
// Binding never fails a request. Values that cannot be converted bind as nil
// and are reported in Result.Errors next to validation failures.
//
// Bean fields are validated from struct tags:
//
//	type Profile struct {
//		Name    string   `check:"required,minlen=2"`
//		Email   string   `check:"email" validate:"max=254"`
//		Address *Address `check:"valid"`
//	}
//
// Binder settings can be read from BINDKIT_* environment variables with
// NewFromEnv or LoadConfig.
package bindkit
