// Package request defines the narrow view of an incoming request that the
// binding pipeline consumes: multi-valued strings per source and name, the
// routing scopes of the current call, and its context.
//
// Two implementations are provided. Map is an in-memory request, useful in
// tests and for non-HTTP callers. HTTP adapts *http.Request: query and form
// values, chi URL parameters, headers, cookies and a JSON body read once and
// queried with gjson.
//
//	req := request.FromHTTP(r, request.WithMaxBodyBytes(1<<20))
//	ids, ok := req.Values(request.SourceParam, "id")
//
// JSON objects and arrays are exposed as property expressions relative to
// the requested path, so {"user":{"tags":["a","b"]}} read under "user"
// yields "tags[0]=a" and "tags[1]=b".
package request
