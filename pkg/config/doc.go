// Package config turns a sparse store configuration into a fully resolved
// action table.
//
// A Config names a base route and a transport, and optionally enables the
// five standard actions (get, getList, create, update, delete), declares
// custom actions, an inherited error handler, and an initial local state.
// Validate resolves it: every enabled action gets an HTTP method, a route,
// request/response transforms and callbacks, so nothing downstream has to
// deal with missing fields.
//
// Defaults:
//
//	Action   Method   Route
//	get      get      detail route
//	getList  get      base route
//	create   post     base route
//	update   patch    detail route
//	delete   delete   detail route
//	custom   get      required, no default
//
// A detail route appends the record's id to a string base route,
// preserving a trailing slash: "/api/users/" becomes "/api/users/7/" and
// "/api/users" becomes "/api/users/7". A function route is used verbatim.
//
// Usage:
//
//	resolved, err := config.Validate(config.Config{
//	    Route:     config.Path("/api/users/"),
//	    Transport: transport.New("http://localhost:4280"),
//	    Actions: &config.Actions{
//	        GetList: config.Enabled(),
//	        Update:  &config.ActionConfig{Method: "put"},
//	    },
//	})
//
//	desc, ok := resolved.Resolve(config.Update)
package config
