package config

import (
	"net/url"
	"strings"

	"github.com/getmockd/crudsync/pkg/record"
)

// RouteArgs are the call-time values a route function may use.
type RouteArgs struct {
	// Args is an arbitrary caller value passed through unchanged.
	Args interface{}
	// Params are the call's query parameters.
	Params url.Values
}

// RouteFunc builds a URL from the call payload.
type RouteFunc func(rec record.Record, args RouteArgs) string

// Route is either a static path or a function of the call payload.
// The zero Route is unset.
type Route struct {
	path string
	fn   RouteFunc
}

// Path returns a static route.
func Path(p string) Route {
	return Route{path: p}
}

// Func returns a route computed per call.
func Func(fn RouteFunc) Route {
	return Route{fn: fn}
}

// IsZero reports whether the route is unset.
func (r Route) IsZero() bool {
	return r.path == "" && r.fn == nil
}

// IsFunc reports whether the route is computed per call.
func (r Route) IsFunc() bool {
	return r.fn != nil
}

// Static returns the static path, or "" for function routes.
func (r Route) Static() string {
	return r.path
}

// Build returns the URL for a call.
func (r Route) Build(rec record.Record, args RouteArgs) string {
	if r.fn != nil {
		return r.fn(rec, args)
	}
	return r.path
}

// Detail returns the route addressing a single record by its idField value.
// Function routes are already parameterized by record and are returned as-is.
func (r Route) Detail(idField string) Route {
	if r.fn != nil {
		return r
	}
	base := r.path
	return Func(func(rec record.Record, _ RouteArgs) string {
		key, _ := rec.Key(idField)
		return DetailPath(base, key)
	})
}

// DetailPath appends key to base as a path segment, keeping base's
// trailing-slash style.
func DetailPath(base string, key record.Key) string {
	if strings.HasSuffix(base, "/") {
		return base + string(key) + "/"
	}
	return base + "/" + string(key)
}
