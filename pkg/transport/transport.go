// Package transport defines the request/response contract stores use to reach
// a backend, plus a JSON-over-HTTP implementation.
//
// The contract is deliberately small: a Transport receives a method, a URL,
// query parameters and an optional body, and either returns the decoded
// response or an error. Retries, authentication and headers are the
// transport's business; stores treat it as opaque.
package transport

import (
	"context"
	"errors"
	"fmt"
	"net/url"
)

// ErrEmptyURL is returned for requests without a URL.
var ErrEmptyURL = errors.New("request url is empty")

// Request describes a single backend call.
type Request struct {
	// Method is the HTTP verb, lowercase or uppercase.
	Method string
	// URL is either absolute or relative to the transport's base URL.
	URL string
	// Params are appended to the URL query string.
	Params url.Values
	// Data is the request body. Nil means no body.
	Data interface{}
}

// Response is a decoded backend response.
type Response struct {
	// Data is the decoded JSON body (nil when the body is empty).
	Data interface{}
	// Status is the HTTP status code.
	Status int
}

// Transport issues requests.
type Transport interface {
	Do(ctx context.Context, req *Request) (*Response, error)
}

// Func adapts an ordinary function to Transport.
type Func func(ctx context.Context, req *Request) (*Response, error)

// Do calls f(ctx, req).
func (f Func) Do(ctx context.Context, req *Request) (*Response, error) {
	return f(ctx, req)
}

// StatusError is returned for responses outside the 2xx range.
type StatusError struct {
	Method string
	URL    string
	Status int
	// Data is the decoded error body, if any.
	Data interface{}
}

func (e *StatusError) Error() string {
	if msg := errorMessage(e.Data); msg != "" {
		return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.URL, e.Status, msg)
	}
	return fmt.Sprintf("%s %s: status %d", e.Method, e.URL, e.Status)
}

// StatusCode returns the HTTP status code.
func (e *StatusError) StatusCode() int {
	return e.Status
}

// errorMessage pulls a human-readable message out of common error envelopes.
func errorMessage(data interface{}) string {
	m, ok := data.(map[string]interface{})
	if !ok {
		if s, ok := data.(string); ok {
			return s
		}
		return ""
	}
	for _, k := range []string{"message", "error", "detail"} {
		if s, ok := m[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}
