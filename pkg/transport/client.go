package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/getmockd/crudsync/pkg/logging"
)

// DefaultTimeout is the HTTP timeout used when none is configured.
const DefaultTimeout = 30 * time.Second

// RequestIDHeader carries a per-request UUID.
const RequestIDHeader = "X-Request-ID"

// Client is a JSON-over-HTTP Transport.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string // optional bearer token
	headers    http.Header
	log        *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the HTTP timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithToken sets the bearer token sent in the Authorization header.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// WithHeader adds a header to every request.
func WithHeader(key, value string) Option {
	return func(c *Client) {
		c.headers.Add(key, value)
	}
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(log *slog.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// New creates a client rooted at baseURL. Relative request URLs are joined
// to it; absolute request URLs are used as-is.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		headers: make(http.Header),
		log:     logging.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do sends req and decodes the JSON response.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	method := strings.ToUpper(req.Method)
	if method == "" {
		method = http.MethodGet
	}

	if req.URL == "" {
		return nil, ErrEmptyURL
	}
	target, err := c.resolve(req.URL, req.Params)
	if err != nil {
		return nil, err
	}

	var body io.Reader
	if req.Data != nil {
		var buf bytes.Buffer
		if err := json.NewEncoder(&buf).Encode(req.Data); err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		body = &buf
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, err
	}
	for k, vs := range c.headers {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}
	requestID := uuid.NewString()
	httpReq.Header.Set(RequestIDHeader, requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.log.Debug("request failed", "method", method, "url", target, "requestId", requestID, "error", err)
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := decodeBody(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("decode response from %s %s: %w", method, target, err)
	}
	c.log.Debug("request done",
		"method", method,
		"url", target,
		"requestId", requestID,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{
			Method: method,
			URL:    target,
			Status: resp.StatusCode,
			Data:   data,
		}
	}
	return &Response{Data: data, Status: resp.StatusCode}, nil
}

// resolve joins a request URL to the base URL and merges params into its query.
func (c *Client) resolve(raw string, params url.Values) (string, error) {
	target := raw
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		if !strings.HasPrefix(raw, "/") {
			raw = "/" + raw
		}
		target = c.baseURL + raw
	}

	u, err := url.Parse(target)
	if err != nil {
		return "", fmt.Errorf("invalid request url %q: %w", target, err)
	}
	if len(params) > 0 {
		q := u.Query()
		for k, vs := range params {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

// decodeBody decodes a JSON body. Empty bodies decode to nil; numbers are
// kept as json.Number so large integer ids survive.
func decodeBody(r io.Reader) (interface{}, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil //nolint:nilnil // empty body is a valid, empty response
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var data interface{}
	if err := dec.Decode(&data); err != nil {
		// Non-JSON bodies (plain-text errors) are passed through as strings.
		return string(raw), nil //nolint:nilerr // body is still meaningful to the caller
	}
	return data, nil
}
