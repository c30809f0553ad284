package stateful

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/getmockd/crudsync/pkg/config"
	"github.com/getmockd/crudsync/pkg/transport"
)

// fakeTransport records every request and answers with respond.
type fakeTransport struct {
	mu       sync.Mutex
	requests []*transport.Request
	respond  func(req *transport.Request) (*transport.Response, error)
}

func (f *fakeTransport) Do(ctx context.Context, req *transport.Request) (*transport.Response, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	respond := f.respond
	f.mu.Unlock()
	if respond == nil {
		return &transport.Response{Status: 204}, nil
	}
	return respond(req)
}

func (f *fakeTransport) reply(data interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.respond = func(*transport.Request) (*transport.Response, error) {
		return &transport.Response{Data: data, Status: 200}, nil
	}
}

func (f *fakeTransport) fail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.respond = func(*transport.Request) (*transport.Response, error) {
		return nil, err
	}
}

func (f *fakeTransport) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func (f *fakeTransport) last() *transport.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.requests) == 0 {
		return nil
	}
	return f.requests[len(f.requests)-1]
}

func newTestStore(t *testing.T, cfg config.Config) (*Store, *fakeTransport) {
	t.Helper()
	ft := &fakeTransport{}
	if cfg.Transport == nil {
		cfg.Transport = ft
	}
	if cfg.Route.IsZero() {
		cfg.Route = config.Path("/api/users/")
	}
	s, err := NewRegistry().GetOrCreate("users", cfg)
	require.NoError(t, err)
	return s, ft
}

func userList(ids ...int) []interface{} {
	out := make([]interface{}, 0, len(ids))
	for _, id := range ids {
		out = append(out, map[string]interface{}{"id": id, "name": "user"})
	}
	return out
}
