package stateful

import (
	"context"
	"fmt"

	"github.com/getmockd/crudsync/pkg/config"
	"github.com/getmockd/crudsync/pkg/loading"
	"github.com/getmockd/crudsync/pkg/record"
)

// Action is a callable handle for one enabled action of a store.
// Handles are cheap and safe to share; their state is read from the store.
type Action struct {
	store *Store
	desc  *config.Descriptor
	hook  config.SuccessFunc
}

// Action returns the handle for ref.
func (s *Store) Action(ref config.Ref) (*Action, error) {
	desc, ok := s.cfg.Resolve(ref)
	if !ok {
		return nil, &ActionError{Store: s.key, Action: ref.String()}
	}
	return &Action{store: s, desc: desc}, nil
}

// MustAction is like Action but panics if the action is not enabled.
func (s *Store) MustAction(ref config.Ref) *Action {
	a, err := s.Action(ref)
	if err != nil {
		panic(fmt.Sprintf("stateful: %v", err))
	}
	return a
}

// Actions returns a handle for every enabled action, standard actions first.
func (s *Store) Actions() []*Action {
	refs := s.cfg.Refs()
	out := make([]*Action, 0, len(refs))
	for _, ref := range refs {
		desc, _ := s.cfg.Resolve(ref)
		out = append(out, &Action{store: s, desc: desc})
	}
	return out
}

// Call runs the action. See Store.Dispatch.
func (a *Action) Call(ctx context.Context, args Args) interface{} {
	return a.store.dispatch(ctx, a.desc, args, a.hook)
}

// WithHook returns a copy of the handle that runs fn on success before the
// action's configured handler.
func (a *Action) WithHook(fn config.SuccessFunc) *Action {
	cp := *a
	cp.hook = fn
	return &cp
}

// Ref identifies the action.
func (a *Action) Ref() config.Ref {
	return a.desc.Ref
}

// Name returns the action name used as the loading state key.
func (a *Action) Name() string {
	return a.desc.Ref.String()
}

// Method returns the resolved HTTP method.
func (a *Action) Method() string {
	return a.desc.Method
}

// State returns the current loading state.
func (a *Action) State() loading.Entry {
	return a.store.LoadingState(a.desc.Ref)
}

// IsLoading reports whether a call is in flight.
func (a *Action) IsLoading() bool {
	return a.State().IsLoading
}

// Err returns the error of the last call, if it failed.
func (a *Action) Err() error {
	return a.State().Error
}

// Response returns the normalized response of the last successful call.
func (a *Action) Response() interface{} {
	return a.State().Response
}

// ID returns the record the last call targeted or returned.
func (a *Action) ID() record.Key {
	return a.State().ID
}

// Sequence returns the loading state's sequence number.
func (a *Action) Sequence() int {
	return a.State().Sequence
}
