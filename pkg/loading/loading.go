// Package loading tracks the execution state of named actions.
//
// A Map is immutable: every write returns a new Map, which lets a store keep
// it inside an observable snapshot and replace it atomically. Entries change
// only through Initiate, Finish and Fail; each write bumps Sequence so that
// subscribers can tell two structurally equal states apart.
package loading

import "github.com/getmockd/crudsync/pkg/record"

// Entry is the loading state of one action.
type Entry struct {
	// IsLoading is true while a call is in flight.
	IsLoading bool `json:"isLoading"`
	// Error is the rejection of the last call, if it failed.
	Error error `json:"-"`
	// Response is the normalized response of the last successful call.
	Response interface{} `json:"response,omitempty"`
	// ID is the record the action targets or returned; empty when unknown.
	ID record.Key `json:"id,omitempty"`
	// Sequence counts the overwrites that preceded this entry.
	Sequence int `json:"sequence"`
}

// HasError reports whether the entry holds an error.
func (e Entry) HasError() bool { return e.Error != nil }

// Option overlays extra fields on an entry during Initiate.
type Option func(*Entry)

// WithID records the target record of an in-flight call.
func WithID(id record.Key) Option {
	return func(e *Entry) { e.ID = id }
}

// Map holds the entries of one store keyed by action name.
type Map map[string]Entry

// Get returns the entry for action, or the zero entry if none was written.
func (m Map) Get(action string) Entry {
	return m[action]
}

// set merges update over the previous entry (or the zero entry) and bumps
// the sequence relative to the previous entry. The first write yields 0.
func (m Map) set(action string, update func(*Entry)) Map {
	prev, existed := m[action]
	next := prev
	update(&next)
	if existed {
		next.Sequence = prev.Sequence + 1
	} else {
		next.Sequence = 0
	}

	out := make(Map, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	out[action] = next
	return out
}

// Initiate marks action as in flight and clears its previous outcome.
func (m Map) Initiate(action string, opts ...Option) Map {
	return m.set(action, func(e *Entry) {
		e.IsLoading = true
		e.Error = nil
		e.Response = nil
		e.ID = ""
		for _, opt := range opts {
			opt(e)
		}
	})
}

// Finish marks action as complete with response. ID is taken from the
// response's idField when the response is a record carrying one.
func (m Map) Finish(action string, response interface{}, idField string) Map {
	var id record.Key
	if rec, ok := response.(record.Record); ok {
		id, _ = rec.Key(idField)
	}
	return m.set(action, func(e *Entry) {
		e.IsLoading = false
		e.Error = nil
		e.Response = response
		e.ID = id
	})
}

// Fail marks action as failed with err. ID is left as it was.
func (m Map) Fail(action string, err error) Map {
	return m.set(action, func(e *Entry) {
		e.IsLoading = false
		e.Error = err
		e.Response = nil
	})
}
