package stateful

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownAction is returned when dispatching an action that is
	// disabled or was never declared.
	ErrUnknownAction = errors.New("unknown action")
	// ErrNoLocalState is returned by SetState on a store configured
	// without local state.
	ErrNoLocalState = errors.New("store has no local state")
	// ErrMissingKey is returned when a record lacks its key field.
	ErrMissingKey = errors.New("record has no key")
	// ErrEmptyKey is returned when registering a store under an empty key.
	ErrEmptyKey = errors.New("store key cannot be empty")
	// ErrStoreNotFound is returned when a store key is not registered.
	ErrStoreNotFound = errors.New("store not registered")
)

// ActionError identifies the store and action of an unknown action.
type ActionError struct {
	Store  string
	Action string
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("store %q: action %q is not enabled", e.Store, e.Action)
}

// Unwrap returns ErrUnknownAction.
func (e *ActionError) Unwrap() error {
	return ErrUnknownAction
}

// ShapeError is recorded as an action's error when a successful response
// cannot be applied to the collection. The collection is left untouched.
type ShapeError struct {
	Store  string
	Action string
	Reason string
	// Got is the offending response data.
	Got interface{}
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("store %q: action %q: unexpected response shape: %s (got %T)", e.Store, e.Action, e.Reason, e.Got)
}

// KeyError reports a record without a usable key field.
type KeyError struct {
	Store string
	Field string
}

func (e *KeyError) Error() string {
	return fmt.Sprintf("store %q: record has no usable %q field", e.Store, e.Field)
}

// Unwrap returns ErrMissingKey.
func (e *KeyError) Unwrap() error {
	return ErrMissingKey
}
