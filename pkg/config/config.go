package config

import (
	"sort"

	"github.com/getmockd/crudsync/pkg/transport"
)

// BodyFunc transforms a request body before it is sent.
type BodyFunc func(body interface{}) interface{}

// ResponseFunc transforms response data before it is applied.
type ResponseFunc func(data interface{}) interface{}

// SuccessFunc receives the normalized response of a successful call.
type SuccessFunc func(data interface{})

// ErrorFunc receives the error of a failed call.
type ErrorFunc func(err error)

// ActionConfig overrides the defaults of a standard action.
// Zero-valued fields keep their default.
type ActionConfig struct {
	// Method is the HTTP verb (get, post, put, patch, delete, head, options).
	Method string
	// Route replaces the default route.
	Route Route
	// PrepareBody transforms the request body.
	PrepareBody BodyFunc
	// TransformResponse transforms the response data before mutation.
	TransformResponse ResponseFunc
	// OnSuccess runs after a successful call.
	OnSuccess SuccessFunc
	// OnError runs after a failed call. Falls back to Config.OnError.
	OnError ErrorFunc
}

// Enabled enables a standard action with all defaults.
func Enabled() *ActionConfig {
	return &ActionConfig{}
}

// Actions selects which standard actions a store exposes.
// A nil field disables that action.
type Actions struct {
	Get     *ActionConfig
	GetList *ActionConfig
	Create  *ActionConfig
	Update  *ActionConfig
	Delete  *ActionConfig
}

// AllActions enables the five standard actions with defaults.
func AllActions() *Actions {
	return &Actions{
		Get:     Enabled(),
		GetList: Enabled(),
		Create:  Enabled(),
		Update:  Enabled(),
		Delete:  Enabled(),
	}
}

func (a *Actions) byKind(k Kind) *ActionConfig {
	switch k {
	case KindGet:
		return a.Get
	case KindGetList:
		return a.GetList
	case KindCreate:
		return a.Create
	case KindUpdate:
		return a.Update
	case KindDelete:
		return a.Delete
	default:
		return nil
	}
}

// CustomAction declares a caller-defined action. The caller owns the
// interpretation of its response; no collection mutation is applied.
type CustomAction struct {
	// Method is the HTTP verb. Defaults to get.
	Method string
	// Route is required.
	Route Route
	// PrepareBody transforms the request body.
	PrepareBody BodyFunc
	// TransformResponse transforms the response data.
	TransformResponse ResponseFunc
	// OnSuccess runs after a successful call.
	OnSuccess SuccessFunc
	// OnError runs after a failed call. Falls back to Config.OnError.
	OnError ErrorFunc
}

// Config is the caller-supplied store configuration.
type Config struct {
	// Route is the base route of the entity. Required.
	Route Route
	// Transport issues the store's requests. Required.
	Transport transport.Transport
	// IDField is the record field holding the id. Defaults to "id".
	IDField string
	// ByKey is the field the collection is keyed by. Defaults to IDField.
	ByKey string
	// Actions selects the standard actions. Nil enables all five.
	Actions *Actions
	// CustomActions declares custom actions by name.
	CustomActions map[string]CustomAction
	// OnError is inherited by every action without its own handler.
	OnError ErrorFunc
	// State is the initial local state. Nil means the store has none.
	State map[string]interface{}
	// IncludeRecord exposes the keyed collection to callers.
	IncludeRecord bool
}

// Descriptor is the fully resolved configuration of one action.
// Every field of a descriptor returned by Resolve is set.
type Descriptor struct {
	Ref               Ref
	Method            string
	Route             Route
	PrepareBody       BodyFunc
	TransformResponse ResponseFunc
	OnSuccess         SuccessFunc
	OnError           ErrorFunc
}

// Resolved is a validated configuration. It is immutable once returned
// by Validate.
type Resolved struct {
	// IDField is the record id field.
	IDField string
	// ByKey is the collection key field.
	ByKey string
	// Route is the base route.
	Route Route
	// Transport issues the store's requests.
	Transport transport.Transport
	// IncludeRecord exposes the keyed collection.
	IncludeRecord bool

	state    map[string]interface{}
	hasState bool
	standard [numStandard]*Descriptor
	custom   map[string]*Descriptor
}

// Resolve returns the descriptor for ref, or false if the action is
// disabled or undeclared.
func (r *Resolved) Resolve(ref Ref) (*Descriptor, bool) {
	if ref.Kind.IsStandard() {
		d := r.standard[ref.Kind]
		return d, d != nil
	}
	if ref.Kind != KindCustom {
		return nil, false
	}
	d, ok := r.custom[ref.Name]
	return d, ok
}

// Refs returns every enabled action: standard actions in declaration order,
// then custom actions sorted by name.
func (r *Resolved) Refs() []Ref {
	refs := make([]Ref, 0, numStandard+len(r.custom))
	for _, k := range StandardKinds() {
		if r.standard[k] != nil {
			refs = append(refs, Ref{Kind: k})
		}
	}
	names := make([]string, 0, len(r.custom))
	for name := range r.custom {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		refs = append(refs, Custom(name))
	}
	return refs
}

// HasState reports whether the store declares local state.
func (r *Resolved) HasState() bool {
	return r.hasState
}

// InitialState returns a copy of the declared initial local state.
func (r *Resolved) InitialState() map[string]interface{} {
	if !r.hasState {
		return nil
	}
	out := make(map[string]interface{}, len(r.state))
	for k, v := range r.state {
		out[k] = v
	}
	return out
}
