package stateful

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/getmockd/crudsync/pkg/config"
	"github.com/getmockd/crudsync/pkg/loading"
)

// Registry is the container managing one store per entity key.
type Registry struct {
	mu       sync.Mutex
	stores   map[string]*Store
	log      *slog.Logger
	observer Observer
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger handed to every store.
func WithLogger(log *slog.Logger) Option {
	return func(r *Registry) {
		r.log = log
	}
}

// WithObserver sets the observer handed to every store.
func WithObserver(o Observer) Option {
	return func(r *Registry) {
		r.observer = o
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		stores:   make(map[string]*Store),
		observer: NoopObserver{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// GetOrCreate returns the store registered under key, creating it from cfg
// on first use. Once a key is registered, later configurations for it are
// ignored.
func (r *Registry) GetOrCreate(key string, cfg config.Config) (*Store, error) {
	if key == "" {
		return nil, ErrEmptyKey
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.stores[key]; ok {
		return s, nil
	}

	resolved, err := config.Validate(cfg)
	if err != nil {
		return nil, fmt.Errorf("store %q: %w", key, err)
	}

	s := newStore(key, resolved, r.log, r.observer)
	r.stores[key] = s
	return s, nil
}

// MustGetOrCreate is like GetOrCreate but panics on error.
func (r *Registry) MustGetOrCreate(key string, cfg config.Config) *Store {
	s, err := r.GetOrCreate(key, cfg)
	if err != nil {
		panic(fmt.Sprintf("stateful: %v", err))
	}
	return s
}

// Lookup returns the store registered under key.
func (r *Registry) Lookup(key string) (*Store, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.stores[key]
	return s, ok
}

// Keys returns all registered keys in sorted order.
func (r *Registry) Keys() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	keys := make([]string, 0, len(r.stores))
	for k := range r.stores {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of registered stores.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.stores)
}

// Reset restores stores to their initial state. An empty key resets every
// store. It returns the keys that were reset.
func (r *Registry) Reset(key string) ([]string, error) {
	if key != "" {
		s, ok := r.Lookup(key)
		if !ok {
			return nil, fmt.Errorf("store %q: %w", key, ErrStoreNotFound)
		}
		s.Reset()
		return []string{key}, nil
	}

	keys := r.Keys()
	for _, k := range keys {
		if s, ok := r.Lookup(k); ok {
			s.Reset()
		}
	}
	return keys, nil
}

// Overview summarizes every registered store.
func (r *Registry) Overview() *Overview {
	keys := r.Keys()
	ov := &Overview{Stores: make([]StoreInfo, 0, len(keys))}
	for _, k := range keys {
		s, _ := r.Lookup(k)
		info := s.Info()
		ov.TotalRecords += info.Records
		ov.Stores = append(ov.Stores, info)
	}
	return ov
}

// Overview is a point-in-time summary of a registry.
type Overview struct {
	TotalRecords int         `json:"totalRecords"`
	Stores       []StoreInfo `json:"stores"`
}

// StoreInfo summarizes one store.
type StoreInfo struct {
	Key     string   `json:"key"`
	Fetched bool     `json:"fetched"`
	Records int      `json:"records"`
	Count   int      `json:"count"`
	Actions []string `json:"actions"`
	Loading []string `json:"loading,omitempty"`
}

// Info summarizes the store.
func (s *Store) Info() StoreInfo {
	snap := s.cell.Get()
	refs := s.cfg.Refs()
	info := StoreInfo{
		Key:     s.key,
		Fetched: snap.Fetched(),
		Records: len(snap.Records),
		Count:   snap.Count,
		Actions: make([]string, 0, len(refs)),
	}
	for _, ref := range refs {
		name := ref.String()
		info.Actions = append(info.Actions, name)
		if snap.Loading.Get(name).IsLoading {
			info.Loading = append(info.Loading, name)
		}
	}
	return info
}

// Reset restores the store to its initial state: no records, a zero count,
// no loading entries and the declared initial local state.
func (s *Store) Reset() {
	s.cell.Set(Snapshot{
		Loading: loading.Map{},
		Local:   s.cfg.InitialState(),
	})
}
