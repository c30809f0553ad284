package stateful

import (
	"log/slog"

	"github.com/getmockd/crudsync/pkg/config"
	"github.com/getmockd/crudsync/pkg/loading"
	"github.com/getmockd/crudsync/pkg/logging"
	"github.com/getmockd/crudsync/pkg/observable"
	"github.com/getmockd/crudsync/pkg/record"
)

// Store is the client-side state of one entity.
type Store struct {
	key      string
	cfg      *config.Resolved
	cell     *observable.Cell[Snapshot]
	log      *slog.Logger
	observer Observer
}

// newStore creates a store from a validated configuration.
func newStore(key string, cfg *config.Resolved, log *slog.Logger, observer Observer) *Store {
	if log == nil {
		log = logging.Nop()
	}
	if observer == nil {
		observer = NoopObserver{}
	}
	initial := Snapshot{
		Loading: loading.Map{},
		Local:   cfg.InitialState(),
	}
	return &Store{
		key:      key,
		cfg:      cfg,
		cell:     observable.New(initial),
		log:      log.With("store", key),
		observer: observer,
	}
}

// Key returns the entity key the store was registered under.
func (s *Store) Key() string {
	return s.key
}

// Config returns the resolved configuration.
func (s *Store) Config() *config.Resolved {
	return s.cfg
}

// Snapshot returns the current state.
func (s *Store) Snapshot() Snapshot {
	return s.cell.Get()
}

// Subscribe registers fn to receive every new snapshot. Notifications are
// delivered synchronously, in subscription order, before the mutating call
// returns. The returned function unsubscribes.
func (s *Store) Subscribe(fn func(Snapshot)) func() {
	return s.cell.Subscribe(fn)
}

// List returns the records ordered by key, and false if the collection has
// never been populated.
func (s *Store) List() ([]record.Record, bool) {
	snap := s.cell.Get()
	if !snap.Fetched() {
		return nil, false
	}
	sorted := snap.Sorted()
	for i, rec := range sorted {
		sorted[i] = rec.Clone()
	}
	return sorted, true
}

// ListAs decodes the store's records into T.
func ListAs[T any](s *Store) ([]T, bool, error) {
	recs, fetched := s.List()
	if !fetched {
		return nil, false, nil
	}
	out := make([]T, 0, len(recs))
	for _, rec := range recs {
		v, err := record.As[T](rec)
		if err != nil {
			return nil, true, err
		}
		out = append(out, v)
	}
	return out, true, nil
}

// Count returns the server-reported total.
func (s *Store) Count() int {
	return s.cell.Get().Count
}

// Records returns a copy of the keyed collection. It reports false when the
// store was configured without IncludeRecord or has never been populated.
func (s *Store) Records() (map[record.Key]record.Record, bool) {
	if !s.cfg.IncludeRecord {
		return nil, false
	}
	snap := s.cell.Get()
	if !snap.Fetched() {
		return nil, false
	}
	out := make(map[record.Key]record.Record, len(snap.Records))
	for k, v := range snap.Records {
		out[k] = v.Clone()
	}
	return out, true
}

// Lookup returns the record stored under key.
func (s *Store) Lookup(key record.Key) (record.Record, bool) {
	rec, ok := s.cell.Get().Records[key]
	return rec.Clone(), ok
}

// LoadingState returns the loading state of an action. Actions that never
// ran report the zero entry.
func (s *Store) LoadingState(ref config.Ref) loading.Entry {
	return s.cell.Get().Loading.Get(ref.String())
}

// State returns a copy of the local state, and false if the store declares
// none.
func (s *Store) State() (map[string]interface{}, bool) {
	if !s.cfg.HasState() {
		return nil, false
	}
	local := s.cell.Get().Local
	out := make(map[string]interface{}, len(local))
	for k, v := range local {
		out[k] = v
	}
	return out, true
}

// SetState shallow-merges partial into the local state.
func (s *Store) SetState(partial map[string]interface{}) error {
	if !s.cfg.HasState() {
		return ErrNoLocalState
	}
	s.cell.Update(func(snap Snapshot) (Snapshot, bool) {
		next := make(map[string]interface{}, len(snap.Local)+len(partial))
		for k, v := range snap.Local {
			next[k] = v
		}
		for k, v := range partial {
			next[k] = v
		}
		snap.Local = next
		return snap, true
	})
	return nil
}

// SetList replaces the collection and the count.
func (s *Store) SetList(recs []record.Record, count int) error {
	keyed, ok := keyRecords(recs, s.cfg.ByKey)
	if !ok {
		return &KeyError{Store: s.key, Field: s.cfg.ByKey}
	}
	if count < 0 {
		count = 0
	}
	s.cell.Update(func(snap Snapshot) (Snapshot, bool) {
		return snap.replaceAll(keyed, count), true
	})
	return nil
}

// SetInstance inserts or replaces one record. The count is unchanged.
func (s *Store) SetInstance(rec record.Record) error {
	key, ok := rec.Key(s.cfg.ByKey)
	if !ok {
		return &KeyError{Store: s.key, Field: s.cfg.ByKey}
	}
	rec = rec.Clone()
	s.cell.Update(func(snap Snapshot) (Snapshot, bool) {
		return snap.upsert(key, rec, false), true
	})
	return nil
}

// UpdateInstance shallow-merges rec into the stored record with the same
// key. It reports false if no such record exists.
func (s *Store) UpdateInstance(rec record.Record) (bool, error) {
	key, ok := rec.Key(s.cfg.ByKey)
	if !ok {
		return false, &KeyError{Store: s.key, Field: s.cfg.ByKey}
	}
	var merged bool
	s.cell.Update(func(snap Snapshot) (Snapshot, bool) {
		snap, merged = snap.merge(key, rec)
		return snap, merged
	})
	return merged, nil
}

// DeleteInstance removes the record stored under key and decrements the
// count. It reports false if no such record exists.
func (s *Store) DeleteInstance(key record.Key) bool {
	var removed bool
	s.cell.Update(func(snap Snapshot) (Snapshot, bool) {
		snap, removed = snap.remove(key)
		return snap, removed
	})
	return removed
}

// PatchList upserts every record in recs without touching the count.
// Records without a key are skipped. It returns the number applied.
func (s *Store) PatchList(recs []record.Record) int {
	var applied int
	s.cell.Update(func(snap Snapshot) (Snapshot, bool) {
		applied = 0
		for _, rec := range recs {
			key, ok := rec.Key(s.cfg.ByKey)
			if !ok {
				continue
			}
			snap = snap.upsert(key, rec.Clone(), false)
			applied++
		}
		return snap, applied > 0
	})
	if skipped := len(recs) - applied; skipped > 0 {
		s.log.Warn("patch skipped records without key", "field", s.cfg.ByKey, "skipped", skipped)
	}
	return applied
}
