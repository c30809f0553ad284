package stateful

import (
	"encoding/json"
	"math"
	"sort"

	"github.com/getmockd/crudsync/pkg/loading"
	"github.com/getmockd/crudsync/pkg/record"
)

// Snapshot is the complete state of a store at one point in time.
// Snapshots are shared with subscribers and must not be modified.
type Snapshot struct {
	// Records is the keyed collection. Nil until the first fetch or write.
	Records map[record.Key]record.Record
	// Count is the server-reported total.
	Count int
	// Loading holds the per-action execution state.
	Loading loading.Map
	// Local is the local state, nil when the store declares none.
	Local map[string]interface{}
}

// Fetched reports whether the collection has been populated.
func (s Snapshot) Fetched() bool {
	return s.Records != nil
}

// Sorted returns the collection ordered by key.
func (s Snapshot) Sorted() []record.Record {
	keys := make([]record.Key, 0, len(s.Records))
	for k := range s.Records {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return record.Less(keys[i], keys[j]) })

	out := make([]record.Record, 0, len(keys))
	for _, k := range keys {
		out = append(out, s.Records[k])
	}
	return out
}

func (s Snapshot) copyRecords() map[record.Key]record.Record {
	out := make(map[record.Key]record.Record, len(s.Records)+1)
	for k, v := range s.Records {
		out[k] = v
	}
	return out
}

// The helpers below return a new snapshot and never write to s.

func (s Snapshot) replaceAll(recs map[record.Key]record.Record, count int) Snapshot {
	s.Records = recs
	s.Count = count
	return s
}

func (s Snapshot) upsert(key record.Key, rec record.Record, countNew bool) Snapshot {
	_, existed := s.Records[key]
	recs := s.copyRecords()
	recs[key] = rec
	s.Records = recs
	if countNew && !existed {
		s.Count++
	}
	return s
}

func (s Snapshot) merge(key record.Key, patch record.Record) (Snapshot, bool) {
	prev, ok := s.Records[key]
	if !ok {
		return s, false
	}
	recs := s.copyRecords()
	recs[key] = prev.Merge(patch)
	s.Records = recs
	return s, true
}

func (s Snapshot) remove(key record.Key) (Snapshot, bool) {
	if _, ok := s.Records[key]; !ok {
		return s, false
	}
	recs := s.copyRecords()
	delete(recs, key)
	s.Records = recs
	if s.Count > 0 {
		s.Count--
	}
	return s, true
}

// keyRecords indexes copies of recs by field. It fails on the first record without
// a usable key.
func keyRecords(recs []record.Record, field string) (map[record.Key]record.Record, bool) {
	out := make(map[record.Key]record.Record, len(recs))
	for _, rec := range recs {
		key, ok := rec.Key(field)
		if !ok {
			return nil, false
		}
		out[key] = rec.Clone()
	}
	return out, true
}

// listEnvelope splits a list response into its records and count. Both
// {results, count} envelopes and bare arrays are accepted.
func listEnvelope(data interface{}) ([]record.Record, int, string) {
	if recs, ok := record.FromSlice(data); ok {
		return recs, len(recs), ""
	}
	env, ok := record.From(data)
	if !ok {
		return nil, 0, "expected a list or a {results, count} object"
	}
	raw, has := env["results"]
	if !has {
		return nil, 0, "object response without a results field"
	}
	recs, ok := record.FromSlice(raw)
	if !ok {
		return nil, 0, "results is not a list of objects"
	}
	count := len(recs)
	if c, has := env["count"]; has {
		n, ok := toCount(c)
		if !ok {
			return nil, 0, "count is not a non-negative integer"
		}
		count = n
	}
	return recs, count, ""
}

func toCount(v interface{}) (int, bool) {
	var f float64
	switch n := v.(type) {
	case int:
		return n, n >= 0
	case int64:
		return int(n), n >= 0
	case float64:
		f = n
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i), i >= 0
		}
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if f < 0 || f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int(f), true
}
