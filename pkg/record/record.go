// Package record defines the untyped entity record shared by the store,
// the transport and the configuration layers.
//
// A Record is a flat JSON-compatible object. Its key field (default "id")
// holds either a string or an integer; Key is the canonical string form of
// that value so that 7, int64(7), float64(7) and json.Number("7") all index
// the same slot of a collection.
package record

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// DefaultKeyField is the key field used when none is configured.
const DefaultKeyField = "id"

// Record is a single entity as received from or sent to the backend.
type Record map[string]interface{}

// Key is the canonical string form of a record key value.
type Key string

// KeyOf converts a raw key value into a Key.
// Strings must be non-empty; numbers must be integral.
func KeyOf(v interface{}) (Key, bool) {
	switch k := v.(type) {
	case Key:
		return k, k != ""
	case string:
		return Key(k), k != ""
	case int:
		return Key(strconv.Itoa(k)), true
	case int8:
		return Key(strconv.FormatInt(int64(k), 10)), true
	case int16:
		return Key(strconv.FormatInt(int64(k), 10)), true
	case int32:
		return Key(strconv.FormatInt(int64(k), 10)), true
	case int64:
		return Key(strconv.FormatInt(k, 10)), true
	case uint:
		return Key(strconv.FormatUint(uint64(k), 10)), true
	case uint8:
		return Key(strconv.FormatUint(uint64(k), 10)), true
	case uint16:
		return Key(strconv.FormatUint(uint64(k), 10)), true
	case uint32:
		return Key(strconv.FormatUint(uint64(k), 10)), true
	case uint64:
		return Key(strconv.FormatUint(k, 10)), true
	case float32:
		return floatKey(float64(k))
	case float64:
		return floatKey(k)
	case json.Number:
		if i, err := k.Int64(); err == nil {
			return Key(strconv.FormatInt(i, 10)), true
		}
		return Key(k.String()), k != ""
	default:
		return "", false
	}
}

func floatKey(f float64) (Key, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return "", false
	}
	return Key(strconv.FormatFloat(f, 'f', -1, 64)), true
}

// Key returns the key stored under field.
func (r Record) Key(field string) (Key, bool) {
	if r == nil {
		return "", false
	}
	v, ok := r[field]
	if !ok {
		return "", false
	}
	return KeyOf(v)
}

// Clone returns a shallow copy of r. A nil record clones to nil.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Merge returns a new record holding the fields of r overlaid with the
// fields of patch. The merge is shallow: nested objects are replaced.
func (r Record) Merge(patch Record) Record {
	out := make(Record, len(r)+len(patch))
	for k, v := range r {
		out[k] = v
	}
	for k, v := range patch {
		out[k] = v
	}
	return out
}

// From converts v into a Record. Maps are used directly; any other value
// is round-tripped through encoding/json so tagged structs work too.
// Numbers decode as json.Number so integer keys keep their precision.
func From(v interface{}) (Record, bool) {
	switch m := v.(type) {
	case nil:
		return nil, false
	case Record:
		return m, true
	case map[string]interface{}:
		return Record(m), true
	}

	data, err := json.Marshal(v)
	if err != nil {
		return nil, false
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var out map[string]interface{}
	if err := dec.Decode(&out); err != nil || out == nil {
		return nil, false
	}
	return Record(out), true
}

// FromSlice converts a JSON array value into records.
// It fails if v is not a slice or any element is not an object.
func FromSlice(v interface{}) ([]Record, bool) {
	switch items := v.(type) {
	case []Record:
		return items, true
	case []map[string]interface{}:
		out := make([]Record, len(items))
		for i, m := range items {
			out[i] = Record(m)
		}
		return out, true
	case []interface{}:
		out := make([]Record, 0, len(items))
		for _, item := range items {
			rec, ok := From(item)
			if !ok {
				return nil, false
			}
			out = append(out, rec)
		}
		return out, true
	default:
		return nil, false
	}
}

// As decodes a record into a caller-defined type.
func As[T any](r Record) (T, error) {
	var out T
	data, err := json.Marshal(r)
	if err != nil {
		return out, fmt.Errorf("encode record: %w", err)
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("decode record into %T: %w", out, err)
	}
	return out, nil
}

// Less orders keys numerically when both are integers, lexically otherwise.
func Less(a, b Key) bool {
	ai, aerr := strconv.ParseInt(string(a), 10, 64)
	bi, berr := strconv.ParseInt(string(b), 10, 64)
	switch {
	case aerr == nil && berr == nil:
		return ai < bi
	case aerr == nil:
		return true
	case berr == nil:
		return false
	default:
		return a < b
	}
}
