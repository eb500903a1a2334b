package header

import (
	"fmt"

	"github.com/Gianuzzi/DeepSpyce/pkg/codec"
)

// Sentinel keys bounding the key/value sequence on the wire. Both always
// carry a null value.
const (
	StartKey = "HEADER_START"
	EndKey   = "HEADER_END"
)

// IsSentinel reports whether key is one of the structural sentinel keys.
func IsSentinel(key string) bool {
	return key == StartKey || key == EndKey
}

// Entry is one key/value pair of a Header.
type Entry struct {
	Key   string
	Value codec.Value
}

// Header is an ordered sequence of uniquely keyed values. Insertion order is
// the wire order.
type Header struct {
	entries []Entry
	index   map[string]int
}

// New returns a header holding entries in order. A repeated key keeps its
// first position and its last value.
func New(entries ...Entry) *Header {
	h := &Header{index: make(map[string]int, len(entries))}
	for _, e := range entries {
		h.Set(e.Key, e.Value)
	}
	return h
}

// FromPairs builds a header from alternating key, value arguments where each
// value is anything codec.ValueOf accepts.
func FromPairs(kv ...any) (*Header, error) {
	if len(kv)%2 != 0 {
		return nil, fmt.Errorf("header: odd number of key/value arguments")
	}
	h := New()
	for i := 0; i < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			return nil, fmt.Errorf("header: key at position %d is %T, not string", i, kv[i])
		}
		v, ok := codec.ValueOf(kv[i+1])
		if !ok {
			return nil, fmt.Errorf("header: unsupported value %T for key %q", kv[i+1], key)
		}
		h.Set(key, v)
	}
	return h, nil
}

// Set stores v under key. Overwriting keeps the key's original position.
func (h *Header) Set(key string, v codec.Value) {
	if h.index == nil {
		h.index = make(map[string]int)
	}
	if i, ok := h.index[key]; ok {
		h.entries[i].Value = v
		return
	}
	h.index[key] = len(h.entries)
	h.entries = append(h.entries, Entry{Key: key, Value: v})
}

// Get returns the value stored under key.
func (h *Header) Get(key string) (codec.Value, bool) {
	if h == nil {
		return codec.Value{}, false
	}
	i, ok := h.index[key]
	if !ok {
		return codec.Value{}, false
	}
	return h.entries[i].Value, true
}

// Has reports whether key is present, whatever its value.
func (h *Header) Has(key string) bool {
	_, ok := h.Get(key)
	return ok
}

// Text returns the value under key when it is present and of kind Text.
func (h *Header) Text(key string) (string, bool) {
	v, ok := h.Get(key)
	if !ok || v.Kind() != codec.KindText {
		return "", false
	}
	return v.Text(), true
}

// Delete removes key, preserving the order of the remaining entries.
func (h *Header) Delete(key string) bool {
	i, ok := h.index[key]
	if !ok {
		return false
	}
	h.entries = append(h.entries[:i], h.entries[i+1:]...)
	delete(h.index, key)
	for j := i; j < len(h.entries); j++ {
		h.index[h.entries[j].Key] = j
	}
	return true
}

// Len returns the number of entries.
func (h *Header) Len() int {
	if h == nil {
		return 0
	}
	return len(h.entries)
}

// Keys returns the keys in wire order.
func (h *Header) Keys() []string {
	keys := make([]string, 0, h.Len())
	for _, e := range h.Entries() {
		keys = append(keys, e.Key)
	}
	return keys
}

// Entries returns a copy of the entries in wire order.
func (h *Header) Entries() []Entry {
	if h == nil {
		return nil
	}
	out := make([]Entry, len(h.entries))
	copy(out, h.entries)
	return out
}

// Clone returns an independent copy of h.
func (h *Header) Clone() *Header {
	return New(h.Entries()...)
}

// Equal reports whether both headers hold the same keys in the same order
// with equal values.
func (h *Header) Equal(o *Header) bool {
	if h.Len() != o.Len() {
		return false
	}
	for i, e := range h.Entries() {
		oe := o.entries[i]
		if e.Key != oe.Key || !e.Value.Equal(oe.Value) {
			return false
		}
	}
	return true
}

// Map returns the header as plain Go values keyed by name. Order is lost;
// use Entries when it matters.
func (h *Header) Map() map[string]any {
	out := make(map[string]any, h.Len())
	for _, e := range h.Entries() {
		out[e.Key] = e.Value.Interface()
	}
	return out
}

// StartEndCheck reports whether the start sentinel is the first entry and the
// end sentinel the last, each holding a null value.
func StartEndCheck(h *Header) (start, end bool) {
	n := h.Len()
	if n == 0 {
		return false, false
	}
	first, last := h.entries[0], h.entries[n-1]
	start = first.Key == StartKey && first.Value.IsNull()
	end = last.Key == EndKey && last.Value.IsNull()
	return start, end
}

// FixStartEnd returns a copy of h with the sentinels moved to the first and
// last positions and holding null values.
func FixStartEnd(h *Header) *Header {
	fixed := New(Entry{Key: StartKey})
	for _, e := range h.Entries() {
		if IsSentinel(e.Key) {
			continue
		}
		fixed.Set(e.Key, e.Value)
	}
	fixed.Set(EndKey, codec.Value{})
	return fixed
}
