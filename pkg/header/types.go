package header

import (
	"fmt"
	"sort"

	"github.com/Gianuzzi/DeepSpyce/pkg/codec"
)

// TypeMap maps header keys to the format their values are packed with.
// Callers never share one across calls; Merge always builds a new map.
type TypeMap map[string]codec.Format

// Merge returns a new map holding defaults overlaid with overrides. Neither
// argument is modified.
func Merge(defaults, overrides TypeMap) TypeMap {
	out := make(TypeMap, len(defaults)+len(overrides))
	for k, f := range defaults {
		out[k] = f
	}
	for k, f := range overrides {
		out[k] = f
	}
	return out
}

// Lookup returns the decode format for key. Keys the map does not know, and
// keys mapped to the null format, decode as an 8-byte float.
func (m TypeMap) Lookup(key string) codec.Format {
	if f, ok := m[key]; ok && f.Kind != codec.KindNull {
		return f
	}
	return codec.FloatFormat
}

// packFormat returns the format Encode packs key with, nil when the value's
// own kind decides.
func (m TypeMap) packFormat(key string) *codec.Format {
	f, ok := m[key]
	if !ok || f.Kind == codec.KindNull {
		return nil
	}
	return &f
}

// ParseTypeMap builds a map from key to format token, e.g. {"nbits": "<i4"}.
func ParseTypeMap(tokens map[string]string) (TypeMap, error) {
	out := make(TypeMap, len(tokens))
	for k, tok := range tokens {
		f, err := codec.ParseFormat(tok)
		if err != nil {
			return nil, fmt.Errorf("type for key %q: %w", k, err)
		}
		out[k] = f
	}
	return out, nil
}

// Keys returns the known keys in lexical order.
func (m TypeMap) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
