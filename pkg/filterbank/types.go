package filterbank

import (
	"strconv"

	"github.com/Gianuzzi/DeepSpyce/pkg/codec"
	"github.com/Gianuzzi/DeepSpyce/pkg/header"
)

// standard filterbank keys in template order
var standardKeys = []struct {
	key    string
	format codec.Format
}{
	{"telescope_id", codec.IntFormat},
	{"machine_id", codec.IntFormat},
	{"data_type", codec.IntFormat},
	{"rawdatafile", codec.TextFormat},
	{"source_name", codec.TextFormat},
	{"barycentric", codec.IntFormat},
	{"pulsarcentric", codec.IntFormat},
	{"az_start", codec.FloatFormat},
	{"za_start", codec.FloatFormat},
	{"src_raj", codec.FloatFormat},
	{"src_dej", codec.FloatFormat},
	{"tstart", codec.FloatFormat},
	{"tsamp", codec.FloatFormat},
	{"nbits", codec.IntFormat},
	{"fch1", codec.FloatFormat},
	{"foff", codec.FloatFormat},
	{"nchans", codec.IntFormat},
	{"nifs", codec.IntFormat},
	{"refdm", codec.FloatFormat},
	{"period", codec.FloatFormat},
}

// DefaultTypes returns a new copy of the built-in filterbank type map.
func DefaultTypes() header.TypeMap {
	m := make(header.TypeMap, len(standardKeys))
	for _, k := range standardKeys {
		m[k.key] = k.format
	}
	return m
}

// NewHeader returns a header holding every standard filterbank key with a
// null value, updated with the entries of h. Keys of h that are not
// standard are appended in their own order.
func NewHeader(h *header.Header) *header.Header {
	out := header.New()
	for _, k := range standardKeys {
		out.Set(k.key, codec.NullValue())
	}
	for _, e := range h.Entries() {
		out.Set(e.Key, e.Value)
	}
	return out
}

// Validate checks h against the filterbank type map merged with overrides.
func Validate(h *header.Header, overrides header.TypeMap) (bool, []header.Diagnostic) {
	return header.Validate(h, header.Merge(DefaultTypes(), overrides))
}

func itoa(n int64) string { return strconv.FormatInt(n, 10) }
