package header

import (
	"testing"

	"github.com/Gianuzzi/DeepSpyce/pkg/codec"
	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		h         *Header
		wantOK    bool
		wantKinds []DiagnosticKind
	}{
		{
			name:   "all known and well typed",
			h:      New(Entry{Key: "nchans", Value: codec.Int(4)}, Entry{Key: "rawdatafile", Value: codec.Text("x.fil")}),
			wantOK: true,
		},
		{
			name:   "null values are accepted",
			h:      New(Entry{Key: "foff"}, Entry{Key: "nchans"}),
			wantOK: true,
		},
		{
			name:   "sentinels are structural",
			h:      New(Entry{Key: StartKey}, Entry{Key: "nchans", Value: codec.Int(1)}, Entry{Key: EndKey}),
			wantOK: true,
		},
		{
			name:      "unexpected key",
			h:         New(Entry{Key: "nchans", Value: codec.Int(4)}, Entry{Key: "mystery", Value: codec.Int(1)}),
			wantKinds: []DiagnosticKind{UnexpectedKey},
		},
		{
			name:      "wrong kind",
			h:         New(Entry{Key: "nchans", Value: codec.Float(4)}),
			wantKinds: []DiagnosticKind{TypeMismatch},
		},
		{
			name: "every problem reported",
			h: New(
				Entry{Key: "rawdatafile", Value: codec.Int(1)},
				Entry{Key: "mystery", Value: codec.Text("?")},
				Entry{Key: "foff", Value: codec.Text("0.5")},
			),
			wantKinds: []DiagnosticKind{TypeMismatch, UnexpectedKey, TypeMismatch},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, diags := Validate(tt.h, testTypes)
			assert.Equal(t, tt.wantOK, ok)

			var kinds []DiagnosticKind
			for _, d := range diags {
				kinds = append(kinds, d.Kind)
			}
			assert.Equal(t, tt.wantKinds, kinds)
		})
	}
}

func TestDiagnostic_String(t *testing.T) {
	d := Diagnostic{Kind: UnexpectedKey, Key: "mystery", Message: `unexpected key "mystery"`}
	assert.Equal(t, `unexpected_key [mystery]: unexpected key "mystery"`, d.String())

	d = Diagnostic{Kind: ByteOrderRetry, Message: "retrying"}
	assert.Equal(t, "byte_order_retry: retrying", d.String())
}
