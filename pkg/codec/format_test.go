package codec

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		token string
		want  Format
	}{
		{">i8", Format{Kind: KindInteger, Width: 8, Order: BigOrder}},
		{"<f4", Format{Kind: KindFloat, Width: 4, Order: LittleOrder}},
		{"!h", Format{Kind: KindInteger, Width: 2, Order: BigOrder}},
		{"=u2", Format{Kind: KindInteger, Width: 2, Unsigned: true}},
		{"|u1", Format{Kind: KindInteger, Width: 1, Unsigned: true}},
		{"d", Format{Kind: KindFloat, Width: 8}},
		{"Q", Format{Kind: KindInteger, Width: 8, Unsigned: true, LongLong: true}},
		{">q", Format{Kind: KindInteger, Width: 8, Order: BigOrder, LongLong: true}},
		{"l", Format{Kind: KindInteger, Width: 8}},
		{"U16", Format{Kind: KindText}},
		{">S", Format{Kind: KindText, Order: BigOrder}},
		{"int", IntFormat},
		{"float", FloatFormat},
		{"str", TextFormat},
		{"None", NullFormat},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			got, err := ParseFormat(tt.token)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseFormat_Unknown(t *testing.T) {
	for _, token := range []string{"", ">", "x4", "i3", "f2", "Ux", "<<i4"} {
		t.Run(token, func(t *testing.T) {
			_, err := ParseFormat(token)
			assert.True(t, errors.Is(err, ErrUnknownFormat), "token %q: %v", token, err)
		})
	}
}

func TestFormat_ScalarSize(t *testing.T) {
	tests := []struct {
		token string
		want  int
	}{
		{">i8", 4},
		{"<u8", 4},
		{"l", 4},
		{"L", 4},
		{"int", 4},
		{"q", 8},
		{"Q", 8},
		{"i4", 4},
		{"h", 2},
		{"d", 8},
		{"<f4", 4},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			f := MustParseFormat(tt.token)
			assert.Equal(t, tt.want, f.ScalarSize())
		})
	}

	// array elements keep the full width
	assert.Equal(t, 8, MustParseFormat(">i8").Size())
}

func TestFormat_String(t *testing.T) {
	assert.Equal(t, ">i8", MustParseFormat(">i8").String())
	assert.Equal(t, "<u2", MustParseFormat("<u2").String())
	assert.Equal(t, "=f8", MustParseFormat("d").String())
	assert.Equal(t, "=i8", IntFormat.String())
	assert.Equal(t, "null", NullFormat.String())
}

func TestResolveFormat(t *testing.T) {
	opposite := BigOrder
	if HostOrder() == BigOrder {
		opposite = LittleOrder
	}

	tests := []struct {
		name string
		in   Format
		d    OrderDirective
		want Format
	}{
		{"semantic int widens", IntFormat, OrderBig, Format{Kind: KindInteger, Width: 8, Order: BigOrder}},
		{"semantic float widens", FloatFormat, OrderLittle, Format{Kind: KindFloat, Width: 8, Order: LittleOrder}},
		{"keep resolves native", Int32Format, OrderKeep, Format{Kind: KindInteger, Width: 4, Order: HostOrder()}},
		{"swap big", MustParseFormat(">i4"), OrderSwap, Format{Kind: KindInteger, Width: 4, Order: LittleOrder}},
		{"swap little", MustParseFormat("<f4"), OrderSwap, Format{Kind: KindFloat, Width: 4, Order: BigOrder}},
		{"swap native", Float64Format, OrderSwap, Format{Kind: KindFloat, Width: 8, Order: opposite}},
		{"force overrides explicit", MustParseFormat("<i2"), OrderBig, Format{Kind: KindInteger, Width: 2, Order: BigOrder}},
		{"text drops width", Format{Kind: KindText, Width: 3}, OrderBig, Format{Kind: KindText, Order: BigOrder}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveFormat(tt.in, tt.d))
		})
	}
}

func TestResolveFormat_Canonical(t *testing.T) {
	// Two spellings of the same layout resolve to the same descriptor.
	a := ResolveFormat(MustParseFormat(">q"), OrderKeep)
	b := ResolveFormat(IntFormat, OrderBig)
	assert.Equal(t, a, b)
}

func TestFormatOf(t *testing.T) {
	assert.Equal(t, Int64Format, FormatOf(Int(3)))
	assert.Equal(t, Float64Format, FormatOf(Float(3)))
	assert.Equal(t, TextFormat, FormatOf(Text("x")))
	assert.Equal(t, NullFormat, FormatOf(NullValue()))
}
