package codec

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
)

// Kind tags the variant carried by a Value and the layout selected by a Format.
type Kind uint8

const (
	KindNull Kind = iota
	KindInteger
	KindFloat
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindText:
		return "text"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// ByteOrder is the byte layout of a resolved Format.
type ByteOrder uint8

const (
	NativeOrder ByteOrder = iota
	LittleOrder
	BigOrder
)

// OrderDirective adjusts the byte order of a Format at resolution time.
type OrderDirective uint8

const (
	// OrderKeep leaves the format's own byte order untouched.
	OrderKeep OrderDirective = iota
	OrderLittle
	OrderBig
	// OrderSwap flips whatever order the format currently has.
	OrderSwap
)

// SwapDirective maps the boolean swap flag used throughout the header and
// array APIs onto a directive.
func SwapDirective(swap bool) OrderDirective {
	if swap {
		return OrderSwap
	}
	return OrderKeep
}

// Default widths for semantic formats.
const (
	DefaultIntWidth   = 8
	DefaultFloatWidth = 8
)

// LongWidth is the packed size of a C long scalar. Header scalars use the
// standard struct sizes, so 8-byte integers other than long long are
// written in 4 bytes. Array elements always keep their full width.
const LongWidth = 4

// Format describes how one scalar is laid out on the wire.
//
// A numeric Format with Width 0 is semantic: it names only the kind and is
// widened to the default 8 bytes on resolution. Text is always length
// prefixed and ignores Width.
type Format struct {
	Kind     Kind
	Width    int
	Unsigned bool
	Order    ByteOrder
	// LongLong marks the q and Q struct codes, the only 8-byte integers
	// that Pack and Decode write at full width.
	LongLong bool
}

// Common formats.
var (
	IntFormat     = Format{Kind: KindInteger}
	FloatFormat   = Format{Kind: KindFloat}
	TextFormat    = Format{Kind: KindText}
	NullFormat    = Format{Kind: KindNull}
	Int32Format   = Format{Kind: KindInteger, Width: 4}
	Int64Format   = Format{Kind: KindInteger, Width: 8}
	Float32Format = Format{Kind: KindFloat, Width: 4}
	Float64Format = Format{Kind: KindFloat, Width: 8}
)

var hostOrder = func() ByteOrder {
	var b [2]byte
	binary.NativeEndian.PutUint16(b[:], 1)
	if b[0] == 1 {
		return LittleOrder
	}
	return BigOrder
}()

// HostOrder reports the byte order of the running platform.
func HostOrder() ByteOrder {
	return hostOrder
}

// Concrete returns the explicit order, replacing NativeOrder with the host's.
func (o ByteOrder) Concrete() ByteOrder {
	if o == NativeOrder {
		return hostOrder
	}
	return o
}

func (o ByteOrder) binary() binary.ByteOrder {
	if o.Concrete() == BigOrder {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

func (o ByteOrder) String() string {
	switch o {
	case LittleOrder:
		return "<"
	case BigOrder:
		return ">"
	default:
		return "="
	}
}

// ResolveFormat applies an order directive to f and widens semantic numeric
// formats to their default width. The result is canonical: two formats that
// lay a value out identically resolve to equal descriptors.
func ResolveFormat(f Format, d OrderDirective) Format {
	switch f.Kind {
	case KindInteger:
		if f.Width == 0 {
			f.Width = DefaultIntWidth
		}
	case KindFloat:
		if f.Width == 0 {
			f.Width = DefaultFloatWidth
		}
		f.Unsigned = false
		f.LongLong = false
	case KindText, KindNull:
		f.Width = 0
		f.Unsigned = false
		f.LongLong = false
	}
	if f.Kind == KindInteger && f.Width != 8 {
		f.LongLong = false
	}

	switch d {
	case OrderLittle:
		f.Order = LittleOrder
	case OrderBig:
		f.Order = BigOrder
	case OrderSwap:
		if f.Order.Concrete() == LittleOrder {
			f.Order = BigOrder
		} else {
			f.Order = LittleOrder
		}
	}
	if f.Order == NativeOrder {
		f.Order = hostOrder
	}
	return f
}

// scalar returns the layout Pack and Decode use for a resolved format: an
// 8-byte integer that is not long long narrows to LongWidth.
func (f Format) scalar() Format {
	if f.Kind == KindInteger && f.Size() == 8 && !f.LongLong {
		f.Width = LongWidth
	}
	return f
}

// ScalarSize reports the number of bytes Pack writes for a number in f.
func (f Format) ScalarSize() int {
	return f.scalar().Size()
}

// FormatOf infers the format of a value from its own kind.
func FormatOf(v Value) Format {
	switch v.Kind() {
	case KindInteger:
		return Int64Format
	case KindFloat:
		return Float64Format
	case KindText:
		return TextFormat
	default:
		return NullFormat
	}
}

// Size reports the fixed byte width of a resolved numeric format, 0 for text
// and null.
func (f Format) Size() int {
	switch f.Kind {
	case KindInteger:
		if f.Width == 0 {
			return DefaultIntWidth
		}
		return f.Width
	case KindFloat:
		if f.Width == 0 {
			return DefaultFloatWidth
		}
		return f.Width
	default:
		return 0
	}
}

// IsNumeric reports whether the format describes a fixed width number.
func (f Format) IsNumeric() bool {
	return f.Kind == KindInteger || f.Kind == KindFloat
}

// Validate reports ErrUnknownFormat for widths the wire format cannot carry.
func (f Format) Validate() error {
	switch f.Kind {
	case KindInteger:
		switch f.Size() {
		case 1, 2, 4, 8:
			return nil
		}
	case KindFloat:
		switch f.Size() {
		case 4, 8:
			return nil
		}
	case KindText, KindNull:
		return nil
	}
	return fmt.Errorf("%w: %s", ErrUnknownFormat, f)
}

// String renders the format as a dtype-style token, e.g. ">i8" or "<f4".
func (f Format) String() string {
	switch f.Kind {
	case KindInteger:
		c := "i"
		if f.Unsigned {
			c = "u"
		}
		return f.Order.String() + c + strconv.Itoa(f.Size())
	case KindFloat:
		return f.Order.String() + "f" + strconv.Itoa(f.Size())
	case KindText:
		return f.Order.String() + "U"
	default:
		return "null"
	}
}

// struct-style single character codes. l and L are the 8-byte C long of
// the 64-bit platforms the instrumentation runs on; as scalars they pack in
// LongWidth bytes.
var formatCodes = map[byte]Format{
	'b': {Kind: KindInteger, Width: 1},
	'B': {Kind: KindInteger, Width: 1, Unsigned: true},
	'h': {Kind: KindInteger, Width: 2},
	'H': {Kind: KindInteger, Width: 2, Unsigned: true},
	'i': {Kind: KindInteger, Width: 4},
	'I': {Kind: KindInteger, Width: 4, Unsigned: true},
	'l': {Kind: KindInteger, Width: 8},
	'L': {Kind: KindInteger, Width: 8, Unsigned: true},
	'q': {Kind: KindInteger, Width: 8, LongLong: true},
	'Q': {Kind: KindInteger, Width: 8, Unsigned: true, LongLong: true},
	'f': {Kind: KindFloat, Width: 4},
	'd': {Kind: KindFloat, Width: 8},
	'U': {Kind: KindText},
	'S': {Kind: KindText},
}

// ParseFormat parses a dtype-style format token.
//
// Accepted forms are an optional byte order prefix (<, >, !, = or |)
// followed by either a kind letter and byte width ("i4", "u2", "f8"), a
// single struct code ("q", "d", "H") or a text marker ("U", "S", "str").
// The semantic names "int", "float", "str" and "null" are also accepted.
func ParseFormat(token string) (Format, error) {
	s := strings.TrimSpace(token)
	if s == "" {
		return Format{}, fmt.Errorf("%w: empty token", ErrUnknownFormat)
	}

	switch strings.ToLower(s) {
	case "int", "integer":
		return IntFormat, nil
	case "float", "double":
		return FloatFormat, nil
	case "str", "string", "text":
		return TextFormat, nil
	case "null", "none":
		return NullFormat, nil
	}

	order := NativeOrder
	switch s[0] {
	case '<':
		order = LittleOrder
		s = s[1:]
	case '>', '!':
		order = BigOrder
		s = s[1:]
	case '=', '|':
		s = s[1:]
	}
	if s == "" {
		return Format{}, fmt.Errorf("%w: %q", ErrUnknownFormat, token)
	}

	if len(s) == 1 {
		f, ok := formatCodes[s[0]]
		if !ok {
			return Format{}, fmt.Errorf("%w: %q", ErrUnknownFormat, token)
		}
		f.Order = order
		return f, nil
	}

	// Text dtypes may carry a character count ("U16"); the wire format is
	// length prefixed so the count is ignored.
	if s[0] == 'U' || s[0] == 'S' {
		if _, err := strconv.Atoi(s[1:]); err == nil {
			return Format{Kind: KindText, Order: order}, nil
		}
		return Format{}, fmt.Errorf("%w: %q", ErrUnknownFormat, token)
	}

	width, err := strconv.Atoi(s[1:])
	if err != nil {
		return Format{}, fmt.Errorf("%w: %q", ErrUnknownFormat, token)
	}
	var f Format
	switch s[0] {
	case 'i':
		f = Format{Kind: KindInteger, Width: width}
	case 'u':
		f = Format{Kind: KindInteger, Width: width, Unsigned: true}
	case 'f':
		f = Format{Kind: KindFloat, Width: width}
	default:
		return Format{}, fmt.Errorf("%w: %q", ErrUnknownFormat, token)
	}
	f.Order = order
	if err := f.Validate(); err != nil {
		return Format{}, fmt.Errorf("%w: %q", ErrUnknownFormat, token)
	}
	return f, nil
}

// MustParseFormat is like ParseFormat but panics on error. It is meant for
// package level format tables.
func MustParseFormat(token string) Format {
	f, err := ParseFormat(token)
	if err != nil {
		panic(err)
	}
	return f
}
