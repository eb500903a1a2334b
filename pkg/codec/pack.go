package codec

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"unicode/utf8"
)

// MaxTextLen bounds the length prefix accepted when decoding text. Header
// keys and values are short; a prefix beyond this is read as a byte order
// mistake rather than an allocation request.
const MaxTextLen = 1 << 20

const textPrefixLen = 4

// Pack encodes v using f, or the format inferred from v when f is nil, with
// the byte order resolved through d.
//
// Text is written as a 4-byte unsigned length followed by the raw bytes.
// Numbers are written at the fixed width of the resolved format, except that
// an 8-byte integer other than long long (q, Q) takes LongWidth bytes. Null
// packs to nothing.
func Pack(v Value, f *Format, d OrderDirective) ([]byte, error) {
	format := FormatOf(v)
	if f != nil {
		format = *f
	}
	if err := format.Validate(); err != nil {
		return nil, err
	}
	rf := ResolveFormat(format, d).scalar()
	if v.IsNull() {
		return nil, nil
	}

	switch rf.Kind {
	case KindText:
		if v.Kind() != KindText {
			return nil, fmt.Errorf("%w: %s value as %s", ErrFormatMismatch, v.Kind(), rf)
		}
		return packText(v.Text(), rf.Order)
	case KindInteger:
		if v.Kind() != KindInteger {
			return nil, fmt.Errorf("%w: %s value as %s", ErrFormatMismatch, v.Kind(), rf)
		}
		if err := checkRange(v.Int(), rf); err != nil {
			return nil, err
		}
		buf := make([]byte, rf.Size())
		rf.PutInt(buf, v.Int())
		return buf, nil
	case KindFloat:
		if v.Kind() != KindInteger && v.Kind() != KindFloat {
			return nil, fmt.Errorf("%w: %s value as %s", ErrFormatMismatch, v.Kind(), rf)
		}
		buf := make([]byte, rf.Size())
		rf.PutFloat(buf, v.Float())
		return buf, nil
	default:
		return nil, fmt.Errorf("%w: %s value as %s", ErrFormatMismatch, v.Kind(), rf)
	}
}

// PackText is Pack for a plain string in the text format.
func PackText(s string, d OrderDirective) ([]byte, error) {
	return packText(s, ResolveFormat(TextFormat, d).Order)
}

func packText(s string, order ByteOrder) ([]byte, error) {
	if uint64(len(s)) > math.MaxUint32 {
		return nil, ErrTextTooLong
	}
	buf := make([]byte, textPrefixLen+len(s))
	order.binary().PutUint32(buf, uint32(len(s)))
	copy(buf[textPrefixLen:], s)
	return buf, nil
}

func checkRange(v int64, f Format) error {
	bits := uint(f.Size() * 8)
	if bits >= 64 {
		return nil
	}
	if f.Unsigned {
		if v < 0 || uint64(v) >= 1<<bits {
			return fmt.Errorf("%w: %d as %s", ErrValueOutOfRange, v, f)
		}
		return nil
	}
	lo := -int64(1) << (bits - 1)
	hi := int64(1)<<(bits-1) - 1
	if v < lo || v > hi {
		return fmt.Errorf("%w: %d as %s", ErrValueOutOfRange, v, f)
	}
	return nil
}

// Decode reads one value from r. It is the inverse of Pack: text reads a
// 4-byte length then that many bytes, numbers read the fixed width of the
// resolved format narrowed the same way Pack narrows it. A nil f decodes
// text.
func Decode(r io.Reader, f *Format, d OrderDirective) (Value, error) {
	format := TextFormat
	if f != nil {
		format = *f
	}
	if err := format.Validate(); err != nil {
		return Value{}, err
	}
	rf := ResolveFormat(format, d).scalar()

	switch rf.Kind {
	case KindNull:
		return Value{}, nil
	case KindText:
		s, err := decodeText(r, rf.Order)
		if err != nil {
			return Value{}, err
		}
		return Text(s), nil
	}

	buf := make([]byte, rf.Size())
	if err := readFull(r, buf); err != nil {
		return Value{}, err
	}
	if rf.Kind == KindFloat {
		return Float(rf.Float(buf)), nil
	}
	return Int(rf.Int(buf)), nil
}

// DecodeText is Decode for the text format.
func DecodeText(r io.Reader, d OrderDirective) (string, error) {
	return decodeText(r, ResolveFormat(TextFormat, d).Order)
}

func decodeText(r io.Reader, order ByteOrder) (string, error) {
	var prefix [textPrefixLen]byte
	if err := readFull(r, prefix[:]); err != nil {
		return "", err
	}
	n := order.binary().Uint32(prefix[:])
	if n > MaxTextLen {
		return "", fmt.Errorf("%w: length prefix %d exceeds %d", ErrInvalidText, n, MaxTextLen)
	}
	buf := make([]byte, n)
	if err := readFull(r, buf); err != nil {
		return "", err
	}
	if !utf8.Valid(buf) {
		return "", fmt.Errorf("%w: %d bytes are not utf-8", ErrInvalidText, n)
	}
	return string(buf), nil
}

func readFull(r io.Reader, buf []byte) error {
	if _, err := io.ReadFull(r, buf); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return fmt.Errorf("%w: want %d bytes", ErrShortRead, len(buf))
		}
		return err
	}
	return nil
}

// SwapBytes returns the value whose encoding in f is the byte-reversed
// encoding of v. Swapping twice yields the original value.
func SwapBytes(v Value, f Format) (Value, error) {
	if f.Kind == KindText || f.Kind == KindNull || v.IsNull() {
		return v, nil
	}
	b, err := Pack(v, &f, OrderKeep)
	if err != nil {
		return Value{}, err
	}
	out, err := Decode(bytes.NewReader(b), &f, OrderSwap)
	if err != nil {
		return Value{}, err
	}
	return out, nil
}

// PutInt writes v into b[:f.Size()] using the resolved format f.
func (f Format) PutInt(b []byte, v int64) {
	bo := f.Order.binary()
	switch f.Size() {
	case 1:
		b[0] = byte(v)
	case 2:
		bo.PutUint16(b, uint16(v))
	case 4:
		bo.PutUint32(b, uint32(v))
	case 8:
		bo.PutUint64(b, uint64(v))
	default:
		panic(errUnsupportedWidth)
	}
}

// PutFloat writes v into b[:f.Size()] using the resolved format f.
func (f Format) PutFloat(b []byte, v float64) {
	bo := f.Order.binary()
	switch f.Size() {
	case 4:
		bo.PutUint32(b, math.Float32bits(float32(v)))
	case 8:
		bo.PutUint64(b, math.Float64bits(v))
	default:
		panic(errUnsupportedWidth)
	}
}

// Int reads an integer from b[:f.Size()]. Signed formats sign-extend,
// unsigned formats zero-extend.
func (f Format) Int(b []byte) int64 {
	bo := f.Order.binary()
	switch f.Size() {
	case 1:
		if f.Unsigned {
			return int64(b[0])
		}
		return int64(int8(b[0]))
	case 2:
		u := bo.Uint16(b)
		if f.Unsigned {
			return int64(u)
		}
		return int64(int16(u))
	case 4:
		u := bo.Uint32(b)
		if f.Unsigned {
			return int64(u)
		}
		return int64(int32(u))
	case 8:
		return int64(bo.Uint64(b))
	default:
		panic(errUnsupportedWidth)
	}
}

// Float reads a float from b[:f.Size()].
func (f Format) Float(b []byte) float64 {
	bo := f.Order.binary()
	switch f.Size() {
	case 4:
		return float64(math.Float32frombits(bo.Uint32(b)))
	case 8:
		return math.Float64frombits(bo.Uint64(b))
	default:
		panic(errUnsupportedWidth)
	}
}
