package codec

import (
	"math"
	"strconv"
)

// Value is a scalar tagged with the Kind that selects its wire layout.
//
// The zero Value is Null. Integers are held as int64; unsigned integers
// keep their bit pattern so a uint64 round-trips unchanged.
type Value struct {
	kind Kind
	i    int64
	f    float64
	s    string
}

// Int returns an Integer value.
func Int(v int64) Value { return Value{kind: KindInteger, i: v} }

// Uint returns an Integer value holding the bit pattern of v.
func Uint(v uint64) Value { return Value{kind: KindInteger, i: int64(v)} }

// Float returns a Float value.
func Float(v float64) Value { return Value{kind: KindFloat, f: v} }

// Text returns a Text value.
func Text(v string) Value { return Value{kind: KindText, s: v} }

// NullValue returns the Null value.
func NullValue() Value { return Value{} }

func (v Value) Kind() Kind   { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }

// Int returns the integer payload. Float values are truncated toward zero.
func (v Value) Int() int64 {
	if v.kind == KindFloat {
		return int64(v.f)
	}
	return v.i
}

// Uint returns the integer payload reinterpreted as unsigned.
func (v Value) Uint() uint64 { return uint64(v.Int()) }

// Float returns the numeric payload as a float64.
func (v Value) Float() float64 {
	if v.kind == KindInteger {
		return float64(v.i)
	}
	return v.f
}

// Text returns the text payload, empty for other kinds.
func (v Value) Text() string { return v.s }

// Equal reports whether two values have the same kind and payload. NaN
// floats compare equal to each other so decoded headers can be compared.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindInteger:
		return v.i == o.i
	case KindFloat:
		if math.IsNaN(v.f) && math.IsNaN(o.f) {
			return true
		}
		return v.f == o.f
	case KindText:
		return v.s == o.s
	default:
		return true
	}
}

// Interface returns the payload as a plain Go value: int64, float64, string
// or nil. It is what JSON and YAML renderings of a header use.
func (v Value) Interface() any {
	switch v.kind {
	case KindInteger:
		return v.i
	case KindFloat:
		return v.f
	case KindText:
		return v.s
	default:
		return nil
	}
}

func (v Value) String() string {
	switch v.kind {
	case KindInteger:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindText:
		return v.s
	default:
		return "null"
	}
}

// ValueOf tags a plain Go value. It accepts the integer and float builtin
// types, string, nil and Value itself; anything else reports false.
func ValueOf(x any) (Value, bool) {
	switch t := x.(type) {
	case nil:
		return Value{}, true
	case Value:
		return t, true
	case int:
		return Int(int64(t)), true
	case int8:
		return Int(int64(t)), true
	case int16:
		return Int(int64(t)), true
	case int32:
		return Int(int64(t)), true
	case int64:
		return Int(t), true
	case uint:
		return Uint(uint64(t)), true
	case uint8:
		return Uint(uint64(t)), true
	case uint16:
		return Uint(uint64(t)), true
	case uint32:
		return Uint(uint64(t)), true
	case uint64:
		return Uint(t), true
	case float32:
		return Float(float64(t)), true
	case float64:
		return Float(t), true
	case string:
		return Text(t), true
	default:
		return Value{}, false
	}
}
