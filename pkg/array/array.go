// Package array serializes rectangular numeric arrays to flat byte buffers.
//
// An Array has shape (Columns, Records): in filterbank data a column is a
// frequency channel and a record one time sample. The declared MajorOrder
// decides only how elements are traversed when flattening to bytes:
//
//	ColumnMajor ("F"): the column index varies fastest, so each record's
//	                   channels are contiguous on the wire.
//	RowMajor    ("C"): the record index varies fastest, so each channel's
//	                   samples are contiguous on the wire.
//
// The serialized form carries no framing or length prefix.
package array

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Gianuzzi/DeepSpyce/pkg/codec"
)

var (
	ErrInvalidShape   = errors.New("array: invalid shape")
	ErrNotRectangular = errors.New("array: rows of unequal length")
	ErrNotNumeric     = errors.New("array: element format is not numeric")
)

// MajorOrder is the traversal used to flatten an array.
type MajorOrder uint8

const (
	ColumnMajor MajorOrder = iota
	RowMajor
)

func (o MajorOrder) String() string {
	if o == RowMajor {
		return "C"
	}
	return "F"
}

// ParseMajorOrder accepts "F"/"column" and "C"/"row", case-insensitively.
func ParseMajorOrder(s string) (MajorOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "f", "column", "column-major", "fortran", "":
		return ColumnMajor, nil
	case "c", "row", "row-major":
		return RowMajor, nil
	}
	return ColumnMajor, fmt.Errorf("array: unknown major order %q", s)
}

// Array is a rectangular numeric array. Integer element formats are stored
// as int64 (unsigned values keep their bit pattern), float formats as
// float64. Elements are held in logical [column][record] order whatever the
// declared MajorOrder.
type Array struct {
	Format  codec.Format
	Columns int
	Records int
	Order   MajorOrder

	flat   bool
	ints   []int64
	floats []float64
}

// FromInts wraps flat, logically ordered as columns consecutive runs of
// records, in an integer array of the given element format.
func FromInts(f codec.Format, columns int, data []int64) (*Array, error) {
	records, err := shape(columns, len(data))
	if err != nil {
		return nil, err
	}
	if f.Kind != codec.KindInteger {
		f = codec.Int64Format
	}
	return &Array{Format: f, Columns: columns, Records: records, ints: data}, nil
}

// FromFloats is FromInts for float data.
func FromFloats(f codec.Format, columns int, data []float64) (*Array, error) {
	records, err := shape(columns, len(data))
	if err != nil {
		return nil, err
	}
	if f.Kind != codec.KindFloat {
		f = codec.Float64Format
	}
	return &Array{Format: f, Columns: columns, Records: records, floats: data}, nil
}

// FromIntColumns builds an int64 array from one slice per column.
func FromIntColumns(cols [][]int64) (*Array, error) {
	data, records, err := flatten(cols)
	if err != nil {
		return nil, err
	}
	return &Array{Format: codec.Int64Format, Columns: len(cols), Records: records, ints: data}, nil
}

// FromFloatColumns builds a float64 array from one slice per column.
func FromFloatColumns(cols [][]float64) (*Array, error) {
	data, records, err := flatten(cols)
	if err != nil {
		return nil, err
	}
	return &Array{Format: codec.Float64Format, Columns: len(cols), Records: records, floats: data}, nil
}

// Vector builds a one-dimensional integer array.
func Vector(f codec.Format, data []int64) *Array {
	a, _ := FromInts(f, 1, data)
	a.flat = true
	return a
}

func shape(columns, n int) (int, error) {
	if columns < 1 {
		return 0, fmt.Errorf("%w: %d columns", ErrInvalidShape, columns)
	}
	if n%columns != 0 {
		return 0, fmt.Errorf("%w: %d elements do not fill %d columns", ErrInvalidShape, n, columns)
	}
	return n / columns, nil
}

func flatten[T int64 | float64](cols [][]T) ([]T, int, error) {
	if len(cols) == 0 {
		return nil, 0, fmt.Errorf("%w: no columns", ErrInvalidShape)
	}
	records := len(cols[0])
	out := make([]T, 0, len(cols)*records)
	for i, c := range cols {
		if len(c) != records {
			return nil, 0, fmt.Errorf("%w: column %d has %d records, want %d", ErrNotRectangular, i, len(c), records)
		}
		out = append(out, c...)
	}
	return out, records, nil
}

// Dims is 1 for the flattened result of a single-column decode, 2 otherwise.
func (a *Array) Dims() int {
	if a.flat {
		return 1
	}
	return 2
}

// Len returns the number of elements.
func (a *Array) Len() int { return a.Columns * a.Records }

// IsFloat reports whether elements are stored as floats.
func (a *Array) IsFloat() bool { return a.Format.Kind == codec.KindFloat }

// Int returns element (column, record) as an integer.
func (a *Array) Int(column, record int) int64 {
	i := a.at(column, record)
	if a.IsFloat() {
		return int64(a.floats[i])
	}
	return a.ints[i]
}

// Float returns element (column, record) as a float.
func (a *Array) Float(column, record int) float64 {
	i := a.at(column, record)
	if a.IsFloat() {
		return a.floats[i]
	}
	if a.Format.Unsigned {
		return float64(uint64(a.ints[i]))
	}
	return float64(a.ints[i])
}

// Value returns element (column, record) as a tagged value.
func (a *Array) Value(column, record int) codec.Value {
	if a.IsFloat() {
		return codec.Float(a.Float(column, record))
	}
	return codec.Int(a.Int(column, record))
}

func (a *Array) at(column, record int) int {
	if column < 0 || column >= a.Columns || record < 0 || record >= a.Records {
		panic(fmt.Sprintf("array: index (%d, %d) out of range for shape (%d, %d)", column, record, a.Columns, a.Records))
	}
	return column*a.Records + record
}

// Ints returns the integer elements in logical order. It is nil for float
// arrays.
func (a *Array) Ints() []int64 { return a.ints }

// Floats returns the float elements in logical order. It is nil for integer
// arrays.
func (a *Array) Floats() []float64 { return a.floats }

// Column returns the records of one column as floats.
func (a *Array) Column(column int) []float64 {
	out := make([]float64, a.Records)
	for r := range out {
		out[r] = a.Float(column, r)
	}
	return out
}

// Equal reports whether both arrays have the same shape, dimensionality and
// element values. Formats may differ in byte order and width.
func (a *Array) Equal(b *Array) bool {
	if a.Columns != b.Columns || a.Records != b.Records || a.Dims() != b.Dims() {
		return false
	}
	if a.IsFloat() != b.IsFloat() {
		return false
	}
	for c := 0; c < a.Columns; c++ {
		for r := 0; r < a.Records; r++ {
			if a.IsFloat() {
				if a.Float(c, r) != b.Float(c, r) {
					return false
				}
			} else if a.Int(c, r) != b.Int(c, r) {
				return false
			}
		}
	}
	return true
}

func (a *Array) String() string {
	if a.Dims() == 1 {
		return fmt.Sprintf("array(%s, len=%d)", a.Format, a.Records)
	}
	return fmt.Sprintf("array(%s, shape=(%d, %d), order=%s)", a.Format, a.Columns, a.Records, a.Order)
}
