package array

import (
	"fmt"
	"io"

	"github.com/Gianuzzi/DeepSpyce/pkg/codec"
)

// Encode flattens a into raw bytes using format, traversing in order.
//
// A nil format keeps the array's own element format. Converting between
// integer and float formats follows the usual numeric cast: floats are
// truncated toward zero when written as integers.
func Encode(a *Array, format *codec.Format, order MajorOrder, d codec.OrderDirective) ([]byte, error) {
	f := a.Format
	if format != nil {
		f = *format
	}
	if !f.IsNumeric() {
		return nil, fmt.Errorf("%w: %s", ErrNotNumeric, f)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	rf := codec.ResolveFormat(f, d)
	width := rf.Size()

	buf := make([]byte, a.Len()*width)
	n := 0
	put := func(c, r int) {
		b := buf[n*width : (n+1)*width]
		if rf.Kind == codec.KindFloat {
			rf.PutFloat(b, a.Float(c, r))
		} else {
			rf.PutInt(b, a.Int(c, r))
		}
		n++
	}

	if order == RowMajor {
		for c := 0; c < a.Columns; c++ {
			for r := 0; r < a.Records; r++ {
				put(c, r)
			}
		}
	} else {
		for r := 0; r < a.Records; r++ {
			for c := 0; c < a.Columns; c++ {
				put(c, r)
			}
		}
	}
	return buf, nil
}

// Decode reinterprets b as elements of format and reshapes them into
// columns columns.
//
// The record count is len(b) / columns / width rounded down; trailing bytes
// that do not fill a whole record are silently dropped. With a single column
// the result is one-dimensional.
func Decode(b []byte, columns int, format codec.Format, order MajorOrder, d codec.OrderDirective) (*Array, error) {
	if columns < 1 {
		return nil, fmt.Errorf("%w: %d columns", ErrInvalidShape, columns)
	}
	if !format.IsNumeric() {
		return nil, fmt.Errorf("%w: %s", ErrNotNumeric, format)
	}
	if err := format.Validate(); err != nil {
		return nil, err
	}
	rf := codec.ResolveFormat(format, d)
	width := rf.Size()
	records := len(b) / columns / width

	a := &Array{
		Format:  rf,
		Columns: columns,
		Records: records,
		Order:   order,
		flat:    columns == 1,
	}
	total := columns * records
	if rf.Kind == codec.KindFloat {
		a.floats = make([]float64, total)
	} else {
		a.ints = make([]int64, total)
	}

	for k := 0; k < total; k++ {
		var c, r int
		if order == RowMajor {
			c, r = k/records, k%records
		} else {
			c, r = k%columns, k/columns
		}
		e := b[k*width : (k+1)*width]
		i := c*records + r
		if rf.Kind == codec.KindFloat {
			a.floats[i] = rf.Float(e)
		} else {
			a.ints[i] = rf.Int(e)
		}
	}
	return a, nil
}

// DecodeFrom reads r to exhaustion and decodes the bytes read.
func DecodeFrom(r io.Reader, columns int, format codec.Format, order MajorOrder, d codec.OrderDirective) (*Array, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("array: read data: %w", err)
	}
	return Decode(b, columns, format, order, d)
}
