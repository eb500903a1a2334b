// Package filterbank reads and writes filterbank files: a sentinel-delimited
// header immediately followed by the raw bytes of a channels-by-samples
// array.
package filterbank

import (
	"github.com/Gianuzzi/DeepSpyce/pkg/array"
	"github.com/Gianuzzi/DeepSpyce/pkg/codec"
	"github.com/Gianuzzi/DeepSpyce/pkg/header"
)

// DefaultChannels is the channel count of the IAR ROACH backends.
const DefaultChannels = 2048

// NameKey is the header entry holding the file name the data was written to.
const NameKey = "rawdatafile"

// Options controls how data is laid out and how header values are typed.
type Options struct {
	Columns int
	// Format is the data element format. The zero Format means the array's
	// own element format when writing.
	Format codec.Format
	Order  array.MajorOrder
	// Directive applies to the data elements. Any directive other than
	// OrderKeep, a forced order included, also byte swaps the header.
	Directive codec.OrderDirective
	// Types overrides the built-in filterbank type map.
	Types header.TypeMap
}

// DefaultOptions returns a fresh set of defaults: 2048 channels of
// big-endian int64 in column-major order.
func DefaultOptions() Options {
	return Options{
		Columns: DefaultChannels,
		Format:  codec.MustParseFormat(">i8"),
		Order:   array.ColumnMajor,
	}
}

func (o Options) swap() bool {
	return o.Directive != codec.OrderKeep
}

func (o Options) types() header.TypeMap {
	return header.Merge(DefaultTypes(), o.Types)
}

func (o Options) format() *codec.Format {
	if o.Format.Kind == codec.KindNull {
		return nil
	}
	f := o.Format
	return &f
}

// WriteOptions extends Options with the output destination.
type WriteOptions struct {
	Options
	// Outfile is the destination path. When empty the header's rawdatafile
	// entry is used.
	Outfile   string
	Overwrite bool
}

type selectMode uint8

const (
	selectBoth selectMode = iota
	selectHeader
	selectData
)

// Selector picks which parts of a file Read decodes.
type Selector struct {
	mode selectMode
	skip int64 // absolute data offset, -1 when the header must be parsed
}

var (
	Both       = Selector{mode: selectBoth, skip: -1}
	HeaderOnly = Selector{mode: selectHeader, skip: -1}
	// DataOnly decodes and discards the header to find where the data
	// starts.
	DataOnly = Selector{mode: selectData, skip: -1}
)

// SkipBytes reads only the data, starting at absolute offset n.
func SkipBytes(n int64) Selector {
	return Selector{mode: selectData, skip: n}
}

func (s Selector) String() string {
	switch {
	case s.mode == selectHeader:
		return "header"
	case s.mode == selectData && s.skip >= 0:
		return "data@" + itoa(s.skip)
	case s.mode == selectData:
		return "data"
	default:
		return "both"
	}
}
