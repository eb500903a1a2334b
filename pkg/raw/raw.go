// Package raw reads and writes headerless data files: the bare array bytes
// a backend dumps before any metadata is attached.
package raw

import (
	"fmt"
	"io"

	"github.com/Gianuzzi/DeepSpyce/pkg/array"
	"github.com/Gianuzzi/DeepSpyce/pkg/codec"
	"github.com/Gianuzzi/DeepSpyce/pkg/fileio"
	"github.com/Gianuzzi/DeepSpyce/pkg/filterbank"
)

// Read decodes the whole of path as data. Options.Types is ignored.
func Read(path string, opts filterbank.Options) (*array.Array, error) {
	r, err := fileio.Open(fileio.ReaderConfig{Path: path})
	if err != nil {
		return nil, err
	}
	defer r.Close()

	a, err := ReadFrom(r, opts)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return a, nil
}

// ReadFrom decodes everything left in r as data.
func ReadFrom(r io.Reader, opts filterbank.Options) (*array.Array, error) {
	format := opts.Format
	if format.Kind == codec.KindNull {
		format = filterbank.DefaultOptions().Format
	}
	columns := opts.Columns
	if columns == 0 {
		columns = filterbank.DefaultChannels
	}
	return array.DecodeFrom(r, columns, format, opts.Order, opts.Directive)
}

// Write stores the data bytes of a at path.
func Write(a *array.Array, path string, opts filterbank.Options, overwrite bool) error {
	var format *codec.Format
	if opts.Format.Kind != codec.KindNull {
		format = &opts.Format
	}
	b, err := array.Encode(a, format, opts.Order, opts.Directive)
	if err != nil {
		return err
	}
	return fileio.WriteFile(path, b, overwrite)
}
