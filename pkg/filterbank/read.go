package filterbank

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/Gianuzzi/DeepSpyce/pkg/array"
	"github.com/Gianuzzi/DeepSpyce/pkg/fileio"
	"github.com/Gianuzzi/DeepSpyce/pkg/header"
)

// Record pairs a decoded header with its data. Either part is nil when the
// selector did not ask for it.
type Record struct {
	Header *header.Header
	Data   *array.Array
	// Name is the base name of the file read.
	Name string
}

// Read opens path and decodes the parts named by sel.
func Read(path string, opts Options, sel Selector) (*Record, []header.Diagnostic, error) {
	r, err := fileio.Open(fileio.ReaderConfig{Path: path})
	if err != nil {
		return nil, nil, err
	}
	defer r.Close()

	rec, diags, err := ReadFrom(r, opts, sel)
	if err != nil {
		return nil, diags, fmt.Errorf("read %s: %w", path, err)
	}
	rec.Name = filepath.Base(path)
	return rec, diags, nil
}

// ReadFrom decodes the parts named by sel from r, starting at its current
// position. SkipBytes offsets are absolute.
func ReadFrom(r io.ReadSeeker, opts Options, sel Selector) (*Record, []header.Diagnostic, error) {
	rec := &Record{}
	var diags []header.Diagnostic

	if sel.mode == selectData && sel.skip >= 0 {
		if _, err := r.Seek(sel.skip, io.SeekStart); err != nil {
			return nil, nil, err
		}
	} else {
		h, d, err := header.Decode(r, opts.types(), opts.swap())
		diags = d
		if err != nil {
			return nil, diags, err
		}
		if sel.mode != selectData {
			rec.Header = h
		}
	}

	if sel.mode == selectHeader {
		return rec, diags, nil
	}

	format := DefaultOptions().Format
	if f := opts.format(); f != nil {
		format = *f
	}
	columns := opts.Columns
	if columns == 0 {
		columns = DefaultChannels
	}
	data, err := array.DecodeFrom(r, columns, format, opts.Order, opts.Directive)
	if err != nil {
		return nil, diags, err
	}
	rec.Data = data
	return rec, diags, nil
}

// ReadHeader decodes only the header of path.
func ReadHeader(path string, opts Options) (*header.Header, []header.Diagnostic, error) {
	rec, diags, err := Read(path, opts, HeaderOnly)
	if err != nil {
		return nil, diags, err
	}
	return rec.Header, diags, nil
}

// ReadArray decodes only the data of path, parsing the header to find it.
func ReadArray(path string, opts Options) (*array.Array, []header.Diagnostic, error) {
	rec, diags, err := Read(path, opts, DataOnly)
	if err != nil {
		return nil, diags, err
	}
	return rec.Data, diags, nil
}
