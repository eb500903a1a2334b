package filterbank

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/Gianuzzi/DeepSpyce/pkg/array"
	"github.com/Gianuzzi/DeepSpyce/pkg/fileio"
	"github.com/Gianuzzi/DeepSpyce/pkg/header"
)

// ErrNoOutputName is returned by Write when neither an output path nor a
// rawdatafile header entry is available.
var ErrNoOutputName = errors.New("filterbank: could not resolve output file name")

// Marshal encodes h followed by the data of a.
func Marshal(a *array.Array, h *header.Header, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := WriteTo(&buf, a, h, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteTo encodes h and a and writes them to w in a single call.
func WriteTo(w io.Writer, a *array.Array, h *header.Header, opts Options) (int64, error) {
	hb, err := header.Encode(h, opts.types(), opts.swap())
	if err != nil {
		return 0, err
	}
	db, err := array.Encode(a, opts.format(), opts.Order, opts.Directive)
	if err != nil {
		return 0, err
	}
	n, err := w.Write(append(hb, db...))
	return int64(n), err
}

// Write stores a and h as a filterbank file and returns the path written.
//
// The path is opts.Outfile, or the header's rawdatafile entry when Outfile
// is empty. A base name that differs from rawdatafile, or a header without
// one, is reported as a NameMismatch diagnostic; the file is written anyway.
func Write(a *array.Array, h *header.Header, opts WriteOptions) (string, []header.Diagnostic, error) {
	var diags []header.Diagnostic

	name, hasName := h.Text(NameKey)
	outfile, base := opts.Outfile, filepath.Base(opts.Outfile)
	if outfile == "" {
		if !hasName || name == "" {
			return "", nil, ErrNoOutputName
		}
		outfile, base = name, name
	}
	if base != name {
		msg := fmt.Sprintf("file name %q and rawdatafile %q in header do not match", base, name)
		if !hasName {
			msg = fmt.Sprintf("file name %q has no rawdatafile entry in header to match", base)
		}
		diags = append(diags, header.Diagnostic{Kind: header.NameMismatch, Key: NameKey, Message: msg})
	}

	b, err := Marshal(a, h, opts.Options)
	if err != nil {
		return "", diags, err
	}
	if err := fileio.WriteFile(outfile, b, opts.Overwrite); err != nil {
		return "", diags, err
	}
	return outfile, diags, nil
}
