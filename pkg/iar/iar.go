// Package iar reads and writes the observation metadata files produced by
// the IAR acquisition software: one "key,value" line per entry.
package iar

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/Gianuzzi/DeepSpyce/pkg/codec"
	"github.com/Gianuzzi/DeepSpyce/pkg/fileio"
	"github.com/Gianuzzi/DeepSpyce/pkg/header"
)

// Separator splits key from value on each line.
const Separator = ","

var ErrMalformedLine = errors.New("iar: line has no key/value separator")

// Read parses the metadata file at path.
func Read(path string) (*header.Header, error) {
	b, err := fileio.ReadFile(path)
	if err != nil {
		return nil, err
	}
	h, err := Parse(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return h, nil
}

// Parse reads key,value lines from r in order. Values that parse as numbers
// become Integer when integral and Float otherwise; everything else is
// kept as Text. Blank lines are skipped.
func Parse(r io.Reader) (*header.Header, error) {
	h := header.New()
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(text) == "" {
			continue
		}
		key, val, ok := strings.Cut(text, Separator)
		if !ok {
			return nil, fmt.Errorf("%w: line %d: %q", ErrMalformedLine, line, text)
		}
		h.Set(key, renumber(val))
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return h, nil
}

func renumber(s string) codec.Value {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return codec.Text(s)
	}
	if f == math.Trunc(f) && math.Abs(f) < math.MaxInt64 {
		return codec.Int(int64(f))
	}
	return codec.Float(f)
}

// Format writes one key,value line per entry of h. Null values are written
// as None.
func Format(w io.Writer, h *header.Header) error {
	bw := bufio.NewWriter(w)
	for _, e := range h.Entries() {
		val := e.Value.String()
		if e.Value.IsNull() {
			val = "None"
		}
		if _, err := fmt.Fprintf(bw, "%s%s%s\n", e.Key, Separator, val); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Write stores h at path in the key,value format.
func Write(h *header.Header, path string, overwrite bool) error {
	var buf bytes.Buffer
	if err := Format(&buf, h); err != nil {
		return err
	}
	return fileio.WriteFile(path, buf.Bytes(), overwrite)
}
