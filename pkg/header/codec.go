package header

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/Gianuzzi/DeepSpyce/pkg/codec"
)

// Encode serializes h between the start and end sentinels.
//
// Null values are dropped. Sentinel keys present in h are ignored; they are
// regenerated as the first and last records. Each remaining key is written as
// length-prefixed text followed by its value packed with the format from
// types, or the format inferred from the value when the key is not mapped or
// is mapped to the null format.
func Encode(h *Header, types TypeMap, swap bool) ([]byte, error) {
	d := codec.SwapDirective(swap)
	var buf bytes.Buffer

	start, err := codec.PackText(StartKey, d)
	if err != nil {
		return nil, err
	}
	buf.Write(start)

	for _, e := range h.Entries() {
		if IsSentinel(e.Key) || e.Value.IsNull() {
			continue
		}
		key, err := codec.PackText(e.Key, d)
		if err != nil {
			return nil, fmt.Errorf("header: key %q: %w", e.Key, err)
		}
		val, err := codec.Pack(e.Value, types.packFormat(e.Key), d)
		if err != nil {
			return nil, fmt.Errorf("header: value for %q: %w", e.Key, err)
		}
		buf.Write(key)
		buf.Write(val)
	}

	end, err := codec.PackText(EndKey, d)
	if err != nil {
		return nil, err
	}
	buf.Write(end)
	return buf.Bytes(), nil
}

type decodeState int

const (
	awaitStart decodeState = iota
	readingPairs
	recoveryReadingPairs
	done
)

// Decode reads a header from the current position of r.
//
// A stream that opens with the start sentinel is read pair by pair until the
// end sentinel. A stream that does not is decoded on a recovery path: a
// MissingStartSentinel diagnostic is reported, the first text read becomes
// the first key, and pairs are read until the stream is exhausted.
//
// When the very first text cannot be decoded, the byte order is assumed to be
// wrong: r is rewound, the swap flag flipped and the read retried once. Later
// values get no such retry.
//
// On return r is positioned just past the header, so the data that follows
// can be read from it directly.
func Decode(r io.ReadSeeker, types TypeMap, swap bool) (*Header, []Diagnostic, error) {
	origin, err := r.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, nil, err
	}

	var diags []Diagnostic
	d := codec.SwapDirective(swap)

	first, err := codec.DecodeText(r, d)
	if errors.Is(err, codec.ErrInvalidText) {
		diags = append(diags, Diagnostic{
			Kind:    ByteOrderRetry,
			Message: fmt.Sprintf("first key undecodable (%v); retrying with swapped byte order", err),
		})
		if _, err := r.Seek(origin, io.SeekStart); err != nil {
			return nil, diags, err
		}
		d = flip(d)
		first, err = codec.DecodeText(r, d)
	}
	if err != nil {
		return nil, diags, fmt.Errorf("header: first key: %w", err)
	}

	h := New()
	state := awaitStart
	for state != done {
		switch state {
		case awaitStart:
			if first == StartKey {
				state = readingPairs
				continue
			}
			diags = append(diags, Diagnostic{
				Kind:    MissingStartSentinel,
				Key:     first,
				Message: fmt.Sprintf("header does not start with %q", StartKey),
			})
			if err := readValue(r, h, first, types, d); err != nil {
				return nil, diags, err
			}
			state = recoveryReadingPairs

		case readingPairs, recoveryReadingPairs:
			if state == recoveryReadingPairs {
				exhausted, err := atEnd(r)
				if err != nil {
					return nil, diags, err
				}
				if exhausted {
					state = done
					continue
				}
			}
			key, err := codec.DecodeText(r, d)
			if err != nil {
				return nil, diags, fmt.Errorf("header: key after %d entries: %w", h.Len(), err)
			}
			if key == EndKey {
				state = done
				continue
			}
			if err := readValue(r, h, key, types, d); err != nil {
				return nil, diags, err
			}
		}
	}
	return h, diags, nil
}

// DecodeBytes is Decode over an in-memory buffer.
func DecodeBytes(b []byte, types TypeMap, swap bool) (*Header, []Diagnostic, error) {
	return Decode(bytes.NewReader(b), types, swap)
}

func readValue(r io.Reader, h *Header, key string, types TypeMap, d codec.OrderDirective) error {
	f := types.Lookup(key)
	v, err := codec.Decode(r, &f, d)
	if err != nil {
		return fmt.Errorf("header: value for %q: %w", key, err)
	}
	h.Set(key, v)
	return nil
}

func flip(d codec.OrderDirective) codec.OrderDirective {
	if d == codec.OrderSwap {
		return codec.OrderKeep
	}
	return codec.OrderSwap
}

func atEnd(r io.Seeker) (bool, error) {
	cur, err := r.Seek(0, io.SeekCurrent)
	if err != nil {
		return false, err
	}
	end, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return false, err
	}
	if _, err := r.Seek(cur, io.SeekStart); err != nil {
		return false, err
	}
	return cur >= end, nil
}
