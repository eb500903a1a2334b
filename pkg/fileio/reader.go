package fileio

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// Reader is a buffered io.ReadSeeker over one file.
type Reader struct {
	file   *os.File
	reader *bufio.Reader
	offset int64
	config ReaderConfig
}

// Open opens config.Path and positions it at config.StartOffset.
func Open(config ReaderConfig) (*Reader, error) {
	file, err := os.Open(config.Path)
	if err != nil {
		return nil, err
	}

	stat, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, err
	}
	if !stat.Mode().IsRegular() {
		file.Close()
		return nil, fmt.Errorf("%w: %s", ErrNotRegular, config.Path)
	}

	if config.StartOffset > 0 {
		if _, err := file.Seek(config.StartOffset, io.SeekStart); err != nil {
			file.Close()
			return nil, err
		}
	}

	return &Reader{
		file:   file,
		reader: bufio.NewReader(file),
		offset: config.StartOffset,
		config: config,
	}, nil
}

// Read reads from the buffer.
func (r *Reader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	r.offset += int64(n)
	return n, err
}

// Seek moves the read offset. Any buffered bytes are dropped, except for the
// position query Seek(0, io.SeekCurrent).
func (r *Reader) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		if offset == 0 {
			return r.offset, nil
		}
		abs = r.offset + offset
	case io.SeekEnd:
		size, err := r.Size()
		if err != nil {
			return r.offset, err
		}
		abs = size + offset
	default:
		return r.offset, fmt.Errorf("fileio: invalid whence %d", whence)
	}
	if abs < 0 {
		return r.offset, fmt.Errorf("fileio: negative offset %d", abs)
	}

	if _, err := r.file.Seek(abs, io.SeekStart); err != nil {
		return r.offset, err
	}
	r.reader.Reset(r.file) // clear buffer
	r.offset = abs
	return abs, nil
}

// Offset returns the current read offset
func (r *Reader) Offset() int64 {
	return r.offset
}

// Size returns the file size in bytes
func (r *Reader) Size() (int64, error) {
	stat, err := r.file.Stat()
	if err != nil {
		return 0, err
	}
	return stat.Size(), nil
}

// Path returns the file path
func (r *Reader) Path() string {
	return r.config.Path
}

// Close closes the reader
func (r *Reader) Close() error {
	return r.file.Close()
}
