package fileio

import (
	"errors"
	"io"
	"io/fs"
	"os"
)

// Exists reports whether something is present at path.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil || !errors.Is(err, fs.ErrNotExist)
}

// WriteFile writes data to path in one buffered pass.
func WriteFile(path string, data []byte, overwrite bool) error {
	w, err := Create(WriterConfig{Path: path, BufferSize: len(data), Overwrite: overwrite})
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}

// ReadFile returns the full contents of path.
func ReadFile(path string) ([]byte, error) {
	r, err := Open(ReaderConfig{Path: path})
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}
