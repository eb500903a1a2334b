package fileio

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Writer writes a single output file through a buffer.
type Writer struct {
	file   *os.File
	writer *bufio.Writer
	config WriterConfig
	mutex  sync.Mutex
	offset int64 // Bytes written so far
}

// Create opens config.Path for writing, truncating it.
//
// Unless config.Overwrite is set an existing path fails with ErrFileExists.
// The check and the open are separate steps, so a file created between them
// is overwritten.
func Create(config WriterConfig) (*Writer, error) {
	if !config.Overwrite && Exists(config.Path) {
		return nil, fmt.Errorf("%w: %s", ErrFileExists, config.Path)
	}

	if dir := filepath.Dir(config.Path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, err
		}
	}

	file, err := os.OpenFile(config.Path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return nil, err
	}

	size := config.BufferSize
	if size <= 0 {
		size = 4096
	}

	return &Writer{
		file:   file,
		writer: bufio.NewWriterSize(file, size),
		config: config,
	}, nil
}

// Write buffers p and advances the offset.
func (w *Writer) Write(p []byte) (int, error) {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	n, err := w.writer.Write(p)
	w.offset += int64(n)
	return n, err
}

// Sync flushes buffered bytes and fsyncs the file
func (w *Writer) Sync() error {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	return w.sync()
}

func (w *Writer) sync() error {
	if err := w.writer.Flush(); err != nil {
		return err
	}
	return w.file.Sync()
}

// Close syncs and closes the file
func (w *Writer) Close() error {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	if err := w.sync(); err != nil {
		_ = w.file.Close()
		return err
	}
	return w.file.Close()
}

// Offset returns the number of bytes written
func (w *Writer) Offset() int64 {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	return w.offset
}

// Path returns the file path
func (w *Writer) Path() string {
	return w.config.Path
}
