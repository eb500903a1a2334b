// Package fileio opens filterbank and raw files for buffered reading and
// writing.
package fileio

// WriterConfig holds configuration for a Writer
type WriterConfig struct {
	Path       string // Destination file
	BufferSize int    // Write buffer size, 0 for the bufio default
	Overwrite  bool   // Replace an existing file instead of failing
}

// ReaderConfig holds configuration for a Reader
type ReaderConfig struct {
	Path        string // File to read
	StartOffset int64  // Offset to start reading from
}

// Errors
var (
	ErrFileExists = &FileError{"file already exists"}
	ErrNotRegular = &FileError{"not a regular file"}
)

// FileError represents a file resolution error
type FileError struct {
	Message string
}

func (e *FileError) Error() string {
	return e.Message
}
