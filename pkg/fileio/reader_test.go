package fileio

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, data []byte) string {
	t.Helper()
	filePath := filepath.Join(t.TempDir(), "input.fil")
	require.NoError(t, os.WriteFile(filePath, data, 0600))
	return filePath
}

func TestOpen(t *testing.T) {
	filePath := writeTemp(t, []byte("0123456789"))

	reader, err := Open(ReaderConfig{Path: filePath})
	require.NoError(t, err)
	defer reader.Close()

	size, err := reader.Size()
	require.NoError(t, err)
	assert.Equal(t, int64(10), size)
	assert.Equal(t, int64(0), reader.Offset())

	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, "0123456789", string(data))
	assert.Equal(t, int64(10), reader.Offset())
}

func TestOpen_StartOffset(t *testing.T) {
	filePath := writeTemp(t, []byte("0123456789"))

	reader, err := Open(ReaderConfig{Path: filePath, StartOffset: 4})
	require.NoError(t, err)
	defer reader.Close()

	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, "456789", string(data))
}

func TestOpen_Errors(t *testing.T) {
	_, err := Open(ReaderConfig{Path: filepath.Join(t.TempDir(), "missing.fil")})
	assert.Error(t, err)

	_, err = Open(ReaderConfig{Path: t.TempDir()})
	assert.ErrorIs(t, err, ErrNotRegular)
}

func TestReader_Seek(t *testing.T) {
	filePath := writeTemp(t, []byte("0123456789"))

	reader, err := Open(ReaderConfig{Path: filePath})
	require.NoError(t, err)
	defer reader.Close()

	buf := make([]byte, 3)
	_, err = io.ReadFull(reader, buf)
	require.NoError(t, err)

	pos, err := reader.Seek(0, io.SeekCurrent)
	require.NoError(t, err)
	assert.Equal(t, int64(3), pos)

	end, err := reader.Seek(0, io.SeekEnd)
	require.NoError(t, err)
	assert.Equal(t, int64(10), end)

	pos, err = reader.Seek(-2, io.SeekCurrent)
	require.NoError(t, err)
	assert.Equal(t, int64(8), pos)
	_, err = io.ReadFull(reader, buf[:2])
	require.NoError(t, err)
	assert.Equal(t, "89", string(buf[:2]))

	_, err = reader.Seek(1, io.SeekStart)
	require.NoError(t, err)
	_, err = io.ReadFull(reader, buf)
	require.NoError(t, err)
	assert.Equal(t, "123", string(buf))

	_, err = reader.Seek(-1, io.SeekStart)
	assert.Error(t, err)
	assert.Equal(t, int64(4), reader.Offset())
}
