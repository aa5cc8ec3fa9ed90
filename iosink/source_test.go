package iosink

import (
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemSource_ReadAt(t *testing.T) {
	src := NewMemSource([]byte("0123456789"))

	size, err := src.Size()
	require.NoError(t, err)
	require.Equal(t, int64(10), size)

	buf := make([]byte, 4)
	n, err := src.ReadAt(buf, 3)
	require.NoError(t, err)
	require.Equal(t, 4, n)
	require.Equal(t, "3456", string(buf))
}

func TestMemSource_ReadAtPastEndReturnsEOF(t *testing.T) {
	src := NewMemSource([]byte("abc"))

	buf := make([]byte, 5)
	_, err := src.ReadAt(buf, 1)
	require.ErrorIs(t, err, io.EOF)
}

func TestMemSource_ReadAtBeyondSizeErrors(t *testing.T) {
	src := NewMemSource([]byte("abc"))

	_, err := src.ReadAt(make([]byte, 1), 10)
	require.Error(t, err)
}

func TestMemSource_Reader(t *testing.T) {
	src := NewMemSource([]byte("hello"))
	got, err := io.ReadAll(src.Reader())
	require.NoError(t, err)
	require.Equal(t, "hello", string(got))
}

func TestFileSource_ReadAtAndSize(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "source-*")
	require.NoError(t, err)
	defer f.Close()

	_, err = f.Write([]byte("0123456789"))
	require.NoError(t, err)

	src := NewFileSource(f)

	size, err := src.Size()
	require.NoError(t, err)
	require.Equal(t, int64(10), size)

	buf := make([]byte, 3)
	n, err := src.ReadAt(buf, 5)
	require.NoError(t, err)
	require.Equal(t, 3, n)
	require.Equal(t, "567", string(buf))
}
