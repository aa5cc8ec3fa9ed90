package compress

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func repetitiveData(n int) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = byte(i % 7)
	}

	return out
}

func TestFrame_NoneRoundTrip(t *testing.T) {
	f, err := NewFrame(None)
	require.NoError(t, err)

	data := []byte("arbitrary body bytes")
	framed, err := f.Compress(data)
	require.NoError(t, err)
	require.Len(t, framed, HeaderSize+len(data))

	got, err := f.Decompress(framed)
	require.NoError(t, err)
	require.Equal(t, data, got)
}

func TestFrame_ZstdRoundTrip(t *testing.T) {
	f, err := NewFrame(Zstd)
	require.NoError(t, err)

	data := repetitiveData(64 * 1024)
	framed, err := f.Compress(data)
	require.NoError(t, err)
	require.Less(t, len(framed), len(data), "repetitive data should compress smaller")

	got, err := f.Decompress(framed)
	require.NoError(t, err)
	require.True(t, bytes.Equal(data, got))
}

func TestFrame_LZ4FrameRoundTrip(t *testing.T) {
	f, err := NewFrame(LZ4Frame)
	require.NoError(t, err)

	data := repetitiveData(64 * 1024)
	framed, err := f.Compress(data)
	require.NoError(t, err)
	require.Less(t, len(framed), len(data))

	got, err := f.Decompress(framed)
	require.NoError(t, err)
	require.True(t, bytes.Equal(data, got))
}

func TestFrame_FallsBackToRawWhenNotSmaller(t *testing.T) {
	f, err := NewFrame(Zstd)
	require.NoError(t, err)

	tiny := []byte{1, 2, 3}
	framed, err := f.Compress(tiny)
	require.NoError(t, err)

	got, err := f.Decompress(framed)
	require.NoError(t, err)
	require.Equal(t, tiny, got)
}

func TestFrame_DecompressRejectsShortInput(t *testing.T) {
	f, err := NewFrame(None)
	require.NoError(t, err)

	_, err = f.Decompress([]byte{1, 2, 3})
	require.Error(t, err)
}

func TestCache_MemoizesByBufferIdentity(t *testing.T) {
	f, err := NewFrame(Zstd)
	require.NoError(t, err)

	c := NewCache()
	data := repetitiveData(4096)

	first, err := c.CompressCached(f, data)
	require.NoError(t, err)

	second, err := c.CompressCached(f, data)
	require.NoError(t, err)

	// Same backing array: memoized, so byte-identical including any
	// allocation-dependent internals.
	require.Equal(t, first, second)
}

func TestCache_NilCacheFallsBackToDirectCompress(t *testing.T) {
	f, err := NewFrame(None)
	require.NoError(t, err)

	var c *Cache
	out, err := c.CompressCached(f, []byte("hello"))
	require.NoError(t, err)
	require.NotEmpty(t, out)
}
