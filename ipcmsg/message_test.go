package ipcmsg

import (
	"bytes"
	"io"
	"testing"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/stretchr/testify/require"

	"github.com/sparrowdata/arrowipc/internal/fb"
	"github.com/sparrowdata/arrowipc/ipcerr"
)

func TestWriteMessage_PadsMetadataTo8Bytes(t *testing.T) {
	var buf bytes.Buffer

	metadata := []byte{1, 2, 3} // 3 bytes, pads to 8
	n, err := WriteMessage(&buf, metadata, nil)
	require.NoError(t, err)
	require.Equal(t, int64(prefixSize+8), n)
	require.Equal(t, prefixSize+8, buf.Len())
}

func TestWriteMessage_IncludesBody(t *testing.T) {
	var buf bytes.Buffer

	metadata := make([]byte, 16) // already 8-aligned
	body := []byte("record batch body bytes")

	n, err := WriteMessage(&buf, metadata, body)
	require.NoError(t, err)
	require.Equal(t, int64(prefixSize+len(metadata)+len(body)), n)
}

func TestWriteEOS_Is8BytesZeroLength(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteEOS(&buf))
	require.Equal(t, prefixSize, buf.Len())

	env, eos, err := NextMessage(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.True(t, eos)
	require.Nil(t, env)
}

func TestNextMessage_RoundTripsSchemaMessage(t *testing.T) {
	schema := arrow.NewSchema([]arrow.Field{
		{Name: "id", Type: arrow.PrimitiveTypes.Int32},
	}, nil)

	metadata, err := fb.EncodeSchemaMessage(schema)
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = WriteMessage(&buf, metadata, nil)
	require.NoError(t, err)

	env, eos, err := NextMessage(&buf)
	require.NoError(t, err)
	require.False(t, eos)
	require.Equal(t, fb.KindSchema, env.Message.Kind)
	require.Equal(t, "id", env.Message.Schema.Field(0).Name)
}

func TestNextMessage_CleanEOFWithoutEOSReturnsIOEOF(t *testing.T) {
	_, _, err := NextMessage(bytes.NewReader(nil))
	require.ErrorIs(t, err, io.EOF)
}

func TestNextMessage_RejectsBadContinuationMarker(t *testing.T) {
	var buf bytes.Buffer
	buf.Write([]byte{0, 0, 0, 0, 0, 0, 0, 0}) // not 0xFFFFFFFF

	_, _, err := NextMessage(&buf)
	require.Error(t, err)
	require.True(t, ipcerr.Is(err, ipcerr.UnexpectedMessage))
}

func TestNextMessage_TruncatedPrefixErrors(t *testing.T) {
	_, _, err := NextMessage(bytes.NewReader([]byte{0xFF, 0xFF, 0xFF}))
	require.Error(t, err)
	require.True(t, ipcerr.Is(err, ipcerr.Truncated))
}
