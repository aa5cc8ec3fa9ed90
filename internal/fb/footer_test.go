package fb

import (
	"testing"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeFooter(t *testing.T) {
	schema := arrow.NewSchema([]arrow.Field{
		{Name: "id", Type: arrow.PrimitiveTypes.Int64},
	}, nil)

	blocks := []Block{
		{Offset: 8, MetaDataLength: 64, BodyLength: 128},
		{Offset: 200, MetaDataLength: 64, BodyLength: 256},
	}

	buf, err := EncodeFooter(schema, blocks)
	require.NoError(t, err)

	footer, err := DecodeFooter(buf)
	require.NoError(t, err)
	require.Equal(t, 1, len(footer.Schema.Fields()))
	require.Equal(t, blocks, footer.RecordBatches)
}

func TestEncodeDecodeFooter_NoBatches(t *testing.T) {
	schema := arrow.NewSchema([]arrow.Field{{Name: "x", Type: arrow.PrimitiveTypes.Float32}}, nil)

	buf, err := EncodeFooter(schema, nil)
	require.NoError(t, err)

	footer, err := DecodeFooter(buf)
	require.NoError(t, err)
	require.Empty(t, footer.RecordBatches)
}
