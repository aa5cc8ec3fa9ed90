package arrowipc

import (
	"bytes"
	"testing"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"
	"github.com/apache/arrow/go/v18/arrow/memory"
	"github.com/stretchr/testify/require"

	"github.com/sparrowdata/arrowipc/compress"
	"github.com/sparrowdata/arrowipc/ipcerr"
	"github.com/sparrowdata/arrowipc/iosink"
)

func idNameSchema() *arrow.Schema {
	return arrow.NewSchema([]arrow.Field{
		{Name: "id", Type: arrow.PrimitiveTypes.Int32},
		{Name: "name", Type: arrow.BinaryTypes.String},
	}, nil)
}

func buildIDNameBatch(t *testing.T, schema *arrow.Schema, ids []int32, names []string) arrow.Record {
	t.Helper()

	mem := memory.DefaultAllocator
	idBuilder := array.NewInt32Builder(mem)
	defer idBuilder.Release()
	idBuilder.AppendValues(ids, nil)
	idArr := idBuilder.NewArray()
	defer idArr.Release()

	nameBuilder := array.NewStringBuilder(mem)
	defer nameBuilder.Release()
	nameBuilder.AppendValues(names, nil)
	nameArr := nameBuilder.NewArray()
	defer nameArr.Release()

	return array.NewRecord(schema, []arrow.Array{idArr, nameArr}, int64(len(ids)))
}

// Scenario 1: two batches, round-tripped with no compression.
func TestSerializeDeserializeStream_TwoBatches(t *testing.T) {
	schema := idNameSchema()
	batch1 := buildIDNameBatch(t, schema, []int32{1, 2, 3}, []string{"a", "b", "c"})
	defer batch1.Release()
	batch2 := buildIDNameBatch(t, schema, []int32{4, 5}, []string{"d", "e"})
	defer batch2.Release()

	var buf bytes.Buffer
	sink := iosink.NewMemSinkBuffer(&buf)

	err := SerializeStream(sink, []arrow.Record{batch1, batch2}, compress.None)
	require.NoError(t, err)

	gotSchema, batches, err := DeserializeStream(bytes.NewReader(buf.Bytes()), nil)
	require.NoError(t, err)
	require.True(t, gotSchema.Equal(schema))
	require.Len(t, batches, 2)

	require.Equal(t, int64(3), batches[0].NumRows())
	require.Equal(t, []int32{1, 2, 3}, batches[0].Column(0).(*array.Int32).Int32Values())
	require.Equal(t, int64(2), batches[1].NumRows())

	nameCol := batches[1].Column(1).(*array.String)
	require.Equal(t, "d", nameCol.Value(0))
	require.Equal(t, "e", nameCol.Value(1))
}

// Scenario 2: nulls round-trip with their bitmap and null_count.
func TestSerializeDeserializeStream_Nulls(t *testing.T) {
	schema := arrow.NewSchema([]arrow.Field{
		{Name: "v", Type: arrow.PrimitiveTypes.Int32, Nullable: true},
	}, nil)

	mem := memory.DefaultAllocator
	b := array.NewInt32Builder(mem)
	defer b.Release()
	b.AppendValues([]int32{10, 0, 30, 0, 50}, []bool{true, false, true, false, true})
	arr := b.NewArray()
	defer arr.Release()

	batch := array.NewRecord(schema, []arrow.Array{arr}, 5)
	defer batch.Release()

	var buf bytes.Buffer
	require.NoError(t, SerializeStream(iosink.NewMemSinkBuffer(&buf), []arrow.Record{batch}, compress.None))

	_, batches, err := DeserializeStream(bytes.NewReader(buf.Bytes()), nil)
	require.NoError(t, err)
	require.Len(t, batches, 1)

	got := batches[0].Column(0).(*array.Int32)
	require.Equal(t, 2, got.NullN())
	require.True(t, got.IsNull(1))
	require.True(t, got.IsNull(3))
	require.False(t, got.IsNull(0))
	require.Equal(t, int32(10), got.Value(0))
	require.Equal(t, int32(30), got.Value(2))
	require.Equal(t, int32(50), got.Value(4))
}

// Scenario 6: a schema mismatch mid-stream fails the write and leaves the
// stream with the first batch but no end-of-stream sentinel yet.
func TestStreamWriter_SchemaMismatch(t *testing.T) {
	schemaA := idNameSchema()
	schemaB := arrow.NewSchema([]arrow.Field{
		{Name: "id", Type: arrow.PrimitiveTypes.Int64},
		{Name: "name", Type: arrow.BinaryTypes.String},
	}, nil)

	batch1 := buildIDNameBatch(t, schemaA, []int32{1}, []string{"a"})
	defer batch1.Release()

	mem := memory.DefaultAllocator
	idBuilder := array.NewInt64Builder(mem)
	idBuilder.Append(2)
	idArr := idBuilder.NewArray()
	defer idArr.Release()
	nameBuilder := array.NewStringBuilder(mem)
	nameBuilder.Append("b")
	nameArr := nameBuilder.NewArray()
	defer nameArr.Release()
	batch2 := array.NewRecord(schemaB, []arrow.Array{idArr, nameArr}, 1)
	defer batch2.Release()

	var buf bytes.Buffer
	sink := iosink.NewMemSinkBuffer(&buf)
	w := NewStreamWriter(sink, compress.None)

	require.NoError(t, w.Write(batch1))

	err := w.Write(batch2)
	require.Error(t, err)
	require.True(t, ipcerr.Is(err, ipcerr.SchemaMismatch))

	// The writer is poisoned; End must not silently append a sentinel.
	err = w.End()
	require.Error(t, err)
	require.True(t, ipcerr.Is(err, ipcerr.InvalidState))

	// No EOS sentinel was written; the reader takes the clean end of input
	// after the last complete message as the end of the stream.
	_, batches, err := DeserializeStream(bytes.NewReader(buf.Bytes()), nil)
	require.NoError(t, err)
	require.Len(t, batches, 1)
}

func TestStreamWriter_EmptyStreamStillEmitsSentinel(t *testing.T) {
	var buf bytes.Buffer
	w := NewStreamWriter(iosink.NewMemSinkBuffer(&buf), compress.None)
	require.NoError(t, w.End())
	require.Equal(t, 8, buf.Len())

	schema, batches, err := DeserializeStream(bytes.NewReader(buf.Bytes()), nil)
	require.NoError(t, err)
	require.Nil(t, schema)
	require.Empty(t, batches)
}

func TestSerializeDeserializeFile_RoundTrip(t *testing.T) {
	schema := idNameSchema()
	batch := buildIDNameBatch(t, schema, []int32{1, 2}, []string{"x", "y"})
	defer batch.Release()

	var buf bytes.Buffer
	sink := iosink.NewMemSinkBuffer(&buf)

	require.NoError(t, SerializeFile(sink, schema, []arrow.Record{batch}, compress.Zstd))

	data := buf.Bytes()
	require.Equal(t, "ARROW1", string(data[:6]))
	require.Equal(t, "ARROW1", string(data[len(data)-6:]))

	gotSchema, batches, err := ReadFile(iosink.NewMemSource(data), nil)
	require.NoError(t, err)
	require.True(t, gotSchema.Equal(schema))
	require.Len(t, batches, 1)
	require.Equal(t, []int32{1, 2}, batches[0].Column(0).(*array.Int32).Int32Values())
}

func TestChunkedStreamReader_FeedsPartialMessages(t *testing.T) {
	schema := idNameSchema()
	batch := buildIDNameBatch(t, schema, []int32{7, 8, 9}, []string{"p", "q", "r"})
	defer batch.Release()

	var buf bytes.Buffer
	require.NoError(t, SerializeStream(iosink.NewMemSinkBuffer(&buf), []arrow.Record{batch}, compress.LZ4Frame))

	r := NewChunkedStreamReader(nil)
	data := buf.Bytes()

	const chunkSize = 5
	for i := 0; i < len(data); i += chunkSize {
		end := min(i+chunkSize, len(data))
		_, err := r.Feed(data[i:end])
		require.NoError(t, err)
	}

	require.True(t, r.Done())
	require.Len(t, r.Records, 1)
	require.Equal(t, int64(3), r.Records[0].NumRows())
}
