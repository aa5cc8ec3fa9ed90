package recordbatch

import (
	"testing"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"
	"github.com/apache/arrow/go/v18/arrow/memory"
	"github.com/stretchr/testify/require"

	"github.com/sparrowdata/arrowipc/compress"
	"github.com/sparrowdata/arrowipc/internal/fb"
)

func buildBatch(t *testing.T, schema *arrow.Schema, ids []int32, names []string) arrow.Record {
	t.Helper()

	mem := memory.DefaultAllocator

	idB := array.NewInt32Builder(mem)
	defer idB.Release()
	idB.AppendValues(ids, nil)
	idArr := idB.NewArray()
	defer idArr.Release()

	nameB := array.NewStringBuilder(mem)
	defer nameB.Release()
	nameB.AppendValues(names, nil)
	nameArr := nameB.NewArray()
	defer nameArr.Release()

	return array.NewRecord(schema, []arrow.Array{idArr, nameArr}, int64(len(ids)))
}

func TestEncodeDecode_Uncompressed(t *testing.T) {
	schema := arrow.NewSchema([]arrow.Field{
		{Name: "id", Type: arrow.PrimitiveTypes.Int32},
		{Name: "name", Type: arrow.BinaryTypes.String},
	}, nil)

	rec := buildBatch(t, schema, []int32{1, 2, 3}, []string{"a", "bb", "ccc"})
	defer rec.Release()

	enc, err := Encode(rec, compress.None)
	require.NoError(t, err)

	msg, err := fb.DecodeMessage(enc.Metadata)
	require.NoError(t, err)

	got, err := Decode(schema, msg.RecordBatch, enc.Body, memory.DefaultAllocator)
	require.NoError(t, err)
	defer got.Release()

	require.Equal(t, int64(3), got.NumRows())
	require.Equal(t, []int32{1, 2, 3}, got.Column(0).(*array.Int32).Int32Values())

	nameCol := got.Column(1).(*array.String)
	require.Equal(t, "a", nameCol.Value(0))
	require.Equal(t, "ccc", nameCol.Value(2))
}

func TestEncodeDecode_Compressed(t *testing.T) {
	schema := arrow.NewSchema([]arrow.Field{
		{Name: "v", Type: arrow.PrimitiveTypes.Int64},
	}, nil)

	mem := memory.DefaultAllocator
	b := array.NewInt64Builder(mem)
	vals := make([]int64, 2000)
	for i := range vals {
		vals[i] = int64(i % 5)
	}
	b.AppendValues(vals, nil)
	arr := b.NewArray()
	defer arr.Release()
	rec := array.NewRecord(schema, []arrow.Array{arr}, int64(len(vals)))
	defer rec.Release()

	enc, err := Encode(rec, compress.Zstd)
	require.NoError(t, err)

	msg, err := fb.DecodeMessage(enc.Metadata)
	require.NoError(t, err)
	require.NotNil(t, msg.RecordBatch.Compression)

	got, err := Decode(schema, msg.RecordBatch, enc.Body, mem)
	require.NoError(t, err)
	defer got.Release()

	require.Equal(t, vals, got.Column(0).(*array.Int64).Int64Values())
}

func TestEncodeDecode_NullsRoundTrip(t *testing.T) {
	schema := arrow.NewSchema([]arrow.Field{
		{Name: "v", Type: arrow.PrimitiveTypes.Int32, Nullable: true},
	}, nil)

	mem := memory.DefaultAllocator
	b := array.NewInt32Builder(mem)
	b.AppendValues([]int32{10, 0, 30}, []bool{true, false, true})
	arr := b.NewArray()
	defer arr.Release()
	rec := array.NewRecord(schema, []arrow.Array{arr}, 3)
	defer rec.Release()

	enc, err := Encode(rec, compress.None)
	require.NoError(t, err)

	msg, err := fb.DecodeMessage(enc.Metadata)
	require.NoError(t, err)

	got, err := Decode(schema, msg.RecordBatch, enc.Body, mem)
	require.NoError(t, err)
	defer got.Release()

	col := got.Column(0).(*array.Int32)
	require.Equal(t, 1, col.NullN())
	require.True(t, col.IsNull(1))
	require.Equal(t, int32(10), col.Value(0))
}

func TestDecode_RejectsOutOfRangeBuffer(t *testing.T) {
	schema := arrow.NewSchema([]arrow.Field{{Name: "v", Type: arrow.PrimitiveTypes.Int32}}, nil)

	rb := fb.DecodedRecordBatch{
		Length:  1,
		Nodes:   []fb.FieldNode{{Length: 1, NullCount: 0}},
		Buffers: []fb.Buffer{{Offset: 0, Length: 0}, {Offset: 0, Length: 100}},
	}

	_, err := Decode(schema, rb, []byte{1, 2, 3}, memory.DefaultAllocator)
	require.Error(t, err)
}
