package fb

import (
	"testing"

	"github.com/apache/arrow/go/v18/arrow"
	flatbuffers "github.com/google/flatbuffers/go"
	"github.com/stretchr/testify/require"
)

func TestBuildDecodeField_Primitive(t *testing.T) {
	b := flatbuffers.NewBuilder(256)
	f := arrow.Field{Name: "id", Type: arrow.PrimitiveTypes.Int32, Nullable: true}

	off, err := BuildField(b, f)
	require.NoError(t, err)
	b.Finish(off)

	buf := b.FinishedBytes()
	got, err := DecodeField(buf, flatbuffers.GetUOffsetT(buf))
	require.NoError(t, err)

	require.Equal(t, "id", got.Name)
	require.True(t, got.Nullable)
	require.True(t, arrow.TypeEqual(arrow.PrimitiveTypes.Int32, got.Type))
}

func TestBuildDecodeSchema_NestedList(t *testing.T) {
	schema := arrow.NewSchema([]arrow.Field{
		{Name: "id", Type: arrow.PrimitiveTypes.Int64},
		{Name: "tags", Type: arrow.ListOfField(arrow.Field{
			Name: "item", Type: arrow.BinaryTypes.String, Nullable: true,
		})},
	}, nil)

	b := flatbuffers.NewBuilder(512)
	off, err := BuildSchema(b, schema)
	require.NoError(t, err)
	b.Finish(off)

	buf := b.FinishedBytes()
	pos := flatbuffers.GetUOffsetT(buf)

	got, err := DecodeSchema(buf, pos)
	require.NoError(t, err)
	require.Equal(t, 2, len(got.Fields()))
	require.Equal(t, "id", got.Field(0).Name)
	require.Equal(t, "tags", got.Field(1).Name)

	listType, ok := got.Field(1).Type.(*arrow.ListType)
	require.True(t, ok)
	require.Equal(t, "item", listType.ElemField().Name)
}

func TestBuildDecodeField_MetadataRoundTrips(t *testing.T) {
	f := arrow.Field{
		Name:     "amount",
		Type:     arrow.PrimitiveTypes.Float64,
		Metadata: arrow.NewMetadata([]string{"unit", "currency"}, []string{"cents", "USD"}),
	}

	b := flatbuffers.NewBuilder(256)
	off, err := BuildField(b, f)
	require.NoError(t, err)
	b.Finish(off)

	buf := b.FinishedBytes()
	got, err := DecodeField(buf, flatbuffers.GetUOffsetT(buf))
	require.NoError(t, err)

	require.Equal(t, []string{"unit", "currency"}, got.Metadata.Keys())
	require.Equal(t, []string{"cents", "USD"}, got.Metadata.Values())
}

func TestBuildDecodeField_NoMetadataDecodesEmpty(t *testing.T) {
	f := arrow.Field{Name: "id", Type: arrow.PrimitiveTypes.Int32}

	b := flatbuffers.NewBuilder(256)
	off, err := BuildField(b, f)
	require.NoError(t, err)
	b.Finish(off)

	buf := b.FinishedBytes()
	got, err := DecodeField(buf, flatbuffers.GetUOffsetT(buf))
	require.NoError(t, err)
	require.Equal(t, 0, got.Metadata.Len())
}

func TestChildrenOf_NoChildrenForPrimitive(t *testing.T) {
	require.Nil(t, ChildrenOf(arrow.PrimitiveTypes.Int32))
}

func TestChildrenOf_ListHasOneChild(t *testing.T) {
	lt := arrow.ListOfField(arrow.Field{Name: "item", Type: arrow.PrimitiveTypes.Float64})
	children := ChildrenOf(lt)
	require.Len(t, children, 1)
	require.Equal(t, "item", children[0].Name)
}
