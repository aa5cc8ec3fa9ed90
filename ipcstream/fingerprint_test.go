package ipcstream

import (
	"testing"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/stretchr/testify/require"
)

func TestSchemaFingerprint_StructurallyIdenticalSchemasMatch(t *testing.T) {
	a := arrow.NewSchema([]arrow.Field{
		{Name: "id", Type: arrow.PrimitiveTypes.Int32},
		{Name: "name", Type: arrow.BinaryTypes.String, Nullable: true},
	}, nil)
	b := arrow.NewSchema([]arrow.Field{
		{Name: "id", Type: arrow.PrimitiveTypes.Int32},
		{Name: "name", Type: arrow.BinaryTypes.String, Nullable: true},
	}, nil)

	fpA, err := schemaFingerprint(a)
	require.NoError(t, err)
	fpB, err := schemaFingerprint(b)
	require.NoError(t, err)

	require.Equal(t, fpA, fpB)
	require.NotZero(t, fpA)
}

func TestSchemaFingerprint_DiffersOnNullability(t *testing.T) {
	a := arrow.NewSchema([]arrow.Field{{Name: "id", Type: arrow.PrimitiveTypes.Int32}}, nil)
	b := arrow.NewSchema([]arrow.Field{{Name: "id", Type: arrow.PrimitiveTypes.Int32, Nullable: true}}, nil)

	fpA, err := schemaFingerprint(a)
	require.NoError(t, err)
	fpB, err := schemaFingerprint(b)
	require.NoError(t, err)

	require.NotEqual(t, fpA, fpB)
}

func TestSchemaFingerprint_DiffersOnNestedChildType(t *testing.T) {
	a := arrow.NewSchema([]arrow.Field{
		{Name: "tags", Type: arrow.ListOfField(arrow.Field{Name: "item", Type: arrow.BinaryTypes.String})},
	}, nil)
	b := arrow.NewSchema([]arrow.Field{
		{Name: "tags", Type: arrow.ListOfField(arrow.Field{Name: "item", Type: arrow.PrimitiveTypes.Int64})},
	}, nil)

	fpA, err := schemaFingerprint(a)
	require.NoError(t, err)
	fpB, err := schemaFingerprint(b)
	require.NoError(t, err)

	require.NotEqual(t, fpA, fpB)
}
