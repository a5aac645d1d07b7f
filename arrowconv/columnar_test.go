package arrowconv_test

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/stretchr/testify/require"

	"github.com/quicklake/columnar"
	"github.com/quicklake/columnar/arrowconv"
)

func decodeTestRow(t *testing.T) *columnar.DecodedRow {
	t.Helper()

	// Three logical rows, the middle one null; null rows occupy no payload
	// slots.
	values := []columnar.Value{
		columnar.Int64Value(1), columnar.StringValue("a"),
		columnar.Int64Value(2), columnar.StringValue("b"),
	}
	payload, err := columnar.NewInterleavedBlock(2, values, columnar.Bitmap{})
	require.NoError(t, err)

	var validity columnar.Bitmap
	validity.AppendValues(true, false, true)

	block, err := columnar.NewRowBlock([]int{0, 2, 2, 4}, payload, validity)
	require.NoError(t, err)

	row, err := columnar.DecodeRow(block)
	require.NoError(t, err)
	return row
}

func TestToRecordBatch(t *testing.T) {
	schema := arrow.NewSchema([]arrow.Field{
		{Name: "id", Type: arrow.PrimitiveTypes.Int64},
		{Name: "name", Type: arrow.BinaryTypes.String},
	}, nil)

	batch, err := arrowconv.ToRecordBatch(decodeTestRow(t), schema)
	require.NoError(t, err)
	defer batch.Release()

	require.Equal(t, int64(2), batch.NumRows())
	require.Equal(t, int64(2), batch.NumCols())

	ids := batch.Column(0).(*array.Int64)
	require.Equal(t, int64(1), ids.Value(0))
	require.Equal(t, int64(2), ids.Value(1))

	names := batch.Column(1).(*array.String)
	require.Equal(t, "a", names.Value(0))
	require.Equal(t, "b", names.Value(1))
}

func TestToRecordBatch_fieldNulls(t *testing.T) {
	// A null field value inside a non-null row becomes an Arrow null.
	values := []columnar.Value{
		columnar.Int64Value(1), {},
	}
	var payloadValidity columnar.Bitmap
	payloadValidity.AppendValues(true, false)

	payload, err := columnar.NewInterleavedBlock(2, values, payloadValidity)
	require.NoError(t, err)
	block, err := columnar.NewRowBlock([]int{0, 2}, payload, columnar.Bitmap{})
	require.NoError(t, err)

	row, err := columnar.DecodeRow(block)
	require.NoError(t, err)

	schema := arrow.NewSchema([]arrow.Field{
		{Name: "id", Type: arrow.PrimitiveTypes.Int64},
		{Name: "name", Type: arrow.BinaryTypes.String, Nullable: true},
	}, nil)

	batch, err := arrowconv.ToRecordBatch(row, schema)
	require.NoError(t, err)
	defer batch.Release()

	require.Equal(t, int64(1), batch.NumRows())
	require.True(t, batch.Column(1).IsNull(0))
}

func TestToRecordBatch_schemaMismatch(t *testing.T) {
	schema := arrow.NewSchema([]arrow.Field{
		{Name: "id", Type: arrow.PrimitiveTypes.Int64},
	}, nil)

	_, err := arrowconv.ToRecordBatch(decodeTestRow(t), schema)
	require.Error(t, err)
}

func TestToRecordBatch_unsupportedType(t *testing.T) {
	schema := arrow.NewSchema([]arrow.Field{
		{Name: "id", Type: arrow.PrimitiveTypes.Float64},
		{Name: "name", Type: arrow.BinaryTypes.String},
	}, nil)

	_, err := arrowconv.ToRecordBatch(decodeTestRow(t), schema)
	require.Error(t, err)
}
