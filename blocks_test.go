package columnar_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quicklake/columnar"
)

func TestInterleavedBlock_DecomposeFields(t *testing.T) {
	values := []columnar.Value{
		columnar.Int64Value(1), columnar.StringValue("a"),
		columnar.Int64Value(2), columnar.StringValue("b"),
		columnar.Int64Value(3), columnar.StringValue("c"),
	}
	block, err := columnar.NewInterleavedBlock(2, values, columnar.Bitmap{})
	require.NoError(t, err)

	t.Run("full range", func(t *testing.T) {
		fields, err := block.DecomposeFields(0, 6)
		require.NoError(t, err)
		require.Len(t, fields, 2)
		require.Equal(t, 3, fields[0].PositionCount())
		require.Equal(t, 3, fields[1].PositionCount())
	})

	t.Run("sub-range", func(t *testing.T) {
		fields, err := block.DecomposeFields(2, 2)
		require.NoError(t, err)
		require.Equal(t, 1, fields[0].PositionCount())
		require.Equal(t, int64(2), fields[0].(columnar.ValueReader).Value(0).Int64())
		require.Equal(t, "b", fields[1].(columnar.ValueReader).Value(0).String())
	})

	t.Run("empty range", func(t *testing.T) {
		fields, err := block.DecomposeFields(0, 0)
		require.NoError(t, err)
		require.Len(t, fields, 2)
		require.Equal(t, 0, fields[0].PositionCount())
	})

	t.Run("out of range", func(t *testing.T) {
		_, err := block.DecomposeFields(4, 4)
		require.Error(t, err)
	})

	t.Run("unaligned", func(t *testing.T) {
		_, err := block.DecomposeFields(1, 2)
		require.Error(t, err)
	})
}

func TestNewInterleavedBlock_unaligned(t *testing.T) {
	_, err := columnar.NewInterleavedBlock(2, []columnar.Value{columnar.Int64Value(1)}, columnar.Bitmap{})
	require.Error(t, err)
}

func TestNewRowBlock_offsets(t *testing.T) {
	payload, err := columnar.NewInterleavedBlock(1, nil, columnar.Bitmap{})
	require.NoError(t, err)

	_, err = columnar.NewRowBlock(nil, payload, columnar.Bitmap{})
	require.Error(t, err)

	_, err = columnar.NewRowBlock([]int{0, 2, 1}, payload, columnar.Bitmap{})
	require.Error(t, err)
}

func TestNewDictionaryBlock_idRange(t *testing.T) {
	dictionary := columnar.ValueBlockFromValues(columnar.Int64Value(1), columnar.Int64Value(2))

	_, err := columnar.NewDictionaryBlock(dictionary, []int32{0, 2})
	require.Error(t, err)

	_, err = columnar.NewDictionaryBlock(dictionary, []int32{0, 1})
	require.NoError(t, err)
}

func TestNewRunLengthBlock_value(t *testing.T) {
	_, err := columnar.NewRunLengthBlock(columnar.ValueBlockFromValues(), 3)
	require.Error(t, err)

	_, err = columnar.NewRunLengthBlock(columnar.ValueBlockFromValues(columnar.Int64Value(1), columnar.Int64Value(2)), 3)
	require.Error(t, err)

	block, err := columnar.NewRunLengthBlock(columnar.ValueBlockFromValues(columnar.Int64Value(1)), 3)
	require.NoError(t, err)
	require.Equal(t, 3, block.PositionCount())
	require.False(t, block.IsNull(2))
}
