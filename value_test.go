package columnar_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quicklake/columnar"
)

func TestValue_MarshalBinary(t *testing.T) {
	tt := []struct {
		name  string
		value columnar.Value
	}{
		{"null", columnar.Value{}},
		{"int64", columnar.Int64Value(-1234)},
		{"uint64", columnar.Uint64Value(1234)},
		{"empty string", columnar.StringValue("")},
		{"string", columnar.StringValue("hello, world!")},
		{"byte array", columnar.ByteArrayValue([]byte{0x01, 0x02, 0x03})},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			b, err := tc.value.MarshalBinary()
			require.NoError(t, err)

			var actual columnar.Value
			require.NoError(t, actual.UnmarshalBinary(b))
			require.Equal(t, tc.value.Type(), actual.Type())
			require.Zero(t, columnar.CompareValues(tc.value, actual))
		})
	}
}

func TestValue_nullSlots(t *testing.T) {
	// Blocks hand out the zero Value for null slots, so the zero Value must
	// look null from every accessor a consumer would reach for.
	block := columnar.ValueBlockFromValues(
		columnar.StringValue("a"),
		columnar.Value{},
		columnar.StringValue("b"),
	)

	require.False(t, block.IsNull(0))
	require.True(t, block.IsNull(1))
	require.False(t, block.IsNull(2))

	null := block.Value(1)
	require.True(t, null.IsNil())
	require.Equal(t, columnar.ValueTypeInvalid, null.Type())
}

func TestCompareValues(t *testing.T) {
	// Nulls order before every non-null value, including the type's zero.
	require.Equal(t, -1, columnar.CompareValues(columnar.Value{}, columnar.Int64Value(0)))
	require.Equal(t, 1, columnar.CompareValues(columnar.Int64Value(0), columnar.Value{}))
	require.Equal(t, 0, columnar.CompareValues(columnar.Value{}, columnar.Value{}))

	require.Equal(t, -1, columnar.CompareValues(columnar.Int64Value(-5), columnar.Int64Value(10)))
	require.Equal(t, 0, columnar.CompareValues(columnar.StringValue("a"), columnar.StringValue("a")))
	require.Equal(t, 1, columnar.CompareValues(columnar.Uint64Value(7), columnar.Uint64Value(3)))
	require.Equal(t, -1, columnar.CompareValues(
		columnar.ByteArrayValue([]byte{0x01}),
		columnar.ByteArrayValue([]byte{0x01, 0x02}),
	))
}
