package columnar_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quicklake/columnar"
)

func TestBitmap_Append(t *testing.T) {
	var bmap columnar.Bitmap

	require.Equal(t, 0, bmap.Len(), "empty bitmaps should have no length")
	require.Equal(t, 0, bmap.Cap(), "empty bitmaps should have no capacity")

	// Add 20 elements of varying values to bmap; using 20 ensures writes
	// beyond byte boundaries.
	for i := range 20 {
		bmap.Append(i%2 == 0)
		require.Equal(t, i+1, bmap.Len(), "length should match number of appends")
		require.GreaterOrEqual(t, bmap.Cap(), bmap.Len(), "capacity should always be greater or equal to length")
	}

	// Read back all the values and make sure they're still correct.
	for i := range 20 {
		expect := i%2 == 0
		require.Equal(t, expect, bmap.Get(i))
	}
}

func TestBitmap_Append_staleBits(t *testing.T) {
	// Appending past the bits handed to NewBitmap must overwrite whatever the
	// spare bits of the backing bytes hold, even when appending false.
	bmap := columnar.NewBitmap([]byte{0xff}, 4)

	bmap.Append(false)
	require.False(t, bmap.Get(4))

	bmap.Append(true)
	require.True(t, bmap.Get(5))
}

func TestBitmap_AppendCount(t *testing.T) {
	var bmap columnar.Bitmap
	bmap.AppendCount(false, 3)
	bmap.AppendCount(true, 5)

	expect := []bool{false, false, false, true, true, true, true, true}
	for i := range expect {
		require.Equal(t, expect[i], bmap.Get(i), "unexpected value at index %d", i)
	}
}

func TestBitmap_AppendValues(t *testing.T) {
	var bmap columnar.Bitmap
	bmap.AppendValues(false, true, false, false, true)

	expect := []bool{false, true, false, false, true}
	for i := range expect {
		require.Equal(t, expect[i], bmap.Get(i), "unexpected value at index %d", i)
	}
}

func TestBitmap_Count(t *testing.T) {
	var bmap columnar.Bitmap
	bmap.AppendValues(true, false, true, true, false, true, true, true, false)

	require.Equal(t, 6, bmap.Count(true))
	require.Equal(t, 3, bmap.Count(false))
}

func TestBitmap_Bytes_roundtrip(t *testing.T) {
	var bmap columnar.Bitmap
	for i := range 13 {
		bmap.Append(i%3 == 0)
	}

	restored := columnar.NewBitmap(bmap.Bytes(), bmap.Len())
	require.Equal(t, bmap.Len(), restored.Len())
	for i := range bmap.Len() {
		require.Equal(t, bmap.Get(i), restored.Get(i), "unexpected value at index %d", i)
	}
}
