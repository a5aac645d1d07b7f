package columnar

import "fmt"

// A RowBlock is a [Block] whose logical value at each position is a
// multi-field structured value, stored as a window over a shared interleaved
// payload. Position i covers payload slots [Offset(i), Offset(i+1)).
//
// Null rows span zero slots: the upstream encoder never writes payload data
// for a null row. This is an assumed contract; RowBlock does not re-check
// it.
type RowBlock struct {
	offsets  []int
	payload  Block
	validity Bitmap
}

var _ Block = (*RowBlock)(nil)

// NewRowBlock returns a new RowBlock over an interleaved payload. offsets
// must hold one more entry than the number of rows and be monotonically
// non-decreasing. The validity mask may be empty if no row is null.
func NewRowBlock(offsets []int, payload Block, validity Bitmap) (*RowBlock, error) {
	if len(offsets) == 0 {
		return nil, fmt.Errorf("offsets must hold at least one entry")
	}
	for i := 1; i < len(offsets); i++ {
		if offsets[i] < offsets[i-1] {
			return nil, fmt.Errorf("offsets must be monotonically non-decreasing: offsets[%d]=%d < offsets[%d]=%d", i, offsets[i], i-1, offsets[i-1])
		}
	}
	if validity.Len() != 0 && validity.Len() != len(offsets)-1 {
		return nil, fmt.Errorf("validity length mismatch: got=%d want=%d", validity.Len(), len(offsets)-1)
	}
	return &RowBlock{offsets: offsets, payload: payload, validity: validity}, nil
}

// PositionCount implements [Block] and returns the number of logical rows.
func (b *RowBlock) PositionCount() int { return len(b.offsets) - 1 }

// IsNull implements [Block].
func (b *RowBlock) IsNull(i int) bool {
	if i < 0 || i >= b.PositionCount() {
		panic(fmt.Sprintf("columnar.RowBlock.IsNull: position %d out of range [0, %d)", i, b.PositionCount()))
	}
	return b.validity.Len() != 0 && !b.validity.Get(i)
}

// Kind implements [Block] and returns [KindRow].
func (b *RowBlock) Kind() BlockKind { return KindRow }

// Offset returns the payload slot where row i begins. Offset is valid for
// 0 <= i <= PositionCount; Offset(PositionCount()) is the slot one past the
// final row.
func (b *RowBlock) Offset(i int) int {
	if i < 0 || i >= len(b.offsets) {
		panic(fmt.Sprintf("columnar.RowBlock.Offset: position %d out of range [0, %d]", i, len(b.offsets)-1))
	}
	return b.offsets[i]
}

// Payload returns the shared interleaved payload underlying the block.
func (b *RowBlock) Payload() Block { return b.payload }
