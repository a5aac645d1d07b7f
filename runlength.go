package columnar

import "fmt"

// A RunLengthBlock is a [Block] holding a single logical value repeated a
// fixed number of times. The value is stored once as a block of exactly one
// position.
type RunLengthBlock struct {
	value Block
	count int
}

var _ Block = (*RunLengthBlock)(nil)

// NewRunLengthBlock returns a new RunLengthBlock repeating value count
// times. value must hold exactly one position.
func NewRunLengthBlock(value Block, count int) (*RunLengthBlock, error) {
	if value.PositionCount() != 1 {
		return nil, fmt.Errorf("run-length value must hold exactly one position: got=%d", value.PositionCount())
	}
	if count < 0 {
		return nil, fmt.Errorf("repeat count must be non-negative: got=%d", count)
	}
	return &RunLengthBlock{value: value, count: count}, nil
}

// PositionCount implements [Block] and returns the repeat count.
func (b *RunLengthBlock) PositionCount() int { return b.count }

// IsNull implements [Block]. Every position shares the nullness of the
// repeated value.
func (b *RunLengthBlock) IsNull(i int) bool {
	if i < 0 || i >= b.count {
		panic(fmt.Sprintf("columnar.RunLengthBlock.IsNull: position %d out of range [0, %d)", i, b.count))
	}
	return b.value.IsNull(0)
}

// Kind implements [Block] and returns [KindRunLength].
func (b *RunLengthBlock) Kind() BlockKind { return KindRunLength }

// RunValue returns the repeated value block.
func (b *RunLengthBlock) RunValue() Block { return b.value }

// Value implements [ValueReader] when the repeated value block does. Value
// panics if the repeated value block is not a [ValueReader].
func (b *RunLengthBlock) Value(i int) Value {
	if i < 0 || i >= b.count {
		panic(fmt.Sprintf("columnar.RunLengthBlock.Value: position %d out of range [0, %d)", i, b.count))
	}
	vr, ok := b.value.(ValueReader)
	if !ok {
		panic(fmt.Sprintf("columnar.RunLengthBlock.Value: value of kind %s is not value-readable", b.value.Kind()))
	}
	return vr.Value(0)
}
