package columnar

import "fmt"

// A ValueBlock is a leaf [Block] storing its values directly.
type ValueBlock struct {
	values   []Value
	validity Bitmap
}

var _ ValueReader = (*ValueBlock)(nil)

// NewValueBlock returns a new ValueBlock from values and a validity mask.
// The validity mask may be empty if no value is null; otherwise its length
// must match len(values). The caller must not modify values after passing
// them to NewValueBlock.
func NewValueBlock(values []Value, validity Bitmap) (*ValueBlock, error) {
	if validity.Len() != 0 && validity.Len() != len(values) {
		return nil, fmt.Errorf("validity length mismatch: got=%d want=%d", validity.Len(), len(values))
	}
	return &ValueBlock{values: values, validity: validity}, nil
}

// ValueBlockFromValues returns a new ValueBlock from values, deriving the
// validity mask from nil values.
func ValueBlockFromValues(values ...Value) *ValueBlock {
	var validity Bitmap
	for _, v := range values {
		validity.Append(!v.IsNil())
	}
	return &ValueBlock{values: values, validity: validity}
}

// PositionCount implements [Block] and returns the number of values.
func (b *ValueBlock) PositionCount() int { return len(b.values) }

// IsNull implements [Block].
func (b *ValueBlock) IsNull(i int) bool {
	if i < 0 || i >= len(b.values) {
		panic(fmt.Sprintf("columnar.ValueBlock.IsNull: position %d out of range [0, %d)", i, len(b.values)))
	}
	return b.validity.Len() != 0 && !b.validity.Get(i)
}

// Kind implements [Block] and returns [KindValue].
func (b *ValueBlock) Kind() BlockKind { return KindValue }

// Value implements [ValueReader]. It returns the zero [Value] for null
// positions.
func (b *ValueBlock) Value(i int) Value {
	if b.IsNull(i) {
		return Value{}
	}
	return b.values[i]
}

// Validity returns the validity mask of the block. The returned Bitmap may
// be of length 0 if there are no nulls.
func (b *ValueBlock) Validity() Bitmap { return b.validity }
