package columnar

import "fmt"

// An InterleavedBlock is a flat multi-field payload laid out row-major: slot
// i belongs to field i % FieldCount. Each logical row of the originating row
// block spans FieldCount consecutive slots.
//
// Interleaved payloads may be shared and oversized relative to any one row
// block referencing them; consumers address them through sub-ranges.
type InterleavedBlock struct {
	fieldCount int
	values     []Value
	validity   Bitmap
}

var _ Block = (*InterleavedBlock)(nil)

// NewInterleavedBlock returns a new InterleavedBlock over values with the
// given field count. The number of values must be a multiple of fieldCount.
// The validity mask may be empty if no slot is null.
func NewInterleavedBlock(fieldCount int, values []Value, validity Bitmap) (*InterleavedBlock, error) {
	if fieldCount <= 0 {
		return nil, fmt.Errorf("field count must be positive: got=%d", fieldCount)
	}
	if len(values)%fieldCount != 0 {
		return nil, fmt.Errorf("values not aligned to field count: got=%d values, %d fields", len(values), fieldCount)
	}
	if validity.Len() != 0 && validity.Len() != len(values) {
		return nil, fmt.Errorf("validity length mismatch: got=%d want=%d", validity.Len(), len(values))
	}
	return &InterleavedBlock{fieldCount: fieldCount, values: values, validity: validity}, nil
}

// FieldCount returns the number of fields interleaved in the block.
func (b *InterleavedBlock) FieldCount() int { return b.fieldCount }

// PositionCount implements [Block] and returns the total number of slots
// across all fields.
func (b *InterleavedBlock) PositionCount() int { return len(b.values) }

// IsNull implements [Block].
func (b *InterleavedBlock) IsNull(i int) bool {
	if i < 0 || i >= len(b.values) {
		panic(fmt.Sprintf("columnar.InterleavedBlock.IsNull: position %d out of range [0, %d)", i, len(b.values)))
	}
	return b.validity.Len() != 0 && !b.validity.Get(i)
}

// Kind implements [Block] and returns [KindInterleaved].
func (b *InterleavedBlock) Kind() BlockKind { return KindInterleaved }

// Value implements [ValueReader]. It returns the zero [Value] for null
// slots.
func (b *InterleavedBlock) Value(i int) Value {
	if b.IsNull(i) {
		return Value{}
	}
	return b.values[i]
}

// Validity returns the validity mask of the payload. The returned Bitmap
// may be of length 0 if there are no nulls.
func (b *InterleavedBlock) Validity() Bitmap { return b.validity }

// DecomposeFields splits the slot sub-range [offset, offset+length) into one
// [ValueBlock] per field, in field order. The sub-range must be aligned to
// the field count and fall within the payload.
func (b *InterleavedBlock) DecomposeFields(offset, length int) ([]Block, error) {
	switch {
	case offset < 0 || length < 0 || offset+length > len(b.values):
		return nil, fmt.Errorf("sub-range [%d, %d) out of range [0, %d)", offset, offset+length, len(b.values))
	case offset%b.fieldCount != 0 || length%b.fieldCount != 0:
		return nil, fmt.Errorf("sub-range [%d, %d) not aligned to %d fields", offset, offset+length, b.fieldCount)
	}

	rows := length / b.fieldCount

	fields := make([]Block, b.fieldCount)
	for f := range fields {
		var (
			values   = make([]Value, 0, rows)
			validity Bitmap
		)
		for row := 0; row < rows; row++ {
			slot := offset + row*b.fieldCount + f
			values = append(values, b.values[slot])
			validity.Append(!b.IsNull(slot))
		}

		field, err := NewValueBlock(values, validity)
		if err != nil {
			return nil, fmt.Errorf("decomposing field %d: %w", f, err)
		}
		fields[f] = field
	}

	return fields, nil
}
