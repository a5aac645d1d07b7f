package columnar

import (
	"errors"
	"fmt"
)

// ErrInvalidRowBlock is returned by [DecodeRow] when the input block is
// structurally not a row block: its encoding is unsupported, its payload is
// not in the expected interleaved shape, or a nested layer is corrupt.
// Errors from DecodeRow match ErrInvalidRowBlock with [errors.Is].
var ErrInvalidRowBlock = errors.New("invalid row block")

// A DecodedRow is the columnar decomposition of a row block: one
// null-suppressed [Block] per row field, plus the original block acting as
// the authoritative null mask for the row's logical positions.
//
// Field blocks hold only the values of non-null row positions, in the same
// relative order as their originating rows; every field block's position
// count equals the count of non-null positions in the null mask. A
// DecodedRow is immutable, and all blocks reachable from it must be treated
// as read-only.
type DecodedRow struct {
	nullCheck Block
	fields    []Block
}

// DecodeRow decodes a row block into its columnar form. The input must be a
// [*RowBlock], or a [*DictionaryBlock] or [*RunLengthBlock] stack that
// bottoms out in one; any other input fails with [ErrInvalidRowBlock].
// DecodeRow panics if block is nil.
//
// Decoding never materializes field values behind a dictionary or run-length
// layer: those layers are re-wrapped around the inner decode's field blocks,
// re-shaped to the outer block's null-suppressed positions.
func DecodeRow(block Block) (*DecodedRow, error) {
	if block == nil {
		panic("columnar.DecodeRow: block is nil")
	}

	switch block := block.(type) {
	case *DictionaryBlock:
		return decodeDictionaryRow(block)
	case *RunLengthBlock:
		return decodeRunLengthRow(block)
	case *RowBlock:
		return decodePlainRow(block)
	default:
		return nil, fmt.Errorf("%w: unsupported encoding %s", ErrInvalidRowBlock, block.Kind())
	}
}

// decodePlainRow decodes the plain array-of-interleaved encoding: the
// visible payload sub-range [Offset(0), Offset(PositionCount())) is
// decomposed into one block per field.
//
// Null rows are not dropped here: the upstream encoder never writes payload
// slots for a null row, so the decomposed fields are already
// null-suppressed. That contract is trusted, not re-checked.
func decodePlainRow(block *RowBlock) (*DecodedRow, error) {
	payload, ok := block.Payload().(*InterleavedBlock)
	if !ok {
		return nil, fmt.Errorf("%w: payload of kind %s is not interleaved", ErrInvalidRowBlock, block.Payload().Kind())
	}

	// The payload may be shared and oversized relative to this block; only
	// the span covered by this block's rows is visible.
	var offset, length int
	if block.PositionCount() > 0 {
		offset = block.Offset(0)
		length = block.Offset(block.PositionCount()) - offset
	}

	fields, err := payload.DecomposeFields(offset, length)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRowBlock, err)
	}

	return &DecodedRow{nullCheck: block, fields: fields}, nil
}

// decodeDictionaryRow decodes a dictionary-encoded row block by decoding the
// dictionary itself and re-indexing: dictionary positions are compacted to
// skip null entries, and outer positions are compacted to skip outer nulls.
// Each output field is a new dictionary block sharing the inner decode's
// field block.
func decodeDictionaryRow(block *DictionaryBlock) (*DecodedRow, error) {
	dictionary := block.Dictionary()

	// Build a compacting remap over the dictionary's positions. Null
	// dictionary entries receive no new index; upstream dictionary
	// construction guarantees no live outer index points at one.
	var (
		remap     = make([]int32, dictionary.PositionCount())
		nextIndex int32
	)
	for i := 0; i < dictionary.PositionCount(); i++ {
		if !dictionary.IsNull(i) {
			remap[i] = nextIndex
			nextIndex++
		}
	}

	// Re-index the surviving outer positions through the remap.
	ids := make([]int32, 0, block.PositionCount())
	for i := 0; i < block.PositionCount(); i++ {
		if !block.IsNull(i) {
			ids = append(ids, remap[block.ID(i)])
		}
	}

	inner, err := DecodeRow(dictionary)
	if err != nil {
		return nil, err
	}

	fields := make([]Block, inner.FieldCount())
	for i := range fields {
		field, err := NewDictionaryBlock(inner.Field(i), ids)
		if err != nil {
			return nil, fmt.Errorf("%w: re-indexing field %d: %s", ErrInvalidRowBlock, i, err)
		}
		fields[i] = field
	}

	return &DecodedRow{nullCheck: block, fields: fields}, nil
}

// decodeRunLengthRow decodes a run-length-encoded row block by decoding the
// repeated value and re-wrapping each inner field in a run of the outer
// repeat count. A null repeated row has nothing to repeat, so its inner
// fields pass through unchanged and must already be empty.
func decodeRunLengthRow(block *RunLengthBlock) (*DecodedRow, error) {
	value := block.RunValue()

	inner, err := DecodeRow(value)
	if err != nil {
		return nil, err
	}

	fields := make([]Block, inner.FieldCount())
	for i := range fields {
		innerField := inner.Field(i)

		if value.IsNull(0) {
			if innerField.PositionCount() != 0 {
				return nil, fmt.Errorf("%w: null repeated row has %d values in field %d", ErrInvalidRowBlock, innerField.PositionCount(), i)
			}
			fields[i] = innerField
			continue
		}

		field, err := NewRunLengthBlock(innerField, block.PositionCount())
		if err != nil {
			return nil, fmt.Errorf("%w: repeating field %d: %s", ErrInvalidRowBlock, i, err)
		}
		fields[i] = field
	}

	return &DecodedRow{nullCheck: block, fields: fields}, nil
}

// PositionCount returns the number of logical row positions, including
// nulls.
func (r *DecodedRow) PositionCount() int {
	return r.nullCheck.PositionCount()
}

// IsNull returns true if the row at position i is null.
func (r *DecodedRow) IsNull(i int) bool {
	return r.nullCheck.IsNull(i)
}

// FieldCount returns the number of row fields.
func (r *DecodedRow) FieldCount() int {
	return len(r.fields)
}

// Field returns the null-suppressed block for field i.
func (r *DecodedRow) Field(i int) Block {
	return r.fields[i]
}
