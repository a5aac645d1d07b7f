// Package columnar provides utilities for working with columnar in-memory
// blocks.
//
// A [Block] is an immutable container of logical positions, where each
// position is either null or holds a value. Blocks compose: a block's
// logical positions may be stored directly ([ValueBlock]), as fixed-stride
// windows over a shared interleaved payload ([RowBlock]), as indices into a
// shared dictionary ([DictionaryBlock]), or as a single value repeated a
// fixed number of times ([RunLengthBlock]).
//
// [DecodeRow] unwinds a row-structured block into one null-suppressed block
// per row field plus a shared null mask.
package columnar

// A Block is an immutable sequence of positions, each of which is either
// null or holds a value.
type Block interface {
	// PositionCount returns the total number of logical positions in the
	// block.
	PositionCount() int

	// IsNull returns true if the position at index i is null. IsNull panics
	// if i is out of range.
	IsNull(i int) bool

	// Kind returns the kind of Block being represented.
	Kind() BlockKind
}

// A ValueReader is a Block whose values can be read positionally. Leaf
// blocks implement ValueReader directly; dictionary and run-length blocks
// implement it when their underlying block does.
type ValueReader interface {
	Block

	// Value returns the value at position i. Value panics if i is out of
	// range, and returns the zero [Value] for null positions.
	Value(i int) Value
}

// BlockKind identifies the concrete encoding of a [Block].
type BlockKind int

const (
	// KindInvalid is an invalid block kind.
	KindInvalid BlockKind = iota

	// KindValue is a leaf block storing values directly.
	KindValue

	// KindInterleaved is a flat multi-field payload, one slot per field per
	// logical row.
	KindInterleaved

	// KindRow is a row-structured block: fixed-stride windows over an
	// interleaved payload.
	KindRow

	// KindDictionary is a block storing indices into a shared dictionary.
	KindDictionary

	// KindRunLength is a single value repeated a fixed number of times.
	KindRunLength
)

// String returns a human-readable representation of the block kind.
func (k BlockKind) String() string {
	switch k {
	case KindValue:
		return "value"
	case KindInterleaved:
		return "interleaved"
	case KindRow:
		return "row"
	case KindDictionary:
		return "dictionary"
	case KindRunLength:
		return "run_length"
	default:
		return "invalid"
	}
}
