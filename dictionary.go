package columnar

import "fmt"

// A DictionaryBlock is a [Block] whose positions store indices into a shared
// dictionary block rather than values directly.
type DictionaryBlock struct {
	dictionary Block
	ids        []int32
}

var _ Block = (*DictionaryBlock)(nil)

// NewDictionaryBlock returns a new DictionaryBlock over a dictionary and a
// set of indices into it. The caller must not modify ids after passing them
// to NewDictionaryBlock.
func NewDictionaryBlock(dictionary Block, ids []int32) (*DictionaryBlock, error) {
	for i, id := range ids {
		if id < 0 || int(id) >= dictionary.PositionCount() {
			return nil, fmt.Errorf("ids[%d]=%d out of dictionary range [0, %d)", i, id, dictionary.PositionCount())
		}
	}
	return &DictionaryBlock{dictionary: dictionary, ids: ids}, nil
}

// PositionCount implements [Block] and returns the number of indices.
func (b *DictionaryBlock) PositionCount() int { return len(b.ids) }

// IsNull implements [Block]. A position is null when its dictionary entry is
// null.
func (b *DictionaryBlock) IsNull(i int) bool {
	return b.dictionary.IsNull(int(b.ID(i)))
}

// Kind implements [Block] and returns [KindDictionary].
func (b *DictionaryBlock) Kind() BlockKind { return KindDictionary }

// ID returns the dictionary index stored at position i.
func (b *DictionaryBlock) ID(i int) int32 {
	if i < 0 || i >= len(b.ids) {
		panic(fmt.Sprintf("columnar.DictionaryBlock.ID: position %d out of range [0, %d)", i, len(b.ids)))
	}
	return b.ids[i]
}

// Dictionary returns the shared dictionary block.
func (b *DictionaryBlock) Dictionary() Block { return b.dictionary }

// Value implements [ValueReader] when the dictionary does. Value panics if
// the dictionary is not a [ValueReader].
func (b *DictionaryBlock) Value(i int) Value {
	vr, ok := b.dictionary.(ValueReader)
	if !ok {
		panic(fmt.Sprintf("columnar.DictionaryBlock.Value: dictionary of kind %s is not value-readable", b.dictionary.Kind()))
	}
	return vr.Value(int(b.ID(i)))
}
