package columnar

import "fmt"

// A Bitmap is an append-oriented sequence of bits. Blocks use Bitmaps as
// validity masks, where a value of 1 indicates that the position at that
// index is valid (not null).
//
// The zero Bitmap is empty and ready for use.
type Bitmap struct {
	words []byte
	len   int
}

// NewBitmap returns a Bitmap of n bits reading from data. The caller must
// not modify data after passing it to NewBitmap. NewBitmap panics if data is
// too short to hold n bits.
func NewBitmap(data []byte, n int) Bitmap {
	if len(data)*8 < n {
		panic(fmt.Sprintf("columnar.NewBitmap: %d bytes cannot hold %d bits", len(data), n))
	}
	return Bitmap{words: data, len: n}
}

// Len returns the number of bits in the Bitmap.
func (b Bitmap) Len() int { return b.len }

// Cap returns the number of bits the Bitmap can hold before growing.
func (b Bitmap) Cap() int { return len(b.words) * 8 }

// Get returns the bit at index i. Get panics if i is out of range.
func (b Bitmap) Get(i int) bool {
	if i < 0 || i >= b.len {
		panic(fmt.Sprintf("columnar.Bitmap.Get: index %d out of range [0, %d)", i, b.len))
	}
	return b.words[i/8]&(1<<(i%8)) != 0
}

// Append appends a single bit to the Bitmap.
func (b *Bitmap) Append(v bool) {
	if b.len == b.Cap() {
		b.words = append(b.words, 0)
	}
	if v {
		b.words[b.len/8] |= 1 << (b.len % 8)
	} else {
		// The target bit may hold stale data when appending past bits that
		// were handed to NewBitmap, so clear it rather than skip the write.
		b.words[b.len/8] &^= 1 << (b.len % 8)
	}
	b.len++
}

// AppendCount appends n copies of v to the Bitmap.
func (b *Bitmap) AppendCount(v bool, n int) {
	for i := 0; i < n; i++ {
		b.Append(v)
	}
}

// AppendValues appends each value in vals to the Bitmap.
func (b *Bitmap) AppendValues(vals ...bool) {
	for _, v := range vals {
		b.Append(v)
	}
}

// Bytes returns the underlying storage of the Bitmap. The returned slice
// must not be modified, and may be of length 0 for an empty Bitmap.
func (b Bitmap) Bytes() []byte { return b.words }

// Count returns the number of bits in the Bitmap equal to v.
func (b Bitmap) Count(v bool) int {
	var set int
	for i := 0; i < b.len; i++ {
		if b.Get(i) {
			set++
		}
	}
	if v {
		return set
	}
	return b.len - set
}
