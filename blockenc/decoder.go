package blockenc

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"math"

	"github.com/quicklake/columnar"
)

// maxFieldCount bounds the interleaved field count accepted from the wire.
// Field counts drive allocations during decode and decomposition, so corrupt
// or hostile input must not be able to pick one freely.
const maxFieldCount = 1 << 16

// Decode deserializes a block from data. Decode returns an error matching
// [ErrInvalidData] if data is not in the wire format described in the
// package documentation.
func Decode(data []byte) (columnar.Block, error) {
	block, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidData, err)
	}
	return block, nil
}

func decode(data []byte) (columnar.Block, error) {
	r := &reader{data: data}

	header, err := r.read(len(magic))
	if err != nil {
		return nil, fmt.Errorf("reading magic: %w", err)
	} else if !bytes.Equal(header, magic[:]) {
		return nil, fmt.Errorf("unexpected magic %q", header)
	}

	version, err := r.byte()
	if err != nil {
		return nil, fmt.Errorf("reading version: %w", err)
	} else if version != formatVersion {
		return nil, fmt.Errorf("unsupported format version %d", version)
	}

	cb, err := r.byte()
	if err != nil {
		return nil, fmt.Errorf("reading compression type: %w", err)
	}
	compression := CompressionType(cb)
	switch compression {
	case CompressionNone, CompressionSnappy, CompressionZstd: // valid
	default:
		return nil, fmt.Errorf("unknown compression type %s", compression)
	}

	block, err := readBlock(r, compression)
	if err != nil {
		return nil, err
	}
	if r.off != len(r.data) {
		return nil, fmt.Errorf("%d trailing bytes after block", len(r.data)-r.off)
	}
	return block, nil
}

func readBlock(r *reader, compression CompressionType) (columnar.Block, error) {
	kind, err := r.uvarint()
	if err != nil {
		return nil, fmt.Errorf("reading block kind: %w", err)
	}

	switch kind := columnar.BlockKind(kind); kind {
	case columnar.KindValue:
		values, validity, err := readValues(r, compression)
		if err != nil {
			return nil, err
		}
		return columnar.NewValueBlock(values, validity)

	case columnar.KindInterleaved:
		fieldCount, err := r.uvarint()
		if err != nil {
			return nil, fmt.Errorf("reading field count: %w", err)
		} else if fieldCount == 0 || fieldCount > maxFieldCount {
			return nil, fmt.Errorf("field count %d outside [1, %d]", fieldCount, maxFieldCount)
		}
		values, validity, err := readValues(r, compression)
		if err != nil {
			return nil, err
		}
		return columnar.NewInterleavedBlock(int(fieldCount), values, validity)

	case columnar.KindRow:
		rows, err := r.uvarint()
		if err != nil {
			return nil, fmt.Errorf("reading row count: %w", err)
		}
		validity, err := readPresence(r, int(rows))
		if err != nil {
			return nil, err
		}

		offsets := make([]int, rows+1)
		base, err := r.uvarint()
		if err != nil {
			return nil, fmt.Errorf("reading base offset: %w", err)
		}
		offsets[0] = int(base)
		for i := 1; i < len(offsets); i++ {
			delta, err := r.uvarint()
			if err != nil {
				return nil, fmt.Errorf("reading offset %d: %w", i, err)
			}
			offsets[i] = offsets[i-1] + int(delta)
		}

		payload, err := readBlock(r, compression)
		if err != nil {
			return nil, err
		}
		return columnar.NewRowBlock(offsets, payload, validity)

	case columnar.KindDictionary:
		positions, err := r.uvarint()
		if err != nil {
			return nil, fmt.Errorf("reading position count: %w", err)
		} else if positions > uint64(r.remaining()) {
			// Every id occupies at least one byte.
			return nil, fmt.Errorf("position count %d exceeds %d remaining bytes", positions, r.remaining())
		}

		ids := make([]int32, positions)
		for i := range ids {
			id, err := r.uvarint()
			if err != nil {
				return nil, fmt.Errorf("reading id %d: %w", i, err)
			} else if id > math.MaxInt32 {
				return nil, fmt.Errorf("id %d overflows int32: %d", i, id)
			}
			ids[i] = int32(id)
		}

		dictionary, err := readBlock(r, compression)
		if err != nil {
			return nil, err
		}
		return columnar.NewDictionaryBlock(dictionary, ids)

	case columnar.KindRunLength:
		count, err := r.uvarint()
		if err != nil {
			return nil, fmt.Errorf("reading repeat count: %w", err)
		}

		value, err := readBlock(r, compression)
		if err != nil {
			return nil, err
		}
		return columnar.NewRunLengthBlock(value, int(count))

	default:
		return nil, fmt.Errorf("unsupported block kind %d", kind)
	}
}

// readValues reads a leaf values section: the row count, the presence
// bitmap, and the compressed payload of non-null values. Null positions
// yield the zero [columnar.Value].
func readValues(r *reader, compression CompressionType) ([]columnar.Value, columnar.Bitmap, error) {
	rows, err := r.uvarint()
	if err != nil {
		return nil, columnar.Bitmap{}, fmt.Errorf("reading row count: %w", err)
	}
	validity, err := readPresence(r, int(rows))
	if err != nil {
		return nil, columnar.Bitmap{}, err
	}

	uncompressedSize, err := r.uvarint()
	if err != nil {
		return nil, columnar.Bitmap{}, fmt.Errorf("reading uncompressed size: %w", err)
	}
	compressedSize, err := r.uvarint()
	if err != nil {
		return nil, columnar.Bitmap{}, fmt.Errorf("reading compressed size: %w", err)
	}
	checksum, err := r.uint32()
	if err != nil {
		return nil, columnar.Bitmap{}, fmt.Errorf("reading checksum: %w", err)
	}
	compressed, err := r.read(int(compressedSize))
	if err != nil {
		return nil, columnar.Bitmap{}, fmt.Errorf("reading payload: %w", err)
	}

	if actual := crc32.Checksum(compressed, checksumTable); actual != checksum {
		return nil, columnar.Bitmap{}, fmt.Errorf("invalid CRC32 checksum %x, expected %x", actual, checksum)
	}

	payload, err := decompress(compressed, int(uncompressedSize), compression)
	if err != nil {
		return nil, columnar.Bitmap{}, fmt.Errorf("decompressing payload: %w", err)
	}

	pr := &reader{data: payload}
	values := make([]columnar.Value, rows)
	for i := range values {
		if !validity.Get(i) {
			continue
		}

		size, err := pr.uvarint()
		if err != nil {
			return nil, columnar.Bitmap{}, fmt.Errorf("reading value %d size: %w", i, err)
		}
		data, err := pr.read(int(size))
		if err != nil {
			return nil, columnar.Bitmap{}, fmt.Errorf("reading value %d: %w", i, err)
		}
		if err := values[i].UnmarshalBinary(data); err != nil {
			return nil, columnar.Bitmap{}, fmt.Errorf("decoding value %d: %w", i, err)
		}
	}
	if pr.off != len(pr.data) {
		return nil, columnar.Bitmap{}, fmt.Errorf("%d trailing bytes after values", len(pr.data)-pr.off)
	}

	return values, validity, nil
}

func readPresence(r *reader, rows int) (columnar.Bitmap, error) {
	size, err := r.uvarint()
	if err != nil {
		return columnar.Bitmap{}, fmt.Errorf("reading presence bitmap size: %w", err)
	}
	data, err := r.read(int(size))
	if err != nil {
		return columnar.Bitmap{}, fmt.Errorf("reading presence bitmap: %w", err)
	}
	if len(data)*8 < rows {
		return columnar.Bitmap{}, fmt.Errorf("presence bitmap of %d bytes cannot hold %d rows", len(data), rows)
	}
	return columnar.NewBitmap(data, rows), nil
}

// reader tracks a decode offset into a byte slice.
type reader struct {
	data []byte
	off  int
}

func (r *reader) remaining() int { return len(r.data) - r.off }

func (r *reader) read(n int) ([]byte, error) {
	if n < 0 || r.off+n > len(r.data) {
		return nil, fmt.Errorf("unexpected end of data: need %d bytes, have %d", n, len(r.data)-r.off)
	}
	data := r.data[r.off : r.off+n]
	r.off += n
	return data, nil
}

func (r *reader) byte() (byte, error) {
	data, err := r.read(1)
	if err != nil {
		return 0, err
	}
	return data[0], nil
}

func (r *reader) uvarint() (uint64, error) {
	v, n := binary.Uvarint(r.data[r.off:])
	if n <= 0 {
		return 0, fmt.Errorf("invalid uvarint at offset %d", r.off)
	}
	r.off += n
	return v, nil
}

func (r *reader) uint32() (uint32, error) {
	data, err := r.read(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(data), nil
}
