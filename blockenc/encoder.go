package blockenc

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"

	"github.com/quicklake/columnar"
)

// Encode serializes block into the wire format described in the package
// documentation, compressing leaf value payloads with the given compression
// type.
func Encode(block columnar.Block, compression CompressionType) ([]byte, error) {
	switch compression {
	case CompressionNone, CompressionSnappy, CompressionZstd: // valid
	default:
		return nil, fmt.Errorf("unknown compression type %s", compression)
	}

	buf := append([]byte(nil), magic[:]...)
	buf = append(buf, formatVersion, byte(compression))

	return appendBlock(buf, block, compression)
}

func appendBlock(buf []byte, block columnar.Block, compression CompressionType) ([]byte, error) {
	buf = binary.AppendUvarint(buf, uint64(block.Kind()))

	switch block := block.(type) {
	case *columnar.ValueBlock:
		return appendValues(buf, block, compression)

	case *columnar.InterleavedBlock:
		buf = binary.AppendUvarint(buf, uint64(block.FieldCount()))
		return appendValues(buf, block, compression)

	case *columnar.RowBlock:
		rows := block.PositionCount()
		buf = binary.AppendUvarint(buf, uint64(rows))
		buf = appendPresence(buf, block)

		buf = binary.AppendUvarint(buf, uint64(block.Offset(0)))
		for i := 1; i <= rows; i++ {
			buf = binary.AppendUvarint(buf, uint64(block.Offset(i)-block.Offset(i-1)))
		}

		return appendBlock(buf, block.Payload(), compression)

	case *columnar.DictionaryBlock:
		buf = binary.AppendUvarint(buf, uint64(block.PositionCount()))
		for i := 0; i < block.PositionCount(); i++ {
			buf = binary.AppendUvarint(buf, uint64(block.ID(i)))
		}
		return appendBlock(buf, block.Dictionary(), compression)

	case *columnar.RunLengthBlock:
		buf = binary.AppendUvarint(buf, uint64(block.PositionCount()))
		return appendBlock(buf, block.RunValue(), compression)

	default:
		return nil, fmt.Errorf("unsupported block kind %s", block.Kind())
	}
}

// appendValues appends a leaf values section: the row count, the presence
// bitmap, and the compressed payload of non-null values.
func appendValues(buf []byte, block columnar.ValueReader, compression CompressionType) ([]byte, error) {
	rows := block.PositionCount()
	buf = binary.AppendUvarint(buf, uint64(rows))
	buf = appendPresence(buf, block)

	var payload []byte
	for i := 0; i < rows; i++ {
		if block.IsNull(i) {
			continue
		}

		data, err := block.Value(i).MarshalBinary()
		if err != nil {
			return nil, fmt.Errorf("encoding value %d: %w", i, err)
		}
		payload = binary.AppendUvarint(payload, uint64(len(data)))
		payload = append(payload, data...)
	}

	compressed, err := compress(payload, compression)
	if err != nil {
		return nil, fmt.Errorf("compressing payload: %w", err)
	}

	buf = binary.AppendUvarint(buf, uint64(len(payload)))
	buf = binary.AppendUvarint(buf, uint64(len(compressed)))
	buf = binary.LittleEndian.AppendUint32(buf, crc32.Checksum(compressed, checksumTable))
	return append(buf, compressed...), nil
}

// appendPresence appends a presence bitmap covering every position of block,
// where 1 indicates a non-null position. Presence bitmaps are always stored
// uncompressed.
//
// Blocks exposing their validity mask hand it over directly; other blocks
// have their presence rebuilt position by position.
func appendPresence(buf []byte, block columnar.Block) []byte {
	presence := blockPresence(block)
	buf = binary.AppendUvarint(buf, uint64(len(presence.Bytes())))
	return append(buf, presence.Bytes()...)
}

func blockPresence(block columnar.Block) columnar.Bitmap {
	if masked, ok := block.(interface{ Validity() columnar.Bitmap }); ok {
		if validity := masked.Validity(); validity.Len() == block.PositionCount() {
			return validity
		}
	}

	var presence columnar.Bitmap
	for i := 0; i < block.PositionCount(); i++ {
		presence.Append(!block.IsNull(i))
	}
	return presence
}
