// Package blockenc provides a binary wire format for [columnar.Block]s.
//
// A serialized block starts with a fixed header:
//
//	<magic "COLB"> <version> <compression>
//
// followed by one recursively-encoded block:
//
//	block         := <uvarint(kind)> <body>
//	body(value)       := <values>
//	body(interleaved) := <uvarint(field-count)> <values>
//	body(row)         := <uvarint(rows)> <presence> <offsets> <block(payload)>
//	body(dictionary)  := <uvarint(positions)> <uvarint(id)...> <block(dictionary)>
//	body(run_length)  := <uvarint(count)> <block(value)>
//
// Leaf values are stored as a presence bitmap plus a payload of the non-null
// values:
//
//	values   := <uvarint(rows)> <presence> <payload>
//	presence := <uvarint(size)> <bitmap bytes>           // 1 = valid, uncompressed
//	offsets  := <uvarint(base)> <uvarint(delta)...>      // one delta per row
//	payload  := <uvarint(uncompressed-size)> <uvarint(compressed-size)>
//	            <crc32> <compressed bytes>
//
// The payload concatenates length-prefixed [columnar.Value.MarshalBinary]
// entries and is compressed as a unit with the header's compression type.
// The presence bitmap is always stored uncompressed. The CRC32 (Castagnoli,
// little endian) covers the compressed payload bytes.
package blockenc

import (
	"errors"
	"fmt"
	"hash/crc32"
	"sync"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"
)

// magic identifies serialized block data.
var magic = [4]byte{'C', 'O', 'L', 'B'}

// formatVersion is the current version of the wire format.
const formatVersion byte = 1

// ErrInvalidData is returned by [Decode] when the input is not valid
// serialized block data. Errors from Decode match ErrInvalidData with
// [errors.Is].
var ErrInvalidData = errors.New("invalid block data")

// CompressionType denotes how leaf value payloads are compressed.
type CompressionType byte

// Supported compression types.
const (
	CompressionNone CompressionType = iota
	CompressionSnappy
	CompressionZstd
)

// String returns a human-readable representation of the compression type.
func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionSnappy:
		return "snappy"
	case CompressionZstd:
		return "zstd"
	default:
		return fmt.Sprintf("unknown(%d)", byte(c))
	}
}

var checksumTable = crc32.MakeTable(crc32.Castagnoli)

// getZstdEncoder lazily initializes a global Zstd encoder. It is only safe
// to use EncodeAll concurrently.
var getZstdEncoder = sync.OnceValues(func() (*zstd.Encoder, error) {
	// Using a concurrency of 0 will use GOMAXPROCS workers.
	return zstd.NewWriter(nil, zstd.WithEncoderConcurrency(0))
})

// getZstdDecoder lazily initializes a global Zstd decoder. It is only safe
// to use DecodeAll concurrently.
var getZstdDecoder = sync.OnceValues(func() (*zstd.Decoder, error) {
	return zstd.NewReader(nil, zstd.WithDecoderConcurrency(0))
})

func compress(data []byte, compression CompressionType) ([]byte, error) {
	switch compression {
	case CompressionNone:
		return data, nil

	case CompressionSnappy:
		return snappy.Encode(nil, data), nil

	case CompressionZstd:
		zw, err := getZstdEncoder()
		if err != nil {
			return nil, err
		}
		return zw.EncodeAll(data, nil), nil

	default:
		return nil, fmt.Errorf("unknown compression type %s", compression)
	}
}

func decompress(data []byte, uncompressedSize int, compression CompressionType) ([]byte, error) {
	switch compression {
	case CompressionNone:
		if len(data) != uncompressedSize {
			return nil, fmt.Errorf("uncompressed payload size mismatch: got=%d want=%d", len(data), uncompressedSize)
		}
		return data, nil

	case CompressionSnappy:
		return snappy.Decode(nil, data)

	case CompressionZstd:
		zr, err := getZstdDecoder()
		if err != nil {
			return nil, err
		}
		// We use DecodeAll which supports concurrent calls with the same
		// decoder, unlike Decode.
		return zr.DecodeAll(data, make([]byte, 0, uncompressedSize))

	default:
		return nil, fmt.Errorf("unknown compression type %s", compression)
	}
}
