// Package arrowconv converts decoded columnar rows into Apache Arrow record
// batches.
package arrowconv

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	arrowmemory "github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/quicklake/columnar"
)

// ToRecordBatch converts the null-suppressed fields of a [columnar.DecodedRow]
// into an Arrow RecordBatch using the provided schema for the output types.
// The batch holds one row per non-null position of the decoded row; nulls
// inside individual field values are carried over as Arrow nulls.
//
// Supported schema types are INT64, UINT64, STRING, BINARY, and TIMESTAMP.
func ToRecordBatch(row *columnar.DecodedRow, schema *arrow.Schema) (arrow.RecordBatch, error) {
	if schema.NumFields() != row.FieldCount() {
		return nil, fmt.Errorf("schema field count mismatch: got=%d want=%d", schema.NumFields(), row.FieldCount())
	}

	var nrows int64
	if row.FieldCount() > 0 {
		nrows = int64(row.Field(0).PositionCount())
	}

	var arrs []arrow.Array
	for colIdx := range row.FieldCount() {
		field := schema.Field(colIdx)

		srcCol, ok := row.Field(colIdx).(columnar.ValueReader)
		if !ok {
			return nil, fmt.Errorf("field %d of kind %s is not value-readable", colIdx, row.Field(colIdx).Kind())
		}

		arr, err := buildArray(srcCol, field.Type)
		if err != nil {
			return nil, fmt.Errorf("building column %q: %w", field.Name, err)
		}
		arrs = append(arrs, arr)
	}

	return array.NewRecordBatch(schema, arrs, nrows), nil
}

func buildArray(src columnar.ValueReader, dtype arrow.DataType) (arrow.Array, error) {
	switch dtype.ID() {
	case arrow.INT64:
		b := array.NewInt64Builder(arrowmemory.DefaultAllocator)
		defer b.Release()

		for i := 0; i < src.PositionCount(); i++ {
			if src.IsNull(i) {
				b.AppendNull()
				continue
			}
			b.Append(src.Value(i).Int64())
		}
		return b.NewArray(), nil

	case arrow.UINT64:
		b := array.NewUint64Builder(arrowmemory.DefaultAllocator)
		defer b.Release()

		for i := 0; i < src.PositionCount(); i++ {
			if src.IsNull(i) {
				b.AppendNull()
				continue
			}
			b.Append(src.Value(i).Uint64())
		}
		return b.NewArray(), nil

	case arrow.STRING:
		b := array.NewStringBuilder(arrowmemory.DefaultAllocator)
		defer b.Release()

		for i := 0; i < src.PositionCount(); i++ {
			if src.IsNull(i) {
				b.AppendNull()
				continue
			}
			b.Append(src.Value(i).String())
		}
		return b.NewArray(), nil

	case arrow.BINARY:
		b := array.NewBinaryBuilder(arrowmemory.DefaultAllocator, arrow.BinaryTypes.Binary)
		defer b.Release()

		for i := 0; i < src.PositionCount(); i++ {
			if src.IsNull(i) {
				b.AppendNull()
				continue
			}
			b.Append(src.Value(i).ByteArray())
		}
		return b.NewArray(), nil

	case arrow.TIMESTAMP:
		tsType, ok := dtype.(*arrow.TimestampType)
		if !ok {
			return nil, fmt.Errorf("unexpected timestamp type %T", dtype)
		}

		b := array.NewTimestampBuilder(arrowmemory.DefaultAllocator, tsType)
		defer b.Release()

		for i := 0; i < src.PositionCount(); i++ {
			if src.IsNull(i) {
				b.AppendNull()
				continue
			}
			b.Append(arrow.Timestamp(src.Value(i).Int64()))
		}
		return b.NewArray(), nil

	default:
		return nil, fmt.Errorf("unsupported column type: %v", dtype)
	}
}
