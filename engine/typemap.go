// Copyright 2025 Magnus Pierre
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package engine

import (
	"math"
	"strconv"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"

	"parvu/table"
)

// MapType maps an Arrow column type onto the host type system. Types without
// a dedicated host representation fall back to string.
func MapType(dt arrow.DataType) table.DataType {
	switch dt.ID() {
	case arrow.INT8, arrow.INT16, arrow.INT32, arrow.INT64,
		arrow.UINT8, arrow.UINT16, arrow.UINT32, arrow.UINT64:
		return table.TypeInt
	case arrow.BOOL:
		return table.TypeBool
	case arrow.FLOAT16, arrow.FLOAT32, arrow.FLOAT64:
		return table.TypeFloat
	case arrow.STRING, arrow.LARGE_STRING:
		return table.TypeString
	case arrow.TIMESTAMP:
		return table.TypeTimestamp
	case arrow.DATE32, arrow.DATE64:
		return table.TypeDate
	case arrow.TIME32, arrow.TIME64:
		return table.TypeTime
	case arrow.DECIMAL128, arrow.DECIMAL256:
		return table.TypeDecimal
	case arrow.BINARY, arrow.LARGE_BINARY:
		return table.TypeBinary
	case arrow.LIST, arrow.LARGE_LIST, arrow.FIXED_SIZE_LIST:
		return table.TypeList
	case arrow.STRUCT:
		return table.TypeStruct
	default:
		return table.TypeString
	}
}

// batchFromRecords drains a record stream into a host batch. The schema is
// taken from the reader so an empty result still carries its columns.
func batchFromRecords(rdr array.RecordReader) (*table.Batch, error) {
	schema := rdr.Schema()
	cols := make([]table.Column, schema.NumFields())
	for i, f := range schema.Fields() {
		cols[i] = table.Column{Name: f.Name, Type: MapType(f.Type)}
	}

	batch := &table.Batch{Columns: cols}
	for rdr.Next() {
		rec := rdr.Record()
		for row := 0; row < int(rec.NumRows()); row++ {
			vals := make([]table.Value, len(cols))
			for col := range cols {
				vals[col] = cellValue(rec.Column(col), row, cols[col].Type)
			}
			batch.Rows = append(batch.Rows, vals)
		}
	}
	if err := rdr.Err(); err != nil {
		return nil, err
	}
	return batch, nil
}

// cellValue converts one Arrow cell to a host value. Null cells keep the
// column's mapped type. Types without a dedicated conversion render through
// the Arrow column's own string formatting.
func cellValue(col arrow.Array, row int, mapped table.DataType) table.Value {
	if col.IsNull(row) {
		return table.NewNullValue(mapped)
	}

	switch arr := col.(type) {
	case *array.Boolean:
		return table.NewValue(arr.Value(row), mapped)
	case *array.Int8:
		return table.NewValue(int64(arr.Value(row)), mapped)
	case *array.Int16:
		return table.NewValue(int64(arr.Value(row)), mapped)
	case *array.Int32:
		return table.NewValue(int64(arr.Value(row)), mapped)
	case *array.Int64:
		return table.NewValue(arr.Value(row), mapped)
	case *array.Uint8:
		return table.NewValue(int64(arr.Value(row)), mapped)
	case *array.Uint16:
		return table.NewValue(int64(arr.Value(row)), mapped)
	case *array.Uint32:
		return table.NewValue(int64(arr.Value(row)), mapped)
	case *array.Uint64:
		v := arr.Value(row)
		if v > math.MaxInt64 {
			return table.NewValue(strconv.FormatUint(v, 10), table.TypeString)
		}
		return table.NewValue(int64(v), mapped)
	case *array.Float32:
		return table.NewValue(float64(arr.Value(row)), mapped)
	case *array.Float64:
		return table.NewValue(arr.Value(row), mapped)
	case *array.String:
		// Value returns a string aliasing the arrow buffer, which the stream
		// invalidates as it advances. Copy before retention.
		return table.NewValue(strings.Clone(arr.Value(row)), mapped)
	case *array.LargeString:
		return table.NewValue(strings.Clone(arr.Value(row)), mapped)
	case *array.Timestamp:
		typ := arr.DataType().(*arrow.TimestampType)
		return table.NewValue(arr.Value(row).ToTime(typ.Unit), mapped)
	case *array.Date32:
		return table.NewValue(arr.Value(row).ToTime(), mapped)
	case *array.Date64:
		return table.NewValue(arr.Value(row).ToTime(), mapped)
	case *array.Time32:
		typ := arr.DataType().(*arrow.Time32Type)
		return table.NewValue(arr.Value(row).ToTime(typ.Unit), mapped)
	case *array.Time64:
		typ := arr.DataType().(*arrow.Time64Type)
		return table.NewValue(arr.Value(row).ToTime(typ.Unit), mapped)
	default:
		return table.NewValue(strings.Clone(col.ValueStr(row)), mapped)
	}
}
