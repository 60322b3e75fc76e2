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
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parvu/table"
)

func TestMapType(t *testing.T) {
	tests := []struct {
		arrow arrow.DataType
		want  table.DataType
	}{
		{arrow.PrimitiveTypes.Int8, table.TypeInt},
		{arrow.PrimitiveTypes.Int64, table.TypeInt},
		{arrow.PrimitiveTypes.Uint32, table.TypeInt},
		{arrow.FixedWidthTypes.Boolean, table.TypeBool},
		{arrow.PrimitiveTypes.Float32, table.TypeFloat},
		{arrow.PrimitiveTypes.Float64, table.TypeFloat},
		{arrow.BinaryTypes.String, table.TypeString},
		{arrow.BinaryTypes.LargeString, table.TypeString},
		{arrow.FixedWidthTypes.Timestamp_us, table.TypeTimestamp},
		{arrow.FixedWidthTypes.Date32, table.TypeDate},
		{arrow.FixedWidthTypes.Time64us, table.TypeTime},
		{&arrow.Decimal128Type{Precision: 18, Scale: 3}, table.TypeDecimal},
		{arrow.BinaryTypes.Binary, table.TypeBinary},
		{arrow.ListOf(arrow.PrimitiveTypes.Int32), table.TypeList},
		{arrow.StructOf(arrow.Field{Name: "a", Type: arrow.PrimitiveTypes.Int32}), table.TypeStruct},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, MapType(tc.arrow), "arrow type %s", tc.arrow)
	}
}

func TestBatchFromRecords(t *testing.T) {
	schema := arrow.NewSchema([]arrow.Field{
		{Name: "id", Type: arrow.PrimitiveTypes.Int64, Nullable: true},
		{Name: "name", Type: arrow.BinaryTypes.String, Nullable: true},
		{Name: "score", Type: arrow.PrimitiveTypes.Float64, Nullable: true},
	}, nil)

	mem := memory.NewCheckedAllocator(memory.DefaultAllocator)
	defer mem.AssertSize(t, 0)

	bld := array.NewRecordBuilder(mem, schema)
	defer bld.Release()

	bld.Field(0).(*array.Int64Builder).AppendValues([]int64{1, 2, 3}, []bool{true, false, true})
	bld.Field(1).(*array.StringBuilder).AppendValues([]string{"alpha", "beta", "gamma"}, nil)
	bld.Field(2).(*array.Float64Builder).AppendValues([]float64{0.5, 1.25, 0}, []bool{true, true, false})

	rec := bld.NewRecord()
	defer rec.Release()

	rdr, err := array.NewRecordReader(schema, []arrow.Record{rec})
	require.NoError(t, err)
	defer rdr.Release()

	batch, err := batchFromRecords(rdr)
	require.NoError(t, err)

	require.Equal(t, 3, batch.NumRows())
	assert.Equal(t, []string{"id", "name", "score"}, batch.ColumnNames())
	assert.Equal(t, table.TypeInt, batch.Columns[0].Type)
	assert.Equal(t, table.TypeString, batch.Columns[1].Type)
	assert.Equal(t, table.TypeFloat, batch.Columns[2].Type)

	v, err := batch.Cell(0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), v.Raw)
	assert.Equal(t, "1", v.Formatted)

	// a null int cell keeps its integer type
	v, err = batch.Cell(1, 0)
	require.NoError(t, err)
	assert.True(t, v.IsNull)
	assert.Equal(t, table.TypeInt, v.Type)

	v, err = batch.Cell(2, 1)
	require.NoError(t, err)
	assert.Equal(t, "gamma", v.Raw)

	v, err = batch.Cell(1, 2)
	require.NoError(t, err)
	assert.Equal(t, 1.25, v.Raw)
}

func TestBatchValuesOutliveRecords(t *testing.T) {
	schema := arrow.NewSchema([]arrow.Field{
		{Name: "name", Type: arrow.BinaryTypes.String, Nullable: true},
	}, nil)

	bld := array.NewRecordBuilder(memory.DefaultAllocator, schema)
	bld.Field(0).(*array.StringBuilder).AppendValues([]string{"alpha", "beta"}, nil)
	rec := bld.NewRecord()

	rdr, err := array.NewRecordReader(schema, []arrow.Record{rec})
	require.NoError(t, err)

	batch, err := batchFromRecords(rdr)
	require.NoError(t, err)

	// string cells must not alias the arrow buffers: release everything the
	// stream owned, then read the retained values
	rec.Release()
	rdr.Release()
	bld.Release()

	v, err := batch.Cell(0, 0)
	require.NoError(t, err)
	assert.Equal(t, "alpha", v.Raw)
	v, err = batch.Cell(1, 0)
	require.NoError(t, err)
	assert.Equal(t, "beta", v.Raw)
}

func TestOversizedUint64Cell(t *testing.T) {
	schema := arrow.NewSchema([]arrow.Field{
		{Name: "n", Type: arrow.PrimitiveTypes.Uint64, Nullable: true},
	}, nil)

	bld := array.NewRecordBuilder(memory.DefaultAllocator, schema)
	defer bld.Release()
	bld.Field(0).(*array.Uint64Builder).AppendValues(
		[]uint64{7, math.MaxInt64, math.MaxUint64}, nil)
	rec := bld.NewRecord()
	defer rec.Release()

	rdr, err := array.NewRecordReader(schema, []arrow.Record{rec})
	require.NoError(t, err)
	defer rdr.Release()

	batch, err := batchFromRecords(rdr)
	require.NoError(t, err)

	v, err := batch.Cell(0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(7), v.Raw)

	v, err = batch.Cell(1, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64), v.Raw)

	// beyond the int64 range the value renders as its decimal string
	// instead of wrapping negative
	v, err = batch.Cell(2, 0)
	require.NoError(t, err)
	assert.Equal(t, "18446744073709551615", v.Raw)
	assert.Equal(t, "18446744073709551615", v.Formatted)
	assert.Equal(t, table.TypeString, v.Type)
}

func TestBatchFromEmptyStreamKeepsSchema(t *testing.T) {
	schema := arrow.NewSchema([]arrow.Field{
		{Name: "id", Type: arrow.PrimitiveTypes.Int64, Nullable: true},
	}, nil)

	rdr, err := array.NewRecordReader(schema, nil)
	require.NoError(t, err)
	defer rdr.Release()

	batch, err := batchFromRecords(rdr)
	require.NoError(t, err)
	assert.Equal(t, 0, batch.NumRows())
	assert.Equal(t, []string{"id"}, batch.ColumnNames())
}
