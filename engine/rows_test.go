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

//go:build !duckdb_arrow

package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"parvu/table"
)

func TestMapSQLType(t *testing.T) {
	tests := []struct {
		name string
		want table.DataType
	}{
		{"TINYINT", table.TypeInt},
		{"BIGINT", table.TypeInt},
		{"UBIGINT", table.TypeInt},
		{"HUGEINT", table.TypeInt},
		{"BOOLEAN", table.TypeBool},
		{"FLOAT", table.TypeFloat},
		{"DOUBLE", table.TypeFloat},
		{"VARCHAR", table.TypeString},
		{"TIMESTAMP", table.TypeTimestamp},
		{"TIMESTAMPTZ", table.TypeTimestamp},
		{"DATE", table.TypeDate},
		{"TIME", table.TypeTime},
		{"BLOB", table.TypeBinary},
		{"DECIMAL(18,3)", table.TypeDecimal},
		{"INTEGER[]", table.TypeList},
		{"STRUCT(a INTEGER)", table.TypeStruct},
		{"SOMETHING_NEW", table.TypeString},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, mapSQLType(tc.name), "type name %s", tc.name)
	}
}

func TestRowCellValue(t *testing.T) {
	v := rowCellValue(nil, table.TypeInt)
	assert.True(t, v.IsNull)
	assert.Equal(t, table.TypeInt, v.Type)

	v = rowCellValue(int32(7), table.TypeInt)
	assert.Equal(t, int64(7), v.Raw)

	v = rowCellValue(float32(1.5), table.TypeFloat)
	assert.Equal(t, 1.5, v.Raw)

	// uint64 beyond the int64 range renders as its decimal string instead
	// of wrapping negative
	v = rowCellValue(uint64(math.MaxUint64), table.TypeInt)
	assert.Equal(t, "18446744073709551615", v.Raw)
	assert.Equal(t, table.TypeString, v.Type)

	v = rowCellValue(uint64(12), table.TypeInt)
	assert.Equal(t, int64(12), v.Raw)
}
