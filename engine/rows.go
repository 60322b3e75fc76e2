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
	"context"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
	"time"

	duckdb "github.com/marcboeker/go-duckdb/v2"

	"parvu/table"
)

// queryBatch runs q through database/sql and converts the rows into a host
// batch. This is the default result path; building with -tags duckdb_arrow
// swaps in the Arrow-native path in arrow.go.
func (r *Reader) queryBatch(ctx context.Context, q string) (*table.Batch, error) {
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	colTypes, err := rows.ColumnTypes()
	if err != nil {
		return nil, err
	}
	cols := make([]table.Column, len(colTypes))
	for i, ct := range colTypes {
		cols[i] = table.Column{Name: ct.Name(), Type: mapSQLType(ct.DatabaseTypeName())}
	}

	batch := &table.Batch{Columns: cols}
	raw := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range raw {
		ptrs[i] = &raw[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		vals := make([]table.Value, len(cols))
		for i := range cols {
			vals[i] = rowCellValue(raw[i], cols[i].Type)
		}
		batch.Rows = append(batch.Rows, vals)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return batch, nil
}

// mapSQLType maps a DuckDB column type name onto the host type system.
// Parameterized names (DECIMAL(18,3), INTEGER[], STRUCT(...)) are matched by
// shape; unknown names fall back to string.
func mapSQLType(name string) table.DataType {
	switch {
	case strings.HasPrefix(name, "DECIMAL"):
		return table.TypeDecimal
	case strings.HasSuffix(name, "[]"):
		return table.TypeList
	case strings.HasPrefix(name, "STRUCT"), strings.HasPrefix(name, "MAP"):
		return table.TypeStruct
	}
	switch name {
	case "TINYINT", "SMALLINT", "INTEGER", "BIGINT",
		"UTINYINT", "USMALLINT", "UINTEGER", "UBIGINT", "HUGEINT":
		return table.TypeInt
	case "BOOLEAN":
		return table.TypeBool
	case "FLOAT", "DOUBLE":
		return table.TypeFloat
	case "TIMESTAMP", "TIMESTAMP_S", "TIMESTAMP_MS", "TIMESTAMP_NS", "TIMESTAMPTZ":
		return table.TypeTimestamp
	case "DATE":
		return table.TypeDate
	case "TIME", "TIMETZ":
		return table.TypeTime
	case "BLOB":
		return table.TypeBinary
	case "LIST", "ARRAY":
		return table.TypeList
	default:
		return table.TypeString
	}
}

// rowCellValue converts one scanned cell to a host value. Integer widths
// normalize to int64; uint64 values beyond the int64 range render as decimal
// strings instead of wrapping negative.
func rowCellValue(v any, mapped table.DataType) table.Value {
	if v == nil {
		return table.NewNullValue(mapped)
	}

	switch x := v.(type) {
	case bool:
		return table.NewValue(x, mapped)
	case int8:
		return table.NewValue(int64(x), mapped)
	case int16:
		return table.NewValue(int64(x), mapped)
	case int32:
		return table.NewValue(int64(x), mapped)
	case int64:
		return table.NewValue(x, mapped)
	case uint8:
		return table.NewValue(int64(x), mapped)
	case uint16:
		return table.NewValue(int64(x), mapped)
	case uint32:
		return table.NewValue(int64(x), mapped)
	case uint64:
		if x > math.MaxInt64 {
			return table.NewValue(strconv.FormatUint(x, 10), table.TypeString)
		}
		return table.NewValue(int64(x), mapped)
	case float32:
		return table.NewValue(float64(x), mapped)
	case float64:
		return table.NewValue(x, mapped)
	case string:
		return table.NewValue(x, mapped)
	case time.Time:
		return table.NewValue(x, mapped)
	case []byte:
		return table.NewValue(append([]byte(nil), x...), mapped)
	case *big.Int:
		return table.NewValue(x.String(), mapped)
	case duckdb.Decimal:
		return table.NewValue(x.Float64(), mapped)
	default:
		return table.NewValue(fmt.Sprintf("%v", x), mapped)
	}
}
