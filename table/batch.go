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

package table

import "strings"

// Column describes one column of a batch: its name and mapped host type.
type Column struct {
	Name string
	Type DataType
}

// Batch is one page of rows together with its ordered column schema. Query
// results have no fixed schema, so every batch carries its own. Page indexes
// are 1-based; a batch past the end of the data has zero rows and is valid.
type Batch struct {
	Columns []Column
	Rows    [][]Value
	Page    int
}

// NumRows returns the number of rows in the batch.
func (b *Batch) NumRows() int {
	return len(b.Rows)
}

// NumCols returns the number of columns in the batch schema.
func (b *Batch) NumCols() int {
	return len(b.Columns)
}

// ColumnNames returns the column names in schema order.
func (b *Batch) ColumnNames() []string {
	names := make([]string, len(b.Columns))
	for i, c := range b.Columns {
		names[i] = c.Name
	}
	return names
}

// ColumnIndex returns the index of the named column (case-insensitive).
// Returns ErrColumnNotFound if the batch has no such column.
func (b *Batch) ColumnIndex(name string) (int, error) {
	for i, c := range b.Columns {
		if strings.EqualFold(c.Name, name) {
			return i, nil
		}
	}
	return -1, ErrColumnNotFound
}

// Cell returns the value at the specified row and column.
// Returns ErrInvalidRow or ErrInvalidColumn when out of range.
func (b *Batch) Cell(row, col int) (Value, error) {
	if row < 0 || row >= len(b.Rows) {
		return Value{}, ErrInvalidRow
	}
	if col < 0 || col >= len(b.Columns) {
		return Value{}, ErrInvalidColumn
	}
	return b.Rows[row][col], nil
}

// Row returns all values for the specified row.
// Returns ErrInvalidRow if row is out of range.
func (b *Batch) Row(row int) ([]Value, error) {
	if row < 0 || row >= len(b.Rows) {
		return nil, ErrInvalidRow
	}
	return b.Rows[row], nil
}
