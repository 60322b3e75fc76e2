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

// Package dataset pairs a bound source with pagination arithmetic. It is the
// facade the rest of the program talks to: queries, pages, and metadata go
// through the Dataset, never to the engine directly.
package dataset

import (
	"context"
	"log/slog"
	"strings"

	"parvu/engine"
	"parvu/table"
)

// Source is the relational backend of a dataset. *engine.Reader is the
// production implementation.
type Source interface {
	Query(ctx context.Context, sqlText string) error
	Reset(ctx context.Context) error
	Page(ctx context.Context, n int) (*table.Batch, error)
	RowCount() int64
	PageSize() int
	Columns() []string
	BaseColumns() []string
	Schema() []table.Column
	UniqueValues(ctx context.Context, column string) ([]table.Value, error)
	Search(ctx context.Context, column, term string, caseSensitive bool) (*table.Batch, error)
	Close() error
}

// Dataset is one bound file and its current query state.
type Dataset struct {
	src Source
}

// Open binds the file at path to tableName and wraps it in a Dataset.
func Open(ctx context.Context, path, tableName string, pageSize int, log *slog.Logger) (*Dataset, error) {
	src, err := engine.Open(ctx, path, tableName, pageSize, log)
	if err != nil {
		return nil, err
	}
	return &Dataset{src: src}, nil
}

// New wraps an already-open source.
func New(src Source) *Dataset {
	return &Dataset{src: src}
}

// RunQuery replaces the current view with the result of sqlText. An empty or
// whitespace-only query resets the view to the base relation instead.
func (d *Dataset) RunQuery(ctx context.Context, sqlText string) error {
	if strings.TrimSpace(sqlText) == "" {
		return d.src.Reset(ctx)
	}
	return d.src.Query(ctx, sqlText)
}

// Reset restores the current view to the base relation.
func (d *Dataset) Reset(ctx context.Context) error {
	return d.src.Reset(ctx)
}

// Page returns page n (1-based) of the current view.
func (d *Dataset) Page(ctx context.Context, n int) (*table.Batch, error) {
	return d.src.Page(ctx, n)
}

// TotalRows returns the exact row count of the current view.
func (d *Dataset) TotalRows() int64 {
	return d.src.RowCount()
}

// TotalPages returns the number of pages the current view spans, rounding up.
// It is recomputed from the live row count on every call, so it follows query
// changes. An empty view has zero pages.
func (d *Dataset) TotalPages() int {
	rows := d.src.RowCount()
	if rows == 0 {
		return 0
	}
	size := int64(d.src.PageSize())
	return int((rows + size - 1) / size)
}

// PageSize returns the configured rows-per-page.
func (d *Dataset) PageSize() int {
	return d.src.PageSize()
}

// Columns returns the column names of the current view.
func (d *Dataset) Columns() []string {
	return d.src.Columns()
}

// BaseColumns returns the column names of the base relation.
func (d *Dataset) BaseColumns() []string {
	return d.src.BaseColumns()
}

// Schema returns the column schema of the current view.
func (d *Dataset) Schema() []table.Column {
	return d.src.Schema()
}

// UniqueValues returns the distinct values of a column of the current view.
func (d *Dataset) UniqueValues(ctx context.Context, column string) ([]table.Value, error) {
	return d.src.UniqueValues(ctx, column)
}

// Search matches term as a substring of a column of the base relation.
func (d *Dataset) Search(ctx context.Context, column, term string, caseSensitive bool) (*table.Batch, error) {
	return d.src.Search(ctx, column, term, caseSensitive)
}

// Close releases the backing source.
func (d *Dataset) Close() error {
	return d.src.Close()
}
