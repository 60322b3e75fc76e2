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

// Package engine binds one data file to a queryable relation inside an
// embedded DuckDB instance and serves pages of the current view without
// materializing whole result sets.
package engine

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"parvu/table"
)

// Reader owns one file's relational state: the immutable base relation
// (a view over the parsed file, named after the virtual table) and the
// query-replaceable current view. All metadata is cached from the current
// view and recomputed whenever it changes.
//
// A Reader's relations are mutated only by its own methods. Callers are
// expected to serialize access (one active worker per dataset); the Reader
// itself holds no locks.
type Reader struct {
	path      string
	tableName string
	pageSize  int

	db     *sql.DB
	tmpCSV string

	baseColumns []string
	columns     []string
	schema      []table.Column
	rowCount    int64

	log *slog.Logger
}

// Open parses the file at path and binds it to tableName. The format is
// chosen by file extension (case-insensitive): .parquet, .csv or .json.
// Load errors always name the failing path.
func Open(ctx context.Context, path, tableName string, pageSize int, log *slog.Logger) (*Reader, error) {
	if pageSize < 1 {
		return nil, ErrInvalidPageSize
	}
	if log == nil {
		log = slog.Default()
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("open %s: not a regular file", path)
	}

	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	// The base and current views are session state; keep a single connection
	// so every statement sees them.
	db.SetMaxOpenConns(1)

	r := &Reader{
		path:      path,
		tableName: tableName,
		pageSize:  pageSize,
		db:        db,
		log:       log,
	}

	log.Info("opening reader", "path", path, "table", tableName, "page_size", pageSize)
	if err := r.ingest(ctx); err != nil {
		r.Close()
		return nil, err
	}
	r.baseColumns = append([]string(nil), r.columns...)
	log.Debug("reader initialized", "columns", r.columns, "rows", r.rowCount)
	return r, nil
}

// viewName is the internal name of the current (query-replaceable) view.
func (r *Reader) viewName() string {
	return r.tableName + "__view"
}

// Query executes sqlText against the base relation bound to the virtual table
// name and, on success, replaces the current view wholesale and recomputes
// metadata. On failure the previous view stays in place: DuckDB rolls back a
// failing CREATE OR REPLACE statement. Errors carry the offending query text.
func (r *Reader) Query(ctx context.Context, sqlText string) error {
	body := strings.TrimRight(strings.TrimSpace(sqlText), ";")
	stmt := "CREATE OR REPLACE VIEW " + quoteIdent(r.viewName()) + " AS " + body
	r.log.Info("executing query", "table", r.tableName, "query", sqlText)
	if _, err := r.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("query %q: %w", sqlText, err)
	}
	if err := r.refresh(ctx); err != nil {
		return fmt.Errorf("query %q: %w", sqlText, err)
	}
	return nil
}

// Reset restores the current view to the base relation and recomputes
// metadata, without re-reading the file.
func (r *Reader) Reset(ctx context.Context) error {
	stmt := "CREATE OR REPLACE VIEW " + quoteIdent(r.viewName()) +
		" AS SELECT * FROM " + quoteIdent(r.tableName)
	if _, err := r.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("reset %s: %w", r.tableName, err)
	}
	if err := r.refresh(ctx); err != nil {
		return fmt.Errorf("reset %s: %w", r.tableName, err)
	}
	return nil
}

// refresh recomputes the cached schema and row count from the current view.
// The count is an exact aggregate COUNT(*); the view itself is never
// materialized here.
func (r *Reader) refresh(ctx context.Context) error {
	probe, err := r.queryBatch(ctx, "SELECT * FROM "+quoteIdent(r.viewName())+" LIMIT 0")
	if err != nil {
		return err
	}
	r.schema = probe.Columns
	names := make([]string, len(probe.Columns))
	for i, c := range probe.Columns {
		names[i] = c.Name
	}
	r.columns = names

	var n int64
	row := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+quoteIdent(r.viewName()))
	if err := row.Scan(&n); err != nil {
		return err
	}
	r.rowCount = n
	r.log.Debug("metadata refreshed", "rows", n, "columns", len(names))
	return nil
}

// RowCount returns the exact row count of the current view.
func (r *Reader) RowCount() int64 {
	return r.rowCount
}

// PageSize returns the configured rows-per-page.
func (r *Reader) PageSize() int {
	return r.pageSize
}

// Path returns the path of the backing file.
func (r *Reader) Path() string {
	return r.path
}

// TableName returns the virtual table name SQL text uses for the base
// relation.
func (r *Reader) TableName() string {
	return r.tableName
}

// Columns returns the column names of the current view.
func (r *Reader) Columns() []string {
	return append([]string(nil), r.columns...)
}

// BaseColumns returns the column names of the base relation.
func (r *Reader) BaseColumns() []string {
	return append([]string(nil), r.baseColumns...)
}

// Schema returns the column schema of the current view.
func (r *Reader) Schema() []table.Column {
	return append([]table.Column(nil), r.schema...)
}

// Page returns page n (1-based) of the current view via LIMIT/OFFSET: page n
// covers rows [(n-1)*pageSize, n*pageSize). A page past the end of the data
// is an empty batch carrying the current column schema, not an error.
func (r *Reader) Page(ctx context.Context, n int) (*table.Batch, error) {
	if n < 1 {
		return &table.Batch{Columns: r.Schema(), Page: n}, nil
	}
	offset := int64(n-1) * int64(r.pageSize)
	q := fmt.Sprintf("SELECT * FROM %s LIMIT %d OFFSET %d",
		quoteIdent(r.viewName()), r.pageSize, offset)
	batch, err := r.queryBatch(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("page %d: %w", n, err)
	}
	batch.Page = n
	return batch, nil
}

// UniqueValues returns the distinct values of a column of the current view,
// in ascending order.
func (r *Reader) UniqueValues(ctx context.Context, column string) ([]table.Value, error) {
	if !hasColumn(r.columns, column) {
		return nil, fmt.Errorf("%s: %w", column, table.ErrColumnNotFound)
	}
	q := "SELECT DISTINCT " + quoteIdent(column) + " FROM " + quoteIdent(r.viewName()) + " ORDER BY 1"
	batch, err := r.queryBatch(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("unique values of %s: %w", column, err)
	}
	values := make([]table.Value, 0, batch.NumRows())
	for _, row := range batch.Rows {
		values = append(values, row[0])
	}
	return values, nil
}

// Search matches term as a substring of the column rendered as text, against
// the base relation. The current view is left untouched. LIKE wildcards in
// the term are escaped.
func (r *Reader) Search(ctx context.Context, column, term string, caseSensitive bool) (*table.Batch, error) {
	if !hasColumn(r.baseColumns, column) {
		return nil, fmt.Errorf("%s: %w", column, table.ErrColumnNotFound)
	}
	op := "ILIKE"
	if caseSensitive {
		op = "LIKE"
	}
	pattern := quoteLiteral("%" + escapeLike(term) + "%")
	q := fmt.Sprintf(`SELECT * FROM %s WHERE CAST(%s AS VARCHAR) %s %s ESCAPE '\'`,
		quoteIdent(r.tableName), quoteIdent(column), op, pattern)
	batch, err := r.queryBatch(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("search %s in %s: %w", term, column, err)
	}
	return batch, nil
}

// Close releases the embedded database and any temporary transcoded file.
// Safe to call more than once.
func (r *Reader) Close() error {
	var err error
	if r.db != nil {
		err = r.db.Close()
		r.db = nil
	}
	r.removeTemp()
	return err
}

func hasColumn(columns []string, name string) bool {
	for _, c := range columns {
		if strings.EqualFold(c, name) {
			return true
		}
	}
	return false
}

// quoteIdent quotes a SQL identifier, doubling embedded quotes.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// quoteLiteral quotes a SQL string literal, doubling embedded quotes.
func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// escapeLike escapes LIKE/ILIKE wildcard characters in user input.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}
